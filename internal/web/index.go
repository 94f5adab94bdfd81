package web

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>InvestorPro</title>
<style>
body { font-family: -apple-system, Helvetica, Arial, sans-serif; background: #0f1115; color: #e6e6e6; margin: 2rem; }
h1 { font-size: 1.4rem; }
section { margin-bottom: 2rem; }
table { border-collapse: collapse; width: 100%; max-width: 720px; }
td, th { padding: 4px 8px; border-bottom: 1px solid #2a2d34; text-align: left; }
.success { color: #4caf50; }
.error { color: #ef5350; }
.info { color: #64b5f6; }
.muted { color: #888; }
</style>
</head>
<body>
<h1>InvestorPro dashboard</h1>
<section>
  <h2>Summary</h2>
  <div id="summary" class="muted">loading...</div>
</section>
<section>
  <h2>Account history</h2>
  <table><thead><tr><th>time</th><th>mode</th><th>portfolio</th><th>buying power</th><th>cash</th></tr></thead>
  <tbody id="account"></tbody></table>
  <div id="account-empty" class="muted"></div>
</section>
<section>
  <h2>Notifications</h2>
  <ul id="notifications"></ul>
</section>
<script>
function cell(row, text) { const td = document.createElement('td'); td.textContent = text; row.appendChild(td); }

function loadSummary() {
  fetch('/api/summary').then(r => r.json()).then(s => {
    const acc = s.account ? ('portfolio $' + s.account.portfolio_value + ', buying power $' + s.account.buying_power) : 'account not loaded';
    document.getElementById('summary').textContent = s.mode.toUpperCase() + ' | ' + acc + ' | positions ' + s.positions.count + ' | open orders ' + s.open_orders;
  }).catch(() => {});
}
loadSummary();
setInterval(loadSummary, 10000);

const account = new EventSource('/account/stream');
account.addEventListener('account', e => {
  const s = JSON.parse(e.data);
  const row = document.createElement('tr');
  cell(row, new Date(s.ts).toLocaleString());
  cell(row, s.mode);
  cell(row, s.portfolio_value);
  cell(row, s.buying_power);
  cell(row, s.cash);
  document.getElementById('account').prepend(row);
  document.getElementById('account-empty').textContent = '';
});
account.addEventListener('no_data', () => {
  if (!document.getElementById('account').children.length) {
    document.getElementById('account-empty').textContent = 'no snapshots yet';
  }
});

const notes = new EventSource('/notifications/stream');
notes.addEventListener('notification', e => {
  const n = JSON.parse(e.data);
  const li = document.createElement('li');
  li.className = n.kind;
  li.textContent = new Date(n.ts).toLocaleTimeString() + '  ' + n.message;
  document.getElementById('notifications').prepend(li);
});
</script>
</body>
</html>
`
