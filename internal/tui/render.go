package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/investorpro/internal/domain"
	"github.com/vadiminshakov/investorpro/internal/services/chart"
	"github.com/vadiminshakov/investorpro/internal/services/quotes"
	"github.com/vadiminshakov/investorpro/internal/web"
)

// RenderNotifications renders the toast stack, newest last.
func RenderNotifications(notifications []domain.Notification) string {
	if len(notifications) == 0 {
		return ""
	}
	lines := make([]string, 0, len(notifications))
	for _, n := range notifications {
		lines = append(lines, kindStyle(n.Kind).Render(fmt.Sprintf("[%s] %s", n.Kind, n.Message)))
	}
	return strings.Join(lines, "\n")
}

// RenderAccount renders the account overview box.
func RenderAccount(summary web.Summary) string {
	var b strings.Builder

	title := "Account"
	if summary.User != nil && summary.User.FullName != "" {
		title = summary.User.FullName
	}
	fmt.Fprintf(&b, "%s  %s\n", sectionStyle.Render(title), ModeBadge(summary.Mode))

	if summary.Account == nil {
		b.WriteString(mutedStyle.Render("account not loaded"))
		return boxStyle.Render(b.String())
	}

	fmt.Fprintf(&b, "Portfolio value  %s\n", money(summary.Account.PortfolioValue))
	fmt.Fprintf(&b, "Buying power     %s\n", money(summary.Account.BuyingPower))
	fmt.Fprintf(&b, "Cash             %s\n", money(summary.Account.Cash))
	fmt.Fprintf(&b, "Positions        %d (%s, P&L %s)\n",
		summary.Positions.Count,
		money(summary.Positions.TotalMarketValue),
		signed(summary.Positions.TotalUnrealizedPnL))
	fmt.Fprintf(&b, "Open orders      %d", summary.OpenOrders)

	return boxStyle.Render(b.String())
}

// RenderWatchlist renders one line per watched symbol.
func RenderWatchlist(entries []quotes.Entry) string {
	if len(entries) == 0 {
		return mutedStyle.Render("watchlist is empty")
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		switch {
		case e.Quote == nil && e.Error != "":
			lines = append(lines, fmt.Sprintf("%-6s %s", e.Symbol, errorStyle.Render(e.Error)))
		case e.Quote == nil:
			lines = append(lines, fmt.Sprintf("%-6s %s", e.Symbol, mutedStyle.Render("loading...")))
		default:
			q := e.Quote
			change := fmt.Sprintf("%s (%s%%)", signed(q.Change), signed(q.ChangePercent))
			style := successStyle
			if q.Change.IsNegative() {
				style = errorStyle
			}
			line := fmt.Sprintf("%-6s %10s  %s", e.Symbol, money(q.CurrentPrice), style.Render(change))
			if e.Error != "" {
				line += " " + mutedStyle.Render("(stale)")
			}
			lines = append(lines, line)
		}
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

// RenderPnL renders the P&L figures of one symbol.
func RenderPnL(symbol string, pnl chart.PnL) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", sectionStyle.Render(symbol+" P&L"))
	fmt.Fprintf(&b, "Position        %s @ %s\n", pnl.CurrentPosition.String(), money(pnl.AvgBuyPrice))
	fmt.Fprintf(&b, "Realized        %s\n", signed(pnl.RealizedPnL))
	fmt.Fprintf(&b, "Unrealized      %s\n", signed(pnl.UnrealizedPnL))
	fmt.Fprintf(&b, "Total           %s", signed(pnl.TotalPnL))
	return boxStyle.Render(b.String())
}

// RenderIndicators renders EMA and RSI per symbol in watchlist order.
func RenderIndicators(entries []quotes.Entry, indicators map[string]chart.Indicators) string {
	var lines []string
	for _, e := range entries {
		ind, ok := indicators[e.Symbol]
		if !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf("%-6s EMA%d %s  RSI%d %s",
			e.Symbol, chart.DefaultEMAPeriod, ind.EMA.StringFixed(2), chart.DefaultRSIPeriod, ind.RSI.StringFixed(1)))
	}
	return strings.Join(lines, "\n")
}

// RenderSummary renders the full dashboard screen.
func RenderSummary(summary web.Summary) string {
	parts := []string{
		Header("INVESTORPRO"),
		RenderAccount(summary),
		sectionStyle.Render("Watchlist"),
		RenderWatchlist(summary.Watchlist),
	}
	if ind := RenderIndicators(summary.Watchlist, summary.Indicators); ind != "" {
		parts = append(parts, mutedStyle.Render(ind))
	}
	for _, e := range summary.Watchlist {
		if pnl, ok := summary.PnL[e.Symbol]; ok {
			parts = append(parts, RenderPnL(e.Symbol, pnl))
		}
	}
	if n := RenderNotifications(summary.Notifications); n != "" {
		parts = append(parts, n)
	}
	parts = append(parts, mutedStyle.Render("updated "+summary.GeneratedAt.Local().Format("15:04:05")+"  ctrl+c to quit"))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// PrintNotification writes a single styled notification line.
func PrintNotification(w io.Writer, message string, kind domain.NotificationKind) {
	fmt.Fprintln(w, kindStyle(kind).Render(message))
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func signed(d decimal.Decimal) string {
	if d.IsPositive() {
		return "+" + d.StringFixed(2)
	}
	return d.StringFixed(2)
}
