package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vadiminshakov/investorpro/internal"
	"github.com/vadiminshakov/investorpro/internal/domain"
	"github.com/vadiminshakov/investorpro/internal/notify"
	"github.com/vadiminshakov/investorpro/internal/orderintake"
	"github.com/vadiminshakov/investorpro/internal/services/modeswitch"
	"github.com/vadiminshakov/investorpro/internal/services/portfolio"
	"github.com/vadiminshakov/investorpro/internal/services/quotes"
	"github.com/vadiminshakov/investorpro/internal/session"
	"github.com/vadiminshakov/investorpro/internal/storage/accountsnapshots"
	"github.com/vadiminshakov/investorpro/internal/storage/notifications"
	"github.com/vadiminshakov/investorpro/internal/tui"
	"github.com/vadiminshakov/investorpro/internal/web"
)

func (a *app) login(ctx context.Context) error {
	fmt.Fprintln(a.out, tui.Header("SIGN IN"))
	creds, err := tui.LoginForm(ctx)
	if err != nil {
		return err
	}

	user, err := a.session.Login(ctx, creds.Email, creds.Password, creds.Remember)
	if err != nil {
		a.console.Notify(session.FailureMessage(err, "Authentication failed"), domain.NotificationError)
		return reportedError{err}
	}
	a.console.Notify("Welcome, "+displayName(user), domain.NotificationSuccess)
	return nil
}

func (a *app) register(ctx context.Context) error {
	fmt.Fprintln(a.out, tui.Header("CREATE ACCOUNT"))
	creds, err := tui.RegisterForm(ctx)
	if err != nil {
		return err
	}

	user, err := a.session.Register(ctx, creds.Email, creds.Password, creds.FullName)
	if err != nil {
		a.console.Notify(session.FailureMessage(err, "Registration failed"), domain.NotificationError)
		return reportedError{err}
	}
	a.console.Notify("Welcome, "+displayName(user), domain.NotificationSuccess)
	return nil
}

func (a *app) logout() error {
	if err := a.session.Logout(); err != nil {
		return errors.Wrap(err, "failed to clear session")
	}
	a.console.Notify("Logged out", domain.NotificationInfo)
	return nil
}

func (a *app) order(ctx context.Context, args []string) error {
	var in tui.TicketInput
	fs := flag.NewFlagSet("order", flag.ContinueOnError)
	fs.SetOutput(a.out)
	fs.StringVar(&in.Symbol, "symbol", "", "ticker symbol")
	fs.StringVar(&in.Quantity, "qty", "", "number of shares")
	fs.StringVar(&in.Side, "side", domain.SideBuy.String(), "buy or sell")
	fs.StringVar(&in.OrderType, "type", domain.OrderTypeMarket.String(), "market or limit")
	fs.StringVar(&in.LimitPrice, "limit", "", "limit price for limit orders")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if _, err := a.restore(ctx); err != nil {
		return err
	}

	refresher := portfolio.NewRefresher(a.client, a.console, portfolio.WithLogger(a.logger))
	refresher.Refresh(ctx)

	ticket, err := orderintake.NewController(a.client, refresher, a.console,
		orderintake.WithDebounce(a.conf.Debounce),
		orderintake.WithLogger(a.logger))
	if err != nil {
		return err
	}
	defer ticket.Close()

	mode := a.session.Mode()
	complete := in.Symbol != "" && in.Quantity != "" &&
		(in.OrderType != domain.OrderTypeLimit.String() || in.LimitPrice != "")

	var receipt domain.OrderReceipt
	if complete {
		fmt.Fprintf(a.out, "%s %s\n", tui.Header("ORDER"), tui.ModeBadge(mode))
		receipt, err = tui.Place(ctx, a.out, ticket, in, mode, tui.HuhConfirmer{})
	} else {
		receipt, err = tui.RunOrderTicket(ctx, a.out, ticket, mode, in)
	}

	switch {
	case errors.Is(err, orderintake.ErrCancelled):
		a.console.Notify("Order cancelled", domain.NotificationInfo)
		return nil
	case errors.Is(err, tui.ErrTicketIncomplete):
		if !refresher.AccountLoaded() {
			return errors.New("account information is not loaded, order not sent")
		}
		return err
	case err != nil:
		return reportedError{err}
	}

	if receipt.ID != "" {
		fmt.Fprintf(a.out, "order id %s, status %s\n", receipt.ID, receipt.Status)
	}
	return nil
}

func (a *app) dashboard(ctx context.Context) error {
	if _, err := a.restore(ctx); err != nil {
		return err
	}

	noteStore, err := notifications.NewWALStore(a.conf.NotificationDir())
	if err != nil {
		return errors.Wrap(err, "failed to open notification history")
	}
	defer noteStore.Close()

	snapshotStore, err := accountsnapshots.NewWALStore(a.conf.AccountHistoryDir())
	if err != nil {
		return errors.Wrap(err, "failed to open account history")
	}
	defer snapshotStore.Close()

	feed := notify.NewFeed()
	notifier := notify.Multi(feed, notify.NewLogSink(a.logger), notify.NewStoreSink(noteStore, a.logger))

	refresher := portfolio.NewRefresher(a.client, notifier,
		portfolio.WithHistory(snapshotStore, a.session),
		portfolio.WithLogger(a.logger))
	watchlist := quotes.NewWatchlist(a.client, a.conf.Watchlist, notifier, a.logger)

	var (
		server    *web.Server
		webRunner interface{ Start(context.Context) error }
	)
	if a.conf.WebAddr != "" {
		server = web.NewServer(a.conf.WebAddr, snapshotStore, noteStore, nil, a.logger)
		webRunner = server
		if len(a.conf.TLSDomains) > 0 {
			webRunner = autoTLSServer{Server: server, domains: a.conf.TLSDomains, cacheDir: a.conf.TLSCacheDir}
		}
	}

	dash, err := internal.NewDashboard(internal.DashboardConfig{
		AccountRefreshInterval: a.conf.AccountRefreshInterval,
		QuotePollInterval:      a.conf.QuotePollInterval,
	}, a.session, refresher, watchlist, feed, webRunner, a.logger)
	if err != nil {
		return err
	}
	if server != nil {
		server.Summaries = dash
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return dash.Run(gctx)
	})
	g.Go(func() error {
		tui.Watch(gctx, a.out, dash.Summary, feed.Changed(), time.Second)
		return nil
	})

	a.logger.Info("dashboard running", zap.String("web_addr", a.conf.WebAddr))
	return g.Wait()
}

type autoTLSServer struct {
	*web.Server
	domains  []string
	cacheDir string
}

func (s autoTLSServer) Start(ctx context.Context) error {
	return s.StartWithAutoTLS(ctx, s.domains, s.cacheDir)
}

func (a *app) mode(ctx context.Context, args []string) error {
	if _, err := a.restore(ctx); err != nil {
		return err
	}

	if len(args) == 0 {
		fmt.Fprintf(a.out, "current mode: %s\n", tui.ModeBadge(a.session.Mode()))
		accounts, err := a.client.AvailableAccounts(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to list accounts")
		}
		w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
		for _, acc := range accounts {
			status := "not configured"
			if acc.Valid {
				status = "ready"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", acc.Mode, acc.Name, status)
		}
		return w.Flush()
	}

	mode, err := domain.ParseTradingMode(args[0])
	if err != nil {
		return err
	}

	switcher := modeswitch.NewSwitcher(a.client, a.session, a.console, a.logger)
	err = switcher.Switch(ctx, mode, tui.HuhConfirmer{Affirmative: "Yes, switch to live", Negative: "No, stay in paper"})
	switch {
	case errors.Is(err, modeswitch.ErrCancelled):
		return nil
	case err != nil:
		return reportedError{err}
	}
	return nil
}

func (a *app) notes(ctx context.Context, args []string) error {
	if _, err := a.restore(ctx); err != nil {
		return err
	}

	sub := "list"
	if len(args) > 0 {
		sub = args[0]
	}

	switch sub {
	case "list":
		notes, err := a.client.ListNotes(ctx)
		if err != nil {
			return err
		}
		if len(notes) == 0 {
			fmt.Fprintln(a.out, "no notes")
			return nil
		}
		w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
		for _, n := range notes {
			fmt.Fprintf(w, "%s\t%s\t%s\n", n.ID, n.Title, strings.Join(n.Tags, ","))
		}
		return w.Flush()
	case "add":
		note, err := tui.NoteForm(ctx)
		if err != nil {
			return err
		}
		created, err := a.client.CreateNote(ctx, note)
		if err != nil {
			return err
		}
		a.console.Notify("Note saved: "+created.Title, domain.NotificationSuccess)
		return nil
	case "delete":
		if len(args) < 2 {
			return errors.New("usage: notes delete <id>")
		}
		if err := a.client.DeleteNote(ctx, args[1]); err != nil {
			return err
		}
		a.console.Notify("Note deleted", domain.NotificationInfo)
		return nil
	default:
		return errors.Errorf("unknown notes command %q", sub)
	}
}

func (a *app) keys(ctx context.Context, args []string) error {
	if _, err := a.restore(ctx); err != nil {
		return err
	}

	sub := "list"
	if len(args) > 0 {
		sub = args[0]
	}

	switch sub {
	case "list":
		keys, err := a.client.ListKeys(ctx)
		if err != nil {
			return err
		}
		if len(keys) == 0 {
			fmt.Fprintln(a.out, "no API keys registered")
			return nil
		}
		w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
		for _, k := range keys {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", k.ID, k.Provider, k.Environment, k.CreatedAt.Format(time.DateOnly))
		}
		return w.Flush()
	case "add":
		key, err := tui.KeyForm(ctx)
		if err != nil {
			return err
		}
		if err := a.client.AddKey(ctx, key); err != nil {
			return err
		}
		a.console.Notify("API key added for "+key.Environment.String()+" trading", domain.NotificationSuccess)
		return nil
	case "delete":
		if len(args) < 2 {
			return errors.New("usage: keys delete <id>")
		}
		if err := a.client.DeleteKey(ctx, args[1]); err != nil {
			return err
		}
		a.console.Notify("API key deleted", domain.NotificationInfo)
		return nil
	default:
		return errors.Errorf("unknown keys command %q", sub)
	}
}

func (a *app) news(ctx context.Context, args []string) error {
	if _, err := a.restore(ctx); err != nil {
		return err
	}

	sub := "market"
	if len(args) > 0 {
		sub = args[0]
	}

	var (
		articles []domain.NewsArticle
		err      error
	)
	switch sub {
	case "market":
		category := "general"
		if len(args) > 1 {
			category = args[1]
		}
		articles, err = a.client.MarketNews(ctx, category)
	case "watchlist":
		articles, err = a.client.WatchlistNews(ctx)
	case "search":
		if len(args) < 2 {
			return errors.New("usage: news search <query> [category]")
		}
		category := ""
		if len(args) > 2 {
			category = args[2]
		}
		articles, err = a.client.SearchNews(ctx, args[1], category)
	default:
		return errors.Errorf("unknown news command %q", sub)
	}
	if err != nil {
		return err
	}

	if len(articles) == 0 {
		fmt.Fprintln(a.out, "no news")
		return nil
	}
	for _, n := range articles {
		published := time.Unix(n.Datetime, 0).Local().Format("Jan 02 15:04")
		fmt.Fprintf(a.out, "%s  %s (%s)\n  %s\n", published, n.Headline, n.Source, n.URL)
	}
	return nil
}

func (a *app) search(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: search <query>")
	}
	if _, err := a.restore(ctx); err != nil {
		return err
	}

	matches, err := a.client.SearchStocks(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, m := range matches {
		fmt.Fprintf(w, "%s\t%s\n", m.Symbol, m.Description)
	}
	return w.Flush()
}

func (a *app) export(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(a.out)
	output := fs.String("o", "", "output file (default trading_data.<format>)")

	format := "xlsx"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		format, args = args[0], args[1:]
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if format != "xlsx" && format != "csv" {
		return errors.Errorf("unsupported export format %q", format)
	}
	if *output == "" {
		*output = "trading_data." + format
	}

	if _, err := a.restore(ctx); err != nil {
		return err
	}

	data, err := a.client.ExportTradingData(ctx, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(*output, data, 0o644); err != nil {
		return errors.Wrap(err, "failed to write export")
	}
	a.console.Notify(fmt.Sprintf("Exported trading data to %s", *output), domain.NotificationSuccess)
	return nil
}

func displayName(u domain.User) string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Email
}
