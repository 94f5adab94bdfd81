package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/investorpro/config"
	"github.com/vadiminshakov/investorpro/internal/clients"
	"github.com/vadiminshakov/investorpro/internal/domain"
	"github.com/vadiminshakov/investorpro/internal/notify"
	"github.com/vadiminshakov/investorpro/internal/session"
	"github.com/vadiminshakov/investorpro/internal/storage/sessionfile"
	"github.com/vadiminshakov/investorpro/internal/tui"
)

var errNotLoggedIn = errors.New("not logged in, run `investorpro login` first")

// reportedError marks a failure the user already saw as a notification.
type reportedError struct {
	error
}

func (e reportedError) Unwrap() error { return e.error }

func errorLine(err error) string {
	var reported reportedError
	if errors.As(err, &reported) {
		return ""
	}
	if detail := clients.Detail(err); detail != "" {
		return detail
	}
	return err.Error()
}

type app struct {
	conf    config.Config
	logger  *zap.Logger
	out     io.Writer
	client  *clients.BackendClient
	session *session.Manager
	console notify.Sink
}

func newApp(conf config.Config, logger *zap.Logger, out io.Writer) (*app, error) {
	client := clients.NewBackendClient(conf.BackendURL,
		clients.WithTimeout(conf.HTTPTimeout),
		clients.WithLogger(logger))

	store, err := sessionfile.NewStore(conf.SessionFile)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open session file")
	}

	return &app{
		conf:    conf,
		logger:  logger,
		out:     out,
		client:  client,
		session: session.NewManager(client, store, conf.Token, logger),
		console: notify.Multi(
			notify.SinkFunc(func(message string, kind domain.NotificationKind) {
				tui.PrintNotification(out, message, kind)
			}),
			notify.NewLogSink(logger),
		),
	}, nil
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.usage()
		return errors.New("no command given")
	}

	command, rest := args[0], args[1:]
	switch command {
	case "login":
		return a.login(ctx)
	case "register":
		return a.register(ctx)
	case "logout":
		return a.logout()
	case "order":
		return a.order(ctx, rest)
	case "dashboard":
		return a.dashboard(ctx)
	case "mode":
		return a.mode(ctx, rest)
	case "notes":
		return a.notes(ctx, rest)
	case "keys":
		return a.keys(ctx, rest)
	case "news":
		return a.news(ctx, rest)
	case "search":
		return a.search(ctx, rest)
	case "export":
		return a.export(ctx, rest)
	case "help", "-h", "--help":
		a.usage()
		return nil
	default:
		a.usage()
		return errors.Errorf("unknown command %q", command)
	}
}

// restore signs in with the stored or environment token.
func (a *app) restore(ctx context.Context) (domain.User, error) {
	user, err := a.session.Restore(ctx)
	if errors.Is(err, session.ErrNotLoggedIn) {
		return domain.User{}, errNotLoggedIn
	}
	return user, err
}

func (a *app) usage() {
	fmt.Fprintln(a.out, strings.TrimSpace(`
usage: investorpro [flags] <command> [args]

commands:
  login                      sign in
  register                   create an account
  logout                     forget the stored session
  order [flags]              place an order (-symbol -qty -side -type -limit)
  dashboard                  live account overview and watchlist
  mode [paper|live]          show or switch the trading mode
  notes [list|add|delete]    manage trading notes
  keys [list|add|delete]     manage broker API keys
  news [market|watchlist|search]
  search <query>             find symbols
  export [xlsx|csv]          download trading data`))
}
