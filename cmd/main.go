// Command investorpro is the terminal client of the InvestorPro trading service.
// It signs in, places paper or live orders through a validated order ticket and
// shows a live account dashboard, optionally mirrored to a web page.
//
// Usage:
//
//	investorpro [flags] <command> [args]
//
// Commands:
//
//	login, register, logout
//	order [-symbol S -qty N -side buy|sell -type market|limit -limit P]
//	dashboard
//	mode [paper|live]
//	notes [list|add|delete <id>]
//	keys [list|add|delete <id>]
//	news [market [category]|watchlist|search <query>]
//	search <query>
//	export [xlsx|csv] [-o file]
//
// Environment:
//
//	INVESTORPRO_BACKEND_URL overrides the service address
//	INVESTORPRO_TOKEN       access token used instead of the stored session
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/vadiminshakov/investorpro/config"
)

func main() {
	conf, args, err := config.Parse(os.Args[1:], os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, err := newLogger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(conf, logger, os.Stdout)
	if err != nil {
		logger.Fatal("failed to initialize", zap.Error(err))
	}

	if err := a.run(ctx, args); err != nil {
		if line := errorLine(err); line != "" {
			fmt.Fprintln(os.Stderr, line)
		}
		os.Exit(1)
	}
}

// newLogger keeps the terminal readable: only warnings and above reach stderr.
func newLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if os.Getenv("INVESTORPRO_DEBUG") != "" {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}
