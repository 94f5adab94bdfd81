// Package modeswitch moves the user between paper and live trading.
package modeswitch

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/investorpro/internal/clients"
	"github.com/vadiminshakov/investorpro/internal/domain"
)

// LiveSwitchPrompt is shown before switching to the real-money account.
const LiveSwitchPrompt = "WARNING: You are about to switch to LIVE TRADING mode. " +
	"This will use real money. Are you sure you want to continue?"

const msgSwitchFailed = "Failed to switch trading mode"

// ErrCancelled is returned when the user declines the live switch.
var ErrCancelled = errors.New("mode switch cancelled by user")

type modeService interface {
	SwitchTradingMode(ctx context.Context, mode domain.TradingMode) (domain.ModeSwitchResult, error)
}

type modeHolder interface {
	Mode() domain.TradingMode
	SetMode(mode domain.TradingMode)
}

type notifier interface {
	Notify(message string, kind domain.NotificationKind)
}

type confirmer interface {
	Confirm(prompt string) bool
}

// Switcher changes the server-side trading mode and mirrors it into the session.
type Switcher struct {
	service  modeService
	session  modeHolder
	notifier notifier
	logger   *zap.Logger
}

// NewSwitcher creates a Switcher.
func NewSwitcher(service modeService, session modeHolder, n notifier, logger *zap.Logger) *Switcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Switcher{service: service, session: session, notifier: n, logger: logger}
}

// Switch moves to mode. Switching to live asks for confirmation first; a
// declined prompt returns ErrCancelled without a notification.
func (s *Switcher) Switch(ctx context.Context, mode domain.TradingMode, c confirmer) error {
	if !mode.IsValid() {
		return errors.Errorf("unsupported trading mode: %s", mode)
	}

	if mode == domain.TradingModeLive {
		if c == nil || !c.Confirm(LiveSwitchPrompt) {
			return ErrCancelled
		}
	}

	result, err := s.service.SwitchTradingMode(ctx, mode)
	if err != nil {
		message := clients.Detail(err)
		if message == "" {
			message = msgSwitchFailed
		}
		s.logger.Error("trading mode switch failed", zap.String("mode", mode.String()), zap.Error(err))
		s.notifier.Notify(message, domain.NotificationError)
		return errors.Wrap(err, "switch trading mode")
	}

	if !result.Success {
		message := result.Message
		if message == "" {
			message = msgSwitchFailed
		}
		s.notifier.Notify(message, domain.NotificationError)
		return errors.New(message)
	}

	previous := s.session.Mode()
	s.session.SetMode(mode)
	s.logger.Info("trading mode switched", zap.String("from", previous.String()), zap.String("to", mode.String()))

	message := result.Message
	if message == "" {
		message = "Switched to " + UpperMode(mode) + " trading mode"
	}
	s.notifier.Notify(message, domain.NotificationSuccess)
	return nil
}

// UpperMode returns the mode in upper case.
func UpperMode(mode domain.TradingMode) string {
	switch mode {
	case domain.TradingModeLive:
		return "LIVE"
	case domain.TradingModePaper:
		return "PAPER"
	}
	return string(mode)
}
