package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/vadiminshakov/investorpro/internal/domain"
	"github.com/vadiminshakov/investorpro/internal/web"
)

// Credentials is the login or registration form result.
type Credentials struct {
	Email    string
	Password string
	FullName string
	Remember bool
}

// LoginForm asks for email, password and remember-me.
func LoginForm(ctx context.Context) (Credentials, error) {
	var c Credentials
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Email").Value(&c.Email).Validate(required("email")),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&c.Password).Validate(required("password")),
			huh.NewConfirm().Title("Remember me?").Value(&c.Remember),
		),
	).RunWithContext(ctx)
	return c, err
}

// RegisterForm asks for the new account details.
func RegisterForm(ctx context.Context) (Credentials, error) {
	var (
		c       Credentials
		confirm string
	)
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Full name").Value(&c.FullName).Validate(required("full name")),
			huh.NewInput().Title("Email").Value(&c.Email).Validate(required("email")),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&c.Password).Validate(required("password")),
			huh.NewInput().Title("Confirm password").EchoMode(huh.EchoModePassword).Value(&confirm).
				Validate(func(s string) error {
					if s != c.Password {
						return fmt.Errorf("passwords do not match")
					}
					return nil
				}),
		),
	).RunWithContext(ctx)
	return c, err
}

// NoteForm asks for a new note. Tags are comma separated.
func NoteForm(ctx context.Context) (domain.Note, error) {
	var (
		note domain.Note
		tags string
	)
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(&note.Title).Validate(required("title")),
			huh.NewText().Title("Content").Value(&note.Content).Validate(required("content")),
			huh.NewInput().Title("Tags").Description("Comma separated").Value(&tags),
		),
	).RunWithContext(ctx)
	if err != nil {
		return domain.Note{}, err
	}
	for _, tag := range strings.Split(tags, ",") {
		note.AddTag(tag)
	}
	return note, nil
}

// KeyForm asks for broker API credentials.
func KeyForm(ctx context.Context) (domain.APIKey, error) {
	key := domain.APIKey{Provider: domain.DefaultKeyProvider}
	environment := domain.TradingModePaper.String()
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Environment").
				Options(
					huh.NewOption("Paper", domain.TradingModePaper.String()),
					huh.NewOption("Live", domain.TradingModeLive.String()),
				).
				Value(&environment),
			huh.NewInput().Title("API key").Value(&key.APIKey).Validate(required("api key")),
			huh.NewInput().Title("Secret key").EchoMode(huh.EchoModePassword).Value(&key.SecretKey).Validate(required("secret key")),
		),
	).RunWithContext(ctx)
	if err != nil {
		return domain.APIKey{}, err
	}
	key.Environment = domain.TradingMode(environment)
	return key, nil
}

// Watch redraws the dashboard on every tick and whenever changed fires, until ctx ends.
func Watch(ctx context.Context, out io.Writer, summary func() web.Summary, changed <-chan struct{}, interval time.Duration) {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	draw := func() {
		clearScreen(out)
		fmt.Fprintln(out, RenderSummary(summary()))
	}

	draw()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			draw()
		case <-changed:
			draw()
		}
	}
}
