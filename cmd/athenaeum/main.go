package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/athenaeumhq/athenaeum/internal/api"
	"github.com/athenaeumhq/athenaeum/internal/auth"
	"github.com/athenaeumhq/athenaeum/internal/config"
	"github.com/athenaeumhq/athenaeum/internal/prefs"
	"github.com/athenaeumhq/athenaeum/internal/session"
	"github.com/athenaeumhq/athenaeum/internal/store"
	"github.com/athenaeumhq/athenaeum/internal/theme"
	"github.com/athenaeumhq/athenaeum/internal/views"
)

const version = "0.1.0"

const usage = `athenaeum - publish and read books from your terminal

Usage:
  athenaeum <command> [arguments]

Account:
  login                      log in and cache the session
  signup                     create an account (email verification required)
  logout                     log out locally and server-side
  forgot                     reset a forgotten password
  passwd                     change your password
  profile                    show your profile
  whoami                     show the cached identity and token expiry

Catalog:
  dashboard                  role landing screen
  books <subcommand>         manage your books (authors)
  review <subcommand>        rate and comment on books (readers)
  download <uuid> <title>    download a published book

Preferences:
  settings [set|reset|delete-account]
                             show or change preferences
  theme <subcommand>         switch mode or accent colour

Other:
  backup [-out <file>]       archive the local data (sessions, preferences)
  restore [-force] <file>    restore a backup archive
  version                    print version
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	// Subcommand dispatch for commands that must not open the store.
	switch os.Args[1] {
	case "version":
		fmt.Println("athenaeum " + version)
		return
	case "backup":
		runBackup(os.Args[2:])
		return
	case "restore":
		runRestore(os.Args[2:])
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	a, err := newApp(ctx, os.Getenv("ATHENAEUM_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "athenaeum: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	if err := a.dispatch(ctx, os.Args[1], os.Args[2:]); err != nil {
		a.fail(err)
	}
}

// app wires the shared client, session, theme, and view layers.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	store   *store.Store
	session *session.Cache
	prefs   *prefs.Store
	themes  *theme.Controller
	client  *api.Client
	flow    *auth.Flow
	views   *views.Views

	stdin *bufio.Scanner
}

func newApp(ctx context.Context, configPath string) (*app, error) {
	v, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	cfg := config.Client(v)

	logger, err := config.NewLogger(v)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	st, err := store.Open(cfg.StorePath())
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	sess := session.New(ctx, st, logger.Named("session"))

	themes, err := theme.NewController(ctx, st, logger.Named("theme"))
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("init theme: %w", err)
	}

	pf := prefs.New(st, logger.Named("prefs"),
		prefs.WithThemeApplier(func(ctx context.Context, mode string) error {
			return themes.Apply(ctx, theme.Mode(mode), false)
		}),
		prefs.WithAccentApplier(func(ctx context.Context, hex string) error {
			return themes.ApplyAccent(ctx, hex)
		}),
	)

	client := api.NewClient(cfg.BaseURL, logger.Named("api"),
		api.WithTimeout(v.GetDuration("api.timeout")),
		api.WithTokenSource(sess),
		api.WithUnauthorizedHandler(func() {
			// Session is gone server-side; drop it locally so the next
			// command starts at login.
			if err := sess.Clear(context.Background()); err != nil {
				logger.Warn("clearing stale session failed", zap.Error(err))
			}
			fmt.Fprintln(os.Stderr, "Session expired. Please log in again.")
		}),
	)

	a := &app{
		cfg:     cfg,
		logger:  logger,
		store:   st,
		session: sess,
		prefs:   pf,
		themes:  themes,
		client:  client,
		flow:    auth.NewFlow(client, sess, logger.Named("auth")),
		stdin:   bufio.NewScanner(os.Stdin),
	}
	a.views = views.New(client, sess, pf, themes, logger.Named("views"))
	return a, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("closing store failed", zap.Error(err))
	}
	_ = a.logger.Sync()
}

func (a *app) dispatch(ctx context.Context, command string, args []string) error {
	switch command {
	case "login":
		return a.cmdLogin(ctx)
	case "signup":
		return a.cmdSignup(ctx)
	case "logout":
		return a.cmdLogout(ctx)
	case "forgot":
		return a.cmdForgot(ctx)
	case "passwd":
		return a.cmdChangePassword(ctx)
	case "profile":
		return a.cmdProfile(ctx)
	case "whoami":
		return a.cmdWhoami(ctx)
	case "dashboard":
		return a.cmdDashboard(ctx, args)
	case "books":
		return a.cmdBooks(ctx, args)
	case "review":
		return a.cmdReview(ctx, args)
	case "download":
		return a.cmdDownload(ctx, args)
	case "settings":
		return a.cmdSettings(ctx, args)
	case "theme":
		return a.cmdTheme(ctx, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) fail(err error) {
	fmt.Fprintf(os.Stderr, "athenaeum: %v\n", err)
	a.Close()
	os.Exit(1)
}

// prompt reads one trimmed line after printing label.
func (a *app) prompt(label string) string {
	fmt.Print(label)
	if !a.stdin.Scan() {
		return ""
	}
	return strings.TrimSpace(a.stdin.Text())
}

// requireLogin stops commands that need a session before any network call.
func (a *app) requireLogin() error {
	if !a.session.LoggedIn() {
		return fmt.Errorf("not logged in, run: athenaeum login")
	}
	return nil
}
