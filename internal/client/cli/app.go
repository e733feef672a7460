package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/greenhub/internal/client/client"
	"github.com/dmitrijs2005/greenhub/internal/client/config"
	"github.com/dmitrijs2005/greenhub/internal/client/credstore"
	"github.com/dmitrijs2005/greenhub/internal/client/media"
	"github.com/dmitrijs2005/greenhub/internal/client/services"
	"github.com/dmitrijs2005/greenhub/internal/client/session"
	"github.com/dmitrijs2005/greenhub/internal/cryptox"
	"github.com/dmitrijs2005/greenhub/internal/filex"
	"github.com/dmitrijs2005/greenhub/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
)

const deviceKeyFile = "device.key"

// App is the interactive GreenHub client. All screens of the mobile app are
// REPL commands here; the session manager decides which ones are reachable.
type App struct {
	config *config.Config
	log    logging.Logger
	db     *sql.DB

	session   *session.Manager
	products  services.ProductService
	accounts  services.AccountService
	chats     services.ChatSessionService
	assistant services.AssistantService
	metrics   *client.Metrics

	dialLive dialFunc

	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens the local credential database, builds the HTTP clients and
// wires the session manager and feature services.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	dir, err := filex.EnsureDir(c.DataDir)
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	db, err := credstore.OpenDatabase(ctx, c.DBPath(dir))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	secret := []byte(c.StoreSecret)
	if len(secret) == 0 {
		secret, err = cryptox.LoadOrCreateSecret(filepath.Join(dir, deviceKeyFile))
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("device key: %w", err)
		}
	}

	store, err := credstore.NewSQLiteStore(ctx, db, secret, log)
	if err != nil {
		db.Close()
		return nil, err
	}

	a, err := newApp(ctx, c, log, store)
	if err != nil {
		db.Close()
		return nil, err
	}
	a.db = db
	return a, nil
}

// newApp wires everything above the credential store.
func newApp(ctx context.Context, c *config.Config, log logging.Logger, store credstore.Store) (*App, error) {
	metrics, err := client.NewMetrics(prometheus.NewRegistry())
	if err != nil {
		return nil, err
	}

	opts := []client.Option{
		client.WithTimeout(c.RequestTimeout),
		client.WithHeaders(c.ExtraHeaders),
		client.WithLogger(log),
		client.WithMetrics(metrics),
	}
	api, err := client.NewHTTPClient(c.ServerURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("backend client: %w", err)
	}
	ai, err := client.NewHTTPClient(c.AIURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("ai client: %w", err)
	}

	a := &App{
		config:  c,
		log:     log,
		metrics: metrics,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}
	a.dialLive = a.dialRealtime

	a.session = session.New(store, api,
		session.WithLogger(log),
		session.WithNavigator(session.NavigatorFunc(a.navigate)),
		session.WithNotifier(session.NotifierFunc(a.notify)),
	)

	var uploader media.Uploader
	s3, err := media.NewS3Uploader(ctx, c.Media)
	if err != nil {
		log.Warn(ctx, "media uploads disabled", "err", err)
	} else if s3 != nil {
		uploader = s3
	}

	a.products = services.NewProductService(api, a.session)
	a.accounts = services.NewAccountService(api, a.session, uploader)
	a.chats = services.NewChatSessionService(api, a.session)
	a.assistant = services.NewAssistantService(ai, c.AIAgent)
	return a, nil
}

// Run restores the stored session and serves the REPL until the user exits
// or stdin closes. Cancelling ctx stops the loop before the next command.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	printlnFn("Welcome to GreenHub CLI (type 'help' for commands)")

	a.session.Bootstrap(ctx)
	if u, ok := a.session.User(); ok && a.session.Snapshot().Authenticated() {
		printlnFn(fmt.Sprintf("Signed in as %s", u.DisplayName()))
	}

	runREPL(ctx, a, a.status, a.reader)
	return nil
}

// Close releases the local database.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func (a *App) phase() session.Phase {
	return a.session.Snapshot().Phase
}

func (a *App) status() string {
	s := a.session.Snapshot()
	if s.Authenticated() && s.User != nil {
		return s.User.DisplayName()
	}
	return "guest"
}

func (a *App) navigate(r session.Route) {
	a.log.Debug(context.Background(), "navigate", "route", string(r))
	switch r {
	case session.RouteHome:
		printlnFn("Type 'help' to see what you can do.")
	case session.RouteLogin:
		printlnFn("Type 'login' to sign in.")
	}
}

func (a *App) notify(title, message string) {
	printlnFn(fmt.Sprintf("[%s] %s", title, message))
}

// report prints a failed command's user-facing message and logs the cause.
func (a *App) report(ctx context.Context, cmd string, err error) {
	a.log.Error(ctx, "command failed", "cmd", cmd, "err", err)
	printlnFn("Error:", client.UserMessage(err))
}
