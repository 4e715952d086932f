package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/acme/ticketpanel/internal/api"
	"github.com/acme/ticketpanel/internal/config"
	"github.com/acme/ticketpanel/internal/flag"
	"github.com/acme/ticketpanel/internal/logging"
	"github.com/acme/ticketpanel/internal/server"
	"github.com/acme/ticketpanel/internal/ticket"
	"github.com/acme/ticketpanel/internal/utils"

	"github.com/containeroo/tinyflags"
)

// backendTimeout bounds every call towards the ticket backend.
const backendTimeout = 15 * time.Second

// Run starts the ticketpanel application.
func Run(ctx context.Context, webFS fs.FS, version, commit string, args []string, w io.Writer, getEnv func(string) string) error {
	// Create a new context that listens for interrupt signals
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Parse command-line flags
	flags, err := flag.ParseArgs(version, args, w, getEnv)
	if err != nil {
		if tinyflags.IsHelpRequested(err) || tinyflags.IsVersionRequested(err) {
			fmt.Fprint(w, err.Error()) // nolint:errcheck
			return nil
		}
		return fmt.Errorf("parsing error: %w", err)
	}

	// Setup logger
	logger := logging.SetupLogger(flags.LogFormat, flags.Debug, w)

	logger.Info("Starting ticketpanel",
		"version", version,
		"commit", commit,
	)

	// Load UI config
	cfg, err := config.LoadConfig(flags.Config)
	if err != nil {
		return fmt.Errorf("loading config error: %w", err)
	}
	if err := config.ValidateConfig(&cfg); err != nil {
		return fmt.Errorf("validating config error: %w", err)
	}

	// Setup backend client
	auth, method := api.ResolveAuth(flags.APIBearerToken, flags.APIEmail, flags.APIToken)
	client := api.NewClient(flags.APIURL, auth, flags.APISkipTLSVerify, backendTimeout)

	logger.Debug("backend auth",
		"method", method,
		"header", utils.ObfuscateHeader(utils.GetAuthorizationHeader(auth)),
	)

	// The two stores live for the whole application.
	store := ticket.NewStore()
	users := ticket.NewUserStore()

	// Setup Server and run forever
	router := server.NewRouter(
		webFS,
		client,
		store,
		users,
		cfg,
		logger,
		flags.Debug,
		version,
		flags.RoutePrefix,
	)
	err = server.RunHTTPServer(ctx, router, flags.ListenAddr, logger)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("HTTP server exited with error", "error", err)
	}

	return err
}
