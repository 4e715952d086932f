package flag

import (
	"fmt"
	"io"
	"net"
	"net/url"
	"strings"

	"github.com/acme/ticketpanel/internal/logging"
	"github.com/acme/ticketpanel/internal/server"

	"github.com/containeroo/resolver"
	"github.com/containeroo/tinyflags"
)

// Config holds all application and backend-specific configuration.
type Config struct {
	ListenAddr  string            // HTTP bind address (e.g. ":8080")
	Debug       bool              // Enables debug logging
	LogFormat   logging.LogFormat // Log output format (text or json)
	Config      string            // Path to optional UI config file
	RoutePrefix string            // Canonical path prefix ("" or "/ticketpanel")

	APIURL           *url.URL // Base URL of the ticket backend API (must include /api)
	APIBearerToken   string   // Bearer token for the backend, resolved via env:/file: indirection
	APIEmail         string   // Basic auth email
	APIToken         string   // Basic auth token, resolved via env:/file: indirection
	APISkipTLSVerify bool     // Skip TLS verification towards the backend
}

// ParseArgs parses CLI arguments into Config, handling version/help flags.
func ParseArgs(version string, args []string, out io.Writer, getEnv func(string) string) (Config, error) {
	var cfg Config
	tf := tinyflags.NewFlagSet("ticketpanel", tinyflags.ContinueOnError)
	tf.Version(version)
	tf.SetGetEnvFn(getEnv)
	tf.EnvPrefix("TICKETPANEL")
	tf.SetOutput(out)

	// Backend
	apiURL := tf.String("api-url", "", "Base URL of the ticket backend API (e.g. http://localhost:4200/api)").
		Placeholder("URL").
		Value()
	tf.StringVar(&cfg.APIBearerToken, "api-bearer-token", "", "Bearer token for the backend (supports env: and file: indirection)").Value()
	tf.StringVar(&cfg.APIEmail, "api-email", "", "Basic auth email for the backend").Value()
	tf.StringVar(&cfg.APIToken, "api-token", "", "Basic auth token for the backend (supports env: and file: indirection)").Value()
	tf.BoolVar(&cfg.APISkipTLSVerify, "api-skip-tls-verify", false, "Skip TLS verification towards the backend").Value()

	// Server
	tf.StringVar(&cfg.Config, "config", "", "Path to optional UI config file").Value()

	route := tf.String("route-prefix", "", "Path prefix to mount the app (e.g., /ticketpanel). Empty = root.").
		Finalize(func(input string) string {
			return server.NormalizeRoutePrefix(input) // canonical "" or "/ticketpanel"
		}).
		Placeholder("PATH").
		Value()

	listenAddr := tf.TCPAddr("listen-address", &net.TCPAddr{IP: nil, Port: 8080}, "HTTP server listen address").
		Placeholder("ADDR:PORT").
		Value()

	// Logging
	tf.BoolVar(&cfg.Debug, "debug", false, "Enable debug logging").Value()
	logFormat := tf.String("log-format", "text", "Log format").Choices("text", "json").Short("l").Value()

	// Parse
	if err := tf.Parse(args); err != nil {
		return Config{}, err
	}

	// Post-parse
	cfg.LogFormat = logging.LogFormat(*logFormat)
	cfg.ListenAddr = (*listenAddr).String()
	cfg.RoutePrefix = *route

	u, err := parseAPIURL(*apiURL)
	if err != nil {
		return Config{}, err
	}
	cfg.APIURL = u

	if cfg.APIEmail != "" && !strings.Contains(cfg.APIEmail, "@") {
		return Config{}, fmt.Errorf("email must contain @")
	}

	// Secrets may point elsewhere (env:VAR, file:/path).
	if cfg.APIBearerToken, err = resolveSecret(cfg.APIBearerToken); err != nil {
		return Config{}, fmt.Errorf("resolve api-bearer-token: %w", err)
	}
	if cfg.APIToken, err = resolveSecret(cfg.APIToken); err != nil {
		return Config{}, fmt.Errorf("resolve api-token: %w", err)
	}

	return cfg, nil
}

// parseAPIURL validates the backend base URL and canonicalizes it with a
// trailing slash so relative references resolve under it.
func parseAPIURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("missing required flag: --api-url")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid api-url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid api-url: scheme must be http or https")
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u, nil
}

// resolveSecret resolves env:/file: style indirection in a secret value.
func resolveSecret(value string) (string, error) {
	if value == "" {
		return "", nil
	}
	return resolver.ResolveVariable(value)
}
