// Package analytics implements a client for hosted analytics query
// services that run queries asynchronously: a query is submitted by ID,
// polled until it reaches a terminal state, and its result set fetched
// as a separate call.
package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dreams-labs/datacore/pkg/core"
)

// Query engine tiers accepted by the remote service.
const (
	EngineMedium = "medium"
	EngineLarge  = "large"
)

// Default client tuning. The poll floor is the minimum wait between
// status checks; the cap bounds the exponential growth; the timeout
// bounds a whole Execute call.
const (
	DefaultBaseURL   = "https://api.dune.com"
	DefaultPollFloor = 1 * time.Second
	DefaultPollCap   = 30 * time.Second
	DefaultTimeout   = 5 * time.Minute
)

const (
	headerAPIKey    = "X-Dune-API-Key"
	headerRequestID = "X-Request-ID"

	requestTimeout = 30 * time.Second
)

// Config holds analytics client settings.
type Config struct {
	// BaseURL is the service root, e.g. "https://api.dune.com".
	BaseURL string `koanf:"base_url"`
	// APIKey authenticates every request. Required.
	APIKey string `koanf:"api_key"`
	// Engine selects the query engine tier: "medium" or "large".
	Engine string `koanf:"engine"`
	// PollFloor is the minimum wait between status polls.
	PollFloor time.Duration `koanf:"poll_floor"`
	// PollCap bounds the exponential poll interval.
	PollCap time.Duration `koanf:"poll_cap"`
	// Timeout bounds a full Execute (submit, poll, fetch) call.
	Timeout time.Duration `koanf:"timeout"`
}

// Client talks to the remote analytics service. All methods honor the
// passed context and return typed core errors.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

// New builds a Client, applying defaults for unset tuning fields. The
// API key is required; the engine tier must be medium or large.
func New(cfg Config, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.APIKey == "" {
		return nil, core.E(core.KindValidation, "analytics.new", "",
			fmt.Errorf("api_key is required"))
	}
	switch cfg.Engine {
	case "":
		cfg.Engine = EngineMedium
	case EngineMedium, EngineLarge:
	default:
		return nil, core.E(core.KindValidation, "analytics.new", cfg.Engine,
			fmt.Errorf("unknown engine tier (expected %s or %s)", EngineMedium, EngineLarge))
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.PollFloor <= 0 {
		cfg.PollFloor = DefaultPollFloor
	}
	if cfg.PollCap <= 0 {
		cfg.PollCap = DefaultPollCap
	}
	if cfg.PollCap < cfg.PollFloor {
		cfg.PollCap = cfg.PollFloor
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: requestTimeout},
		logger: logger,
	}, nil
}

// doJSON issues one authenticated request and decodes a JSON response
// into out. Non-2xx statuses and transport failures are mapped to typed
// errors; ref names the subject for the error chain.
func (c *Client) doJSON(ctx context.Context, method, path, op, ref string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return core.E(core.KindValidation, op, ref, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return core.E(core.KindValidation, op, ref, err)
	}
	req.Header.Set(headerAPIKey, c.cfg.APIKey)
	req.Header.Set(headerRequestID, uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return classifyTransport(op, ref, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(op, ref, resp); err != nil {
		return err
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return core.E(core.KindTransient, op, ref,
				fmt.Errorf("decoding response: %w", err))
		}
	}
	return nil
}

// classifyTransport maps request transport failures. Context expiry is
// a timeout; network-level failures are transient.
func classifyTransport(op, ref string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return core.E(core.KindTimeout, op, ref, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return core.E(core.KindTransient, op, ref, err)
	}
	return core.E(core.KindTransient, op, ref, err)
}

// checkStatus maps HTTP response codes onto the failure taxonomy.
func checkStatus(op, ref string, resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return core.E(core.KindNotFound, op, ref,
			fmt.Errorf("remote returned %s", resp.Status))
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return core.E(core.KindAccessDenied, op, ref,
			fmt.Errorf("remote returned %s", resp.Status))
	case resp.StatusCode == http.StatusTooManyRequests:
		return core.E(core.KindQuotaExceeded, op, ref,
			fmt.Errorf("remote returned %s", resp.Status))
	case resp.StatusCode >= 500:
		return core.E(core.KindTransient, op, ref,
			fmt.Errorf("remote returned %s", resp.Status))
	}

	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return core.E(core.KindRemoteQuery, op, ref,
		fmt.Errorf("remote returned %s: %s", resp.Status, strings.TrimSpace(string(snippet))))
}
