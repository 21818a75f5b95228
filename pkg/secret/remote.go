package secret

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/dreams-labs/datacore/pkg/core"
)

// RemoteProvider resolves secrets from an external secret-management
// service over HTTP. Lookups address
// {endpoint}/v1/projects/{project}/secrets/{name}/versions/{version}.
type RemoteProvider struct {
	endpoint string
	project  string
	version  string
	token    string
	client   *http.Client
	logger   *slog.Logger
}

// NewRemote creates a provider against a remote secret service.
func NewRemote(cfg Config, logger *slog.Logger) (*RemoteProvider, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("remote secret backend requires an endpoint")
	}
	if cfg.Project == "" {
		return nil, fmt.Errorf("remote secret backend requires a project")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	version := cfg.Version
	if version == "" {
		version = "latest"
	}

	return &RemoteProvider{
		endpoint: cfg.Endpoint,
		project:  cfg.Project,
		version:  version,
		token:    cfg.Token,
		client:   &http.Client{Timeout: 30 * time.Second},
		logger:   logger,
	}, nil
}

type remoteSecretResponse struct {
	Value   string `json:"value"`
	Version string `json:"version"`
}

// Get implements Provider.
func (p *RemoteProvider) Get(ctx context.Context, name string) (core.Secret, error) {
	if name == "" {
		return core.Secret{}, core.E(core.KindValidation, "secret.get", "", fmt.Errorf("secret name is empty"))
	}

	u := fmt.Sprintf("%s/v1/projects/%s/secrets/%s/versions/%s",
		p.endpoint, url.PathEscape(p.project), url.PathEscape(name), url.PathEscape(p.version))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return core.Secret{}, fmt.Errorf("secret.get: %w", err)
	}
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return core.Secret{}, core.E(core.KindTransient, "secret.get", name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return core.Secret{}, core.E(core.KindNotFound, "secret.get", name,
			fmt.Errorf("secret not present in project %s", p.project))
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return core.Secret{}, core.E(core.KindAccessDenied, "secret.get", name,
			fmt.Errorf("secret service returned %d", resp.StatusCode))
	case resp.StatusCode == http.StatusTooManyRequests:
		return core.Secret{}, core.E(core.KindQuotaExceeded, "secret.get", name,
			fmt.Errorf("secret service returned 429"))
	case resp.StatusCode >= 500:
		return core.Secret{}, core.E(core.KindTransient, "secret.get", name,
			fmt.Errorf("secret service returned %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return core.Secret{}, fmt.Errorf("secret.get: unexpected status %d", resp.StatusCode)
	}

	var payload remoteSecretResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return core.Secret{}, core.E(core.KindTransient, "secret.get", name,
			fmt.Errorf("malformed secret response: %w", err))
	}

	version := payload.Version
	if version == "" {
		version = p.version
	}

	p.logger.Debug("secret resolved", "name", name, "source", "remote", "version", version)
	return core.Secret{
		Name:    name,
		Value:   payload.Value,
		Source:  "remote",
		Version: version,
	}, nil
}

func init() {
	Register("remote", func(cfg Config, logger *slog.Logger) (Provider, error) {
		return NewRemote(cfg, logger)
	})
}
