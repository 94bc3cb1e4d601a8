package acl

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/brchinacargo-glitch/BRCcSis/internal/adapters/clients"
	"github.com/brchinacargo-glitch/BRCcSis/internal/domain"
	"github.com/brchinacargo-glitch/BRCcSis/internal/platform/logging"
	"github.com/brchinacargo-glitch/BRCcSis/internal/ports"
)

// CompanyClientConfig wires a CompanyClient.
type CompanyClientConfig struct {
	// Client must have its BaseURL pointed at the company registry.
	Client *clients.Client
	Logger *slog.Logger

	// HealthPath is probed by Check. Defaults to /health.
	HealthPath string
}

// CompanyClient resolves provider companies from the external registry.
type CompanyClient struct {
	client     *clients.Client
	logger     *slog.Logger
	healthPath string
}

var (
	_ ports.CompanyDirectory = (*CompanyClient)(nil)
	_ ports.HealthChecker    = (*CompanyClient)(nil)
)

// NewCompanyClient panics without a Client.
func NewCompanyClient(cfg CompanyClientConfig) *CompanyClient {
	if cfg.Client == nil {
		panic("CompanyClient: Client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.HealthPath == "" {
		cfg.HealthPath = "/health"
	}

	return &CompanyClient{
		client:     cfg.Client,
		logger:     logger.With(slog.String("component", "acl.CompanyClient")),
		healthPath: cfg.HealthPath,
	}
}

// GetCompany implements ports.CompanyDirectory.
func (c *CompanyClient) GetCompany(ctx context.Context, id int64) (domain.Company, error) {
	key := strconv.FormatInt(id, 10)
	path := "/companies/" + key
	c.logger.Log(ctx, logging.LevelTrace, "fetching company", slog.String("path", path))

	var env companyEnvelope
	if err := c.client.GetJSON(ctx, path, &env); err != nil {
		mapped := MapClientError(err, "get company", "company", key)
		if domain.IsStorage(mapped) {
			c.logger.WarnContext(ctx, "company registry lookup failed",
				slog.Int64("company_id", id),
				slog.Any("error", err),
			)
		}
		return domain.Company{}, mapped
	}

	company, err := translateCompany(env.payload())
	if err != nil {
		return domain.Company{}, domain.NewStorageError("get company", fmt.Errorf("malformed registry payload: %w", err))
	}
	if company.ID != id {
		return domain.Company{}, domain.NewStorageError("get company",
			fmt.Errorf("registry answered company %d for %d", company.ID, id))
	}

	return company, nil
}

// Name implements ports.HealthChecker.
func (c *CompanyClient) Name() string {
	return c.client.ServiceName()
}

// Check implements ports.HealthChecker. An open circuit is reported without a call.
func (c *CompanyClient) Check(ctx context.Context) error {
	if c.client.CircuitState() == clients.StateOpen {
		return clients.ErrCircuitOpen
	}

	resp, err := c.client.Get(ctx, c.healthPath)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s health returned %d", c.client.ServiceName(), resp.StatusCode)
	}

	return nil
}
