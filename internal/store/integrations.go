package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

const sqlCreateTenantIntegration = `
INSERT INTO tenant_integrations (tenant_id, provider, subdomain, journey_map, status)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, tenant_id, provider, subdomain, journey_map, status, created_at, updated_at
`

// CreateTenantIntegrationParams contains the fields for connecting a provider
type CreateTenantIntegrationParams struct {
	TenantID   uuid.UUID
	Provider   string
	Subdomain  *string
	JourneyMap []string
	Status     string
}

// CreateTenantIntegration connects an external provider to a tenant
func (s *Store) CreateTenantIntegration(ctx context.Context, params CreateTenantIntegrationParams) (TenantIntegration, error) {
	var integration TenantIntegration
	err := s.db.GetContext(ctx, &integration, sqlCreateTenantIntegration,
		params.TenantID, params.Provider, params.Subdomain, StringArray(params.JourneyMap), params.Status)
	if err != nil {
		s.logger.Error(ctx, "failed to create tenant integration", err)
		return TenantIntegration{}, fmt.Errorf("failed to create tenant integration: %w", err)
	}
	return integration, nil
}

const sqlGetTenantIntegrationByProvider = `
SELECT id, tenant_id, provider, subdomain, journey_map, status, created_at, updated_at
FROM tenant_integrations
WHERE tenant_id = $1 AND provider = $2
`

// GetTenantIntegrationByProvider retrieves a tenant's integration for one provider
func (s *Store) GetTenantIntegrationByProvider(ctx context.Context, tenantID uuid.UUID, provider string) (TenantIntegration, error) {
	var integration TenantIntegration
	err := s.db.GetContext(ctx, &integration, sqlGetTenantIntegrationByProvider, tenantID, provider)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return TenantIntegration{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get tenant integration", err)
		return TenantIntegration{}, fmt.Errorf("failed to get tenant integration: %w", err)
	}
	return integration, nil
}

const sqlGetActiveTenantIntegrations = `
SELECT id, tenant_id, provider, subdomain, journey_map, status, created_at, updated_at
FROM tenant_integrations
WHERE tenant_id = $1 AND status = 'active'
ORDER BY provider
`

// GetActiveTenantIntegrations retrieves every active integration of a tenant
func (s *Store) GetActiveTenantIntegrations(ctx context.Context, tenantID uuid.UUID) ([]TenantIntegration, error) {
	var integrations []TenantIntegration
	err := s.db.SelectContext(ctx, &integrations, sqlGetActiveTenantIntegrations, tenantID)
	if err != nil {
		s.logger.Error(ctx, "failed to list active tenant integrations", err)
		return nil, fmt.Errorf("failed to list active tenant integrations: %w", err)
	}
	return integrations, nil
}

const sqlUpdateTenantIntegrationStatus = `
UPDATE tenant_integrations
SET status = $3, updated_at = NOW()
WHERE tenant_id = $1 AND provider = $2
RETURNING id, tenant_id, provider, subdomain, journey_map, status, created_at, updated_at
`

// UpdateTenantIntegrationStatus activates or deactivates a provider connection
func (s *Store) UpdateTenantIntegrationStatus(ctx context.Context, tenantID uuid.UUID, provider, status string) (TenantIntegration, error) {
	var integration TenantIntegration
	err := s.db.GetContext(ctx, &integration, sqlUpdateTenantIntegrationStatus, tenantID, provider, status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return TenantIntegration{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to update tenant integration status", err)
		return TenantIntegration{}, fmt.Errorf("failed to update tenant integration status: %w", err)
	}
	return integration, nil
}
