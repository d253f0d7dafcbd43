package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Storer defines all public methods available on the Store
type Storer interface {
	// Database
	DB() *sqlx.DB

	// Tenant integration operations
	CreateTenantIntegration(ctx context.Context, params CreateTenantIntegrationParams) (TenantIntegration, error)
	GetTenantIntegrationByProvider(ctx context.Context, tenantID uuid.UUID, provider string) (TenantIntegration, error)
	GetActiveTenantIntegrations(ctx context.Context, tenantID uuid.UUID) ([]TenantIntegration, error)
	UpdateTenantIntegrationStatus(ctx context.Context, tenantID uuid.UUID, provider, status string) (TenantIntegration, error)

	// Ad account operations
	CreateAdAccount(ctx context.Context, params CreateAdAccountParams) (AdAccount, error)
	GetActiveAdAccounts(ctx context.Context, tenantID uuid.UUID, provider string) ([]AdAccount, error)
	UpdateAdAccountStatus(ctx context.Context, accountID uuid.UUID, status string) error

	// Ad insight operations
	UpsertAdInsight(ctx context.Context, params UpsertAdInsightParams) (AdInsight, error)
	GetAdInsights(ctx context.Context, accountID string, since, until time.Time) ([]AdInsight, error)
}
