package processor

import (
	"context"
	"time"

	"trackflow/internal/hierarchy"
	"trackflow/internal/sources"
	"trackflow/internal/store"

	"github.com/google/uuid"
)

// PipelineFetcher is the CRM-side adapter contract.
type PipelineFetcher interface {
	FetchPipelineHierarchy(ctx context.Context, subdomain string, journeyLabels []string, from, to time.Time) ([]*hierarchy.CampaignNode, error)
	Capabilities() sources.Capabilities
}

// InsightFetcher is the ads-side adapter contract.
type InsightFetcher interface {
	FetchAccountHierarchy(ctx context.Context, accountID string, since, until time.Time) ([]*hierarchy.CampaignNode, error)
	Capabilities() sources.Capabilities
}

// ConfigStore defines the tenant-configuration reads required by
// PerformanceProcessor
type ConfigStore interface {
	GetTenantIntegrationByProvider(ctx context.Context, tenantID uuid.UUID, provider string) (store.TenantIntegration, error)
	GetActiveAdAccounts(ctx context.Context, tenantID uuid.UUID, provider string) ([]store.AdAccount, error)
}
