package processor

import (
	"context"
	"errors"
	"sync"
	"time"

	"trackflow/internal/hierarchy"
	"trackflow/internal/observability"
	"trackflow/internal/sources"
	"trackflow/internal/store"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var (
	ErrUnknownSource    = errors.New("unknown data source")
	ErrInvalidDateRange = errors.New("invalid date range")
	ErrNoSourceData     = errors.New("no requested source is available")
)

// PerformanceResult is the unified tree handed to the UI layer, together with
// the stage labels that give the counters their meaning.
type PerformanceResult struct {
	Campaigns   []*hierarchy.CampaignNode `json:"campaigns"`
	StageLabels []string                  `json:"labels"`
}

// PerformanceProcessor resolves a tenant's provider configuration, fetches
// the requested sources and reconciles them into one campaign tree.
type PerformanceProcessor struct {
	kommo  PipelineFetcher
	meta   InsightFetcher
	store  ConfigStore
	logger *observability.Logger
}

func New(kommo PipelineFetcher, meta InsightFetcher, store ConfigStore, logger *observability.Logger) PerformanceProcessor {
	return PerformanceProcessor{
		kommo:  kommo,
		meta:   meta,
		store:  store,
		logger: logger,
	}
}

// providerData is one provider's contribution to a fetch.
type providerData struct {
	nodes  []*hierarchy.CampaignNode
	labels []string
	active bool
	err    error
}

// FetchCampaignPerformance builds the campaign tree for one tenant, source
// selection and date range.
//
// Error policy, applied uniformly: a provider that is not configured for the
// tenant yields an empty dataset and is only logged. A transport failure in
// the sole requested provider propagates. In a hybrid fetch a failed provider
// is swallowed with a warning and the result degrades to the providers that
// succeeded; the fetch errors only when every participant failed.
func (p PerformanceProcessor) FetchCampaignPerformance(ctx context.Context, tenantID uuid.UUID, source sources.SourceType, since, until time.Time) (PerformanceResult, error) {
	if until.Before(since) {
		return PerformanceResult{}, ErrInvalidDateRange
	}

	ctx = observability.WithFields(ctx,
		observability.Field{Key: "tenant_id", Value: tenantID.String()},
		observability.Field{Key: "source", Value: string(source)},
	)

	switch source {
	case sources.SourceKommo:
		crm := p.fetchKommo(ctx, tenantID, since, until)
		if crm.err != nil {
			return PerformanceResult{}, crm.err
		}
		return p.assemble(crm, providerData{}, p.kommo.Capabilities().DefaultStageLabels), nil

	case sources.SourceMeta:
		ads := p.fetchMeta(ctx, tenantID, since, until)
		if ads.err != nil {
			return PerformanceResult{}, ads.err
		}
		return p.assemble(providerData{}, ads, p.meta.Capabilities().DefaultStageLabels), nil

	case sources.SourceHybrid:
		var crm, ads providerData
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			crm = p.fetchKommo(ctx, tenantID, since, until)
		}()
		go func() {
			defer wg.Done()
			ads = p.fetchMeta(ctx, tenantID, since, until)
		}()
		wg.Wait()

		if crm.err != nil && ads.err != nil {
			return PerformanceResult{}, errors.Join(ErrNoSourceData, crm.err, ads.err)
		}
		if crm.err != nil {
			p.logger.InfoWithError(ctx, "hybrid fetch degraded: crm provider failed", crm.err)
			crm = providerData{}
		}
		if ads.err != nil {
			p.logger.InfoWithError(ctx, "hybrid fetch degraded: ads provider failed", ads.err)
			ads = providerData{}
		}
		return p.assemble(crm, ads, p.meta.Capabilities().DefaultStageLabels), nil

	default:
		return PerformanceResult{}, ErrUnknownSource
	}
}

// assemble reconciles whatever the providers delivered into one sorted tree.
// Reconciliation only happens when both sides contributed: the CRM side is
// the base (funnel and revenue ground truth), the ads side is merged into it
// (spend and traffic ground truth). With a single contributing side its tree
// passes through under its own stage labels; with no active provider at all
// the fallback labels of the requested source apply, so the response never
// names a provider that wasn't asked for.
func (p PerformanceProcessor) assemble(crm, ads providerData, fallbackLabels []string) PerformanceResult {
	var campaigns []*hierarchy.CampaignNode
	switch {
	case len(crm.nodes) > 0 && len(ads.nodes) > 0:
		merged := hierarchy.Reconcile(crm.nodes, ads.nodes, make(map[string]bool))
		campaigns = merged.Nodes()
	case len(crm.nodes) > 0:
		campaigns = crm.nodes
	default:
		campaigns = ads.nodes
	}

	hierarchy.SortTree(campaigns)

	labels := fallbackLabels
	if crm.active && len(crm.labels) > 0 {
		labels = crm.labels
	} else if ads.active && len(ads.labels) > 0 {
		labels = ads.labels
	}
	return PerformanceResult{Campaigns: campaigns, StageLabels: labels}
}

// fetchKommo resolves the tenant's CRM integration and fetches its pipeline
// tree. A missing or inactive integration is an empty dataset, not an error.
func (p PerformanceProcessor) fetchKommo(ctx context.Context, tenantID uuid.UUID, since, until time.Time) providerData {
	integration, err := p.store.GetTenantIntegrationByProvider(ctx, tenantID, store.IntegrationProviderKommo)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			p.logger.Info(ctx, "kommo integration not configured, skipping")
			return providerData{}
		}
		return providerData{err: err}
	}
	if integration.Status != store.IntegrationStatusActive || integration.Subdomain == nil {
		p.logger.Info(ctx, "kommo integration inactive, skipping")
		return providerData{}
	}

	labels := []string(integration.JourneyMap)
	if len(labels) > hierarchy.StageCount {
		labels = labels[:hierarchy.StageCount]
	}
	if len(labels) == 0 {
		labels = p.kommo.Capabilities().DefaultStageLabels
	}

	nodes, err := p.kommo.FetchPipelineHierarchy(ctx, *integration.Subdomain, labels, since, until)
	if err != nil {
		return providerData{active: true, labels: labels, err: err}
	}
	return providerData{nodes: nodes, labels: labels, active: true}
}

// fetchMeta reads every active ads account concurrently and concatenates the
// trees. No configured account is an empty dataset; a failed read fails the
// whole provider.
func (p PerformanceProcessor) fetchMeta(ctx context.Context, tenantID uuid.UUID, since, until time.Time) providerData {
	accounts, err := p.store.GetActiveAdAccounts(ctx, tenantID, store.IntegrationProviderMeta)
	if err != nil {
		return providerData{err: err}
	}
	if len(accounts) == 0 {
		p.logger.Info(ctx, "no active meta ad accounts, skipping")
		return providerData{}
	}

	trees := make([][]*hierarchy.CampaignNode, len(accounts))
	g, gctx := errgroup.WithContext(ctx)
	for i, account := range accounts {
		g.Go(func() error {
			nodes, err := p.meta.FetchAccountHierarchy(gctx, account.ExternalID, since, until)
			if err != nil {
				return err
			}
			trees[i] = nodes
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return providerData{active: true, err: err}
	}

	var nodes []*hierarchy.CampaignNode
	for _, tree := range trees {
		nodes = append(nodes, tree...)
	}
	return providerData{
		nodes:  nodes,
		labels: p.meta.Capabilities().DefaultStageLabels,
		active: true,
	}
}

// GetAvailableSources computes which source selections are legal for the
// tenant: a single-source entry per individually active provider, and the
// hybrid entry only when every participant is active.
func (p PerformanceProcessor) GetAvailableSources(ctx context.Context, tenantID uuid.UUID) ([]sources.SourceType, error) {
	kommoActive := false
	integration, err := p.store.GetTenantIntegrationByProvider(ctx, tenantID, store.IntegrationProviderKommo)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	if err == nil && integration.Status == store.IntegrationStatusActive && integration.Subdomain != nil {
		kommoActive = true
	}

	accounts, err := p.store.GetActiveAdAccounts(ctx, tenantID, store.IntegrationProviderMeta)
	if err != nil {
		return nil, err
	}
	metaActive := len(accounts) > 0

	available := []sources.SourceType{}
	if kommoActive {
		available = append(available, sources.SourceKommo)
	}
	if metaActive {
		available = append(available, sources.SourceMeta)
	}
	if kommoActive && metaActive {
		available = append(available, sources.SourceHybrid)
	}
	return available, nil
}
