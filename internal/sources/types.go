package sources

// SourceType identifies a selectable data-source combination for a tenant.
type SourceType string

const (
	// SourceKommo serves funnel-stage data and revenue from the CRM pipeline.
	SourceKommo SourceType = "kommo"
	// SourceMeta serves traffic metrics and spend from synced ad insights.
	SourceMeta SourceType = "meta"
	// SourceHybrid reconciles both providers into one tree. Only selectable
	// when every participating provider is active for the tenant.
	SourceHybrid SourceType = "hybrid"
)

// Capabilities describes how a provider maps data onto the five funnel
// stages. Providers with configurable stages follow the tenant's journey map;
// fixed providers always use their default labels. The orchestrator consults
// this instead of assuming uniform stage semantics across providers.
type Capabilities struct {
	// ConfigurableStages is true when the tenant's journey map drives the
	// meaning of each stage counter.
	ConfigurableStages bool
	// DefaultStageLabels are the labels used when the provider's stage
	// semantics are fixed, or when no journey map is configured.
	DefaultStageLabels []string
}

// MetaStageLabels is the fixed stage semantics of the ads provider:
// stage1=impressions, stage2=clicks, stage3=leads, stages 4-5 unused.
var MetaStageLabels = []string{"Impressions", "Clicks", "Leads"}
