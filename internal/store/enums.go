package store

// Integration ENUMs
const (
	IntegrationProviderKommo = "kommo"
	IntegrationProviderMeta  = "meta"
)

const (
	IntegrationStatusActive   = "active"
	IntegrationStatusInactive = "inactive"
)

// Ad Account ENUMs
const (
	AdAccountStatusActive  = "active"
	AdAccountStatusPaused  = "paused"
	AdAccountStatusRemoved = "removed"
)
