package kommo

import (
	"context"
	"time"

	kommoclient "trackflow/internal/clients/kommo"
	"trackflow/internal/hierarchy"
	"trackflow/internal/observability"
	"trackflow/internal/sources"
)

// unknownSentinel marks untracked traffic in the Kommo report. Entries named
// this way are excluded entirely at every level, never merged as zero.
const unknownSentinel = "unknown"

// Fetcher is the slice of the Kommo client the adapter depends on.
type Fetcher interface {
	FetchLeadSources(ctx context.Context, subdomain string, journeyLabels []string, from, to time.Time) (kommoclient.LeadSourceReport, error)
}

// Adapter converts the Kommo lead-source report into the canonical campaign
// hierarchy. Stage counters follow the tenant's journey map positionally;
// revenue comes from the CRM, spend is unknown to this provider.
type Adapter struct {
	client Fetcher
	logger *observability.Logger
}

func New(client Fetcher, logger *observability.Logger) *Adapter {
	return &Adapter{client: client, logger: logger}
}

// Capabilities reports that this provider's stage semantics follow the
// tenant's configured journey map.
func (a *Adapter) Capabilities() sources.Capabilities {
	return sources.Capabilities{
		ConfigurableStages: true,
		DefaultStageLabels: []string{"Leads"},
	}
}

// FetchPipelineHierarchy fetches and normalizes the campaign -> medium ->
// content tree for a tenant subdomain. Counters aggregate bottom-up, so every
// parent equals the sum of its children.
func (a *Adapter) FetchPipelineHierarchy(ctx context.Context, subdomain string, journeyLabels []string, from, to time.Time) ([]*hierarchy.CampaignNode, error) {
	if len(journeyLabels) > hierarchy.StageCount {
		journeyLabels = journeyLabels[:hierarchy.StageCount]
	}

	report, err := a.client.FetchLeadSources(ctx, subdomain, journeyLabels, from, to)
	if err != nil {
		return nil, err
	}

	var campaigns []*hierarchy.CampaignNode
	for _, rawCampaign := range report.Campaigns {
		if rawCampaign.Campaign == unknownSentinel {
			continue
		}
		campaign := &hierarchy.CampaignNode{
			ID:     "kommo:" + rawCampaign.Campaign,
			Name:   rawCampaign.Campaign,
			Level:  hierarchy.LevelCampaign,
			Status: hierarchy.StatusActive,
		}

		for _, rawGroup := range rawCampaign.Groups {
			if rawGroup.Medium == unknownSentinel {
				continue
			}
			group := &hierarchy.CampaignNode{
				ID:     campaign.ID + ":" + rawGroup.Medium,
				Name:   rawGroup.Medium,
				Level:  hierarchy.LevelAdGroup,
				Status: hierarchy.StatusActive,
			}

			for _, rawAd := range rawGroup.Ads {
				if rawAd.Content == unknownSentinel {
					continue
				}
				group.Children = append(group.Children, a.mapAd(group.ID, rawAd, journeyLabels))
			}

			if len(group.Children) > 0 {
				campaign.Children = append(campaign.Children, group)
			}
		}

		if len(campaign.Children) == 0 {
			continue
		}
		campaign.RollUp()
		campaigns = append(campaigns, campaign)
	}

	a.logger.Info(observability.WithFields(ctx,
		observability.Field{Key: "provider", Value: "kommo"},
		observability.Field{Key: "campaigns", Value: len(campaigns)},
	), "mapped kommo pipeline hierarchy")
	return campaigns, nil
}

// mapAd converts one content leaf. Labels resolve against the named journey
// map; a leaf with leads but no journey breakdown attributes everything to
// the first stage, the earliest-stage fallback for ambiguous attribution.
func (a *Adapter) mapAd(groupID string, raw kommoclient.ReportAd, journeyLabels []string) *hierarchy.CampaignNode {
	node := &hierarchy.CampaignNode{
		ID:      groupID + ":" + raw.Content,
		Name:    raw.Content,
		Level:   hierarchy.LevelAd,
		Status:  hierarchy.StatusActive,
		Revenue: raw.TotalRevenue,
	}

	if len(raw.Journey) == 0 {
		if raw.LeadsCount > 0 {
			node.StageMetrics[0] = raw.LeadsCount
		}
	} else {
		for i, label := range journeyLabels {
			node.StageMetrics[i] = raw.Journey[label]
		}
		if ghost := raw.LeadsCount - node.StageMetrics[0]; ghost > 0 {
			node.GhostLeads = ghost
		}
	}

	node.RecomputeROAS()
	return node
}
