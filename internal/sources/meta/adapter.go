package meta

import (
	"context"
	"time"

	"trackflow/internal/hierarchy"
	"trackflow/internal/observability"
	"trackflow/internal/sources"
	"trackflow/internal/store"
)

// InsightStore is the slice of the store the adapter reads synced rows from.
type InsightStore interface {
	GetAdInsights(ctx context.Context, accountID string, since, until time.Time) ([]store.AdInsight, error)
}

// Adapter folds synced daily insight rows into the canonical campaign ->
// ad-set -> ad hierarchy. Stage semantics are fixed for this provider:
// stage1=impressions, stage2=clicks, stage3=leads. Revenue is unknown here,
// so ROAS stays 0 until the tree is fused with a revenue-bearing source.
type Adapter struct {
	store  InsightStore
	logger *observability.Logger
}

func New(store InsightStore, logger *observability.Logger) *Adapter {
	return &Adapter{store: store, logger: logger}
}

// Capabilities reports fixed stage semantics with the provider's default
// labels.
func (a *Adapter) Capabilities() sources.Capabilities {
	return sources.Capabilities{
		ConfigurableStages: false,
		DefaultStageLabels: sources.MetaStageLabels,
	}
}

// FetchAccountHierarchy builds the account's tree for a date range. The read
// is pure: the same range always yields the same output.
func (a *Adapter) FetchAccountHierarchy(ctx context.Context, accountID string, since, until time.Time) ([]*hierarchy.CampaignNode, error) {
	rows, err := a.store.GetAdInsights(ctx, accountID, since, until)
	if err != nil {
		return nil, err
	}

	var campaigns []*hierarchy.CampaignNode
	campaignIndex := make(map[string]*hierarchy.CampaignNode)
	adsetIndex := make(map[string]*hierarchy.CampaignNode)
	adIndex := make(map[string]*hierarchy.CampaignNode)

	for _, row := range rows {
		campaign, ok := campaignIndex[row.CampaignID]
		if !ok {
			campaign = &hierarchy.CampaignNode{
				ID:     "meta:" + row.CampaignID,
				Name:   row.CampaignName,
				Level:  hierarchy.LevelCampaign,
				Status: hierarchy.StatusActive,
			}
			campaignIndex[row.CampaignID] = campaign
			campaigns = append(campaigns, campaign)
		}

		adsetKey := row.CampaignID + "/" + row.AdsetID
		adset, ok := adsetIndex[adsetKey]
		if !ok {
			adset = &hierarchy.CampaignNode{
				ID:     "meta:" + row.AdsetID,
				Name:   row.AdsetName,
				Level:  hierarchy.LevelAdGroup,
				Status: hierarchy.StatusActive,
			}
			adsetIndex[adsetKey] = adset
			campaign.Children = append(campaign.Children, adset)
		}

		adKey := adsetKey + "/" + row.AdID
		ad, ok := adIndex[adKey]
		if !ok {
			ad = &hierarchy.CampaignNode{
				ID:     "meta:" + row.AdID,
				Name:   row.AdName,
				Level:  hierarchy.LevelAd,
				Status: hierarchy.StatusActive,
			}
			adIndex[adKey] = ad
			adset.Children = append(adset.Children, ad)
		}

		ad.StageMetrics[0] += row.Impressions
		ad.StageMetrics[1] += row.Clicks
		ad.StageMetrics[2] += row.Leads
		ad.Spend += row.Spend
	}

	for _, campaign := range campaigns {
		campaign.RollUp()
	}

	a.logger.Info(observability.WithFields(ctx,
		observability.Field{Key: "provider", Value: "meta"},
		observability.Field{Key: "account_id", Value: accountID},
		observability.Field{Key: "rows", Value: len(rows)},
		observability.Field{Key: "campaigns", Value: len(campaigns)},
	), "mapped meta insight hierarchy")
	return campaigns, nil
}
