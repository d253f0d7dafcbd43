package store

import (
	"context"
	"fmt"
	"time"
)

const sqlUpsertAdInsight = `
INSERT INTO ad_insights (
    account_id, campaign_id, campaign_name, adset_id, adset_name,
    ad_id, ad_name, date, impressions, clicks, spend, leads, reach
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
ON CONFLICT (account_id, ad_id, date) DO UPDATE SET
    campaign_name = EXCLUDED.campaign_name,
    adset_name    = EXCLUDED.adset_name,
    ad_name       = EXCLUDED.ad_name,
    impressions   = EXCLUDED.impressions,
    clicks        = EXCLUDED.clicks,
    spend         = EXCLUDED.spend,
    leads         = EXCLUDED.leads,
    reach         = EXCLUDED.reach,
    updated_at    = NOW()
RETURNING id, account_id, campaign_id, campaign_name, adset_id, adset_name,
          ad_id, ad_name, date, impressions, clicks, spend, leads, reach,
          created_at, updated_at
`

// UpsertAdInsightParams contains one synced daily metrics row
type UpsertAdInsightParams struct {
	AccountID    string
	CampaignID   string
	CampaignName string
	AdsetID      string
	AdsetName    string
	AdID         string
	AdName       string
	Date         time.Time
	Impressions  int64
	Clicks       int64
	Spend        float64
	Leads        int64
	Reach        int64
}

// UpsertAdInsight writes one daily insight row, replacing a previous sync of
// the same (account, ad, date)
func (s *Store) UpsertAdInsight(ctx context.Context, params UpsertAdInsightParams) (AdInsight, error) {
	var insight AdInsight
	err := s.db.GetContext(ctx, &insight, sqlUpsertAdInsight,
		params.AccountID, params.CampaignID, params.CampaignName,
		params.AdsetID, params.AdsetName, params.AdID, params.AdName,
		params.Date, params.Impressions, params.Clicks, params.Spend,
		params.Leads, params.Reach)
	if err != nil {
		s.logger.Error(ctx, "failed to upsert ad insight", err)
		return AdInsight{}, fmt.Errorf("failed to upsert ad insight: %w", err)
	}
	return insight, nil
}

const sqlGetAdInsights = `
SELECT id, account_id, campaign_id, campaign_name, adset_id, adset_name,
       ad_id, ad_name, date, impressions, clicks, spend, leads, reach,
       created_at, updated_at
FROM ad_insights
WHERE account_id = $1 AND date >= $2 AND date <= $3
ORDER BY campaign_id, adset_id, ad_id, date
`

// GetAdInsights retrieves the synced daily rows of an account for a date
// range, ordered so hierarchy grouping folds rows deterministically
func (s *Store) GetAdInsights(ctx context.Context, accountID string, since, until time.Time) ([]AdInsight, error) {
	var insights []AdInsight
	err := s.db.SelectContext(ctx, &insights, sqlGetAdInsights, accountID, since, until)
	if err != nil {
		s.logger.Error(ctx, "failed to get ad insights", err)
		return nil, fmt.Errorf("failed to get ad insights: %w", err)
	}
	return insights, nil
}
