package kommo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"trackflow/internal/observability"
)

var ErrFetchExhausted = errors.New("lead source fetch failed after retries")

// LeadSourceReport is the raw payload of the Kommo aggregation endpoint: a
// three-level tree (campaign -> medium -> content) with per-leaf lead counts
// keyed by journey-stage label. It is parsed here at the boundary and never
// handed further down untyped.
type LeadSourceReport struct {
	Campaigns []ReportCampaign `json:"campaigns"`
}

// ReportCampaign is one raw campaign entry of the report.
type ReportCampaign struct {
	Campaign string        `json:"campaign"`
	Groups   []ReportGroup `json:"groups"`
}

// ReportGroup is one raw medium/group entry of a campaign.
type ReportGroup struct {
	Medium string     `json:"medium"`
	Ads    []ReportAd `json:"ads"`
}

// ReportAd is one raw content/ad leaf, with lead counts keyed by the
// tenant's journey-stage labels.
type ReportAd struct {
	Content      string           `json:"content"`
	LeadsCount   int64            `json:"leadsCount"`
	TotalRevenue float64          `json:"totalRevenue"`
	Journey      map[string]int64 `json:"journey"`
}

// Client calls the Kommo lead-source aggregation endpoint with retry and
// exponential backoff.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	logger      *observability.Logger
	maxAttempts int
	backoffBase time.Duration
}

// NewClient creates a Kommo aggregation client. Transport failures and
// non-2xx responses are retried 3 times with a doubling delay starting at 1s.
func NewClient(baseURL string, logger *observability.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger:      logger,
		maxAttempts: 3,
		backoffBase: time.Second,
	}
}

// FetchLeadSources retrieves the campaign/medium/content report for a tenant
// subdomain. journeyLabels are sent as repeated lead_journey parameters in
// the tenant's configured order; the date range is sent in unix seconds.
func (c *Client) FetchLeadSources(ctx context.Context, subdomain string, journeyLabels []string, from, to time.Time) (LeadSourceReport, error) {
	query := url.Values{}
	query.Set("subdomain", subdomain)
	for _, label := range journeyLabels {
		query.Add("lead_journey", label)
	}
	query.Set("created_at_from", strconv.FormatInt(from.Unix(), 10))
	query.Set("created_at_to", strconv.FormatInt(to.Unix(), 10))

	endpoint := c.baseURL + "/analytics/lead-sources?" + query.Encode()

	ctx = observability.WithFields(ctx,
		observability.Field{Key: "provider", Value: "kommo"},
		observability.Field{Key: "subdomain", Value: subdomain},
	)

	var report LeadSourceReport
	var lastErr error
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if attempt > 0 {
			delay := c.backoffBase << (attempt - 1)
			select {
			case <-ctx.Done():
				return LeadSourceReport{}, ctx.Err()
			case <-time.After(delay):
			}
		}

		report, lastErr = c.fetchOnce(ctx, endpoint)
		if lastErr == nil {
			return report, nil
		}
		c.logger.InfoWithError(ctx, fmt.Sprintf("lead source fetch attempt %d failed", attempt+1), lastErr)
	}

	c.logger.Error(ctx, "lead source fetch exhausted retries", lastErr)
	return LeadSourceReport{}, fmt.Errorf("%w: %w", ErrFetchExhausted, lastErr)
}

func (c *Client) fetchOnce(ctx context.Context, endpoint string) (LeadSourceReport, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return LeadSourceReport{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return LeadSourceReport{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return LeadSourceReport{}, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var report LeadSourceReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return LeadSourceReport{}, fmt.Errorf("failed to decode report: %w", err)
	}
	return report, nil
}
