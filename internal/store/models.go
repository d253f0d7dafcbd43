package store

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// StringArray is a custom type for PostgreSQL text[] arrays
type StringArray []string

// Value implements the driver.Valuer interface for StringArray. Every
// element is quoted, with backslash escapes for quotes and backslashes, so
// labels containing commas or quotes survive the trip.
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	var b strings.Builder
	b.WriteByte('{')
	for i, item := range a {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		for j := 0; j < len(item); j++ {
			if item[j] == '\\' || item[j] == '"' {
				b.WriteByte('\\')
			}
			b.WriteByte(item[j])
		}
		b.WriteByte('"')
	}
	b.WriteByte('}')
	return b.String(), nil
}

// Scan implements the sql.Scanner interface for StringArray
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}

	var str string
	switch v := value.(type) {
	case []byte:
		str = string(v)
	case string:
		str = v
	default:
		return errors.New("unsupported type for StringArray")
	}

	items, err := parseTextArray(str)
	if err != nil {
		return err
	}
	*a = items
	return nil
}

// parseTextArray decodes a one-dimensional PostgreSQL text[] literal.
// Elements may be bare or double-quoted; inside quotes a backslash escapes
// the next byte. Commas only separate elements outside quotes.
func parseTextArray(s string) ([]string, error) {
	if len(s) < 2 || s[0] != '{' || s[len(s)-1] != '}' {
		return nil, fmt.Errorf("malformed text array literal: %q", s)
	}
	s = s[1 : len(s)-1]
	if s == "" {
		return []string{}, nil
	}

	var items []string
	var current strings.Builder
	inQuotes := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inQuotes && c == '\\':
			i++
			if i >= len(s) {
				return nil, fmt.Errorf("malformed text array literal: %q", s)
			}
			current.WriteByte(s[i])
		case inQuotes && c == '"':
			inQuotes = false
		case inQuotes:
			current.WriteByte(c)
		case c == '"':
			inQuotes = true
		case c == ',':
			items = append(items, current.String())
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}
	if inQuotes {
		return nil, fmt.Errorf("malformed text array literal: %q", s)
	}
	items = append(items, current.String())
	return items, nil
}

// TenantIntegration represents an external provider connected to a tenant.
// For the Kommo provider, Subdomain points at the tenant's CRM instance and
// JourneyMap holds the ordered funnel-stage labels the tenant configured.
type TenantIntegration struct {
	ID         uuid.UUID   `db:"id"`
	TenantID   uuid.UUID   `db:"tenant_id"`
	Provider   string      `db:"provider"`
	Subdomain  *string     `db:"subdomain"`
	JourneyMap StringArray `db:"journey_map"`
	Status     string      `db:"status"`
	CreatedAt  time.Time   `db:"created_at"`
	UpdatedAt  time.Time   `db:"updated_at"`
}

// AdAccount represents a paid-ads account connected to a tenant.
type AdAccount struct {
	ID         uuid.UUID `db:"id"`
	TenantID   uuid.UUID `db:"tenant_id"`
	Provider   string    `db:"provider"`
	ExternalID string    `db:"external_id"`
	Name       string    `db:"name"`
	Status     string    `db:"status"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// AdInsight is one synced daily metrics row, keyed by (account, ad, date).
// Rows are written by the insight sync job and read-only for the API path.
type AdInsight struct {
	ID           uuid.UUID `db:"id"`
	AccountID    string    `db:"account_id"`
	CampaignID   string    `db:"campaign_id"`
	CampaignName string    `db:"campaign_name"`
	AdsetID      string    `db:"adset_id"`
	AdsetName    string    `db:"adset_name"`
	AdID         string    `db:"ad_id"`
	AdName       string    `db:"ad_name"`
	Date         time.Time `db:"date"`
	Impressions  int64     `db:"impressions"`
	Clicks       int64     `db:"clicks"`
	Spend        float64   `db:"spend"`
	Leads        int64     `db:"leads"`
	Reach        int64     `db:"reach"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// InsightKey identifies an insight row uniquely within an account and day.
func (i AdInsight) InsightKey() string {
	return fmt.Sprintf("%s/%s/%s", i.AccountID, i.AdID, i.Date.Format("2006-01-02"))
}
