package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

const sqlCreateAdAccount = `
INSERT INTO ad_accounts (tenant_id, provider, external_id, name, status)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, tenant_id, provider, external_id, name, status, created_at, updated_at
`

// CreateAdAccountParams contains the fields for connecting an ads account
type CreateAdAccountParams struct {
	TenantID   uuid.UUID
	Provider   string
	ExternalID string
	Name       string
	Status     string
}

// CreateAdAccount connects a paid-ads account to a tenant
func (s *Store) CreateAdAccount(ctx context.Context, params CreateAdAccountParams) (AdAccount, error) {
	var account AdAccount
	err := s.db.GetContext(ctx, &account, sqlCreateAdAccount,
		params.TenantID, params.Provider, params.ExternalID, params.Name, params.Status)
	if err != nil {
		s.logger.Error(ctx, "failed to create ad account", err)
		return AdAccount{}, fmt.Errorf("failed to create ad account: %w", err)
	}
	return account, nil
}

const sqlGetActiveAdAccounts = `
SELECT id, tenant_id, provider, external_id, name, status, created_at, updated_at
FROM ad_accounts
WHERE tenant_id = $1 AND provider = $2 AND status = 'active'
ORDER BY created_at
`

// GetActiveAdAccounts retrieves a tenant's active accounts for one provider
func (s *Store) GetActiveAdAccounts(ctx context.Context, tenantID uuid.UUID, provider string) ([]AdAccount, error) {
	var accounts []AdAccount
	err := s.db.SelectContext(ctx, &accounts, sqlGetActiveAdAccounts, tenantID, provider)
	if err != nil {
		s.logger.Error(ctx, "failed to list active ad accounts", err)
		return nil, fmt.Errorf("failed to list active ad accounts: %w", err)
	}
	return accounts, nil
}

const sqlUpdateAdAccountStatus = `
UPDATE ad_accounts
SET status = $2, updated_at = NOW()
WHERE id = $1
`

// UpdateAdAccountStatus changes the sync status of an ads account
func (s *Store) UpdateAdAccountStatus(ctx context.Context, accountID uuid.UUID, status string) error {
	result, err := s.db.ExecContext(ctx, sqlUpdateAdAccountStatus, accountID, status)
	if err != nil {
		s.logger.Error(ctx, "failed to update ad account status", err)
		return fmt.Errorf("failed to update ad account status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update ad account status: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
