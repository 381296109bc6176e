package store

import (
	"context"

	"github.com/shopspring/decimal"
)

type FinanceStore struct {
	db DB
}

func NewFinanceStore(db DB) *FinanceStore {
	return &FinanceStore{db: db}
}

type AccountBalanceSummary struct {
	ID                string          `db:"id" json:"id"`
	Name              string          `db:"name" json:"name"`
	StoredBalance     decimal.Decimal `db:"stored_balance" json:"stored_balance"`
	CalculatedBalance decimal.Decimal `db:"calculated_balance" json:"calculated_balance"`
	Difference        decimal.Decimal `db:"difference" json:"difference"`
}

// SelfCheck compares each live account's stored balance with the sum of its
// live transaction entries.
func (s *FinanceStore) SelfCheck(ctx context.Context, ownerID int64) ([]AccountBalanceSummary, error) {
	rows := []AccountBalanceSummary{}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT a.external_id AS id,
		       a.name,
		       a.balance AS stored_balance,
		       COALESCE(SUM(e.amount), 0) AS calculated_balance,
		       (a.balance - COALESCE(SUM(e.amount), 0)) AS difference
		FROM finance_accounts a
		LEFT JOIN finance_transaction_entries e
		       ON e.account_id = a.id
		      AND e.deleted = FALSE
		      AND EXISTS (
		          SELECT 1 FROM finance_transactions tr
		          WHERE tr.id = e.transaction_id AND tr.deleted = FALSE
		      )
		WHERE a.owner_id = $1 AND a.deleted = FALSE
		GROUP BY a.id, a.external_id, a.name, a.balance, a.created_at
		ORDER BY a.created_at DESC, a.id DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
