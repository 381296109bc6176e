package store

import (
	"context"

	"github.com/lib/pq"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type CoffeeStore struct {
	db DB
}

func NewCoffeeStore(db DB) *CoffeeStore {
	return &CoffeeStore{db: db}
}

type coffeeQuantityRow struct {
	CoffeeTypeID int64           `db:"coffee_type_id"`
	Quantity     decimal.Decimal `db:"quantity"`
}

// Quantities returns the live log quantities for each coffee type.
func (s *CoffeeStore) Quantities(ctx context.Context, typeIDs []int64) (map[int64][]decimal.Decimal, error) {
	if len(typeIDs) == 0 {
		return map[int64][]decimal.Decimal{}, nil
	}
	var rows []coffeeQuantityRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT coffee_type_id, quantity
		FROM coffee_logs
		WHERE coffee_type_id = ANY($1) AND deleted = FALSE
	`, pq.Array(typeIDs))
	if err != nil {
		return nil, err
	}
	grouped := lo.GroupBy(rows, func(row coffeeQuantityRow) int64 {
		return row.CoffeeTypeID
	})
	return lo.MapValues(grouped, func(rows []coffeeQuantityRow, _ int64) []decimal.Decimal {
		return lo.Map(rows, func(row coffeeQuantityRow, _ int) decimal.Decimal {
			return row.Quantity
		})
	}), nil
}
