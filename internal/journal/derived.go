package journal

import (
	"errors"
	"fmt"
	"time"

	"ilgi/internal/models"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

var ErrInvalidScore = errors.New("score outside of the -3..3 scale")

const (
	MinScore       = -3
	MaxScore       = 3
	MinEnergyDelta = -5
	MaxEnergyDelta = 5
)

const day = 24 * time.Hour

// Duration is the time spent between two times of day. An end before the
// start is read as running past midnight.
func Duration(start, end models.TimeOfDay) time.Duration {
	d := time.Duration(end.Seconds()-start.Seconds()) * time.Second
	if d < 0 {
		d += day
	}
	return d
}

// FormatDuration renders a duration as HH:MM:SS.
func FormatDuration(d time.Duration) string {
	total := int64(d / time.Second)
	sign := ""
	if total < 0 {
		sign = "-"
		total = -total
	}
	return fmt.Sprintf("%s%02d:%02d:%02d", sign, total/3600, total%3600/60, total%60)
}

// CoffeeTotals sums the logged litres of one coffee type and prices them.
func CoffeeTotals(price int64, quantities []decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	quantity := lo.Reduce(quantities, func(acc decimal.Decimal, q decimal.Decimal, _ int) decimal.Decimal {
		return acc.Add(q)
	}, decimal.Zero)
	return quantity, quantity.Mul(decimal.NewFromInt(price))
}

// ScoreLabel looks up the label a metric gives to a score.
func ScoreLabel(labels models.ScoreLabels, score int) (*string, error) {
	switch score {
	case -3:
		return labels.ExtremelyLow, nil
	case -2:
		return labels.VeryLow, nil
	case -1:
		return labels.Low, nil
	case 0:
		return labels.Neutral, nil
	case 1:
		return labels.High, nil
	case 2:
		return labels.VeryHigh, nil
	case 3:
		return labels.ExtremelyHigh, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrInvalidScore, score)
}
