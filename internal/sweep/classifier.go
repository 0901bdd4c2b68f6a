// internal/sweep/classifier.go
package sweep

import (
	"context"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/solsweep/dust-sweeper/internal/retry"
)

// Classifier prices holdings and keeps the ones inside the dust band.
type Classifier struct {
	prices    PriceSource
	threshold float64
	inclusive bool
	retry     retry.Policy
	logger    *zap.Logger
}

// NewClassifier creates a classifier. When inclusive is true the dust band
// is (0, threshold], otherwise (0, threshold).
func NewClassifier(prices PriceSource, threshold float64, inclusive bool, policy retry.Policy, logger *zap.Logger) *Classifier {
	return &Classifier{
		prices:    prices,
		threshold: threshold,
		inclusive: inclusive,
		retry:     policy,
		logger:    logger.Named("classifier"),
	}
}

// Classify prices each holding and returns the dust subset. A failed price
// lookup skips that holding only; the rest of the batch still gets priced.
// Zero-amount holdings never trigger a lookup.
func (c *Classifier) Classify(ctx context.Context, holdings []Holding) []DustToken {
	positive := lo.Filter(holdings, func(h Holding, _ int) bool {
		return h.UIAmount > 0
	})

	dust := make([]DustToken, 0, len(positive))
	for _, holding := range positive {
		mint := holding.Mint
		price, err := retry.Do(ctx, c.retry, func() (float64, error) {
			return c.prices.Price(ctx, mint)
		})
		if err != nil {
			c.logger.Warn("Price lookup failed, skipping holding",
				zap.String("mint", mint),
				zap.Error(err))
			continue
		}

		value := price * holding.UIAmount
		if c.isDust(value) {
			dust = append(dust, DustToken{
				Holding: holding,
				Price:   price,
				Value:   value,
			})
		}
	}
	return dust
}

func (c *Classifier) isDust(value float64) bool {
	if value <= 0 {
		return false
	}
	if c.inclusive {
		return value <= c.threshold
	}
	return value < c.threshold
}
