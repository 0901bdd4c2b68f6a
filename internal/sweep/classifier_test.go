// internal/sweep/classifier_test.go
package sweep

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	mintA = "MintA1111111111111111111111111111111111111111"
	mintB = "MintB1111111111111111111111111111111111111111"
	mintC = "MintC1111111111111111111111111111111111111111"
)

func TestClassifyThresholdBounds(t *testing.T) {
	tests := []struct {
		name      string
		inclusive bool
		price     float64
		uiAmount  float64
		wantDust  bool
	}{
		{"below threshold inclusive", true, 2.0, 2.0, true},
		{"below threshold exclusive", false, 2.0, 2.0, true},
		{"exactly threshold inclusive", true, 2.5, 2.0, true},
		{"exactly threshold exclusive", false, 2.5, 2.0, false},
		{"above threshold inclusive", true, 3.0, 2.0, false},
		{"above threshold exclusive", false, 3.0, 2.0, false},
		{"zero value excluded", true, 0, 2.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prices := &priceSourceMock{prices: map[string]float64{mintA: tt.price}}
			classifier := NewClassifier(prices, 5.0, tt.inclusive, noSleep, zap.NewNop())

			dust := classifier.Classify(context.Background(), []Holding{
				{Mint: mintA, RawAmount: 2_000_000, UIAmount: tt.uiAmount, Decimals: 6},
			})

			if tt.wantDust {
				require.Len(t, dust, 1)
				assert.Equal(t, tt.price, dust[0].Price)
				assert.Equal(t, tt.price*tt.uiAmount, dust[0].Value)
			} else {
				assert.Empty(t, dust)
			}
		})
	}
}

func TestClassifyZeroAmountSkipsPriceLookup(t *testing.T) {
	prices := &priceSourceMock{prices: map[string]float64{mintA: 1.0, mintB: 1.0}}
	classifier := NewClassifier(prices, 5.0, true, noSleep, zap.NewNop())

	classifier.Classify(context.Background(), []Holding{
		{Mint: mintA, RawAmount: 0, UIAmount: 0, Decimals: 6},
		{Mint: mintB, RawAmount: 1_000_000, UIAmount: 1.0, Decimals: 6},
	})

	assert.Equal(t, 1, prices.calls)
	assert.Equal(t, []string{mintB}, prices.mints)
}

func TestClassifyLookupFailureSkipsHoldingOnly(t *testing.T) {
	prices := &priceSourceMock{
		prices: map[string]float64{mintA: 1.0, mintC: 2.0},
		errs:   map[string]error{mintB: errors.New("oracle timeout")},
	}
	classifier := NewClassifier(prices, 5.0, true, noSleep, zap.NewNop())

	dust := classifier.Classify(context.Background(), []Holding{
		{Mint: mintA, RawAmount: 1_000_000, UIAmount: 1.0, Decimals: 6},
		{Mint: mintB, RawAmount: 1_000_000, UIAmount: 1.0, Decimals: 6},
		{Mint: mintC, RawAmount: 2_000_000, UIAmount: 2.0, Decimals: 6},
	})

	require.Len(t, dust, 2)
	assert.Equal(t, mintA, dust[0].Mint)
	assert.Equal(t, mintC, dust[1].Mint)
	// All three positive holdings were attempted.
	assert.Equal(t, 3, prices.calls)
}

func TestClassifyMissingQuoteExcluded(t *testing.T) {
	// Oracle has no quote for the mint: price resolves to 0 and the holding
	// is excluded by value, not treated as dust.
	prices := &priceSourceMock{prices: map[string]float64{}}
	classifier := NewClassifier(prices, 5.0, true, noSleep, zap.NewNop())

	dust := classifier.Classify(context.Background(), []Holding{
		{Mint: mintA, RawAmount: 1_000_000, UIAmount: 1.0, Decimals: 6},
	})

	assert.Empty(t, dust)
	assert.Equal(t, 1, prices.calls)
}
