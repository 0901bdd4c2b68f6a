// internal/sweep/service_test.go
package sweep

import (
	"context"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/solsweep/dust-sweeper/internal/aggregator"
)

func testService(ledger Ledger, prices PriceSource, swaps SwapProvider) *Service {
	classifier := NewClassifier(prices, 5.0, true, noSleep, zap.NewNop())
	composer := testComposer(swaps, ledger)
	return NewService(ledger, classifier, composer, solana.TokenProgramID, noSleep, zap.NewNop())
}

func TestSweepFullPipeline(t *testing.T) {
	ledger := &ledgerMock{
		holdings: []Holding{
			{Mint: mintA, RawAmount: 2_500_000, UIAmount: 2.5, Decimals: 6}, // dust
			{Mint: mintB, RawAmount: 0, UIAmount: 0, Decimals: 6},           // zero, skipped
			{Mint: mintC, RawAmount: 9_000_000, UIAmount: 9.0, Decimals: 6}, // above threshold
		},
		blockhash: Blockhash{Hash: testBlockhash, LastValidBlockHeight: 77},
	}
	prices := &priceSourceMock{prices: map[string]float64{mintA: 1.0, mintC: 1.0}}
	swaps := &swapProviderMock{
		buildFn: func(aggregator.SwapRequest) (string, error) {
			return encodedSwapTx(t, []byte{1}), nil
		},
	}
	service := testService(ledger, prices, swaps)

	result, err := service.Sweep(context.Background(), testPayer)
	require.NoError(t, err)

	require.Len(t, result.Dust, 1)
	assert.Equal(t, mintA, result.Dust[0].Mint)
	require.Len(t, result.Legs, 1)
	assert.Equal(t, LegOK, result.Legs[0].Status)
	assert.Equal(t, testPayer, result.Transaction.Message.AccountKeys[0])
	assert.Equal(t, uint64(77), result.LastValidBlockHeight)

	// Zero-amount holding never reached the oracle.
	assert.Equal(t, 2, prices.calls)
}

func TestPreviewDoesNotCompose(t *testing.T) {
	ledger := &ledgerMock{
		holdings: []Holding{
			{Mint: mintA, RawAmount: 1_000_000, UIAmount: 1.0, Decimals: 6},
		},
	}
	prices := &priceSourceMock{prices: map[string]float64{mintA: 1.0}}
	swaps := &swapProviderMock{}
	service := testService(ledger, prices, swaps)

	dust, err := service.Preview(context.Background(), testPayer)
	require.NoError(t, err)

	require.Len(t, dust, 1)
	assert.Empty(t, swaps.quoteCalls)
	assert.Zero(t, ledger.blockhashCalls)
}

func TestSweepEnumerationFailureAborts(t *testing.T) {
	ledger := &ledgerMock{holdingsErr: errors.New("rpc down")}
	service := testService(ledger, &priceSourceMock{}, &swapProviderMock{})

	_, err := service.Sweep(context.Background(), testPayer)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "enumerate holdings")
}
