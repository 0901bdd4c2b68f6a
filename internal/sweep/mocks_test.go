// internal/sweep/mocks_test.go
package sweep

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/solsweep/dust-sweeper/internal/aggregator"
	"github.com/solsweep/dust-sweeper/internal/retry"
)

// noSleep is the retry policy used in tests: single attempt, fake sleeper.
var noSleep = retry.Policy{
	MaxAttempts: 1,
	BaseDelay:   time.Millisecond,
	Sleep: func(context.Context, time.Duration) error {
		return nil
	},
}

type priceSourceMock struct {
	prices map[string]float64
	errs   map[string]error
	calls  int
	mints  []string
}

func (m *priceSourceMock) Price(_ context.Context, mint string) (float64, error) {
	m.calls++
	m.mints = append(m.mints, mint)
	if err, ok := m.errs[mint]; ok {
		return 0, err
	}
	return m.prices[mint], nil
}

type ledgerMock struct {
	holdings       []Holding
	holdingsErr    error
	blockhash      Blockhash
	blockhashErr   error
	holdingsCalls  int
	blockhashCalls int
}

func (m *ledgerMock) TokenHoldings(context.Context, solana.PublicKey, solana.PublicKey) ([]Holding, error) {
	m.holdingsCalls++
	if m.holdingsErr != nil {
		return nil, m.holdingsErr
	}
	return m.holdings, nil
}

func (m *ledgerMock) LatestBlockhash(context.Context) (Blockhash, error) {
	m.blockhashCalls++
	if m.blockhashErr != nil {
		return Blockhash{}, m.blockhashErr
	}
	return m.blockhash, nil
}

type swapProviderMock struct {
	quoteFn    func(req aggregator.QuoteRequest) (json.RawMessage, error)
	buildFn    func(req aggregator.SwapRequest) (string, error)
	quoteCalls []aggregator.QuoteRequest
	buildCalls []aggregator.SwapRequest
}

func (m *swapProviderMock) Quote(_ context.Context, req aggregator.QuoteRequest) (json.RawMessage, error) {
	m.quoteCalls = append(m.quoteCalls, req)
	if m.quoteFn != nil {
		return m.quoteFn(req)
	}
	return json.RawMessage(`{"inputMint":"` + req.InputMint + `"}`), nil
}

func (m *swapProviderMock) BuildSwap(_ context.Context, req aggregator.SwapRequest) (string, error) {
	m.buildCalls = append(m.buildCalls, req)
	if m.buildFn != nil {
		return m.buildFn(req)
	}
	return "", nil
}
