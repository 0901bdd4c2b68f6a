// internal/sweep/types.go
package sweep

import (
	"context"
	"encoding/json"

	"github.com/gagliardetto/solana-go"

	"github.com/solsweep/dust-sweeper/internal/aggregator"
)

// Holding is one fungible token balance owned by the requesting account.
// RawAmount is the on-chain integer amount; UIAmount is scaled by decimals.
type Holding struct {
	Mint      string
	RawAmount uint64
	UIAmount  float64
	Decimals  uint8
}

// DustToken is a holding whose fiat value fell inside the dust band.
// Value is recomputed on every request, never cached.
type DustToken struct {
	Holding
	Price float64
	Value float64
}

// LegStatus is the outcome of one swap leg.
type LegStatus string

const (
	LegOK      LegStatus = "ok"
	LegSkipped LegStatus = "skipped"
)

// LegResult records what happened to a single dust token's swap leg.
// A skipped leg carries the reason; an ok leg carries the merged instructions.
type LegResult struct {
	Mint         string
	Status       LegStatus
	Reason       string
	Instructions []solana.Instruction
}

// Blockhash is a recent block reference plus its validity height.
type Blockhash struct {
	Hash                 solana.Hash
	LastValidBlockHeight uint64
}

// Result is the output of a full sweep: the dust set, the per-leg outcomes
// and the unsigned transaction with fee payer and blockhash set.
type Result struct {
	Dust                 []DustToken
	Legs                 []LegResult
	Transaction          *solana.Transaction
	LastValidBlockHeight uint64
}

// Ledger queries the chain for token holdings and block references.
type Ledger interface {
	TokenHoldings(ctx context.Context, owner, tokenProgram solana.PublicKey) ([]Holding, error)
	LatestBlockhash(ctx context.Context) (Blockhash, error)
}

// PriceSource resolves a unit price by mint. A mint the oracle has no quote
// for resolves to 0, not an error.
type PriceSource interface {
	Price(ctx context.Context, mint string) (float64, error)
}

// SwapProvider is the aggregator boundary: quote then build. The quote
// payload is opaque and must be forwarded to BuildSwap unmodified.
type SwapProvider interface {
	Quote(ctx context.Context, req aggregator.QuoteRequest) (json.RawMessage, error)
	BuildSwap(ctx context.Context, req aggregator.SwapRequest) (string, error)
}
