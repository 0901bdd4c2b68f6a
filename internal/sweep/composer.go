// internal/sweep/composer.go
package sweep

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/solsweep/dust-sweeper/internal/aggregator"
	"github.com/solsweep/dust-sweeper/internal/retry"
)

// ComposerConfig holds the swap target and slippage tolerance.
type ComposerConfig struct {
	StablecoinMint string
	SlippageBps    int
}

// Composer turns a dust set into one unsigned transaction, one aggregator
// quote+build round-trip per token.
type Composer struct {
	swaps  SwapProvider
	ledger Ledger
	cfg    ComposerConfig
	retry  retry.Policy
	logger *zap.Logger
}

// NewComposer creates a composer.
func NewComposer(swaps SwapProvider, ledger Ledger, cfg ComposerConfig, policy retry.Policy, logger *zap.Logger) *Composer {
	return &Composer{
		swaps:  swaps,
		ledger: ledger,
		cfg:    cfg,
		retry:  policy,
		logger: logger.Named("composer"),
	}
}

// Compose attempts one swap leg per dust token, merging the instructions of
// the legs that succeeded. A failed leg is recorded and skipped; it never
// aborts the batch. The blockhash is fetched once, after all legs, and the
// fee payer is always the requesting account.
func (c *Composer) Compose(ctx context.Context, dust []DustToken, payer solana.PublicKey) (*Result, error) {
	legs := make([]LegResult, 0, len(dust))
	var instructions []solana.Instruction

	for _, token := range dust {
		leg := c.composeLeg(ctx, token, payer)
		if leg.Status == LegOK {
			instructions = append(instructions, leg.Instructions...)
		} else {
			c.logger.Warn("Swap leg skipped",
				zap.String("mint", token.Mint),
				zap.String("reason", leg.Reason))
		}
		legs = append(legs, leg)
	}

	ref, err := retry.Do(ctx, c.retry, func() (Blockhash, error) {
		return c.ledger.LatestBlockhash(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("get latest blockhash: %w", err)
	}

	tx, err := NewUnsignedTransaction(instructions, ref.Hash, payer)
	if err != nil {
		return nil, fmt.Errorf("assemble transaction: %w", err)
	}

	return &Result{
		Dust:                 dust,
		Legs:                 legs,
		Transaction:          tx,
		LastValidBlockHeight: ref.LastValidBlockHeight,
	}, nil
}

func (c *Composer) composeLeg(ctx context.Context, token DustToken, payer solana.PublicKey) LegResult {
	// Quote amounts are raw integer amounts. Sending the UI amount here
	// would quote a fraction of the real balance.
	quote, err := retry.Do(ctx, c.retry, func() (json.RawMessage, error) {
		return c.swaps.Quote(ctx, aggregator.QuoteRequest{
			InputMint:   token.Mint,
			OutputMint:  c.cfg.StablecoinMint,
			Amount:      token.RawAmount,
			SlippageBps: c.cfg.SlippageBps,
		})
	})
	if err != nil {
		return skippedLeg(token.Mint, fmt.Sprintf("quote: %v", err))
	}

	encoded, err := retry.Do(ctx, c.retry, func() (string, error) {
		return c.swaps.BuildSwap(ctx, aggregator.SwapRequest{
			QuoteResponse:    quote,
			UserPublicKey:    payer.String(),
			WrapAndUnwrapSol: true,
		})
	})
	if err != nil {
		return skippedLeg(token.Mint, fmt.Sprintf("build swap: %v", err))
	}
	if encoded == "" {
		return skippedLeg(token.Mint, "aggregator returned no swap transaction")
	}

	instructions, err := decodeSwapInstructions(encoded)
	if err != nil {
		return skippedLeg(token.Mint, fmt.Sprintf("decode swap: %v", err))
	}

	return LegResult{
		Mint:         token.Mint,
		Status:       LegOK,
		Instructions: instructions,
	}
}

// NewUnsignedTransaction assembles an unsigned transaction with the fee
// payer as sole required signer. Unlike solana.NewTransaction it accepts an
// empty instruction list: a sweep where every leg was skipped still returns
// a well-formed transaction.
func NewUnsignedTransaction(instructions []solana.Instruction, recentBlockhash solana.Hash, payer solana.PublicKey) (*solana.Transaction, error) {
	if len(instructions) == 0 {
		return &solana.Transaction{
			Message: solana.Message{
				Header: solana.MessageHeader{
					NumRequiredSignatures: 1,
				},
				AccountKeys:     []solana.PublicKey{payer},
				RecentBlockhash: recentBlockhash,
			},
		}, nil
	}
	return solana.NewTransaction(instructions, recentBlockhash, solana.TransactionPayer(payer))
}

func skippedLeg(mint, reason string) LegResult {
	return LegResult{
		Mint:   mint,
		Status: LegSkipped,
		Reason: reason,
	}
}

// decodeSwapInstructions deserializes the aggregator's base64 transaction
// and decompiles its instructions so they can be appended to ours.
func decodeSwapInstructions(encoded string) ([]solana.Instruction, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode swap transaction: %w", err)
	}

	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	if err != nil {
		return nil, fmt.Errorf("deserialize swap transaction: %w", err)
	}

	instructions := make([]solana.Instruction, 0, len(tx.Message.Instructions))
	for _, compiled := range tx.Message.Instructions {
		programID, err := tx.Message.Program(compiled.ProgramIDIndex)
		if err != nil {
			return nil, fmt.Errorf("resolve program id: %w", err)
		}
		accounts, err := compiled.ResolveInstructionAccounts(&tx.Message)
		if err != nil {
			return nil, fmt.Errorf("resolve instruction accounts: %w", err)
		}
		instructions = append(instructions, solana.NewInstruction(programID, accounts, compiled.Data))
	}
	return instructions, nil
}
