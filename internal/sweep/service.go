// internal/sweep/service.go
package sweep

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/solsweep/dust-sweeper/internal/retry"
)

// Service composes the full pipeline: enumerate holdings, classify dust,
// build the sweep transaction.
type Service struct {
	ledger       Ledger
	classifier   *Classifier
	composer     *Composer
	tokenProgram solana.PublicKey
	retry        retry.Policy
	logger       *zap.Logger
}

// NewService wires the pipeline components together.
func NewService(ledger Ledger, classifier *Classifier, composer *Composer, tokenProgram solana.PublicKey, policy retry.Policy, logger *zap.Logger) *Service {
	return &Service{
		ledger:       ledger,
		classifier:   classifier,
		composer:     composer,
		tokenProgram: tokenProgram,
		retry:        policy,
		logger:       logger.Named("sweep"),
	}
}

// Preview enumerates and classifies without composing any swap.
func (s *Service) Preview(ctx context.Context, owner solana.PublicKey) ([]DustToken, error) {
	holdings, err := s.enumerateHoldings(ctx, owner)
	if err != nil {
		return nil, err
	}
	return s.classifier.Classify(ctx, holdings), nil
}

// Sweep runs the full pipeline and returns the unsigned transaction with
// per-leg outcomes.
func (s *Service) Sweep(ctx context.Context, owner solana.PublicKey) (*Result, error) {
	holdings, err := s.enumerateHoldings(ctx, owner)
	if err != nil {
		return nil, err
	}

	dust := s.classifier.Classify(ctx, holdings)
	s.logger.Info("Classified holdings",
		zap.Int("holdings", len(holdings)),
		zap.Int("dust", len(dust)))

	result, err := s.composer.Compose(ctx, dust, owner)
	if err != nil {
		return nil, err
	}

	swapped := lo.CountBy(result.Legs, func(leg LegResult) bool {
		return leg.Status == LegOK
	})
	s.logger.Info("Composed sweep transaction",
		zap.Int("legs_ok", swapped),
		zap.Int("legs_skipped", len(result.Legs)-swapped),
		zap.Uint64("last_valid_block_height", result.LastValidBlockHeight))

	return result, nil
}

func (s *Service) enumerateHoldings(ctx context.Context, owner solana.PublicKey) ([]Holding, error) {
	holdings, err := retry.Do(ctx, s.retry, func() ([]Holding, error) {
		return s.ledger.TokenHoldings(ctx, owner, s.tokenProgram)
	})
	if err != nil {
		return nil, fmt.Errorf("enumerate holdings: %w", err)
	}
	return holdings, nil
}
