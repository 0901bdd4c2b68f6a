// pkg/blockchain/solana/client.go
package solana

import (
	"context"
	"errors"
	"net/url"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"github.com/solsweep/dust-sweeper/internal/sweep"
)

type Client struct {
	rpcPool *RPCPool
	logger  *zap.Logger
}

// NewClient creates a ledger client over one or more RPC nodes.
func NewClient(rpcList []string, logger *zap.Logger) (*Client, error) {
	if len(rpcList) == 0 {
		return nil, errors.New("empty RPC list")
	}

	for _, rpcURL := range rpcList {
		if _, err := url.Parse(rpcURL); err != nil {
			return nil, errors.New("invalid RPC URL: " + rpcURL)
		}
	}

	return &Client{
		rpcPool: NewRPCPool(rpcList),
		logger:  logger.Named("ledger"),
	}, nil
}

// TokenHoldings returns every fungible token balance owned by owner under
// the given token program. No ordering is guaranteed.
func (c *Client) TokenHoldings(ctx context.Context, owner, tokenProgram solana.PublicKey) ([]sweep.Holding, error) {
	rpcClient := c.rpcPool.GetClient()
	result, err := rpcClient.GetTokenAccountsByOwner(ctx, owner,
		&rpc.GetTokenAccountsConfig{
			ProgramId: &tokenProgram,
		},
		&rpc.GetTokenAccountsOpts{
			Encoding:   solana.EncodingJSONParsed,
			Commitment: rpc.CommitmentConfirmed,
		},
	)
	if err != nil {
		c.logger.Error("Failed to fetch token accounts", zap.Error(err))
		return nil, err
	}

	return parseHoldings(result.Value)
}

// LatestBlockhash fetches one recent block reference plus its validity
// height.
func (c *Client) LatestBlockhash(ctx context.Context) (sweep.Blockhash, error) {
	rpcClient := c.rpcPool.GetClient()
	result, err := rpcClient.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		c.logger.Error("Failed to fetch latest blockhash", zap.Error(err))
		return sweep.Blockhash{}, err
	}

	return sweep.Blockhash{
		Hash:                 result.Value.Blockhash,
		LastValidBlockHeight: result.Value.LastValidBlockHeight,
	}, nil
}
