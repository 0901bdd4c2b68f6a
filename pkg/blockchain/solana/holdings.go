// pkg/blockchain/solana/holdings.go
package solana

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/gagliardetto/solana-go/rpc"

	"github.com/solsweep/dust-sweeper/internal/sweep"
)

// parsedTokenAccount is the jsonParsed layout of an SPL token account.
type parsedTokenAccount struct {
	Parsed struct {
		Info struct {
			Mint        string `json:"mint"`
			TokenAmount struct {
				Amount         string   `json:"amount"`
				Decimals       uint8    `json:"decimals"`
				UIAmount       *float64 `json:"uiAmount"`
				UIAmountString string   `json:"uiAmountString"`
			} `json:"tokenAmount"`
		} `json:"info"`
	} `json:"parsed"`
}

func parseHoldings(accounts []*rpc.TokenAccount) ([]sweep.Holding, error) {
	holdings := make([]sweep.Holding, 0, len(accounts))
	for _, account := range accounts {
		var parsed parsedTokenAccount
		if err := json.Unmarshal(account.Account.Data.GetRawJSON(), &parsed); err != nil {
			return nil, fmt.Errorf("parse token account: %w", err)
		}

		tokenAmount := parsed.Parsed.Info.TokenAmount
		rawAmount, err := strconv.ParseUint(tokenAmount.Amount, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse token amount %q: %w", tokenAmount.Amount, err)
		}

		// uiAmount can be null in the RPC response; recompute from the raw
		// amount and decimals in that case.
		uiAmount := 0.0
		if tokenAmount.UIAmount != nil {
			uiAmount = *tokenAmount.UIAmount
		} else if rawAmount > 0 {
			uiAmount = float64(rawAmount) / math.Pow10(int(tokenAmount.Decimals))
		}

		holdings = append(holdings, sweep.Holding{
			Mint:      parsed.Parsed.Info.Mint,
			RawAmount: rawAmount,
			UIAmount:  uiAmount,
			Decimals:  tokenAmount.Decimals,
		})
	}
	return holdings, nil
}
