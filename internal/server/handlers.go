// internal/server/handlers.go
package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/solsweep/dust-sweeper/internal/action"
	"github.com/solsweep/dust-sweeper/internal/sweep"
)

const (
	actionView  = "view"
	actionSweep = "sweep"
)

// handleDescriptor serves the action descriptor. OPTIONS echoes the same
// payload so CORS preflight sees the full header set.
func (s *Server) handleDescriptor(w http.ResponseWriter, r *http.Request) {
	var actions []action.LinkedAction
	if s.cfg.ViewActionEnabled {
		actions = append(actions, action.LinkedAction{
			Label: "View Dust Tokens",
			Href:  fmt.Sprintf("%s?action=%s", r.URL.Path, actionView),
			Type:  action.TypeTransaction,
		})
	}
	actions = append(actions, action.LinkedAction{
		Label: "Sweep Dust Tokens",
		Href:  fmt.Sprintf("%s?action=%s", r.URL.Path, actionSweep),
		Type:  action.TypeTransaction,
	})

	payload := action.GetResponse{
		Icon:        s.cfg.IconURL,
		Title:       s.cfg.Title,
		Description: s.cfg.Description,
		Label:       s.cfg.Label,
		Links:       &action.Links{Actions: actions},
	}
	s.writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("action")
	isView := name == actionView && s.cfg.ViewActionEnabled
	if !isView && name != actionSweep {
		s.writeError(w, http.StatusBadRequest, "Invalid action")
		return
	}

	var body action.PostRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.logger.Error("Failed to decode request body", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "An unexpected error occurred")
		return
	}

	// Address validation happens before any network call.
	owner, err := solana.PublicKeyFromBase58(body.Account)
	if err != nil {
		s.logger.Warn("Invalid account in request", zap.String("account", body.Account))
		s.writeError(w, http.StatusBadRequest, "Invalid account")
		return
	}

	if isView {
		s.handleView(w, r, owner)
		return
	}
	s.handleSweep(w, r, owner)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request, owner solana.PublicKey) {
	dust, err := s.sweeper.Preview(r.Context(), owner)
	if err != nil {
		s.logger.Error("View pipeline failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "An unexpected error occurred")
		return
	}

	// The view variant returns an empty transaction: the wallet shows the
	// message without anything to sign.
	tx, err := sweep.NewUnsignedTransaction(nil, solana.Hash{}, owner)
	if err != nil {
		s.logger.Error("Failed to build empty transaction", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "An unexpected error occurred")
		return
	}
	encoded, err := tx.ToBase64()
	if err != nil {
		s.logger.Error("Failed to serialize transaction", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "An unexpected error occurred")
		return
	}

	s.writeJSON(w, http.StatusOK, action.PostResponse{
		Type:        action.TypeTransaction,
		Transaction: encoded,
		Message:     fmt.Sprintf("Found %d dust tokens worth %s", len(dust), s.thresholdLabel()),
	})
}

func (s *Server) handleSweep(w http.ResponseWriter, r *http.Request, owner solana.PublicKey) {
	result, err := s.sweeper.Sweep(r.Context(), owner)
	if err != nil {
		s.logger.Error("Sweep pipeline failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "An unexpected error occurred")
		return
	}

	encoded, err := result.Transaction.ToBase64()
	if err != nil {
		s.logger.Error("Failed to serialize transaction", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "An unexpected error occurred")
		return
	}

	s.writeJSON(w, http.StatusOK, action.PostResponse{
		Type:        action.TypeTransaction,
		Transaction: encoded,
		Message:     fmt.Sprintf("Created swap transaction for %d dust tokens", len(result.Dust)),
	})
}

func (s *Server) thresholdLabel() string {
	if s.cfg.ThresholdInclusive {
		return fmt.Sprintf("≤ $%g", s.cfg.DustThreshold)
	}
	return fmt.Sprintf("< $%g", s.cfg.DustThreshold)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	for key, values := range action.Headers(s.cfg.ActionVersion, s.cfg.BlockchainIDs) {
		for _, value := range values {
			w.Header().Set(key, value)
		}
	}
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, action.ErrorResponse{
		Error: action.ErrorDetail{Message: message},
	})
}
