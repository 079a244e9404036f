package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dtroode/landregistry-server/internal/api/http/response"
	"github.com/dtroode/landregistry-server/internal/logger"
	"github.com/dtroode/landregistry-server/internal/model"
)

// Transfer serves the transfer audit trail.
type Transfer struct {
	transfers      TransferService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewTransfer creates a new Transfer handler.
func NewTransfer(transfers TransferService, contextManager model.ContextManager, logger *logger.Logger) *Transfer {
	return &Transfer{
		transfers:      transfers,
		contextManager: contextManager,
		logger:         logger,
	}
}

// List handles GET /transfers: the caller's transfers, newest first.
func (h *Transfer) List(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(h.contextManager, r)
	if err != nil {
		response.Error(w, err)
		return
	}

	transfers, err := h.transfers.ListForUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("Transfer handler: list failed",
			"user_id", userID,
			"error", err.Error())
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusOK, newTransferList(transfers))
}

// Verify handles GET /transfers/{ref}.
func (h *Transfer) Verify(w http.ResponseWriter, r *http.Request) {
	v, err := h.transfers.Verify(r.Context(), chi.URLParam(r, "ref"))
	if err != nil {
		if response.StatusOf(err) >= http.StatusInternalServerError {
			h.logger.Error("Transfer handler: verify failed", "error", err.Error())
		}
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusOK, verificationResponse{
		Transfer:       newTransferResponse(v.Transfer),
		ParcelTitle:    v.ParcelTitle,
		SellerUsername: v.SellerUsername,
		BuyerUsername:  v.BuyerUsername,
		LedgerStatus:   v.LedgerStatus,
	})
}
