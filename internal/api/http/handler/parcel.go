package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dtroode/landregistry-server/internal/api/http/response"
	"github.com/dtroode/landregistry-server/internal/logger"
	"github.com/dtroode/landregistry-server/internal/model"
)

// Parcel handles parcel registration, listing, edits and purchases.
type Parcel struct {
	registry       RegistryService
	transfers      TransferService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewParcel creates a new Parcel handler.
func NewParcel(registry RegistryService, transfers TransferService, contextManager model.ContextManager, logger *logger.Logger) *Parcel {
	return &Parcel{
		registry:       registry,
		transfers:      transfers,
		contextManager: contextManager,
		logger:         logger,
	}
}

// List handles GET /parcels?for_sale=&owner=&q=.
func (h *Parcel) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.ParcelFilter{Query: q.Get("q")}

	if raw := q.Get("for_sale"); raw != "" {
		forSale, err := strconv.ParseBool(raw)
		if err != nil {
			response.Error(w, model.ErrInvalidInput.WithMessage("invalid for_sale %q", raw))
			return
		}
		filter.ForSale = &forSale
	}
	if raw := q.Get("owner"); raw != "" {
		ownerID, err := parseID(raw)
		if err != nil {
			response.Error(w, err)
			return
		}
		filter.OwnerID = ownerID
	}

	parcels, err := h.registry.List(r.Context(), filter)
	if err != nil {
		h.fail(w, "list failed", err)
		return
	}

	out := make([]parcelResponse, 0, len(parcels))
	for _, p := range parcels {
		out = append(out, newParcelResponse(p))
	}
	response.JSON(w, http.StatusOK, out)
}

// Get handles GET /parcels/{id}.
func (h *Parcel) Get(w http.ResponseWriter, r *http.Request) {
	parcelID, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, err)
		return
	}

	parcel, err := h.registry.Get(r.Context(), parcelID)
	if err != nil {
		h.fail(w, "get failed", err)
		return
	}

	response.JSON(w, http.StatusOK, newParcelResponse(parcel))
}

// History handles GET /parcels/{id}/transfers.
func (h *Parcel) History(w http.ResponseWriter, r *http.Request) {
	parcelID, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, err)
		return
	}

	if _, err := h.registry.Get(r.Context(), parcelID); err != nil {
		h.fail(w, "get failed", err)
		return
	}

	transfers, err := h.transfers.History(r.Context(), parcelID)
	if err != nil {
		h.fail(w, "history failed", err)
		return
	}

	response.JSON(w, http.StatusOK, newTransferList(transfers))
}

// Register handles POST /parcels.
func (h *Parcel) Register(w http.ResponseWriter, r *http.Request) {
	ownerID, err := callerID(h.contextManager, r)
	if err != nil {
		response.Error(w, err)
		return
	}

	var req registerParcelRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.Error(w, err)
		return
	}

	parcel, err := h.registry.Register(r.Context(), model.RegisterParcelParams{
		OwnerID:     ownerID,
		LedgerID:    req.LedgerID,
		Title:       req.Title,
		Location:    req.Location,
		Description: req.Description,
		Price:       req.Price,
		ForSale:     req.ForSale,
	})
	if err != nil {
		h.fail(w, "registration failed", err)
		return
	}

	response.JSON(w, http.StatusCreated, newParcelResponse(parcel))
}

// Edit handles PATCH /parcels/{id}.
func (h *Parcel) Edit(w http.ResponseWriter, r *http.Request) {
	h.ownerAction(w, r, func(parcelID, userID uuid.UUID) (model.Parcel, error) {
		var req editParcelRequest
		if err := decodeJSON(w, r, &req); err != nil {
			return model.Parcel{}, err
		}
		return h.registry.Edit(r.Context(), parcelID, userID, model.EditParcelParams{
			Title:       req.Title,
			Location:    req.Location,
			Description: req.Description,
			Price:       req.Price,
			ForSale:     req.ForSale,
		})
	})
}

// SetSaleState handles PUT /parcels/{id}/sale.
func (h *Parcel) SetSaleState(w http.ResponseWriter, r *http.Request) {
	h.ownerAction(w, r, func(parcelID, userID uuid.UUID) (model.Parcel, error) {
		var req saleRequest
		if err := decodeJSON(w, r, &req); err != nil {
			return model.Parcel{}, err
		}
		return h.registry.SetSaleState(r.Context(), parcelID, userID, req.ForSale)
	})
}

// UpdateImage handles PUT /parcels/{id}/image.
func (h *Parcel) UpdateImage(w http.ResponseWriter, r *http.Request) {
	h.ownerAction(w, r, func(parcelID, userID uuid.UUID) (model.Parcel, error) {
		image, closeImage, err := readImage(w, r)
		if err != nil {
			return model.Parcel{}, err
		}
		defer closeImage()
		return h.registry.UpdateImage(r.Context(), parcelID, userID, image)
	})
}

func (h *Parcel) ownerAction(w http.ResponseWriter, r *http.Request, action func(parcelID, userID uuid.UUID) (model.Parcel, error)) {
	userID, err := callerID(h.contextManager, r)
	if err != nil {
		response.Error(w, err)
		return
	}
	parcelID, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, err)
		return
	}

	parcel, err := action(parcelID, userID)
	if err != nil {
		h.fail(w, "update failed", err)
		return
	}

	response.JSON(w, http.StatusOK, newParcelResponse(parcel))
}

// Purchase handles POST /parcels/{id}/purchase. A rejected attempt is
// reported with the status of its reason and the attempt state in the body.
func (h *Parcel) Purchase(w http.ResponseWriter, r *http.Request) {
	buyerID, err := callerID(h.contextManager, r)
	if err != nil {
		response.Error(w, err)
		return
	}
	parcelID, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, err)
		return
	}

	var req purchaseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if req.TimeoutMS < 0 || req.TimeoutMS > MaxPurchaseTimeout.Milliseconds() {
		response.Error(w, model.ErrInvalidInput.WithMessage("timeout_ms must be between 0 and %d", MaxPurchaseTimeout.Milliseconds()))
		return
	}

	h.logger.Info("Parcel handler: processing purchase request",
		"parcel_id", parcelID,
		"buyer_id", buyerID,
		"ledger_ref", req.LedgerRef)

	attempt, err := h.transfers.Purchase(r.Context(), model.PurchaseRequest{
		ParcelID:  parcelID,
		BuyerID:   buyerID,
		LedgerRef: req.LedgerRef,
		Timeout:   time.Duration(req.TimeoutMS) * time.Millisecond,
	})
	if err != nil {
		body := response.Body(err)
		response.JSON(w, response.StatusOf(err), purchaseResponse{
			State:   attempt.State,
			Reason:  attempt.Reason,
			Message: body.Message,
		})
		return
	}

	transfer := newTransferResponse(*attempt.Transfer)
	response.JSON(w, http.StatusOK, purchaseResponse{
		State:    attempt.State,
		Transfer: &transfer,
	})
}

func (h *Parcel) fail(w http.ResponseWriter, msg string, err error) {
	if response.StatusOf(err) >= http.StatusInternalServerError {
		h.logger.Error("Parcel handler: "+msg, "error", err.Error())
	} else {
		h.logger.Debug("Parcel handler: "+msg, "error", err.Error())
	}
	response.Error(w, err)
}
