package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dtroode/landregistry-server/internal/model"
)

type userResponse struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Address      string    `json:"address"`
	ProfileImage string    `json:"profile_image"`
	CreatedAt    time.Time `json:"created_at"`
}

func newUserResponse(u model.User) userResponse {
	return userResponse{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Address:      u.Address,
		ProfileImage: imageURL(u.ProfileImage),
		CreatedAt:    u.CreatedAt,
	}
}

type parcelResponse struct {
	ID          uuid.UUID       `json:"id"`
	LedgerID    int64           `json:"ledger_id"`
	OwnerID     uuid.UUID       `json:"owner_id"`
	Title       string          `json:"title"`
	Location    string          `json:"location"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	ForSale     bool            `json:"for_sale"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func newParcelResponse(p model.Parcel) parcelResponse {
	return parcelResponse{
		ID:          p.ID,
		LedgerID:    p.LedgerID,
		OwnerID:     p.OwnerID,
		Title:       p.Title,
		Location:    p.Location,
		Description: p.Description,
		Price:       p.Price,
		Image:       imageURL(p.Image),
		ForSale:     p.ForSale,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

type transferResponse struct {
	ID        uuid.UUID       `json:"id"`
	LedgerRef string          `json:"ledger_ref"`
	ParcelID  uuid.UUID       `json:"parcel_id"`
	SellerID  uuid.UUID       `json:"seller_id"`
	BuyerID   uuid.UUID       `json:"buyer_id"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"created_at"`
}

func newTransferResponse(t model.Transfer) transferResponse {
	return transferResponse{
		ID:        t.ID,
		LedgerRef: t.LedgerRef,
		ParcelID:  t.ParcelID,
		SellerID:  t.SellerID,
		BuyerID:   t.BuyerID,
		Price:     t.Price,
		CreatedAt: t.CreatedAt,
	}
}

func newTransferList(transfers []model.Transfer) []transferResponse {
	out := make([]transferResponse, 0, len(transfers))
	for _, t := range transfers {
		out = append(out, newTransferResponse(t))
	}
	return out
}

type sessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type createUserRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type relinkRequest struct {
	Address string `json:"address"`
}

type registerParcelRequest struct {
	LedgerID    int64           `json:"ledger_id"`
	Title       string          `json:"title"`
	Location    string          `json:"location"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ForSale     bool            `json:"for_sale"`
}

type editParcelRequest struct {
	Title       *string          `json:"title"`
	Location    *string          `json:"location"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	ForSale     *bool            `json:"for_sale"`
}

type saleRequest struct {
	ForSale bool `json:"for_sale"`
}

type purchaseRequest struct {
	LedgerRef string `json:"ledger_ref"`
	// TimeoutMS bounds ledger verification; zero uses the server default.
	TimeoutMS int64 `json:"timeout_ms"`
}

type purchaseResponse struct {
	State    model.TransferState `json:"state"`
	Reason   string              `json:"reason,omitempty"`
	Message  string              `json:"message,omitempty"`
	Transfer *transferResponse   `json:"transfer,omitempty"`
}

type verificationResponse struct {
	Transfer       transferResponse `json:"transfer"`
	ParcelTitle    string           `json:"parcel_title"`
	SellerUsername string           `json:"seller_username"`
	BuyerUsername  string           `json:"buyer_username"`
	LedgerStatus   string           `json:"ledger_status"`
}
