package handler

import (
	"net/http"

	"github.com/dtroode/landregistry-server/internal/api/http/middleware"
	"github.com/dtroode/landregistry-server/internal/api/http/response"
	"github.com/dtroode/landregistry-server/internal/logger"
	"github.com/dtroode/landregistry-server/internal/model"
)

// User handles registration, sessions and the caller's profile.
type User struct {
	identity       IdentityService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewUser creates a new User handler.
func NewUser(identity IdentityService, contextManager model.ContextManager, logger *logger.Logger) *User {
	return &User{
		identity:       identity,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Register handles POST /users.
func (h *User) Register(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.Error(w, err)
		return
	}

	h.logger.Debug("User handler: processing registration request",
		"username", req.Username)

	user, err := h.identity.CreateUser(r.Context(), model.CreateUserParams{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		h.fail(w, "registration failed", err)
		return
	}

	response.JSON(w, http.StatusCreated, newUserResponse(user))
}

// Login handles POST /sessions.
func (h *User) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.Error(w, err)
		return
	}

	session, err := h.identity.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(w, "login failed", err)
		return
	}

	response.JSON(w, http.StatusCreated, sessionResponse{Token: session.Token, ExpiresAt: session.ExpiresAt})
}

// Logout handles DELETE /sessions.
func (h *User) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.identity.Logout(r.Context(), middleware.BearerToken(r)); err != nil {
		h.fail(w, "logout failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /me.
func (h *User) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(h.contextManager, r)
	if err != nil {
		response.Error(w, err)
		return
	}

	user, err := h.identity.GetUser(r.Context(), userID)
	if err != nil {
		h.fail(w, "get user failed", err)
		return
	}

	response.JSON(w, http.StatusOK, newUserResponse(user))
}

// RelinkAddress handles PUT /me/address.
func (h *User) RelinkAddress(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(h.contextManager, r)
	if err != nil {
		response.Error(w, err)
		return
	}

	var req relinkRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.Error(w, err)
		return
	}

	if err := h.identity.RelinkAddress(r.Context(), userID, req.Address); err != nil {
		h.fail(w, "address relink failed", err)
		return
	}

	user, err := h.identity.GetUser(r.Context(), userID)
	if err != nil {
		h.fail(w, "get user failed", err)
		return
	}

	response.JSON(w, http.StatusOK, newUserResponse(user))
}

// UpdateImage handles PUT /me/image.
func (h *User) UpdateImage(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(h.contextManager, r)
	if err != nil {
		response.Error(w, err)
		return
	}

	image, closeImage, err := readImage(w, r)
	if err != nil {
		response.Error(w, err)
		return
	}
	defer closeImage()

	user, err := h.identity.UpdateProfileImage(r.Context(), userID, image)
	if err != nil {
		h.fail(w, "profile image update failed", err)
		return
	}

	response.JSON(w, http.StatusOK, newUserResponse(user))
}

func (h *User) fail(w http.ResponseWriter, msg string, err error) {
	if response.StatusOf(err) >= http.StatusInternalServerError {
		h.logger.Error("User handler: "+msg, "error", err.Error())
	} else {
		h.logger.Debug("User handler: "+msg, "error", err.Error())
	}
	response.Error(w, err)
}
