package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/chirpysocial/backend/internal/db"
	apperrors "github.com/chirpysocial/backend/internal/errors"
	"github.com/chirpysocial/backend/internal/logger"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Email       string    `json:"email"`
	IsChirpyRed bool      `json:"isChirpyRed"`
}

// LoginResponse is the user profile plus both tokens. The password hash is
// never part of any response shape.
type LoginResponse struct {
	UserResponse
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

type RefreshResponse struct {
	Token string `json:"token"`
}

type Handlers struct {
	svc *Service
	log *logger.Logger
}

func NewHandlers(svc *Service) *Handlers {
	return &Handlers{
		svc: svc,
		log: logger.Default().WithComponent("auth"),
	}
}

// CreateUser handles POST /api/users.
func (h *Handlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	requestID := apperrors.GetRequestID(r.Context())

	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperrors.WriteError(w, requestID, apperrors.BadRequest("invalid request body"))
		return
	}
	if err := validateCredentials(&req); err != nil {
		apperrors.WriteError(w, requestID, err)
		return
	}

	user, err := h.svc.CreateUser(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	apperrors.WriteJSON(w, requestID, http.StatusCreated, userResponse(user))
}

// UpdateUser handles PUT /api/users. The router wraps it in the bearer-auth
// middleware, so the caller identity comes from the request context.
func (h *Handlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	requestID := apperrors.GetRequestID(r.Context())

	userCtx := GetUserFromContext(r.Context())
	if userCtx == nil {
		apperrors.WriteError(w, requestID, apperrors.Unauthorized("not authenticated"))
		return
	}

	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperrors.WriteError(w, requestID, apperrors.BadRequest("invalid request body"))
		return
	}
	if err := validateCredentials(&req); err != nil {
		apperrors.WriteError(w, requestID, err)
		return
	}

	user, err := h.svc.UpdateUser(r.Context(), userCtx.UserID, req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	apperrors.WriteJSON(w, requestID, http.StatusOK, userResponse(user))
}

// Login handles POST /api/login.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	requestID := apperrors.GetRequestID(r.Context())

	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperrors.WriteError(w, requestID, apperrors.BadRequest("invalid request body"))
		return
	}
	if req.Email == "" || req.Password == "" {
		apperrors.WriteError(w, requestID, apperrors.ValidationError("email and password are required"))
		return
	}

	session, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	apperrors.WriteJSON(w, requestID, http.StatusOK, LoginResponse{
		UserResponse: userResponse(session.User),
		Token:        session.AccessToken,
		RefreshToken: session.RefreshToken,
	})
}

// Refresh handles POST /api/refresh. The refresh token rides in the
// Authorization header, not the body.
func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	requestID := apperrors.GetRequestID(r.Context())

	refreshToken, err := GetBearerToken(r.Header)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	accessToken, err := h.svc.Refresh(r.Context(), refreshToken)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	apperrors.WriteJSON(w, requestID, http.StatusOK, RefreshResponse{Token: accessToken})
}

// Revoke handles POST /api/revoke. Succeeds with 204 even when the token is
// already revoked or unknown.
func (h *Handlers) Revoke(w http.ResponseWriter, r *http.Request) {
	requestID := apperrors.GetRequestID(r.Context())

	refreshToken, err := GetBearerToken(r.Header)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.svc.Revoke(r.Context(), refreshToken); err != nil {
		h.writeError(w, r, err)
		return
	}

	apperrors.WriteJSON(w, requestID, http.StatusNoContent, nil)
}

func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := apperrors.GetRequestID(r.Context())

	switch {
	case errors.Is(err, ErrNoAuthHeader):
		apperrors.WriteError(w, requestID, apperrors.MissingAuthHeader())
	case errors.Is(err, ErrMalformedAuthHeader):
		apperrors.WriteError(w, requestID, apperrors.MalformedAuthHeader())
	case errors.Is(err, ErrInvalidCredentials):
		apperrors.WriteError(w, requestID, apperrors.InvalidCredentials())
	case errors.Is(err, ErrTokenExpired):
		apperrors.WriteError(w, requestID, apperrors.TokenExpired(err.Error()))
	case errors.Is(err, ErrInvalidToken), errors.Is(err, ErrInvalidSubject):
		apperrors.WriteError(w, requestID, apperrors.InvalidToken("invalid access token"))
	case errors.Is(err, db.ErrEmailExists):
		apperrors.WriteError(w, requestID, apperrors.EmailExists())
	case errors.Is(err, db.ErrUserNotFound):
		apperrors.WriteError(w, requestID, apperrors.UserNotFound())
	default:
		h.log.Error(r.Context(), "auth operation failed", err)
		apperrors.WriteError(w, requestID, apperrors.InternalError("something went wrong"))
	}
}

func validateCredentials(req *CredentialsRequest) error {
	if req.Email == "" || req.Password == "" {
		return apperrors.ValidationError("email and password are required")
	}
	if !emailRegex.MatchString(req.Email) {
		return apperrors.ValidationError("invalid email format")
	}
	return nil
}

func userResponse(user *db.User) UserResponse {
	return UserResponse{
		ID:          user.ID.String(),
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
		Email:       user.Email,
		IsChirpyRed: user.IsChirpyRed,
	}
}
