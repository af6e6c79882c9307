package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"leadflow-backend/pkg/config"
	"leadflow-backend/pkg/database"
	"leadflow-backend/pkg/middleware"
	"leadflow-backend/pkg/models"
	"leadflow-backend/pkg/utils"
)

const minPasswordLength = 8

// AuthHandler serves registration, login and token refresh
type AuthHandler struct {
	config *config.Config
	db     database.Store
	jwt    *utils.JWTService
}

// NewAuthHandler creates an auth handler
func NewAuthHandler(cfg *config.Config, db database.Store) *AuthHandler {
	return &AuthHandler{
		config: cfg,
		db:     db,
		jwt:    utils.NewJWTService(cfg.JWTSecret),
	}
}

// HealthCheck handles GET /. Pings the store so load balancers notice a
// dead database.
func (h *AuthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.db.HealthCheck(); err != nil {
		log.Printf("health: store ping failed: %v", err)
		utils.WriteInternalServerErrorResponse(w, "Service unavailable")
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{"status": "ok"})
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.UserRegisterRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		utils.WriteBadRequestResponse(w, "Email and password are required")
		return
	}
	if len(req.Password) < minPasswordLength {
		utils.WriteBadRequestResponse(w, "Password must be at least 8 characters")
		return
	}

	if _, err := h.db.GetUserByEmail(req.Email); err == nil {
		utils.WriteConflictResponse(w, "Email already registered")
		return
	} else if !errors.Is(err, database.ErrNotFound) {
		log.Printf("auth: register lookup failed: %v", err)
		utils.WriteInternalServerErrorResponse(w, "Failed to register")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("auth: password hashing failed: %v", err)
		utils.WriteInternalServerErrorResponse(w, "Failed to register")
		return
	}

	user := &models.User{
		Email:    req.Email,
		Password: string(hash),
		Name:     strings.TrimSpace(req.Name),
	}
	if err := h.db.CreateUser(user); err != nil {
		log.Printf("auth: create user failed: %v", err)
		utils.WriteInternalServerErrorResponse(w, "Failed to register")
		return
	}

	h.writeTokenResponse(w, http.StatusCreated, user)
}

// Login handles POST /api/auth/login. Wrong email and wrong password are
// indistinguishable to the caller.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.UserLoginRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		utils.WriteBadRequestResponse(w, "Email and password are required")
		return
	}

	user, err := h.db.GetUserByEmail(req.Email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			utils.WriteErrorResponse(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		log.Printf("auth: login lookup failed: %v", err)
		utils.WriteInternalServerErrorResponse(w, "Failed to log in")
		return
	}

	if user.Password == "" || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	h.writeTokenResponse(w, http.StatusOK, user)
}

// RefreshToken handles POST /api/auth/refresh
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshTokenRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}
	if req.RefreshToken == "" {
		utils.WriteBadRequestResponse(w, "Refresh token is required")
		return
	}

	accessToken, expiresIn, err := h.jwt.RefreshAccessToken(req.RefreshToken)
	if err != nil {
		log.Printf("auth: refresh rejected: %v", err)
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	utils.WriteSuccessResponse(w, map[string]interface{}{
		"access_token": accessToken,
		"expires_in":   expiresIn,
	})
}

// Logout handles POST /api/auth/logout. Tokens are stateless, so this is an
// acknowledgment for the client to drop its copy.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	utils.WriteSuccessResponse(w, map[string]interface{}{"success": true})
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	sessionUser, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w)
		return
	}

	user, err := h.db.GetUserByID(sessionUser.ID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			utils.WriteNotFoundResponse(w, "User not found")
			return
		}
		log.Printf("auth: me lookup failed: %v", err)
		utils.WriteInternalServerErrorResponse(w, "Failed to fetch profile")
		return
	}

	utils.WriteSuccessResponse(w, user)
}

// writeTokenResponse issues a token pair for the user and writes the login
// payload
func (h *AuthHandler) writeTokenResponse(w http.ResponseWriter, status int, user *models.User) {
	accessToken, refreshToken, expiresIn, err := h.jwt.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		log.Printf("auth: token generation failed: %v", err)
		utils.WriteInternalServerErrorResponse(w, "Failed to issue tokens")
		return
	}

	utils.WriteJSONResponse(w, status, models.UserLoginResponse{
		User:         *user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
	})
}
