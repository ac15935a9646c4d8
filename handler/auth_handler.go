package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/SagorIslamOfficial/hrm-sub003/apperrors"
	"github.com/SagorIslamOfficial/hrm-sub003/repository"
	"github.com/SagorIslamOfficial/hrm-sub003/utils"
)

// AuthHandler handles login for handler accounts
type AuthHandler struct {
	directory      *repository.DirectoryRepository
	jwtSecret      []byte
	expiresInHours int
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(directory *repository.DirectoryRepository, jwtSecret string, expiresInHours int) *AuthHandler {
	if expiresInHours <= 0 {
		expiresInHours = 24
	}
	return &AuthHandler{
		directory:      directory,
		jwtSecret:      []byte(jwtSecret),
		expiresInHours: expiresInHours,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Failed to parse request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondWithError(w, http.StatusBadRequest, "Validation error", "Email and password are required")
		return
	}

	account, err := h.directory.GetAccountByEmail(req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Invalid credentials")
			return
		}
		respondWithServiceError(w, err)
		return
	}
	if err := utils.CheckPassword(req.Password, account.PasswordHash); err != nil {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Invalid credentials")
		return
	}

	token, err := utils.GenerateJWT(account.EmployeeID, string(account.Role), h.jwtSecret, h.expiresInHours)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal error", "Failed to issue token")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"token":       token,
		"employee_id": account.EmployeeID,
		"role":        account.Role,
		"full_name":   account.FullName,
	})
}
