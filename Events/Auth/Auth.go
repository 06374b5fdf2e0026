package auth

import (
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	Users "chirp/Events/Users"
	AuthService "chirp/Services/Auth"
	Mdb "chirp/Services/Mdb"
	Utils "chirp/Utils"
)

// Handle sets up the routes for authentication endpoints
func Handle(r chi.Router) {
	r.Post("/register", Register)
	r.Post("/login", Login)
	r.Post("/logout", Logout)
}

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	Username    string  `json:"username"`
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	DisplayName *string `json:"display_name"`
}

// Register creates a new user account
func Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	defer r.Body.Close()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("Register: failed to read body: %v", err)
		Utils.SendErrorResponse(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	var input RegisterRequest
	if err := json.Unmarshal(body, &input); err != nil {
		Utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if input.Username == "" {
		Utils.SendErrorResponse(w, http.StatusBadRequest, "Username is required")
		return
	}
	if input.Email == "" {
		Utils.SendErrorResponse(w, http.StatusBadRequest, "Email is required")
		return
	}
	if input.Password == "" {
		Utils.SendErrorResponse(w, http.StatusBadRequest, "Password is required")
		return
	}

	if err := Users.ValidateUsername(input.Username); err != nil {
		Utils.SendErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := Users.ValidateEmail(input.Email); err != nil {
		Utils.SendErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := Users.ValidatePassword(input.Password); err != nil {
		Utils.SendErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if input.DisplayName != nil {
		if err := Users.ValidateDisplayName(*input.DisplayName); err != nil {
			Utils.SendErrorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	// Username and email collisions get distinct messages
	var exists bool
	err = Mdb.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE username = ?)", input.Username,
	).Scan(&exists)
	if err != nil {
		log.Printf("Register: failed to check username: %v", err)
		Utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to check username availability")
		return
	}
	if exists {
		Utils.SendErrorResponse(w, http.StatusBadRequest, "Username already exists")
		return
	}

	err = Mdb.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)", input.Email,
	).Scan(&exists)
	if err != nil {
		log.Printf("Register: failed to check email: %v", err)
		Utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to check email availability")
		return
	}
	if exists {
		Utils.SendErrorResponse(w, http.StatusBadRequest, "Email already exists")
		return
	}

	passwordHash, err := AuthService.HashPassword(input.Password)
	if err != nil {
		log.Printf("Register: failed to hash password: %v", err)
		Utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to process password")
		return
	}

	now := time.Now().UnixNano()
	user := Users.User{
		ID:           uuid.NewString(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: passwordHash,
		DisplayName:  input.DisplayName,
		CreatedAt:    time.Unix(0, now).UTC(),
		UpdatedAt:    time.Unix(0, now).UTC(),
	}

	_, err = Mdb.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, display_name, bio, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Username, user.Email, user.PasswordHash, user.DisplayName, user.Bio, now, now,
	)
	if err != nil {
		log.Printf("Register: failed to insert user: %v", err)
		Utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	Utils.SendJSONResponse(w, http.StatusCreated, user)
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates a user and returns a JWT token.
// Unknown usernames and wrong passwords share a single error message.
func Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	defer r.Body.Close()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("Login: failed to read body: %v", err)
		Utils.SendErrorResponse(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	var input LoginRequest
	if err := json.Unmarshal(body, &input); err != nil {
		Utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if input.Username == "" {
		Utils.SendErrorResponse(w, http.StatusBadRequest, "Username is required")
		return
	}
	if input.Password == "" {
		Utils.SendErrorResponse(w, http.StatusBadRequest, "Password is required")
		return
	}

	user, err := Users.FetchUserByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			Utils.SendErrorResponse(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		log.Printf("Login: failed to fetch user: %v", err)
		Utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to authenticate")
		return
	}

	if !AuthService.CheckPasswordHash(input.Password, user.PasswordHash) {
		Utils.SendErrorResponse(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	token, err := AuthService.GenerateToken(user.ID, user.Username)
	if err != nil {
		log.Printf("Login: failed to generate token: %v", err)
		Utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	Utils.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
		"access_token": token,
		"token_type":   "Bearer",
		"user":         user,
	})
}

// Logout acknowledges a logout. Tokens are stateless, so nothing is
// invalidated server-side; clients discard the token.
func Logout(w http.ResponseWriter, r *http.Request) {
	if _, err := AuthService.GetClaims(r); err != nil {
		Utils.SendErrorResponse(w, http.StatusUnauthorized, err.Error())
		return
	}

	Utils.SendJSONResponse(w, http.StatusOK, map[string]string{"message": "Successfully logged out"})
}
