package users

import (
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	AuthService "chirp/Services/Auth"
	Mdb "chirp/Services/Mdb"
	Utils "chirp/Utils"
)

// Handle sets up the routes for user endpoints
func Handle(r chi.Router) {
	r.Get("/", ListUsers)
	r.Get("/{id}", GetUser)
	r.Put("/{id}", UpdateUser)
}

// ListUsers lists all users with pagination, newest accounts first
func ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page, perPage, err := Utils.ParsePagination(r)
	if err != nil {
		Utils.SendErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	var total int
	if err := Mdb.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&total); err != nil {
		log.Printf("ListUsers: failed to count users: %v", err)
		Utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to fetch users")
		return
	}

	pagination := Utils.NewPagination(page, perPage, total)

	rows, err := Mdb.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY created_at DESC LIMIT ? OFFSET ?",
		perPage, pagination.Offset(),
	)
	if err != nil {
		log.Printf("ListUsers: failed to query users: %v", err)
		Utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to fetch users")
		return
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		var user User
		var displayNameNull, bioNull sql.NullString
		var createdAt, updatedAt int64
		if err := rows.Scan(
			&user.ID, &user.Username, &user.Email, &user.PasswordHash,
			&displayNameNull, &bioNull, &createdAt, &updatedAt,
		); err != nil {
			log.Printf("ListUsers: failed to scan user: %v", err)
			Utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to fetch users")
			return
		}
		user.DisplayName = nullStringToPtr(displayNameNull)
		user.Bio = nullStringToPtr(bioNull)
		user.CreatedAt = time.Unix(0, createdAt).UTC()
		user.UpdatedAt = time.Unix(0, updatedAt).UTC()
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		log.Printf("ListUsers: row iteration error: %v", err)
		Utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to fetch users")
		return
	}

	Utils.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
		"users":      users,
		"pagination": pagination,
	})
}

// GetUser retrieves a user by ID along with tweet and follow counts
func GetUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	user, err := FetchUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			Utils.SendErrorResponse(w, http.StatusNotFound, "User not found")
		} else {
			log.Printf("GetUser: failed to fetch user: %v", err)
			Utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to fetch user")
		}
		return
	}

	var tweetCount, followersCount, followingCount int
	if err := Mdb.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM tweets WHERE user_id = ?", user.ID,
	).Scan(&tweetCount); err != nil {
		log.Printf("GetUser: failed to count tweets: %v", err)
		Utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to fetch user")
		return
	}
	if err := Mdb.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM follows WHERE followed_id = ?", user.ID,
	).Scan(&followersCount); err != nil {
		log.Printf("GetUser: failed to count followers: %v", err)
		Utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to fetch user")
		return
	}
	if err := Mdb.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM follows WHERE follower_id = ?", user.ID,
	).Scan(&followingCount); err != nil {
		log.Printf("GetUser: failed to count following: %v", err)
		Utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to fetch user")
		return
	}

	Utils.SendJSONResponse(w, http.StatusOK, struct {
		User
		TweetCount     int `json:"tweet_count"`
		FollowersCount int `json:"followers_count"`
		FollowingCount int `json:"following_count"`
	}{*user, tweetCount, followersCount, followingCount})
}

// UpdateUser updates the profile fields of a user.
// Users can only update their own profile.
func UpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims, err := AuthService.GetClaims(r)
	if err != nil {
		Utils.SendErrorResponse(w, http.StatusUnauthorized, err.Error())
		return
	}

	id := chi.URLParam(r, "id")
	if claims.UserID != id {
		Utils.SendErrorResponse(w, http.StatusForbidden, "You can only update your own profile")
		return
	}

	existing, err := FetchUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			Utils.SendErrorResponse(w, http.StatusNotFound, "User not found")
		} else {
			log.Printf("UpdateUser: failed to fetch user: %v", err)
			Utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to load user")
		}
		return
	}

	defer r.Body.Close()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("UpdateUser: failed to read body: %v", err)
		Utils.SendErrorResponse(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	var payload struct {
		DisplayName *string `json:"display_name"`
		Bio         *string `json:"bio"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		Utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Build update query dynamically from the provided fields
	updates := []string{}
	args := []interface{}{}

	if payload.DisplayName != nil {
		if err := ValidateDisplayName(*payload.DisplayName); err != nil {
			Utils.SendErrorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
		updates = append(updates, "display_name = ?")
		args = append(args, *payload.DisplayName)
	}

	if payload.Bio != nil {
		if err := ValidateBio(*payload.Bio); err != nil {
			Utils.SendErrorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
		updates = append(updates, "bio = ?")
		args = append(args, *payload.Bio)
	}

	if len(updates) == 0 {
		Utils.SendJSONResponse(w, http.StatusOK, existing)
		return
	}

	updates = append(updates, "updated_at = ?")
	args = append(args, time.Now().UnixNano())
	args = append(args, existing.ID)

	query := "UPDATE users SET " + strings.Join(updates, ", ") + " WHERE id = ?"
	if _, err := Mdb.ExecContext(ctx, query, args...); err != nil {
		log.Printf("UpdateUser: failed to update user: %v", err)
		Utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to update user")
		return
	}

	updated, err := FetchUserByID(ctx, existing.ID)
	if err != nil {
		log.Printf("UpdateUser: failed to fetch updated user: %v", err)
		Utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to load updated user")
		return
	}

	Utils.SendJSONResponse(w, http.StatusOK, updated)
}
