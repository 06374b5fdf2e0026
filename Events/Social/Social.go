package social

import (
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	Users "chirp/Events/Users"
	AuthService "chirp/Services/Auth"
	Mdb "chirp/Services/Mdb"
	Utils "chirp/Utils"
)

// Handle sets up the follow-graph routes. Mounted on the /api/users subrouter.
func Handle(r chi.Router) {
	r.Post("/{id}/follow", FollowUser)
	r.Delete("/{id}/follow", UnfollowUser)
	r.Get("/{id}/followers", ListFollowers)
	r.Get("/{id}/following", ListFollowing)
}

// FollowUser creates a follow edge from the authenticated user to {id}
func FollowUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims, err := AuthService.GetClaims(r)
	if err != nil {
		Utils.SendErrorResponse(w, http.StatusUnauthorized, err.Error())
		return
	}

	followedID := chi.URLParam(r, "id")
	if claims.UserID == followedID {
		Utils.SendErrorResponse(w, http.StatusBadRequest, "Cannot follow yourself")
		return
	}

	// Both endpoints of the edge must exist
	for _, id := range []string{claims.UserID, followedID} {
		exists, err := Users.UserExists(ctx, id)
		if err != nil {
			log.Printf("FollowUser: failed to check user: %v", err)
			Utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to fetch user")
			return
		}
		if !exists {
			Utils.SendErrorResponse(w, http.StatusNotFound, "User not found")
			return
		}
	}

	var already bool
	err = Mdb.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM follows WHERE follower_id = ? AND followed_id = ?)",
		claims.UserID, followedID,
	).Scan(&already)
	if err != nil {
		log.Printf("FollowUser: failed to check existing follow: %v", err)
		Utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to check existing follow")
		return
	}
	if already {
		Utils.SendErrorResponse(w, http.StatusBadRequest, "Already following this user")
		return
	}

	edge := Follow{
		FollowerID: claims.UserID,
		FollowedID: followedID,
		CreatedAt:  time.Now().UTC(),
	}
	_, err = Mdb.ExecContext(ctx,
		"INSERT INTO follows (follower_id, followed_id, created_at) VALUES (?, ?, ?)",
		edge.FollowerID, edge.FollowedID, edge.CreatedAt.UnixNano(),
	)
	if err != nil {
		log.Printf("FollowUser: failed to insert follow: %v", err)
		Utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to follow user")
		return
	}

	Utils.SendJSONResponse(w, http.StatusCreated, map[string]string{"message": "Successfully followed user"})
}

// UnfollowUser removes the follow edge from the authenticated user to {id}
func UnfollowUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims, err := AuthService.GetClaims(r)
	if err != nil {
		Utils.SendErrorResponse(w, http.StatusUnauthorized, err.Error())
		return
	}

	followedID := chi.URLParam(r, "id")

	result, err := Mdb.ExecContext(ctx,
		"DELETE FROM follows WHERE follower_id = ? AND followed_id = ?",
		claims.UserID, followedID,
	)
	if err != nil {
		log.Printf("UnfollowUser: failed to delete follow: %v", err)
		Utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to unfollow user")
		return
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Printf("UnfollowUser: failed to check delete result: %v", err)
		Utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to check delete result")
		return
	}
	if rowsAffected == 0 {
		Utils.SendErrorResponse(w, http.StatusNotFound, "Not following this user")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// listEdgeUsers runs a follower/following listing. The join column decides
// the direction; ordering is by edge creation time, newest first.
func listEdgeUsers(w http.ResponseWriter, r *http.Request, joinColumn, whereColumn string) {
	ctx := r.Context()
	userID := chi.URLParam(r, "id")

	exists, err := Users.UserExists(ctx, userID)
	if err != nil {
		log.Printf("listEdgeUsers: failed to check user: %v", err)
		Utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to fetch user")
		return
	}
	if !exists {
		Utils.SendErrorResponse(w, http.StatusNotFound, "User not found")
		return
	}

	page, perPage, err := Utils.ParsePagination(r)
	if err != nil {
		Utils.SendErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	var total int
	err = Mdb.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM follows WHERE "+whereColumn+" = ?", userID,
	).Scan(&total)
	if err != nil {
		log.Printf("listEdgeUsers: failed to count follows: %v", err)
		Utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to fetch follows")
		return
	}

	pagination := Utils.NewPagination(page, perPage, total)

	rows, err := Mdb.QueryContext(ctx,
		`SELECT u.id, u.username, u.email, u.display_name, u.bio, u.created_at, u.updated_at
		FROM follows f JOIN users u ON f.`+joinColumn+` = u.id
		WHERE f.`+whereColumn+` = ?
		ORDER BY f.created_at DESC LIMIT ? OFFSET ?`,
		userID, perPage, pagination.Offset(),
	)
	if err != nil {
		log.Printf("listEdgeUsers: failed to query follows: %v", err)
		Utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to fetch follows")
		return
	}
	defer rows.Close()

	users := []Users.User{}
	for rows.Next() {
		var user Users.User
		var displayNameNull, bioNull sql.NullString
		var createdAt, updatedAt int64
		if err := rows.Scan(
			&user.ID, &user.Username, &user.Email, &displayNameNull, &bioNull, &createdAt, &updatedAt,
		); err != nil {
			log.Printf("listEdgeUsers: failed to scan user: %v", err)
			Utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to fetch follows")
			return
		}
		if displayNameNull.Valid {
			user.DisplayName = &displayNameNull.String
		}
		if bioNull.Valid {
			user.Bio = &bioNull.String
		}
		user.CreatedAt = time.Unix(0, createdAt).UTC()
		user.UpdatedAt = time.Unix(0, updatedAt).UTC()
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		log.Printf("listEdgeUsers: row iteration error: %v", err)
		Utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to fetch follows")
		return
	}

	Utils.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
		"users":      users,
		"pagination": pagination,
	})
}

// ListFollowers lists the users following {id}
func ListFollowers(w http.ResponseWriter, r *http.Request) {
	listEdgeUsers(w, r, "follower_id", "followed_id")
}

// ListFollowing lists the users {id} follows
func ListFollowing(w http.ResponseWriter, r *http.Request) {
	listEdgeUsers(w, r, "followed_id", "follower_id")
}
