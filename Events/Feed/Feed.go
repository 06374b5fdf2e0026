package feed

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	Tweets "chirp/Events/Tweets"
	AuthService "chirp/Services/Auth"
	Mdb "chirp/Services/Mdb"
	Utils "chirp/Utils"
)

// Handle sets up the feed routes
func Handle(r chi.Router) {
	r.Get("/", UserFeed)
	r.Get("/global", GlobalFeed)
}

// UserFeed returns tweets authored by users the caller follows, newest first.
// Following nobody yields an empty page; there is no fallback to the global
// feed.
func UserFeed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims, err := AuthService.GetClaims(r)
	if err != nil {
		Utils.SendErrorResponse(w, http.StatusUnauthorized, err.Error())
		return
	}

	page, perPage, err := Utils.ParsePagination(r)
	if err != nil {
		Utils.SendErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	var total int
	err = Mdb.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tweets
		WHERE user_id IN (SELECT followed_id FROM follows WHERE follower_id = ?)`,
		claims.UserID,
	).Scan(&total)
	if err != nil {
		log.Printf("UserFeed: failed to count tweets: %v", err)
		Utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to fetch feed")
		return
	}

	pagination := Utils.NewPagination(page, perPage, total)

	rows, err := Mdb.QueryContext(ctx,
		Tweets.SelectColumns+`
		WHERE t.user_id IN (SELECT followed_id FROM follows WHERE follower_id = ?)
		ORDER BY t.created_at DESC LIMIT ? OFFSET ?`,
		claims.UserID, perPage, pagination.Offset(),
	)
	if err != nil {
		log.Printf("UserFeed: failed to query tweets: %v", err)
		Utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to fetch feed")
		return
	}
	defer rows.Close()

	tweets, err := Tweets.ScanRows(rows)
	if err != nil {
		log.Printf("UserFeed: failed to scan tweets: %v", err)
		Utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to fetch feed")
		return
	}

	Utils.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
		"tweets":     tweets,
		"pagination": pagination,
	})
}

// GlobalFeed returns all tweets, newest first. Public.
func GlobalFeed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page, perPage, err := Utils.ParsePagination(r)
	if err != nil {
		Utils.SendErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	var total int
	if err := Mdb.QueryRowContext(ctx, "SELECT COUNT(*) FROM tweets").Scan(&total); err != nil {
		log.Printf("GlobalFeed: failed to count tweets: %v", err)
		Utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to fetch feed")
		return
	}

	pagination := Utils.NewPagination(page, perPage, total)

	rows, err := Mdb.QueryContext(ctx,
		Tweets.SelectColumns+" ORDER BY t.created_at DESC LIMIT ? OFFSET ?",
		perPage, pagination.Offset(),
	)
	if err != nil {
		log.Printf("GlobalFeed: failed to query tweets: %v", err)
		Utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to fetch feed")
		return
	}
	defer rows.Close()

	tweets, err := Tweets.ScanRows(rows)
	if err != nil {
		log.Printf("GlobalFeed: failed to scan tweets: %v", err)
		Utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to fetch feed")
		return
	}

	Utils.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
		"tweets":     tweets,
		"pagination": pagination,
	})
}
