package tweets

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	Users "chirp/Events/Users"
	AuthService "chirp/Services/Auth"
	Mdb "chirp/Services/Mdb"
	Utils "chirp/Utils"
)

// MaxContentLength is the tweet length limit in characters, not bytes.
const MaxContentLength = 280

// SelectColumns is the tweet/user join used by every tweet listing.
const SelectColumns = `SELECT t.id, t.user_id, u.username, t.content, t.created_at, t.updated_at
	FROM tweets t JOIN users u ON t.user_id = u.id`

// Handle sets up the routes for tweet endpoints
func Handle(r chi.Router) {
	r.Get("/", ListTweets)
	r.Post("/", CreateTweet)
	r.Get("/{id}", GetTweet)
	r.Put("/{id}", UpdateTweet)
	r.Delete("/{id}", DeleteTweet)
}

// ValidateContent trims the content and checks the length bounds. The trimmed
// content is what gets stored.
func ValidateContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", errors.New("Tweet content cannot be empty")
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return "", fmt.Errorf("Tweet content must be at most %d characters", MaxContentLength)
	}
	return content, nil
}

// ScanRows collects tweets from a listing query using SelectColumns.
func ScanRows(rows *sql.Rows) ([]Tweet, error) {
	tweets := []Tweet{}
	for rows.Next() {
		var tweet Tweet
		var createdAt, updatedAt int64
		if err := rows.Scan(
			&tweet.ID, &tweet.UserID, &tweet.Username, &tweet.Content, &createdAt, &updatedAt,
		); err != nil {
			return nil, err
		}
		tweet.CreatedAt = time.Unix(0, createdAt).UTC()
		tweet.UpdatedAt = time.Unix(0, updatedAt).UTC()
		tweets = append(tweets, tweet)
	}
	return tweets, rows.Err()
}

func fetchTweetByID(ctx context.Context, id string) (*Tweet, error) {
	var tweet Tweet
	var createdAt, updatedAt int64
	err := Mdb.QueryRowContext(ctx, SelectColumns+" WHERE t.id = ?", id).Scan(
		&tweet.ID, &tweet.UserID, &tweet.Username, &tweet.Content, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("fetchTweetByID: %w", err)
	}
	tweet.CreatedAt = time.Unix(0, createdAt).UTC()
	tweet.UpdatedAt = time.Unix(0, updatedAt).UTC()
	return &tweet, nil
}

// ListTweets lists all tweets with pagination and sort order
func ListTweets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page, perPage, err := Utils.ParsePagination(r)
	if err != nil {
		Utils.SendErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	sort := r.URL.Query().Get("sort")
	if sort == "" {
		sort = "newest"
	}
	if sort != "newest" && sort != "oldest" {
		Utils.SendErrorResponse(w, http.StatusBadRequest, "Sort must be 'newest' or 'oldest'")
		return
	}
	order := "DESC"
	if sort == "oldest" {
		order = "ASC"
	}

	var total int
	if err := Mdb.QueryRowContext(ctx, "SELECT COUNT(*) FROM tweets").Scan(&total); err != nil {
		log.Printf("ListTweets: failed to count tweets: %v", err)
		Utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to fetch tweets")
		return
	}

	pagination := Utils.NewPagination(page, perPage, total)

	rows, err := Mdb.QueryContext(ctx,
		SelectColumns+" ORDER BY t.created_at "+order+" LIMIT ? OFFSET ?",
		perPage, pagination.Offset(),
	)
	if err != nil {
		log.Printf("ListTweets: failed to query tweets: %v", err)
		Utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to fetch tweets")
		return
	}
	defer rows.Close()

	tweets, err := ScanRows(rows)
	if err != nil {
		log.Printf("ListTweets: failed to scan tweets: %v", err)
		Utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to fetch tweets")
		return
	}

	Utils.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
		"tweets":     tweets,
		"pagination": pagination,
	})
}

// GetTweet retrieves a single tweet by ID
func GetTweet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	tweet, err := fetchTweetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			Utils.SendErrorResponse(w, http.StatusNotFound, "Tweet not found")
		} else {
			log.Printf("GetTweet: failed to fetch tweet: %v", err)
			Utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to fetch tweet")
		}
		return
	}

	Utils.SendJSONResponse(w, http.StatusOK, tweet)
}

// tweetRequest carries the content for create/update. A pointer distinguishes
// a missing field from an empty string.
type tweetRequest struct {
	Content *string `json:"content"`
}

func readTweetRequest(w http.ResponseWriter, r *http.Request) (*tweetRequest, bool) {
	defer r.Body.Close()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		Utils.SendErrorResponse(w, http.StatusBadRequest, "failed to read request body")
		return nil, false
	}

	var input tweetRequest
	if err := json.Unmarshal(body, &input); err != nil {
		Utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return nil, false
	}
	if input.Content == nil {
		Utils.SendErrorResponse(w, http.StatusBadRequest, "Content is required")
		return nil, false
	}
	return &input, true
}

// CreateTweet creates a new tweet for the authenticated user
func CreateTweet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims, err := AuthService.GetClaims(r)
	if err != nil {
		Utils.SendErrorResponse(w, http.StatusUnauthorized, err.Error())
		return
	}

	input, ok := readTweetRequest(w, r)
	if !ok {
		return
	}

	content, err := ValidateContent(*input.Content)
	if err != nil {
		Utils.SendErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := Users.FetchUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			Utils.SendErrorResponse(w, http.StatusBadRequest, "User not found")
		} else {
			log.Printf("CreateTweet: failed to fetch user: %v", err)
			Utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to create tweet")
		}
		return
	}

	now := time.Now().UnixNano()
	tweet := Tweet{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Username:  user.Username,
		Content:   content,
		CreatedAt: time.Unix(0, now).UTC(),
		UpdatedAt: time.Unix(0, now).UTC(),
	}

	_, err = Mdb.ExecContext(ctx,
		"INSERT INTO tweets (id, user_id, content, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		tweet.ID, tweet.UserID, tweet.Content, now, now,
	)
	if err != nil {
		log.Printf("CreateTweet: failed to insert tweet: %v", err)
		Utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to create tweet")
		return
	}

	Utils.SendJSONResponse(w, http.StatusCreated, tweet)
}

// UpdateTweet replaces a tweet's content. Only the owner may update.
func UpdateTweet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims, err := AuthService.GetClaims(r)
	if err != nil {
		Utils.SendErrorResponse(w, http.StatusUnauthorized, err.Error())
		return
	}

	id := chi.URLParam(r, "id")
	tweet, err := fetchTweetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			Utils.SendErrorResponse(w, http.StatusNotFound, "Tweet not found")
		} else {
			log.Printf("UpdateTweet: failed to fetch tweet: %v", err)
			Utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to fetch tweet")
		}
		return
	}

	if tweet.UserID != claims.UserID {
		Utils.SendErrorResponse(w, http.StatusForbidden, "You can only edit your own tweets")
		return
	}

	input, ok := readTweetRequest(w, r)
	if !ok {
		return
	}

	content, err := ValidateContent(*input.Content)
	if err != nil {
		Utils.SendErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	now := time.Now().UnixNano()
	_, err = Mdb.ExecContext(ctx,
		"UPDATE tweets SET content = ?, updated_at = ? WHERE id = ?",
		content, now, tweet.ID,
	)
	if err != nil {
		log.Printf("UpdateTweet: failed to update tweet: %v", err)
		Utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to update tweet")
		return
	}

	tweet.Content = content
	tweet.UpdatedAt = time.Unix(0, now).UTC()
	Utils.SendJSONResponse(w, http.StatusOK, tweet)
}

// DeleteTweet removes a tweet. Only the owner may delete.
func DeleteTweet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims, err := AuthService.GetClaims(r)
	if err != nil {
		Utils.SendErrorResponse(w, http.StatusUnauthorized, err.Error())
		return
	}

	id := chi.URLParam(r, "id")
	tweet, err := fetchTweetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			Utils.SendErrorResponse(w, http.StatusNotFound, "Tweet not found")
		} else {
			log.Printf("DeleteTweet: failed to fetch tweet: %v", err)
			Utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to fetch tweet")
		}
		return
	}

	if tweet.UserID != claims.UserID {
		Utils.SendErrorResponse(w, http.StatusForbidden, "You can only delete your own tweets")
		return
	}

	if _, err := Mdb.ExecContext(ctx, "DELETE FROM tweets WHERE id = ?", tweet.ID); err != nil {
		log.Printf("DeleteTweet: failed to delete tweet: %v", err)
		Utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to delete tweet")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListUserTweets lists tweets authored by a single user, newest first.
// Mounted under /api/users/{id}/tweets.
func ListUserTweets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	user, err := Users.FetchUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			Utils.SendErrorResponse(w, http.StatusNotFound, "User not found")
		} else {
			log.Printf("ListUserTweets: failed to fetch user: %v", err)
			Utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to fetch user")
		}
		return
	}

	page, perPage, err := Utils.ParsePagination(r)
	if err != nil {
		Utils.SendErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	var total int
	if err := Mdb.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM tweets WHERE user_id = ?", user.ID,
	).Scan(&total); err != nil {
		log.Printf("ListUserTweets: failed to count tweets: %v", err)
		Utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to fetch tweets")
		return
	}

	pagination := Utils.NewPagination(page, perPage, total)

	rows, err := Mdb.QueryContext(ctx,
		SelectColumns+" WHERE t.user_id = ? ORDER BY t.created_at DESC LIMIT ? OFFSET ?",
		user.ID, perPage, pagination.Offset(),
	)
	if err != nil {
		log.Printf("ListUserTweets: failed to query tweets: %v", err)
		Utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to fetch tweets")
		return
	}
	defer rows.Close()

	tweets, err := ScanRows(rows)
	if err != nil {
		log.Printf("ListUserTweets: failed to scan tweets: %v", err)
		Utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to fetch tweets")
		return
	}

	Utils.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
		"user": Users.Profile{
			ID:          user.ID,
			Username:    user.Username,
			DisplayName: user.DisplayName,
		},
		"tweets":     tweets,
		"pagination": pagination,
	})
}
