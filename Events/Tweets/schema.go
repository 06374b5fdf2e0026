package tweets

import "time"

// Tweet is a user-authored text post joined with its author's username.
// Ensure INDEXES on: tweets(user_id), tweets(created_at)
type Tweet struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Username  string    `db:"username" json:"username"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
