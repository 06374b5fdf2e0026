package social

import "time"

// Follow is a directed edge: follower_id follows followed_id.
// Composite primary key on (follower_id, followed_id) keeps edges unique.
type Follow struct {
	FollowerID string    `db:"follower_id" json:"follower_id"`
	FollowedID string    `db:"followed_id" json:"followed_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
