package seed

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"

	AuthService "chirp/Services/Auth"
	Mdb "chirp/Services/Mdb"
)

// Deterministic demo data: same seed, same database every run.
const (
	randSeed  = 42
	userCount = 25
)

var usernames = []string{
	"alice", "bob", "carol", "dave", "erin", "frank", "grace", "heidi",
	"ivan", "judy", "mallory", "niaj", "olivia", "peggy", "quentin",
	"rupert", "sybil", "trent", "uma", "victor", "wendy", "xavier",
	"yolanda", "zach", "arthur",
}

var tweetTemplates = []string{
	"Just finished %s! Feeling great.",
	"Hot take: %s is underrated.",
	"Anyone else spend the whole day %s? Just me?",
	"Reminder: %s never hurt anyone.",
	"Currently: %s and loving it.",
	"Why is %s so hard on Mondays?",
	"Unpopular opinion: %s beats meetings every time.",
	"Life hack: try %s before coffee.",
}

var activities = []string{
	"reading", "coding", "working out", "cooking", "gaming",
	"studying", "walking the dog", "grocery shopping", "gardening",
	"refactoring old code",
}

// Run populates the database with demo users, tweets and follow edges.
// Every seeded account shares the same password ("password123"); it is
// hashed once because bcrypt per-user would make seeding needlessly slow.
func Run(ctx context.Context) error {
	rng := rand.New(rand.NewSource(randSeed))

	passwordHash, err := AuthService.HashPassword("password123")
	if err != nil {
		return fmt.Errorf("seed: failed to hash password: %w", err)
	}

	base := time.Now().Add(-30 * 24 * time.Hour).UnixNano()

	userIDs := make([]string, 0, userCount)
	for i := 0; i < userCount; i++ {
		username := usernames[i%len(usernames)]
		id := uuid.NewString()
		createdAt := base + int64(i)*int64(time.Hour)

		_, err := Mdb.ExecContext(ctx,
			`INSERT INTO users (id, username, email, password_hash, display_name, bio, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id, username, username+"@example.com", passwordHash, nil, nil, createdAt, createdAt,
		)
		if err != nil {
			return fmt.Errorf("seed: failed to insert user %s: %w", username, err)
		}
		userIDs = append(userIDs, id)
	}

	tweetCount := 0
	for i, userID := range userIDs {
		n := 1 + rng.Intn(8)
		for j := 0; j < n; j++ {
			content := fmt.Sprintf(
				tweetTemplates[rng.Intn(len(tweetTemplates))],
				activities[rng.Intn(len(activities))],
			)
			createdAt := base + int64(i)*int64(time.Hour) + int64(j+1)*int64(time.Minute)
			_, err := Mdb.ExecContext(ctx,
				"INSERT INTO tweets (id, user_id, content, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
				uuid.NewString(), userID, content, createdAt, createdAt,
			)
			if err != nil {
				return fmt.Errorf("seed: failed to insert tweet: %w", err)
			}
			tweetCount++
		}
	}

	// Random follow graph: no self-loops, no duplicate edges
	edges := map[[2]string]bool{}
	for _, followerID := range userIDs {
		n := rng.Intn(6)
		for j := 0; j < n; j++ {
			followedID := userIDs[rng.Intn(len(userIDs))]
			if followedID == followerID || edges[[2]string{followerID, followedID}] {
				continue
			}
			edges[[2]string{followerID, followedID}] = true
			_, err := Mdb.ExecContext(ctx,
				"INSERT INTO follows (follower_id, followed_id, created_at) VALUES (?, ?, ?)",
				followerID, followedID, time.Now().UnixNano(),
			)
			if err != nil {
				return fmt.Errorf("seed: failed to insert follow: %w", err)
			}
		}
	}

	log.Printf("Seeded %d users, %d tweets, %d follows", len(userIDs), tweetCount, len(edges))
	return nil
}

// Clear wipes all rows. Order matters only for databases without cascading
// deletes enabled; explicit ordering keeps it safe everywhere.
func Clear(ctx context.Context) error {
	for _, table := range []string{"follows", "tweets", "users"} {
		if _, err := Mdb.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear: failed to delete from %s: %w", table, err)
		}
	}
	log.Println("Cleared all data")
	return nil
}
