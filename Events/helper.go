package events

import (
	"github.com/go-chi/chi/v5"

	Auth "chirp/Events/Auth"
	Feed "chirp/Events/Feed"
	Social "chirp/Events/Social"
	Tweets "chirp/Events/Tweets"
	Users "chirp/Events/Users"
)

// Handler mounts every API route group on the given router
func Handler(req chi.Router) {
	req.Route("/api/auth", Auth.Handle)
	req.Route("/api/tweets", Tweets.Handle)

	// The follow graph and per-user tweet listing live under /api/users
	// alongside the user endpoints themselves.
	req.Route("/api/users", func(r chi.Router) {
		Users.Handle(r)
		Social.Handle(r)
		r.Get("/{id}/tweets", Tweets.ListUserTweets)
	})

	req.Route("/api/feed", Feed.Handle)
}
