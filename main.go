package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	Event "chirp/Events"
	AuthService "chirp/Services/Auth"
	Mdb "chirp/Services/Mdb"
	Seed "chirp/Services/Seed"
	Utils "chirp/Utils"
)

var ServerPort string

func loadEnv() {
	godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	ServerPort = ":" + port
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		timestamp := time.Now().Format("2006-01-02 15:04:05")

		fmt.Printf("[%s] %s %s\n", timestamp, r.Method, r.URL.Path)

		next.ServeHTTP(w, r)
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	Utils.SendJSONResponse(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"message": "Twitter API is running",
	})
}

func indexHandler(w http.ResponseWriter, r *http.Request) {
	Utils.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
		"message": "Welcome to Twitter API",
		"version": "0.1.0",
		"endpoints": map[string]string{
			"health": "/health",
			"auth":   "/api/auth",
			"tweets": "/api/tweets",
			"users":  "/api/users",
			"feed":   "/api/feed",
		},
	})
}

func setupRouter() chi.Router {
	mux := chi.NewRouter()
	mux.Use(corsMiddleware, loggingMiddleware)

	mux.Get("/", indexHandler)
	mux.Get("/health", healthHandler)
	Event.Handler(mux)

	return mux
}

func main() {
	loadEnv()
	Mdb.InitDB()

	if os.Getenv("RUN_MIGRATIONS") == "true" {
		fmt.Println("Running database migrations...")
		if err := Mdb.RunMigrations(); err != nil {
			log.Fatal("Migration failed:", err)
		}
		fmt.Println("Migrations completed successfully")
	}

	AuthService.Initauth()

	if os.Getenv("CLEAR_DATA") == "true" {
		if err := Seed.Clear(context.Background()); err != nil {
			log.Fatal("Clear failed:", err)
		}
	}
	if os.Getenv("SEED_DATA") == "true" {
		if err := Seed.Run(context.Background()); err != nil {
			log.Fatal("Seed failed:", err)
		}
	}

	mux := setupRouter()

	fmt.Println("Server started at " + ServerPort)
	err := http.ListenAndServe(ServerPort, mux)
	if err != nil {
		fmt.Println("Server error:", err)
	}
}
