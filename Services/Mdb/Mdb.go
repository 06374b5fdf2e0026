package services

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

var DB *sql.DB

var driver string

// postgresURI builds the Postgres connection string from environment variables
func postgresURI() string {
	dbName := os.Getenv("POSTGRES_DB")
	if dbName == "" {
		dbName = "chirp"
	}

	postgresUser := os.Getenv("POSTGRES_USER")
	if postgresUser == "" {
		postgresUser = "chirp"
	}

	postgresPassword := os.Getenv("POSTGRES_PASSWORD")
	if postgresPassword == "" {
		postgresPassword = "chirp"
	}

	postgresHost := os.Getenv("POSTGRES_HOST")
	if postgresHost == "" {
		postgresHost = "localhost"
	}

	postgresPort := os.Getenv("POSTGRES_PORT")
	if postgresPort == "" {
		postgresPort = "5432"
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		postgresHost, postgresPort, postgresUser, postgresPassword, dbName)
}

// sqliteURI builds the SQLite DSN. Foreign keys are off by default in SQLite,
// and the cascade deletes depend on them.
func sqliteURI() string {
	path := os.Getenv("SQLITE_PATH")
	if path == "" {
		path = "chirp.db"
	}
	return "file:" + path + "?_foreign_keys=on"
}

// InitDB opens the database selected by DB_DRIVER ("postgres" by default,
// "sqlite3" for local development) and verifies the connection.
func InitDB() {
	driver = os.Getenv("DB_DRIVER")
	if driver == "" {
		driver = "postgres"
	}

	var dsn string
	switch driver {
	case "postgres":
		dsn = postgresURI()
	case "sqlite3":
		dsn = sqliteURI()
	default:
		panic(fmt.Sprintf("Unsupported DB_DRIVER: %s", driver))
	}

	if err := Open(driver, dsn); err != nil {
		panic(fmt.Sprintf("Failed to open database connection: %v", err))
	}

	fmt.Printf("Database connected (%s)\n", driver)
}

// Open connects with an explicit driver and DSN. Split out of InitDB so tests
// can point the package at a throwaway database.
func Open(driverName, dsn string) error {
	var err error
	DB, err = sql.Open(driverName, dsn)
	if err != nil {
		return err
	}
	driver = driverName

	if driverName == "postgres" {
		DB.SetMaxOpenConns(25)
		DB.SetMaxIdleConns(5)
		DB.SetConnMaxLifetime(5 * time.Minute)
	} else {
		// SQLite handles one writer at a time; a single connection avoids
		// SQLITE_BUSY under the test server.
		DB.SetMaxOpenConns(1)
	}

	return DB.Ping()
}

// Rebind converts "?" placeholders to the "$N" form lib/pq expects. Queries in
// this codebase are written with "?" so they run unchanged on SQLite.
func Rebind(query string) string {
	if driver != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

func QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return DB.QueryContext(ctx, Rebind(query), args...)
}

func QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return DB.QueryRowContext(ctx, Rebind(query), args...)
}

func ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return DB.ExecContext(ctx, Rebind(query), args...)
}

// RunMigrations runs all SQL migration files in order
func RunMigrations() error {
	migrations := []string{
		"DB/migrations/001_create_users_table.sql",
		"DB/migrations/002_create_tweets_table.sql",
		"DB/migrations/003_create_follows_table.sql",
	}

	for _, migrationFile := range migrations {
		migrationSQL, err := os.ReadFile(migrationFile)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %v", migrationFile, err)
		}

		_, err = DB.Exec(string(migrationSQL))
		if err != nil {
			return fmt.Errorf("failed to execute migration %s: %v", migrationFile, err)
		}
		fmt.Printf("Migration %s executed successfully\n", migrationFile)
	}

	return nil
}
