package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"time"
	"unicode/utf8"

	Mdb "chirp/Services/Mdb"
)

// Constants for validation
const (
	MinUsernameLength    = 3
	MaxUsernameLength    = 50
	MinPasswordLength    = 8
	MaxPasswordLength    = 128
	MaxDisplayNameLength = 100
	MaxBioLength         = 500
)

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// nullStringToPtr converts sql.NullString to *string (nil if NULL)
func nullStringToPtr(ns sql.NullString) *string {
	if ns.Valid {
		return &ns.String
	}
	return nil
}

// ValidateUsername checks length and charset (letters, numbers, underscores)
func ValidateUsername(username string) error {
	if utf8.RuneCountInString(username) < MinUsernameLength {
		return fmt.Errorf("Username must be at least %d characters", MinUsernameLength)
	}
	if utf8.RuneCountInString(username) > MaxUsernameLength {
		return fmt.Errorf("Username must be at most %d characters", MaxUsernameLength)
	}
	if !usernameRegex.MatchString(username) {
		return errors.New("Username can only contain letters, numbers, and underscores")
	}
	return nil
}

// ValidateEmail checks the address against an RFC-like pattern
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return errors.New("Invalid email format")
	}
	return nil
}

// ValidatePassword checks password length bounds in characters, not bytes
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return fmt.Errorf("Password must be at least %d characters", MinPasswordLength)
	}
	if utf8.RuneCountInString(password) > MaxPasswordLength {
		return fmt.Errorf("Password must be at most %d characters", MaxPasswordLength)
	}
	return nil
}

// ValidateDisplayName checks the optional display name length
func ValidateDisplayName(displayName string) error {
	if utf8.RuneCountInString(displayName) > MaxDisplayNameLength {
		return fmt.Errorf("Display name must be at most %d characters", MaxDisplayNameLength)
	}
	return nil
}

// ValidateBio checks the optional bio length
func ValidateBio(bio string) error {
	if utf8.RuneCountInString(bio) > MaxBioLength {
		return fmt.Errorf("Bio must be at most %d characters", MaxBioLength)
	}
	return nil
}

const userColumns = "id, username, email, password_hash, display_name, bio, created_at, updated_at"

func scanUser(row *sql.Row) (*User, error) {
	var user User
	var displayNameNull, bioNull sql.NullString
	var createdAt, updatedAt int64
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&displayNameNull, &bioNull, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.DisplayName = nullStringToPtr(displayNameNull)
	user.Bio = nullStringToPtr(bioNull)
	user.CreatedAt = time.Unix(0, createdAt).UTC()
	user.UpdatedAt = time.Unix(0, updatedAt).UTC()
	return &user, nil
}

// FetchUserByID retrieves a user by ID
func FetchUserByID(ctx context.Context, id string) (*User, error) {
	row := Mdb.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	user, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("fetchUserByID: %w", err)
	}
	return user, nil
}

// FetchUserByUsername retrieves a user by username
func FetchUserByUsername(ctx context.Context, username string) (*User, error) {
	row := Mdb.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE username = ?", username)
	user, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("fetchUserByUsername: %w", err)
	}
	return user, nil
}

// UserExists reports whether a user row exists for the given ID
func UserExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := Mdb.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)", id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("userExists: %w", err)
	}
	return exists, nil
}
