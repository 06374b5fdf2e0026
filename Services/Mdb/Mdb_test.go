package services

import "testing"

func TestRebind(t *testing.T) {
	driver = "postgres"
	got := Rebind("SELECT id FROM users WHERE username = ? AND email = ? LIMIT ?")
	want := "SELECT id FROM users WHERE username = $1 AND email = $2 LIMIT $3"
	if got != want {
		t.Errorf("Rebind for postgres:\n got %q\nwant %q", got, want)
	}

	driver = "sqlite3"
	query := "SELECT id FROM users WHERE username = ?"
	if got := Rebind(query); got != query {
		t.Errorf("Rebind for sqlite3 should be a no-op, got %q", got)
	}
}
