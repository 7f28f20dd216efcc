package client

import (
	"errors"
	"testing"
	"time"
)

// TestSessionStoreRoundTrip verifies a saved session loads back and survives reopening.
func TestSessionStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := OpenSessionStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	exp := time.Now().Add(time.Hour).Truncate(time.Second).UTC()
	if err := store.Save(Session{Token: "tok", Email: "jane@example.com", ExpiresAt: exp}); err != nil {
		t.Fatal(err)
	}
	store.Close()

	store, err = OpenSessionStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	sess, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if sess.Token != "tok" || sess.Email != "jane@example.com" {
		t.Errorf("session = %+v", sess)
	}
	if !sess.ExpiresAt.Equal(exp) {
		t.Errorf("ExpiresAt = %v, want %v", sess.ExpiresAt, exp)
	}
}

// TestSessionStoreSaveReplaces verifies only one session is kept.
func TestSessionStoreSaveReplaces(t *testing.T) {
	store, err := OpenSessionStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	exp := time.Now().Add(time.Hour)
	_ = store.Save(Session{Token: "first", Email: "a@example.com", ExpiresAt: exp})
	_ = store.Save(Session{Token: "second", Email: "b@example.com", ExpiresAt: exp})

	sess, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if sess.Token != "second" {
		t.Errorf("token = %q, want second", sess.Token)
	}
}

// TestSessionStoreEmptyAndCleared verifies ErrNoSession before saving and after Clear.
func TestSessionStoreEmptyAndCleared(t *testing.T) {
	store, err := OpenSessionStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	if _, err := store.Load(); !errors.Is(err, ErrNoSession) {
		t.Errorf("Load(empty) error = %v, want ErrNoSession", err)
	}

	_ = store.Save(Session{Token: "tok", Email: "a@example.com", ExpiresAt: time.Now().Add(time.Hour)})
	if err := store.Clear(); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Load(); !errors.Is(err, ErrNoSession) {
		t.Errorf("Load(cleared) error = %v, want ErrNoSession", err)
	}
}

// TestSessionStoreExpired verifies an expired token is not returned.
func TestSessionStoreExpired(t *testing.T) {
	store, err := OpenSessionStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	exp := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	_ = store.Save(Session{Token: "tok", Email: "a@example.com", ExpiresAt: exp})

	store.now = func() time.Time { return exp.Add(-time.Minute) }
	if _, err := store.Load(); err != nil {
		t.Errorf("Load before expiry: %v", err)
	}
	store.now = func() time.Time { return exp }
	if _, err := store.Load(); !errors.Is(err, ErrNoSession) {
		t.Errorf("Load at expiry error = %v, want ErrNoSession", err)
	}
}
