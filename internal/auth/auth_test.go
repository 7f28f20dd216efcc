package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-0123456789"

// TestIssueParseRoundTrip verifies a freshly issued token parses back to the
// same user with the configured lifetime.
func TestIssueParseRoundTrip(t *testing.T) {
	iss := NewIssuer(testSecret, "workouttracker", time.Hour)
	fixed := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	iss.now = func() time.Time { return fixed }

	token, exp, err := iss.Issue(42)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if !exp.Equal(fixed.Add(time.Hour)) {
		t.Errorf("exp = %v, want %v", exp, fixed.Add(time.Hour))
	}

	claims, err := iss.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.TokenID == "" {
		t.Error("TokenID is empty")
	}
	if !claims.ExpiresAt.Equal(fixed.Add(time.Hour)) {
		t.Errorf("ExpiresAt = %v, want %v", claims.ExpiresAt, fixed.Add(time.Hour))
	}
}

// TestParseExpired verifies tokens past their expiry are rejected.
func TestParseExpired(t *testing.T) {
	iss := NewIssuer(testSecret, "workouttracker", time.Minute)
	start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	iss.now = func() time.Time { return start }
	token, _, err := iss.Issue(1)
	if err != nil {
		t.Fatal(err)
	}

	iss.now = func() time.Time { return start.Add(2 * time.Minute) }
	if _, err := iss.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Parse(expired) error = %v, want ErrInvalidToken", err)
	}
}

// TestParseRejects covers tokens that must never be accepted.
func TestParseRejects(t *testing.T) {
	iss := NewIssuer(testSecret, "workouttracker", time.Hour)
	other := NewIssuer("another-secret-0123456789", "workouttracker", time.Hour)
	foreign := NewIssuer(testSecret, "someone-else", time.Hour)

	wrongSecret, _, _ := other.Issue(1)
	wrongIssuer, _, _ := foreign.Issue(1)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "1",
		Issuer:    "workouttracker",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatal(err)
	}

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "alice",
		Issuer:    "workouttracker",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"empty", "", ErrMissingToken},
		{"whitespace", "   ", ErrMissingToken},
		{"garbage", "not.a.token", ErrInvalidToken},
		{"wrong secret", wrongSecret, ErrInvalidToken},
		{"wrong issuer", wrongIssuer, ErrInvalidToken},
		{"alg none", noneToken, ErrInvalidToken},
		{"non-numeric subject", badSubject, ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := iss.Parse(tt.token)
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse error = %v, want %v", err, tt.want)
			}
		})
	}
}

// TestPasswordHash verifies hashing and comparison, including a wrong password.
func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("hunter22", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "hunter22" {
		t.Fatal("hash equals plaintext")
	}
	if !CheckPassword("hunter22", hash) {
		t.Error("CheckPassword(correct) = false")
	}
	if CheckPassword("hunter23", hash) {
		t.Error("CheckPassword(wrong) = true")
	}
	if CheckPassword("hunter22", "not-a-hash") {
		t.Error("CheckPassword(garbage hash) = true")
	}
}
