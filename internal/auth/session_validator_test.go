package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MarcoPoloResearchLab/inkwell/internal/users"
	"github.com/golang-jwt/jwt/v5"
)

const (
	testSessionSigningSecret = "secret"
	testSessionCookieName    = "app_session"
)

func newTestPair(t *testing.T, clock func() time.Time) (*TokenIssuer, *SessionValidator) {
	t.Helper()
	issuer, err := NewTokenIssuer(TokenIssuerConfig{
		SigningSecret: []byte(testSessionSigningSecret),
		TokenTTL:      time.Hour,
		Clock:         clock,
	})
	if err != nil {
		t.Fatalf("failed to construct issuer: %v", err)
	}
	validator, err := NewSessionValidator(SessionValidatorConfig{
		SigningSecret: []byte(testSessionSigningSecret),
		CookieName:    testSessionCookieName,
		Clock:         clock,
	})
	if err != nil {
		t.Fatalf("failed to construct validator: %v", err)
	}
	return issuer, validator
}

func TestSessionValidatorValidateToken(t *testing.T) {
	clockNow := time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)
	issuer, validator := newTestPair(t, func() time.Time { return clockNow })

	signed, _, err := issuer.IssueSessionToken(context.Background(), users.UserID(5))
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	claims, err := validator.ValidateToken(signed)
	if err != nil {
		t.Fatalf("unexpected validation failure: %v", err)
	}
	userID, err := claims.UserID()
	if err != nil || userID != users.UserID(5) {
		t.Fatalf("unexpected user id %d (%v)", userID, err)
	}
}

func TestSessionValidatorValidateTokenExpired(t *testing.T) {
	clockNow := time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)
	issuer, _ := newTestPair(t, func() time.Time { return clockNow.Add(-2 * time.Hour) })
	_, validator := newTestPair(t, func() time.Time { return clockNow })

	signed, _, err := issuer.IssueSessionToken(context.Background(), users.UserID(5))
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	if _, err := validator.ValidateToken(signed); !errors.Is(err, ErrExpiredSessionToken) {
		t.Fatalf("expected expired token error, got %v", err)
	}
}

func TestSessionValidatorRejectsForeignTokens(t *testing.T) {
	clockNow := time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)
	_, validator := newTestPair(t, func() time.Time { return clockNow })

	registered := jwt.RegisteredClaims{
		Subject:   "5",
		IssuedAt:  jwt.NewNumericDate(clockNow.Add(-time.Minute)),
		ExpiresAt: jwt.NewNumericDate(clockNow.Add(time.Hour)),
	}

	testCases := []struct {
		name   string
		claims SessionClaims
		secret string
	}{
		{
			name:   "wrong secret",
			claims: SessionClaims{AuthorID: 5, RegisteredClaims: withIssuer(registered, DefaultSessionIssuer)},
			secret: "other-secret",
		},
		{
			name:   "wrong issuer",
			claims: SessionClaims{AuthorID: 5, RegisteredClaims: withIssuer(registered, "someone-else")},
			secret: testSessionSigningSecret,
		},
		{
			name:   "missing author",
			claims: SessionClaims{RegisteredClaims: withIssuer(registered, DefaultSessionIssuer)},
			secret: testSessionSigningSecret,
		},
		{
			name:   "subject mismatch",
			claims: SessionClaims{AuthorID: 6, RegisteredClaims: withIssuer(registered, DefaultSessionIssuer)},
			secret: testSessionSigningSecret,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			token := jwt.NewWithClaims(jwt.SigningMethodHS256, testCase.claims)
			signed, err := token.SignedString([]byte(testCase.secret))
			if err != nil {
				t.Fatalf("failed to sign token: %v", err)
			}
			if _, err := validator.ValidateToken(signed); err == nil {
				t.Fatalf("expected validation to fail")
			}
		})
	}

	if _, err := validator.ValidateToken("  "); !errors.Is(err, ErrMissingSessionToken) {
		t.Fatalf("expected missing token error, got %v", err)
	}
	if _, err := validator.ValidateToken("invalid.token"); !errors.Is(err, ErrInvalidSessionToken) {
		t.Fatalf("expected invalid token error, got %v", err)
	}
}

func TestSessionValidatorValidateRequestUsesCookie(t *testing.T) {
	issuer, validator := newTestPair(t, nil)

	signed, _, err := issuer.IssueSessionToken(context.Background(), users.UserID(9))
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	request := httptest.NewRequest(http.MethodGet, "/author/homepage", http.NoBody)
	request.AddCookie(&http.Cookie{
		Name:  testSessionCookieName,
		Value: signed,
	})

	claims, err := validator.ValidateRequest(request)
	if err != nil {
		t.Fatalf("validation failed: %v", err)
	}
	if claims.AuthorID != 9 {
		t.Fatalf("unexpected author id: %d", claims.AuthorID)
	}

	bare := httptest.NewRequest(http.MethodGet, "/author/homepage", http.NoBody)
	if _, err := validator.ValidateRequest(bare); !errors.Is(err, ErrMissingSessionToken) {
		t.Fatalf("expected missing token error, got %v", err)
	}
}

func TestNewSessionValidatorRequiresSecretAndCookie(t *testing.T) {
	if _, err := NewSessionValidator(SessionValidatorConfig{CookieName: "c"}); !errors.Is(err, ErrMissingSessionSigningKey) {
		t.Fatalf("expected missing signing key error, got %v", err)
	}
	if _, err := NewSessionValidator(SessionValidatorConfig{SigningSecret: []byte("s"), CookieName: " "}); !errors.Is(err, ErrMissingSessionCookieName) {
		t.Fatalf("expected missing cookie name error, got %v", err)
	}
}

func withIssuer(claims jwt.RegisteredClaims, issuer string) jwt.RegisteredClaims {
	claims.Issuer = issuer
	return claims
}
