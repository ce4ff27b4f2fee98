package auth

import (
	"testing"
	"time"

	"github.com/printhub/printhub-backend/pkg/config"
	"github.com/printhub/printhub-backend/pkg/enums"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "printhub-test",
		ExpirationMinutes: 15,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testJWTConfig()
	now := time.Now().UTC()

	signed, err := MintAccessToken(cfg, now, AccessTokenPayload{
		Email: "Demo@Example.com",
		Name:  "Иван Иванов",
		Role:  enums.RoleClient,
		JTI:   "jti-1",
	})
	if err != nil {
		t.Fatalf("MintAccessToken: %v", err)
	}

	claims, err := ParseAccessToken(cfg, signed)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.Email != "demo@example.com" {
		t.Fatalf("expected lowercased email, got %s", claims.Email)
	}
	if claims.Name != "Иван Иванов" {
		t.Fatalf("unexpected name: %s", claims.Name)
	}
	if claims.Role != enums.RoleClient {
		t.Fatalf("unexpected role: %s", claims.Role)
	}
	if claims.ID != "jti-1" {
		t.Fatalf("unexpected jti: %s", claims.ID)
	}
}

func TestMintAccessToken_Validation(t *testing.T) {
	now := time.Now()

	cases := []struct {
		name    string
		cfg     config.JWTConfig
		payload AccessTokenPayload
	}{
		{
			name:    "missing secret",
			cfg:     config.JWTConfig{Issuer: "x", ExpirationMinutes: 5},
			payload: AccessTokenPayload{Email: "a@b.c", Role: enums.RoleClient},
		},
		{
			name:    "missing issuer",
			cfg:     config.JWTConfig{Secret: "x", ExpirationMinutes: 5},
			payload: AccessTokenPayload{Email: "a@b.c", Role: enums.RoleClient},
		},
		{
			name:    "missing email",
			cfg:     testJWTConfig(),
			payload: AccessTokenPayload{Role: enums.RoleClient},
		},
		{
			name:    "invalid role",
			cfg:     testJWTConfig(),
			payload: AccessTokenPayload{Email: "a@b.c", Role: enums.Role("chief")},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := MintAccessToken(tc.cfg, now, tc.payload); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestParseAccessToken_RejectsExpired(t *testing.T) {
	cfg := testJWTConfig()
	signed, err := MintAccessToken(cfg, time.Now().Add(-time.Hour), AccessTokenPayload{
		Email: "demo@example.com",
		Role:  enums.RoleClient,
	})
	if err != nil {
		t.Fatalf("MintAccessToken: %v", err)
	}

	if _, err := ParseAccessToken(cfg, signed); err == nil {
		t.Fatal("expected expired token to be rejected")
	}

	claims, err := ParseAccessTokenAllowExpired(cfg, signed)
	if err != nil {
		t.Fatalf("ParseAccessTokenAllowExpired: %v", err)
	}
	if claims.Email != "demo@example.com" {
		t.Fatalf("unexpected email: %s", claims.Email)
	}
}

func TestParseAccessToken_RejectsWrongSecret(t *testing.T) {
	cfg := testJWTConfig()
	signed, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		Email: "demo@example.com",
		Role:  enums.RoleManager,
	})
	if err != nil {
		t.Fatalf("MintAccessToken: %v", err)
	}

	other := cfg
	other.Secret = "different"
	if _, err := ParseAccessToken(other, signed); err == nil {
		t.Fatal("expected signature mismatch")
	}
}
