package services

import (
	"testing"
	"time"

	"github.com/wordnest/vocab_api/dto"
	"github.com/wordnest/vocab_api/shared"
)

func newTestAuthService(store *SqliteService) (*AuthService, *JWTService) {
	jwtSvc := &JWTService{
		AccessTokenDuration: 24 * time.Hour,
		jwtSecretKey:        "test-secret",
	}
	return &AuthService{sqlSvc: store, jwtSvc: jwtSvc}, jwtSvc
}

func TestRegisterAndLogin(t *testing.T) {
	store := newTestStore(t)
	svc, jwtSvc := newTestAuthService(store)

	registered, err := svc.Register(dto.RegisterRequest{
		Email:    "mina@wordnest.local",
		Username: "mina",
		Password: "Secret123",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if registered.UserID == "" || registered.Username != "mina" {
		t.Errorf("unexpected register response: %+v", registered)
	}

	settings, err := store.GetUserSettings(registered.UserID)
	if err != nil {
		t.Fatalf("registration should create default settings: %v", err)
	}
	if settings.DailyGoal != 10 || settings.Level != 1 {
		t.Errorf("default settings = goal %d level %d, want 10 and 1", settings.DailyGoal, settings.Level)
	}

	t.Run("login by username", func(t *testing.T) {
		resp, err := svc.Login(dto.LoginRequest{EmailOrUsername: "mina", Password: "Secret123"})
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		userID, err := jwtSvc.VerifyJWTToken(resp.TokenPair.AccessToken)
		if err != nil {
			t.Fatalf("issued token does not verify: %v", err)
		}
		if userID != registered.UserID {
			t.Errorf("token user = %q, want %q", userID, registered.UserID)
		}
	})

	t.Run("login by email", func(t *testing.T) {
		if _, err := svc.Login(dto.LoginRequest{EmailOrUsername: "mina@wordnest.local", Password: "Secret123"}); err != nil {
			t.Errorf("Login by email: %v", err)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(dto.LoginRequest{EmailOrUsername: "mina", Password: "Wrong123"})
		if err == nil {
			t.Fatal("wrong password should be rejected")
		}
		appErr, ok := shared.GetAppError(err)
		if !ok || appErr.StatusCode != 401 {
			t.Errorf("expected a 401 app error, got %v", err)
		}
	})

	t.Run("refresh issues a verifiable token", func(t *testing.T) {
		pair, err := svc.Refresh(registered.UserID)
		if err != nil {
			t.Fatalf("Refresh: %v", err)
		}
		userID, err := jwtSvc.VerifyJWTToken(pair.AccessToken)
		if err != nil || userID != registered.UserID {
			t.Errorf("refreshed token verifies to (%q, %v), want %q", userID, err, registered.UserID)
		}

		if _, err := svc.Refresh("no-such-user"); err == nil {
			t.Error("refresh for an unknown profile should be rejected")
		}
	})

	t.Run("unknown account", func(t *testing.T) {
		if _, err := svc.Login(dto.LoginRequest{EmailOrUsername: "nobody", Password: "Secret123"}); err == nil {
			t.Error("unknown account should be rejected")
		}
	})
}

func TestRegisterDuplicates(t *testing.T) {
	store := newTestStore(t)
	svc, _ := newTestAuthService(store)

	if _, err := svc.Register(dto.RegisterRequest{
		Email:    "mina@wordnest.local",
		Username: "mina",
		Password: "Secret123",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	tests := []struct {
		name string
		req  dto.RegisterRequest
	}{
		{"duplicate username", dto.RegisterRequest{Email: "other@wordnest.local", Username: "mina", Password: "Secret123"}},
		{"duplicate email", dto.RegisterRequest{Email: "mina@wordnest.local", Username: "other", Password: "Secret123"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(tt.req)
			if err == nil {
				t.Fatal("duplicate should be rejected")
			}
			appErr, ok := shared.GetAppError(err)
			if !ok || appErr.StatusCode != 409 {
				t.Errorf("expected a 409 app error, got %v", err)
			}
		})
	}
}

func TestRegisterValidation(t *testing.T) {
	store := newTestStore(t)
	svc, _ := newTestAuthService(store)

	tests := []struct {
		name string
		req  dto.RegisterRequest
	}{
		{"bad email", dto.RegisterRequest{Email: "not-an-email", Username: "mina", Password: "Secret123"}},
		{"short password", dto.RegisterRequest{Email: "mina@wordnest.local", Username: "mina", Password: "ab"}},
		{"missing username", dto.RegisterRequest{Email: "mina@wordnest.local", Password: "Secret123"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(tt.req)
			if err == nil {
				t.Fatal("invalid request should be rejected")
			}
			appErr, ok := shared.GetAppError(err)
			if !ok || appErr.StatusCode != 400 {
				t.Errorf("expected a 400 app error, got %v", err)
			}
		})
	}
}

func TestJWTRoundTrip(t *testing.T) {
	jwtSvc := &JWTService{AccessTokenDuration: time.Hour, jwtSecretKey: "test-secret"}

	token, err := jwtSvc.ToJWT("user-1")
	if err != nil {
		t.Fatalf("ToJWT: %v", err)
	}
	userID, err := jwtSvc.VerifyJWTToken(token)
	if err != nil {
		t.Fatalf("VerifyJWTToken: %v", err)
	}
	if userID != "user-1" {
		t.Errorf("user = %q, want user-1", userID)
	}

	t.Run("tampered token", func(t *testing.T) {
		if _, err := jwtSvc.VerifyJWTToken(token + "x"); err == nil {
			t.Error("tampered token should not verify")
		}
	})

	t.Run("wrong key", func(t *testing.T) {
		other := &JWTService{AccessTokenDuration: time.Hour, jwtSecretKey: "other-secret"}
		if _, err := other.VerifyJWTToken(token); err == nil {
			t.Error("token signed with another key should not verify")
		}
	})

	t.Run("expired token", func(t *testing.T) {
		expired := &JWTService{AccessTokenDuration: -time.Hour, jwtSecretKey: "test-secret"}
		token, err := expired.ToJWT("user-1")
		if err != nil {
			t.Fatalf("ToJWT: %v", err)
		}
		if _, err := jwtSvc.VerifyJWTToken(token); err == nil {
			t.Error("expired token should not verify")
		}
	})
}

func TestExtractTokenFromHeader(t *testing.T) {
	jwtSvc := &JWTService{}

	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"bearer", "Bearer abc.def.ghi", "abc.def.ghi", false},
		{"missing", "", "", true},
		{"no scheme", "abc.def.ghi", "", true},
		{"wrong scheme", "Basic abc", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := jwtSvc.ExtractTokenFromHeader(tt.header)
			if tt.wantErr != (err != nil) {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("token = %q, want %q", got, tt.want)
			}
		})
	}
}
