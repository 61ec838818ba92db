package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

func TestClassifyDriveError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantAuth bool
	}{
		{"unauthorized", &googleapi.Error{Code: 401, Message: "Invalid Credentials"}, true},
		{"forbidden", &googleapi.Error{Code: 403, Message: "insufficientPermissions"}, true},
		{"rate limited", &googleapi.Error{Code: 429, Message: "rateLimitExceeded"}, false},
		{"server error", &googleapi.Error{Code: 500, Message: "Backend Error"}, false},
		{"token refresh rejected", &oauth2.RetrieveError{}, true},
		{"wrapped unauthorized", fmt.Errorf("files.list: %w", &googleapi.Error{Code: 401}), true},
		{"plain error", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyDriveError(tt.err)
			if errors.Is(got, ErrAuth) != tt.wantAuth {
				t.Errorf("classifyDriveError(%v): ErrAuth = %v, want %v", tt.err, !tt.wantAuth, tt.wantAuth)
			}
			if got == nil {
				t.Fatal("classified error is nil")
			}
		})
	}
}

func TestServiceRejectsEmptyRefreshToken(t *testing.T) {
	s := NewGoogleDriveStorage("client-id", "client-secret", "https://api.example.com/api/drive/callback")

	_, err := s.service(context.Background(), "")
	if !errors.Is(err, ErrAuth) {
		t.Fatalf("expected ErrAuth for empty refresh token, got %v", err)
	}
}

func TestAuthURLRequestsOfflineAccess(t *testing.T) {
	s := NewGoogleDriveStorage("client-id", "client-secret", "https://api.example.com/api/drive/callback")

	url := s.AuthURL("42")
	for _, want := range []string{"access_type=offline", "prompt=consent", "state=42"} {
		if !strings.Contains(url, want) {
			t.Errorf("auth URL missing %q: %s", want, url)
		}
	}
}
