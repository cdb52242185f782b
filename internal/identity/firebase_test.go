package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestFirebaseSignInReturnsSessionAndNotifies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "accounts:signInWithPassword") {
			t.Errorf("path = %q, want accounts:signInWithPassword", r.URL.Path)
		}
		if key := r.URL.Query().Get("key"); key != "web-key" {
			t.Errorf("key = %q, want web-key", key)
		}
		var req passwordSignInRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Email != "alice@example.com" || req.Password != "secret" {
			t.Errorf("credentials = %q/%q", req.Email, req.Password)
		}
		json.NewEncoder(w).Encode(passwordSignInResponse{LocalID: "uid-1", Email: "alice@example.com"})
	}))
	defer srv.Close()

	p := NewFirebaseProvider(nil, "web-key", zap.NewNop(), WithTokenEndpoint(srv.URL))

	var changes []*Session
	p.OnChange(func(s *Session) { changes = append(changes, s) })

	sess, err := p.SignIn(context.Background(), "alice@example.com", "secret")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if sess.UserID != "uid-1" || sess.Email != "alice@example.com" {
		t.Fatalf("session = %+v, want uid-1/alice@example.com", sess)
	}
	if len(changes) != 1 || changes[0] == nil || changes[0].UserID != "uid-1" {
		t.Fatalf("changes = %v, want the signed-in session", changes)
	}
}

func TestFirebaseSignInRejectionIsNoSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	p := NewFirebaseProvider(nil, "web-key", zap.NewNop(), WithTokenEndpoint(srv.URL))

	var changes []*Session
	p.OnChange(func(s *Session) { changes = append(changes, s) })

	if _, err := p.SignIn(context.Background(), "alice@example.com", "wrong"); !errors.Is(err, ErrNoSession) {
		t.Fatalf("err = %v, want ErrNoSession", err)
	}
	if len(changes) != 0 {
		t.Fatalf("changes = %v, want none for a rejected sign-in", changes)
	}
}

func TestFirebaseSignInRequiresAPIKey(t *testing.T) {
	p := NewFirebaseProvider(nil, "", zap.NewNop())

	_, err := p.SignIn(context.Background(), "alice@example.com", "secret")
	if err == nil {
		t.Fatal("SignIn succeeded without an api key")
	}
	if errors.Is(err, ErrNoSession) {
		t.Fatalf("err = %v, want a configuration error, not ErrNoSession", err)
	}
}
