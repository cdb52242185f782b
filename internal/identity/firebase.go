package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
)

// defaultTokenEndpoint is the identity-toolkit REST API, the only surface
// that accepts email and password; the admin SDK cannot verify passwords.
const defaultTokenEndpoint = "https://identitytoolkit.googleapis.com/v1"

// FirebaseProvider implements Provider on top of the Firebase auth client.
type FirebaseProvider struct {
	client   *auth.Client
	apiKey   string
	endpoint string
	http     *http.Client
	log      *zap.Logger

	mu        sync.Mutex
	listeners []ChangeFunc
}

// Option customizes a FirebaseProvider.
type Option func(*FirebaseProvider)

// WithTokenEndpoint overrides the identity-toolkit endpoint, used by tests.
func WithTokenEndpoint(url string) Option {
	return func(p *FirebaseProvider) { p.endpoint = url }
}

// WithHTTPClient overrides the HTTP client used for password sign-in.
func WithHTTPClient(c *http.Client) Option {
	return func(p *FirebaseProvider) { p.http = c }
}

// NewFirebaseProvider wraps an initialized Firebase auth client. The web API
// key authorizes password sign-in against the identity-toolkit REST API.
func NewFirebaseProvider(client *auth.Client, apiKey string, log *zap.Logger, opts ...Option) *FirebaseProvider {
	p := &FirebaseProvider{
		client:   client,
		apiKey:   apiKey,
		endpoint: defaultTokenEndpoint,
		http:     &http.Client{Timeout: 15 * time.Second},
		log:      log,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Session verifies a Firebase ID token and returns the session it carries.
func (p *FirebaseProvider) Session(ctx context.Context, credential string) (*Session, error) {
	if credential == "" {
		return nil, ErrNoSession
	}
	token, err := p.client.VerifyIDToken(ctx, credential)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSession, err)
	}
	sess := &Session{UserID: token.UID}
	if email, ok := token.Claims["email"].(string); ok {
		sess.Email = email
	}
	return sess, nil
}

// SignUp creates a Firebase account and notifies change listeners.
func (p *FirebaseProvider) SignUp(ctx context.Context, email, password, name string) (*Session, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(name)

	record, err := p.client.CreateUser(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	sess := &Session{UserID: record.UID, Email: record.Email}
	p.notify(sess)
	return sess, nil
}

type passwordSignInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type passwordSignInResponse struct {
	LocalID string `json:"localId"`
	Email   string `json:"email"`
}

// SignIn authenticates email and password against the identity-toolkit REST
// API and notifies change listeners on success.
func (p *FirebaseProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("password sign-in requires a firebase web api key")
	}

	body, err := json.Marshal(passwordSignInRequest{Email: email, Password: password, ReturnSecureToken: true})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/accounts:signInWithPassword?key=%s", p.endpoint, p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: sign-in rejected with status %d", ErrNoSession, resp.StatusCode)
	}

	var parsed passwordSignInResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode sign-in response: %w", err)
	}
	if parsed.LocalID == "" {
		return nil, fmt.Errorf("%w: sign-in response carried no user id", ErrNoSession)
	}

	sess := &Session{UserID: parsed.LocalID, Email: parsed.Email}
	p.notify(sess)
	return sess, nil
}

// SignOut revokes all refresh tokens for the user, invalidating every
// session derived from them.
func (p *FirebaseProvider) SignOut(ctx context.Context, userID string) error {
	if err := p.client.RevokeRefreshTokens(ctx, userID); err != nil {
		return fmt.Errorf("revoke tokens: %w", err)
	}
	p.log.Info("sessions revoked", zap.String("user_id", userID))
	p.notify(nil)
	return nil
}

// OnChange registers a session-change callback.
func (p *FirebaseProvider) OnChange(fn ChangeFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, fn)
}

func (p *FirebaseProvider) notify(sess *Session) {
	p.mu.Lock()
	listeners := make([]ChangeFunc, len(p.listeners))
	copy(listeners, p.listeners)
	p.mu.Unlock()

	for _, fn := range listeners {
		fn(sess)
	}
}
