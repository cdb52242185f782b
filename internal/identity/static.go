package identity

import (
	"context"
	"sync"
)

// StaticProvider maps opaque credentials to fixed sessions. Used by tests
// and by local development without an identity service.
type StaticProvider struct {
	mu        sync.Mutex
	sessions  map[string]Session
	passwords map[string]string
	listeners []ChangeFunc
}

// NewStaticProvider creates an empty static provider.
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{sessions: map[string]Session{}, passwords: map[string]string{}}
}

// Add registers a credential and the session it resolves to.
func (p *StaticProvider) Add(credential string, sess Session) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sessions[credential] = sess
}

func (p *StaticProvider) Session(_ context.Context, credential string) (*Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	sess, ok := p.sessions[credential]
	if !ok {
		return nil, ErrNoSession
	}
	return &sess, nil
}

func (p *StaticProvider) SignUp(_ context.Context, email, password, _ string) (*Session, error) {
	p.mu.Lock()
	sess := Session{UserID: email, Email: email}
	p.sessions[email] = sess
	p.passwords[email] = password
	listeners := make([]ChangeFunc, len(p.listeners))
	copy(listeners, p.listeners)
	p.mu.Unlock()

	for _, fn := range listeners {
		fn(&sess)
	}
	return &sess, nil
}

func (p *StaticProvider) SignIn(_ context.Context, email, password string) (*Session, error) {
	p.mu.Lock()
	stored, ok := p.passwords[email]
	if !ok || stored != password {
		p.mu.Unlock()
		return nil, ErrNoSession
	}
	sess := Session{UserID: email, Email: email}
	p.sessions[email] = sess
	listeners := make([]ChangeFunc, len(p.listeners))
	copy(listeners, p.listeners)
	p.mu.Unlock()

	for _, fn := range listeners {
		fn(&sess)
	}
	return &sess, nil
}

func (p *StaticProvider) SignOut(_ context.Context, userID string) error {
	p.mu.Lock()
	for cred, sess := range p.sessions {
		if sess.UserID == userID {
			delete(p.sessions, cred)
		}
	}
	listeners := make([]ChangeFunc, len(p.listeners))
	copy(listeners, p.listeners)
	p.mu.Unlock()

	for _, fn := range listeners {
		fn(nil)
	}
	return nil
}

func (p *StaticProvider) OnChange(fn ChangeFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, fn)
}
