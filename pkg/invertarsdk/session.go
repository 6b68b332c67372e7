package invertarsdk

import (
	"context"
	"sync"
	"time"
)

// RefreshInterval is how often an established session refreshes its cookies
// in the background: three minutes of margin before the fifteen-minute
// access-token expiry.
const RefreshInterval = 12 * time.Minute

// SessionState is what subscribers observe: either a current identity or
// logged-out.
type SessionState struct {
	User     *UserInfo
	LoggedIn bool
}

// Session is an explicit session-state object owned by the application
// shell. It caches the current identity, exposes Get/Set/Subscribe, and
// drives the recurring background refresh. All methods are safe for
// concurrent use.
type Session struct {
	client *Client

	// RefreshEvery overrides RefreshInterval when positive. Set it before
	// Bootstrap or Login; a running loop keeps its original cadence.
	RefreshEvery time.Duration

	mu          sync.RWMutex
	state       SessionState
	subscribers []func(SessionState)

	refreshStop chan struct{} // nil when no refresh loop is running
}

// NewSession creates a session around a client. The session starts
// logged-out; call Bootstrap to resolve the real state.
func NewSession(client *Client) *Session {
	return &Session{client: client}
}

// Get returns the current session state.
func (s *Session) Get() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Set replaces the session state and notifies subscribers.
func (s *Session) Set(state SessionState) {
	s.mu.Lock()
	s.state = state
	subs := make([]func(SessionState), len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(state)
	}
}

// Subscribe registers a callback invoked on every state change. Callbacks
// run synchronously on the goroutine that changed the state.
func (s *Session) Subscribe(fn func(SessionState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Bootstrap resolves the session state on startup. A cached identity short
// circuits; otherwise it asks the server who the cookies belong to. Three
// outcomes: identity found (schedules the background refresh), explicit
// unauthorized (clear to logged-out), network failure or timeout (clear to
// logged-out rather than hang, bounded by the client timeout).
func (s *Session) Bootstrap(ctx context.Context) SessionState {
	if state := s.Get(); state.LoggedIn {
		return state
	}

	user, err := s.client.CurrentUser(ctx)
	if err != nil {
		// Unauthorized and transport errors land in the same place: logged
		// out. The distinction only matters to a caller inspecting err via
		// IsUnauthorized, and nobody retries here.
		s.stopRefresh()
		s.Set(SessionState{})
		return s.Get()
	}

	s.Set(SessionState{User: &user, LoggedIn: true})
	s.startRefresh()
	return s.Get()
}

// Login authenticates and, on a SUCCESS outcome, populates the session and
// starts the background refresh.
func (s *Session) Login(ctx context.Context, req LoginRequest) (StatusResponse, error) {
	resp, err := s.client.Login(ctx, req)
	if err != nil {
		return StatusResponse{}, err
	}
	if resp.Status == StatusSuccess {
		user, err := s.client.CurrentUser(ctx)
		if err == nil {
			s.Set(SessionState{User: &user, LoggedIn: true})
			s.startRefresh()
		}
	}
	return resp, nil
}

// Logout clears the server cookies, the cached identity and the refresh
// timer.
func (s *Session) Logout(ctx context.Context) error {
	_, err := s.client.Logout(ctx)
	s.stopRefresh()
	s.Set(SessionState{})
	return err
}

// Close cancels the background refresh without touching the server.
func (s *Session) Close() {
	s.stopRefresh()
}

// startRefresh launches the recurring background refresh. A single failed
// attempt stops the timer and clears the identity; the next protected action
// forces a re-login. No retries.
func (s *Session) startRefresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.refreshStop != nil {
		return // already running
	}
	stop := make(chan struct{})
	s.refreshStop = stop

	every := s.RefreshEvery
	if every <= 0 {
		every = RefreshInterval
	}

	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), DefaultTimeout)
				_, err := s.client.RefreshToken(ctx)
				cancel()
				if err != nil {
					s.mu.Lock()
					if s.refreshStop == stop {
						s.refreshStop = nil
					}
					s.mu.Unlock()
					s.Set(SessionState{})
					return
				}
			case <-stop:
				return
			}
		}
	}()
}

func (s *Session) stopRefresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.refreshStop != nil {
		close(s.refreshStop)
		s.refreshStop = nil
	}
}
