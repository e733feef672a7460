package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrijs2005/greenhub/internal/client/client"
	"github.com/dmitrijs2005/greenhub/internal/client/credstore"
	"github.com/dmitrijs2005/greenhub/internal/client/models"
	"github.com/dmitrijs2005/greenhub/internal/common"
	"github.com/dmitrijs2005/greenhub/internal/logging"
)

// ErrSuperseded is returned by Login when a Logout ran while the login
// request was outstanding. The login result is discarded.
var ErrSuperseded = errors.New("login superseded by logout")

// Notification texts.
const (
	TitleSuccess      = "Success"
	TitleError        = "Error"
	TitleLoginFailed  = "Login failed"
	TitleSignupFailed = "Signup failed"
	TitleSessionEnded = "Session expired"

	MsgWelcome        = "Welcome back!"
	MsgAccountCreated = "Account created successfully."
	MsgLoginAgain     = "Please log in again."
)

const (
	pathLogin  = "/auth/login"
	pathSignup = "/auth/signup"
)

type Option func(*Manager)

func WithLogger(l logging.Logger) Option {
	return func(m *Manager) { m.log = l }
}

func WithNavigator(n Navigator) Option {
	return func(m *Manager) { m.nav = n }
}

func WithNotifier(n Notifier) Option {
	return func(m *Manager) { m.notify = n }
}

// WithClock overrides the time source used for token expiry checks.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// Manager is the single authority for authentication state.
type Manager struct {
	store  credstore.Store
	doer   client.Doer
	log    logging.Logger
	nav    Navigator
	notify Notifier
	now    func() time.Time

	// storeMu orders session writes to the store together with the matching
	// memory change. Subscribers must not call Login or Logout synchronously.
	storeMu sync.Mutex

	mu           sync.Mutex
	state        State
	bootstrapped bool
	done         chan struct{}
	doneOnce     sync.Once
	loggingIn    bool
	gen          uint64
	subs         map[int]func(State)
	nextSub      int
}

// New returns a Manager in the Bootstrapping phase with loading set.
func New(store credstore.Store, doer client.Doer, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		doer:   doer,
		log:    logging.NewNop(),
		nav:    nopNavigator{},
		notify: nopNotifier{},
		now:    time.Now,
		state:  State{Loading: true, Phase: PhaseBootstrapping},
		done:   make(chan struct{}),
		subs:   make(map[int]func(State)),
	}
	for _, o := range opts {
		o(m)
	}
	m.log = m.log.With("component", "session")
	return m
}

// Snapshot returns a copy of the current state.
func (m *Manager) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() State {
	s := m.state
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	switch {
	case !m.bootstrapped:
		s.Phase = PhaseBootstrapping
	case s.Token != "":
		s.Phase = PhaseAuthenticated
	default:
		s.Phase = PhaseUnauthenticated
	}
	return s
}

// Subscribe registers fn to receive the state after every change. The
// returned func unregisters it.
func (m *Manager) Subscribe(fn func(State)) (cancel func()) {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// update applies fn under the lock and publishes the resulting state.
func (m *Manager) update(fn func(*State)) State {
	s, _ := m.updateIf(func(st *State) bool {
		fn(st)
		return true
	})
	return s
}

// updateIf is update for changes that may be refused: fn runs under the
// lock and nothing is published when it returns false.
func (m *Manager) updateIf(fn func(*State) bool) (State, bool) {
	m.mu.Lock()
	if !fn(&m.state) {
		s := m.snapshotLocked()
		m.mu.Unlock()
		return s, false
	}
	s := m.snapshotLocked()
	subs := make([]func(State), 0, len(m.subs))
	for _, f := range m.subs {
		subs = append(subs, f)
	}
	m.mu.Unlock()

	for _, f := range subs {
		f(s)
	}
	return s, true
}

// Wait blocks until the first Bootstrap has finished or ctx is done.
func (m *Manager) Wait(ctx context.Context) error {
	select {
	case <-m.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Token returns the bearer token, or "" when unauthenticated.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Token
}

// User returns a copy of the current user.
func (m *Manager) User() (models.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.User == nil {
		return models.User{}, false
	}
	return *m.state.User, true
}

// Bootstrap loads token and user from the store. It never fails: unreadable
// slots and an undecodable user are logged and treated as absent. Loading is
// cleared at the end in every case. No request is made; a stored token is
// trusted as is. Calling it again re-reads the store.
func (m *Manager) Bootstrap(ctx context.Context) {
	m.update(func(s *State) { s.Loading = true })

	token, ok, err := m.store.Get(ctx, common.KeyToken)
	if err != nil {
		m.log.Warn(ctx, "read stored token", "err", err)
	}
	if !ok {
		token = ""
	}

	var user *models.User
	raw, ok, err := m.store.Get(ctx, common.KeyUser)
	switch {
	case err != nil:
		m.log.Warn(ctx, "read stored user", "err", err)
	case ok:
		var u models.User
		if err := json.Unmarshal([]byte(raw), &u); err != nil {
			m.log.Warn(ctx, "discarding unreadable stored user", "err", err)
		} else {
			user = &u
		}
	}

	if token != "" {
		if c, err := CheckToken(token, m.now()); errors.Is(err, common.ErrTokenExpired) {
			m.log.Warn(ctx, "stored token has expired", "expired_at", c.ExpiresAt)
		}
	}

	s := m.update(func(s *State) {
		m.bootstrapped = true
		s.Token = token
		s.User = user
		s.Loading = false
	})

	m.doneOnce.Do(func() { close(m.done) })
	m.log.Debug(ctx, "bootstrap finished", "phase", s.Phase.String())
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Login authenticates against the backend. On success token and user are
// persisted, then published, and the navigator is sent home. On failure the
// state is left as it was. A second Login while one is outstanding fails
// with common.ErrInFlight.
//
// Rejections return the *client.APIError carrying the server message;
// transport failures return the *client.TransportError.
func (m *Manager) Login(ctx context.Context, email, password string) (*models.User, error) {
	m.mu.Lock()
	if m.loggingIn {
		m.mu.Unlock()
		return nil, common.ErrInFlight
	}
	m.loggingIn = true
	gen := m.gen
	m.mu.Unlock()

	m.update(func(s *State) { s.Loading = true })
	defer func() {
		m.mu.Lock()
		m.loggingIn = false
		m.mu.Unlock()
		m.update(func(s *State) { s.Loading = false })
	}()

	resp, err := m.doer.Do(ctx, &client.Request{
		Method: http.MethodPost,
		Path:   pathLogin,
		Body:   map[string]string{"email": email, "password": password},
	})
	if err != nil {
		m.log.Warn(ctx, "login request failed", "err", err)
		m.notify.Notify(TitleError, client.UserMessage(err))
		return nil, err
	}
	if err := resp.ErrOf("message", "msg", "error"); err != nil {
		m.notify.Notify(TitleLoginFailed, err.Error())
		return nil, err
	}

	var body loginResponse
	if err := resp.Decode(&body); err != nil || body.Token == "" || body.User == nil {
		if err == nil {
			err = fmt.Errorf("%w: token or user missing", client.ErrDecode)
		}
		m.log.Warn(ctx, "unexpected login response", "err", err)
		m.notify.Notify(TitleLoginFailed, client.MsgGeneric)
		return nil, err
	}

	userJSON, err := json.Marshal(body.User)
	if err != nil {
		return nil, fmt.Errorf("encode user: %w", err)
	}

	m.storeMu.Lock()
	if err := m.store.SetAll(ctx, map[string]string{
		common.KeyToken: body.Token,
		common.KeyUser:  string(userJSON),
	}); err != nil {
		m.storeMu.Unlock()
		m.log.Error(ctx, "persist session", "err", err)
		m.notify.Notify(TitleError, client.MsgGeneric)
		return nil, fmt.Errorf("persist session: %w", err)
	}

	// The generation check and the memory write share one critical section
	// so a Logout cannot slip in between them.
	user := *body.User
	_, published := m.updateIf(func(s *State) bool {
		if m.gen != gen {
			return false
		}
		s.Token = body.Token
		s.User = &user
		return true
	})
	if !published {
		if err := m.store.DeleteAll(ctx, common.KeyToken, common.KeyUser); err != nil {
			m.log.Warn(ctx, "clear superseded session", "err", err)
		}
		m.storeMu.Unlock()
		m.log.Info(ctx, "discarding login result after logout")
		return nil, ErrSuperseded
	}
	m.storeMu.Unlock()

	m.log.Info(ctx, "logged in", "user_id", user.ID)
	m.notify.Notify(TitleSuccess, MsgWelcome)
	m.nav.Navigate(RouteHome)
	return &user, nil
}

// Signup registers a new account. The form is validated before anything is
// sent. Success never authenticates: the navigator is sent to the login
// route and the state is untouched.
func (m *Manager) Signup(ctx context.Context, form models.SignupForm) error {
	if err := models.Validate(form); err != nil {
		m.notify.Notify(TitleSignupFailed, err.Error())
		return err
	}

	resp, err := m.doer.Do(ctx, &client.Request{
		Method: http.MethodPost,
		Path:   pathSignup,
		Body:   form,
	})
	if err != nil {
		m.log.Warn(ctx, "signup request failed", "err", err)
		m.notify.Notify(TitleError, client.UserMessage(err))
		return err
	}
	if err := resp.ErrOf("msg", "errors", "message", "error"); err != nil {
		m.notify.Notify(TitleSignupFailed, err.Error())
		return err
	}

	m.notify.Notify(TitleSuccess, MsgAccountCreated)
	m.nav.Navigate(RouteLogin)
	return nil
}

// Logout clears memory first, then the stored slots, then navigates to the
// login route. Storage failures are logged, never returned. Safe to call
// when already logged out.
func (m *Manager) Logout(ctx context.Context) {
	m.storeMu.Lock()
	m.update(func(s *State) {
		m.gen++
		s.Token = ""
		s.User = nil
	})

	if err := m.store.DeleteAll(ctx, common.KeyToken, common.KeyUser); err != nil {
		m.log.Warn(ctx, "clear stored session", "err", err)
	}
	m.storeMu.Unlock()

	m.nav.Navigate(RouteLogin)
}

// HandleUnauthorized ends the session after an authenticated endpoint
// answered 401 or 403.
func (m *Manager) HandleUnauthorized(ctx context.Context) {
	if m.Token() == "" {
		return
	}
	m.log.Info(ctx, "backend rejected token, logging out")
	m.notify.Notify(TitleSessionEnded, MsgLoginAgain)
	m.Logout(ctx)
}

// UpdateUser replaces the in-memory user after a profile edit. The token and
// the stored copy are left alone.
func (m *Manager) UpdateUser(user models.User) error {
	m.mu.Lock()
	authenticated := m.state.Token != ""
	m.mu.Unlock()
	if !authenticated {
		return common.ErrNotAuthenticated
	}

	m.update(func(s *State) { s.User = &user })
	return nil
}
