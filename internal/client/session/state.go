package session

import "github.com/dmitrijs2005/greenhub/internal/client/models"

// Phase is the gate-visible authentication phase.
type Phase int

const (
	PhaseBootstrapping Phase = iota
	PhaseUnauthenticated
	PhaseAuthenticated
)

func (p Phase) String() string {
	switch p {
	case PhaseBootstrapping:
		return "bootstrapping"
	case PhaseUnauthenticated:
		return "unauthenticated"
	case PhaseAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// State is a point-in-time copy of the session.
type State struct {
	User    *models.User
	Token   string
	Loading bool
	Phase   Phase
}

// Authenticated reports whether a token is held.
func (s State) Authenticated() bool {
	return s.Token != ""
}

// Route names a navigation target.
type Route string

const (
	RouteHome  Route = "home"
	RouteLogin Route = "login"
)

// Navigator moves the UI to a route.
type Navigator interface {
	Navigate(route Route)
}

type NavigatorFunc func(Route)

func (f NavigatorFunc) Navigate(r Route) { f(r) }

// Notifier shows a short user-facing message.
type Notifier interface {
	Notify(title, message string)
}

type NotifierFunc func(title, message string)

func (f NotifierFunc) Notify(title, message string) { f(title, message) }

type nopNavigator struct{}

func (nopNavigator) Navigate(Route) {}

type nopNotifier struct{}

func (nopNotifier) Notify(string, string) {}
