// Package session owns the client's authentication state.
//
// A Manager holds the user, the bearer token and the loading flag, mirrors
// token and user into a credstore.Store, and is the only writer of those
// slots. Consumers observe it through Snapshot and Subscribe; the REPL gate
// waits for Bootstrap before deciding which commands to offer.
//
// Lifecycle:
//
//	Bootstrapping -> Unauthenticated | Authenticated   (Bootstrap, once)
//	Unauthenticated -> Authenticated                   (Login)
//	Authenticated -> Unauthenticated                   (Logout, HandleUnauthorized)
//
// Signup never changes the phase.
package session
