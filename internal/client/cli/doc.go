// Package cli provides the interactive GreenHub command-line client.
//
// It wires configuration, the encrypted local credential store, the backend
// and AI HTTP clients, the session manager and the feature services, then
// serves a REPL whose reachable commands follow the session phase.
//
// Guests can:
//   - register, login, forgot
//
// Signed-in users can:
//   - browse and list products (products, product, addproduct)
//   - manage assistant conversations (chats, newchat, delchat)
//   - talk to the assistant and classify waste photos (ask, classify)
//   - join the realtime chat (live)
//   - view and edit their profile (profile, editprofile, whoami)
//   - logout
//
// The REPL is started via App.Run(ctx), which restores the stored session
// first and blocks until the user exits.
package cli
