// Package services implements the client's feature screens on top of the
// HTTP client: marketplace, account, chat sessions and the AI assistant.
//
// Backend calls that need a bearer token go through one helper that takes
// the token from a TokenSource and reports 401/403 answers back to it, so a
// rejected token ends the session.
package services
