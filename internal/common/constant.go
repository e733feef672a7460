// Package common contains shared constants and sentinel errors used across
// GreenHub client components.
package common

const (
	// KeyToken is the credential store slot holding the bearer token.
	KeyToken = "token"
	// KeyUser is the credential store slot holding the JSON-serialized user.
	KeyUser = "user"
	// KeyKDFSalt is the metadata key of the per-database key derivation salt.
	KeyKDFSalt = "kdf_salt"
)

// Header names used on outbound requests.
const (
	AuthorizationHeaderName = "Authorization"
	RequestIDHeaderName     = "X-Request-ID"
	ContentTypeHeaderName   = "Content-Type"
	AcceptHeaderName        = "Accept"

	BearerPrefix = "Bearer "
	JSONMimeType = "application/json"
)
