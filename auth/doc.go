// Package auth implements the authentication and session lifecycle for the
// job platform: credential storage, password hashing, HMAC-signed session
// tokens, a server-side session ledger enabling revocation independent of
// token expiry, and the HTTP middleware and controllers that tie them
// together.
//
// A token is honored only when both checks pass: the signature/expiry
// validate against the process signing secret, and the ledger still holds a
// live row for the exact (user, token) pair. Logout deletes every ledger row
// for the user, revoking all of their sessions at once.
package auth
