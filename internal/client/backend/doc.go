// Package backend contains the thin clients for the hosted data service.
//
// # Overview
//
// The package provides:
//  1. Transport-agnostic contracts the synchronizers consume: AuthClient for
//     identity, FolderStore and NoteStore for the record families. Every
//     record operation is scoped by a userID filter; row-level authorization
//     itself is enforced by the service.
//  2. Concrete implementations for the hosted stack: GoTrue (auth: password
//     grant, sign-up, sign-out, user update, refresh, auth-state fanout) and
//     REST (PostgREST record access: filtered selects, keyset pagination,
//     inserts with representation, batched id-keyed upsert).
//
// # Error Handling
//
// Transport and gateway failures are wrapped in ErrUnavailable, authorization
// failures in ErrUnauthorized; match with errors.Is. Auth-service failures
// are returned as *AuthError so callers can inspect the machine code.
//
// All operations accept context.Context and honor cancellation/timeouts.
package backend
