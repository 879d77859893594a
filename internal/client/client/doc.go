// Package client contains client-side building blocks for the field tool.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) to talk
//     to the sync server: Register/Login, Ping, PullCatalog, RegisterImage
//     and presigned URL helpers for attachment transfer.
//  2. A concrete HTTP implementation (see HTTPClient) that injects the
//     access token, transparently refreshes an expired token pair, and maps
//     transport and status failures to sentinel errors.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) for the CLI,
//     opening the SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers match with
// errors.Is: ErrUnavailable, ErrUnauthorized, ErrLocalDataNotAvailable.
//
// All operations accept context.Context and honor cancellation/timeouts.
package client
