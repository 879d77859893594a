// Package cli provides the interactive field-inventory command-line client.
//
// It wires configuration, the local SQLite store, the sync API client, the
// attachment upload engine and an interactive REPL that supports online and
// offline operation. Typical flow: prompt for credentials, start the
// background worker and connectivity watcher, and execute user commands.
//
// Key features:
//   - Login / Logout (online with offline fallback)
//   - Browse the catalog: assets, gateways, measurement points
//   - Attach photos to an entity (staged locally, uploaded in background)
//   - Inspect the upload queue
//   - Pull catalog changes from the server
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
