// Package cli provides tyrectl, the interactive command-line client for the
// tyrekeeper API.
//
// It wires configuration, the HTTP API client and a small REPL. A background
// watcher polls the server's health endpoint and shows online/offline in the
// prompt.
//
// Commands:
//   - register / login / logout
//   - add, list, update <id>, delete <id>
//   - help, exit | quit
//
// The token returned by login lives in memory only and is dropped on logout,
// on exit, or when the server answers 401.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
