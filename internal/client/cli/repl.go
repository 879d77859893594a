package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Assets(ctx context.Context) error
	Gateways(ctx context.Context) error
	Points(ctx context.Context) error
	Show(ctx context.Context) error
	AddImage(ctx context.Context) error
	Uploads(ctx context.Context) error
	Sync(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the field CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit". The prompt shows the current status from statusFn.
//
// Errors returned by command handlers are not propagated; handlers report
// their own errors so one failed command does not end the session.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("fld> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (a)ssets, gateways, points, show, addimage, uploads, sync, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "a", "assets":
			_ = a.Assets(ctx)

		case "gateways":
			_ = a.Gateways(ctx)

		case "points":
			_ = a.Points(ctx)

		case "show":
			_ = a.Show(ctx)

		case "addimage":
			_ = a.AddImage(ctx)

		case "uploads":
			_ = a.Uploads(ctx)

		case "sync":
			_ = a.Sync(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
