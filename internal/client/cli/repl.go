package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs.
// The real App type satisfies it; tests can provide a stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Users(ctx context.Context) error
	Inbox(ctx context.Context) error
	Outbox(ctx context.Context) error
	Send(ctx context.Context) error
	Read(ctx context.Context, arg string) error
	Logout(ctx context.Context) error
}

// runREPL reads a line from the scanner, parses the first token as the
// command, and dispatches to methods on 'a'. The loop exits on scanner
// EOF or when the user types "exit" or "quit".
//
// Errors returned by command handlers are ignored here; handlers print
// their own errors. This keeps the loop focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("msgly> %s > ", statusFn()))
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
				printlnFn("Available commands: users, inbox, outbox, send, read <id>, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "users":
			_ = a.Users(ctx)

		case "inbox":
			_ = a.Inbox(ctx)

		case "outbox":
			_ = a.Outbox(ctx)

		case "send":
			_ = a.Send(ctx)

		case "read":
			arg := ""
			if len(parts) > 1 {
				arg = parts[1]
			}
			_ = a.Read(ctx, arg)

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
