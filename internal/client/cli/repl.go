package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	// Dispatch runs any other command and reports whether it was known.
	Dispatch(ctx context.Context, cmd string, args []string) (bool, error)
}

// usageError is returned by a command called with the wrong arguments.
type usageError string

func (u usageError) Error() string { return "usage: " + string(u) }

const (
	guestHelp = "Available commands: login, forgot, reset <token>, open <path>, exit"
	adminHelp = "Available commands: dashboard, categories, subcategories, materials, vendors, offers, " +
		"users, bookings, transactions, locate, open <path>, profile, passwd, logout, exit\n" +
		"Resource commands take a subcommand, e.g. 'categories list search=cement', 'vendors nearby <lng> <lat>'."
)

// runREPL starts a simple read-eval-print loop for the BuildHub console.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF or when the user types "exit" or "quit".
//
// Handlers print their own notices; the REPL only reports usage errors.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("bh %s > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(adminHelp)
			} else {
				printlnFn(guestHelp)
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			known, err := a.Dispatch(ctx, cmd, args)
			if !known {
				printlnFn("Unknown command:", cmd)
				continue
			}
			var u usageError
			if errors.As(err, &u) {
				printlnFn(u.Error())
			}
		}
	}
}
