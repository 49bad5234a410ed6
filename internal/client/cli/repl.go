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
	isSignedIn() bool
	isAdmin() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	LoginWithGoogle(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Courses(ctx context.Context) error
	OpenCourse(ctx context.Context, id string) error
	Dashboard(ctx context.Context) error
	Upload(ctx context.Context) error
	Admin(ctx context.Context) error
}

// runREPL starts the read–eval–print loop for the qbank CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Commands while signed out: register, login, google, courses,
// open <course-id>, help, exit. Signing in adds dashboard, upload, whoami,
// logout, plus admin for administrators.
//
// Any errors returned by command handlers are ignored here; handlers surface
// their own notifications. This keeps the loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("qbank %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			switch {
			case a.isAdmin():
				printlnFn("Available commands: courses, open <id>, dashboard, upload, admin, whoami, logout, exit")
			case a.isSignedIn():
				printlnFn("Available commands: courses, open <id>, dashboard, upload, whoami, logout, exit")
			default:
				printlnFn("Available commands: register, login, google, courses, open <id>, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "google":
			_ = a.LoginWithGoogle(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "c", "courses":
			_ = a.Courses(ctx)

		case "open":
			if len(args) == 0 {
				printlnFn("Usage: open <course-id>")
				continue
			}
			_ = a.OpenCourse(ctx, args[0])

		case "dashboard":
			_ = a.Dashboard(ctx)

		case "upload":
			_ = a.Upload(ctx)

		case "admin":
			_ = a.Admin(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
