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
	Refresh(ctx context.Context) error
	SelectEmployee(ctx context.Context, arg string) error
	SelectFilter(ctx context.Context, arg string) error
	List(ctx context.Context) error
	Show(ctx context.Context, id string) error
	Stats(ctx context.Context) error
	Daily(ctx context.Context) error
	Settings(ctx context.Context) error
	TestConnection(ctx context.Context) error
}

const replHelp = "Available commands: refresh, employee <id|all>, filter <all|today|week|month>, (l)ist, show <id>, stats, daily, settings, test, exit"

// runREPL starts a simple read–eval–print loop over the report state.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF, when ctx is done, or when
// the user types "exit" or "quit".
//
// Commands
//
//	help                  show available commands
//	refresh               reload records from the backend
//	employee <id|all>     narrow the list to one employee
//	filter <bucket>       all, today, week or month
//	list | l              print the filtered records
//	show <id>             print one record in detail
//	stats                 totals for the filtered records
//	daily                 per-employee day totals
//	settings              print the stored backend settings
//	test                  probe the backend with the stored settings
//	exit | quit           leave the program
//
// Command errors are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("reports %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			printlnFn(replHelp)

		case "refresh":
			err = a.Refresh(ctx)

		case "employee":
			if len(args) == 0 {
				printlnFn("Usage: employee <id|all>")
				continue
			}
			err = a.SelectEmployee(ctx, args[0])

		case "filter":
			if len(args) == 0 {
				printlnFn("Usage: filter <all|today|week|month>")
				continue
			}
			err = a.SelectFilter(ctx, strings.Join(args, " "))

		case "l", "list":
			err = a.List(ctx)

		case "show":
			if len(args) == 0 {
				printlnFn("Usage: show <id>")
				continue
			}
			err = a.Show(ctx, args[0])

		case "stats":
			err = a.Stats(ctx)

		case "daily":
			err = a.Daily(ctx)

		case "settings":
			err = a.Settings(ctx)

		case "test":
			err = a.TestConnection(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err)
		}
	}
}
