package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/greenhub/internal/client/session"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL dispatches to.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	phase() session.Phase
	report(ctx context.Context, cmd string, err error)

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Forgot(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error

	Products(ctx context.Context) error
	Product(ctx context.Context, id string) error
	AddProduct(ctx context.Context) error

	Chats(ctx context.Context) error
	NewChat(ctx context.Context, message string) error
	DeleteChat(ctx context.Context, id string) error
	Ask(ctx context.Context, message string) error
	Classify(ctx context.Context, path string) error
	Live(ctx context.Context) error

	Profile(ctx context.Context) error
	EditProfile(ctx context.Context) error
	Stats(ctx context.Context) error
}

// access says in which phase a command may run.
type access int

const (
	anyone access = iota
	guestOnly
	membersOnly
)

type command struct {
	name   string
	usage  string
	access access
	args   int // minimum number of arguments
	run    func(ctx context.Context, a execIface, args []string) error
}

var errExit = errors.New("exit")

var commands = []command{
	{name: "help", usage: "help", access: anyone},
	{name: "register", usage: "register", access: guestOnly, run: func(ctx context.Context, a execIface, _ []string) error { return a.Register(ctx) }},
	{name: "login", usage: "login", access: guestOnly, run: func(ctx context.Context, a execIface, _ []string) error { return a.Login(ctx) }},
	{name: "forgot", usage: "forgot", access: guestOnly, run: func(ctx context.Context, a execIface, _ []string) error { return a.Forgot(ctx) }},
	{name: "products", usage: "products", access: membersOnly, run: func(ctx context.Context, a execIface, _ []string) error { return a.Products(ctx) }},
	{name: "product", usage: "product <id>", access: membersOnly, args: 1, run: func(ctx context.Context, a execIface, args []string) error { return a.Product(ctx, args[0]) }},
	{name: "addproduct", usage: "addproduct", access: membersOnly, run: func(ctx context.Context, a execIface, _ []string) error { return a.AddProduct(ctx) }},
	{name: "chats", usage: "chats", access: membersOnly, run: func(ctx context.Context, a execIface, _ []string) error { return a.Chats(ctx) }},
	{name: "newchat", usage: "newchat [first message]", access: membersOnly, run: func(ctx context.Context, a execIface, args []string) error {
		return a.NewChat(ctx, strings.Join(args, " "))
	}},
	{name: "delchat", usage: "delchat <id>", access: membersOnly, args: 1, run: func(ctx context.Context, a execIface, args []string) error { return a.DeleteChat(ctx, args[0]) }},
	{name: "ask", usage: "ask [message]", access: membersOnly, run: func(ctx context.Context, a execIface, args []string) error {
		return a.Ask(ctx, strings.Join(args, " "))
	}},
	{name: "classify", usage: "classify <image path>", access: membersOnly, args: 1, run: func(ctx context.Context, a execIface, args []string) error {
		return a.Classify(ctx, strings.Join(args, " "))
	}},
	{name: "live", usage: "live", access: membersOnly, run: func(ctx context.Context, a execIface, _ []string) error { return a.Live(ctx) }},
	{name: "profile", usage: "profile", access: membersOnly, run: func(ctx context.Context, a execIface, _ []string) error { return a.Profile(ctx) }},
	{name: "editprofile", usage: "editprofile", access: membersOnly, run: func(ctx context.Context, a execIface, _ []string) error { return a.EditProfile(ctx) }},
	{name: "whoami", usage: "whoami", access: membersOnly, run: func(ctx context.Context, a execIface, _ []string) error { return a.WhoAmI(ctx) }},
	{name: "stats", usage: "stats", access: anyone, run: func(ctx context.Context, a execIface, _ []string) error { return a.Stats(ctx) }},
	{name: "logout", usage: "logout", access: membersOnly, run: func(ctx context.Context, a execIface, _ []string) error { return a.Logout(ctx) }},
	{name: "exit", usage: "exit", access: anyone, run: func(context.Context, execIface, []string) error { return errExit }},
	{name: "quit", access: anyone, run: func(context.Context, execIface, []string) error { return errExit }},
}

func lookup(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func (c command) allowed(p session.Phase) bool {
	switch c.access {
	case guestOnly:
		return p == session.PhaseUnauthenticated
	case membersOnly:
		return p == session.PhaseAuthenticated
	default:
		return true
	}
}

// help lists the commands reachable in phase p.
func help(p session.Phase) string {
	var names []string
	for _, c := range commands {
		if c.usage != "" && c.allowed(p) {
			names = append(names, c.usage)
		}
	}
	return "Available commands: " + strings.Join(names, ", ")
}

// runREPL starts the read–eval–print loop for the GreenHub CLI.
//
// Each line is split into a command and its arguments. Which commands are
// reachable depends on the session phase at the moment the line is read:
// guests get register, login and forgot; signed-in users get the
// marketplace, chat, assistant and profile commands. Help, stats and exit
// work in both phases.
//
// Command errors are reported through a.report and never stop the loop.
// The loop exits on EOF, on "exit" or "quit", and when ctx is done.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("gh (%s)> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		name, args := parts[0], parts[1:]

		c, ok := lookup(name)
		if !ok {
			printlnFn("Unknown command:", name)
			continue
		}
		p := a.phase()
		if !c.allowed(p) {
			switch {
			case c.access == membersOnly:
				printlnFn("Please log in first (type 'login').")
			case p == session.PhaseAuthenticated:
				printlnFn("You are already logged in.")
			default:
				printlnFn("Restoring session, try again in a moment.")
			}
			continue
		}
		if len(args) < c.args {
			printlnFn("Usage:", c.usage)
			continue
		}
		if c.run == nil {
			printlnFn(help(p))
			continue
		}

		switch err := c.run(ctx, a, args); {
		case errors.Is(err, errExit):
			printlnFn("Bye!")
			return
		case err != nil:
			a.report(ctx, name, err)
		}
	}
}
