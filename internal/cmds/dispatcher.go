// Package cmds routes parsed command-line arguments to handler functions.
//
// A Command binds a hierarchy of tokens (for example ["node", "ssh"]) to a
// handler. Given the parsed Arguments, the dispatcher selects the command
// with the longest hierarchy whose tokens are all truthy, and calls its
// handler with only the argument keys that command declares.
//
// Commands are kept sorted most-specific-first: longer hierarchies before
// shorter ones, equal lengths ordered by their space-joined tokens. The
// declaration order of the table never changes which command wins.
package cmds

import (
	"context"
	"fmt"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/rileyhilliard/dcos-cli/internal/errors"
)

// Handler runs one command and returns the process exit code.
type Handler func(ctx context.Context, args Arguments) (int, error)

// Command binds a hierarchy and the argument keys it consumes to a handler.
type Command struct {
	Hierarchy []string
	ArgKeys   []string
	Handler   Handler
}

// Path returns the hierarchy as a space separated string.
func (c Command) Path() string {
	return strings.Join(c.Hierarchy, " ")
}

func (c Command) matches(args Arguments) bool {
	for _, token := range c.Hierarchy {
		if !args.Truthy(token) {
			return false
		}
	}
	return true
}

// ConflictError reports two equal-length hierarchies matching the same
// arguments. It means the command table is ill-formed, not that the user
// typed something wrong.
type ConflictError struct {
	First  []string
	Second []string
}

func (e *ConflictError) Error() string {
	return errors.Format(
		fmt.Sprintf("Commands %q and %q both match the given arguments", strings.Join(e.First, " "), strings.Join(e.Second, " ")),
		nil,
		e.ErrorSuggestion())
}

// ErrorCode implements errors.Coded.
func (e *ConflictError) ErrorCode() string { return errors.ErrConfig }

// ErrorSuggestion implements errors.Coded.
func (e *ConflictError) ErrorSuggestion() string {
	return "Command hierarchies of equal length must be disjoint; this is a bug in the command table"
}

// Table is an immutable, specificity-sorted set of commands.
type Table struct {
	commands []Command
}

// NewTable validates the commands and sorts them most-specific-first.
// Empty hierarchies, nil handlers, duplicate hierarchies and repeated
// argument keys are rejected.
func NewTable(commands ...Command) (*Table, error) {
	seen := mapset.NewThreadUnsafeSet[string]()
	sorted := make([]Command, 0, len(commands))

	for _, c := range commands {
		if len(c.Hierarchy) == 0 {
			return nil, errors.New(errors.ErrConfig,
				"Command has an empty hierarchy",
				"Every command needs at least one token")
		}
		if c.Handler == nil {
			return nil, errors.New(errors.ErrConfig,
				fmt.Sprintf("Command %q has no handler", c.Path()),
				"Bind a handler function to the command")
		}
		if !seen.Add(c.Path()) {
			return nil, errors.New(errors.ErrConfig,
				fmt.Sprintf("Command %q is declared twice", c.Path()),
				"Remove the duplicate command")
		}
		keys := mapset.NewThreadUnsafeSet[string]()
		for _, k := range c.ArgKeys {
			if !keys.Add(k) {
				return nil, errors.New(errors.ErrConfig,
					fmt.Sprintf("Command %q lists argument %q twice", c.Path(), k),
					"Remove the repeated argument key")
			}
		}

		c.Hierarchy = append([]string(nil), c.Hierarchy...)
		c.ArgKeys = append([]string(nil), c.ArgKeys...)
		sorted = append(sorted, c)
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		if len(sorted[i].Hierarchy) != len(sorted[j].Hierarchy) {
			return len(sorted[i].Hierarchy) > len(sorted[j].Hierarchy)
		}
		return sorted[i].Path() < sorted[j].Path()
	})

	return &Table{commands: sorted}, nil
}

// MustTable is like NewTable but panics on an ill-formed table. Use it for
// tables fixed at compile time, where a failure is a programming error.
func MustTable(commands ...Command) *Table {
	t, err := NewTable(commands...)
	if err != nil {
		panic(err)
	}
	return t
}

// Commands returns the commands in dispatch order.
func (t *Table) Commands() []Command {
	return append([]Command(nil), t.commands...)
}

// Match returns the command with the longest hierarchy matching args.
func (t *Table) Match(args Arguments) (Command, error) {
	for i, c := range t.commands {
		if !c.matches(args) {
			continue
		}
		for _, other := range t.commands[i+1:] {
			if len(other.Hierarchy) != len(c.Hierarchy) {
				break
			}
			if other.matches(args) {
				return Command{}, &ConflictError{First: c.Hierarchy, Second: other.Hierarchy}
			}
		}
		return c, nil
	}

	return Command{}, errors.New(errors.ErrUsage,
		"No command matches the given arguments",
		"Run with --help to see the supported commands")
}

// Execute dispatches args to the matching command's handler. The handler
// sees only the keys listed in the command's ArgKeys. Handler errors are
// returned unchanged.
func (t *Table) Execute(ctx context.Context, args Arguments) (int, error) {
	c, err := t.Match(args)
	if err != nil {
		return 1, err
	}
	return c.Handler(ctx, args.Subset(c.ArgKeys))
}

// Execute builds a table from commands and dispatches args through it.
func Execute(ctx context.Context, commands []Command, args Arguments) (int, error) {
	t, err := NewTable(commands...)
	if err != nil {
		return 1, err
	}
	return t.Execute(ctx, args)
}
