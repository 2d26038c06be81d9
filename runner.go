package jsonview

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/aretw0/jsonview/pkg/actions"
	"github.com/aretw0/jsonview/pkg/domain"
)

// Runner drives a loaded Player from line-oriented input.
// This allows for easy testing and integration with different frontends.
//
// Commands:
//
//	invoke <scope> <name>     resolve a name from a scope
//	call <name>               resolve a name from the application scope
//	dispatch <scope> <event>  raise a widget event
//	state [scope]             print scope state as JSON
//	scopes                    list scope IDs
//	reset                     return to the restore point
//	quit | exit
type Runner struct {
	Input    io.Reader
	Output   io.Writer
	Headless bool
}

// NewRunner creates a Runner. Input and Output must be set before Run.
func NewRunner() *Runner {
	return &Runner{}
}

// Run reads commands until EOF or quit.
func (r *Runner) Run(ctx context.Context, p *Player) error {
	if r.Input == nil {
		return fmt.Errorf("input reader must be set (use os.Stdin)")
	}
	if r.Output == nil {
		return fmt.Errorf("output writer must be set (use os.Stdout)")
	}
	q := p.Question()
	if q == nil {
		return domain.ErrNoQuestion
	}

	w := r.Output
	if !r.Headless {
		fmt.Fprintf(w, "--- jsonview: %s ---\n", q.ID)
	}
	unsub := p.Subscribe(actions.AnyEvent, func(ctx context.Context, ev actions.Event) {
		fmt.Fprintf(w, "event: %s\n", ev.Name)
	})
	defer unsub()

	lines := bufio.NewReader(r.Input)
	for {
		if !r.Headless {
			fmt.Fprint(w, "> ")
		}
		text, err := lines.ReadString('\n')
		line := strings.TrimSpace(text)
		if line != "" {
			if quit := r.handle(ctx, p, line); quit {
				fmt.Fprintln(w, "Bye!")
				return nil
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("input error: %w", err)
		}
	}
}

func (r *Runner) handle(ctx context.Context, p *Player, line string) (quit bool) {
	w := r.Output
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	report := func(res domain.Resolution, err error) {
		if err != nil {
			fmt.Fprintf(w, "error: %v\n", err)
			return
		}
		fmt.Fprintf(w, "%s: %s\n", res.Name, res.Strategy)
	}

	switch cmd {
	case "quit", "exit":
		return true
	case "invoke":
		if len(args) < 2 {
			fmt.Fprintln(w, "usage: invoke <scope> <name>")
			return false
		}
		report(p.Invoke(ctx, args[0], strings.Join(args[1:], " ")))
	case "call":
		if len(args) < 1 {
			fmt.Fprintln(w, "usage: call <name>")
			return false
		}
		report(p.CallAction(ctx, strings.Join(args, " ")))
	case "dispatch":
		if len(args) != 2 {
			fmt.Fprintln(w, "usage: dispatch <scope> <event>")
			return false
		}
		res, ok, err := p.Dispatch(ctx, args[0], args[1])
		if err == nil && !ok {
			fmt.Fprintf(w, "%s: no handler for %s\n", args[0], args[1])
			return false
		}
		report(res, err)
	case "state":
		id := domain.RootScopeID
		if len(args) > 0 {
			id = args[0]
		}
		s, ok := p.Scope(id)
		if !ok {
			fmt.Fprintf(w, "error: %v: %s\n", domain.ErrScopeNotFound, id)
			return false
		}
		out, err := json.Marshal(s.Snapshot())
		if err != nil {
			fmt.Fprintf(w, "error: %v\n", err)
			return false
		}
		fmt.Fprintln(w, string(out))
	case "scopes":
		ids := p.ScopeIDs()
		sort.Strings(ids)
		fmt.Fprintln(w, strings.Join(ids, "\n"))
	case "reset":
		if err := p.Reset(); err != nil {
			fmt.Fprintf(w, "error: %v\n", err)
			return false
		}
		fmt.Fprintln(w, "reset")
	default:
		fmt.Fprintf(w, "unknown command %q\n", cmd)
	}
	return false
}
