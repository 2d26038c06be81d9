package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/jsonview/internal/presentation/graph"
	"github.com/aretw0/jsonview/pkg/domain"
)

// Outline describes a question as markdown: init actions, then one section
// per scope with its state, functions and widget handlers, then the graph.
func Outline(q *domain.Question) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", q.ID)
	if q.Weight != 0 {
		fmt.Fprintf(&sb, "Weight: **%g**\n\n", q.Weight)
	}

	if len(q.Init) > 0 {
		sb.WriteString("## Init\n\n")
		for _, a := range q.Init {
			fmt.Fprintf(&sb, "- `%s`\n", a.String())
		}
		sb.WriteString("\n")
	}

	var walk func(spec domain.ScopeSpec, depth int)
	walk = func(spec domain.ScopeSpec, depth int) {
		fmt.Fprintf(&sb, "## %s%s\n\n", strings.Repeat("↳ ", depth), spec.ID)

		if keys := sorted(spec.State); len(keys) > 0 {
			sb.WriteString("| state | initial |\n|---|---|\n")
			for _, k := range keys {
				fmt.Fprintf(&sb, "| %s | `%v` |\n", k, spec.State[k])
			}
			sb.WriteString("\n")
		}
		for _, name := range sorted(spec.Functions) {
			fmt.Fprintf(&sb, "- **%s**:", name)
			for _, a := range spec.Functions[name].Actions {
				fmt.Fprintf(&sb, " `%s`", a.String())
			}
			sb.WriteString("\n")
		}
		for _, ev := range sorted(spec.Widget.Handlers) {
			fmt.Fprintf(&sb, "- on *%s* → `%s`\n", ev, spec.Widget.Handlers[ev])
		}
		for _, ev := range sorted(spec.Widget.Events) {
			fmt.Fprintf(&sb, "- on *%s* → `%s`\n", ev, spec.Widget.Events[ev])
		}
		sb.WriteString("\n")

		for _, child := range spec.Children {
			walk(child, depth+1)
		}
	}
	walk(q.Root, 0)

	sb.WriteString("## Graph\n\n```mermaid\n")
	sb.WriteString(graph.GenerateMermaid(q, nil))
	sb.WriteString("```\n")
	return sb.String()
}

func sorted[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
