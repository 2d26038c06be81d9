package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/jsonview/internal/runtime"
	"github.com/aretw0/jsonview/pkg/domain"
)

// GraphOverlay contains session data to highlight on the graph.
type GraphOverlay struct {
	// Touched lists scopes whose state differs from the restore point.
	Touched []string
	Current string
}

// GenerateMermaid produces a Mermaid flowchart of a question's scope tree.
// Shapes:
// - Root scope: ((Circle))
// - Scope with functions: [[Subroutine]]
// - Other scopes: [Rectangle]
// - Explicit commands: [/Parallelogram/]
// - Dispatched events: {{Hexagon}}
//
// Solid arrows link parents to children. Dotted arrows labelled with the event
// name show where each widget handler resolves, found statically by walking
// the ancestors the way the resolver does at runtime.
func GenerateMermaid(q *domain.Question, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	if q == nil {
		return sb.String()
	}

	extra := make(map[string]string)
	var walk func(spec domain.ScopeSpec, chain []domain.ScopeSpec)
	walk = func(spec domain.ScopeSpec, chain []domain.ScopeSpec) {
		chain = append(chain, spec)
		safeID := sanitizeMermaidID(spec.ID)

		opener, closer := "[", "]"
		switch {
		case len(chain) == 1:
			opener, closer = "((", "))"
		case len(spec.Functions) > 0:
			opener, closer = "[[", "]]"
		}
		label := spec.ID
		if names := sortedKeys(spec.Functions); len(names) > 0 {
			label = fmt.Sprintf("%s <br/> ƒ %s", spec.ID, strings.Join(names, ", "))
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, label, closer)

		for _, event := range handlerEvents(spec.Widget) {
			name, _ := spec.Widget.Handler(event)
			target := resolveTarget(name, chain, extra)
			fmt.Fprintf(&sb, "    %s -. \"%s\" .-> %s\n", safeID, escape(event), target)
		}

		for _, child := range spec.Children {
			fmt.Fprintf(&sb, "    %s --> %s\n", safeID, sanitizeMermaidID(child.ID))
			walk(child, chain)
		}
	}
	walk(q.Root, nil)

	for _, id := range sortedKeys(extra) {
		sb.WriteString(extra[id])
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef touched fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		seen := make(map[string]bool)
		for _, id := range overlay.Touched {
			safeID := sanitizeMermaidID(id)
			if safeID != "" && !seen[safeID] {
				seen[safeID] = true
				fmt.Fprintf(&sb, "    class %s touched;\n", safeID)
			}
		}
		if overlay.Current != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.Current))
		}
	}
	return sb.String()
}

// resolveTarget returns the node a handler name lands on, registering
// command and event nodes in extra.
func resolveTarget(name string, chain []domain.ScopeSpec, extra map[string]string) string {
	if strings.Contains(name, "::") {
		id := "cmd_" + sanitizeMermaidID(name)
		extra[id] = fmt.Sprintf("    %s[/\"%s\"/]\n", id, escape(name))
		return id
	}
	if runtime.IsDispatchCall(name) {
		event, ok := runtime.ParseDispatch(name)
		if !ok {
			id := "rejected"
			extra[id] = fmt.Sprintf("    %s[\"rejected\"]\n", id)
			return id
		}
		id := "evt_" + sanitizeMermaidID(event)
		extra[id] = fmt.Sprintf("    %s{{\"%s\"}}\n", id, escape(event))
		return id
	}
	for i := len(chain) - 1; i >= 0; i-- {
		if fn := chain[i].Functions[name]; fn != nil {
			return sanitizeMermaidID(chain[i].ID)
		}
	}
	id := "default"
	extra[id] = fmt.Sprintf("    %s[/\"default\"/]\n", id)
	return id
}

func handlerEvents(w domain.Widget) []string {
	set := make(map[string]bool, len(w.Handlers)+len(w.Events))
	for k := range w.Handlers {
		set[k] = true
	}
	for k := range w.Events {
		set[k] = true
	}
	return sortedKeys(set)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	r := strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", ":", "_", " ", "_", "'", "_", "\"", "_", "(", "_", ")", "_")
	return r.Replace(id)
}
