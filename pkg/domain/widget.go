package domain

// Widget is the declarative descriptor of a UI element that raises events.
// Handlers holds event names declared directly on the widget (e.g. click: submit),
// Events holds the ones nested under its events block.
type Widget struct {
	ID       string            `json:"id"`
	Handlers map[string]string `json:"handlers,omitempty"`
	Events   map[string]string `json:"events,omitempty"`
}

// Handler returns the function name bound to eventType, direct keys first.
func (w *Widget) Handler(eventType string) (string, bool) {
	if w == nil {
		return "", false
	}
	if name := w.Handlers[eventType]; name != "" {
		return name, true
	}
	if name := w.Events[eventType]; name != "" {
		return name, true
	}
	return "", false
}

// ScopeSpec describes one scope of a question document and its nested widgets.
type ScopeSpec struct {
	ID        string
	State     map[string]any
	Functions map[string]*Payload
	Widget    Widget
	Children  []ScopeSpec
}

// Question is a parsed question document.
type Question struct {
	ID     string
	Weight float64
	// Init actions run once after the scope tree is built, in order.
	Init []Action
	Root ScopeSpec
}
