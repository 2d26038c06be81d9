/*
Package domain contains the core models of the jsonview action engine.

It defines the runtime scope tree, the typed action descriptors dispatched through
the action registry, the condition rules that guard them, and the persisted session
snapshot. The package is free of I/O and of any dependency on the engine itself.

# Key Entities

  - Scope: a node of the execution context tree, owning local functions and state.
  - Action / Payload: a typed side-effect request and the ordered list it travels in.
  - Condition: an expression or property rule guarding a payload.
  - Widget: the event bindings of a declarative UI element.
  - Session: the per-scope state snapshot persisted between requests.
*/
package domain
