/*
Package jsonview plays declarative assessment questions.

A question document declares a tree of scopes (the question itself and its
widgets), each with local state and named functions. Widgets bind events to
function names. When an event fires, the name is resolved against the scope
tree and the resulting actions run through a registry of typed handlers.

# Resolution

A name issued from a scope is resolved by the first strategy that applies:

  - "ns::command" runs the exec action with that command against the application scope.
  - dispatch('event') raises the event. Any other dispatch(...) form is rejected.
  - A function bound in the scope, or in the nearest ancestor, runs against its owner.
  - Otherwise the default command runs once (never for the name "default" itself).

Functions may carry conditions. Expression conditions interpolate {{ }} against
the scope and evaluate a restricted expression language; property conditions
compare a scope value through an operator table (eq, ne, gt, gte, lt, lte,
contains, in). The first condition that holds runs its actions and stops.

# Usage

	p := jsonview.New(
		jsonview.WithLogger(logger),
		jsonview.WithCommand("nav::next", next),
	)
	if err := p.LoadFile(ctx, "question.yaml"); err != nil {
		log.Fatal(err)
	}
	res, ok, err := p.Dispatch(ctx, "submit", "click")

Loading runs a strictly ordered pipeline; the first failing step aborts the load
and leaves the player empty. Snapshot, Restore and Reset move scope state in
and out of a domain.Session so it can be stored by a ports.SessionStore.
*/
package jsonview
