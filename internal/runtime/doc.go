// Package runtime is the action resolution and conditional execution engine.
//
// Invoke turns a symbolic name into an executed action by walking the scope tree,
// RunCondition picks at most one guarded payload to run, Run pushes a payload
// through the action registry, and Dispatch bridges widget events to Invoke.
package runtime
