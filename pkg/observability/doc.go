/*
Package observability exposes engine activity as Prometheus metrics.

Metrics are fed by domain.LifecycleHooks, so any Player built with
jsonview.WithLifecycleHooks(m.Hooks()) is measured without further wiring.
*/
package observability
