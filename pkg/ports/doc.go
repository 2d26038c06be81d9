/*
Package ports defines the interfaces the jsonview engine depends on.

These interfaces decouple the resolution engine from the concrete registry,
operator table, expression language and storage backends, so each can be
injected at construction time and replaced in tests.

# Key Interfaces

  - ActionRegistry: action type -> handler.
  - OperatorTable: ordered comparison operators for property conditions.
  - ValueResolver, Interpolator, ExpressionEvaluator: how conditions read scope state.
  - SessionStore: persists scope state between requests.
  - DistributedLocker: serializes access to one session across replicas.
*/
package ports
