package runtime_test

import (
	"context"
	"strconv"
	"testing"

	"github.com/aretw0/jsonview/pkg/domain"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Property: a name containing "::" dispatches exactly one exec and nothing else,
// even when scopes bind a function under the same name.
func TestProperty_ExplicitCommandIsExclusive(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("explicit commands bypass scopes", prop.ForAll(
		func(ns, cmd string) bool {
			name := ns + "::" + cmd
			root := domain.NewScope("app")
			child := root.NewChild("child")
			child.Define(name, domain.NewPayload(mark("local")))
			root.Define(name, domain.NewPayload(mark("root")))
			eng, rec, _ := newTestEngine(root, defaultTypes)

			res := eng.Invoke(context.Background(), child, name)

			execs := rec.ofType(domain.ActionExec)
			return res.Strategy == domain.StrategyCommand &&
				rec.count() == 1 &&
				len(execs) == 1 &&
				execs[0].Action.Command == name
		},
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}

// Property: a name no scope defines (other than "default") runs the default command once.
func TestProperty_UnresolvedNameRunsDefaultOnce(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("default fires exactly once", prop.ForAll(
		func(name string, depth int) bool {
			if name == domain.DefaultFunctionName {
				return true
			}
			root := domain.NewScope("app")
			root.Define("other", domain.NewPayload(mark("other")))
			scope := root
			for i := 0; i < depth; i++ {
				scope = scope.NewChild("s" + strconv.Itoa(i))
				scope.Define("sibling"+strconv.Itoa(i), domain.NewPayload(mark("sibling")))
			}
			if name == "other" || len(name) > 7 && name[:7] == "sibling" {
				return true
			}
			eng, rec, _ := newTestEngine(root, defaultTypes)

			res := eng.Invoke(context.Background(), scope, name)

			execs := rec.ofType(domain.ActionExec)
			return res.Strategy == domain.StrategyDefault &&
				rec.count() == 1 &&
				len(execs) == 1 &&
				execs[0].Action.Command == domain.DefaultCommand
		},
		gen.Identifier(),
		gen.IntRange(0, 6),
	))

	properties.TestingRun(t)
}

// Property: among property conditions, the first whose predicate holds is the only one to fire.
func TestProperty_FirstTruePropertyConditionWins(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("first match wins", prop.ForAll(
		func(score int, thresholds []int) bool {
			root := domain.NewScope("app")
			root.Set("score", score)
			eng, rec, _ := newTestEngine(root, defaultTypes)

			conds := make([]domain.Condition, len(thresholds))
			want := -1
			for i, thr := range thresholds {
				conds[i] = domain.Property("score", "gte", thr, mark(strconv.Itoa(i)))
				if want < 0 && score >= thr {
					want = i
				}
			}

			fired := eng.RunCondition(context.Background(), root, conds...)

			marks := rec.ofType("mark")
			if want < 0 {
				return !fired && len(marks) == 0
			}
			return fired && len(marks) == 1 && marks[0].Action.Name == strconv.Itoa(want)
		},
		gen.IntRange(0, 100),
		gen.SliceOf(gen.IntRange(0, 100)),
	))

	properties.TestingRun(t)
}

// Property: malformed expressions anywhere before a matching condition never stop it from firing.
func TestProperty_MalformedExpressionsDoNotAbort(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("evaluation continues past errors", prop.ForAll(
		func(broken int) bool {
			root := domain.NewScope("app")
			eng, rec, _ := newTestEngine(root, defaultTypes)

			conds := make([]domain.Condition, 0, broken+1)
			for i := 0; i < broken; i++ {
				conds = append(conds, domain.Expression("1 +", mark("broken")))
			}
			conds = append(conds, domain.Expression("1 + 1 == 2", mark("ok")))

			fired := eng.RunCondition(context.Background(), root, conds...)
			marks := rec.ofType("mark")
			return fired && len(marks) == 1 && marks[0].Action.Name == "ok"
		},
		gen.IntRange(0, 10),
	))

	properties.TestingRun(t)
}
