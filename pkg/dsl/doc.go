/*
Package dsl builds jsonview questions in Go instead of YAML or JSON.

It is useful for generated questions, unit tests and IDE completion.

Example usage:

	b := dsl.New("quiz")
	b.Root().
		State("score", 80).
		Function("grade", dsl.Condition(
			dsl.When("score", "gte", 70, dsl.Dispatch("pass")),
			dsl.If("{{score}} < 70", dsl.Dispatch("fail")),
		))
	b.Root().Widget("submit").
		On("click", "grade").
		Event("press", "nav::next")

	q, err := b.Build()
	// ... player.LoadQuestion(ctx, q)
*/
package dsl
