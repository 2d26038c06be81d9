package jsonview_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/aretw0/jsonview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_Run(t *testing.T) {
	p := loadQuiz(t)

	var out bytes.Buffer
	r := jsonview.NewRunner()
	r.Headless = true
	r.Input = strings.NewReader(strings.Join([]string{
		"dispatch submit click",
		"dispatch counter click",
		"state counter",
		"reset",
		"state counter",
		"dispatch submit drag",
		"bogus",
		"quit",
		"call never-reached",
	}, "\n"))
	r.Output = &out

	require.NoError(t, r.Run(context.Background(), p))

	assert.Equal(t, strings.Join([]string{
		"event: pass",
		"grade: function",
		"bump: function",
		`{"clicks":1}`,
		"reset",
		`{"clicks":0}`,
		"submit: no handler for drag",
		`unknown command "bogus"`,
		"Bye!",
		"",
	}, "\n"), out.String())
}

func TestRunner_RequiresIO(t *testing.T) {
	p := loadQuiz(t)
	assert.Error(t, jsonview.NewRunner().Run(context.Background(), p))
}
