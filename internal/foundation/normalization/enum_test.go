package normalization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type policy string

const (
	policyAbort policy = "abort-file"
	policySkip  policy = "skip-transform"
)

func newPolicies() *Enum[policy] {
	return NewEnum("policy", policyAbort, map[string]policy{
		"abort-file":     policyAbort,
		"skip_transform": policySkip,
		"skip":           policySkip,
	})
}

func TestLookup(t *testing.T) {
	e := newPolicies()

	for in, want := range map[string]policy{
		"abort-file":     policyAbort,
		"  ABORT-FILE ":  policyAbort,
		"Skip_Transform": policySkip,
		"skip transform": policySkip,
		"skip":           policySkip,
		"":               policyAbort,
		"something-else": policyAbort,
	} {
		assert.Equal(t, want, e.Lookup(in), in)
	}
}

func TestParse(t *testing.T) {
	e := newPolicies()

	v, err := e.Parse("SKIP-TRANSFORM")
	require.NoError(t, err)
	assert.Equal(t, policySkip, v)

	v, err = e.Parse(" ")
	require.NoError(t, err)
	assert.Equal(t, policyAbort, v)

	_, err = e.Parse("retry")
	require.Error(t, err)
	assert.Equal(t, `unknown policy "retry" (want one of: abort-file, skip, skip-transform)`, err.Error())
}

func TestNames_Sorted(t *testing.T) {
	assert.Equal(t, []string{"abort-file", "skip", "skip-transform"}, newPolicies().Names())
}
