package cnf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatcherAll(t *testing.T) {
	pred, err := DatasetFilter{Type: FilterAll}.Matcher()
	require.NoError(t, err)
	assert.True(t, pred("anything"))

	// empty type means unrestricted as well
	pred, err = DatasetFilter{}.Matcher()
	require.NoError(t, err)
	assert.True(t, pred("anything"))
}

func TestMatcherPrefix(t *testing.T) {
	pred, err := DatasetFilter{Type: FilterPrefix, Pattern: "Rand"}.Matcher()
	require.NoError(t, err)
	assert.True(t, pred("RandSmallInts"))
	assert.False(t, pred("IncrRandInts"))
}

func TestMatcherRegex(t *testing.T) {
	pred, err := DatasetFilter{Type: FilterRegex, Pattern: ".*Small.*"}.Matcher()
	require.NoError(t, err)
	assert.True(t, pred("RandSmallInts"))
	assert.False(t, pred("RandBigInts"))
}

func TestMatcherRejectsBrokenRegex(t *testing.T) {
	_, err := DatasetFilter{Type: FilterRegex, Pattern: "(["}.Matcher()
	assert.Error(t, err)
}

func TestMatcherRejectsUnknownType(t *testing.T) {
	_, err := DatasetFilter{Type: "glob", Pattern: "*"}.Matcher()
	assert.Error(t, err)
}

func TestDefaultReportRunsMatchOriginalSelection(t *testing.T) {
	runs := dfltReportRuns()
	require.Len(t, runs, 10)
	labels := make([]string, 0, len(runs))
	for _, run := range runs {
		labels = append(labels, run.Label)
	}
	assert.Equal(
		t,
		[]string{
			"all", "e_rand", "e_incr", "s_small", "s_reg", "s_big",
			"t_double", "t_int", "t_long", "t_string",
		},
		labels,
	)
}
