package fields

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListEquivalentEncodings(t *testing.T) {
	want := []string{"a", "b", "c"}

	inputs := []any{
		"a, b ,c",
		[]string{"a", "b", "c"},
		`["a","b","c"]`,
		[]any{" a", "b ", "c"},
		" a,,b, ,c ",
	}

	for _, in := range inputs {
		got, err := List(in)
		require.NoError(t, err, "input %#v", in)
		assert.Equal(t, want, got, "input %#v", in)
	}
}

func TestListAbsentIsEmpty(t *testing.T) {
	got, err := List(nil)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestListPreservesOrderAndDuplicates(t *testing.T) {
	got, err := List("go, rust, go")
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "rust", "go"}, got)
}

func TestListJSONNonArrayFallsBackToCSV(t *testing.T) {
	got, err := List(`{"a":1}`)
	require.NoError(t, err)
	assert.Equal(t, []string{`{"a":1}`}, got)

	got, err = List(`"quoted"`)
	require.NoError(t, err)
	assert.Equal(t, []string{`"quoted"`}, got)
}

func TestListInvalidJSONArrayFallsBackToCSV(t *testing.T) {
	got, err := List(`[React, Node`)
	require.NoError(t, err)
	assert.Equal(t, []string{"[React", "Node"}, got)
}

func TestListScalarElementsAreFormatted(t *testing.T) {
	got, err := List(`["Go", 1.5, true, null, ""]`)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "1.5", "true"}, got)
}

func TestListRejectsNestedValues(t *testing.T) {
	_, err := List(`[["a"], "b"]`)
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = List(42)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestRawFromForm(t *testing.T) {
	list, present, err := FromForm(nil).Normalize()
	require.NoError(t, err)
	assert.False(t, present)
	assert.Empty(t, list)

	list, present, err = FromForm([]string{"React, Node"}).Normalize()
	require.NoError(t, err)
	assert.True(t, present)
	assert.Equal(t, []string{"React", "Node"}, list)

	list, present, err = FromForm([]string{"React", " Node "}).Normalize()
	require.NoError(t, err)
	assert.True(t, present)
	assert.Equal(t, []string{"React", "Node"}, list)

	list, present, err = FromForm([]string{""}).Normalize()
	require.NoError(t, err)
	assert.True(t, present)
	assert.Empty(t, list)
}

func TestRawUnmarshalJSON(t *testing.T) {
	var body struct {
		Skills Raw `json:"skills"`
		Tags   Raw `json:"tags"`
	}
	err := json.Unmarshal([]byte(`{"skills":["Go"," SQL "]}`), &body)
	require.NoError(t, err)

	list, present, err := body.Skills.Normalize()
	require.NoError(t, err)
	assert.True(t, present)
	assert.Equal(t, []string{"Go", "SQL"}, list)

	_, present, err = body.Tags.Normalize()
	require.NoError(t, err)
	assert.False(t, present)
}
