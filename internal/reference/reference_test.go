package reference

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelRoundTrip(t *testing.T) {
	s := NewScheme("IN Task: ")

	id, ok, err := s.TaskID([]string{s.Label("42")})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "42", id)
}

func TestTaskIDNoTags(t *testing.T) {
	s := NewScheme("IN Task: ")

	_, ok, err := s.TaskID(nil)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = s.TaskID([]string{"billable", "misc"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTaskIDMultipleReferences(t *testing.T) {
	s := NewScheme("IN Task: ")

	_, _, err := s.TaskID([]string{s.Label("1"), s.Label("2")})
	var multiErr *MultipleReferencesError
	require.True(t, errors.As(err, &multiErr))
	assert.Len(t, multiErr.Tags, 2)
}

func TestPatternIsAnchored(t *testing.T) {
	s := NewScheme("IN Task: ")

	_, ok := s.ParseLabel("prefix IN Task: 7")
	assert.False(t, ok, "prefix must match at the start")

	_, ok = s.ParseLabel("IN Task: 7 suffix")
	assert.False(t, ok, "label must span the whole tag")

	_, ok = s.ParseLabel("IN Task: ")
	assert.False(t, ok, "empty id is not a reference")
}

func TestPrefixMetacharactersAreEscaped(t *testing.T) {
	s := NewScheme("task(*): ")

	id, ok := s.ParseLabel("task(*): abc123")
	require.True(t, ok)
	assert.Equal(t, "abc123", id)

	_, ok = s.ParseLabel("taskX: abc123")
	assert.False(t, ok)
}
