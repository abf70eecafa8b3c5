package utils

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobSlugRoundTrip(t *testing.T) {
	id := uuid.NewString()

	s := BuildJobSlug("Plumber needed in Parramatta", id)
	assert.Equal(t, "plumber-needed-in-parramatta-"+id, s)

	parsed, ok := ParseJobSlug(s)
	require.True(t, ok)
	assert.Equal(t, id, parsed)
}

func TestBuildJobSlug_EmptyTitle(t *testing.T) {
	id := uuid.NewString()
	assert.Equal(t, id, BuildJobSlug("!!!", id))
}

func TestBuildJobSlug_LongTitleIsTrimmed(t *testing.T) {
	id := uuid.NewString()
	s := BuildJobSlug(strings.Repeat("concrete slab ", 20), id)

	assert.LessOrEqual(t, len(s), 80+1+len(id))
	parsed, ok := ParseJobSlug(s)
	require.True(t, ok)
	assert.Equal(t, id, parsed)
}

func TestParseJobSlug_Invalid(t *testing.T) {
	_, ok := ParseJobSlug("plumber-needed")
	assert.False(t, ok)

	_, ok = ParseJobSlug("")
	assert.False(t, ok)

	id := uuid.NewString()
	_, ok = ParseJobSlug("x" + id)
	assert.False(t, ok, "uuid must be separated by a dash")

	bare, ok := ParseJobSlug(id)
	assert.True(t, ok)
	assert.Equal(t, id, bare)
}
