package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinOrNone(t *testing.T) {
	assert.Equal(t, "(none)", JoinOrNone(nil))
	assert.Equal(t, "(none)", JoinOrNone([]string{}))
	assert.Equal(t, "NAS", JoinOrNone([]string{"NAS"}))
	assert.Equal(t, "NAS, router", JoinOrNone([]string{"NAS", "router"}))
}

func TestJoinOrDefault(t *testing.T) {
	assert.Equal(t, "-", JoinOrDefault(nil, "-"))
	assert.Equal(t, "a, b", JoinOrDefault([]string{"a", "b"}, "-"))
}

func TestPluralize(t *testing.T) {
	assert.Equal(t, "system", Pluralize(1, "system", "systems"))
	assert.Equal(t, "systems", Pluralize(0, "system", "systems"))
	assert.Equal(t, "systems", Pluralize(3, "system", "systems"))
}
