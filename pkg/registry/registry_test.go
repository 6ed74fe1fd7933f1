package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefault(t *testing.T) {
	r := Default()
	assert.Equal(t, []string{"public-footer", "admin-footer"}, r.Names())
	assert.True(t, r.Contains("admin-footer"))
	assert.False(t, r.Contains("admin"))
	assert.False(t, r.Contains("../admin-footer"))
}

func TestNewDropsBlankAndDuplicates(t *testing.T) {
	r := New("a", " ", "b", "a", "")
	assert.Equal(t, []string{"a", "b"}, r.Names())
	assert.Equal(t, 2, r.Len())
}

func TestNamesIsACopy(t *testing.T) {
	r := New("a", "b")
	names := r.Names()
	names[0] = "z"
	assert.Equal(t, []string{"a", "b"}, r.Names())
}
