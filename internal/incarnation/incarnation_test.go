package incarnation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIDsAreDistinct(t *testing.T) {
	a := New()
	b := New()
	assert.NotEqual(t, a, b)
	assert.NotEmpty(t, a)
}

func TestCorrelationIDsAreDistinctAndSortable(t *testing.T) {
	a := NewCorrelation()
	b := NewCorrelation()
	assert.NotEqual(t, a, b)
	// xid IDs are lexicographically sortable by generation time.
	assert.Less(t, string(a), string(b))
}
