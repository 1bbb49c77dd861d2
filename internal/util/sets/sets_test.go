package sets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet(t *testing.T) {
	s := New("a", "b")
	s.Add("c")
	assert.True(t, s.Has("a"))
	assert.True(t, s.Has("c"))
	assert.False(t, s.Has("d"))
}

func TestOrdered_PreservesFirstInsertion(t *testing.T) {
	var o Ordered[string]
	assert.True(t, o.Add("travel"))
	assert.True(t, o.Add("food"))
	assert.False(t, o.Add("travel"))
	assert.True(t, o.Add("code"))

	assert.Equal(t, []string{"travel", "food", "code"}, o.Values())
	assert.Equal(t, 3, o.Len())
	assert.True(t, o.Has("food"))
}

func TestOrdered_ZeroValue(t *testing.T) {
	var o Ordered[int]
	assert.False(t, o.Has(1))
	assert.NotNil(t, o.Values())
	assert.Empty(t, o.Values())
}

func TestOrdered_ValuesIsACopy(t *testing.T) {
	var o Ordered[string]
	o.Add("a")
	v := o.Values()
	v[0] = "z"
	assert.Equal(t, []string{"a"}, o.Values())
}
