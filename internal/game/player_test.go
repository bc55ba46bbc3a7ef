package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryAddAssignsSequentialIDs(t *testing.T) {
	r := NewRegistry()
	p0 := r.Add("a", &fakeSender{})
	p1 := r.Add("b", &fakeSender{})

	assert.Equal(t, 0, p0.ID)
	assert.Equal(t, 1, p1.ID)
	assert.Equal(t, 2, r.Len())
}

func TestRegistryRemoveDoesNotFreeID(t *testing.T) {
	r := NewRegistry()
	r.Add("a", &fakeSender{})
	p1 := r.Add("b", &fakeSender{})

	removed := r.Remove(p1.ID)
	require.NotNil(t, removed)
	assert.Equal(t, "b", removed.Name)
	assert.Nil(t, r.Remove(p1.ID), "second removal is a no-op")

	p2 := r.Add("c", &fakeSender{})
	assert.Equal(t, 2, p2.ID, "freed ids are never reassigned")
}

func TestRegistryOrderedIsAscendingByID(t *testing.T) {
	r := NewRegistry()
	for i := 0; i < 5; i++ {
		r.Add("p", &fakeSender{})
	}
	r.Remove(2)

	var ids []int
	for _, p := range r.Ordered() {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []int{0, 1, 3, 4}, ids)
	assert.Equal(t, []int{0, 1, 3, 4}, r.IDs())
}

func TestRegistryGet(t *testing.T) {
	r := NewRegistry()
	p := r.Add("a", &fakeSender{})

	got, ok := r.Get(p.ID)
	require.True(t, ok)
	assert.Same(t, p, got)

	_, ok = r.Get(42)
	assert.False(t, ok)
}

func TestPetnameShape(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		name := petname(rnd)
		assert.Regexp(t, `^[a-z]+-[a-z]+$`, name)
	}
}
