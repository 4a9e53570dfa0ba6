package collections

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRefStorePushGet(t *testing.T) {
	s := NewRefStore[string](0)
	a := s.Push("alpha")
	b := s.Push("beta")

	require.Equal(t, Ref(0), a)
	require.Equal(t, Ref(1), b)
	require.Equal(t, "alpha", s.Get(a))
	require.Equal(t, "beta", s.Get(b))
	require.Equal(t, 2, s.Len())
}

func TestRefStoreSetOverwritesInPlace(t *testing.T) {
	s := NewRefStore[int](0)
	r := s.Push(1)
	s.Set(r, 2)
	require.Equal(t, 2, s.Get(r))
	require.Equal(t, 1, s.Len(), "Set must not change length")
}

func TestRefStoreTruncate(t *testing.T) {
	s := NewRefStore[int](0)
	s.Push(1)
	s.Push(2)
	s.Push(3)
	s.Truncate(1)
	require.Equal(t, 1, s.Len())
	require.Equal(t, 1, s.Get(0))
}

func TestRefPoolInterningIsStructural(t *testing.T) {
	p := NewRefPool[string](0)

	r1, fresh1 := p.Intern("x")
	require.True(t, fresh1)

	r2, fresh2 := p.Intern("x")
	require.False(t, fresh2)
	require.Equal(t, r1, r2, "equal values must collapse to the same Ref")

	r3, fresh3 := p.Intern("y")
	require.True(t, fresh3)
	require.NotEqual(t, r1, r3)

	require.Equal(t, 2, p.Len())
}

func TestRefPoolLookupMisses(t *testing.T) {
	p := NewRefPool[string](0)
	_, ok := p.Lookup("nope")
	require.False(t, ok)

	p.Intern("present")
	r, ok := p.Lookup("present")
	require.True(t, ok)
	require.Equal(t, "present", p.Get(r))
}
