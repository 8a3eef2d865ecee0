package peitho

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvironmentAbsent(t *testing.T) {
	var env *Environment

	_, ok := env.Get("x")
	assert.False(t, ok)
	assert.Equal(t, 0, env.Len())
	assert.Empty(t, env.Names())

	next := env.Set("x", NewInteger(1))
	require.NotNil(t, next)

	v, ok := next.Get("x")
	assert.True(t, ok)
	assert.Equal(t, NewInteger(1), v)
}

func TestEnvironmentSnapshots(t *testing.T) {
	base := NewEnvironment().Set("a", NewInteger(1))
	left := base.Set("b", NewInteger(2))
	right := base.Set("a", NewInteger(3))

	assert.Equal(t, []string{"a"}, base.Names())
	assert.Equal(t, []string{"a", "b"}, left.Names())

	v, _ := base.Get("a")
	assert.Equal(t, NewInteger(1), v)

	v, _ = right.Get("a")
	assert.Equal(t, NewInteger(3), v)

	_, ok := right.Get("b")
	assert.False(t, ok)
}

func TestEnvironmentEachOrder(t *testing.T) {
	env := NewEnvironment().
		Set("zeta", NewInteger(1)).
		Set("alpha", NewInteger(2)).
		Set("mid", NewInteger(3))

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, env.Names())

	stop := errors.New("stop")
	var seen []string
	err := env.Each(func(name string, _ Expr) error {
		seen = append(seen, name)
		if name == "mid" {
			return stop
		}
		return nil
	})

	assert.ErrorIs(t, err, stop)
	assert.Equal(t, []string{"alpha", "mid"}, seen)
}
