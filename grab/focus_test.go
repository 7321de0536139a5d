package grab_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/grabfocus/ecs"
	"github.com/plus3/grabfocus/grab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFocusTarget(t *testing.T) {
	a := ecs.NewEntityId(1, 0x100)
	b := ecs.NewEntityId(1, 0x101)
	pos := mgl64.Vec3{1, 2, 3}

	t.Run("claim and release", func(t *testing.T) {
		var target grab.FocusTarget
		assert.False(t, target.IsFocused())

		require.True(t, target.TryClaim(a, pos))
		assert.True(t, target.IsFocused())
		assert.Equal(t, a, target.CurrentOwner())
		assert.Equal(t, pos, target.Position)

		assert.False(t, target.TryClaim(b, mgl64.Vec3{9, 9, 9}))
		assert.Equal(t, pos, target.Position)

		assert.False(t, target.TryRelease(b))
		assert.Equal(t, a, target.CurrentOwner())

		assert.True(t, target.TryRelease(a))
		assert.Equal(t, grab.FocusTarget{}, target)
		assert.False(t, target.TryRelease(a))
	})

	t.Run("null owner never claims", func(t *testing.T) {
		var target grab.FocusTarget
		assert.False(t, target.TryClaim(ecs.NullEntity, pos))
		assert.False(t, target.IsFocused())
	})

	t.Run("set and reset", func(t *testing.T) {
		var target grab.FocusTarget
		target.SetFocus(pos, b)
		assert.Equal(t, b, target.Owner)
		target.Reset()
		assert.Equal(t, grab.FocusTarget{}, target)
	})

	t.Run("racing claims have one winner", func(t *testing.T) {
		var target grab.FocusTarget
		var wins atomic.Int32
		var wg sync.WaitGroup

		for i := range 64 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				owner := ecs.NewEntityId(1, uint32(i))
				if target.TryClaim(owner, mgl64.Vec3{float64(i), 0, 0}) {
					wins.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.EqualValues(t, 1, wins.Load())
		assert.Equal(t, float64(target.CurrentOwner().Index()), target.Position.X())
	})
}

func TestBool(t *testing.T) {
	assert.Equal(t, grab.True, grab.BoolOf(true))
	assert.Equal(t, grab.False, grab.BoolOf(false))
	assert.True(t, grab.Bool(7).Bool())
	assert.Equal(t, "true", grab.True.String())

	text, err := grab.False.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "false", string(text))

	var b grab.Bool
	require.NoError(t, b.UnmarshalText([]byte("true")))
	assert.Equal(t, grab.True, b)
	assert.Error(t, b.UnmarshalText([]byte("maybe")))
}
