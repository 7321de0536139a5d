package grab_test

import (
	"bytes"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/grabfocus/ecs"
	"github.com/plus3/grabfocus/grab"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckConsistency(t *testing.T) {
	t.Run("empty world", func(t *testing.T) {
		f := newFixture(t)
		assert.NoError(t, grab.CheckConsistency(f.world.Storage))
	})

	t.Run("owner points at a free target", func(t *testing.T) {
		f := newFixture(t)
		owner := f.owner(t)
		target := f.targetAt(centre, 30)
		f.ownerState(owner).FocusTarget = target

		err := grab.CheckConsistency(f.world.Storage)
		assert.ErrorIs(t, err, grab.ErrInvalidOwnerState)
		assert.Contains(t, err.Error(), target.String())
	})

	t.Run("target lists an owner that holds nothing", func(t *testing.T) {
		f := newFixture(t)
		owner := f.owner(t)
		target := f.targetAt(centre, 30)
		f.focus(target).SetFocus(mgl64.Vec3{}, owner)

		assert.ErrorIs(t, grab.CheckConsistency(f.world.Storage), grab.ErrInvalidOwnerState)
	})

	t.Run("two owners hold the same target", func(t *testing.T) {
		f := newFixture(t)
		a, b := f.owner(t), f.owner(t)
		target := f.targetAt(centre, 30)
		f.focus(target).SetFocus(mgl64.Vec3{}, a)
		f.ownerState(a).FocusTarget = target
		f.ownerState(b).FocusTarget = target

		assert.ErrorIs(t, grab.CheckConsistency(f.world.Storage), grab.ErrInvalidOwnerState)
	})

	t.Run("owner points at a dead entity", func(t *testing.T) {
		f := newFixture(t)
		owner := f.owner(t)
		f.ownerState(owner).FocusTarget = ecs.NewEntityId(1, 99)

		assert.ErrorIs(t, grab.CheckConsistency(f.world.Storage), grab.ErrInvalidOwnerState)
	})
}

func TestLogFocusState(t *testing.T) {
	f := newFixture(t)
	owner := f.owner(t)
	f.owner(t)
	target := f.targetAt(centre, 30)

	f.point(t, owner, centre, true)
	f.tick(t)

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	grab.LogFocusState(&logger, f.world.Storage, zerolog.InfoLevel)

	out := buf.String()
	require.NotEmpty(t, out)
	assert.Contains(t, out, `"total_owners":2`)
	assert.Contains(t, out, `"holding":1`)
	assert.Contains(t, out, `"target":"`+target.String()+`"`)
	assert.Contains(t, out, `"active":"true"`)
}
