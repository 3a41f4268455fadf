package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/defuse/internal/game"
	"github.com/robalobadob/defuse/internal/grid"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	cfg := game.Config{GridSize: 5, MaxTries: 5}

	d, err := game.New(game.ModeDaily, grid.Coord{Row: 1, Col: 1}, cfg, time.Now())
	require.NoError(t, err)
	e, err := game.New(game.ModeEndless, grid.Coord{Row: 2, Col: 2}, cfg, time.Now())
	require.NoError(t, err)

	_, err = st.Get(ctx, "p1", game.ModeDaily)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, st.Save(ctx, "p1", d))
	require.NoError(t, st.Save(ctx, "p1", e))

	got, err := st.Get(ctx, "p1", game.ModeDaily)
	require.NoError(t, err)
	assert.Same(t, d, got)

	got, err = st.Get(ctx, "p1", game.ModeEndless)
	require.NoError(t, err)
	assert.Same(t, e, got)

	_, err = st.Get(ctx, "p2", game.ModeDaily)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, st.Delete(ctx, "p1", game.ModeEndless))
	_, err = st.Get(ctx, "p1", game.ModeEndless)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, st.Delete(ctx, "p1", game.ModeEndless))
}
