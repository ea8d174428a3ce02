package room

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/great-escape/internal/game"
)

func newTestRoom() *Room {
	return New("", game.NewRules(game.DefaultBoardSize, 0), nil)
}

func TestNew(t *testing.T) {
	t.Parallel()

	r := newTestRoom()
	assert.Equal(t, DefaultName, r.Name)
	assert.Len(t, r.State().Tiles, 64)
	assert.Empty(t, r.Players())
}

func TestRoom_JoinLookupRemove(t *testing.T) {
	t.Parallel()

	r := newTestRoom()

	p := r.Join("c1", game.RolePlayer, "Alice")
	assert.Equal(t, "Alice", p.Name)
	assert.Equal(t, 0, p.Pos)
	assert.Equal(t, game.TeamOrange, p.Team)
	assert.NotNil(t, p.Cards)

	got, ok := r.Lookup("c1")
	require.True(t, ok)
	assert.Same(t, p, got)

	removed, ok := r.Remove("c1")
	require.True(t, ok)
	assert.Same(t, p, removed)

	_, ok = r.Lookup("c1")
	assert.False(t, ok)
	_, ok = r.Remove("c1")
	assert.False(t, ok)
}

func TestRoom_JoinDefaultsAndNonPlayers(t *testing.T) {
	t.Parallel()

	r := newTestRoom()

	admin := r.Join("a", game.RoleAdmin, "")
	assert.Equal(t, "admin", admin.Name)
	assert.Equal(t, game.TeamNone, admin.Team)

	viewer := r.Join("s", game.RoleSpectator, "viewer")
	assert.Equal(t, game.TeamNone, viewer.Team)

	red, orange := r.TeamCounts()
	assert.Zero(t, red)
	assert.Zero(t, orange)
}

func TestRoom_TeamBalancing(t *testing.T) {
	t.Parallel()

	for n := 1; n <= 25; n++ {
		r := newTestRoom()
		for i := range n {
			r.Join(fmt.Sprintf("p%02d", i), game.RolePlayer, "")
			// 夹杂非 player 角色，不影响平衡
			r.Join(fmt.Sprintf("s%02d", i), game.RoleSpectator, "")
		}
		red, orange := r.TeamCounts()
		assert.Equal(t, n, red+orange)
		assert.LessOrEqual(t, abs(red-orange), 1, "n=%d red=%d orange=%d", n, red, orange)
		assert.GreaterOrEqual(t, orange, red, "ties favor orange")
	}
}

func TestNextTeam(t *testing.T) {
	t.Parallel()

	assert.Equal(t, game.TeamOrange, NextTeam(0, 0))
	assert.Equal(t, game.TeamRed, NextTeam(0, 1))
	assert.Equal(t, game.TeamOrange, NextTeam(1, 1))
	assert.Equal(t, game.TeamOrange, NextTeam(3, 1))
}

func TestRoom_PlayersSorted(t *testing.T) {
	t.Parallel()

	r := newTestRoom()
	r.Join("c", game.RoleSpectator, "")
	r.Join("a", game.RoleAdmin, "")
	r.Join("b", game.RolePlayer, "")

	ids := make([]string, 0, 3)
	for _, p := range r.Players() {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}

func TestRoom_Reset(t *testing.T) {
	t.Parallel()

	r := newTestRoom()
	r.Join("c1", game.RolePlayer, "")
	r.Rules().PlaceTrap(r.State(), "c1", 5)

	st := r.Reset()
	assert.Same(t, st, r.State())
	assert.Empty(t, st.Players)
	assert.Empty(t, st.Events)
	assert.False(t, st.Tiles[5].HasTrap)
}

func TestRoom_SnapshotIsIndependent(t *testing.T) {
	t.Parallel()

	r := newTestRoom()
	r.Join("c1", game.RolePlayer, "")

	snap := r.Snapshot()
	assert.Equal(t, r.State(), snap)

	r.Rules().MovePlayer(r.State(), "c1", 4)
	assert.Equal(t, 0, snap.Players["c1"].Pos)
	assert.Empty(t, snap.Events)
}

func TestRoom_RestoreAndClear(t *testing.T) {
	t.Parallel()

	r := newTestRoom()
	other := newTestRoom()
	other.Join("old", game.RolePlayer, "")
	other.Rules().PlaceTrap(other.State(), "old", 7)

	require.NoError(t, r.Restore(other.Snapshot()))
	assert.True(t, r.State().Tiles[7].HasTrap)
	assert.Equal(t, 1, r.ClearPlayers())
	assert.Empty(t, r.Players())

	bad := game.NewRules(4, 0).NewState()
	assert.Error(t, r.Restore(bad))
	assert.Len(t, r.State().Tiles, 64)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
