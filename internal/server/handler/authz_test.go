package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/palemoky/great-escape/internal/game"
)

func TestAuthorize(t *testing.T) {
	t.Parallel()

	mainAdmin := &game.Player{ID: "m", Role: game.RoleMainAdmin}
	admin := &game.Player{ID: "a", Role: game.RoleAdmin}
	red := &game.Player{ID: "r", Role: game.RolePlayer, Team: game.TeamRed}
	orange := &game.Player{ID: "o", Role: game.RolePlayer, Team: game.TeamOrange}
	spectator := &game.Player{ID: "s", Role: game.RoleSpectator}

	actors := []*game.Player{mainAdmin, admin, red, orange, spectator}

	tests := []struct {
		action  Action
		allowed []*game.Player
	}{
		{RollDice{}, []*game.Player{red, orange}},
		{Move{Spaces: 1}, actors},
		{PlaceTrap{Index: 0}, []*game.Player{mainAdmin, admin, red}},
		{ResetGame{}, []*game.Player{mainAdmin, admin}},
		{Kick{Target: "x"}, []*game.Player{mainAdmin, admin}},
		{ChangePassword{Role: game.RoleAdmin, NewPassword: "x"}, []*game.Player{mainAdmin}},
	}

	for _, tt := range tests {
		t.Run(tt.action.Name(), func(t *testing.T) {
			for _, actor := range actors {
				want := false
				for _, a := range tt.allowed {
					if a == actor {
						want = true
					}
				}
				got := Authorize(actor, tt.action)
				assert.Equal(t, want, got.Granted, "%s/%s", actor.Role, actor.Team)
				if got.Granted {
					assert.Empty(t, got.Reason)
				} else {
					assert.NotEmpty(t, got.Reason)
				}
			}
		})
	}
}

func TestAuthorize_NotJoined(t *testing.T) {
	t.Parallel()

	for _, a := range []Action{RollDice{}, Move{}, PlaceTrap{}, ResetGame{}, ChangePassword{}, Kick{}} {
		res := Authorize(nil, a)
		assert.False(t, res.Granted)
		assert.Equal(t, denyNotJoined, res.Reason)
	}
}
