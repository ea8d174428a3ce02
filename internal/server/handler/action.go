package handler

import (
	"errors"
	"fmt"

	"github.com/palemoky/great-escape/internal/game"
	"github.com/palemoky/great-escape/internal/protocol"
)

// ErrInvalidAction clientAction 无法解析为已知操作
var ErrInvalidAction = errors.New("invalid action")

// Action 客户端操作，只能由 ParseAction 从请求构造
type Action interface {
	// Name 操作名，用于日志
	Name() string
	action()
}

// RollDice 掷骰
type RollDice struct{}

// Move 移动 Spaces 格，可为负
type Move struct {
	Spaces int
}

// PlaceTrap 在 Index 格放置陷阱
type PlaceTrap struct {
	Index int
}

// ResetGame 重置游戏
type ResetGame struct{}

// ChangePassword 修改某个角色的密码
type ChangePassword struct {
	Role        game.Role
	NewPassword string
}

// Kick 踢出指定连接
type Kick struct {
	Target string
}

func (RollDice) Name() string       { return protocol.ActionRollDice }
func (Move) Name() string           { return protocol.ActionMove }
func (PlaceTrap) Name() string      { return protocol.ActionPlaceTrap }
func (ResetGame) Name() string      { return protocol.CmdReset }
func (ChangePassword) Name() string { return protocol.CmdChangePassword }
func (Kick) Name() string           { return protocol.CmdKick }

func (RollDice) action()       {}
func (Move) action()           {}
func (PlaceTrap) action()      {}
func (ResetGame) action()      {}
func (ChangePassword) action() {}
func (Kick) action()           {}

// ParseAction 把 clientAction 请求转换为 Action
func ParseAction(p *protocol.ClientActionPayload) (Action, error) {
	if p == nil {
		return nil, ErrInvalidAction
	}

	switch p.Type {
	case protocol.ActionRollDice:
		return RollDice{}, nil
	case protocol.ActionMove:
		if p.Spaces == nil {
			return nil, fmt.Errorf("%w: move without spaces", ErrInvalidAction)
		}
		return Move{Spaces: *p.Spaces}, nil
	case protocol.ActionPlaceTrap:
		if p.Index == nil {
			return nil, fmt.Errorf("%w: placeTrap without index", ErrInvalidAction)
		}
		return PlaceTrap{Index: *p.Index}, nil
	case protocol.ActionAdminCommand:
		return parseAdminCommand(p)
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidAction, p.Type)
	}
}

func parseAdminCommand(p *protocol.ClientActionPayload) (Action, error) {
	switch p.Cmd {
	case protocol.CmdReset:
		return ResetGame{}, nil
	case protocol.CmdChangePassword:
		role := game.Role(p.RoleKey)
		if !role.Valid() {
			return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidAction, p.RoleKey)
		}
		if p.NewPassword == "" {
			return nil, fmt.Errorf("%w: empty password", ErrInvalidAction)
		}
		return ChangePassword{Role: role, NewPassword: p.NewPassword}, nil
	case protocol.CmdKick:
		if p.Target == "" {
			return nil, fmt.Errorf("%w: kick without target", ErrInvalidAction)
		}
		return Kick{Target: p.Target}, nil
	default:
		return nil, fmt.Errorf("%w: unknown cmd %q", ErrInvalidAction, p.Cmd)
	}
}
