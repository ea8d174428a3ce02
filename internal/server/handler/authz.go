package handler

import "github.com/palemoky/great-escape/internal/game"

// 拒绝原因，只写入日志，不发给客户端
const (
	denyNotJoined     = "not joined"
	denyPlayersOnly   = "only players roll dice"
	denyTrap          = "only admins and red players place traps"
	denyAdminOnly     = "admin only"
	denyMainAdminOnly = "main admin only"
	denyUnknownAction = "unknown action"
)

// AuthorizationResult 权限检查结果
type AuthorizationResult struct {
	Granted bool
	Reason  string // 拒绝原因，Granted 时为空
}

var granted = AuthorizationResult{Granted: true}

func denied(reason string) AuthorizationResult {
	return AuthorizationResult{Reason: reason}
}

// Authorize 判断 actor 能否执行操作，actor 为 nil 表示尚未加入
func Authorize(actor *game.Player, a Action) AuthorizationResult {
	if actor == nil {
		return denied(denyNotJoined)
	}

	switch a.(type) {
	case RollDice:
		if actor.Role != game.RolePlayer {
			return denied(denyPlayersOnly)
		}
		return granted
	case Move:
		return granted
	case PlaceTrap:
		if actor.Role.IsAdmin() || (actor.Role == game.RolePlayer && actor.Team == game.TeamRed) {
			return granted
		}
		return denied(denyTrap)
	case ResetGame, Kick:
		if !actor.Role.IsAdmin() {
			return denied(denyAdminOnly)
		}
		return granted
	case ChangePassword:
		if actor.Role != game.RoleMainAdmin {
			return denied(denyMainAdminOnly)
		}
		return granted
	default:
		return denied(denyUnknownAction)
	}
}
