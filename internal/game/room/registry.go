package room

import (
	"sort"

	"github.com/palemoky/great-escape/internal/game"
)

// 会话注册表：连接 ID → 已认证玩家，是 state.Players 的视图。
// 这里的查找是唯一的鉴权入口。

// Lookup 查找连接对应的玩家
func (r *Room) Lookup(id string) (*game.Player, bool) {
	p, ok := r.state.Players[id]
	if !ok || p == nil {
		return nil, false
	}
	return p, true
}

// Join 为认证成功的连接创建玩家记录，player 角色按人数平衡分配阵营
func (r *Room) Join(id string, role game.Role, name string) *game.Player {
	if name == "" {
		name = string(role)
	}
	p := &game.Player{
		ID:    id,
		Role:  role,
		Name:  name,
		Pos:   0,
		Cards: []string{},
	}
	if role == game.RolePlayer {
		p.Team = NextTeam(r.TeamCounts())
	}
	r.state.Players[id] = p
	return p
}

// Remove 移除玩家记录
func (r *Room) Remove(id string) (*game.Player, bool) {
	p, ok := r.Lookup(id)
	if !ok {
		return nil, false
	}
	delete(r.state.Players, id)
	return p, true
}

// ClearPlayers 清空所有玩家（进程重启后旧连接已全部失效）
func (r *Room) ClearPlayers() int {
	n := len(r.state.Players)
	r.state.Players = make(map[string]*game.Player)
	return n
}

// Players 按 ID 排序的玩家列表
func (r *Room) Players() []*game.Player {
	players := make([]*game.Player, 0, len(r.state.Players))
	for _, p := range r.state.Players {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool {
		return players[i].ID < players[j].ID
	})
	return players
}

// TeamCounts 统计 player 角色中红/橙两队人数
func (r *Room) TeamCounts() (red, orange int) {
	for _, p := range r.state.Players {
		if p == nil || p.Role != game.RolePlayer {
			continue
		}
		switch p.Team {
		case game.TeamRed:
			red++
		case game.TeamOrange:
			orange++
		}
	}
	return red, orange
}

// NextTeam 选择人数较少的一队，平局时选橙队
func NextTeam(red, orange int) game.Team {
	if orange <= red {
		return game.TeamOrange
	}
	return game.TeamRed
}
