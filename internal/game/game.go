package game

import (
	"encoding/json"
	"fmt"
)

// DefaultBoardSize 默认棋盘边长（8x8 = 64 格）
const DefaultBoardSize = 8

// Role 玩家角色
type Role string

const (
	RoleMainAdmin Role = "mainAdmin" // 主管理员
	RoleAdmin     Role = "admin"     // 管理员
	RolePlayer    Role = "player"    // 玩家
	RoleSpectator Role = "spectator" // 观众
)

// Roles 所有合法角色
var Roles = []Role{RoleMainAdmin, RoleAdmin, RolePlayer, RoleSpectator}

// Valid 是否为合法角色
func (r Role) Valid() bool {
	switch r {
	case RoleMainAdmin, RoleAdmin, RolePlayer, RoleSpectator:
		return true
	}
	return false
}

// IsAdmin 是否拥有管理权限（主管理员或管理员）
func (r Role) IsAdmin() bool {
	return r == RoleMainAdmin || r == RoleAdmin
}

// Team 阵营，仅 player 角色拥有
type Team string

const (
	TeamNone   Team = ""
	TeamRed    Team = "red"
	TeamOrange Team = "orange"
)

// MarshalJSON 没有阵营时编码为 null
func (t Team) MarshalJSON() ([]byte, error) {
	if t == TeamNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(t))
}

// UnmarshalJSON null 解码为 TeamNone
func (t *Team) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = TeamNone
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = Team(s)
	return nil
}

// EventType 事件类型
type EventType string

const (
	EventMove       EventType = "move"
	EventTrapPlaced EventType = "trapPlaced"
	EventRollResult EventType = "rollResult"
)

// Tile 棋盘格子，Index 创建后不再变化
type Tile struct {
	Index   int     `json:"index"`
	HasTrap bool    `json:"hasTrap"`
	TrapBy  *string `json:"trapBy"` // 放置陷阱的连接 ID，没有陷阱时为 null
	HasCard bool    `json:"hasCard"`
	Blocked bool    `json:"blocked"`
}

// Player 已认证的连接对应的玩家记录
type Player struct {
	ID    string   `json:"id"` // 连接 ID，即会话键
	Role  Role     `json:"role"`
	Name  string   `json:"name"`
	Pos   int      `json:"pos"`
	Team  Team     `json:"team"` // 加入时分配一次，之后不再变化；非 player 为 null
	Cards []string `json:"cards"`
}

// Event 只追加的事件记录
type Event struct {
	TS     int64     `json:"ts"` // 毫秒时间戳
	Type   EventType `json:"type"`
	Actor  string    `json:"actor"`
	Result Face      `json:"result,omitempty"` // rollResult
	To     *int      `json:"to,omitempty"`     // move
	Index  *int      `json:"index,omitempty"`  // trapPlaced
}

// State 权威游戏状态
type State struct {
	BoardSize int                `json:"boardSize"`
	Tiles     []Tile             `json:"tiles"`
	Players   map[string]*Player `json:"players"`
	TurnOrder []string           `json:"turnOrder"` // 目前不参与回合校验
	TurnIndex int                `json:"turnIndex"`
	Running   bool               `json:"running"`
	Events    []Event            `json:"events"`
}

// TileCount 格子总数
func (s *State) TileCount() int {
	return len(s.Tiles)
}

// LastEvent 返回最近一条事件
func (s *State) LastEvent() (Event, bool) {
	if len(s.Events) == 0 {
		return Event{}, false
	}
	return s.Events[len(s.Events)-1], true
}

// Validate 校验从持久化恢复的状态是否与棋盘配置一致
func (s *State) Validate(boardSize int) error {
	if s.BoardSize != boardSize {
		return fmt.Errorf("board size mismatch: got %d, want %d", s.BoardSize, boardSize)
	}
	if len(s.Tiles) != boardSize*boardSize {
		return fmt.Errorf("tile count mismatch: got %d, want %d", len(s.Tiles), boardSize*boardSize)
	}
	for i, tile := range s.Tiles {
		if tile.Index != i {
			return fmt.Errorf("tile %d has index %d", i, tile.Index)
		}
	}
	for id, p := range s.Players {
		if p == nil || p.ID != id {
			return fmt.Errorf("player entry %q is inconsistent", id)
		}
	}
	return nil
}

// Normalize 补齐反序列化后可能为 nil 的集合字段
func (s *State) Normalize() {
	if s.Players == nil {
		s.Players = make(map[string]*Player)
	}
	if s.TurnOrder == nil {
		s.TurnOrder = []string{}
	}
	if s.Events == nil {
		s.Events = []Event{}
	}
	for _, p := range s.Players {
		if p != nil && p.Cards == nil {
			p.Cards = []string{}
		}
	}
}

// Clone 深拷贝，返回的状态与原状态不共享任何引用
func (s *State) Clone() *State {
	c := &State{
		BoardSize: s.BoardSize,
		Tiles:     make([]Tile, len(s.Tiles)),
		Players:   make(map[string]*Player, len(s.Players)),
		TurnOrder: append([]string{}, s.TurnOrder...),
		TurnIndex: s.TurnIndex,
		Running:   s.Running,
		Events:    make([]Event, len(s.Events)),
	}
	copy(c.Tiles, s.Tiles)
	for i := range c.Tiles {
		if by := c.Tiles[i].TrapBy; by != nil {
			v := *by
			c.Tiles[i].TrapBy = &v
		}
	}
	for id, p := range s.Players {
		cp := *p
		cp.Cards = append([]string{}, p.Cards...)
		c.Players[id] = &cp
	}
	for i, ev := range s.Events {
		c.Events[i] = ev.clone()
	}
	return c
}

func (e Event) clone() Event {
	if e.To != nil {
		to := *e.To
		e.To = &to
	}
	if e.Index != nil {
		idx := *e.Index
		e.Index = &idx
	}
	return e
}
