package game

import (
	"math/rand/v2"
	"time"
)

// DefaultMaxEvents 事件日志默认保留条数
const DefaultMaxEvents = 1000

// Rules 规则引擎：除传入的状态外没有副作用
//
// Rules 不是并发安全的，调用方（handler）负责串行化。
type Rules struct {
	boardSize int
	maxEvents int // 0 表示不限制
	rng       *rand.Rand
	now       func() time.Time
}

// Option 规则引擎选项
type Option func(*Rules)

// WithRand 指定随机源（测试用）
func WithRand(rng *rand.Rand) Option {
	return func(r *Rules) { r.rng = rng }
}

// WithClock 指定时钟（测试用）
func WithClock(now func() time.Time) Option {
	return func(r *Rules) { r.now = now }
}

// NewRules 创建规则引擎
func NewRules(boardSize, maxEvents int, opts ...Option) *Rules {
	if boardSize <= 0 {
		boardSize = DefaultBoardSize
	}
	if maxEvents < 0 {
		maxEvents = 0
	}
	r := &Rules{
		boardSize: boardSize,
		maxEvents: maxEvents,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// BoardSize 棋盘边长
func (r *Rules) BoardSize() int {
	return r.boardSize
}

// NewState 创建初始状态：boardSize² 个空格子，无玩家，无事件
func (r *Rules) NewState() *State {
	tiles := make([]Tile, r.boardSize*r.boardSize)
	for i := range tiles {
		tiles[i] = Tile{Index: i}
	}
	return &State{
		BoardSize: r.boardSize,
		Tiles:     tiles,
		Players:   make(map[string]*Player),
		TurnOrder: []string{},
		Events:    []Event{},
	}
}

// RollDice 按角色/阵营掷骰，ok=false 表示不允许掷骰
func (r *Rules) RollDice(role Role, team Team) (face Face, ok bool) {
	faces := Faces(role, team)
	if len(faces) == 0 {
		return "", false
	}
	return faces[r.intN(len(faces))], true
}

// RecordRoll 记录掷骰结果事件
func (r *Rules) RecordRoll(st *State, actorID string, face Face) Event {
	ev := Event{TS: r.timestamp(), Type: EventRollResult, Actor: actorID, Result: face}
	r.appendEvent(st, ev)
	return ev
}

// MovePlayer 移动玩家，位置被夹在 [0, tileCount-1]，不会越过棋盘边缘
func (r *Rules) MovePlayer(st *State, playerID string, spaces int) bool {
	p, ok := st.Players[playerID]
	if !ok || p == nil {
		return false
	}
	p.Pos = clampMove(p.Pos, spaces, st.TileCount())
	to := p.Pos
	r.appendEvent(st, Event{TS: r.timestamp(), Type: EventMove, Actor: playerID, To: &to})
	return true
}

// PlaceTrap 在指定格子放置陷阱；重复放置会覆盖 TrapBy
func (r *Rules) PlaceTrap(st *State, placerID string, index int) bool {
	if index < 0 || index >= st.TileCount() {
		return false
	}
	tile := &st.Tiles[index]
	tile.HasTrap = true
	by := placerID
	tile.TrapBy = &by
	idx := index
	r.appendEvent(st, Event{TS: r.timestamp(), Type: EventTrapPlaced, Actor: placerID, Index: &idx})
	return true
}

// clampMove 计算 pos+spaces 并夹在 [0, tileCount-1]，避免整数溢出
func clampMove(pos, spaces, tileCount int) int {
	last := tileCount - 1
	if last < 0 {
		return 0
	}
	if pos < 0 {
		pos = 0
	}
	if pos > last {
		pos = last
	}
	switch {
	case spaces >= last-pos:
		return last
	case spaces <= -pos:
		return 0
	default:
		return pos + spaces
	}
}

// appendEvent 追加事件，超出上限时丢弃最旧的记录
func (r *Rules) appendEvent(st *State, ev Event) {
	st.Events = append(st.Events, ev)
	if r.maxEvents > 0 && len(st.Events) > r.maxEvents {
		// 复制到新切片，避免底层数组无限增长
		st.Events = append([]Event(nil), st.Events[len(st.Events)-r.maxEvents:]...)
	}
}

func (r *Rules) intN(n int) int {
	if r.rng != nil {
		return r.rng.IntN(n)
	}
	return rand.IntN(n)
}

func (r *Rules) timestamp() int64 {
	return r.now().UnixMilli()
}
