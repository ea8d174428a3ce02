package room

import (
	"github.com/palemoky/great-escape/internal/game"
)

// DefaultName 唯一房间的名字
const DefaultName = "THE-GREAT-ESCAPE"

// Room 游戏房间：所有连接共享的唯一房间，持有权威状态
//
// Room 本身不加锁，唯一的写入者（handler）负责串行化所有访问。
type Room struct {
	Name  string
	rules *game.Rules
	state *game.State
}

// New 创建房间；st 为 nil 时使用初始状态
func New(name string, rules *game.Rules, st *game.State) *Room {
	if name == "" {
		name = DefaultName
	}
	if st == nil {
		st = rules.NewState()
	}
	st.Normalize()
	return &Room{
		Name:  name,
		rules: rules,
		state: st,
	}
}

// Rules 规则引擎
func (r *Room) Rules() *game.Rules {
	return r.rules
}

// State 当前权威状态（调用方不得在串行区之外持有）
func (r *Room) State() *game.State {
	return r.state
}

// Reset 用全新的初始状态替换当前状态
func (r *Room) Reset() *game.State {
	r.state = r.rules.NewState()
	return r.state
}
