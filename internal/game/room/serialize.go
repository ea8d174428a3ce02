package room

import (
	"github.com/palemoky/great-escape/internal/game"
)

// Snapshot 返回当前状态的深拷贝，可安全地交给串行区之外的持久化/广播
func (r *Room) Snapshot() *game.State {
	return r.state.Clone()
}

// Restore 用恢复出的状态替换当前状态，校验失败时保留原状态
func (r *Room) Restore(st *game.State) error {
	if err := st.Validate(r.rules.BoardSize()); err != nil {
		return err
	}
	st.Normalize()
	r.state = st
	return nil
}
