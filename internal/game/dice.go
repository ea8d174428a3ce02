package game

// Face 骰子的一面
type Face string

const (
	Face0    Face = "0"
	Face1    Face = "1"
	Face2    Face = "2"
	Face3    Face = "3"
	Face4    Face = "4"
	Face5    Face = "5"
	Face6    Face = "6"
	FaceTrap Face = "TRAP"
	FaceWall Face = "WALL"
)

// 各阵营的骰面（不对称设计）
var (
	redFaces    = [6]Face{Face1, Face2, Face3, Face4, Face5, FaceTrap}
	orangeFaces = [6]Face{FaceWall, Face0, Face2, Face3, Face4, Face6}
)

// Faces 返回角色/阵营可用的骰面，nil 表示不允许掷骰
func Faces(role Role, team Team) []Face {
	if role != RolePlayer {
		return nil
	}
	switch team {
	case TeamRed:
		return redFaces[:]
	case TeamOrange:
		return orangeFaces[:]
	default:
		return nil
	}
}
