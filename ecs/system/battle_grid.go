package system

import (
	"github.com/yohamta/donburi"

	"github.com/yonti32-ux/roguelike-sub002/core"
	"github.com/yonti32-ux/roguelike-sub002/ecs/component"
)

// BattleGrid は戦闘グリッドの寸法を保持し、境界と占有の判定を提供します。
type BattleGrid struct {
	Width  int
	Height int
}

// NewBattleGrid は指定寸法の戦闘グリッドを生成します。
func NewBattleGrid(width, height int) *BattleGrid {
	return &BattleGrid{Width: width, Height: height}
}

// InBounds はセルがグリッド内にあるかを返します。
func (g *BattleGrid) InBounds(p core.GridPos) bool {
	return p.X >= 0 && p.X < g.Width && p.Y >= 0 && p.Y < g.Height
}

// OccupiedCells は生存ユニットが占有するセルの集合を返します。
// except が指定された場合、そのユニット自身の占有は除外します。
func (g *BattleGrid) OccupiedCells(world donburi.World, except *donburi.Entry) map[core.GridPos]donburi.Entity {
	occupied := make(map[core.GridPos]donburi.Entity)
	for _, entry := range AliveUnits(world) {
		if except != nil && entry.Entity() == except.Entity() {
			continue
		}
		pos := component.PositionComponent.Get(entry)
		occupied[pos.Cell] = entry.Entity()
	}
	return occupied
}

// IsFree はセルがグリッド内かつ未占有であるかを返します。
func (g *BattleGrid) IsFree(p core.GridPos, occupied map[core.GridPos]donburi.Entity) bool {
	if !g.InBounds(p) {
		return false
	}
	_, taken := occupied[p]
	return !taken
}

// CellsWithin は中心からチェビシェフ距離 radius 以内のグリッド内セルを
// 行優先（row-major）順で返します。並びを固定することで探索結果を決定的に保ちます。
func (g *BattleGrid) CellsWithin(center core.GridPos, radius int) []core.GridPos {
	cells := []core.GridPos{}
	for y := center.Y - radius; y <= center.Y+radius; y++ {
		for x := center.X - radius; x <= center.X+radius; x++ {
			p := core.GridPos{X: x, Y: y}
			if g.InBounds(p) {
				cells = append(cells, p)
			}
		}
	}
	return cells
}

// Neighbors は中心に隣接する8セルのうちグリッド内のものを行優先順で返します。
func (g *BattleGrid) Neighbors(center core.GridPos) []core.GridPos {
	cells := []core.GridPos{}
	for y := center.Y - 1; y <= center.Y+1; y++ {
		for x := center.X - 1; x <= center.X+1; x++ {
			p := core.GridPos{X: x, Y: y}
			if p == center || !g.InBounds(p) {
				continue
			}
			cells = append(cells, p)
		}
	}
	return cells
}
