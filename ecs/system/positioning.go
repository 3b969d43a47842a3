package system

import (
	"github.com/yohamta/donburi"

	"github.com/yonti32-ux/roguelike-sub002/core"
	"github.com/yonti32-ux/roguelike-sub002/data"
	"github.com/yonti32-ux/roguelike-sub002/ecs/component"
)

// PositioningHelper は戦闘グリッド上の配置候補を計算します。
// すべての探索は行優先順で行い、同点時の結果を決定的に保ちます。
// 戻り値のセルは常にグリッド内かつ未占有です。有効なセルがない場合は
// core.NoPosition と false を返します。
type PositioningHelper struct {
	grid   *BattleGrid
	config *data.Config
	gdm    *data.GameDataManager
}

// NewPositioningHelper は新しいPositioningHelperを生成します。
func NewPositioningHelper(grid *BattleGrid, config *data.Config, gdm *data.GameDataManager) *PositioningHelper {
	return &PositioningHelper{grid: grid, config: config, gdm: gdm}
}

// flankClass はセルから対象への位置関係を分類します。背後=2、側面=1、正面=0。
func flankClass(target *component.Position, cell core.GridPos) int {
	approach := core.DirectionBetween(cell, target.Cell)
	dot := target.Facing.Dot(approach)
	switch {
	case dot > 0:
		// 対象の向きと接近方向が一致 = 背後からの接近
		return 2
	case dot == 0:
		return 1
	default:
		return 0
	}
}

// IsFlankingFrom はセルが対象の背後または側面にあたるかを返します。
func (p *PositioningHelper) IsFlankingFrom(cell core.GridPos, target *donburi.Entry) bool {
	targetPos := component.PositionComponent.Get(target)
	if core.Chebyshev(cell, targetPos.Cell) != 1 {
		return false
	}
	return flankClass(targetPos, cell) > 0
}

// FindFlankingPosition は対象に隣接し、かつ対象の向きに対して背後・側面となる
// セルを返します。既に挟撃位置にいる場合は現在地と false（移動不要）を返します。
func (p *PositioningHelper) FindFlankingPosition(world donburi.World, unit, target *donburi.Entry) (core.GridPos, bool) {
	unitPos := component.PositionComponent.Get(unit)
	targetPos := component.PositionComponent.Get(target)

	if p.IsFlankingFrom(unitPos.Cell, target) {
		return unitPos.Cell, false
	}

	occupied := p.grid.OccupiedCells(world, unit)
	best := core.NoPosition
	bestClass := 0
	for _, cell := range p.grid.Neighbors(targetPos.Cell) {
		if !p.grid.IsFree(cell, occupied) {
			continue
		}
		if class := flankClass(targetPos, cell); class > bestClass {
			best = cell
			bestClass = class
		}
	}
	if bestClass == 0 {
		return core.NoPosition, false
	}
	return best, true
}

// FindOptimalAoEPosition はAoEスキルの中心セルとして、巻き込める敵数が最大の
// セルを返します。スキルが味方も巻き込む場合、味方を範囲に含む中心は除外します。
// 1体も巻き込めない場合は core.NoPosition と 0 を返します。
func (p *PositioningHelper) FindOptimalAoEPosition(world donburi.World, unit *donburi.Entry, def *core.SkillDefinition) (core.GridPos, int) {
	unitPos := component.PositionComponent.Get(unit)
	enemies := EnemiesOf(world, unit)
	allies := AlliesOf(world, unit)

	best := core.NoPosition
	bestCount := 0
	for _, center := range p.grid.CellsWithin(unitPos.Cell, def.MaxRange) {
		if core.Chebyshev(unitPos.Cell, center) < def.MinRange {
			continue
		}
		if def.FriendlyFire && p.coversAny(center, def.AoERadius, allies) {
			continue
		}
		count := p.coveredCount(center, def.AoERadius, enemies)
		if count > bestCount {
			best = center
			bestCount = count
		}
	}
	return best, bestCount
}

// FindOptimalRangePosition は対象とのチェビシェフ距離を[MinRange, MaxRange]に
// 保ちながら、被襲撃リスク（次のターンに到達し得る敵の数）が最小となる
// 移動先セルを返します。現在地が最適な場合は現在地と false（移動不要）を返します。
func (p *PositioningHelper) FindOptimalRangePosition(world donburi.World, unit, target *donburi.Entry, def *core.SkillDefinition) (core.GridPos, bool) {
	unitPos := component.PositionComponent.Get(unit)
	targetPos := component.PositionComponent.Get(target)
	settings := component.SettingsComponent.Get(unit)
	occupied := p.grid.OccupiedCells(world, unit)
	enemies := EnemiesOf(world, unit)

	best := core.NoPosition
	bestExposure := 0
	for _, cell := range p.grid.CellsWithin(unitPos.Cell, settings.Move) {
		if cell != unitPos.Cell && !p.grid.IsFree(cell, occupied) {
			continue
		}
		dist := core.Chebyshev(cell, targetPos.Cell)
		if dist < def.MinRange || dist > def.MaxRange {
			continue
		}
		exposure := p.exposureAt(cell, enemies)
		if !best.IsValid() || exposure < bestExposure {
			best = cell
			bestExposure = exposure
		}
	}
	if !best.IsValid() {
		return core.NoPosition, false
	}
	if best == unitPos.Cell {
		return best, false
	}
	// 現在地が同等の安全度なら移動しません。
	if core.Chebyshev(unitPos.Cell, targetPos.Cell) >= def.MinRange &&
		core.Chebyshev(unitPos.Cell, targetPos.Cell) <= def.MaxRange &&
		p.exposureAt(unitPos.Cell, enemies) <= bestExposure {
		return unitPos.Cell, false
	}
	return best, true
}

// FindRetreatPosition は最寄りの敵からの距離が最大となる移動先セルを返します。
// 現在地より改善するセルがない場合は core.NoPosition と false を返します。
func (p *PositioningHelper) FindRetreatPosition(world donburi.World, unit *donburi.Entry) (core.GridPos, bool) {
	unitPos := component.PositionComponent.Get(unit)
	settings := component.SettingsComponent.Get(unit)
	occupied := p.grid.OccupiedCells(world, unit)
	enemies := EnemiesOf(world, unit)
	if len(enemies) == 0 {
		return core.NoPosition, false
	}

	currentSafety := p.nearestEnemyDistance(unitPos.Cell, enemies)
	best := core.NoPosition
	bestSafety := currentSafety
	for _, cell := range p.grid.CellsWithin(unitPos.Cell, settings.Move) {
		if cell == unitPos.Cell || !p.grid.IsFree(cell, occupied) {
			continue
		}
		if safety := p.nearestEnemyDistance(cell, enemies); safety > bestSafety {
			best = cell
			bestSafety = safety
		}
	}
	if !best.IsValid() {
		return core.NoPosition, false
	}
	return best, true
}

// StepToward は対象へ近づく移動先セルを返します。
// 移動力の範囲内で対象との距離が最小になる未占有セルを選びます。
// 現在地より近づけない場合は core.NoPosition と false を返します。
func (p *PositioningHelper) StepToward(world donburi.World, unit, target *donburi.Entry) (core.GridPos, bool) {
	unitPos := component.PositionComponent.Get(unit)
	targetPos := component.PositionComponent.Get(target)
	settings := component.SettingsComponent.Get(unit)
	occupied := p.grid.OccupiedCells(world, unit)

	best := core.NoPosition
	bestDist := core.Chebyshev(unitPos.Cell, targetPos.Cell)
	for _, cell := range p.grid.CellsWithin(unitPos.Cell, settings.Move) {
		if cell == unitPos.Cell || !p.grid.IsFree(cell, occupied) {
			continue
		}
		if dist := core.Chebyshev(cell, targetPos.Cell); dist < bestDist {
			best = cell
			bestDist = dist
		}
	}
	if !best.IsValid() {
		return core.NoPosition, false
	}
	return best, true
}

// exposureAt は指定セルに対し、次のターンに行動が届き得る敵の数を返します。
func (p *PositioningHelper) exposureAt(cell core.GridPos, enemies []*donburi.Entry) int {
	exposure := 0
	for _, enemy := range enemies {
		enemyPos := component.PositionComponent.Get(enemy)
		enemySettings := component.SettingsComponent.Get(enemy)
		reach := enemySettings.Move + MaxSkillRange(enemy, p.gdm)
		if core.Chebyshev(cell, enemyPos.Cell) <= reach {
			exposure++
		}
	}
	return exposure
}

func (p *PositioningHelper) nearestEnemyDistance(cell core.GridPos, enemies []*donburi.Entry) int {
	nearest := -1
	for _, enemy := range enemies {
		enemyPos := component.PositionComponent.Get(enemy)
		dist := core.Chebyshev(cell, enemyPos.Cell)
		if nearest < 0 || dist < nearest {
			nearest = dist
		}
	}
	return nearest
}

func (p *PositioningHelper) coveredCount(center core.GridPos, radius int, units []*donburi.Entry) int {
	count := 0
	for _, unit := range units {
		pos := component.PositionComponent.Get(unit)
		if core.Chebyshev(center, pos.Cell) <= radius {
			count++
		}
	}
	return count
}

func (p *PositioningHelper) coversAny(center core.GridPos, radius int, units []*donburi.Entry) bool {
	return p.coveredCount(center, radius, units) > 0
}
