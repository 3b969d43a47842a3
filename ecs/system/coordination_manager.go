package system

import (
	"github.com/yohamta/donburi"

	"github.com/yonti32-ux/roguelike-sub002/core"
	"github.com/yonti32-ux/roguelike-sub002/data"
	"github.com/yonti32-ux/roguelike-sub002/ecs/component"
)

// CoordinationManager はチームの集中攻撃（フォーカスファイア）を調停します。
// ユニットごとの対象割り当てはAIコアで唯一のターンをまたぐ状態で、
// 戦闘開始時に生成され、戦闘終了時に破棄されます。
// 割り当て先が無効（戦闘不能・候補外）になった場合は、次回の照会時に
// 自動的に破棄して再計算します。エラーにはなりません。
type CoordinationManager struct {
	config *data.Config
	gdm    *data.GameDataManager
	threat *ThreatEvaluator
	// assignments はユニット → 現在の集中攻撃対象の割り当てです。
	assignments map[donburi.Entity]donburi.Entity
}

// NewCoordinationManager は新しいCoordinationManagerを生成します。
func NewCoordinationManager(config *data.Config, gdm *data.GameDataManager, threat *ThreatEvaluator) *CoordinationManager {
	return &CoordinationManager{
		config:      config,
		gdm:         gdm,
		threat:      threat,
		assignments: make(map[donburi.Entity]donburi.Entity),
	}
}

// ShouldFocusFire は、チームの2体以上が同一の高脅威対象に
// 現在または次のターン以内に届く場合に集中攻撃を推奨します。
func (c *CoordinationManager) ShouldFocusFire(world donburi.World, team core.TeamID) bool {
	members := TeamUnits(world, team)
	if len(members) < c.config.Balance.Coordination.MinAttackers {
		return false
	}
	candidates := TeamUnits(world, core.OpponentOf(team))
	return c.electFocusTarget(members, candidates) != nil
}

// GetFocusTarget はチームの集中攻撃対象を返します。
// 有効な既存割り当てがあればそれを優先し、なければ再選定して記録します。
// 戻り値がnilでない場合、その対象は必ず生存しており候補集合に含まれます。
func (c *CoordinationManager) GetFocusTarget(world donburi.World, team core.TeamID, candidates []*donburi.Entry) *donburi.Entry {
	members := TeamUnits(world, team)

	// 既存割り当ての検証。無効になったものはここで破棄します（自己修復）。
	for _, member := range members {
		assigned, ok := c.assignments[member.Entity()]
		if !ok {
			continue
		}
		if target := findByEntity(candidates, assigned); target != nil && IsAlive(target) {
			return target
		}
		delete(c.assignments, member.Entity())
	}

	target := c.electFocusTarget(members, candidates)
	if target == nil {
		return nil
	}
	for _, member := range members {
		if c.canAffectSoon(member, target) {
			c.assignments[member.Entity()] = target.Entity()
		}
	}
	return target
}

// AssignedTarget はユニットに割り当て済みの集中攻撃対象を返します。
// 割り当てがない、または対象が無効になっている場合はnilを返し、割り当てを破棄します。
func (c *CoordinationManager) AssignedTarget(world donburi.World, entry *donburi.Entry) *donburi.Entry {
	assigned, ok := c.assignments[entry.Entity()]
	if !ok {
		return nil
	}
	if !world.Valid(assigned) {
		delete(c.assignments, entry.Entity())
		return nil
	}
	target := world.Entry(assigned)
	if !IsAlive(target) {
		delete(c.assignments, entry.Entity())
		return nil
	}
	return target
}

// Invalidate は指定エンティティへの割り当てをすべて破棄します。
// 対象が戦闘不能になった際にターンシステムから呼ばれます。
func (c *CoordinationManager) Invalidate(target donburi.Entity) {
	for unit, assigned := range c.assignments {
		if assigned == target {
			delete(c.assignments, unit)
		}
	}
}

// Reset はすべての割り当てを破棄します。戦闘終了時に呼ばれます。
func (c *CoordinationManager) Reset() {
	c.assignments = make(map[donburi.Entity]donburi.Entity)
}

// electFocusTarget は集中攻撃対象を選定します。
// MinAttackers体以上が届く候補のうち、チーム合算の脅威度が最大のものを選びます。
// 同点時は現在HPが低い順、さらに出現インデックス順で固定します。
func (c *CoordinationManager) electFocusTarget(members, candidates []*donburi.Entry) *donburi.Entry {
	var best *donburi.Entry
	bestScore := 0.0

	for _, candidate := range candidates {
		attackers := 0
		teamThreat := 0.0
		for _, member := range members {
			teamThreat += c.threat.CalculateThreatValue(member, candidate)
			if c.canAffectSoon(member, candidate) {
				attackers++
			}
		}
		if attackers < c.config.Balance.Coordination.MinAttackers {
			continue
		}
		if best == nil || teamThreat > bestScore || (teamThreat == bestScore && lessByHealthThenIndex(candidate, best)) {
			best = candidate
			bestScore = teamThreat
		}
	}
	return best
}

// canAffectSoon はユニットが現在または次のターン以内に対象へ
// スキルを届かせられるかを判定します（2ターン分の移動 + 最大射程）。
func (c *CoordinationManager) canAffectSoon(member, target *donburi.Entry) bool {
	memberPos := component.PositionComponent.Get(member)
	targetPos := component.PositionComponent.Get(target)
	settings := component.SettingsComponent.Get(member)
	reach := settings.Move*2 + MaxSkillRange(member, c.gdm)
	return core.Chebyshev(memberPos.Cell, targetPos.Cell) <= reach
}

func findByEntity(entries []*donburi.Entry, entity donburi.Entity) *donburi.Entry {
	for _, entry := range entries {
		if entry.Entity() == entity {
			return entry
		}
	}
	return nil
}

func lessByHealthThenIndex(a, b *donburi.Entry) bool {
	aHealth := component.HealthComponent.Get(a)
	bHealth := component.HealthComponent.Get(b)
	if aHealth.Current != bHealth.Current {
		return aHealth.Current < bHealth.Current
	}
	return component.SettingsComponent.Get(a).Index < component.SettingsComponent.Get(b).Index
}
