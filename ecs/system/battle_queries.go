package system

import (
	"sort"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
	"github.com/yohamta/donburi/query"

	"github.com/yonti32-ux/roguelike-sub002/core"
	"github.com/yonti32-ux/roguelike-sub002/data"
	"github.com/yonti32-ux/roguelike-sub002/ecs/component"
)

// AliveUnits は戦闘不能でない全ユニットを出現順で返します。
// 並びを固定することで、同一の戦闘状態に対するAI決定を決定的に保ちます。
func AliveUnits(world donburi.World) []*donburi.Entry {
	units := []*donburi.Entry{}
	query.NewQuery(filter.And(
		filter.Contains(component.SettingsComponent),
		filter.Contains(component.StateComponent),
	)).Each(world, func(entry *donburi.Entry) {
		if component.StateComponent.Get(entry).CurrentState() != core.StateBroken {
			units = append(units, entry)
		}
	})
	sort.Slice(units, func(i, j int) bool {
		return component.SettingsComponent.Get(units[i]).Index < component.SettingsComponent.Get(units[j]).Index
	})
	return units
}

// TeamUnits は指定チームの生存ユニットを出現順で返します。
func TeamUnits(world donburi.World, team core.TeamID) []*donburi.Entry {
	units := []*donburi.Entry{}
	for _, entry := range AliveUnits(world) {
		if component.SettingsComponent.Get(entry).Team == team {
			units = append(units, entry)
		}
	}
	return units
}

// EnemiesOf は指定ユニットの敵対チームの生存ユニットを出現順で返します。
func EnemiesOf(world donburi.World, entry *donburi.Entry) []*donburi.Entry {
	settings := component.SettingsComponent.Get(entry)
	return TeamUnits(world, core.OpponentOf(settings.Team))
}

// AlliesOf は指定ユニットと同チームの生存ユニット（自身を除く）を出現順で返します。
func AlliesOf(world donburi.World, entry *donburi.Entry) []*donburi.Entry {
	settings := component.SettingsComponent.Get(entry)
	allies := []*donburi.Entry{}
	for _, ally := range TeamUnits(world, settings.Team) {
		if ally.Entity() != entry.Entity() {
			allies = append(allies, ally)
		}
	}
	return allies
}

// IsAlive はエンティティが有効かつ戦闘不能でないことを返します。
func IsAlive(entry *donburi.Entry) bool {
	if entry == nil || !entry.Valid() {
		return false
	}
	return component.StateComponent.Get(entry).CurrentState() != core.StateBroken
}

// MaxSkillRange はユニットが保有するスキルの最大射程を返します。
// スキルを一つも持たない場合は1（隣接）とみなします。
func MaxSkillRange(entry *donburi.Entry, gdm *data.GameDataManager) int {
	maxRange := 1
	skills := component.SkillsComponent.Get(entry)
	for _, state := range skills.List {
		def, ok := gdm.GetSkillDefinition(state.ID)
		if !ok {
			continue
		}
		if def.MaxRange > maxRange {
			maxRange = def.MaxRange
		}
	}
	return maxRange
}

// BestOffensivePower はユニットが保有する攻撃スキルの最大威力を返します。
func BestOffensivePower(entry *donburi.Entry, gdm *data.GameDataManager) int {
	best := 0
	skills := component.SkillsComponent.Get(entry)
	for _, state := range skills.List {
		def, ok := gdm.GetSkillDefinition(state.ID)
		if !ok || def.Category != core.CategoryAttack {
			continue
		}
		if def.Power > best {
			best = def.Power
		}
	}
	return best
}

// HasHealSkill はユニットが回復スキルを保有しているかを返します。
func HasHealSkill(entry *donburi.Entry, gdm *data.GameDataManager) bool {
	skills := component.SkillsComponent.Get(entry)
	for _, state := range skills.List {
		if def, ok := gdm.GetSkillDefinition(state.ID); ok && def.Category == core.CategoryHeal {
			return true
		}
	}
	return false
}

// HasStatus はユニットが指定のステータス効果を保持しているかを返します。
func HasStatus(entry *donburi.Entry, id core.StatusID) bool {
	return StatusStacks(entry, id) > 0
}

// StatusStacks は指定のステータス効果の現在スタック数を返します。
func StatusStacks(entry *donburi.Entry, id core.StatusID) int {
	if !entry.HasComponent(component.StatusEffectsComponent) {
		return 0
	}
	statuses := component.StatusEffectsComponent.Get(entry)
	for _, active := range statuses.Active {
		if active.ID == id {
			return active.Stacks
		}
	}
	return 0
}
