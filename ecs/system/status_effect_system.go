package system

import (
	"github.com/yohamta/donburi"

	"github.com/yonti32-ux/roguelike-sub002/core"
	"github.com/yonti32-ux/roguelike-sub002/data"
	"github.com/yonti32-ux/roguelike-sub002/ecs/component"
	"github.com/yonti32-ux/roguelike-sub002/event"
)

// StatusEffectSystem はステータス効果の付与・進行・解除を管理します。
type StatusEffectSystem struct {
	gdm    *data.GameDataManager
	logger *data.BattleLogger
}

// NewStatusEffectSystem は新しいStatusEffectSystemを生成します。
func NewStatusEffectSystem(gdm *data.GameDataManager, logger *data.BattleLogger) *StatusEffectSystem {
	return &StatusEffectSystem{gdm: gdm, logger: logger}
}

// ApplyStatus は対象にステータス効果を付与します。
// 既に保持している場合はスタックを加算（上限まで）し、残りターンを更新します。
func (s *StatusEffectSystem) ApplyStatus(target *donburi.Entry, id core.StatusID) []event.GameEvent {
	def, ok := s.gdm.GetStatusDefinition(id)
	if !ok {
		return nil
	}
	statuses := component.StatusEffectsComponent.Get(target)
	targetName := component.SettingsComponent.Get(target).Name

	for i := range statuses.Active {
		if statuses.Active[i].ID != id {
			continue
		}
		if statuses.Active[i].Stacks < def.MaxStacks {
			statuses.Active[i].Stacks++
		}
		statuses.Active[i].RemainingTurns = def.DurationTurns
		s.logger.LogStatusApplied(targetName, id, statuses.Active[i].Stacks)
		return []event.GameEvent{event.StatusAppliedGameEvent{
			Target:   target.Entity(),
			StatusID: id,
			Stacks:   statuses.Active[i].Stacks,
		}}
	}

	statuses.Active = append(statuses.Active, component.ActiveStatus{
		ID:             id,
		Stacks:         1,
		RemainingTurns: def.DurationTurns,
	})
	s.logger.LogStatusApplied(targetName, id, 1)
	return []event.GameEvent{event.StatusAppliedGameEvent{
		Target:   target.Entity(),
		StatusID: id,
		Stacks:   1,
	}}
}

// TickTurnStart はユニットのターン開始時の効果進行を処理します。
// 継続ダメージを適用し、残りターンを減らし、切れた効果を取り除きます。
// 継続ダメージによる戦闘不能はここでは扱わず、適用後のHPを呼び出し側が確認します。
func (s *StatusEffectSystem) TickTurnStart(entry *donburi.Entry) int {
	statuses := component.StatusEffectsComponent.Get(entry)
	totalDamage := 0

	remaining := statuses.Active[:0]
	for _, active := range statuses.Active {
		def, ok := s.gdm.GetStatusDefinition(active.ID)
		if ok && def.DamagePerTurn > 0 {
			totalDamage += def.DamagePerTurn * active.Stacks
		}
		active.RemainingTurns--
		if active.RemainingTurns > 0 {
			remaining = append(remaining, active)
		}
	}
	statuses.Active = remaining

	if totalDamage > 0 {
		health := component.HealthComponent.Get(entry)
		health.Current -= totalDamage
		if health.Current < 0 {
			health.Current = 0
		}
	}
	return totalDamage
}
