package system

import (
	"context"
	"fmt"

	"github.com/yohamta/donburi"

	"github.com/yonti32-ux/roguelike-sub002/core"
	"github.com/yonti32-ux/roguelike-sub002/ecs/component"
	"github.com/yonti32-ux/roguelike-sub002/event"
)

// decisionHandler は決定種別ごとの実行処理です。
type decisionHandler func(e *ActionExecutor, entry *donburi.Entry, d core.Decision) ([]event.GameEvent, error)

// ActionExecutor はAIが下した決定をワールドに適用します。
// 意思決定と状態変更の境界はここであり、BattleAI側は読み取り専用です。
type ActionExecutor struct {
	logic    *BattleLogic
	handlers map[core.DecisionKind]decisionHandler
}

func NewActionExecutor(logic *BattleLogic) *ActionExecutor {
	e := &ActionExecutor{logic: logic}
	e.handlers = map[core.DecisionKind]decisionHandler{
		core.DecisionUseSkill: (*ActionExecutor).executeSkill,
		core.DecisionMove:     (*ActionExecutor).executeMove,
		core.DecisionPass:     (*ActionExecutor).executePass,
		core.DecisionDefend:   (*ActionExecutor).executeDefend,
	}
	return e
}

// Execute は決定を適用し、発生したゲームイベントを返します。
func (e *ActionExecutor) Execute(entry *donburi.Entry, d core.Decision) ([]event.GameEvent, error) {
	handler, ok := e.handlers[d.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown decision kind: %q", d.Kind)
	}
	return handler(e, entry, d)
}

func (e *ActionExecutor) executeSkill(entry *donburi.Entry, d core.Decision) ([]event.GameEvent, error) {
	def, ok := e.logic.GetGameDataManager().GetSkillDefinition(d.SkillID)
	if !ok {
		return nil, fmt.Errorf("unknown skill %q", d.SkillID)
	}

	slot := findSkillSlot(entry, d.SkillID)
	if slot == nil {
		return nil, fmt.Errorf("unit does not know skill %q", d.SkillID)
	}
	if slot.CooldownLeft > 0 {
		return nil, fmt.Errorf("skill %q is on cooldown (%d turns left)", d.SkillID, slot.CooldownLeft)
	}

	resources := component.ResourcesComponent.Get(entry)
	if resources.Pool(def.CostResource) < def.Cost {
		return nil, fmt.Errorf("insufficient %s for skill %q", def.CostResource, d.SkillID)
	}
	targets, err := e.resolveTargets(entry, d, def)
	if err != nil {
		return nil, err
	}

	// 対象が確定するまで消費・クールダウンは発生させません。
	spendResource(resources, def.CostResource, def.Cost)
	slot.CooldownLeft = def.CooldownTurns

	var events []event.GameEvent
	for _, target := range targets {
		events = append(events, e.applySkillTo(entry, target, def)...)
	}
	return events, nil
}

// resolveTargets は決定からスキルの効果対象を確定します。
// セル指定のAoEは半径内の対象を走査し、味方誤射の可否はスキル定義に従います。
func (e *ActionExecutor) resolveTargets(entry *donburi.Entry, d core.Decision, def *core.SkillDefinition) ([]*donburi.Entry, error) {
	world := e.logic.World()

	if d.TargetCell.IsValid() {
		settings := component.SettingsComponent.Get(entry)
		var targets []*donburi.Entry
		for _, unit := range AliveUnits(world) {
			if unit.Entity() == entry.Entity() {
				continue
			}
			pos := component.PositionComponent.Get(unit)
			if core.Chebyshev(pos.Cell, d.TargetCell) > def.AoERadius {
				continue
			}
			sameTeam := component.SettingsComponent.Get(unit).Team == settings.Team
			if sameTeam && !def.FriendlyFire {
				continue
			}
			targets = append(targets, unit)
		}
		return targets, nil
	}

	if d.Target == nil || !IsAlive(d.Target) {
		return nil, fmt.Errorf("skill %q has no valid target", def.ID)
	}
	return []*donburi.Entry{d.Target}, nil
}

// applySkillTo はスキル効果を1対象に適用します。
func (e *ActionExecutor) applySkillTo(actor, target *donburi.Entry, def *core.SkillDefinition) []event.GameEvent {
	logger := e.logic.Logger()
	actorName := component.SettingsComponent.Get(actor).Name
	targetName := component.SettingsComponent.Get(target).Name

	var events []event.GameEvent
	damage, healed := 0, 0
	isCritical := false

	switch def.Category {
	case core.CategoryAttack:
		damage, isCritical = e.logic.GetDamageCalculator().CalculateDamage(actor, target, def)
		// 防御中の対象はダメージが半減します。最低1は通ります。
		if component.StateComponent.Get(target).CurrentState() == core.StateGuarding {
			damage /= 2
			if damage < 1 {
				damage = 1
			}
		}
		health := component.HealthComponent.Get(target)
		health.Current -= damage
	case core.CategoryHeal:
		healed = e.logic.GetDamageCalculator().CalculateHeal(target, def)
		component.HealthComponent.Get(target).Current += healed
	}

	logger.LogSkillUsed(actorName, def.Name, targetName, damage, healed, isCritical)
	events = append(events, event.SkillUsedGameEvent{
		Actor:      actor.Entity(),
		Target:     target.Entity(),
		SkillID:    def.ID,
		Damage:     damage,
		Healed:     healed,
		IsCritical: isCritical,
	})

	if def.AppliesStatus != "" && IsAlive(target) {
		events = append(events, e.logic.GetStatusEffectSystem().ApplyStatus(target, def.AppliesStatus)...)
	}

	if component.HealthComponent.Get(target).Current <= 0 {
		events = append(events, e.handleDefeat(target)...)
	}
	return events
}

// handleDefeat はHPが尽きたユニットを戦闘不能に遷移させます。
func (e *ActionExecutor) handleDefeat(target *donburi.Entry) []event.GameEvent {
	health := component.HealthComponent.Get(target)
	if health.Current < 0 {
		health.Current = 0
	}

	state := component.StateComponent.Get(target)
	if state.FSM.Can("break") {
		if err := state.FSM.Event(context.TODO(), "break"); err != nil {
			e.logic.Logger().Raw().Error().Err(err).Msg("戦闘不能への遷移に失敗")
		}
	}

	// 撃破された対象への集中攻撃割り当ては無効化します。
	e.logic.GetCoordinationManager().Invalidate(target.Entity())

	name := component.SettingsComponent.Get(target).Name
	e.logic.Logger().LogUnitDefeated(name)
	return []event.GameEvent{event.UnitDefeatedGameEvent{Victim: target.Entity()}}
}

func (e *ActionExecutor) executeMove(entry *donburi.Entry, d core.Decision) ([]event.GameEvent, error) {
	world := e.logic.World()
	grid := e.logic.Grid()
	pos := component.PositionComponent.Get(entry)
	settings := component.SettingsComponent.Get(entry)

	if !d.MoveTo.IsValid() || !grid.InBounds(d.MoveTo) {
		return nil, fmt.Errorf("move destination %v is out of bounds", d.MoveTo)
	}
	if !grid.IsFree(d.MoveTo, grid.OccupiedCells(world, entry)) {
		return nil, fmt.Errorf("move destination %v is occupied", d.MoveTo)
	}
	if core.Chebyshev(pos.Cell, d.MoveTo) > settings.Move {
		return nil, fmt.Errorf("move destination %v exceeds move range %d", d.MoveTo, settings.Move)
	}

	from := pos.Cell
	pos.Cell = d.MoveTo
	if dir := core.DirectionBetween(from, d.MoveTo); !dir.IsZero() {
		pos.Facing = dir
	}

	e.logic.Logger().LogMove(settings.Name, from, d.MoveTo)
	return []event.GameEvent{event.UnitMovedGameEvent{
		Actor: entry.Entity(),
		From:  from,
		To:    d.MoveTo,
	}}, nil
}

func (e *ActionExecutor) executeDefend(entry *donburi.Entry, d core.Decision) ([]event.GameEvent, error) {
	state := component.StateComponent.Get(entry)
	if state.FSM.Can("guard") {
		if err := state.FSM.Event(context.TODO(), "guard"); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func (e *ActionExecutor) executePass(entry *donburi.Entry, d core.Decision) ([]event.GameEvent, error) {
	return nil, nil
}

// findSkillSlot はユニットのスキル一覧から指定IDのスロットを探します。
func findSkillSlot(entry *donburi.Entry, id core.SkillID) *component.SkillState {
	skills := component.SkillsComponent.Get(entry)
	for i := range skills.List {
		if skills.List[i].ID == id {
			return &skills.List[i]
		}
	}
	return nil
}

func spendResource(r *component.Resources, kind core.ResourceKind, cost int) {
	if kind == core.ResourceMana {
		r.Mana -= cost
		return
	}
	r.Stamina -= cost
}
