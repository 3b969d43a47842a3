package system

import (
	"context"
	"sort"

	"github.com/yohamta/donburi"

	"github.com/yonti32-ux/roguelike-sub002/core"
	"github.com/yonti32-ux/roguelike-sub002/ecs/component"
	"github.com/yonti32-ux/roguelike-sub002/event"
)

// BattleRunner はラウンド制の戦闘ループを駆動します。
// 各ラウンドで行動順を確定し、ユニットごとに 決定 → 実行 を進めます。
type BattleRunner struct {
	logic    *BattleLogic
	ai       *BattleAI
	executor *ActionExecutor
	events   []event.GameEvent
}

func NewBattleRunner(logic *BattleLogic) *BattleRunner {
	return &BattleRunner{
		logic:    logic,
		ai:       NewBattleAI(logic),
		executor: NewActionExecutor(logic),
	}
}

// Run は勝敗が決するか最大ラウンド数に達するまで戦闘を進め、
// 勝利チームと経過ラウンド数を返します。決着しなかった場合はTeamNoneです。
func (r *BattleRunner) Run() (core.TeamID, int) {
	world := r.logic.World()
	maxRounds := r.logic.Config().Game.MaxRounds

	for round := 1; round <= maxRounds; round++ {
		for _, entry := range initiativeOrder(world) {
			if !IsAlive(entry) {
				continue
			}
			r.runTurn(round, entry)
			if winner, decided := r.winner(world); decided {
				return r.finish(winner, round)
			}
		}
	}
	return r.finish(core.TeamNone, maxRounds)
}

// Events はこれまでの戦闘で発行された全イベントを発生順で返します。
func (r *BattleRunner) Events() []event.GameEvent {
	return r.events
}

func (r *BattleRunner) runTurn(round int, entry *donburi.Entry) {
	settings := component.SettingsComponent.Get(entry)
	r.logic.Logger().LogTurnStart(round, settings.Name)
	r.emit(event.TurnStartedGameEvent{Round: round, Actor: entry.Entity()})

	if !r.startOfTurn(entry) {
		return
	}

	decision, err := r.ai.DecideAction(entry)
	if err != nil {
		r.logic.Logger().Raw().Warn().Err(err).
			Str("unit", settings.Name).
			Msg("行動を決定できないためターンをスキップ")
		return
	}
	r.emit(event.DecisionMadeGameEvent{Actor: entry.Entity(), Decision: decision})

	events, err := r.executor.Execute(entry, decision)
	if err != nil {
		r.logic.Logger().Raw().Warn().Err(err).
			Str("unit", settings.Name).
			Str("kind", string(decision.Kind)).
			Msg("決定を実行できないためターンをスキップ")
		return
	}
	r.emit(events...)
}

// startOfTurn はターン開始時の定常処理を行います。
// 防御状態の解除、クールダウンの進行、継続ダメージの適用です。
// 継続ダメージで戦闘不能になった場合はfalseを返します。
func (r *BattleRunner) startOfTurn(entry *donburi.Entry) bool {
	state := component.StateComponent.Get(entry)
	if state.FSM.Can("recover") {
		if err := state.FSM.Event(context.TODO(), "recover"); err != nil {
			r.logic.Logger().Raw().Error().Err(err).Msg("防御解除に失敗")
		}
	}

	skills := component.SkillsComponent.Get(entry)
	for i := range skills.List {
		if skills.List[i].CooldownLeft > 0 {
			skills.List[i].CooldownLeft--
		}
	}

	if dot := r.logic.GetStatusEffectSystem().TickTurnStart(entry); dot > 0 {
		if component.HealthComponent.Get(entry).Current <= 0 {
			r.emit(r.executor.handleDefeat(entry)...)
			return false
		}
	}
	return true
}

func (r *BattleRunner) finish(winner core.TeamID, rounds int) (core.TeamID, int) {
	r.logic.GetCoordinationManager().Reset()
	r.logic.Logger().LogBattleEnd(winner, rounds)
	r.emit(event.BattleEndGameEvent{Winner: winner, Rounds: rounds})
	return winner, rounds
}

// winner は勝敗が決したかを判定します。全滅したチームがあれば決着です。
func (r *BattleRunner) winner(world donburi.World) (core.TeamID, bool) {
	team1Alive := len(TeamUnits(world, core.Team1)) > 0
	team2Alive := len(TeamUnits(world, core.Team2)) > 0
	switch {
	case team1Alive && team2Alive:
		return core.TeamNone, false
	case team1Alive:
		return core.Team1, true
	case team2Alive:
		return core.Team2, true
	default:
		return core.TeamNone, true
	}
}

func (r *BattleRunner) emit(events ...event.GameEvent) {
	r.events = append(r.events, events...)
}

// initiativeOrder はラウンド開始時点の行動順を返します。
// 速度の降順、同速は召喚順で安定です。
func initiativeOrder(world donburi.World) []*donburi.Entry {
	units := AliveUnits(world)
	sort.SliceStable(units, func(i, j int) bool {
		a := component.SettingsComponent.Get(units[i])
		b := component.SettingsComponent.Get(units[j])
		if a.Speed != b.Speed {
			return a.Speed > b.Speed
		}
		return a.Index < b.Index
	})
	return units
}
