package event

import (
	"github.com/yohamta/donburi"

	"github.com/yonti32-ux/roguelike-sub002/core"
)

// GameEvent は、戦闘ロジックから発行されるすべてのイベントを示すマーカーインターフェースです。
type GameEvent interface {
	isGameEvent()
}

// TurnStartedGameEvent は、あるユニットのターンが開始されたことを示すイベントです。
type TurnStartedGameEvent struct {
	Round int
	Actor donburi.Entity
}

func (e TurnStartedGameEvent) isGameEvent() {}

// DecisionMadeGameEvent は、AIが行動を決定したことを示すイベントです。
type DecisionMadeGameEvent struct {
	Actor    donburi.Entity
	Decision core.Decision
}

func (e DecisionMadeGameEvent) isGameEvent() {}

// SkillUsedGameEvent は、スキルが実行されたことを示すイベントです。
type SkillUsedGameEvent struct {
	Actor      donburi.Entity
	Target     donburi.Entity
	SkillID    core.SkillID
	Damage     int
	Healed     int
	IsCritical bool
}

func (e SkillUsedGameEvent) isGameEvent() {}

// UnitMovedGameEvent は、ユニットが移動したことを示すイベントです。
type UnitMovedGameEvent struct {
	Actor donburi.Entity
	From  core.GridPos
	To    core.GridPos
}

func (e UnitMovedGameEvent) isGameEvent() {}

// StatusAppliedGameEvent は、ステータス効果が付与されたことを示すイベントです。
type StatusAppliedGameEvent struct {
	Target   donburi.Entity
	StatusID core.StatusID
	Stacks   int
}

func (e StatusAppliedGameEvent) isGameEvent() {}

// UnitDefeatedGameEvent は、ユニットが戦闘不能になったことを示すイベントです。
type UnitDefeatedGameEvent struct {
	Victim donburi.Entity
}

func (e UnitDefeatedGameEvent) isGameEvent() {}

// BattleEndGameEvent は、戦闘が終了したことを示すイベントです。
type BattleEndGameEvent struct {
	Winner core.TeamID
	Rounds int
}

func (e BattleEndGameEvent) isGameEvent() {}
