package system

import (
	"errors"
	"fmt"

	"github.com/yohamta/donburi"

	"github.com/yonti32-ux/roguelike-sub002/core"
	"github.com/yonti32-ux/roguelike-sub002/ecs/component"
)

// ErrMalformedBattleState は、ユニットに必須コンポーネントが欠けているなど、
// 決定を構築できない状態を示すエラーです。
var ErrMalformedBattleState = errors.New("battle state is malformed")

// BattleAI はAI制御ユニットの意思決定パイプライン全体を統括します。
// 脅威評価 → スキル評価 → 連携・位置取り参照 → プロファイル実行の順に進み、
// 最終的な決定を1つ返します。ワールドの状態は一切変更しません。
type BattleAI struct {
	logic *BattleLogic
}

func NewBattleAI(logic *BattleLogic) *BattleAI {
	return &BattleAI{logic: logic}
}

// DecideAction は指定ユニットの今ターンの行動を決定します。
// 同一のワールド状態に対しては常に同一の決定を返します。
func (ai *BattleAI) DecideAction(entry *donburi.Entry) (core.Decision, error) {
	if entry == nil || !entry.Valid() {
		return core.Decision{}, fmt.Errorf("%w: entry is nil or removed", ErrMalformedBattleState)
	}
	for _, ct := range []donburi.IComponentType{
		component.SettingsComponent,
		component.HealthComponent,
		component.PositionComponent,
		component.SkillsComponent,
		component.ResourcesComponent,
		component.StatusEffectsComponent,
		component.StateComponent,
	} {
		if !entry.HasComponent(ct) {
			return core.Decision{}, fmt.Errorf("%w: missing component %s", ErrMalformedBattleState, ct.Name())
		}
	}

	settings := component.SettingsComponent.Get(entry)
	state := component.StateComponent.Get(entry)
	if state.CurrentState() == core.StateBroken {
		return core.PassDecision("行動不能"), nil
	}

	profileID := DefaultProfileID
	if entry.HasComponent(component.AIComponent) {
		profileID = component.AIComponent.Get(entry).ProfileID
	}
	profile, ok := ProfileRegistry[profileID]
	if !ok {
		ai.logic.Logger().Raw().Warn().
			Str("unit", settings.Name).
			Str("profile", string(profileID)).
			Msg("未登録のプロファイルのためデフォルトへフォールバック")
		profile = ProfileRegistry[DefaultProfileID]
	}

	healthRatio := component.HealthComponent.Get(entry).Ratio()
	decision := profile.ExecuteTurn(entry, ai.logic, healthRatio)
	if !decision.IsResolved() {
		decision = core.DefendDecision("行動を決定できず防御")
	}

	ai.logic.Logger().LogDecision(settings.Name, profile.ID(), decision)
	return decision, nil
}
