package system

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yonti32-ux/roguelike-sub002/core"
	"github.com/yonti32-ux/roguelike-sub002/ecs/component"
	"github.com/yonti32-ux/roguelike-sub002/ecs/entity"
)

func TestDecideAction_UnknownProfileFallsBackToDefault(t *testing.T) {
	logic, entries := newTestLogic(t, []entity.UnitSpec{
		testUnit("actor", core.Team1, "berserker", core.GridPos{X: 4, Y: 4}, "slash"),
		testUnit("enemy", core.Team2, core.ProfileBrute, core.GridPos{X: 5, Y: 4}, "slash"),
	})
	actor := entries[0]

	decision, err := NewBattleAI(logic).DecideAction(actor)

	require.NoError(t, err, "未知のプロファイルはエラーではなくデフォルトで処理される")
	assert.Equal(t, core.DecisionUseSkill, decision.Kind)
	assert.Equal(t, core.SkillID("slash"), decision.SkillID)
}

func TestDecideAction_BrokenUnitPasses(t *testing.T) {
	logic, entries := newTestLogic(t, []entity.UnitSpec{
		testUnit("actor", core.Team1, core.ProfileBrute, core.GridPos{X: 4, Y: 4}, "slash"),
		testUnit("enemy", core.Team2, core.ProfileBrute, core.GridPos{X: 5, Y: 4}, "slash"),
	})
	actor := entries[0]
	require.NoError(t, component.StateComponent.Get(actor).FSM.Event(context.TODO(), "break"))

	decision, err := NewBattleAI(logic).DecideAction(actor)

	require.NoError(t, err)
	assert.Equal(t, core.DecisionPass, decision.Kind)
}

func TestDecideAction_MalformedEntryReturnsError(t *testing.T) {
	logic, _ := newTestLogic(t, []entity.UnitSpec{
		testUnit("enemy", core.Team2, core.ProfileBrute, core.GridPos{X: 5, Y: 4}, "slash"),
	})
	ai := NewBattleAI(logic)

	_, err := ai.DecideAction(nil)
	assert.ErrorIs(t, err, ErrMalformedBattleState)

	// 必須コンポーネントを欠いたエンティティも同様にエラーになる。
	world := logic.World()
	bare := world.Entry(world.Create(component.SettingsComponent))
	_, err = ai.DecideAction(bare)
	assert.ErrorIs(t, err, ErrMalformedBattleState)
}

func TestDecideAction_MissingResourcesReturnsError(t *testing.T) {
	logic, _ := newTestLogic(t, []entity.UnitSpec{
		testUnit("enemy", core.Team2, core.ProfileBrute, core.GridPos{X: 5, Y: 4}, "slash"),
	})
	ai := NewBattleAI(logic)

	// パイプラインが無条件に参照するコンポーネントはすべて事前条件に含まれる。
	// リソース欠落でもパニックではなくエラーを返す。
	world := logic.World()
	noResources := world.Entry(world.Create(
		component.SettingsComponent,
		component.HealthComponent,
		component.PositionComponent,
		component.SkillsComponent,
		component.StatusEffectsComponent,
		component.StateComponent,
	))
	_, err := ai.DecideAction(noResources)
	assert.ErrorIs(t, err, ErrMalformedBattleState)

	noStatuses := world.Entry(world.Create(
		component.SettingsComponent,
		component.HealthComponent,
		component.PositionComponent,
		component.SkillsComponent,
		component.ResourcesComponent,
		component.StateComponent,
	))
	_, err = ai.DecideAction(noStatuses)
	assert.ErrorIs(t, err, ErrMalformedBattleState)
}

func TestDecideAction_NoUsableActionDefends(t *testing.T) {
	logic, entries := newTestLogic(t, []entity.UnitSpec{
		testUnit("actor", core.Team1, core.ProfileBrute, core.GridPos{X: 4, Y: 4}, "slash"),
		testUnit("enemy", core.Team2, core.ProfileBrute, core.GridPos{X: 5, Y: 4}, "slash"),
	})
	actor := entries[0]
	// スタミナを枯渇させて攻撃もできなくする。
	component.ResourcesComponent.Get(actor).Stamina = 0

	decision, err := NewBattleAI(logic).DecideAction(actor)

	require.NoError(t, err)
	assert.Equal(t, core.DecisionDefend, decision.Kind, "有効な行動がなければ防御にフォールバックする")
}

func TestDecideAction_IsDeterministic(t *testing.T) {
	build := func(t *testing.T) (core.Decision, error) {
		logic, entries := newTestLogic(t, []entity.UnitSpec{
			testUnit("actor", core.Team1, core.ProfileSkirmisher, core.GridPos{X: 2, Y: 3}, "slash", "shot"),
			testUnit("e1", core.Team2, core.ProfileBrute, core.GridPos{X: 6, Y: 3}, "slash"),
			testUnit("e2", core.Team2, core.ProfileCaster, core.GridPos{X: 7, Y: 5}, "ignite"),
		})
		return NewBattleAI(logic).DecideAction(entries[0])
	}

	first, err1 := build(t)
	second, err2 := build(t)

	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, first.Kind, second.Kind, "同一の戦闘状態からは同一の決定が得られる")
	assert.Equal(t, first.SkillID, second.SkillID)
	assert.Equal(t, first.MoveTo, second.MoveTo)
}
