package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yohamta/donburi"

	"github.com/yonti32-ux/roguelike-sub002/core"
	"github.com/yonti32-ux/roguelike-sub002/data"
	"github.com/yonti32-ux/roguelike-sub002/ecs/component"
	"github.com/yonti32-ux/roguelike-sub002/ecs/entity"
	"github.com/yonti32-ux/roguelike-sub002/event"
)

func TestInitiativeOrder_SpeedDescendingWithStableTies(t *testing.T) {
	logic, entries := newTestLogic(t, func() []entity.UnitSpec {
		slow := testUnit("slow", core.Team1, core.ProfileBrute, core.GridPos{X: 1, Y: 1}, "slash")
		slow.Speed = 3
		fast := testUnit("fast", core.Team2, core.ProfileBrute, core.GridPos{X: 6, Y: 1}, "slash")
		fast.Speed = 9
		twinA := testUnit("twin_a", core.Team1, core.ProfileBrute, core.GridPos{X: 1, Y: 3}, "slash")
		twinB := testUnit("twin_b", core.Team2, core.ProfileBrute, core.GridPos{X: 6, Y: 3}, "slash")
		return []entity.UnitSpec{slow, fast, twinA, twinB}
	}())

	order := initiativeOrder(logic.World())

	require.Len(t, order, 4)
	assert.Equal(t, entries[1].Entity(), order[0].Entity(), "最速のユニットが先頭")
	assert.Equal(t, entries[2].Entity(), order[1].Entity(), "同速は出現順")
	assert.Equal(t, entries[3].Entity(), order[2].Entity())
	assert.Equal(t, entries[0].Entity(), order[3].Entity())
}

func TestBattleRunner_RunsToDecision(t *testing.T) {
	logic, _ := newTestLogic(t, []entity.UnitSpec{
		testUnit("a1", core.Team1, core.ProfileBrute, core.GridPos{X: 3, Y: 3}, "slash", "heavy_blow"),
		testUnit("a2", core.Team1, core.ProfileSkirmisher, core.GridPos{X: 3, Y: 5}, "slash", "shot"),
		testUnit("b1", core.Team2, core.ProfileBrute, core.GridPos{X: 8, Y: 3}, "slash"),
	})

	winner, rounds := NewBattleRunner(logic).Run()

	assert.Equal(t, core.Team1, winner, "2対1は数的優位側が勝つ")
	assert.Greater(t, rounds, 0)
	assert.LessOrEqual(t, rounds, logic.Config().Game.MaxRounds)
}

func TestBattleRunner_EmitsBattleEndEvent(t *testing.T) {
	logic, _ := newTestLogic(t, []entity.UnitSpec{
		testUnit("a1", core.Team1, core.ProfileBrute, core.GridPos{X: 4, Y: 4}, "slash"),
		testUnit("b1", core.Team2, core.ProfileBrute, core.GridPos{X: 5, Y: 4}, "slash"),
	})
	runner := NewBattleRunner(logic)
	winner, rounds := runner.Run()

	events := runner.Events()
	require.NotEmpty(t, events)
	end, ok := events[len(events)-1].(event.BattleEndGameEvent)
	require.True(t, ok, "最後のイベントは戦闘終了")
	assert.Equal(t, winner, end.Winner)
	assert.Equal(t, rounds, end.Rounds)
}

func TestBattleRunner_DrawAfterMaxRounds(t *testing.T) {
	// 互いに届かない位置で移動力0。決着がつかず引き分けになる。
	specs := []entity.UnitSpec{
		testUnit("a1", core.Team1, core.ProfileBrute, core.GridPos{X: 0, Y: 0}, "slash"),
		testUnit("b1", core.Team2, core.ProfileBrute, core.GridPos{X: 11, Y: 7}, "slash"),
	}
	specs[0].Move = 0
	specs[1].Move = 0

	world := donburi.NewWorld()
	gdm := data.NewGameDataManager()
	registerTestGameData(t, gdm)
	_, err := entity.SetupBattle(world, specs)
	require.NoError(t, err)

	cfg := data.DefaultConfig()
	cfg.Game.MaxRounds = 5
	logic := NewBattleLogic(world, NewBattleGrid(12, 8), cfg, gdm, data.NewNopBattleLogger())

	winner, rounds := NewBattleRunner(logic).Run()

	assert.Equal(t, core.TeamNone, winner)
	assert.Equal(t, 5, rounds)
}

func TestBattleRunner_DeterministicWithSameSeed(t *testing.T) {
	run := func() []event.GameEvent {
		logic, _ := newTestLogic(t, []entity.UnitSpec{
			testUnit("a1", core.Team1, core.ProfileBrute, core.GridPos{X: 3, Y: 3}, "slash", "heavy_blow"),
			testUnit("a2", core.Team1, core.ProfileCaster, core.GridPos{X: 2, Y: 5}, "ignite", "fireball"),
			testUnit("b1", core.Team2, core.ProfileBrute, core.GridPos{X: 8, Y: 3}, "slash", "heavy_blow"),
			testUnit("b2", core.Team2, core.ProfileSupport, core.GridPos{X: 9, Y: 5}, "mend", "slash"),
		})
		runner := NewBattleRunner(logic)
		runner.Run()
		return runner.Events()
	}

	first := run()
	second := run()

	require.Equal(t, len(first), len(second), "同一シードの戦闘は同一のイベント列を生む")
	for i := range first {
		assert.IsType(t, first[i], second[i])
	}
}

func TestStartOfTurn_TicksCooldownAndStatuses(t *testing.T) {
	logic, entries := newTestLogic(t, []entity.UnitSpec{
		testUnit("actor", core.Team1, core.ProfileBrute, core.GridPos{X: 4, Y: 4}, "heavy_blow"),
		testUnit("enemy", core.Team2, core.ProfileBrute, core.GridPos{X: 9, Y: 4}, "slash"),
	})
	actor := entries[0]
	runner := NewBattleRunner(logic)

	component.SkillsComponent.Get(actor).List[0].CooldownLeft = 2
	logic.GetStatusEffectSystem().ApplyStatus(actor, "burn")
	hpBefore := component.HealthComponent.Get(actor).Current

	alive := runner.startOfTurn(actor)

	assert.True(t, alive)
	assert.Equal(t, 1, component.SkillsComponent.Get(actor).List[0].CooldownLeft)
	assert.Equal(t, hpBefore-2, component.HealthComponent.Get(actor).Current, "燃焼の継続ダメージが入る")
}
