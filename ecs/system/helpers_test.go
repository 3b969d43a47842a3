package system

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yohamta/donburi"

	"github.com/yonti32-ux/roguelike-sub002/core"
	"github.com/yonti32-ux/roguelike-sub002/data"
	"github.com/yonti32-ux/roguelike-sub002/ecs/component"
	"github.com/yonti32-ux/roguelike-sub002/ecs/entity"
)

// registerTestGameData はテスト用のスキル・ステータス定義を登録します。
func registerTestGameData(t *testing.T, gdm *data.GameDataManager) {
	t.Helper()

	skills := []*core.SkillDefinition{
		{ID: "slash", Name: "スラッシュ", Category: core.CategoryAttack, Shape: core.ShapeSingle,
			Power: 12, MinRange: 1, MaxRange: 1, Cost: 4, CostResource: core.ResourceStamina},
		{ID: "heavy_blow", Name: "ヘビーブロー", Category: core.CategoryAttack, Shape: core.ShapeSingle,
			Power: 20, MinRange: 1, MaxRange: 1, Cost: 10, CostResource: core.ResourceStamina,
			CooldownTurns: 2, AppliesStatus: "weaken"},
		{ID: "shot", Name: "ショット", Category: core.CategoryAttack, Shape: core.ShapeSingle,
			Power: 10, MinRange: 2, MaxRange: 4, Cost: 5, CostResource: core.ResourceStamina},
		{ID: "ignite", Name: "イグナイト", Category: core.CategoryAttack, Shape: core.ShapeSingle,
			Power: 8, MinRange: 2, MaxRange: 3, Cost: 4, CostResource: core.ResourceMana,
			AppliesStatus: "burn"},
		{ID: "pyro_burst", Name: "パイロバースト", Category: core.CategoryAttack, Shape: core.ShapeSingle,
			Power: 18, MinRange: 2, MaxRange: 3, Cost: 9, CostResource: core.ResourceMana,
			CooldownTurns: 1, SynergyStatus: "burn"},
		{ID: "fireball", Name: "ファイアボール", Category: core.CategoryAttack, Shape: core.ShapeAoE,
			Power: 14, MinRange: 2, MaxRange: 4, AoERadius: 1, Cost: 12, CostResource: core.ResourceMana,
			CooldownTurns: 2, AppliesStatus: "burn", FriendlyFire: true},
		{ID: "mend", Name: "メンド", Category: core.CategoryHeal, Shape: core.ShapeAlly,
			Power: 16, MinRange: 0, MaxRange: 3, Cost: 8, CostResource: core.ResourceMana},
		{ID: "second_wind", Name: "セカンドウィンド", Category: core.CategoryHeal, Shape: core.ShapeSelf,
			Power: 20, MinRange: 0, MaxRange: 0, Cost: 6, CostResource: core.ResourceStamina},
		{ID: "war_cry", Name: "ウォークライ", Category: core.CategoryBuff, Shape: core.ShapeSelf,
			Cost: 5, CostResource: core.ResourceStamina, CooldownTurns: 3, AppliesStatus: "rally"},
	}
	for _, def := range skills {
		require.NoError(t, gdm.RegisterSkill(def))
	}

	statuses := []*core.StatusDefinition{
		{ID: "burn", Name: "炎上", MaxStacks: 3, DurationTurns: 3, DamagePerTurn: 2,
			AttackMultiplier: 1.0, DefenseMultiplier: 1.0},
		{ID: "weaken", Name: "弱体", MaxStacks: 1, DurationTurns: 2,
			AttackMultiplier: 0.75, DefenseMultiplier: 1.0},
		{ID: "rally", Name: "鼓舞", MaxStacks: 1, DurationTurns: 2,
			AttackMultiplier: 1.25, DefenseMultiplier: 1.0},
	}
	for _, def := range statuses {
		require.NoError(t, gdm.RegisterStatus(def))
	}
}

// testUnit は標準ステータスのUnitSpecを返します。個別の値はテスト側で上書きします。
func testUnit(id string, team core.TeamID, profile core.ProfileID, cell core.GridPos, skills ...core.SkillID) entity.UnitSpec {
	facing := core.Direction{DX: 1, DY: 0}
	if team == core.Team2 {
		facing = core.Direction{DX: -1, DY: 0}
	}
	return entity.UnitSpec{
		ID:        id,
		Name:      id,
		Team:      team,
		ProfileID: profile,
		MaxHP:     30,
		Stamina:   30,
		Mana:      30,
		Attack:    10,
		Defense:   5,
		Speed:     5,
		Move:      2,
		Cell:      cell,
		Facing:    facing,
		Skills:    skills,
	}
}

// newTestLogic はテスト用のワールドとBattleLogicを構築します。
func newTestLogic(t *testing.T, specs []entity.UnitSpec) (*BattleLogic, []*donburi.Entry) {
	t.Helper()

	world := donburi.NewWorld()
	grid := NewBattleGrid(12, 8)
	gdm := data.NewGameDataManager()
	registerTestGameData(t, gdm)

	entries, err := entity.SetupBattle(world, specs)
	require.NoError(t, err)

	logic := NewBattleLogic(world, grid, data.DefaultConfig(), gdm, data.NewNopBattleLogger())
	return logic, entries
}

func setHP(entry *donburi.Entry, current int) {
	component.HealthComponent.Get(entry).Current = current
}

func cellOf(entry *donburi.Entry) core.GridPos {
	return component.PositionComponent.Get(entry).Cell
}
