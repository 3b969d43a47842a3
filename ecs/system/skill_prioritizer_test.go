package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yohamta/donburi"

	"github.com/yonti32-ux/roguelike-sub002/core"
	"github.com/yonti32-ux/roguelike-sub002/ecs/component"
	"github.com/yonti32-ux/roguelike-sub002/ecs/entity"
)

func skillIDs(usable []UsableSkill) []core.SkillID {
	ids := make([]core.SkillID, 0, len(usable))
	for _, skill := range usable {
		ids = append(ids, skill.Def.ID)
	}
	return ids
}

func TestUsableSkills_ExcludesCooldownAndCost(t *testing.T) {
	logic, entries := newTestLogic(t, []entity.UnitSpec{
		testUnit("actor", core.Team1, core.ProfileBrute, core.GridPos{X: 4, Y: 4}, "slash", "heavy_blow", "ignite"),
		testUnit("enemy", core.Team2, core.ProfileBrute, core.GridPos{X: 5, Y: 4}, "slash"),
	})
	actor := entries[0]

	// heavy_blow をクールダウン中に、マナを枯渇させて ignite を使用不能にします。
	skills := component.SkillsComponent.Get(actor)
	skills.List[1].CooldownLeft = 2
	component.ResourcesComponent.Get(actor).Mana = 0

	usable := logic.GetSkillPrioritizer().UsableSkills(actor)

	assert.Equal(t, []core.SkillID{"slash"}, skillIDs(usable), "クールダウン中とコスト不足は候補から除外される")
}

func TestEvaluateSkillValue_SynergyBonus(t *testing.T) {
	logic, entries := newTestLogic(t, []entity.UnitSpec{
		testUnit("caster", core.Team1, core.ProfileCaster, core.GridPos{X: 4, Y: 4}, "pyro_burst"),
		testUnit("enemy", core.Team2, core.ProfileBrute, core.GridPos{X: 6, Y: 4}, "slash"),
	})
	caster := entries[0]
	enemy := entries[1]
	prioritizer := logic.GetSkillPrioritizer()

	def, ok := logic.GetGameDataManager().GetSkillDefinition("pyro_burst")
	require.True(t, ok)

	ctx := SkillContext{
		RankedThreats: logic.GetThreatEvaluator().RankTargetsByThreat(caster, []*donburi.Entry{enemy}),
		Enemies:       []*donburi.Entry{enemy},
	}
	before := prioritizer.EvaluateSkillValue(caster, def, ctx)

	logic.GetStatusEffectSystem().ApplyStatus(enemy, "burn")
	after := prioritizer.EvaluateSkillValue(caster, def, ctx)

	bonus := logic.Config().Balance.Skill.SynergyBonus
	assert.InDelta(t, before+bonus, after, 1e-9, "燃焼中の対象へのパイロバーストはシナジーボーナスを得る")
}

func TestEvaluateSkillValue_RedundancyPenaltyAtMaxStacks(t *testing.T) {
	logic, entries := newTestLogic(t, []entity.UnitSpec{
		testUnit("caster", core.Team1, core.ProfileCaster, core.GridPos{X: 4, Y: 4}, "ignite"),
		testUnit("enemy", core.Team2, core.ProfileBrute, core.GridPos{X: 6, Y: 4}, "slash"),
	})
	caster := entries[0]
	enemy := entries[1]
	prioritizer := logic.GetSkillPrioritizer()

	def, ok := logic.GetGameDataManager().GetSkillDefinition("ignite")
	require.True(t, ok)

	ctx := SkillContext{
		RankedThreats: logic.GetThreatEvaluator().RankTargetsByThreat(caster, []*donburi.Entry{enemy}),
		Enemies:       []*donburi.Entry{enemy},
	}
	before := prioritizer.EvaluateSkillValue(caster, def, ctx)

	// burn を最大スタックまで積みます。
	for i := 0; i < 3; i++ {
		logic.GetStatusEffectSystem().ApplyStatus(enemy, "burn")
	}
	after := prioritizer.EvaluateSkillValue(caster, def, ctx)

	penalty := logic.Config().Balance.Skill.RedundancyPenalty
	assert.InDelta(t, before-penalty, after, 1e-9, "最大スタック済みのステータス付与は減点される")
}

func TestEvaluateSkillValue_HealScoresZeroWithoutInjury(t *testing.T) {
	logic, entries := newTestLogic(t, []entity.UnitSpec{
		testUnit("support", core.Team1, core.ProfileSupport, core.GridPos{X: 4, Y: 4}, "mend"),
		testUnit("ally", core.Team1, core.ProfileBrute, core.GridPos{X: 4, Y: 5}, "slash"),
		testUnit("enemy", core.Team2, core.ProfileBrute, core.GridPos{X: 8, Y: 4}, "slash"),
	})
	support := entries[0]
	ally := entries[1]
	prioritizer := logic.GetSkillPrioritizer()

	def, ok := logic.GetGameDataManager().GetSkillDefinition("mend")
	require.True(t, ok)

	ctx := SkillContext{Allies: []*donburi.Entry{ally}}
	assert.Zero(t, prioritizer.EvaluateSkillValue(support, def, ctx), "負傷者がいなければ回復の評価値は0")

	setHP(ally, 10)
	healFactor := logic.Config().Balance.Skill.HealFactor
	assert.InDelta(t, 16*healFactor, prioritizer.EvaluateSkillValue(support, def, ctx), 1e-9,
		"回復量は不足分を上限として評価される")
}

func TestMostInjured_TiesPreferLowerSpawnIndex(t *testing.T) {
	_, entries := newTestLogic(t, []entity.UnitSpec{
		testUnit("first", core.Team1, core.ProfileBrute, core.GridPos{X: 4, Y: 4}, "slash"),
		testUnit("second", core.Team1, core.ProfileBrute, core.GridPos{X: 4, Y: 5}, "slash"),
		testUnit("enemy", core.Team2, core.ProfileBrute, core.GridPos{X: 8, Y: 4}, "slash"),
	})
	first := entries[0]
	second := entries[1]
	setHP(first, 10)
	setHP(second, 10)

	// 渡す順序に依らず、同率なら出現インデックスの小さい方が選ばれる。
	worst := mostInjured([]*donburi.Entry{second, first})
	require.NotNil(t, worst)
	assert.Equal(t, first.Entity(), worst.Entity())
}

func TestPrioritizeSkills_TiesKeepDeclarationOrder(t *testing.T) {
	// 同一定義を2スロットに持たせ、同点時の並びが宣言順であることを確認します。
	logic, entries := newTestLogic(t, []entity.UnitSpec{
		testUnit("actor", core.Team1, core.ProfileBrute, core.GridPos{X: 4, Y: 4}, "slash", "slash"),
		testUnit("enemy", core.Team2, core.ProfileBrute, core.GridPos{X: 5, Y: 4}, "slash"),
	})
	actor := entries[0]
	enemy := entries[1]

	ctx := SkillContext{
		RankedThreats: logic.GetThreatEvaluator().RankTargetsByThreat(actor, []*donburi.Entry{enemy}),
		Enemies:       []*donburi.Entry{enemy},
	}
	scored := logic.GetSkillPrioritizer().PrioritizeSkills(actor, ctx)

	require.Len(t, scored, 2)
	assert.Equal(t, 0, scored[0].Slot)
	assert.Equal(t, 1, scored[1].Slot)
}

func TestPrioritizeSkills_AoEOutscoresSingleAgainstCluster(t *testing.T) {
	logic, entries := newTestLogic(t, []entity.UnitSpec{
		testUnit("caster", core.Team1, core.ProfileCaster, core.GridPos{X: 2, Y: 4}, "ignite", "fireball"),
		testUnit("e1", core.Team2, core.ProfileBrute, core.GridPos{X: 6, Y: 4}, "slash"),
		testUnit("e2", core.Team2, core.ProfileBrute, core.GridPos{X: 6, Y: 5}, "slash"),
		testUnit("e3", core.Team2, core.ProfileBrute, core.GridPos{X: 7, Y: 4}, "slash"),
	})
	caster := entries[0]
	enemies := EnemiesOf(logic.World(), caster)

	ctx := SkillContext{
		RankedThreats: logic.GetThreatEvaluator().RankTargetsByThreat(caster, enemies),
		Enemies:       enemies,
	}
	scored := logic.GetSkillPrioritizer().PrioritizeSkills(caster, ctx)

	require.NotEmpty(t, scored)
	assert.Equal(t, core.SkillID("fireball"), scored[0].Def.ID, "密集した敵にはAoEが単体攻撃を上回る")
}
