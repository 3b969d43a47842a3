package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/yohamta/donburi"

	"github.com/yonti32-ux/roguelike-sub002/core"
	"github.com/yonti32-ux/roguelike-sub002/data"
	"github.com/yonti32-ux/roguelike-sub002/ecs/entity"
	"github.com/yonti32-ux/roguelike-sub002/ecs/system"
)

// main はヘッドレスのデモ戦闘を1回実行します。
// 設定とスキルデータを読み込み、2チームを配置して決着までループを回します。
func main() {
	logger := data.NewBattleLogger(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.TimeOnly})

	cfg, err := data.LoadConfig(".")
	if err != nil {
		logger.Raw().Fatal().Err(err).Msg("設定の読み込みに失敗しました")
	}

	gdm := data.NewGameDataManager()
	if err := data.LoadSkillsCSV(gdm, "assets/skills.csv"); err != nil {
		logger.Raw().Fatal().Err(err).Msg("スキルデータの読み込みに失敗しました")
	}
	registerStatuses(gdm, logger)

	world := donburi.NewWorld()
	grid := system.NewBattleGrid(12, 8)
	if _, err := entity.SetupBattle(world, demoRoster()); err != nil {
		logger.Raw().Fatal().Err(err).Msg("ユニットの生成に失敗しました")
	}

	logic := system.NewBattleLogic(world, grid, cfg, gdm, logger)
	runner := system.NewBattleRunner(logic)
	winner, rounds := runner.Run()

	logger.Raw().Info().
		Int("winner", int(winner)).
		Int("rounds", rounds).
		Int("events", len(runner.Events())).
		Msg("デモ戦闘が終了しました")
}

func registerStatuses(gdm *data.GameDataManager, logger *data.BattleLogger) {
	statuses := []*core.StatusDefinition{
		{ID: "burn", Name: "炎上", MaxStacks: 3, DurationTurns: 3, DamagePerTurn: 2, AttackMultiplier: 1.0, DefenseMultiplier: 1.0},
		{ID: "weaken", Name: "弱体", MaxStacks: 1, DurationTurns: 2, AttackMultiplier: 0.75, DefenseMultiplier: 1.0},
		{ID: "rally", Name: "鼓舞", MaxStacks: 1, DurationTurns: 2, AttackMultiplier: 1.25, DefenseMultiplier: 1.0},
	}
	for _, def := range statuses {
		if err := gdm.RegisterStatus(def); err != nil {
			logger.Raw().Fatal().Err(err).Msg("ステータス定義の登録に失敗しました")
		}
	}
}

// demoRoster は4対4のデモ編成を返します。各チームに全アーキタイプを1体ずつです。
func demoRoster() []entity.UnitSpec {
	east := core.Direction{DX: 1, DY: 0}
	west := core.Direction{DX: -1, DY: 0}
	return []entity.UnitSpec{
		{ID: "t1_brute", Name: "ガルド", Team: core.Team1, ProfileID: core.ProfileBrute,
			MaxHP: 40, Stamina: 30, Attack: 12, Defense: 8, Speed: 6, Move: 2,
			Cell: core.GridPos{X: 1, Y: 2}, Facing: east,
			Skills: []core.SkillID{"slash", "heavy_blow"}},
		{ID: "t1_skirmisher", Name: "リノ", Team: core.Team1, ProfileID: core.ProfileSkirmisher,
			MaxHP: 28, Stamina: 30, Attack: 10, Defense: 5, Speed: 9, Move: 3,
			Cell: core.GridPos{X: 1, Y: 4}, Facing: east,
			Skills: []core.SkillID{"slash", "shot"}},
		{ID: "t1_caster", Name: "ミラ", Team: core.Team1, ProfileID: core.ProfileCaster,
			MaxHP: 24, Stamina: 10, Mana: 40, Attack: 11, Defense: 4, Speed: 7, Move: 2,
			Cell: core.GridPos{X: 0, Y: 3}, Facing: east,
			Skills: []core.SkillID{"ignite", "pyro_burst", "fireball"}},
		{ID: "t1_support", Name: "ソル", Team: core.Team1, ProfileID: core.ProfileSupport,
			MaxHP: 26, Stamina: 15, Mana: 40, Attack: 8, Defense: 6, Speed: 5, Move: 2,
			Cell: core.GridPos{X: 0, Y: 5}, Facing: east,
			Skills: []core.SkillID{"mend", "slash", "war_cry"}},
		{ID: "t2_brute", Name: "ドルグ", Team: core.Team2, ProfileID: core.ProfileBrute,
			MaxHP: 40, Stamina: 30, Attack: 12, Defense: 8, Speed: 6, Move: 2,
			Cell: core.GridPos{X: 10, Y: 5}, Facing: west,
			Skills: []core.SkillID{"slash", "heavy_blow"}},
		{ID: "t2_skirmisher", Name: "カゲ", Team: core.Team2, ProfileID: core.ProfileSkirmisher,
			MaxHP: 28, Stamina: 30, Attack: 10, Defense: 5, Speed: 9, Move: 3,
			Cell: core.GridPos{X: 10, Y: 3}, Facing: west,
			Skills: []core.SkillID{"slash", "shot"}},
		{ID: "t2_caster", Name: "ゼフ", Team: core.Team2, ProfileID: core.ProfileCaster,
			MaxHP: 24, Stamina: 10, Mana: 40, Attack: 11, Defense: 4, Speed: 7, Move: 2,
			Cell: core.GridPos{X: 11, Y: 4}, Facing: west,
			Skills: []core.SkillID{"ignite", "pyro_burst", "fireball"}},
		{ID: "t2_support", Name: "ユノ", Team: core.Team2, ProfileID: core.ProfileSupport,
			MaxHP: 26, Stamina: 15, Mana: 40, Attack: 8, Defense: 6, Speed: 5, Move: 2,
			Cell: core.GridPos{X: 11, Y: 2}, Facing: west,
			Skills: []core.SkillID{"mend", "slash", "war_cry"}},
	}
}
