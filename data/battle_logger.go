package data

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/yonti32-ux/roguelike-sub002/core"
)

// BattleLogger は戦闘ログを構造化して出力します。
// AIの決定理由はdebugレベル、戦闘結果はinfoレベルで記録します。
type BattleLogger struct {
	logger zerolog.Logger
}

// NewBattleLogger は指定のWriterへ出力するBattleLoggerを生成します。
func NewBattleLogger(w io.Writer) *BattleLogger {
	return &BattleLogger{
		logger: zerolog.New(w).With().Timestamp().Logger(),
	}
}

// NewNopBattleLogger は何も出力しないBattleLoggerを生成します。主にテスト用です。
func NewNopBattleLogger() *BattleLogger {
	return &BattleLogger{logger: zerolog.Nop()}
}

// Raw は内部のzerologロガーを返します。
func (l *BattleLogger) Raw() *zerolog.Logger {
	return &l.logger
}

// LogDecision はAIの決定内容を記録します。
func (l *BattleLogger) LogDecision(unitName string, profileID core.ProfileID, d core.Decision) {
	l.logger.Debug().
		Str("unit", unitName).
		Str("profile", string(profileID)).
		Str("kind", string(d.Kind)).
		Str("skill", string(d.SkillID)).
		Str("rationale", d.Rationale).
		Msg("AI決定")
}

// LogTurnStart はユニットのターン開始を記録します。
func (l *BattleLogger) LogTurnStart(round int, unitName string) {
	l.logger.Debug().Int("round", round).Str("unit", unitName).Msg("ターン開始")
}

// LogSkillUsed はスキル使用の結果を記録します。
func (l *BattleLogger) LogSkillUsed(actorName, skillName, targetName string, damage, healed int, isCritical bool) {
	ev := l.logger.Info().
		Str("actor", actorName).
		Str("skill", skillName).
		Str("target", targetName)
	if damage > 0 {
		ev = ev.Int("damage", damage).Bool("critical", isCritical)
	}
	if healed > 0 {
		ev = ev.Int("healed", healed)
	}
	ev.Msg("スキル使用")
}

// LogMove はユニットの移動を記録します。
func (l *BattleLogger) LogMove(unitName string, from, to core.GridPos) {
	l.logger.Info().
		Str("unit", unitName).
		Ints("from", []int{from.X, from.Y}).
		Ints("to", []int{to.X, to.Y}).
		Msg("移動")
}

// LogStatusApplied はステータス効果の付与を記録します。
func (l *BattleLogger) LogStatusApplied(targetName string, statusID core.StatusID, stacks int) {
	l.logger.Info().
		Str("target", targetName).
		Str("status", string(statusID)).
		Int("stacks", stacks).
		Msg("ステータス効果付与")
}

// LogUnitDefeated はユニットの戦闘不能を記録します。
func (l *BattleLogger) LogUnitDefeated(unitName string) {
	l.logger.Info().Str("unit", unitName).Msg("戦闘不能")
}

// LogBattleEnd は戦闘終了と勝敗を記録します。
func (l *BattleLogger) LogBattleEnd(winner core.TeamID, rounds int) {
	l.logger.Info().Int("winner", int(winner)).Int("rounds", rounds).Msg("戦闘終了")
}
