package core

import (
	"github.com/yohamta/donburi"
)

// DecisionKind はAIが1ターンに下す決定の種別です。
type DecisionKind string

const (
	DecisionUseSkill DecisionKind = "use_skill"
	DecisionMove     DecisionKind = "move"
	DecisionPass     DecisionKind = "pass"
	DecisionDefend   DecisionKind = "defend"
)

// Decision はAIの1ターン分の決定を表す成果物です。
// 戦闘エンジン（エグゼキュータ）が即座に消費し、永続化されません。
type Decision struct {
	Kind    DecisionKind
	SkillID SkillID
	// Target は単体対象スキルの対象エンティティです。
	Target *donburi.Entry
	// TargetCell はAoEスキルの中心セルです。単体対象では未使用です。
	TargetCell GridPos
	// MoveTo は移動決定の行き先セルです。
	MoveTo GridPos
	// Rationale はデバッグ用の決定理由です。エンジンの挙動には影響しません。
	Rationale string
}

// IsResolved は決定が何らかの種別を持つかどうかを返します。
func (d Decision) IsResolved() bool {
	return d.Kind != ""
}

// UseSkillDecision は単体対象スキルの決定を生成します。
func UseSkillDecision(skillID SkillID, target *donburi.Entry, rationale string) Decision {
	return Decision{
		Kind:       DecisionUseSkill,
		SkillID:    skillID,
		Target:     target,
		TargetCell: NoPosition,
		MoveTo:     NoPosition,
		Rationale:  rationale,
	}
}

// UseSkillAtCellDecision はAoEスキルの決定を生成します。
func UseSkillAtCellDecision(skillID SkillID, center GridPos, rationale string) Decision {
	return Decision{
		Kind:       DecisionUseSkill,
		SkillID:    skillID,
		TargetCell: center,
		MoveTo:     NoPosition,
		Rationale:  rationale,
	}
}

// MoveDecision は移動の決定を生成します。
func MoveDecision(to GridPos, rationale string) Decision {
	return Decision{
		Kind:       DecisionMove,
		TargetCell: NoPosition,
		MoveTo:     to,
		Rationale:  rationale,
	}
}

// PassDecision は「何もしない」決定を生成します。
func PassDecision(rationale string) Decision {
	return Decision{
		Kind:       DecisionPass,
		TargetCell: NoPosition,
		MoveTo:     NoPosition,
		Rationale:  rationale,
	}
}

// DefendDecision は防御姿勢を取るフォールバック決定を生成します。
// 有効なスキル・対象・位置が一つも解決できない場合でも、ターンは必ずこの決定で完結します。
func DefendDecision(rationale string) Decision {
	return Decision{
		Kind:       DecisionDefend,
		TargetCell: NoPosition,
		MoveTo:     NoPosition,
		Rationale:  rationale,
	}
}
