package system

import (
	"sort"

	"github.com/yohamta/donburi"

	"github.com/yonti32-ux/roguelike-sub002/core"
	"github.com/yonti32-ux/roguelike-sub002/data"
	"github.com/yonti32-ux/roguelike-sub002/ecs/component"
)

// TargetThreat は(観測者, 対象)ペアごとの脅威スコアです。
// 決定のたびに再計算される一時的な値で、永続化されません。
type TargetThreat struct {
	Target *donburi.Entry
	Score  float64
}

// ThreatEvaluator は対象の脅威度を評価します。
// 現在の戦闘状態のみから計算する純粋な評価器で、副作用を持ちません。
type ThreatEvaluator struct {
	config *data.Config
	gdm    *data.GameDataManager
}

// NewThreatEvaluator は新しいThreatEvaluatorを生成します。
func NewThreatEvaluator(config *data.Config, gdm *data.GameDataManager) *ThreatEvaluator {
	return &ThreatEvaluator{config: config, gdm: gdm}
}

// CalculateThreatValue は観測者から見た対象の脅威度を計算します。
// 評価要素:
//   - 対象の攻撃能力（攻撃ステータス + 最大攻撃スキル威力）
//   - 残りHPの少なさによる「仕留めやすさ」ボーナス
//   - 支援役（回復持ち）への抑制ボーナス
//   - 観測者の射程外にいる対象への距離減点
func (t *ThreatEvaluator) CalculateThreatValue(observer, target *donburi.Entry) float64 {
	factors := t.config.Balance.Threat

	targetSettings := component.SettingsComponent.Get(target)
	offense := float64(targetSettings.Attack + BestOffensivePower(target, t.gdm))

	health := component.HealthComponent.Get(target)
	finish := (1.0 - health.Ratio()) * factors.FinishFactor

	roleBonus := 0.0
	if t.isSupportRole(target) {
		roleBonus = factors.SupportRoleBonus
	}

	observerPos := component.PositionComponent.Get(observer)
	targetPos := component.PositionComponent.Get(target)
	dist := core.Chebyshev(observerPos.Cell, targetPos.Cell)
	reach := MaxSkillRange(observer, t.gdm)
	penalty := 0.0
	if dist > reach {
		penalty = float64(dist-reach) * factors.RangePenaltyPerCell
	}

	return factors.OffenseFactor*offense + finish + roleBonus - penalty
}

// RankTargetsByThreat は候補を脅威スコアの降順で並べ替えて返します。
// 戻り値は candidates の並べ替えであり、要素の追加・削除は行いません。
// 同点時は現在HPが低い順、さらに出現インデックス順で固定します。
func (t *ThreatEvaluator) RankTargetsByThreat(observer *donburi.Entry, candidates []*donburi.Entry) []TargetThreat {
	ranked := make([]TargetThreat, 0, len(candidates))
	for _, candidate := range candidates {
		ranked = append(ranked, TargetThreat{
			Target: candidate,
			Score:  t.CalculateThreatValue(observer, candidate),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		iHealth := component.HealthComponent.Get(ranked[i].Target)
		jHealth := component.HealthComponent.Get(ranked[j].Target)
		if iHealth.Current != jHealth.Current {
			return iHealth.Current < jHealth.Current
		}
		return component.SettingsComponent.Get(ranked[i].Target).Index < component.SettingsComponent.Get(ranked[j].Target).Index
	})
	return ranked
}

// isSupportRole は対象が支援役かどうかを判定します。
// AIプロファイルがサポートであるか、回復スキルを保有していれば支援役とみなします。
func (t *ThreatEvaluator) isSupportRole(target *donburi.Entry) bool {
	if target.HasComponent(component.AIComponent) {
		if component.AIComponent.Get(target).ProfileID == core.ProfileSupport {
			return true
		}
	}
	return HasHealSkill(target, t.gdm)
}
