package system

import (
	"sort"

	"github.com/yohamta/donburi"

	"github.com/yonti32-ux/roguelike-sub002/core"
	"github.com/yonti32-ux/roguelike-sub002/data"
	"github.com/yonti32-ux/roguelike-sub002/ecs/component"
)

// UsableSkill は現時点で使用可能なスキルとその宣言位置です。
type UsableSkill struct {
	// Slot はスキルリスト内の宣言位置です。同点時のタイブレークに使用します。
	Slot int
	Def  *core.SkillDefinition
}

// ScoredSkill は評価済みのスキルです。
type ScoredSkill struct {
	UsableSkill
	Score float64
}

// SkillContext はスキル評価に必要な状況情報です。
type SkillContext struct {
	// RankedThreats はThreatEvaluatorが返す脅威度順の対象リストです。
	RankedThreats []TargetThreat
	Allies        []*donburi.Entry
	Enemies       []*donburi.Entry
}

// TopThreat は最高脅威の対象を返します。候補がない場合はnilです。
func (c SkillContext) TopThreat() *donburi.Entry {
	if len(c.RankedThreats) == 0 {
		return nil
	}
	return c.RankedThreats[0].Target
}

// SkillPrioritizer は使用可能スキルの絞り込みと評価を行います。
type SkillPrioritizer struct {
	config *data.Config
	gdm    *data.GameDataManager
}

// NewSkillPrioritizer は新しいSkillPrioritizerを生成します。
func NewSkillPrioritizer(config *data.Config, gdm *data.GameDataManager) *SkillPrioritizer {
	return &SkillPrioritizer{config: config, gdm: gdm}
}

// UsableSkills はクールダウン中・コスト不足のスキルを除外した使用可能リストを返します。
// 除外であって減点ではない点に注意してください。評価対象にすら入りません。
func (s *SkillPrioritizer) UsableSkills(entry *donburi.Entry) []UsableSkill {
	skills := component.SkillsComponent.Get(entry)
	resources := component.ResourcesComponent.Get(entry)

	usable := []UsableSkill{}
	for slot, state := range skills.List {
		if state.CooldownLeft > 0 {
			continue
		}
		def, ok := s.gdm.GetSkillDefinition(state.ID)
		if !ok {
			continue
		}
		if def.Cost > resources.Pool(def.CostResource) {
			continue
		}
		usable = append(usable, UsableSkill{Slot: slot, Def: def})
	}
	return usable
}

// EvaluateSkillValue は現在の状況に対するスキルの評価値を返します。
// 攻撃は最高脅威の対象への期待値、回復は最も負傷した味方の不足分、
// バフ・デバフは基本効用で評価し、シナジーボーナスと重複減点を加味します。
func (s *SkillPrioritizer) EvaluateSkillValue(entry *donburi.Entry, def *core.SkillDefinition, ctx SkillContext) float64 {
	factors := s.config.Balance.Skill
	score := 0.0

	switch def.Category {
	case core.CategoryAttack:
		expected := float64(def.Power)
		if def.Shape == core.ShapeAoE {
			expected *= float64(s.estimateAoETargets(def, ctx))
		}
		score = expected * factors.AttackPowerFactor
		if target := ctx.TopThreat(); target != nil {
			score += s.synergyAdjustment(target, def)
		}

	case core.CategoryHeal:
		ally := mostInjured(append([]*donburi.Entry{entry}, ctx.Allies...))
		if ally == nil {
			return 0
		}
		health := component.HealthComponent.Get(ally)
		deficit := health.Max - health.Current
		if deficit <= 0 {
			return 0
		}
		healed := def.Power
		if healed > deficit {
			healed = deficit
		}
		score = float64(healed) * factors.HealFactor

	case core.CategoryBuff:
		score = factors.UtilityBase
		if def.AppliesStatus != "" && s.atMaxStacks(entry, def.AppliesStatus) {
			score -= factors.RedundancyPenalty
		}

	case core.CategoryDebuff:
		score = factors.UtilityBase
		if target := ctx.TopThreat(); target != nil {
			score += s.synergyAdjustment(target, def)
		}
	}

	return score
}

// PrioritizeSkills は使用可能スキルを評価値の降順で返します。
// 同点時はスキルリストの宣言順を維持します（安定ソート）。
func (s *SkillPrioritizer) PrioritizeSkills(entry *donburi.Entry, ctx SkillContext) []ScoredSkill {
	scored := []ScoredSkill{}
	for _, usable := range s.UsableSkills(entry) {
		scored = append(scored, ScoredSkill{
			UsableSkill: usable,
			Score:       s.EvaluateSkillValue(entry, usable.Def, ctx),
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

// synergyAdjustment は対象の保持ステータスに応じたボーナス・減点を返します。
func (s *SkillPrioritizer) synergyAdjustment(target *donburi.Entry, def *core.SkillDefinition) float64 {
	factors := s.config.Balance.Skill
	adjustment := 0.0
	if def.SynergyStatus != "" && HasStatus(target, def.SynergyStatus) {
		adjustment += factors.SynergyBonus
	}
	if def.AppliesStatus != "" && s.atMaxStacks(target, def.AppliesStatus) {
		adjustment -= factors.RedundancyPenalty
	}
	return adjustment
}

// atMaxStacks は対象の指定ステータスが最大スタックに達しているかを返します。
func (s *SkillPrioritizer) atMaxStacks(target *donburi.Entry, id core.StatusID) bool {
	def, ok := s.gdm.GetStatusDefinition(id)
	if !ok {
		return false
	}
	return StatusStacks(target, id) >= def.MaxStacks
}

// estimateAoETargets はAoEスキルで同時に巻き込める敵数の見積もりを返します。
// 敵の現在配置から、いずれかの敵を中心とした半径内の最大密集数を数えます。
func (s *SkillPrioritizer) estimateAoETargets(def *core.SkillDefinition, ctx SkillContext) int {
	if len(ctx.Enemies) == 0 {
		return 0
	}
	best := 1
	for _, center := range ctx.Enemies {
		centerPos := component.PositionComponent.Get(center)
		count := 0
		for _, enemy := range ctx.Enemies {
			enemyPos := component.PositionComponent.Get(enemy)
			if core.Chebyshev(centerPos.Cell, enemyPos.Cell) <= def.AoERadius {
				count++
			}
		}
		if count > best {
			best = count
		}
	}
	return best
}

// mostInjured はHP率が最も低いユニットを返します。満タンのみなら、その中で最も率の低いものを返します。
// 同率時は出現インデックス順で固定します。
func mostInjured(units []*donburi.Entry) *donburi.Entry {
	var worst *donburi.Entry
	worstRatio := 0.0
	for _, unit := range units {
		ratio := component.HealthComponent.Get(unit).Ratio()
		switch {
		case worst == nil || ratio < worstRatio:
			worst = unit
			worstRatio = ratio
		case ratio == worstRatio &&
			component.SettingsComponent.Get(unit).Index < component.SettingsComponent.Get(worst).Index:
			worst = unit
		}
	}
	return worst
}
