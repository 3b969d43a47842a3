package system

import (
	"github.com/yohamta/donburi"

	"github.com/yonti32-ux/roguelike-sub002/core"
	"github.com/yonti32-ux/roguelike-sub002/ecs/component"
)

// AIProfile はAIの行動方針（アーキタイプ）をカプセル化します。
// プロファイルはステートレスで、多数のユニットが同一インスタンスを共有します。
// 決定に必要な状態はすべて引数として渡されます。
type AIProfile interface {
	ID() core.ProfileID
	// ChooseTarget は現在の戦闘状態から主対象を選びます。対象がいなければnilです。
	ChooseTarget(entry *donburi.Entry, logic *BattleLogic) *donburi.Entry
	// ExecuteTurn は1ターン分の決定を構築します。
	// 脅威評価・スキル評価を呼び出し、必要に応じて連携・位置取りを参照します。
	ExecuteTurn(entry *donburi.Entry, logic *BattleLogic, healthRatio float64) core.Decision
}

// DefaultProfileID は未知のプロファイルタグに対するフォールバック先です。
const DefaultProfileID = core.ProfileBrute

// ProfileRegistry は、プロファイルタグをキーとしてAIProfileを保持するレジストリです。
// 新しいアーキタイプはここに登録するだけで利用可能になります。
var ProfileRegistry = map[core.ProfileID]AIProfile{
	core.ProfileBrute:      &BruteProfile{},
	core.ProfileSkirmisher: &SkirmisherProfile{},
	core.ProfileCaster:     &CasterProfile{},
	core.ProfileSupport:    &SupportProfile{},
}

// --- 共通ヘルパー ---

// buildSkillContext はスキル評価用のコンテキストを構築します。
func buildSkillContext(entry *donburi.Entry, logic *BattleLogic) SkillContext {
	world := logic.World()
	enemies := EnemiesOf(world, entry)
	return SkillContext{
		RankedThreats: logic.GetThreatEvaluator().RankTargetsByThreat(entry, enemies),
		Allies:        AlliesOf(world, entry),
		Enemies:       enemies,
	}
}

// chooseCoordinatedTarget は連携マネージャを優先しつつ最高脅威の対象を選びます。
func chooseCoordinatedTarget(entry *donburi.Entry, logic *BattleLogic) *donburi.Entry {
	world := logic.World()
	settings := component.SettingsComponent.Get(entry)
	candidates := EnemiesOf(world, entry)
	if len(candidates) == 0 {
		return nil
	}

	coordination := logic.GetCoordinationManager()
	if coordination.ShouldFocusFire(world, settings.Team) {
		if focus := coordination.GetFocusTarget(world, settings.Team, candidates); focus != nil {
			return focus
		}
	}

	ranked := logic.GetThreatEvaluator().RankTargetsByThreat(entry, candidates)
	return ranked[0].Target
}

// distanceTo は2ユニット間のチェビシェフ距離を返します。
func distanceTo(a, b *donburi.Entry) int {
	return core.Chebyshev(
		component.PositionComponent.Get(a).Cell,
		component.PositionComponent.Get(b).Cell,
	)
}

// inSkillRange は距離がスキルの射程帯に収まるかを返します。
func inSkillRange(def *core.SkillDefinition, dist int) bool {
	return dist >= def.MinRange && dist <= def.MaxRange
}

// selectHighestPowerSkill は攻撃スキルのうち威力最大のものを返します。
// 同威力は宣言順を優先します。
func selectHighestPowerSkill(usable []UsableSkill) (*core.SkillDefinition, bool) {
	var best *core.SkillDefinition
	maxPower := -1
	for _, skill := range usable {
		if skill.Def.Category != core.CategoryAttack {
			continue
		}
		if skill.Def.Power > maxPower {
			maxPower = skill.Def.Power
			best = skill.Def
		}
	}
	return best, best != nil
}

// selectBestOffensiveInRange は評価値順で最初に射程内に収まる攻撃系スキルを返します。
func selectBestOffensiveInRange(entry *donburi.Entry, logic *BattleLogic, ctx SkillContext, dist int) (*core.SkillDefinition, bool) {
	for _, scored := range logic.GetSkillPrioritizer().PrioritizeSkills(entry, ctx) {
		if !scored.Def.IsOffensive() || scored.Def.Shape == core.ShapeAoE {
			continue
		}
		if inSkillRange(scored.Def, dist) {
			return scored.Def, true
		}
	}
	return nil, false
}

// selectLongestRangedAttack は最大射程が最も長い攻撃スキルを返します。
func selectLongestRangedAttack(usable []UsableSkill) (*core.SkillDefinition, bool) {
	var best *core.SkillDefinition
	for _, skill := range usable {
		if skill.Def.Category != core.CategoryAttack {
			continue
		}
		if best == nil || skill.Def.MaxRange > best.MaxRange {
			best = skill.Def
		}
	}
	return best, best != nil && best.MaxRange > 1
}

// --- Brute ---

// BruteProfile は最高脅威の対象に最大威力のスキルを叩き込む単純なアーキタイプです。
// 位置取りの駆け引きは行わず、射程外なら直進します。
type BruteProfile struct{}

func (p *BruteProfile) ID() core.ProfileID { return core.ProfileBrute }

func (p *BruteProfile) ChooseTarget(entry *donburi.Entry, logic *BattleLogic) *donburi.Entry {
	return chooseCoordinatedTarget(entry, logic)
}

func (p *BruteProfile) ExecuteTurn(entry *donburi.Entry, logic *BattleLogic, healthRatio float64) core.Decision {
	target := p.ChooseTarget(entry, logic)
	if target == nil {
		return core.PassDecision("攻撃対象がいない")
	}

	usable := logic.GetSkillPrioritizer().UsableSkills(entry)
	def, ok := selectHighestPowerSkill(usable)
	if !ok {
		return core.DefendDecision("使用可能な攻撃スキルがない")
	}

	if inSkillRange(def, distanceTo(entry, target)) {
		return core.UseSkillDecision(def.ID, target, "最高脅威の対象へ最大威力で攻撃")
	}

	if cell, ok := logic.GetPositioningHelper().StepToward(logic.World(), entry, target); ok {
		return core.MoveDecision(cell, "対象が射程外のため接近")
	}
	return core.DefendDecision("対象に接近できない")
}

// --- Skirmisher ---

// SkirmisherProfile は挟撃位置の確保を攻撃より優先するアーキタイプです。
// HP率が防衛しきい値を下回ると退却を最優先します。
type SkirmisherProfile struct{}

func (p *SkirmisherProfile) ID() core.ProfileID { return core.ProfileSkirmisher }

func (p *SkirmisherProfile) ChooseTarget(entry *donburi.Entry, logic *BattleLogic) *donburi.Entry {
	return chooseCoordinatedTarget(entry, logic)
}

func (p *SkirmisherProfile) ExecuteTurn(entry *donburi.Entry, logic *BattleLogic, healthRatio float64) core.Decision {
	world := logic.World()
	positioning := logic.GetPositioningHelper()

	if healthRatio < logic.Config().Balance.Profile.SkirmisherRetreatRatio {
		if cell, ok := positioning.FindRetreatPosition(world, entry); ok {
			return core.MoveDecision(cell, "HP低下のため退却")
		}
	}

	target := p.ChooseTarget(entry, logic)
	if target == nil {
		return core.PassDecision("攻撃対象がいない")
	}

	unitPos := component.PositionComponent.Get(entry)
	settings := component.SettingsComponent.Get(entry)
	if !positioning.IsFlankingFrom(unitPos.Cell, target) {
		if cell, needMove := positioning.FindFlankingPosition(world, entry, target); needMove {
			if core.Chebyshev(unitPos.Cell, cell) <= settings.Move {
				return core.MoveDecision(cell, "挟撃位置へ回り込む")
			}
			if step, ok := positioning.StepToward(world, entry, target); ok {
				return core.MoveDecision(step, "挟撃位置が遠いためまず接近")
			}
		}
	}

	ctx := buildSkillContext(entry, logic)
	if def, ok := selectBestOffensiveInRange(entry, logic, ctx, distanceTo(entry, target)); ok {
		return core.UseSkillDecision(def.ID, target, "挟撃位置から攻撃")
	}
	if step, ok := positioning.StepToward(world, entry, target); ok {
		return core.MoveDecision(step, "射程内にスキルがないため接近")
	}
	return core.DefendDecision("有効な行動がない")
}

// --- Caster ---

// CasterProfile は射程の維持とAoE火力を優先するアーキタイプです。
// 近接された場合は攻撃よりも距離の立て直しを優先します。
type CasterProfile struct{}

func (p *CasterProfile) ID() core.ProfileID { return core.ProfileCaster }

func (p *CasterProfile) ChooseTarget(entry *donburi.Entry, logic *BattleLogic) *donburi.Entry {
	candidates := EnemiesOf(logic.World(), entry)
	if len(candidates) == 0 {
		return nil
	}
	return logic.GetThreatEvaluator().RankTargetsByThreat(entry, candidates)[0].Target
}

func (p *CasterProfile) ExecuteTurn(entry *donburi.Entry, logic *BattleLogic, healthRatio float64) core.Decision {
	world := logic.World()
	positioning := logic.GetPositioningHelper()

	target := p.ChooseTarget(entry, logic)
	if target == nil {
		return core.PassDecision("攻撃対象がいない")
	}

	usable := logic.GetSkillPrioritizer().UsableSkills(entry)

	// 近接されている場合、射程スキルを持つなら攻撃より先に距離を取り直します。
	if ranged, ok := selectLongestRangedAttack(usable); ok && p.adjacentEnemy(world, entry) {
		if cell, needMove := positioning.FindOptimalRangePosition(world, entry, target, ranged); needMove {
			return core.MoveDecision(cell, "近接されたため射程を確保")
		}
		if cell, ok := positioning.FindRetreatPosition(world, entry); ok && distanceTo(entry, target) < ranged.MinRange {
			return core.MoveDecision(cell, "適正射程が取れないため後退")
		}
	}

	ctx := buildSkillContext(entry, logic)
	minTargets := logic.Config().Balance.Profile.CasterAoEMinTargets

	// AoEを単体攻撃より優先します。十分な数を巻き込める場合のみです。
	for _, scored := range logic.GetSkillPrioritizer().PrioritizeSkills(entry, ctx) {
		if scored.Def.Shape != core.ShapeAoE || scored.Def.Category != core.CategoryAttack {
			continue
		}
		if center, count := positioning.FindOptimalAoEPosition(world, entry, scored.Def); count >= minTargets {
			return core.UseSkillAtCellDecision(scored.Def.ID, center, "敵集団へAoE攻撃")
		}
	}

	if def, ok := selectBestOffensiveInRange(entry, logic, ctx, distanceTo(entry, target)); ok {
		return core.UseSkillDecision(def.ID, target, "射程内の最高脅威へ攻撃")
	}

	// 射程外なら適正距離帯のセルへ移動します。
	if ranged, ok := selectLongestRangedAttack(usable); ok {
		if cell, needMove := positioning.FindOptimalRangePosition(world, entry, target, ranged); needMove {
			return core.MoveDecision(cell, "適正射程帯へ移動")
		}
	}
	if step, ok := positioning.StepToward(world, entry, target); ok {
		return core.MoveDecision(step, "対象が遠すぎるため接近")
	}
	return core.DefendDecision("有効な行動がない")
}

// adjacentEnemy は隣接セルに敵がいるかを返します。
func (p *CasterProfile) adjacentEnemy(world donburi.World, entry *donburi.Entry) bool {
	for _, enemy := range EnemiesOf(world, entry) {
		if distanceTo(entry, enemy) <= 1 {
			return true
		}
	}
	return false
}

// --- Support ---

// SupportProfile は味方のHP不足を敵の脅威より優先するアーキタイプです。
// 支援の必要がない場合はブルートと同じ行動にフォールバックします。
type SupportProfile struct{}

func (p *SupportProfile) ID() core.ProfileID { return core.ProfileSupport }

func (p *SupportProfile) ChooseTarget(entry *donburi.Entry, logic *BattleLogic) *donburi.Entry {
	if injured := p.injuredAlly(entry, logic); injured != nil {
		return injured
	}
	return chooseCoordinatedTarget(entry, logic)
}

func (p *SupportProfile) ExecuteTurn(entry *donburi.Entry, logic *BattleLogic, healthRatio float64) core.Decision {
	world := logic.World()

	injured := p.injuredAlly(entry, logic)
	if injured != nil {
		if def, ok := p.selectBestHeal(entry, logic, injured); ok {
			if inSkillRange(def, distanceTo(entry, injured)) {
				return core.UseSkillDecision(def.ID, injured, "最も負傷した味方を回復")
			}
			if step, ok := logic.GetPositioningHelper().StepToward(world, entry, injured); ok {
				return core.MoveDecision(step, "負傷した味方の射程へ接近")
			}
		}
	}

	// 支援の必要がなければブルートとして振る舞います。
	return ProfileRegistry[core.ProfileBrute].ExecuteTurn(entry, logic, healthRatio)
}

// injuredAlly は回復しきい値を下回る最も負傷した味方（自分を含む）を返します。
func (p *SupportProfile) injuredAlly(entry *donburi.Entry, logic *BattleLogic) *donburi.Entry {
	candidates := append([]*donburi.Entry{entry}, AlliesOf(logic.World(), entry)...)
	worst := mostInjured(candidates)
	if worst == nil {
		return nil
	}
	if component.HealthComponent.Get(worst).Ratio() >= logic.Config().Balance.Profile.SupportHealRatio {
		return nil
	}
	return worst
}

// selectBestHeal は injured を対象にできる回復スキルのうち評価値が最も高いものを返します。
// 自己回復専用スキルは対象が自分自身のときに限り候補になります。
func (p *SupportProfile) selectBestHeal(entry *donburi.Entry, logic *BattleLogic, injured *donburi.Entry) (*core.SkillDefinition, bool) {
	ctx := buildSkillContext(entry, logic)
	for _, scored := range logic.GetSkillPrioritizer().PrioritizeSkills(entry, ctx) {
		if scored.Def.Category != core.CategoryHeal {
			continue
		}
		if scored.Def.Shape == core.ShapeSelf && injured.Entity() != entry.Entity() {
			continue
		}
		return scored.Def, true
	}
	return nil, false
}
