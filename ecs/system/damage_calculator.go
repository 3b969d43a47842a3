package system

import (
	"math/rand"

	"github.com/yohamta/donburi"

	"github.com/yonti32-ux/roguelike-sub002/core"
	"github.com/yonti32-ux/roguelike-sub002/data"
	"github.com/yonti32-ux/roguelike-sub002/ecs/component"
)

// DamageCalculator はダメージと回復量の計算をカプセル化します。
// 乱数を使うのはクリティカル判定のみです。
type DamageCalculator struct {
	config *data.Config
	gdm    *data.GameDataManager
	rand   *rand.Rand
}

// NewDamageCalculator は新しいDamageCalculatorを生成します。
func NewDamageCalculator(config *data.Config, gdm *data.GameDataManager, rng *rand.Rand) *DamageCalculator {
	return &DamageCalculator{config: config, gdm: gdm, rand: rng}
}

// CalculateDamage は攻撃スキルのダメージを計算します。
// 基本値 = スキル威力 + 攻撃側の攻撃ステータス補正 - 対象の防御ステータス補正。
// ステータス効果による攻撃・防御倍率を適用した後、クリティカル判定を行います。
// 戻り値は(ダメージ, クリティカルかどうか)で、ダメージは最低1になります。
func (d *DamageCalculator) CalculateDamage(attacker, target *donburi.Entry, def *core.SkillDefinition) (int, bool) {
	factors := d.config.Balance.Damage
	attackerSettings := component.SettingsComponent.Get(attacker)
	targetSettings := component.SettingsComponent.Get(target)

	attack := float64(attackerSettings.Attack) * factors.AttackStatFactor * d.statusMultiplier(attacker, pickAttackMultiplier)
	defense := float64(targetSettings.Defense) * factors.DefenseStatFactor * d.statusMultiplier(target, pickDefenseMultiplier)

	damage := float64(def.Power) + attack - defense

	isCritical := false
	if d.rand.Intn(100) < factors.CriticalChance {
		damage *= factors.CriticalMultiplier
		isCritical = true
	}

	if damage < 1 {
		damage = 1
	}
	return int(damage), isCritical
}

// CalculateHeal は回復量を計算します。対象の不足分を超えて回復しません。
func (d *DamageCalculator) CalculateHeal(target *donburi.Entry, def *core.SkillDefinition) int {
	health := component.HealthComponent.Get(target)
	deficit := health.Max - health.Current
	if deficit <= 0 {
		return 0
	}
	if def.Power < deficit {
		return def.Power
	}
	return deficit
}

func pickAttackMultiplier(def *core.StatusDefinition) float64  { return def.AttackMultiplier }
func pickDefenseMultiplier(def *core.StatusDefinition) float64 { return def.DefenseMultiplier }

// statusMultiplier は付与中のステータス効果による倍率の積を返します。
// 倍率はスタック数ぶん累乗されます。
func (d *DamageCalculator) statusMultiplier(entry *donburi.Entry, pick func(*core.StatusDefinition) float64) float64 {
	multiplier := 1.0
	if !entry.HasComponent(component.StatusEffectsComponent) {
		return multiplier
	}
	statuses := component.StatusEffectsComponent.Get(entry)
	for _, active := range statuses.Active {
		def, ok := d.gdm.GetStatusDefinition(active.ID)
		if !ok {
			continue
		}
		m := pick(def)
		if m > 0 {
			for i := 0; i < active.Stacks; i++ {
				multiplier *= m
			}
		}
	}
	return multiplier
}
