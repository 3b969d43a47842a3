package data

// Config はゲーム全体の設定を保持します。
type Config struct {
	Game    GameConfig
	Balance BalanceConfig
}

// GameConfig はゲーム進行に関する設定です。
type GameConfig struct {
	// RandomSeed はダメージ乱数のシードです。0なら実行ごとに変わります。
	RandomSeed int64
	// MaxRounds はラウンド数の上限です。超えた場合は引き分けとして打ち切ります。
	MaxRounds int
}

// BalanceConfig はAI評価式と戦闘計算式の係数を保持します。
// 係数の具体値はbalance.yaml（なければデフォルト値）から読み込まれます。
type BalanceConfig struct {
	Threat       ThreatFactors
	Skill        SkillFactors
	Profile      ProfileFactors
	Damage       DamageFactors
	Coordination CoordinationFactors
}

// ThreatFactors は脅威度評価の係数です。
type ThreatFactors struct {
	// OffenseFactor は対象の攻撃能力（攻撃ステータス+最大スキル威力）に掛かる係数です。
	OffenseFactor float64
	// FinishFactor は残りHP率の低さに応じた「仕留めやすさ」ボーナスの最大値です。
	FinishFactor float64
	// SupportRoleBonus は回復役を抑え込むために支援系の対象へ加算されるボーナスです。
	SupportRoleBonus float64
	// RangePenaltyPerCell は観測者の射程外1セルごとの減点です。
	RangePenaltyPerCell float64
}

// SkillFactors はスキル優先度評価の係数です。
type SkillFactors struct {
	AttackPowerFactor float64
	HealFactor        float64
	// UtilityBase はバフ・デバフ系スキルの基本評価値です。
	UtilityBase float64
	// SynergyBonus は対象が既にシナジー対象のステータスを持つ場合のボーナスです。
	SynergyBonus float64
	// RedundancyPenalty は最大スタック済みのステータスを重ねようとした場合の減点です。
	RedundancyPenalty float64
}

// ProfileFactors は各プロファイルの行動しきい値です。
type ProfileFactors struct {
	// SkirmisherRetreatRatio を下回るHP率のスカーミッシャーは退却を優先します。
	SkirmisherRetreatRatio float64
	// SupportHealRatio を下回るHP率の味方がいる場合、サポートは回復を優先します。
	SupportHealRatio float64
	// CasterAoEMinTargets はキャスターがAoEを単体攻撃より優先する最小巻き込み数です。
	CasterAoEMinTargets int
}

// DamageFactors はダメージ計算の係数です。
type DamageFactors struct {
	AttackStatFactor   float64
	DefenseStatFactor  float64
	CriticalChance     int
	CriticalMultiplier float64
}

// CoordinationFactors は集中攻撃判定の係数です。
type CoordinationFactors struct {
	// MinAttackers は集中攻撃を推奨するために同一対象へ届く必要のある味方数です。
	MinAttackers int
}
