package core

// --- Enums and Constants ---

type TeamID int
type StateType string
type ProfileID string
type SkillID string
type StatusID string
type SkillCategory string
type TargetingShape string
type ResourceKind string

const (
	Team1    TeamID = 0
	Team2    TeamID = 1
	TeamNone TeamID = -1
)

const (
	StateIdle     StateType = "idle"
	StateGuarding StateType = "guarding"
	StateBroken   StateType = "broken"
)

const (
	ProfileBrute      ProfileID = "brute"
	ProfileSkirmisher ProfileID = "skirmisher"
	ProfileCaster     ProfileID = "caster"
	ProfileSupport    ProfileID = "support"
)

const (
	CategoryAttack SkillCategory = "attack"
	CategoryHeal   SkillCategory = "heal"
	CategoryBuff   SkillCategory = "buff"
	CategoryDebuff SkillCategory = "debuff"
)

const (
	ShapeSingle TargetingShape = "single"
	ShapeAoE    TargetingShape = "aoe"
	ShapeSelf   TargetingShape = "self"
	ShapeAlly   TargetingShape = "ally"
)

const (
	ResourceStamina ResourceKind = "stamina"
	ResourceMana    ResourceKind = "mana"
)

// OpponentOf は敵対するチームIDを返します。
func OpponentOf(team TeamID) TeamID {
	if team == Team1 {
		return Team2
	}
	return Team1
}

// --- Grid ---

// GridPos は戦闘グリッド上の離散セル座標です。
type GridPos struct {
	X int
	Y int
}

// NoPosition は「有効なセルなし」を示すセンチネル値です。
var NoPosition = GridPos{X: -1, Y: -1}

// IsValid はセンチネルでない座標かどうかを返します。グリッド境界の判定は行いません。
func (p GridPos) IsValid() bool {
	return p.X >= 0 && p.Y >= 0
}

// Chebyshev は2セル間のチェビシェフ距離（8方向移動での歩数）を返します。
func Chebyshev(a, b GridPos) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}

// Direction はグリッド上の向きを単位成分(-1/0/+1)で表します。
type Direction struct {
	DX int
	DY int
}

// DirectionBetween は from から to への向きを単位成分に正規化して返します。
func DirectionBetween(from, to GridPos) Direction {
	return Direction{DX: sign(to.X - from.X), DY: sign(to.Y - from.Y)}
}

// Dot は2方向の内積を返します。正なら同方向、負なら逆方向です。
func (d Direction) Dot(other Direction) int {
	return d.DX*other.DX + d.DY*other.DY
}

// IsZero は向きが未設定かどうかを返します。
func (d Direction) IsZero() bool {
	return d.DX == 0 && d.DY == 0
}

func sign(v int) int {
	if v > 0 {
		return 1
	}
	if v < 0 {
		return -1
	}
	return 0
}

// --- Definitions ---

// SkillDefinition はスキルの静的な定義です。戦闘中は不変で、
// GameDataManagerが所有する共有レジストリから参照されます。
type SkillDefinition struct {
	ID            SkillID
	Name          string
	Category      SkillCategory
	Shape         TargetingShape
	Power         int
	MinRange      int
	MaxRange      int
	AoERadius     int
	Cost          int
	CostResource  ResourceKind
	CooldownTurns int
	// AppliesStatus は命中時に対象へ付与するステータス効果です。空なら付与なし。
	AppliesStatus StatusID
	// SynergyStatus は対象が既に保持している場合にスキル評価へボーナスが付く効果です。
	SynergyStatus StatusID
	FriendlyFire  bool
}

// IsOffensive は敵を対象とするスキルかどうかを返します。
func (d *SkillDefinition) IsOffensive() bool {
	return d.Category == CategoryAttack || d.Category == CategoryDebuff
}

// StatusDefinition はステータス効果（バフ・デバフ）の静的な定義です。
type StatusDefinition struct {
	ID            StatusID
	Name          string
	MaxStacks     int
	DurationTurns int
	// DamagePerTurn はターン開始時に受ける継続ダメージです。0なら無効。
	DamagePerTurn int
	// AttackMultiplier / DefenseMultiplier は1.0で等倍です。
	AttackMultiplier  float64
	DefenseMultiplier float64
}
