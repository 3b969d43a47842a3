package component

import (
	"github.com/looplab/fsm"
	"github.com/yohamta/donburi"

	"github.com/yonti32-ux/roguelike-sub002/core"
)

// --- Componentの型定義 ---
// 各コンポーネントにユニークな型情報を持たせます。
var (
	SettingsComponent      = donburi.NewComponentType[Settings]()
	HealthComponent        = donburi.NewComponentType[Health]()
	ResourcesComponent     = donburi.NewComponentType[Resources]()
	PositionComponent      = donburi.NewComponentType[Position]()
	SkillsComponent        = donburi.NewComponentType[Skills]()
	StatusEffectsComponent = donburi.NewComponentType[StatusEffects]()
	StateComponent         = donburi.NewComponentType[State]()
	AIComponent            = donburi.NewComponentType[AI]()
	PlayerControlComponent = donburi.NewComponentType[PlayerControl]()
)

// Settings はユニットの不変の基本情報とステータスを保持します。
type Settings struct {
	ID   string
	Name string
	Team core.TeamID
	// Index は出現順の固定インデックスです。同点時の決定的な並び替えに使用します。
	Index   int
	Attack  int
	Defense int
	Speed   int
	// Move は1ターンに移動できる最大セル数（チェビシェフ距離）です。
	Move int
}

// Health は現在HPと最大HPを保持します。
type Health struct {
	Current int
	Max     int
}

// Ratio は現在HP率を返します。最大HPが0の場合は0を返します。
func (h Health) Ratio() float64 {
	if h.Max <= 0 {
		return 0
	}
	return float64(h.Current) / float64(h.Max)
}

// Resources はスキルコストの支払いに使うリソースプールを保持します。
type Resources struct {
	Stamina    int
	MaxStamina int
	Mana       int
	MaxMana    int
}

// Pool は指定された種別の現在値を返します。
func (r Resources) Pool(kind core.ResourceKind) int {
	if kind == core.ResourceMana {
		return r.Mana
	}
	return r.Stamina
}

// Position はグリッド上の位置と向きを保持します。
type Position struct {
	Cell   core.GridPos
	Facing core.Direction
}

// SkillState はユニットが保有するスキル1つ分の戦闘中状態です。
type SkillState struct {
	ID core.SkillID
	// CooldownLeft は再使用可能になるまでの残りターン数です。0で使用可能です。
	CooldownLeft int
}

// Skills はユニットのスキルリストを宣言順で保持します。
// 並び順はスキル評価の同点時タイブレークに使用されるため、変更してはいけません。
type Skills struct {
	List []SkillState
}

// ActiveStatus はエンティティに現在適用されている効果とその残り期間を追跡します。
type ActiveStatus struct {
	ID             core.StatusID
	Stacks         int
	RemainingTurns int
}

// StatusEffects はユニットに付与中のステータス効果の集合です。
type StatusEffects struct {
	Active []ActiveStatus
}

// State はエンティティの現在の状態遷移機械を保持します。
type State struct {
	FSM *fsm.FSM
}

// CurrentState は現在の状態を返します。
func (s *State) CurrentState() core.StateType {
	if s.FSM == nil {
		return core.StateIdle
	}
	return core.StateType(s.FSM.Current())
}

// AI はAI制御ユニットのプロファイルタグを保持します。
// プロファイル自体はステートレスで、ユニットごとの状態はここには持ちません。
type AI struct {
	ProfileID core.ProfileID
}

// PlayerControl はプレイヤーが操作するユニットを示すマーカーです。
type PlayerControl struct{}
