package entity

import (
	"fmt"

	"github.com/looplab/fsm"
	"github.com/yohamta/donburi"

	"github.com/yonti32-ux/roguelike-sub002/core"
	"github.com/yonti32-ux/roguelike-sub002/ecs/component"
)

// UnitSpec は戦闘開始時にユニットを生成するための設定です。
// 永続的なキャラクター・敵データからのスナップショットに相当します。
type UnitSpec struct {
	ID        string
	Name      string
	Team      core.TeamID
	ProfileID core.ProfileID
	MaxHP     int
	Stamina   int
	Mana      int
	Attack    int
	Defense   int
	Speed     int
	Move      int
	Cell      core.GridPos
	Facing    core.Direction
	Skills    []core.SkillID
	// PlayerControlled のユニットにはAIコンポーネントを付与しません。
	PlayerControlled bool
}

// NewUnitFSM はユニットの状態遷移機械を生成します。
func NewUnitFSM() *fsm.FSM {
	return fsm.NewFSM(
		string(core.StateIdle),
		fsm.Events{
			{Name: "guard", Src: []string{string(core.StateIdle)}, Dst: string(core.StateGuarding)},
			{Name: "recover", Src: []string{string(core.StateGuarding)}, Dst: string(core.StateIdle)},
			{Name: "break", Src: []string{string(core.StateIdle), string(core.StateGuarding)}, Dst: string(core.StateBroken)},
		},
		fsm.Callbacks{},
	)
}

// CreateBattleUnit はUnitSpecから戦闘ユニットのエンティティを生成します。
// index は出現順の固定インデックスで、決定的な並び替えに使用されます。
func CreateBattleUnit(world donburi.World, spec UnitSpec, index int) (*donburi.Entry, error) {
	if spec.MaxHP <= 0 {
		return nil, fmt.Errorf("ユニット %s のMaxHPが不正です: %d", spec.ID, spec.MaxHP)
	}
	if spec.Move < 0 || len(spec.Skills) == 0 {
		return nil, fmt.Errorf("ユニット %s の定義が不完全です", spec.ID)
	}

	components := []donburi.IComponentType{
		component.SettingsComponent,
		component.HealthComponent,
		component.ResourcesComponent,
		component.PositionComponent,
		component.SkillsComponent,
		component.StatusEffectsComponent,
		component.StateComponent,
	}
	if spec.PlayerControlled {
		components = append(components, component.PlayerControlComponent)
	} else {
		components = append(components, component.AIComponent)
	}

	entity := world.Create(components...)
	entry := world.Entry(entity)

	component.SettingsComponent.SetValue(entry, component.Settings{
		ID:      spec.ID,
		Name:    spec.Name,
		Team:    spec.Team,
		Index:   index,
		Attack:  spec.Attack,
		Defense: spec.Defense,
		Speed:   spec.Speed,
		Move:    spec.Move,
	})
	component.HealthComponent.SetValue(entry, component.Health{
		Current: spec.MaxHP,
		Max:     spec.MaxHP,
	})
	component.ResourcesComponent.SetValue(entry, component.Resources{
		Stamina:    spec.Stamina,
		MaxStamina: spec.Stamina,
		Mana:       spec.Mana,
		MaxMana:    spec.Mana,
	})
	component.PositionComponent.SetValue(entry, component.Position{
		Cell:   spec.Cell,
		Facing: spec.Facing,
	})

	skillStates := make([]component.SkillState, 0, len(spec.Skills))
	for _, id := range spec.Skills {
		skillStates = append(skillStates, component.SkillState{ID: id})
	}
	component.SkillsComponent.SetValue(entry, component.Skills{List: skillStates})
	component.StatusEffectsComponent.SetValue(entry, component.StatusEffects{})
	component.StateComponent.SetValue(entry, component.State{FSM: NewUnitFSM()})

	if !spec.PlayerControlled {
		profileID := spec.ProfileID
		if profileID == "" {
			profileID = core.ProfileBrute
		}
		component.AIComponent.SetValue(entry, component.AI{ProfileID: profileID})
	}

	return entry, nil
}

// SetupBattle は複数のUnitSpecから戦闘ワールドのユニット群を生成します。
func SetupBattle(world donburi.World, specs []UnitSpec) ([]*donburi.Entry, error) {
	entries := make([]*donburi.Entry, 0, len(specs))
	for i, spec := range specs {
		entry, err := CreateBattleUnit(world, spec, i)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
