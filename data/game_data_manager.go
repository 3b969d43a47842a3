package data

import (
	"fmt"

	"github.com/yonti32-ux/roguelike-sub002/core"
)

// GameDataManager はスキル定義とステータス効果定義の共有レジストリです。
// AIコアはこのレジストリをグローバルに参照せず、常に引数として注入されます。
type GameDataManager struct {
	skills   map[core.SkillID]*core.SkillDefinition
	statuses map[core.StatusID]*core.StatusDefinition
}

// NewGameDataManager は空のGameDataManagerを生成します。
func NewGameDataManager() *GameDataManager {
	return &GameDataManager{
		skills:   make(map[core.SkillID]*core.SkillDefinition),
		statuses: make(map[core.StatusID]*core.StatusDefinition),
	}
}

// RegisterSkill はスキル定義を登録します。ID重複はエラーになります。
func (g *GameDataManager) RegisterSkill(def *core.SkillDefinition) error {
	if def == nil || def.ID == "" {
		return fmt.Errorf("スキル定義が不正です")
	}
	if _, exists := g.skills[def.ID]; exists {
		return fmt.Errorf("スキルID %s は既に登録されています", def.ID)
	}
	if def.MaxRange < def.MinRange {
		return fmt.Errorf("スキル %s の射程が不正です (min=%d, max=%d)", def.ID, def.MinRange, def.MaxRange)
	}
	g.skills[def.ID] = def
	return nil
}

// GetSkillDefinition はIDに対応するスキル定義を返します。
func (g *GameDataManager) GetSkillDefinition(id core.SkillID) (*core.SkillDefinition, bool) {
	def, ok := g.skills[id]
	return def, ok
}

// RegisterStatus はステータス効果定義を登録します。ID重複はエラーになります。
func (g *GameDataManager) RegisterStatus(def *core.StatusDefinition) error {
	if def == nil || def.ID == "" {
		return fmt.Errorf("ステータス効果定義が不正です")
	}
	if _, exists := g.statuses[def.ID]; exists {
		return fmt.Errorf("ステータス効果ID %s は既に登録されています", def.ID)
	}
	g.statuses[def.ID] = def
	return nil
}

// GetStatusDefinition はIDに対応するステータス効果定義を返します。
func (g *GameDataManager) GetStatusDefinition(id core.StatusID) (*core.StatusDefinition, bool) {
	def, ok := g.statuses[id]
	return def, ok
}
