package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/yonti32-ux/roguelike-sub002/core"
)

func parseInt(s string, defaultValue int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}
	return i
}

func parseBool(s string) bool {
	return strings.ToLower(strings.TrimSpace(s)) == "true"
}

// LoadSkillsCSV はCSVからスキル定義を読み込み、GameDataManagerに登録します。
// 期待する列:
// id,name,category,shape,power,min_range,max_range,aoe_radius,cost,cost_resource,cooldown,applies_status,synergy_status,friendly_fire
func LoadSkillsCSV(gdm *GameDataManager, filePath string) error {
	file, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer file.Close()
	reader := csv.NewReader(file)
	_, err = reader.Read() // ヘッダーをスキップ
	if err != nil {
		return fmt.Errorf("%s からヘッダーの読み込みに失敗しました: %w", filePath, err)
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			fmt.Printf("%s からレコードの読み込み中にエラーが発生しました: %v\n", filePath, err)
			continue
		}
		if len(record) < 14 {
			fmt.Printf("%s の不正な形式のレコードをスキップします (列数が不足しています): %v\n", filePath, record)
			continue
		}
		def := &core.SkillDefinition{
			ID:            core.SkillID(strings.TrimSpace(record[0])),
			Name:          strings.TrimSpace(record[1]),
			Category:      core.SkillCategory(strings.TrimSpace(record[2])),
			Shape:         core.TargetingShape(strings.TrimSpace(record[3])),
			Power:         parseInt(record[4], 0),
			MinRange:      parseInt(record[5], 0),
			MaxRange:      parseInt(record[6], 1),
			AoERadius:     parseInt(record[7], 0),
			Cost:          parseInt(record[8], 0),
			CostResource:  core.ResourceKind(strings.TrimSpace(record[9])),
			CooldownTurns: parseInt(record[10], 0),
			AppliesStatus: core.StatusID(strings.TrimSpace(record[11])),
			SynergyStatus: core.StatusID(strings.TrimSpace(record[12])),
			FriendlyFire:  parseBool(record[13]),
		}
		if err := gdm.RegisterSkill(def); err != nil {
			fmt.Printf("スキル %s の登録をスキップします: %v\n", record[0], err)
		}
	}
	return nil
}
