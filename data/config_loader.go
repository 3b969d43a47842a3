package data

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// LoadConfig は balance.yaml を読み込み、初期化済みのConfig構造体を返します。
// すべてのキーにデフォルト値を持つため、設定ファイルが存在しなくても動作します。
// dir が空文字列の場合はファイル探索を行わず、デフォルト値のみを使用します。
func LoadConfig(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("balance")
	v.SetConfigType("yaml")
	setDefaults(v)

	if dir != "" {
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			// ファイルが見つからない場合はデフォルト値で続行します。
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("balance.yamlの読み込みに失敗しました: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("設定のデシリアライズに失敗しました: %w", err)
	}
	return &cfg, nil
}

// DefaultConfig はデフォルト係数のみのConfigを返します。主にテスト用です。
func DefaultConfig() *Config {
	cfg, err := LoadConfig("")
	if err != nil {
		// デフォルト値のみの読み込みは失敗しません。
		panic(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("Game.RandomSeed", int64(1))
	v.SetDefault("Game.MaxRounds", 100)

	v.SetDefault("Balance.Threat.OffenseFactor", 1.0)
	v.SetDefault("Balance.Threat.FinishFactor", 50.0)
	v.SetDefault("Balance.Threat.SupportRoleBonus", 30.0)
	v.SetDefault("Balance.Threat.RangePenaltyPerCell", 4.0)

	v.SetDefault("Balance.Skill.AttackPowerFactor", 1.0)
	v.SetDefault("Balance.Skill.HealFactor", 1.2)
	v.SetDefault("Balance.Skill.UtilityBase", 8.0)
	v.SetDefault("Balance.Skill.SynergyBonus", 15.0)
	v.SetDefault("Balance.Skill.RedundancyPenalty", 20.0)

	v.SetDefault("Balance.Profile.SkirmisherRetreatRatio", 0.35)
	v.SetDefault("Balance.Profile.SupportHealRatio", 0.6)
	v.SetDefault("Balance.Profile.CasterAoEMinTargets", 2)

	v.SetDefault("Balance.Damage.AttackStatFactor", 0.5)
	v.SetDefault("Balance.Damage.DefenseStatFactor", 0.5)
	v.SetDefault("Balance.Damage.CriticalChance", 10)
	v.SetDefault("Balance.Damage.CriticalMultiplier", 1.5)

	v.SetDefault("Balance.Coordination.MinAttackers", 2)
}
