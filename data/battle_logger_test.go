package data

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yonti32-ux/roguelike-sub002/core"
)

func TestBattleLoggerRaw_SupportsLevelMethods(t *testing.T) {
	var buf bytes.Buffer
	logger := NewBattleLogger(&buf)

	// Rawはポインタを返すため、呼び出し側でそのままレベルメソッドを連結できる。
	logger.Raw().Warn().Str("unit", "テスト").Msg("警告")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "テスト", entry["unit"])
}

func TestLogBattleEnd_WritesWinnerAsNumber(t *testing.T) {
	var buf bytes.Buffer
	logger := NewBattleLogger(&buf)

	logger.LogBattleEnd(core.Team2, 12)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.InDelta(t, float64(core.Team2), entry["winner"], 1e-9, "勝者チームIDは数値で記録される")
	assert.InDelta(t, 12.0, entry["rounds"], 1e-9)
}
