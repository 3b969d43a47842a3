package system

import (
	"math/rand"
	"time"

	"github.com/yohamta/donburi"

	"github.com/yonti32-ux/roguelike-sub002/data"
)

// BattleLogic は戦闘ロジックの各サービスを束ねるファサードです。
// AIプロファイルはこの構造体を通じて各評価器にアクセスします。
type BattleLogic struct {
	world        donburi.World
	grid         *BattleGrid
	config       *data.Config
	gdm          *data.GameDataManager
	logger       *data.BattleLogger
	threat       *ThreatEvaluator
	skills       *SkillPrioritizer
	positioning  *PositioningHelper
	coordination *CoordinationManager
	statusSystem *StatusEffectSystem
	damage       *DamageCalculator
	rand         *rand.Rand
}

// NewBattleLogic は各サービスを初期化して束ねたBattleLogicを生成します。
// 乱数はダメージ計算のみに使用されます。AIの決定自体は決定的です。
func NewBattleLogic(world donburi.World, grid *BattleGrid, config *data.Config, gdm *data.GameDataManager, logger *data.BattleLogger) *BattleLogic {
	seed := config.Game.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	threat := NewThreatEvaluator(config, gdm)
	return &BattleLogic{
		world:        world,
		grid:         grid,
		config:       config,
		gdm:          gdm,
		logger:       logger,
		threat:       threat,
		skills:       NewSkillPrioritizer(config, gdm),
		positioning:  NewPositioningHelper(grid, config, gdm),
		coordination: NewCoordinationManager(config, gdm, threat),
		statusSystem: NewStatusEffectSystem(gdm, logger),
		damage:       NewDamageCalculator(config, gdm, rng),
		rand:         rng,
	}
}

func (l *BattleLogic) World() donburi.World                        { return l.world }
func (l *BattleLogic) Grid() *BattleGrid                           { return l.grid }
func (l *BattleLogic) Config() *data.Config                        { return l.config }
func (l *BattleLogic) GetGameDataManager() *data.GameDataManager   { return l.gdm }
func (l *BattleLogic) Logger() *data.BattleLogger                  { return l.logger }
func (l *BattleLogic) GetThreatEvaluator() *ThreatEvaluator        { return l.threat }
func (l *BattleLogic) GetSkillPrioritizer() *SkillPrioritizer      { return l.skills }
func (l *BattleLogic) GetPositioningHelper() *PositioningHelper    { return l.positioning }
func (l *BattleLogic) GetCoordinationManager() *CoordinationManager {
	return l.coordination
}
func (l *BattleLogic) GetStatusEffectSystem() *StatusEffectSystem { return l.statusSystem }
func (l *BattleLogic) GetDamageCalculator() *DamageCalculator     { return l.damage }
