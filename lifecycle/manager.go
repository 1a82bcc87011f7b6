// Package lifecycle builds playable levels from layout definitions and keeps
// the Idle, Loading, Ready bookkeeping.
package lifecycle

import (
	"fmt"
	"image/color"

	"github.com/charmbracelet/log"
	"github.com/milk9111/netguardian/ecs"
	"github.com/milk9111/netguardian/ecs/entity"
	"github.com/milk9111/netguardian/ecs/system"
	"github.com/milk9111/netguardian/levels"
	"github.com/milk9111/netguardian/logfeed"
	"github.com/milk9111/netguardian/physics"
	"github.com/milk9111/netguardian/prefabs"
)

type State int

const (
	Idle State = iota
	Loading
	Ready
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// Sink receives the level banner and threat alert.
type Sink interface {
	Record(message string, severity logfeed.Severity)
}

type Options struct {
	Source  levels.Source
	Game    *prefabs.GameSpec
	Enemies *prefabs.EnemiesSpec
	Player  *prefabs.PlayerSpec
	Sink    Sink
	Logger  *log.Logger
	Skin    string
}

// Manager turns level indices into fresh runtime levels. Load never fails:
// any layout problem falls back to the emergency layout.
type Manager struct {
	source  levels.Source
	game    *prefabs.GameSpec
	enemies *prefabs.EnemiesSpec
	player  *prefabs.PlayerSpec
	sink    Sink
	logger  *log.Logger
	skin    string
	state   State
}

func NewManager(opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	source := opts.Source
	if source == nil {
		source = levels.FSSource{}
	}
	game := opts.Game
	if game == nil {
		if g, err := prefabs.LoadGameSpec(); err == nil {
			game = g
		} else {
			logger.Warn("game spec unavailable, using built-in caps", "err", err)
			game = &prefabs.GameSpec{RosterCaps: []int{8, 12, 15}}
		}
	}
	player := opts.Player
	if player == nil {
		player = &defaultPlayer
	}
	skin := opts.Skin
	if skin == "" {
		skin = "default"
	}
	return &Manager{
		source:  source,
		game:    game,
		enemies: opts.Enemies,
		player:  player,
		sink:    opts.Sink,
		logger:  logger.WithPrefix("lifecycle"),
		skin:    skin,
	}
}

var defaultPlayer = prefabs.PlayerSpec{
	Width: 8, Height: 15, MoveSpeed: 1.5, JumpSpeed: 3.2, MaxJumps: 1,
	CoyoteFrames: 4, DashSpeed: 8, DashFrames: 10, DashCooldown: 50,
	Health: 3, Gravity: 0.1, Terminal: 5,
}

var defaultEnemy = prefabs.EnemySpec{
	Name: "Crawler", Color: prefabs.Color{NRGBA: color.NRGBA{R: 0xb4, G: 0xff, B: 0x64, A: 0xff}},
	Width: 8, Height: 15, MoveSpeed: 0.5, Health: 1, ContactDamage: 1,
}

func (m *Manager) State() State {
	return m.state
}

// SetSkin selects the player colour used by subsequent loads.
func (m *Manager) SetSkin(name string) {
	if name != "" {
		m.skin = name
	}
}

func (m *Manager) Skin() string {
	return m.skin
}

// SetSpecs swaps tunables after a hot reload; nil arguments keep the current
// value.
func (m *Manager) SetSpecs(game *prefabs.GameSpec, enemies *prefabs.EnemiesSpec, player *prefabs.PlayerSpec) {
	if game != nil {
		m.game = game
	}
	if enemies != nil {
		m.enemies = enemies
	}
	if player != nil {
		m.player = player
	}
}

// Definition fetches the layout for index, falling back to the emergency
// layout. The returned bool reports whether the fallback was used.
func (m *Manager) Definition(index int) (*levels.Definition, bool) {
	fragmentType := m.game.FragmentTypeFor(index)
	def, err := m.source.FetchLevelLayout(index)
	if err == nil && def != nil && len(def.SpawnersOf(levels.RolePlayer)) == 0 {
		err = levels.ErrNoPlayerSpawn
	}
	if err != nil || def == nil {
		m.logger.Warn("layout unavailable, using emergency layout", "level", index, "err", err)
		return levels.Emergency(index, fragmentType, m.game.DefaultArchetype), true
	}
	if def.FragmentType == "" {
		def.FragmentType = fragmentType
	}
	if def.EnemyArchetype == "" {
		def.EnemyArchetype = m.game.DefaultArchetype
	}
	return def, false
}

// Load builds a fresh level for index and records the banner and threat
// alert.
func (m *Manager) Load(index int) *Level {
	m.state = Loading

	def, fallback := m.Definition(index)
	w := ecs.NewWorld()
	space := physics.NewSpace(def)
	lvl := &Level{
		Def:        def,
		World:      w,
		Space:      space,
		Query:      system.NewQuery(w, space),
		Transition: EnterTransition,
		Fallback:   fallback,
	}

	px, py := def.TileSize*2, 0.0
	if spawns := def.SpawnersOf(levels.RolePlayer); len(spawns) > 0 {
		last := spawns[len(spawns)-1]
		px, py = last.X, last.Y
	}
	player, err := entity.NewPlayerAt(w, m.player, m.skin, m.skinColor(), px, py)
	if err != nil {
		m.logger.Error("spawn player", "level", index, "err", err)
	}
	lvl.Player = player

	spec := m.archetype(def.EnemyArchetype)
	for i, sp := range Roster(def, m.game.RosterCap(index)) {
		facing := -1.0
		if i%2 == 1 {
			facing = 1
		}
		if _, err := entity.NewEnemyAt(w, def.EnemyArchetype, spec, sp.X, sp.Y, facing); err != nil {
			m.logger.Error("spawn enemy", "level", index, "x", sp.X, "y", sp.Y, "err", err)
		}
	}
	lvl.EnemiesTotal = lvl.EnemyCount()

	if m.sink != nil {
		m.sink.Record(def.Name, logfeed.Info)
		m.sink.Record(fmt.Sprintf("%d threats detected", lvl.EnemiesTotal), logfeed.Alert)
	}
	m.logger.Info("level loaded", "level", index, "name", def.Name, "enemies", lvl.EnemiesTotal, "fallback", fallback)

	m.state = Ready
	return lvl
}

func (m *Manager) archetype(tag string) prefabs.EnemySpec {
	spec, err := m.enemies.Archetype(tag, m.game.DefaultArchetype)
	if err != nil {
		m.logger.Warn("enemy archetype", "tag", tag, "err", err)
	}
	if spec.Width <= 0 || spec.Height <= 0 {
		return defaultEnemy
	}
	return spec
}

func (m *Manager) skinColor() color.NRGBA {
	if c, ok := m.game.Skins[m.skin]; ok {
		return c.NRGBA
	}
	if c, ok := m.game.Skins["default"]; ok {
		return c.NRGBA
	}
	return color.NRGBA{R: 0xe6, G: 0xf0, B: 0xff, A: 0xff}
}

// Roster selects the enemy spawners that receive an enemy, in layout order,
// capped at limit.
func Roster(def *levels.Definition, limit int) []levels.Spawner {
	if def == nil || limit <= 0 {
		return nil
	}
	spawns := def.SpawnersOf(levels.RoleEnemy)
	if len(spawns) > limit {
		spawns = spawns[:limit]
	}
	return spawns
}
