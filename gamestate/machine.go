// Package gamestate drives one tick of the game: menu, play, level
// transitions, death and victory.
package gamestate

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/milk9111/netguardian/ecs"
	"github.com/milk9111/netguardian/ecs/component"
	"github.com/milk9111/netguardian/ecs/entity"
	"github.com/milk9111/netguardian/ecs/system"
	"github.com/milk9111/netguardian/fragment"
	"github.com/milk9111/netguardian/history"
	"github.com/milk9111/netguardian/input"
	"github.com/milk9111/netguardian/lifecycle"
	"github.com/milk9111/netguardian/logfeed"
	"github.com/milk9111/netguardian/prefabs"
	"github.com/milk9111/netguardian/session"
	"github.com/milk9111/netguardian/tutorial"
)

// Saver persists progress on level advance.
type Saver interface {
	Save(session.Record) error
}

// RunRecorder stores finished runs.
type RunRecorder interface {
	Record(ctx context.Context, r history.Run) (int64, error)
}

type Options struct {
	Game    *prefabs.GameSpec
	Enemies *prefabs.EnemiesSpec
	Player  *prefabs.PlayerSpec
	Manager *lifecycle.Manager
	Feed    *logfeed.History
	Saver   Saver
	Runs    RunRecorder
	Logger  *log.Logger
	Rand    *rand.Rand
	// ViewWidth and ViewHeight size the camera window in world pixels.
	ViewWidth  float64
	ViewHeight float64
	// StartLevel overrides the level of the first run only; every later
	// run starts at level 0.
	StartLevel int
	// SavedLevel is the furthest level reached in earlier sessions. Saves
	// never lower it.
	SavedLevel int
	Skin       string
	Volume     float64
}

// Machine is the per-frame orchestrator.
type Machine struct {
	phase   Phase
	session *Session
	game    *prefabs.GameSpec
	enemies *prefabs.EnemiesSpec
	manager *lifecycle.Manager
	level   *lifecycle.Level

	feed      *logfeed.History
	tutorial  *tutorial.System
	fragments *fragment.System

	scheduler  *ecs.Scheduler
	controller *system.PlayerControllerSystem
	enemyAI    *system.EnemySystem

	saver  Saver
	runs   RunRecorder
	logger *log.Logger
	rng    *rand.Rand

	viewW, viewH   float64
	startLevel     int
	reached        int
	skins          []string
	nextFragmentID int
	objectiveDone  bool
	runRecorded    bool
}

func NewMachine(opts Options) *Machine {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	game := opts.Game
	if game == nil {
		game = &prefabs.GameSpec{}
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	feed := opts.Feed
	if feed == nil {
		capacity := game.LogCapacity
		if capacity <= 0 {
			capacity = logfeed.DefaultCapacity
		}
		feed = logfeed.NewHistory(capacity)
	}

	sess := NewSession()
	if opts.Skin != "" {
		sess.Skin = opts.Skin
	}
	if opts.Volume > 0 {
		sess.Volume = opts.Volume
	}

	manager := opts.Manager
	if manager == nil {
		manager = lifecycle.NewManager(lifecycle.Options{
			Game:    game,
			Enemies: opts.Enemies,
			Player:  opts.Player,
			Sink:    feed,
			Logger:  logger,
			Skin:    sess.Skin,
		})
	}
	manager.SetSkin(sess.Skin)

	texts := make(map[tutorial.Trigger]string, len(game.Tutorial))
	for k, v := range game.Tutorial {
		texts[tutorial.Trigger(k)] = v
	}

	m := &Machine{
		phase:   Menu,
		session: sess,
		game:    game,
		enemies: opts.Enemies,
		manager: manager,
		feed:    feed,
		tutorial: tutorial.NewSystem(sess.Triggers, tutorial.Options{
			Texts:    texts,
			Lifetime: game.TutorialLifetime,
			Fade:     game.TutorialFade,
			Logger:   logger.WithPrefix("tutorial"),
		}),
		fragments: fragment.NewSystem(fragment.Options{
			Quotas: game.Quotas,
			Names:  game.FragmentNames,
			Sink:   feed,
			Rand:   rng,
			Logger: logger.WithPrefix("fragment"),
		}),
		saver:      opts.Saver,
		runs:       opts.Runs,
		logger:     logger.WithPrefix("game"),
		rng:        rng,
		viewW:      opts.ViewWidth,
		viewH:      opts.ViewHeight,
		startLevel: opts.StartLevel,
		reached:    max(opts.SavedLevel, 0),
	}
	if m.viewW <= 0 {
		m.viewW = 320
	}
	if m.viewH <= 0 {
		m.viewH = 240
	}
	for name := range game.Skins {
		m.skins = append(m.skins, name)
	}
	sort.Strings(m.skins)
	return m
}

func (m *Machine) Phase() Phase                  { return m.phase }
func (m *Machine) Session() *Session             { return m.session }
func (m *Machine) Level() *lifecycle.Level       { return m.level }
func (m *Machine) Feed() *logfeed.History        { return m.feed }
func (m *Machine) Tutorial() *tutorial.System    { return m.tutorial }
func (m *Machine) Fragments() *fragment.System   { return m.fragments }
func (m *Machine) Manager() *lifecycle.Manager   { return m.manager }
func (m *Machine) Game() *prefabs.GameSpec       { return m.game }
func (m *Machine) Enemies() *prefabs.EnemiesSpec { return m.enemies }

// Tick advances one frame.
func (m *Machine) Tick(frame input.Frame) {
	switch m.phase {
	case Menu:
		m.tickMenu(frame)
	case Playing, LevelTransitioning:
		m.session.Ticks++
		m.tickPlaying(frame)
	case Dead:
		m.phase = Menu
	case GameOver:
		if frame.Pressed(input.Confirm) {
			m.phase = Menu
		}
	}
	m.feed.AdvanceTick()
}

func (m *Machine) tickMenu(frame input.Frame) {
	switch {
	case frame.Pressed(input.Left):
		m.CycleSkin(-1)
	case frame.Pressed(input.Right):
		m.CycleSkin(1)
	}
	if frame.Pressed(input.Confirm) {
		m.Start()
	}
}

// Start resets the session and enters level 0, or the StartLevel override
// on the first run. It is a no-op outside the menu.
func (m *Machine) Start() {
	if m.phase != Menu {
		return
	}
	m.session.Reset(m.game.StartLives)
	for _, t := range prefabs.FragmentTypes {
		m.fragments.ResetForLevel(t)
	}
	m.tutorial.Reset()
	m.runRecorded = false
	first := m.startLevel
	m.startLevel = 0
	m.loadLevel(max(first, 0))
	m.phase = Playing
	m.logger.Info("run started", "level", m.session.Level, "skin", m.session.Skin)
}

// CycleSkin steps through the configured skins and saves the choice.
func (m *Machine) CycleSkin(dir int) {
	if len(m.skins) == 0 {
		return
	}
	idx := sort.SearchStrings(m.skins, m.session.Skin)
	if idx >= len(m.skins) || m.skins[idx] != m.session.Skin {
		idx = 0
	} else {
		idx = (idx + dir + len(m.skins)) % len(m.skins)
	}
	m.session.Skin = m.skins[idx]
	m.manager.SetSkin(m.session.Skin)
	m.save()
}

// SetVolume clamps v to [0, 1] and saves it.
func (m *Machine) SetVolume(v float64) {
	m.session.Volume = math.Max(0, math.Min(1, v))
	m.save()
}

// ReloadScripts drops compiled enemy scripts so edits take effect.
func (m *Machine) ReloadScripts() {
	if m.enemyAI != nil {
		m.enemyAI.ClearScripts()
	}
}

// ApplySpecs swaps tunables after a reload. Levels already running keep
// their entities; the next load uses the new values.
func (m *Machine) ApplySpecs(game *prefabs.GameSpec, enemies *prefabs.EnemiesSpec, player *prefabs.PlayerSpec) {
	if game != nil {
		m.game = game
	}
	if enemies != nil {
		m.enemies = enemies
	}
	m.manager.SetSpecs(game, enemies, player)
}

func (m *Machine) loadLevel(index int) {
	lvl := m.manager.Load(index)
	lvl.Crossfade = 0
	m.level = lvl
	m.session.Level = index
	m.session.PlayerAlive = true
	m.objectiveDone = false
	m.nextFragmentID = 1

	m.fragments.SetSolid(lvl.Space)
	m.fragments.Activate(lvl.Def.FragmentType)
	m.fragments.ResetForLevel(lvl.Def.FragmentType)

	m.controller = system.NewPlayerControllerSystem(lvl.Query, m.game.EnemyHintRange)
	m.enemyAI = system.NewEnemySystem(lvl.Query, m.enemies, m.logger)
	m.scheduler = ecs.NewScheduler(
		m.controller,
		m.enemyAI,
		system.NewMovementSystem(lvl.Query),
		system.NewProjectileSystem(lvl.Query, m.rng),
		system.NewCombatSystem(lvl.Query, m.rng),
		system.NewParticleSystem(),
		system.NewTTLSystem(),
	)
	lvl.ScrollX, lvl.ScrollY = m.cameraTarget(lvl)
}

func (m *Machine) cameraTarget(lvl *lifecycle.Level) (float64, float64) {
	box := lvl.PlayerBox()
	x := math.Max(0, math.Min(box.CenterX()-m.viewW/2, lvl.Def.PixelWidth()-m.viewW))
	y := math.Max(0, math.Min(box.CenterY()-m.viewH/2, lvl.Def.PixelHeight()-m.viewH))
	return x, y
}

func (m *Machine) tickPlaying(frame input.Frame) {
	lvl := m.level
	if lvl == nil {
		m.phase = Menu
		return
	}

	lvl.Shake = math.Max(0, lvl.Shake-m.shakeDecay())
	if lvl.Crossfade < 255 {
		lvl.Crossfade = min(255, lvl.Crossfade+m.crossfadeStep())
	}

	if lvl.EnemyCount() == 0 {
		// A sector cleared during the entry wipe starts its exit from zero.
		if lvl.Transition < 0 {
			lvl.Transition = 0
		}
		lvl.Transition++
		if lvl.Transition > m.transitionThreshold() {
			m.advance()
			return
		}
	}
	if lvl.Transition < 0 {
		lvl.Transition++
	}
	if lvl.Transition > 0 {
		m.phase = LevelTransitioning
	} else {
		m.phase = Playing
	}

	if lvl.PlayerDead() {
		m.session.PlayerAlive = false
		lvl.DeathTimer++
		if lvl.DeathTimer > m.deathThreshold() {
			m.session.Lives = 0
			m.phase = Dead
			m.recordRun(false)
		}
		return
	}

	m.controller.SetInput(frame)
	m.scheduler.Update(lvl.World)
	m.drainEvents(lvl)
	if m.fragments.Tick(lvl.PlayerBox()) {
		m.objectiveComplete(lvl)
	}
	m.tutorial.Tick()
	lvl.FollowCamera(m.viewW, m.viewH)
}

func (m *Machine) advance() {
	next := m.session.Level + 1
	if next >= m.levelCount() {
		m.feed.Record("All sectors secured", logfeed.Info)
		m.phase = GameOver
		m.recordRun(true)
		return
	}
	m.loadLevel(next)
	m.phase = Playing
	m.save()
}

func (m *Machine) drainEvents(lvl *lifecycle.Level) {
	for _, evt := range lvl.World.Events().Drain() {
		switch evt.Kind {
		case ecs.EventEnemyDefeated:
			lvl.EnemiesDefeated++
			m.session.Defeated++
			used := m.fragments.Spawn(evt.X, evt.Y, lvl.Def.FragmentType, m.nextFragmentID)
			m.nextFragmentID = max(m.nextFragmentID, used) + 1
			m.feed.Record(fmt.Sprintf("Threat neutralized [%d/%d]", lvl.EnemiesDefeated, lvl.EnemiesTotal), logfeed.Info)
		case ecs.EventShake:
			lvl.Shake = math.Max(lvl.Shake, evt.Magnitude)
		case ecs.EventTutorial:
			m.tutorial.Fire(tutorial.Trigger(evt.Name), evt.X, evt.Y)
		case ecs.EventPlayerHurt:
			m.feed.Record(fmt.Sprintf("Integrity compromised [%d left]", int(evt.Magnitude)), logfeed.Warning)
		case ecs.EventPlayerDied:
			m.session.PlayerAlive = false
			m.feed.Record("System failure", logfeed.Alert)
		case ecs.EventShotFired:
		}
	}
}

// objectiveComplete runs once per level when the fragment quota is met: the
// sector is purged so the exit transition begins.
func (m *Machine) objectiveComplete(lvl *lifecycle.Level) {
	if m.objectiveDone {
		return
	}
	m.objectiveDone = true
	m.session.Fragments += m.fragments.Count(lvl.Def.FragmentType)
	m.feed.Record(fmt.Sprintf("%s decrypted", m.fragmentName(lvl.Def.FragmentType)), logfeed.Alert)

	var purge []ecs.Entity
	ecs.ForEach(lvl.World, component.EnemyComponent.Kind(), func(e ecs.Entity, _ *component.Enemy) {
		purge = append(purge, e)
	})
	for _, e := range purge {
		box, _ := system.Hitbox(lvl.World, e)
		ecs.DestroyEntity(lvl.World, e)
		entity.Burst(lvl.World, m.rng, box.CenterX(), box.CenterY(), 6, purgeColor)
	}
	lvl.Shake = math.Max(lvl.Shake, 8)
	m.logger.Info("objective complete", "level", m.session.Level, "purged", len(purge))
}

func (m *Machine) fragmentName(t string) string {
	if name := m.game.FragmentNames[t]; name != "" {
		return name
	}
	return t
}

func (m *Machine) save() {
	if m.saver == nil {
		return
	}
	m.reached = max(m.reached, m.session.Level)
	rec := session.Record{Level: m.reached, Skin: m.session.Skin, Volume: m.session.Volume}
	if err := m.saver.Save(rec); err != nil {
		m.logger.Warn("save progress", "err", err)
	}
}

func (m *Machine) recordRun(victory bool) {
	if m.runRecorded || m.runs == nil {
		return
	}
	m.runRecorded = true
	run := history.Run{
		Level:     m.session.Level,
		Victory:   victory,
		Defeated:  m.session.Defeated,
		Fragments: m.session.Fragments,
		Skin:      m.session.Skin,
		Ticks:     m.session.Ticks,
	}
	if _, err := m.runs.Record(context.Background(), run); err != nil {
		m.logger.Warn("record run", "err", err)
	}
}

func (m *Machine) shakeDecay() float64 {
	if m.game.ShakeDecay > 0 {
		return m.game.ShakeDecay
	}
	return 0.5
}

func (m *Machine) crossfadeStep() int {
	if m.game.CrossfadeStep > 0 {
		return m.game.CrossfadeStep
	}
	return 5
}

func (m *Machine) transitionThreshold() int {
	if m.game.TransitionThreshold > 0 {
		return m.game.TransitionThreshold
	}
	return 30
}

func (m *Machine) deathThreshold() int {
	if m.game.DeathThreshold > 0 {
		return m.game.DeathThreshold
	}
	return 40
}

func (m *Machine) levelCount() int {
	if m.game.LevelCount > 0 {
		return m.game.LevelCount
	}
	return 3
}

var purgeColor = color.NRGBA{R: 0xff, G: 0x32, B: 0x96, A: 0xff}
