package main

import (
	"fmt"
	"image/color"
	"math/rand/v2"
	"os"

	"github.com/charmbracelet/log"
	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/netguardian/config"
	"github.com/milk9111/netguardian/ecs"
	"github.com/milk9111/netguardian/ecs/component"
	"github.com/milk9111/netguardian/ecs/system"
	"github.com/milk9111/netguardian/gamestate"
	"github.com/milk9111/netguardian/history"
	"github.com/milk9111/netguardian/hud"
	"github.com/milk9111/netguardian/input"
	"github.com/milk9111/netguardian/prefabs"
	"github.com/milk9111/netguardian/session"
)

var (
	background = color.NRGBA{R: 0x05, G: 0x0a, B: 0x14, A: 0xff}
	white      = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	alertRed   = color.NRGBA{R: 0xff, G: 0x64, B: 0x64, A: 0xff}
	clearGreen = color.NRGBA{R: 0x3c, G: 0xff, B: 0xb4, A: 0xff}
)

type Game struct {
	cfg     config.Config
	machine *gamestate.Machine
	render  *system.RenderSystem
	menu    *ebitenui.UI
	menuUI  *menuUI
	watcher *prefabs.Watcher
	store   *session.Store
	runs    *history.Store
	logger  *log.Logger
	rng     *rand.Rand

	fragmentColors map[string]color.NRGBA
	quit           bool
}

func NewGame(cfg config.Config, startLevel int, logger *log.Logger) (*Game, error) {
	game, err := prefabs.LoadGameSpec()
	if err != nil {
		return nil, fmt.Errorf("load game spec: %w", err)
	}
	enemies, err := prefabs.LoadEnemiesSpec()
	if err != nil {
		logger.Warn("enemy archetypes unavailable, using defaults", "err", err)
	}
	player, err := prefabs.LoadPlayerSpec()
	if err != nil {
		logger.Warn("player spec unavailable, using defaults", "err", err)
	}

	store, err := session.Open(cfg.SaveAppName, logger)
	if err != nil {
		logger.Warn("progress will not persist", "err", err)
	}
	saved := store.Load()

	var runs *history.Store
	var recorder gamestate.RunRecorder
	if r, err := history.Open(cfg.HistoryDB); err != nil {
		logger.Warn("run history disabled", "err", err)
	} else {
		runs = r
		recorder = r
	}

	if startLevel < 0 || (game.LevelCount > 0 && startLevel >= game.LevelCount) {
		startLevel = 0
	}
	skin := saved.Skin
	if cfg.Skin != "" && saved.Skin == session.DefaultRecord().Skin {
		skin = cfg.Skin
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	machine := gamestate.NewMachine(gamestate.Options{
		Game:       game,
		Enemies:    enemies,
		Player:     player,
		Saver:      store,
		Runs:       recorder,
		Logger:     logger,
		Rand:       rng,
		ViewWidth:  float64(cfg.View.Width),
		ViewHeight: float64(cfg.View.Height),
		StartLevel: startLevel,
		SavedLevel: saved.Level,
		Skin:       skin,
		Volume:     saved.Volume,
	})

	g := &Game{
		cfg:     cfg,
		machine: machine,
		render:  system.NewRenderSystem(),
		store:   store,
		runs:    runs,
		logger:  logger.WithPrefix("main"),
		rng:     rng,
	}
	g.refreshColors()
	g.menu, g.menuUI = newMenuUI(g)

	if cfg.Debug {
		g.watch()
	}
	logger.Info("ready", "start_level", startLevel, "skin", skin, "persistent", store.Persistent())
	return g, nil
}

func (g *Game) watch() {
	var dirs []string
	for _, dir := range []string{"prefabs", "prefabs/scripts", "levels"} {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			dirs = append(dirs, dir)
		}
	}
	if len(dirs) == 0 {
		g.logger.Debug("hot reload off, no asset directories on disk")
		return
	}
	w, err := prefabs.NewWatcher(dirs...)
	if err != nil {
		g.logger.Warn("hot reload unavailable", "err", err)
		return
	}
	g.watcher = w
	g.logger.Debug("hot reload on", "dirs", dirs)
}

func (g *Game) refreshColors() {
	g.fragmentColors = make(map[string]color.NRGBA)
	for k, c := range g.machine.Game().FragmentColors {
		g.fragmentColors[k] = c.NRGBA
	}
}

func (g *Game) reload(changes []prefabs.Change) {
	specs := false
	for _, c := range changes {
		switch c.Kind {
		case prefabs.ChangeScript:
			g.machine.ReloadScripts()
			g.logger.Info("script reloaded", "path", c.Path)
		case prefabs.ChangeSpec:
			specs = true
		case prefabs.ChangeLevel:
			g.logger.Info("layout changed, applies on next load", "path", c.Path)
		}
	}
	if !specs {
		return
	}
	game, err := prefabs.LoadGameSpec()
	if err != nil {
		g.logger.Warn("game spec reload failed", "err", err)
		game = nil
	}
	enemies, err := prefabs.LoadEnemiesSpec()
	if err != nil {
		g.logger.Warn("enemy spec reload failed", "err", err)
		enemies = nil
	}
	player, err := prefabs.LoadPlayerSpec()
	if err != nil {
		g.logger.Warn("player spec reload failed", "err", err)
		player = nil
	}
	g.machine.ApplySpecs(game, enemies, player)
	g.refreshColors()
	g.logger.Info("specs reloaded")
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}
	if g.watcher != nil {
		if changes := g.watcher.Poll(); len(changes) > 0 {
			g.reload(changes)
		}
	}

	g.machine.Tick(input.Poll())
	if g.machine.Phase() == gamestate.Menu {
		g.menuUI.refresh()
		g.menu.Update()
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	m := g.machine

	switch m.Phase() {
	case gamestate.Menu:
		g.menu.Draw(screen)
		hud.DrawLogFeed(screen, m.Feed().Snapshot(), 4, 4)
		return
	case gamestate.GameOver:
		hud.DrawCentered(screen, []string{"ALL SECTORS SECURED", "", "Press ENTER"}, clearGreen)
		return
	}

	lvl := m.Level()
	if lvl == nil {
		return
	}

	offX, offY := lvl.ScrollX, lvl.ScrollY
	if lvl.Shake > 0 {
		offX += (g.rng.Float64()*2 - 1) * lvl.Shake / 2
		offY += (g.rng.Float64()*2 - 1) * lvl.Shake / 2
	}

	hud.DrawTiles(screen, lvl.Space.Rects(), offX, offY)
	hud.DrawFragments(screen, m.Fragments().Fragments(), g.fragmentColors, offX, offY)
	g.render.Draw(lvl.World, screen, offX, offY)
	hud.DrawTutorial(screen, m.Tutorial().Messages(), offX, offY)

	if lvl.Crossfade < 255 {
		w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
		shade := color.NRGBA{A: uint8(255 - lvl.Crossfade)}
		vector.DrawFilledRect(screen, 0, 0, float32(w), float32(h), shade, false)
	}

	g.drawOverlay(screen)

	switch m.Phase() {
	case gamestate.LevelTransitioning:
		hud.DrawCentered(screen, []string{"SECTOR CLEAR"}, clearGreen)
	case gamestate.Dead:
		hud.DrawCentered(screen, []string{"SYSTEM FAILURE"}, alertRed)
	}

	if g.cfg.Debug {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("TPS %.0f  entities %d", ebiten.ActualTPS(), len(ecs.Entities(lvl.World))), 4, screen.Bounds().Dy()-16)
	}
}

func (g *Game) drawOverlay(screen *ebiten.Image) {
	m := g.machine
	lvl := m.Level()
	ft := m.Fragments().Active()

	c := hud.Counters{
		Defeated:      lvl.EnemiesDefeated,
		Total:         lvl.EnemiesTotal,
		FragmentName:  m.Game().FragmentNames[ft],
		Fragments:     m.Fragments().Count(ft),
		Quota:         m.Fragments().Quota(ft),
		FragmentColor: g.fragmentColor(ft),
		LevelName:     lvl.Def.Name,
	}
	if h, ok := ecs.Get(lvl.World, lvl.Player, component.HealthComponent.Kind()); ok {
		c.Health, c.MaxHealth = h.Current, h.Max
	}
	if c.FragmentName == "" {
		c.FragmentName = ft
	}
	hud.DrawCounters(screen, c)
	hud.DrawLogFeed(screen, m.Feed().Snapshot(), 4, 30)

	msg, timer := m.Fragments().Notification()
	hud.DrawNotification(screen, msg, timer, g.fragmentColor(ft))
}

func (g *Game) fragmentColor(t string) color.NRGBA {
	if c, ok := g.fragmentColors[t]; ok {
		return c
	}
	return white
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.View.Width, g.cfg.View.Height
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	if g.runs != nil {
		if err := g.runs.Close(); err != nil {
			g.logger.Warn("close run history", "err", err)
		}
	}
}
