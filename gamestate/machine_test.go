package gamestate

import (
	"context"
	"errors"
	"io"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/milk9111/netguardian/ecs"
	"github.com/milk9111/netguardian/ecs/component"
	"github.com/milk9111/netguardian/history"
	"github.com/milk9111/netguardian/input"
	"github.com/milk9111/netguardian/levels"
	"github.com/milk9111/netguardian/lifecycle"
	"github.com/milk9111/netguardian/logfeed"
	"github.com/milk9111/netguardian/prefabs"
	"github.com/milk9111/netguardian/session"
	"github.com/milk9111/netguardian/tutorial"
)

type unreachableSource struct{}

func (unreachableSource) FetchLevelLayout(int) (*levels.Definition, error) {
	return nil, errors.New("unreachable")
}

type fakeSaver struct{ saved []session.Record }

func (f *fakeSaver) Save(r session.Record) error {
	f.saved = append(f.saved, r)
	return nil
}

type fakeRuns struct{ runs []history.Run }

func (f *fakeRuns) Record(_ context.Context, r history.Run) (int64, error) {
	f.runs = append(f.runs, r)
	return int64(len(f.runs)), nil
}

type fixture struct {
	m     *Machine
	saver *fakeSaver
	runs  *fakeRuns
	feed  *logfeed.History
}

func newFixture(t *testing.T, startLevel int) *fixture {
	t.Helper()
	game, err := prefabs.LoadGameSpec()
	if err != nil {
		t.Fatalf("LoadGameSpec: %v", err)
	}
	enemies, err := prefabs.LoadEnemiesSpec()
	if err != nil {
		t.Fatalf("LoadEnemiesSpec: %v", err)
	}
	logger := log.New(io.Discard)
	feed := logfeed.NewHistory(game.LogCapacity)
	manager := lifecycle.NewManager(lifecycle.Options{
		Source:  unreachableSource{},
		Game:    game,
		Enemies: enemies,
		Sink:    feed,
		Logger:  logger,
	})
	f := &fixture{saver: &fakeSaver{}, runs: &fakeRuns{}, feed: feed}
	f.m = NewMachine(Options{
		Game:       game,
		Enemies:    enemies,
		Manager:    manager,
		Feed:       feed,
		Saver:      f.saver,
		Runs:       f.runs,
		Logger:     logger,
		Rand:       rand.New(rand.NewPCG(7, 7)),
		StartLevel: startLevel,
	})
	return f
}

func (f *fixture) start(t *testing.T) {
	t.Helper()
	f.m.Tick(input.Frame{}.Press(input.Confirm))
	if f.m.Phase() != Playing {
		t.Fatalf("phase after confirm = %v, want playing", f.m.Phase())
	}
}

func (f *fixture) clearEnemies() {
	lvl := f.m.Level()
	var doomed []ecs.Entity
	ecs.ForEach(lvl.World, component.EnemyComponent.Kind(), func(e ecs.Entity, _ *component.Enemy) {
		doomed = append(doomed, e)
	})
	for _, e := range doomed {
		ecs.DestroyEntity(lvl.World, e)
	}
}

func TestMenuStartsRun(t *testing.T) {
	f := newFixture(t, 0)
	f.m.Tick(input.Frame{})
	if f.m.Phase() != Menu {
		t.Fatalf("without confirm the machine stays in the menu")
	}

	f.start(t)
	s := f.m.Session()
	if s.Level != 0 || s.Lives != f.m.Game().StartLives || !s.PlayerAlive {
		t.Fatalf("unexpected session after start: %+v", s)
	}
	if f.m.Manager().State() != lifecycle.Ready {
		t.Fatalf("level should be ready")
	}
	if f.feed.Len() != 2 {
		t.Fatalf("expected level banner and threat alert, got %d entries", f.feed.Len())
	}
}

func TestClearedLevelAdvancesAfter31Ticks(t *testing.T) {
	f := newFixture(t, 0)
	f.start(t)
	first := f.m.Level()
	if first.Transition != lifecycle.EnterTransition {
		t.Fatalf("fresh level should be entering, Transition = %d", first.Transition)
	}
	f.clearEnemies()

	for i := 1; i <= 30; i++ {
		f.m.Tick(input.Frame{})
		if f.m.Session().Level != 0 {
			t.Fatalf("advanced early on tick %d", i)
		}
	}
	if f.m.Phase() != LevelTransitioning {
		t.Fatalf("phase during exit wipe = %v", f.m.Phase())
	}

	f.m.Tick(input.Frame{})
	if f.m.Session().Level != 1 {
		t.Fatalf("expected level 1 after 31 ticks, got %d", f.m.Session().Level)
	}
	if f.m.Level() == first {
		t.Fatalf("expected a freshly loaded level")
	}
	if f.m.Phase() != Playing {
		t.Fatalf("phase after load = %v", f.m.Phase())
	}
	if f.m.Level().Crossfade != 0 {
		t.Fatalf("crossfade should restart from 0")
	}
	if len(f.saver.saved) != 1 || f.saver.saved[0].Level != 1 {
		t.Fatalf("expected one save at level 1, got %+v", f.saver.saved)
	}
}

func TestClearedMidEntryWipeAdvancesAfter31Ticks(t *testing.T) {
	f := newFixture(t, 0)
	f.start(t)
	lvl := f.m.Level()
	for i := 0; i < 10; i++ {
		f.m.Tick(input.Frame{})
	}
	if lvl.Transition != lifecycle.EnterTransition+10 {
		t.Fatalf("entry wipe should climb one per tick, Transition = %d", lvl.Transition)
	}

	f.clearEnemies()
	for i := 1; i <= 30; i++ {
		f.m.Tick(input.Frame{})
		if f.m.Session().Level != 0 {
			t.Fatalf("advanced early on tick %d", i)
		}
		if lvl.Transition != i {
			t.Fatalf("tick %d: Transition = %d, want %d", i, lvl.Transition, i)
		}
	}
	f.m.Tick(input.Frame{})
	if f.m.Session().Level != 1 {
		t.Fatalf("expected level 1 after 31 ticks, got %d", f.m.Session().Level)
	}
}

func TestLastLevelClearedIsVictory(t *testing.T) {
	f := newFixture(t, 2)
	f.start(t)
	f.clearEnemies()

	for i := 0; i < 31; i++ {
		f.m.Tick(input.Frame{})
	}
	if f.m.Phase() != GameOver {
		t.Fatalf("phase = %v, want game over", f.m.Phase())
	}
	if len(f.runs.runs) != 1 || !f.runs.runs[0].Victory {
		t.Fatalf("expected one victorious run, got %+v", f.runs.runs)
	}

	f.m.Tick(input.Frame{})
	if f.m.Phase() != GameOver {
		t.Fatalf("game over waits for confirm")
	}
	f.m.Tick(input.Frame{}.Press(input.Confirm))
	if f.m.Phase() != Menu {
		t.Fatalf("confirm should return to the menu")
	}
}

func TestDeathGoesToDeadThenMenu(t *testing.T) {
	f := newFixture(t, 0)
	f.start(t)
	lvl := f.m.Level()
	p, _ := ecs.Get(lvl.World, lvl.Player, component.PlayerComponent.Kind())
	p.Dead = true

	for i := 1; i <= 40; i++ {
		f.m.Tick(input.Frame{})
		if f.m.Phase() == Dead {
			t.Fatalf("dead too early on tick %d", i)
		}
	}
	f.m.Tick(input.Frame{})
	if f.m.Phase() != Dead {
		t.Fatalf("phase = %v, want dead", f.m.Phase())
	}
	if f.m.Session().Lives != 0 {
		t.Fatalf("lives = %d, want 0", f.m.Session().Lives)
	}
	if len(f.runs.runs) != 1 || f.runs.runs[0].Victory {
		t.Fatalf("expected one lost run, got %+v", f.runs.runs)
	}

	f.m.Tick(input.Frame{})
	if f.m.Phase() != Menu {
		t.Fatalf("dead should fall through to the menu, got %v", f.m.Phase())
	}
}

func TestNewRunStartsAtLevelZero(t *testing.T) {
	f := newFixture(t, 2)
	f.start(t)
	if f.m.Session().Level != 2 {
		t.Fatalf("first run should honour the start override, level = %d", f.m.Session().Level)
	}

	lvl := f.m.Level()
	p, _ := ecs.Get(lvl.World, lvl.Player, component.PlayerComponent.Kind())
	p.Dead = true
	for f.m.Phase() != Menu {
		f.m.Tick(input.Frame{})
	}

	f.start(t)
	if got := f.m.Session().Level; got != 0 {
		t.Fatalf("second run level = %d, want 0", got)
	}
	if f.m.Level().Def.Index != 0 {
		t.Fatalf("loaded layout index = %d, want 0", f.m.Level().Def.Index)
	}
}

func TestEventsDrainIntoSubsystems(t *testing.T) {
	f := newFixture(t, 0)
	f.start(t)
	lvl := f.m.Level()
	box := lvl.PlayerBox()

	lvl.World.Events().Push(ecs.Event{Kind: ecs.EventEnemyDefeated, X: box.CenterX(), Y: box.CenterY() - 40})
	lvl.World.Events().Push(ecs.Event{Kind: ecs.EventShake, Magnitude: 16})
	lvl.World.Events().Push(ecs.Event{Kind: ecs.EventTutorial, Name: string(tutorial.Jump), X: 10, Y: 10})
	f.m.Tick(input.Frame{})

	frags := f.m.Fragments()
	if got := len(frags.Fragments()) + frags.Count("password"); got != 1 {
		t.Fatalf("expected one spawned fragment, got %d", got)
	}
	if lvl.Shake != 16 {
		t.Fatalf("shake = %v, want 16", lvl.Shake)
	}
	if len(f.m.Tutorial().Messages()) != 1 {
		t.Fatalf("expected one tutorial message")
	}
	if lvl.EnemiesDefeated != 1 || f.m.Session().Defeated != 1 {
		t.Fatalf("defeat not counted")
	}

	f.m.Tick(input.Frame{})
	if lvl.Shake != 15.5 {
		t.Fatalf("shake should decay by 0.5, got %v", lvl.Shake)
	}

	lvl.World.Events().Push(ecs.Event{Kind: ecs.EventTutorial, Name: string(tutorial.Jump)})
	f.m.Tick(input.Frame{})
	if len(f.m.Tutorial().Messages()) != 1 {
		t.Fatalf("re-firing a trigger must not add a message")
	}
}

func TestObjectiveCompletePurgesEnemies(t *testing.T) {
	f := newFixture(t, 0)
	f.start(t)
	lvl := f.m.Level()
	if lvl.EnemyCount() == 0 {
		t.Fatalf("fixture level should have enemies")
	}

	f.m.objectiveComplete(lvl)
	f.m.objectiveComplete(lvl)

	if lvl.EnemyCount() != 0 {
		t.Fatalf("enemies should be purged")
	}
	var decrypted int
	for _, v := range f.feed.Snapshot() {
		if strings.HasSuffix(v.Message, "decrypted") {
			decrypted++
		}
	}
	if decrypted != 1 {
		t.Fatalf("expected one completion log, got %d", decrypted)
	}
}

func TestMenuSkinCycle(t *testing.T) {
	f := newFixture(t, 0)
	f.m.Tick(input.Frame{}.Press(input.Right))
	if got := f.m.Session().Skin; got != "neon" {
		t.Fatalf("skin = %q, want neon", got)
	}
	if f.m.Manager().Skin() != "neon" {
		t.Fatalf("manager skin not updated")
	}
	f.m.Tick(input.Frame{}.Press(input.Right))
	if got := f.m.Session().Skin; got != "crimson" {
		t.Fatalf("skin should wrap to crimson, got %q", got)
	}
	f.m.Tick(input.Frame{}.Press(input.Left))
	if got := f.m.Session().Skin; got != "neon" {
		t.Fatalf("skin = %q, want neon", got)
	}
}

func TestMenuSettingsAreSaved(t *testing.T) {
	f := newFixture(t, 0)
	f.m.reached = 2

	f.m.Tick(input.Frame{}.Press(input.Right))
	if len(f.saver.saved) != 1 {
		t.Fatalf("skin change should save, got %d saves", len(f.saver.saved))
	}
	if got := f.saver.saved[0]; got.Skin != "neon" || got.Level != 2 {
		t.Fatalf("saved %+v, want skin neon at level 2", got)
	}

	f.m.SetVolume(1.7)
	if len(f.saver.saved) != 2 {
		t.Fatalf("volume change should save, got %d saves", len(f.saver.saved))
	}
	if got := f.saver.saved[1]; got.Volume != 1 || got.Skin != "neon" || got.Level != 2 {
		t.Fatalf("saved %+v, want clamped volume 1", got)
	}
}

func TestRestartClearsTriggers(t *testing.T) {
	f := newFixture(t, 0)
	f.start(t)
	f.m.Tutorial().Fire(tutorial.Dash, 0, 0)

	lvl := f.m.Level()
	p, _ := ecs.Get(lvl.World, lvl.Player, component.PlayerComponent.Kind())
	p.Dead = true
	for f.m.Phase() != Menu {
		f.m.Tick(input.Frame{})
	}

	f.start(t)
	if f.m.Tutorial().HasFired(tutorial.Dash) {
		t.Fatalf("a new run should clear fired triggers")
	}
	if len(f.m.Tutorial().Messages()) != 0 {
		t.Fatalf("a new run should clear live messages")
	}
	if f.m.Session().Lives != f.m.Game().StartLives {
		t.Fatalf("lives not restored")
	}
}

func TestLogTickAdvancesInEveryPhase(t *testing.T) {
	f := newFixture(t, 0)
	f.m.Tick(input.Frame{})
	f.m.Tick(input.Frame{})
	if f.feed.Tick() != 2 {
		t.Fatalf("menu ticks should advance the log, tick = %d", f.feed.Tick())
	}
	f.start(t)
	if f.feed.Tick() != 3 {
		t.Fatalf("tick = %d, want 3", f.feed.Tick())
	}
}

func TestPhaseString(t *testing.T) {
	tests := map[Phase]string{
		Menu:               "menu",
		Playing:            "playing",
		LevelTransitioning: "level_transitioning",
		Dead:               "dead",
		GameOver:           "game_over",
		Phase(99):          "unknown",
	}
	for p, want := range tests {
		if p.String() != want {
			t.Fatalf("%d.String() = %q, want %q", int(p), p.String(), want)
		}
	}
}
