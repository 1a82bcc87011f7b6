package prefabs

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrNegativeQuota       = errors.New("prefabs: negative fragment quota")
	ErrUnknownFragmentType = errors.New("prefabs: unknown fragment type")
	ErrUnknownTrigger      = errors.New("prefabs: unknown tutorial trigger")
	ErrRosterCaps          = errors.New("prefabs: roster caps must be non-empty and non-negative")
	ErrUnknownArchetype    = errors.New("prefabs: unknown enemy archetype")
)

// FragmentTypes is the closed set of collectible categories.
var FragmentTypes = []string{"password", "firewall", "masterkey"}

// TutorialTriggers is the closed set of one-shot hint names.
var TutorialTriggers = []string{"movement", "jump", "dash", "enemy"}

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// GameSpec holds gameplay tunables shared by the state machine and its
// subsystems.
type GameSpec struct {
	LevelCount          int               `yaml:"level_count"`
	StartLives          int               `yaml:"start_lives"`
	LogCapacity         int               `yaml:"log_capacity"`
	RosterCaps          []int             `yaml:"roster_caps"`
	LevelFragmentTypes  []string          `yaml:"level_fragment_types"`
	Quotas              map[string]int    `yaml:"quotas"`
	FragmentNames       map[string]string `yaml:"fragment_names"`
	FragmentColors      map[string]Color  `yaml:"fragment_colors"`
	DefaultArchetype    string            `yaml:"default_archetype"`
	TransitionThreshold int               `yaml:"transition_threshold"`
	DeathThreshold      int               `yaml:"death_threshold"`
	ShakeDecay          float64           `yaml:"shake_decay"`
	CrossfadeStep       int               `yaml:"crossfade_step"`
	TutorialLifetime    int               `yaml:"tutorial_lifetime"`
	TutorialFade        int               `yaml:"tutorial_fade"`
	Tutorial            map[string]string `yaml:"tutorial"`
	EnemyHintRange      float64           `yaml:"enemy_hint_range"`
	Skins               map[string]Color  `yaml:"skins"`
}

func LoadGameSpec() (*GameSpec, error) {
	spec, err := LoadSpec[GameSpec]("game.yaml")
	if err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

// Validate rejects configuration that would otherwise surface as runtime
// invariant violations.
func (s *GameSpec) Validate() error {
	if s.LevelCount <= 0 {
		return fmt.Errorf("prefabs: level_count must be positive, got %d", s.LevelCount)
	}
	if len(s.RosterCaps) == 0 {
		return ErrRosterCaps
	}
	for _, c := range s.RosterCaps {
		if c < 0 {
			return ErrRosterCaps
		}
	}
	for name, q := range s.Quotas {
		if !IsFragmentType(name) {
			return fmt.Errorf("quota %q: %w", name, ErrUnknownFragmentType)
		}
		if q < 0 {
			return fmt.Errorf("quota %q=%d: %w", name, q, ErrNegativeQuota)
		}
	}
	for i, t := range s.LevelFragmentTypes {
		if !IsFragmentType(t) {
			return fmt.Errorf("level %d fragment type %q: %w", i, t, ErrUnknownFragmentType)
		}
	}
	for name := range s.Tutorial {
		if !IsTutorialTrigger(name) {
			return fmt.Errorf("tutorial %q: %w", name, ErrUnknownTrigger)
		}
	}
	if s.LogCapacity <= 0 {
		return fmt.Errorf("prefabs: log_capacity must be positive, got %d", s.LogCapacity)
	}
	return nil
}

// RosterCap returns the enemy cap for a level; levels past the table reuse
// the last entry.
func (s *GameSpec) RosterCap(level int) int {
	if len(s.RosterCaps) == 0 {
		return 0
	}
	if level < 0 {
		level = 0
	}
	if level >= len(s.RosterCaps) {
		return s.RosterCaps[len(s.RosterCaps)-1]
	}
	return s.RosterCaps[level]
}

// FragmentTypeFor returns the fragment category tied to a level.
func (s *GameSpec) FragmentTypeFor(level int) string {
	if level >= 0 && level < len(s.LevelFragmentTypes) {
		return s.LevelFragmentTypes[level]
	}
	return FragmentTypes[0]
}

func IsFragmentType(name string) bool {
	for _, t := range FragmentTypes {
		if t == name {
			return true
		}
	}
	return false
}

func IsTutorialTrigger(name string) bool {
	for _, t := range TutorialTriggers {
		if t == name {
			return true
		}
	}
	return false
}

// EnemySpec describes one enemy archetype.
type EnemySpec struct {
	Name          string  `yaml:"name"`
	Color         Color   `yaml:"color"`
	Width         float64 `yaml:"width"`
	Height        float64 `yaml:"height"`
	MoveSpeed     float64 `yaml:"move_speed"`
	Health        int     `yaml:"health"`
	ContactDamage int     `yaml:"contact_damage"`
	FireCooldown  int     `yaml:"fire_cooldown"`
	ShotSpeed     float64 `yaml:"shot_speed"`
	Script        string  `yaml:"script"`
}

// EnemiesSpec is the archetype table keyed by archetype tag.
type EnemiesSpec struct {
	Archetypes map[string]EnemySpec `yaml:"archetypes"`
}

func LoadEnemiesSpec() (*EnemiesSpec, error) {
	spec, err := LoadSpec[EnemiesSpec]("enemies.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// Archetype looks up tag, falling back to fallback when tag is unknown.
func (s *EnemiesSpec) Archetype(tag, fallback string) (EnemySpec, error) {
	if s != nil {
		if a, ok := s.Archetypes[tag]; ok {
			return a, nil
		}
		if a, ok := s.Archetypes[fallback]; ok {
			return a, fmt.Errorf("archetype %q: %w", tag, ErrUnknownArchetype)
		}
	}
	return EnemySpec{}, fmt.Errorf("archetype %q: %w", tag, ErrUnknownArchetype)
}

// PlayerSpec is the controller tuning of the player entity.
type PlayerSpec struct {
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
	MoveSpeed    float64 `yaml:"move_speed"`
	JumpSpeed    float64 `yaml:"jump_speed"`
	MaxJumps     int     `yaml:"max_jumps"`
	CoyoteFrames int     `yaml:"coyote_frames"`
	DashSpeed    float64 `yaml:"dash_speed"`
	DashFrames   int     `yaml:"dash_frames"`
	DashCooldown int     `yaml:"dash_cooldown"`
	Health       int     `yaml:"health"`
	Gravity      float64 `yaml:"gravity"`
	Terminal     float64 `yaml:"terminal"`
}

func LoadPlayerSpec() (*PlayerSpec, error) {
	spec, err := LoadSpec[PlayerSpec]("player.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// Color decodes "#rrggbb" or "#rrggbbaa" YAML scalars.
type Color struct {
	color.NRGBA
}

func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	var (
		out = color.NRGBA{A: 0xff}
		err error
	)
	if out.R, err = parse(0); err != nil {
		return err
	}
	if out.G, err = parse(2); err != nil {
		return err
	}
	if out.B, err = parse(4); err != nil {
		return err
	}
	if len(s) == 8 {
		if out.A, err = parse(6); err != nil {
			return err
		}
	}
	c.NRGBA = out
	return nil
}
