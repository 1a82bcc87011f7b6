// Package session persists the player's progress between runs.
package session

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

const (
	saveObject   = "save"
	saveProperty = "progress"
)

// Defaults for fields missing from a save file.
const (
	DefaultLevel  = 0
	DefaultSkin   = "default"
	DefaultVolume = 0.5
)

// Record is the persisted progress.
type Record struct {
	Level  int     `yaml:"level"`
	Skin   string  `yaml:"skin"`
	Volume float64 `yaml:"volume"`
}

// DefaultRecord is what a fresh install starts from.
func DefaultRecord() Record {
	return Record{Level: DefaultLevel, Skin: DefaultSkin, Volume: DefaultVolume}
}

// stored mirrors Record with optional fields so each missing key falls back
// on its own.
type stored struct {
	Level  *int     `yaml:"level"`
	Skin   *string  `yaml:"skin"`
	Volume *float64 `yaml:"volume"`
}

// Store saves records through gdata. A nil manager keeps the record in
// memory only.
type Store struct {
	manager *gdata.Manager
	current Record
	logger  *log.Logger
}

// Open creates a gdata-backed store for appName. When the platform storage
// is unavailable the store degrades to memory-only and the error is
// returned alongside it.
func Open(appName string, logger *log.Logger) (*Store, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return NewStore(nil, logger), fmt.Errorf("open save storage: %w", err)
	}
	return NewStore(m, logger), nil
}

func NewStore(m *gdata.Manager, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	s := &Store{manager: m, current: DefaultRecord(), logger: logger.WithPrefix("session")}
	if rec, err := s.read(); err != nil {
		s.logger.Warn("load save failed, using defaults", "err", err)
	} else {
		s.current = rec
	}
	return s
}

// Load returns the last saved record, or defaults.
func (s *Store) Load() Record {
	if s == nil {
		return DefaultRecord()
	}
	return s.current
}

// Save stores r. Without a manager only the in-memory copy changes.
func (s *Store) Save(r Record) error {
	if s == nil {
		return nil
	}
	r = normalize(r)
	s.current = r
	if s.manager == nil {
		return nil
	}
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal save: %w", err)
	}
	if err := s.manager.SaveObjectProp(saveObject, saveProperty, data); err != nil {
		return fmt.Errorf("write save: %w", err)
	}
	s.logger.Debug("progress saved", "level", r.Level, "skin", r.Skin)
	return nil
}

// Persistent reports whether saves reach disk.
func (s *Store) Persistent() bool {
	return s != nil && s.manager != nil
}

func (s *Store) read() (Record, error) {
	if s.manager == nil || !s.manager.ObjectPropExists(saveObject, saveProperty) {
		return DefaultRecord(), nil
	}
	data, err := s.manager.LoadObjectProp(saveObject, saveProperty)
	if err != nil {
		return DefaultRecord(), fmt.Errorf("read save: %w", err)
	}
	return Decode(data)
}

// Decode parses a save, filling each missing or invalid field with its
// default.
func Decode(data []byte) (Record, error) {
	var raw stored
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return DefaultRecord(), fmt.Errorf("unmarshal save: %w", err)
	}
	rec := DefaultRecord()
	if raw.Level != nil {
		rec.Level = *raw.Level
	}
	if raw.Skin != nil {
		rec.Skin = *raw.Skin
	}
	if raw.Volume != nil {
		rec.Volume = *raw.Volume
	}
	return normalize(rec), nil
}

func normalize(r Record) Record {
	if r.Level < 0 {
		r.Level = DefaultLevel
	}
	if r.Skin == "" {
		r.Skin = DefaultSkin
	}
	if r.Volume < 0 {
		r.Volume = 0
	}
	if r.Volume > 1 {
		r.Volume = 1
	}
	return r
}
