package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/titanous/json5"
	"go.uber.org/zap"
)

// Store serves immutable snapshots of both configuration documents to
// concurrent readers while reloads and saves replace them atomically. A
// single mutex covers every load, reload, save and snapshot read, so a
// reader never observes a document mid-swap.
type Store struct {
	mu           sync.Mutex
	logger       *zap.Logger
	settingsPath string
	rulesPath    string

	botSettings *BotSettings
	ruleSet     *RuleSet

	// watcher knobs, overridable in tests
	debounceInterval time.Duration
	settleDelay      time.Duration
	notify           func(document string)
}

func NewStore(dir string, logger *zap.Logger) *Store {
	return &Store{
		logger:           logger,
		settingsPath:     filepath.Join(dir, SettingsFile),
		rulesPath:        filepath.Join(dir, RulesFile),
		botSettings:      DefaultBotSettings(),
		ruleSet:          &RuleSet{},
		debounceInterval: defaultDebounceInterval,
		settleDelay:      defaultSettleDelay,
	}
}

// SetNotify registers a hook invoked after every successful reload with the
// document basename. Must be set before Watch; may stay nil.
func (s *Store) SetNotify(notify func(document string)) {
	s.notify = notify
}

// Settings returns the current settings snapshot. The returned value must
// not be mutated.
func (s *Store) Settings() *BotSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.botSettings
}

// Rules returns the current rule-set snapshot. The returned value must not
// be mutated.
func (s *Store) Rules() *RuleSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ruleSet
}

// Load reads both documents, synthesizing and persisting defaults for any
// that are missing.
func (s *Store) Load() error {
	if err := s.ReloadSettings(); err != nil {
		return err
	}
	return s.ReloadRules()
}

func (s *Store) ReloadSettings() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reloadSettingsLocked()
}

func (s *Store) ReloadRules() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reloadRulesLocked()
}

func (s *Store) reloadSettingsLocked() error {
	data, err := os.ReadFile(s.settingsPath)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("settings document missing, writing default", zap.String("path", s.settingsPath))
		s.botSettings = DefaultBotSettings()
		return writeDocument(s.settingsPath, s.botSettings)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", s.settingsPath, err)
	}

	loaded := DefaultBotSettings()
	if err := json5.Unmarshal(data, loaded); err != nil {
		// Prior snapshot stays in place; a corrupt file must never blank
		// out a working configuration.
		return fmt.Errorf("parse %s: %w", s.settingsPath, err)
	}
	normalizeGlobals(&loaded.Settings)

	s.botSettings = loaded
	s.logger.Info("settings loaded", zap.String("path", s.settingsPath))
	return nil
}

func (s *Store) reloadRulesLocked() error {
	data, err := os.ReadFile(s.rulesPath)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("rule-set document missing, writing default", zap.String("path", s.rulesPath))
		s.ruleSet = DefaultRuleSet()
		return writeDocument(s.rulesPath, s.ruleSet)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", s.rulesPath, err)
	}

	loaded := &RuleSet{}
	if err := json5.Unmarshal(data, loaded); err != nil {
		return fmt.Errorf("parse %s: %w", s.rulesPath, err)
	}

	s.ruleSet = loaded
	s.logger.Info("rule set loaded", zap.String("path", s.rulesPath), zap.Int("rules", len(loaded.ReactionRules)))
	return nil
}

// UpdateSettings applies a mutation to a copy of the settings snapshot,
// swaps it in, and persists it.
func (s *Store) UpdateSettings(mutate func(*BotSettings)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := s.botSettings.Clone()
	mutate(updated)
	normalizeGlobals(&updated.Settings)
	if err := writeDocument(s.settingsPath, updated); err != nil {
		return err
	}
	s.botSettings = updated
	return nil
}

// UpdateRules applies a mutation to a copy of the rule-set snapshot, swaps
// it in, and persists it.
func (s *Store) UpdateRules(mutate func(*RuleSet)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := s.ruleSet.Clone()
	mutate(updated)
	if err := writeDocument(s.rulesPath, updated); err != nil {
		return err
	}
	s.ruleSet = updated
	return nil
}

// RecordFrequentEmoji bumps an emoji to the front of the MRU list and
// persists the rule-set document.
func (s *Store) RecordFrequentEmoji(emoji string) error {
	return s.UpdateRules(func(rs *RuleSet) {
		rs.TouchFrequent(emoji)
	})
}

func (s *Store) SaveSettings() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeDocument(s.settingsPath, s.botSettings)
}

func (s *Store) SaveRules() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeDocument(s.rulesPath, s.ruleSet)
}

func normalizeGlobals(g *Globals) {
	if g.ReactionDelayMs < 0 {
		g.ReactionDelayMs = 0
	}
	if g.MaxReactionsPerMessage < 0 {
		g.MaxReactionsPerMessage = 0
	}
	if g.LogLevel == "" {
		g.LogLevel = "Information"
	}
}

// writeDocument serializes to a sibling temp file and renames it over the
// target, so a concurrent reader only ever sees a fully written document.
// HTML escaping is off so emoji and <:name:id> references survive verbatim.
func writeDocument(path string, doc any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
