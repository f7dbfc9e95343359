// Package settings owns the two durable configuration documents: the bot
// settings document and the rule-set document. Both are human-editable JSON,
// hot-reloaded on file change.
package settings

import (
	"autoreacto/internal/rules"
)

const (
	// SettingsFile and RulesFile are the document basenames inside the
	// config directory.
	SettingsFile = "config.json"
	RulesFile    = "emojis.json"

	frequentEmojiCap = 20
)

// Globals are the bot-scoped knobs consumed by the dispatch path.
type Globals struct {
	IgnoreBots             bool   `json:"ignoreBots"`
	IgnoreSelf             bool   `json:"ignoreSelf"`
	ReactionDelayMs        int    `json:"reactionDelayMs"`
	MaxReactionsPerMessage int    `json:"maxReactionsPerMessage"`
	LogLevel               string `json:"logLevel"`
}

// BotSettings is the settings document. Mutated only through the store's
// save path; everywhere else it is a read-only snapshot.
type BotSettings struct {
	Token    string  `json:"token"`
	Prefix   string  `json:"prefix"`
	Settings Globals `json:"settings"`
}

func (s *BotSettings) Clone() *BotSettings {
	clone := *s
	return &clone
}

// RuleSet is the rule-set document: ordered reaction rules plus the custom
// emote list and the most-recently-used emoji list maintained for the editor.
type RuleSet struct {
	ReactionRules  []*rules.Rule `json:"reactionRules"`
	CustomEmojis   []string      `json:"customEmojis"`
	FrequentEmojis []string      `json:"frequentEmojis"`
}

func (rs *RuleSet) Clone() *RuleSet {
	clone := &RuleSet{
		ReactionRules:  make([]*rules.Rule, 0, len(rs.ReactionRules)),
		CustomEmojis:   append([]string(nil), rs.CustomEmojis...),
		FrequentEmojis: append([]string(nil), rs.FrequentEmojis...),
	}
	for _, rule := range rs.ReactionRules {
		clone.ReactionRules = append(clone.ReactionRules, rule.Clone())
	}
	return clone
}

func (rs *RuleSet) EnabledRules() int {
	count := 0
	for _, rule := range rs.ReactionRules {
		if rule.Enabled {
			count++
		}
	}
	return count
}

// TouchFrequent moves the emoji to the front of the MRU list, inserting it
// if absent. The list never exceeds its capacity and never holds duplicates.
func (rs *RuleSet) TouchFrequent(emoji string) {
	updated := make([]string, 0, len(rs.FrequentEmojis)+1)
	updated = append(updated, emoji)
	for _, existing := range rs.FrequentEmojis {
		if existing == emoji {
			continue
		}
		updated = append(updated, existing)
	}
	if len(updated) > frequentEmojiCap {
		updated = updated[:frequentEmojiCap]
	}
	rs.FrequentEmojis = updated
}

func DefaultBotSettings() *BotSettings {
	return &BotSettings{
		Token:  "YOUR_BOT_TOKEN_HERE",
		Prefix: "!",
		Settings: Globals{
			IgnoreBots:             true,
			IgnoreSelf:             true,
			ReactionDelayMs:        250,
			MaxReactionsPerMessage: 20,
			LogLevel:               "Information",
		},
	}
}

// DefaultRuleSet carries two starter rules so a fresh install reacts to
// something out of the box.
func DefaultRuleSet() *RuleSet {
	return &RuleSet{
		ReactionRules: []*rules.Rule{
			{
				ID:           "example-rule-1",
				Name:         "Hello Reaction",
				Enabled:      true,
				TriggerWords: []string{"hello", "hi", "merhaba"},
				Emojis:       []string{"👋", "😊"},
				MatchMode:    rules.MatchContains,
			},
			{
				ID:           "example-rule-2",
				Name:         "Heart Reaction",
				Enabled:      true,
				TriggerWords: []string{"love", "aşk", "❤️"},
				Emojis:       []string{"❤️", "💕"},
				MatchMode:    rules.MatchContains,
			},
		},
		CustomEmojis:   []string{},
		FrequentEmojis: []string{"👋", "😊", "❤️", "💕", "😂", "🎉"},
	}
}
