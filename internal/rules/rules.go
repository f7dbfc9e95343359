// Package rules defines reaction rules and matches messages against them.
package rules

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// MatchMode selects how trigger words are compared against message content.
// The set is intentionally closed; dispatch is a plain switch.
type MatchMode int

const (
	MatchContains MatchMode = iota
	MatchExact
	MatchStartsWith
	MatchEndsWith
	MatchRegex
)

var matchModeNames = map[MatchMode]string{
	MatchContains:   "Contains",
	MatchExact:      "Exact",
	MatchStartsWith: "StartsWith",
	MatchEndsWith:   "EndsWith",
	MatchRegex:      "Regex",
}

func (m MatchMode) String() string {
	if name, ok := matchModeNames[m]; ok {
		return name
	}
	return "Contains"
}

func ParseMatchMode(value string) (MatchMode, error) {
	for mode, name := range matchModeNames {
		if strings.EqualFold(name, value) {
			return mode, nil
		}
	}
	return MatchContains, fmt.Errorf("unknown match mode %q", value)
}

func (m MatchMode) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(m.String())), nil
}

func (m *MatchMode) UnmarshalJSON(data []byte) error {
	value, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("match mode must be a string: %w", err)
	}
	mode, err := ParseMatchMode(value)
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// Snowflake is a Discord entity ID. Documents may carry it as a JSON string
// or number; it always marshals back as a string to avoid float precision
// loss in other tooling.
type Snowflake uint64

func (s Snowflake) String() string {
	return strconv.FormatUint(uint64(s), 10)
}

func ParseSnowflake(value string) (Snowflake, error) {
	id, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid snowflake %q: %w", value, err)
	}
	return Snowflake(id), nil
}

func (s Snowflake) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(s.String())), nil
}

func (s *Snowflake) UnmarshalJSON(data []byte) error {
	text := string(bytes.Trim(data, `"`))
	id, err := ParseSnowflake(text)
	if err != nil {
		return err
	}
	*s = id
	return nil
}

// Rule maps trigger words to emoji reactions, with optional channel and user
// scope filters. Empty filter lists mean unrestricted; IgnoreUserIDs always
// excludes, regardless of the allow-list.
type Rule struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Enabled       bool        `json:"enabled"`
	TriggerWords  []string    `json:"triggerWords"`
	Emojis        []string    `json:"emojis"`
	ChannelIDs    []Snowflake `json:"channelIds"`
	UserIDs       []Snowflake `json:"userIds"`
	IgnoreUserIDs []Snowflake `json:"ignoreUserIds"`
	CaseSensitive bool        `json:"caseSensitive"`
	MatchMode     MatchMode   `json:"matchMode"`
}

// New returns an enabled rule with a freshly generated ID. IDs are assigned
// once at creation and never reused.
func New(name string) *Rule {
	return &Rule{
		ID:      uuid.NewString(),
		Name:    name,
		Enabled: true,
	}
}

func (r *Rule) Clone() *Rule {
	clone := *r
	clone.TriggerWords = append([]string(nil), r.TriggerWords...)
	clone.Emojis = append([]string(nil), r.Emojis...)
	clone.ChannelIDs = append([]Snowflake(nil), r.ChannelIDs...)
	clone.UserIDs = append([]Snowflake(nil), r.UserIDs...)
	clone.IgnoreUserIDs = append([]Snowflake(nil), r.IgnoreUserIDs...)
	return &clone
}
