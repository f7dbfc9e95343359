package rules

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestSnowflakeUnmarshal(t *testing.T) {
	var ids []Snowflake
	if err := json.Unmarshal([]byte(`["123", 456]`), &ids); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(ids) != 2 || ids[0] != 123 || ids[1] != 456 {
		t.Fatalf("unexpected ids %v", ids)
	}

	data, err := json.Marshal(ids)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `["123","456"]` {
		t.Fatalf("snowflakes must marshal as strings, got %s", data)
	}

	if err := json.Unmarshal([]byte(`["abc"]`), &ids); err == nil {
		t.Fatalf("expected error for non-numeric id")
	}
}

func TestMatchModeJSON(t *testing.T) {
	var mode MatchMode
	for raw, want := range map[string]MatchMode{
		`"Contains"`:   MatchContains,
		`"exact"`:      MatchExact,
		`"STARTSWITH"`: MatchStartsWith,
		`"endsWith"`:   MatchEndsWith,
		`"regex"`:      MatchRegex,
	} {
		if err := json.Unmarshal([]byte(raw), &mode); err != nil {
			t.Fatalf("unmarshal %s: %v", raw, err)
		}
		if mode != want {
			t.Fatalf("unmarshal %s: got %v", raw, mode)
		}
	}

	if err := json.Unmarshal([]byte(`"Fuzzy"`), &mode); err == nil {
		t.Fatalf("expected error for unknown mode")
	}

	data, err := json.Marshal(MatchStartsWith)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"StartsWith"` {
		t.Fatalf("expected canonical form, got %s", data)
	}
}

func TestNewAssignsID(t *testing.T) {
	a := New("first")
	b := New("second")
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("expected unique generated ids, got %q and %q", a.ID, b.ID)
	}
	if !a.Enabled {
		t.Fatalf("new rules start enabled")
	}
}

func TestRuleClone(t *testing.T) {
	rule := New("clone me")
	rule.TriggerWords = []string{"hello"}
	rule.Emojis = []string{"👍"}

	clone := rule.Clone()
	clone.TriggerWords[0] = "changed"
	clone.Emojis = append(clone.Emojis, "🎉")

	if rule.TriggerWords[0] != "hello" || len(rule.Emojis) != 1 {
		t.Fatalf("clone must not share backing arrays")
	}
}

func TestRuleRoundTrip(t *testing.T) {
	rule := &Rule{
		ID:            "r1",
		Name:          "Türkçe kuralı",
		Enabled:       true,
		TriggerWords:  []string{"merhaba"},
		Emojis:        []string{"👋", "<:wave:123>"},
		ChannelIDs:    []Snowflake{1},
		IgnoreUserIDs: []Snowflake{2},
		MatchMode:     MatchEndsWith,
	}

	data, err := json.Marshal(rule)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), "👋") {
		t.Fatalf("emoji must survive marshalling verbatim: %s", data)
	}

	var decoded Rule
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Name != rule.Name || decoded.MatchMode != MatchEndsWith || decoded.Emojis[1] != "<:wave:123>" {
		t.Fatalf("round trip mismatch: %+v", decoded)
	}
}
