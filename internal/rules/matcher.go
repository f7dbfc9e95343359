package rules

import (
	"iter"

	"autoreacto/internal/textmatch"
)

// MatchedTrigger returns the first trigger word of the rule that matches the
// content, for diagnostics. Trigger order decides attribution only; the
// boolean outcome is order-independent.
func MatchedTrigger(content string, rule *Rule) (string, bool) {
	if content == "" || !rule.Enabled {
		return "", false
	}
	for _, trigger := range rule.TriggerWords {
		var matches bool
		switch rule.MatchMode {
		case MatchContains:
			matches = textmatch.Contains(content, trigger, rule.CaseSensitive)
		case MatchExact:
			matches = textmatch.Equals(content, trigger, rule.CaseSensitive)
		case MatchStartsWith:
			matches = textmatch.HasPrefix(content, trigger, rule.CaseSensitive)
		case MatchEndsWith:
			matches = textmatch.HasSuffix(content, trigger, rule.CaseSensitive)
		case MatchRegex:
			matches = textmatch.MatchesPattern(content, trigger, rule.CaseSensitive)
		}
		if matches {
			return trigger, true
		}
	}
	return "", false
}

func IsMatch(content string, rule *Rule) bool {
	_, ok := MatchedTrigger(content, rule)
	return ok
}

// Matching yields the rules that apply to a message, in input order. The
// sequence is restartable and carries no shared cursor state.
func Matching(content string, channelID, userID Snowflake, list []*Rule) iter.Seq[*Rule] {
	return func(yield func(*Rule) bool) {
		for _, rule := range list {
			if !rule.Enabled {
				continue
			}
			if containsID(rule.IgnoreUserIDs, userID) {
				continue
			}
			if len(rule.ChannelIDs) > 0 && !containsID(rule.ChannelIDs, channelID) {
				continue
			}
			if len(rule.UserIDs) > 0 && !containsID(rule.UserIDs, userID) {
				continue
			}
			if !IsMatch(content, rule) {
				continue
			}
			if !yield(rule) {
				return
			}
		}
	}
}

func containsID(ids []Snowflake, id Snowflake) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
