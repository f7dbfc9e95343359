// Package emoji parses free-form emoji strings into reactable emotes,
// either Unicode emoji or custom guild emotes in <:name:id> form.
package emoji

import (
	"regexp"
	"strings"
	"unicode"
)

// Emote is a single reactable unit. A custom emote carries a name and a
// numeric ID; a Unicode emote carries the raw string in Name with an empty ID.
type Emote struct {
	Name     string
	ID       string
	Animated bool
}

func (e Emote) IsCustom() bool {
	return e.ID != ""
}

// String renders the canonical display form used for deduplication,
// <a:name:id> for animated customs.
func (e Emote) String() string {
	if e.ID == "" {
		return e.Name
	}
	if e.Animated {
		return "<a:" + e.Name + ":" + e.ID + ">"
	}
	return "<:" + e.Name + ":" + e.ID + ">"
}

// APIName renders the identifier the Discord reaction endpoint expects:
// "name:id" ("a:name:id" when animated) for custom emotes, the raw string
// for Unicode emoji.
func (e Emote) APIName() string {
	if e.ID == "" {
		return e.Name
	}
	if e.Animated {
		return "a:" + e.Name + ":" + e.ID
	}
	return e.Name + ":" + e.ID
}

var customPattern = regexp.MustCompile(`^<(a?):([A-Za-z0-9_~]+):([0-9]+)>$`)

// Parse turns a raw string into an Emote. Unparseable input yields no value,
// never an error.
func Parse(raw string) (Emote, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Emote{}, false
	}
	if m := customPattern.FindStringSubmatch(raw); m != nil {
		return Emote{Name: m[2], ID: m[3], Animated: m[1] == "a"}, true
	}
	if isUnicodeEmoji(raw) {
		return Emote{Name: raw}, true
	}
	return Emote{}, false
}

// ParseAll filters out unparseable entries, preserving input order.
func ParseAll(raws []string) []Emote {
	var emotes []Emote
	for _, raw := range raws {
		if emote, ok := Parse(raw); ok {
			emotes = append(emotes, emote)
		}
	}
	return emotes
}

func isUnicodeEmoji(input string) bool {
	plain := true
	for _, r := range input {
		if r > unicode.MaxASCII || !(isASCIIAlphanumeric(r) || unicode.IsSpace(r)) {
			plain = false
			break
		}
	}
	if plain {
		return false
	}
	for _, r := range input {
		if isEmojiRune(r) {
			return true
		}
	}
	return false
}

func isASCIIAlphanumeric(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// emojiRanges lists code point ranges that mark a string as emoji-bearing:
// emoticons, pictographs, transport, dingbats, flags, variation selectors,
// ZWJ, keycaps, tags, and the assorted symbol blocks platforms render as
// emoji. Sorted by low bound.
var emojiRanges = [][2]rune{
	{0x00A9, 0x00A9},   // copyright
	{0x00AE, 0x00AE},   // registered
	{0x200D, 0x200D},   // zero width joiner
	{0x203C, 0x203C},   // double exclamation
	{0x2049, 0x2049},   // exclamation question
	{0x20E3, 0x20E3},   // combining enclosing keycap
	{0x2122, 0x2122},   // trade mark
	{0x2139, 0x2139},   // information
	{0x2190, 0x21FF},   // arrows
	{0x2200, 0x22FF},   // mathematical operators
	{0x231A, 0x231B},   // watch, hourglass
	{0x2328, 0x2328},   // keyboard
	{0x23CF, 0x23CF},   // eject
	{0x23E9, 0x23F3},   // media controls
	{0x23F8, 0x23FA},   // media controls
	{0x24C2, 0x24C2},   // circled M
	{0x25A0, 0x25FF},   // geometric shapes
	{0x2600, 0x26FF},   // miscellaneous symbols
	{0x2700, 0x27BF},   // dingbats
	{0x3000, 0x303F},   // CJK symbols
	{0xFE00, 0xFE0F},   // variation selectors
	{0x1F100, 0x1F1FF}, // enclosed alphanumerics, regional indicators
	{0x1F300, 0x1F5FF}, // misc symbols and pictographs
	{0x1F600, 0x1F64F}, // emoticons
	{0x1F680, 0x1F6FF}, // transport and map
	{0x1F900, 0x1F9FF}, // supplemental pictographs
	{0x1FA00, 0x1FAFF}, // pictographs extended
	{0xE0020, 0xE007F}, // tags
}

func isEmojiRune(r rune) bool {
	for _, rng := range emojiRanges {
		if r < rng[0] {
			return false
		}
		if r <= rng[1] {
			return true
		}
	}
	return false
}
