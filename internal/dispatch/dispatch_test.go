package dispatch

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"autoreacto/internal/emoji"
	"autoreacto/internal/rules"
	"autoreacto/internal/settings"

	"go.uber.org/zap"
)

type fakeSink struct {
	calls []string
	fail  map[int]error // 1-based call index → error
}

func (s *fakeSink) AddReaction(_ context.Context, emote emoji.Emote) error {
	s.calls = append(s.calls, emote.String())
	if err, ok := s.fail[len(s.calls)]; ok {
		return err
	}
	return nil
}

func emojiRule(id string, emojis ...string) *rules.Rule {
	return &rules.Rule{ID: id, Enabled: true, TriggerWords: []string{"x"}, Emojis: emojis}
}

func testGlobals() settings.Globals {
	return settings.Globals{MaxReactionsPerMessage: 10}
}

func TestHandleDeduplicatesAcrossRules(t *testing.T) {
	sink := &fakeSink{}
	matched := []*rules.Rule{
		emojiRule("a", "👍", "😀"),
		emojiRule("b", "👍", "🎉"),
	}

	added := New(zap.NewNop()).Handle(context.Background(), sink, testGlobals(), matched)
	if added != 3 {
		t.Fatalf("expected 3 accepted, got %d", added)
	}
	if len(sink.calls) != 3 || sink.calls[0] != "👍" || sink.calls[1] != "😀" || sink.calls[2] != "🎉" {
		t.Fatalf("unexpected dispatch order %v", sink.calls)
	}
}

func TestHandleTruncatesBeforeDedup(t *testing.T) {
	sink := &fakeSink{}
	matched := []*rules.Rule{
		emojiRule("a", "👍", "😀"),
		emojiRule("b", "👍", "🎉"),
	}
	cfg := testGlobals()
	cfg.MaxReactionsPerMessage = 1

	added := New(zap.NewNop()).Handle(context.Background(), sink, cfg, matched)
	if added != 1 || len(sink.calls) != 1 || sink.calls[0] != "👍" {
		t.Fatalf("expected single 👍 call, got added=%d calls=%v", added, sink.calls)
	}
}

func TestHandleZeroCap(t *testing.T) {
	sink := &fakeSink{}
	cfg := testGlobals()
	cfg.MaxReactionsPerMessage = 0

	added := New(zap.NewNop()).Handle(context.Background(), sink, cfg, []*rules.Rule{emojiRule("a", "👍")})
	if added != 0 || len(sink.calls) != 0 {
		t.Fatalf("cap of zero must suppress all submissions, got added=%d calls=%v", added, sink.calls)
	}
}

func TestHandlePermissionStops(t *testing.T) {
	sink := &fakeSink{fail: map[int]error{2: fmt.Errorf("forbidden: %w", ErrPermission)}}
	matched := []*rules.Rule{emojiRule("a", "👍", "😀", "🎉")}

	added := New(zap.NewNop()).Handle(context.Background(), sink, testGlobals(), matched)
	if added != 1 {
		t.Fatalf("expected 1 accepted before permission failure, got %d", added)
	}
	if len(sink.calls) != 2 {
		t.Fatalf("expected exactly 2 sink calls, got %d", len(sink.calls))
	}
}

func TestHandleOtherFailureContinues(t *testing.T) {
	sink := &fakeSink{fail: map[int]error{2: errors.New("unknown emoji")}}
	matched := []*rules.Rule{emojiRule("a", "👍", "😀", "🎉")}

	added := New(zap.NewNop()).Handle(context.Background(), sink, testGlobals(), matched)
	if added != 2 {
		t.Fatalf("expected 2 accepted, got %d", added)
	}
	if len(sink.calls) != 3 {
		t.Fatalf("one bad emote must not block the rest, got %d calls", len(sink.calls))
	}
}

func TestHandleInvalidEmojisExcluded(t *testing.T) {
	sink := &fakeSink{}
	matched := []*rules.Rule{emojiRule("a", "not-an-emoji", "👍")}

	added := New(zap.NewNop()).Handle(context.Background(), sink, testGlobals(), matched)
	if added != 1 || sink.calls[0] != "👍" {
		t.Fatalf("invalid entries must be silently excluded, got %v", sink.calls)
	}
}

func TestHandleNoMatches(t *testing.T) {
	sink := &fakeSink{}
	if added := New(zap.NewNop()).Handle(context.Background(), sink, testGlobals(), nil); added != 0 {
		t.Fatalf("expected no-op, got %d", added)
	}
	if len(sink.calls) != 0 {
		t.Fatalf("no sink calls expected")
	}
}

func TestHandleCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink := &fakeSink{}
	added := New(zap.NewNop()).Handle(ctx, sink, testGlobals(), []*rules.Rule{emojiRule("a", "👍")})
	if added != 0 || len(sink.calls) != 0 {
		t.Fatalf("cancelled dispatch must make no sink calls, got added=%d calls=%v", added, sink.calls)
	}
}

func TestHandleCancelledMidway(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sink := &cancellingSink{cancel: cancel, after: 1}
	cfg := testGlobals()
	cfg.ReactionDelayMs = 5

	added := New(zap.NewNop()).Handle(ctx, sink, cfg, []*rules.Rule{emojiRule("a", "👍", "😀", "🎉")})
	if added != 1 {
		t.Fatalf("expected partial count 1, got %d", added)
	}
	if sink.calls != 1 {
		t.Fatalf("no further sink calls after cancellation, got %d", sink.calls)
	}
}

type cancellingSink struct {
	cancel context.CancelFunc
	after  int
	calls  int
}

func (s *cancellingSink) AddReaction(context.Context, emoji.Emote) error {
	s.calls++
	if s.calls == s.after {
		s.cancel()
	}
	return nil
}
