// Package dispatch turns matched rules into a paced sequence of reaction
// submissions against a fallible sink.
package dispatch

import (
	"context"
	"errors"
	"time"

	"autoreacto/internal/emoji"
	"autoreacto/internal/rules"
	"autoreacto/internal/settings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ErrPermission marks a sink failure caused by missing permissions. Further
// submissions for the same message are pointless and stop immediately.
var ErrPermission = errors.New("missing permission to add reactions")

// Sink accepts one reaction at a time, bound to a single message.
type Sink interface {
	AddReaction(ctx context.Context, emote emoji.Emote) error
}

type Dispatcher struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Dispatcher {
	return &Dispatcher{logger: logger}
}

// Handle expands matched rules into a deduplicated, capped emote list and
// submits it in order. It returns the number of reactions the sink accepted;
// cancellation or a permission failure stops early with the partial count.
func (d *Dispatcher) Handle(ctx context.Context, sink Sink, cfg settings.Globals, matched []*rules.Rule) int {
	if len(matched) == 0 {
		return 0
	}

	var emotes []emoji.Emote
	for _, rule := range matched {
		emotes = append(emotes, emoji.ParseAll(rule.Emojis)...)
	}
	if len(emotes) > cfg.MaxReactionsPerMessage {
		emotes = emotes[:cfg.MaxReactionsPerMessage]
	}
	emotes = dedupe(emotes)

	// Burst 1 lets the first submission through unpaced and spaces the rest.
	var limiter *rate.Limiter
	if cfg.ReactionDelayMs > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Duration(cfg.ReactionDelayMs)*time.Millisecond), 1)
	}

	added := 0
	for _, emote := range emotes {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return added
			}
		} else if ctx.Err() != nil {
			return added
		}

		err := sink.AddReaction(ctx, emote)
		if err == nil {
			added++
			d.logger.Debug("reaction added", zap.String("emote", emote.String()))
			continue
		}
		if errors.Is(err, ErrPermission) {
			d.logger.Warn("missing permission, stopping dispatch for message", zap.Error(err))
			return added
		}
		if ctx.Err() != nil {
			return added
		}
		// One bad emote must not block the rest.
		d.logger.Error("reaction failed", zap.String("emote", emote.String()), zap.Error(err))
	}
	return added
}

// dedupe drops repeated emotes by canonical render form, keeping the first
// occurrence.
func dedupe(emotes []emoji.Emote) []emoji.Emote {
	seen := make(map[string]struct{}, len(emotes))
	result := emotes[:0]
	for _, emote := range emotes {
		key := emote.String()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, emote)
	}
	return result
}
