package bot

import (
	"context"
	"strconv"
	"strings"
	"time"

	"autoreacto/internal/journal"
	"autoreacto/internal/rules"
	"autoreacto/internal/settings"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

func (b *Bot) onReady(session *discordgo.Session, event *discordgo.Ready) {
	b.logger.Info("discord ready",
		zap.String("user", session.State.User.Username),
		zap.Int("guilds", len(event.Guilds)))
}

func (b *Bot) onMessageCreate(session *discordgo.Session, msg *discordgo.MessageCreate) {
	if msg.Author == nil {
		return
	}

	cfg := b.store.Settings()

	// Self and bot filtering happens once, here, before any rule matching.
	if cfg.Settings.IgnoreSelf && session.State != nil && session.State.User != nil && msg.Author.ID == session.State.User.ID {
		return
	}
	if cfg.Settings.IgnoreBots && msg.Author.Bot {
		return
	}

	if cfg.Prefix != "" && strings.HasPrefix(msg.Content, cfg.Prefix) {
		b.handleCommand(session, msg, strings.TrimPrefix(msg.Content, cfg.Prefix))
		return
	}

	// One task per message; a slow dispatch must not hold up matching for
	// the next message.
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.react(b.ctx, session, msg, cfg)
	}()
}

func (b *Bot) react(ctx context.Context, session *discordgo.Session, msg *discordgo.MessageCreate, cfg *settings.BotSettings) {
	channelID, err := rules.ParseSnowflake(msg.ChannelID)
	if err != nil {
		return
	}
	userID, err := rules.ParseSnowflake(msg.Author.ID)
	if err != nil {
		return
	}

	ruleSet := b.store.Rules()
	var matched []*rules.Rule
	for rule := range rules.Matching(msg.Content, channelID, userID, ruleSet.ReactionRules) {
		if trigger, ok := rules.MatchedTrigger(msg.Content, rule); ok {
			b.logger.Debug("rule matched",
				zap.String("rule", rule.Name),
				zap.String("trigger", trigger),
				zap.String("author", msg.Author.ID))
		}
		matched = append(matched, rule)
	}
	if len(matched) == 0 {
		return
	}

	sink := &reactionSink{session: session, channelID: msg.ChannelID, messageID: msg.ID}
	added := b.dispatcher.Handle(ctx, sink, cfg.Settings, matched)
	if added == 0 {
		return
	}

	b.logger.Info("reactions added",
		zap.Int("count", added),
		zap.Int("rules", len(matched)),
		zap.String("channel", msg.ChannelID),
		zap.String("author", msg.Author.ID))
	if b.journal != nil {
		entry := journal.Dispatch{
			ChannelID: msg.ChannelID,
			MessageID: msg.ID,
			AuthorID:  msg.Author.ID,
			Rules:     len(matched),
			Reactions: added,
			CreatedAt: time.Now(),
		}
		if err := b.journal.AddDispatch(ctx, entry); err != nil {
			b.logger.Warn("journal write failed", zap.Error(err))
		}
	}
}

// Commands answer with a reaction on the command message itself; the bot
// never composes chat messages.
func (b *Bot) handleCommand(session *discordgo.Session, msg *discordgo.MessageCreate, rest string) {
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return
	}

	switch strings.ToLower(fields[0]) {
	case "ping":
		b.ack(session, msg, "🏓")
	case "rules":
		count := b.store.Rules().EnabledRules()
		b.logger.Info("rule count requested",
			zap.Int("enabled", count),
			zap.String("author", msg.Author.ID))
		for _, keycap := range countEmojis(count) {
			b.ack(session, msg, keycap)
		}
	case "reload":
		if err := b.store.Load(); err != nil {
			b.logger.Error("manual reload failed", zap.Error(err))
			b.ack(session, msg, "❌")
			return
		}
		b.logger.Info("configuration reloaded by command", zap.String("author", msg.Author.ID))
		b.ack(session, msg, "✅")
	}
}

var keycaps = [...]string{
	"0️⃣", "1️⃣", "2️⃣", "3️⃣",
	"4️⃣", "5️⃣", "6️⃣", "7️⃣",
	"8️⃣", "9️⃣", "🔟",
}

// countEmojis renders a count as keycap reactions. The same reaction can
// only appear once on a message, so repeated digits collapse.
func countEmojis(n int) []string {
	if n >= 0 && n <= 10 {
		return []string{keycaps[n]}
	}
	var out []string
	seen := make(map[rune]bool)
	for _, d := range strconv.Itoa(n) {
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, keycaps[d-'0'])
	}
	return out
}

func (b *Bot) ack(session *discordgo.Session, msg *discordgo.MessageCreate, emoji string) {
	if err := session.MessageReactionAdd(msg.ChannelID, msg.ID, emoji); err != nil {
		b.logger.Debug("command ack failed", zap.Error(err))
	}
}
