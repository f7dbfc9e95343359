// Package bot wires the Discord gateway to rule matching and reaction
// dispatch.
package bot

import (
	"context"
	"sync"

	"autoreacto/internal/dispatch"
	"autoreacto/internal/journal"
	"autoreacto/internal/settings"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

type Bot struct {
	logger     *zap.Logger
	store      *settings.Store
	journal    *journal.Store
	dispatcher *dispatch.Dispatcher
	session    *discordgo.Session

	// ctx is the root of every in-flight dispatch; cancelled on Close.
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(token string, store *settings.Store, journalStore *journal.Store, logger *zap.Logger) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	ctx, cancel := context.WithCancel(context.Background())
	return &Bot{
		logger:     logger,
		store:      store,
		journal:    journalStore,
		dispatcher: dispatch.New(logger),
		session:    session,
		ctx:        ctx,
		cancel:     cancel,
	}, nil
}

func (b *Bot) Start() error {
	b.session.AddHandler(b.onReady)
	b.session.AddHandler(b.onMessageCreate)
	return b.session.Open()
}

// Close cancels in-flight dispatches, waits for them up to the deadline of
// ctx, and closes the gateway session.
func (b *Bot) Close(ctx context.Context) {
	b.cancel()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		b.logger.Warn("shutdown deadline reached with dispatches in flight")
	}

	if b.session != nil {
		_ = b.session.Close()
	}
}
