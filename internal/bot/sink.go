package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"autoreacto/internal/dispatch"
	"autoreacto/internal/emoji"

	"github.com/bwmarrin/discordgo"
)

// reactionSink submits reactions for a single message through the Discord
// REST API.
type reactionSink struct {
	session   *discordgo.Session
	channelID string
	messageID string
}

func (s *reactionSink) AddReaction(ctx context.Context, emote emoji.Emote) error {
	err := s.session.MessageReactionAdd(s.channelID, s.messageID, emote.APIName(), discordgo.WithContext(ctx))
	return classifyReactionError(err)
}

// classifyReactionError maps Discord permission failures onto
// dispatch.ErrPermission so the dispatcher stops submitting for the message.
func classifyReactionError(err error) error {
	if err == nil {
		return nil
	}
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) {
		if restErr.Response != nil && restErr.Response.StatusCode == http.StatusForbidden {
			return fmt.Errorf("%w: %v", dispatch.ErrPermission, err)
		}
		if restErr.Message != nil {
			switch restErr.Message.Code {
			case discordgo.ErrCodeMissingAccess, discordgo.ErrCodeMissingPermissions:
				return fmt.Errorf("%w: %v", dispatch.ErrPermission, err)
			}
		}
	}
	return err
}
