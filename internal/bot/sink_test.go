package bot

import (
	"errors"
	"net/http"
	"testing"

	"autoreacto/internal/dispatch"

	"github.com/bwmarrin/discordgo"
)

func TestClassifyReactionError(t *testing.T) {
	if classifyReactionError(nil) != nil {
		t.Fatalf("nil must stay nil")
	}

	forbidden := &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusForbidden}}
	if !errors.Is(classifyReactionError(forbidden), dispatch.ErrPermission) {
		t.Fatalf("403 must classify as permission error")
	}

	missingPerms := &discordgo.RESTError{Message: &discordgo.APIErrorMessage{Code: discordgo.ErrCodeMissingPermissions}}
	if !errors.Is(classifyReactionError(missingPerms), dispatch.ErrPermission) {
		t.Fatalf("missing permissions code must classify as permission error")
	}

	rateLimited := &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusTooManyRequests}}
	if errors.Is(classifyReactionError(rateLimited), dispatch.ErrPermission) {
		t.Fatalf("429 must not classify as permission error")
	}

	plain := errors.New("boom")
	if got := classifyReactionError(plain); got != plain {
		t.Fatalf("unrelated errors must pass through unchanged")
	}
}
