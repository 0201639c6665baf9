package companion

import (
	"context"

	"github.com/bkatic/memopad/internal/instrumentation"
	"github.com/bkatic/memopad/internal/notes"

	log "github.com/sirupsen/logrus"
)

// FallbackReply is what the user sees whenever the model call fails in
// any way. The companion never surfaces a chat error as an HTTP error.
const FallbackReply = "Sorry, my head is a bit foggy right now. Give me a moment and ask again."

const (
	SourceModel    = "model"
	SourceFallback = "fallback"
)

// Reply is a chat turn result. Source tells whether Text came from the
// model or is the canned fallback, so callers (and tests) can tell the
// two apart without parsing the text.
type Reply struct {
	Text   string `json:"reply"`
	Source string `json:"source"`
}

// Companion glues the note store snapshot to the model client: each
// Chat call reads all current notes, renders them into the prompt and
// does one blocking round trip to the model.
type Companion struct {
	notesApi notes.Api
	client   Completer
	instr    *instrumentation.Instrumentation
}

func New(
	notesApi notes.Api,
	client Completer,
	instr *instrumentation.Instrumentation,
) *Companion {
	return &Companion{
		notesApi: notesApi,
		client:   client,
		instr:    instr,
	}
}

// Chat answers a single user message. It never returns an error: store
// or model failures collapse into the fallback reply (and a metric).
func (c *Companion) Chat(ctx context.Context, userMessage string) Reply {
	c.instr.CounterChatMessages.Inc()

	noteList, err := c.notesApi.List(ctx)
	notesContext := RenderNotesContext(noteList)
	if err != nil {
		// still answer, just say the notes are unreachable instead of
		// claiming there are none
		log.Errorf("chat: failed to list notes for context: %s", err)
		notesContext = notesUnavailableContext
	}

	userPrompt := BuildUserPrompt(notesContext, userMessage)

	replyText, err := c.client.Complete(ctx, personaPrompt, userPrompt)
	if err != nil {
		log.Errorf("chat: model call failed: %s", err)
		c.instr.CounterChatFallbacks.Inc()
		return Reply{
			Text:   FallbackReply,
			Source: SourceFallback,
		}
	}

	return Reply{
		Text:   replyText,
		Source: SourceModel,
	}
}
