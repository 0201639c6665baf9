package companion

import (
	"fmt"
	"strings"

	"github.com/bkatic/memopad/internal/notes"
)

// personaPrompt is the fixed persona/style instruction sent with every turn.
const personaPrompt = `You are Memo, a warm and slightly playful personal companion living inside a note-taking app.
You answer in short, friendly paragraphs, never in lists unless asked.
The user's saved notes are provided as your only memory of them; use them naturally
when relevant, but do not recite them back or mention that you were given a list.
If the notes say nothing about the topic, just answer from general knowledge.`

// notesUnavailableContext stands in for the snapshot when the store read
// fails: the model must not be told the user has no notes when they might.
const notesUnavailableContext = "The user's saved notes could not be read just now; answer without them."

// RenderNotesContext renders the current note snapshot as a bulleted text
// block for the prompt. Notes come in newest first and stay that way.
func RenderNotesContext(noteList []notes.Note) string {
	if len(noteList) == 0 {
		return "The user has no saved notes at the moment."
	}

	var b strings.Builder
	b.WriteString("The user's current notes, newest first:\n")
	for i := range noteList {
		fmt.Fprintf(&b, "- %s\n", noteList[i].Content)
	}
	return b.String()
}

// BuildUserPrompt splices the rendered note context and the user's message
// into the single-turn prompt template. Prior turns are never included.
func BuildUserPrompt(notesContext, userMessage string) string {
	var b strings.Builder
	b.WriteString(notesContext)
	b.WriteString("\nThe user says:\n")
	b.WriteString(userMessage)
	return b.String()
}
