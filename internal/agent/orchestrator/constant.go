package orchestrator

import "regexp"

const (
	// ApologyMessage is returned whenever the LLM call fails after retries.
	ApologyMessage = "I apologize, but I'm having trouble thinking right now. Could you try again in a moment?"

	calendarUnavailable = "Calendar information is currently unavailable."
	gtasksUnavailable   = "Google Tasks information is currently unavailable."
	sleepUnavailable    = "Sleep data is currently unavailable."

	proactiveInstruction = "Generate a proactive message to check on the user's progress."

	timestampLayout = "2006-01-02 15:04"
	clockLayout     = "15:04"
)

// timePrefixPattern matches the "HH:MM - " prefix the model sometimes echoes
// back from the tagged user turns in its context.
var timePrefixPattern = regexp.MustCompile(`^\d{2}:\d{2}\s*-\s*`)
