// Package summarize turns finished transcripts into notes (summaries,
// meeting minutes, blog drafts, emails) using the OpenAI chat API.
package summarize

import (
	"fmt"
	"sort"
)

// DefaultEmailStyle is used when an email request does not name a style.
const DefaultEmailStyle = "summary"

// maxPromptChars bounds how much of the transcript goes into the prompt.
const maxPromptChars = 2000

type preset struct {
	system    string
	maxTokens int
}

var presets = map[string]preset{
	"summary": {
		system:    "You are a helpful assistant that creates concise summaries.",
		maxTokens: 200,
	},
	"minutes": {
		system:    "You are a professional meeting minutes writer.",
		maxTokens: 300,
	},
	"blog": {
		system:    "You are a creative blog writer.",
		maxTokens: 400,
	},
	"email": {
		system:    "You are a professional email writer.",
		maxTokens: 300,
	},
}

// Kinds lists the supported note kinds in sorted order.
func Kinds() []string {
	kinds := make([]string, 0, len(presets))
	for k := range presets {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// userPrompt builds the user message for a note kind. The transcript is
// truncated so a long recording does not blow the context window.
func userPrompt(kind, emailStyle, text string) string {
	text = truncate(text, maxPromptChars)
	switch kind {
	case "minutes":
		return fmt.Sprintf("Please create structured meeting minutes from this transcription:\n\n%s", text)
	case "blog":
		return fmt.Sprintf("Please create an engaging blog post based on this transcription:\n\n%s", text)
	case "email":
		if emailStyle == "" {
			emailStyle = DefaultEmailStyle
		}
		return fmt.Sprintf("Create a %s email based on this transcription:\n\n%s", emailStyle, text)
	default:
		return fmt.Sprintf("Please provide a brief summary of this transcription:\n\n%s", text)
	}
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
