package domain

import "strings"

// AnswerStatus tells which terminal state an answering request reached.
type AnswerStatus int

const (
	AnswerFound AnswerStatus = iota
	AnswerNoContent
	AnswerNoMatch
	AnswerNoFiles
)

const (
	AnswerHeader       = "Here's what I found about your question:"
	MsgNoContent       = "I couldn't find any content in the files to answer the question."
	MsgNoMatch         = "I'm sorry, but I couldn't find any relevant information to answer your question."
	MsgNoRelevantFiles = "I'm sorry, I couldn't find any relevant files to answer your question."
)

// AnswerGroup holds the matched sentences of one source document.
type AnswerGroup struct {
	Document  string
	Sentences []string
	Text      string // sentences joined, capitalized and terminated
}

// Answer is the grouped result of ranking a corpus against a query.
type Answer struct {
	Status AnswerStatus
	Groups []AnswerGroup
}

// String renders the answer text shown to the user.
func (a Answer) String() string {
	switch a.Status {
	case AnswerNoContent:
		return MsgNoContent
	case AnswerNoMatch:
		return MsgNoMatch
	case AnswerNoFiles:
		return MsgNoRelevantFiles
	}
	if len(a.Groups) == 0 {
		return MsgNoMatch
	}
	var b strings.Builder
	b.WriteString(AnswerHeader)
	for _, g := range a.Groups {
		b.WriteString("\n\nSource: ")
		b.WriteString(g.Document)
		b.WriteString("\n")
		b.WriteString(g.Text)
	}
	return b.String()
}
