package chunker

import (
	"strings"

	"driveqa/internal/domain"
)

// SentenceSplitter splits extracted text into sentence units on terminator runes.
type SentenceSplitter struct {
	terminators string
}

// NewSentenceSplitter creates a splitter; an empty terminator set falls back to ".".
func NewSentenceSplitter(terminators string) *SentenceSplitter {
	if terminators == "" {
		terminators = "."
	}
	return &SentenceSplitter{terminators: terminators}
}

// Split returns the trimmed, non-empty sentences of one document in order.
func (c *SentenceSplitter) Split(document, content string) []domain.SentenceUnit {
	fragments := strings.FieldsFunc(content, func(r rune) bool {
		return strings.ContainsRune(c.terminators, r)
	})
	units := make([]domain.SentenceUnit, 0, len(fragments))
	for _, f := range fragments {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		units = append(units, domain.SentenceUnit{Text: f, SourceDocument: document})
	}
	return units
}

// BuildCorpus splits every document in insertion order. Units of one document stay
// contiguous and are never merged across documents.
func (c *SentenceSplitter) BuildCorpus(docs *domain.DocumentSet) []domain.SentenceUnit {
	if docs == nil {
		return nil
	}
	var corpus []domain.SentenceUnit
	for _, name := range docs.Names() {
		content, _ := docs.Get(name)
		corpus = append(corpus, c.Split(name, content)...)
	}
	return corpus
}

// BuildCorpus splits on periods, the default sentence terminator.
func BuildCorpus(docs *domain.DocumentSet) []domain.SentenceUnit {
	return NewSentenceSplitter(".").BuildCorpus(docs)
}
