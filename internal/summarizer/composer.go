package summarizer

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"driveqa/internal/domain"
)

var (
	citationPattern   = regexp.MustCompile(`\[[^\]]*\]`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Composer turns selected sentences into a grouped answer. Sentences are cleaned of
// bracketed citations and extra whitespace, then dropped when they are shorter than
// minTokens or match an exclusion pattern.
type Composer struct {
	minTokens int
	exclude   []*regexp.Regexp
}

// NewComposer creates a composer. A non-positive minTokens disables the length filter.
func NewComposer(minTokens int, exclude []*regexp.Regexp) *Composer {
	return &Composer{minTokens: minTokens, exclude: exclude}
}

// Clean strips citation markers such as "[12]" and collapses whitespace.
func Clean(sentence string) string {
	s := citationPattern.ReplaceAllString(sentence, "")
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}

// Keep reports whether a cleaned sentence survives the post-filter.
func (c *Composer) Keep(cleaned string) bool {
	if len(strings.Fields(cleaned)) < c.minTokens {
		return false
	}
	for _, re := range c.exclude {
		if re.MatchString(cleaned) {
			return false
		}
	}
	return true
}

// Compose groups surviving sentences by source document in first-seen order.
// It returns AnswerNoMatch when nothing survives.
func (c *Composer) Compose(selected []domain.SentenceUnit) domain.Answer {
	var groups []domain.AnswerGroup
	index := make(map[string]int)
	for _, unit := range selected {
		cleaned := Clean(unit.Text)
		if !c.Keep(cleaned) {
			continue
		}
		i, ok := index[unit.SourceDocument]
		if !ok {
			i = len(groups)
			index[unit.SourceDocument] = i
			groups = append(groups, domain.AnswerGroup{Document: unit.SourceDocument})
		}
		groups[i].Sentences = append(groups[i].Sentences, cleaned)
	}
	if len(groups) == 0 {
		return domain.Answer{Status: domain.AnswerNoMatch}
	}
	for i := range groups {
		groups[i].Text = finishBlock(strings.Join(groups[i].Sentences, " "))
	}
	return domain.Answer{Status: domain.AnswerFound, Groups: groups}
}

// finishBlock upper-cases the first letter and makes sure the block ends with
// terminal punctuation.
func finishBlock(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	s = string(unicode.ToUpper(r)) + s[size:]
	switch s[len(s)-1] {
	case '.', '!', '?':
		return s
	}
	return s + "."
}
