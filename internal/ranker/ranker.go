package ranker

import (
	"fmt"
	"regexp"

	"driveqa/internal/domain"
	"driveqa/internal/embedding/tfidf"
	"driveqa/internal/summarizer"
)

const (
	// DefaultSimilarityThreshold is the cosine similarity a sentence must strictly exceed.
	DefaultSimilarityThreshold = 0.2
	// DefaultMinTokens is the minimum whitespace-delimited token count of a kept sentence.
	DefaultMinTokens = 6
)

// Config holds the tunable constants of the ranker.
type Config struct {
	// SimilarityThreshold: sentences are selected when similarity > threshold.
	SimilarityThreshold float64
	// MinTokens: selected sentences with fewer tokens are dropped as fragments.
	MinTokens int
	// ExcludePatterns are regular expressions; matching sentences are dropped.
	ExcludePatterns []string
	// Stopwords are removed before weighting. Empty by default.
	Stopwords []string
}

// DefaultConfig returns the stock thresholds with no exclusions.
func DefaultConfig() Config {
	return Config{
		SimilarityThreshold: DefaultSimilarityThreshold,
		MinTokens:           DefaultMinTokens,
	}
}

// Ranker scores corpus sentences against a query with TF-IDF cosine similarity.
// It holds no state between calls.
type Ranker struct {
	cfg      Config
	composer *summarizer.Composer
}

// New compiles the exclusion patterns of cfg.
func New(cfg Config) (*Ranker, error) {
	exclude := make([]*regexp.Regexp, 0, len(cfg.ExcludePatterns))
	for _, p := range cfg.ExcludePatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("exclude pattern %q: %w", p, err)
		}
		exclude = append(exclude, re)
	}
	return &Ranker{cfg: cfg, composer: summarizer.NewComposer(cfg.MinTokens, exclude)}, nil
}

// Scores returns the cosine similarity between the query and every corpus sentence.
// The vector space is fitted over the sentences plus the query.
func (r *Ranker) Scores(query string, corpus []domain.SentenceUnit) ([]float64, error) {
	texts := make([]string, 0, len(corpus)+1)
	for _, u := range corpus {
		texts = append(texts, u.Text)
	}
	texts = append(texts, query)

	vecs, err := tfidf.NewVectorizer(r.cfg.Stopwords...).FitTransform(texts)
	if err != nil {
		return nil, err
	}
	q := vecs[len(vecs)-1]
	scores := make([]float64, len(corpus))
	for i := range corpus {
		scores[i] = q.Dot(vecs[i])
	}
	return scores, nil
}

// Select returns the units whose score is strictly greater than threshold, in corpus order.
func Select(corpus []domain.SentenceUnit, scores []float64, threshold float64) []domain.SentenceUnit {
	var out []domain.SentenceUnit
	for i, s := range scores {
		if s > threshold {
			out = append(out, corpus[i])
		}
	}
	return out
}

// Answer ranks the corpus against query and composes the grouped answer.
func (r *Ranker) Answer(query string, corpus []domain.SentenceUnit) domain.Answer {
	if len(corpus) == 0 {
		return domain.Answer{Status: domain.AnswerNoContent}
	}
	scores, err := r.Scores(query, corpus)
	if err != nil {
		// only an empty vocabulary can fail here: nothing to match
		return domain.Answer{Status: domain.AnswerNoMatch}
	}
	return r.composer.Compose(Select(corpus, scores, r.cfg.SimilarityThreshold))
}
