package tfidf

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
)

// ErrEmptyVocabulary is returned when the corpus contains no usable tokens.
var ErrEmptyVocabulary = errors.New("no tokens found in corpus")

// Vector is a sparse, L2-normalized TF-IDF vector with indices in ascending order.
type Vector struct {
	Indices []int
	Values  []float64
}

// Dot returns the dot product of two vectors. For normalized vectors this is the
// cosine similarity.
func (v Vector) Dot(o Vector) float64 {
	sum := 0.0
	i, j := 0, 0
	for i < len(v.Indices) && j < len(o.Indices) {
		switch {
		case v.Indices[i] == o.Indices[j]:
			sum += v.Values[i] * o.Values[j]
			i++
			j++
		case v.Indices[i] < o.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// IsZero reports whether the vector has no weighted terms.
func (v Vector) IsZero() bool { return len(v.Indices) == 0 }

// Vectorizer is a TF-IDF model: raw term counts weighted by smoothed inverse
// document frequency idf(t) = ln((1+n)/(1+df(t))) + 1, rows L2-normalized.
type Vectorizer struct {
	vocabulary   map[string]int
	idf          []float64
	prepared     bool
	tokenPattern *regexp.Regexp
	stopwords    map[string]struct{}
}

// NewVectorizer creates an unfitted vectorizer. Tokens are lowercased runs of two or
// more letters, digits or underscores.
func NewVectorizer(stopwords ...string) *Vectorizer {
	sw := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		sw[strings.ToLower(w)] = struct{}{}
	}
	return &Vectorizer{
		vocabulary:   make(map[string]int),
		tokenPattern: regexp.MustCompile(`[\p{L}\p{N}_]{2,}`),
		stopwords:    sw,
	}
}

// Fit builds the vocabulary and IDF values from the corpus.
func (e *Vectorizer) Fit(corpus []string) error {
	if len(corpus) == 0 {
		return errors.New("empty corpus for TF-IDF fit")
	}
	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range e.tokenize(text) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	// Create stable ordering for vocabulary
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	if len(terms) == 0 {
		return ErrEmptyVocabulary
	}
	e.vocabulary = make(map[string]int, len(terms))
	e.idf = make([]float64, len(terms))
	n := float64(len(corpus))
	for i, term := range terms {
		e.vocabulary[term] = i
		e.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
	e.prepared = true
	return nil
}

// Dimension returns the vocabulary size.
func (e *Vectorizer) Dimension() int { return len(e.idf) }

// IDF returns the inverse document frequency of term and whether it is in the vocabulary.
func (e *Vectorizer) IDF(term string) (float64, bool) {
	idx, ok := e.vocabulary[strings.ToLower(term)]
	if !ok {
		return 0, false
	}
	return e.idf[idx], true
}

// Transform computes the TF-IDF vector of text. Unknown terms are ignored.
func (e *Vectorizer) Transform(text string) (Vector, error) {
	if !e.prepared {
		return Vector{}, errors.New("tfidf vectorizer not fitted")
	}
	tf := make(map[int]int)
	for _, tok := range e.tokenize(text) {
		if idx, ok := e.vocabulary[tok]; ok {
			tf[idx]++
		}
	}
	if len(tf) == 0 {
		return Vector{}, nil
	}
	vec := Vector{Indices: make([]int, 0, len(tf))}
	for idx := range tf {
		vec.Indices = append(vec.Indices, idx)
	}
	sort.Ints(vec.Indices)
	vec.Values = make([]float64, len(vec.Indices))
	norm := 0.0
	for i, idx := range vec.Indices {
		w := float64(tf[idx]) * e.idf[idx]
		vec.Values[i] = w
		norm += w * w
	}
	// L2 normalize
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec.Values {
			vec.Values[i] /= norm
		}
	}
	return vec, nil
}

// FitTransform fits the corpus and returns one vector per corpus entry, in order.
func (e *Vectorizer) FitTransform(corpus []string) ([]Vector, error) {
	if err := e.Fit(corpus); err != nil {
		return nil, err
	}
	out := make([]Vector, len(corpus))
	for i, text := range corpus {
		v, err := e.Transform(text)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (e *Vectorizer) tokenize(text string) []string {
	raw := e.tokenPattern.FindAllString(strings.ToLower(text), -1)
	if len(raw) == 0 || len(e.stopwords) == 0 {
		return raw
	}
	out := raw[:0]
	for _, t := range raw {
		if _, isStop := e.stopwords[t]; isStop {
			continue
		}
		out = append(out, t)
	}
	return out
}
