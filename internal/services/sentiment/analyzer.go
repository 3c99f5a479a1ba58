package sentiment

import (
	"strings"
	"unicode"

	"StockPulse/internal/domain/models"
)

type entry struct {
	polarity     float64
	subjectivity float64
}

// Analyzer scores text with a financial-news lexicon. Polarity is the mean
// of matched word scores in [-1,1]; subjectivity is the mean of their
// subjectivity in [0,1]. A negation within the two preceding tokens flips
// and halves a word's polarity; an intensifier directly before it scales it.
type Analyzer struct {
	lexicon      map[string]entry
	intensifiers map[string]float64
	negations    map[string]struct{}
	stopwords    map[string]struct{}
}

// NewAnalyzer builds an Analyzer with the built-in word lists.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		lexicon:      buildLexicon(),
		intensifiers: buildIntensifiers(),
		negations:    buildNegations(),
		stopwords:    buildStopwords(),
	}
}

// Analyze scores text.
func (a *Analyzer) Analyze(text string) models.Sentiment {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return models.Sentiment{}
	}

	var polarity, subjectivity float64
	matches := 0

	for i, tok := range tokens {
		e, ok := a.lexicon[tok]
		if !ok {
			continue
		}

		p := e.polarity
		if i > 0 {
			if mult, ok := a.intensifiers[tokens[i-1]]; ok {
				p *= mult
				e.subjectivity *= mult
			}
		}
		if a.negated(tokens, i) {
			p *= -0.5
		}

		polarity += clamp(p, -1, 1)
		subjectivity += clamp(e.subjectivity, 0, 1)
		matches++
	}

	if matches == 0 {
		return models.Sentiment{}
	}
	return models.Sentiment{
		Polarity:     clamp(polarity/float64(matches), -1, 1),
		Subjectivity: clamp(subjectivity/float64(matches), 0, 1),
	}
}

func (a *Analyzer) negated(tokens []string, i int) bool {
	for j := i - 1; j >= 0 && j >= i-2; j-- {
		if _, ok := a.negations[tokens[j]]; ok {
			return true
		}
	}
	return false
}

// Clean lowercases text, strips everything but letters and spaces, and
// drops English stopwords.
func (a *Analyzer) Clean(text string) string {
	tokens := Tokenize(text)
	kept := tokens[:0]
	for _, t := range tokens {
		if _, stop := a.stopwords[t]; !stop {
			kept = append(kept, t)
		}
	}
	return strings.Join(kept, " ")
}

// Tokenize lowercases text and splits it into runs of letters. Apostrophes
// are dropped so "don't" becomes "dont".
func Tokenize(text string) []string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r):
			b.WriteRune(r)
		case r == '\'' || r == '’':
		default:
			b.WriteByte(' ')
		}
	}
	return strings.Fields(b.String())
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
