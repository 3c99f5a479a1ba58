package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyze(t *testing.T) {
	a := NewAnalyzer()

	tests := []struct {
		name string
		text string
		sign int
	}{
		{"positive", "Apple shares rally after strong earnings beat", 1},
		{"negative", "Stocks plunge as recession fears grow worse", -1},
		{"neutral", "The company will hold its annual meeting on Tuesday", 0},
		{"negated", "Analysts are not optimistic about the quarter", -1},
		{"empty", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := a.Analyze(tt.text)
			switch tt.sign {
			case 1:
				assert.Greater(t, s.Polarity, 0.1)
			case -1:
				assert.Less(t, s.Polarity, 0.0)
			default:
				assert.Equal(t, 0.0, s.Polarity)
				assert.Equal(t, 0.0, s.Subjectivity)
			}
			assert.GreaterOrEqual(t, s.Polarity, -1.0)
			assert.LessOrEqual(t, s.Polarity, 1.0)
			assert.GreaterOrEqual(t, s.Subjectivity, 0.0)
			assert.LessOrEqual(t, s.Subjectivity, 1.0)
		})
	}
}

func TestAnalyzeIntensifier(t *testing.T) {
	a := NewAnalyzer()
	plain := a.Analyze("good results")
	strong := a.Analyze("very good results")
	weak := a.Analyze("slightly good results")

	assert.Greater(t, strong.Polarity, plain.Polarity)
	assert.Less(t, weak.Polarity, plain.Polarity)
	assert.LessOrEqual(t, a.Analyze("extremely excellent").Polarity, 1.0)
}

func TestAnalyzeNegationFlips(t *testing.T) {
	a := NewAnalyzer()
	assert.InDelta(t, 0.7, a.Analyze("good").Polarity, 1e-9)
	assert.InDelta(t, -0.35, a.Analyze("not good").Polarity, 1e-9)
	assert.InDelta(t, -0.35, a.Analyze("don't look good").Polarity, 1e-9)
}

func TestClean(t *testing.T) {
	a := NewAnalyzer()
	assert.Equal(t, "teslas stock jumps record deliveries",
		a.Clean("Tesla's stock jumps 5% on the record deliveries!"))
	assert.Equal(t, "", a.Clean("the and of 123"))
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"s", "p", "hits", "high"}, Tokenize("S&P 500 hits $high"))
	assert.Empty(t, Tokenize("  42 ... "))
}
