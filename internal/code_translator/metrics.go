package code_translator

import (
	"math"
	"math/rand/v2"
	"strings"
)

// MetricsSummary is a heuristic quality estimate for a translation.
// Scores are partly random and are not a measurement of correctness.
type MetricsSummary struct {
	OverallConfidence int      `json:"overall_confidence"`
	SyntaxAccuracy    int      `json:"syntax_accuracy"`
	LogicPreservation int      `json:"logic_preservation"`
	CodeQuality       int      `json:"code_quality"`
	ProcessingTimeMs  int      `json:"processing_time_ms"`
	LinesTranslated   int      `json:"lines_translated"`
	SourceLines       int      `json:"source_lines"`
	Suggestions       []string `json:"suggestions"`
}

// RandomSource supplies the random offsets used by ComputeMetrics.
type RandomSource interface {
	IntN(n int) int
}

type globalRandom struct{}

func (globalRandom) IntN(n int) int { return rand.IntN(n) }

// DefaultRandom is safe for concurrent use.
var DefaultRandom RandomSource = globalRandom{}

const maxSuggestions = 3

func defaultMetrics() MetricsSummary {
	return MetricsSummary{
		OverallConfidence: 80,
		SyntaxAccuracy:    85,
		LogicPreservation: 80,
		CodeQuality:       75,
		ProcessingTimeMs:  2500,
		LinesTranslated:   10,
		SourceLines:       10,
		Suggestions:       []string{"Translation completed successfully"},
	}
}

// draw returns rnd.IntN(n) clamped to [0, n).
func draw(rnd RandomSource, n int) int {
	v := rnd.IntN(n)
	switch {
	case v < 0:
		return 0
	case v >= n:
		return n - 1
	}
	return v
}

func countLines(s string) int {
	return strings.Count(s, "\n") + 1
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// ComputeMetrics derives a MetricsSummary from superficial properties of the source and the
// translated code. A panic anywhere in the computation yields the fixed defaults.
func ComputeMetrics(sourceCode, translatedCode, sourceLanguage, targetLanguage string, rnd RandomSource) (m MetricsSummary) {
	defer func() {
		if r := recover(); r != nil {
			m = defaultMetrics()
		}
	}()
	if rnd == nil {
		rnd = DefaultRandom
	}

	sourceLines := countLines(sourceCode)
	translatedLines := countLines(translatedCode)

	hasProperSyntax := containsAny(translatedCode, "{", "def ", "function")
	hasComments := containsAny(translatedCode, "//", "#", "/*")
	similarStructure := math.Abs(float64(sourceLines-translatedLines)) <= float64(sourceLines)*0.5

	var syntaxAccuracy, logicPreservation, codeQuality int
	if hasProperSyntax {
		syntaxAccuracy = 90 + draw(rnd, 10)
	} else {
		syntaxAccuracy = 70 + draw(rnd, 20)
	}
	if similarStructure {
		logicPreservation = 85 + draw(rnd, 15)
	} else {
		logicPreservation = 75 + draw(rnd, 15)
	}
	if hasComments {
		codeQuality = 80 + draw(rnd, 20)
	} else {
		codeQuality = 70 + draw(rnd, 25)
	}

	return MetricsSummary{
		OverallConfidence: overallConfidence(syntaxAccuracy, logicPreservation, codeQuality),
		SyntaxAccuracy:    syntaxAccuracy,
		LogicPreservation: logicPreservation,
		CodeQuality:       codeQuality,
		ProcessingTimeMs:  2000 + draw(rnd, 3000),
		LinesTranslated:   translatedLines,
		SourceLines:       sourceLines,
		Suggestions:       Suggestions(sourceLanguage, targetLanguage, translatedCode),
	}
}

// overallConfidence is floor(0.4*syntax + 0.4*logic + 0.2*quality), computed in integer tenths.
func overallConfidence(syntax, logic, quality int) int {
	return (4*syntax + 4*logic + 2*quality) / 10
}

// Suggestions returns up to three improvement hints for the translated code.
func Suggestions(sourceLanguage, targetLanguage, translatedCode string) []string {
	var out []string

	switch targetLanguage {
	case "python":
		if !strings.Contains(translatedCode, "def ") && len(translatedCode) > 100 {
			out = append(out, "Consider breaking down the code into smaller functions following Python best practices")
		}
		if !strings.Contains(translatedCode, "#") {
			out = append(out, "Add docstrings and comments for better Python code documentation")
		}
	case "javascript", "typescript":
		if !containsAny(translatedCode, "const ", "let ") {
			out = append(out, "Use modern JavaScript const/let instead of var for variable declarations")
		}
		if targetLanguage == "typescript" && !strings.Contains(translatedCode, ": ") {
			out = append(out, "Add TypeScript type annotations for better type safety")
		}
	case "java", "csharp":
		if !containsAny(translatedCode, "public ", "private ") {
			out = append(out, "Add appropriate access modifiers for better encapsulation")
		}
	}

	if len(translatedCode) > 500 && !containsAny(translatedCode, "//", "#") {
		out = append(out, "Consider adding comments to explain complex logic")
	}

	if len(out) == 0 {
		out = append(out, "Translation completed successfully with good code quality")
	}
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}
