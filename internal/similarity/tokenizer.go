package similarity

import (
	"strings"
	"unicode"
)

// Language of the graded material. It selects the default embedding model.
const Language = "es"

var embeddingModels = map[string]string{
	"es": "paraphrase-multilingual",
	"en": "nomic-embed-text",
}

// DefaultEmbeddingModel returns the embedding model used for Language.
func DefaultEmbeddingModel() string {
	return embeddingModels[Language]
}

// Tokenize lower-cases s and splits it on anything that is not a letter or a digit.
func Tokenize(s string) []string {
	s = strings.ToLower(s)
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

func uniqueTokens(tokens []string) map[string]int {
	unique := make(map[string]int, len(tokens))
	for _, t := range tokens {
		unique[t]++
	}
	return unique
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func f1(precision float64, recall float64) float64 {
	if precision+recall == 0 {
		return 0
	}
	return 2 * precision * recall / (precision + recall)
}
