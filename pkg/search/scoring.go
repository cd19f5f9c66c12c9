package search

import (
	"math"
	"strings"
)

// score calculates a TF-IDF score for a document against query tokens
func (oi *ownerIndex) score(doc docKey, queryTokens []string) float64 {
	score := 0.0

	for _, term := range queryTokens {
		tf := 0.0
		for _, resolved := range oi.resolveTerm(term) {
			if positions, ok := oi.postings[resolved][doc]; ok {
				tf += float64(len(positions))
			}
		}

		df := 0.0
		for _, resolved := range oi.resolveTerm(term) {
			df += float64(oi.docFreq[resolved])
		}

		idf := 1.0
		if df > 0 && oi.totalDocs > 0 {
			idf = math.Log(float64(oi.totalDocs+1) / (df + 1))
		}

		score += tf * (1.0 + idf)
	}

	return score
}

// tokenize lowercases text and splits it into alphanumeric runs
func tokenize(text string) []string {
	text = strings.ToLower(text)
	return strings.FieldsFunc(text, func(r rune) bool {
		return !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'))
	})
}

// levenshteinDistance calculates the edit distance between two strings
func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	matrix := make([][]int, len(s1)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(s2)+1)
	}

	for i := 0; i <= len(s1); i++ {
		matrix[i][0] = i
	}
	for j := 0; j <= len(s2); j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len(s1); i++ {
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}

			matrix[i][j] = minInt(
				matrix[i-1][j]+1,
				matrix[i][j-1]+1,
				matrix[i-1][j-1]+cost,
			)
		}
	}

	return matrix[len(s1)][len(s2)]
}

func minInt(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
