package fuzzy

import "strings"

// LevenshteinDistance calculates the edit distance between two strings
// This measures how many single-character edits (insertions, deletions, or substitutions)
// are required to change one string into another
func LevenshteinDistance(s1, s2 string) int {
	s1 = Normalize(s1)
	s2 = Normalize(s2)

	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	r1 := []rune(s1)
	r2 := []rune(s2)
	m := len(r1)
	n := len(r2)

	d := make([][]int, m+1)
	for i := range d {
		d[i] = make([]int, n+1)
	}

	for i := 0; i <= m; i++ {
		d[i][0] = i
	}
	for j := 0; j <= n; j++ {
		d[0][j] = j
	}

	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			d[i][j] = min3(
				d[i-1][j]+1,      // deletion
				d[i][j-1]+1,      // insertion
				d[i-1][j-1]+cost, // substitution
			)
		}
	}

	return d[m][n]
}

// Match checks if query fuzzy-matches text within a given threshold
// threshold is the maximum allowed edit distance
func Match(query, text string, threshold int) bool {
	query = Normalize(query)
	text = Normalize(text)

	// If query is contained in text, it's a match
	if strings.Contains(text, query) {
		return true
	}

	// Check if any word in text fuzzy-matches the query
	for _, word := range strings.Fields(text) {
		if LevenshteinDistance(query, word) <= threshold {
			return true
		}
		if strings.HasPrefix(word, query) {
			return true
		}
	}

	// Whole-string distance for short texts (merchant names are short)
	if len(text) < 50 {
		if LevenshteinDistance(query, text) <= threshold {
			return true
		}
	}

	return false
}

// BestMatch returns the candidate with the smallest edit distance to name,
// provided the distance is within threshold. Returns "" when nothing is close
// enough. Exact substring containment wins over edit distance.
func BestMatch(name string, candidates []string, threshold int) string {
	name = Normalize(name)
	if name == "" {
		return ""
	}

	for _, c := range candidates {
		if strings.Contains(name, Normalize(c)) {
			return c
		}
	}

	best := ""
	bestDist := threshold + 1
	for _, c := range candidates {
		dist := LevenshteinDistance(name, c)
		if dist < bestDist {
			bestDist = dist
			best = c
		}
	}
	return best
}

// Normalize lowercases and collapses whitespace for comparison
func Normalize(s string) string {
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}

func min3(a, b, c int) int {
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
