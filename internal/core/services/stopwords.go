package services

// stopwords is the fixed set of common English function words dropped
// from query terms before scoring.
var stopwords = func() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else",
		"for", "to", "of", "in", "on", "at", "by", "with", "as",
		"is", "are", "was", "were", "be", "been", "being",
		"it", "this", "that", "these", "those", "from",
		"what", "which", "who", "whom", "how", "when", "where", "why",
		"do", "does", "did", "can", "could", "will", "would",
		"should", "about", "into", "over", "under", "between", "through",
		"so", "such", "too", "very", "not", "no", "me", "my", "you", "your",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()
