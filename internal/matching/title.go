package matching

import (
	"fmt"
	"strings"
)

// Stop-words excluded from keyword overlap. Keyword comparison works on
// title-sized strings, so the list only needs the connectives that actually
// appear in job titles.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "of": {},
	"with": {}, "by": {}, "from": {}, "as": {},
}

// TitleMatchScore scores a job title against declared interests without any
// external call. Exact title match wins outright; substring containment in
// either direction beats keyword overlap; otherwise the best keyword
// overlap across all interests applies.
func TitleMatchScore(jobTitle string, interests []string) int {
	title := strings.ToLower(strings.TrimSpace(jobTitle))
	maxScore := 0

	for _, interest := range interests {
		normalized := strings.ToLower(strings.TrimSpace(interest))
		if normalized == "" {
			continue
		}

		if title == normalized {
			return 100
		}
		if strings.Contains(title, normalized) {
			maxScore = max(maxScore, 90)
			continue
		}
		if strings.Contains(normalized, title) {
			maxScore = max(maxScore, 85)
			continue
		}
		maxScore = max(maxScore, keywordOverlapScore(title, normalized))
	}

	return maxScore
}

// keywordOverlapScore bands the keyword overlap ratio between a title and
// one interest into discrete score tiers. Near-miss word forms
// ("engineer" vs "engineering") earn half credit.
func keywordOverlapScore(title, interest string) int {
	titleWords := make(map[string]struct{})
	for _, word := range keywords(title) {
		titleWords[word] = struct{}{}
	}
	interestWords := keywords(interest)
	if len(interestWords) == 0 {
		return 0
	}

	matched := 0.0
	for _, word := range interestWords {
		if _, ok := titleWords[word]; ok {
			matched++
			continue
		}
		for titleWord := range titleWords {
			if stemOverlap(word, titleWord) {
				matched += 0.5
				break
			}
		}
	}

	ratio := matched / float64(len(interestWords))
	switch {
	case ratio >= 0.8:
		return 80
	case ratio >= 0.6:
		return 70
	case ratio >= 0.4:
		return 60
	case ratio >= 0.2:
		return 50
	case ratio > 0:
		return 40
	default:
		return 0
	}
}

// stemOverlap reports whether one word is a close inflection of the other,
// e.g. "engineer" and "engineering". Only words longer than four characters
// qualify, so short words never stem-match.
func stemOverlap(a, b string) bool {
	if len(a) > 4 && strings.HasPrefix(b, a[:len(a)-1]) {
		return true
	}
	if len(b) > 4 && strings.HasPrefix(a, b[:len(b)-1]) {
		return true
	}
	return false
}

// keywords splits text into significant lowercase words, dropping
// stop-words and anything shorter than three characters.
func keywords(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9')
	})

	words := make([]string, 0, len(fields))
	for _, field := range fields {
		if len(field) <= 2 {
			continue
		}
		if _, ok := stopWords[field]; ok {
			continue
		}
		words = append(words, field)
	}
	return words
}

// FindBestInterestMatch names the declared interest a job title aligns to,
// preferring exact or containment relationships and falling back to the
// first interest.
func FindBestInterestMatch(jobTitle string, interests []string) string {
	title := strings.ToLower(jobTitle)

	for _, interest := range interests {
		normalized := strings.ToLower(interest)
		if title == normalized ||
			strings.Contains(title, normalized) ||
			strings.Contains(normalized, title) {
			return interest
		}
	}

	if len(interests) > 0 {
		return interests[0]
	}
	return "your interests"
}

// matchReasoning renders a short human-readable explanation of why a title
// scored against the interests.
func matchReasoning(jobTitle string, interests []string) string {
	title := strings.ToLower(jobTitle)
	best := FindBestInterestMatch(jobTitle, interests)
	normalized := strings.ToLower(best)

	switch {
	case title == normalized:
		return fmt.Sprintf("Exact match for %s", best)
	case strings.Contains(title, normalized):
		return fmt.Sprintf("Strong match for %s", best)
	case strings.Contains(normalized, title):
		return fmt.Sprintf("Closely related to %s", best)
	default:
		return fmt.Sprintf("Matches your interest in %s", best)
	}
}
