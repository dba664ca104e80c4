package scoring

import (
	"strings"

	"go.uber.org/zap"

	"github.com/hexcelerate/jobfit/internal/types"
)

// FilterMatchedSkills drops matched-skill entries that are not traceable to
// the job posting's own text. The prompt instructs the classifier to do
// this, but classifiers drift; the vocabulary check enforces it
// structurally. Close technical variants are tolerated ("React.js" matches
// a posting that says "React").
func FilterMatchedSkills(skills []string, job *types.Job, log *zap.Logger) []string {
	vocab := tokenize(job.PostingText())

	kept := make([]string, 0, len(skills))
	for _, skill := range skills {
		if skillInVocabulary(skill, vocab) {
			kept = append(kept, skill)
			continue
		}
		if log != nil {
			log.Debug("dropping matched skill not present in job posting",
				zap.String("skill", skill))
		}
	}
	return kept
}

// skillInVocabulary reports whether every significant token of the skill
// appears in the posting vocabulary. Tokens shorter than three characters
// (the "js" in "React.js") are ignored.
func skillInVocabulary(skill string, vocab map[string]struct{}) bool {
	tokens := splitTokens(skill)

	checked := 0
	for _, token := range tokens {
		if len(token) < 3 {
			continue
		}
		checked++
		if !tokenInVocabulary(token, vocab) {
			return false
		}
	}
	// A skill made up entirely of short tokens ("C#", "Go") is checked
	// against the vocabulary directly.
	if checked == 0 {
		for _, token := range tokens {
			if _, ok := vocab[token]; ok {
				return true
			}
		}
		return false
	}
	return true
}

func tokenInVocabulary(token string, vocab map[string]struct{}) bool {
	if _, ok := vocab[token]; ok {
		return true
	}
	// Partial-stem tolerance, e.g. "engineering" vs "engineer".
	for word := range vocab {
		if len(word) > 4 && strings.HasPrefix(token, word[:len(word)-1]) {
			return true
		}
		if len(token) > 4 && strings.HasPrefix(word, token[:len(token)-1]) {
			return true
		}
	}
	return false
}

// tokenize builds the posting vocabulary as a set of normalized tokens.
func tokenize(text string) map[string]struct{} {
	vocab := make(map[string]struct{})
	for _, token := range splitTokens(text) {
		vocab[token] = struct{}{}
	}
	return vocab
}

// splitTokens lowercases and splits on non-token characters. '#' and '+'
// are kept so "C#" and "C++" survive as distinct tokens.
func splitTokens(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '#', r == '+':
			return false
		}
		return true
	})
}
