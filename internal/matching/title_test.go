package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTitleMatchScore(t *testing.T) {
	tests := []struct {
		name      string
		title     string
		interests []string
		want      int
	}{
		{
			name:      "exact match",
			title:     "Software Engineer",
			interests: []string{"software engineer"},
			want:      100,
		},
		{
			name:      "exact match wins over weaker interests",
			title:     "Software Engineer",
			interests: []string{"Data Analyst", "Software Engineer"},
			want:      100,
		},
		{
			name:      "title contains interest",
			title:     "Senior Software Engineer",
			interests: []string{"Software Engineer"},
			want:      90,
		},
		{
			name:      "interest contains title",
			title:     "Engineer",
			interests: []string{"Software Engineer"},
			want:      85,
		},
		{
			name:      "full keyword overlap",
			title:     "Software Engineer",
			interests: []string{"Engineer of Software"},
			want:      80,
		},
		{
			name:      "partial keyword overlap",
			title:     "Software Engineer",
			interests: []string{"Software Architect"},
			want:      60,
		},
		{
			name:      "stem match earns half credit",
			title:     "Lead Engineer",
			interests: []string{"Engineering Lead"},
			want:      70,
		},
		{
			name:      "no overlap",
			title:     "Registered Nurse",
			interests: []string{"Software Engineer"},
			want:      0,
		},
		{
			name:      "no interests",
			title:     "Software Engineer",
			interests: nil,
			want:      0,
		},
		{
			name:      "blank interest ignored",
			title:     "Software Engineer",
			interests: []string{"  ", "software engineer"},
			want:      100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TitleMatchScore(tt.title, tt.interests))
		})
	}
}

func TestKeywordOverlapScoreTiers(t *testing.T) {
	// Interest with five keywords; vary how many appear in the title.
	interest := "alpha beta gamma delta epsilon"

	tests := []struct {
		title string
		want  int
	}{
		{"alpha beta gamma delta epsilon role", 80},
		{"alpha beta gamma specialist", 70},
		{"alpha beta specialist", 60},
		{"alpha specialist", 50},
		{"unrelated position", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, keywordOverlapScore(tt.title, interest), "title %q", tt.title)
	}
}

func TestKeywordOverlapStopWordsIgnored(t *testing.T) {
	// "of" and "the" contribute nothing; the overlap is computed over the
	// remaining keywords only.
	assert.Equal(t, 80, keywordOverlapScore("head of the kitchen", "kitchen head"))
}

func TestFindBestInterestMatch(t *testing.T) {
	assert.Equal(t, "Software Engineer",
		FindBestInterestMatch("Senior Software Engineer", []string{"Data Analyst", "Software Engineer"}))
	assert.Equal(t, "Data Analyst",
		FindBestInterestMatch("Registered Nurse", []string{"Data Analyst", "Software Engineer"}))
	assert.Equal(t, "your interests", FindBestInterestMatch("Registered Nurse", nil))
}

func TestMatchReasoning(t *testing.T) {
	interests := []string{"Software Engineer"}

	assert.Equal(t, "Exact match for Software Engineer",
		matchReasoning("Software Engineer", interests))
	assert.Equal(t, "Strong match for Software Engineer",
		matchReasoning("Senior Software Engineer", interests))
	assert.Equal(t, "Closely related to Software Engineer",
		matchReasoning("Engineer", interests))
	assert.Equal(t, "Matches your interest in Software Engineer",
		matchReasoning("Product Manager", interests))
}
