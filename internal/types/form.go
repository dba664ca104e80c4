package types

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// WorkHistoryEntry is one employer record from the application form.
type WorkHistoryEntry struct {
	EmployerName     string `json:"employer_name"`
	JobTitle         string `json:"job_title"`
	StartDate        string `json:"start_date"`
	EndDate          string `json:"end_date,omitempty"`
	StillEmployed    bool   `json:"still_employed"`
	HoursPerWeek     int    `json:"hours_per_week,omitempty"`
	Duties           string `json:"duties,omitempty"`
	ReasonForLeaving string `json:"reason_for_leaving,omitempty"`
}

// SkillEntry is one declared skill with self-reported proficiency.
type SkillEntry struct {
	Name             string `json:"name"`
	ExperienceYears  string `json:"experience_years,omitempty"`
	ExperienceMonths string `json:"experience_months,omitempty"`
	Level            string `json:"level,omitempty"`
}

// EducationEntry is one education record from the application form.
type EducationEntry struct {
	InstitutionName string `json:"institution_name"`
	Degree          string `json:"degree,omitempty"`
	Major           string `json:"major,omitempty"`
	Graduated       bool   `json:"graduated"`
}

// CertificationEntry is one certification or license.
type CertificationEntry struct {
	Name string `json:"name"`
}

// LanguageEntry is one language with declared abilities.
type LanguageEntry struct {
	Language string `json:"language"`
	Speak    bool   `json:"speak"`
	Read     bool   `json:"read"`
	Write    bool   `json:"write"`
}

// ApplicationFormData is the structured, applicant-verified portion of an
// application. The enhanced scoring engine folds it into the prompt ahead
// of the unstructured resume text.
type ApplicationFormData struct {
	WorkHistory    []WorkHistoryEntry   `json:"work_history,omitempty"`
	Skills         []SkillEntry         `json:"skills,omitempty"`
	Education      []EducationEntry     `json:"education,omitempty"`
	Certifications []CertificationEntry `json:"certifications,omitempty"`
	Languages      []LanguageEntry      `json:"languages,omitempty"`

	GeneralExperienceMet     string `json:"general_experience_met,omitempty"`
	SpecializedExperienceMet string `json:"specialized_experience_met,omitempty"`

	SupplementalAnswers map[string]string `json:"supplemental_answers,omitempty"`
}

// HasContent reports whether any verified section carries real data.
func (d *ApplicationFormData) HasContent() bool {
	if d == nil {
		return false
	}
	return len(d.WorkHistory) > 0 || len(d.Skills) > 0 || len(d.Education) > 0 ||
		len(d.Certifications) > 0 || len(d.Languages) > 0
}

// FormatForScoring renders the form data as the "VERIFIED APPLICATION DATA"
// prompt section. Returns "" when there is nothing worth including.
func (d *ApplicationFormData) FormatForScoring() string {
	if !d.HasContent() {
		return ""
	}

	var b strings.Builder
	b.WriteString("=== VERIFIED APPLICATION DATA ===\n\n")

	if len(d.WorkHistory) > 0 {
		b.WriteString("WORK HISTORY:\n")
		for i, w := range d.WorkHistory {
			duration := fmt.Sprintf("%s - %s", w.StartDate, w.EndDate)
			if w.StillEmployed {
				duration = fmt.Sprintf("%s - Present", w.StartDate)
			}
			fmt.Fprintf(&b, "  %d. %s at %s (%s)\n", i+1, w.JobTitle, w.EmployerName, duration)
			if w.HoursPerWeek > 0 {
				fmt.Fprintf(&b, "     Hours/Week: %d\n", w.HoursPerWeek)
			}
			if w.Duties != "" {
				fmt.Fprintf(&b, "     Duties: %s\n", w.Duties)
			}
			if w.ReasonForLeaving != "" {
				fmt.Fprintf(&b, "     Reason for Leaving: %s\n", w.ReasonForLeaving)
			}
		}
		b.WriteString("\n")
	}

	if len(d.Skills) > 0 {
		b.WriteString("SKILLS & PROFICIENCY:\n")
		for _, s := range d.Skills {
			fmt.Fprintf(&b, "  - %s: %s (%s)\n", s.Name, s.Level, formatExperience(s))
		}
		b.WriteString("\n")
	}

	if len(d.Education) > 0 {
		b.WriteString("EDUCATION:\n")
		for _, e := range d.Education {
			status := "Attended"
			if e.Graduated {
				status = "Graduated"
			}
			degree := e.Degree
			if e.Major != "" {
				degree = fmt.Sprintf("%s in %s", e.Degree, e.Major)
			}
			fmt.Fprintf(&b, "  - %s - %s (%s)\n", degree, e.InstitutionName, status)
		}
		b.WriteString("\n")
	}

	if len(d.Certifications) > 0 {
		b.WriteString("CERTIFICATIONS & LICENSES:\n")
		for _, c := range d.Certifications {
			fmt.Fprintf(&b, "  - %s\n", c.Name)
		}
		b.WriteString("\n")
	}

	if len(d.Languages) > 0 {
		b.WriteString("LANGUAGES:\n")
		for _, l := range d.Languages {
			abilities := make([]string, 0, 3)
			if l.Speak {
				abilities = append(abilities, "Speak")
			}
			if l.Read {
				abilities = append(abilities, "Read")
			}
			if l.Write {
				abilities = append(abilities, "Write")
			}
			fmt.Fprintf(&b, "  - %s: %s\n", l.Language, strings.Join(abilities, ", "))
		}
		b.WriteString("\n")
	}

	b.WriteString("SUPPLEMENTAL QUESTION RESPONSES:\n")
	if d.GeneralExperienceMet != "" {
		fmt.Fprintf(&b, "  General Experience Requirement Met: %s\n", strings.ToUpper(d.GeneralExperienceMet))
	}
	if d.SpecializedExperienceMet != "" {
		fmt.Fprintf(&b, "  Specialized Experience Requirement Met: %s\n", strings.ToUpper(d.SpecializedExperienceMet))
	}
	// Sorted so identical form data always yields an identical prompt.
	ids := make([]string, 0, len(d.SupplementalAnswers))
	for id := range d.SupplementalAnswers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if answer := d.SupplementalAnswers[id]; answer != "" {
			fmt.Fprintf(&b, "  Q%s: %s\n", id, answer)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// formatExperience renders total experience as "3y 6m" / "8m" style.
func formatExperience(s SkillEntry) string {
	years, _ := strconv.Atoi(s.ExperienceYears)
	months, _ := strconv.Atoi(s.ExperienceMonths)
	total := years*12 + months
	if total >= 12 {
		if total%12 == 0 {
			return fmt.Sprintf("%dy", total/12)
		}
		return fmt.Sprintf("%dy %dm", total/12, total%12)
	}
	return fmt.Sprintf("%dm", total)
}
