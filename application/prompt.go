package application

import (
	"fmt"
	"strings"

	"hr-portal/domain"
)

const analysisOutputShape = `{
  "score": <number between 1-100, overall quality of the candidate>,
  "matchScore": <number between 1-100, fit for this specific job>,
  "feedback": {
    "strengths": ["strength1", "strength2", ...],
    "weaknesses": ["weakness1", "weakness2", ...],
    "skillsIdentified": ["skill1", "skill2", ...],
    "recommendation": "detailed hiring recommendation"
  },
  "suggestedQuestions": ["question1", "question2", ...],
  "experience": [{"title": "job title", "company": "company name", "years": number}, ...],
  "education": [{"degree": "degree name", "institution": "school name", "year": number}, ...]
}`

const enhancedGuidance = `Scoring guidance:
- score reflects the candidate on their own merits: depth and recency of experience, evidence of impact, clarity of the resume.
- matchScore reflects fit for this job only: coverage of the listed requirements first, preferred skills second.
- A missing hard requirement should keep matchScore below 50.
- suggestedQuestions must explore the weaknesses and any gaps against the requirements.
- Use empty arrays when the resume has no experience or education entries. Never omit a field.`

// BuildAnalysisPrompt renders the single instruction sent to the generator.
func BuildAnalysisPrompt(mode domain.AnalysisMode, resumeText, jobContext string) string {
	var b strings.Builder

	if mode == domain.AnalysisModeBasic {
		fmt.Fprintf(&b, "Evaluate this resume for the role: %s\n\n", firstLine(jobContext))
		fmt.Fprintf(&b, "Resume:\n%s\n\n", resumeText)
	} else {
		b.WriteString("You are an experienced technical recruiter. Analyze this resume for the specified job position and provide a detailed evaluation.\n\n")
		fmt.Fprintf(&b, "Job Description:\n%s\n\n", jobContext)
		fmt.Fprintf(&b, "Resume:\n%s\n\n", resumeText)
		b.WriteString(enhancedGuidance)
		b.WriteString("\n\n")
	}

	b.WriteString("Provide a JSON response with exactly this format:\n")
	b.WriteString(analysisOutputShape)
	b.WriteString("\n\nOnly respond with the JSON, no other text. Do not wrap it in markdown.")
	return b.String()
}

// firstLine keeps the role title of a structured job context.
func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(strings.TrimPrefix(s, "Job Title:"))
}
