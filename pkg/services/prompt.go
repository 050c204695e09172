package services

import (
	_ "embed"
	"strings"
)

//go:embed prompts/analysis.md
var analysisTemplate string

//go:embed prompts/followup.md
var followupTemplate string

// BuildPrompt renders the analysis prompt, or the follow-up prompt when a
// non-empty previous output is present. On a follow-up the job description
// field carries the candidate's question.
func BuildPrompt(q QueryRequest) string {
	if q.PreviousOutput != nil && strings.TrimSpace(*q.PreviousOutput) != "" {
		return strings.NewReplacer(
			"{{PREVIOUS_OUTPUT}}", *q.PreviousOutput,
			"{{QUESTION}}", q.JobDescription,
		).Replace(followupTemplate)
	}
	return strings.NewReplacer(
		"{{RESUME}}", q.ResumeText,
		"{{JOB_DESCRIPTION}}", q.JobDescription,
	).Replace(analysisTemplate)
}
