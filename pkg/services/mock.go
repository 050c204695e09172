package services

import (
	"context"
	"fmt"
	"strings"

	"NeuraFlow/pkg/logger"
)

// MockRequester produces a deterministic local answer for development
// without an AI service.
type MockRequester struct{}

func (MockRequester) Query(ctx context.Context, q QueryRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &AIServiceError{Err: err}
	}
	b := &strings.Builder{}
	if q.PreviousOutput != nil && strings.TrimSpace(*q.PreviousOutput) != "" {
		fmt.Fprintf(b, "Follow-up on: %s\n\n", logger.TruncateForLog(q.JobDescription, 80))
		fmt.Fprintf(b, "Building on the earlier analysis (%s), focus your preparation on this question ", logger.TruncateForLog(*q.PreviousOutput, 60))
		fmt.Fprintln(b, "and back every answer with a concrete example from your resume.")
		return b.String(), nil
	}
	fmt.Fprintln(b, "# Interview Preparation Analysis")
	fmt.Fprintln(b)
	fmt.Fprintf(b, "- Resume: %s\n", logger.TruncateForLog(q.ResumeText, 60))
	fmt.Fprintf(b, "- Role: %s\n", logger.TruncateForLog(q.JobDescription, 60))
	fmt.Fprintln(b)
	fmt.Fprintln(b, "## Next steps")
	fmt.Fprintln(b, "1) Compare the required skills with the ones on your resume.")
	fmt.Fprintln(b, "2) Prepare STAR stories for the behavioral round.")
	fmt.Fprintln(b, "3) Practice one system design question per day.")
	return b.String(), nil
}
