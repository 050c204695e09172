package cmd

import (
	"context"
	"fmt"
	"os"

	svc "NeuraFlow/pkg/services"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a local résumé against a job description and print the result",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return analyze(cmd)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringP("resume", "r", "", "path to a PDF or DOCX résumé")
	analyzeCmd.Flags().String("resume-text", "", "résumé as plain text, used when --resume is not set")
	analyzeCmd.Flags().StringP("job", "J", "", "job description, or a follow-up question with --previous")
	analyzeCmd.Flags().StringP("previous", "p", "", "output of an earlier analysis to continue from")
	analyzeCmd.MarkFlagRequired("job") //nolint:errcheck
}

func analyze(cmd *cobra.Command) error {
	cfg, logger := bootstrap()
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()
	session, _, err := newSession(ctx, cfg, logger)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	job, _ := flags.GetString("job")
	in := svc.AnalyzeInput{JobDescription: job}
	in.Resume.Text, _ = flags.GetString("resume-text")
	if flags.Changed("previous") {
		prev, _ := flags.GetString("previous")
		in.PreviousOutput = &prev
	}

	if path, _ := flags.GetString("resume"); path != "" {
		mt, err := mimetype.DetectFile(path)
		if err != nil {
			return fmt.Errorf("detecting résumé type: %w", err)
		}
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening résumé: %w", err)
		}
		defer f.Close()
		in.Resume.File = f
		in.Resume.MimeType = mt.String()
		logger.Debug("résumé detected", zap.String("path", path), zap.String("mime", mt.String()))
	}

	res, err := session.Analyze(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.AIOutput)
	return nil
}
