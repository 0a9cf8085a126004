package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"alfredoptarigan/declic-pro/internal/bootstrap"
	"alfredoptarigan/declic-pro/internal/config"
	"alfredoptarigan/declic-pro/internal/logger"
	"alfredoptarigan/declic-pro/internal/models"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a PDF or DOCX résumé",
	Long:  "Extracts the résumé text, asks Gemini for a structured career analysis and prints the validated JSON result.",
	RunE:  runAnalyze,
}

var (
	analyzeCVFile     string
	analyzeOutputFile string
	analyzeProfile    models.ProfileInput
	analyzeContact    models.ContactInfo
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeCVFile, "cv", "", "Path to the résumé, .pdf or .docx (required)")
	analyzeCmd.Flags().StringVarP(&analyzeOutputFile, "out", "o", "", "Path to the output JSON file (default: stdout)")
	analyzeCmd.Flags().StringVar(&analyzeProfile.CurrentRole, "current-role", "", "Current role")
	analyzeCmd.Flags().StringVar(&analyzeProfile.Seniority, "seniority", "", "Seniority")
	analyzeCmd.Flags().StringVar(&analyzeProfile.Industry, "industry", "", "Target industry")
	analyzeCmd.Flags().StringVar(&analyzeProfile.Goals, "goals", "", "Career goals")
	analyzeCmd.Flags().StringVar(&analyzeProfile.StrengthsSelf, "strengths", "", "Self-assessed strengths")
	analyzeCmd.Flags().StringVar(&analyzeProfile.Constraints, "constraints", "", "Constraints (location, schedule...)")
	analyzeCmd.Flags().StringVar(&analyzeContact.Email, "email", "", "Contact email")
	analyzeCmd.Flags().StringVar(&analyzeContact.Phone, "phone", "", "Contact phone")

	if err := analyzeCmd.MarkFlagRequired("cv"); err != nil {
		panic(fmt.Sprintf("failed to mark cv flag as required: %v", err))
	}

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	data, err := os.ReadFile(analyzeCVFile)
	if err != nil {
		return fmt.Errorf("failed to read CV file: %w", err)
	}

	cfg := config.Load()
	log := logger.NewStructured(cfg.Log.Level, cfg.Log.Format)
	defer log.Sync()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	svc, err := bootstrap.Build(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer svc.Close()

	outcome, err := svc.Analyzer.Analyze(ctx, &models.AnalysisRequest{
		Filename: filepath.Base(analyzeCVFile),
		Data:     data,
		Profile:  analyzeProfile,
		Contact:  analyzeContact,
	})
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(outcome.Result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	if analyzeOutputFile == "" {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return err
	}

	if err := writeOutput(analyzeOutputFile, out); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "✅ Result written to %s (%d attempt(s))\n", analyzeOutputFile, outcome.Attempts)
	return nil
}

func writeOutput(path string, data []byte) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
