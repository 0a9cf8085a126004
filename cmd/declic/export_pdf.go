package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"alfredoptarigan/declic-pro/internal/models"
	"alfredoptarigan/declic-pro/internal/services"
)

var exportPDFCmd = &cobra.Command{
	Use:   "export-pdf",
	Short: "Render a saved analysis result as PDF",
	RunE:  runExportPDF,
}

var (
	exportInputFile  string
	exportOutputFile string
)

func init() {
	exportPDFCmd.Flags().StringVarP(&exportInputFile, "in", "i", "", "Path to an analysis result JSON file (required)")
	exportPDFCmd.Flags().StringVarP(&exportOutputFile, "out", "o", services.PDFFilename, "Path to the output PDF file")

	if err := exportPDFCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(exportPDFCmd)
}

func runExportPDF(cmd *cobra.Command, _ []string) error {
	raw, err := os.ReadFile(exportInputFile)
	if err != nil {
		return fmt.Errorf("failed to read result file: %w", err)
	}

	var result models.AnalysisResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return fmt.Errorf("failed to unmarshal result JSON: %w", err)
	}

	data, pages, err := services.NewPDFExporter().Render(&result)
	if err != nil {
		return fmt.Errorf("failed to render PDF: %w", err)
	}

	if err := writeOutput(exportOutputFile, data); err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "✅ PDF written to %s (%d page(s))\n", exportOutputFile, pages)
	return nil
}
