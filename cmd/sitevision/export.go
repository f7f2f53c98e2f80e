package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/sitevision/internal/rendering"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render a report to PDF or DOCX",
	Long: `Render a report file into a client-ready document. PDF output compiles
the report with pdflatex; DOCX output is generated directly and works
without any external tools. Both run offline.`,
	RunE: runExport,
}

var (
	exportConfigPath   string
	exportReportFile   string
	exportFormat       string
	exportOutputDir    string
	exportTemplateFile string
	exportKeepTex      bool
)

func init() {
	exportCmd.Flags().StringVar(&exportConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	exportCmd.Flags().StringVarP(&exportReportFile, "report", "r", "", "Path to report JSON file (required)")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "pdf", "Output format: pdf or docx")
	exportCmd.Flags().StringVarP(&exportOutputDir, "out", "o", "", "Directory for the rendered document (defaults to the current directory)")
	exportCmd.Flags().StringVarP(&exportTemplateFile, "template", "t", "", "Path to a LaTeX template override (PDF only)")
	exportCmd.Flags().BoolVar(&exportKeepTex, "keep-tex", false, "Keep the intermediate .tex source next to the PDF")

	rootCmd.AddCommand(exportCmd)
}

func runExport(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfigFile(exportConfigPath)
	if err != nil {
		return err
	}

	reportPath := exportReportFile
	if reportPath == "" {
		reportPath = cfg.Report
	}
	if reportPath == "" {
		return fmt.Errorf("a report file is required (use --report or the config 'report' field)")
	}

	format := strings.ToLower(exportFormat)
	if format != "pdf" && format != "docx" {
		return fmt.Errorf("unsupported format %q (use pdf or docx)", exportFormat)
	}

	outDir := exportOutputDir
	if outDir == "" {
		outDir = cfg.ExportDir
	}
	if outDir == "" {
		outDir = "."
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	templatePath := exportTemplateFile
	if templatePath == "" {
		templatePath = cfg.Template
	}

	report, err := readReportFile(reportPath)
	if err != nil {
		return err
	}
	if err := report.Validate(); err != nil {
		return fmt.Errorf("report is not valid: %w", err)
	}

	rc := rendering.NewReportContext(report)
	baseName := strings.TrimSuffix(filepath.Base(reportPath), filepath.Ext(reportPath))

	if format == "docx" {
		outPath := filepath.Join(outDir, baseName+".docx")
		if err := rendering.WriteDOCXFile(rc, outPath); err != nil {
			return fmt.Errorf("failed to write DOCX: %w", err)
		}
		_, _ = fmt.Fprintf(os.Stdout, "Output: %s\n", outPath)
		return nil
	}

	texPath := filepath.Join(outDir, baseName+".tex")
	if err := writeTexSource(rc, templatePath, texPath); err != nil {
		return err
	}

	pdfPath, logOutput, err := rendering.CompilePDF(context.Background(), texPath)
	if err != nil {
		var notFound *rendering.CompilerNotFoundError
		if errors.As(err, &notFound) {
			return fmt.Errorf("pdflatex is not installed; use --format docx, or compile the kept LaTeX source yourself: %s", texPath)
		}
		logPath := strings.TrimSuffix(texPath, ".tex") + ".compile.log"
		if writeErr := os.WriteFile(logPath, []byte(logOutput), 0644); writeErr == nil {
			return fmt.Errorf("PDF compilation failed (log: %s): %w", logPath, err)
		}
		return fmt.Errorf("PDF compilation failed: %w", err)
	}

	rendering.CleanupArtifacts(texPath)
	if !exportKeepTex {
		_ = os.Remove(texPath)
	}

	_, _ = fmt.Fprintf(os.Stdout, "Output: %s\n", pdfPath)
	return nil
}

// writeTexSource renders the report with the embedded template, or with
// the override file when one is configured.
func writeTexSource(rc *rendering.ReportContext, templatePath, texPath string) error {
	if templatePath == "" {
		return rendering.RenderLaTeXToFile(rc, texPath)
	}

	source, err := os.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("failed to read template file: %w", err)
	}
	rendered, err := rendering.RenderLaTeXWith(rc, string(source))
	if err != nil {
		return err
	}
	if err := os.WriteFile(texPath, []byte(rendered), 0644); err != nil {
		return fmt.Errorf("failed to write LaTeX source: %w", err)
	}
	return nil
}
