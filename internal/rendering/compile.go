package rendering

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// CompilationTimeout bounds a single pdflatex pass.
const CompilationTimeout = 60 * time.Second

// CompilePDF compiles a .tex file with pdflatex. Two passes, so page
// headers and cross-references settle. Output lands next to the source;
// the returned log is the combined output of the final pass.
func CompilePDF(ctx context.Context, texPath string) (pdfPath string, logOutput string, err error) {
	if _, err := exec.LookPath("pdflatex"); err != nil {
		return "", "", &CompilerNotFoundError{Cause: err}
	}

	workDir := filepath.Dir(texPath)

	var runErr error
	for pass := 0; pass < 2; pass++ {
		passCtx, cancel := context.WithTimeout(ctx, CompilationTimeout)
		cmd := exec.CommandContext(passCtx, "pdflatex", "-interaction=nonstopmode", "-output-directory", workDir, texPath)

		var output strings.Builder
		cmd.Stdout = &output
		cmd.Stderr = &output

		runErr = cmd.Run()
		logOutput = output.String()
		cancel()

		if ctx.Err() != nil {
			return "", logOutput, &CompilationError{
				Message:   "compilation cancelled",
				LogOutput: logOutput,
				Cause:     ctx.Err(),
			}
		}
	}

	base := filepath.Base(texPath)
	pdfPath = filepath.Join(workDir, strings.TrimSuffix(base, ".tex")+".pdf")
	if _, statErr := os.Stat(pdfPath); os.IsNotExist(statErr) {
		return "", logOutput, &CompilationError{
			Message:   "PDF was not generated",
			LogOutput: logOutput,
			Cause:     runErr,
		}
	}

	// pdflatex exits nonzero for recoverable warnings; a PDF on disk is
	// treated as success with the log available for inspection.
	return pdfPath, logOutput, nil
}

// CleanupArtifacts removes the auxiliary files pdflatex leaves beside the
// source. Missing files are ignored.
func CleanupArtifacts(texPath string) {
	base := strings.TrimSuffix(texPath, ".tex")
	for _, ext := range []string{".aux", ".log", ".out", ".toc"} {
		_ = os.Remove(base + ext)
	}
}
