package rendering

import "fmt"

// TemplateError represents an error executing a document template.
type TemplateError struct {
	Message string
	Cause   error
}

func (e *TemplateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("template error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("template error: %s", e.Message)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// RenderError represents a general rendering failure.
type RenderError struct {
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("render error: %s", e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// CompilerNotFoundError means pdflatex is not installed on this host.
// Callers surface installation guidance instead of a raw exec error.
type CompilerNotFoundError struct {
	Cause error
}

func (e *CompilerNotFoundError) Error() string {
	return "pdflatex not found in PATH; install a LaTeX distribution (TeX Live or MiKTeX) to export PDF"
}

func (e *CompilerNotFoundError) Unwrap() error {
	return e.Cause
}

// CompilationError represents a pdflatex run that did not produce a PDF.
type CompilationError struct {
	Message   string
	LogOutput string
	Cause     error
}

func (e *CompilationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("LaTeX compilation error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("LaTeX compilation error: %s", e.Message)
}

func (e *CompilationError) Unwrap() error {
	return e.Cause
}
