package rendering

import (
	_ "embed"
	"os"
	"strings"
	"text/template"
)

//go:embed templates/report.tex
var reportTex string

var texTemplate = template.Must(template.New("report").Parse(reportTex))

// texDefect is one defect block with every field already LaTeX-escaped.
type texDefect struct {
	Area           string
	Title          string
	Severity       string
	Color          string
	Observation    string
	Recommendation string
	Cost           string
	Trade          string
	Scope          string
	Impact         string
	Liability      string
	Compliance     string
}

// texData is the fully escaped payload handed to the report template.
type texData struct {
	Title          string
	Address        string
	Inspector      string
	ClientName     string
	InspectionDate string
	GeneratedDate  string
	Property       [][2]string
	Summary        []string
	TotalCost      string
	DefectCount    int
	SafetyCount    int
	Defects        []texDefect
	Plan           []string
}

// RenderLaTeX produces the complete .tex source for a report. Every value
// interpolated into the document has passed EscapeLaTeX.
func RenderLaTeX(rc *ReportContext) (string, error) {
	return render(rc, texTemplate)
}

// RenderLaTeXWith renders the report using a caller-supplied template
// source instead of the embedded one. The template receives the same
// data layout as the default report template.
func RenderLaTeXWith(rc *ReportContext, templateSource string) (string, error) {
	tmpl, err := template.New("report").Parse(templateSource)
	if err != nil {
		return "", &TemplateError{
			Message: "failed to parse report template override",
			Cause:   err,
		}
	}
	return render(rc, tmpl)
}

func render(rc *ReportContext, tmpl *template.Template) (string, error) {
	data := buildTexData(rc)

	var out strings.Builder
	if err := tmpl.Execute(&out, data); err != nil {
		return "", &TemplateError{
			Message: "failed to execute report template",
			Cause:   err,
		}
	}
	return out.String(), nil
}

// RenderLaTeXToFile renders the report and writes the .tex source to path.
func RenderLaTeXToFile(rc *ReportContext, path string) error {
	source, err := RenderLaTeX(rc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(source), 0644); err != nil {
		return &RenderError{
			Message: "failed to write LaTeX source to " + path,
			Cause:   err,
		}
	}
	return nil
}

func buildTexData(rc *ReportContext) *texData {
	r := rc.Report

	data := &texData{
		Title:          EscapeLaTeX(r.Title),
		Address:        EscapeLaTeX(r.Address),
		Inspector:      EscapeLaTeX(r.Inspector),
		ClientName:     EscapeLaTeX(r.ClientName),
		InspectionDate: EscapeLaTeX(r.InspectionDate),
		GeneratedDate:  rc.GeneratedAt.Format("2 January 2006"),
		TotalCost:      EscapeLaTeX(rc.TotalCost),
		DefectCount:    rc.DefectCount,
		SafetyCount:    rc.SafetyCount,
	}

	for _, row := range propertyRows(r.Property) {
		data.Property = append(data.Property, [2]string{EscapeLaTeX(row[0]), EscapeLaTeX(row[1])})
	}

	for _, p := range paragraphs(r.ExecSummary) {
		data.Summary = append(data.Summary, EscapeLaTeX(p))
	}
	for _, p := range paragraphs(r.MaintenancePlan) {
		data.Plan = append(data.Plan, EscapeLaTeX(p))
	}

	for _, d := range r.Defects {
		data.Defects = append(data.Defects, texDefect{
			Area:           EscapeLaTeX(d.Area),
			Title:          EscapeLaTeX(d.Title),
			Severity:       EscapeLaTeX(d.Severity),
			Color:          severityColor(d.Severity),
			Observation:    EscapeLaTeX(d.Observation),
			Recommendation: EscapeLaTeX(d.Recommendation),
			Cost:           EscapeLaTeX(d.Cost),
			Trade:          EscapeLaTeX(d.Trade),
			Scope:          EscapeLaTeX(d.Scope),
			Impact:         EscapeLaTeX(d.Impact),
			Liability:      EscapeLaTeX(d.Liability),
			Compliance:     EscapeLaTeX(d.Compliance),
		})
	}

	return data
}
