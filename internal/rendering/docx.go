package rendering

import (
	"archive/zip"
	_ "embed"
	"io"
	"os"
	"strings"
	"text/template"
)

//go:embed templates/document.xml
var documentXML string

var docxTemplate = template.Must(template.New("document").Parse(documentXML))

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>
`

const packageRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>
`

// xmlEscaper rewrites the five XML metacharacters for text content.
var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func escapeXML(text string) string {
	return xmlEscaper.Replace(text)
}

// docxDefect is one register row with every field already XML-escaped.
type docxDefect struct {
	Area     string
	Title    string
	Severity string
	Shade    string
	Cost     string
}

type docxData struct {
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
	Defects        []docxDefect
	Plan           []string
}

// WriteDOCX writes the report as a minimal OOXML package: content types,
// package relationships, and the main document part.
func WriteDOCX(rc *ReportContext, w io.Writer) error {
	data := buildDocxData(rc)

	zw := zip.NewWriter(w)

	parts := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", packageRelsXML},
	}
	for _, part := range parts {
		f, err := zw.Create(part.name)
		if err != nil {
			return &RenderError{Message: "failed to create DOCX part " + part.name, Cause: err}
		}
		if _, err := f.Write([]byte(part.content)); err != nil {
			return &RenderError{Message: "failed to write DOCX part " + part.name, Cause: err}
		}
	}

	doc, err := zw.Create("word/document.xml")
	if err != nil {
		return &RenderError{Message: "failed to create DOCX document part", Cause: err}
	}
	if err := docxTemplate.Execute(doc, data); err != nil {
		return &TemplateError{Message: "failed to execute DOCX template", Cause: err}
	}

	if err := zw.Close(); err != nil {
		return &RenderError{Message: "failed to finalize DOCX package", Cause: err}
	}
	return nil
}

// WriteDOCXFile renders the report as DOCX at path.
func WriteDOCXFile(rc *ReportContext, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return &RenderError{Message: "failed to create " + path, Cause: err}
	}

	if err := WriteDOCX(rc, f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return &RenderError{Message: "failed to write " + path, Cause: err}
	}
	return nil
}

func buildDocxData(rc *ReportContext) *docxData {
	r := rc.Report

	data := &docxData{
		Title:          escapeXML(r.Title),
		Address:        escapeXML(r.Address),
		Inspector:      escapeXML(r.Inspector),
		ClientName:     escapeXML(r.ClientName),
		InspectionDate: escapeXML(r.InspectionDate),
		GeneratedDate:  rc.GeneratedAt.Format("2 January 2006"),
		TotalCost:      escapeXML(rc.TotalCost),
		DefectCount:    rc.DefectCount,
		SafetyCount:    rc.SafetyCount,
	}

	for _, row := range propertyRows(r.Property) {
		data.Property = append(data.Property, [2]string{escapeXML(row[0]), escapeXML(row[1])})
	}
	for _, p := range paragraphs(r.ExecSummary) {
		data.Summary = append(data.Summary, escapeXML(p))
	}
	for _, p := range paragraphs(r.MaintenancePlan) {
		data.Plan = append(data.Plan, escapeXML(p))
	}

	for _, d := range r.Defects {
		cost := d.Cost
		if cost == "" {
			cost = "N/A"
		}
		data.Defects = append(data.Defects, docxDefect{
			Area:     escapeXML(d.Area),
			Title:    escapeXML(d.Title),
			Severity: escapeXML(d.Severity),
			Shade:    severityShade(d.Severity),
			Cost:     escapeXML(cost),
		})
	}

	return data
}
