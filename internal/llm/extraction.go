// Package llm - extraction.go provides generic LLM-based structured extraction.
package llm

import (
	"fmt"
	"strings"
)

// ExtractionSchema defines the structure for LLM-based content extraction.
// It provides a reusable way to define what information to extract from text.
type ExtractionSchema struct {
	Name        string        // Schema name (e.g., "PropertyDetails")
	Description string        // System prompt preamble describing the extraction task
	Fields      []SchemaField // Expected output fields
}

// SchemaField defines a single field in the extraction output.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint: "string", "number", "[]string"
	Description string // Description for the LLM
	Required    bool   // Whether this field is required
}

// BuildExtractionPrompt constructs the LLM prompt from schema and input text.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "string"
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		sb.WriteString(fmt.Sprintf("  %q: %s%s", field.Name, typeHint, requiredHint))
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Extract information directly from the text, do not invent or summarize.\n")
	sb.WriteString("- Omit fields the text does not support rather than guessing.\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")

	sb.WriteString("Input text:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// PropertyDetailsSchema returns the extraction schema for property
// history gathered from public listing pages.
func PropertyDetailsSchema() ExtractionSchema {
	return ExtractionSchema{
		Name: "PropertyDetails",
		Description: `You are an expert at reading Australian real-estate listing and sale-history pages.
Your task is to extract factual property details for the subject address from the text below.
The text is scraped from one or more listing portals and may mix several properties; only use
facts clearly tied to the subject address.`,
		Fields: []SchemaField{
			{
				Name:        "year_built",
				Type:        "number",
				Description: "Construction year if stated, otherwise omit",
			},
			{
				Name:        "property_type",
				Type:        "\"string\"",
				Description: "e.g. 'Detached house', 'Townhouse', 'Apartment'",
			},
			{
				Name:        "land_size",
				Type:        "\"string\"",
				Description: "Land area as written, e.g. '556 sqm'",
			},
			{
				Name:        "last_sale_price",
				Type:        "\"string\"",
				Description: "Most recent sale price as written, e.g. '$1,240,000'",
			},
			{
				Name:        "last_sale_year",
				Type:        "number",
				Description: "Year of the most recent sale",
			},
			{
				Name:        "notes",
				Type:        "\"string\"",
				Description: "One or two sentences of other relevant history (renovations, additions, rezoning)",
			},
		},
	}
}
