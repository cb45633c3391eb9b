package plan

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
)

// ParseKind distinguishes the two ways raw model output can fail ingestion.
type ParseKind string

const (
	// ParseMalformed means the raw text is not decodable JSON at all.
	ParseMalformed ParseKind = "malformed"
	// ParseInvalid means the text decoded but violates the document contract.
	ParseInvalid ParseKind = "invalid"
)

// Sections of the document contract, in order.
var sectionOrder = []string{
	"metadata", "techStack", "databaseSchema", "risks",
	"roadmap", "keyFeatures", "executiveSummary",
}

// ParseError reports why raw model output could not become a Document.
type ParseError struct {
	Kind ParseKind
	// Message carries the decoder error verbatim for malformed output.
	Message string
	// Sections names the top-level sections that are absent or malformed.
	Sections []string
	// Violations holds the field-level detail behind Sections.
	Violations []Violation
}

func (e *ParseError) Error() string {
	if e.Kind == ParseMalformed {
		return "plan output is not valid JSON: " + e.Message
	}
	return fmt.Sprintf("plan output violates contract in sections: %s", strings.Join(e.Sections, ", "))
}

// Parse decodes raw model output and validates it against the document
// contract. It returns either a fully validated Document or a *ParseError;
// a partially populated document is never returned.
func Parse(raw string) (*Document, *ParseError) {
	var decoded any
	if err := sonic.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, &ParseError{Kind: ParseMalformed, Message: err.Error()}
	}

	doc, violations := Validate(decoded)
	if doc != nil {
		return doc, nil
	}
	return nil, &ParseError{
		Kind:       ParseInvalid,
		Sections:   sections(violations),
		Violations: violations,
	}
}

// sections collapses field-level violations into the ordered set of affected
// top-level sections. A violation on the document root implicates every
// section.
func sections(violations []Violation) []string {
	hit := map[string]bool{}
	for _, v := range violations {
		s := v.Section()
		if s == "document" {
			return append([]string(nil), sectionOrder...)
		}
		hit[s] = true
	}
	out := make([]string, 0, len(hit))
	for _, s := range sectionOrder {
		if hit[s] {
			out = append(out, s)
		}
	}
	return out
}
