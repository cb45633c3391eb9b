package plan

import (
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_MalformedOutput(t *testing.T) {
	for _, raw := range []string{"not json", "", "{\"metadata\": ", "```json\n{}\n```"} {
		doc, perr := Parse(raw)
		assert.Nil(t, doc)
		require.NotNil(t, perr, "raw %q", raw)
		assert.Equal(t, ParseMalformed, perr.Kind)
		assert.NotEmpty(t, perr.Message, "decoder message must be carried verbatim")
		assert.Empty(t, perr.Sections)
	}
}

func TestParse_InvalidNamesSections(t *testing.T) {
	m := docMap()
	m["risks"] = []any{}
	raw, err := sonic.Marshal(m)
	require.NoError(t, err)

	doc, perr := Parse(string(raw))
	assert.Nil(t, doc)
	require.NotNil(t, perr)
	assert.Equal(t, ParseInvalid, perr.Kind)
	assert.Equal(t, []string{"risks"}, perr.Sections)
	require.NotEmpty(t, perr.Violations)
	assert.Equal(t, "risks", perr.Violations[0].Field)
}

func TestParse_TypeMismatchIsInvalidNotMalformed(t *testing.T) {
	// Decodable JSON with a wrong-typed field is a contract violation, not a
	// decode failure.
	m := docMap()
	m["metadata"].(map[string]any)["confidenceScore"] = "ninety"
	raw, err := sonic.Marshal(m)
	require.NoError(t, err)

	_, perr := Parse(string(raw))
	require.NotNil(t, perr)
	assert.Equal(t, ParseInvalid, perr.Kind)
	assert.Equal(t, []string{"metadata"}, perr.Sections)
}

func TestParse_NonObjectRootImplicatesAllSections(t *testing.T) {
	_, perr := Parse(`[1, 2, 3]`)
	require.NotNil(t, perr)
	assert.Equal(t, ParseInvalid, perr.Kind)
	assert.Equal(t, sectionOrder, perr.Sections)
}

func TestParse_RoundTrip(t *testing.T) {
	original := &Document{
		Metadata: Metadata{
			ConfidenceScore: 64,
			AnalysisDepth:   "comprehensive",
			GeneratedAt:     "2026-08-30T10:00:00Z",
			AdjustmentsMade: []string{"Raised team size assumption to 2"},
		},
		TechStack: TechStack{
			Backend:   []string{"Go"},
			Database:  []string{"PostgreSQL"},
			Rationale: "Boring technology fits a two person team.",
		},
		DatabaseSchema: DatabaseSchema{
			Tables: []Table{
				{
					Name: "users",
					Columns: []Column{
						{Name: "id", Type: "uuid", Nullable: false, PrimaryKey: true},
						{Name: "email", Type: "text", Nullable: false},
					},
				},
				{
					Name: "orders",
					Columns: []Column{
						{Name: "id", Type: "uuid", Nullable: false, PrimaryKey: true},
						{Name: "user_id", Type: "uuid", Nullable: true,
							ForeignKey: &ForeignKey{Table: "users", Column: "id"}},
					},
				},
			},
			Relationships: []Relationship{
				{From: "users", To: "orders", Type: "one-to-many"},
			},
		},
		Risks: []Risk{
			{
				Title:       "Payment integration underestimated",
				Description: "Stripe webhooks and reconciliation take longer than a week.",
				Severity:    "Medium",
				Mitigation:  "Ship invoices manually for the first cohort.",
				Category:    "Timeline",
			},
		},
		Roadmap: Roadmap{
			AdjustedTimelineWeeks: 12,
			Phases: []Phase{
				{
					Name:           "Core Features",
					Duration:       "6 weeks",
					Tasks:          []string{"Order flow", "Webhook handling"},
					Deliverables:   []string{"End to end checkout"},
					SkillsRequired: []string{"Go", "Stripe API"},
				},
			},
		},
		KeyFeatures: []KeyFeature{
			{
				Feature:       "Checkout",
				Description:   "Single page checkout with saved carts.",
				Priority:      "P0",
				Complexity:    "Medium",
				EstimatedDays: 6,
			},
		},
		ExecutiveSummary: "Feasible in twelve weeks if payments stay simple.",
	}

	raw, err := sonic.Marshal(original)
	require.NoError(t, err)

	parsed, perr := Parse(string(raw))
	require.Nil(t, perr)
	assert.Equal(t, original, parsed)
}
