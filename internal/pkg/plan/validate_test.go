package plan

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// docMap returns a decoded value satisfying every contract rule. Tests mutate
// a fresh copy to trigger a single violation at a time.
func docMap() map[string]any {
	return map[string]any{
		"metadata": map[string]any{
			"confidenceScore": 72.0,
			"analysisDepth":   "detailed",
			"generatedAt":     "2026-08-30T10:00:00Z",
			"adjustmentsMade": []any{"Extended timeline from 4 to 10 weeks"},
		},
		"techStack": map[string]any{
			"frontend":  []any{"Next.js"},
			"backend":   []any{"Go", "PostgreSQL"},
			"database":  []any{"PostgreSQL"},
			"devops":    []any{"Docker"},
			"rationale": "Small team, low budget, managed services keep ops cost near zero.",
		},
		"databaseSchema": map[string]any{
			"tables": []any{
				map[string]any{
					"name": "users",
					"columns": []any{
						map[string]any{"name": "id", "type": "uuid", "nullable": false, "primaryKey": true},
						map[string]any{"name": "email", "type": "text", "nullable": false},
					},
				},
				map[string]any{
					"name": "projects",
					"columns": []any{
						map[string]any{"name": "id", "type": "uuid", "nullable": false, "primaryKey": true},
						map[string]any{
							"name": "user_id", "type": "uuid", "nullable": true,
							"foreignKey": map[string]any{"table": "users", "column": "id"},
						},
					},
				},
			},
			"relationships": []any{
				map[string]any{"from": "users", "to": "projects", "type": "one-to-many"},
			},
		},
		"risks": []any{
			map[string]any{
				"title":       "Solo developer burnout",
				"description": "One person owns the entire scope.",
				"severity":    "High",
				"mitigation":  "Cut P2 features and use managed services.",
				"category":    "Team",
			},
		},
		"roadmap": map[string]any{
			"adjustedTimelineWeeks": 10.0,
			"phases": []any{
				map[string]any{
					"name":           "Foundation & Setup",
					"duration":       "3 weeks",
					"tasks":          []any{"Set up auth", "Model core entities"},
					"deliverables":   []any{"Deployed skeleton"},
					"skillsRequired": []any{"Go", "SQL"},
				},
			},
		},
		"keyFeatures": []any{
			map[string]any{
				"feature":       "Plan generation",
				"description":   "Generate a full plan from a short brief.",
				"priority":      "P0",
				"complexity":    "High",
				"estimatedDays": 9.0,
			},
		},
		"executiveSummary": "Viable with a trimmed scope and a realistic ten week timeline.",
	}
}

func field(violations []Violation, name string) bool {
	for _, v := range violations {
		if v.Field == name {
			return true
		}
	}
	return false
}

func TestValidate_AcceptsValidDocument(t *testing.T) {
	doc, violations := Validate(docMap())
	require.Empty(t, violations)
	require.NotNil(t, doc)

	assert.Equal(t, 72.0, doc.Metadata.ConfidenceScore)
	assert.Equal(t, "detailed", doc.Metadata.AnalysisDepth)
	assert.Len(t, doc.DatabaseSchema.Tables, 2)
	require.NotNil(t, doc.DatabaseSchema.Tables[1].Columns[1].ForeignKey)
	assert.Equal(t, "users", doc.DatabaseSchema.Tables[1].Columns[1].ForeignKey.Table)
	assert.Equal(t, "one-to-many", doc.DatabaseSchema.Relationships[0].Type)
	assert.Equal(t, 10.0, doc.Roadmap.AdjustedTimelineWeeks)
	assert.Equal(t, "P0", doc.KeyFeatures[0].Priority)
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(m map[string]any)
		field  string
	}{
		{
			"confidence score above range",
			func(m map[string]any) { m["metadata"].(map[string]any)["confidenceScore"] = 101.0 },
			"metadata.confidenceScore",
		},
		{
			"confidence score wrong type",
			func(m map[string]any) { m["metadata"].(map[string]any)["confidenceScore"] = "high" },
			"metadata.confidenceScore",
		},
		{
			"confidence score not finite",
			func(m map[string]any) { m["metadata"].(map[string]any)["confidenceScore"] = math.Inf(1) },
			"metadata.confidenceScore",
		},
		{
			"confidence score NaN",
			func(m map[string]any) { m["metadata"].(map[string]any)["confidenceScore"] = math.NaN() },
			"metadata.confidenceScore",
		},
		{
			"analysis depth case sensitive",
			func(m map[string]any) { m["metadata"].(map[string]any)["analysisDepth"] = "Detailed" },
			"metadata.analysisDepth",
		},
		{
			"generated at not a timestamp",
			func(m map[string]any) { m["metadata"].(map[string]any)["generatedAt"] = "yesterday" },
			"metadata.generatedAt",
		},
		{
			"metadata missing entirely",
			func(m map[string]any) { delete(m, "metadata") },
			"metadata",
		},
		{
			"rationale empty",
			func(m map[string]any) { m["techStack"].(map[string]any)["rationale"] = "   " },
			"techStack.rationale",
		},
		{
			"table name missing",
			func(m map[string]any) {
				tables := m["databaseSchema"].(map[string]any)["tables"].([]any)
				delete(tables[0].(map[string]any), "name")
			},
			"databaseSchema.tables[0].name",
		},
		{
			"column nullable missing",
			func(m map[string]any) {
				tables := m["databaseSchema"].(map[string]any)["tables"].([]any)
				cols := tables[0].(map[string]any)["columns"].([]any)
				delete(cols[0].(map[string]any), "nullable")
			},
			"databaseSchema.tables[0].columns[0].nullable",
		},
		{
			"foreign key without target column",
			func(m map[string]any) {
				tables := m["databaseSchema"].(map[string]any)["tables"].([]any)
				cols := tables[1].(map[string]any)["columns"].([]any)
				fk := cols[1].(map[string]any)["foreignKey"].(map[string]any)
				delete(fk, "column")
			},
			"databaseSchema.tables[1].columns[1].foreignKey.column",
		},
		{
			"relationship type outside enum",
			func(m map[string]any) {
				rels := m["databaseSchema"].(map[string]any)["relationships"].([]any)
				rels[0].(map[string]any)["type"] = "belongs-to"
			},
			"databaseSchema.relationships[0].type",
		},
		{
			"risks empty",
			func(m map[string]any) { m["risks"] = []any{} },
			"risks",
		},
		{
			"risk severity lowercase",
			func(m map[string]any) {
				m["risks"].([]any)[0].(map[string]any)["severity"] = "critical"
			},
			"risks[0].severity",
		},
		{
			"risk category outside enum",
			func(m map[string]any) {
				m["risks"].([]any)[0].(map[string]any)["category"] = "Legal"
			},
			"risks[0].category",
		},
		{
			"adjusted timeline negative",
			func(m map[string]any) { m["roadmap"].(map[string]any)["adjustedTimelineWeeks"] = -1.0 },
			"roadmap.adjustedTimelineWeeks",
		},
		{
			"phases empty",
			func(m map[string]any) { m["roadmap"].(map[string]any)["phases"] = []any{} },
			"roadmap.phases",
		},
		{
			"phase tasks empty",
			func(m map[string]any) {
				phases := m["roadmap"].(map[string]any)["phases"].([]any)
				phases[0].(map[string]any)["tasks"] = []any{}
			},
			"roadmap.phases[0].tasks",
		},
		{
			"key features empty",
			func(m map[string]any) { m["keyFeatures"] = []any{} },
			"keyFeatures",
		},
		{
			"feature priority outside enum",
			func(m map[string]any) {
				m["keyFeatures"].([]any)[0].(map[string]any)["priority"] = "P3"
			},
			"keyFeatures[0].priority",
		},
		{
			"estimated days negative",
			func(m map[string]any) {
				m["keyFeatures"].([]any)[0].(map[string]any)["estimatedDays"] = -2.0
			},
			"keyFeatures[0].estimatedDays",
		},
		{
			"executive summary empty",
			func(m map[string]any) { m["executiveSummary"] = "" },
			"executiveSummary",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := docMap()
			tt.mutate(m)
			doc, violations := Validate(m)
			assert.Nil(t, doc, "a single violation must reject the whole document")
			require.NotEmpty(t, violations)
			assert.True(t, field(violations, tt.field),
				"expected violation on %s, got %v", tt.field, violations)
		})
	}
}

func TestValidate_BoundaryValuesAccepted(t *testing.T) {
	m := docMap()
	m["metadata"].(map[string]any)["confidenceScore"] = 100.0
	m["roadmap"].(map[string]any)["adjustedTimelineWeeks"] = 0.0
	m["keyFeatures"].([]any)[0].(map[string]any)["estimatedDays"] = 0.0
	// adjustment notes may be an empty list
	m["metadata"].(map[string]any)["adjustmentsMade"] = []any{}

	doc, violations := Validate(m)
	require.Empty(t, violations)
	assert.Equal(t, 100.0, doc.Metadata.ConfidenceScore)
	assert.Empty(t, doc.Metadata.AdjustmentsMade)
}

func TestValidate_OptionalTechStackListsAbsent(t *testing.T) {
	m := docMap()
	ts := m["techStack"].(map[string]any)
	delete(ts, "frontend")
	delete(ts, "devops")

	doc, violations := Validate(m)
	require.Empty(t, violations)
	assert.Nil(t, doc.TechStack.Frontend)
	assert.Nil(t, doc.TechStack.DevOps)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, doc.TechStack.Backend)
}

func TestValidate_CollectsAllViolations(t *testing.T) {
	m := docMap()
	delete(m, "metadata")
	m["risks"] = []any{}
	m["executiveSummary"] = ""

	doc, violations := Validate(m)
	assert.Nil(t, doc)
	assert.True(t, field(violations, "metadata"))
	assert.True(t, field(violations, "risks"))
	assert.True(t, field(violations, "executiveSummary"))
}

func TestValidate_NonObjectRoot(t *testing.T) {
	for _, v := range []any{nil, "plan", 42.0, []any{1.0, 2.0}} {
		doc, violations := Validate(v)
		assert.Nil(t, doc)
		require.Len(t, violations, 1)
		assert.Equal(t, "document", violations[0].Field)
	}
}

func TestViolation_Section(t *testing.T) {
	assert.Equal(t, "risks", Violation{Field: "risks[2].severity"}.Section())
	assert.Equal(t, "metadata", Violation{Field: "metadata.confidenceScore"}.Section())
	assert.Equal(t, "executiveSummary", Violation{Field: "executiveSummary"}.Section())
}
