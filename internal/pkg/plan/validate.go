package plan

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

// Violation names one field that failed the contract and what was expected.
type Violation struct {
	Field  string `json:"field"`
	Expect string `json:"expect"`
}

func (v Violation) String() string { return v.Field + ": " + v.Expect }

// Section returns the top-level document section the violation belongs to,
// e.g. "risks" for "risks[2].severity".
func (v Violation) Section() string {
	if i := strings.IndexAny(v.Field, ".["); i >= 0 {
		return v.Field[:i]
	}
	return v.Field
}

// Validate checks a generically decoded value against the plan document
// contract and, when every field holds, assembles the typed Document. A
// single violation anywhere rejects the whole document; the returned
// violations follow contract order. Validate never panics on any input.
func Validate(v any) (*Document, []Violation) {
	root, ok := v.(map[string]any)
	if !ok {
		return nil, []Violation{{Field: "document", Expect: "must be a JSON object"}}
	}

	c := &checker{}
	doc := &Document{
		Metadata:       validateMetadata(c, root),
		TechStack:      validateTechStack(c, root),
		DatabaseSchema: validateDatabaseSchema(c, root),
		Risks:          validateRisks(c, root),
		Roadmap:        validateRoadmap(c, root),
		KeyFeatures:    validateKeyFeatures(c, root),
	}
	if s, ok := c.str(root, "executiveSummary", "executiveSummary"); ok {
		doc.ExecutiveSummary = s
	}

	if len(c.violations) > 0 {
		return nil, c.violations
	}
	return doc, nil
}

func validateMetadata(c *checker, root map[string]any) Metadata {
	var md Metadata
	m, ok := c.object(root, "metadata", "metadata")
	if !ok {
		return md
	}
	if n, ok := c.num(m, "confidenceScore", "metadata.confidenceScore"); ok {
		if n < 0 || n > 100 {
			c.add("metadata.confidenceScore", "must be between 0 and 100")
		} else {
			md.ConfidenceScore = n
		}
	}
	md.AnalysisDepth, _ = c.enum(m, "analysisDepth", "metadata.analysisDepth", AnalysisDepths)
	if s, ok := c.str(m, "generatedAt", "metadata.generatedAt"); ok {
		if _, err := time.Parse(time.RFC3339, s); err != nil {
			c.add("metadata.generatedAt", "must be an RFC 3339 date-time")
		} else {
			md.GeneratedAt = s
		}
	}
	md.AdjustmentsMade, _ = c.stringList(m, "adjustmentsMade", "metadata.adjustmentsMade", false)
	return md
}

func validateTechStack(c *checker, root map[string]any) TechStack {
	var ts TechStack
	m, ok := c.object(root, "techStack", "techStack")
	if !ok {
		return ts
	}
	ts.Frontend = c.optStringList(m, "frontend", "techStack.frontend")
	ts.Backend = c.optStringList(m, "backend", "techStack.backend")
	ts.Database = c.optStringList(m, "database", "techStack.database")
	ts.DevOps = c.optStringList(m, "devops", "techStack.devops")
	ts.Rationale, _ = c.str(m, "rationale", "techStack.rationale")
	return ts
}

func validateDatabaseSchema(c *checker, root map[string]any) DatabaseSchema {
	var ds DatabaseSchema
	m, ok := c.object(root, "databaseSchema", "databaseSchema")
	if !ok {
		return ds
	}

	if items, ok := c.array(m, "tables", "databaseSchema.tables", false); ok {
		ds.Tables = make([]Table, 0, len(items))
		for i, it := range items {
			path := fmt.Sprintf("databaseSchema.tables[%d]", i)
			tm, ok := c.item(it, path)
			if !ok {
				continue
			}
			var tbl Table
			tbl.Name, _ = c.str(tm, "name", path+".name")
			if cols, ok := c.array(tm, "columns", path+".columns", false); ok {
				tbl.Columns = make([]Column, 0, len(cols))
				for j, cv := range cols {
					cpath := fmt.Sprintf("%s.columns[%d]", path, j)
					cm, ok := c.item(cv, cpath)
					if !ok {
						continue
					}
					tbl.Columns = append(tbl.Columns, validateColumn(c, cm, cpath))
				}
			}
			ds.Tables = append(ds.Tables, tbl)
		}
	}

	if items, ok := c.array(m, "relationships", "databaseSchema.relationships", false); ok {
		ds.Relationships = make([]Relationship, 0, len(items))
		for i, it := range items {
			path := fmt.Sprintf("databaseSchema.relationships[%d]", i)
			rm, ok := c.item(it, path)
			if !ok {
				continue
			}
			var rel Relationship
			rel.From, _ = c.str(rm, "from", path+".from")
			rel.To, _ = c.str(rm, "to", path+".to")
			rel.Type, _ = c.enum(rm, "type", path+".type", RelationshipTypes)
			ds.Relationships = append(ds.Relationships, rel)
		}
	}
	return ds
}

func validateColumn(c *checker, m map[string]any, path string) Column {
	var col Column
	col.Name, _ = c.str(m, "name", path+".name")
	col.Type, _ = c.str(m, "type", path+".type")
	col.Nullable, _ = c.boolean(m, "nullable", path+".nullable")
	if b, present := c.optBool(m, "primaryKey", path+".primaryKey"); present {
		col.PrimaryKey = b
	}
	if raw, present := m["foreignKey"]; present && raw != nil {
		fkPath := path + ".foreignKey"
		fm, ok := c.item(raw, fkPath)
		if ok {
			var fk ForeignKey
			fk.Table, _ = c.str(fm, "table", fkPath+".table")
			fk.Column, _ = c.str(fm, "column", fkPath+".column")
			col.ForeignKey = &fk
		}
	}
	return col
}

func validateRisks(c *checker, root map[string]any) []Risk {
	items, ok := c.array(root, "risks", "risks", true)
	if !ok {
		return nil
	}
	risks := make([]Risk, 0, len(items))
	for i, it := range items {
		path := fmt.Sprintf("risks[%d]", i)
		m, ok := c.item(it, path)
		if !ok {
			continue
		}
		var r Risk
		r.Title, _ = c.str(m, "title", path+".title")
		r.Description, _ = c.str(m, "description", path+".description")
		r.Severity, _ = c.enum(m, "severity", path+".severity", RiskSeverities)
		r.Mitigation, _ = c.str(m, "mitigation", path+".mitigation")
		r.Category, _ = c.enum(m, "category", path+".category", RiskCategories)
		risks = append(risks, r)
	}
	return risks
}

func validateRoadmap(c *checker, root map[string]any) Roadmap {
	var rm Roadmap
	m, ok := c.object(root, "roadmap", "roadmap")
	if !ok {
		return rm
	}
	if n, ok := c.num(m, "adjustedTimelineWeeks", "roadmap.adjustedTimelineWeeks"); ok {
		if n < 0 {
			c.add("roadmap.adjustedTimelineWeeks", "must not be negative")
		} else {
			rm.AdjustedTimelineWeeks = n
		}
	}
	items, ok := c.array(m, "phases", "roadmap.phases", true)
	if !ok {
		return rm
	}
	rm.Phases = make([]Phase, 0, len(items))
	for i, it := range items {
		path := fmt.Sprintf("roadmap.phases[%d]", i)
		pm, ok := c.item(it, path)
		if !ok {
			continue
		}
		var ph Phase
		ph.Name, _ = c.str(pm, "name", path+".name")
		ph.Duration, _ = c.str(pm, "duration", path+".duration")
		ph.Tasks, _ = c.stringList(pm, "tasks", path+".tasks", true)
		ph.Deliverables, _ = c.stringList(pm, "deliverables", path+".deliverables", true)
		ph.SkillsRequired, _ = c.stringList(pm, "skillsRequired", path+".skillsRequired", true)
		rm.Phases = append(rm.Phases, ph)
	}
	return rm
}

func validateKeyFeatures(c *checker, root map[string]any) []KeyFeature {
	items, ok := c.array(root, "keyFeatures", "keyFeatures", true)
	if !ok {
		return nil
	}
	feats := make([]KeyFeature, 0, len(items))
	for i, it := range items {
		path := fmt.Sprintf("keyFeatures[%d]", i)
		m, ok := c.item(it, path)
		if !ok {
			continue
		}
		var kf KeyFeature
		kf.Feature, _ = c.str(m, "feature", path+".feature")
		kf.Description, _ = c.str(m, "description", path+".description")
		kf.Priority, _ = c.enum(m, "priority", path+".priority", FeaturePriorities)
		kf.Complexity, _ = c.enum(m, "complexity", path+".complexity", FeatureComplexity)
		if n, ok := c.num(m, "estimatedDays", path+".estimatedDays"); ok {
			if n < 0 {
				c.add(path+".estimatedDays", "must not be negative")
			} else {
				kf.EstimatedDays = n
			}
		}
		feats = append(feats, kf)
	}
	return feats
}

// checker accumulates violations while section validators pull typed values
// out of the decoded map. Accessors report (value, ok) and record exactly one
// violation when a field is missing or has the wrong shape, so validation
// always runs to the end of the document.
type checker struct {
	violations []Violation
}

func (c *checker) add(field, expect string) {
	c.violations = append(c.violations, Violation{Field: field, Expect: expect})
}

func (c *checker) object(m map[string]any, key, path string) (map[string]any, bool) {
	raw, present := m[key]
	if !present || raw == nil {
		c.add(path, "required object is missing")
		return nil, false
	}
	o, ok := raw.(map[string]any)
	if !ok {
		c.add(path, "must be an object")
		return nil, false
	}
	return o, true
}

// item is object for array elements, which are already unwrapped values.
func (c *checker) item(raw any, path string) (map[string]any, bool) {
	o, ok := raw.(map[string]any)
	if !ok {
		c.add(path, "must be an object")
		return nil, false
	}
	return o, true
}

func (c *checker) str(m map[string]any, key, path string) (string, bool) {
	raw, present := m[key]
	if !present || raw == nil {
		c.add(path, "required string is missing")
		return "", false
	}
	s, ok := raw.(string)
	if !ok {
		c.add(path, "must be a string")
		return "", false
	}
	if strings.TrimSpace(s) == "" {
		c.add(path, "must not be empty")
		return "", false
	}
	return s, true
}

func (c *checker) num(m map[string]any, key, path string) (float64, bool) {
	raw, present := m[key]
	if !present || raw == nil {
		c.add(path, "required number is missing")
		return 0, false
	}
	n, ok := toFloat(raw)
	if !ok {
		c.add(path, "must be a number")
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		c.add(path, "must be a finite number")
		return 0, false
	}
	return n, true
}

func (c *checker) boolean(m map[string]any, key, path string) (bool, bool) {
	raw, present := m[key]
	if !present || raw == nil {
		c.add(path, "required boolean is missing")
		return false, false
	}
	b, ok := raw.(bool)
	if !ok {
		c.add(path, "must be a boolean")
		return false, false
	}
	return b, true
}

// optBool reports whether the key was present; a present non-boolean records
// a violation.
func (c *checker) optBool(m map[string]any, key, path string) (value, present bool) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return false, false
	}
	b, ok := raw.(bool)
	if !ok {
		c.add(path, "must be a boolean")
		return false, false
	}
	return b, true
}

func (c *checker) enum(m map[string]any, key, path string, allowed []string) (string, bool) {
	raw, present := m[key]
	if !present || raw == nil {
		c.add(path, "required value is missing")
		return "", false
	}
	s, ok := raw.(string)
	if !ok {
		c.add(path, "must be a string")
		return "", false
	}
	for _, a := range allowed {
		if s == a {
			return s, true
		}
	}
	c.add(path, "must be one of: "+strings.Join(allowed, ", "))
	return "", false
}

func (c *checker) array(m map[string]any, key, path string, atLeastOne bool) ([]any, bool) {
	raw, present := m[key]
	if !present || raw == nil {
		c.add(path, "required list is missing")
		return nil, false
	}
	items, ok := raw.([]any)
	if !ok {
		c.add(path, "must be a list")
		return nil, false
	}
	if atLeastOne && len(items) == 0 {
		c.add(path, "must have at least one entry")
		return nil, false
	}
	return items, true
}

func (c *checker) stringList(m map[string]any, key, path string, atLeastOne bool) ([]string, bool) {
	items, ok := c.array(m, key, path, atLeastOne)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for i, it := range items {
		s, ok := it.(string)
		if !ok {
			c.add(fmt.Sprintf("%s[%d]", path, i), "must be a string")
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

// optStringList returns nil without a violation when the key is absent.
func (c *checker) optStringList(m map[string]any, key, path string) []string {
	if raw, present := m[key]; !present || raw == nil {
		return nil
	}
	out, _ := c.stringList(m, key, path, false)
	return out
}

func toFloat(raw any) (float64, bool) {
	switch n := raw.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
