// Package plan defines the project brief, the generated plan document
// contract, and the defensive parser/validator that converts raw model output
// into a trusted document. Nothing downstream may assume plan shape without
// going through Parse or Validate.
package plan

// Brief is the caller-supplied project description submitted to generation.
// It is immutable once submitted.
type Brief struct {
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	ProblemStatement string  `json:"problem_statement"`
	TargetUsers      *int    `json:"target_users,omitempty"`
	TeamSize         *int    `json:"team_size,omitempty"`
	TimelineWeeks    *int    `json:"timeline_weeks,omitempty"`
	BudgetRange      *string `json:"budget_range,omitempty"`
	IsPublic         bool    `json:"is_public"`
}

// Closed enum values enforced by the validator. Matching is case-sensitive.
var (
	AnalysisDepths    = []string{"basic", "detailed", "comprehensive"}
	RelationshipTypes = []string{"one-to-one", "one-to-many", "many-to-many", "many-to-one"}
	RiskSeverities    = []string{"Critical", "High", "Medium", "Low"}
	RiskCategories    = []string{"Technical", "Business", "Timeline", "Budget", "Team"}
	FeaturePriorities = []string{"P0", "P1", "P2"}
	FeatureComplexity = []string{"Low", "Medium", "High"}
)

// Document is a fully validated generated plan. Field names follow the wire
// contract the model is instructed to produce.
type Document struct {
	Metadata         Metadata       `json:"metadata"`
	TechStack        TechStack      `json:"techStack"`
	DatabaseSchema   DatabaseSchema `json:"databaseSchema"`
	Risks            []Risk         `json:"risks"`
	Roadmap          Roadmap        `json:"roadmap"`
	KeyFeatures      []KeyFeature   `json:"keyFeatures"`
	ExecutiveSummary string         `json:"executiveSummary"`
}

type Metadata struct {
	ConfidenceScore float64  `json:"confidenceScore"`
	AnalysisDepth   string   `json:"analysisDepth"`
	GeneratedAt     string   `json:"generatedAt"`
	AdjustmentsMade []string `json:"adjustmentsMade"`
}

type TechStack struct {
	Frontend  []string `json:"frontend,omitempty"`
	Backend   []string `json:"backend,omitempty"`
	Database  []string `json:"database,omitempty"`
	DevOps    []string `json:"devops,omitempty"`
	Rationale string   `json:"rationale"`
}

type DatabaseSchema struct {
	Tables        []Table        `json:"tables"`
	Relationships []Relationship `json:"relationships"`
}

type Table struct {
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
}

type Column struct {
	Name       string      `json:"name"`
	Type       string      `json:"type"`
	Nullable   bool        `json:"nullable"`
	PrimaryKey bool        `json:"primaryKey,omitempty"`
	ForeignKey *ForeignKey `json:"foreignKey,omitempty"`
}

type ForeignKey struct {
	Table  string `json:"table"`
	Column string `json:"column"`
}

type Relationship struct {
	From string `json:"from"`
	To   string `json:"to"`
	Type string `json:"type"`
}

type Risk struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	Mitigation  string `json:"mitigation"`
	Category    string `json:"category"`
}

type Roadmap struct {
	AdjustedTimelineWeeks float64 `json:"adjustedTimelineWeeks"`
	Phases                []Phase `json:"phases"`
}

type Phase struct {
	Name           string   `json:"name"`
	Duration       string   `json:"duration"`
	Tasks          []string `json:"tasks"`
	Deliverables   []string `json:"deliverables"`
	SkillsRequired []string `json:"skillsRequired"`
}

type KeyFeature struct {
	Feature       string  `json:"feature"`
	Description   string  `json:"description"`
	Priority      string  `json:"priority"`
	Complexity    string  `json:"complexity"`
	EstimatedDays float64 `json:"estimatedDays"`
}
