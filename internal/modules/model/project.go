package model

import (
	"time"

	"github.com/NehanAhmed/Forge/internal/pkg/plan"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Project struct {
	ID   uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Slug string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_projects_slug" json:"slug"`
	// UserID is nil for projects created by anonymous visitors.
	UserID *string `gorm:"type:text;index" json:"user_id"`

	Title            string `gorm:"type:varchar(255);not null" json:"title"`
	Description      string `gorm:"type:text;not null" json:"description"`
	ProblemStatement string `gorm:"type:text;not null" json:"problem_statement"`

	TargetUsers   *int    `json:"target_users"`
	TeamSize      *int    `json:"team_size"`
	TimelineWeeks *int    `json:"timeline_weeks"`
	BudgetRange   *string `gorm:"type:varchar(32)" json:"budget_range"`

	Metadata       datatypes.JSONType[plan.Metadata]       `gorm:"type:jsonb" json:"metadata"`
	TechStack      datatypes.JSONType[plan.TechStack]      `gorm:"type:jsonb" json:"tech_stack"`
	DatabaseSchema datatypes.JSONType[plan.DatabaseSchema] `gorm:"type:jsonb" json:"database_schema"`
	Risks          datatypes.JSONType[[]plan.Risk]         `gorm:"type:jsonb" json:"risks"`
	Roadmap        datatypes.JSONType[plan.Roadmap]        `gorm:"type:jsonb" json:"roadmap"`
	KeyFeatures    datatypes.JSONType[[]plan.KeyFeature]   `gorm:"type:jsonb" json:"key_features"`

	ExecutiveSummary string `gorm:"type:text;not null" json:"executive_summary"`

	IsPublic  bool `gorm:"not null;default:true" json:"is_public"`
	ViewCount int  `gorm:"not null;default:0" json:"view_count"`
	ForkCount int  `gorm:"not null;default:0" json:"fork_count"`

	// ExpiresAt is set only for anonymous projects.
	ExpiresAt *time.Time `json:"expires_at"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Project <-> User
	User *User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:SET NULL,OnUpdate:CASCADE;" json:"-"`
}

func (Project) TableName() string { return "projects" }

// Plan reassembles the stored jsonb columns into a single document.
func (p *Project) Plan() plan.Document {
	return plan.Document{
		Metadata:         p.Metadata.Data(),
		TechStack:        p.TechStack.Data(),
		DatabaseSchema:   p.DatabaseSchema.Data(),
		Risks:            p.Risks.Data(),
		Roadmap:          p.Roadmap.Data(),
		KeyFeatures:      p.KeyFeatures.Data(),
		ExecutiveSummary: p.ExecutiveSummary,
	}
}
