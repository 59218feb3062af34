package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	ConceptStatusInProgress = "in_progress"
	ConceptStatusCompleted  = "completed"
)

// UserConceptProgress holds one row per (user, concept). A concept is either
// in progress or completed, never both: the disjoint-set invariant is
// structural, and the in-progress -> completed transition is a single upsert.
type UserConceptProgress struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID      string     `gorm:"column:user_id;not null;index:idx_user_concept,unique" json:"user_id"`
	ConceptName string     `gorm:"column:concept_name;not null;index:idx_user_concept,unique" json:"concept_name"`
	Status      string     `gorm:"column:status;not null;default:'in_progress'" json:"status"`
	StartedAt   *time.Time `gorm:"column:started_at" json:"started_at,omitempty"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedAt   time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (UserConceptProgress) TableName() string {
	return "user_concept_progress"
}
