package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// LearningChunk is one quantum of lesson content, tagged with the normalized
// concept it teaches. Chunk counts per concept drive time estimation.
type LearningChunk struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	DocSource  string         `gorm:"column:doc_source;not null" json:"doc_source"`
	Content    string         `gorm:"column:content;not null" json:"content"`
	ConceptTag string         `gorm:"column:concept_tag;not null;index" json:"concept_tag"`
	Embedding  datatypes.JSON `gorm:"type:jsonb;column:embedding" json:"-"`
	Metadata   datatypes.JSON `gorm:"type:jsonb;column:metadata" json:"metadata,omitempty"`
	CreatedAt  time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (LearningChunk) TableName() string {
	return "learning_chunk"
}
