package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/learnfast-backend/internal/logger"
	"github.com/yungbote/learnfast-backend/internal/normalization"
	"github.com/yungbote/learnfast-backend/internal/types"
)

type LearningChunkRepo interface {
	Create(ctx context.Context, tx *gorm.DB, chunks []*types.LearningChunk) ([]*types.LearningChunk, error)
	GetByConcept(ctx context.Context, tx *gorm.DB, concept string) ([]*types.LearningChunk, error)
	CountByConcepts(ctx context.Context, tx *gorm.DB, concepts []string) (int64, error)
}

type learningChunkRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLearningChunkRepo(db *gorm.DB, baseLog *logger.Logger) LearningChunkRepo {
	return &learningChunkRepo{db: db, log: baseLog.With("repo", "LearningChunkRepo")}
}

func (r *learningChunkRepo) Create(ctx context.Context, tx *gorm.DB, chunks []*types.LearningChunk) ([]*types.LearningChunk, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(chunks) == 0 {
		return []*types.LearningChunk{}, nil
	}
	for _, c := range chunks {
		c.ConceptTag = normalization.ConceptName(c.ConceptTag)
	}

	// Keep batches small because Content is large
	const batchSize = 100

	if err := transaction.WithContext(ctx).CreateInBatches(chunks, batchSize).Error; err != nil {
		return nil, err
	}
	return chunks, nil
}

func (r *learningChunkRepo) GetByConcept(ctx context.Context, tx *gorm.DB, concept string) ([]*types.LearningChunk, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	normalized := normalization.ConceptName(concept)
	var results []*types.LearningChunk
	if normalized == "" {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("concept_tag = ?", normalized).
		Order("created_at ASC, id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// CountByConcepts answers the content_unit_count contract with one batched
// query across the whole concept set.
func (r *learningChunkRepo) CountByConcepts(ctx context.Context, tx *gorm.DB, concepts []string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	normalized := normalization.ConceptNames(concepts)
	if len(normalized) == 0 {
		return 0, nil
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.LearningChunk{}).
		Where("concept_tag IN ?", normalized).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
