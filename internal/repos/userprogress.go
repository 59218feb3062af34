package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/learnfast-backend/internal/logger"
	"github.com/yungbote/learnfast-backend/internal/normalization"
	"github.com/yungbote/learnfast-backend/internal/types"
)

type UserProgressRepo interface {
	MarkInProgress(ctx context.Context, tx *gorm.DB, userID, concept string) error
	MarkCompleted(ctx context.Context, tx *gorm.DB, userID, concept string) error
	GetState(ctx context.Context, tx *gorm.DB, userID string) (*types.UserProgressState, error)
}

type userProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserProgressRepo(db *gorm.DB, baseLog *logger.Logger) UserProgressRepo {
	return &userProgressRepo{db: db, log: baseLog.With("repo", "UserProgressRepo")}
}

// MarkInProgress is idempotent. An existing row is left untouched, so a
// completed concept stays completed: completion is monotonic.
func (r *userProgressRepo) MarkInProgress(ctx context.Context, tx *gorm.DB, userID, concept string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	now := time.Now().UTC()
	row := &types.UserConceptProgress{
		ID:          uuid.New(),
		UserID:      userID,
		ConceptName: normalization.ConceptName(concept),
		Status:      types.ConceptStatusInProgress,
		StartedAt:   &now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "concept_name"}},
			DoNothing: true,
		}).
		Create(row).Error
}

// MarkCompleted upserts the single (user, concept) row to completed. Because
// progress is one row with a status column, the remove-from-in-progress and
// add-to-completed halves of the transition are the same write: no reader can
// observe the concept in both sets or in neither.
func (r *userProgressRepo) MarkCompleted(ctx context.Context, tx *gorm.DB, userID, concept string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	now := time.Now().UTC()
	row := &types.UserConceptProgress{
		ID:          uuid.New(),
		UserID:      userID,
		ConceptName: normalization.ConceptName(concept),
		Status:      types.ConceptStatusCompleted,
		CompletedAt: &now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "concept_name"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"status", "completed_at", "updated_at",
			}),
		}).
		Create(row).Error
}

// GetState returns both progress sets for a user. An unknown user yields two
// empty sets, not an error.
func (r *userProgressRepo) GetState(ctx context.Context, tx *gorm.DB, userID string) (*types.UserProgressState, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []*types.UserConceptProgress
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("concept_name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	state := &types.UserProgressState{
		UserID:             userID,
		InProgressConcepts: []string{},
		CompletedConcepts:  []string{},
	}
	for _, row := range rows {
		switch row.Status {
		case types.ConceptStatusCompleted:
			state.CompletedConcepts = append(state.CompletedConcepts, row.ConceptName)
		case types.ConceptStatusInProgress:
			state.InProgressConcepts = append(state.InProgressConcepts, row.ConceptName)
		}
	}
	return state, nil
}
