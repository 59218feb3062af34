package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	redisclient "github.com/yungbote/learnfast-backend/internal/clients/redis"
	"github.com/yungbote/learnfast-backend/internal/logger"
	"github.com/yungbote/learnfast-backend/internal/normalization"
	pkgerrors "github.com/yungbote/learnfast-backend/internal/pkg/errors"
	"github.com/yungbote/learnfast-backend/internal/repos"
	"github.com/yungbote/learnfast-backend/internal/types"
)

// ProgressService tracks per-user concept progress. State is created lazily
// on first write; the in-progress and completed sets stay disjoint because
// both transitions resolve to a single row write.
type ProgressService interface {
	MarkInProgress(ctx context.Context, userID, concept string) error
	MarkCompleted(ctx context.Context, userID, concept string) error
	GetUserState(ctx context.Context, userID string) (*types.UserProgressState, error)
}

type progressService struct {
	db       *gorm.DB
	log      *logger.Logger
	progress repos.UserProgressRepo
	bus      redisclient.ProgressBus
}

func NewProgressService(db *gorm.DB, baseLog *logger.Logger, progress repos.UserProgressRepo, bus redisclient.ProgressBus) ProgressService {
	return &progressService{
		db:       db,
		log:      baseLog.With("service", "ProgressService"),
		progress: progress,
		bus:      bus,
	}
}

func (s *progressService) MarkInProgress(ctx context.Context, userID, concept string) error {
	normalized := normalization.ConceptName(concept)
	if userID == "" || normalized == "" {
		return fmt.Errorf("%w: user id and concept required", pkgerrors.ErrInvalidArgument)
	}
	if err := s.progress.MarkInProgress(ctx, nil, userID, normalized); err != nil {
		s.log.Warn("MarkInProgress failed", "error", err, "user_id", userID, "concept", normalized)
		return err
	}
	s.publish(ctx, userID, normalized, types.ConceptStatusInProgress)
	return nil
}

func (s *progressService) MarkCompleted(ctx context.Context, userID, concept string) error {
	normalized := normalization.ConceptName(concept)
	if userID == "" || normalized == "" {
		return fmt.Errorf("%w: user id and concept required", pkgerrors.ErrInvalidArgument)
	}
	if err := s.progress.MarkCompleted(ctx, nil, userID, normalized); err != nil {
		s.log.Warn("MarkCompleted failed", "error", err, "user_id", userID, "concept", normalized)
		return err
	}
	s.publish(ctx, userID, normalized, types.ConceptStatusCompleted)
	return nil
}

func (s *progressService) GetUserState(ctx context.Context, userID string) (*types.UserProgressState, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id required", pkgerrors.ErrInvalidArgument)
	}
	return s.progress.GetState(ctx, nil, userID)
}

// publish is best-effort: a down bus never fails the progress write.
func (s *progressService) publish(ctx context.Context, userID, concept, status string) {
	if s.bus == nil {
		return
	}
	event := redisclient.ProgressEvent{
		UserID:      userID,
		ConceptName: concept,
		Status:      status,
		OccurredAt:  time.Now().UTC(),
	}
	if err := s.bus.Publish(ctx, event); err != nil {
		s.log.Warn("progress event publish failed", "error", err, "user_id", userID, "concept", concept)
	}
}
