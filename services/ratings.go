package services

import (
	"context"
	"errors"
	"fmt"

	"workforce/apperror"
	"workforce/authz"
	"workforce/database"
	"workforce/models"
)

type RatingInput struct {
	TaskID  uint   `json:"task" validate:"required"`
	Score   int    `json:"rating" validate:"required"`
	Comment string `json:"comment"`
}

// RateTask records p's rating of a completed task. The checks run in a
// fixed order: p must be an admin or the assignee's supervisor, the task
// must be completed, and p must not have rated it before.
func (s *Service) RateTask(ctx context.Context, p authz.Principal, in RatingInput) (*models.Rating, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}
	if in.Score < models.MinRating || in.Score > models.MaxRating {
		return nil, apperror.Validation("rating", fmt.Sprintf("Ensure this value is between %d and %d.", models.MinRating, models.MaxRating))
	}

	task, err := s.store.GetTask(ctx, in.TaskID)
	if isNotFound(err) {
		return nil, apperror.Validation("task", "Invalid task id.")
	}
	if err != nil {
		return nil, err
	}

	if err := authz.Can(p, authz.ActionRate, authz.ResourceOf(task.Employee)); err != nil {
		return nil, err
	}
	if !task.IsCompleted() {
		return nil, apperror.Forbidden("Task must be completed before rating.")
	}
	rated, err := s.store.RatingExists(ctx, task.ID, p.ID)
	if err != nil {
		return nil, err
	}
	if rated {
		return nil, apperror.Validation("", "You have already rated this task.")
	}

	rating := &models.Rating{
		TaskID:    task.ID,
		RatedByID: &p.ID,
		Score:     in.Score,
		Comment:   in.Comment,
	}
	if err := s.store.CreateRating(ctx, rating); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, apperror.Validation("", "You have already rated this task.")
		}
		return nil, err
	}

	s.logger.Info("rating created", "rating_id", rating.ID, "task_id", task.ID, "rated_by", p.ID, "rating", rating.Score)
	rating.Task = task
	return rating, nil
}

// ListRatings returns the ratings on tasks p may see.
func (s *Service) ListRatings(ctx context.Context, p authz.Principal) ([]models.Rating, error) {
	return s.store.FindRatings(ctx, database.RatingQuery{Scope: authz.VisibleScope(p, authz.EntityRating)})
}
