package usecase

import (
	"context"
	"errors"
	"fmt"

	"scheduling-assistant/internal/model"
	"scheduling-assistant/internal/task"
	"scheduling-assistant/internal/task/repository"
)

// List returns the tasks matching input.
func (uc *implUseCase) List(ctx context.Context, sc model.Scope, input task.ListInput) (task.ListOutput, error) {
	if input.From != nil && input.To != nil && input.To.Before(*input.From) {
		return task.ListOutput{}, task.ErrInvalidRange
	}
	if input.Status != "" && !input.Status.Valid() {
		return task.ListOutput{}, task.ErrInvalidStatus
	}

	tasks, err := uc.repo.Query(ctx, repository.QueryOptions{
		From:   input.From,
		To:     input.To,
		Status: input.Status,
		Text:   input.Query,
	})
	if err != nil {
		uc.l.Errorf(ctx, "%s: repo.Query: %v", LogPrefixList, err)
		return task.ListOutput{}, fmt.Errorf("%s: %w", LogPrefixList, err)
	}
	return task.ListOutput{Tasks: tasks, Count: len(tasks)}, nil
}

// Today lists the tasks of the current day in the configured timezone.
func (uc *implUseCase) Today(ctx context.Context, sc model.Scope) (task.ListOutput, error) {
	today := uc.dateMath.Today(uc.now())
	return uc.List(ctx, sc, task.ListInput{From: &today, To: &today})
}

// Detail returns one task by id.
func (uc *implUseCase) Detail(ctx context.Context, sc model.Scope, id string) (model.Task, error) {
	t, err := uc.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Task{}, task.ErrTaskNotFound
		}
		uc.l.Errorf(ctx, "%s: repo.Get %s: %v", LogPrefixDetail, id, err)
		return model.Task{}, fmt.Errorf("%s: %w", LogPrefixDetail, err)
	}
	return t, nil
}

// Stats counts tasks by status, plus those scheduled today.
func (uc *implUseCase) Stats(ctx context.Context, sc model.Scope) (task.Stats, error) {
	stats, err := uc.repo.Stats(ctx, repository.StatsOptions{Today: uc.dateMath.Today(uc.now())})
	if err != nil {
		uc.l.Errorf(ctx, "%s: repo.Stats: %v", LogPrefixStats, err)
		return task.Stats{}, fmt.Errorf("%s: %w", LogPrefixStats, err)
	}
	return stats, nil
}
