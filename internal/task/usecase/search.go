package usecase

import (
	"context"
	"fmt"
	"strings"

	"scheduling-assistant/internal/conversation"
	"scheduling-assistant/internal/model"
	"scheduling-assistant/internal/task"
)

// Search finds active tasks by keywords in their title or description.
func (uc *implUseCase) Search(ctx context.Context, sc model.Scope, query string) (task.ListOutput, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return task.ListOutput{}, task.ErrEmptyQuery
	}
	uc.l.Debugf(ctx, "%s: query=%q", LogPrefixSearch, query)

	tasks, err := conversation.Search(ctx, uc.repo, query)
	if err != nil {
		uc.l.Errorf(ctx, "%s: %v", LogPrefixSearch, err)
		return task.ListOutput{}, fmt.Errorf("%s: %w", LogPrefixSearch, err)
	}
	if len(tasks) > searchLimit {
		tasks = tasks[:searchLimit]
	}
	return task.ListOutput{Tasks: tasks, Count: len(tasks)}, nil
}
