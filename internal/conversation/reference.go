package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"scheduling-assistant/internal/model"
	"scheduling-assistant/internal/task/repository"
)

// ResolutionKind classifies a reference lookup.
type ResolutionKind int

const (
	Resolved ResolutionKind = iota
	Ambiguous
	NotFound
)

// Reference is the result of resolving a task reference phrase.
type Reference struct {
	Kind       ResolutionKind
	Task       model.Task
	Candidates []model.Task
	Phrase     string
}

var pronouns = map[string]struct{}{
	"it": {}, "that": {}, "this": {}, "that one": {}, "this one": {}, "the task": {},
	"that task": {}, "this task": {}, "the last one": {}, "the last task": {}, "same": {},
}

var plurals = map[string]struct{}{
	"them": {}, "those": {}, "these": {}, "all of them": {}, "both": {}, "both of them": {},
	"those tasks": {}, "these tasks": {}, "the tasks": {},
}

var leadingFillers = []string{"the ", "my ", "our ", "a ", "an "}

var demonstratives = []string{"that ", "this "}

// IsPronoun reports whether phrase is a bare anaphor for the most recent task.
func IsPronoun(phrase string) bool {
	_, ok := pronouns[normalize(phrase)]
	return ok
}

// IsPlural reports whether phrase refers to the last group of tasks.
func IsPlural(phrase string) bool {
	_, ok := plurals[normalize(phrase)]
	return ok
}

// ResolveReference maps phrase to a single task. Pronouns resolve to the most recent task;
// descriptive phrases match tasks touched in recent turns first, then the whole store.
func (c Context) ResolveReference(ctx context.Context, store repository.Reader, phrase string) (Reference, error) {
	norm := normalize(phrase)
	notFound := Reference{Kind: NotFound, Phrase: phrase}
	if norm == "" {
		return notFound, nil
	}

	if _, ok := pronouns[norm]; ok {
		id, ok := c.MostRecentTaskRef()
		if !ok {
			return notFound, nil
		}
		t, err := store.Get(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return notFound, nil
		}
		if err != nil {
			return Reference{}, fmt.Errorf("resolve %q: %w", phrase, err)
		}
		return Reference{Kind: Resolved, Task: t, Phrase: phrase}, nil
	}

	// "that meeting" prefers the most recent task when it fits the description.
	for _, d := range demonstratives {
		if rest, ok := strings.CutPrefix(norm, d); ok {
			if id, ok := c.MostRecentTaskRef(); ok {
				t, err := store.Get(ctx, id)
				if err != nil && !errors.Is(err, repository.ErrNotFound) {
					return Reference{}, fmt.Errorf("resolve %q: %w", phrase, err)
				}
				if err == nil && Matches(t, rest) {
					return Reference{Kind: Resolved, Task: t, Phrase: phrase}, nil
				}
			}
			norm = rest
			break
		}
	}

	keywords := stripFillers(norm)
	touched, err := c.touchedMatching(ctx, store, keywords)
	if err != nil {
		return Reference{}, fmt.Errorf("resolve %q: %w", phrase, err)
	}
	if len(touched) > 0 {
		return pick(touched, phrase), nil
	}

	found, err := Search(ctx, store, keywords)
	if err != nil {
		return Reference{}, fmt.Errorf("resolve %q: %w", phrase, err)
	}
	if len(found) == 0 {
		return notFound, nil
	}
	return pick(found, phrase), nil
}

// ResolveSet maps a plural phrase to the tasks of the last multi-task outcome that still exist.
func (c Context) ResolveSet(ctx context.Context, store repository.Reader, phrase string) ([]model.Task, error) {
	if !IsPlural(phrase) || len(c.recentSet) == 0 {
		return nil, nil
	}
	tasks, err := store.Query(ctx, repository.QueryOptions{IDs: c.recentSet})
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", phrase, err)
	}
	return tasks, nil
}

func (c Context) touchedMatching(ctx context.Context, store repository.Reader, keywords string) ([]model.Task, error) {
	var out []model.Task
	for _, id := range c.Touched() {
		t, err := store.Get(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if Matches(t, keywords) {
			out = append(out, t)
		}
	}
	return out, nil
}

// Search finds stored tasks whose title or description contains keywords, as a phrase or word by word.
// Cancelled tasks are skipped.
func Search(ctx context.Context, store repository.Reader, keywords string) ([]model.Task, error) {
	words := strings.Fields(keywords)
	if len(words) == 0 {
		return nil, nil
	}

	found, err := store.Query(ctx, repository.QueryOptions{Text: keywords})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 && len(words) > 1 {
		broad, err := store.Query(ctx, repository.QueryOptions{Text: longest(words)})
		if err != nil {
			return nil, err
		}
		for _, t := range broad {
			if Matches(t, keywords) {
				found = append(found, t)
			}
		}
	}

	out := make([]model.Task, 0, len(found))
	for _, t := range found {
		if t.Status != model.TaskStatusCancelled {
			out = append(out, t)
		}
	}
	return out, nil
}

// Matches reports whether every word of keywords occurs in the task's title or description.
func Matches(t model.Task, keywords string) bool {
	words := strings.Fields(stripFillers(normalize(keywords)))
	if len(words) == 0 {
		return false
	}
	hay := strings.ToLower(t.Title + " " + t.Description)
	for _, w := range words {
		if !strings.Contains(hay, w) {
			return false
		}
	}
	return true
}

func pick(tasks []model.Task, phrase string) Reference {
	if len(tasks) == 1 {
		return Reference{Kind: Resolved, Task: tasks[0], Phrase: phrase}
	}
	return Reference{Kind: Ambiguous, Candidates: tasks, Phrase: phrase}
}

func stripFillers(s string) string {
	for _, f := range leadingFillers {
		if rest, ok := strings.CutPrefix(s, f); ok {
			return rest
		}
	}
	return s
}

func longest(words []string) string {
	best := words[0]
	for _, w := range words[1:] {
		if len(w) > len(best) {
			best = w
		}
	}
	return best
}

func normalize(s string) string {
	s = strings.Trim(strings.ToLower(s), " .,!?\"'")
	return strings.Join(strings.Fields(s), " ")
}
