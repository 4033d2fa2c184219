package sqlite

import (
	"database/sql"
	"strings"
	"time"

	"scheduling-assistant/internal/model"
	"scheduling-assistant/internal/task/repository"
)

const (
	selectTaskSQL = `SELECT id, title, description, date, start_min, end_min, status, priority, created_at, updated_at FROM tasks`
	orderTaskSQL  = ` ORDER BY date ASC, start_min IS NULL ASC, start_min ASC, created_at ASC`
	dateLayout    = "2006-01-02"
)

type scanner interface {
	Scan(dest ...any) error
}

func buildQuery(opt repository.QueryOptions) (string, []any) {
	var (
		conds []string
		args  []any
	)

	if opt.From != nil {
		conds = append(conds, "date >= ?")
		args = append(args, formatDate(*opt.From))
	}
	if opt.To != nil {
		conds = append(conds, "date <= ?")
		args = append(args, formatDate(*opt.To))
	}
	if opt.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, string(opt.Status))
	}
	if text := strings.TrimSpace(opt.Text); text != "" {
		pattern := "%" + escapeLike(strings.ToLower(text)) + "%"
		conds = append(conds, `(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}
	if len(opt.IDs) > 0 {
		conds = append(conds, "id IN (?"+strings.Repeat(", ?", len(opt.IDs)-1)+")")
		for _, id := range opt.IDs {
			args = append(args, id)
		}
	}

	query := selectTaskSQL
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += orderTaskSQL
	if opt.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opt.Limit)
	}
	return query, args
}

func scanTask(s scanner) (model.Task, error) {
	var (
		t                    model.Task
		date, status, prio   string
		startMin, endMin     sql.NullInt64
		createdAt, updatedAt int64
	)
	if err := s.Scan(&t.ID, &t.Title, &t.Description, &date, &startMin, &endMin, &status, &prio, &createdAt, &updatedAt); err != nil {
		return model.Task{}, err
	}

	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return model.Task{}, err
	}
	t.Date = d
	if startMin.Valid {
		t.StartTime = model.Clock(startMin.Int64).Ptr()
	}
	if endMin.Valid {
		t.EndTime = model.Clock(endMin.Int64).Ptr()
	}
	t.Status = model.TaskStatus(status)
	t.Priority = model.Priority(prio)
	t.CreatedAt = time.Unix(0, createdAt).UTC()
	t.UpdatedAt = time.Unix(0, updatedAt).UTC()
	return t, nil
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func nullClock(c *model.Clock) sql.NullInt64 {
	if c == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*c), Valid: true}
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
