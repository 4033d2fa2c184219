package main

import (
	"fmt"
	"time"

	"scheduling-assistant/internal/model"
	"scheduling-assistant/pkg/datemath"
)

// resolveDate accepts an ISO date or any phrase the date parser understands.
func (e *env) resolveDate(expr string) (*time.Time, error) {
	if expr == "" {
		return nil, nil
	}
	res := e.dateMath.ResolveDate(expr, time.Now())
	if res.Kind != datemath.Concrete {
		return nil, fmt.Errorf("cannot resolve date %q", expr)
	}
	d := res.Date
	return &d, nil
}

func timeSpan(t model.Task) string {
	switch {
	case t.StartTime == nil:
		return "all day"
	case t.EndTime == nil:
		return t.StartTime.String()
	}
	return t.StartTime.String() + "-" + t.EndTime.String()
}
