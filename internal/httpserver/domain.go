package httpserver

import (
	"context"

	"github.com/gin-gonic/gin"

	schedulerHTTP "scheduling-assistant/internal/scheduler/delivery/http"
	schedulerUC "scheduling-assistant/internal/scheduler/usecase"
	taskHTTP "scheduling-assistant/internal/task/delivery/http"
	taskUC "scheduling-assistant/internal/task/usecase"
)

// setupSchedulerDomain wires the conversation engine and registers /api/v1/sessions.
func (srv HTTPServer) setupSchedulerDomain(ctx context.Context, api *gin.RouterGroup) error {
	uc := schedulerUC.New(srv.l, srv.repo, srv.dateMath, srv.sessions, schedulerUC.Options{
		MaxBulkCount: srv.maxBulkCount,
		Mirror:       srv.mirror,
	})
	h := schedulerHTTP.New(srv.l, uc)
	schedulerHTTP.RegisterRoutes(api, h, srv.mw)

	srv.l.Infof(ctx, "Scheduler domain registered")
	return nil
}

// setupTaskDomain wires the read-side task API and registers /api/v1/tasks.
func (srv HTTPServer) setupTaskDomain(ctx context.Context, api *gin.RouterGroup) error {
	uc := taskUC.New(srv.l, srv.repo, srv.dateMath, nil)
	h := taskHTTP.New(srv.l, uc)
	taskHTTP.RegisterRoutes(api, h)

	srv.l.Infof(ctx, "Task domain registered")
	return nil
}
