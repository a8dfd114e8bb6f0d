package endpoints

import (
	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/dqdash/internal/db"
	"github.com/Nixie-Tech-LLC/dqdash/internal/http/api"
	"github.com/Nixie-Tech-LLC/dqdash/internal/http/api/dashboard/packets"
	"github.com/Nixie-Tech-LLC/dqdash/internal/service"
)

type ScheduleController struct {
	store db.Store
	svc   *service.Schedules
}

func NewScheduleController(store db.Store, svc *service.Schedules) *ScheduleController {
	return &ScheduleController{store: store, svc: svc}
}

func ScheduleModule(store db.Store, svc *service.Schedules) api.Module {
	ctl := NewScheduleController(store, svc)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/schedules", ctl.listSchedules)
		c.POST("/schedules", ctl.createSchedule)
		c.GET("/schedules/:id", ctl.getSchedule)
		c.PUT("/schedules/:id", ctl.updateSchedule)
		c.DELETE("/schedules/:id", ctl.deleteSchedule)

		// calendar: full replace, defaults until first write
		c.GET("/schedules/:id/days", ctl.getDays)
		c.PUT("/schedules/:id/days", ctl.putDays)
		c.GET("/schedules/:id/hours", ctl.getHours)
		c.PUT("/schedules/:id/hours", ctl.putHours)

		c.GET("/schedules/:id/status", ctl.status)
		c.GET("/schedules/:id/relationships", ctl.relationships)
	})
}

func (s *ScheduleController) listSchedules(ctx *gin.Context) (any, *api.APIError) {
	list, err := s.store.ListSchedules(ctx.Request.Context())
	if err != nil {
		return nil, api.FromError(ctx, err, "schedule")
	}
	return packets.Each(list, packets.Schedule), nil
}

func (s *ScheduleController) getSchedule(ctx *gin.Context) (any, *api.APIError) {
	id, apiErr := paramID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	sc, err := s.store.GetSchedule(ctx.Request.Context(), id)
	if err != nil {
		return nil, api.FromError(ctx, err, "schedule")
	}
	return packets.Schedule(sc), nil
}

func (s *ScheduleController) createSchedule(ctx *gin.Context) (any, *api.APIError) {
	var request packets.CreateScheduleRequest
	if apiErr := api.BindJSON(ctx, &request); apiErr != nil {
		return nil, apiErr
	}
	in, err := request.Model()
	if err != nil {
		return nil, api.ErrInvalidReq.Msg("invalid schedule: %s", err.Error())
	}
	sc, err := s.svc.CreateSchedule(ctx.Request.Context(), in)
	if err != nil {
		return nil, api.FromError(ctx, err, "schedule")
	}
	return created(ctx, packets.Schedule(sc))
}

func (s *ScheduleController) updateSchedule(ctx *gin.Context) (any, *api.APIError) {
	id, apiErr := paramID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	var request packets.UpdateScheduleRequest
	if apiErr := api.BindJSON(ctx, &request); apiErr != nil {
		return nil, apiErr
	}
	changes, err := request.Changes()
	if err != nil {
		return nil, api.ErrInvalidReq.Msg("invalid schedule: %s", err.Error())
	}
	sc, err := s.svc.UpdateSchedule(ctx.Request.Context(), id, changes)
	if err != nil {
		return nil, api.FromError(ctx, err, "schedule")
	}
	return packets.Schedule(sc), nil
}

// deleteSchedule is refused with 409 while checks or emails still link to it.
func (s *ScheduleController) deleteSchedule(ctx *gin.Context) (any, *api.APIError) {
	id, apiErr := paramID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	if err := s.svc.DeleteSchedule(ctx.Request.Context(), id); err != nil {
		return nil, api.FromError(ctx, err, "schedule")
	}
	return noContent(ctx)
}

func (s *ScheduleController) getDays(ctx *gin.Context) (any, *api.APIError) {
	id, apiErr := paramID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	days, err := s.store.GetScheduleDays(ctx.Request.Context(), id)
	if err != nil {
		return nil, api.FromError(ctx, err, "schedule")
	}
	return packets.ScheduleDays(days), nil
}

func (s *ScheduleController) putDays(ctx *gin.Context) (any, *api.APIError) {
	id, apiErr := paramID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	var request packets.ScheduleDaysRequest
	if apiErr := api.BindJSON(ctx, &request); apiErr != nil {
		return nil, apiErr
	}
	days, err := s.svc.UpdateDays(ctx.Request.Context(), id, request.Days())
	if err != nil {
		return nil, api.FromError(ctx, err, "schedule")
	}
	return packets.ScheduleDays(days), nil
}

func (s *ScheduleController) getHours(ctx *gin.Context) (any, *api.APIError) {
	id, apiErr := paramID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	hours, err := s.store.GetScheduleHours(ctx.Request.Context(), id)
	if err != nil {
		return nil, api.FromError(ctx, err, "schedule")
	}
	return packets.ScheduleHours(hours), nil
}

func (s *ScheduleController) putHours(ctx *gin.Context) (any, *api.APIError) {
	id, apiErr := paramID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	var request packets.ScheduleHoursRequest
	if apiErr := api.BindJSON(ctx, &request); apiErr != nil {
		return nil, apiErr
	}
	hours, err := s.svc.UpdateHours(ctx.Request.Context(), id, request.Flags())
	if err != nil {
		return nil, api.FromError(ctx, err, "schedule")
	}
	return packets.ScheduleHours(hours), nil
}

// status evaluates the schedule now, or at ?at=<RFC3339>. An unescaped '+'
// in the offset is accepted.
func (s *ScheduleController) status(ctx *gin.Context) (any, *api.APIError) {
	id, apiErr := paramID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	var query packets.StatusQuery
	if apiErr := api.BindQuery(ctx, &query); apiErr != nil {
		return nil, apiErr
	}
	st, err := s.svc.Status(ctx.Request.Context(), id, query.Time())
	if err != nil {
		return nil, api.FromError(ctx, err, "schedule")
	}
	return packets.Status(st), nil
}

func (s *ScheduleController) relationships(ctx *gin.Context) (any, *api.APIError) {
	id, apiErr := paramID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	row, err := s.svc.Relationships(ctx.Request.Context(), id)
	if err != nil {
		return nil, api.FromError(ctx, err, "schedule")
	}
	return packets.ScheduleReport(row), nil
}
