package endpoints

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/dqdash/internal/db"
	"github.com/Nixie-Tech-LLC/dqdash/internal/holiday"
	"github.com/Nixie-Tech-LLC/dqdash/internal/http/api"
	"github.com/Nixie-Tech-LLC/dqdash/internal/http/api/dashboard/packets"
	"github.com/Nixie-Tech-LLC/dqdash/internal/report"
	"github.com/Nixie-Tech-LLC/dqdash/internal/schedule"
	"github.com/Nixie-Tech-LLC/dqdash/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportController struct {
	svc      *service.Schedules
	calendar *holiday.Calendar
}

func NewReportController(svc *service.Schedules, calendar *holiday.Calendar) *ReportController {
	return &ReportController{svc: svc, calendar: calendar}
}

func ReportsModule(svc *service.Schedules, calendar *holiday.Calendar) api.Module {
	ctl := NewReportController(svc, calendar)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/reports/schedules", ctl.schedules)
		c.Raw(http.MethodGet, "/reports/schedules.xlsx", ctl.schedulesXLSX)
		c.GET("/bank-holidays", ctl.bankHolidays)
	})
}

func (r *ReportController) schedules(ctx *gin.Context) (any, *api.APIError) {
	rows, err := r.svc.Report(ctx.Request.Context())
	if err != nil {
		return nil, api.FromError(ctx, err, "report")
	}
	return packets.Each(rows, packets.ScheduleReport), nil
}

func (r *ReportController) schedulesXLSX(ctx *gin.Context) {
	rows, err := r.svc.Report(ctx.Request.Context())
	if err != nil {
		apiErr := api.FromError(ctx, err, "report")
		ctx.AbortWithStatusJSON(apiErr.Code, apiErr.Body())
		return
	}

	now := r.svc.Now().In(r.svc.Location())
	var buf bytes.Buffer
	if err := report.WriteSchedules(&buf, rows, now); err != nil {
		log.Error().Stack().Err(err).Msg("failed to render schedule report")
		ctx.AbortWithStatusJSON(api.ErrInternalError.Code, api.ErrInternalError.Body())
		return
	}

	filename := fmt.Sprintf("schedules-%s.xlsx", schedule.FormatDate(now))
	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	ctx.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (r *ReportController) bankHolidays(ctx *gin.Context) (any, *api.APIError) {
	return packets.BankHolidays(r.calendar.List()), nil
}

// HealthModule answers /healthz with the database reachability.
func HealthModule(store db.Store) api.Module {
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/healthz", func(ctx *gin.Context) (any, *api.APIError) {
			if err := store.Ping(ctx.Request.Context()); err != nil {
				log.Warn().Err(err).Msg("health check: database unreachable")
				ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return nil, nil
			}
			return gin.H{"status": "ok"}, nil
		})
	})
}
