package endpoints

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/dqdash/internal/db"
	"github.com/Nixie-Tech-LLC/dqdash/internal/http/api"
	"github.com/Nixie-Tech-LLC/dqdash/internal/http/api/dashboard/packets"
	"github.com/Nixie-Tech-LLC/dqdash/internal/service"
)

type LinkController struct {
	store db.Store
	svc   *service.Schedules
}

func NewLinkController(store db.Store, svc *service.Schedules) *LinkController {
	return &LinkController{store: store, svc: svc}
}

// LinksModule serves the three association tables. Each is addressed from
// its parent (check or email) for listing and creation, and by link id for
// toggling and removal.
func LinksModule(store db.Store, svc *service.Schedules) api.Module {
	ctl := NewLinkController(store, svc)
	checkExists := func(ctx context.Context, id int) error {
		_, err := store.GetDQCheck(ctx, id)
		return err
	}
	emailExists := func(ctx context.Context, id int) error {
		_, err := store.GetDQEmail(ctx, id)
		return err
	}

	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/dq-checks/:id/schedules", ctl.list(db.CheckSchedules, "dq check", checkExists))
		c.POST("/dq-checks/:id/schedules", ctl.createSchedule(db.CheckSchedules))
		c.PUT("/dq-check-schedules/:linkId", ctl.update(db.CheckSchedules))
		c.DELETE("/dq-check-schedules/:linkId", ctl.remove(db.CheckSchedules))

		c.GET("/dq-emails/:id/schedules", ctl.list(db.EmailSchedules, "dq email", emailExists))
		c.POST("/dq-emails/:id/schedules", ctl.createSchedule(db.EmailSchedules))
		c.PUT("/dq-email-schedules/:linkId", ctl.update(db.EmailSchedules))
		c.DELETE("/dq-email-schedules/:linkId", ctl.remove(db.EmailSchedules))

		c.GET("/dq-emails/:id/distribution-groups", ctl.list(db.EmailGroups, "dq email", emailExists))
		c.POST("/dq-emails/:id/distribution-groups", ctl.createGroup)
		c.PUT("/dq-email-distribution-groups/:linkId", ctl.update(db.EmailGroups))
		c.DELETE("/dq-email-distribution-groups/:linkId", ctl.remove(db.EmailGroups))
	})
}

func (l *LinkController) list(kind db.LinkKind, parent string, exists func(context.Context, int) error) api.HandlerFunc {
	return func(ctx *gin.Context) (any, *api.APIError) {
		id, apiErr := paramID(ctx, "id")
		if apiErr != nil {
			return nil, apiErr
		}
		if err := exists(ctx.Request.Context(), id); err != nil {
			return nil, api.FromError(ctx, err, parent)
		}
		links, err := l.store.ListLinks(ctx.Request.Context(), kind, id)
		if err != nil {
			return nil, api.FromError(ctx, err, "link")
		}
		return packets.Links(kind, links), nil
	}
}

func (l *LinkController) createSchedule(kind db.LinkKind) api.HandlerFunc {
	return func(ctx *gin.Context) (any, *api.APIError) {
		id, apiErr := paramID(ctx, "id")
		if apiErr != nil {
			return nil, apiErr
		}
		var request packets.ScheduleLinkRequest
		if apiErr := api.BindJSON(ctx, &request); apiErr != nil {
			return nil, apiErr
		}
		enabled := request.IsEnabled == nil || *request.IsEnabled
		link, err := l.svc.CreateLink(ctx.Request.Context(), kind, id, request.ScheduleID, enabled)
		if err != nil {
			return nil, api.FromError(ctx, err, "link")
		}
		return created(ctx, packets.Link(kind, link))
	}
}

func (l *LinkController) createGroup(ctx *gin.Context) (any, *api.APIError) {
	id, apiErr := paramID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	var request packets.GroupLinkRequest
	if apiErr := api.BindJSON(ctx, &request); apiErr != nil {
		return nil, apiErr
	}
	enabled := request.IsEnabled == nil || *request.IsEnabled
	link, err := l.svc.CreateLink(ctx.Request.Context(), db.EmailGroups, id, request.DistributionGroupID, enabled)
	if err != nil {
		return nil, api.FromError(ctx, err, "link")
	}
	return created(ctx, packets.Link(db.EmailGroups, link))
}

func (l *LinkController) update(kind db.LinkKind) api.HandlerFunc {
	return func(ctx *gin.Context) (any, *api.APIError) {
		id, apiErr := paramID(ctx, "linkId")
		if apiErr != nil {
			return nil, apiErr
		}
		var request packets.UpdateLinkRequest
		if apiErr := api.BindJSON(ctx, &request); apiErr != nil {
			return nil, apiErr
		}
		link, err := l.svc.SetLinkEnabled(ctx.Request.Context(), kind, id, *request.IsEnabled)
		if err != nil {
			return nil, api.FromError(ctx, err, "link")
		}
		return packets.Link(kind, link), nil
	}
}

func (l *LinkController) remove(kind db.LinkKind) api.HandlerFunc {
	return func(ctx *gin.Context) (any, *api.APIError) {
		id, apiErr := paramID(ctx, "linkId")
		if apiErr != nil {
			return nil, apiErr
		}
		if err := l.svc.DeleteLink(ctx.Request.Context(), kind, id); err != nil {
			return nil, api.FromError(ctx, err, "link")
		}
		return noContent(ctx)
	}
}
