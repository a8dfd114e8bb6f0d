package endpoints

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/dqdash/internal/db"
	"github.com/Nixie-Tech-LLC/dqdash/internal/http/api"
	"github.com/Nixie-Tech-LLC/dqdash/internal/http/api/dashboard/packets"
	"github.com/Nixie-Tech-LLC/dqdash/internal/model"
)

// ReportInvalidator drops the cached schedule usage report.
type ReportInvalidator interface {
	InvalidateReport(ctx context.Context)
}

type CheckController struct {
	store   db.Store
	reports ReportInvalidator
}

func NewCheckController(store db.Store, reports ReportInvalidator) *CheckController {
	return &CheckController{store: store, reports: reports}
}

// ChecksModule serves DQ checks, DQ emails and distribution groups.
func ChecksModule(store db.Store, reports ReportInvalidator) api.Module {
	ctl := NewCheckController(store, reports)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/dq-checks", ctl.listChecks)
		c.POST("/dq-checks", ctl.createCheck)
		c.GET("/dq-checks/:id", ctl.getCheck)
		c.PUT("/dq-checks/:id", ctl.updateCheck)
		c.DELETE("/dq-checks/:id", ctl.deleteCheck)

		c.GET("/dq-emails", ctl.listEmails)
		c.POST("/dq-emails", ctl.createEmail)
		c.GET("/dq-emails/:id", ctl.getEmail)
		c.PUT("/dq-emails/:id", ctl.updateEmail)
		c.DELETE("/dq-emails/:id", ctl.deleteEmail)

		c.GET("/distribution-groups", ctl.listGroups)
		c.POST("/distribution-groups", ctl.createGroup)
		c.GET("/distribution-groups/:id", ctl.getGroup)
		c.PUT("/distribution-groups/:id", ctl.updateGroup)
		c.DELETE("/distribution-groups/:id", ctl.deleteGroup)
	})
}

func (c *CheckController) listChecks(ctx *gin.Context) (any, *api.APIError) {
	list, err := c.store.ListDQChecks(ctx.Request.Context())
	if err != nil {
		return nil, api.FromError(ctx, err, "dq check")
	}
	return packets.Each(list, packets.DQCheck), nil
}

func (c *CheckController) getCheck(ctx *gin.Context) (any, *api.APIError) {
	id, apiErr := paramID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	out, err := c.store.GetDQCheck(ctx.Request.Context(), id)
	if err != nil {
		return nil, api.FromError(ctx, err, "dq check")
	}
	return packets.DQCheck(out), nil
}

func (c *CheckController) createCheck(ctx *gin.Context) (any, *api.APIError) {
	var request packets.CreateDQCheckRequest
	if apiErr := api.BindJSON(ctx, &request); apiErr != nil {
		return nil, apiErr
	}
	out, err := c.store.CreateDQCheck(ctx.Request.Context(), request.Model())
	if err != nil {
		return nil, api.FromError(ctx, err, "dq check")
	}
	return created(ctx, packets.DQCheck(out))
}

func (c *CheckController) updateCheck(ctx *gin.Context) (any, *api.APIError) {
	id, apiErr := paramID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	var request packets.UpdateDQCheckRequest
	if apiErr := api.BindJSON(ctx, &request); apiErr != nil {
		return nil, apiErr
	}
	out, err := c.store.UpdateDQCheck(ctx.Request.Context(), id, request.Changes())
	if err != nil {
		return nil, api.FromError(ctx, err, "dq check")
	}
	c.reports.InvalidateReport(ctx.Request.Context())
	return packets.DQCheck(out), nil
}

// deleteCheck drops the check's schedule links with it.
func (c *CheckController) deleteCheck(ctx *gin.Context) (any, *api.APIError) {
	id, apiErr := paramID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	if err := c.store.DeleteDQCheck(ctx.Request.Context(), id); err != nil {
		return nil, api.FromError(ctx, err, "dq check")
	}
	c.reports.InvalidateReport(ctx.Request.Context())
	return noContent(ctx)
}

func (c *CheckController) listEmails(ctx *gin.Context) (any, *api.APIError) {
	list, err := c.store.ListDQEmails(ctx.Request.Context())
	if err != nil {
		return nil, api.FromError(ctx, err, "dq email")
	}
	return packets.Each(list, packets.DQEmail), nil
}

func (c *CheckController) getEmail(ctx *gin.Context) (any, *api.APIError) {
	id, apiErr := paramID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	out, err := c.store.GetDQEmail(ctx.Request.Context(), id)
	if err != nil {
		return nil, api.FromError(ctx, err, "dq email")
	}
	return packets.DQEmail(out), nil
}

func (c *CheckController) createEmail(ctx *gin.Context) (any, *api.APIError) {
	var request packets.CreateDQEmailRequest
	if apiErr := api.BindJSON(ctx, &request); apiErr != nil {
		return nil, apiErr
	}
	out, err := c.store.CreateDQEmail(ctx.Request.Context(), model.DQEmail{
		Title:     request.Title,
		Subject:   request.Subject,
		Body:      request.Body,
		IsEnabled: request.IsEnabled == nil || *request.IsEnabled,
	})
	if err != nil {
		return nil, api.FromError(ctx, err, "dq email")
	}
	return created(ctx, packets.DQEmail(out))
}

func (c *CheckController) updateEmail(ctx *gin.Context) (any, *api.APIError) {
	id, apiErr := paramID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	var request packets.UpdateDQEmailRequest
	if apiErr := api.BindJSON(ctx, &request); apiErr != nil {
		return nil, apiErr
	}
	out, err := c.store.UpdateDQEmail(ctx.Request.Context(), id, request.Changes())
	if err != nil {
		return nil, api.FromError(ctx, err, "dq email")
	}
	c.reports.InvalidateReport(ctx.Request.Context())
	return packets.DQEmail(out), nil
}

func (c *CheckController) deleteEmail(ctx *gin.Context) (any, *api.APIError) {
	id, apiErr := paramID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	if err := c.store.DeleteDQEmail(ctx.Request.Context(), id); err != nil {
		return nil, api.FromError(ctx, err, "dq email")
	}
	c.reports.InvalidateReport(ctx.Request.Context())
	return noContent(ctx)
}

func (c *CheckController) listGroups(ctx *gin.Context) (any, *api.APIError) {
	list, err := c.store.ListDistributionGroups(ctx.Request.Context())
	if err != nil {
		return nil, api.FromError(ctx, err, "distribution group")
	}
	return packets.Each(list, packets.DistributionGroup), nil
}

func (c *CheckController) getGroup(ctx *gin.Context) (any, *api.APIError) {
	id, apiErr := paramID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	out, err := c.store.GetDistributionGroup(ctx.Request.Context(), id)
	if err != nil {
		return nil, api.FromError(ctx, err, "distribution group")
	}
	return packets.DistributionGroup(out), nil
}

func (c *CheckController) createGroup(ctx *gin.Context) (any, *api.APIError) {
	var request packets.CreateDistributionGroupRequest
	if apiErr := api.BindJSON(ctx, &request); apiErr != nil {
		return nil, apiErr
	}
	out, err := c.store.CreateDistributionGroup(ctx.Request.Context(), model.DistributionGroup{
		Title:      request.Title,
		Recipients: request.Recipients,
		IsEnabled:  request.IsEnabled == nil || *request.IsEnabled,
	})
	if err != nil {
		return nil, api.FromError(ctx, err, "distribution group")
	}
	return created(ctx, packets.DistributionGroup(out))
}

func (c *CheckController) updateGroup(ctx *gin.Context) (any, *api.APIError) {
	id, apiErr := paramID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	var request packets.UpdateDistributionGroupRequest
	if apiErr := api.BindJSON(ctx, &request); apiErr != nil {
		return nil, apiErr
	}
	out, err := c.store.UpdateDistributionGroup(ctx.Request.Context(), id, request.Changes())
	if err != nil {
		return nil, api.FromError(ctx, err, "distribution group")
	}
	return packets.DistributionGroup(out), nil
}

func (c *CheckController) deleteGroup(ctx *gin.Context) (any, *api.APIError) {
	id, apiErr := paramID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	if err := c.store.DeleteDistributionGroup(ctx.Request.Context(), id); err != nil {
		return nil, api.FromError(ctx, err, "distribution group")
	}
	return noContent(ctx)
}
