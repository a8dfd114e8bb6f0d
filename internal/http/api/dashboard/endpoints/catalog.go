package endpoints

import (
	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/dqdash/internal/db"
	"github.com/Nixie-Tech-LLC/dqdash/internal/http/api"
	"github.com/Nixie-Tech-LLC/dqdash/internal/http/api/dashboard/packets"
	"github.com/Nixie-Tech-LLC/dqdash/internal/model"
)

type CatalogController struct {
	store db.Store
}

func NewCatalogController(store db.Store) *CatalogController {
	return &CatalogController{store: store}
}

// CatalogModule serves source systems, domains and domain synonyms.
func CatalogModule(store db.Store) api.Module {
	ctl := NewCatalogController(store)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/source-systems", ctl.listSourceSystems)
		c.POST("/source-systems", ctl.createSourceSystem)
		c.GET("/source-systems/:id", ctl.getSourceSystem)
		c.PUT("/source-systems/:id", ctl.updateSourceSystem)
		c.DELETE("/source-systems/:id", ctl.deleteSourceSystem)

		c.GET("/domains", ctl.listDomains)
		c.POST("/domains", ctl.createDomain)
		c.GET("/domains/:id", ctl.getDomain)
		c.PUT("/domains/:id", ctl.updateDomain)
		c.DELETE("/domains/:id", ctl.deleteDomain)
		c.GET("/domains/:id/synonyms", ctl.listDomainSynonyms)

		c.GET("/synonyms", ctl.listSynonyms)
		c.POST("/synonyms", ctl.createSynonym)
		c.GET("/synonyms/:id", ctl.getSynonym)
		c.PUT("/synonyms/:id", ctl.updateSynonym)
		c.DELETE("/synonyms/:id", ctl.deleteSynonym)
	})
}

func (c *CatalogController) listSourceSystems(ctx *gin.Context) (any, *api.APIError) {
	list, err := c.store.ListSourceSystems(ctx.Request.Context())
	if err != nil {
		return nil, api.FromError(ctx, err, "source system")
	}
	return packets.Each(list, packets.SourceSystem), nil
}

func (c *CatalogController) getSourceSystem(ctx *gin.Context) (any, *api.APIError) {
	id, apiErr := paramID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	out, err := c.store.GetSourceSystem(ctx.Request.Context(), id)
	if err != nil {
		return nil, api.FromError(ctx, err, "source system")
	}
	return packets.SourceSystem(out), nil
}

func (c *CatalogController) createSourceSystem(ctx *gin.Context) (any, *api.APIError) {
	var request packets.CreateCatalogRequest
	if apiErr := api.BindJSON(ctx, &request); apiErr != nil {
		return nil, apiErr
	}
	out, err := c.store.CreateSourceSystem(ctx.Request.Context(), model.SourceSystem{
		Title:       request.Title,
		Description: request.Description,
		IsEnabled:   request.IsEnabled == nil || *request.IsEnabled,
	})
	if err != nil {
		return nil, api.FromError(ctx, err, "source system")
	}
	return created(ctx, packets.SourceSystem(out))
}

func (c *CatalogController) updateSourceSystem(ctx *gin.Context) (any, *api.APIError) {
	id, apiErr := paramID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	var request packets.UpdateCatalogRequest
	if apiErr := api.BindJSON(ctx, &request); apiErr != nil {
		return nil, apiErr
	}
	out, err := c.store.UpdateSourceSystem(ctx.Request.Context(), id, request.Changes())
	if err != nil {
		return nil, api.FromError(ctx, err, "source system")
	}
	return packets.SourceSystem(out), nil
}

func (c *CatalogController) deleteSourceSystem(ctx *gin.Context) (any, *api.APIError) {
	id, apiErr := paramID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	if err := c.store.DeleteSourceSystem(ctx.Request.Context(), id); err != nil {
		return nil, api.FromError(ctx, err, "source system")
	}
	return noContent(ctx)
}

func (c *CatalogController) listDomains(ctx *gin.Context) (any, *api.APIError) {
	list, err := c.store.ListDomains(ctx.Request.Context())
	if err != nil {
		return nil, api.FromError(ctx, err, "domain")
	}
	return packets.Each(list, packets.Domain), nil
}

func (c *CatalogController) getDomain(ctx *gin.Context) (any, *api.APIError) {
	id, apiErr := paramID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	out, err := c.store.GetDomain(ctx.Request.Context(), id)
	if err != nil {
		return nil, api.FromError(ctx, err, "domain")
	}
	return packets.Domain(out), nil
}

func (c *CatalogController) createDomain(ctx *gin.Context) (any, *api.APIError) {
	var request packets.CreateCatalogRequest
	if apiErr := api.BindJSON(ctx, &request); apiErr != nil {
		return nil, apiErr
	}
	out, err := c.store.CreateDomain(ctx.Request.Context(), model.Domain{
		Title:       request.Title,
		Description: request.Description,
		IsEnabled:   request.IsEnabled == nil || *request.IsEnabled,
	})
	if err != nil {
		return nil, api.FromError(ctx, err, "domain")
	}
	return created(ctx, packets.Domain(out))
}

func (c *CatalogController) updateDomain(ctx *gin.Context) (any, *api.APIError) {
	id, apiErr := paramID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	var request packets.UpdateCatalogRequest
	if apiErr := api.BindJSON(ctx, &request); apiErr != nil {
		return nil, apiErr
	}
	out, err := c.store.UpdateDomain(ctx.Request.Context(), id, request.Changes())
	if err != nil {
		return nil, api.FromError(ctx, err, "domain")
	}
	return packets.Domain(out), nil
}

// deleteDomain also removes the domain's synonyms (FK cascade).
func (c *CatalogController) deleteDomain(ctx *gin.Context) (any, *api.APIError) {
	id, apiErr := paramID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	if err := c.store.DeleteDomain(ctx.Request.Context(), id); err != nil {
		return nil, api.FromError(ctx, err, "domain")
	}
	return noContent(ctx)
}

func (c *CatalogController) listDomainSynonyms(ctx *gin.Context) (any, *api.APIError) {
	id, apiErr := paramID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	if _, err := c.store.GetDomain(ctx.Request.Context(), id); err != nil {
		return nil, api.FromError(ctx, err, "domain")
	}
	list, err := c.store.ListSynonyms(ctx.Request.Context(), id)
	if err != nil {
		return nil, api.FromError(ctx, err, "synonym")
	}
	return packets.Each(list, packets.Synonym), nil
}

func (c *CatalogController) listSynonyms(ctx *gin.Context) (any, *api.APIError) {
	list, err := c.store.ListSynonyms(ctx.Request.Context(), 0)
	if err != nil {
		return nil, api.FromError(ctx, err, "synonym")
	}
	return packets.Each(list, packets.Synonym), nil
}

func (c *CatalogController) getSynonym(ctx *gin.Context) (any, *api.APIError) {
	id, apiErr := paramID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	out, err := c.store.GetSynonym(ctx.Request.Context(), id)
	if err != nil {
		return nil, api.FromError(ctx, err, "synonym")
	}
	return packets.Synonym(out), nil
}

func (c *CatalogController) createSynonym(ctx *gin.Context) (any, *api.APIError) {
	var request packets.CreateSynonymRequest
	if apiErr := api.BindJSON(ctx, &request); apiErr != nil {
		return nil, apiErr
	}
	if _, err := c.store.GetDomain(ctx.Request.Context(), request.DomainID); err != nil {
		return nil, api.FromError(ctx, err, "domain")
	}
	out, err := c.store.CreateSynonym(ctx.Request.Context(), model.Synonym{
		DomainID:  request.DomainID,
		Title:     request.Title,
		IsEnabled: request.IsEnabled == nil || *request.IsEnabled,
	})
	if err != nil {
		return nil, api.FromError(ctx, err, "synonym")
	}
	return created(ctx, packets.Synonym(out))
}

func (c *CatalogController) updateSynonym(ctx *gin.Context) (any, *api.APIError) {
	id, apiErr := paramID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	var request packets.UpdateSynonymRequest
	if apiErr := api.BindJSON(ctx, &request); apiErr != nil {
		return nil, apiErr
	}
	out, err := c.store.UpdateSynonym(ctx.Request.Context(), id, request.Changes())
	if err != nil {
		return nil, api.FromError(ctx, err, "synonym")
	}
	return packets.Synonym(out), nil
}

func (c *CatalogController) deleteSynonym(ctx *gin.Context) (any, *api.APIError) {
	id, apiErr := paramID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	if err := c.store.DeleteSynonym(ctx.Request.Context(), id); err != nil {
		return nil, api.FromError(ctx, err, "synonym")
	}
	return noContent(ctx)
}
