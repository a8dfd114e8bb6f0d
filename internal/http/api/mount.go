package api

import "github.com/gin-gonic/gin"

// Module attaches one dashboard resource's routes to a Controller.
type Module interface {
	Mount(c *Controller)
}

type ModuleFunc func(c *Controller)

func (f ModuleFunc) Mount(c *Controller) { f(c) }

// GroupConfig is the path prefix shared by a set of modules.
type GroupConfig struct {
	Prefix string
}

// MountGroup opens a group on parent and lets every module register on it.
// The resources live under /api, /healthz at the root.
func MountGroup(parent gin.IRouter, cfg GroupConfig, modules ...Module) *Controller {
	c := &Controller{Group: parent.Group(cfg.Prefix)}
	for _, m := range modules {
		m.Mount(c)
	}
	return c
}
