package server

import (
	"github.com/gin-gonic/gin"
)

// Controller is a mountable group of related routes. The server only calls
// RegisterRoutes, passing the /api router group.
type Controller interface {
	// Name identifies the controller in logs
	Name() string

	// RegisterRoutes adds the controller's routes to r
	RegisterRoutes(r gin.IRouter)
}

type controllerFunc struct {
	name     string
	register func(r gin.IRouter)
}

// NewController adapts a route registration function to Controller.
func NewController(name string, register func(r gin.IRouter)) Controller {
	return &controllerFunc{name: name, register: register}
}

func (c *controllerFunc) Name() string                 { return c.name }
func (c *controllerFunc) RegisterRoutes(r gin.IRouter) { c.register(r) }
