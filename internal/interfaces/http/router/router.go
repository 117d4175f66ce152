// Package router groups the HTTP routes by domain and assembles the gin
// engine with its middleware chain.
package router

import (
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
)

// RouteRegistrar mounts its routes on the versioned API group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// RouteInfo describes one mounted API route
type RouteInfo struct {
	Group      string
	Method     string
	Path       string
	Replayable bool
}

// Router mounts domain groups under /api/<version>
type Router struct {
	engine     *gin.Engine
	apiVersion string
	middleware []gin.HandlerFunc
	groups     []*DomainGroup
}

// RouterOption configures a Router
type RouterOption func(*Router)

// WithAPIVersion sets the version segment of the API prefix
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) { r.apiVersion = version }
}

// WithGroupMiddleware runs middleware on every API route, before the domain
// group's own middleware
func WithGroupMiddleware(middleware ...gin.HandlerFunc) RouterOption {
	return func(r *Router) { r.middleware = append(r.middleware, middleware...) }
}

// NewRouter creates a Router for engine, defaulting to v1
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{engine: engine, apiVersion: "v1"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register queues a domain group for Setup
func (r *Router) Register(group *DomainGroup) *Router {
	r.groups = append(r.groups, group)
	return r
}

// Setup mounts every registered group
func (r *Router) Setup() {
	api := r.engine.Group(r.basePath(), r.middleware...)
	for _, g := range r.groups {
		g.RegisterRoutes(api)
	}
}

// Routes lists the API routes in registration order
func (r *Router) Routes() []RouteInfo {
	var out []RouteInfo
	for _, g := range r.groups {
		for _, rt := range g.routes {
			out = append(out, RouteInfo{
				Group:      g.name,
				Method:     rt.method,
				Path:       path.Join(r.basePath(), g.prefix, rt.path),
				Replayable: rt.replayable,
			})
		}
	}
	return out
}

func (r *Router) basePath() string {
	return "/api/" + r.apiVersion
}

// DomainGroup is the set of routes of one ledger area under a shared prefix.
// Routes added with POSTOnce get the group's replay middleware in front of
// their handler, so a retried payment with the same Idempotency-Key returns
// the first response.
type DomainGroup struct {
	name       string
	prefix     string
	middleware []gin.HandlerFunc
	replay     gin.HandlerFunc
	routes     []route
}

type route struct {
	method     string
	path       string
	handlers   []gin.HandlerFunc
	replayable bool
}

// NewDomainGroup creates a group mounted at prefix
func NewDomainGroup(name, prefix string) *DomainGroup {
	return &DomainGroup{name: name, prefix: prefix}
}

// Use adds middleware to every route of the group
func (dg *DomainGroup) Use(middleware ...gin.HandlerFunc) *DomainGroup {
	dg.middleware = append(dg.middleware, middleware...)
	return dg
}

// WithReplay sets the middleware POSTOnce routes run first. A nil replay
// leaves those routes as plain POSTs.
func (dg *DomainGroup) WithReplay(replay gin.HandlerFunc) *DomainGroup {
	dg.replay = replay
	return dg
}

func (dg *DomainGroup) add(method, p string, replayable bool, handlers []gin.HandlerFunc) *DomainGroup {
	if replayable && dg.replay != nil {
		handlers = append([]gin.HandlerFunc{dg.replay}, handlers...)
	} else {
		replayable = false
	}
	dg.routes = append(dg.routes, route{method: method, path: p, handlers: handlers, replayable: replayable})
	return dg
}

func (dg *DomainGroup) GET(p string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.add(http.MethodGet, p, false, handlers)
}

func (dg *DomainGroup) POST(p string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.add(http.MethodPost, p, false, handlers)
}

// POSTOnce registers a POST whose response is replayed for a repeated
// Idempotency-Key
func (dg *DomainGroup) POSTOnce(p string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.add(http.MethodPost, p, true, handlers)
}

func (dg *DomainGroup) PUT(p string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.add(http.MethodPut, p, false, handlers)
}

func (dg *DomainGroup) DELETE(p string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.add(http.MethodDelete, p, false, handlers)
}

// RegisterRoutes implements RouteRegistrar
func (dg *DomainGroup) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(dg.prefix, dg.middleware...)
	for _, rt := range dg.routes {
		group.Handle(rt.method, rt.path, rt.handlers...)
	}
}
