package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// MiddlewareMap contains middlewares chains to
// use for public-facing and ops requests.
type MiddlewareMap struct {
	public func(httprouter.Handle) httprouter.Handle
	ops    func(httprouter.Handle) httprouter.Handle
}

// SetupRoutes enforces the shop routes. The whole inventory lives behind
// a single method-overloaded endpoint, plus a liveness probe and the
// flag-gated internal ops endpoints.
func (api *APIHandler) SetupRoutes(router *httprouter.Router, m *MiddlewareMap) *httprouter.Router {
	router.RedirectTrailingSlash = true
	router.NotFound = api.NotFoundHandler()

	router.GET("/", m.public(api.ShopPage))
	router.POST("/", m.public(api.ShopSubmit))
	router.GET("/status", m.public(api.Status))

	if api.config.OpsEndpointsEnable {
		api.SetupOpsRoutes(router, m)
	}
	return router
}

// SetupOpsRoutes injects internal operations related endpoints.
func (api *APIHandler) SetupOpsRoutes(router *httprouter.Router, m *MiddlewareMap) *httprouter.Router {
	router.GET("/ops/configs", m.ops(api.GetConfigs))
	router.GET("/ops/stats", m.ops(api.GetStatistics))
	router.GET("/ops/maintenance", m.ops(api.Maintenance))
	return router
}

// NotFoundHandler renders the 404 page for unknown routes.
func (api *APIHandler) NotFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		api.NotFoundPage(w, r, "The page you requested does not exist.")
	})
}
