package server

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// NewRouter wires the coverage endpoints and middleware into a gin engine.
func NewRouter(handler *Handler, serviceName string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	router.Use(RequestLogger())

	router.GET("/health", handler.Health)
	router.GET("/network_coverage", handler.NetworkCoverage)
	router.GET("/address_from_wsg84", handler.AddressFromWGS84)

	return router
}
