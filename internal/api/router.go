package api

import (
	"github.com/gin-gonic/gin"
)

// NewRouter wires all routes against the registry.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger())

	r.GET("/health", HealthHandler())

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/versions", VersionsHandler(d))
		apiGroup.GET("/search", SearchHandler(d))

		apiGroup.GET("/messages", ListMessagesHandler(d))
		apiGroup.GET("/messages/:msgType", GetMessageHandler(d))

		apiGroup.GET("/fields", ListFieldsHandler(d))
		// static segment before the parameterized one
		apiGroup.GET("/fields/name/:name", GetFieldByNameHandler(d))
		apiGroup.GET("/fields/:tag", GetFieldHandler(d))

		apiGroup.GET("/components", ListComponentsHandler(d))
		apiGroup.GET("/components/:name", GetComponentHandler(d))

		apiGroup.GET("/codesets", ListCodesetsHandler(d))
		apiGroup.GET("/codesets/:tag", GetCodesetHandler(d))

		apiGroup.GET("/sections", SectionsHandler(d))
		apiGroup.GET("/categories", CategoriesHandler(d))
		apiGroup.GET("/datatypes", DatatypesHandler(d))
		apiGroup.GET("/abbreviations", AbbreviationsHandler(d))

		apiGroup.POST("/grid/:entity", GridHandler(d))
	}

	return r
}

func RunServer(addr string, d Deps) error {
	return NewRouter(d).Run(addr)
}
