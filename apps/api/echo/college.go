package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/matokeo/core"
	"github.com/trezcool/matokeo/core/tenant"
)

type collegeApi struct {
	dir      *tenant.Directory
	resolver *tenant.Resolver
}

func registerCollegeAPI(g *echo.Group, dir *tenant.Directory, resolver *tenant.Resolver) {
	api := collegeApi{dir: dir, resolver: resolver}

	cg := g.Group("/colleges")
	cg.GET("", api.query)
	cg.GET("/resolve", api.resolve)
}

// Handlers

func (api *collegeApi) query(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.dir.Tenants(ctx.Request().Context()))
}

func (api *collegeApi) resolve(ctx echo.Context) error {
	htno := core.CleanString(ctx.QueryParam("htno"))
	if htno == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "htno", Error: "this field is required"})
	}
	res := api.resolver.ResolveStudent(ctx.Request().Context(), htno)
	return ctx.JSON(http.StatusOK, res)
}
