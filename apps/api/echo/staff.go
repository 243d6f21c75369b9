package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/matokeo/core"
	"github.com/trezcool/matokeo/core/catalog"
	"github.com/trezcool/matokeo/core/staff"
	"github.com/trezcool/matokeo/core/tenant"
)

type staffApi struct {
	svc *staff.Service
}

func registerStaffAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *staff.Service) {
	api := staffApi{svc: svc}

	sg := g.Group("/staff")

	// un-authed endpoints
	sg.POST("/login", api.login)

	// authed endpoints
	ag := sg.Group("", jwt, staffMiddleware())
	ag.POST("/register", api.register, staffMiddleware(staff.RoleHOD))
	ag.GET("/hod-email", api.hodEmail)
}

// Handlers

func (api *staffApi) register(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data staff.NewTeacher
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTeacher")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	tch, err := api.svc.Register(ctx.Request().Context(), claims.Tenant, data)
	if err != nil {
		if _, ok := errors.Cause(err).(*core.ValidationError); ok {
			return err
		}
		return errors.Wrap(err, "registering teacher")
	}
	return ctx.JSON(http.StatusCreated, tch)
}

func (api *staffApi) login(ctx echo.Context) error {
	var data StaffLoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StaffLoginRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	tch, err := api.svc.Authenticate(ctx.Request().Context(), data.College, data.Email, data.Password)
	if err != nil {
		if errors.Cause(err) == staff.ErrAuthenticationFailed {
			return errAuthenticationFailed
		}
		return errors.Wrap(err, "authenticating teacher")
	}

	token, err := GenerateToken(GetTeacherClaims(tch, data.College))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, Tenant: data.College})
}

func (api *staffApi) hodEmail(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	dept, err := catalog.ParseDept(ctx.QueryParam("department"))
	if err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "department", Error: err.Error()})
	}

	email, err := api.svc.HODEmail(ctx.Request().Context(), claims.Tenant, dept)
	if err != nil {
		if errors.Cause(err) == staff.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding HOD email")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"email": email})
}

type StaffLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	College  string `json:"college"`
}

func (r *StaffLoginRequest) Validate() error {
	r.Email = core.CleanString(r.Email, true /* lower */)
	r.College = core.CleanString(r.College, true /* lower */)
	if r.College == "" {
		r.College = tenant.Fallback
	}
	return core.Validate.Struct(r)
}
