package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/matokeo/core"
	"github.com/trezcool/matokeo/core/student"
	"github.com/trezcool/matokeo/core/tenant"
)

type studentApi struct {
	svc      *student.Service
	resolver *tenant.Resolver
}

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *student.Service, resolver *tenant.Resolver) {
	api := studentApi{svc: svc, resolver: resolver}

	sg := g.Group("/students")

	// un-authed endpoints
	// TODO: rate limit `/password-reset` & `/otp-verify`
	sg.POST("/register", api.register)
	sg.POST("/login", api.login)
	sg.POST("/password-reset", api.resetPassword)
	sg.POST("/otp-verify", api.verifyOTP)
	sg.POST("/password-reset-confirm", api.confirmPasswordReset)

	// authed endpoints
	ag := sg.Group("", jwt, studentMiddleware())
	ag.GET("/me", api.retrieve)
}

// Handlers

func (api *studentApi) register(ctx echo.Context) error {
	var data RegisterStudentRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RegisterStudentRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	stu, err := api.svc.Register(ctx.Request().Context(), data.College, data.NewStudent)
	if err != nil {
		if _, ok := errors.Cause(err).(*core.ValidationError); ok {
			return err
		}
		return errors.Wrap(err, "registering student")
	}
	return ctx.JSON(http.StatusCreated, stu)
}

func (api *studentApi) login(ctx echo.Context) error {
	var data StudentLoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StudentLoginRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	stu, tnt, err := api.svc.Authenticate(ctx.Request().Context(), data.Htno, data.Password, data.College)
	if err != nil {
		if errors.Cause(err) == student.ErrAuthenticationFailed {
			return errAuthenticationFailed
		}
		return errors.Wrap(err, "authenticating student")
	}

	token, err := GenerateToken(GetStudentClaims(stu, tnt))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, Tenant: tnt})
}

func (api *studentApi) resetPassword(ctx echo.Context) error {
	var data PasswordResetRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PasswordResetRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	if err := api.svc.RequestPasswordReset(ctx.Request().Context(), data.Htno, data.Email); !(err == nil || errors.Cause(err) == student.ErrNotFound) {
		// do not return errors to attackers
		ctx.Logger().Errorf("%+v", errors.Wrap(err, "requesting password reset"))
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{
		Success: "If the hall ticket number and email supplied are associated with an account on this system, " +
			"an email will arrive in your inbox shortly with instructions to reset your password.",
	})
}

func (api *studentApi) verifyOTP(ctx echo.Context) error {
	var data OTPVerifyRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to OTPVerifyRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	if !api.svc.VerifyOTP(data.Email, data.OTP) {
		return core.NewValidationError(nil, core.FieldError{Field: "otp", Error: "invalid or expired one-time password"})
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "One-time password verified."})
}

func (api *studentApi) confirmPasswordReset(ctx echo.Context) error {
	var data PasswordResetConfirmRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PasswordResetConfirmRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	if err := api.svc.ResetPassword(ctx.Request().Context(), data.Token, data.Password); err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return core.NewValidationError(nil, core.FieldError{Field: "token", Error: "invalid or expired token"})
		}
		return errors.Wrap(err, "resetting password")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Password has been reset with the new password."})
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	stu, err := api.svc.GetStudent(ctx.Request().Context(), claims.Tenant, claims.Subject)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding student")
	}
	return ctx.JSON(http.StatusOK, stu)
}

type (
	RegisterStudentRequest struct {
		student.NewStudent
		College string `json:"college"`
	}

	StudentLoginRequest struct {
		Htno     string `json:"htno" validate:"required"`
		Password string `json:"password" validate:"required"`
		College  string `json:"college"`
	}

	LoginResponse struct {
		Token  string `json:"token"`
		Tenant string `json:"tenant"`
	}

	PasswordResetRequest struct {
		Htno  string `json:"htno" validate:"required"`
		Email string `json:"email" validate:"required,email"`
	}

	OTPVerifyRequest struct {
		Email string `json:"email" validate:"required,email"`
		OTP   string `json:"otp" validate:"required"`
	}

	PasswordResetConfirmRequest struct {
		Token           string `json:"token" validate:"required"`
		Password        string `json:"password" validate:"required"`
		PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}
)

func (r *RegisterStudentRequest) Validate() error {
	r.College = core.CleanString(r.College, true /* lower */)
	if r.College == "" {
		r.College = tenant.Fallback
	}
	return r.NewStudent.Validate()
}

func (r *StudentLoginRequest) Validate() error {
	r.Htno = core.CleanString(r.Htno)
	r.College = core.CleanString(r.College, true /* lower */)
	return core.Validate.Struct(r)
}

func (r *PasswordResetRequest) Validate() error {
	r.Htno = core.CleanString(r.Htno)
	r.Email = core.CleanString(r.Email, true /* lower */)
	return core.Validate.Struct(r)
}

func (r *OTPVerifyRequest) Validate() error {
	r.Email = core.CleanString(r.Email, true /* lower */)
	r.OTP = core.CleanString(r.OTP)
	return core.Validate.Struct(r)
}

func (r *PasswordResetConfirmRequest) Validate() error {
	return core.Validate.Struct(r)
}
