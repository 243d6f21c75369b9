package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/matokeo/core"
	"github.com/trezcool/matokeo/core/catalog"
	"github.com/trezcool/matokeo/core/grade"
	"github.com/trezcool/matokeo/core/result"
	"github.com/trezcool/matokeo/core/staff"
)

type resultApi struct {
	resultSvc *result.Service
	gradeSvc  *grade.Service
}

func registerResultAPI(g *echo.Group, jwt echo.MiddlewareFunc, resultSvc *result.Service, gradeSvc *grade.Service) {
	api := resultApi{resultSvc: resultSvc, gradeSvc: gradeSvc}

	rg := g.Group("/results", jwt)

	// staff endpoints
	rg.POST("/:dept/:sem", api.upload, staffMiddleware(staff.RoleTeacher, staff.RoleHOD))
	rg.GET("/:dept/:sem", api.query, staffMiddleware())
	rg.GET("/:dept/:sem/:htno", api.retrieveFor, staffMiddleware())

	// student endpoints
	rg.GET("/:dept/:sem/me", api.retrieve, studentMiddleware())
	rg.GET("/:dept/available", api.availableSemesters, studentMiddleware())

	gg := g.Group("/grades", jwt)
	gg.GET("/:dept/me", api.grades, studentMiddleware())
	gg.GET("/:dept/:htno", api.gradesFor, staffMiddleware())
}

// Handlers

// upload merges a semester's CSV result sheet into the routed results table
// and recomputes SGPA/CGPA for every student present in it.
func (api *resultApi) upload(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	dept, sem, err := routeParams(ctx)
	if err != nil {
		return err
	}

	fileHdr, err := ctx.FormFile("file")
	if err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "file", Error: "a CSV file is required"})
	}
	file, err := fileHdr.Open()
	if err != nil {
		return errors.Wrap(err, "opening uploaded file")
	}
	defer file.Close()

	subjects, err := result.ParseCSV(file)
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "file", Error: err.Error()})
	}
	if len(subjects) == 0 {
		return core.NewValidationError(nil, core.FieldError{Field: "file", Error: "the file contains no records"})
	}

	reqCtx := ctx.Request().Context()
	if err := api.resultSvc.SaveSemesterResults(reqCtx, claims.Tenant, dept, sem, subjects); err != nil {
		return errors.Wrap(err, "saving semester results")
	}

	// grade off the merged table, not the upload: a resubmission may carry
	// worse grades than what is already stored.
	stored := api.resultSvc.SemesterSubjects(reqCtx, claims.Tenant, dept, sem)
	if err := api.gradeSvc.ComputeSemester(reqCtx, claims.Tenant, dept, sem, stored); err != nil {
		return errors.Wrap(err, "computing grades")
	}

	return ctx.JSON(http.StatusOK, UploadResponse{Saved: len(subjects)})
}

func (api *resultApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	dept, sem, err := routeParams(ctx)
	if err != nil {
		return err
	}

	subjects := api.resultSvc.SemesterSubjects(ctx.Request().Context(), claims.Tenant, dept, sem)
	if subjects == nil {
		subjects = []result.Subject{}
	}
	return ctx.JSON(http.StatusOK, subjects)
}

func (api *resultApi) retrieve(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	return api.studentResults(ctx, claims, claims.Subject)
}

func (api *resultApi) retrieveFor(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	return api.studentResults(ctx, claims, core.CleanString(ctx.Param("htno")))
}

func (api *resultApi) studentResults(ctx echo.Context, claims Claims, htno string) error {
	dept, sem, err := routeParams(ctx)
	if err != nil {
		return err
	}

	subjects := api.resultSvc.StudentSubjects(ctx.Request().Context(), claims.Tenant, dept, sem, htno)
	if subjects == nil {
		subjects = []result.Subject{}
	}
	return ctx.JSON(http.StatusOK, StudentResultsResponse{
		Htno:     htno,
		Semester: sem.String(),
		Subjects: subjects,
		SGPA:     api.gradeSvc.SGPA(subjects),
	})
}

func (api *resultApi) availableSemesters(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	dept, err := routeDept(ctx)
	if err != nil {
		return err
	}

	sems := api.resultSvc.AvailableSemesters(ctx.Request().Context(), claims.Tenant, dept, claims.Subject)
	names := make([]string, 0, len(sems))
	for _, sem := range sems {
		names = append(names, sem.String())
	}
	return ctx.JSON(http.StatusOK, names)
}

func (api *resultApi) grades(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	return api.studentGrades(ctx, claims, claims.Subject)
}

func (api *resultApi) gradesFor(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	return api.studentGrades(ctx, claims, core.CleanString(ctx.Param("htno")))
}

func (api *resultApi) studentGrades(ctx echo.Context, claims Claims, htno string) error {
	dept, err := routeDept(ctx)
	if err != nil {
		return err
	}

	grades, ok := api.gradeSvc.StudentGrades(ctx.Request().Context(), claims.Tenant, dept, htno)
	if !ok {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, grades)
}

func routeDept(ctx echo.Context) (catalog.Dept, error) {
	dept, err := catalog.ParseDept(ctx.Param("dept"))
	if err != nil {
		return "", core.NewValidationError(err, core.FieldError{Field: "dept", Error: err.Error()})
	}
	return dept, nil
}

func routeParams(ctx echo.Context) (catalog.Dept, catalog.Semester, error) {
	dept, err := routeDept(ctx)
	if err != nil {
		return "", catalog.Semester{}, err
	}
	sem, err := catalog.ParseSemester(ctx.Param("sem"))
	if err != nil {
		return "", catalog.Semester{}, core.NewValidationError(err, core.FieldError{Field: "sem", Error: err.Error()})
	}
	return dept, sem, nil
}

type (
	UploadResponse struct {
		Saved int `json:"saved"`
	}

	StudentResultsResponse struct {
		Htno     string           `json:"htno"`
		Semester string           `json:"semester"`
		Subjects []result.Subject `json:"subjects"`
		SGPA     float64          `json:"sgpa"`
	}
)
