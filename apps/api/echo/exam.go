package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/b7r7b1440/control/core/committee"
	"github.com/b7r7b1440/control/core/exam"
	"github.com/b7r7b1440/control/core/stage"
	"github.com/b7r7b1440/control/core/user"
)

type examApi struct {
	svc          *exam.Service
	stageSvc     *stage.Service
	committeeSvc *committee.Service
	userSvc      *user.Service
	validate     *validator.Validate
}

func registerExamAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := examApi{
		svc:          opts.ExamSvc,
		stageSvc:     opts.StageSvc,
		committeeSvc: opts.CommitteeSvc,
		userSvc:      opts.UserSvc,
		validate:     opts.Validate,
	}

	eg := g.Group("/envelopes", jwt)
	eg.GET("", api.query)
	eg.GET("/:id", api.retrieve)
	eg.POST("/publish", api.publish, managerMiddleware())
	eg.POST("/scan", api.scan)
	eg.POST("/complete", api.complete, roleMiddleware(user.RoleTeacher, user.RoleManager))
	eg.PUT("/:id/students/:sid", api.markAttendance, roleMiddleware(user.RoleTeacher, user.RoleManager))
}

// Handlers

func (api *examApi) query(ctx echo.Context) error {
	var envs []exam.Envelope
	var err error

	if date := ctx.QueryParam("date"); date != "" {
		envs, err = api.svc.QueryByDate(date)
	} else {
		envs, err = api.svc.QueryAll()
	}
	if err != nil {
		return errors.Wrap(err, "querying envelopes")
	}
	if envs == nil {
		envs = []exam.Envelope{}
	}
	return ctx.JSON(http.StatusOK, envs)
}

func (api *examApi) retrieve(ctx echo.Context) error {
	env, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding envelope by ID")
	}
	return ctx.JSON(http.StatusOK, env)
}

// publish regenerates the full envelope set from the current distribution,
// the posted schedule and the active teacher pool.
func (api *examApi) publish(ctx echo.Context) error {
	var data exam.Schedule
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Schedule")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	stages, err := api.stageSvc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying stages")
	}
	committees, err := api.committeeSvc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying committees")
	}
	teachers, err := api.userSvc.QueryTeachers()
	if err != nil {
		return errors.Wrap(err, "querying teachers")
	}
	pool := make([]string, 0, len(teachers))
	for _, t := range teachers {
		pool = append(pool, t.ID)
	}

	envs, err := api.svc.Publish(stages, committees, data, pool)
	if err != nil {
		return errors.Wrap(err, "publishing envelopes")
	}
	return ctx.JSON(http.StatusCreated, envs)
}

// scan applies one barcode payload; the scanning actor's role comes from
// their token, never from the request body.
func (api *examApi) scan(ctx echo.Context) error {
	var data exam.ScanRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ScanRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	env, err := api.svc.Scan(data.Code, claims.Role)
	if err != nil {
		return errors.Wrap(err, "scanning envelope")
	}
	return ctx.JSON(http.StatusOK, env)
}

func (api *examApi) complete(ctx echo.Context) error {
	var data exam.ScanRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ScanRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	env, err := api.svc.Complete(data.Code)
	if err != nil {
		return errors.Wrap(err, "completing envelope")
	}
	return ctx.JSON(http.StatusOK, env)
}

func (api *examApi) markAttendance(ctx echo.Context) error {
	var data exam.MarkAttendanceRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MarkAttendanceRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	env, err := api.svc.MarkAttendance(ctx.Param("id"), ctx.Param("sid"), data.Status)
	if err != nil {
		return errors.Wrap(err, "marking attendance")
	}
	return ctx.JSON(http.StatusOK, env)
}
