package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/b7r7b1440/control/core/stage"
)

type stageApi struct {
	svc      *stage.Service
	validate *validator.Validate
}

func registerStageAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := stageApi{svc: opts.StageSvc, validate: opts.Validate}

	sg := g.Group("/stages", jwt)
	sg.GET("", api.query)
	sg.POST("", api.create, managerMiddleware())
	sg.DELETE("", api.destroyAll, managerMiddleware())
}

// Handlers

func (api *stageApi) create(ctx echo.Context) error {
	var data stage.NewStage
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStage")
	}
	if err := data.Validate(api.validate, api.svc); err != nil {
		return err
	}

	stg, err := api.svc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating stage")
	}
	return ctx.JSON(http.StatusCreated, stg)
}

func (api *stageApi) query(ctx echo.Context) error {
	stages, err := api.svc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying stages")
	}
	if stages == nil {
		stages = []stage.Stage{}
	}
	return ctx.JSON(http.StatusOK, stages)
}

func (api *stageApi) destroyAll(ctx echo.Context) error {
	if err := api.svc.DeleteAll(); err != nil {
		return errors.Wrap(err, "deleting stages")
	}
	return ctx.NoContent(http.StatusNoContent)
}
