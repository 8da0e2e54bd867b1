package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/b7r7b1440/control/core/committee"
	"github.com/b7r7b1440/control/core/stage"
)

type committeeApi struct {
	svc      *committee.Service
	stageSvc *stage.Service
	validate *validator.Validate
}

func registerCommitteeAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := committeeApi{svc: opts.CommitteeSvc, stageSvc: opts.StageSvc, validate: opts.Validate}

	cg := g.Group("/committees", jwt)
	cg.GET("", api.query)
	cg.GET("/:id", api.retrieve)
	cg.POST("/distribute", api.distribute, managerMiddleware())
	cg.POST("/reset", api.reset, managerMiddleware())
	cg.PUT("/:id", api.update, managerMiddleware())
}

// Handlers

func (api *committeeApi) query(ctx echo.Context) error {
	committees, err := api.svc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying committees")
	}
	if committees == nil {
		committees = []committee.Committee{}
	}
	return ctx.JSON(http.StatusOK, committees)
}

func (api *committeeApi) retrieve(ctx echo.Context) error {
	c, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding committee by ID")
	}
	return ctx.JSON(http.StatusOK, c)
}

// distribute runs the engine. A fresh room set is materialized unless
// `reuse_rooms` asks to redistribute over the existing one; either way the
// stored set is replaced wholesale.
func (api *committeeApi) distribute(ctx echo.Context) error {
	var data DistributeRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to DistributeRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	stages, err := api.stageSvc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying stages")
	}

	var res committee.Result
	if data.ReuseRooms {
		res, err = api.svc.Redistribute(stages)
	} else {
		res, err = api.svc.AutoDistribute(stages, data.CommitteeCount)
	}
	if err != nil {
		return errors.Wrap(err, "distributing students")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *committeeApi) reset(ctx echo.Context) error {
	if err := api.svc.ResetDistribution(); err != nil {
		return errors.Wrap(err, "resetting distribution")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *committeeApi) update(ctx echo.Context) error {
	var data committee.UpdateCommittee
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateCommittee")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	c, err := api.svc.UpdateInfo(ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating committee")
	}
	return ctx.JSON(http.StatusOK, CommitteeResponse{Committee: c, OverCapacity: c.OverCapacity()})
}

type (
	DistributeRequest struct {
		CommitteeCount int  `json:"committee_count" validate:"omitempty,gt=0"`
		ReuseRooms     bool `json:"reuse_rooms"`
	}

	CommitteeResponse struct {
		committee.Committee
		OverCapacity bool `json:"over_capacity"`
	}
)

func (dr *DistributeRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(dr)
}
