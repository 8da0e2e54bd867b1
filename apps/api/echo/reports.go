package echoapi

import (
	"net/http"
	"net/mail"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/b7r7b1440/control/core"
	"github.com/b7r7b1440/control/core/exam"
	"github.com/b7r7b1440/control/core/user"
)

type reportApi struct {
	svc      *exam.Service
	validate *validator.Validate
}

func registerReportAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := reportApi{svc: opts.ExamSvc, validate: opts.Validate}

	// supervisors only see their own room via the envelope endpoints;
	// the aggregated views are for the control room and management
	rg := g.Group("/reports", jwt, roleMiddleware(user.RoleManager, user.RoleControl, user.RoleCounselor))
	rg.GET("/absentees", api.absentees)
	rg.GET("/delivery", api.delivery)
	rg.GET("/rooms", api.rooms)
	rg.GET("/board", api.board)
	rg.POST("/absentees/send", api.sendAbsentees, roleMiddleware(user.RoleManager, user.RoleCounselor))
}

func reportDate(ctx echo.Context) string {
	if date := ctx.QueryParam("date"); date != "" {
		return date
	}
	return time.Now().Format("2006-01-02")
}

// Handlers

func (api *reportApi) absentees(ctx echo.Context) error {
	entries, err := api.svc.Absentees(reportDate(ctx))
	if err != nil {
		return errors.Wrap(err, "listing absentees")
	}
	if entries == nil {
		entries = []exam.AbsenteeEntry{}
	}
	return ctx.JSON(http.StatusOK, entries)
}

func (api *reportApi) delivery(ctx echo.Context) error {
	pct, err := api.svc.DeliveryCompletion()
	if err != nil {
		return errors.Wrap(err, "computing delivery completion")
	}
	return ctx.JSON(http.StatusOK, DeliveryResponse{Completion: pct})
}

func (api *reportApi) rooms(ctx echo.Context) error {
	counts, err := api.svc.PerRoomAbsenceCounts(reportDate(ctx))
	if err != nil {
		return errors.Wrap(err, "counting per-room absences")
	}
	if counts == nil {
		counts = map[string]int{}
	}
	return ctx.JSON(http.StatusOK, counts)
}

func (api *reportApi) board(ctx echo.Context) error {
	entries, err := api.svc.Board()
	if err != nil {
		return errors.Wrap(err, "building committee board")
	}
	if entries == nil {
		entries = []exam.BoardEntry{}
	}
	return ctx.JSON(http.StatusOK, entries)
}

func (api *reportApi) sendAbsentees(ctx echo.Context) error {
	var data SendAbsenteesRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SendAbsenteesRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	to := make([]mail.Address, 0, len(data.To))
	for _, addr := range data.To {
		to = append(to, mail.Address{Address: addr})
	}
	if err := api.svc.SendAbsenceReport(data.Date, to); err != nil {
		return errors.Wrap(err, "sending absence report")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Absence report is on its way."})
}

type (
	DeliveryResponse struct {
		Completion float64 `json:"completion"`
	}

	SendAbsenteesRequest struct {
		Date string   `json:"date" validate:"required,examdate"`
		To   []string `json:"to" validate:"min=1,dive,email"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}
)

func (sr *SendAbsenteesRequest) Validate(validate *validator.Validate) error {
	sr.Date = core.CleanString(sr.Date)
	return validate.Struct(sr)
}
