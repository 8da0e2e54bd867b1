package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/b7r7b1440/control/core/committee"
	"github.com/b7r7b1440/control/core/exam"
	"github.com/b7r7b1440/control/core/stage"
	"github.com/b7r7b1440/control/core/user"
)

type systemApi struct {
	stageSvc     *stage.Service
	committeeSvc *committee.Service
	examSvc      *exam.Service
	userSvc      *user.Service
}

func registerSystemAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := systemApi{
		stageSvc:     opts.StageSvc,
		committeeSvc: opts.CommitteeSvc,
		examSvc:      opts.ExamSvc,
		userSvc:      opts.UserSvc,
	}

	sg := g.Group("/system", jwt, managerMiddleware())
	sg.POST("/clear", api.clear)
}

// clear wipes the whole exam session: envelopes first so no orphaned roster
// can be scanned mid-wipe, then rooms, stages and the user registry.
// The acting manager's own account goes with it; this is a factory reset.
func (api *systemApi) clear(ctx echo.Context) error {
	if err := api.examSvc.DeleteAll(); err != nil {
		return errors.Wrap(err, "deleting envelopes")
	}
	if err := api.committeeSvc.DeleteAll(); err != nil {
		return errors.Wrap(err, "deleting committees")
	}
	if err := api.stageSvc.DeleteAll(); err != nil {
		return errors.Wrap(err, "deleting stages")
	}
	if err := api.userSvc.DeleteAll(); err != nil {
		return errors.Wrap(err, "deleting users")
	}
	return ctx.NoContent(http.StatusNoContent)
}
