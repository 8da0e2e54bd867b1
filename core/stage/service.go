package stage

import (
	"errors"

	"github.com/b7r7b1440/control/core"
)

var (
	// errors
	ErrNotFound   = errors.New("stage not found")
	ErrNameExists = errors.New("a stage with this name already exists")
)

type (
	Repository interface {
		CheckStageNameUniqueness(name string) error
		CreateStage(stg Stage) (Stage, error)
		// QueryAllStages returns stages ordered by ascending ID; the ID order
		// is the grade progression the rest of the system relies on.
		QueryAllStages() ([]Stage, error)
		GetStageByID(id int) (Stage, error)
		DeleteAllStages() error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) checkUniqueness(name string) error {
	if err := svc.repo.CheckStageNameUniqueness(name); err != nil {
		if err == ErrNameExists {
			return core.NewValidationError(err, core.FieldError{Field: "name", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Create(ns NewStage) (Stage, error) {
	stg := Stage{
		Name:   ns.Name,
		Prefix: ns.Prefix,
		Total:  ns.Total,
	}
	return svc.repo.CreateStage(stg)
}

func (svc *Service) QueryAll() ([]Stage, error) {
	return svc.repo.QueryAllStages()
}

func (svc *Service) GetByID(id int) (Stage, error) {
	return svc.repo.GetStageByID(id)
}

// DeleteAll wipes the whole registry. Only reachable from the full
// system reset; individual stages are never deleted.
func (svc *Service) DeleteAll() error {
	return svc.repo.DeleteAllStages()
}
