package stage

import (
	"github.com/go-playground/validator/v10"

	"github.com/b7r7b1440/control/core"
)

// Stage is a grade-level cohort: all its students share a seat number prefix.
// Total is committed once at import time and never edited afterwards; the
// only way to get rid of a stage is a full system reset.
type Stage struct {
	ID     int    `json:"id" db:"id"`
	Name   string `json:"name" db:"name"`
	Prefix string `json:"prefix" db:"prefix"`
	Total  int    `json:"total_students" db:"total_students"`
}

// NewStage contains information needed to register a new Stage.
type NewStage struct {
	Name   string `json:"name" validate:"required"`
	Prefix string `json:"prefix" validate:"required,numeric"`
	Total  int    `json:"total_students" validate:"gte=0"`
}

func (ns *NewStage) Validate(validate *validator.Validate, svc *Service) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Prefix = core.CleanString(ns.Prefix)

	if err := validate.Struct(ns); err != nil {
		return err
	}
	return svc.checkUniqueness(ns.Name)
}
