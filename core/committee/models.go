package committee

import (
	"github.com/go-playground/validator/v10"

	"github.com/b7r7b1440/control/core"
)

// Committee is a physical exam room: a seat capacity, a location and the
// seat counts the distribution engine assigned to it per stage.
type Committee struct {
	ID               string      `json:"id" db:"id"`
	Name             string      `json:"name" db:"name"` // human room number, also a valid scan payload
	Location         string      `json:"location" db:"location"`
	Capacity         int         `json:"capacity" db:"capacity"`
	InvigilatorCount int         `json:"invigilator_count" db:"invigilator_count"`
	Counts           map[int]int `json:"stage_counts"` // stage ID -> assigned seats
}

// AssignedTotal is the number of seats currently taken in this room.
func (c Committee) AssignedTotal() int {
	var total int
	for _, n := range c.Counts {
		total += n
	}
	return total
}

// OverCapacity reports whether manual overrides pushed the room past its
// capacity. The engine never does this on its own; overrides are allowed
// and only surfaced as a warning.
func (c Committee) OverCapacity() bool {
	return c.AssignedTotal() > c.Capacity
}

// NewCommittee contains information needed to register a new Committee.
type NewCommittee struct {
	Name             string `json:"name" validate:"required"`
	Location         string `json:"location" validate:"required"`
	Capacity         int    `json:"capacity" validate:"gt=0"`
	InvigilatorCount int    `json:"invigilator_count" validate:"min=1,max=4"`
}

func (nc *NewCommittee) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	nc.Location = core.CleanString(nc.Location)
	return validate.Struct(nc)
}

// UpdateCommittee defines what may be modified on an existing Committee.
// Nil fields are left untouched.
type UpdateCommittee struct {
	Location         *string     `json:"location" validate:"omitempty,min=1"`
	Capacity         *int        `json:"capacity" validate:"omitempty,gt=0"`
	InvigilatorCount *int        `json:"invigilator_count" validate:"omitempty,min=1,max=4"`
	Counts           map[int]int `json:"stage_counts" validate:"omitempty,dive,gte=0"`
}

func (uc *UpdateCommittee) Validate(validate *validator.Validate) error {
	if uc.Location != nil {
		*uc.Location = core.CleanString(*uc.Location)
	}
	return validate.Struct(uc)
}
