package exam

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/b7r7b1440/control/core"
)

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "PRESENT"
	AttendanceAbsent  AttendanceStatus = "ABSENT"
	AttendanceLate    AttendanceStatus = "LATE"
	AttendancePending AttendanceStatus = "PENDING"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate, AttendancePending:
		return true
	}
	return false
}

type EnvelopeStatus string

// Envelope lifecycle. Status only ever moves forward:
// PENDING -> RECEIVED -> COMPLETED -> DELIVERED.
const (
	StatusPending   EnvelopeStatus = "PENDING"   // generated, not yet opened in the room
	StatusReceived  EnvelopeStatus = "RECEIVED"  // supervisor opened the session
	StatusCompleted EnvelopeStatus = "COMPLETED" // supervisor finished, awaiting control
	StatusDelivered EnvelopeStatus = "DELIVERED" // control received and archived
)

// Student is a synthetic roster entry: a seat slot materialized at publish
// time, not an externally sourced identity.
type Student struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	SeatNumber string           `json:"seat_number"`
	Grade      string           `json:"grade"` // stage name
	Status     AttendanceStatus `json:"status"`
}

type SubjectDetail struct {
	Name      string `json:"name" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

// Period holds one exam slot of a day: which subject each stage sits, and
// optionally which teachers are available to invigilate it. An empty
// TeacherIDs list means the whole teacher pool is available.
type Period struct {
	ID         int                      `json:"period_id" validate:"gt=0"`
	TeacherIDs []string                 `json:"teacher_ids"`
	Subjects   map[string]SubjectDetail `json:"subjects" validate:"omitempty,dive"` // stage name -> subject
}

type Day struct {
	Date    string   `json:"date" validate:"required,examdate"`
	Periods []Period `json:"periods" validate:"min=1,dive"`
}

type Schedule struct {
	Days []Day `json:"days" validate:"dive"`
}

func (s *Schedule) Validate(validate *validator.Validate) error {
	return validate.Struct(s)
}

// Envelope is the unit of work for one room, one period, one day: the
// subject bundle, the seat roster and the hand-off status. Its ID and the
// room number are both accepted as scan payloads.
type Envelope struct {
	ID              string         `json:"id"`
	Subject         string         `json:"subject"`
	CommitteeNumber string         `json:"committee_number"`
	Location        string         `json:"location"`
	Date            string         `json:"date"`
	Grades          []string       `json:"grades"`
	StartTime       string         `json:"start_time"`
	EndTime         string         `json:"end_time"`
	Period          string         `json:"period"`
	Status          EnvelopeStatus `json:"status"`
	Students        []Student      `json:"students"`
	TeacherIDs      []string       `json:"teacher_ids"`
	DeliveryTime    *time.Time     `json:"delivery_time,omitempty"`
}

// ScanRequest is a decoded barcode payload presented by an operator.
type ScanRequest struct {
	Code string `json:"code" validate:"required"`
}

func (sr *ScanRequest) Validate(validate *validator.Validate) error {
	sr.Code = core.CleanString(sr.Code)
	return validate.Struct(sr)
}

// MarkAttendanceRequest sets one student's attendance inside an open envelope.
type MarkAttendanceRequest struct {
	Status AttendanceStatus `json:"status" validate:"required"`
}

func (mr *MarkAttendanceRequest) Validate(validate *validator.Validate) error {
	if err := validate.Struct(mr); err != nil {
		return err
	}
	if !mr.Status.Valid() {
		return core.NewValidationError(nil, core.FieldError{Field: "status", Error: "invalid attendance status"})
	}
	return nil
}
