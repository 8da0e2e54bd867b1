package exam

import (
	"errors"
	"fmt"
	"hash/fnv"
	"math/rand"
	"sort"

	"github.com/b7r7b1440/control/core"
	"github.com/b7r7b1440/control/core/committee"
	"github.com/b7r7b1440/control/core/stage"
)

// GeneralExam is the sentinel subject used when a period has no subject
// scheduled for a stage.
const GeneralExam = "General Exam"

// Fallback exam window when a period's subjects carry no times.
const (
	defaultStartTime = "08:00"
	defaultEndTime   = "10:00"
)

var (
	// ErrNoDistribution is a blocking precondition: envelopes cannot be
	// generated before the distribution engine has placed students in rooms.
	ErrNoDistribution = errors.New("no students distributed to committees; run distribution first")
)

// GenerateOptions tunes a generation run.
type GenerateOptions struct {
	// ShufflePool shuffles the invigilator pool with a seed derived from the
	// day and period before the round-robin draw. Off means plain pool order.
	// Either way the draw is deterministic for identical inputs.
	ShufflePool bool
	// Today is the fallback date used when the schedule has no days.
	Today string
}

// Generate produces one Envelope per (day, period, committee) combination
// for every committee holding at least one assigned seat. Envelope IDs are
// derived from (date, period, room), so regenerating with unchanged inputs
// reproduces identical IDs: a regeneration replaces the same logical units
// instead of duplicating them.
func Generate(
	stages []stage.Stage,
	committees []committee.Committee,
	sched Schedule,
	teacherPool []string,
	opts GenerateOptions,
) ([]Envelope, error) {
	if err := validateGenerateInput(stages, committees); err != nil {
		return nil, err
	}

	stagesByID := make(map[int]stage.Stage, len(stages))
	for _, stg := range stages {
		stagesByID[stg.ID] = stg
	}

	var withSeats int
	for _, comm := range committees {
		if comm.AssignedTotal() > 0 {
			withSeats++
		}
	}
	if withSeats == 0 {
		return nil, ErrNoDistribution
	}

	days := sched.Days
	if len(days) == 0 {
		// no schedule defined: a single implicit day with one period
		days = []Day{{Date: opts.Today, Periods: []Period{{ID: 1}}}}
	}

	var envelopes []Envelope
	for _, day := range days {
		for _, period := range day.Periods {
			pool := period.TeacherIDs
			if len(pool) == 0 {
				pool = teacherPool
			}
			if opts.ShufflePool {
				pool = shuffledPool(pool, day.Date, period.ID)
			}

			// round-robin cursor advances across rooms within the period, so
			// primary invigilators only repeat once the pool wraps around
			var cursor int
			for _, comm := range committees {
				if comm.AssignedTotal() == 0 {
					continue
				}
				env := buildEnvelope(stagesByID, comm, day, period)
				env.TeacherIDs, cursor = drawInvigilators(pool, cursor, comm.InvigilatorCount)
				envelopes = append(envelopes, env)
			}
		}
	}
	return envelopes, nil
}

func validateGenerateInput(stages []stage.Stage, committees []committee.Committee) error {
	if len(committees) == 0 {
		return ErrNoDistribution
	}
	for _, comm := range committees {
		if comm.Capacity <= 0 {
			return core.NewValidationError(nil, core.FieldError{
				Field: "capacity",
				Error: fmt.Sprintf("committee %s has non-positive capacity", comm.Name),
			})
		}
		for stgID, n := range comm.Counts {
			if n < 0 {
				return core.NewValidationError(nil, core.FieldError{
					Field: "stage_counts",
					Error: fmt.Sprintf("committee %s has a negative count for stage %d", comm.Name, stgID),
				})
			}
		}
	}
	for _, stg := range stages {
		if stg.Total < 0 {
			return core.NewValidationError(nil, core.FieldError{
				Field: "total_students",
				Error: fmt.Sprintf("stage %s has a negative total", stg.Name),
			})
		}
	}
	return nil
}

func buildEnvelope(stagesByID map[int]stage.Stage, comm committee.Committee, day Day, period Period) Envelope {
	// ascending stage ID is the grade progression; it fixes both the seat
	// block order and the subject concatenation order
	stageIDs := make([]int, 0, len(comm.Counts))
	for id, n := range comm.Counts {
		if n > 0 {
			stageIDs = append(stageIDs, id)
		}
	}
	sort.Ints(stageIDs)

	var (
		grades     []string
		subjects   []string
		seen       = map[string]bool{}
		startTime  = defaultStartTime
		endTime    = defaultEndTime
		timesFixed bool
		students   []Student
	)
	for _, stgID := range stageIDs {
		stg, ok := stagesByID[stgID]
		if !ok {
			// count refers to a stage that no longer exists; skip the block
			continue
		}
		grades = append(grades, stg.Name)

		detail, scheduled := period.Subjects[stg.Name]
		if scheduled && detail.Name != GeneralExam {
			if !seen[detail.Name] {
				seen[detail.Name] = true
				subjects = append(subjects, detail.Name)
			}
			if !timesFixed && detail.StartTime != "" && detail.EndTime != "" {
				startTime, endTime = detail.StartTime, detail.EndTime
				timesFixed = true
			}
		}

		// seat sequence restarts per (room, stage); seat numbers only need
		// to be unique within one room and day
		for i := 1; i <= comm.Counts[stgID]; i++ {
			seat := fmt.Sprintf("%s%03d", stg.Prefix, i)
			students = append(students, Student{
				ID:         fmt.Sprintf("s-%d-%s-%d", stgID, comm.Name, i),
				Name:       fmt.Sprintf("Student %s - %d", stg.Name, i),
				SeatNumber: seat,
				Grade:      stg.Name,
				Status:     AttendancePending,
			})
		}
	}

	subject := GeneralExam
	if len(subjects) > 0 {
		subject = joinSubjects(subjects)
	}

	return Envelope{
		ID:              EnvelopeID(day.Date, period.ID, comm.Name),
		Subject:         subject,
		CommitteeNumber: comm.Name,
		Location:        comm.Location,
		Date:            day.Date,
		Grades:          grades,
		StartTime:       startTime,
		EndTime:         endTime,
		Period:          fmt.Sprintf("%d", period.ID),
		Status:          StatusPending,
		Students:        students,
	}
}

// EnvelopeID builds the stable, human-inspectable envelope identifier.
func EnvelopeID(date string, periodID int, committeeName string) string {
	return fmt.Sprintf("env-%s-%d-%s", date, periodID, committeeName)
}

func joinSubjects(subjects []string) string {
	out := subjects[0]
	for _, s := range subjects[1:] {
		out += " / " + s
	}
	return out
}

func drawInvigilators(pool []string, cursor, count int) ([]string, int) {
	if len(pool) == 0 || count <= 0 {
		return nil, cursor
	}
	ids := make([]string, 0, count)
	for i := 0; i < count; i++ {
		ids = append(ids, pool[cursor%len(pool)])
		cursor++
	}
	return ids, cursor
}

func shuffledPool(pool []string, date string, periodID int) []string {
	out := make([]string, len(pool))
	copy(out, pool)

	h := fnv.New64a()
	_, _ = h.Write([]byte(fmt.Sprintf("%s:%d", date, periodID)))
	rnd := rand.New(rand.NewSource(int64(h.Sum64())))
	rnd.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
