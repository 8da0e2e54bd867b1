package exam

import (
	"bytes"
	"net/mail"
	"sort"
	"strconv"
	texttmpl "text/template"

	"github.com/pkg/errors"

	"github.com/b7r7b1440/control/core"
)

// AbsenteeEntry flattens one absent student with the envelope context the
// control office needs to follow up.
type AbsenteeEntry struct {
	Student         Student `json:"student"`
	EnvelopeID      string  `json:"envelope_id"`
	Subject         string  `json:"subject"`
	CommitteeNumber string  `json:"committee_number"`
	Location        string  `json:"location"`
}

// BoardEntry groups one room's envelopes for the control board: the stage
// breakdown plus its exams ordered by start time.
type BoardEntry struct {
	Number         string         `json:"number"`
	Location       string         `json:"location"`
	StageBreakdown map[string]int `json:"stage_breakdown"`
	Exams          []Envelope     `json:"exams"`
}

// The aggregations below are pure folds over an envelope list; they keep no
// cached counters and can be recomputed at any time.

// Absentees lists every student marked ABSENT on the given date.
func Absentees(envs []Envelope, date string) []AbsenteeEntry {
	var out []AbsenteeEntry
	for _, env := range envs {
		if env.Date != date {
			continue
		}
		for _, s := range env.Students {
			if s.Status == AttendanceAbsent {
				out = append(out, AbsenteeEntry{
					Student:         s,
					EnvelopeID:      env.ID,
					Subject:         env.Subject,
					CommitteeNumber: env.CommitteeNumber,
					Location:        env.Location,
				})
			}
		}
	}
	return out
}

// DeliveryCompletion is the percentage of envelopes control has received.
func DeliveryCompletion(envs []Envelope) float64 {
	if len(envs) == 0 {
		return 0
	}
	var delivered int
	for _, env := range envs {
		if env.Status == StatusDelivered {
			delivered++
		}
	}
	return float64(delivered) / float64(len(envs)) * 100
}

// PerRoomAbsenceCounts counts absences per room number on the given date.
func PerRoomAbsenceCounts(envs []Envelope, date string) map[string]int {
	out := make(map[string]int)
	for _, env := range envs {
		if env.Date != date {
			continue
		}
		for _, s := range env.Students {
			if s.Status == AttendanceAbsent {
				out[env.CommitteeNumber]++
			}
		}
	}
	return out
}

// Board groups envelopes per room, sorted by numeric room number, each
// room's exams sorted by start time.
func Board(envs []Envelope) []BoardEntry {
	groups := make(map[string]*BoardEntry)
	for _, env := range envs {
		entry, ok := groups[env.CommitteeNumber]
		if !ok {
			entry = &BoardEntry{
				Number:         env.CommitteeNumber,
				Location:       env.Location,
				StageBreakdown: make(map[string]int),
			}
			for _, s := range env.Students {
				entry.StageBreakdown[s.Grade]++
			}
			groups[env.CommitteeNumber] = entry
		}
		entry.Exams = append(entry.Exams, env)
	}

	out := make([]BoardEntry, 0, len(groups))
	for _, entry := range groups {
		sort.Slice(entry.Exams, func(i, j int) bool { return entry.Exams[i].StartTime < entry.Exams[j].StartTime })
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool {
		a, aerr := strconv.Atoi(out[i].Number)
		b, berr := strconv.Atoi(out[j].Number)
		if aerr != nil || berr != nil {
			return out[i].Number < out[j].Number
		}
		return a < b
	})
	return out
}

// Service wrappers

func (svc *Service) Absentees(date string) ([]AbsenteeEntry, error) {
	envs, err := svc.repo.QueryEnvelopesByDate(date)
	if err != nil {
		return nil, err
	}
	return Absentees(envs, date), nil
}

func (svc *Service) DeliveryCompletion() (float64, error) {
	envs, err := svc.repo.QueryAllEnvelopes()
	if err != nil {
		return 0, err
	}
	return DeliveryCompletion(envs), nil
}

func (svc *Service) PerRoomAbsenceCounts(date string) (map[string]int, error) {
	envs, err := svc.repo.QueryEnvelopesByDate(date)
	if err != nil {
		return nil, err
	}
	return PerRoomAbsenceCounts(envs, date), nil
}

func (svc *Service) Board() ([]BoardEntry, error) {
	envs, err := svc.repo.QueryAllEnvelopes()
	if err != nil {
		return nil, err
	}
	return Board(envs), nil
}

var absenceReportTmpl = texttmpl.Must(texttmpl.New("absenceReport").Parse(
	`Absence report for {{ .Date }}

{{ if .Entries }}{{ range .Entries }}- {{ .Student.Name }} (seat {{ .Student.SeatNumber }}), committee {{ .CommitteeNumber }}, {{ .Subject }}
{{ end }}{{ else }}No absences recorded.
{{ end }}`))

// SendAbsenceReport emails the day's absentee list to the given recipients.
func (svc *Service) SendAbsenceReport(date string, to []mail.Address) error {
	entries, err := svc.Absentees(date)
	if err != nil {
		return errors.Wrap(err, "aggregating absentees")
	}

	var body bytes.Buffer
	data := struct {
		Date    string
		Entries []AbsenteeEntry
	}{Date: date, Entries: entries}
	if err := absenceReportTmpl.Execute(&body, data); err != nil {
		return errors.Wrap(err, "rendering absence report")
	}

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:          to,
		Subject:     "Absence report " + date,
		TextContent: body.String(),
	})
	return nil
}
