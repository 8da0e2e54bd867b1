package exam

import (
	"errors"

	"github.com/b7r7b1440/control/core/user"
)

// Scan-time rejections. Each one implies a different corrective action for
// the operator, so they are never collapsed into a generic failure.
var (
	ErrUnknownCode      = errors.New("scanned code matches no envelope on today's schedule")
	ErrNotReady         = errors.New("supervisor has not finished this committee yet")
	ErrAlreadyDelivered = errors.New("envelope was already received and archived by control")
	ErrEnvelopeClosed   = errors.New("committee is closed and handed over to control")
)

// Scan applies one decoded barcode payload from an actor with the given
// role. The code may be an envelope ID or a room number; matching is scoped
// to envelopes dated today. There is no lock around concurrent scans: the
// transition guards are the correctness backstop, a second DELIVERED attempt
// is rejected rather than re-applied.
func (svc *Service) Scan(code, role string) (Envelope, error) {
	env, err := svc.findByCode(code)
	if err != nil {
		return Envelope{}, err
	}

	switch role {
	case user.RoleControl:
		return svc.controlScan(env)
	case user.RoleTeacher:
		return svc.supervisorScan(env)
	default:
		// managers and counselors observe; scanning does not transition
		return env, nil
	}
}

// controlScan is the final hand-off: control only ever accepts a committee
// its supervisor has finished.
func (svc *Service) controlScan(env Envelope) (Envelope, error) {
	switch env.Status {
	case StatusCompleted:
		now := svc.now()
		env.Status = StatusDelivered
		env.DeliveryTime = &now
		return svc.repo.UpdateEnvelope(env)
	case StatusDelivered:
		return Envelope{}, ErrAlreadyDelivered
	default: // PENDING, RECEIVED
		return Envelope{}, ErrNotReady
	}
}

// supervisorScan opens the room session. Re-scanning an already open
// envelope is a no-op so a supervisor can resume marking at any time.
func (svc *Service) supervisorScan(env Envelope) (Envelope, error) {
	switch env.Status {
	case StatusPending:
		env.Status = StatusReceived
		if svc.opts.AttendanceDefaultPresent {
			for i := range env.Students {
				env.Students[i].Status = AttendancePresent
			}
		}
		return svc.repo.UpdateEnvelope(env)
	case StatusReceived:
		return env, nil
	default: // COMPLETED, DELIVERED
		return Envelope{}, ErrEnvelopeClosed
	}
}

// Complete is the supervisor's explicit "finish & hand over": it closes the
// room session and makes the envelope collectable by control.
func (svc *Service) Complete(code string) (Envelope, error) {
	env, err := svc.findByCode(code)
	if err != nil {
		return Envelope{}, err
	}
	switch env.Status {
	case StatusReceived:
		env.Status = StatusCompleted
		return svc.repo.UpdateEnvelope(env)
	case StatusPending:
		return Envelope{}, ErrNotReady
	default: // COMPLETED, DELIVERED
		return Envelope{}, ErrEnvelopeClosed
	}
}

// MarkAttendance sets one student's attendance. Only allowed while the
// envelope is open (RECEIVED): not before the supervisor scanned in, not
// after hand-over. Last write wins; freely repeatable and reversible.
func (svc *Service) MarkAttendance(envID, studentID string, status AttendanceStatus) (Envelope, error) {
	env, err := svc.repo.GetEnvelopeByID(envID)
	if err != nil {
		return Envelope{}, err
	}
	switch env.Status {
	case StatusReceived:
	case StatusPending:
		return Envelope{}, ErrNotReady
	default:
		return Envelope{}, ErrEnvelopeClosed
	}

	var found bool
	for i := range env.Students {
		if env.Students[i].ID == studentID {
			env.Students[i].Status = status
			found = true
			break
		}
	}
	if !found {
		return Envelope{}, ErrStudentNotFound
	}
	return svc.repo.UpdateEnvelope(env)
}

// findByCode matches a scan payload against envelope IDs and room numbers on
// today's schedule, tolerating QR codes that carry either.
func (svc *Service) findByCode(code string) (Envelope, error) {
	envs, err := svc.repo.QueryEnvelopesByDate(svc.today())
	if err != nil {
		return Envelope{}, err
	}
	for _, env := range envs {
		if env.ID == code || env.CommitteeNumber == code {
			return env, nil
		}
	}
	return Envelope{}, ErrUnknownCode
}
