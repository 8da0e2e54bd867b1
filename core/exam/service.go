package exam

import (
	"errors"
	"sync"
	"time"

	"github.com/b7r7b1440/control/core"
	"github.com/b7r7b1440/control/core/committee"
	"github.com/b7r7b1440/control/core/stage"
)

var (
	// errors
	ErrNotFound        = errors.New("envelope not found")
	ErrStudentNotFound = errors.New("student not found in envelope")
)

type (
	Repository interface {
		// ReplaceEnvelopes wipes the table and stores the given set; a
		// publish run replaces the previous one wholesale.
		ReplaceEnvelopes(envs []Envelope) error
		QueryAllEnvelopes() ([]Envelope, error)
		QueryEnvelopesByDate(date string) ([]Envelope, error)
		GetEnvelopeByID(id string) (Envelope, error)
		UpdateEnvelope(env Envelope) (Envelope, error)
		DeleteAllEnvelopes() error
	}

	Options struct {
		// AttendanceDefaultPresent: opening an envelope marks every student
		// PRESENT instead of leaving them PENDING. Absences then need
		// explicit marking, which changes what "absentee" means downstream.
		AttendanceDefaultPresent bool
		ShuffleInvigilators      bool
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
		opts    Options
		now     func() time.Time

		// one publish in flight at a time
		pubMu sync.Mutex
	}
)

func NewService(repo Repository, mailSvc core.EmailService, opts Options) *Service {
	return &Service{
		repo:    repo,
		mailSvc: mailSvc,
		opts:    opts,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// NewServiceWithClock is for tests that need a fixed clock.
func NewServiceWithClock(repo Repository, mailSvc core.EmailService, opts Options, now func() time.Time) *Service {
	svc := NewService(repo, mailSvc, opts)
	svc.now = now
	return svc
}

func (svc *Service) today() string {
	return svc.now().Format("2006-01-02")
}

// Publish generates the envelope set for the given distribution and schedule
// and replaces whatever was published before.
func (svc *Service) Publish(
	stages []stage.Stage,
	committees []committee.Committee,
	sched Schedule,
	teacherPool []string,
) ([]Envelope, error) {
	svc.pubMu.Lock()
	defer svc.pubMu.Unlock()

	envs, err := Generate(stages, committees, sched, teacherPool, GenerateOptions{
		ShufflePool: svc.opts.ShuffleInvigilators,
		Today:       svc.today(),
	})
	if err != nil {
		return nil, err
	}
	if err := svc.repo.ReplaceEnvelopes(envs); err != nil {
		return nil, err
	}
	return envs, nil
}

func (svc *Service) QueryAll() ([]Envelope, error) {
	return svc.repo.QueryAllEnvelopes()
}

func (svc *Service) QueryByDate(date string) ([]Envelope, error) {
	return svc.repo.QueryEnvelopesByDate(date)
}

func (svc *Service) GetByID(id string) (Envelope, error) {
	return svc.repo.GetEnvelopeByID(id)
}

// DeleteAll wipes every envelope. Only reachable from the full system reset.
func (svc *Service) DeleteAll() error {
	svc.pubMu.Lock()
	defer svc.pubMu.Unlock()
	return svc.repo.DeleteAllEnvelopes()
}
