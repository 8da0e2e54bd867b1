package committee

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/b7r7b1440/control/core/stage"
)

var (
	// errors
	ErrNotFound = errors.New("committee not found")
)

// Auto-distribution defaults, matching the setup wizard's presets.
const (
	DefaultCommitteeCount   = 25
	DefaultCapacity         = 30
	DefaultInvigilatorCount = 1
	defaultLocationFormat   = "Hall %d"
)

type (
	Repository interface {
		// ReplaceCommittees wipes the table and stores the given set.
		ReplaceCommittees(committees []Committee) error
		// QueryAllCommittees returns committees ordered by room number.
		QueryAllCommittees() ([]Committee, error)
		GetCommitteeByID(id string) (Committee, error)
		UpdateCommittee(c Committee) (Committee, error)
		DeleteAllCommittees() error
	}

	Service struct {
		repo Repository

		// one distribution in flight at a time; concurrent runs against the
		// same room set must not interleave.
		mu sync.Mutex
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) QueryAll() ([]Committee, error) {
	return svc.repo.QueryAllCommittees()
}

func (svc *Service) GetByID(id string) (Committee, error) {
	return svc.repo.GetCommitteeByID(id)
}

// AutoDistribute materializes n fresh committees with default capacity,
// distributes the stages into them and replaces the whole room set.
func (svc *Service) AutoDistribute(stages []stage.Stage, n int) (Result, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if n <= 0 {
		n = DefaultCommitteeCount
	}
	committees := make([]Committee, 0, n)
	for i := 1; i <= n; i++ {
		committees = append(committees, Committee{
			ID:               uuid.New().String(),
			Name:             fmt.Sprintf("%d", i),
			Location:         fmt.Sprintf(defaultLocationFormat, i),
			Capacity:         DefaultCapacity,
			InvigilatorCount: DefaultInvigilatorCount,
		})
	}

	res := Distribute(stages, committees)
	if err := svc.repo.ReplaceCommittees(res.Committees); err != nil {
		return Result{}, err
	}
	return res, nil
}

// Redistribute reruns the engine over the existing room set. With unchanged
// inputs the result is identical, so reset-and-redistribute is idempotent.
func (svc *Service) Redistribute(stages []stage.Stage) (Result, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	committees, err := svc.repo.QueryAllCommittees()
	if err != nil {
		return Result{}, err
	}
	res := Distribute(stages, committees)
	if err := svc.repo.ReplaceCommittees(res.Committees); err != nil {
		return Result{}, err
	}
	return res, nil
}

// ResetDistribution clears every room's assigned counts without touching
// room identities, capacities or the stage registry.
func (svc *Service) ResetDistribution() error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	committees, err := svc.repo.QueryAllCommittees()
	if err != nil {
		return err
	}
	for i := range committees {
		committees[i].Counts = make(map[int]int)
	}
	return svc.repo.ReplaceCommittees(committees)
}

// UpdateInfo applies a manual override to one committee. Overrides may push
// a room over capacity; the caller checks Committee.OverCapacity and warns.
func (svc *Service) UpdateInfo(id string, uc UpdateCommittee) (Committee, error) {
	c, err := svc.repo.GetCommitteeByID(id)
	if err != nil {
		return Committee{}, err
	}
	if uc.Location != nil {
		c.Location = *uc.Location
	}
	if uc.Capacity != nil {
		c.Capacity = *uc.Capacity
	}
	if uc.InvigilatorCount != nil {
		c.InvigilatorCount = *uc.InvigilatorCount
	}
	if uc.Counts != nil {
		c.Counts = uc.Counts
	}
	return svc.repo.UpdateCommittee(c)
}

// DeleteAll wipes the whole room set. Only reachable from the full system reset.
func (svc *Service) DeleteAll() error {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return svc.repo.DeleteAllCommittees()
}
