package inmemdb

import (
	"sort"
	"strconv"

	"github.com/b7r7b1440/control/core/committee"
)

type committeeRepository struct {
	db *committeeTable
}

func NewCommitteeRepository(db *DB) committee.Repository {
	return &committeeRepository{db: db.committee}
}

func cloneCommittee(c committee.Committee) committee.Committee {
	counts := make(map[int]int, len(c.Counts))
	for k, v := range c.Counts {
		counts[k] = v
	}
	c.Counts = counts
	return c
}

func (repo *committeeRepository) query() []committee.Committee {
	committees := make([]committee.Committee, 0, len(repo.db.table))
	for _, c := range repo.db.table {
		committees = append(committees, cloneCommittee(*c))
	}
	// room numbers sort numerically; non-numeric names fall back to lexical
	sort.Slice(committees, func(i, j int) bool {
		a, aerr := strconv.Atoi(committees[i].Name)
		b, berr := strconv.Atoi(committees[j].Name)
		if aerr != nil || berr != nil {
			return committees[i].Name < committees[j].Name
		}
		return a < b
	})
	return committees
}

func (repo *committeeRepository) ReplaceCommittees(committees []committee.Committee) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table = make(map[string]*committee.Committee, len(committees))
	for _, c := range committees {
		c := cloneCommittee(c)
		repo.db.table[c.ID] = &c
	}
	return nil
}

func (repo *committeeRepository) QueryAllCommittees() ([]committee.Committee, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *committeeRepository) GetCommitteeByID(id string) (committee.Committee, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if c, ok := repo.db.table[id]; ok {
		return cloneCommittee(*c), nil
	}
	return committee.Committee{}, committee.ErrNotFound
}

func (repo *committeeRepository) UpdateCommittee(c committee.Committee) (committee.Committee, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[c.ID]; !ok {
		return committee.Committee{}, committee.ErrNotFound
	}
	stored := cloneCommittee(c)
	repo.db.table[c.ID] = &stored
	return cloneCommittee(stored), nil
}

func (repo *committeeRepository) DeleteAllCommittees() error {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table = make(map[string]*committee.Committee)
	return nil
}
