package inmemdb

import (
	"sort"

	"github.com/b7r7b1440/control/core/exam"
)

type envelopeRepository struct {
	db *envelopeTable
}

func NewEnvelopeRepository(db *DB) exam.Repository {
	return &envelopeRepository{db: db.envelope}
}

func cloneEnvelope(env exam.Envelope) exam.Envelope {
	students := make([]exam.Student, len(env.Students))
	copy(students, env.Students)
	env.Students = students

	grades := make([]string, len(env.Grades))
	copy(grades, env.Grades)
	env.Grades = grades

	teacherIDs := make([]string, len(env.TeacherIDs))
	copy(teacherIDs, env.TeacherIDs)
	env.TeacherIDs = teacherIDs

	if env.DeliveryTime != nil {
		t := *env.DeliveryTime
		env.DeliveryTime = &t
	}
	return env
}

func (repo *envelopeRepository) query() []exam.Envelope {
	envs := make([]exam.Envelope, 0, len(repo.db.table))
	for _, env := range repo.db.table {
		envs = append(envs, cloneEnvelope(*env))
	}
	sort.Slice(envs, func(i, j int) bool { return envs[i].ID < envs[j].ID })
	return envs
}

func (repo *envelopeRepository) ReplaceEnvelopes(envs []exam.Envelope) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table = make(map[string]*exam.Envelope, len(envs))
	for _, env := range envs {
		env := cloneEnvelope(env)
		repo.db.table[env.ID] = &env
	}
	return nil
}

func (repo *envelopeRepository) QueryAllEnvelopes() ([]exam.Envelope, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *envelopeRepository) QueryEnvelopesByDate(date string) ([]exam.Envelope, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var envs []exam.Envelope
	for _, env := range repo.query() {
		if env.Date == date {
			envs = append(envs, env)
		}
	}
	return envs, nil
}

func (repo *envelopeRepository) GetEnvelopeByID(id string) (exam.Envelope, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if env, ok := repo.db.table[id]; ok {
		return cloneEnvelope(*env), nil
	}
	return exam.Envelope{}, exam.ErrNotFound
}

func (repo *envelopeRepository) UpdateEnvelope(env exam.Envelope) (exam.Envelope, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[env.ID]; !ok {
		return exam.Envelope{}, exam.ErrNotFound
	}
	stored := cloneEnvelope(env)
	repo.db.table[env.ID] = &stored
	return cloneEnvelope(stored), nil
}

func (repo *envelopeRepository) DeleteAllEnvelopes() error {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table = make(map[string]*exam.Envelope)
	return nil
}
