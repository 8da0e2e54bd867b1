package inmemdb

import (
	"sort"

	"github.com/b7r7b1440/control/core/stage"
)

type stageRepository struct {
	db *stageTable
}

func NewStageRepository(db *DB) stage.Repository {
	return &stageRepository{db: db.stage}
}

func (repo *stageRepository) query() []stage.Stage {
	stages := make([]stage.Stage, 0, len(repo.db.table))
	for _, stg := range repo.db.table {
		stages = append(stages, *stg)
	}
	sort.Slice(stages, func(i, j int) bool { return stages[i].ID < stages[j].ID })
	return stages
}

func (repo *stageRepository) CheckStageNameUniqueness(name string) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, stg := range repo.db.table {
		if stg.Name == name {
			return stage.ErrNameExists
		}
	}
	return nil
}

func (repo *stageRepository) CreateStage(stg stage.Stage) (stage.Stage, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.pk++
	stg.ID = repo.db.pk
	repo.db.table[stg.ID] = &stg
	return stg, nil
}

func (repo *stageRepository) QueryAllStages() ([]stage.Stage, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *stageRepository) GetStageByID(id int) (stage.Stage, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if stg, ok := repo.db.table[id]; ok {
		return *stg, nil
	}
	return stage.Stage{}, stage.ErrNotFound
}

func (repo *stageRepository) DeleteAllStages() error {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table = make(map[int]*stage.Stage)
	return nil
}
