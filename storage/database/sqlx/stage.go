package sqlxrepos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/b7r7b1440/control/core/stage"
)

type stageRepository struct {
	db *sqlx.DB
}

func NewStageRepository(db *sqlx.DB) stage.Repository {
	return &stageRepository{db: db}
}

func (repo *stageRepository) CheckStageNameUniqueness(name string) error {
	var exists bool
	err := repo.db.Get(&exists, `SELECT EXISTS (SELECT 1 FROM stages WHERE name = $1)`, name)
	if err != nil {
		return err
	}
	if exists {
		return stage.ErrNameExists
	}
	return nil
}

func (repo *stageRepository) CreateStage(stg stage.Stage) (stage.Stage, error) {
	err := repo.db.Get(
		&stg.ID,
		`INSERT INTO stages (name, prefix, total_students) VALUES ($1, $2, $3) RETURNING id`,
		stg.Name, stg.Prefix, stg.Total,
	)
	return stg, err
}

func (repo *stageRepository) QueryAllStages() ([]stage.Stage, error) {
	stages := make([]stage.Stage, 0)
	err := repo.db.Select(&stages, `SELECT id, name, prefix, total_students FROM stages ORDER BY id`)
	return stages, err
}

func (repo *stageRepository) GetStageByID(id int) (stage.Stage, error) {
	var stg stage.Stage
	err := repo.db.Get(&stg, `SELECT id, name, prefix, total_students FROM stages WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return stage.Stage{}, stage.ErrNotFound
	}
	return stg, err
}

func (repo *stageRepository) DeleteAllStages() error {
	_, err := repo.db.Exec(`DELETE FROM stages`)
	return err
}
