package sqlxrepos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/b7r7b1440/control/core/committee"
)

type committeeRepository struct {
	db *sqlx.DB
}

func NewCommitteeRepository(db *sqlx.DB) committee.Repository {
	return &committeeRepository{db: db}
}

const committeeColumns = `id, name, location, capacity, invigilator_count, stage_counts`

func scanCommittee(row interface {
	Scan(dest ...interface{}) error
}) (committee.Committee, error) {
	var c committee.Committee
	c.Counts = make(map[int]int)
	err := row.Scan(&c.ID, &c.Name, &c.Location, &c.Capacity, &c.InvigilatorCount, jsonDest(&c.Counts))
	return c, err
}

func (repo *committeeRepository) ReplaceCommittees(committees []committee.Committee) error {
	tx, err := repo.db.Begin()
	if err != nil {
		return errors.Wrap(err, "beginning tx")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.Exec(`DELETE FROM committees`); err != nil {
		return errors.Wrap(err, "clearing committees")
	}
	for _, c := range committees {
		_, err = tx.Exec(
			`INSERT INTO committees (`+committeeColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
			c.ID, c.Name, c.Location, c.Capacity, c.InvigilatorCount, jsonVal(c.Counts),
		)
		if err != nil {
			return errors.Wrapf(err, "inserting committee %s", c.Name)
		}
	}
	return tx.Commit()
}

func (repo *committeeRepository) QueryAllCommittees() ([]committee.Committee, error) {
	// room numbers sort numerically; non-numeric names fall back to lexical
	rows, err := repo.db.Query(
		`SELECT ` + committeeColumns + ` FROM committees
		 ORDER BY (CASE WHEN name ~ '^\d+$' THEN name::integer ELSE 2147483647 END), name`,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	committees := make([]committee.Committee, 0)
	for rows.Next() {
		c, err := scanCommittee(rows)
		if err != nil {
			return nil, err
		}
		committees = append(committees, c)
	}
	return committees, rows.Err()
}

func (repo *committeeRepository) GetCommitteeByID(id string) (committee.Committee, error) {
	row := repo.db.QueryRow(`SELECT `+committeeColumns+` FROM committees WHERE id = $1`, id)
	c, err := scanCommittee(row)
	if err == sql.ErrNoRows {
		return committee.Committee{}, committee.ErrNotFound
	}
	return c, err
}

func (repo *committeeRepository) UpdateCommittee(c committee.Committee) (committee.Committee, error) {
	res, err := repo.db.Exec(
		`UPDATE committees SET name = $2, location = $3, capacity = $4, invigilator_count = $5, stage_counts = $6
		 WHERE id = $1`,
		c.ID, c.Name, c.Location, c.Capacity, c.InvigilatorCount, jsonVal(c.Counts),
	)
	if err != nil {
		return committee.Committee{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return committee.Committee{}, committee.ErrNotFound
	}
	return c, nil
}

func (repo *committeeRepository) DeleteAllCommittees() error {
	_, err := repo.db.Exec(`DELETE FROM committees`)
	return err
}
