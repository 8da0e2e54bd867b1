package sqlxrepos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/b7r7b1440/control/core/exam"
)

type envelopeRepository struct {
	db *sqlx.DB
}

func NewEnvelopeRepository(db *sqlx.DB) exam.Repository {
	return &envelopeRepository{db: db}
}

const envelopeColumns = `id, subject, committee_number, location, date, grades,
	start_time, end_time, period, status, students, teacher_ids, delivery_time`

func scanEnvelope(row interface {
	Scan(dest ...interface{}) error
}) (exam.Envelope, error) {
	var env exam.Envelope
	err := row.Scan(
		&env.ID, &env.Subject, &env.CommitteeNumber, &env.Location, &env.Date,
		jsonDest(&env.Grades), &env.StartTime, &env.EndTime, &env.Period,
		&env.Status, jsonDest(&env.Students), jsonDest(&env.TeacherIDs), &env.DeliveryTime,
	)
	return env, err
}

func (repo *envelopeRepository) ReplaceEnvelopes(envs []exam.Envelope) error {
	tx, err := repo.db.Begin()
	if err != nil {
		return errors.Wrap(err, "beginning tx")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.Exec(`DELETE FROM envelopes`); err != nil {
		return errors.Wrap(err, "clearing envelopes")
	}
	for _, env := range envs {
		_, err = tx.Exec(
			`INSERT INTO envelopes (`+envelopeColumns+`)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			env.ID, env.Subject, env.CommitteeNumber, env.Location, env.Date,
			jsonVal(env.Grades), env.StartTime, env.EndTime, env.Period,
			env.Status, jsonVal(env.Students), jsonVal(env.TeacherIDs), env.DeliveryTime,
		)
		if err != nil {
			return errors.Wrapf(err, "inserting envelope %s", env.ID)
		}
	}
	return tx.Commit()
}

func (repo *envelopeRepository) queryEnvelopes(query string, args ...interface{}) ([]exam.Envelope, error) {
	rows, err := repo.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var envs []exam.Envelope
	for rows.Next() {
		env, err := scanEnvelope(rows)
		if err != nil {
			return nil, err
		}
		envs = append(envs, env)
	}
	return envs, rows.Err()
}

func (repo *envelopeRepository) QueryAllEnvelopes() ([]exam.Envelope, error) {
	return repo.queryEnvelopes(`SELECT ` + envelopeColumns + ` FROM envelopes ORDER BY id`)
}

func (repo *envelopeRepository) QueryEnvelopesByDate(date string) ([]exam.Envelope, error) {
	return repo.queryEnvelopes(`SELECT `+envelopeColumns+` FROM envelopes WHERE date = $1 ORDER BY id`, date)
}

func (repo *envelopeRepository) GetEnvelopeByID(id string) (exam.Envelope, error) {
	row := repo.db.QueryRow(`SELECT `+envelopeColumns+` FROM envelopes WHERE id = $1`, id)
	env, err := scanEnvelope(row)
	if err == sql.ErrNoRows {
		return exam.Envelope{}, exam.ErrNotFound
	}
	return env, err
}

func (repo *envelopeRepository) UpdateEnvelope(env exam.Envelope) (exam.Envelope, error) {
	res, err := repo.db.Exec(
		`UPDATE envelopes SET status = $2, students = $3, delivery_time = $4 WHERE id = $1`,
		env.ID, env.Status, jsonVal(env.Students), env.DeliveryTime,
	)
	if err != nil {
		return exam.Envelope{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return exam.Envelope{}, exam.ErrNotFound
	}
	return env, nil
}

func (repo *envelopeRepository) DeleteAllEnvelopes() error {
	_, err := repo.db.Exec(`DELETE FROM envelopes`)
	return err
}
