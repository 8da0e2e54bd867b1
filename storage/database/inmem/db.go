package inmemdb

import (
	"sync"

	"github.com/b7r7b1440/control/core/committee"
	"github.com/b7r7b1440/control/core/exam"
	"github.com/b7r7b1440/control/core/stage"
	"github.com/b7r7b1440/control/core/user"
)

type (
	DB struct {
		stage     *stageTable
		committee *committeeTable
		envelope  *envelopeTable
		user      *userTable
	}

	stageTable struct {
		sync.RWMutex
		table map[int]*stage.Stage
		pk    int
	}

	committeeTable struct {
		sync.RWMutex
		table map[string]*committee.Committee
	}

	envelopeTable struct {
		sync.RWMutex
		table map[string]*exam.Envelope
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
		seq   int // preserves insertion order for stable pool ordering
		order map[string]int
	}
)

func Open() (*DB, error) {
	db := &DB{
		stage:     &stageTable{table: make(map[int]*stage.Stage)},
		committee: &committeeTable{table: make(map[string]*committee.Committee)},
		envelope:  &envelopeTable{table: make(map[string]*exam.Envelope)},
		user:      &userTable{table: make(map[string]*user.User), order: make(map[string]int)},
	}
	return db, nil
}
