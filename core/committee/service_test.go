package committee_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b7r7b1440/control/core/committee"
	"github.com/b7r7b1440/control/core/stage"
	inmemdb "github.com/b7r7b1440/control/storage/database/inmem"
)

func newService(t *testing.T) *committee.Service {
	db, err := inmemdb.Open()
	require.NoError(t, err)
	return committee.NewService(inmemdb.NewCommitteeRepository(db))
}

func TestService_AutoDistribute(t *testing.T) {
	svc := newService(t)
	stages := []stage.Stage{
		{ID: 1, Name: "Grade 10", Prefix: "10", Total: 40},
		{ID: 2, Name: "Grade 11", Prefix: "11", Total: 35},
	}

	res, err := svc.AutoDistribute(stages, 3)
	require.NoError(t, err)
	assert.Len(t, res.Committees, 3)
	assert.Equal(t, 0, res.ShortfallTotal)

	var total int
	for _, c := range res.Committees {
		assert.Equal(t, committee.DefaultCapacity, c.Capacity)
		assert.Equal(t, committee.DefaultInvigilatorCount, c.InvigilatorCount)
		total += c.AssignedTotal()
	}
	assert.Equal(t, 75, total)

	// persisted, ordered by room number
	stored, err := svc.QueryAll()
	require.NoError(t, err)
	require.Len(t, stored, 3)
	assert.Equal(t, "1", stored[0].Name)
	assert.Equal(t, "3", stored[2].Name)
}

func TestService_AutoDistribute_defaultCount(t *testing.T) {
	svc := newService(t)

	res, err := svc.AutoDistribute([]stage.Stage{{ID: 1, Total: 5}}, 0)
	require.NoError(t, err)
	assert.Len(t, res.Committees, committee.DefaultCommitteeCount)
}

func TestService_Redistribute_idempotent(t *testing.T) {
	svc := newService(t)
	stages := []stage.Stage{{ID: 1, Total: 20}, {ID: 2, Total: 10}}

	first, err := svc.AutoDistribute(stages, 2)
	require.NoError(t, err)

	second, err := svc.Redistribute(stages)
	require.NoError(t, err)
	assert.Equal(t, first.Committees, second.Committees)
}

func TestService_ResetDistribution(t *testing.T) {
	svc := newService(t)
	_, err := svc.AutoDistribute([]stage.Stage{{ID: 1, Total: 20}}, 2)
	require.NoError(t, err)

	require.NoError(t, svc.ResetDistribution())

	stored, err := svc.QueryAll()
	require.NoError(t, err)
	require.Len(t, stored, 2)
	for _, c := range stored {
		assert.Equal(t, 0, c.AssignedTotal(), "room %s should be empty", c.Name)
	}
}

func TestService_UpdateInfo(t *testing.T) {
	svc := newService(t)
	_, err := svc.AutoDistribute([]stage.Stage{{ID: 1, Total: 10}}, 1)
	require.NoError(t, err)

	stored, err := svc.QueryAll()
	require.NoError(t, err)
	id := stored[0].ID

	loc := "Gym"
	capacity := 5
	c, err := svc.UpdateInfo(id, committee.UpdateCommittee{Location: &loc, Capacity: &capacity})
	require.NoError(t, err)
	assert.Equal(t, "Gym", c.Location)
	assert.Equal(t, 5, c.Capacity)
	// manual override may exceed capacity; flagged, not blocked
	assert.True(t, c.OverCapacity())

	_, err = svc.UpdateInfo("nope", committee.UpdateCommittee{Location: &loc})
	assert.Equal(t, committee.ErrNotFound, err)
}

func TestService_DeleteAll(t *testing.T) {
	svc := newService(t)
	_, err := svc.AutoDistribute([]stage.Stage{{ID: 1, Total: 10}}, 2)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAll())

	stored, err := svc.QueryAll()
	require.NoError(t, err)
	assert.Empty(t, stored)
}
