package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b7r7b1440/control/core/committee"
	"github.com/b7r7b1440/control/core/stage"
	"github.com/b7r7b1440/control/core/user"
	"github.com/b7r7b1440/control/tests"
)

func TestStageApi(t *testing.T) {
	d := setup(t)
	managerToken := tokenFor(t, d, user.RoleManager)
	teacherToken := tokenFor(t, d, user.RoleTeacher)

	newStage := marchallObj(t, map[string]interface{}{"name": "Grade 10", "prefix": "10", "total_students": 120})

	t.Run("create requires manager", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/stages", teacherToken, newStage)
		d.app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("create", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/stages", managerToken, newStage)
		d.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var stg stage.Stage
		decodeBody(t, rec, &stg)
		assert.Equal(t, 1, stg.ID)
		assert.Equal(t, "Grade 10", stg.Name)
	})

	t.Run("duplicate name", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/stages", managerToken, newStage)
		d.app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("non-numeric prefix", func(t *testing.T) {
		bad := marchallObj(t, map[string]interface{}{"name": "Grade X", "prefix": "XX", "total_students": 10})
		req, rec := newAuthRequest(http.MethodPost, "/v1/stages", managerToken, bad)
		d.app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("list is visible to any role", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/stages", teacherToken)
		d.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var stages []stage.Stage
		decodeBody(t, rec, &stages)
		assert.Len(t, stages, 1)
	})

	t.Run("reset", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/stages", managerToken)
		d.app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestCommitteeApi_distribute(t *testing.T) {
	d := setup(t)
	managerToken := tokenFor(t, d, user.RoleManager)

	testutil.CreateStage(t, d.stageSvc, "Grade 10", "10", 40)
	testutil.CreateStage(t, d.stageSvc, "Grade 11", "11", 35)

	t.Run("auto-distribute", func(t *testing.T) {
		body := marchallObj(t, map[string]interface{}{"committee_count": 3})
		req, rec := newAuthRequest(http.MethodPost, "/v1/committees/distribute", managerToken, body)
		d.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var res committee.Result
		decodeBody(t, rec, &res)
		assert.Len(t, res.Committees, 3)
		assert.Equal(t, 0, res.ShortfallTotal)
	})

	t.Run("shortfall surfaces in the response", func(t *testing.T) {
		body := marchallObj(t, map[string]interface{}{"committee_count": 1})
		req, rec := newAuthRequest(http.MethodPost, "/v1/committees/distribute", managerToken, body)
		d.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var res committee.Result
		decodeBody(t, rec, &res)
		assert.Equal(t, 45, res.ShortfallTotal)
	})

	t.Run("redistribute over existing rooms", func(t *testing.T) {
		body := marchallObj(t, map[string]interface{}{"reuse_rooms": true})
		req, rec := newAuthRequest(http.MethodPost, "/v1/committees/distribute", managerToken, body)
		d.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var res committee.Result
		decodeBody(t, rec, &res)
		assert.Len(t, res.Committees, 1)
	})

	t.Run("reset clears counts", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/committees/reset", managerToken)
		d.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rooms, err := d.committeeSvc.QueryAll()
		require.NoError(t, err)
		for _, c := range rooms {
			assert.Equal(t, 0, c.AssignedTotal())
		}
	})
}

func TestCommitteeApi_update(t *testing.T) {
	d := setup(t)
	managerToken := tokenFor(t, d, user.RoleManager)

	stg := testutil.CreateStage(t, d.stageSvc, "Grade 10", "10", 50)
	rooms := testutil.DistributeRooms(t, d.committeeSvc, []stage.Stage{stg}, 2)

	t.Run("manual override flags over-capacity", func(t *testing.T) {
		body := marchallObj(t, map[string]interface{}{"capacity": 10})
		req, rec := newAuthRequest(http.MethodPut, "/v1/committees/"+rooms[0].ID, managerToken, body)
		d.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp struct {
			Capacity     int  `json:"capacity"`
			OverCapacity bool `json:"over_capacity"`
		}
		decodeBody(t, rec, &resp)
		assert.Equal(t, 10, resp.Capacity)
		assert.True(t, resp.OverCapacity)
	})

	t.Run("unknown committee", func(t *testing.T) {
		body := marchallObj(t, map[string]interface{}{"capacity": 10})
		req, rec := newAuthRequest(http.MethodPut, "/v1/committees/nope", managerToken, body)
		d.app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
