package exam

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b7r7b1440/control/core"
	"github.com/b7r7b1440/control/core/committee"
	"github.com/b7r7b1440/control/core/stage"
)

var (
	genStages = []stage.Stage{
		{ID: 1, Name: "Grade 10", Prefix: "10", Total: 5},
		{ID: 2, Name: "Grade 11", Prefix: "11", Total: 4},
	}
	genRooms = []committee.Committee{
		{ID: "c1", Name: "1", Location: "Hall 1", Capacity: 30, InvigilatorCount: 1, Counts: map[int]int{1: 3, 2: 2}},
		{ID: "c2", Name: "2", Location: "Hall 2", Capacity: 30, InvigilatorCount: 1, Counts: map[int]int{1: 2, 2: 2}},
	}
)

func oneDaySchedule(subjects map[string]SubjectDetail) Schedule {
	return Schedule{Days: []Day{{
		Date:    "2026-05-10",
		Periods: []Period{{ID: 1, Subjects: subjects}},
	}}}
}

func TestGenerate_preconditions(t *testing.T) {
	t.Run("no committees", func(t *testing.T) {
		_, err := Generate(genStages, nil, Schedule{}, nil, GenerateOptions{})
		assert.Equal(t, ErrNoDistribution, err)
	})

	t.Run("no assigned seats", func(t *testing.T) {
		rooms := []committee.Committee{{ID: "c1", Name: "1", Capacity: 30}}
		_, err := Generate(genStages, rooms, Schedule{}, nil, GenerateOptions{})
		assert.Equal(t, ErrNoDistribution, err)
	})

	t.Run("non-positive capacity", func(t *testing.T) {
		rooms := []committee.Committee{{ID: "c1", Name: "1", Capacity: 0, Counts: map[int]int{1: 1}}}
		_, err := Generate(genStages, rooms, Schedule{}, nil, GenerateOptions{})
		_, ok := err.(*core.ValidationError)
		assert.True(t, ok, "want *core.ValidationError, got %T", err)
	})

	t.Run("negative count", func(t *testing.T) {
		rooms := []committee.Committee{{ID: "c1", Name: "1", Capacity: 30, Counts: map[int]int{1: -1}}}
		_, err := Generate(genStages, rooms, Schedule{}, nil, GenerateOptions{})
		_, ok := err.(*core.ValidationError)
		assert.True(t, ok, "want *core.ValidationError, got %T", err)
	})
}

func TestGenerate_emptyScheduleFallsBackToToday(t *testing.T) {
	envs, err := Generate(genStages, genRooms, Schedule{}, nil, GenerateOptions{Today: "2026-05-10"})
	require.NoError(t, err)
	require.Len(t, envs, 2)

	for _, env := range envs {
		assert.Equal(t, "2026-05-10", env.Date)
		assert.Equal(t, "1", env.Period)
		assert.Equal(t, GeneralExam, env.Subject)
		assert.Equal(t, StatusPending, env.Status)
	}
}

func TestGenerate_idempotentIDs(t *testing.T) {
	sched := oneDaySchedule(nil)

	first, err := Generate(genStages, genRooms, sched, []string{"t1", "t2"}, GenerateOptions{})
	require.NoError(t, err)
	second, err := Generate(genStages, genRooms, sched, []string{"t1", "t2"}, GenerateOptions{})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "env-2026-05-10-1-1", first[0].ID)
	assert.Equal(t, "env-2026-05-10-1-2", first[1].ID)
}

func TestGenerate_subjectConcatenation(t *testing.T) {
	t.Run("distinct subjects joined in stage order", func(t *testing.T) {
		sched := oneDaySchedule(map[string]SubjectDetail{
			"Grade 10": {Name: "Math", StartTime: "08:30", EndTime: "10:30"},
			"Grade 11": {Name: "Physics", StartTime: "11:00", EndTime: "13:00"},
		})
		envs, err := Generate(genStages, genRooms, sched, nil, GenerateOptions{})
		require.NoError(t, err)
		assert.Equal(t, "Math / Physics", envs[0].Subject)
		// times come from the first scheduled subject
		assert.Equal(t, "08:30", envs[0].StartTime)
		assert.Equal(t, "10:30", envs[0].EndTime)
	})

	t.Run("shared subject not repeated", func(t *testing.T) {
		sched := oneDaySchedule(map[string]SubjectDetail{
			"Grade 10": {Name: "Math", StartTime: "08:30", EndTime: "10:30"},
			"Grade 11": {Name: "Math", StartTime: "08:30", EndTime: "10:30"},
		})
		envs, err := Generate(genStages, genRooms, sched, nil, GenerateOptions{})
		require.NoError(t, err)
		assert.Equal(t, "Math", envs[0].Subject)
	})

	t.Run("sentinel subject excluded from concatenation", func(t *testing.T) {
		sched := oneDaySchedule(map[string]SubjectDetail{
			"Grade 10": {Name: GeneralExam, StartTime: "08:30", EndTime: "10:30"},
			"Grade 11": {Name: "Physics", StartTime: "11:00", EndTime: "13:00"},
		})
		envs, err := Generate(genStages, genRooms, sched, nil, GenerateOptions{})
		require.NoError(t, err)
		assert.Equal(t, "Physics", envs[0].Subject)
	})

	t.Run("nothing scheduled means sentinel and default times", func(t *testing.T) {
		envs, err := Generate(genStages, genRooms, oneDaySchedule(nil), nil, GenerateOptions{})
		require.NoError(t, err)
		assert.Equal(t, GeneralExam, envs[0].Subject)
		assert.Equal(t, "08:00", envs[0].StartTime)
		assert.Equal(t, "10:00", envs[0].EndTime)
	})
}

func TestGenerate_seatNumbers(t *testing.T) {
	envs, err := Generate(genStages, genRooms, oneDaySchedule(nil), nil, GenerateOptions{})
	require.NoError(t, err)
	require.Len(t, envs, 2)

	// room 1: 3 seats of Grade 10 then 2 of Grade 11, grade blocks in stage-ID order
	seats := make([]string, 0, len(envs[0].Students))
	for _, s := range envs[0].Students {
		seats = append(seats, s.SeatNumber)
	}
	assert.Equal(t, []string{"10001", "10002", "10003", "11001", "11002"}, seats)

	// the sequence restarts in the next room
	assert.Equal(t, "10001", envs[1].Students[0].SeatNumber)

	for _, s := range envs[0].Students {
		assert.Equal(t, AttendancePending, s.Status)
	}
	assert.Equal(t, []string{"Grade 10", "Grade 11"}, envs[0].Grades)
}

func TestGenerate_invigilatorRoundRobin(t *testing.T) {
	pool := []string{"t1", "t2", "t3"}

	t.Run("cursor advances across rooms within a period", func(t *testing.T) {
		envs, err := Generate(genStages, genRooms, oneDaySchedule(nil), pool, GenerateOptions{})
		require.NoError(t, err)
		assert.Equal(t, []string{"t1"}, envs[0].TeacherIDs)
		assert.Equal(t, []string{"t2"}, envs[1].TeacherIDs)
	})

	t.Run("cursor restarts each period", func(t *testing.T) {
		sched := Schedule{Days: []Day{{
			Date:    "2026-05-10",
			Periods: []Period{{ID: 1}, {ID: 2}},
		}}}
		envs, err := Generate(genStages, genRooms, sched, pool, GenerateOptions{})
		require.NoError(t, err)
		require.Len(t, envs, 4)
		assert.Equal(t, envs[0].TeacherIDs, envs[2].TeacherIDs)
		assert.Equal(t, envs[1].TeacherIDs, envs[3].TeacherIDs)
	})

	t.Run("pool wraps around", func(t *testing.T) {
		rooms := make([]committee.Committee, len(genRooms))
		copy(rooms, genRooms)
		rooms[0].InvigilatorCount = 2
		rooms[1].InvigilatorCount = 2

		envs, err := Generate(genStages, rooms, oneDaySchedule(nil), pool, GenerateOptions{})
		require.NoError(t, err)
		assert.Equal(t, []string{"t1", "t2"}, envs[0].TeacherIDs)
		assert.Equal(t, []string{"t3", "t1"}, envs[1].TeacherIDs)
	})

	t.Run("period teachers override the pool", func(t *testing.T) {
		sched := Schedule{Days: []Day{{
			Date:    "2026-05-10",
			Periods: []Period{{ID: 1, TeacherIDs: []string{"x1"}}},
		}}}
		envs, err := Generate(genStages, genRooms, sched, pool, GenerateOptions{})
		require.NoError(t, err)
		assert.Equal(t, []string{"x1"}, envs[0].TeacherIDs)
		assert.Equal(t, []string{"x1"}, envs[1].TeacherIDs)
	})

	t.Run("empty pool leaves envelopes unassigned", func(t *testing.T) {
		envs, err := Generate(genStages, genRooms, oneDaySchedule(nil), nil, GenerateOptions{})
		require.NoError(t, err)
		assert.Empty(t, envs[0].TeacherIDs)
	})
}

func TestGenerate_shuffledPoolIsDeterministic(t *testing.T) {
	pool := []string{"t1", "t2", "t3", "t4", "t5"}
	sched := oneDaySchedule(nil)

	first, err := Generate(genStages, genRooms, sched, pool, GenerateOptions{ShufflePool: true})
	require.NoError(t, err)
	second, err := Generate(genStages, genRooms, sched, pool, GenerateOptions{ShufflePool: true})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Contains(t, pool, first[0].TeacherIDs[0])
}
