package committee

import (
	"github.com/b7r7b1440/control/core/stage"
)

// Result is the outcome of one distribution run. Shortfall is non-empty when
// total room capacity could not hold every student; the achievable subset is
// still committed and the caller surfaces the shortfall as a warning.
type Result struct {
	Committees     []Committee `json:"committees"`
	Shortfall      map[int]int `json:"shortfall,omitempty"` // stage ID -> students left unseated
	ShortfallTotal int         `json:"shortfall_total"`
}

type stagePool struct {
	id        int
	remaining int
}

// Distribute assigns each stage's students into the given rooms with a
// capacity-bounded round-robin. Rooms are filled one seat at a time,
// interleaving stages within a room so no stage is block-assigned to
// adjacent seats. Passes repeat until a full pass places nothing.
//
// Existing counts on the committees are discarded; the run starts from
// empty rooms. Given identical input orderings the output is identical.
func Distribute(stages []stage.Stage, committees []Committee) Result {
	pool := make([]stagePool, 0, len(stages))
	for _, stg := range stages {
		pool = append(pool, stagePool{id: stg.ID, remaining: stg.Total})
	}

	out := make([]Committee, len(committees))
	for i, c := range committees {
		c.Counts = make(map[int]int, len(stages))
		out[i] = c
	}

	changed := true
	for changed {
		changed = false
		for i := range out {
			for j := range pool {
				if pool[j].remaining > 0 && out[i].AssignedTotal() < out[i].Capacity {
					out[i].Counts[pool[j].id]++
					pool[j].remaining--
					changed = true
				}
			}
		}
	}

	res := Result{Committees: out}
	for _, p := range pool {
		if p.remaining > 0 {
			if res.Shortfall == nil {
				res.Shortfall = make(map[int]int)
			}
			res.Shortfall[p.id] = p.remaining
			res.ShortfallTotal += p.remaining
		}
	}
	return res
}
