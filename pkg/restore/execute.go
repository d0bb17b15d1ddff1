package restore

import (
	"container/heap"

	"github.com/zeehio/sifra/pkg/sampler"
)

// completion is a pending repair-finished event.
type completion struct {
	time float64
	qi   int // index into the repair queue
}

type completionHeap []completion

func (h completionHeap) Len() int { return len(h) }
func (h completionHeap) Less(i, j int) bool {
	if h[i].time != h[j].time {
		return h[i].time < h[j].time
	}
	return h[i].qi < h[j].qi
}
func (h completionHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *completionHeap) Push(x any) { *h = append(*h, x.(completion)) }
func (h *completionHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// capEvent is one instant on the restoration timeline with the recomputed
// capacity fraction of every output line.
type capEvent struct {
	time float64
	caps []float64
}

// execute drains the repair queue through at most cfg.Streams simultaneous
// repair streams, recomputing line functionality at every completion
// instant, and derives trajectories and line outcomes.
func (s *Scheduler) execute(damage sampler.Assignment, initial []float64, ps *planState) *Plan {
	plan := &Plan{Tasks: []Task{}}
	exec := damage.Clone()
	events := []capEvent{{time: 0, caps: initial}}

	h := &completionHeap{}
	heap.Init(h)
	qpos := 0

	// admit moves queued repairs into the active set while streams are
	// free. Relocating a donor degrades its own line immediately.
	admit := func(now float64) bool {
		capsChanged := false
		for h.Len() < s.cfg.Streams && qpos < len(ps.queued) {
			q := ps.queued[qpos]
			duration := s.taskDuration(q)
			task := Task{
				Node:     s.fac.Nodes[q.node].ID,
				Output:   s.fac.Nodes[q.output].ID,
				Start:    now,
				Duration: duration,
			}
			if q.donor >= 0 {
				task.Donor = s.fac.Nodes[q.donor].ID
				exec[q.donor] = s.tables[s.fac.Nodes[q.donor].Type].NumStates()
				capsChanged = true
			}
			plan.Tasks = append(plan.Tasks, task)
			heap.Push(h, completion{time: now + duration, qi: qpos})
			qpos++
		}
		return capsChanged
	}

	if len(ps.queued) > 0 {
		if admit(s.cfg.Offset) {
			events = append(events, capEvent{time: s.cfg.Offset, caps: s.solver.Capacities(exec)})
		}
	}

	for h.Len() > 0 {
		now := (*h)[0].time
		for h.Len() > 0 && (*h)[0].time == now {
			c := heap.Pop(h).(completion)
			exec[ps.queued[c.qi].node] = 0
		}
		admit(now)
		events = append(events, capEvent{time: now, caps: s.solver.Capacities(exec)})
	}

	s.summarize(plan, events, ps)
	return plan
}

// taskDuration is the active-repair time for one queue entry: the mean
// restoration time of the node's damage state at queue time, or the
// relocation time when a donor substitutes, plus the commissioning buffer.
func (s *Scheduler) taskDuration(q queuedRepair) float64 {
	if q.donor >= 0 {
		return s.cfg.RelocationTime + s.cfg.CommissionBuffer
	}
	table := s.tables[s.fac.Nodes[q.node].Type]
	return table.MeanRepairTime(q.state) + s.cfg.CommissionBuffer
}

// summarize samples trajectories on the configured grid and fills per-line
// outcomes. RestoredAt is -1 for a line that never holds the threshold
// within the horizon; such lines carry the attained functionality instead.
func (s *Scheduler) summarize(plan *Plan, events []capEvent, ps *planState) {
	outputs := s.fac.OutputsByPriority()

	step := s.cfg.Step
	if step <= 0 {
		step = 1
	}
	steps := int(s.cfg.Horizon/step) + 1
	times := make([]float64, steps)
	for i := range times {
		times[i] = float64(i) * step
	}

	plan.Trajectories = make([]Trajectory, len(outputs))
	plan.Lines = make([]LineOutcome, len(outputs))
	plan.Complete = true

	for k, oi := range outputs {
		levels := make([]float64, steps)
		ev := 0
		for i, t := range times {
			for ev+1 < len(events) && events[ev+1].time <= t {
				ev++
			}
			levels[i] = events[ev].caps[k]
		}
		plan.Trajectories[k] = Trajectory{
			Output: s.fac.Nodes[oi].ID,
			Times:  times,
			Levels: levels,
		}

		// The line is restored at the first instant from which its
		// functionality holds the threshold; donor removals can dip a line
		// back down, so scan from the end.
		restoredAt := -1.0
		for i := len(events) - 1; i >= 0; i-- {
			if events[i].caps[k] < s.cfg.Threshold {
				break
			}
			restoredAt = events[i].time
		}

		line := LineOutcome{
			Output:     s.fac.Nodes[oi].ID,
			Initial:    events[0].caps[k],
			Final:      levels[len(levels)-1],
			RestoredAt: restoredAt,
			Infeasible: ps.infeasible[oi],
		}
		if restoredAt < 0 || restoredAt > s.cfg.Horizon {
			line.RestoredAt = -1
			line.HorizonExceeded = true
			plan.Complete = false
		}
		if line.Infeasible {
			plan.Infeasible = true
			plan.Complete = false
		}
		plan.Lines[k] = line
	}
}
