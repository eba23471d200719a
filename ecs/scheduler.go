package ecs

import "golang.org/x/sync/errgroup"

type stepJob struct {
	id     EntityID
	entity *Entity
	events []Event
}

// stepAll steps every live entity, serially or across w.workers goroutines.
// Entities only read the immutable wall list and write their own state, so
// chunks run without locks. Events are merged back in slot order.
func (w *World) stepAll(keys KeyState, dt float64) error {
	jobs := make([]stepJob, 0, w.store.live)
	w.store.each(func(id EntityID, e *Entity) {
		jobs = append(jobs, stepJob{id: id, entity: e})
	})

	run := func(chunk []stepJob) {
		for i := range chunk {
			j := &chunk[i]
			j.events = stepEntity(j.entity, j.id, w.walls, keys, w.params, dt, j.events)
		}
	}

	if w.workers < 2 || len(jobs) < 2 {
		run(jobs)
	} else {
		size := (len(jobs) + w.workers - 1) / w.workers
		var g errgroup.Group
		g.SetLimit(w.workers)
		for start := 0; start < len(jobs); start += size {
			end := min(start+size, len(jobs))
			chunk := jobs[start:end]
			g.Go(func() error {
				run(chunk)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}

	for _, j := range jobs {
		for _, evt := range j.events {
			w.events.Push(evt)
		}
	}
	return nil
}
