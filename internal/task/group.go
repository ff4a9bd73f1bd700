package task

import (
	"context"
	"sync"
)

// Group owns a set of tasks that start and stop together.
type Group struct {
	mu    sync.Mutex
	tasks []*Task
}

func NewGroup(tasks ...*Task) *Group {
	g := &Group{}
	for _, t := range tasks {
		g.Add(t)
	}
	return g
}

// Add registers a task. Nil tasks are ignored.
func (g *Group) Add(t *Task) {
	if t == nil {
		return
	}
	g.mu.Lock()
	g.tasks = append(g.tasks, t)
	g.mu.Unlock()
}

// StartAll starts every task. On failure the tasks already started are
// stopped again.
func (g *Group) StartAll(ctx context.Context) error {
	tasks := g.snapshot()
	for i, t := range tasks {
		if err := t.Start(ctx); err != nil {
			for _, started := range tasks[:i] {
				started.Stop()
			}
			return err
		}
	}
	return nil
}

// StopAll stops every task and waits for each to exit.
func (g *Group) StopAll() {
	for _, t := range g.snapshot() {
		t.Stop()
	}
}

// Running returns the names of the tasks whose loops are active.
func (g *Group) Running() []string {
	var names []string
	for _, t := range g.snapshot() {
		if t.Running() {
			names = append(names, t.Name())
		}
	}
	return names
}

// Len returns the number of tasks in the group.
func (g *Group) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.tasks)
}

func (g *Group) snapshot() []*Task {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]*Task, len(g.tasks))
	copy(out, g.tasks)
	return out
}
