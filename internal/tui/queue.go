package tui

import (
	"context"
	"sync"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
)

type taskDoneMsg struct{}

// queue collects the follow-up work the session schedules during a mutation
// so Update can hand it to the runtime as commands.
type queue struct {
	mu      sync.Mutex
	tasks   []func(ctx context.Context)
	running atomic.Int64
}

func (q *queue) run(task func(ctx context.Context)) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, task)
}

func (q *queue) drain(ctx context.Context) []tea.Cmd {
	q.mu.Lock()
	tasks := q.tasks
	q.tasks = nil
	q.mu.Unlock()

	q.running.Add(int64(len(tasks)))
	cmds := make([]tea.Cmd, 0, len(tasks))
	for _, task := range tasks {
		cmds = append(cmds, func() tea.Msg {
			defer q.running.Add(-1)
			task(ctx)
			return taskDoneMsg{}
		})
	}
	return cmds
}

// inflight reports how many drained tasks have not finished.
func (q *queue) inflight() int64 { return q.running.Load() }
