package workspace

import (
	"context"
	"errors"
	"sync"
)

// fakeEngine records calls and returns canned results.
type fakeEngine struct {
	mu sync.Mutex

	worktrees []Worktree
	listErr   error
	createErr error
	removeErr error
	openErr   error

	calls    []string
	creates  []CreateRequest
	removes  []RemoveRequest
	opened   []string
	listedAt []string

	// onList runs inside List, while the runner's loading flag is raised.
	onList func()
}

func (f *fakeEngine) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeEngine) List(_ context.Context, projectPath string) ([]Worktree, error) {
	f.record("list")
	f.mu.Lock()
	f.listedAt = append(f.listedAt, projectPath)
	hook := f.onList
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]Worktree(nil), f.worktrees...), nil
}

func (f *fakeEngine) Create(_ context.Context, req CreateRequest) error {
	f.record("create")
	f.mu.Lock()
	f.creates = append(f.creates, req)
	f.mu.Unlock()
	return f.createErr
}

func (f *fakeEngine) Remove(_ context.Context, req RemoveRequest) error {
	f.record("remove")
	f.mu.Lock()
	f.removes = append(f.removes, req)
	f.mu.Unlock()
	return f.removeErr
}

func (f *fakeEngine) OpenFolder(_ context.Context, path string) error {
	f.record("open")
	f.mu.Lock()
	f.opened = append(f.opened, path)
	f.mu.Unlock()
	return f.openErr
}

func (f *fakeEngine) count(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

// scriptedPicker returns its answers in order.
type scriptedPicker struct {
	answers []string
	err     error
	titles  []string
}

func (p *scriptedPicker) PickDirectory(_ context.Context, title string) (string, error) {
	p.titles = append(p.titles, title)
	if p.err != nil {
		return "", p.err
	}
	if len(p.answers) == 0 {
		return "", nil
	}
	next := p.answers[0]
	p.answers = p.answers[1:]
	return next, nil
}

// recordingConfirmer answers with a fixed value and keeps the prompts.
type recordingConfirmer struct {
	answer   bool
	messages []string
}

func (c *recordingConfirmer) Confirm(message string) bool {
	c.messages = append(c.messages, message)
	return c.answer
}

var errBoom = errors.New("boom")
