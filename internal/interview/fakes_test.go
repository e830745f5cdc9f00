package interview

import (
	"context"
	"fmt"
	"sync"

	"github.com/ashureev/interview-agent/internal/backend"
	"github.com/ashureev/interview-agent/internal/domain"
	"github.com/ashureev/interview-agent/internal/journal"
)

// opLog records cross-fake operations so tests can assert strict ordering.
type opLog struct {
	mu  sync.Mutex
	ops []string
}

func (l *opLog) add(op string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ops = append(l.ops, op)
}

func (l *opLog) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.ops))
	copy(out, l.ops)
	return out
}

// fakePipeline is an in-memory dialogue pipeline.
type fakePipeline struct {
	mu       sync.Mutex
	turns    []domain.Turn
	replies  []string
	contexts []string
	startErr error
	replyErr error
	log      *opLog
}

func (p *fakePipeline) Start(context.Context) error { return p.startErr }

func (p *fakePipeline) TurnCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.turns)
}

func (p *fakePipeline) Turn(i int) (domain.Turn, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if i < 0 || i >= len(p.turns) {
		return domain.Turn{}, false
	}
	return p.turns[i], true
}

func (p *fakePipeline) AppendContext(_ context.Context, text string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.contexts = append(p.contexts, text)
	p.turns = append(p.turns, domain.Turn{Role: domain.RoleContext, Text: text, Final: true})
	return nil
}

func (p *fakePipeline) Reply(ctx context.Context, instructions string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.replyErr != nil {
		return p.replyErr
	}
	p.mu.Lock()
	p.replies = append(p.replies, instructions)
	p.mu.Unlock()
	if p.log != nil {
		p.log.add("reply")
	}
	return nil
}

func (p *fakePipeline) Close() error { return nil }

func (p *fakePipeline) addTurn(role domain.Role, text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.turns = append(p.turns, domain.Turn{Role: role, Text: text, Final: true})
}

func (p *fakePipeline) replyList() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.replies))
	copy(out, p.replies)
	return out
}

func (p *fakePipeline) contextList() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.contexts))
	copy(out, p.contexts)
	return out
}

// fakePublisher records published room events.
type fakePublisher struct {
	mu     sync.Mutex
	events []interface{}
	err    error
	log    *opLog
}

func (f *fakePublisher) Publish(ctx context.Context, event interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	f.events = append(f.events, event)
	f.mu.Unlock()
	if f.log != nil {
		f.log.add("publish")
	}
	return nil
}

func (f *fakePublisher) Close() error { return nil }

func (f *fakePublisher) eventList() []interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]interface{}, len(f.events))
	copy(out, f.events)
	return out
}

// savedTurn is one transcript the fake backend accepted.
type savedTurn struct {
	Speaker domain.Role
	Text    string
}

// fakeBackend implements Backend in memory.
type fakeBackend struct {
	mu          sync.Mutex
	code        string
	codeErr     error
	codeFetches int
	saved       []savedTurn
	saveErr     error
	problems    []domain.Problem
	nextErr     error
	nextCalls   int
	nextGate    chan struct{} // when set, NextProblem blocks until closed
	log         *opLog
}

func (f *fakeBackend) FetchCode(context.Context, string) (string, error) {
	f.mu.Lock()
	f.codeFetches++
	code, err := f.code, f.codeErr
	f.mu.Unlock()
	return code, err
}

func (f *fakeBackend) SaveTranscript(_ context.Context, _ string, speaker domain.Role, text string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.mu.Lock()
	f.saved = append(f.saved, savedTurn{Speaker: speaker, Text: text})
	f.mu.Unlock()
	if f.log != nil {
		f.log.add("persist")
	}
	return nil
}

func (f *fakeBackend) NextProblem(ctx context.Context, _ string) (*domain.Problem, error) {
	f.mu.Lock()
	f.nextCalls++
	gate := f.nextGate
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.nextErr != nil {
		return nil, f.nextErr
	}
	if len(f.problems) == 0 {
		return nil, backend.ErrNoMoreProblems
	}
	p := f.problems[0]
	f.problems = f.problems[1:]
	return &p, nil
}

// fakeJournal is an in-memory transcript journal. RecordSession reads the
// snapshot's phase and problem index the way the SQLite journal does.
type fakeJournal struct {
	mu       sync.Mutex
	sessions []string
	lines    []savedTurn
}

func (f *fakeJournal) RecordSession(_ context.Context, s domain.Session) error {
	record := fmt.Sprintf("%s@%d", s.Phase, s.ProblemIndex)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions = append(f.sessions, record)
	return nil
}

func (f *fakeJournal) AppendTranscript(_ context.Context, _ string, speaker domain.Role, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lines = append(f.lines, savedTurn{Speaker: speaker, Text: text})
	return nil
}

func (f *fakeJournal) ListTranscripts(context.Context, string) ([]journal.Entry, error) {
	return nil, nil
}

func (f *fakeJournal) Ping(context.Context) error { return nil }
func (f *fakeJournal) Close() error               { return nil }

func (f *fakeJournal) sessionRecords() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.sessions))
	copy(out, f.sessions)
	return out
}

func (f *fakeBackend) savedList() []savedTurn {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]savedTurn, len(f.saved))
	copy(out, f.saved)
	return out
}

func (f *fakeBackend) nextCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.nextCalls
}

func (f *fakeBackend) codeFetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.codeFetches
}
