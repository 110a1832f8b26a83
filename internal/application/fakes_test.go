package application

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oksasatya/etherescape/internal/domain/entity"
	repo "github.com/oksasatya/etherescape/internal/domain/repository"
)

type fakeUsers struct {
	mu   sync.Mutex
	byID map[string]*entity.User
	seq  int
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[string]*entity.User{}}
}

func (f *fakeUsers) Create(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return repo.ErrDuplicate
		}
	}
	f.seq++
	u.ID = fmt.Sprintf("user-%d", f.seq)
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeUsers) Update(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.byID[u.ID]
	if !ok {
		return repo.ErrNotFound
	}
	points := existing.Points
	cp := *u
	cp.Points = points
	f.byID[u.ID] = &cp
	return nil
}

// fakeEvents shares the users fake so MarkVerifiedAndAward can credit points
// under the same lock, like the Postgres transaction does.
type fakeEvents struct {
	users  *fakeUsers
	byID   map[string]*entity.ScheduledEvent
	seq    int
	awards int
}

func newFakeEvents(users *fakeUsers) *fakeEvents {
	return &fakeEvents{users: users, byID: map[string]*entity.ScheduledEvent{}}
}

func (f *fakeEvents) Create(_ context.Context, e *entity.ScheduledEvent) error {
	f.users.mu.Lock()
	defer f.users.mu.Unlock()
	f.seq++
	e.ID = fmt.Sprintf("event-%d", f.seq)
	e.CreatedAt = time.Now()
	cp := *e
	f.byID[e.ID] = &cp
	return nil
}

func (f *fakeEvents) GetByID(_ context.Context, id string) (*entity.ScheduledEvent, error) {
	f.users.mu.Lock()
	defer f.users.mu.Unlock()
	e, ok := f.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEvents) ListByUser(_ context.Context, userID string, verified bool) ([]entity.ScheduledEvent, error) {
	f.users.mu.Lock()
	defer f.users.mu.Unlock()
	out := make([]entity.ScheduledEvent, 0)
	for i := 1; i <= f.seq; i++ {
		e, ok := f.byID[fmt.Sprintf("event-%d", i)]
		if ok && e.UserID == userID && e.Verified == verified {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeEvents) MarkVerifiedAndAward(_ context.Context, eventID, userID string, points int) (bool, int, error) {
	f.users.mu.Lock()
	defer f.users.mu.Unlock()
	u, ok := f.users.byID[userID]
	if !ok {
		return false, 0, repo.ErrNotFound
	}
	e, ok := f.byID[eventID]
	if !ok || e.UserID != userID || e.Verified {
		return false, u.Points, nil
	}
	now := time.Now()
	e.Verified = true
	e.VerifiedAt = &now
	u.Points += points
	f.awards++
	return true, u.Points, nil
}

type fakePublisher struct {
	mu   sync.Mutex
	jobs []any
	err  error
}

func (p *fakePublisher) PublishJSON(_ context.Context, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, body)
	return nil
}

func (p *fakePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.jobs)
}

type fakeInterests []entity.Interest

func (f fakeInterests) List(context.Context) ([]entity.Interest, error) { return f, nil }

var (
	_ repo.UserRepository     = (*fakeUsers)(nil)
	_ repo.EventRepository    = (*fakeEvents)(nil)
	_ repo.InterestRepository = fakeInterests(nil)
)
