package application_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Agrawal-Rajat/techno-club-backend/internal/domain/entity"
	domainerrors "github.com/Agrawal-Rajat/techno-club-backend/internal/domain/errors"
	repo "github.com/Agrawal-Rajat/techno-club-backend/internal/domain/repository"
	"github.com/Agrawal-Rajat/techno-club-backend/pkg/mailer"
)

// memPublisher records every email job handed to it.
type memPublisher struct {
	mu   sync.Mutex
	jobs []mailer.EmailJob
}

func (p *memPublisher) PublishJSON(_ context.Context, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if job, ok := body.(mailer.EmailJob); ok {
		p.jobs = append(p.jobs, job)
	}
	return nil
}

func (p *memPublisher) published() []mailer.EmailJob {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]mailer.EmailJob(nil), p.jobs...)
}

// memUserRepo is a mutex-guarded in-memory UserRepository. Review and append
// hold the lock for the whole read-modify-write, mirroring the row lock the
// real implementation takes.
type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*entity.User{}}
}

func (m *memUserRepo) add(u *entity.User) *entity.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	m.users[u.ID] = u
	return u
}

func copyUser(u *entity.User) *entity.User {
	cp := *u
	cp.Certificates = append([]entity.Certificate(nil), u.Certificates...)
	return &cp
}

func (m *memUserRepo) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ex := range m.users {
		if ex.Email == u.Email {
			return domainerrors.ErrEmailTaken
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	m.users[u.ID] = copyUser(u)
	return nil
}

func (m *memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, domainerrors.ErrUserNotFound
	}
	return copyUser(u), nil
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, domainerrors.ErrUserNotFound
}

func (m *memUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUserRepo) UpdateProfile(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; !ok {
		return domainerrors.ErrUserNotFound
	}
	m.users[u.ID] = copyUser(u)
	return nil
}

func (m *memUserRepo) AppendCertificate(_ context.Context, userID string, cert entity.Certificate) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return nil, domainerrors.ErrUserNotFound
	}
	if cert.ID == "" {
		cert.ID = uuid.NewString()
	}
	u.Certificates = append(u.Certificates, cert)
	return copyUser(u), nil
}

func (m *memUserRepo) ReviewCertificate(_ context.Context, userID, certID string, approved bool, credits int) (*entity.Certificate, *entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return nil, nil, domainerrors.ErrUserNotFound
	}
	idx := -1
	for i := range u.Certificates {
		if u.Certificates[i].ID == certID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, nil, domainerrors.ErrCertificateNotFound
	}
	if u.Certificates[idx].IsVerified {
		return nil, nil, domainerrors.ErrAlreadyVerified
	}
	if approved {
		now := time.Now()
		u.Certificates[idx].IsVerified = true
		u.Certificates[idx].CreditsAwarded = credits
		u.Certificates[idx].VerifiedAt = &now
		u.CreditScore += credits
	} else {
		u.Certificates[idx].CreditsAwarded = 0
		u.Certificates[idx].VerifiedAt = nil
	}
	cert := u.Certificates[idx]
	return &cert, copyUser(u), nil
}

func (m *memUserRepo) ListPendingCertificates(_ context.Context) ([]entity.PendingCertificate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pending := []entity.PendingCertificate{}
	for _, u := range m.users {
		for _, c := range u.Certificates {
			if c.IsVerified {
				continue
			}
			pending = append(pending, entity.PendingCertificate{
				UserID:      u.ID,
				UserName:    u.Name,
				UserEmail:   u.Email,
				CertID:      c.ID,
				Name:        c.Name,
				URL:         c.URL,
				SubmittedAt: c.SubmittedAt,
			})
		}
	}
	return pending, nil
}

var _ repo.UserRepository = (*memUserRepo)(nil)

// memEventRepo is an in-memory EventRepository.
type memEventRepo struct {
	mu     sync.Mutex
	events map[string]*entity.Event
}

func newMemEventRepo() *memEventRepo {
	return &memEventRepo{events: map[string]*entity.Event{}}
}

func copyEvent(e *entity.Event) *entity.Event {
	cp := *e
	cp.Participants = append([]string(nil), e.Participants...)
	return &cp
}

func (m *memEventRepo) Create(_ context.Context, e *entity.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.ID = uuid.NewString()
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	if e.Participants == nil {
		e.Participants = []string{}
	}
	m.events[e.ID] = copyEvent(e)
	return nil
}

func (m *memEventRepo) GetByID(_ context.Context, id string) (*entity.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return copyEvent(e), nil
}

func (m *memEventRepo) SetPublished(_ context.Context, id string, published bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok {
		return domainerrors.ErrNotFound
	}
	e.IsPublished = published
	return nil
}

func (m *memEventRepo) ListByClub(_ context.Context, club entity.Club, publishedOnly bool, limit int) ([]*entity.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*entity.Event{}
	for _, e := range m.events {
		if e.Club != club {
			continue
		}
		if publishedOnly && !e.IsPublished {
			continue
		}
		out = append(out, copyEvent(e))
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *memEventRepo) ListByCreator(_ context.Context, creatorID string) ([]*entity.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*entity.Event{}
	for _, e := range m.events {
		if e.CreatorID == creatorID {
			out = append(out, copyEvent(e))
		}
	}
	return out, nil
}

func (m *memEventRepo) ListByParticipant(_ context.Context, userID string, publishedOnly bool) ([]*entity.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*entity.Event{}
	for _, e := range m.events {
		if publishedOnly && !e.IsPublished {
			continue
		}
		for _, p := range e.Participants {
			if p == userID {
				out = append(out, copyEvent(e))
				break
			}
		}
	}
	return out, nil
}

func (m *memEventRepo) Register(_ context.Context, eventID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[eventID]
	if !ok {
		return domainerrors.ErrNotFound
	}
	for _, p := range e.Participants {
		if p == userID {
			return domainerrors.ErrAlreadyRegistered
		}
	}
	e.Participants = append(e.Participants, userID)
	return nil
}

func (m *memEventRepo) Unregister(_ context.Context, eventID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[eventID]
	if !ok {
		return domainerrors.ErrNotFound
	}
	for i, p := range e.Participants {
		if p == userID {
			e.Participants = append(e.Participants[:i], e.Participants[i+1:]...)
			return nil
		}
	}
	return domainerrors.ErrNotRegistered
}

var _ repo.EventRepository = (*memEventRepo)(nil)

// memAppRepo is an in-memory ApplicationRepository.
type memAppRepo struct {
	mu   sync.Mutex
	apps []*entity.ClubApplication
}

func newMemAppRepo() *memAppRepo { return &memAppRepo{} }

func (m *memAppRepo) Create(_ context.Context, app *entity.ClubApplication) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ex := range m.apps {
		if ex.Email == app.Email && ex.ClubSlug == app.ClubSlug && ex.Status != entity.ApplicationRejected {
			return domainerrors.ErrDuplicateApplication
		}
	}
	app.ID = uuid.NewString()
	app.CreatedAt = time.Now()
	app.UpdatedAt = app.CreatedAt
	cp := *app
	m.apps = append(m.apps, &cp)
	return nil
}

func (m *memAppRepo) HasActive(_ context.Context, email, clubSlug string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ex := range m.apps {
		if ex.Email == email && ex.ClubSlug == clubSlug && ex.Status != entity.ApplicationRejected {
			return true, nil
		}
	}
	return false, nil
}

func (m *memAppRepo) ListByClub(_ context.Context, clubSlug string) ([]*entity.ClubApplication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*entity.ClubApplication{}
	for _, a := range m.apps {
		if a.ClubSlug == clubSlug {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

var _ repo.ApplicationRepository = (*memAppRepo)(nil)

// fakeFileStore records uploads and returns deterministic URLs.
type fakeFileStore struct {
	mu      sync.Mutex
	uploads []string
	err     error
}

func (f *fakeFileStore) Upload(_ context.Context, objectPath, _ string, r io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, objectPath)
	return "https://storage.example.com/" + objectPath, nil
}

var errUploadBroken = errors.New("upload broken")
