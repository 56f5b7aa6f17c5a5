package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ericfisherdev/bookshelf/internal/domain/model"
	"github.com/ericfisherdev/bookshelf/internal/domain/port/driven"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// --- memUserStore ---

type memUserStore struct {
	mu      sync.Mutex
	records map[string]model.CredentialRecord // keyed by username
	nextID  int
	lookups atomic.Int32

	findErr   error
	insertErr error
	updateErr error
	updates   []string
}

func newMemUserStore() *memUserStore {
	return &memUserStore{records: map[string]model.CredentialRecord{}}
}

func (m *memUserStore) FindByUsername(_ context.Context, username string) (*model.CredentialRecord, error) {
	m.lookups.Add(1)
	if m.findErr != nil {
		return nil, m.findErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[username]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (m *memUserStore) FindByID(_ context.Context, id string) (*model.CredentialRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range m.records {
		if rec.ID == id {
			return &rec, nil
		}
	}
	return nil, nil
}

func (m *memUserStore) Insert(_ context.Context, rec model.CredentialRecord) (string, error) {
	if m.insertErr != nil {
		return "", m.insertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[rec.Username]; ok {
		return "", fmt.Errorf("insert %q: %w", rec.Username, driven.ErrDuplicateUsername)
	}
	m.nextID++
	rec.ID = fmt.Sprintf("user-%d", m.nextID)
	rec.CreatedAt = time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	m.records[rec.Username] = rec
	return rec.ID, nil
}

func (m *memUserStore) UpdatePasswordHash(_ context.Context, id, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates = append(m.updates, id)
	if m.updateErr != nil {
		return m.updateErr
	}
	for name, rec := range m.records {
		if rec.ID == id {
			rec.PasswordHash = hash
			m.records[name] = rec
			return nil
		}
	}
	return driven.ErrUserNotFound
}

func (m *memUserStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name, rec := range m.records {
		if rec.ID == id {
			delete(m.records, name)
			return nil
		}
	}
	return driven.ErrUserNotFound
}

func (m *memUserStore) count(username string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[username]; ok {
		return 1
	}
	return 0
}

func (m *memUserStore) get(username string) model.CredentialRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records[username]
}

// blockingUserStore waits for the caller's deadline on every lookup.
type blockingUserStore struct{ *memUserStore }

func (b *blockingUserStore) FindByUsername(ctx context.Context, _ string) (*model.CredentialRecord, error) {
	<-ctx.Done()
	return nil, fmt.Errorf("find user: %w: %w", driven.ErrStoreUnavailable, ctx.Err())
}

// --- memMigrationStore ---

type memMigrationStore struct {
	mu       sync.Mutex
	locks    map[string]time.Time
	claimErr error
}

func newMemMigrationStore() *memMigrationStore {
	return &memMigrationStore{locks: map[string]time.Time{}}
}

func (m *memMigrationStore) Claim(_ context.Context, name string, at time.Time) (bool, error) {
	if m.claimErr != nil {
		return false, m.claimErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.locks[name]; ok {
		return false, nil
	}
	m.locks[name] = at
	return true, nil
}

func (m *memMigrationStore) Get(_ context.Context, name string) (*model.MigrationLock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	at, ok := m.locks[name]
	if !ok {
		return nil, nil
	}
	return &model.MigrationLock{Name: name, ExecutedAt: at}, nil
}

// --- memBookStore ---

type memBookStore struct {
	mu        sync.Mutex
	books     []model.Book
	insertErr error
}

func (m *memBookStore) InsertMany(_ context.Context, books []model.Book) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.books = append(m.books, books...)
	return nil
}

func (m *memBookStore) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.books), nil
}

// --- fakeHasher ---

// fakeHasher encodes "hash:<n>:<plaintext>" so every Hash call differs.
type fakeHasher struct {
	calls    atomic.Int32
	rehash   bool
	hashErr  error
	verifies atomic.Int32
}

func (f *fakeHasher) Hash(plaintext string) (string, error) {
	if f.hashErr != nil {
		return "", f.hashErr
	}
	n := f.calls.Add(1)
	return fmt.Sprintf("hash:%d:%s", n, plaintext), nil
}

func (f *fakeHasher) Verify(plaintext, encoded string) (driven.VerifyResult, error) {
	f.verifies.Add(1)
	parts := strings.SplitN(encoded, ":", 3)
	if len(parts) != 3 || parts[0] != "hash" {
		return driven.VerifyResult{}, driven.ErrMalformedHash
	}
	match := parts[2] == plaintext
	return driven.VerifyResult{Match: match, RehashNeeded: match && f.rehash}, nil
}
