package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"meditrack-backend/internal/infrastructure/completion"
	"meditrack-backend/internal/infrastructure/database"
	"meditrack-backend/internal/infrastructure/storage"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.NewSQLiteConnection("file:"+uuid.NewString()+"?mode=memory&cache=shared", "test")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// testClock advances one second on every reading so timestamps are distinct
// and ordered.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type fakeObjectStore struct {
	mu        sync.Mutex
	objects   map[string][]byte
	uploadErr error
	deleteErr error
	deleted   []string
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: map[string][]byte{}}
}

func (s *fakeObjectStore) Upload(_ context.Context, path, contentType string, r io.Reader) (*storage.Object, error) {
	if s.uploadErr != nil {
		return nil, s.uploadErr
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[path] = buf.Bytes()
	return &storage.Object{
		URL:         "https://files.test/" + path,
		Path:        path,
		ContentType: contentType,
		Size:        int64(buf.Len()),
	}, nil
}

func (s *fakeObjectStore) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, path)
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.objects, path)
	return nil
}

type fakeCompletion struct {
	reply    string
	err      error
	calls    int
	messages []completion.Message
}

func (f *fakeCompletion) Complete(_ context.Context, messages []completion.Message) (string, error) {
	f.calls++
	f.messages = messages
	return f.reply, f.err
}

var errUpstream = errors.New("upstream unavailable")
