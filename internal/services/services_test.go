package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recetas-api/internal/assets"
	"recetas-api/internal/auth"
	"recetas-api/internal/background"
	"recetas-api/internal/common"
	"recetas-api/internal/logging"
	"recetas-api/internal/store"
)

type mail struct {
	To, Subject, Body string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []mail
	err  error
}

func (m *recordingMailer) Send(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, mail{To: to, Subject: subject, Body: body})
	return m.err
}

func (m *recordingMailer) Sent() []mail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mail(nil), m.sent...)
}

// memCache is a map-backed cache used to observe invalidation.
type memCache struct {
	mu sync.Mutex
	m  map[string][]byte
}

func newMemCache() *memCache { return &memCache{m: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.m[key]
	return b, ok
}

func (c *memCache) Set(_ context.Context, key string, val []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = val
}

func (c *memCache) Invalidate(_ context.Context, keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.m, k)
	}
}

type readSeekNopCloser struct{ *bytes.Reader }

func (readSeekNopCloser) Close() error { return nil }

func photo(name, content string) assets.Upload {
	return assets.Upload{
		Filename:    name,
		Size:        int64(len(content)),
		ContentType: "image/png",
		Open: func() (io.ReadSeekCloser, error) {
			return readSeekNopCloser{bytes.NewReader([]byte(content))}, nil
		},
	}
}

type env struct {
	mem        *store.Memory
	blobRoot   string
	blobs      *assets.DiskStore
	photos     *assets.Manager
	runner     *background.Runner
	mailer     *recordingMailer
	cache      *memCache
	issuer     *auth.Issuer
	accounts   *Accounts
	categories *Categories
	recipes    *Recipes
	contacts   *Contacts
}

func newEnv(t *testing.T) *env {
	t.Helper()
	log := logging.Discard()

	root := t.TempDir()
	blobs, err := assets.NewDiskStore(root)
	require.NoError(t, err)

	e := &env{
		mem:      store.NewMemory(),
		blobRoot: root,
		blobs:    blobs,
		runner:   background.NewRunner(log, time.Second),
		mailer:   &recordingMailer{},
		cache:    newMemCache(),
		issuer:   auth.NewIssuer("test-secret", time.Hour),
	}
	e.photos = assets.NewManager(blobs, e.runner, log, "recetas", 5<<20)
	e.accounts = NewAccounts(e.mem, e.issuer, e.mailer, e.runner, "http://front.test/")
	e.categories = NewCategories(e.mem, e.cache)
	e.recipes = NewRecipes(e.mem, e.photos, e.cache, log, store.FallbackUser.ID)
	e.contacts = NewContacts(e.mem, e.mailer, e.runner)
	return e
}

func (e *env) settle(t *testing.T) {
	t.Helper()
	require.NoError(t, e.runner.Wait(context.Background()))
}

func (e *env) blobExists(t *testing.T, filename string) bool {
	t.Helper()
	ok, err := e.blobs.Exists(context.Background(), e.photos.Key(filename))
	require.NoError(t, err)
	return ok
}

// photoFiles lists the files stored under the recipe prefix.
func (e *env) photoFiles(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(e.blobRoot, e.photos.Prefix()))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, de := range entries {
		names = append(names, de.Name())
	}
	return names
}

func kindOf(t *testing.T, err error, kind error, msg string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, kind), "got %v", err)
	assert.Equal(t, msg, common.Message(err, ""))
}
