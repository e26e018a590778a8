package contactdb

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, err)
	return s
}

func TestOpenCreatesEmptyArray(t *testing.T) {
	s := newTestStore(t)

	b, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, "[]", string(b))

	list, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NotNil(t, list)
}

func TestOpenKeepsExistingFile(t *testing.T) {
	dir := t.TempDir()
	existing := `[{"id":1,"name":"Bob","email":"b@c.de","message":"hi"}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(existing), 0644))

	s, err := Open(dir)
	require.NoError(t, err)

	records, err := s.All()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Bob", records[0].Name)
}

func TestAppendSequentialIDs(t *testing.T) {
	s := newTestStore(t)

	for i := 1; i <= 5; i++ {
		id, err := s.Append(Record{ID: 99, Name: "n", Email: "a@b.c", Message: "m"})
		require.NoError(t, err)
		assert.Equal(t, i, id)
	}

	list, err := s.List()
	require.NoError(t, err)
	require.Len(t, list, 5)
	for i, c := range list {
		assert.Equal(t, i+1, c.ID)
	}
}

func TestAppendPrettyPrints(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Append(Record{Name: "Alice", Email: "a@b.com", Message: "hello", IP: "10.0.0.1", UserAgent: "curl"})
	require.NoError(t, err)

	b, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "[\n  {\n    \"id\": 1,"), string(b))

	var raw []map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &raw))
	assert.Equal(t, "10.0.0.1", raw[0]["ip"])
	assert.Equal(t, "curl", raw[0]["userAgent"])
}

func TestListRedacts(t *testing.T) {
	s := newTestStore(t)
	long := strings.Repeat("x", 250)
	_, err := s.Append(Record{Name: "A", Email: "a@b.c", Message: long, IP: "1.2.3.4", UserAgent: "ua"})
	require.NoError(t, err)
	_, err = s.Append(Record{Name: "B", Email: "b@b.c", Message: "short"})
	require.NoError(t, err)

	list, err := s.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, strings.Repeat("x", 100)+"...", list[0].Message)
	assert.Len(t, list[0].Message, 103)
	assert.Equal(t, "short", list[1].Message)

	b, err := json.Marshal(list)
	require.NoError(t, err)
	assert.NotContains(t, string(b), `"ip"`)
	assert.NotContains(t, string(b), `"userAgent"`)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "", Truncate("", 100))
	assert.Equal(t, strings.Repeat("a", 100), Truncate(strings.Repeat("a", 100), 100))
	assert.Equal(t, strings.Repeat("a", 100)+"...", Truncate(strings.Repeat("a", 101), 100))
	// counted in characters, not bytes
	assert.Equal(t, strings.Repeat("é", 100)+"...", Truncate(strings.Repeat("é", 120), 100))
}

func TestCorruptFile(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(s.Path(), []byte("{not json"), 0644))

	_, err := s.Append(Record{Name: "A"})
	assert.True(t, errors.Is(err, ErrCorrupt), "got %v", err)

	_, err = s.List()
	assert.True(t, errors.Is(err, ErrCorrupt), "got %v", err)

	b, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(b))
}

func TestMissingFileAfterOpen(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.Remove(s.Path()))

	_, err := s.List()
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrCorrupt))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestConcurrentAppendsInProcess(t *testing.T) {
	s := newTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Append(Record{Name: "n", Email: "a@b.c", Message: "m"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	records, err := s.All()
	require.NoError(t, err)
	require.Len(t, records, 20)
	for i, r := range records {
		assert.Equal(t, i+1, r.ID)
	}
}
