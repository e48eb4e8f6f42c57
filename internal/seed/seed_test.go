package seed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tally-dev/tally/internal/backup"
)

const seedJSON = `[
  {"id": "seed_1", "description": "Coffee", "amount": 4.5, "category": "Food", "date": "2025-01-15"},
  {"description": "Books", "amount": 20, "category": "School", "date": "2025-01-10"}
]`

func TestSeed_LocalJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(seedJSON), 0o644))

	txns, err := New(path, "").Seed(context.Background())
	require.NoError(t, err)
	require.Len(t, txns, 2)
	assert.Equal(t, "seed_1", txns[0].ID)
	assert.Equal(t, "4.5", txns[0].Amount.String())
	assert.Empty(t, txns[1].ID)
}

func TestSeed_LocalCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.csv")
	data := backup.CSVHeader + "\n,Coffee,4.50,Food,2025-01-15,,\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	txns, err := New(path, "").Seed(context.Background())
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "Coffee", txns[0].Description)
}

func TestSeed_Remote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/seed.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(seedJSON))
	}))
	defer srv.Close()

	txns, err := New(srv.URL+"/seed.json", "").Seed(context.Background())
	require.NoError(t, err)
	assert.Len(t, txns, 2)

	_, err = New(srv.URL+"/missing.json", "").Seed(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status")
}

func TestSeed_RemoteCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(seedJSON))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(srv.URL, "json").Seed(ctx)
	assert.Error(t, err)
}

func TestSeed_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"not": "an array"}`), 0o644))

	tests := []struct {
		name    string
		seeder  *Seeder
		wantErr string
	}{
		{"missing file", New(filepath.Join(dir, "nope.json"), ""), "opening seed file"},
		{"malformed", New(bad, ""), "decoding seed JSON"},
		{"unknown format", New(bad, "xml"), "no seed parser"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.seeder.Seed(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSeed_EmptySource(t *testing.T) {
	txns, err := New("", "").Seed(context.Background())
	require.NoError(t, err)
	assert.Nil(t, txns)
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.NotNil(t, r.Get("JSON"))
	assert.NotNil(t, r.Get("csv"))
	assert.Nil(t, r.Get("xml"))
	assert.Panics(t, func() { r.Register(&JSONParser{}) })
}

func TestInferFormat(t *testing.T) {
	assert.Equal(t, "csv", InferFormat("data/seed.CSV"))
	assert.Equal(t, "json", InferFormat("seed.json"))
	assert.Equal(t, "csv", InferFormat("https://example.com/seed.csv?v=2"))
	assert.Equal(t, "json", InferFormat("https://example.com/seed"))
}

func TestJSONParser(t *testing.T) {
	txns, err := (&JSONParser{}).Parse(strings.NewReader("[]"))
	require.NoError(t, err)
	assert.Empty(t, txns)
}
