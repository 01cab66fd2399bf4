package main

import (
	"bytes"
	"context"
	"image/color"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	gojson "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/imgsearch/blobstore"
	miniostore "github.com/hupe1980/imgsearch/blobstore/minio"
	s3store "github.com/hupe1980/imgsearch/blobstore/s3"
	"github.com/hupe1980/imgsearch/config"
	"github.com/hupe1980/imgsearch/model"
	"github.com/hupe1980/imgsearch/testutil"
)

func writePNG(t *testing.T, path string, c color.NRGBA) {
	t.Helper()
	testutil.WritePNG(t, path, testutil.Solid(6, 6, c))
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestBuildAndSearch(t *testing.T) {
	images := t.TempDir()
	dbDir := t.TempDir()
	writePNG(t, filepath.Join(images, "red.png"), color.NRGBA{R: 255, A: 255})
	writePNG(t, filepath.Join(images, "blue.png"), color.NRGBA{B: 255, A: 255})
	require.NoError(t, os.WriteFile(filepath.Join(images, "junk.png"), []byte("junk"), 0o644))

	out, err := run(t, "build", images, "--storage-root", dbDir, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "3 total, 2 indexed, 1 skipped")
	assert.FileExists(t, filepath.Join(dbDir, "features.json"))

	out, err = run(t, "search", filepath.Join(images, "red.png"), "--storage-root", dbDir, "--log-level", "error", "--json")
	require.NoError(t, err)

	var results []model.SearchResult
	require.NoError(t, gojson.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	assert.Equal(t, model.ImageID(filepath.Join(images, "red.png")), results[0].ID)
	assert.InDelta(t, 1.0, results[0].Score, 1e-6)

	out, err = run(t, "search", filepath.Join(images, "blue.png"), "--storage-root", dbDir, "--log-level", "error", "-k", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "SCORE")
	assert.Contains(t, out, "blue.png")
	assert.NotContains(t, out, "red.png")
}

func TestSearch_NoDatabase(t *testing.T) {
	images := t.TempDir()
	writePNG(t, filepath.Join(images, "q.png"), color.NRGBA{G: 255, A: 255})

	_, err := run(t, "search", filepath.Join(images, "q.png"), "--storage-root", t.TempDir(), "--log-level", "error")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run imgsearch build first")
}

func TestConfigFile(t *testing.T) {
	images := t.TempDir()
	dbDir := t.TempDir()
	writePNG(t, filepath.Join(images, "a.png"), color.NRGBA{R: 200, G: 200, A: 255})

	cfgPath := filepath.Join(t.TempDir(), "imgsearch.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
database: db.json.lz4
expiryWindow: 1m
logLevel: error
storage:
  kind: local
  root: `+dbDir+`
`), 0o644))

	_, err := run(t, "build", images, "--config", cfgPath)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dbDir, "db.json.lz4"))

	_, err = run(t, "build", images, "--config", cfgPath, "--expiry", "-1s")
	assert.Error(t, err)
}

func TestOpenBlobStore(t *testing.T) {
	ctx := context.Background()

	bs, err := openBlobStore(ctx, config.Storage{Kind: config.StorageLocal, Root: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &blobstore.LocalStore{}, bs)

	bs, err = openBlobStore(ctx, config.Storage{Kind: config.StorageMinio, Endpoint: "localhost:9000", Bucket: "b"})
	require.NoError(t, err)
	assert.IsType(t, &miniostore.Store{}, bs)

	bs, err = openBlobStore(ctx, config.Storage{Kind: config.StorageS3, Bucket: "b", Region: "us-east-1", AccessKey: "k", SecretKey: "s"})
	require.NoError(t, err)
	assert.IsType(t, &s3store.Store{}, bs)

	_, err = openBlobStore(ctx, config.Storage{Kind: "ftp"})
	assert.Error(t, err)
}

func TestRebuilder(t *testing.T) {
	images := t.TempDir()
	writePNG(t, filepath.Join(images, "first.png"), color.NRGBA{R: 255, A: 255})

	cfg := config.Default()
	cfg.Storage.Root = t.TempDir()
	cfg.LogLevel = "error"

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eng, err := newEngine(ctx, cfg)
	require.NoError(t, err)
	defer eng.Close()

	var builds atomic.Int32
	r := &rebuilder{
		eng:   eng,
		src:   eng.DirSource(images),
		delay: 20 * time.Millisecond,
		out:   &bytes.Buffer{},
		built: func(error) { builds.Add(1) },
	}

	done := make(chan error, 1)
	go func() { done <- r.run(ctx) }()

	require.Eventually(t, func() bool { return builds.Load() >= 1 }, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, eng.Len())

	require.NoError(t, os.Mkdir(filepath.Join(images, "nested"), 0o755))
	time.Sleep(50 * time.Millisecond)
	writePNG(t, filepath.Join(images, "nested", "second.png"), color.NRGBA{G: 255, A: 255})

	require.Eventually(t, func() bool { return eng.Len() == 2 }, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch loop did not stop")
	}
}
