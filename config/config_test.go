package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "features.json", cfg.Database)
	assert.Equal(t, 10*time.Minute, cfg.Window())
	assert.Equal(t, 4, cfg.Bins)
	assert.Equal(t, StorageLocal, cfg.Storage.Kind)
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
database: db.json.zst
codec: json
expiryWindow: 90s
workers: 3
patterns: ["**/*.png"]
logLevel: debug
storage:
  kind: minio
  endpoint: localhost:9000
  bucket: imgs
`))
	require.NoError(t, err)

	assert.Equal(t, "db.json.zst", cfg.Database)
	assert.Equal(t, "json", cfg.Codec)
	assert.Equal(t, 90*time.Second, cfg.Window())
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, []string{"**/*.png"}, cfg.Patterns)
	assert.Equal(t, 4, cfg.Bins, "unset keys keep their defaults")

	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)
	assert.Equal(t, "imgs", cfg.Storage.Bucket)
}

func TestParse_ExpandsStorageEnv(t *testing.T) {
	t.Setenv("IMGSEARCH_TEST_SECRET", "s3cr3t")

	cfg, err := Parse([]byte(`
storage:
  kind: s3
  bucket: b
  secretKey: ${IMGSEARCH_TEST_SECRET}
`))
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t", cfg.Storage.SecretKey)
}

func TestParse_Invalid(t *testing.T) {
	cases := map[string]string{
		"duration":      "expiryWindow: soon",
		"negative":      "expiryWindow: -1m",
		"codec":         "codec: xml",
		"bins":          "bins: 0",
		"level":         "logLevel: loud",
		"storage kind":  "storage: {kind: ftp}",
		"s3 bucket":     "storage: {kind: s3}",
		"minio missing": "storage: {kind: minio, bucket: b}",
		"yaml":          "database: [",
	}

	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "imgsearch.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: 2\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Workers)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDuration_MarshalRoundTrip(t *testing.T) {
	out, err := yaml.Marshal(Default())
	require.NoError(t, err)
	assert.Contains(t, string(out), "expiryWindow: 10m0s")

	cfg, err := Parse(out)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, cfg.Window())
}
