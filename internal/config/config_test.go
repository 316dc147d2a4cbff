package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// chdir mirrors testing.T.Chdir (Go 1.24+), which is unavailable on the
// toolchain used to run these tests.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}

func TestLoadDotEnv_Precedence(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	assert.NoError(t, os.WriteFile(".env", []byte("DRAFTS_SMOKE=base\n"), 0o644))
	assert.NoError(t, os.WriteFile(".env.local", []byte("DRAFTS_SMOKE=local\n"), 0o644))
	os.Unsetenv("DRAFTS_SMOKE")

	found := LoadDotEnv()

	assert.Equal(t, []string{".env.local", ".env"}, found)
	assert.Equal(t, "local", os.Getenv("DRAFTS_SMOKE"), ".env.local wins over .env")
	os.Unsetenv("DRAFTS_SMOKE")
}

func TestLoadDotEnv_OSEnvWins(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	assert.NoError(t, os.WriteFile(".env", []byte("DRAFTS_SMOKE=file\n"), 0o644))
	t.Setenv("DRAFTS_SMOKE", "os")

	LoadDotEnv()

	assert.Equal(t, "os", os.Getenv("DRAFTS_SMOKE"))
}

func TestLoadDotEnv_NoFiles(t *testing.T) {
	chdir(t, t.TempDir())
	assert.Nil(t, LoadDotEnv())
}

func TestLoad_Defaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.test.yaml")
	minimal := []byte("app:\n  env: test\n")
	assert.NoError(t, os.WriteFile(path, minimal, 0o644))

	cfg, err := Load(path)
	assert.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 2*time.Second, cfg.Drafts.AutoSaveDelay)
	assert.Equal(t, 10, cfg.Drafts.MaxPhotos)
	assert.Equal(t, 24, cfg.Drafts.DefaultSnoozeHours)
	assert.Equal(t, 30*time.Second, cfg.Connectivity.ProbeInterval)
	assert.Equal(t, 50, cfg.Rewards.SubmissionTaps)
	assert.False(t, cfg.IsDevelopment())
}
