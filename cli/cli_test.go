package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "missing.env")}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestMigrateThenSeed(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_DSN", filepath.Join(t.TempDir(), "comanda.db"))

	out, err := run(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "schema up to date")

	out, err = run(t, "seed", "--file", "../database/testdata/seed.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "seeded 1 tenant(s), 2 product(s), 2 user(s)")

	// idempotent
	_, err = run(t, "seed", "-f", "../database/testdata/seed.yaml")
	require.NoError(t, err)
}

func TestSeedNeedsFile(t *testing.T) {
	_, err := run(t, "seed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"file" not set`)
}

func TestUnknownDriverFailsEarly(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")
	_, err := run(t, "migrate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown DB_DRIVER")
}
