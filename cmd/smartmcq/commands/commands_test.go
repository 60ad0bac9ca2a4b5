package commands

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := Root()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRoot_HasSubcommands(t *testing.T) {
	cmd := Root()
	assert.Equal(t, "smartmcq", cmd.Use)

	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"serve", "author", "user", "version"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestVersion_Output(t *testing.T) {
	origVersion, origCommit, origDate := version, commit, date
	defer func() { version, commit, date = origVersion, origCommit, origDate }()

	SetVersionInfo("1.2.3", "abc123", "2026-01-01")
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "smartmcq 1.2.3")
	assert.Contains(t, out, "commit: abc123")
	assert.Contains(t, out, "built:  2026-01-01")
}

func TestUserAdd(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SMARTMCQ_DB_DSN", filepath.Join(t.TempDir(), "users.db"))

	out, err := run(t, "user", "add", "--username", "ada", "--password", "pw", "--role", "admin")
	require.NoError(t, err)
	assert.Contains(t, out, "created admin ada")

	_, err = run(t, "user", "add", "--username", "ada", "--password", "pw")
	assert.ErrorContains(t, err, "user already exists")

	_, err = run(t, "user", "add", "--username", "bob", "--password", "pw", "--role", "root")
	assert.ErrorContains(t, err, "unknown role")

	_, err = run(t, "user", "add", "--username", "bob")
	assert.ErrorContains(t, err, "password")
}

func TestAuthorRequiresOwner(t *testing.T) {
	_, err := run(t, "author")
	assert.ErrorContains(t, err, "owner")
}

func TestServeRejectsBadConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SMARTMCQ_SESSION_STORE", "redis")

	_, err := run(t, "serve")
	assert.ErrorContains(t, err, "redis_addr")
}
