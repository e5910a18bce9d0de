package gitops

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gitOutput(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	require.NoError(t, err)
	return string(out)
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	err := Init(dir)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, ".git"))
	require.NoError(t, err, ".git directory should exist")
}

func TestIsRepo(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, IsRepo(dir), "empty dir should not be a repo")

	require.NoError(t, Init(dir))
	assert.True(t, IsRepo(dir), "initialized dir should be a repo")
}

func TestCommit(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(dir))

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "ledger"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ledger", "transactions.csv"), []byte("id\n"), 0o644))

	hash, err := Commit(dir, "import: 2 statements", "Test Author", "test@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	assert.Contains(t, gitOutput(t, dir, "log", "--format=%s", "-1"), "import: 2 statements")
	assert.Contains(t, gitOutput(t, dir, "log", "--format=%an <%ae>", "-1"), "Test Author <test@example.com>")
	assert.Contains(t, gitOutput(t, dir, "log", "--format=%cn", "-1"), "Test Author")
}

func TestCommit_OnlyNamedPaths(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "ledger.csv"), []byte("id\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scratch.txt"), []byte("x"), 0o644))

	_, err := Commit(dir, "ledger only", "T", "t@example.com", "ledger.csv")
	require.NoError(t, err)

	files := gitOutput(t, dir, "show", "--name-only", "--format=", "HEAD")
	assert.Contains(t, files, "ledger.csv")
	assert.NotContains(t, files, "scratch.txt")
}

func TestCommit_NothingToCommit(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(dir))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))

	_, err := Commit(dir, "first", "T", "t@example.com")
	require.NoError(t, err)

	_, err = Commit(dir, "second", "T", "t@example.com")
	assert.True(t, errors.Is(err, ErrNothingToCommit))
}
