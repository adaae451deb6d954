package shim

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	content := string(Render("/opt/claudew/claudew"))

	assert.True(t, strings.HasPrefix(content, "#!/bin/sh\n"))
	assert.Contains(t, content, Marker)
	assert.Contains(t, content, `exec "/opt/claudew/claudew" run "$@"`)
}

func TestWriteAndInspect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bin", "claude")

	hash, err := Write(path, "/usr/local/bin/claudew")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "sha256:"))
	assert.Equal(t, hash, Hash(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm(), "Shim must be executable")

	present, foreign := Inspect(path)
	assert.True(t, present)
	assert.False(t, foreign)
}

func TestWrite_RefusesForeignFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "claude")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\necho real claude\n"), 0o755))

	_, err := Write(path, "/usr/local/bin/claudew")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refusing to overwrite")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "echo real claude", "Foreign file must be untouched")
}

func TestWrite_OverwritesOwnShim(t *testing.T) {
	path := filepath.Join(t.TempDir(), "claude")

	_, err := Write(path, "/old/claudew")
	require.NoError(t, err)
	hash, err := Write(path, "/new/claudew")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "/new/claudew")
	assert.Equal(t, hash, Hash(path))
}

func TestRemove(t *testing.T) {
	dir := t.TempDir()

	// Absent file is fine.
	require.NoError(t, Remove(filepath.Join(dir, "absent")))

	// Own shim is deleted.
	own := filepath.Join(dir, "claude")
	_, err := Write(own, "/usr/local/bin/claudew")
	require.NoError(t, err)
	require.NoError(t, Remove(own))
	_, statErr := os.Stat(own)
	assert.True(t, os.IsNotExist(statErr))

	// Foreign file is refused.
	foreign := filepath.Join(dir, "claude2")
	require.NoError(t, os.WriteFile(foreign, []byte("something else"), 0o755))
	err = Remove(foreign)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refusing to delete")
}

func TestInspect_MissingFile(t *testing.T) {
	present, foreign := Inspect(filepath.Join(t.TempDir(), "nope"))
	assert.False(t, present)
	assert.False(t, foreign)
}
