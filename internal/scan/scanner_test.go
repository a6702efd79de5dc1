package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, root, rel string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte("{}"), 0o644))
}

func TestWalk(t *testing.T) {
	root := t.TempDir()
	write(t, root, "friends/friends.json")
	write(t, root, "messages/inbox/bob_1/message_1.json")
	write(t, root, "messages/inbox/bob_1/photos/a.jpg")
	write(t, root, "index.html")

	files, err := Walk(root)
	require.NoError(t, err)
	require.Len(t, files, 2)

	assert.Equal(t, "friends/friends.json", files[0].Rel)
	assert.Equal(t, "friends.json", files[0].Name)
	assert.Equal(t, filepath.Join(root, "friends", "friends.json"), files[0].Path)
	assert.Equal(t, int64(2), files[0].Size)
	assert.Equal(t, "messages/inbox/bob_1/message_1.json", files[1].Rel)
}

func TestWalkExtensionIgnoresCase(t *testing.T) {
	root := t.TempDir()
	write(t, root, "pokes/POKES.JSON")
	write(t, root, "search/your_search_history.Json")
	write(t, root, "notes.jsonl")

	files, err := Walk(root)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "pokes/POKES.JSON", files[0].Rel)
	assert.Equal(t, "your_search_history.Json", files[1].Name)
}

func TestWalkMissingRoot(t *testing.T) {
	_, err := Walk(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestWalkRootIsFile(t *testing.T) {
	root := t.TempDir()
	write(t, root, "a.json")
	_, err := Walk(filepath.Join(root, "a.json"))
	assert.Error(t, err)
}
