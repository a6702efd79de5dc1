package open

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/fb-quantifier/internal/activity"
	"github.com/Zuo-Peng/fb-quantifier/internal/index"
)

func TestSourceFile(t *testing.T) {
	files := []index.FileRow{
		{RelPath: "messages/inbox/a/message_1.json", Route: "messages", Events: 3},
		{RelPath: "messages/inbox/b/message_1.json", Route: "messages", Events: 9},
		{RelPath: "pokes.json", Route: "poked", Events: 0},
		{RelPath: "friends/friends.json", Route: "friend-added", Events: 2},
	}

	f, ok := SourceFile(files, activity.MessageSent)
	require.True(t, ok)
	assert.Equal(t, "messages/inbox/b/message_1.json", f.RelPath)

	f, ok = SourceFile(files, activity.FriendAdded)
	require.True(t, ok)
	assert.Equal(t, "friends/friends.json", f.RelPath)

	_, ok = SourceFile(files, activity.Poked)
	assert.False(t, ok, "files without events are never opened")
}

func TestFirstLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.json")
	require.NoError(t, os.WriteFile(path, []byte("{\n  \"pokes_v2\": [\n    {\"timestamp\": 1}\n  ]\n}\n"), 0o644))

	n, err := firstLine(path, "timestamp")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = firstLine(path, "absent")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestEditorCommand(t *testing.T) {
	tests := []struct {
		editor string
		want   []string
	}{
		{"nvim", []string{"nvim", "+7", "/a.json"}},
		{"code", []string{"code", "--goto", "/a.json:7"}},
		{"less", []string{"less", "+7", "/a.json"}},
		{"nano", []string{"nano", "/a.json"}},
	}
	for _, tt := range tests {
		cmd := editorCommand(tt.editor, "/a.json", 7)
		assert.Equal(t, tt.want, cmd.Args, tt.editor)
	}
}
