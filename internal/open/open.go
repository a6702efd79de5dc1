package open

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Zuo-Peng/fb-quantifier/internal/activity"
	"github.com/Zuo-Peng/fb-quantifier/internal/archive"
	"github.com/Zuo-Peng/fb-quantifier/internal/index"
)

// SourceFile picks the archive file of a run that contributed events of
// kind, preferring the one with the most events.
func SourceFile(files []index.FileRow, kind activity.Kind) (index.FileRow, bool) {
	var best index.FileRow
	found := false
	for _, f := range files {
		if f.Events == 0 || !archive.Produces(f.Route, kind) {
			continue
		}
		if !found || f.Events > best.Events {
			best, found = f, true
		}
	}
	return best, found
}

// OpenKind opens the file behind kind in $EDITOR at its first timestamp.
func OpenKind(ctx context.Context, db *index.DB, run *index.Run, kind activity.Kind) error {
	files, err := db.RunFiles(ctx, run.ID)
	if err != nil {
		return fmt.Errorf("run files: %w", err)
	}
	f, ok := SourceFile(files, kind)
	if !ok {
		return fmt.Errorf("run %s has no file with %s events", run.ID, kind.Label())
	}

	filePath := filepath.Join(run.ArchiveRoot, filepath.FromSlash(f.RelPath))
	if _, err := os.Stat(filePath); err != nil {
		return fmt.Errorf("file not found: %s", filePath)
	}

	lineNum, err := firstLine(filePath, "timestamp")
	if err != nil {
		return err
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "less"
	}
	return openInEditor(editor, filePath, lineNum)
}

// firstLine returns the 1-based line of the first occurrence of needle,
// or 1 when it does not occur.
func firstLine(path, needle string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for n := 1; sc.Scan(); n++ {
		if strings.Contains(sc.Text(), needle) {
			return n, nil
		}
	}
	return 1, sc.Err()
}

func editorCommand(editor, filePath string, lineNum int) *exec.Cmd {
	switch {
	case strings.Contains(editor, "vim") || strings.Contains(editor, "nvim"):
		return exec.Command(editor, fmt.Sprintf("+%d", lineNum), filePath)
	case strings.Contains(editor, "code"):
		return exec.Command(editor, "--goto", filePath+":"+strconv.Itoa(lineNum))
	case strings.Contains(editor, "less"):
		return exec.Command(editor, "+"+strconv.Itoa(lineNum), filePath)
	default:
		return exec.Command(editor, filePath)
	}
}

func openInEditor(editor, filePath string, lineNum int) error {
	cmd := editorCommand(editor, filePath, lineNum)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
