package git

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// ChangedFile is a file touched by a diff with the lines of its new version
// that were added or modified.
type ChangedFile struct {
	Path         string
	ChangedLines []int
}

// Lines returns the changed lines as a set.
func (f ChangedFile) Lines() map[int]bool {
	lines := make(map[int]bool, len(f.ChangedLines))
	for _, l := range f.ChangedLines {
		lines[l] = true
	}
	return lines
}

// Changes maps absolute file paths to their changed lines.
type Changes map[string]map[int]bool

func NewChanges(files []ChangedFile) Changes {
	changes := make(Changes, len(files))
	for _, f := range files {
		changes[f.Path] = f.Lines()
	}
	return changes
}

// Lines looks a file up by any path that resolves to the same absolute path.
func (c Changes) Lines(path string) (map[int]bool, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, false
	}
	lines, ok := c[abs]
	return lines, ok
}

// GetChangedFiles runs git diff against baseRef inside dir. Returned paths
// are absolute.
func GetChangedFiles(ctx context.Context, dir, baseRef string) ([]ChangedFile, error) {
	top, err := run(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, err
	}
	root := strings.TrimSpace(string(top))

	output, err := run(ctx, dir, "diff", "-U0", "--no-color", "--no-ext-diff", baseRef)
	if err != nil {
		return nil, err
	}

	files, err := parseDiff(output)
	if err != nil {
		return nil, err
	}
	for i := range files {
		files[i].Path = filepath.Join(root, filepath.FromSlash(files[i].Path))
	}
	return files, nil
}

func run(ctx context.Context, dir string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git %s failed: %w: %s", args[0], err, strings.TrimSpace(stderr.String()))
	}
	return output, nil
}

// Hunk header: @@ -oldStart[,oldLen] +newStart[,newLen] @@
var hunkHeader = regexp.MustCompile(`^@@ -\d+(?:,\d+)? \+(\d+)(?:,(\d+))? @@`)

func parseDiff(output []byte) ([]ChangedFile, error) {
	scanner := bufio.NewScanner(bytes.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var changes []ChangedFile
	var current *ChangedFile
	// Between "diff --git" and the first hunk; "+++" lines inside hunks are content.
	inHeader := false
	flush := func() {
		if current != nil {
			changes = append(changes, *current)
			current = nil
		}
	}

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "diff --git "):
			flush()
			inHeader = true
		case inHeader && strings.HasPrefix(line, "+++ "):
			// The new side names the file; deleted files have nothing to check.
			target := strings.TrimPrefix(line, "+++ ")
			if target == "/dev/null" {
				continue
			}
			current = &ChangedFile{Path: strings.TrimPrefix(target, "b/"), ChangedLines: []int{}}
		case strings.HasPrefix(line, "@@") && current != nil:
			inHeader = false
			m := hunkHeader.FindStringSubmatch(line)
			if m == nil {
				return nil, fmt.Errorf("malformed hunk header %q", line)
			}
			start, _ := strconv.Atoi(m[1])
			count := 1 // Default length is 1 if omitted
			if m[2] != "" {
				count, _ = strconv.Atoi(m[2])
			}
			// A zero count is a pure deletion with no new lines.
			for i := 0; i < count; i++ {
				current.ChangedLines = append(current.ChangedLines, start+i)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read diff: %w", err)
	}
	flush()

	return changes, nil
}
