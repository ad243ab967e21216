package trash

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// finderTrash deletes through Finder so "Put Back" can restore the file.
type finderTrash struct{}

// System returns the Finder trash.
func System() (Remover, error) {
	return finderTrash{}, nil
}

func (finderTrash) Remove(ctx context.Context, paths []string) []Outcome {
	return removeEach(ctx, paths, func(path string) error {
		abs, _, err := resolve(path)
		if err != nil {
			return fmt.Errorf("trashing `%s`: %w", path, err)
		}
		var stderr bytes.Buffer
		cmd := finderDeleteCommand(ctx, abs)
		cmd.Stderr = &stderr
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("trashing `%s`: %w: %s", path, err, strings.TrimSpace(stderr.String()))
		}
		return nil
	})
}

// finderDeleteCommand passes the path as an argument so it needs no quoting.
func finderDeleteCommand(ctx context.Context, abs string) *exec.Cmd {
	return exec.CommandContext(ctx, "osascript",
		"-e", "on run argv",
		"-e", `tell application "Finder" to delete POSIX file (item 1 of argv)`,
		"-e", "end run",
		abs,
	)
}
