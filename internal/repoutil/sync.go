// Package repoutil keeps a local clone of the companion client repository
// fresh. The clone is kept alongside the monitor but its contents are not
// otherwise used.
package repoutil

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

// Sync clones url into dir, or pulls if dir already exists.
func Sync(ctx context.Context, url, dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return run(ctx, "", "git", "clone", url, dir)
	}
	return run(ctx, dir, "git", "pull")
}

func run(ctx context.Context, dir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s %s: %w: %s", name, args[0], err, out)
	}
	return nil
}
