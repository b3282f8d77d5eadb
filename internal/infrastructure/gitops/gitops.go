package gitops

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/kompoln/bind9-ctl/internal/domain"
	"github.com/kompoln/bind9-ctl/internal/infrastructure/logger"
)

// IsRepo reports whether dir sits inside a git worktree.
func IsRepo(ctx context.Context, dir string) bool {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--is-inside-work-tree")
	cmd.Dir = dir
	out, err := cmd.Output()
	return err == nil && strings.TrimSpace(string(out)) == "true"
}

// AutoCommit stages the given paths and records a commit, building
// the audit trail for zone file changes.
func AutoCommit(ctx context.Context, dir string, paths []string, message string) error {
	if len(paths) == 0 {
		return nil
	}

	addArgs := append([]string{"add"}, paths...)
	if err := run(ctx, dir, addArgs...); err != nil {
		return domain.WrapOp("git add", err)
	}
	if err := run(ctx, dir, "commit", "-m", message); err != nil {
		return domain.WrapOp("git commit", err)
	}
	logger.Info("committed zone file changes", "paths", paths, "message", message)
	return nil
}

// CommitMessage expands the {zone} placeholder in the configured
// commit template.
func CommitMessage(tmpl, zone string) string {
	return strings.ReplaceAll(tmpl, "{zone}", strings.TrimSuffix(zone, "."))
}

func run(ctx context.Context, dir string, args ...string) error {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("git %s: %s", strings.Join(args, " "), strings.TrimSpace(string(out)))
	}
	return nil
}
