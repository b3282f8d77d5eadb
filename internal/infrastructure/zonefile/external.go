package zonefile

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/kompoln/bind9-ctl/internal/domain"
	"github.com/kompoln/bind9-ctl/internal/infrastructure/logger"
)

// Checker validates a rendered zone file before it can replace the
// live one. The stock implementation shells out to named-checkzone.
type Checker interface {
	Check(ctx context.Context, zone, path string) error
}

// Reloader tells the server to pick up a replaced zone file. The
// stock implementation shells out to rndc.
type Reloader interface {
	Reload(ctx context.Context, zone string) error
}

type ExecChecker struct {
	Bin string
}

func (c *ExecChecker) Check(ctx context.Context, zone, path string) error {
	if c.Bin == "" {
		logger.Debug("zone validation skipped, no checker binary configured", "zone", zone)
		return nil
	}
	cmd := exec.CommandContext(ctx, c.Bin, strings.TrimSuffix(zone, "."), path)
	logger.Info("validating zone file", "cmd", strings.Join(cmd.Args, " "))
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", domain.ErrZoneValidation, strings.TrimSpace(string(out)))
	}
	return nil
}

type RNDCReloader struct {
	Bin    string
	Server string
	View   string
}

func (r *RNDCReloader) Reload(ctx context.Context, zone string) error {
	if r.Bin == "" {
		return fmt.Errorf("%w: rndc binary not configured", domain.ErrReloadSignal)
	}
	args := []string{"-s", r.Server, "reload", strings.TrimSuffix(zone, ".")}
	if r.View != "" {
		args = append(args, r.View)
	}
	cmd := exec.CommandContext(ctx, r.Bin, args...)
	logger.Info("reloading zone", "cmd", strings.Join(cmd.Args, " "))
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", domain.ErrReloadSignal, strings.TrimSpace(string(out)))
	}
	return nil
}
