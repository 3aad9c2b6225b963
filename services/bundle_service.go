package services

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
)

// BundlerService installs the site's Ruby dependencies.
type BundlerService struct {
	runner CommandRunner
}

func NewBundlerService(runner CommandRunner) *BundlerService {
	return &BundlerService{runner: runner}
}

// Install runs `bundle install` in dir.
func (b *BundlerService) Install(ctx context.Context, dir string) error {
	_, err := run(ctx, b.runner, dir, "bundle", "install")
	return err
}

// InstallDependencies runs Install when enabled. A failed install is reported
// as a warning and never returned; when disabled a hint is printed instead.
func (b *BundlerService) InstallDependencies(ctx context.Context, out io.Writer, dir string, enabled bool) {
	if !enabled {
		fmt.Fprintf(out, "(Optional) Run 'bundle install' inside '%s' before building locally.\n", dir)
		return
	}
	if err := b.Install(ctx, dir); err != nil {
		log.Debug().Err(err).Msg("bundle install")
		fmt.Fprintln(out, "Warning: bundle install failed")
		return
	}
	fmt.Fprintln(out, "Bundle install completed.")
}
