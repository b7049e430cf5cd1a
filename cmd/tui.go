package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/clickwheel/internal/artwork"
	"github.com/desertthunder/clickwheel/internal/shared"
	"github.com/desertthunder/clickwheel/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive click wheel.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Log.File)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, r.logger.GetLevel())
	r.SetLogger(fileLogger)

	resolver, err := r.resolver("remote", false)
	if err != nil {
		r.logger.Warn("artwork cache unavailable, using placeholders", "error", err)
		resolver = artwork.NewResolver(artwork.ResolverOpts{Placeholder: r.config.Artwork.Placeholder, Logger: r.logger})
	}

	model := ui.NewModel(ctx, r.browser(), resolver)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
