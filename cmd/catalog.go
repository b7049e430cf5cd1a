package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/clickwheel/internal/catalog"
	"github.com/desertthunder/clickwheel/internal/formatter"
	"github.com/desertthunder/clickwheel/internal/models"
	"github.com/urfave/cli/v3"
)

// CatalogValidate checks every playlist in the loaded catalog.
func (r *Runner) CatalogValidate(ctx context.Context, cmd *cli.Command) error {
	if err := catalog.Validate(r.catalog); err != nil {
		r.writePlainln("✗ Catalog has problems:")
		r.writePlainln("%v", err)
		return fmt.Errorf("catalog validation failed: %w", models.ErrInvalidCatalog)
	}

	return r.writePlainln("✓ Catalog OK: %d genres, %d playlists", r.catalog.Len(), len(r.catalog.Flatten()))
}

// CatalogExport renders the catalog to stdout or --output.
func (r *Runner) CatalogExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	var art formatter.ArtworkFunc
	if cmd.Bool("artwork") {
		resolver, err := r.resolver("manual", false)
		if err != nil {
			return err
		}
		art = func(p models.Playlist) string {
			if a := resolver.Lookup(ctx, p); !a.Placeholder() {
				return a.Ref
			}
			return ""
		}
	}

	output := cmd.String("output")
	if output == "" {
		data, err := formatter.Export(r.catalog, format, art)
		if err != nil {
			return err
		}
		if _, err := r.output.Write(data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	path, err := formatter.WriteExport(r.catalog, format, output, art)
	if err != nil {
		return err
	}

	r.logger.Info("catalog exported", "format", format, "path", path)
	return r.writePlainln("✓ Exported catalog to %s", path)
}
