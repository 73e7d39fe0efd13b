package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/dayring/internal/config"
	"github.com/javiermolinar/dayring/internal/db"
	"github.com/javiermolinar/dayring/internal/preset"
	"github.com/javiermolinar/dayring/internal/schedule"
)

func (a *App) importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import PATH",
		Short: "Import a schedule from another database or a TOML file",
		Long: `Replace the schedule with one read from another dayring SQLite
database, or from a TOML file in the template format.

Example:
  dayring import /path/to/other.db
  dayring import ~/shift.toml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sourcePath, err := resolvePath(args[0])
			if err != nil {
				return err
			}
			if a.config.Storage.Backend != config.BackendDiskv {
				destPath, err := resolvePath(a.config.Storage.DBPath)
				if err != nil {
					return err
				}
				if sourcePath == destPath {
					return fmt.Errorf("source database matches current database")
				}
			}

			info, err := os.Stat(sourcePath)
			if err != nil {
				if os.IsNotExist(err) {
					return fmt.Errorf("source does not exist: %s", sourcePath)
				}
				return fmt.Errorf("checking source: %w", err)
			}
			if info.IsDir() {
				return fmt.Errorf("source path is a directory: %s", sourcePath)
			}

			ed, err := a.openEditor(cmd.Context())
			if err != nil {
				return err
			}
			p, err := importSchedule(cmd.Context(), ed.Model(), sourcePath)
			if err != nil {
				return err
			}
			if err := ed.Replace(cmd.Context(), p); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d slots from %s\n\n", p.Len(), sourcePath)
			printSchedule(cmd.OutOrStdout(), ed.Partition())
			return nil
		},
	}

	return cmd
}

// importSchedule reads a partition from a TOML template file or a SQLite
// database. Slots without a color get palette colors.
func importSchedule(ctx context.Context, model *schedule.Model, sourcePath string) (schedule.Partition, error) {
	if strings.EqualFold(filepath.Ext(sourcePath), ".toml") {
		dir, file := filepath.Split(sourcePath)
		name := strings.TrimSuffix(file, filepath.Ext(file))
		return model.LoadTemplate(preset.FromFS(os.DirFS(dir), "."), name)
	}

	source, err := db.New(sourcePath)
	if err != nil {
		return schedule.Partition{}, fmt.Errorf("opening source database: %w", err)
	}
	defer func() { _ = source.Close() }()

	slots, err := source.Load(ctx)
	if err != nil {
		return schedule.Partition{}, fmt.Errorf("reading source database: %w", err)
	}
	if len(slots) == 0 {
		return schedule.Partition{}, fmt.Errorf("source database has no saved schedule")
	}
	return model.LoadTemplate(fixedTemplate(slots), "import")
}

// fixedTemplate serves the same slots under any name.
type fixedTemplate []schedule.Slot

func (f fixedTemplate) Template(string) ([]schedule.Slot, error) {
	return append([]schedule.Slot(nil), f...), nil
}

func resolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("empty path")
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	return absPath, nil
}
