package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/checklist-go/domain/checklist"
	"github.com/felixgeelhaar/checklist-go/infrastructure/storage/filesystem"
)

// newShowCmd creates the show command, printing a stored checklist.
func (a *App) newShowCmd() *cobra.Command {
	var (
		configPath string
		tracking   bool
	)

	cmd := &cobra.Command{
		Use:   "show <thread-id>",
		Short: "Print the stored checklist for a thread",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			store, err := filesystem.NewChecklistStore(cfg.StorageDir)
			if err != nil {
				return err
			}

			var pkg *checklist.Package
			if tracking {
				pkg, err = store.LoadTracking(cmd.Context(), args[0])
			} else {
				pkg, err = store.LoadFinal(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}

			printSections(a.stdout, pkg.Sections)
			if tracking {
				fmt.Fprintf(a.stdout, "\n%d of %d items complete.\n", pkg.DoneCount(), pkg.ItemCount())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	cmd.Flags().BoolVar(&tracking, "tracking", false, "show the tracking copy with completion flags")
	return cmd
}

// printSections renders a checklist as indented text.
func printSections(w io.Writer, sections []checklist.Section) {
	for _, s := range sections {
		fmt.Fprintf(w, "\n## %s\n", s.Name)
		if s.Objective != "" {
			fmt.Fprintf(w, "   %s\n", s.Objective)
		}
		for _, item := range s.Items {
			mark := " "
			if item.Done {
				mark = "x"
			}
			fmt.Fprintf(w, " [%s] %s %s\n", mark, item.Identifier, item.Title)
			if item.Description != "" {
				fmt.Fprintf(w, "       %s\n", item.Description)
			}
			for _, step := range item.SubSteps {
				fmt.Fprintf(w, "       - %s\n", step)
			}
		}
	}
}
