package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clipline/clipline/internal/project"
)

// NewProjectCommand creates the "project" command group.
func NewProjectCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Create and inspect projects",
	}
	cmd.AddCommand(newProjectCreateCommand(opts))
	cmd.AddCommand(newProjectShowCommand(opts))
	return cmd
}

func newProjectCreateCommand(opts *RootOptions) *cobra.Command {
	var ratio string

	cmd := &cobra.Command{
		Use:   "create <project-id>",
		Short: "Create a new project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := opts.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			ar := project.AspectRatio(ratio)
			if err := s.CreateProject(cmd.Context(), args[0], ar); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created project %s (%s)\n", args[0], ar)
			return nil
		},
	}

	cmd.Flags().StringVar(&ratio, "aspect", project.DefaultAspectRatio.String(), "aspect ratio (9:16, 16:9, 1:1, 3:4, 4:3)")
	return cmd
}

func newProjectShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <project-id>",
		Short: "Show a project's row and log size",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := opts.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := cmd.Context()
			proj, err := s.GetProjectState(ctx, args[0])
			if err != nil {
				return err
			}
			if proj == nil {
				return fmt.Errorf("project %s not found", args[0])
			}
			records, err := s.ListHistoryRecords(ctx, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "id:            %s\n", proj.ID)
			fmt.Fprintf(out, "aspect ratio:  %s\n", proj.AspectRatio)
			fmt.Fprintf(out, "history at:    %s\n", orDash(proj.HistoryAt))
			fmt.Fprintf(out, "history size:  %d\n", len(records))
			return nil
		},
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
