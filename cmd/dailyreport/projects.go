package main

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"docreview-backend/internal/finals"
	"docreview-backend/internal/projects"
)

func newProjectsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open()
			if err != nil {
				return err
			}
			ctx, cancel := opts.context()
			defer cancel()

			names, err := s.client.Projects(ctx)
			if err != nil {
				return err
			}
			selected := s.state.SelectedProject()
			out := cmd.OutOrStdout()
			if len(names) == 0 {
				fmt.Fprintln(out, "No projects yet.")
				return nil
			}
			for _, n := range names {
				marker := " "
				if n == selected {
					marker = ">"
				}
				fmt.Fprintf(out, "%s %s\n", marker, n)
			}
			return nil
		},
	}
}

func newFilesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "files <project>",
		Short: "List project files and daily reports",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open()
			if err != nil {
				return err
			}
			ctx, cancel := opts.context()
			defer cancel()
			project := args[0]

			var (
				metas []projects.FileMeta
				daily []string
			)
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				var err error
				metas, err = s.client.FilesMeta(gctx, project)
				return err
			})
			g.Go(func() error {
				var err error
				daily, err = s.client.DailyReports(gctx, project)
				return err
			})
			if err := g.Wait(); err != nil {
				return err
			}

			final, _, err := s.registry.Get(ctx, project)
			if err != nil {
				return err
			}
			if err := s.state.SelectProject(project); err != nil {
				return err
			}
			sel := restoreSelection(s, project, final)
			renderFiles(cmd.OutOrStdout(), metas, daily, final, sel.Files())
			return nil
		},
	}
}

func newUploadCmd(opts *options) *cobra.Command {
	var daily bool
	cmd := &cobra.Command{
		Use:   "upload <project> <path>",
		Short: "Upload a project file, or a daily report with --daily",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open()
			if err != nil {
				return err
			}
			ctx, cancel := opts.context()
			defer cancel()
			project, path := args[0], args[1]

			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			upload := s.client.Upload
			if daily {
				upload = s.client.UploadDailyReport
			}
			res, err := upload(ctx, project, filepath.Base(path), f)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Uploaded %s to %s\n", res.File, res.Path)
			if err := s.state.SelectProject(project); err != nil {
				return err
			}
			if daily {
				fmt.Fprintf(out, "Compare it with: dailyreport compare --project %s --file %s --start-date YYYY-MM-DD\n", project, res.File)
				return nil
			}

			final, _, err := s.registry.Get(ctx, project)
			if err != nil {
				return err
			}
			sel := restoreSelection(s, project, final)
			if sel.Locked() {
				fmt.Fprintf(out, "Selection is locked to the final file %s\n", final)
				return nil
			}
			if !slices.Contains(sel.Files(), res.File) {
				sel.Toggle(res.File)
			}
			return s.state.SetSelectedFiles(project, sel.Files())
		},
	}
	cmd.Flags().BoolVar(&daily, "daily", false, "Upload as a daily report")
	return cmd
}

func newDeleteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <project> <file>",
		Short: "Delete a project file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open()
			if err != nil {
				return err
			}
			ctx, cancel := opts.context()
			defer cancel()
			project, file := args[0], args[1]

			finalCleared, err := s.client.DeleteFile(ctx, project, file)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Deleted %s\n", file)

			localCleared, err := s.registry.ClearIf(ctx, project, file)
			if err != nil {
				return err
			}
			if finalCleared || localCleared {
				fmt.Fprintln(out, "Final file cleared")
			}
			final, _, err := s.registry.Get(ctx, project)
			if err != nil {
				return err
			}
			sel := restoreSelection(s, project, final)
			sel.Remove(file)
			return s.state.SetSelectedFiles(project, sel.Files())
		},
	}
}

func newSelectCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "select <project> <file>",
		Short: "Toggle a project file in the selection",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open()
			if err != nil {
				return err
			}
			ctx, cancel := opts.context()
			defer cancel()
			project, file := args[0], args[1]

			final, _, err := s.registry.Get(ctx, project)
			if err != nil {
				return err
			}
			if err := s.state.SelectProject(project); err != nil {
				return err
			}
			sel := restoreSelection(s, project, final)
			out := cmd.OutOrStdout()
			if !sel.Toggle(file) {
				fmt.Fprintf(out, "Selection is locked to the final file %s\n", final)
				return nil
			}
			if err := s.state.SetSelectedFiles(project, sel.Files()); err != nil {
				return err
			}
			renderSelection(out, sel.Files())
			return nil
		},
	}
}

func newFinalCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "final",
		Short: "Show or change the final file of a project",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show <project>",
		Short: "Show the final file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open()
			if err != nil {
				return err
			}
			ctx, cancel := opts.context()
			defer cancel()
			final, ok, err := s.registry.Get(ctx, args[0])
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "No final file")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), final)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <project> <file>",
		Short: "Mark a file as final",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open()
			if err != nil {
				return err
			}
			ctx, cancel := opts.context()
			defer cancel()
			project, file := args[0], args[1]
			if err := s.registry.Assign(ctx, project, file); err != nil {
				return err
			}
			if err := lockSelection(s, project, file); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Final file of %s: %s\n", project, file)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear <project>",
		Short: "Unmark the final file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open()
			if err != nil {
				return err
			}
			ctx, cancel := opts.context()
			defer cancel()
			if err := s.registry.Clear(ctx, args[0]); err != nil {
				return err
			}
			if err := lockSelection(s, args[0], ""); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Final file of %s cleared\n", args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle <project> <file>",
		Short: "Mark the file as final, or unmark it when it already is",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open()
			if err != nil {
				return err
			}
			ctx, cancel := opts.context()
			defer cancel()
			project := args[0]
			final, ok, err := s.registry.Toggle(ctx, project, args[1])
			if err != nil {
				return err
			}
			if err := lockSelection(s, project, final); err != nil {
				return err
			}
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "Final file of %s cleared\n", project)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Final file of %s: %s\n", project, final)
			return nil
		},
	})
	return cmd
}

func newFinalizeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "finalize <project>",
		Short: "Sync the final file with the server",
		Long: `Pushes the locally chosen final file to the server. When no final file
is chosen locally, the server's final file (if any) is adopted instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open()
			if err != nil {
				return err
			}
			ctx, cancel := opts.context()
			defer cancel()
			project := args[0]
			out := cmd.OutOrStdout()

			local, ok, err := s.registry.Get(ctx, project)
			if err != nil {
				return err
			}
			if ok {
				if err := s.client.Finalize(ctx, project, local); err != nil {
					return err
				}
				fmt.Fprintf(out, "Server final file of %s: %s\n", project, local)
				return nil
			}

			remote, ok, err := s.client.Final(ctx, project)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintf(out, "No final file for %s\n", project)
				return nil
			}
			if err := s.registry.Assign(ctx, project, remote); err != nil {
				return err
			}
			if err := lockSelection(s, project, remote); err != nil {
				return err
			}
			fmt.Fprintf(out, "Adopted server final file of %s: %s\n", project, remote)
			return nil
		},
	}
}

// restoreSelection rebuilds the project's selection from state. A set final
// file overrides whatever was stored.
func restoreSelection(s *session, project, final string) *finals.Selection {
	sel := finals.NewSelection(final)
	sel.Select(s.state.SelectedFiles(project)...)
	return sel
}

// lockSelection pins (or unpins, when final is empty) the stored selection.
func lockSelection(s *session, project, final string) error {
	sel := finals.NewSelection(final)
	return s.state.SetSelectedFiles(project, sel.Files())
}
