package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	staffModel "library-backend/internal/domains/staff/model"
	"library-backend/internal/infrastructure/storage"
)

// ════════════════════════════════════════════════════════════════
// MIGRATE
// ════════════════════════════════════════════════════════════════

// Building the container already applies the schema; migrate only reports it
func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create missing tables and indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.container(cmd.Context())
			if err != nil {
				return err
			}
			if err := c.Store.EnsureSchema(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema up to date (%s)\n", c.Store.Dialect)
			return nil
		},
	}
}

// ════════════════════════════════════════════════════════════════
// RECONCILE
// ════════════════════════════════════════════════════════════════

func newReconcileCmd(a *app) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Repair copy availability flags that disagree with active loans",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.container(cmd.Context())
			if err != nil {
				return err
			}

			result, err := c.LoanService.Reconcile(cmd.Context(), dryRun)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, m := range result.Mismatches {
				fmt.Fprintf(out, "copy %s: available=%t active_loans=%d\n", m.CopyID, m.Available, m.ActiveLoans)
			}
			if dryRun {
				fmt.Fprintf(out, "%d mismatches found (dry run)\n", len(result.Mismatches))
			} else {
				fmt.Fprintf(out, "%d mismatches found, %d fixed\n", len(result.Mismatches), result.Fixed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report mismatches without changing anything")
	return cmd
}

// ════════════════════════════════════════════════════════════════
// EXPORT
// ════════════════════════════════════════════════════════════════

func newExportCmd(a *app) *cobra.Command {
	export := &cobra.Command{
		Use:   "export",
		Short: "Export reports",
	}

	var (
		out    string
		upload bool
		fresh  bool
	)

	statistics := &cobra.Command{
		Use:   "statistics",
		Short: "Write the statistics workbook to a file or object storage",
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" && !upload {
				return fmt.Errorf("one of --out or --upload is required")
			}

			c, err := a.container(cmd.Context())
			if err != nil {
				return err
			}

			if fresh {
				if err := c.ReportService.InvalidateCache(cmd.Context()); err != nil {
					return err
				}
			}

			file, err := c.ReportService.ExportStatistics(cmd.Context())
			if err != nil {
				return err
			}

			if out != "" {
				if err := os.WriteFile(out, file.Data, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", out, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", out, len(file.Data))
			}

			if upload {
				store, err := storage.NewMinIOStorage(cmd.Context(), c.Config.MinIO)
				if err != nil {
					return err
				}
				url, err := store.Upload(cmd.Context(), storage.ReportKey(file.Filename, time.Now().UTC()), file.Data, file.ContentType)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "uploaded %s\n", url)
			}
			return nil
		},
	}

	statistics.Flags().StringVarP(&out, "out", "o", "", "path of the xlsx file to write")
	statistics.Flags().BoolVar(&upload, "upload", false, "upload the workbook to the reports bucket")
	statistics.Flags().BoolVar(&fresh, "fresh", false, "recompute statistics instead of using the cached copy")

	export.AddCommand(statistics)
	return export
}

// ════════════════════════════════════════════════════════════════
// REPORTS (object storage)
// ════════════════════════════════════════════════════════════════

func newReportsCmd(a *app) *cobra.Command {
	reports := &cobra.Command{
		Use:   "reports",
		Short: "Browse exported reports in object storage",
	}

	list := &cobra.Command{
		Use:   "list [YYYY/MM]",
		Short: "List uploaded reports, optionally within a month or day prefix",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.storage(cmd.Context())
			if err != nil {
				return err
			}

			within := ""
			if len(args) == 1 {
				within = args[0]
			}
			keys, err := store.ListReports(cmd.Context(), within)
			if err != nil {
				return err
			}
			for _, k := range keys {
				fmt.Fprintln(cmd.OutOrStdout(), k)
			}
			return nil
		},
	}

	var out string
	fetch := &cobra.Command{
		Use:   "fetch KEY",
		Short: "Download an uploaded report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.storage(cmd.Context())
			if err != nil {
				return err
			}

			data, err := store.Download(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			target := out
			if target == "" {
				target = args[0][strings.LastIndex(args[0], "/")+1:]
			}
			if err := os.WriteFile(target, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", target, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", target, len(data))
			return nil
		},
	}
	fetch.Flags().StringVarP(&out, "out", "o", "", "destination path (defaults to the object name)")

	reports.AddCommand(list, fetch)
	return reports
}

func (a *app) storage(ctx context.Context) (*storage.MinIOStorage, error) {
	c, err := a.container(ctx)
	if err != nil {
		return nil, err
	}
	return storage.NewMinIOStorage(ctx, c.Config.MinIO)
}

// ════════════════════════════════════════════════════════════════
// STAFF
// ════════════════════════════════════════════════════════════════

func newStaffCmd(a *app) *cobra.Command {
	staff := &cobra.Command{
		Use:   "staff",
		Short: "Manage staff accounts",
	}

	var (
		username      string
		role          string
		passwordStdin bool
	)

	add := &cobra.Command{
		Use:   "add",
		Short: "Create a staff account",
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword(cmd, passwordStdin)
			if err != nil {
				return err
			}

			c, err := a.container(cmd.Context())
			if err != nil {
				return err
			}

			s, err := c.StaffService.Create(cmd.Context(), staffModel.CreateStaffRequest{
				Username: username,
				Password: password,
				Role:     staffModel.Role(role),
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created %s %s (%s)\n", s.Role, s.Username, s.ID)
			return nil
		},
	}

	add.Flags().StringVarP(&username, "username", "u", "", "login name")
	add.Flags().StringVarP(&role, "role", "r", string(staffModel.RoleLibrarian), "librarian or admin")
	add.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin instead of prompting")
	_ = add.MarkFlagRequired("username")

	staff.AddCommand(add)
	return staff
}

// readPassword prompts with masking on a terminal, or reads one line from stdin
func readPassword(cmd *cobra.Command, fromStdin bool) (string, error) {
	if !fromStdin && term.IsTerminal(int(syscall.Stdin)) {
		fmt.Fprint(cmd.OutOrStdout(), "Password: ")
		raw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return strings.TrimSpace(string(raw)), nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimSpace(line), nil
}
