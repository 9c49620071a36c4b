package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"roster/adapters/excel"
	"roster/internal"
	"roster/internal/calendar"
	"roster/internal/config"
	"roster/internal/container"
	"roster/internal/importer"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()
	gin.SetMode(gin.ReleaseMode)

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "roster-cli",
		Short:         "Work schedule roster: inspect workbooks, import, export",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newSheetsCmd(),
		newPreviewCmd(),
		newImportCmd(),
		newExportCmd(),
		newTodayCmd(),
		newSummaryCmd(),
	)
	return rootCmd
}

func newSheetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sheets [workbook]",
		Short: "List the sheets of a workbook with their row counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSheets(cmd.OutOrStdout(), args[0])
		},
	}
}

func newPreviewCmd() *cobra.Command {
	var sheet string

	cmd := &cobra.Command{
		Use:   "preview [workbook]",
		Short: "Parse one sheet without touching the store",
		Long: `Parse one sheet and print the records an import would produce.

Example: roster-cli preview schedule.xlsx --sheet July`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(cmd.OutOrStdout(), args[0], sheet)
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "", "Sheet to parse (default: first sheet)")
	return cmd
}

func newImportCmd() *cobra.Command {
	var sheet string

	cmd := &cobra.Command{
		Use:   "import [workbook]",
		Short: "Replace every stored record with one sheet of a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd.Context(), func(c *container.Container) error {
				result, err := c.Importer.ImportFile(cmd.Context(), args[0], sheet)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d customers from %q (%d rows skipped)\n", result.Accepted, result.Sheet, result.Skipped)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "", "Sheet to import (default: first sheet)")
	return cmd
}

func newExportCmd() *cobra.Command {
	var (
		out    string
		format string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every record as JSON or iCalendar",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd.Context(), func(c *container.Container) error {
				w := cmd.OutOrStdout()
				if out != "" {
					f, err := os.Create(out)
					if err != nil {
						return err
					}
					defer f.Close()
					w = f
				}

				switch format {
				case "json":
					return calendar.WriteExport(w, c.Store.All())
				case "ics":
					return calendar.WriteICS(w, c.Store.All(), time.Now())
				default:
					return fmt.Errorf("unknown format %q (use json or ics)", format)
				}
			})
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVar(&format, "format", "json", "Output format: json|ics")
	return cmd
}

func newTodayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Print today's agenda",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd.Context(), func(c *container.Container) error {
				lines := c.Agenda.LogAgenda(c.Store)
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d scheduled\n", c.Store.Today(), len(lines))
				for _, line := range lines {
					fmt.Fprintln(cmd.OutOrStdout(), "  "+line)
				}
				return nil
			})
		},
	}
}

func newSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print record and schedule counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd.Context(), func(c *container.Container) error {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(c.Store.Summary())
			})
		},
	}
}

func runSheets(w io.Writer, path string) error {
	wb, err := excel.NewDataReader(excel.DefaultExcelConfig()).OpenFile(path)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SHEET\tROWS")
	for _, name := range wb.SheetNames() {
		fmt.Fprintf(tw, "%s\t%d\n", name, wb.RowCount(name))
	}
	return tw.Flush()
}

func runPreview(w io.Writer, path, sheet string) error {
	wb, err := excel.NewDataReader(excel.DefaultExcelConfig()).OpenFile(path)
	if err != nil {
		return err
	}
	if sheet == "" && len(wb.SheetNames()) > 0 {
		sheet = wb.SheetNames()[0]
	}

	result, err := importer.NewAggregator(internal.NewLogger(internal.LogLevelError)).Aggregate(wb, sheet)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// withContainer opens the configured store for one command
func withContainer(ctx context.Context, fn func(c *container.Container) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	// The agenda schedule is irrelevant to one-shot commands.
	cfg.Agenda.Spec = ""

	c, err := container.New(cfg)
	if err != nil {
		return err
	}
	defer c.Shutdown(context.Background())

	if ctx == nil {
		ctx = context.Background()
	}
	if err := c.Init(ctx); err != nil {
		return err
	}
	return fn(c)
}
