package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"journal/internal/bootstrap"
	scheduledto "journal/internal/modules/schedule/dto"
	"journal/internal/platform/config"
	"journal/internal/platform/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	dataDir   string
	logLevel  string
	logFormat string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "journal",
		Short:         "Personal learning journal: notes, resources, streaks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.dataDir, "data", "data", "directory holding notes.json and resources.json")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug|info|warn|error (default from journal.yaml or info)")
	root.PersistentFlags().StringVar(&opts.logFormat, "log-format", "json", "log format: json|console")

	root.AddCommand(newNoteCmd(opts))
	root.AddCommand(newResourceCmd(opts))
	root.AddCommand(newCalendarCmd(opts))
	root.AddCommand(newScheduleCmd(opts))
	root.AddCommand(newSearchCmd(opts))
	root.AddCommand(newReindexCmd(opts))
	root.AddCommand(newExportCmd(opts))
	root.AddCommand(newTUICmd(opts))
	root.AddCommand(newServeCmd(opts))
	return root
}

// loadApp wires the application. The TUI owns the terminal, so it logs to
// a file instead of stderr.
func loadApp(opts *rootOptions, toFile bool) (*bootstrap.App, error) {
	cfg, err := config.New(opts.dataDir)
	if err != nil {
		return nil, err
	}
	level := cfg.LogLevel
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	var logger *zap.Logger
	if toFile {
		logger, err = logging.NewFile(cfg.LogPath, level)
	} else {
		logger, err = logging.New(level, opts.logFormat)
	}
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg, logger)
}

// withApp runs fn against a freshly wired app and releases it afterwards.
func withApp(opts *rootOptions, fn func(*bootstrap.App) error) error {
	app, err := loadApp(opts, false)
	if err != nil {
		return err
	}
	defer app.Close()
	return fn(app)
}

func printWarnings(w io.Writer, warnings ...string) {
	for _, warning := range warnings {
		if warning != "" {
			_, _ = fmt.Fprintln(w, "warning:", warning)
		}
	}
}

// readText joins positional args, or reads stdin when the only arg is "-".
func readText(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 && args[0] == "-" {
		raw, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return strings.TrimRight(string(raw), "\n"), nil
	}
	return strings.Join(args, " "), nil
}

// ─── notes ───────────────────────────────────────────────────────────────────

func newNoteCmd(opts *rootOptions) *cobra.Command {
	note := &cobra.Command{Use: "note", Short: "Add, list, edit and delete notes"}

	var section, date string
	add := &cobra.Command{
		Use:   "add --section <section> [--date YYYY-MM-DD] <text|->",
		Short: "Add a note",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readText(cmd, args)
			if err != nil {
				return err
			}
			return withApp(opts, func(app *bootstrap.App) error {
				out, err := app.JournalCLI.AddNote(context.Background(), date, section, body)
				if err != nil {
					return err
				}
				printWarnings(cmd.ErrOrStderr(), out.Warning)
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "note saved %s (%s, %s)\n", out.Note.ID, out.Note.Date, out.Note.Section)
				return nil
			})
		},
	}
	add.Flags().StringVar(&section, "section", "", "section label or tag, e.g. \"Learning Skill\" or learning-skill")
	add.Flags().StringVar(&date, "date", "", "note date, defaults to today")
	_ = add.MarkFlagRequired("section")

	var listSection string
	var render bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List notes grouped by day, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				view, err := app.JournalCLI.ListNotes(context.Background(), listSection)
				if err != nil {
					return err
				}
				printWarnings(cmd.ErrOrStderr(), view.Warnings...)
				if view.Total == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no notes")
					return nil
				}
				w := cmd.OutOrStdout()
				for _, group := range view.Groups {
					_, _ = fmt.Fprintf(w, "## %s\n", group.Day)
					for _, n := range group.Notes {
						body := n.Body
						if render {
							if rendered, err := glamour.Render(body, "dark"); err == nil {
								body = rendered
							}
						}
						_, _ = fmt.Fprintf(w, "- [%s] %s\t%s\n", n.Section, n.ID, indent(body))
					}
				}
				return nil
			})
		},
	}
	list.Flags().StringVar(&listSection, "section", "", "only notes from this section")
	list.Flags().BoolVar(&render, "render", false, "render markdown bodies")

	edit := &cobra.Command{
		Use:   "edit <id> <text|->",
		Short: "Replace the text of a note",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readText(cmd, args[1:])
			if err != nil {
				return err
			}
			return withApp(opts, func(app *bootstrap.App) error {
				out, err := app.JournalCLI.EditNote(context.Background(), args[0], body)
				if err != nil {
					return err
				}
				printWarnings(cmd.ErrOrStderr(), out.Warning)
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), appliedLine(out.Applied, "note updated", "no note with id "+args[0]))
				return nil
			})
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				out, err := app.JournalCLI.DeleteNote(context.Background(), args[0])
				if err != nil {
					return err
				}
				printWarnings(cmd.ErrOrStderr(), out.Warning)
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), appliedLine(out.Applied, "note deleted", "no note with id "+args[0]))
				return nil
			})
		},
	}

	note.AddCommand(add, list, edit, del)
	return note
}

// ─── resources ───────────────────────────────────────────────────────────────

func newResourceCmd(opts *rootOptions) *cobra.Command {
	resource := &cobra.Command{Use: "resource", Short: "Add, list, edit and delete resources"}

	var section, url, desc string
	add := &cobra.Command{
		Use:   "add --section <section> --url <url> [--desc <text>]",
		Short: "Add a resource dated today",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				out, err := app.JournalCLI.AddResource(context.Background(), section, url, desc)
				if err != nil {
					return err
				}
				printWarnings(cmd.ErrOrStderr(), out.Warning)
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "resource saved %s (%s)\n", out.Resource.ID, out.Resource.Section)
				return nil
			})
		},
	}
	add.Flags().StringVar(&section, "section", "", "section label or tag")
	add.Flags().StringVar(&url, "url", "", "resource url")
	add.Flags().StringVar(&desc, "desc", "", "description")
	_ = add.MarkFlagRequired("section")

	var listSection string
	list := &cobra.Command{
		Use:   "list",
		Short: "List resources, most recently added first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				view, err := app.JournalCLI.ListResources(context.Background(), listSection)
				if err != nil {
					return err
				}
				printWarnings(cmd.ErrOrStderr(), view.Warnings...)
				if len(view.Resources) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no resources")
					return nil
				}
				for _, r := range view.Resources {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\t%s\n", r.ID, r.Date, r.Section, r.URL, r.Desc)
				}
				return nil
			})
		},
	}
	list.Flags().StringVar(&listSection, "section", "", "only resources from this section")

	edit := &cobra.Command{
		Use:   "edit <id> <desc|->",
		Short: "Replace the description of a resource",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(cmd, args[1:])
			if err != nil {
				return err
			}
			return withApp(opts, func(app *bootstrap.App) error {
				out, err := app.JournalCLI.EditResource(context.Background(), args[0], text)
				if err != nil {
					return err
				}
				printWarnings(cmd.ErrOrStderr(), out.Warning)
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), appliedLine(out.Applied, "resource updated", "no resource with id "+args[0]))
				return nil
			})
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a resource",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				out, err := app.JournalCLI.DeleteResource(context.Background(), args[0])
				if err != nil {
					return err
				}
				printWarnings(cmd.ErrOrStderr(), out.Warning)
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), appliedLine(out.Applied, "resource deleted", "no resource with id "+args[0]))
				return nil
			})
		},
	}

	resource.AddCommand(add, list, edit, del)
	return resource
}

// ─── views ───────────────────────────────────────────────────────────────────

func newCalendarCmd(opts *rootOptions) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show one row per day with note and resource activity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				cal, err := app.JournalCLI.Calendar(context.Background())
				if err != nil {
					return err
				}
				printWarnings(cmd.ErrOrStderr(), cal.Warnings...)
				w := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(w, "current streak %d, longest %d\n", cal.CurrentStreak, cal.LongestStreak)
				for i, d := range cal.Days {
					if days > 0 && i >= days {
						break
					}
					_, _ = fmt.Fprintf(w, "%s\t%-9s\t%d\t%s\t%s\n", d.Day, d.Weekday, d.NotesCount, mark(d.HasNote), mark(d.HasResource))
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "limit output to the most recent N days")
	return cmd
}

func newScheduleCmd(opts *rootOptions) *cobra.Command {
	var today bool
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Show the daily, weekly and monthly standards",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				w := cmd.OutOrStdout()
				if today {
					due, err := app.ScheduleCLI.Today(context.Background())
					if err != nil {
						return err
					}
					_, _ = fmt.Fprintf(w, "%s %s\n", due.Weekday, due.Day)
					for _, e := range due.Entries {
						_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", e.When, e.Standard, e.Notes)
					}
					return nil
				}
				s, err := app.ScheduleCLI.Schedule(context.Background())
				if err != nil {
					return err
				}
				printTable(w, "Daily", s.Daily)
				printTable(w, "Weekly", s.Weekly)
				printTable(w, "Monthly", s.Monthly)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&today, "today", false, "only what is due today")
	return cmd
}

// ─── projections ─────────────────────────────────────────────────────────────

func newSearchCmd(opts *rootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search note text and resource urls or descriptions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				hits, err := app.JournalCLI.Search(context.Background(), strings.Join(args, " "), limit)
				if err != nil {
					return err
				}
				if len(hits) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no matches")
					return nil
				}
				for _, h := range hits {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\t%s\n", h.Kind, h.ID, h.Date, h.Section, firstLine(h.Text))
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of matches")
	return cmd
}

func newReindexCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the search index from the JSON files",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				out, err := app.JournalCLI.Reindex(context.Background())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "indexed %d notes, %d resources\n", out.Notes, out.Resources)
				return nil
			})
		},
	}
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "export --out <dir>",
		Short: "Write one markdown file per day of notes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				out, err := app.JournalCLI.Export(context.Background(), outDir)
				if err != nil {
					return err
				}
				for _, f := range out.Files {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), f)
				}
				if out.Skipped > 0 {
					printWarnings(cmd.ErrOrStderr(), fmt.Sprintf("%d undated notes were not exported", out.Skipped))
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&outDir, "out", "", "output directory")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

// ─── interactive surfaces ────────────────────────────────────────────────────

func newTUICmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(opts, true)
			if err != nil {
				return err
			}
			defer app.Close()
			return bootstrap.RunTUI(context.Background(), app)
		},
	}
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the journal as web pages",
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return withApp(opts, func(app *bootstrap.App) error {
				return bootstrap.Serve(ctx, app, addr)
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from journal.yaml or "+config.DefaultListenAddr+")")
	return cmd
}

// ─── formatting ──────────────────────────────────────────────────────────────

func printTable(w io.Writer, title string, entries []scheduledto.EntryOutput) {
	_, _ = fmt.Fprintf(w, "## %s\n", title)
	for _, e := range entries {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", e.When, e.Standard, e.Notes)
	}
}

func appliedLine(applied bool, yes, no string) string {
	if applied {
		return yes
	}
	return no
}

func mark(ok bool) string {
	if ok {
		return "✅"
	}
	return "❌"
}

func indent(body string) string {
	return strings.ReplaceAll(strings.TrimRight(body, "\n"), "\n", "\n    ")
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
