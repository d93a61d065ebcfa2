package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"chartfolio/adapters/datahost"
	"chartfolio/adapters/loader"
	"chartfolio/domain/series"
	"chartfolio/internal/calendar"
	"chartfolio/internal/render"
	"chartfolio/internal/widget"

	"github.com/spf13/cobra"
)

type chartFlags struct {
	data    string
	width   float64
	theme   string
	feature string
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "chartctl",
		Short:         "Render blog charts and calendar tables from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newRenderCmd(),
		newInspectCmd(),
		newSummarizeCmd(),
		newCalendarCmd(),
	)
	return rootCmd
}

func (f *chartFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.data, "data", "", "Directory or base URL holding the chart documents (default: embedded fixtures)")
	cmd.Flags().Float64Var(&f.width, "width", 960, "Container width in pixels")
	cmd.Flags().StringVar(&f.theme, "theme", "dark", "Chart theme: dark or light")
	cmd.Flags().StringVar(&f.feature, "feature", "", "Feature to show on the features chart")
}

// build loads and draws one chart the way the blog page would.
func (f *chartFlags) build(ctx context.Context, rawKind string) (*widget.Widget, error) {
	kind, err := widget.ParseKind(rawKind)
	if err != nil {
		return nil, err
	}
	if !(f.width > 0) {
		return nil, fmt.Errorf("--width must be positive")
	}

	var src loader.Source
	switch {
	case strings.HasPrefix(f.data, "http://"), strings.HasPrefix(f.data, "https://"):
		src = &loader.HTTPSource{BaseURL: strings.TrimSuffix(f.data, "/") + "/", Timeout: 30 * time.Second}
	default:
		files, err := datahost.Open(f.data)
		if err != nil {
			return nil, err
		}
		src = &loader.FSSource{FS: files, Prefix: datahost.Prefix}
	}

	reg := widget.NewRegistry(loader.New(src), widget.Options{
		DataPrefix: datahost.Prefix,
		Theme:      render.ThemeByName(f.theme),
	}, kind)
	w, err := reg.Get(kind)
	if err != nil {
		return nil, err
	}
	if err := w.Build(ctx, f.width); err != nil {
		return w, err
	}
	if f.feature != "" {
		if err := w.SelectFeature(f.feature); err != nil {
			return w, err
		}
	}
	return w, nil
}

func newRenderCmd() *cobra.Command {
	var flags chartFlags
	var out string

	cmd := &cobra.Command{
		Use:   "render [kind]",
		Short: "Render one chart to SVG",
		Long: `Load the chart's data document, draw it and write the SVG.

When the data cannot be loaded the error placeholder is written and the command fails.

Example: chartctl render survival --width 720 --out survival.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, buildErr := flags.build(cmd.Context(), args[0])
			if w == nil {
				return buildErr
			}
			svg := w.Snapshot().SVG
			if out == "" || out == "-" {
				if _, err := cmd.OutOrStdout().Write(svg); err != nil {
					return err
				}
			} else if err := os.WriteFile(out, svg, 0o644); err != nil {
				return err
			}
			return buildErr
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default: stdout)")
	return cmd
}

func newInspectCmd() *cobra.Command {
	var flags chartFlags
	var px, py float64

	cmd := &cobra.Command{
		Use:   "inspect [kind]",
		Short: "Print the tooltip shown for a pointer position",
		Long: `Draw the chart and report what the hover inspector shows at a pointer position,
given in pixels relative to the plot area.

Example: chartctl inspect anomaly --px 120 --py 40`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := flags.build(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			res := w.Inspect(px, py)
			if !res.Focus.Visible || res.Tooltip == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "hidden")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "index %d at (%.1f, %.1f)\n%s\n",
				res.Focus.Index, res.Marker.X, res.Marker.Y, res.Tooltip.String())
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().Float64Var(&px, "px", 0, "Pointer x in plot pixels")
	cmd.Flags().Float64Var(&py, "py", 0, "Pointer y in plot pixels")
	return cmd
}

func newSummarizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summarize [file.csv|file.xlsx]",
		Short: "Summarize spreadsheet columns into a features document",
		Long: `Compute min, max, mean, std and quartiles for every numeric column and print
them as a features.json document, columns in sheet order.

Example: chartctl summarize customers.xlsx > features.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, name := filepath.Split(args[0])
			if dir == "" {
				dir = "."
			}
			ld := loader.New(&loader.FSSource{FS: os.DirFS(dir)})
			fs, err := ld.Features(cmd.Context(), name)
			if err != nil {
				return err
			}
			return writeFeatures(cmd.OutOrStdout(), fs)
		},
	}
}

// writeFeatures writes an object keyed by feature name, keeping the order of fs.
func writeFeatures(w io.Writer, fs series.Features) error {
	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, f := range fs {
		key, err := json.Marshal(f.Name)
		if err != nil {
			return err
		}
		val, err := json.Marshal(f.Stats)
		if err != nil {
			return err
		}
		buf.WriteString("  ")
		buf.Write(key)
		buf.WriteString(": ")
		buf.Write(val)
		if i < len(fs)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("}\n")
	_, err := buf.WriteTo(w)
	return err
}

func newCalendarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Work with the calendar event tables",
	}

	var table, today string
	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "Print the calendar grid as HTML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cal, err := calendar.Load(table)
			if err != nil {
				return err
			}
			now := time.Now()
			if today != "" {
				if now, err = time.ParseInLocation("2006-01-02", today, time.Local); err != nil {
					return fmt.Errorf("invalid --today (use YYYY-MM-DD): %w", err)
				}
			}
			html, err := calendar.Render(cal.Config(now))
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), string(html)+"\n")
			return err
		},
	}
	renderCmd.Flags().StringVar(&table, "table", "planner", "Event table: "+strings.Join(calendar.Names(), " or "))
	renderCmd.Flags().StringVar(&today, "today", "", "Date treated as today (YYYY-MM-DD)")

	var left, right string
	driftCmd := &cobra.Command{
		Use:   "drift",
		Short: "List dates on which two event tables disagree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := calendar.Load(left)
			if err != nil {
				return err
			}
			b, err := calendar.Load(right)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			diffs := calendar.Drift(a, b)
			for _, d := range diffs {
				fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", d.Date, d.Field, describe(d.Left), describe(d.Right))
			}
			fmt.Fprintf(out, "%d differences between %s and %s\n", len(diffs), a.Name, b.Name)
			return nil
		},
	}
	driftCmd.Flags().StringVar(&left, "left", "planner", "First table")
	driftCmd.Flags().StringVar(&right, "right", "classic", "Second table")

	cmd.AddCommand(renderCmd, driftCmd)
	return cmd
}

func describe(e *calendar.Event) string {
	if e == nil {
		return "-"
	}
	return e.Label() + " (" + e.Color + ")"
}
