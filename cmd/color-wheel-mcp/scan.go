package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ironsheep/color-wheel-mcp/internal/chart"
	"github.com/ironsheep/color-wheel-mcp/internal/config"
	"github.com/ironsheep/color-wheel-mcp/internal/imaging"
	"github.com/ironsheep/color-wheel-mcp/internal/progress"
	"github.com/ironsheep/color-wheel-mcp/internal/wheel"
)

var (
	scanOutput string
	scanTop    int
	scanSort   string
	scanQuiet  bool
)

var scanCmd = &cobra.Command{
	Use:   "scan IMAGE",
	Short: "Count the colors of one image and optionally write its color wheel",
	Long: `scan counts every distinct color of IMAGE, printing progress to stderr
and the most common colors to stdout. With -o the color wheel is written
as PNG. Ctrl-C stops the scan; the colors counted so far are kept.`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVarP(&scanOutput, "output", "o", "", "write the chart to this PNG file")
	scanCmd.Flags().Int("size", 0, "chart width and height in pixels (default from chart_size)")
	scanCmd.Flags().IntVar(&scanTop, "top", 10, "number of colors to print; 0 prints all")
	scanCmd.Flags().StringVar(&scanSort, "sort", imaging.SortCount, "color order: count or first_seen")
	scanCmd.Flags().BoolVarP(&scanQuiet, "quiet", "q", false, "do not print progress")
	bindFlag(scanCmd, config.KeyChartSize, "size")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	style, err := cfg.Style()
	if err != nil {
		return err
	}

	cache := imaging.NewImageCache()
	buf, err := cache.LoadBuffer(path)
	if err != nil {
		return err
	}

	var bar *progressLine
	if !scanQuiet {
		bar = newProgressLine(cmd.ErrOrStderr())
	}

	w := wheel.New(logger)
	res, _, err := w.ScanContext(ctx, buf, bar.sink("scanning"))
	if err != nil {
		return err
	}
	if !res.Completed {
		fmt.Fprintf(cmd.ErrOrStderr(), "scan cancelled after %d of %d pixels\n", res.Pixels, buf.Width*buf.Height)
	}

	h, err := w.Histogram()
	if err != nil {
		return err
	}
	report, err := imaging.Report(h, scanTop, scanSort)
	if err != nil {
		return err
	}
	if err := printReport(cmd.OutOrStdout(), report); err != nil {
		return err
	}

	if scanOutput == "" {
		return nil
	}

	target := chart.Viewport(cfg.ChartSize, style)
	wedges, _ := w.Render(target, bar.sink("drawing"))

	img, err := cache.Load(path)
	if err != nil {
		return err
	}
	display, err := imaging.Display(img, target.Dx(), target.Dy())
	if err != nil {
		return err
	}

	var png bytes.Buffer
	if err := chart.EncodePNG(&png, display, wedges, cfg.ChartSize, style); err != nil {
		return err
	}
	if err := os.WriteFile(scanOutput, png.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write chart: %w", err)
	}
	logger.Info("chart written", "path", scanOutput, "wedges", len(wedges), "size", cfg.ChartSize)
	return nil
}

func printReport(out io.Writer, r *imaging.HistogramReport) error {
	fmt.Fprintf(out, "%d distinct colors in %d pixels\n", r.Distinct, r.Pixels)
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "COLOR\tCOUNT\tSHARE\t")
	for _, c := range r.Colors {
		fmt.Fprintf(tw, "%s\t%d\t%.2f%%\t\n", c.Color.ARGB, c.Count, c.Percentage)
	}
	return tw.Flush()
}

// progressLine redraws a single status line on a terminal.
type progressLine struct {
	out io.Writer
}

func newProgressLine(out io.Writer) *progressLine {
	return &progressLine{out: out}
}

// sink returns a progress sink labelled op. A nil progressLine yields a nil
// sink, which discards events.
func (p *progressLine) sink(op string) progress.Sink {
	if p == nil {
		return nil
	}
	return func(e progress.Event) {
		fmt.Fprintf(p.out, "\r%s %3d%% %s", op, e.Percent, e.Elapsed.Round(time.Millisecond))
		if e.Final() {
			fmt.Fprintln(p.out)
		}
	}
}
