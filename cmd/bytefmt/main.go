// Command bytefmt converts byte sizes between integers and human-readable
// text on the command line.
package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	bytesize "github.com/authenticvision/bytesize-go"
	"github.com/authenticvision/bytesize-go/sizeiter"
)

func main() {
	w := os.Stderr
	slog.SetDefault(slog.New(tint.NewHandler(w, &tint.Options{
		NoColor: !isatty.IsTerminal(w.Fd()),
	})))
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("command failed", "err", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "bytefmt",
		Short:         "Convert between byte counts and human-readable sizes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newFormatCmd(), newParseCmd(), newSumCmd())
	return root
}

func newFormatCmd() *cobra.Command {
	var layout string
	cmd := &cobra.Command{
		Use:   "format <bytes>",
		Short: "Render a byte count with a format layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("byte count %q: %w", args[0], err)
			}
			s, err := bytesize.Size(n).Format(layout)
			if err != nil {
				return err
			}
			cmd.Println(s)
			return nil
		},
	}
	cmd.Flags().StringVarP(&layout, "layout", "l", "", `format layout, e.g. "#.0 SiB"`)
	return cmd
}

type parseFlags struct {
	iec       bool
	shortOnly bool
	longOnly  bool
}

func (f parseFlags) flags() bytesize.ParseFlags {
	var flags bytesize.ParseFlags
	if f.iec {
		flags |= bytesize.ParseIECStandard
	}
	if f.shortOnly {
		flags |= bytesize.ParseAbbreviatedOnly
	}
	if f.longOnly {
		flags |= bytesize.ParseUnabbreviatedOnly
	}
	return flags
}

func newParseCmd() *cobra.Command {
	var pf parseFlags
	cmd := &cobra.Command{
		Use:   "parse <size>",
		Short: "Parse a human-readable size into a byte count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := bytesize.ParseWith(args[0], pf.flags(), nil)
			if err != nil {
				return err
			}
			cmd.Println(v.Int64())
			return nil
		},
	}
	cmd.Flags().BoolVar(&pf.iec, "iec", false, "interpret k/M/G/... as powers of 1000")
	cmd.Flags().BoolVar(&pf.shortOnly, "short-only", false, "match abbreviated units only")
	cmd.Flags().BoolVar(&pf.longOnly, "long-only", false, "match unabbreviated units only")
	return cmd
}

func newSumCmd() *cobra.Command {
	var pf parseFlags
	var layout string
	cmd := &cobra.Command{
		Use:   "sum",
		Short: "Sum sizes read from stdin, one per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scanner := bufio.NewScanner(cmd.InOrStdin())
			var lines []string
			for scanner.Scan() {
				if line := scanner.Text(); line != "" {
					lines = append(lines, line)
				}
			}
			if err := scanner.Err(); err != nil {
				return err
			}
			var sizes []bytesize.Size
			for v, err := range sizeiter.ParseEach(slices.Values(lines), pf.flags(), nil) {
				if err != nil {
					return err
				}
				sizes = append(sizes, v)
			}
			total := sizeiter.Sum(slices.Values(sizes))
			s, err := total.Format(layout)
			if err != nil {
				return err
			}
			cmd.Println(s)
			return nil
		},
	}
	cmd.Flags().BoolVar(&pf.iec, "iec", false, "interpret k/M/G/... as powers of 1000")
	cmd.Flags().BoolVar(&pf.shortOnly, "short-only", false, "match abbreviated units only")
	cmd.Flags().BoolVar(&pf.longOnly, "long-only", false, "match unabbreviated units only")
	cmd.Flags().StringVarP(&layout, "layout", "l", "", "format layout for the total")
	return cmd
}
