// trimatch generates the printable templates of a deck of matching cards,
// and the solution record used to check the participants' answers.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/janpfeifer/TriMatch/internal/config"
	"github.com/janpfeifer/TriMatch/internal/deck"
	"github.com/janpfeifer/TriMatch/internal/templates"
	"k8s.io/klog/v2"
)

func main() {
	klog.InitFlags(nil)
	defer klog.Flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, flag.CommandLine, os.Args[1:], os.Stdout); err != nil {
		klog.Exitf("%v", err)
	}
}

// run parses args into fs and generates the templates, or answers -version
// and -lookup. Those two do not need a valid configuration.
func run(ctx context.Context, fs *flag.FlagSet, args []string, out io.Writer) error {
	version := fs.Bool("version", false, "Print the version and exit")
	lookupNumber := fs.Int("lookup", 0, "Instead of generating, print the quadruplet of participant number N from the solution in the output directory")

	cfg, err := config.Parse(fs, args)
	if *version {
		fmt.Fprintf(out, "trimatch %s\n", deck.Version)
		return nil
	}
	if *lookupNumber > 0 {
		dir := fs.Lookup("out").Value.String()
		if cfg != nil {
			dir = cfg.OutputDir
		}
		if err != nil {
			klog.Warningf("Ignoring configuration error for lookup: %v", err)
		}
		if err := lookup(out, filepath.Join(dir, templates.SolutionFile), *lookupNumber); err != nil {
			return fmt.Errorf("lookup failed: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	set, err := templates.Build(cfg)
	if err != nil {
		return fmt.Errorf("failed to build deck: %w", err)
	}
	if _, err := set.Write(ctx, cfg.OutputDir); err != nil {
		return fmt.Errorf("failed to write templates: %w", err)
	}
	fmt.Fprintf(out, "%d participants, %d sheets written to %s\n", set.Participants, len(set.Sheets), cfg.OutputDir)
	return nil
}

func lookup(out io.Writer, path string, number int) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	solution, err := deck.ParseSolution(f)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	row, index, err := solution.Lookup(number)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Quadruplet #%d: %d, %d, %d, %d\n", index+1, row[0], row[1], row[2], row[3])
	return nil
}
