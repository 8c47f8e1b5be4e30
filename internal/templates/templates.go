// Package templates runs the whole generation: it builds the deck of a
// configuration, lays it out, and writes the printable templates and the
// solution record.
package templates

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/janpfeifer/TriMatch/internal/config"
	"github.com/janpfeifer/TriMatch/internal/deck"
	"github.com/janpfeifer/TriMatch/internal/layout"
	"github.com/janpfeifer/TriMatch/internal/render"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

// SolutionFile is the name of the solution record in the output directory.
const SolutionFile = "solution.tsv"

// Set is a generated deck with its printed layout.
type Set struct {
	Config       *config.Config
	Participants int // After truncation
	Dropped      int // Participants removed to reach a multiple of 4

	Deck     deck.Deck     // Generation order
	Solution deck.Solution // Quadruplets, in generation order
	Printed  []deck.Card   // Print order: by number, unless debugging
	Sheets   []layout.Sheet
}

// Build generates the deck of cfg. The same configuration always gives the
// same Set.
func Build(cfg *config.Config) (*Set, error) {
	participants, dropped := deck.Truncate(cfg.Participants())
	if dropped > 0 {
		klog.Warningf("Removing %d participants to make the total number of participants divisible by 4", dropped)
	}
	klog.Infof("Number of participants: %d", participants)

	gen := deck.NewSeededGenerator(cfg.Seed, cfg.Alphabet, cfg.CodeLength)
	d, err := gen.GenerateDeck(participants, cfg.TableSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate deck: %w", err)
	}

	artwork := cfg.Artwork
	artwork.Debug = cfg.Debug
	engine, err := layout.NewEngine(cfg.Geometry, artwork)
	if err != nil {
		return nil, fmt.Errorf("failed to set up layout: %w", err)
	}

	printed := []deck.Card(d)
	if cfg.Debug {
		klog.Warningf("Debug mode is on! Cards are not shuffled and contain additional information, do not print these cards!")
	} else {
		printed = deck.SortByNumber(d)
	}

	return &Set{
		Config:       cfg,
		Participants: participants,
		Dropped:      dropped,
		Deck:         d,
		Solution:     deck.SolutionOf(d),
		Printed:      printed,
		Sheets:       engine.Batch(printed),
	}, nil
}

// Summary describes the set for the viewer.
func (s *Set) Summary() deck.Summary {
	return deck.Summary{
		Seed:         s.Config.Seed,
		Participants: s.Participants,
		Dropped:      s.Dropped,
		Pages:        len(s.Sheets),
		Solution:     s.Solution,
	}
}

// ErrNoPage is returned for page numbers outside the set.
var ErrNoPage = errors.New("no such page")

// Page returns one side of the 1-based sheet number.
func (s *Set) Page(number int, side layout.Side) (layout.Page, error) {
	if number < 1 || number > len(s.Sheets) {
		return layout.Page{}, fmt.Errorf("%w: %d (deck has %d)", ErrNoPage, number, len(s.Sheets))
	}
	sheet := s.Sheets[number-1]
	if side == layout.Back {
		return sheet.Back, nil
	}
	return sheet.Front, nil
}

// WriteSVG writes one side of the 1-based sheet number as SVG.
func (s *Set) WriteSVG(w io.Writer, number int, side layout.Side) error {
	page, err := s.Page(number, side)
	if err != nil {
		return err
	}
	return render.SVG(w, page, s.Config.Artwork.FontFamily)
}

// PageName is the file name of one side of a sheet, without extension.
func PageName(number int, side layout.Side) string {
	if side == layout.Back {
		return fmt.Sprintf("Template #%d (back)", number)
	}
	return fmt.Sprintf("Template #%d", number)
}

// Write replaces dir with the templates of the set: one SVG per side of each
// sheet, the solution record, and PNG proofs and PDFs when configured.
// It returns the paths written.
func (s *Set) Write(ctx context.Context, dir string) ([]string, error) {
	if dir == "" || filepath.Clean(dir) == "/" || filepath.Clean(dir) == "." {
		return nil, fmt.Errorf("refusing to replace output directory %q", dir)
	}
	if _, err := os.Stat(dir); err == nil {
		klog.Infof("Removing existing %s/ directory...", dir)
		if err := os.RemoveAll(dir); err != nil {
			return nil, fmt.Errorf("failed to remove %s: %w", dir, err)
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	var written []string
	create := func(name string, write func(io.Writer) error) error {
		path := filepath.Join(dir, name)
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := write(f); err != nil {
			f.Close()
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		written = append(written, path)
		return nil
	}

	if err := create(SolutionFile, s.Solution.WriteTSV); err != nil {
		return written, err
	}

	svgs := map[layout.Side][]string{}
	for _, sheet := range s.Sheets {
		for _, page := range []layout.Page{sheet.Front, sheet.Back} {
			name := PageName(sheet.Number, page.Side)
			err := create(name+".svg", func(w io.Writer) error {
				return render.SVG(w, page, s.Config.Artwork.FontFamily)
			})
			if err != nil {
				return written, err
			}
			svgs[page.Side] = append(svgs[page.Side], written[len(written)-1])

			if s.Config.PNG {
				err := create(name+".png", func(w io.Writer) error {
					return render.PNG(w, page, s.Config.DPI)
				})
				if err != nil {
					return written, err
				}
			}
		}
		klog.V(1).Infof("Wrote sheet %d/%d", sheet.Number, len(s.Sheets))
	}

	if s.Config.PDF && len(s.Sheets) > 0 {
		pdfs := []string{filepath.Join(dir, "Front.pdf"), filepath.Join(dir, "Back.pdf")}
		g, gctx := errgroup.WithContext(ctx)
		for i, side := range []layout.Side{layout.Front, layout.Back} {
			g.Go(func() error { return render.PDF(gctx, pdfs[i], svgs[side]) })
		}
		if err := g.Wait(); err != nil {
			return written, err
		}
		written = append(written, pdfs...)
	}
	klog.Infof("Wrote %d sheets for %d participants to %s", len(s.Sheets), s.Participants, dir)
	return written, nil
}
