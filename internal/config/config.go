package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/janpfeifer/TriMatch/internal/deck"
	"github.com/janpfeifer/TriMatch/internal/layout"
	"github.com/joho/godotenv"
	"k8s.io/klog/v2"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// EnvPrefix prefixes the environment variables read by ApplyEnv.
const EnvPrefix = "TRIMATCH_"

// Config holds all the parameters of a run.
type Config struct {
	Tables     int    `json:"tables"`
	TableSize  int    `json:"table_size"` // Participants per table
	Alphabet   string `json:"alphabet"`
	CodeLength int    `json:"code_length"`
	Seed       int64  `json:"seed"`

	Geometry layout.Geometry `json:"geometry"`
	Artwork  layout.Artwork  `json:"artwork"`

	OutputDir string `json:"output_dir"`
	PNG       bool   `json:"png"` // Also write PNG proofs
	DPI       int    `json:"dpi"` // Resolution of the PNG proofs
	PDF       bool   `json:"pdf"` // Also convert the templates to PDF with rsvg-convert

	// Debug keeps the cards in generation order and prints extra information on them.
	Debug bool `json:"debug"`
}

// Default returns the configuration of a 28-table event with 9 seats per table.
func Default() *Config {
	return &Config{
		Tables:     28,
		TableSize:  9,
		Alphabet:   deck.AminoAcids,
		CodeLength: 5,
		Seed:       123,
		Geometry:   layout.DefaultGeometry(),
		Artwork:    layout.DefaultArtwork(),
		OutputDir:  "templates",
		DPI:        150,
	}
}

// Participants is the number of seats, before truncation to a multiple of 4.
func (c *Config) Participants() int {
	return c.Tables * c.TableSize
}

// LoadFile overlays the JSON file at path on c. Fields absent from the file are kept.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to unmarshal config %s: %w", path, err)
	}
	klog.V(1).Infof("Loaded configuration from %s", path)
	return nil
}

// ApplyEnv overlays TRIMATCH_* variables on c. Variables are read from the
// process environment first and then from envFile, a .env file, when it exists.
func (c *Config) ApplyEnv(envFile string) error {
	fileVars := map[string]string{}
	if envFile != "" {
		vars, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			fileVars = vars
			klog.V(1).Infof("Loaded %d variables from %s", len(vars), envFile)
		case errors.Is(err, os.ErrNotExist):
			klog.V(1).Infof("No %s file, skipping", envFile)
		default:
			return fmt.Errorf("failed to read %s: %w", envFile, err)
		}
	}
	lookup := func(name string) (string, bool) {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			return v, true
		}
		v, ok := fileVars[EnvPrefix+name]
		return v, ok
	}

	var errs []error
	setInt := func(name string, dst *int) {
		if v, ok := lookup(name); ok {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = n
		}
	}
	setString := func(name string, dst *string) {
		if v, ok := lookup(name); ok {
			*dst = v
		}
	}
	setBool := func(name string, dst *bool) {
		if v, ok := lookup(name); ok {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = b
		}
	}

	setInt("TABLES", &c.Tables)
	setInt("TABLE_SIZE", &c.TableSize)
	setString("ALPHABET", &c.Alphabet)
	setInt("CODE_LENGTH", &c.CodeLength)
	if v, ok := lookup("SEED"); ok {
		seed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sSEED: %w", EnvPrefix, err))
		} else {
			c.Seed = seed
		}
	}
	setString("OUTPUT_DIR", &c.OutputDir)
	setString("TITLE", &c.Artwork.Title)
	setString("INSTRUCTIONS", &c.Artwork.Instructions)
	setString("CREDITS", &c.Artwork.Credits)
	setBool("PNG", &c.PNG)
	setBool("PDF", &c.PDF)
	setBool("DEBUG", &c.Debug)
	return errors.Join(errs...)
}

// RegisterFlags binds command-line flags to the fields of c.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.Tables, "tables", c.Tables, "Number of tables at the event")
	fs.IntVar(&c.TableSize, "table_size", c.TableSize, "Number of participants per table")
	fs.StringVar(&c.Alphabet, "alphabet", c.Alphabet, "Symbols used in the edge codes")
	fs.IntVar(&c.CodeLength, "code_length", c.CodeLength, "Number of symbols per edge code")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "Random seed: the same seed reproduces the same deck")
	fs.IntVar(&c.Geometry.Columns, "columns", c.Geometry.Columns, "Cards per row on a page (even)")
	fs.IntVar(&c.Geometry.Rows, "rows", c.Geometry.Rows, "Rows of cards on a page")
	fs.Float64Var(&c.Geometry.Width, "width", c.Geometry.Width, "Length of a card side, in page units")
	fs.Float64Var(&c.Geometry.Margin, "margin", c.Geometry.Margin, "Page margin, in page units")
	fs.StringVar(&c.Artwork.Title, "title", c.Artwork.Title, "Event title printed on the back of the cards")
	fs.StringVar(&c.Artwork.Instructions, "instructions", c.Artwork.Instructions, "Instructions printed on the back of the cards")
	fs.StringVar(&c.Artwork.Credits, "credits", c.Artwork.Credits, "Credits printed on the back of the cards")
	fs.StringVar(&c.Artwork.FontFamily, "font", c.Artwork.FontFamily, "Font family of the SVG templates")
	fs.StringVar(&c.OutputDir, "out", c.OutputDir, "Output directory, replaced on every run")
	fs.BoolVar(&c.PNG, "png", c.PNG, "Also write PNG proofs of every page")
	fs.IntVar(&c.DPI, "dpi", c.DPI, "Resolution of the PNG proofs")
	fs.BoolVar(&c.PDF, "pdf", c.PDF, "Also write Front.pdf and Back.pdf with rsvg-convert")
	fs.BoolVar(&c.Debug, "debug", c.Debug, "Keep generation order and print card ids: do not print these cards!")
}

// Parse builds a configuration from defaults, an optional JSON file
// (-config), the environment and an optional .env file (-env), and finally
// the command-line flags, each layer overriding the previous one.
//
// fs may already hold other flags (klog's, for instance): they are parsed too.
func Parse(fs *flag.FlagSet, args []string) (*Config, error) {
	// Flags are parsed first into a scratch config, to find the files to
	// load, and re-applied on top of them afterwards.
	scratch := Default()
	var configPath, envPath string
	fs.StringVar(&configPath, "config", "", "JSON configuration file")
	fs.StringVar(&envPath, "env", ".env", "Environment file with TRIMATCH_* variables")
	scratch.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := Default()
	if configPath != "" {
		if err := cfg.LoadFile(configPath); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(envPath); err != nil {
		return nil, err
	}

	overlay := flag.NewFlagSet("overlay", flag.ContinueOnError)
	cfg.RegisterFlags(overlay)
	var errs []error
	fs.Visit(func(f *flag.Flag) {
		if overlay.Lookup(f.Name) == nil {
			return
		}
		if err := overlay.Set(f.Name, f.Value.String()); err != nil {
			errs = append(errs, err)
		}
	})
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	cfg.Artwork.Debug = cfg.Debug
	return cfg, cfg.Validate()
}

// Validate checks the configuration, and warns about symbols without a color.
func (c *Config) Validate() error {
	var errs []error
	if c.Tables <= 0 {
		errs = append(errs, fmt.Errorf("tables must be positive, got %d", c.Tables))
	}
	if c.TableSize <= 0 {
		errs = append(errs, fmt.Errorf("table_size must be positive, got %d", c.TableSize))
	}
	if c.CodeLength < 3 {
		errs = append(errs, fmt.Errorf("code_length must be at least 3, got %d", c.CodeLength))
	}
	if c.Alphabet == "" {
		errs = append(errs, errors.New("alphabet is empty"))
	}
	seen := make(map[rune]bool)
	for _, r := range c.Alphabet {
		if r > 0x7e || r <= ' ' {
			errs = append(errs, fmt.Errorf("alphabet symbol %q is not a printable ASCII character", r))
		} else if seen[r] {
			errs = append(errs, fmt.Errorf("alphabet symbol %q appears twice", r))
		}
		seen[r] = true
	}
	if err := c.Geometry.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.PNG && c.DPI <= 0 {
		errs = append(errs, fmt.Errorf("dpi must be positive, got %d", c.DPI))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if missing := c.Artwork.Palette.Missing(c.Alphabet); len(missing) > 0 {
		klog.Warningf("No color for symbols %v, using %s", missing, layout.FallbackColor)
	}
	return nil
}
