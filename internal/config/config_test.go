package config

import (
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 252, cfg.Participants())
	assert.Equal(t, int64(123), cfg.Seed)
	assert.Equal(t, 16, cfg.Geometry.PerPage())
}

func TestParseLayers(t *testing.T) {
	configPath := writeFile(t, "config.json", `{
		"tables": 10,
		"table_size": 5,
		"seed": 7,
		"geometry": {"columns": 6},
		"artwork": {"title": "Lab Retreat", "palette": {"A": "#000000"}}
	}`)
	envPath := writeFile(t, ".env", "TRIMATCH_TABLE_SIZE=6\nTRIMATCH_CREDITS=\"Made in Go\"\n")
	t.Setenv("TRIMATCH_SEED", "99")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := Parse(fs, []string{"-config", configPath, "-env", envPath, "-seed", "5", "-png"})
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Tables, "from the JSON file")
	assert.Equal(t, 6, cfg.TableSize, ".env overrides the JSON file")
	assert.Equal(t, int64(5), cfg.Seed, "flags override the environment")
	assert.True(t, cfg.PNG)
	assert.Equal(t, 6, cfg.Geometry.Columns)
	assert.Equal(t, 4, cfg.Geometry.Rows, "fields absent from the file keep their default")
	assert.Equal(t, "Lab Retreat", cfg.Artwork.Title)
	assert.Equal(t, "Made in Go", cfg.Artwork.Credits)
	assert.Equal(t, "#000000", cfg.Artwork.Palette["A"])
	assert.Equal(t, "#A63D40", cfg.Artwork.Palette["C"], "palette entries are merged")
}

func TestParseEnvironmentOverridesEnvFile(t *testing.T) {
	envPath := writeFile(t, ".env", "TRIMATCH_TABLES=3\nTRIMATCH_DEBUG=true\n")
	t.Setenv("TRIMATCH_TABLES", "4")

	cfg, err := Parse(flag.NewFlagSet("test", flag.ContinueOnError), []string{"-env", envPath})
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Tables)
	assert.True(t, cfg.Debug)
	assert.True(t, cfg.Artwork.Debug)
}

func TestParseMissingEnvFile(t *testing.T) {
	cfg, err := Parse(flag.NewFlagSet("test", flag.ContinueOnError),
		[]string{"-env", filepath.Join(t.TempDir(), "missing.env")})
	require.NoError(t, err)
	assert.Equal(t, Default().Tables, cfg.Tables)
}

func TestParseErrors(t *testing.T) {
	cases := map[string][]string{
		"MissingConfig": {"-config", filepath.Join(t.TempDir(), "nope.json")},
		"UnknownFlag":   {"-nope"},
		"ZeroTables":    {"-tables", "0"},
		"OddColumns":    {"-columns", "3"},
		"ShortCodes":    {"-code_length", "2"},
		"DupAlphabet":   {"-alphabet", "ABA"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			fs.SetOutput(io.Discard)
			_, err := Parse(fs, append([]string{"-env", ""}, args...))
			require.Error(t, err)
		})
	}
}

func TestValidateWrapsErrInvalid(t *testing.T) {
	cfg := Default()
	cfg.Alphabet = ""
	cfg.TableSize = -1
	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))
}

func TestApplyEnvBadValues(t *testing.T) {
	t.Setenv("TRIMATCH_TABLES", "many")
	t.Setenv("TRIMATCH_PNG", "perhaps")
	cfg := Default()
	err := cfg.ApplyEnv("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TRIMATCH_TABLES")
	assert.Contains(t, err.Error(), "TRIMATCH_PNG")
}
