// Package config loads the TOML configuration of the surfnets command.
package config

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// Config is the command configuration.
type Config struct {
	Seed      int64   `toml:"seed"`
	ChunkSize int     `toml:"chunk_size"`
	CellSize  float32 `toml:"cell_size"`
	Workers   int     `toml:"workers"`
	LogLevel  string  `toml:"log_level"`

	Generator Generator `toml:"generator"`
	World     World     `toml:"world"`
	Brush     Brush     `toml:"brush"`
	Strokes   []Stroke  `toml:"stroke"`
	Output    Output    `toml:"output"`
}

// Generator selects the density source.
type Generator struct {
	// Kind is one of "heightmap", "volume", "shape" or "image".
	Kind       string  `toml:"kind"`
	Frequency  float64 `toml:"frequency"`
	Octaves    int     `toml:"octaves"`
	Lacunarity float64 `toml:"lacunarity"`
	Gain       float64 `toml:"gain"`
	// Bias is added to volume noise.
	Bias float32 `toml:"bias"`
	// Shape names the demo shape used when Kind is "shape":
	// "sphere", "torus" or "blob".
	Shape string `toml:"shape"`
	// Image is a PNG or JPEG height map used when Kind is "image".
	Image         string  `toml:"image"`
	MaxHeight     float32 `toml:"max_height"`
	CellsPerPixel float32 `toml:"cells_per_pixel"`
}

// World is the half open range of chunk coordinates to generate.
type World struct {
	Min [3]int `toml:"min"`
	Max [3]int `toml:"max"`
}

// Brush configures sculpting strokes.
type Brush struct {
	Radius   float32 `toml:"radius"`
	Strength float32 `toml:"strength"`
}

// Stroke is one brush application at a world cell.
type Stroke struct {
	Cell [3]int `toml:"cell"`
	Add  bool   `toml:"add"`
}

// Output selects what the command writes to Dir.
type Output struct {
	Dir           string `toml:"dir"`
	STL           bool   `toml:"stl"`
	GLTF          bool   `toml:"gltf"`
	Binary        bool   `toml:"binary"`
	Preview       bool   `toml:"preview"`
	PreviewWidth  int    `toml:"preview_width"`
	PreviewHeight int    `toml:"preview_height"`
	// Slice writes a density plot of Z layer SliceZ of the first chunk.
	Slice  bool `toml:"slice"`
	SliceZ int  `toml:"slice_z"`
}

var (
	generatorKinds = []string{"heightmap", "volume", "shape", "image"}
	shapes         = []string{"sphere", "torus", "blob"}
	logLevels      = []string{"debug", "info", "warn", "error", "fatal"}
)

// Default returns the configuration used for keys absent from a file.
func Default() Config {
	return Config{
		Seed:      1,
		ChunkSize: 32,
		CellSize:  1,
		LogLevel:  "info",
		Generator: Generator{
			Kind:          "heightmap",
			Frequency:     0.02,
			Octaves:       1,
			Lacunarity:    2,
			Gain:          0.5,
			Shape:         "sphere",
			MaxHeight:     16,
			CellsPerPixel: 1,
		},
		World: World{Max: [3]int{2, 2, 1}},
		Brush: Brush{Radius: 2, Strength: 1},
		Output: Output{
			Dir:           "out",
			STL:           true,
			GLTF:          true,
			Binary:        true,
			PreviewWidth:  800,
			PreviewHeight: 600,
		},
	}
}

// Load reads and validates the configuration file at path.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "reading config")
	}
	cfg, err := Decode(bytes.NewReader(b))
	if err != nil {
		return Config{}, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Decode reads TOML from r on top of Default and validates the result.
// Unknown keys are an error.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Config{}, errors.Errorf("unknown keys:\n%s", strict.String())
		}
		return Config{}, errors.Wrap(err, "decoding TOML")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	switch {
	case c.ChunkSize < 1 || c.ChunkSize > 1022:
		return errors.Errorf("chunk_size %d outside [1, 1022]", c.ChunkSize)
	case c.CellSize <= 0:
		return errors.Errorf("cell_size must be positive, got %v", c.CellSize)
	case c.Workers < 0:
		return errors.Errorf("negative workers %d", c.Workers)
	case !oneOf(c.LogLevel, logLevels):
		return errors.Errorf("log_level %q not one of %s", c.LogLevel, strings.Join(logLevels, ", "))
	case !oneOf(c.Generator.Kind, generatorKinds):
		return errors.Errorf("generator.kind %q not one of %s", c.Generator.Kind, strings.Join(generatorKinds, ", "))
	case c.Generator.Kind == "shape" && !oneOf(c.Generator.Shape, shapes):
		return errors.Errorf("generator.shape %q not one of %s", c.Generator.Shape, strings.Join(shapes, ", "))
	case c.Generator.Kind == "image" && c.Generator.Image == "":
		return errors.New("generator.image must name a file when kind is \"image\"")
	case c.Generator.Kind == "image" && (c.Generator.MaxHeight <= 0 || c.Generator.CellsPerPixel <= 0):
		return errors.New("generator.max_height and generator.cells_per_pixel must be positive")
	case c.Brush.Radius <= 0:
		return errors.Errorf("brush.radius must be positive, got %v", c.Brush.Radius)
	case c.Output.Dir == "":
		return errors.New("empty output.dir")
	case c.Output.Preview && (c.Output.PreviewWidth < 1 || c.Output.PreviewHeight < 1):
		return errors.New("preview dimensions must be positive")
	case c.Output.Slice && (c.Output.SliceZ < 0 || c.Output.SliceZ > c.ChunkSize+1):
		return errors.Errorf("output.slice_z %d outside padded chunk", c.Output.SliceZ)
	}
	for i := range c.World.Min {
		if c.World.Min[i] >= c.World.Max[i] {
			return errors.Errorf("world.min %v must be below world.max %v on every axis", c.World.Min, c.World.Max)
		}
	}
	return nil
}

func oneOf(s string, options []string) bool {
	for _, o := range options {
		if s == o {
			return true
		}
	}
	return false
}
