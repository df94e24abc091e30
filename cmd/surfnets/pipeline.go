package main

import (
	"bufio"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/deadsy/sdfx/sdf"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/surfnets"
	"github.com/soypat/surfnets/form3"
	"github.com/soypat/surfnets/internal/config"
	"github.com/soypat/surfnets/internal/d3"
	"github.com/soypat/surfnets/noise"
	"github.com/soypat/surfnets/render"
	"github.com/soypat/surfnets/terrain"
)

func run(configPath string, verbose bool, logger *log.Logger) error {
	start := time.Now()
	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
	}
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	if verbose {
		level = log.DebugLevel
	}
	logger.SetLevel(level)

	sampler, err := newSampler(cfg)
	if err != nil {
		return err
	}
	world, err := terrain.NewWorld(terrain.Config{
		ChunkSize: cfg.ChunkSize,
		CellSize:  cfg.CellSize,
		Workers:   cfg.Workers,
		Brush:     surfnets.Brush{Radius: cfg.Brush.Radius, Strength: cfg.Brush.Strength},
		Logger:    logger,
	}, sampler)
	if err != nil {
		return err
	}
	if err := world.Generate(cfg.World.Min, cfg.World.Max); err != nil {
		return err
	}
	for _, s := range cfg.Strokes {
		if !world.ApplyBrush(s.Cell, s.Add) {
			logger.Warn("stroke outside generated chunks", "cell", s.Cell)
		}
	}
	if len(cfg.Strokes) > 0 {
		if _, err := world.Remesh(); err != nil {
			return err
		}
	}
	if err := export(cfg.Output, world, logger); err != nil {
		return err
	}
	if b, ok := world.Bounds(); ok {
		logger.Debug("surface bounds", "min", b.Min, "max", b.Max)
	}
	logger.Info("done", "chunks", len(world.Chunks()), "elapsed", time.Since(start))
	return nil
}

func newSampler(cfg config.Config) (surfnets.Sampler, error) {
	g := cfg.Generator
	oct := noise.Octaves{Frequency: g.Frequency, Count: g.Octaves, Lacunarity: g.Lacunarity, Gain: g.Gain}
	switch g.Kind {
	case "heightmap":
		h, err := noise.NewHeightmap(cfg.Seed, cfg.ChunkSize, oct)
		if err != nil {
			return nil, err
		}
		return h, nil
	case "volume":
		v, err := noise.NewVolume(cfg.Seed, oct)
		if err != nil {
			return nil, err
		}
		v.Bias = g.Bias
		return v, nil
	case "image":
		return newImageSampler(g)
	case "shape":
		s, err := newShape(g.Shape, cfg.World, cfg.ChunkSize)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown generator %q", g.Kind)
}

func newImageSampler(g config.Generator) (surfnets.Sampler, error) {
	fp, err := os.Open(g.Image)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	img, _, err := image.Decode(fp)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", g.Image, err)
	}
	hm, err := noise.NewImage(img, g.MaxHeight, g.CellsPerPixel)
	if err != nil {
		return nil, err
	}
	return hm, nil
}

// newShape centers a demo shape in the generated cell range.
func newShape(name string, w config.World, chunkSize int) (form3.Shape, error) {
	lo := surfnets.V3i(w.Min).Scale(chunkSize).Vec()
	hi := surfnets.V3i(w.Max).Scale(chunkSize).Vec()
	size := ms3.Sub(hi, lo)
	r := 0.35 * d3.Min(size)
	var (
		s   form3.Shape
		err error
	)
	switch name {
	case "sphere":
		s, err = form3.NewSphere(r)
	case "torus":
		s, err = form3.NewTorus(0.7*r, 0.25*r)
	case "blob":
		var a, b form3.Shape
		a, err = form3.NewSphere(0.6 * r)
		if err != nil {
			return nil, err
		}
		var lobe sdf.SDF3
		lobe, err = sdf.Sphere3D(float64(0.4 * r))
		if err != nil {
			return nil, err
		}
		b = form3.Translate(form3.FromSDFX(lobe), 0.5*r, 0, 0.2*r)
		s, err = form3.SmoothUnion(a, b, 0.2*r)
	default:
		err = fmt.Errorf("unknown shape %q", name)
	}
	if err != nil {
		return nil, err
	}
	c := ms3.Scale(0.5, ms3.Add(lo, hi))
	return form3.Translate(s, c.X, c.Y, c.Z), nil
}

func export(out config.Output, world *terrain.World, logger *log.Logger) error {
	if err := os.MkdirAll(out.Dir, 0o755); err != nil {
		return err
	}
	chunks := world.Chunks()
	var (
		tris   []ms3.Triangle
		meshes []render.NamedMesh
	)
	for _, c := range chunks {
		tris = render.AppendTriangles(tris, &c.Mesh, c.Origin)
		meshes = append(meshes, render.NamedMesh{
			Name:   fmt.Sprintf("chunk_%d_%d_%d", c.Coord[0], c.Coord[1], c.Coord[2]),
			Origin: c.Origin,
			Mesh:   &c.Mesh,
		})
		logger.Debug("chunk", "coord", c.Coord, "id", c.ID, "vertices", len(c.Mesh.Vertices),
			"triangles", c.Mesh.TriangleCount(), "surface_cells", c.Stats.SurfaceCells)
	}
	if len(tris) == 0 {
		logger.Warn("no surface crosses the generated chunks, skipping mesh output")
	} else {
		if out.STL {
			path := filepath.Join(out.Dir, "terrain.stl")
			if err := render.CreateSTL(path, render.NewTriangleRenderer(tris)); err != nil {
				return err
			}
			logger.Info("wrote", "path", path, "triangles", len(tris))
		}
		if out.GLTF {
			path := filepath.Join(out.Dir, "terrain.gltf")
			if out.Binary {
				path = filepath.Join(out.Dir, "terrain.glb")
			}
			if err := writeFile(path, func(w *bufio.Writer) error {
				return render.WriteGLTF(w, out.Binary, meshes...)
			}); err != nil {
				return err
			}
			logger.Info("wrote", "path", path, "meshes", len(meshes))
		}
		if out.Preview {
			path := filepath.Join(out.Dir, "preview.png")
			if err := render.SavePreviewPNG(path, tris, out.PreviewWidth, out.PreviewHeight); err != nil {
				return err
			}
			logger.Info("wrote", "path", path)
		}
	}
	if out.Slice && len(chunks) > 0 {
		path := filepath.Join(out.Dir, "slice.png")
		if err := writeFile(path, func(w *bufio.Writer) error {
			return render.WriteSlicePNG(w, chunks[0].Field, out.SliceZ, 400)
		}); err != nil {
			return err
		}
		logger.Info("wrote", "path", path, "chunk", chunks[0].Coord)
	}
	return nil
}

func writeFile(path string, write func(w *bufio.Writer) error) error {
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(fp)
	err = write(bw)
	if err == nil {
		err = bw.Flush()
	}
	if errClose := fp.Close(); err == nil {
		err = errClose
	}
	return err
}
