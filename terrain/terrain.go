// Package terrain manages a grid of independently meshed chunks. Each chunk
// owns a density field and the mesh extracted from it. Chunks are generated
// concurrently, sculpted with brushes in world cell coordinates and remeshed
// on demand.
package terrain

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/chewxy/math32"
	"github.com/google/uuid"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/surfnets"
	"github.com/soypat/surfnets/internal/d3"
)

// Config configures a World.
type Config struct {
	// ChunkSize is the number of cells along each chunk edge.
	ChunkSize int
	// CellSize is the world space edge length of a cell.
	CellSize float32
	// Workers bounds concurrent chunk generation. Zero uses runtime.NumCPU.
	Workers int
	Brush   surfnets.Brush
	// Logger receives generation and remesh reports. Nil disables logging.
	Logger *log.Logger
}

// DefaultConfig returns 32 cell chunks of unit cells with the default brush.
func DefaultConfig() Config {
	return Config{ChunkSize: 32, CellSize: 1, Brush: surfnets.DefaultBrush()}
}

func (c Config) validate() error {
	switch {
	case c.ChunkSize < 1:
		return errors.New("chunk size must be 1 or larger")
	case c.CellSize <= 0 || math32.IsInf(c.CellSize, 0) || math32.IsNaN(c.CellSize):
		return errors.New("cell size must be positive and finite")
	case c.Workers < 0:
		return errors.New("negative worker count")
	case c.Brush.Radius <= 0:
		return errors.New("brush radius must be positive")
	}
	return nil
}

// Chunk is one cube of the terrain grid.
type Chunk struct {
	ID    uuid.UUID
	Coord surfnets.V3i
	// Origin is the world position of local cell (0,0,0).
	Origin ms3.Vec
	Field  *surfnets.Field
	Mesh   surfnets.MeshData
	Stats  surfnets.Stats
	dirty  bool
}

// Dirty reports whether the field was edited after the mesh was extracted.
// Chunk fields may change during ApplyBrush and Remesh; use the World
// accessors when those run concurrently.
func (c *Chunk) Dirty() bool { return c.dirty }

func (c *Chunk) bounds() (b ms3.Box, ok bool) {
	if c.Mesh.IsEmpty() {
		return ms3.Box{}, false
	}
	return d3.Translate(d3.Set(c.Mesh.Vertices).Bounds(), c.Origin), true
}

// World is a sparse set of chunks sampled from one density source.
// World methods are safe for concurrent use. Chunks returned by Chunk and
// Chunks are shared: their fields must not be read while ApplyBrush or
// Remesh run on another goroutine.
type World struct {
	cfg     Config
	sampler surfnets.Sampler
	log     *log.Logger

	mu     sync.Mutex
	chunks map[surfnets.V3i]*Chunk
}

// NewWorld returns an empty world. sampler must be safe for concurrent use.
func NewWorld(cfg Config, sampler surfnets.Sampler) (*World, error) {
	if sampler == nil {
		return nil, errors.New("nil sampler")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
	w := &World{
		cfg:     cfg,
		sampler: sampler,
		log:     cfg.Logger,
		chunks:  make(map[surfnets.V3i]*Chunk),
	}
	return w, nil
}

// Config returns the world configuration with defaults applied.
func (w *World) Config() Config { return w.cfg }

// ChunkCoord returns the coordinate of the chunk owning world cell p.
func (w *World) ChunkCoord(p surfnets.V3i) surfnets.V3i {
	n := w.cfg.ChunkSize
	return surfnets.V3i{floorDiv(p[0], n), floorDiv(p[1], n), floorDiv(p[2], n)}
}

// LocalCoord returns the cell of the owning chunk's field that holds world cell p.
func (w *World) LocalCoord(p surfnets.V3i) surfnets.V3i {
	return p.Sub(w.ChunkCoord(p).Scale(w.cfg.ChunkSize))
}

// Chunk returns the chunk at coord, or nil if it was not generated.
func (w *World) Chunk(coord surfnets.V3i) *Chunk {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.chunks[coord]
}

// Chunks returns all generated chunks ordered by coordinate.
func (w *World) Chunks() []*Chunk {
	w.mu.Lock()
	chunks := make([]*Chunk, 0, len(w.chunks))
	for _, c := range w.chunks {
		chunks = append(chunks, c)
	}
	w.mu.Unlock()
	sort.Slice(chunks, func(i, j int) bool { return chunks[i].Coord.Less(chunks[j].Coord) })
	return chunks
}

// Bounds returns the world space box enclosing every chunk mesh.
// ok is false if all meshes are empty.
func (w *World) Bounds() (b ms3.Box, ok bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, c := range w.chunks {
		cb, cok := c.bounds()
		switch {
		case !cok:
			continue
		case !ok:
			b, ok = cb, true
		default:
			b = d3.Extend(b, cb)
		}
	}
	return b, ok
}

// ChunkBounds returns the world space box enclosing the mesh of the chunk
// at coord. ok is false if there is no such chunk or its mesh is empty.
func (w *World) ChunkBounds(coord surfnets.V3i) (b ms3.Box, ok bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	c, exists := w.chunks[coord]
	if !exists {
		return ms3.Box{}, false
	}
	return c.bounds()
}

// Dirty reports whether the chunk at coord was edited since it was last meshed.
func (w *World) Dirty(coord surfnets.V3i) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	c, ok := w.chunks[coord]
	return ok && c.dirty
}

// Generate samples and meshes every missing chunk with coordinates in the
// half open box [min, max). Existing chunks are left untouched.
func (w *World) Generate(min, max surfnets.V3i) error {
	var pending []*Chunk
	w.mu.Lock()
	for z := min[2]; z < max[2]; z++ {
		for y := min[1]; y < max[1]; y++ {
			for x := min[0]; x < max[0]; x++ {
				coord := surfnets.V3i{x, y, z}
				if _, ok := w.chunks[coord]; ok {
					continue
				}
				pending = append(pending, w.newChunk(coord))
			}
		}
	}
	w.mu.Unlock()
	if len(pending) == 0 {
		return nil
	}

	start := time.Now()
	err := w.run(pending, func(ex *surfnets.Extractor, c *Chunk) error {
		f, err := surfnets.NewField(w.cfg.ChunkSize)
		if err != nil {
			return err
		}
		if err := f.Fill(w.sampler, c.Coord.Scale(w.cfg.ChunkSize)); err != nil {
			return fmt.Errorf("chunk %v: %w", c.Coord, err)
		}
		c.Field = f
		c.Mesh = ex.Extract(f).Clone()
		c.Stats = ex.Stats()
		return nil
	})
	if err != nil {
		return err
	}

	added := 0
	w.mu.Lock()
	for _, c := range pending {
		// A concurrent Generate may have stored this coordinate first.
		if _, ok := w.chunks[c.Coord]; ok {
			continue
		}
		w.chunks[c.Coord] = c
		added++
	}
	w.mu.Unlock()
	w.logEvent(log.InfoLevel, "generated chunks", "count", added, "elapsed", time.Since(start))
	return nil
}

// ApplyBrush edits the chunk owning world cell p and marks it dirty.
// It returns false if no chunk owns p. The edit is clipped to the owning
// chunk; neighbouring chunks are not modified.
func (w *World) ApplyBrush(p surfnets.V3i, addingMaterial bool) bool {
	coord := w.ChunkCoord(p)
	w.mu.Lock()
	defer w.mu.Unlock()
	c, ok := w.chunks[coord]
	if !ok {
		return false
	}
	local := w.LocalCoord(p)
	w.cfg.Brush.Apply(c.Field, local, addingMaterial)
	c.dirty = true
	w.logEvent(log.DebugLevel, "brush applied", "chunk", coord, "cell", local, "adding", addingMaterial)
	return true
}

// Remesh re-extracts every dirty chunk and returns how many were remeshed.
func (w *World) Remesh() (int, error) {
	var dirty []*Chunk
	w.mu.Lock()
	for _, c := range w.chunks {
		if c.dirty {
			dirty = append(dirty, c)
		}
	}
	// Remeshing reads the fields, so brush edits wait until it is done.
	defer w.mu.Unlock()
	if len(dirty) == 0 {
		return 0, nil
	}
	err := w.run(dirty, func(ex *surfnets.Extractor, c *Chunk) error {
		c.Mesh = ex.Extract(c.Field).Clone()
		c.Stats = ex.Stats()
		c.dirty = false
		return nil
	})
	if err != nil {
		return 0, err
	}
	w.logEvent(log.InfoLevel, "remeshed chunks", "count", len(dirty))
	return len(dirty), nil
}

func (w *World) newChunk(coord surfnets.V3i) *Chunk {
	return &Chunk{
		ID:     uuid.New(),
		Coord:  coord,
		Origin: ms3.Scale(float32(w.cfg.ChunkSize)*w.cfg.CellSize, coord.Vec()),
	}
}

// run processes chunks with a pool of workers. Each worker owns one
// Extractor; each chunk is handled by exactly one worker.
func (w *World) run(chunks []*Chunk, job func(*surfnets.Extractor, *Chunk) error) error {
	workers := w.cfg.Workers
	if workers > len(chunks) {
		workers = len(chunks)
	}
	queue := make(chan *Chunk)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			ex := surfnets.NewExtractor(w.cfg.CellSize)
			for c := range queue {
				if errs[i] != nil {
					continue // drain
				}
				errs[i] = job(ex, c)
			}
		}(i)
	}
	for _, c := range chunks {
		queue <- c
	}
	close(queue)
	wg.Wait()
	return errors.Join(errs...)
}

func (w *World) logEvent(level log.Level, msg string, keyvals ...any) {
	if w.log == nil {
		return
	}
	w.log.Log(level, msg, keyvals...)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
