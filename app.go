// Package seam evaluates brush scripts into meshes and keeps an edge
// adjacency index per brush that is rebuilt on every evaluation.
package seam

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/chazu/seam/internal/config"
	"github.com/chazu/seam/internal/logger"
	"github.com/chazu/seam/pkg/engine"
	"github.com/chazu/seam/pkg/kernel"
	"github.com/chazu/seam/pkg/kernel/sdfx"
	"github.com/chazu/seam/pkg/scene"
	"github.com/chazu/seam/pkg/topology"
)

// colorPalette is a default palette used to assign distinct colors to brushes.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App runs the script → scene → mesh → adjacency pipeline. Indices are
// owned per brush name and reused across evaluations, so their tables
// only grow.
type App struct {
	cfg    *config.Config
	log    *zap.Logger
	engine *engine.Engine
	kernel kernel.Kernel

	mu     sync.Mutex
	states map[string]*brushState
}

// brushState is what App keeps per brush between evaluations.
type brushState struct {
	index    *topology.Index
	boundary *roaring.Bitmap
}

// MeshData is the JSON-serializable mesh format handed to consumers.
type MeshData struct {
	Vertices []float32      `json:"vertices"`
	Normals  []float32      `json:"normals"`
	Indices  []uint32       `json:"indices"`
	PartName string         `json:"partName"`
	Color    string         `json:"color"`
	Topology topology.Stats `json:"topology"`
	// Boundary lists the EdgeIDs (triangle*3 + edge) left unmatched.
	Boundary []uint32 `json:"boundary"`
}

// EvalErrorData is a JSON-serializable eval error.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result of one evaluation.
type EvalResult struct {
	Meshes   []MeshData      `json:"meshes"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
}

// NewApp creates an App from cfg. A nil cfg uses config.Default().
func NewApp(cfg *config.Config) *App {
	if cfg == nil {
		cfg = config.Default()
	}
	return &App{
		cfg:    cfg,
		log:    logger.Named("app"),
		engine: engine.NewEngine(cfg.Engine.EvalTimeout),
		kernel: sdfx.New(cfg.Kernel.MeshCells),
		states: make(map[string]*brushState),
	}
}

// Index returns the adjacency index kept for the named brush.
func (a *App) Index(name string) (*topology.Index, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	st, ok := a.states[name]
	if !ok {
		return nil, false
	}
	return st.index, true
}

// Evaluate takes Lisp source and returns mesh data, adjacency stats and
// errors. Calls are serialized; each index is rebuilt by one goroutine.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Meshes:   []MeshData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	s, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		a.log.Error("evaluate failed", zap.Error(err))
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}

	meshes, err := scene.Tessellate(s, a.kernel)
	if err != nil {
		a.log.Error("tessellate failed", zap.Error(err))
		result.Errors = append(result.Errors, EvalErrorData{
			Message: "tessellation failed: " + err.Error(),
		})
		return result
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	reports, err := a.rebuild(meshes)
	if err != nil {
		a.log.Error("adjacency rebuild failed", zap.Error(err))
		result.Errors = append(result.Errors, EvalErrorData{
			Message: "adjacency failed: " + err.Error(),
		})
		return result
	}

	for i, m := range meshes {
		result.Meshes = append(result.Meshes, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			PartName: m.PartName,
			Color:    colorPalette[i%len(colorPalette)],
			Topology: reports[i].stats,
			Boundary: reports[i].boundary,
		})
		if w, ok := openBrushWarning(m.PartName, reports[i].stats); ok {
			result.Warnings = append(result.Warnings, w)
		}
	}

	a.log.Debug("evaluated",
		zap.Int("brushes", len(meshes)),
		zap.Int("warnings", len(result.Warnings)))
	return result
}

// brushReport is the outcome of one brush rebuild.
type brushReport struct {
	stats    topology.Stats
	boundary []uint32
}

// rebuild refreshes the index of every brush in parallel. Once every
// rebuild succeeded, the state of brushes that no longer exist is
// dropped. Callers hold a.mu.
func (a *App) rebuild(meshes []*kernel.Mesh) ([]brushReport, error) {
	live := make(map[string]struct{}, len(meshes))
	work := make([]*brushState, len(meshes))
	for i, m := range meshes {
		live[m.PartName] = struct{}{}
		st, ok := a.states[m.PartName]
		if !ok {
			st = &brushState{
				index: topology.NewIndex(
					topology.WithTolerance(a.cfg.Topology.Tolerance),
					topology.WithLogger(logger.Named("topology").With(zap.String("brush", m.PartName))),
				),
				boundary: roaring.New(),
			}
			a.states[m.PartName] = st
		}
		work[i] = st
	}

	reports := make([]brushReport, len(meshes))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, m := range meshes {
		g.Go(func() error {
			st := work[i]
			if err := st.index.Rebuild(m, a.cfg.Topology.UseDrawRange); err != nil {
				return fmt.Errorf("brush %q: %w", m.PartName, err)
			}
			st.index.BoundaryEdgeIDs(st.boundary)
			reports[i] = brushReport{
				stats:    st.index.Stats(),
				boundary: st.boundary.ToArray(),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for name := range a.states {
		if _, ok := live[name]; !ok {
			delete(a.states, name)
		}
	}
	return reports, nil
}

// openBrushWarning reports a brush whose surface has unmatched edges.
func openBrushWarning(name string, st topology.Stats) (EvalErrorData, bool) {
	if st.Closed {
		return EvalErrorData{}, false
	}
	if st.Triangles == 0 {
		return EvalErrorData{Message: fmt.Sprintf("brush %q has no triangles", name)}, true
	}
	return EvalErrorData{
		Message: fmt.Sprintf("brush %q is not closed: %d boundary edges", name, st.BoundaryEdges),
	}, true
}
