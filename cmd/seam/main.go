// seam evaluates a brush script and reports the edge adjacency of every
// brush it produces.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/chazu/seam"
	"github.com/chazu/seam/internal/config"
	"github.com/chazu/seam/internal/logger"
	"github.com/chazu/seam/pkg/topology"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("seam", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Path to config file")
	debug := fs.Bool("debug", false, "Enable debug logging")
	cells := fs.Int("cells", 0, "Marching cubes resolution (overrides config)")
	asJSON := fs.Bool("json", false, "Print adjacency stats as JSON")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: seam [-config path] [-debug] [-cells n] [-json] script.lisp")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if *debug {
		cfg.Logging.Level = "debug"
	}
	if *cells > 0 {
		cfg.Kernel.MeshCells = *cells
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	defer logger.Sync()

	script := fs.Arg(0)
	source, err := os.ReadFile(script)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	logger.Info("evaluating",
		zap.String("script", script),
		zap.Int("cells", cfg.Kernel.MeshCells),
		zap.Float64("tolerance", cfg.Topology.Tolerance))

	result := seam.NewApp(cfg).Evaluate(string(source))

	for _, e := range result.Errors {
		logger.Error("script error", zap.Int("line", e.Line), zap.String("msg", e.Message))
		if e.Line > 0 {
			fmt.Fprintf(stderr, "%s:%d: %s\n", script, e.Line, e.Message)
		} else {
			fmt.Fprintf(stderr, "%s: %s\n", script, e.Message)
		}
	}
	for _, w := range result.Warnings {
		logger.Warn("brush warning", zap.String("msg", w.Message))
		fmt.Fprintf(stderr, "warning: %s\n", w.Message)
	}
	if len(result.Errors) > 0 {
		return 1
	}

	if *asJSON {
		return printJSON(result, stdout, stderr)
	}
	for _, m := range result.Meshes {
		st := m.Topology
		logger.Debug("brush", zap.String("name", m.PartName), zap.Uint32s("boundary", m.Boundary))
		fmt.Fprintf(stdout, "%-16s triangles=%-7d matched=%-7d boundary=%-5d closed=%t\n",
			m.PartName, st.Triangles, st.MatchedEdgePairs, st.BoundaryEdges, st.Closed)
	}
	return 0
}

// brushReport is the -json output for one brush.
type brushReport struct {
	Name     string         `json:"name"`
	Color    string         `json:"color"`
	Topology topology.Stats `json:"topology"`
	Boundary []uint32       `json:"boundary"`
}

func printJSON(result seam.EvalResult, stdout, stderr io.Writer) int {
	reports := make([]brushReport, 0, len(result.Meshes))
	for _, m := range result.Meshes {
		reports = append(reports, brushReport{Name: m.PartName, Color: m.Color, Topology: m.Topology, Boundary: m.Boundary})
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(reports); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
