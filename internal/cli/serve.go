package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/kweisel/tessera/pkg/arranger"
	"github.com/kweisel/tessera/pkg/geo"
	"github.com/kweisel/tessera/pkg/render/treeviz"
	"github.com/kweisel/tessera/pkg/tile"
)

// serveCommand creates the serve command exposing the layout over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		scenario string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve layout state over HTTP for inspection",
		Long: `Serve layout state over HTTP for inspection.

Starts a JSON API around an in-memory layout. Scenario steps can be posted
to drive it, and every workspace tree can be fetched as JSON, Graphviz DOT,
or a rendered SVG. Useful for debugging layout behavior and for wiring the
engine into external tooling.

Endpoints:
  GET  /healthz                     liveness probe
  GET  /v1/grid                     grid dimensions and workarea
  GET  /v1/workspaces/{x}/{y}       workspace tree as JSON
  GET  /v1/workspaces/{x}/{y}/dot   workspace tree as Graphviz DOT
  GET  /v1/workspaces/{x}/{y}/svg   workspace tree rendered as SVG
  POST /v1/steps                    apply a scenario step`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, scenario)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8373", "listen address")
	cmd.Flags().StringVar(&scenario, "scenario", "", "scenario file to replay on startup")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, scenarioPath string) error {
	host := newMemHost()
	var a *arranger.Arranger
	if scenarioPath != "" {
		scenario, err := LoadScenario(scenarioPath)
		if err != nil {
			return err
		}
		a = scenario.NewArranger(host)
		applied, err := scenario.Apply(a)
		if err != nil {
			return fmt.Errorf("replay %s: %w", scenarioPath, err)
		}
		c.Logger.Infof("Replayed %d steps from %s", applied, scenarioPath)
	} else {
		a = arranger.New(host, arranger.Options{
			Workarea: geo.Rect{W: defaultWorkareaW, H: defaultWorkareaH},
		})
	}

	srv := &layoutServer{arranger: a}
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	printInfo("Listening on %s", addr)
	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// =============================================================================
// HTTP Server
// =============================================================================

// layoutServer wraps an arranger behind a mutex. The layout expects a
// single event loop, so every request serializes on mu.
type layoutServer struct {
	mu       sync.Mutex
	arranger *arranger.Arranger
}

func (s *layoutServer) router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Get("/v1/grid", s.handleGrid)
	r.Get("/v1/workspaces/{x}/{y}", s.handleTree)
	r.Get("/v1/workspaces/{x}/{y}/dot", s.handleDOT)
	r.Get("/v1/workspaces/{x}/{y}/svg", s.handleSVG)
	r.Post("/v1/steps", s.handleStep)

	return r
}

type gridResponse struct {
	Width    int       `json:"width"`
	Height   int       `json:"height"`
	Workarea rectJSON  `json:"workarea"`
	Current  pointJSON `json:"current"`
}

type rectJSON struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type pointJSON struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func toRectJSON(r geo.Rect) rectJSON { return rectJSON{X: r.X, Y: r.Y, W: r.W, H: r.H} }

// nodeJSON is the wire form of a layout node. Exactly one of Surface or
// Split is set.
type nodeJSON struct {
	ID       uint64     `json:"id"`
	Geometry rectJSON   `json:"geometry"`
	Floating bool       `json:"floating,omitempty"`
	Active   bool       `json:"active,omitempty"`
	Surface  string     `json:"surface,omitempty"`
	Split    *splitJSON `json:"split,omitempty"`
}

type splitJSON struct {
	Orientation string     `json:"orientation"`
	Ratios      []float64  `json:"ratios"`
	Children    []nodeJSON `json:"children"`
}

type workspaceResponse struct {
	Position pointJSON  `json:"position"`
	Workarea rectJSON   `json:"workarea"`
	Tiled    nodeJSON   `json:"tiled"`
	Floating []nodeJSON `json:"floating,omitempty"`
}

func toNodeJSON(n tile.Node, ws *tile.Workspace) nodeJSON {
	out := nodeJSON{
		ID:       n.ID(),
		Geometry: toRectJSON(n.Geometry()),
		Floating: n.Floating(),
		Active:   n == ws.ActiveNode(),
	}
	switch t := n.(type) {
	case *tile.SurfaceNode:
		out.Surface = fmt.Sprintf("%v", t.Handle())
	case *tile.SplitNode:
		split := &splitJSON{
			Orientation: t.Orientation().String(),
			Ratios:      t.ChildRatios(),
		}
		for _, c := range t.Children() {
			split.Children = append(split.Children, toNodeJSON(c, ws))
		}
		out.Split = split
	}
	return out
}

func (s *layoutServer) handleGrid(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	grid := s.arranger.Grid()
	ws := s.arranger.CurrentWorkspace()
	writeJSON(w, http.StatusOK, gridResponse{
		Width:    grid.Dims().W,
		Height:   grid.Dims().H,
		Workarea: toRectJSON(grid.Workarea()),
		Current:  pointJSON{X: ws.Position().X, Y: ws.Position().Y},
	})
}

func (s *layoutServer) workspaceFromURL(r *http.Request) (*tile.Workspace, error) {
	x, err := strconv.Atoi(chi.URLParam(r, "x"))
	if err != nil {
		return nil, fmt.Errorf("invalid workspace x: %w", err)
	}
	y, err := strconv.Atoi(chi.URLParam(r, "y"))
	if err != nil {
		return nil, fmt.Errorf("invalid workspace y: %w", err)
	}
	ws := s.arranger.Grid().At(geo.Point{X: x, Y: y})
	if ws == nil {
		return nil, fmt.Errorf("workspace (%d,%d) outside grid", x, y)
	}
	return ws, nil
}

func (s *layoutServer) handleTree(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws, err := s.workspaceFromURL(r)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	resp := workspaceResponse{
		Position: pointJSON{X: ws.Position().X, Y: ws.Position().Y},
		Workarea: toRectJSON(ws.Workarea()),
		Tiled:    toNodeJSON(ws.TiledRoot(), ws),
	}
	for _, n := range ws.FloatingNodes() {
		resp.Floating = append(resp.Floating, toNodeJSON(n, ws))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *layoutServer) handleDOT(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws, err := s.workspaceFromURL(r)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	w.Header().Set("Content-Type", "text/vnd.graphviz")
	w.Write([]byte(treeviz.ToDOT(ws, treeviz.Options{Detailed: true})))
}

func (s *layoutServer) handleSVG(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	dot := ""
	ws, err := s.workspaceFromURL(r)
	if err == nil {
		dot = treeviz.ToDOT(ws, treeviz.Options{Detailed: true})
	}
	s.mu.Unlock()

	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	svg, err := treeviz.RenderSVG(dot)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(svg)
}

func (s *layoutServer) handleStep(w http.ResponseWriter, r *http.Request) {
	var step Step
	if err := json.NewDecoder(r.Body).Decode(&step); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid step body: %w", err))
		return
	}
	if err := step.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.mu.Lock()
	err := step.apply(s.arranger)
	s.mu.Unlock()

	if err != nil {
		writeError(w, http.StatusConflict, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "applied"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
