// Package server serves the generated report site plus a small status API.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/akordas/tidemark/internal/database"
)

// Server hosts the static docs directory and the status endpoint.
type Server struct {
	db      *database.DB
	docsDir string
	port    int
	log     zerolog.Logger
	started time.Time
}

// New creates a new server for the given docs directory.
func New(db *database.DB, docsDir string, port int, log zerolog.Logger) *Server {
	return &Server{
		db:      db,
		docsDir: docsDir,
		port:    port,
		log:     log.With().Str("component", "server").Logger(),
		started: time.Now(),
	}
}

// Run starts the HTTP server. It fails fast when the site has not been
// built yet.
func (s *Server) Run() error {
	indexPath := filepath.Join(s.docsDir, "index.html")
	if _, err := os.Stat(indexPath); err != nil {
		return fmt.Errorf("site not built yet, run build-site first: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
	}))

	r.Get("/api/status", s.handleStatus)
	r.Handle("/*", http.FileServer(http.Dir(s.docsDir)))

	addr := fmt.Sprintf(":%d", s.port)
	s.log.Info().Str("addr", addr).Str("docs", s.docsDir).Msg("Serving report site")

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return srv.ListenAndServe()
}

// statusResponse is the /api/status payload.
type statusResponse struct {
	Status   string         `json:"status"`
	UptimeS  int64          `json:"uptime_seconds"`
	Database databaseStatus `json:"database"`
	System   systemStatus   `json:"system"`
}

type databaseStatus struct {
	Path      string `json:"path"`
	SizeBytes int64  `json:"size_bytes"`
	Assets    int    `json:"assets"`
	Prices    int    `json:"prices"`
	News      int    `json:"news"`
	Links     int    `json:"links"`
}

type systemStatus struct {
	ProcessRSSBytes uint64  `json:"process_rss_bytes"`
	HostMemUsedPct  float64 `json:"host_mem_used_pct"`
	HostUptimeS     uint64  `json:"host_uptime_seconds"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		Status:  "ok",
		UptimeS: int64(time.Since(s.started).Seconds()),
		Database: databaseStatus{
			Path:      s.db.Path(),
			SizeBytes: s.db.SizeBytes(),
		},
	}

	conn := s.db.Conn()
	counts := map[string]*int{
		"assets": &resp.Database.Assets,
		"prices": &resp.Database.Prices,
		"news":   &resp.Database.News,
		"links":  &resp.Database.Links,
	}
	for table, dest := range counts {
		if err := conn.QueryRow("SELECT COUNT(*) FROM " + table).Scan(dest); err != nil {
			s.log.Warn().Err(err).Str("table", table).Msg("Failed to count rows")
		}
	}

	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if info, err := proc.MemoryInfo(); err == nil {
			resp.System.ProcessRSSBytes = info.RSS
		}
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		resp.System.HostMemUsedPct = vm.UsedPercent
	}
	if uptime, err := host.Uptime(); err == nil {
		resp.System.HostUptimeS = uptime
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode status response")
	}
}
