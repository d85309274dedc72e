// Package api exposes the card engine over HTTP and WebSocket: single-card
// rendering, asynchronous batch runs and batch progress streaming.
package api

import (
	"context"
	"fmt"
	"image"
	"net/http"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/cardforge/card-engine/internal/batch"
	"github.com/cardforge/card-engine/internal/dataset"
	"github.com/cardforge/card-engine/internal/render"
	"github.com/cardforge/card-engine/pkg/cardformat"
)

// Job tracks one asynchronous batch run.
type Job struct {
	ID         string     `json:"id"`
	Status     string     `json:"status"` // running, completed, failed
	Format     string     `json:"format"`
	Total      int        `json:"total"`
	Done       int        `json:"done"`
	Succeeded  int        `json:"succeeded"`
	Failed     int        `json:"failed"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// Server is the API server.
type Server struct {
	router   *gin.Engine
	cfg      *cardformat.Config
	fonts    *render.FontSource
	qr       image.Image
	baseDir  string
	upgrader websocket.Upgrader

	mu   sync.Mutex
	jobs map[string]*Job

	clientMu sync.Mutex
	clients  map[*wsClient]struct{}
}

// NewServer creates the API server for one loaded configuration. The font
// and shared QR image are loaded up front so requests cannot fail on setup.
func NewServer(cfg *cardformat.Config, baseDir string) (*Server, error) {
	fonts, err := render.LoadFont(resolveBase(baseDir, cfg.FontPath))
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}

	qr, err := batch.LoadQR(cfg, baseDir)
	if err != nil {
		return nil, err
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()
	router.Use(corsMiddleware())

	s := &Server{
		router:  router,
		cfg:     cfg,
		fonts:   fonts,
		qr:      qr,
		baseDir: baseDir,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins
			},
		},
		jobs:    map[string]*Job{},
		clients: map[*wsClient]struct{}{},
	}

	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.POST("/render", s.handleRender)
	s.router.POST("/batch", s.handleBatch)
	s.router.GET("/jobs", s.handleGetJobs)
	s.router.GET("/job/:id", s.handleGetJob)

	// WebSocket
	s.router.GET("/ws", s.handleWebSocket)

	// Health check
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}

// Run starts the HTTP server.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Router exposes the handler for tests.
func (s *Server) Router() http.Handler { return s.router }

// handleRender renders one card synchronously. The photo arrives as a
// multipart file, the name and format as form fields.
func (s *Server) handleRender(c *gin.Context) {
	name := c.PostForm("name")
	if name == "" {
		c.JSON(400, gin.H{"error": "name is required"})
		return
	}
	format := c.DefaultPostForm("format", "pdf")
	if format != "pdf" && format != "png" {
		c.JSON(400, gin.H{"error": fmt.Sprintf("unknown format %q", format)})
		return
	}

	file, err := c.FormFile("photo")
	if err != nil {
		c.JSON(400, gin.H{"error": "photo file is required"})
		return
	}
	src, err := file.Open()
	if err != nil {
		c.JSON(400, gin.H{"error": "failed to open photo upload"})
		return
	}
	defer src.Close()

	photo, err := imaging.Decode(src)
	if err != nil {
		c.JSON(400, gin.H{"error": fmt.Sprintf("failed to decode photo: %v", err)})
		return
	}

	req := render.Request{Name: name, Photo: photo, QR: s.qr}
	data, err := render.Render(format, s.cfg, req, s.fonts, render.DefaultScale)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}

	contentType := "application/pdf"
	if format == "png" {
		contentType = "image/png"
	}
	c.Data(200, contentType, data)
}

// handleBatch starts an asynchronous batch run and returns its job id.
func (s *Server) handleBatch(c *gin.Context) {
	var req struct {
		Format    string `json:"format"`
		Workers   int    `json:"workers"`
		InputCSV  string `json:"input_csv"`
		OutputDir string `json:"output_dir"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "invalid request body"})
		return
	}

	if req.Format == "" {
		req.Format = "pdf"
	}
	if req.InputCSV == "" {
		req.InputCSV = s.cfg.InputCSV
	}
	if req.OutputDir == "" {
		req.OutputDir = s.cfg.OutputDirectory
	}
	if req.InputCSV == "" || req.OutputDir == "" {
		c.JSON(400, gin.H{"error": "input_csv and output_dir must be set in the request or the configuration"})
		return
	}

	records, err := dataset.ReadFile(resolveBase(s.baseDir, req.InputCSV))
	if err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	runner, err := batch.NewRunner(s.cfg, batch.Options{
		Format:    req.Format,
		Workers:   req.Workers,
		BaseDir:   s.baseDir,
		OutputDir: resolveBase(s.baseDir, req.OutputDir),
	})
	if err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	job := &Job{
		ID:        uuid.New().String(),
		Status:    "running",
		Format:    req.Format,
		Total:     len(records),
		StartedAt: time.Now(),
	}
	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()

	go s.runBatch(job, runner, records)

	c.JSON(202, gin.H{"job_id": job.ID, "total": job.Total})
}

// runBatch drives a runner to completion, updating the job record and
// broadcasting progress to WebSocket clients.
func (s *Server) runBatch(job *Job, runner *batch.Runner, records []dataset.Record) {
	events := make(chan batch.Event)
	done := make(chan batch.Summary, 1)

	go func() {
		done <- runner.Run(context.Background(), records, events)
		close(events)
	}()

	for ev := range events {
		s.mu.Lock()
		job.Done++
		if ev.Err == nil {
			job.Succeeded++
		} else {
			job.Failed++
		}
		s.mu.Unlock()

		s.broadcast(wsMessage{
			Event: EventProgress,
			Data: gin.H{
				"job_id": job.ID,
				"row":    ev.Row,
				"total":  ev.Total,
				"name":   ev.Name,
				"output": ev.Output,
				"error":  errString(ev.Err),
			},
		})
	}

	summary := <-done
	now := time.Now()
	s.mu.Lock()
	job.FinishedAt = &now
	job.Succeeded = summary.Succeeded
	job.Failed = summary.Failed
	if summary.AllSucceeded() {
		job.Status = "completed"
	} else {
		job.Status = "failed"
	}
	s.mu.Unlock()

	s.broadcast(wsMessage{
		Event: EventDone,
		Data: gin.H{
			"job_id":    job.ID,
			"total":     summary.Total,
			"succeeded": summary.Succeeded,
			"failed":    summary.Failed,
		},
	})
}

// handleGetJobs returns all batch jobs, newest first.
func (s *Server) handleGetJobs(c *gin.Context) {
	s.mu.Lock()
	jobs := make([]*Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		jobs = append(jobs, j)
	}
	s.mu.Unlock()

	sort.Slice(jobs, func(i, k int) bool {
		return jobs[i].StartedAt.After(jobs[k].StartedAt)
	})
	c.JSON(200, gin.H{"jobs": jobs})
}

func (s *Server) handleGetJob(c *gin.Context) {
	s.mu.Lock()
	job, ok := s.jobs[c.Param("id")]
	s.mu.Unlock()

	if !ok {
		c.JSON(404, gin.H{"error": "job not found"})
		return
	}
	c.JSON(200, job)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func resolveBase(baseDir, path string) string {
	if path == "" || filepath.IsAbs(path) || baseDir == "" {
		return path
	}
	return filepath.Join(baseDir, path)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
