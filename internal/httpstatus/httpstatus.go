// Package httpstatus is the optional HTTP introspection server: a thin
// gin router exposing /healthz and /runs/:id so a long batch run can be
// polled for progress instead of only watching its stdout log. Response
// headers and CORS/rate-limit handling come from internal/middleware.
package httpstatus

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bigladder/erin/internal/health"
	"github.com/bigladder/erin/internal/middleware"
)

// RunStatus is the lifecycle state of a tracked run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// RunProgress is a snapshot of one batch run's progress.
type RunProgress struct {
	ID               string    `json:"id"`
	Status           RunStatus `json:"status"`
	OccurrencesTotal int       `json:"occurrences_total"`
	OccurrencesDone  int       `json:"occurrences_done"`
	StartedAt        time.Time `json:"started_at"`
	Error            string    `json:"error,omitempty"`
}

// Tracker records in-flight and completed run progress, read by the
// HTTP server and written by the scenario driver's calling goroutine.
type Tracker struct {
	mu   sync.RWMutex
	runs map[string]*RunProgress
}

// NewTracker returns an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{runs: make(map[string]*RunProgress)}
}

// Start registers a new run with the given id and occurrence count.
func (t *Tracker) Start(id string, occurrencesTotal int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.runs[id] = &RunProgress{
		ID:               id,
		Status:           RunStatusRunning,
		OccurrencesTotal: occurrencesTotal,
		StartedAt:        time.Now(),
	}
}

// Advance records that one more occurrence of run id has completed.
func (t *Tracker) Advance(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if r, ok := t.runs[id]; ok {
		r.OccurrencesDone++
	}
}

// Finish marks run id as completed, or failed if err is non-nil.
func (t *Tracker) Finish(id string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	r, ok := t.runs[id]
	if !ok {
		return
	}
	if err != nil {
		r.Status = RunStatusFailed
		r.Error = err.Error()
		return
	}
	r.Status = RunStatusCompleted
}

// Get returns a copy of run id's progress.
func (t *Tracker) Get(id string) (RunProgress, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	r, ok := t.runs[id]
	if !ok {
		return RunProgress{}, false
	}
	return *r, true
}

// Server is the optional gin-backed introspection server.
type Server struct {
	router  *gin.Engine
	checker *health.Checker
	tracker *Tracker
}

// NewServer builds a Server. checker and tracker must be non-nil.
func NewServer(checker *health.Checker, tracker *Tracker) *Server {
	s := &Server{router: gin.Default(), checker: checker, tracker: tracker}
	s.router.Use(middleware.Security(), middleware.CORS(), middleware.RateLimit())
	s.router.GET("/healthz", s.handleHealthz)
	s.router.GET("/runs/:id", s.handleRun)
	return s
}

// Run blocks serving HTTP on addr, e.g. "127.0.0.1:9100".
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

func (s *Server) handleHealthz(c *gin.Context) {
	report := s.checker.Report()

	statusCode := http.StatusOK
	switch report.Status {
	case health.StatusUnhealthy:
		statusCode = http.StatusServiceUnavailable
	case health.StatusDegraded:
		statusCode = http.StatusOK
	}
	c.JSON(statusCode, report)
}

func (s *Server) handleRun(c *gin.Context) {
	progress, ok := s.tracker.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown run id"})
		return
	}
	c.JSON(http.StatusOK, progress)
}
