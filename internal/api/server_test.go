package api

import (
	"bytes"
	"encoding/json"
	"image"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/disintegration/imaging"

	"github.com/cardforge/card-engine/pkg/cardformat"
)

func testConfig() *cardformat.Config {
	return &cardformat.Config{
		PageWidth:           216,
		PageHeight:          504,
		HorizontalPadding:   10,
		TopMargin:           6,
		TextPadding:         10,
		PhotoHeight:         250,
		NameHeightShort:     40,
		NameHeightLong:      60,
		NameFontSizeShort:   24,
		NameFontSizeLong:    18,
		NameLengthThreshold: 22,
		NameMaxLines:        2,
		QRHeight:            90,
		QRCodeSize:          72,
		QRCodeContent:       "https://example.com/welcome",
		GapBeforeMessage:    5,
		MessageHeight:       60,
		MessageFontSize:     11,
		MessageText:         "Welcome to the team!",
		BackgroundColor:     "#8DC5FE",
	}
}

func testServer(t *testing.T, baseDir string) *Server {
	t.Helper()
	s, err := NewServer(testConfig(), baseDir)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return s
}

func TestHealth(t *testing.T) {
	s := testServer(t, t.TempDir())

	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	if w.Code != 200 {
		t.Errorf("Expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "ok") {
		t.Errorf("Unexpected body: %s", w.Body.String())
	}
}

func renderForm(t *testing.T, name, format string, withPhoto bool) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	if name != "" {
		mw.WriteField("name", name)
	}
	if format != "" {
		mw.WriteField("format", format)
	}
	if withPhoto {
		part, err := mw.CreateFormFile("photo", "photo.png")
		if err != nil {
			t.Fatalf("CreateFormFile failed: %v", err)
		}
		if err := imaging.Encode(part, image.NewRGBA(image.Rect(0, 0, 40, 60)), imaging.PNG); err != nil {
			t.Fatalf("failed to encode test photo: %v", err)
		}
	}
	mw.Close()
	return body, mw.FormDataContentType()
}

func TestRender_ReturnsPNG(t *testing.T) {
	s := testServer(t, t.TempDir())
	body, contentType := renderForm(t, "Alice", "png", true)

	req := httptest.NewRequest("POST", "/render", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	if w.Code != 200 {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Expected image/png, got %s", ct)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")) {
		t.Error("Expected PNG magic in response body")
	}
}

func TestRender_MissingName(t *testing.T) {
	s := testServer(t, t.TempDir())
	body, contentType := renderForm(t, "", "png", true)

	req := httptest.NewRequest("POST", "/render", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	if w.Code != 400 {
		t.Errorf("Expected 400, got %d", w.Code)
	}
}

func TestRender_MissingPhoto(t *testing.T) {
	s := testServer(t, t.TempDir())
	body, contentType := renderForm(t, "Alice", "png", false)

	req := httptest.NewRequest("POST", "/render", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	if w.Code != 400 {
		t.Errorf("Expected 400, got %d", w.Code)
	}
}

func TestBatch_RunsToCompletion(t *testing.T) {
	baseDir := t.TempDir()
	if err := imaging.Save(image.NewRGBA(image.Rect(0, 0, 40, 60)), filepath.Join(baseDir, "alice.png")); err != nil {
		t.Fatalf("failed to write photo: %v", err)
	}
	csv := "name,image\nAlice Smith,alice.png\n"
	if err := os.WriteFile(filepath.Join(baseDir, "people.csv"), []byte(csv), 0o644); err != nil {
		t.Fatalf("failed to write csv: %v", err)
	}
	if err := os.Mkdir(filepath.Join(baseDir, "out"), 0o755); err != nil {
		t.Fatalf("failed to create output dir: %v", err)
	}

	s := testServer(t, baseDir)

	payload, _ := json.Marshal(map[string]interface{}{
		"format":     "png",
		"workers":    1,
		"input_csv":  "people.csv",
		"output_dir": "out",
	})
	req := httptest.NewRequest("POST", "/batch", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	if w.Code != 202 {
		t.Fatalf("Expected 202, got %d: %s", w.Code, w.Body.String())
	}

	var accepted struct {
		JobID string `json:"job_id"`
		Total int    `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &accepted); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if accepted.Total != 1 {
		t.Errorf("Expected 1 record, got %d", accepted.Total)
	}

	job := pollJob(t, s, accepted.JobID, 10*time.Second)
	if job.Status != "completed" {
		t.Errorf("Expected completed job, got %+v", job)
	}
	if job.Succeeded != 1 {
		t.Errorf("Expected 1 success, got %+v", job)
	}

	if _, err := os.Stat(filepath.Join(baseDir, "out", "alice_smith.png")); err != nil {
		t.Errorf("Expected output file: %v", err)
	}
}

func pollJob(t *testing.T, s *Server, id string, timeout time.Duration) Job {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		w := httptest.NewRecorder()
		s.Router().ServeHTTP(w, httptest.NewRequest("GET", "/job/"+id, nil))
		if w.Code != 200 {
			t.Fatalf("Expected 200 for job %s, got %d", id, w.Code)
		}

		var job Job
		if err := json.Unmarshal(w.Body.Bytes(), &job); err != nil {
			t.Fatalf("failed to parse job: %v", err)
		}
		if job.Status != "running" {
			return job
		}
		if time.Now().After(deadline) {
			t.Fatalf("Job %s still running after %v", id, timeout)
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func TestGetJob_NotFound(t *testing.T) {
	s := testServer(t, t.TempDir())

	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, httptest.NewRequest("GET", "/job/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
}

func TestGetJobs_Empty(t *testing.T) {
	s := testServer(t, t.TempDir())

	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, httptest.NewRequest("GET", "/jobs", nil))
	if w.Code != 200 {
		t.Errorf("Expected 200, got %d", w.Code)
	}
}
