package export

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"

	"totocalcio/internal/models"
)

func TestReportKeys(t *testing.T) {
	if got := RoundReportKey("Serie A Fantacalcio!", 2026, 3); got != "serie-a-fantacalcio-2026/round-03.json" {
		t.Errorf("unexpected round key %q", got)
	}
	if got := TournamentReportKey("Serie A", 2026); got != "serie-a-2026/tournament.json" {
		t.Errorf("unexpected tournament key %q", got)
	}
}

func TestFileExporterWritesJSON(t *testing.T) {
	dir := t.TempDir()
	exporter := NewFileExporter(dir)

	summary := models.RoundSummary{TournamentID: 1, RoundNumber: 3, State: models.RoundStateViewingReport}
	location, err := exporter.Export(context.Background(), RoundReportKey("Serie A", 2026, 3), summary)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if location != filepath.Join(dir, "serie-a-2026", "round-03.json") {
		t.Errorf("unexpected location %q", location)
	}

	data, err := os.ReadFile(location)
	if err != nil {
		t.Fatalf("failed to read report: %v", err)
	}
	var decoded models.RoundSummary
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if decoded.RoundNumber != 3 || decoded.State != models.RoundStateViewingReport {
		t.Errorf("unexpected decoded report %+v", decoded)
	}
}

func TestFileExporterHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewFileExporter(t.TempDir()).Export(ctx, "a.json", struct{}{}); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestS3ExporterPutsObject(t *testing.T) {
	var (
		mu     sync.Mutex
		method string
		path   string
		body   []byte
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		method = r.Method
		path = r.URL.Path
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := aws.Config{
		Region:      "us-east-1",
		Credentials: credentials.NewStaticCredentialsProvider("key", "secret", ""),
	}
	exporter := newS3Exporter(cfg, S3Options{Bucket: "reports", Prefix: "pool", Endpoint: server.URL})

	location, err := exporter.Export(context.Background(), TournamentReportKey("Serie A", 2026), models.TournamentSummary{Name: "Serie A"})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if location != "s3://reports/pool/serie-a-2026/tournament.json" {
		t.Errorf("unexpected location %q", location)
	}

	mu.Lock()
	defer mu.Unlock()
	if method != http.MethodPut {
		t.Errorf("expected PUT, got %s", method)
	}
	if path != "/reports/pool/serie-a-2026/tournament.json" {
		t.Errorf("unexpected object path %q", path)
	}
	if len(body) == 0 {
		t.Error("expected a request body")
	}
}
