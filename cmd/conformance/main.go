/*
main.go - Conformance server entry point

PURPOSE:
  Initializes and starts the fixture conformance HTTP surface: a
  standalone server any language's implementation can be checked
  against by running named datasets and inspecting pass/fail per row.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Load any extra dataset JSON files from -fixtures-dir
  3. Create conformance handler and router
  4. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port          HTTP server port (default: 8090)
  -fixtures-dir  Directory of extra dataset JSON files to register
                 alongside the built-in canonical scenario (optional)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM, stop accepting new connections, wait up to 30s for
  active requests to complete, then exit.

SEE ALSO:
  - conformance/server.go: Router configuration
  - conformance/handlers.go: HTTP handlers
  - fixtures/dataset.go: Dataset schema and loader
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/brightloom/schedcore/conformance"
	"github.com/brightloom/schedcore/fixtures"
)

func main() {
	port := flag.Int("port", 8090, "HTTP server port")
	fixturesDir := flag.String("fixtures-dir", "", "directory of extra dataset JSON files to register (optional)")
	flag.Parse()

	var extra []*fixtures.Dataset
	if *fixturesDir != "" {
		loaded, err := loadDatasetDir(*fixturesDir)
		if err != nil {
			log.Fatalf("failed to load fixtures dir: %v", err)
		}
		extra = loaded
	}

	handler := conformance.NewHandler(extra...)
	router := conformance.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("conformance server starting on http://localhost:%d", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server stopped")
}

func loadDatasetDir(dir string) ([]*fixtures.Dataset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var out []*fixtures.Dataset
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		ds, err := fixtures.Load(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", entry.Name(), err)
		}
		out = append(out, ds)
	}
	return out, nil
}
