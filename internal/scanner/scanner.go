// Package scanner provides Markdown document discovery for docwalk.
//
// The scanner traverses a directory tree for .md files, hands each one to
// the extractor, and registers the result with the document registry. Files
// are processed by a pool of persistent workers (extraction per document is
// independent, so fan-out is a pure throughput optimization); the registry
// is the fan-in point, and resolution only starts once every file has been
// scanned. The scanner maintains CRC32 content hashes for change detection
// in watch mode and isolates per-file read failures via the error collector.
package scanner

import (
	"fmt"
	"hash/crc32"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	walkerrors "github.com/docwalk/docwalk/internal/errors"
	"github.com/docwalk/docwalk/internal/extract"
	"github.com/docwalk/docwalk/internal/registry"
)

// ScanJob represents a scanning job for the worker pool.
type ScanJob struct {
	// root is the scan root the relative path is computed against
	root string
	// filePath is the absolute path of the .md file to scan
	filePath string
	// result receives the scan outcome asynchronously
	result chan<- ScanResult
}

// ScanResult reports the outcome of scanning one file.
type ScanResult struct {
	filePath string
	err      error
}

// DocumentScanner discovers and extracts Markdown documents.
type DocumentScanner struct {
	registry  *registry.DocumentRegistry
	extractor *extract.Extractor
	collector *walkerrors.Collector
	exclude   []string

	pool *workerPool
}

// workerPool runs persistent extraction workers over a shared job queue.
type workerPool struct {
	jobQueue chan ScanJob
	stop     chan struct{}
	stopped  bool
	mu       sync.Mutex
}

// NewDocumentScanner creates a scanner feeding the given registry. Read
// failures are recorded on collector rather than returned, so one unreadable
// file never aborts a run.
func NewDocumentScanner(reg *registry.DocumentRegistry, collector *walkerrors.Collector) *DocumentScanner {
	s := &DocumentScanner{
		registry:  reg,
		extractor: extract.NewExtractor(),
		collector: collector,
	}

	workerCount := runtime.NumCPU()
	if workerCount > 8 {
		workerCount = 8 // diminishing returns past this for small text files
	}
	s.pool = newWorkerPool(workerCount, s)
	return s
}

// SetExcludePatterns configures glob patterns (matched against base names)
// for files the scanner should skip.
func (s *DocumentScanner) SetExcludePatterns(patterns []string) {
	s.exclude = patterns
}

func newWorkerPool(workerCount int, s *DocumentScanner) *workerPool {
	p := &workerPool{
		jobQueue: make(chan ScanJob, workerCount*2),
		stop:     make(chan struct{}),
	}
	for i := 0; i < workerCount; i++ {
		go func() {
			for {
				select {
				case job := <-p.jobQueue:
					job.result <- ScanResult{
						filePath: job.filePath,
						err:      s.scanFileInternal(job.root, job.filePath),
					}
				case <-p.stop:
					return
				}
			}
		}()
	}
	return p
}

// Stop shuts down the worker pool.
func (p *workerPool) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return
	}
	p.stopped = true
	close(p.stop)
}

// Close gracefully shuts down the scanner and its worker pool.
func (s *DocumentScanner) Close() error {
	if s.pool != nil {
		s.pool.Stop()
	}
	return nil
}

// GetRegistry returns the document registry.
func (s *DocumentScanner) GetRegistry() *registry.DocumentRegistry {
	return s.registry
}

// ScanDirectory walks root and extracts every Markdown file under it.
// The walk itself failing (root missing, unreadable directory) is returned
// as an error; individual file read failures are collected and skipped.
func (s *DocumentScanner) ScanDirectory(root string) error {
	cleanRoot := filepath.Clean(root)
	if info, err := os.Stat(cleanRoot); err != nil {
		return fmt.Errorf("scan root %s: %w", root, err)
	} else if !info.IsDir() {
		return fmt.Errorf("scan root %s is not a directory", root)
	}

	var files []string
	err := filepath.WalkDir(cleanRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if name == ".git" || name == "node_modules" || name == "vendor" {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".md") {
			return nil
		}
		if s.excluded(filepath.Base(path)) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return fmt.Errorf("walking %s: %w", root, err)
	}

	return s.processBatch(cleanRoot, files)
}

// ScanFile extracts a single file relative to the given scan root.
func (s *DocumentScanner) ScanFile(root, path string) error {
	return s.scanFileInternal(filepath.Clean(root), path)
}

// processBatch fans file extraction out over the worker pool and waits for
// every file before returning, so resolution never observes a half-scanned
// registry.
func (s *DocumentScanner) processBatch(root string, files []string) error {
	if len(files) == 0 {
		return nil
	}

	// Small batches are cheaper synchronously than through the pool.
	if len(files) <= 5 {
		for _, file := range files {
			if err := s.scanFileInternal(root, file); err != nil {
				s.collector.AddIOError(s.relPath(root, file), err)
			}
		}
		return nil
	}

	resultChan := make(chan ScanResult, len(files))
	for _, file := range files {
		job := ScanJob{root: root, filePath: file, result: resultChan}
		select {
		case s.pool.jobQueue <- job:
		default:
			// Pool saturated; process inline rather than block the submit loop.
			resultChan <- ScanResult{filePath: file, err: s.scanFileInternal(root, file)}
		}
	}

	for i := 0; i < len(files); i++ {
		result := <-resultChan
		if result.err != nil {
			s.collector.AddIOError(s.relPath(root, result.filePath), result.err)
		}
	}
	close(resultChan)
	return nil
}

// scanFileInternal reads, hashes, and extracts one document.
func (s *DocumentScanner) scanFileInternal(root, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file %s: %w", path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("getting file info for %s: %w", path, err)
	}

	doc := s.extractor.Extract(s.relPath(root, path), content)
	doc.Hash = fmt.Sprintf("%x", crc32.ChecksumIEEE(content))
	doc.LastMod = info.ModTime()

	for _, w := range doc.Warnings {
		s.collector.Add(walkerrors.ScanError{
			Path:     w.Path,
			Line:     w.Line,
			Message:  w.Message,
			Severity: walkerrors.SeverityWarning,
		})
	}

	s.registry.Register(doc)
	return nil
}

// relPath converts an absolute file path to the slash-separated path links
// are resolved against. Paths that escape the root keep their cleaned form.
func (s *DocumentScanner) relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = filepath.Clean(path)
	}
	return filepath.ToSlash(rel)
}

// excluded reports whether a base name matches any configured exclude glob.
func (s *DocumentScanner) excluded(base string) bool {
	for _, pattern := range s.exclude {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}
	return false
}
