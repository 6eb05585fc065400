// Package fs provides file-based record storage.
package fs

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fwojciec/harvest"
)

// Ensure FeedWriter implements harvest.RecordStore at compile time.
var _ harvest.RecordStore = (*FeedWriter)(nil)

// FeedWriter streams records into a JSON array file, one indented object
// per record. Records are written to a temporary file next to the target
// which replaces the target on Close, so an existing feed is reset only
// when the new one is complete. An empty feed is written as [].
type FeedWriter struct {
	mu     sync.Mutex
	path   string
	file   *os.File
	w      *bufio.Writer
	count  int
	closed bool
}

// NewFeedWriter creates the temporary feed file for path, creating parent
// directories as needed.
func NewFeedWriter(path string) (*FeedWriter, error) {
	if path == "" {
		return nil, harvest.Errorf(harvest.EINVALID, "feed path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	f, err := os.Create(tempPath(path))
	if err != nil {
		return nil, err
	}
	fw := &FeedWriter{path: path, file: f, w: bufio.NewWriter(f)}
	if _, err := fw.w.WriteString("["); err != nil {
		_ = f.Close()
		return nil, err
	}
	return fw, nil
}

func tempPath(path string) string {
	return path + ".tmp"
}

// Path returns the final location of the feed.
func (fw *FeedWriter) Path() string {
	return fw.path
}

// Count returns the number of records written so far.
func (fw *FeedWriter) Count() int {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	return fw.count
}

// WriteWebsite appends a website record to the feed.
func (fw *FeedWriter) WriteWebsite(ctx context.Context, rec *harvest.WebsiteRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	return fw.write(rec)
}

// WriteDocument appends a document record to the feed.
func (fw *FeedWriter) WriteDocument(ctx context.Context, rec *harvest.DocumentRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	return fw.write(rec)
}

func (fw *FeedWriter) write(v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.closed {
		return harvest.Errorf(harvest.EINVALID, "feed %s is closed", fw.path)
	}
	sep := ",\n"
	if fw.count == 0 {
		sep = "\n"
	}
	if _, err := fw.w.WriteString(sep); err != nil {
		return err
	}
	if _, err := fw.w.Write(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))); err != nil {
		return err
	}
	fw.count++
	return nil
}

// Close terminates the array, flushes it and moves the feed into place.
func (fw *FeedWriter) Close() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.closed {
		return nil
	}
	fw.closed = true

	tail := "]\n"
	if fw.count > 0 {
		tail = "\n]\n"
	}
	if _, err := fw.w.WriteString(tail); err != nil {
		_ = fw.file.Close()
		return err
	}
	if err := fw.w.Flush(); err != nil {
		_ = fw.file.Close()
		return err
	}
	if err := fw.file.Close(); err != nil {
		return err
	}
	return os.Rename(tempPath(fw.path), fw.path)
}

// Abort discards the feed, leaving any previous file at the target path
// untouched.
func (fw *FeedWriter) Abort() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.closed {
		return nil
	}
	fw.closed = true
	_ = fw.file.Close()
	return os.Remove(tempPath(fw.path))
}
