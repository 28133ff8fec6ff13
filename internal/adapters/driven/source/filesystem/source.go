// Package filesystem provides a document source reading OCR output
// directories from the local disk.
//
// The expected layout is one directory per filing under the root, named
// after the filing number (an optional ".pdf" suffix is tolerated and
// stripped). Each directory holds an output.json with the extracted text
// elements and, optionally, a metadata.json blob produced by the upstream
// extraction pipeline. The metadata blob is frequently truncated or
// malformed, so it goes through repair before parsing; an unrecoverable
// blob yields a document without metadata rather than an error.
package filesystem

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/lexrag-cli/internal/core/domain"
	"github.com/custodia-labs/lexrag-cli/internal/core/ports/driven"
	"github.com/custodia-labs/lexrag-cli/internal/logger"
	"github.com/custodia-labs/lexrag-cli/internal/metadata"
)

// Ensure Source implements the interface.
var _ driven.DocumentSource = (*Source)(nil)

// File names inside each document directory.
const (
	contentFile  = "output.json"
	metadataFile = "metadata.json"
)

// Source reads documents from a directory of OCR output folders.
type Source struct {
	root string
}

// NewSource creates a filesystem document source rooted at dir.
func NewSource(dir string) (*Source, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("source directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source directory: %s is not a directory", dir)
	}
	return &Source{root: dir}, nil
}

// List returns the identifiers of every document directory under the root
// that contains an output.json, sorted for stable batch ordering.
func (s *Source) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("read source directory: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(s.root, entry.Name(), contentFile)); err != nil {
			logger.Debug("Skipping %s: no %s", entry.Name(), contentFile)
			continue
		}
		ids = append(ids, documentID(entry.Name()))
	}
	sort.Strings(ids)
	return ids, nil
}

// Load reads one document's text elements and metadata blob.
func (s *Source) Load(ctx context.Context, id string) (domain.Document, error) {
	dir, err := s.documentDir(id)
	if err != nil {
		return domain.Document{}, err
	}

	contentPath := filepath.Join(dir, contentFile)
	text, err := readText(contentPath)
	if err != nil {
		return domain.Document{}, fmt.Errorf("load document %s: %w", id, err)
	}

	doc := domain.Document{
		ID:       id,
		Path:     contentPath,
		Text:     text,
		Metadata: domain.MetaValue{Kind: domain.MetaAbsent},
	}

	blob, err := os.ReadFile(filepath.Join(dir, metadataFile))
	if err == nil {
		meta, perr := metadata.RepairAndParse(string(blob))
		if perr != nil {
			logger.Warn("Metadata for %s unparseable, indexing without it: %v", id, perr)
		} else {
			doc.Metadata = meta
		}
	} else if !os.IsNotExist(err) {
		logger.Warn("Metadata for %s unreadable, indexing without it: %v", id, err)
	}

	return doc, nil
}

// Watch emits document identifiers as their output.json files appear or
// change under the root. The channel closes when ctx is cancelled.
func (s *Source) Watch(ctx context.Context) (<-chan string, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch source directory: %w", err)
	}
	if err := watcher.Add(s.root); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch source directory: %w", err)
	}
	// Document directories already present get watched too so that an
	// output.json landing after the run started is still seen.
	entries, err := os.ReadDir(s.root)
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch source directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			if err := watcher.Add(filepath.Join(s.root, entry.Name())); err != nil {
				logger.Debug("Cannot watch %s: %v", entry.Name(), err)
			}
		}
	}

	ch := make(chan string)
	go func() {
		defer close(ch)
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				s.handleEvent(ctx, watcher, event, ch)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Source watch error: %v", err)
			}
		}
	}()
	return ch, nil
}

func (s *Source) handleEvent(ctx context.Context, watcher *fsnotify.Watcher, event fsnotify.Event, ch chan<- string) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	// New document directory: start watching it for its output.json.
	if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
		if filepath.Dir(event.Name) == s.root {
			if err := watcher.Add(event.Name); err != nil {
				logger.Debug("Cannot watch %s: %v", event.Name, err)
			}
		}
		return
	}
	if filepath.Base(event.Name) != contentFile {
		return
	}
	id := documentID(filepath.Base(filepath.Dir(event.Name)))
	select {
	case ch <- id:
	case <-ctx.Done():
	}
}

// documentDir resolves the on-disk directory for an identifier, accepting
// both bare and ".pdf"-suffixed directory names.
func (s *Source) documentDir(id string) (string, error) {
	for _, name := range []string{id, id + ".pdf"} {
		dir := filepath.Join(s.root, name)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir, nil
		}
	}
	return "", fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
}

// readText parses an output.json and joins its non-empty text elements
// with newlines, preserving the extraction order.
func readText(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	var content struct {
		Texts []struct {
			Text string `json:"text"`
		} `json:"texts"`
	}
	if err := json.Unmarshal(raw, &content); err != nil {
		return "", fmt.Errorf("parse %s: %w", contentFile, err)
	}

	var parts []string
	for _, element := range content.Texts {
		if element.Text != "" {
			parts = append(parts, element.Text)
		}
	}
	return strings.Join(parts, "\n"), nil
}

func documentID(dirName string) string {
	return strings.TrimSuffix(dirName, ".pdf")
}
