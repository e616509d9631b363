package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileGateway stores every key as a top-level field of one JSON document on
// disk. Each write rewrites the whole file.
type FileGateway struct {
	path string
	mu   sync.Mutex
}

// NewFileGateway opens the document at path, creating it with empty
// products, orders and messages collections when it does not exist yet.
func NewFileGateway(path string) (*FileGateway, error) {
	g := &FileGateway{path: path}

	exists, err := fileExists(path)
	if err != nil {
		return nil, fmt.Errorf("stat data file: %w", err)
	}
	if !exists {
		initial := map[string]json.RawMessage{
			KeyProducts: json.RawMessage("[]"),
			KeyOrders:   json.RawMessage("[]"),
			KeyMessages: json.RawMessage("[]"),
		}
		if err := g.save(initial); err != nil {
			return nil, fmt.Errorf("initialize data file: %w", err)
		}
	}
	return g, nil
}

// Path returns the document location.
func (g *FileGateway) Path() string {
	return g.path
}

func (g *FileGateway) Read(_ context.Context, key string) ([]byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	doc, err := g.load()
	if err != nil {
		return nil, persistenceErr("read", key, err)
	}
	raw, ok := doc[key]
	if !ok || string(raw) == "null" {
		return nil, ErrKeyNotFound
	}
	return raw, nil
}

func (g *FileGateway) Write(_ context.Context, key string, value []byte) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	doc, err := g.load()
	if err != nil {
		if !errors.Is(err, ErrMalformed) {
			return persistenceErr("write", key, err)
		}
		doc = map[string]json.RawMessage{}
	}
	doc[key] = json.RawMessage(value)

	if err := g.save(doc); err != nil {
		return persistenceErr("write", key, err)
	}
	return nil
}

func (g *FileGateway) load() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(g.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]json.RawMessage{}, nil
		}
		return nil, err
	}
	doc := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return doc, nil
}

func (g *FileGateway) save(doc map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(g.path), filepath.Base(g.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), g.path)
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}
