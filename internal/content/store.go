package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/mind-engage/mindengage-flashcards/internal/flashcards"
	"github.com/mind-engage/mindengage-flashcards/internal/storage"
)

var validID = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,127}$`)

// Summary is the listing view of a deck.
type Summary struct {
	ID          string `json:"id"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Cards       int    `json:"cards"`
}

// Store keeps decks as JSON documents in a blob store under
// content/{id}/content.json, with assets beside them. Parsed decks are
// cached.
type Store struct {
	blobs storage.BlobStore

	mu    sync.RWMutex
	cache map[string]flashcards.Content
}

func NewStore(bs storage.BlobStore) *Store {
	return &Store{blobs: bs, cache: map[string]flashcards.Content{}}
}

func ValidID(id string) bool { return validID.MatchString(id) }

func contentKey(id string) string { return path.Join("content", id, "content.json") }

// AssetKey is where an asset of deck id is stored.
func AssetKey(id, name string) string {
	return path.Join("content", id, path.Clean("/" + name)[1:])
}

// Put validates and stores c under id, replacing any previous version.
func (s *Store) Put(id string, c flashcards.Content) error {
	if !ValidID(id) {
		return fmt.Errorf("%w: bad id %q", ErrInvalidContent, id)
	}
	if err := Validate(c); err != nil {
		return err
	}
	body, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	if _, err := s.blobs.Put(contentKey(id), bytes.NewReader(body)); err != nil {
		return fmt.Errorf("store content %s: %w", id, err)
	}
	if idx := c.AnswerlessCards(); len(idx) > 0 {
		log.Printf("content %s: cards %v have no answer; blank input will be scored correct", id, idx)
	}
	s.mu.Lock()
	s.cache[id] = c
	s.mu.Unlock()
	return nil
}

func (s *Store) Get(id string) (flashcards.Content, error) {
	if !ValidID(id) {
		return flashcards.Content{}, ErrNotFound
	}
	s.mu.RLock()
	c, ok := s.cache[id]
	s.mu.RUnlock()
	if ok {
		return c, nil
	}

	rc, err := s.blobs.Get(contentKey(id))
	if errors.Is(err, storage.ErrNotFound) {
		return flashcards.Content{}, ErrNotFound
	}
	if err != nil {
		return flashcards.Content{}, err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return flashcards.Content{}, err
	}
	c, err = Parse(data, FormatJSON)
	if err != nil {
		return flashcards.Content{}, fmt.Errorf("content %s: %w", id, err)
	}
	s.mu.Lock()
	s.cache[id] = c
	s.mu.Unlock()
	return c, nil
}

func (s *Store) List() ([]Summary, error) {
	keys, err := s.blobs.List("content")
	if err != nil {
		return nil, err
	}
	var out []Summary
	for _, k := range keys {
		parts := strings.Split(k, "/")
		if len(parts) != 3 || parts[2] != "content.json" {
			continue
		}
		c, err := s.Get(parts[1])
		if err != nil {
			log.Printf("content list: skip %s: %v", parts[1], err)
			continue
		}
		out = append(out, Summary{ID: parts[1], Title: c.Title, Description: c.Description, Cards: len(c.Cards)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Location is where deck id is stored, for operators.
func (s *Store) Location(id string) (string, error) {
	return s.blobs.SignedURL(contentKey(id))
}

// Delete removes deck id with all of its assets.
func (s *Store) Delete(id string) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	keys, err := s.blobs.List(path.Join("content", id))
	if err != nil {
		return err
	}
	for _, k := range keys {
		if err := s.blobs.Delete(k); err != nil {
			return fmt.Errorf("delete %s: %w", k, err)
		}
	}
	s.mu.Lock()
	delete(s.cache, id)
	s.mu.Unlock()
	return nil
}

// PutAsset stores an uploaded file for deck id and returns its key.
func (s *Store) PutAsset(id, name string, r io.Reader) (string, error) {
	if !ValidID(id) {
		return "", fmt.Errorf("%w: bad id %q", ErrInvalidContent, id)
	}
	if strings.Trim(name, "/") == "" || name == "content.json" {
		return "", fmt.Errorf("%w: bad asset name %q", ErrInvalidContent, name)
	}
	return s.blobs.Put(AssetKey(id, name), r)
}
