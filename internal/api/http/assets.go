package http

import (
	"io"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mindengage-flashcards/internal/content"
	"github.com/mind-engage/mindengage-flashcards/internal/storage"
)

// POST /assets/content/{contentID}  multipart: file, optional name
func UploadAssetHandler(store *content.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "contentID")
		f, hdr, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file required", http.StatusBadRequest)
			return
		}
		defer f.Close()

		name := r.FormValue("name")
		if name == "" {
			name = path.Join("images", path.Base(hdr.Filename))
		}
		key, err := store.PutAsset(id, name, f)
		if err != nil {
			writeErr(w, err)
			return
		}
		// path is what a card's image field should reference.
		writeJSON(w, http.StatusCreated, map[string]string{"key": key, "path": name})
	}
}

// GET /assets/*  returns the blob at whatever follows /assets/
func ServeAssetHandler(bs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
		if path.Base(key) == "content.json" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		rc, err := bs.Get(key)
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		defer rc.Close()
		ct := mime.TypeByExtension(path.Ext(key))
		if ct == "" {
			ct = "application/octet-stream"
		}
		w.Header().Set("Content-Type", ct)
		w.Header().Set("Cache-Control", "public, max-age=3600")
		_, _ = io.Copy(w, rc)
	}
}
