package http

import (
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mindengage-flashcards/internal/content"
)

const maxContentBytes = 8 << 20

// PUT /content/{contentID}  body: deck as JSON or YAML (by Content-Type)
func PutContentHandler(store *content.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "contentID")
		data, err := io.ReadAll(io.LimitReader(r.Body, maxContentBytes))
		if err != nil {
			http.Error(w, "read body", http.StatusBadRequest)
			return
		}
		c, err := content.Parse(data, content.FormatFor(r.Header.Get("Content-Type")))
		if err != nil {
			writeErr(w, err)
			return
		}
		if err := store.Put(id, c); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, content.Summary{ID: id, Title: c.Title, Description: c.Description, Cards: len(c.Cards)})
	}
}

// POST /content/{contentID}/import  multipart: file (.xlsx|.csv), title,
// description, case_sensitive. Cards replace those of an existing deck.
func ImportContentHandler(store *content.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "contentID")
		if err := r.ParseMultipartForm(maxContentBytes); err != nil {
			http.Error(w, "multipart form required", http.StatusBadRequest)
			return
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file required", http.StatusBadRequest)
			return
		}
		defer f.Close()

		cfg := content.DefaultImportConfig()
		if v := r.FormValue("sheet"); v != "" {
			cfg.SheetName = v
		}
		if v := r.FormValue("skip_header"); v != "" {
			cfg.SkipHeader, _ = strconv.ParseBool(v)
		}
		res, err := content.ImportCards(hdr.Filename, f, cfg)
		if err != nil {
			writeErr(w, err)
			return
		}

		c, err := store.Get(id)
		if err != nil {
			c.Title = id
		}
		c.Cards = res.Cards
		if v := r.FormValue("title"); v != "" {
			c.Title = v
		}
		if v := r.FormValue("description"); v != "" {
			c.Description = v
		}
		if v := r.FormValue("case_sensitive"); v != "" {
			c.CaseSensitive, _ = strconv.ParseBool(v)
		}
		if err := store.Put(id, c); err != nil {
			writeErr(w, err)
			return
		}
		log.Printf("content: imported %d card(s) into %s from %s", len(res.Cards), id, hdr.Filename)
		writeJSON(w, http.StatusOK, struct {
			ID string `json:"id"`
			*content.ImportResult
		}{id, res})
	}
}

// GET /content
func ListContentHandler(store *content.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.List()
		if err != nil {
			writeErr(w, err)
			return
		}
		if list == nil {
			list = []content.Summary{}
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// GET /content/{contentID}
func GetContentHandler(store *content.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := store.Get(chi.URLParam(r, "contentID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

// DELETE /content/{contentID}  removes the deck; running sessions keep
// their copy.
func DeleteContentHandler(store *content.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.Delete(chi.URLParam(r, "contentID")); err != nil {
			writeErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
