package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mindengage-flashcards/internal/statements"
)

// GET /statements?session_id=&content_id=&actor=&limit=
func ListStatementsHandler(store statements.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		f := statements.Filter{
			SessionID: q.Get("session_id"),
			ContentID: q.Get("content_id"),
			Actor:     q.Get("actor"),
		}
		if v := q.Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				http.Error(w, "bad limit", http.StatusBadRequest)
				return
			}
			f.Limit = n
		}
		recs, err := store.List(r.Context(), f)
		if err != nil {
			writeErr(w, err)
			return
		}
		if recs == nil {
			recs = []statements.Record{}
		}
		writeJSON(w, http.StatusOK, recs)
	}
}

// GET /statements/{statementID}  returns the stored statement body.
func GetStatementHandler(store statements.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := store.Get(r.Context(), chi.URLParam(r, "statementID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		st, err := rec.Statement()
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

// POST /statements/{statementID}/sync  forwards one statement now.
func SyncStatementHandler(syncer *statements.Syncer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := syncer.SyncStatement(r.Context(), chi.URLParam(r, "statementID")); err != nil {
			writeErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
