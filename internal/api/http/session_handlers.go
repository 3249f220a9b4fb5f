package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	authmw "github.com/mind-engage/mindengage-flashcards/internal/auth/middleware"
	"github.com/mind-engage/mindengage-flashcards/internal/flashcards"
	"github.com/mind-engage/mindengage-flashcards/internal/rbac"
	"github.com/mind-engage/mindengage-flashcards/internal/session"
	"github.com/mind-engage/mindengage-flashcards/pkg/xapi"
)

// sessionResponse is returned by every session route that renders.
type sessionResponse struct {
	ID            string                   `json:"id"`
	ContentID     string                   `json:"content_id"`
	View          flashcards.View          `json:"view"`
	Announcements []string                 `json:"announcements"`
	Moved         *bool                    `json:"moved,omitempty"`
	Submit        *flashcards.SubmitResult `json:"submit,omitempty"`
	Results       *flashcards.Results      `json:"results,omitempty"`
}

func render(s *session.Session) sessionResponse {
	ann := s.Drain()
	if ann == nil {
		ann = []string{}
	}
	return sessionResponse{ID: s.ID, ContentID: s.ContentID, View: s.Quiz.View(), Announcements: ann}
}

// loadSession fetches the session in the URL and checks the caller owns it
// or may view any session.
func loadSession(w http.ResponseWriter, r *http.Request, mgr *session.Manager) (*session.Session, bool) {
	s, err := mgr.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeErr(w, err)
		return nil, false
	}
	if s.Subject != authmw.SubjectFromContext(r.Context()) && !rbac.Can(r.Context(), rbac.PermSessionAny) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return nil, false
	}
	return s, true
}

// POST /sessions  { "content_id": "..." }
func CreateSessionHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ContentID string `json:"content_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.ContentID == "" {
			http.Error(w, "content_id required", http.StatusBadRequest)
			return
		}
		ctx := r.Context()
		s, err := mgr.Create(req.ContentID, authmw.SubjectFromContext(ctx), authmw.NameFromContext(ctx))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, render(s))
	}
}

// GET /sessions/{sessionID}
func GetSessionHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := loadSession(w, r, mgr)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, render(s))
	}
}

// POST /sessions/{sessionID}/next|previous|first|last
func MoveHandler(mgr *session.Manager, step func(*flashcards.Quiz) bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := loadSession(w, r, mgr)
		if !ok {
			return
		}
		moved := step(s.Quiz)
		resp := render(s)
		resp.Moved = &moved
		writeJSON(w, http.StatusOK, resp)
	}
}

// POST /sessions/{sessionID}/jump  { "index": 2 }
func JumpHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := loadSession(w, r, mgr)
		if !ok {
			return
		}
		var req struct {
			Index *int `json:"index"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Index == nil {
			http.Error(w, "index required", http.StatusBadRequest)
			return
		}
		moved := s.Quiz.JumpTo(*req.Index)
		resp := render(s)
		resp.Moved = &moved
		writeJSON(w, http.StatusOK, resp)
	}
}

// POST /sessions/{sessionID}/answers  { "index": 0, "answer": "Chat" }
// The index defaults to the current card.
func SubmitAnswerHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := loadSession(w, r, mgr)
		if !ok {
			return
		}
		var req struct {
			Index  *int   `json:"index"`
			Answer string `json:"answer"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		idx := s.Quiz.View().Current
		if req.Index != nil {
			idx = *req.Index
		}
		res := s.Quiz.Submit(idx, strings.TrimSpace(req.Answer))
		resp := render(s)
		resp.Submit = &res
		writeJSON(w, http.StatusOK, resp)
	}
}

// POST /sessions/{sessionID}/results
func ShowResultsHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := loadSession(w, r, mgr)
		if !ok {
			return
		}
		res, shown := s.Quiz.ShowResults()
		if !shown {
			http.Error(w, "results not available", http.StatusConflict)
			return
		}
		resp := render(s)
		resp.Results = &res
		writeJSON(w, http.StatusOK, resp)
	}
}

// POST /sessions/{sessionID}/retry
func RetryHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := loadSession(w, r, mgr)
		if !ok {
			return
		}
		retried, err := mgr.Retry(s.ID)
		if err != nil {
			writeErr(w, err)
			return
		}
		if !retried {
			http.Error(w, "retry not available", http.StatusConflict)
			return
		}
		writeJSON(w, http.StatusOK, render(s))
	}
}

// POST /sessions/{sessionID}/reset
func ResetHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := loadSession(w, r, mgr)
		if !ok {
			return
		}
		s.Quiz.ResetTask()
		writeJSON(w, http.StatusOK, render(s))
	}
}

// POST /sessions/{sessionID}/layout
func LayoutHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := loadSession(w, r, mgr)
		if !ok {
			return
		}
		s.Quiz.LayoutChanged()
		w.WriteHeader(http.StatusNoContent)
	}
}

// GET /sessions/{sessionID}/score
func ScoreHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := loadSession(w, r, mgr)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{
			"score":     s.Quiz.GetScore(),
			"max_score": s.Quiz.GetMaxScore(),
		})
	}
}

// GET /sessions/{sessionID}/xapi
func XAPIHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := loadSession(w, r, mgr)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, xapi.Data{Statement: mgr.Statement(s, xapi.VerbAnswered)})
	}
}

// DELETE /sessions/{sessionID}
func DeleteSessionHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := loadSession(w, r, mgr)
		if !ok {
			return
		}
		if err := mgr.Delete(s.ID); err != nil {
			writeErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
