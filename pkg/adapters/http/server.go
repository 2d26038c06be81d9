package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aretw0/jsonview"
	"github.com/aretw0/jsonview/internal/logging"
	"github.com/aretw0/jsonview/pkg/actions"
	"github.com/aretw0/jsonview/pkg/domain"
	"github.com/aretw0/jsonview/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// Server exposes one question over HTTP. Every request rebuilds a Player from
// the stored session, applies the operation and saves the result, all under
// the session lock, so replicas can share a store.
type Server struct {
	Question  *domain.Question
	NewPlayer func() *jsonview.Player
	Sessions  *session.Manager
	Logger    *slog.Logger
	Version   string
	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
}

// NewHandler creates the HTTP handler for the server.
func NewHandler(s *Server) http.Handler {
	if s.Logger == nil {
		s.Logger = logging.NewNop()
	}
	if s.NewPlayer == nil {
		s.NewPlayer = func() *jsonview.Player { return jsonview.New() }
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/health", s.health)
	r.Get("/info", s.info)
	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics)
	}

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.listSessions)
		r.Post("/", s.createSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getSession)
			r.Delete("/", s.deleteSession)
			r.Post("/invoke", s.invoke)
			r.Post("/dispatch", s.dispatch)
			r.Post("/reset", s.reset)
		})
	})
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CreateRequest is the optional body of POST /sessions.
type CreateRequest struct {
	ID string `json:"id,omitempty"`
}

// InvokeRequest is the body of POST /sessions/{id}/invoke.
type InvokeRequest struct {
	Scope string `json:"scope,omitempty"`
	Name  string `json:"name"`
}

// DispatchRequest is the body of POST /sessions/{id}/dispatch.
type DispatchRequest struct {
	Scope string `json:"scope"`
	Event string `json:"event"`
}

// Resolution reports how a name was resolved.
type Resolution struct {
	Name     string `json:"name"`
	Strategy string `json:"strategy"`
	Scope    string `json:"scope,omitempty"`
}

// SessionResponse is returned by every session operation.
type SessionResponse struct {
	Session    *domain.Session `json:"session"`
	Resolution *Resolution     `json:"resolution,omitempty"`
	Handled    *bool           `json:"handled,omitempty"`
	Events     []string        `json:"events,omitempty"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":      "jsonview-http",
		"version":  s.Version,
		"question": s.Question.ID,
	})
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.fail(w, "list sessions", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, ids)
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var body CreateRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	}
	if body.ID == "" {
		body.ID = uuid.NewString()
	}

	sess, err := s.Sessions.LoadOrCreate(r.Context(), body.ID, func(ctx context.Context) (*domain.Session, error) {
		p, err := s.player(ctx)
		if err != nil {
			return nil, err
		}
		defer p.Close()
		return p.Snapshot(body.ID)
	})
	if err != nil {
		s.fail(w, "create session", err)
		return
	}
	writeJSON(w, http.StatusCreated, SessionResponse{Session: sess})
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.Sessions.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, "load session", err)
		return
	}
	writeJSON(w, http.StatusOK, SessionResponse{Session: sess})
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, "delete session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) invoke(w http.ResponseWriter, r *http.Request) {
	var body InvokeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name == "" {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if body.Scope == "" {
		body.Scope = domain.RootScopeID
	}

	var resp SessionResponse
	s.apply(w, r, "invoke", &resp, func(ctx context.Context, p *jsonview.Player) error {
		res, err := p.Invoke(ctx, body.Scope, body.Name)
		if err != nil {
			return err
		}
		resp.Resolution = toResolution(res)
		return nil
	})
}

func (s *Server) dispatch(w http.ResponseWriter, r *http.Request) {
	var body DispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Scope == "" || body.Event == "" {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var resp SessionResponse
	s.apply(w, r, "dispatch", &resp, func(ctx context.Context, p *jsonview.Player) error {
		res, ok, err := p.Dispatch(ctx, body.Scope, body.Event)
		if err != nil {
			return err
		}
		resp.Handled = &ok
		if ok {
			resp.Resolution = toResolution(res)
		}
		return nil
	})
}

func (s *Server) reset(w http.ResponseWriter, r *http.Request) {
	var resp SessionResponse
	s.apply(w, r, "reset", &resp, func(ctx context.Context, p *jsonview.Player) error {
		return p.Reset()
	})
}

// apply runs op on a player restored from the session and stores the result.
func (s *Server) apply(w http.ResponseWriter, r *http.Request, op string, resp *SessionResponse, fn func(context.Context, *jsonview.Player) error) {
	id := chi.URLParam(r, "id")
	sess, err := s.Sessions.Update(r.Context(), id, func(ctx context.Context, sess *domain.Session) error {
		p, err := s.player(ctx)
		if err != nil {
			return err
		}
		defer p.Close()
		if err := p.Restore(sess); err != nil {
			return err
		}

		unsub := p.Subscribe(actions.AnyEvent, func(ctx context.Context, ev actions.Event) {
			resp.Events = append(resp.Events, ev.Name)
		})
		defer unsub()

		if err := fn(ctx, p); err != nil {
			return err
		}

		next, err := p.Snapshot(id)
		if err != nil {
			return err
		}
		sess.Scopes = next.Scopes
		return nil
	})
	if err != nil {
		s.fail(w, op, err)
		return
	}
	resp.Session = sess
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) player(ctx context.Context) (*jsonview.Player, error) {
	p := s.NewPlayer()
	if err := p.LoadQuestion(ctx, s.Question); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrScopeNotFound):
		status = http.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		s.Logger.Error("request failed", "op", op, "err", err)
	} else {
		s.Logger.Debug("request failed", "op", op, "err", err)
	}
	http.Error(w, err.Error(), status)
}

func toResolution(res domain.Resolution) *Resolution {
	out := &Resolution{Name: res.Name, Strategy: string(res.Strategy)}
	if res.Scope != nil {
		out.Scope = res.Scope.ID
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "err", err)
	}
}
