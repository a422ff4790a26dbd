package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/robot-exposure/internal/model"
	"github.com/sells-group/robot-exposure/internal/present"
	"github.com/sells-group/robot-exposure/internal/resolver"
)

const defaultSearchLimit = 50

type resolveResponse struct {
	resolver.Resolution
	Statements []present.Statement `json:"statements"`
}

type application struct {
	Class int    `json:"ifr_class"`
	Label string `json:"application_area"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"professions": len(s.res.Professions()),
	})
}

func (s *Server) handleProfessions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusOK, s.res.Professions())
		return
	}

	limit := defaultSearchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	writeJSON(w, http.StatusOK, s.res.Search(q, limit))
}

func (s *Server) handleApplications(w http.ResponseWriter, _ *http.Request) {
	apps := s.res.Applications()
	out := make([]application, 0, len(apps))
	for _, a := range apps {
		out = append(out, application{Class: a.Class, Label: a.ApplicationArea})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	res, err := s.res.Resolve(selectionFrom(r))
	if err != nil {
		s.writeResolveError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resolveResponse{Resolution: res, Statements: present.Statements(res)})
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	res, err := s.res.Resolve(resolver.Selection{Application: queryOptional(r, "application")})
	if err != nil {
		s.writeResolveError(w, r, err)
		return
	}
	chart := present.BuildChart(s.res.Reference().Installations, s.res.Labels(), res.ChartClass)
	writeJSON(w, http.StatusOK, chart.VegaLite())
}

func (s *Server) writeResolveError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case eris.Is(err, resolver.ErrUnknownProfession):
		writeError(w, http.StatusNotFound, "unknown profession")
	case eris.Is(err, resolver.ErrUnknownApplication):
		writeError(w, http.StatusBadRequest, "unknown application")
	default:
		zap.L().Error("server: resolve failed",
			zap.String("request_id", RequestIDFrom(r.Context())),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func selectionFrom(r *http.Request) resolver.Selection {
	return resolver.Selection{
		Profession:  queryOptional(r, "profession"),
		Application: queryOptional(r, "application"),
	}
}

// queryOptional maps a missing or empty query parameter to an absent value.
func queryOptional(r *http.Request, key string) model.Optional[string] {
	if v := r.URL.Query().Get(key); v != "" {
		return model.Some(v)
	}
	return model.None[string]()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Debug("server: write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
