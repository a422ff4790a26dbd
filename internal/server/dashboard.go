package server

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/robot-exposure/internal/present"
	"github.com/sells-group/robot-exposure/internal/resolver"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

var dashboardTmpl = template.Must(template.ParseFS(templateFS, "templates/dashboard.html"))

type dashboardOption struct {
	Value    string
	Selected bool
}

type dashboardData struct {
	Professions  []dashboardOption
	Applications []dashboardOption
	Statements   []present.Statement
	Chart        map[string]any
	Error        string
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	sel := selectionFrom(r)
	status := http.StatusOK
	data := dashboardData{}

	res, err := s.res.Resolve(sel)
	switch {
	case err == nil:
	case eris.Is(err, resolver.ErrUnknownProfession):
		status = http.StatusNotFound
		data.Error = "Professione sconosciuta."
		res, err = s.res.Resolve(resolver.Selection{Application: sel.Application})
	case eris.Is(err, resolver.ErrUnknownApplication):
		status = http.StatusBadRequest
		data.Error = "Applicazione sconosciuta."
		res, err = s.res.Resolve(resolver.Selection{Profession: sel.Profession})
	}
	if err != nil {
		s.writeResolveError(w, r, err)
		return
	}

	current, _ := res.Profession.Get()
	for _, p := range s.res.Professions() {
		data.Professions = append(data.Professions, dashboardOption{Value: p, Selected: p == current})
	}
	chartApp, _ := res.ChartApplication.Get()
	for _, a := range s.res.Applications() {
		data.Applications = append(data.Applications, dashboardOption{
			Value:    a.ApplicationArea,
			Selected: a.ApplicationArea == chartApp,
		})
	}
	data.Statements = present.Statements(res)
	data.Chart = present.BuildChart(s.res.Reference().Installations, s.res.Labels(), res.ChartClass).VegaLite()

	var buf bytes.Buffer
	if err := dashboardTmpl.Execute(&buf, data); err != nil {
		zap.L().Error("server: render dashboard",
			zap.String("request_id", RequestIDFrom(r.Context())),
			zap.Error(err),
		)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
