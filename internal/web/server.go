package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"journal/internal/modules/journal/domain"
	journaldto "journal/internal/modules/journal/dto"
	scheduledto "journal/internal/modules/schedule/dto"
	apperrors "journal/internal/platform/errors"
	"journal/internal/platform/logging"
)

//go:embed templates/*.html
var templateFS embed.FS

type JournalPort interface {
	Sections() []string
	AddNote(ctx context.Context, date, section, body string) (journaldto.NoteChangeOutput, error)
	EditNote(ctx context.Context, id, body string) (journaldto.NoteChangeOutput, error)
	DeleteNote(ctx context.Context, id string) (journaldto.NoteChangeOutput, error)
	ListNotes(ctx context.Context, section string) (journaldto.NotesViewOutput, error)
	AddResource(ctx context.Context, section, url, desc string) (journaldto.ResourceChangeOutput, error)
	EditResource(ctx context.Context, id, desc string) (journaldto.ResourceChangeOutput, error)
	DeleteResource(ctx context.Context, id string) (journaldto.ResourceChangeOutput, error)
	ListResources(ctx context.Context, section string) (journaldto.ResourcesViewOutput, error)
	Calendar(ctx context.Context) (journaldto.CalendarOutput, error)
}

type SchedulePort interface {
	Schedule(ctx context.Context) (scheduledto.ScheduleOutput, error)
	Today(ctx context.Context) (scheduledto.DueOutput, error)
}

type Options struct {
	CORSOrigins []string
	Today       func() string
}

// Server renders the journal as server-side HTML pages. Edit mode lives in
// the ?edit= query parameter, so each browser tab keeps its own target.
type Server struct {
	journal  JournalPort
	schedule SchedulePort
	logger   *zap.Logger
	opts     Options
	pages    map[string]*template.Template
}

func NewServer(journal JournalPort, schedule SchedulePort, logger *zap.Logger, opts Options) (*Server, error) {
	pages, err := parsePages()
	if err != nil {
		return nil, err
	}
	if opts.Today == nil {
		opts.Today = func() string { return time.Now().Format(domain.DateLayout) }
	}
	return &Server{journal: journal, schedule: schedule, logger: logging.OrNop(logger), opts: opts, pages: pages}, nil
}

func parsePages() (map[string]*template.Template, error) {
	base, err := template.ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	pages := map[string]*template.Template{}
	for _, name := range []string{"add_note", "notes", "add_resource", "resources", "calendar", "schedule"} {
		clone, err := base.Clone()
		if err != nil {
			return nil, err
		}
		page, err := clone.ParseFS(templateFS, "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s page: %w", name, err)
		}
		pages[name] = page
	}
	return pages, nil
}

// Handler builds the router wrapped in request logging and CORS.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.Use(s.logRequests)

	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/notes/new", http.StatusFound)
	}).Methods("GET")

	router.HandleFunc("/notes/new", s.addNotePage).Methods("GET")
	router.HandleFunc("/notes", s.notesPage).Methods("GET")
	router.HandleFunc("/notes", s.createNote).Methods("POST")
	router.HandleFunc("/notes/{id}", s.updateNote).Methods("POST")
	router.HandleFunc("/notes/{id}/delete", s.deleteNote).Methods("POST")

	router.HandleFunc("/resources/new", s.addResourcePage).Methods("GET")
	router.HandleFunc("/resources", s.resourcesPage).Methods("GET")
	router.HandleFunc("/resources", s.createResource).Methods("POST")
	router.HandleFunc("/resources/{id}", s.updateResource).Methods("POST")
	router.HandleFunc("/resources/{id}/delete", s.deleteResource).Methods("POST")

	router.HandleFunc("/calendar", s.calendarPage).Methods("GET")
	router.HandleFunc("/schedule", s.schedulePage).Methods("GET")

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	}).Methods("GET")

	// rs/cors treats an empty origin list as "*"; without configured
	// origins the pages stay same-origin.
	if len(s.opts.CORSOrigins) == 0 {
		return router
	}
	c := cors.New(cors.Options{
		AllowedOrigins: s.opts.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		MaxAge:         86400,
	})
	return c.Handler(router)
}

// ListenAndServe blocks until ctx is cancelled or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("web server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown web server: %w", err)
		}
		s.logger.Info("web server stopped")
		return nil
	}
}

// ─── pages ───────────────────────────────────────────────────────────────────

type pageData struct {
	Title    string
	Page     string
	Flash    string
	Warnings []string
	Data     any
}

type formPage struct {
	Sections []string
	Today    string
}

type notesPage struct {
	Sections []string
	Section  string
	View     journaldto.NotesViewOutput
	Edit     domain.EditState
}

type resourcesPage struct {
	Sections []string
	Section  string
	View     journaldto.ResourcesViewOutput
	Edit     domain.EditState
}

type schedulePage struct {
	Schedule scheduledto.ScheduleOutput
	Due      scheduledto.DueOutput
}

func (s *Server) addNotePage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "add_note", pageData{
		Title: "Add Notes",
		Page:  "add-notes",
		Data:  formPage{Sections: s.journal.Sections(), Today: s.opts.Today()},
	})
}

func (s *Server) notesPage(w http.ResponseWriter, r *http.Request) {
	section := r.URL.Query().Get("section")
	view, err := s.journal.ListNotes(r.Context(), section)
	if err != nil {
		s.fail(w, err)
		return
	}
	var edit domain.EditState
	if id := r.URL.Query().Get("edit"); id != "" {
		edit.Open(domain.KindNote, id)
	}
	s.render(w, r, "notes", pageData{
		Title:    "Show Notes",
		Page:     "notes",
		Warnings: view.Warnings,
		Data:     notesPage{Sections: allSections(s.journal.Sections()), Section: section, View: view, Edit: edit},
	})
}

func (s *Server) addResourcePage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "add_resource", pageData{
		Title: "Add Resources",
		Page:  "add-resources",
		Data:  formPage{Sections: s.journal.Sections(), Today: s.opts.Today()},
	})
}

func (s *Server) resourcesPage(w http.ResponseWriter, r *http.Request) {
	section := r.URL.Query().Get("section")
	view, err := s.journal.ListResources(r.Context(), section)
	if err != nil {
		s.fail(w, err)
		return
	}
	var edit domain.EditState
	if id := r.URL.Query().Get("edit"); id != "" {
		edit.Open(domain.KindResource, id)
	}
	s.render(w, r, "resources", pageData{
		Title:    "Show Resources",
		Page:     "resources",
		Warnings: view.Warnings,
		Data:     resourcesPage{Sections: allSections(s.journal.Sections()), Section: section, View: view, Edit: edit},
	})
}

func (s *Server) calendarPage(w http.ResponseWriter, r *http.Request) {
	cal, err := s.journal.Calendar(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	s.render(w, r, "calendar", pageData{Title: "Calendar", Page: "calendar", Warnings: cal.Warnings, Data: cal})
}

func (s *Server) schedulePage(w http.ResponseWriter, r *http.Request) {
	sched, err := s.schedule.Schedule(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	due, err := s.schedule.Today(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	s.render(w, r, "schedule", pageData{Title: "Schedule", Page: "schedule", Data: schedulePage{Schedule: sched, Due: due}})
}

// ─── mutations ───────────────────────────────────────────────────────────────
// Every mutation answers with a 303 redirect so a reload never resubmits.

func (s *Server) createNote(w http.ResponseWriter, r *http.Request) {
	out, err := s.journal.AddNote(r.Context(), r.FormValue("date"), r.FormValue("section"), r.FormValue("note"))
	if err != nil {
		s.fail(w, err)
		return
	}
	redirect(w, r, "/notes/new", flash("Note saved!", out.Warning))
}

func (s *Server) updateNote(w http.ResponseWriter, r *http.Request) {
	out, err := s.journal.EditNote(r.Context(), mux.Vars(r)["id"], r.FormValue("note"))
	if err != nil {
		s.fail(w, err)
		return
	}
	redirect(w, r, "/notes", flash(appliedText(out.Applied, "Note updated!", "That note no longer exists."), out.Warning))
}

func (s *Server) deleteNote(w http.ResponseWriter, r *http.Request) {
	out, err := s.journal.DeleteNote(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, err)
		return
	}
	redirect(w, r, "/notes", flash(appliedText(out.Applied, "Note deleted!", "That note was already deleted."), out.Warning))
}

func (s *Server) createResource(w http.ResponseWriter, r *http.Request) {
	out, err := s.journal.AddResource(r.Context(), r.FormValue("section"), r.FormValue("url"), r.FormValue("desc"))
	if err != nil {
		s.fail(w, err)
		return
	}
	redirect(w, r, "/resources/new", flash("Resource saved!", out.Warning))
}

func (s *Server) updateResource(w http.ResponseWriter, r *http.Request) {
	out, err := s.journal.EditResource(r.Context(), mux.Vars(r)["id"], r.FormValue("desc"))
	if err != nil {
		s.fail(w, err)
		return
	}
	redirect(w, r, "/resources", flash(appliedText(out.Applied, "Resource updated!", "That resource no longer exists."), out.Warning))
}

func (s *Server) deleteResource(w http.ResponseWriter, r *http.Request) {
	out, err := s.journal.DeleteResource(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, err)
		return
	}
	redirect(w, r, "/resources", flash(appliedText(out.Applied, "Resource deleted!", "That resource was already deleted."), out.Warning))
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data pageData) {
	data.Flash = r.URL.Query().Get("flash")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.pages[name].ExecuteTemplate(w, "layout", data); err != nil {
		s.logger.Error("render page", zap.String("page", name), zap.Error(err))
	}
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperrors.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, apperrors.ErrLocked):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err))
	}
	http.Error(w, err.Error(), status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("took", time.Since(start)),
		)
	})
}

func redirect(w http.ResponseWriter, r *http.Request, path, message string) {
	target := path
	if message != "" {
		target += "?flash=" + url.QueryEscape(message)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func flash(message, warning string) string {
	if warning == "" {
		return message
	}
	return message + " (" + warning + ")"
}

func appliedText(applied bool, yes, no string) string {
	if applied {
		return yes
	}
	return no
}

// allSections adds the legacy backfill section to the filter choices.
func allSections(sections []string) []string {
	return append(append([]string(nil), sections...), string(domain.SectionGeneral))
}
