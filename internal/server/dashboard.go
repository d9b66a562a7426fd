package server

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/UnknownOlympus/athena/internal/lib/logger/sl"
	"github.com/UnknownOlympus/athena/internal/models"
	"github.com/UnknownOlympus/athena/internal/repository"
	"github.com/UnknownOlympus/athena/internal/services/dashboard"
	"github.com/go-playground/form"
	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
)

const (
	maxUploadSize = 10 << 20
	recentActions = 10
)

//go:embed templates/dashboard.html
var templatesFS embed.FS

// DashboardServer serves the employee admin page.
type DashboardServer struct {
	log      *slog.Logger
	sessions *SessionStore
	actions  repository.ActionRepoIface
	decoder  *form.Decoder
	tmpl     *template.Template
	csrfKey  []byte
	secure   bool
}

type pageData struct {
	View      dashboard.View
	Actions   []models.Action
	CSRFField template.HTML
	PrevURL   string
	NextURL   string
}

func (p pageData) ModalOpen() bool { return p.View.Modal != dashboard.ModalClosed }

func (p pageData) Editing() bool { return p.View.Modal == dashboard.ModalEdit }

// NewDashboardServer creates the web layer. actions may be nil, in which case
// no recent activity is shown.
func NewDashboardServer(
	log *slog.Logger,
	sessions *SessionStore,
	actions repository.ActionRepoIface,
	csrfKey []byte,
	secure bool,
) *DashboardServer {
	funcs := template.FuncMap{
		"inc": func(i int) int { return i + 1 },
	}

	return &DashboardServer{
		log:      log.With(slog.String("component", "web")),
		sessions: sessions,
		actions:  actions,
		decoder:  form.NewDecoder(),
		tmpl:     template.Must(template.New("dashboard.html").Funcs(funcs).ParseFS(templatesFS, "templates/dashboard.html")),
		csrfKey:  csrfKey,
		secure:   secure,
	}
}

// Router returns the dashboard routes without CSRF protection.
func (s *DashboardServer) Router() *mux.Router {
	router := mux.NewRouter()
	router.Use(requestLogger(s.log))

	router.Handle("/", http.RedirectHandler("/dashboard", http.StatusFound)).Methods(http.MethodGet)
	router.HandleFunc("/dashboard", s.showDashboard).Methods(http.MethodGet)
	router.HandleFunc("/dashboard/employees/new", s.openCreate).Methods(http.MethodPost)
	router.HandleFunc("/dashboard/employees/save", s.saveEmployee).Methods(http.MethodPost)
	router.HandleFunc("/dashboard/employees/{id}/edit", s.beginEdit).Methods(http.MethodPost)
	router.HandleFunc("/dashboard/employees/{id}/delete", s.deleteEmployee).Methods(http.MethodPost)
	router.HandleFunc("/dashboard/modal/cancel", s.cancelModal).Methods(http.MethodPost)

	return router
}

// Handler returns the CSRF-protected dashboard.
func (s *DashboardServer) Handler() http.Handler {
	protect := csrf.Protect(
		s.csrfKey,
		csrf.Secure(s.secure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
	)
	handler := protect(s.Router())

	if s.secure {
		return handler
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}

// Start serves the dashboard on address until ctx is done.
func (s *DashboardServer) Start(ctx context.Context, address string) error {
	srv := &http.Server{
		Addr:              address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	return serve(ctx, s.log, srv, "dashboard")
}

// dashboard returns the live session dashboard. Without one the browser is sent
// back to the page, which starts a new session.
func (s *DashboardServer) dashboard(w http.ResponseWriter, r *http.Request) (*dashboard.Dashboard, bool) {
	dash, ok := s.sessions.Lookup(r)
	if !ok {
		s.log.WarnContext(r.Context(), "No dashboard session for request", "path", r.URL.Path)
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	}

	return dash, ok
}

func (s *DashboardServer) showDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	dash, _ := s.sessions.Get(w, r)

	current := dash.Snapshot()
	page, search := current.Page, current.Search
	query := r.URL.Query()
	if query.Has("page") {
		if parsed, err := strconv.Atoi(query.Get("page")); err == nil {
			page = parsed
		}
	}
	if query.Has("search") {
		search = strings.TrimSpace(query.Get("search"))
	}

	if !dash.Loaded() && max(page, 1) == current.Page && search == current.Search {
		_ = dash.Refresh(ctx)
	} else {
		_ = dash.Navigate(ctx, page, search)
	}

	view := dash.Snapshot()
	data := pageData{
		View:      view,
		CSRFField: csrf.TemplateField(r),
		NextURL:   dashboardURL(view.Page+1, view.Search),
	}
	if view.Page > 1 {
		data.PrevURL = dashboardURL(view.Page-1, view.Search)
	}
	if view.Total == 0 {
		data.NextURL = ""
	}

	if s.actions != nil {
		actions, err := s.actions.RecentActions(ctx, recentActions)
		if err != nil {
			s.log.WarnContext(ctx, "Failed to load recent actions", sl.Err(err))
		}
		data.Actions = actions
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.Execute(w, data); err != nil {
		s.log.ErrorContext(ctx, "Failed to render dashboard", sl.Err(err))
	}
}

func (s *DashboardServer) openCreate(w http.ResponseWriter, r *http.Request) {
	dash, ok := s.dashboard(w, r)
	if !ok {
		return
	}
	dash.OpenCreate()
	s.redirect(w, r, dash)
}

func (s *DashboardServer) beginEdit(w http.ResponseWriter, r *http.Request) {
	dash, ok := s.dashboard(w, r)
	if !ok {
		return
	}
	identifier := models.ID(mux.Vars(r)["id"])

	if err := dash.BeginEdit(identifier); err != nil {
		s.log.WarnContext(r.Context(), "Cannot edit employee", "id", identifier.String(), sl.Err(err))
	}
	s.redirect(w, r, dash)
}

func (s *DashboardServer) saveEmployee(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	dash, ok := s.dashboard(w, r)
	if !ok {
		return
	}

	employeeForm, err := s.parseEmployeeForm(r)
	if err != nil {
		s.log.WarnContext(ctx, "Invalid employee form", sl.Err(err))
		s.redirect(w, r, dash)
		return
	}

	// refusals and API failures are logged by the dashboard and never rendered
	_ = dash.Submit(ctx, models.ID(r.PostForm.Get("id")), employeeForm)
	s.redirect(w, r, dash)
}

func (s *DashboardServer) deleteEmployee(w http.ResponseWriter, r *http.Request) {
	dash, ok := s.dashboard(w, r)
	if !ok {
		return
	}
	_ = dash.Delete(r.Context(), models.ID(mux.Vars(r)["id"]))
	s.redirect(w, r, dash)
}

func (s *DashboardServer) cancelModal(w http.ResponseWriter, r *http.Request) {
	dash, ok := s.dashboard(w, r)
	if !ok {
		return
	}
	dash.Cancel()
	s.redirect(w, r, dash)
}

func (s *DashboardServer) parseEmployeeForm(r *http.Request) (models.EmployeeForm, error) {
	var employeeForm models.EmployeeForm

	if err := r.ParseMultipartForm(maxUploadSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return employeeForm, err
	}
	if err := s.decoder.Decode(&employeeForm, r.PostForm); err != nil {
		return employeeForm, err
	}

	file, header, err := r.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return employeeForm, nil
	case err != nil:
		return employeeForm, err
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return employeeForm, err
	}
	if len(content) > 0 {
		employeeForm.Image = &models.Image{Filename: header.Filename, Content: content}
	}

	return employeeForm, nil
}

func (s *DashboardServer) redirect(w http.ResponseWriter, r *http.Request, dash *dashboard.Dashboard) {
	view := dash.Snapshot()
	http.Redirect(w, r, dashboardURL(view.Page, view.Search), http.StatusSeeOther)
}

func dashboardURL(page int, search string) string {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	if search != "" {
		query.Set("search", search)
	}

	return "/dashboard?" + query.Encode()
}
