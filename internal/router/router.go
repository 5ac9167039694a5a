// Package router maps the HTTP surface of the shortener onto the service
// layer: server-rendered pages for managing aliases, the public redirect
// endpoint and the register/login/logout flows.
package router

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/patric-chuzhbe/tinylink/internal/auth"
	"github.com/patric-chuzhbe/tinylink/internal/logger"
	"github.com/patric-chuzhbe/tinylink/internal/models"
	"github.com/patric-chuzhbe/tinylink/internal/user"
)

//go:embed templates/*.html
var templateFiles embed.FS

type shortener interface {
	ShortenURL(ctx context.Context, longURL, ownerID string) (*models.URLRecord, error)

	GetRecordForUser(ctx context.Context, shortID, userID string) (*models.URLRecord, error)

	UpdateRecordForUser(ctx context.Context, shortID, newLongURL, userID string) (*models.URLRecord, error)

	DeleteRecordForUser(ctx context.Context, shortID, userID string) error

	GetUserURLs(ctx context.Context, userID string) ([]models.URLRecord, error)

	ResolveTarget(ctx context.Context, shortID string) (string, error)

	RegisterUser(ctx context.Context, request models.RegisterRequest) (*user.User, error)

	LoginUser(ctx context.Context, request models.LoginRequest) (*user.User, error)

	GetShortURL(shortID string) string
}

type sessionManager interface {
	AuthenticateUser(h http.Handler) http.Handler

	OpenSession(response http.ResponseWriter, userID string) error

	CloseSession(response http.ResponseWriter)
}

// Router holds the handlers of the HTTP surface.
type Router struct {
	service   shortener
	auth      sessionManager
	templates *template.Template
}

type urlListItem struct {
	ShortID  string
	ShortURL string
	LongURL  string
}

type urlsIndexPage struct {
	UserID string
	Urls   []urlListItem
}

type urlDetailsPage struct {
	Record   *models.URLRecord
	ShortURL string
}

// New builds the chi router with logging and session middleware and every
// route of the HTTP surface wired to its handler.
func New(service shortener, sessionAuth sessionManager) (*chi.Mux, error) {
	templates, err := template.ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing the embedded templates: %w", err)
	}

	rtr := &Router{
		service:   service,
		auth:      sessionAuth,
		templates: templates,
	}

	router := chi.NewRouter()
	router.Use(logger.WithLoggingHTTPMiddleware)
	router.Use(sessionAuth.AuthenticateUser)

	router.Get(`/`, rtr.GetRoot)
	router.Get(`/login`, rtr.GetLogin)
	router.Post(`/login`, rtr.PostLogin)
	router.Get(`/register`, rtr.GetRegister)
	router.Post(`/register`, rtr.PostRegister)
	router.Post(`/logout`, rtr.PostLogout)
	router.Get(`/urls`, rtr.GetUserUrls)
	router.Get(`/urls/new`, rtr.GetNewUrlForm)
	router.Get(`/urls/{short}`, rtr.GetUrlDetails)
	router.Post(`/urls`, rtr.PostUrls)
	router.Post(`/urls/{short}`, rtr.PostUpdateUrl)
	router.Post(`/urls/{short}/delete`, rtr.PostDeleteUrl)
	router.Get(`/u/{short}`, rtr.GetRedirecttofullurl)

	return router, nil
}

// GetRoot sends anonymous visitors to the login page and authenticated
// users to their URL list.
func (rtr *Router) GetRoot(res http.ResponseWriter, req *http.Request) {
	if auth.UserIDFromContext(req.Context()) == "" {
		http.Redirect(res, req, "/login", http.StatusFound)
		return
	}
	http.Redirect(res, req, "/urls", http.StatusFound)
}

// GetLogin renders the login form, or redirects to /urls when the session
// is already authenticated.
func (rtr *Router) GetLogin(res http.ResponseWriter, req *http.Request) {
	if auth.UserIDFromContext(req.Context()) != "" {
		http.Redirect(res, req, "/urls", http.StatusFound)
		return
	}
	rtr.renderTemplate(res, "login.html", nil)
}

// GetRegister renders the registration form, or redirects to /urls when
// the session is already authenticated.
func (rtr *Router) GetRegister(res http.ResponseWriter, req *http.Request) {
	if auth.UserIDFromContext(req.Context()) != "" {
		http.Redirect(res, req, "/urls", http.StatusFound)
		return
	}
	rtr.renderTemplate(res, "register.html", nil)
}

// GetUserUrls renders the current user's records. Anonymous sessions get
// the page with an empty list rather than an error.
func (rtr *Router) GetUserUrls(res http.ResponseWriter, req *http.Request) {
	userID := auth.UserIDFromContext(req.Context())

	records, err := rtr.service.GetUserURLs(req.Context(), userID)
	if err != nil {
		rtr.writeError(res, err, "")
		return
	}

	page := urlsIndexPage{UserID: userID}
	for _, record := range records {
		page.Urls = append(page.Urls, urlListItem{
			ShortID:  record.ShortID,
			ShortURL: rtr.service.GetShortURL(record.ShortID),
			LongURL:  record.LongURL,
		})
	}

	rtr.renderTemplate(res, "urls_index.html", page)
}

// GetNewUrlForm renders the creation form; anonymous sessions are
// redirected to the login page.
func (rtr *Router) GetNewUrlForm(res http.ResponseWriter, req *http.Request) {
	if auth.UserIDFromContext(req.Context()) == "" {
		http.Redirect(res, req, "/login", http.StatusFound)
		return
	}
	rtr.renderTemplate(res, "urls_new.html", nil)
}

// GetUrlDetails renders one record's detail page. A missing record is a
// distinct 404; a record owned by someone else is a 401 that does not
// leak the target URL.
func (rtr *Router) GetUrlDetails(res http.ResponseWriter, req *http.Request) {
	short := chi.URLParam(req, "short")
	userID := auth.UserIDFromContext(req.Context())

	record, err := rtr.service.GetRecordForUser(req.Context(), short, userID)
	if err != nil {
		rtr.writeError(res, err, "You do not have authorization to view this page.")
		return
	}

	rtr.renderTemplate(res, "urls_show.html", urlDetailsPage{
		Record:   record,
		ShortURL: rtr.service.GetShortURL(record.ShortID),
	})
}

// GetRedirecttofullurl redirects a visitor from a short alias to the
// normalized target URL. No session is required.
func (rtr *Router) GetRedirecttofullurl(res http.ResponseWriter, req *http.Request) {
	short := chi.URLParam(req, "short")

	target, err := rtr.service.ResolveTarget(req.Context(), short)
	if err != nil {
		rtr.writeError(res, err, "")
		return
	}

	http.Redirect(res, req, target, http.StatusTemporaryRedirect)
}

// PostUrls creates a record owned by the current session's user, which
// may be anonymous, and redirects to the new record's detail page.
func (rtr *Router) PostUrls(res http.ResponseWriter, req *http.Request) {
	if err := req.ParseForm(); err != nil {
		http.Error(res, err.Error(), http.StatusBadRequest)
		return
	}

	record, err := rtr.service.ShortenURL(
		req.Context(),
		req.PostFormValue("longURL"),
		auth.UserIDFromContext(req.Context()),
	)
	if err != nil {
		rtr.writeError(res, err, "")
		return
	}

	http.Redirect(res, req, "/urls/"+record.ShortID, http.StatusFound)
}

// PostUpdateUrl replaces the target of a record owned by the current user.
func (rtr *Router) PostUpdateUrl(res http.ResponseWriter, req *http.Request) {
	if err := req.ParseForm(); err != nil {
		http.Error(res, err.Error(), http.StatusBadRequest)
		return
	}

	_, err := rtr.service.UpdateRecordForUser(
		req.Context(),
		chi.URLParam(req, "short"),
		req.PostFormValue("newURL"),
		auth.UserIDFromContext(req.Context()),
	)
	if err != nil {
		rtr.writeError(res, err, "You do not have authorization to edit this page.")
		return
	}

	http.Redirect(res, req, "/urls", http.StatusFound)
}

// PostDeleteUrl removes a record owned by the current user.
func (rtr *Router) PostDeleteUrl(res http.ResponseWriter, req *http.Request) {
	err := rtr.service.DeleteRecordForUser(
		req.Context(),
		chi.URLParam(req, "short"),
		auth.UserIDFromContext(req.Context()),
	)
	if err != nil {
		rtr.writeError(res, err, "You do not have authorization to delete this page.")
		return
	}

	http.Redirect(res, req, "/urls", http.StatusFound)
}

// PostRegister creates an account from the registration form, opens a
// session for it and redirects to /urls.
func (rtr *Router) PostRegister(res http.ResponseWriter, req *http.Request) {
	if err := req.ParseForm(); err != nil {
		http.Error(res, err.Error(), http.StatusBadRequest)
		return
	}

	usr, err := rtr.service.RegisterUser(req.Context(), models.RegisterRequest{
		Email:    req.PostFormValue("email"),
		Password: req.PostFormValue("password"),
	})
	if errors.Is(err, models.ErrValidation) {
		http.Error(
			res,
			"At least one of the fields were empty. Please enter a valid email address and password.",
			http.StatusBadRequest,
		)
		return
	}
	if errors.Is(err, models.ErrConflict) {
		http.Error(
			res,
			"An account for this email address already exists. Please use a different email address.",
			http.StatusBadRequest,
		)
		return
	}
	if err != nil {
		rtr.writeError(res, err, "")
		return
	}

	if err := rtr.auth.OpenSession(res, usr.ID); err != nil {
		rtr.writeError(res, err, "")
		return
	}

	http.Redirect(res, req, "/urls", http.StatusFound)
}

// PostLogin authenticates the login form, opens a session and redirects
// to /urls. An unknown email and a wrong password get distinct messages,
// both with status 403.
func (rtr *Router) PostLogin(res http.ResponseWriter, req *http.Request) {
	if err := req.ParseForm(); err != nil {
		http.Error(res, err.Error(), http.StatusBadRequest)
		return
	}

	usr, err := rtr.service.LoginUser(req.Context(), models.LoginRequest{
		Email:    req.PostFormValue("email"),
		Password: req.PostFormValue("password"),
	})
	if errors.Is(err, models.ErrNotFound) {
		http.Error(res, "No account associated with this email address.", http.StatusForbidden)
		return
	}
	if errors.Is(err, models.ErrAuth) {
		http.Error(res, "Email Address or password does not match. Please try again.", http.StatusForbidden)
		return
	}
	if err != nil {
		rtr.writeError(res, err, "")
		return
	}

	if err := rtr.auth.OpenSession(res, usr.ID); err != nil {
		rtr.writeError(res, err, "")
		return
	}

	http.Redirect(res, req, "/urls", http.StatusFound)
}

// PostLogout clears the session cookie and redirects to /urls.
func (rtr *Router) PostLogout(res http.ResponseWriter, req *http.Request) {
	rtr.auth.CloseSession(res)
	http.Redirect(res, req, "/urls", http.StatusFound)
}

func (rtr *Router) renderTemplate(res http.ResponseWriter, name string, data interface{}) {
	res.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := rtr.templates.ExecuteTemplate(res, name, data); err != nil {
		logger.Log.Debugln("Error rendering the template: ", zap.Error(err))
		http.Error(res, "Failed to render the page", http.StatusInternalServerError)
	}
}

// writeError maps a domain error to its HTTP status and a plain-text
// explanation. forbiddenMessage phrases the 401 per operation, matching
// the view/edit/delete wording of the pages.
func (rtr *Router) writeError(res http.ResponseWriter, err error, forbiddenMessage string) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		http.Error(res, "404 Not Found", http.StatusNotFound)

	case errors.Is(err, models.ErrForbidden):
		if forbiddenMessage == "" {
			forbiddenMessage = "You do not have authorization to access this page."
		}
		http.Error(res, forbiddenMessage, http.StatusUnauthorized)

	case errors.Is(err, models.ErrValidation):
		http.Error(res, err.Error(), http.StatusBadRequest)

	case errors.Is(err, models.ErrConflict):
		http.Error(res, err.Error(), http.StatusBadRequest)

	case errors.Is(err, models.ErrAuth):
		http.Error(res, err.Error(), http.StatusForbidden)

	default:
		logger.Log.Debugln("Unexpected error while handling the request: ", zap.Error(err))
		http.Error(res, "Internal Server Error", http.StatusInternalServerError)
	}
}
