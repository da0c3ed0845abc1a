package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Dan9191/blog-service/internal/feed"
	"github.com/Dan9191/blog-service/internal/forms"
	"github.com/Dan9191/blog-service/internal/middleware"
	"github.com/Dan9191/blog-service/internal/models"
	"github.com/Dan9191/blog-service/internal/repository"
	"github.com/Dan9191/blog-service/internal/service"
	"github.com/Dan9191/blog-service/internal/session"
	"github.com/Dan9191/blog-service/internal/view"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

const localeCookie = "locale"

// Handler serves the site's pages.
type Handler struct {
	svc      *service.Service
	sessions *session.Manager
	views    *view.Renderer
	log      *logrus.Logger
	siteURL  string
}

// NewHandler wires the handler with its collaborators.
func NewHandler(svc *service.Service, sessions *session.Manager, views *view.Renderer, log *logrus.Logger, siteURL string) *Handler {
	return &Handler{svc: svc, sessions: sessions, views: views, log: log, siteURL: siteURL}
}

// Routes builds the site router. Dashboard and article management live on a
// subrouter behind the login gate.
func (h *Handler) Routes() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/", h.Home).Methods("GET")
	r.HandleFunc("/about", h.About).Methods("GET")
	r.HandleFunc("/articles", h.Articles).Methods("GET")
	r.HandleFunc("/article/{id}/", h.Article).Methods("GET")
	r.HandleFunc("/article/{id}", h.Article).Methods("GET")
	r.HandleFunc("/register", h.Register).Methods("GET", "POST")
	r.HandleFunc("/login", h.Login).Methods("GET", "POST")
	r.HandleFunc("/logout", h.Logout).Methods("GET")
	r.HandleFunc("/change-language/{name}", h.ChangeLanguage).Methods("GET", "POST")
	r.HandleFunc("/feed", h.Feed).Methods("GET")

	protected := r.PathPrefix("/").Subrouter()
	protected.Use(middleware.RequireLogin(h.sessions))
	protected.HandleFunc("/dashboard", h.Dashboard).Methods("GET")
	protected.HandleFunc("/add_article", h.AddArticle).Methods("GET", "POST")
	protected.HandleFunc("/edit_article/{id}", h.EditArticle).Methods("GET", "POST")
	protected.HandleFunc("/delete_article/{id}", h.DeleteArticle).Methods("POST")

	r.NotFoundHandler = http.HandlerFunc(h.NotFound)
	return r
}

// Home renders the landing page
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "home", nil)
}

// About renders the about page
func (h *Handler) About(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "about", nil)
}

// Articles renders the public article list
func (h *Handler) Articles(w http.ResponseWriter, r *http.Request) {
	articles, err := h.svc.ListArticles()
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	data := view.Data{"Articles": articles}
	if len(articles) == 0 {
		data["Message"] = "Articles not found"
	}
	h.render(w, r, http.StatusOK, "articles", data)
}

// Article renders a single article or a not-found page
func (h *Handler) Article(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		h.NotFound(w, r)
		return
	}

	article, err := h.svc.GetArticle(id)
	if errors.Is(err, repository.ErrNotFound) {
		h.NotFound(w, r)
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "article", view.Data{"Article": article})
}

// Register renders the registration form and creates the user on a valid
// submission. Duplicate username or email re-renders with an inline error.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	form := forms.NewRegistrationForm()

	if r.Method != http.MethodPost {
		h.render(w, r, http.StatusOK, "register", view.Data{"Form": form})
		return
	}

	if err := r.ParseForm(); err != nil {
		h.serverError(w, r, err)
		return
	}
	if !form.Validate(r.PostForm) {
		h.render(w, r, http.StatusOK, "register", view.Data{"Form": form})
		return
	}

	_, err := h.svc.Register(
		form.Field("name").Value,
		form.Field("email").Value,
		form.Field("username").Value,
		form.Field("password").Value,
	)
	if errors.Is(err, repository.ErrDuplicate) {
		h.render(w, r, http.StatusOK, "register", view.Data{
			"Form":  form,
			"Error": "Username or email is already taken",
		})
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	h.sessions.AddFlash(w, "success", "You are now registered and can log in")
	http.Redirect(w, r, "/login", http.StatusFound)
}

// Login authenticates the user. Unknown username and wrong password render
// distinct errors; success sets the session and redirects to the dashboard.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.render(w, r, http.StatusOK, "login", view.Data{"Username": ""})
		return
	}

	if err := r.ParseForm(); err != nil {
		h.serverError(w, r, err)
		return
	}
	username := r.PostForm.Get("username")
	password := r.PostForm.Get("password")

	user, err := h.svc.Login(username, password)
	switch {
	case errors.Is(err, service.ErrUnknownUser):
		h.render(w, r, http.StatusOK, "login", view.Data{"Error": "Username not found", "Username": username})
		return
	case errors.Is(err, service.ErrInvalidPassword):
		h.render(w, r, http.StatusOK, "login", view.Data{"Error": "Invalid login", "Username": username})
		return
	case err != nil:
		h.serverError(w, r, err)
		return
	}

	if err := h.sessions.Set(w, user.Username); err != nil {
		h.serverError(w, r, err)
		return
	}
	h.sessions.AddFlash(w, "success", "You are now logged in")
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

// Logout clears the session
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	h.sessions.AddFlash(w, "success", "You are now logged out")
	http.Redirect(w, r, "/login", http.StatusFound)
}

// Dashboard renders the article management page
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	articles, err := h.svc.ListArticles()
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	data := view.Data{"Articles": articles}
	if len(articles) == 0 {
		data["Message"] = "Articles not found"
	}
	h.render(w, r, http.StatusOK, "dashboard", data)
}

// AddArticle renders the create form and inserts the article on a valid
// submission. The author always comes from the session.
func (h *Handler) AddArticle(w http.ResponseWriter, r *http.Request) {
	form := forms.NewArticleForm()

	if r.Method != http.MethodPost {
		h.render(w, r, http.StatusOK, "add_article", view.Data{"Form": form})
		return
	}

	if err := r.ParseForm(); err != nil {
		h.serverError(w, r, err)
		return
	}
	if !form.Validate(r.PostForm) {
		h.render(w, r, http.StatusOK, "add_article", view.Data{"Form": form})
		return
	}

	sess, _ := middleware.SessionFromContext(r.Context())
	article := articleFromForm(form)
	if err := h.svc.CreateArticle(article, sess.Username); err != nil {
		h.serverError(w, r, err)
		return
	}

	h.sessions.AddFlash(w, "success", "Article created")
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

// EditArticle pre-populates the form from storage on GET and replaces the
// article's fields on a valid POST.
func (h *Handler) EditArticle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		h.NotFound(w, r)
		return
	}

	form := forms.NewArticleForm()

	if r.Method != http.MethodPost {
		article, err := h.svc.GetArticle(id)
		if errors.Is(err, repository.ErrNotFound) {
			h.NotFound(w, r)
			return
		}
		if err != nil {
			h.serverError(w, r, err)
			return
		}
		form.Field("title").Value = article.Title
		form.Field("title_uk").Value = article.TitleUK
		form.Field("body").Value = article.Body
		form.Field("body_uk").Value = article.BodyUK
		h.render(w, r, http.StatusOK, "edit_article", view.Data{"Form": form, "ArticleID": id})
		return
	}

	if err := r.ParseForm(); err != nil {
		h.serverError(w, r, err)
		return
	}
	if !form.Validate(r.PostForm) {
		h.render(w, r, http.StatusOK, "edit_article", view.Data{"Form": form, "ArticleID": id})
		return
	}

	err = h.svc.UpdateArticle(id, articleFromForm(form))
	if errors.Is(err, repository.ErrNotFound) {
		h.NotFound(w, r)
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	h.sessions.AddFlash(w, "success", "Article updated")
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

// DeleteArticle removes the article and returns to the dashboard
func (h *Handler) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		h.NotFound(w, r)
		return
	}

	err = h.svc.DeleteArticle(id)
	if errors.Is(err, repository.ErrNotFound) {
		h.NotFound(w, r)
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	h.sessions.AddFlash(w, "success", "Article deleted")
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

// ChangeLanguage sets the locale cookie and returns home. Unknown locales
// fall back to English.
func (h *Handler) ChangeLanguage(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if name != "uk" {
		name = "en"
	}
	http.SetCookie(w, &http.Cookie{
		Name:     localeCookie,
		Value:    name,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusFound)
}

// Feed serves the RSS feed in the requesting browser's locale
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	articles, err := h.svc.ListArticles()
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	out, err := feed.Build(h.siteURL, h.locale(r), articles)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.Write(out)
}

// NotFound renders the not-found page
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, "notfound", nil)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page string, data view.Data) {
	if data == nil {
		data = view.Data{}
	}
	data["Session"] = h.sessions.Get(r)
	data["Locale"] = h.locale(r)
	if flash, ok := h.sessions.PopFlash(w, r); ok {
		data["Flash"] = flash
	}
	h.views.Render(w, status, page, data)
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.log.Errorf("%s %s: %v", r.Method, r.URL.Path, err)
	h.render(w, r, http.StatusInternalServerError, "error", nil)
}

func (h *Handler) locale(r *http.Request) string {
	cookie, err := r.Cookie(localeCookie)
	if err != nil || cookie.Value != "uk" {
		return "en"
	}
	return "uk"
}

func articleFromForm(form *forms.Form) *models.Article {
	return &models.Article{
		Title:   form.Field("title").Value,
		TitleUK: form.Field("title_uk").Value,
		Body:    form.Field("body").Value,
		BodyUK:  form.Field("body_uk").Value,
	}
}
