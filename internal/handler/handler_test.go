package handler

import (
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/Dan9191/blog-service/internal/models"
	"github.com/Dan9191/blog-service/internal/service"
	"github.com/Dan9191/blog-service/internal/session"
	"github.com/Dan9191/blog-service/internal/storetest"
	"github.com/Dan9191/blog-service/internal/view"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testApp struct {
	server *httptest.Server
	client *http.Client
	store  *storetest.MemStore
}

func newTestApp(t *testing.T) *testApp {
	store := storetest.New()
	app := newTestAppWithStore(t, store)
	app.store = store
	return app
}

func newTestAppWithStore(t *testing.T, store service.Store) *testApp {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	svc := service.NewService(store, log)
	sessions := session.NewManager("test-secret")
	views, err := view.New(log)
	require.NoError(t, err)

	h := NewHandler(svc, sessions, views, log, "http://example.com")
	server := httptest.NewServer(h.Routes())
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar: jar,
		// Redirects are asserted on, not followed.
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &testApp{server: server, client: client}
}

func (a *testApp) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := a.client.Get(a.server.URL + path)
	require.NoError(t, err)
	return resp
}

func (a *testApp) postForm(t *testing.T, path string, values url.Values) *http.Response {
	t.Helper()
	resp, err := a.client.Post(a.server.URL+path, "application/x-www-form-urlencoded",
		strings.NewReader(values.Encode()))
	require.NoError(t, err)
	return resp
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func registrationValues() url.Values {
	return url.Values{
		"name":     {"Alice"},
		"username": {"alice"},
		"email":    {"alice@example.com"},
		"password": {"alicepw"},
		"confirm":  {"alicepw"},
	}
}

func articleValues() url.Values {
	return url.Values{
		"title":    {"T"},
		"title_uk": {"Т"},
		"body":     {"twenty plus characters long body"},
		"body_uk":  {"тіло з двадцятьма і більше символами"},
	}
}

// login registers alice and signs her in, leaving the session cookie in the jar.
func (a *testApp) login(t *testing.T) {
	t.Helper()
	resp := a.postForm(t, "/register", registrationValues())
	require.Equal(t, http.StatusFound, resp.StatusCode)
	resp.Body.Close()

	resp = a.postForm(t, "/login", url.Values{
		"username": {"alice"},
		"password": {"alicepw"},
	})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/dashboard", resp.Header.Get("Location"))
	resp.Body.Close()
}

func TestPublicPages(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/", "/about", "/articles"} {
		resp := app.get(t, path)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		resp.Body.Close()
	}
}

func TestArticlesEmptyMessage(t *testing.T) {
	app := newTestApp(t)
	resp := app.get(t, "/articles")
	assert.Contains(t, body(t, resp), "Articles not found")
}

func TestArticleNotFound(t *testing.T) {
	app := newTestApp(t)

	resp := app.get(t, "/article/99/")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = app.get(t, "/article/not-a-number/")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

// brokenStore simulates a lost database: every read fails.
type brokenStore struct {
	*storetest.MemStore
}

func (b *brokenStore) ListArticles() ([]models.Article, error) {
	return nil, errors.New("dial tcp: connection refused")
}

func TestDatabaseErrorRendersGenericPage(t *testing.T) {
	app := newTestAppWithStore(t, &brokenStore{storetest.New()})

	resp := app.get(t, "/articles")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	content := body(t, resp)
	assert.Contains(t, content, "Something went wrong")
	// The underlying failure must not leak into the page.
	assert.NotContains(t, content, "connection refused")
}

func TestProtectedRoutesRedirectWithoutSession(t *testing.T) {
	app := newTestApp(t)
	app.store.Articles[1] = &models.Article{ID: 1, Title: "Keep", Body: "body long enough for the form", Author: "bob"}

	cases := []struct {
		method string
		path   string
	}{
		{"GET", "/dashboard"},
		{"GET", "/add_article"},
		{"POST", "/add_article"},
		{"GET", "/edit_article/1"},
		{"POST", "/edit_article/1"},
		{"POST", "/delete_article/1"},
	}

	for _, tc := range cases {
		var resp *http.Response
		if tc.method == "GET" {
			resp = app.get(t, tc.path)
		} else {
			resp = app.postForm(t, tc.path, articleValues())
		}
		assert.Equal(t, http.StatusFound, resp.StatusCode, "%s %s", tc.method, tc.path)
		assert.Equal(t, "/login", resp.Header.Get("Location"), "%s %s", tc.method, tc.path)
		resp.Body.Close()
	}

	// No side effect happened behind the gate.
	assert.Len(t, app.store.Articles, 1)
	assert.Equal(t, "Keep", app.store.Articles[1].Title)
}

func TestRegisterPasswordMismatchNoInsert(t *testing.T) {
	app := newTestApp(t)

	values := registrationValues()
	values.Set("confirm", "other")
	resp := app.postForm(t, "/register", values)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body(t, resp), "Passwords do not match")
	assert.Empty(t, app.store.Users)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	app := newTestApp(t)
	resp := app.postForm(t, "/register", registrationValues())
	require.Equal(t, http.StatusFound, resp.StatusCode)
	resp.Body.Close()

	values := registrationValues()
	values.Set("email", "other@example.com")
	resp = app.postForm(t, "/register", values)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body(t, resp), "already taken")
	assert.Len(t, app.store.Users, 1)
}

func TestLoginBranches(t *testing.T) {
	app := newTestApp(t)
	resp := app.postForm(t, "/register", registrationValues())
	require.Equal(t, http.StatusFound, resp.StatusCode)
	resp.Body.Close()

	resp = app.postForm(t, "/login", url.Values{"username": {"nobody"}, "password": {"x"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body(t, resp), "Username not found")

	resp = app.postForm(t, "/login", url.Values{"username": {"alice"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body(t, resp), "Invalid login")

	resp = app.postForm(t, "/login", url.Values{"username": {"alice"}, "password": {"alicepw"}})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))
	resp.Body.Close()
}

func TestRegisterLoginAddDeleteScenario(t *testing.T) {
	app := newTestApp(t)
	app.login(t)

	resp := app.get(t, "/dashboard")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body(t, resp), "alice")

	resp = app.postForm(t, "/add_article", articleValues())
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/dashboard", resp.Header.Get("Location"))
	resp.Body.Close()

	articles, err := app.store.ListArticles()
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "T", articles[0].Title)
	assert.Equal(t, "alice", articles[0].Author)

	resp = app.get(t, "/articles")
	assert.Contains(t, body(t, resp), "T")

	resp = app.postForm(t, "/delete_article/"+strconv.Itoa(articles[0].ID), nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	resp.Body.Close()

	articles, err = app.store.ListArticles()
	require.NoError(t, err)
	assert.Empty(t, articles)
}

func TestAddArticleInvalidFormNoSideEffect(t *testing.T) {
	app := newTestApp(t)
	app.login(t)

	values := articleValues()
	values.Set("body", "too short")
	resp := app.postForm(t, "/add_article", values)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body(t, resp), "Must be at least 20 characters long")
	assert.Empty(t, app.store.Articles)
}

func TestEditArticlePrepopulatesAndUpdates(t *testing.T) {
	app := newTestApp(t)
	app.login(t)

	resp := app.postForm(t, "/add_article", articleValues())
	require.Equal(t, http.StatusFound, resp.StatusCode)
	resp.Body.Close()

	var id int
	for articleID := range app.store.Articles {
		id = articleID
	}

	resp = app.get(t, "/edit_article/"+strconv.Itoa(id))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body(t, resp), `value="T"`)

	values := articleValues()
	values.Set("title", "Updated title")
	resp = app.postForm(t, "/edit_article/"+strconv.Itoa(id), values)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	resp.Body.Close()

	assert.Equal(t, "Updated title", app.store.Articles[id].Title)
}

func TestEditMissingArticle(t *testing.T) {
	app := newTestApp(t)
	app.login(t)

	resp := app.get(t, "/edit_article/99")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = app.postForm(t, "/edit_article/99", articleValues())
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestLogoutEndsSession(t *testing.T) {
	app := newTestApp(t)
	app.login(t)

	resp := app.get(t, "/logout")
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/login", resp.Header.Get("Location"))
	resp.Body.Close()

	resp = app.get(t, "/dashboard")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	resp.Body.Close()
}

func TestChangeLanguage(t *testing.T) {
	app := newTestApp(t)

	resp := app.get(t, "/change-language/uk")
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	var locale string
	for _, c := range resp.Cookies() {
		if c.Name == "locale" {
			locale = c.Value
		}
	}
	assert.Equal(t, "uk", locale)
	resp.Body.Close()

	// Unknown locales fall back to English.
	resp = app.get(t, "/change-language/de")
	for _, c := range resp.Cookies() {
		if c.Name == "locale" {
			locale = c.Value
		}
	}
	assert.Equal(t, "en", locale)
	resp.Body.Close()
}

func TestLocaleSelectsTranslation(t *testing.T) {
	app := newTestApp(t)
	app.store.Articles[1] = &models.Article{
		ID: 1, Title: "Hello", TitleUK: "Привіт",
		Body: "english body long enough", BodyUK: "українське тіло достатньої довжини",
		Author: "alice",
	}

	resp := app.get(t, "/article/1/")
	assert.Contains(t, body(t, resp), "Hello")

	resp = app.get(t, "/change-language/uk")
	resp.Body.Close()

	resp = app.get(t, "/article/1/")
	assert.Contains(t, body(t, resp), "Привіт")
}

func TestFeed(t *testing.T) {
	app := newTestApp(t)
	app.store.Articles[1] = &models.Article{ID: 1, Title: "Feed me", Body: "body long enough for the form", Author: "alice"}

	resp := app.get(t, "/feed")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/rss+xml")
	assert.Contains(t, body(t, resp), "Feed me")
}

func TestFlashShownOnce(t *testing.T) {
	app := newTestApp(t)
	resp := app.postForm(t, "/register", registrationValues())
	require.Equal(t, http.StatusFound, resp.StatusCode)
	resp.Body.Close()

	resp = app.get(t, "/login")
	assert.Contains(t, body(t, resp), "You are now registered")

	resp = app.get(t, "/login")
	assert.NotContains(t, body(t, resp), "You are now registered")
}
