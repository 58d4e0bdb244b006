package web_test

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/colormatch/internal/factory"
	"github.com/mcoot/colormatch/internal/model"
	"github.com/mcoot/colormatch/internal/services/session"
	"github.com/mcoot/colormatch/internal/testutil"
	"github.com/mcoot/colormatch/internal/web"
)

// webTestServer drives the web router in-process, carrying cookies between
// requests the way a browser tab would.
type webTestServer struct {
	t       *testing.T
	handler http.Handler
	app     *factory.TestApp
	cookies *browserCookies
}

func newWebTestServer(t *testing.T) *webTestServer {
	t.Helper()
	return newWebTestServerForApp(t, factory.NewTestApp())
}

// newWebTestServerForApp opens a second "browser" on an existing app.
func newWebTestServerForApp(t *testing.T, app *factory.TestApp) *webTestServer {
	t.Helper()

	router := web.NewRouter(web.RouterConfig{
		Logger:      testutil.NopLogger(),
		AuthService: app.AuthService,
		Sessions:    app.Sessions,
		Social:      app.Social,
		HubManager:  app.HubManager,
	})

	return &webTestServer{
		t:       t,
		handler: router,
		app:     app,
		cookies: newBrowserCookies(t),
	}
}

func (ts *webTestServer) request(method, path string, form url.Values, htmx bool) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	ts.cookies.addTo(req)

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	ts.cookies.store(rr)
	return rr
}

func (ts *webTestServer) get(path string) *httptest.ResponseRecorder {
	return ts.request(http.MethodGet, path, nil, false)
}

func (ts *webTestServer) post(path string, form url.Values) *httptest.ResponseRecorder {
	return ts.request(http.MethodPost, path, form, false)
}

// postHTMX posts the way the board's hx-post buttons do.
func (ts *webTestServer) postHTMX(path string, form url.Values) *httptest.ResponseRecorder {
	return ts.request(http.MethodPost, path, form, true)
}

func parseHTML(r io.Reader) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		panic(err)
	}
	return doc
}

// browserCookies wraps a real cookie jar scoped to httptest's default host.
type browserCookies struct {
	t   *testing.T
	jar *cookiejar.Jar
	url *url.URL
}

func newBrowserCookies(t *testing.T) *browserCookies {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	u, err := url.Parse("http://example.com/")
	require.NoError(t, err)
	return &browserCookies{t: t, jar: jar, url: u}
}

func (b *browserCookies) addTo(req *http.Request) {
	for _, c := range b.jar.Cookies(b.url) {
		req.AddCookie(c)
	}
}

func (b *browserCookies) store(rr *httptest.ResponseRecorder) {
	b.jar.SetCookies(b.url, rr.Result().Cookies())
}

func (b *browserCookies) get(name string) (string, bool) {
	for _, c := range b.jar.Cookies(b.url) {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}

func (b *browserCookies) hasSession() bool {
	_, ok := b.get("session")
	return ok
}

// loginToken is the auth token held in the session cookie.
func (b *browserCookies) loginToken() string {
	b.t.Helper()
	token, ok := b.get("session")
	require.True(b.t, ok, "no session cookie")
	return token
}

func (ts *webTestServer) createGuestPlayer(displayName string) {
	ts.t.Helper()
	rr := ts.post("/auth/guest", url.Values{"display_name": {displayName}})
	require.Equal(ts.t, http.StatusSeeOther, rr.Code, "guest sign-in should redirect")
	require.True(ts.t, ts.cookies.hasSession(), "guest sign-in should set the session cookie")
}

// createSession opens a new game and returns its id from the redirect.
func (ts *webTestServer) createSession() string {
	ts.t.Helper()
	rr := ts.post("/sessions", nil)
	require.Equal(ts.t, http.StatusSeeOther, rr.Code, "new game should redirect to its board")

	id, ok := strings.CutPrefix(rr.Header().Get("Location"), "/sessions/")
	require.True(ts.t, ok, "redirect should point at /sessions/{id}")
	return id
}

func (ts *webTestServer) session(id string) *session.Session {
	ts.t.Helper()
	sess, err := ts.app.Sessions.Get(model.SessionID(id))
	require.NoError(ts.t, err)
	return sess
}

// followRedirect follows either an HX-Redirect or a Location header.
func (ts *webTestServer) followRedirect(rr *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	ts.t.Helper()
	location := rr.Header().Get("HX-Redirect")
	if location == "" {
		location = rr.Header().Get("Location")
	}
	require.NotEmpty(ts.t, location, "expected a redirect")
	return ts.get(location)
}

func assertContainsElement(t *testing.T, doc *goquery.Document, selector string) {
	t.Helper()
	if doc.Find(selector).Length() == 0 {
		t.Errorf("no element matches %q", selector)
	}
}

func assertNotContainsElement(t *testing.T, doc *goquery.Document, selector string) {
	t.Helper()
	if n := doc.Find(selector).Length(); n > 0 {
		t.Errorf("expected no %q, found %d", selector, n)
	}
}

func assertContainsText(t *testing.T, doc *goquery.Document, selector, text string) {
	t.Helper()
	el := doc.Find(selector)
	if el.Length() == 0 {
		t.Errorf("no element matches %q", selector)
		return
	}
	if !strings.Contains(el.Text(), text) {
		t.Errorf("%q should contain %q, got %q", selector, text, el.Text())
	}
}
