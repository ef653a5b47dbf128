package auth

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trackifyr/config"
	"trackifyr/storage"
)

type stubRenderer struct{}

func (stubRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	fmt.Fprintf(w, "%s %v", name, data)
	return nil
}

type client struct {
	e       *echo.Echo
	cookies []*http.Cookie
}

func newTestServer(t *testing.T) *client {
	e := echo.New()
	e.Renderer = stubRenderer{}
	am := NewAuthManager(storage.NewMemory(10, time.Hour), config.AuthConfig{
		Secret:       "test",
		ClientCookie: "trackifyr_client",
	})
	e.Use(am.GateMiddleware)

	e.GET("/signup", am.SignupHandler, RequireNoSession)
	e.POST("/signup", am.SignupPostHandler, RequireNoSession)
	e.GET("/signin", am.SigninHandler, RequireNoSession)
	e.POST("/signin", am.SigninPostHandler, RequireNoSession)
	e.GET("/signout", am.SignoutHandler)
	e.GET("/dashboard", func(c echo.Context) error { return c.String(http.StatusOK, "dashboard") }, RequireSession)

	api := e.Group("/api/auth")
	api.POST("/signup", am.ApiSignupHandler)
	api.POST("/signin", am.ApiSigninHandler)
	api.POST("/signout", am.ApiSignoutHandler)
	api.GET("/me", am.ApiMeHandler, RequireSessionAPI)
	return &client{e: e}
}

func (cl *client) do(req *http.Request) *httptest.ResponseRecorder {
	for _, ck := range cl.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	cl.e.ServeHTTP(rec, req)
	if set := rec.Result().Cookies(); len(set) > 0 {
		cl.cookies = set
	}
	return rec
}

func (cl *client) get(path string) *httptest.ResponseRecorder {
	return cl.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (cl *client) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return cl.do(req)
}

func (cl *client) postJSON(path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return cl.do(req)
}

func signupForm() url.Values {
	return url.Values{
		"fullName": {"Ada Lovelace"},
		"email":    {"ada@uni.edu"},
		"password": {"secret1"},
		"role":     {"Teacher"},
	}
}

func TestGuardsRedirect(t *testing.T) {
	cl := newTestServer(t)

	rec := cl.get("/dashboard")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/signin", rec.Header().Get(echo.HeaderLocation))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Hx-Request", "true")
	rec = cl.do(req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/signin", rec.Header().Get("HX-Redirect"))

	rec = cl.get("/signin")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "signinPage")
}

func TestSignupSigninSignoutFlow(t *testing.T) {
	cl := newTestServer(t)

	rec := cl.postForm("/signup", signupForm())
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/signin", rec.Header().Get(echo.HeaderLocation))

	// signed in after signup: public pages bounce to the dashboard
	rec = cl.get("/signin")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get(echo.HeaderLocation))

	rec = cl.get("/dashboard")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = cl.get("/signout")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/signin", rec.Header().Get(echo.HeaderLocation))

	rec = cl.get("/dashboard")
	assert.Equal(t, http.StatusFound, rec.Code)

	// the record is gone, so signin fails
	rec = cl.postForm("/signin", url.Values{"email": {"ada@uni.edu"}, "password": {"secret1"}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid credentials")
}

func TestSigninByEmail(t *testing.T) {
	cl := newTestServer(t)
	require.Equal(t, http.StatusCreated, cl.postJSON("/api/auth/signup",
		`{"fullName":"Ada Lovelace","email":"ada@uni.edu","password":"secret1"}`).Code)

	rec := cl.postJSON("/api/auth/signin", `{"email":"eve@uni.edu","password":"secret1"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"Invalid credentials"}`, rec.Body.String())

	rec = cl.postJSON("/api/auth/signin", `{"email":"ada@uni.edu","password":"not the password"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
}

func TestSignupValidation(t *testing.T) {
	cl := newTestServer(t)

	rec := cl.postForm("/signup", url.Values{"email": {"nope"}, "password": {"123"}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Full Name is required")
	assert.Contains(t, body, "Please enter a valid email address")
	assert.Contains(t, body, "Password must be at least 6 characters")

	rec = cl.get("/dashboard")
	assert.Equal(t, http.StatusFound, rec.Code)
}

func TestSignupFormValidate(t *testing.T) {
	tests := []struct {
		name string
		form SignupForm
		want map[string]string
	}{
		{"valid", SignupForm{FullName: "A", Email: "a@b.co", Password: "123456"}, map[string]string{}},
		{"blank", SignupForm{FullName: "  "}, map[string]string{
			"fullName": "Full Name is required",
			"email":    "Email is required",
			"password": "Password is required",
		}},
		{"bad email", SignupForm{FullName: "A", Email: "a@b", Password: "123456"}, map[string]string{
			"email": "Please enter a valid email address",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.form.Validate())
		})
	}
}

func TestApiMe(t *testing.T) {
	cl := newTestServer(t)

	rec := cl.get("/api/auth/me")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	cl.postJSON("/api/auth/signup", `{"fullName":"Ada Lovelace","email":"ada@uni.edu","password":"secret1","role":"Wizard"}`)
	rec = cl.get("/api/auth/me")
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"email":"ada@uni.edu"`)
	assert.Contains(t, body, `"role":"Student"`)
	assert.NotContains(t, body, "password")
}

func TestForgedCookieGetsFreshClient(t *testing.T) {
	cl := newTestServer(t)
	cl.postForm("/signup", signupForm())
	require.Equal(t, http.StatusOK, cl.get("/dashboard").Code)

	cl.cookies = []*http.Cookie{{Name: "trackifyr_client", Value: "forged"}}
	assert.Equal(t, http.StatusFound, cl.get("/dashboard").Code)
}

func TestCorruptRecordIsDiscarded(t *testing.T) {
	store := storage.NewMemory(10, time.Hour)
	am := NewAuthManager(store, config.AuthConfig{Secret: "test", ClientCookie: "trackifyr_client"})
	e := echo.New()
	e.Use(am.GateMiddleware)
	e.GET("/dashboard", func(c echo.Context) error { return c.String(http.StatusOK, "dashboard") }, RequireSession)

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "c1", StorageKey, "{broken"))
	token, err := am.issueToken("c1", time.Now())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "trackifyr_client", Value: token})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	_, err = store.Get(ctx, "c1", StorageKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
