package auth

import (
	"crypto/rand"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"trackifyr/config"
	"trackifyr/storage"
)

const ContextGate = "gate"

// AuthManager ties client cookies to storage partitions and hands every
// request its Gate.
type AuthManager struct {
	store          storage.Store
	secret         []byte
	cookie         string
	clientTTL      time.Duration
	verifyPassword bool
	now            func() time.Time
}

func NewAuthManager(store storage.Store, cfg config.AuthConfig) *AuthManager {
	ttl := cfg.ClientTTL
	if ttl <= 0 {
		ttl = 24 * 365 * time.Hour
	}
	secret := []byte(cfg.Secret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			panic(err)
		}
		slog.Warn("no auth.secret configured, client cookies last until restart")
	}
	return &AuthManager{
		store:          store,
		secret:         secret,
		cookie:         cfg.ClientCookie,
		clientTTL:      ttl,
		verifyPassword: cfg.VerifyPassword,
		now:            time.Now,
	}
}

func (am *AuthManager) client(c echo.Context) (string, error) {
	if cookie, err := c.Cookie(am.cookie); err == nil && cookie.Value != "" {
		client, err := am.clientFromToken(cookie.Value)
		if err == nil {
			return client, nil
		}
		slog.Warn("rejected client cookie", slog.String("error", err.Error()))
	}
	client := uuid.NewString()
	now := am.now()
	token, err := am.issueToken(client, now)
	if err != nil {
		return "", err
	}
	c.SetCookie(&http.Cookie{
		Path:     "/",
		Name:     am.cookie,
		Value:    token,
		Expires:  now.Add(am.clientTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return client, nil
}

// GateMiddleware loads the client's Gate into the echo context.
func (am *AuthManager) GateMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		client, err := am.client(c)
		if err != nil {
			return err
		}
		ctx := c.Request().Context()
		part := storage.NewPartition(am.store, client)
		gate, err := Load(ctx, part, am.verifyPassword)
		if errors.Is(err, ErrCorruptRecord) {
			slog.Warn("discarding user record", slog.String("client", client), slog.String("error", err.Error()))
			err = part.RemoveItem(ctx, StorageKey)
		}
		if err != nil {
			return err
		}
		c.Set(ContextGate, gate)
		return next(c)
	}
}

// GateFrom returns the request's Gate set by GateMiddleware.
func GateFrom(c echo.Context) *Gate {
	g, _ := c.Get(ContextGate).(*Gate)
	return g
}

// ClientFrom returns the client id of the request, empty before GateMiddleware.
func ClientFrom(c echo.Context) string {
	if g := GateFrom(c); g != nil {
		return g.Client()
	}
	return ""
}

func redirect(c echo.Context, to string) error {
	if c.Request().Header.Get("Hx-Request") == "true" {
		c.Response().Header().Set("HX-Redirect", to)
		return c.NoContent(http.StatusOK)
	}
	return c.Redirect(http.StatusFound, to)
}

// RequireSession sends visitors without a session to the signin page.
func RequireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if g := GateFrom(c); g == nil || !g.IsAuthenticated() {
			return redirect(c, "/signin")
		}
		return next(c)
	}
}

// RequireNoSession sends signed in visitors to the dashboard.
func RequireNoSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if g := GateFrom(c); g != nil && g.IsAuthenticated() {
			return redirect(c, "/dashboard")
		}
		return next(c)
	}
}

// RequireSessionAPI is RequireSession for JSON endpoints.
func RequireSessionAPI(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if g := GateFrom(c); g == nil || !g.IsAuthenticated() {
			return c.JSON(http.StatusUnauthorized, Result{Error: "not signed in"})
		}
		return next(c)
	}
}
