package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestValidEmail(t *testing.T) {
	for email, want := range map[string]bool{
		"ada@uni.edu":       true,
		"a.b+c@sub.host.io": true,
		"ada@uni":           false,
		"ada uni@x.io":      false,
		"@x.io":             false,
		"":                  false,
	} {
		assert.Equal(t, want, ValidEmail(email), email)
	}
}

func TestNormalizeRole(t *testing.T) {
	assert.Equal(t, RoleTeacher, NormalizeRole("Teacher"))
	assert.Equal(t, RoleStudent, NormalizeRole(" Student "))
	assert.Equal(t, RoleStudent, NormalizeRole(""))
	assert.Equal(t, RoleStudent, NormalizeRole("admin"))
}

func TestUniqueID(t *testing.T) {
	a, b := UniqueID(), UniqueID()
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}

func TestBlockAndStatus(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	assert.Equal(t, "dashboardPage", Block(c, "dashboard"))
	assert.Equal(t, http.StatusUnauthorized, Status(c, http.StatusUnauthorized))

	req.Header.Set("Hx-Request", "true")
	assert.Equal(t, "dashboardContainer", Block(c, "dashboard"))
	assert.Equal(t, http.StatusOK, Status(c, http.StatusUnauthorized))
}
