package utils

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	RoleStudent = "Student"
	RoleTeacher = "Teacher"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func UniqueID() string {
	bytes := make([]byte, 16) // 128-bit random
	if _, err := rand.Read(bytes); err != nil {
		panic(err)
	}
	return hex.EncodeToString(bytes)
}

func ValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

func ValidRole(role string) bool {
	return role == RoleStudent || role == RoleTeacher
}

// NormalizeRole falls back to RoleStudent for empty or unknown roles.
func NormalizeRole(role string) string {
	role = strings.TrimSpace(role)
	if ValidRole(role) {
		return role
	}
	return RoleStudent
}

// Block picks the partial container for htmx requests and the full page
// otherwise.
func Block(c echo.Context, name string) string {
	if c.Request().Header.Get("Hx-Request") == "true" {
		return name + "Container"
	}
	return name + "Page"
}

func CSRF(c echo.Context) interface{} {
	return c.Get(middleware.DefaultCSRFConfig.ContextKey)
}

// Status downgrades error codes to 200 for htmx requests, which only swap
// successful responses.
func Status(c echo.Context, code int) int {
	if c.Request().Header.Get("Hx-Request") == "true" {
		return 200
	}
	return code
}
