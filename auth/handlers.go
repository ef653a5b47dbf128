package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"trackifyr/models"
	"trackifyr/utils"
)

// Result is the JSON outcome of an auth operation.
type Result struct {
	Success bool              `json:"success"`
	Error   string            `json:"error,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

type SignupForm struct {
	FullName string `json:"fullName" form:"fullName"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	Role     string `json:"role" form:"role"`
}

type SigninForm struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// Validate returns a message per invalid field.
func (f SignupForm) Validate() map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(f.FullName) == "" {
		errs["fullName"] = "Full Name is required"
	}
	if strings.TrimSpace(f.Email) == "" {
		errs["email"] = "Email is required"
	} else if !utils.ValidEmail(f.Email) {
		errs["email"] = "Please enter a valid email address"
	}
	if f.Password == "" {
		errs["password"] = "Password is required"
	} else if len(f.Password) < 6 {
		errs["password"] = "Password must be at least 6 characters"
	}
	return errs
}

func (f SignupForm) user(now time.Time) models.User {
	return models.User{
		ID:       now.UnixMilli(),
		FullName: strings.TrimSpace(f.FullName),
		Email:    strings.TrimSpace(f.Email),
		Role:     utils.NormalizeRole(f.Role),
		Password: f.Password,
	}
}

func (am *AuthManager) SignupHandler(c echo.Context) error {
	return c.Render(http.StatusOK, utils.Block(c, "signup"), map[string]interface{}{
		"Form":   SignupForm{Role: utils.RoleStudent},
		"Errors": map[string]string{},
		"CSRF":   utils.CSRF(c),
	})
}

func (am *AuthManager) SignupPostHandler(c echo.Context) error {
	var f SignupForm
	if err := c.Bind(&f); err != nil {
		return err
	}
	if errs := f.Validate(); len(errs) > 0 {
		f.Password = ""
		return c.Render(utils.Status(c, http.StatusUnprocessableEntity), utils.Block(c, "signup"), map[string]interface{}{
			"Form":   f,
			"Errors": errs,
			"CSRF":   utils.CSRF(c),
		})
	}
	if err := GateFrom(c).Signup(c.Request().Context(), f.user(am.now())); err != nil {
		slog.Error(err.Error())
		return err
	}
	slog.Info("signup", slog.String("email", f.Email))
	return redirect(c, "/signin")
}

func (am *AuthManager) SigninHandler(c echo.Context) error {
	return c.Render(http.StatusOK, utils.Block(c, "signin"), map[string]interface{}{
		"Form": SigninForm{},
		"CSRF": utils.CSRF(c),
	})
}

func (am *AuthManager) SigninPostHandler(c echo.Context) error {
	var f SigninForm
	if err := c.Bind(&f); err != nil {
		return err
	}
	if err := am.signin(c, f); err != nil {
		if !errors.Is(err, ErrInvalidCredentials) {
			return err
		}
		return c.Render(utils.Status(c, http.StatusUnauthorized), utils.Block(c, "signin"), map[string]interface{}{
			"Form":  SigninForm{Email: f.Email},
			"Error": "Invalid credentials",
			"CSRF":  utils.CSRF(c),
		})
	}
	return redirect(c, "/dashboard")
}

func (am *AuthManager) signin(c echo.Context, f SigninForm) error {
	err := GateFrom(c).Signin(c.Request().Context(), strings.TrimSpace(f.Email), f.Password)
	if errors.Is(err, ErrCorruptRecord) {
		slog.Warn("signin against malformed record", slog.String("error", err.Error()))
		return ErrInvalidCredentials
	}
	return err
}

func (am *AuthManager) SignoutHandler(c echo.Context) error {
	if err := GateFrom(c).Signout(c.Request().Context()); err != nil {
		slog.Error(err.Error())
		return err
	}
	return redirect(c, "/signin")
}

func (am *AuthManager) ApiSignupHandler(c echo.Context) error {
	var f SignupForm
	if err := c.Bind(&f); err != nil {
		return err
	}
	if errs := f.Validate(); len(errs) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, Result{Errors: errs})
	}
	if err := GateFrom(c).Signup(c.Request().Context(), f.user(am.now())); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, Result{Success: true})
}

func (am *AuthManager) ApiSigninHandler(c echo.Context) error {
	var f SigninForm
	if err := c.Bind(&f); err != nil {
		return err
	}
	if err := am.signin(c, f); err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, Result{Error: "Invalid credentials"})
		}
		return err
	}
	return c.JSON(http.StatusOK, Result{Success: true})
}

func (am *AuthManager) ApiSignoutHandler(c echo.Context) error {
	if err := GateFrom(c).Signout(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, Result{Success: true})
}

func (am *AuthManager) ApiMeHandler(c echo.Context) error {
	u := GateFrom(c).User()
	u.Password = ""
	return c.JSON(http.StatusOK, u)
}
