package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"trackifyr/activity"
	"trackifyr/auth"
	"trackifyr/metrics"
	"trackifyr/models"
	"trackifyr/utils"
)

//go:embed views/*.html
var views embed.FS

type Templates struct {
	*template.Template
}

func (t *Templates) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return t.ExecuteTemplate(w, name, data)
}

var funcs = template.FuncMap{
	"initial": func(s string) string {
		for _, r := range s {
			return strings.ToUpper(string(r))
		}
		return "U"
	},
	"pct": func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"levelClass": func(level string) string {
		switch level {
		case metrics.LevelLow:
			return "bg-green-100 text-green-700"
		case metrics.LevelHigh:
			return "bg-red-100 text-red-700"
		}
		return "bg-yellow-100 text-yellow-700"
	},
	"feedbackClass": func(kind string) string {
		switch kind {
		case "warning":
			return "border-yellow-300 bg-yellow-50"
		case "success":
			return "border-green-300 bg-green-50"
		}
		return "border-blue-300 bg-blue-50"
	},
}

func NewTemplates() (*Templates, error) {
	t, err := template.New("").Funcs(funcs).ParseFS(views, "views/*.html")
	if err != nil {
		return nil, err
	}
	return &Templates{t}, nil
}

type StatCard struct {
	Title  string
	Value  string
	Change string
	Trend  string
	Color  string
}

type NavItem struct {
	Name   string
	Href   string
	Active bool
}

// Pages renders the signed in part of the dashboard.
type Pages struct {
	trackers *activity.Registry
	now      func() time.Time
}

func NewPages(trackers *activity.Registry) *Pages {
	return &Pages{trackers: trackers, now: time.Now}
}

func navigation(path string) []NavItem {
	items := []NavItem{
		{Name: "Dashboard", Href: "/dashboard"},
		{Name: "Reports", Href: "/reports"},
		{Name: "Profile", Href: "/profile"},
	}
	for i := range items {
		items[i].Active = items[i].Href == path
	}
	return items
}

func greeting(u *models.User) string {
	if name := u.FirstName(); name != "" {
		return name
	}
	return "User"
}

// shell is the data every signed in page shares.
func (p *Pages) shell(c echo.Context, path, title string) map[string]interface{} {
	u := auth.GateFrom(c).User()
	return map[string]interface{}{
		"Title":    title,
		"User":     u,
		"Greeting": greeting(u),
		"Nav":      navigation(path),
		"CSRF":     utils.CSRF(c),
	}
}

func charts(data map[string]interface{}) {
	data["TimeSeries"] = metrics.TimeSeries
	data["LoadLine"] = metrics.LoadLine(metrics.TimeSeries)
	data["EngagementLine"] = metrics.EngagementLine(metrics.TimeSeries)
	data["Bars"] = metrics.EngagementBars(metrics.DailyEngagement)
	data["ChartWidth"] = metrics.ChartWidth
	data["ChartHeight"] = metrics.ChartHeight
}

func (p *Pages) DashboardHandler(c echo.Context) error {
	s := metrics.Summarize(p.now())
	data := p.shell(c, "/dashboard", "Dashboard")
	data["Stats"] = []StatCard{
		{Title: "Average Load", Value: fmt.Sprintf("%d%%", s.AverageLoad), Change: "+2.5%", Trend: "up", Color: "indigo"},
		{Title: "Avg Engagement", Value: fmt.Sprintf("%d%%", s.AverageEngagement), Change: "+5.2%", Trend: "up", Color: "green"},
		{Title: "Total Sessions", Value: fmt.Sprint(s.TotalSessions), Change: fmt.Sprintf("+%d today", s.TodaySessions), Trend: "neutral", Color: "blue"},
		{Title: "Active Monitoring", Value: "Live", Change: "Real-time", Trend: "up", Color: "purple"},
	}
	data["Current"] = metrics.Current
	data["Logs"] = metrics.SessionLogs
	data["Feedback"] = metrics.FeedbackMessages
	if t, ok := p.trackers.Lookup(auth.ClientFrom(c)); ok {
		if latest, ok := t.Latest(); ok {
			data["Activity"] = latest
		}
		if last := t.LastActivity(); !last.IsZero() {
			data["LastActivity"] = last.Format(time.DateTime)
		}
	}
	charts(data)
	return c.Render(http.StatusOK, utils.Block(c, "dashboard"), data)
}

func (p *Pages) ReportsHandler(c echo.Context) error {
	data := p.shell(c, "/reports", "Reports & Analytics")
	data["Summary"] = metrics.Summarize(p.now())
	data["History"] = []models.ActivitySummary{}
	if t, ok := p.trackers.Lookup(auth.ClientFrom(c)); ok {
		data["History"] = t.History()
	}
	charts(data)
	return c.Render(http.StatusOK, utils.Block(c, "reports"), data)
}

type ProfileForm struct {
	FullName string `form:"fullName"`
	Email    string `form:"email"`
	Role     string `form:"role"`
}

func (f ProfileForm) Validate() map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(f.FullName) == "" {
		errs["fullName"] = "Full Name is required"
	}
	if !utils.ValidEmail(strings.TrimSpace(f.Email)) {
		errs["email"] = "Please enter a valid email address"
	}
	return errs
}

func (p *Pages) ProfileHandler(c echo.Context) error {
	data := p.shell(c, "/profile", "Profile")
	data["Editing"] = c.QueryParam("edit") == "1"
	data["Errors"] = map[string]string{}
	data["Roles"] = []string{utils.RoleStudent, utils.RoleTeacher}
	return c.Render(http.StatusOK, utils.Block(c, "profile"), data)
}

func (p *Pages) ProfilePostHandler(c echo.Context) error {
	var f ProfileForm
	if err := c.Bind(&f); err != nil {
		return err
	}
	if errs := f.Validate(); len(errs) > 0 {
		data := p.shell(c, "/profile", "Profile")
		data["Editing"] = true
		data["Errors"] = errs
		data["Roles"] = []string{utils.RoleStudent, utils.RoleTeacher}
		return c.Render(utils.Status(c, http.StatusUnprocessableEntity), utils.Block(c, "profile"), data)
	}
	gate := auth.GateFrom(c)
	if err := gate.UpdateProfile(c.Request().Context(), f.FullName, f.Email, utils.NormalizeRole(f.Role)); err != nil {
		return err
	}
	return p.ProfileHandler(c)
}

func (p *Pages) ApiMetricsHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"summary":    metrics.Summarize(p.now()),
		"current":    metrics.Current,
		"timeSeries": metrics.TimeSeries,
		"daily":      metrics.DailyEngagement,
		"sessions":   metrics.SessionLogs,
		"feedback":   metrics.FeedbackMessages,
	})
}
