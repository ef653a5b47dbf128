package metrics

import (
	"math"
	"time"

	"trackifyr/models"
)

const logTimeLayout = "2006-01-02 15:04:05"

const (
	LevelLow    = "Low"
	LevelMedium = "Medium"
	LevelHigh   = "High"
)

// Summary is the aggregate set behind the stat cards and /api/metrics.
type Summary struct {
	AverageLoad       int `json:"averageLoad"`
	AverageEngagement int `json:"averageEngagement"`
	PeakLoad          int `json:"peakLoad"`
	TotalSessions     int `json:"totalSessions"`
	TodaySessions     int `json:"todaySessions"`
	WeeklySessions    int `json:"weeklySessions"`
}

// Summarize computes the aggregates of the sample data set for the given day.
func Summarize(today time.Time) Summary {
	return Summary{
		AverageLoad:       AverageLoad(TimeSeries),
		AverageEngagement: AverageEngagement(TimeSeries),
		PeakLoad:          PeakLoad(TimeSeries),
		TotalSessions:     TotalSessions(SessionLogs),
		TodaySessions:     SessionsOn(SessionLogs, today),
		WeeklySessions:    WeeklySessions(DailyEngagement),
	}
}

// round halves up, so 61.5 becomes 62.
func round(v float64) int {
	return int(math.Floor(v + 0.5))
}

func mean(points []models.LoadPoint, value func(models.LoadPoint) int) int {
	if len(points) == 0 {
		return 0
	}
	sum := 0
	for _, p := range points {
		sum += value(p)
	}
	return round(float64(sum) / float64(len(points)))
}

func AverageLoad(points []models.LoadPoint) int {
	return mean(points, func(p models.LoadPoint) int { return p.Load })
}

func AverageEngagement(points []models.LoadPoint) int {
	return mean(points, func(p models.LoadPoint) int { return p.Engagement })
}

func PeakLoad(points []models.LoadPoint) int {
	peak := 0
	for _, p := range points {
		if p.Load > peak {
			peak = p.Load
		}
	}
	return peak
}

func TotalSessions(logs []models.SessionLog) int {
	return len(logs)
}

// SessionsOn counts the logs started on day's calendar date. Logs with an
// unparseable time are skipped.
func SessionsOn(logs []models.SessionLog, day time.Time) int {
	y, m, d := day.Date()
	n := 0
	for _, l := range logs {
		t, err := time.ParseInLocation(logTimeLayout, l.Time, day.Location())
		if err != nil {
			continue
		}
		if ly, lm, ld := t.Date(); ly == y && lm == m && ld == d {
			n++
		}
	}
	return n
}

func WeeklySessions(daily []models.DailyEngagement) int {
	n := 0
	for _, d := range daily {
		n += d.Sessions
	}
	return n
}

// LoadLevel buckets a 0-100 load value.
func LoadLevel(value int) string {
	switch {
	case value < 50:
		return LevelLow
	case value < 75:
		return LevelMedium
	default:
		return LevelHigh
	}
}
