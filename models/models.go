package models

import "time"

// User is the record kept under the "user" key of a client's storage.
type User struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Password string `json:"password,omitempty"`
}

// FirstName returns the first word of the full name.
func (u *User) FirstName() string {
	if u == nil {
		return ""
	}
	for i, r := range u.FullName {
		if r == ' ' {
			return u.FullName[:i]
		}
	}
	return u.FullName
}

type LoadPoint struct {
	Time       string `json:"time"`
	Load       int    `json:"load"`
	Engagement int    `json:"engagement"`
}

type DailyEngagement struct {
	Day        string `json:"day"`
	Engagement int    `json:"engagement"`
	Sessions   int    `json:"sessions"`
}

type SessionLog struct {
	ID            int    `json:"id"`
	Time          string `json:"time"`
	CognitiveLoad string `json:"cognitiveLoad"`
	Engagement    string `json:"engagement"`
	Duration      string `json:"duration"`
}

type LoadStatus struct {
	Level      string `json:"level"`
	Value      int    `json:"value"`
	Engagement int    `json:"engagement"`
	Timestamp  string `json:"timestamp"`
}

type Feedback struct {
	ID        int    `json:"id"`
	Type      string `json:"type"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// ActivityEvent is a single mouse or keyboard input.
type ActivityEvent struct {
	Kind      string    `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
}

type ActivitySummary struct {
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	TotalSeconds    float64   `json:"totalSeconds"`
	ActiveSeconds   int       `json:"activeSeconds"`
	ActivityPercent float64   `json:"activityPercent"`
	MouseEvents     int       `json:"mouseEvents"`
	KeyboardEvents  int       `json:"keyboardEvents"`
}

func (s ActivitySummary) TotalEvents() int {
	return s.MouseEvents + s.KeyboardEvents
}
