// Package metrics holds the sample cognitive load data set shown by the
// dashboard and the aggregates computed from it.
package metrics

import "trackifyr/models"

// TimeSeries is load and engagement over the last working week.
var TimeSeries = []models.LoadPoint{
	{Time: "Mon 09:00", Load: 45, Engagement: 85},
	{Time: "Mon 12:00", Load: 62, Engagement: 78},
	{Time: "Mon 15:00", Load: 78, Engagement: 65},
	{Time: "Tue 09:00", Load: 42, Engagement: 88},
	{Time: "Tue 12:00", Load: 58, Engagement: 82},
	{Time: "Tue 15:00", Load: 71, Engagement: 70},
	{Time: "Wed 09:00", Load: 48, Engagement: 86},
	{Time: "Wed 12:00", Load: 65, Engagement: 75},
	{Time: "Wed 15:00", Load: 82, Engagement: 60},
	{Time: "Thu 09:00", Load: 40, Engagement: 90},
	{Time: "Thu 12:00", Load: 55, Engagement: 85},
	{Time: "Thu 15:00", Load: 68, Engagement: 72},
	{Time: "Fri 09:00", Load: 50, Engagement: 84},
	{Time: "Fri 12:00", Load: 70, Engagement: 70},
	{Time: "Fri 15:00", Load: 85, Engagement: 55},
}

var DailyEngagement = []models.DailyEngagement{
	{Day: "Monday", Engagement: 76, Sessions: 8},
	{Day: "Tuesday", Engagement: 80, Sessions: 9},
	{Day: "Wednesday", Engagement: 74, Sessions: 7},
	{Day: "Thursday", Engagement: 82, Sessions: 10},
	{Day: "Friday", Engagement: 70, Sessions: 6},
	{Day: "Saturday", Engagement: 65, Sessions: 4},
	{Day: "Sunday", Engagement: 68, Sessions: 5},
}

var SessionLogs = []models.SessionLog{
	{ID: 1, Time: "2024-01-15 09:15:23", CognitiveLoad: "Low", Engagement: "High", Duration: "45 min"},
	{ID: 2, Time: "2024-01-15 10:30:12", CognitiveLoad: "Medium", Engagement: "Medium", Duration: "38 min"},
	{ID: 3, Time: "2024-01-15 14:20:45", CognitiveLoad: "High", Engagement: "Low", Duration: "25 min"},
	{ID: 4, Time: "2024-01-15 16:10:30", CognitiveLoad: "Medium", Engagement: "High", Duration: "52 min"},
	{ID: 5, Time: "2024-01-16 09:00:15", CognitiveLoad: "Low", Engagement: "High", Duration: "48 min"},
	{ID: 6, Time: "2024-01-16 11:25:20", CognitiveLoad: "Medium", Engagement: "Medium", Duration: "42 min"},
	{ID: 7, Time: "2024-01-16 15:40:10", CognitiveLoad: "High", Engagement: "Low", Duration: "30 min"},
	{ID: 8, Time: "2024-01-17 09:30:00", CognitiveLoad: "Low", Engagement: "High", Duration: "50 min"},
	{ID: 9, Time: "2024-01-17 13:15:35", CognitiveLoad: "Medium", Engagement: "Medium", Duration: "40 min"},
	{ID: 10, Time: "2024-01-17 17:00:50", CognitiveLoad: "High", Engagement: "Low", Duration: "28 min"},
}

var Current = models.LoadStatus{
	Level:      "Medium",
	Value:      65,
	Engagement: 72,
	Timestamp:  "2024-01-17 14:30:00",
}

var FeedbackMessages = []models.Feedback{
	{ID: 1, Type: "warning", Message: "You seem overloaded, consider taking a break.", Timestamp: "2024-01-17 15:00:00"},
	{ID: 2, Type: "info", Message: "You appear disengaged, try refocusing.", Timestamp: "2024-01-17 14:45:00"},
	{ID: 3, Type: "success", Message: "Your cognitive load is optimal. Keep up the good work!", Timestamp: "2024-01-17 14:00:00"},
}
