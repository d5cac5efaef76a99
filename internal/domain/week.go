package domain

import "time"

// DayOf truncates a timestamp to its UTC calendar day.
func DayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WeekOf returns the Monday–Sunday week containing t (ISO-8601 convention).
// Both bounds are UTC midnights; the window is inclusive on both ends.
func WeekOf(t time.Time) (weekStart, weekEnd time.Time) {
	day := DayOf(t)
	// time.Weekday numbers Sunday as 0; shift so Monday is 0.
	offset := (int(day.Weekday()) + 6) % 7
	weekStart = day.AddDate(0, 0, -offset)
	weekEnd = weekStart.AddDate(0, 0, 6)
	return weekStart, weekEnd
}

// PreviousWeek returns the last complete Monday–Sunday week before t.
func PreviousWeek(t time.Time) (weekStart, weekEnd time.Time) {
	start, _ := WeekOf(t)
	return start.AddDate(0, 0, -7), start.AddDate(0, 0, -1)
}
