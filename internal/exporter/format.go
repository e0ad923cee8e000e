package exporter

import (
	"strconv"
	"time"
)

// DateLayout is the layout of dates in exported files
const DateLayout = "2006-01-02"

// formatFloat formats a float64 with the fewest digits that read back to
// the same value
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatNullable formats a nullable value; null is an empty cell
func formatNullable(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

// formatInt formats an int value for CSV output
func formatInt(i int) string {
	return strconv.Itoa(i)
}

// formatBool formats a boolean as True or False
func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// formatDate formats a date without its time of day
func formatDate(t time.Time) string {
	return t.Format(DateLayout)
}
