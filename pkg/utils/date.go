package utils

import "time"

const humanReadableLayout = "02 January 2006, 15:04 MST"

// HumanReadableTime formats a unix timestamp for customer-facing messages.
// A nil location means UTC.
func HumanReadableTime(unix int64, location *time.Location) string {
	if location == nil {
		location = time.UTC
	}

	return time.Unix(unix, 0).In(location).Format(humanReadableLayout)
}
