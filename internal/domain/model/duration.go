package model

import (
	"regexp"
	"strconv"
)

var isoDurationPattern = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

// ParseDuration parses an ISO-8601 duration tag such as "PT1H2M3S".
// Missing fields are zero; input without a PT section yields the zero Duration.
func ParseDuration(s string) Duration {
	matches := isoDurationPattern.FindStringSubmatch(s)
	if matches == nil {
		return Duration{}
	}

	return Duration{
		Hours:   atoiOrZero(matches[1]),
		Minutes: atoiOrZero(matches[2]),
		Seconds: atoiOrZero(matches[3]),
	}
}

func atoiOrZero(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
