//go:build !windows

package clock

import "time"

// SetResolution requests a scheduler tick of period milliseconds. This is
// only relevant on windows.
func SetResolution(period int) {}

func getTimer() int64 {
	return time.Now().UnixNano()
}

func timerBetween(start, end int64) int64 {
	return end - start
}
