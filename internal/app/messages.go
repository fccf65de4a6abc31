package app

import "time"

// StatusBarTickMsg is sent every second to update the status bar clock.
type StatusBarTickMsg struct {
	Timestamp time.Time
}
