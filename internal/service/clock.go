package service

import "time"

// Clock abstracts time.Now so open-time and expiry gates are testable.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
