package config

import (
	"fmt"
	"time"
	_ "time/tzdata"
)

// InterviewConfig drives the interview lifecycle: the wall clock used to
// project statuses, transition locking and the reminder job.
type InterviewConfig struct {
	TimeZone string
	location *time.Location

	LockBackend string // "redis" or "memory"
	LockTTL     time.Duration

	ReminderEnabled  bool
	ReminderSchedule string
	ReminderLeadTime time.Duration
}

func loadInterviewConfig() InterviewConfig {
	return InterviewConfig{
		TimeZone:         getEnv("INTERVIEW_TIMEZONE", "Asia/Ho_Chi_Minh"),
		LockBackend:      getEnv("INTERVIEW_LOCK_BACKEND", "redis"),
		LockTTL:          getEnvDuration("INTERVIEW_LOCK_TTL", 10*time.Second),
		ReminderEnabled:  getEnvBool("INTERVIEW_REMINDER_ENABLED", true),
		ReminderSchedule: getEnv("INTERVIEW_REMINDER_SCHEDULE", "@every 15m"),
		ReminderLeadTime: getEnvDuration("INTERVIEW_REMINDER_LEAD_TIME", 24*time.Hour),
	}
}

func (c *InterviewConfig) resolve() error {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return fmt.Errorf("INTERVIEW_TIMEZONE %q: %w", c.TimeZone, err)
	}
	c.location = loc

	switch c.LockBackend {
	case "redis", "memory":
	default:
		return fmt.Errorf("INTERVIEW_LOCK_BACKEND must be redis or memory, got %q", c.LockBackend)
	}
	if c.LockTTL <= 0 {
		return fmt.Errorf("INTERVIEW_LOCK_TTL must be positive")
	}
	return nil
}

// Location is the zone "same calendar day" is judged in. Falls back to
// time.Local when the config was built by hand.
func (c InterviewConfig) Location() *time.Location {
	if c.location != nil {
		return c.location
	}
	if c.TimeZone != "" {
		if loc, err := time.LoadLocation(c.TimeZone); err == nil {
			return loc
		}
	}
	return time.Local
}
