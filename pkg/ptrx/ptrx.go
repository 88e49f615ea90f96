package ptrx

import "time"

func String(s string) *string { return &s }
func Int(i int) *int          { return &i }
func Time(t time.Time) *time.Time {
	return &t
}

// StringValue dereferences p, returning "" for nil
func StringValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

