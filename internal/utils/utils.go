package utils

import "time"

const dayLayout = "2006-01-02"

// ParseDay parses a YYYY-MM-DD date as used by the report and period routes.
func ParseDay(s string) (time.Time, error) {
	return time.Parse(dayLayout, s)
}

func FormatDay(t time.Time) string {
	return t.Format(dayLayout)
}

// CurrentMonthRef is the default mes_referencia stamped on payments.
func CurrentMonthRef() string {
	return time.Now().Format("2006-01")
}
