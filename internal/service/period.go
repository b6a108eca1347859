package service

import (
	"time"

	"github.com/gsagg03-cmyk/erpx/internal/repository"
)

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func startOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

func dayPeriod(now time.Time) repository.Period {
	from := startOfDay(now)
	to := from.AddDate(0, 0, 1)
	return repository.Period{From: &from, To: &to}
}

func monthPeriod(now time.Time) repository.Period {
	from := startOfMonth(now)
	to := from.AddDate(0, 1, 0)
	return repository.Period{From: &from, To: &to}
}

// parseDateRange turns inclusive YYYY-MM-DD bounds into a half-open period.
// Either bound may be empty.
func parseDateRange(start, end string, loc *time.Location) (repository.Period, error) {
	var p repository.Period
	if start != "" {
		from, err := time.ParseInLocation("2006-01-02", start, loc)
		if err != nil {
			return p, validationErr("invalid_date", "start_date", "Start date must be YYYY-MM-DD")
		}
		p.From = &from
	}
	if end != "" {
		to, err := time.ParseInLocation("2006-01-02", end, loc)
		if err != nil {
			return p, validationErr("invalid_date", "end_date", "End date must be YYYY-MM-DD")
		}
		to = to.AddDate(0, 0, 1)
		p.To = &to
	}
	if p.From != nil && p.To != nil && !p.From.Before(*p.To) {
		return p, validationErr("invalid_date_range", "end_date", "End date must not be before start date")
	}
	return p, nil
}
