// Package analytics computes sign-up statistics over the users collection.
package analytics

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/osse101/AdventureAdmin_Go/internal/domain"
	"github.com/osse101/AdventureAdmin_Go/internal/logger"
)

const dateLayout = "2006-01-02"

var monthsByName = func() map[string]time.Month {
	m := make(map[string]time.Month, 12)
	for month := time.January; month <= time.December; month++ {
		m[month.String()] = month
	}
	return m
}()

// GrowthQuery selects the month of the histogram. Day is zero when not requested.
type GrowthQuery struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseGrowthQuery validates the raw query values. month accepts an English month
// name in any case or a number from 1 to 12. day may be empty.
func ParseGrowthQuery(year, month, day string) (GrowthQuery, error) {
	var q GrowthQuery

	y, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil || y < 1 || y > 9999 {
		return q, domain.NewValidationError(domain.ErrMsgInvalidYear)
	}
	q.Year = y

	m, ok := parseMonth(month)
	if !ok {
		return q, domain.NewValidationError(domain.ErrMsgInvalidMonth)
	}
	q.Month = m

	if day = strings.TrimSpace(day); day != "" {
		d, err := strconv.Atoi(day)
		if err != nil || d < 1 || d > daysIn(q.Year, q.Month) {
			return q, domain.NewValidationError(domain.ErrMsgInvalidDay)
		}
		q.Day = d
	}
	return q, nil
}

func parseMonth(s string) (time.Month, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > 12 {
			return 0, false
		}
		return time.Month(n), true
	}
	// Casers keep state, so each call gets its own.
	m, ok := monthsByName[cases.Title(language.English).String(s)]
	return m, ok
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// BuildGrowthReport buckets non-admin users by UTC creation day over the queried month.
// Users without a type are counted.
func BuildGrowthReport(q GrowthQuery, users []domain.User) domain.GrowthReport {
	days := daysIn(q.Year, q.Month)
	start := time.Date(q.Year, q.Month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, days)

	counts := make([]int, days)
	for _, u := range users {
		if u.IsAdmin() {
			continue
		}
		created := u.CreatedAt.UTC()
		if created.Before(start) || !created.Before(end) {
			continue
		}
		counts[created.Day()-1]++
	}

	peak := 1
	total := 0
	for _, c := range counts {
		total += c
		peak = max(peak, c)
	}

	report := domain.GrowthReport{
		Year:        q.Year,
		Month:       q.Month.String(),
		TotalUsers:  total,
		DailyGrowth: make([]domain.DailyGrowth, days),
	}
	for i, c := range counts {
		report.DailyGrowth[i] = domain.DailyGrowth{
			Day:        i + 1,
			Date:       start.AddDate(0, 0, i).Format(dateLayout),
			Count:      c,
			Percentage: int(math.Round(float64(c) / float64(peak) * 100)),
		}
	}

	if q.Day > 0 {
		dayTotal := counts[q.Day-1]
		report.Day = q.Day
		report.DayTotal = &dayTotal
	}
	return report
}

// UserLister loads every user profile.
type UserLister interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
}

// Service serves growth reports from a user repository.
type Service struct {
	users UserLister
}

func NewService(users UserLister) *Service {
	return &Service{users: users}
}

// Growth loads all users and builds the report for q.
func (s *Service) Growth(ctx context.Context, q GrowthQuery) (domain.GrowthReport, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return domain.GrowthReport{}, fmt.Errorf("failed to load users: %w", err)
	}

	report := BuildGrowthReport(q, users)
	logger.FromContext(ctx).Debug("Growth report built",
		"year", q.Year, "month", report.Month, "users_scanned", len(users), "total", report.TotalUsers)
	return report, nil
}
