package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/AdventureAdmin_Go/internal/domain"
	"github.com/osse101/AdventureAdmin_Go/internal/users"
)

func user(id, typ string, created time.Time) domain.User {
	return domain.User{ID: id, Type: typ, CreatedAt: created}
}

func at(day, hour int) time.Time {
	return time.Date(2024, time.February, day, hour, 0, 0, 0, time.UTC)
}

func TestParseGrowthQuery(t *testing.T) {
	tests := []struct {
		name             string
		year, month, day string
		want             GrowthQuery
		wantErr          string
	}{
		{name: "month name", year: "2024", month: "march", want: GrowthQuery{Year: 2024, Month: time.March}},
		{name: "upper case name", year: "2024", month: "DECEMBER", want: GrowthQuery{Year: 2024, Month: time.December}},
		{name: "month number", year: "2024", month: "2", day: "29", want: GrowthQuery{Year: 2024, Month: time.February, Day: 29}},
		{name: "leap day in common year", year: "2023", month: "February", day: "29", wantErr: domain.ErrMsgInvalidDay},
		{name: "day zero", year: "2024", month: "May", day: "0", wantErr: domain.ErrMsgInvalidDay},
		{name: "unknown month", year: "2024", month: "Smarch", wantErr: domain.ErrMsgInvalidMonth},
		{name: "month thirteen", year: "2024", month: "13", wantErr: domain.ErrMsgInvalidMonth},
		{name: "empty month", year: "2024", month: "", wantErr: domain.ErrMsgInvalidMonth},
		{name: "bad year", year: "twenty", month: "May", wantErr: domain.ErrMsgInvalidYear},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseGrowthQuery(tt.year, tt.month, tt.day)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrValidation)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildGrowthReportFiltersAdminsAndBuckets(t *testing.T) {
	all := []domain.User{
		user("a", "", at(1, 0)),
		user("b", "", at(1, 23)),
		user("c", "Player", at(2, 12)),
		user("admin", domain.UserTypeAdmin, at(2, 12)),
		user("late", "", at(29, 23)),
		user("next-month", "", time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)),
		user("prev-month", "", time.Date(2024, time.January, 31, 23, 59, 59, 0, time.UTC)),
		user("offset", "", time.Date(2024, time.February, 3, 1, 0, 0, 0, time.FixedZone("CET", 3600))),
	}

	report := BuildGrowthReport(GrowthQuery{Year: 2024, Month: time.February}, all)

	assert.Equal(t, "February", report.Month)
	require.Len(t, report.DailyGrowth, 29)
	assert.Nil(t, report.DayTotal)

	want := []domain.DailyGrowth{
		{Day: 1, Date: "2024-02-01", Count: 2, Percentage: 100},
		{Day: 2, Date: "2024-02-02", Count: 1, Percentage: 50},
		{Day: 3, Date: "2024-02-03", Count: 1, Percentage: 50},
	}
	if diff := cmp.Diff(want, report.DailyGrowth[:3]); diff != "" {
		t.Errorf("daily growth mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1, report.DailyGrowth[28].Count)
	assert.Equal(t, 5, report.TotalUsers)
}

func TestBuildGrowthReportInvariants(t *testing.T) {
	tests := []struct {
		name  string
		users []domain.User
	}{
		{"no users", nil},
		{"only admins", []domain.User{user("x", domain.UserTypeAdmin, at(5, 1))}},
		{"single peak", []domain.User{user("1", "", at(5, 1)), user("2", "", at(5, 2)), user("3", "", at(7, 2)), user("4", "", at(8, 2))}},
		{"one user", []domain.User{user("1", "", at(28, 1))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := BuildGrowthReport(GrowthQuery{Year: 2024, Month: time.February}, tt.users)

			sum, hundreds := 0, 0
			for _, d := range report.DailyGrowth {
				sum += d.Count
				assert.GreaterOrEqual(t, d.Percentage, 0)
				assert.LessOrEqual(t, d.Percentage, 100)
				if d.Percentage == 100 {
					hundreds++
				}
			}
			assert.Equal(t, report.TotalUsers, sum)
			if sum == 0 {
				assert.Zero(t, hundreds)
			} else {
				assert.Equal(t, 1, hundreds)
			}
		})
	}
}

func TestBuildGrowthReportDayTotal(t *testing.T) {
	all := []domain.User{user("1", "", at(5, 1)), user("2", "", at(5, 2)), user("3", "", at(6, 2))}

	report := BuildGrowthReport(GrowthQuery{Year: 2024, Month: time.February, Day: 5}, all)

	require.NotNil(t, report.DayTotal)
	assert.Equal(t, 2, *report.DayTotal)
	assert.Equal(t, 5, report.Day)
	assert.Equal(t, 3, report.TotalUsers)
	assert.Len(t, report.DailyGrowth, 29)
}

type failingLister struct{}

func (failingLister) ListUsers(context.Context) ([]domain.User, error) {
	return nil, errors.New("firestore unavailable")
}

func TestServiceGrowth(t *testing.T) {
	repo := users.NewMemoryRepository(user("1", "", at(10, 9)), user("2", domain.UserTypeAdmin, at(10, 9)))

	report, err := NewService(repo).Growth(context.Background(), GrowthQuery{Year: 2024, Month: time.February})
	require.NoError(t, err)
	assert.Equal(t, 1, report.TotalUsers)

	_, err = NewService(failingLister{}).Growth(context.Background(), GrowthQuery{Year: 2024, Month: time.February})
	assert.Error(t, err)
}
