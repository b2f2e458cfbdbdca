package daterange_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"shoplens/internal/daterange"
)

// TestTimeProvider returns a fixed time for deterministic tests.
type TestTimeProvider struct {
	CurrentTime time.Time
}

func (p *TestTimeProvider) Now() time.Time {
	return p.CurrentTime
}

func TestParseNormalization(t *testing.T) {
	// Fixed "today": 2024-07-15 14:30 UTC
	fixedTime := time.Date(2024, 7, 15, 14, 30, 0, 0, time.UTC)
	parser := daterange.NewParser(&TestTimeProvider{CurrentTime: fixedTime})

	defaultStart := time.Date(2024, 6, 16, 0, 0, 0, 0, time.UTC)
	defaultEnd := time.Date(2024, 7, 15, 23, 59, 59, 0, time.UTC)

	testCases := []struct {
		name          string
		start         string
		end           string
		expectedStart time.Time
		expectedEnd   time.Time
	}{
		{
			name:          "Valid pair snapped to day boundaries",
			start:         "2024-07-01",
			end:           "2024-07-10",
			expectedStart: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
			expectedEnd:   time.Date(2024, 7, 10, 23, 59, 59, 0, time.UTC),
		},
		{
			name:          "Same day is a valid single-day window",
			start:         "2024-07-10",
			end:           "2024-07-10",
			expectedStart: time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC),
			expectedEnd:   time.Date(2024, 7, 10, 23, 59, 59, 0, time.UTC),
		},
		{
			name:          "Missing values default to trailing 30-day window",
			start:         "",
			end:           "",
			expectedStart: defaultStart,
			expectedEnd:   defaultEnd,
		},
		{
			name:          "Invalid start falls back to default start only",
			start:         "not-a-date",
			end:           "2024-07-10",
			expectedStart: defaultStart,
			expectedEnd:   time.Date(2024, 7, 10, 23, 59, 59, 0, time.UTC),
		},
		{
			name:          "Invalid end falls back to default end only",
			start:         "2024-07-01",
			end:           "07/10/2024",
			expectedStart: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
			expectedEnd:   defaultEnd,
		},
		{
			name:          "Inverted pair reverts entirely to defaults, not a swap",
			start:         "2024-07-10",
			end:           "2024-07-01",
			expectedStart: defaultStart,
			expectedEnd:   defaultEnd,
		},
		{
			name:          "Future end is kept as requested",
			start:         "2024-07-01",
			end:           "2024-08-01",
			expectedStart: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
			expectedEnd:   time.Date(2024, 8, 1, 23, 59, 59, 0, time.UTC),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := parser.Parse(tc.start, tc.end)
			assert.Equal(t, tc.expectedStart, r.Start)
			assert.Equal(t, tc.expectedEnd, r.End)
		})
	}
}

func TestDefaultWindowIsThirtyDaysInclusive(t *testing.T) {
	fixedTime := time.Date(2024, 3, 31, 9, 0, 0, 0, time.UTC)
	parser := daterange.NewParser(&TestTimeProvider{CurrentTime: fixedTime})

	r := parser.Parse("", "")

	// 29 days back from end-of-today start, 30 distinct days inclusive.
	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), r.Start)
	assert.Equal(t, time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC), r.End)

	days := int(r.End.Truncate(24*time.Hour).Sub(r.Start)/(24*time.Hour)) + 1
	assert.Equal(t, daterange.DefaultWindowDays, days)
}

func TestRangeContains(t *testing.T) {
	parser := daterange.NewParser(&TestTimeProvider{
		CurrentTime: time.Date(2024, 7, 15, 12, 0, 0, 0, time.UTC),
	})
	r := parser.Parse("2024-07-01", "2024-07-10")

	assert.True(t, r.Contains(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, r.Contains(time.Date(2024, 7, 10, 23, 59, 59, 0, time.UTC)))
	assert.True(t, r.Contains(time.Date(2024, 7, 5, 16, 45, 0, 0, time.UTC)))
	assert.False(t, r.Contains(time.Date(2024, 6, 30, 23, 59, 59, 0, time.UTC)))
	assert.False(t, r.Contains(time.Date(2024, 7, 11, 0, 0, 0, 0, time.UTC)))
}

func TestRangeISOHelpers(t *testing.T) {
	parser := daterange.NewParser(&TestTimeProvider{
		CurrentTime: time.Date(2024, 7, 15, 12, 0, 0, 0, time.UTC),
	})
	r := parser.Parse("2024-07-01", "2024-07-10")

	assert.Equal(t, "2024-07-01", r.StartISO())
	assert.Equal(t, "2024-07-10", r.EndISO())
}
