package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParse_AllLayoutsRoundTrip(t *testing.T) {
	want := day(2024, time.March, 5)
	inputs := []string{
		"2024-03-05",
		"2024-3-5",
		"March 5, 2024",
		"Mar 5, 2024",
		"5 March 2024",
		"5 Mar 2024",
		"03/05/2024",
		"2024-03-05 18:30:00",
		"2024-03-05T18:30:00Z",
		"2024-03-05T18:30:00+02:00",
		"2024-03-05T18:30:00",
		"  March 5, 2024  ",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			got, ok := Parse(in)
			require.True(t, ok)
			assert.Equal(t, want, got)
		})
	}
}

func TestParse_MonthFirstWinsOverDayFirst(t *testing.T) {
	got, ok := Parse("04/05/2024")
	require.True(t, ok)
	assert.Equal(t, day(2024, time.April, 5), got)

	// 13 cannot be a month so the day-first layout applies
	got, ok = Parse("13/05/2024")
	require.True(t, ok)
	assert.Equal(t, day(2024, time.May, 13), got)
}

func TestParse_Unparseable(t *testing.T) {
	for _, in := range []string{"", "   ", "yesterday", "2 weeks ago", "Updated recently", "32/13/2024"} {
		_, ok := Parse(in)
		assert.False(t, ok, in)
	}
}

func TestInRange_InclusiveBounds(t *testing.T) {
	start := day(2024, time.January, 1)
	end := day(2024, time.June, 1)

	assert.True(t, InRange(start, start, end))
	assert.True(t, InRange(end, start, end))
	assert.True(t, InRange(day(2024, time.March, 15), start, end))
	assert.False(t, InRange(day(2023, time.December, 31), start, end))
	assert.False(t, InRange(day(2024, time.June, 2), start, end))
}

func TestShouldStop(t *testing.T) {
	start := day(2024, time.January, 1)

	assert.True(t, ShouldStop(day(2023, time.December, 31), true, start))
	assert.False(t, ShouldStop(start, true, start))
	assert.False(t, ShouldStop(day(2024, time.February, 1), true, start))

	// unparseable dates never halt pagination
	d, ok := Parse("not a date")
	assert.False(t, ShouldStop(d, ok, start))
}

func TestReformat(t *testing.T) {
	assert.Equal(t, "2024-03-05", Reformat("March 5, 2024"))
	assert.Equal(t, "a while ago", Reformat("a while ago"))
}

func TestValidateWindow(t *testing.T) {
	start, end, err := ValidateWindow("2024-01-01", "2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, day(2024, time.January, 1), start)
	assert.Equal(t, day(2024, time.June, 1), end)

	_, _, err = ValidateWindow("2024-06-02", "2024-06-01")
	assert.Error(t, err)

	_, _, err = ValidateWindow("01/01/2024", "2024-06-01")
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, _, err = ValidateWindow("2024-01-01", "June 1")
	assert.ErrorIs(t, err, ErrInvalidDate)
}
