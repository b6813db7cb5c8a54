package cli

import (
	"testing"
	"time"

	"github.com/ethanhollins/cc-web-sub001/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDay(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"", at(11, 0, 0)},
		{"today", at(11, 0, 0)},
		{"Tomorrow", at(12, 0, 0)},
		{"yesterday", at(10, 0, 0)},
		{"wednesday", at(11, 0, 0)},
		{"fri", at(13, 0, 0)},
		{"monday", at(16, 0, 0)},
		{"+3d", at(14, 0, 0)},
		{"-1w", time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)},
		{"2025-07-01", time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDay(tt.in, testNow)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDay_Invalid(t *testing.T) {
	for _, in := range []string{"someday", "+3m", "+xd", "2025-13-01", "mo"} {
		_, err := parseDay(in, testNow)
		assert.Error(t, err, in)
	}
}

func TestParseDateTime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"14:30", at(11, 14, 30)},
		{"tomorrow 09:00", at(12, 9, 0)},
		{"2025-06-20 07:15", at(20, 7, 15)},
		{"2025-06-20T07:15", at(20, 7, 15)},
		{"+1w 10:00", at(18, 10, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDateTime(tt.in, testNow)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := parseDateTime("", testNow)
	assert.Error(t, err)
	_, err = parseDateTime("tomorrow 25:00", testNow)
	assert.Error(t, err)
	_, err = parseDateTime("never 10:00", testNow)
	assert.Error(t, err)
}

func TestResolveEnd(t *testing.T) {
	start := at(11, 10, 0)

	end, err := resolveEnd(start, time.Time{}, 45*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, at(11, 10, 45), end)

	end, err = resolveEnd(start, at(11, 12, 0), time.Hour)
	require.NoError(t, err)
	assert.Equal(t, at(11, 12, 0), end)

	_, err = resolveEnd(start, at(11, 9, 0), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidRange)

	_, err = resolveEnd(start, time.Time{}, 0)
	assert.Error(t, err)
}

func TestFlagValues(t *testing.T) {
	var typ domain.TicketType
	require.NoError(t, ticketTypeValue{&typ}.Set("EPIC"))
	assert.Equal(t, domain.TicketEpic, typ)
	assert.Error(t, ticketTypeValue{&typ}.Set("chore"))

	var status domain.TicketStatus
	require.NoError(t, ticketStatusValue{&status}.Set("in-progress"))
	assert.Equal(t, domain.StatusInProgress, status)

	var day time.Time
	dv := newDayValue(func() time.Time { return testNow }, &day)
	assert.Equal(t, "", dv.String())
	require.NoError(t, dv.Set("tomorrow"))
	assert.Equal(t, "2025-06-12", dv.String())

	var dt time.Time
	dtv := newDateTimeValue(func() time.Time { return testNow }, &dt)
	require.NoError(t, dtv.Set("fri 16:00"))
	assert.Equal(t, "2025-06-13 16:00", dtv.String())
}
