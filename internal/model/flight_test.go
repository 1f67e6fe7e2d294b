package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlightStatus(t *testing.T) {
	cases := []struct {
		in   string
		want FlightStatus
	}{
		{"CheckingIn", StatusCheckingIn},
		{"boarding", StatusBoarding},
		{"DEPARTED", StatusDeparted},
		{" Delayed ", StatusDelayed},
		{"cancelled", StatusCancelled},
	}
	for _, tc := range cases {
		got, err := ParseFlightStatus(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got)
	}
}

func TestParseFlightStatusRejectsUnknown(t *testing.T) {
	for _, in := range []string{"", "Landed", "checking-in", "on time"} {
		_, err := ParseFlightStatus(in)
		assert.Error(t, err, "input %q", in)
		if err != nil {
			assert.Contains(t, err.Error(), "invalid flight status")
		}
	}
}
