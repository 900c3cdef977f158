package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlightInfoValidate(t *testing.T) {
	tests := []struct {
		name    string
		info    FlightInfo
		wantErr bool
	}{
		{"valid", FlightInfo{FlightNumber: "EY123", Date: "2026-01-20", DisruptionEvent: "hydraulic fault"}, false},
		{"valid four digit", FlightInfo{FlightNumber: "EY1234", Date: "2026-01-20", DisruptionEvent: "x"}, false},
		{"bad flight number", FlightInfo{FlightNumber: "E123", Date: "2026-01-20", DisruptionEvent: "x"}, true},
		{"lowercase flight number", FlightInfo{FlightNumber: "ey123", Date: "2026-01-20", DisruptionEvent: "x"}, true},
		{"bad date", FlightInfo{FlightNumber: "EY123", Date: "Jan 20 2026", DisruptionEvent: "x"}, true},
		{"empty disruption", FlightInfo{FlightNumber: "EY123", Date: "2026-01-20", DisruptionEvent: ""}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.info.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
