package bookings

import (
	"testing"

	"voyago/models"
	"voyago/validate"
)

func TestCreateRequestParticipantValidation(t *testing.T) {
	base := createRequest{
		TourID:        "tour1",
		StartDate:     "2026-07-01",
		PaymentMethod: "card",
	}

	tests := []struct {
		name         string
		participants models.Participants
		wantErr      bool
	}{
		{"one adult", models.Participants{Adults: 1}, false},
		{"family", models.Participants{Adults: 2, Children: 3}, false},
		{"no adults", models.Participants{Adults: 0, Children: 2}, true},
		{"negative children", models.Participants{Adults: 3, Children: -2}, true},
		{"negative adults", models.Participants{Adults: -1, Children: 2}, true},
		{"empty", models.Participants{}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := base
			req.Participants = tc.participants
			err := validate.Struct(req)
			if tc.wantErr && err == nil {
				t.Errorf("participants %+v accepted, want rejection", tc.participants)
			}
			if !tc.wantErr && err != nil {
				t.Errorf("participants %+v rejected: %v", tc.participants, err)
			}
		})
	}
}
