package booking

import (
	"fmt"
	"strings"

	"ridemarket/internal/seatmap"
)

// SeatClaim is one requested seat with the traveller's gender.
type SeatClaim struct {
	Seat   string
	Gender string
}

// SeatTakenError reports a requested seat that is already occupied.
type SeatTakenError struct {
	Seat string
}

func (e *SeatTakenError) Error() string {
	return fmt.Sprintf("seat %s is already booked", e.Seat)
}

// GenderConflictError reports a male claim on a seat whose partner seat is
// held by a female traveller.
type GenderConflictError struct {
	Seat    string
	Partner string
}

func (e *GenderConflictError) Error() string {
	return fmt.Sprintf("seat %s cannot be booked next to occupied seat %s", e.Seat, e.Partner)
}

// DuplicateSeatError reports the same seat appearing twice in one request.
type DuplicateSeatError struct {
	Seat string
}

func (e *DuplicateSeatError) Error() string {
	return fmt.Sprintf("seat %s requested more than once", e.Seat)
}

// EvaluateSeats decides whether the claimed seats can all be booked on a trip.
// occupied maps already-booked seat ids to the passenger's gender (empty when
// unknown). The whole claim set is accepted or rejected as a unit; the first
// violation found is returned.
//
// Occupancy is checked first, then the adjacency rule: a male traveller cannot
// claim a seat whose partner is held by a female traveller. The rule also
// applies between two seats of the same request, so a mixed pair cannot be
// assembled by booking both sides at once. Seat ids the layout cannot resolve
// have no partner and fall through to the occupancy check alone.
func EvaluateSeats(layout *seatmap.Layout, claims []SeatClaim, occupied map[string]string) error {
	if len(claims) == 0 {
		return ErrNoSeats
	}

	requested := make(map[string]string, len(claims))
	for _, c := range claims {
		if _, dup := requested[c.Seat]; dup {
			return &DuplicateSeatError{Seat: c.Seat}
		}
		requested[c.Seat] = c.Gender
	}

	for _, c := range claims {
		if _, taken := occupied[c.Seat]; taken {
			return &SeatTakenError{Seat: c.Seat}
		}
	}

	for _, c := range claims {
		partner := layout.Partner(c.Seat)
		if partner == "" {
			continue
		}
		partnerGender, taken := occupied[partner]
		if !taken {
			var inRequest bool
			partnerGender, inRequest = requested[partner]
			if !inRequest {
				continue
			}
		}
		if maleBesideFemale(c.Gender, partnerGender) {
			return &GenderConflictError{Seat: c.Seat, Partner: partner}
		}
	}

	return nil
}

// maleBesideFemale fires in one direction only: a male claim next to a seat
// held by a female traveller. A female or unstated claim next to a male is
// fine, and unknown or non-binary entries never block a booking. A mixed pair
// inside one request still trips the rule, because the male side of the pair
// is evaluated against the female side.
func maleBesideFemale(claim, partner string) bool {
	return normGender(claim) == "male" && normGender(partner) == "female"
}

func normGender(g string) string {
	return strings.ToLower(strings.TrimSpace(g))
}
