package booking

import (
	"math"
	"sort"
	"time"

	"github.com/staybook/service-booking/internal/platform/domain"
)

// Guests is a value object describing the party and the number of rooms it needs.
type Guests struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
	Rooms    int `json:"rooms"`
}

// Defaults applied when a request omits a count.
const (
	DefaultAdults   = 1
	DefaultChildren = 0
	DefaultRooms    = 1
)

// NewGuests converts raw request counts. nil means "not supplied" and takes the
// default. Every count must be integral; adults and rooms must be at least one.
func NewGuests(adults, children, rooms *float64) (Guests, error) {
	a, err := count("adults", adults, DefaultAdults, 1)
	if err != nil {
		return Guests{}, err
	}
	c, err := count("children", children, DefaultChildren, 0)
	if err != nil {
		return Guests{}, err
	}
	r, err := count("rooms", rooms, DefaultRooms, 1)
	if err != nil {
		return Guests{}, err
	}
	return Guests{Adults: a, Children: c, Rooms: r}, nil
}

func count(field string, v *float64, def, min int) (int, error) {
	if v == nil {
		return def, nil
	}
	f := *v
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, domain.NewError(domain.KindInvalidGuestCount, "%s must be a whole number", field)
	}
	if f < float64(min) {
		return 0, domain.NewError(domain.KindInvalidGuestCount, "%s must be at least %d", field, min)
	}
	if f > math.MaxInt32 {
		return 0, domain.NewError(domain.KindInvalidGuestCount, "%s is too large", field)
	}
	return int(f), nil
}

// Total returns adults plus children.
func (g Guests) Total() int { return g.Adults + g.Children }

// FitsCapacity checks the party against per-room capacity.
func (g Guests) FitsCapacity(perRoom int) error {
	if perRoom > 0 && g.Total() > perRoom*g.Rooms {
		return domain.NewError(domain.KindInvalidGuestCount,
			"%d guests exceed capacity of %d room(s) sleeping %d each", g.Total(), g.Rooms, perRoom)
	}
	return nil
}

// Reservation is the inventory footprint of an existing booking.
type Reservation struct {
	Stay  Stay
	Rooms int
}

// PeakRooms returns the largest number of rooms held on any single night of
// stay by the given reservations. It sweeps the reservation boundaries, so the
// cost does not depend on the length of the stay.
func PeakRooms(stay Stay, reservations []Reservation) int {
	type edge struct {
		at    time.Time
		delta int
	}
	edges := make([]edge, 0, 2*len(reservations))
	for _, r := range reservations {
		if !r.Stay.Overlaps(stay) {
			continue
		}
		in, out := r.Stay.CheckIn, r.Stay.CheckOut
		if in.Before(stay.CheckIn) {
			in = stay.CheckIn
		}
		if out.After(stay.CheckOut) {
			out = stay.CheckOut
		}
		edges = append(edges, edge{in, r.Rooms}, edge{out, -r.Rooms})
	}
	// Departures free their rooms before same-day arrivals take them.
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].at.Equal(edges[j].at) {
			return edges[i].delta < edges[j].delta
		}
		return edges[i].at.Before(edges[j].at)
	})

	peak, held := 0, 0
	for _, e := range edges {
		held += e.delta
		if held > peak {
			peak = held
		}
	}
	return peak
}

// RemainingRooms returns how many rooms of a type with the given inventory are
// still free on every night of stay. Never negative.
func RemainingRooms(totalRooms int, stay Stay, reservations []Reservation) int {
	remaining := totalRooms - PeakRooms(stay, reservations)
	if remaining < 0 {
		return 0
	}
	return remaining
}
