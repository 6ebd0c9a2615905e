package application

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/staybook/service-booking/internal/domain/audit"
	bookingDomain "github.com/staybook/service-booking/internal/domain/booking"
	complaintDomain "github.com/staybook/service-booking/internal/domain/complaint"
	hotelDomain "github.com/staybook/service-booking/internal/domain/hotel"
	reviewDomain "github.com/staybook/service-booking/internal/domain/review"
	userDomain "github.com/staybook/service-booking/internal/domain/user"
	"github.com/staybook/service-booking/internal/platform/auth"
	"github.com/staybook/service-booking/internal/platform/domain"
	"github.com/staybook/service-booking/internal/platform/kafka"
)

// --- bookings ---

type memBookings struct {
	mu        sync.Mutex
	items     map[uuid.UUID]*bookingDomain.Booking
	versions  map[uuid.UUID]int64
	hotels    *memHotels
	conflicts int // SaveWithinInventory fails with Conflict this many times
	saves     int
}

func newMemBookings(hotels *memHotels) *memBookings {
	return &memBookings{items: map[uuid.UUID]*bookingDomain.Booking{}, versions: map[uuid.UUID]int64{}, hotels: hotels}
}

func (r *memBookings) FindByID(_ context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.items[id]
	if !ok {
		return nil, domain.NewNotFoundError("Booking", id.String())
	}
	return clone(b), nil
}

func (r *memBookings) FindByReference(_ context.Context, ref string) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.items {
		if b.Reference() == ref {
			return clone(b), nil
		}
	}
	return nil, domain.NewNotFoundError("Booking", ref)
}

func (r *memBookings) List(_ context.Context, f bookingDomain.ListFilter, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*bookingDomain.Booking
	for _, b := range r.items {
		if f.UserID != nil && b.UserID() != *f.UserID {
			continue
		}
		if f.HotelIDs != nil && !containsID(f.HotelIDs, b.HotelID()) {
			continue
		}
		if f.Status != nil && b.Status() != *f.Status {
			continue
		}
		out = append(out, clone(b))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt().After(out[j].CreatedAt()) })
	return out, int64(len(out)), nil
}

func (r *memBookings) FindDueForCompletion(_ context.Context, today time.Time, limit int) ([]*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*bookingDomain.Booking
	for _, b := range r.items {
		if b.Status() == bookingDomain.StatusConfirmed && b.Stay().CheckOut.Before(today) && len(out) < limit {
			out = append(out, clone(b))
		}
	}
	return out, nil
}

func (r *memBookings) CountByStatus(_ context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[string]int64{}
	for _, b := range r.items {
		counts[string(b.Status())]++
	}
	return counts, nil
}

func (r *memBookings) StatsForHotels(_ context.Context, hotelIDs []uuid.UUID) (*bookingDomain.OwnerStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := &bookingDomain.OwnerStats{ByStatus: map[string]int64{}}
	for _, b := range r.items {
		if !containsID(hotelIDs, b.HotelID()) {
			continue
		}
		stats.ByStatus[string(b.Status())]++
		if b.Status() != bookingDomain.StatusCancelled {
			stats.RevenueCents += b.TotalPriceCents()
		}
	}
	return stats, nil
}

func (r *memBookings) Reservations(_ context.Context, roomTypeID uuid.UUID, stay bookingDomain.Stay, exclude uuid.UUID) ([]bookingDomain.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reservations(roomTypeID, stay, exclude), nil
}

func (r *memBookings) reservations(roomTypeID uuid.UUID, stay bookingDomain.Stay, exclude uuid.UUID) []bookingDomain.Reservation {
	var out []bookingDomain.Reservation
	for _, b := range r.items {
		if b.RoomTypeID() != roomTypeID || b.ID() == exclude || !b.Status().HoldsInventory() {
			continue
		}
		if b.Stay().Overlaps(stay) {
			out = append(out, b.Reservation())
		}
	}
	return out
}

func (r *memBookings) SaveWithinInventory(_ context.Context, b *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	if r.conflicts > 0 {
		r.conflicts--
		return domain.NewConflictError("serialization failure")
	}
	if err := r.fits(b); err != nil {
		return err
	}
	r.items[b.ID()] = clone(b)
	r.versions[b.ID()] = b.Version()
	return nil
}

func (r *memBookings) UpdateWithinInventory(_ context.Context, b *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fits(b); err != nil {
		return err
	}
	return r.update(b)
}

func (r *memBookings) Update(_ context.Context, b *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.update(b)
}

func (r *memBookings) update(b *bookingDomain.Booking) error {
	if r.versions[b.ID()] != b.Version()-1 {
		return domain.NewConflictError("booking was modified by another transaction")
	}
	r.items[b.ID()] = clone(b)
	r.versions[b.ID()] = b.Version()
	return nil
}

func (r *memBookings) fits(b *bookingDomain.Booking) error {
	rt, ok := r.hotels.rooms[b.RoomTypeID()]
	if !ok {
		return domain.NewNotFoundError("RoomType", b.RoomTypeID().String())
	}
	held := r.reservations(b.RoomTypeID(), b.Stay(), b.ID())
	if bookingDomain.RemainingRooms(rt.Spec().TotalRooms, b.Stay(), held) < b.Guests().Rooms {
		return domain.NewError(domain.KindUnavailable, "no rooms left")
	}
	return nil
}

// setReviewed mirrors the conditional UPDATE done by the review repository.
func (r *memBookings) setReviewed(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.items[id]
	if !ok || b.Status() != bookingDomain.StatusCompleted || b.Reviewed() {
		return false
	}
	_ = b.MarkReviewed()
	b.IncrementVersion()
	r.versions[id] = b.Version()
	return true
}

func clone(b *bookingDomain.Booking) *bookingDomain.Booking {
	return bookingDomain.ReconstructBooking(b.ID(), b.Reference(), b.UserID(), b.HotelID(), b.RoomTypeID(),
		b.Status(), b.Stay(), b.Guests(), b.Reviewed(), b.PricePerNightCents(), b.TotalPriceCents(), b.Currency(),
		b.ConfirmedAt(), b.CancelledAt(), b.CompletedAt(), b.CancelledBy(), b.CancelNote(), b.Version(),
		b.CreatedAt(), b.UpdatedAt())
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// --- hotels ---

type memHotels struct {
	mu     sync.Mutex
	hotels map[uuid.UUID]*hotelDomain.Hotel
	rooms  map[uuid.UUID]*hotelDomain.RoomType
}

func newMemHotels() *memHotels {
	return &memHotels{hotels: map[uuid.UUID]*hotelDomain.Hotel{}, rooms: map[uuid.UUID]*hotelDomain.RoomType{}}
}

func (r *memHotels) FindByID(_ context.Context, id uuid.UUID) (*hotelDomain.Hotel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.hotels[id]
	if !ok {
		return nil, domain.NewNotFoundError("Hotel", id.String())
	}
	cp := *h
	return &cp, nil
}

func (r *memHotels) List(_ context.Context, f hotelDomain.ListFilter, page, limit int) ([]*hotelDomain.Hotel, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*hotelDomain.Hotel
	for _, h := range r.hotels {
		if f.OwnerID != nil && h.OwnerID() != *f.OwnerID {
			continue
		}
		if f.Approval != nil && h.Approval() != *f.Approval {
			continue
		}
		if !f.IncludeArchived && h.Archived() {
			continue
		}
		if f.City != "" && h.Details().City != f.City {
			continue
		}
		out = append(out, h)
	}
	return out, int64(len(out)), nil
}

func (r *memHotels) IDsByOwner(_ context.Context, ownerID uuid.UUID) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []uuid.UUID
	for id, h := range r.hotels {
		if h.OwnerID() == ownerID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *memHotels) Save(_ context.Context, h *hotelDomain.Hotel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hotels[h.ID()] = h
	return nil
}

func (r *memHotels) Update(_ context.Context, h *hotelDomain.Hotel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.hotels[h.ID()]
	if !ok || cur.Version() != h.Version()-1 {
		return domain.NewConflictError("hotel was modified by another transaction")
	}
	r.hotels[h.ID()] = h
	return nil
}

func (r *memHotels) FindRoomType(_ context.Context, id uuid.UUID) (*hotelDomain.RoomType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rt, ok := r.rooms[id]
	if !ok {
		return nil, domain.NewNotFoundError("RoomType", id.String())
	}
	return rt, nil
}

func (r *memHotels) ListRoomTypes(_ context.Context, hotelID uuid.UUID, includeArchived bool) ([]*hotelDomain.RoomType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*hotelDomain.RoomType
	for _, rt := range r.rooms {
		if rt.HotelID() == hotelID && (includeArchived || !rt.Archived()) {
			out = append(out, rt)
		}
	}
	return out, nil
}

func (r *memHotels) SaveRoomType(_ context.Context, rt *hotelDomain.RoomType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rooms[rt.ID()] = rt
	return nil
}

func (r *memHotels) UpdateRoomType(_ context.Context, rt *hotelDomain.RoomType) error {
	return r.SaveRoomType(context.Background(), rt)
}

func (r *memHotels) ResolveRoomType(_ context.Context, hotelID, roomTypeID uuid.UUID) (*bookingDomain.RoomTypeRef, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.hotels[hotelID]
	if !ok || !h.IsBookable() {
		return nil, domain.NewNotFoundError("Hotel", hotelID.String())
	}
	rt, ok := r.rooms[roomTypeID]
	if !ok || rt.HotelID() != hotelID || rt.Archived() {
		return nil, domain.NewNotFoundError("RoomType", roomTypeID.String())
	}
	spec := rt.Spec()
	return &bookingDomain.RoomTypeRef{
		HotelID: h.ID(), HotelName: h.Name(), OwnerID: h.OwnerID(),
		RoomTypeID: rt.ID(), RoomTypeName: spec.Name, PricePerNightCents: spec.PricePerNightCents,
		Capacity: spec.Capacity, TotalRooms: spec.TotalRooms,
	}, nil
}

// --- reviews, complaints, users ---

type memReviews struct {
	mu       sync.Mutex
	bookings *memBookings
	items    []*reviewDomain.Review
}

func (r *memReviews) SubmitForBooking(_ context.Context, rv *reviewDomain.Review) error {
	if !r.bookings.setReviewed(rv.BookingID()) {
		return domain.NewError(domain.KindAlreadyReviewed, "already reviewed")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, rv)
	return nil
}

func (r *memReviews) ListByHotel(_ context.Context, hotelID uuid.UUID, page, limit int) ([]*reviewDomain.Review, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*reviewDomain.Review
	for _, rv := range r.items {
		if rv.HotelID() == hotelID {
			out = append(out, rv)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memReviews) ListByUser(_ context.Context, userID uuid.UUID, page, limit int) ([]*reviewDomain.Review, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*reviewDomain.Review
	for _, rv := range r.items {
		if rv.UserID() == userID {
			out = append(out, rv)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memReviews) MarkHelpful(_ context.Context, id uuid.UUID) (*reviewDomain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, rv := range r.items {
		if rv.ID() == id {
			r.items[i] = reviewDomain.Reconstruct(rv.ID(), rv.BookingID(), rv.HotelID(), rv.UserID(),
				rv.Rating(), rv.Title(), rv.Comment(), rv.HelpfulCount()+1, rv.CreatedAt())
			return r.items[i], nil
		}
	}
	return nil, domain.NewNotFoundError("Review", id.String())
}

type memComplaints struct {
	items map[uuid.UUID]*complaintDomain.Complaint
}

func (r *memComplaints) Save(_ context.Context, c *complaintDomain.Complaint) error {
	r.items[c.ID()] = c
	return nil
}

func (r *memComplaints) Update(_ context.Context, c *complaintDomain.Complaint) error {
	r.items[c.ID()] = c
	return nil
}

func (r *memComplaints) FindByID(_ context.Context, id uuid.UUID) (*complaintDomain.Complaint, error) {
	c, ok := r.items[id]
	if !ok {
		return nil, domain.NewNotFoundError("Complaint", id.String())
	}
	return c, nil
}

func (r *memComplaints) FindByUserID(_ context.Context, userID uuid.UUID, page, limit int) ([]*complaintDomain.Complaint, int64, error) {
	var out []*complaintDomain.Complaint
	for _, c := range r.items {
		if c.UserID() == userID {
			out = append(out, c)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memComplaints) List(_ context.Context, status *complaintDomain.Status, page, limit int) ([]*complaintDomain.Complaint, int64, error) {
	var out []*complaintDomain.Complaint
	for _, c := range r.items {
		if status == nil || c.Status() == *status {
			out = append(out, c)
		}
	}
	return out, int64(len(out)), nil
}

type memUsers struct {
	byID map[uuid.UUID]*userDomain.User
}

func (r *memUsers) FindByID(_ context.Context, id uuid.UUID) (*userDomain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.NewNotFoundError("User", id.String())
	}
	return u, nil
}

func (r *memUsers) FindByEmail(_ context.Context, email string) (*userDomain.User, error) {
	email = userDomain.NormalizeEmail(email)
	for _, u := range r.byID {
		if u.Email() == email {
			return u, nil
		}
	}
	return nil, domain.NewNotFoundError("User", email)
}

func (r *memUsers) Save(_ context.Context, u *userDomain.User) error {
	if _, err := r.FindByEmail(context.Background(), u.Email()); err == nil {
		return domain.NewConflictError("email is already registered")
	}
	r.byID[u.ID()] = u
	return nil
}

func (r *memUsers) UpdateProfile(_ context.Context, u *userDomain.User) error {
	if _, ok := r.byID[u.ID()]; !ok {
		return domain.NewNotFoundError("User", u.ID().String())
	}
	r.byID[u.ID()] = u
	return nil
}

// --- sinks ---

type recordingPublisher struct {
	mu     sync.Mutex
	events []kafka.CloudEvent
}

func (p *recordingPublisher) PublishEvent(_ context.Context, _ string, e kafka.CloudEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type recordingAudit struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (p *recordingAudit) Publish(_ context.Context, v any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = append(p.entries, v.(audit.Entry))
	return nil
}

func (p *recordingAudit) Save(ctx context.Context, e audit.Entry) error { return p.Publish(ctx, e) }

func (p *recordingAudit) ListByBooking(_ context.Context, id uuid.UUID) ([]audit.Entry, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []audit.Entry
	for _, e := range p.entries {
		if e.BookingID == id {
			out = append(out, e)
		}
	}
	return out, nil
}

// --- harness ---

var testNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

type harness struct {
	hotels     *memHotels
	bookings   *memBookings
	events     *recordingPublisher
	audits     *recordingAudit
	svc        *BookingService
	reviews    *ReviewService
	complaints *ComplaintService

	owner    auth.Identity
	customer auth.Identity
	admin    auth.Identity
	hotel    *hotelDomain.Hotel
	room     *hotelDomain.RoomType
}

func newHarness(t interface{ Helper() }, totalRooms int, policy BookingPolicy) *harness {
	t.Helper()
	hotels := newMemHotels()
	bookings := newMemBookings(hotels)
	h := &harness{
		hotels:   hotels,
		bookings: bookings,
		events:   &recordingPublisher{},
		audits:   &recordingAudit{},
		owner:    auth.Identity{UserID: uuid.New(), Role: auth.RoleOwner},
		customer: auth.Identity{UserID: uuid.New(), Role: auth.RoleUser},
		admin:    auth.Identity{UserID: uuid.New(), Role: auth.RoleAdmin},
	}

	hotel, _ := hotelDomain.NewHotel(h.owner.UserID, hotelDomain.Details{Name: "Harbour View", City: "Kochi"})
	_ = hotel.Approve()
	_ = hotels.Save(context.Background(), hotel)
	room, _ := hotelDomain.NewRoomType(hotel.ID(), hotelDomain.RoomSpec{Name: "Deluxe", PricePerNightCents: 450000, Capacity: 3, TotalRooms: totalRooms})
	_ = hotels.SaveRoomType(context.Background(), room)
	h.hotel, h.room = hotel, room

	logger := zap.NewNop()
	guests := func(_ context.Context, id uuid.UUID) (string, string, error) { return "Asha", "asha@example.com", nil }
	h.svc = NewBookingService(bookings, hotels, bookingDomain.NewNightlyPricingStrategy(), guests, h.audits, policy, h.events, h.audits, logger)
	h.svc.now = func() time.Time { return testNow }
	h.reviews = NewReviewService(&memReviews{bookings: bookings}, h.svc, h.events, h.audits, logger)
	h.complaints = NewComplaintService(&memComplaints{items: map[uuid.UUID]*complaintDomain.Complaint{}}, h.svc, h.events, h.audits, logger)
	return h
}

func num(v float64) *float64 { return &v }

func (h *harness) request(in, out string, rooms float64) CreateBookingRequest {
	return CreateBookingRequest{
		HotelID:    h.hotel.ID().String(),
		RoomTypeID: h.room.ID().String(),
		CheckIn:    in,
		CheckOut:   out,
		Adults:     num(2),
		Rooms:      num(rooms),
	}
}
