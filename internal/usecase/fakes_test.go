package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"venue-booking/internal/data/entity"
	"venue-booking/internal/data/repository"
	"venue-booking/internal/events"
	"venue-booking/pkg/mailer"
	"venue-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// store is an in-memory backing for every repository interface
type store struct {
	mu       sync.Mutex
	nextID   int64
	users    map[int64]*entity.User
	otps     []*entity.OTPCode
	sessions map[uuid.UUID]*entity.Session
	venues   map[int64]*entity.Venue
	fields   map[int64]*entity.Field
	bookings map[int64]*entity.Booking
	joins    map[[2]int64]bool // {user, booking}

	failJoinRow bool
	redeemHook  func() // runs under mu before Redeem
}

func newStore() *store {
	return &store{
		users:    map[int64]*entity.User{},
		sessions: map[uuid.UUID]*entity.Session{},
		venues:   map[int64]*entity.Venue{},
		fields:   map[int64]*entity.Field{},
		bookings: map[int64]*entity.Booking{},
		joins:    map[[2]int64]bool{},
	}
}

func (s *store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *store) repository() *repository.Repository {
	return &repository.Repository{
		User:    fakeUsers{s},
		Session: fakeSessions{s},
		OTP:     fakeOTPs{s},
		Venue:   fakeVenues{s},
		Field:   fakeFields{s},
		Booking: fakeBookings{s},
	}
}

// ---- users ----

type fakeUsers struct{ s *store }

func (f fakeUsers) Create(_ context.Context, user *entity.User) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, u := range f.s.users {
		if u.Email == user.Email {
			return errors.New("duplicate key value violates unique constraint")
		}
	}
	user.ID = f.s.id()
	user.CreatedAt, user.UpdatedAt = time.Now(), time.Now()
	cp := *user
	f.s.users[user.ID] = &cp
	return nil
}

func (f fakeUsers) FindByID(_ context.Context, id int64) (*entity.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if u, ok := f.s.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (f fakeUsers) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, u := range f.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// ---- otp ----

type fakeOTPs struct{ s *store }

func (f fakeOTPs) Create(_ context.Context, otp *entity.OTPCode) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	otp.ID = f.s.id()
	otp.CreatedAt = time.Now()
	cp := *otp
	f.s.otps = append(f.s.otps, &cp)
	return nil
}

func (f fakeOTPs) FindValidOTP(_ context.Context, userID int64, code string) (*entity.OTPCode, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, o := range f.s.otps {
		if o.UserID == userID && o.OTPCode == code && o.UsedAt == nil && o.ExpiresAt.After(time.Now()) {
			cp := *o
			return &cp, nil
		}
	}
	return nil, nil
}

func (f fakeOTPs) Redeem(_ context.Context, otpID, userID int64) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.redeemHook != nil {
		f.s.redeemHook()
	}
	for _, o := range f.s.otps {
		if o.ID == otpID && o.UserID == userID {
			if o.UsedAt != nil {
				return repository.ErrOTPUsed
			}
			now := time.Now()
			o.UsedAt = &now
			u, ok := f.s.users[userID]
			if !ok {
				return errors.New("user not found")
			}
			u.IsVerified = true
			return nil
		}
	}
	return repository.ErrOTPUsed
}

// ---- sessions ----

type fakeSessions struct{ s *store }

func (f fakeSessions) Create(_ context.Context, session *entity.Session) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	cp := *session
	f.s.sessions[session.ID] = &cp
	return nil
}

func (f fakeSessions) FindValidSession(_ context.Context, id uuid.UUID) (*entity.Session, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	sess, ok := f.s.sessions[id]
	if !ok || sess.RevokedAt != nil || !sess.ExpiresAt.After(time.Now()) {
		return nil, nil
	}
	cp := *sess
	return &cp, nil
}

func (f fakeSessions) Revoke(_ context.Context, id uuid.UUID) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	sess, ok := f.s.sessions[id]
	if !ok || sess.RevokedAt != nil {
		return errors.New("session not found or already revoked")
	}
	now := time.Now()
	sess.RevokedAt = &now
	return nil
}

// ---- venues ----

type fakeVenues struct{ s *store }

func (f fakeVenues) Create(_ context.Context, venue *entity.Venue) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	venue.ID = f.s.id()
	cp := *venue
	f.s.venues[venue.ID] = &cp
	return nil
}

func (f fakeVenues) withFields(v *entity.Venue) *entity.Venue {
	cp := *v
	cp.Fields = []*entity.Field{}
	for _, fl := range f.s.fields {
		if fl.VenueID == v.ID {
			fc := *fl
			cp.Fields = append(cp.Fields, &fc)
		}
	}
	return &cp
}

func (f fakeVenues) FindAll(_ context.Context) ([]*entity.Venue, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []*entity.Venue
	for _, v := range f.s.venues {
		out = append(out, f.withFields(v))
	}
	return out, nil
}

func (f fakeVenues) FindByID(_ context.Context, id int64) (*entity.Venue, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	v, ok := f.s.venues[id]
	if !ok {
		return nil, nil
	}
	return f.withFields(v), nil
}

func (f fakeVenues) Update(_ context.Context, venue *entity.Venue) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	v, ok := f.s.venues[venue.ID]
	if !ok {
		return errors.New("venue not found")
	}
	v.Name, v.Phone, v.Address = venue.Name, venue.Phone, venue.Address
	return nil
}

// Delete mirrors the ON DELETE CASCADE chain of the schema
func (f fakeVenues) Delete(_ context.Context, id int64) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if _, ok := f.s.venues[id]; !ok {
		return errors.New("venue not found")
	}
	delete(f.s.venues, id)
	for fid, fl := range f.s.fields {
		if fl.VenueID != id {
			continue
		}
		delete(f.s.fields, fid)
		for bid, b := range f.s.bookings {
			if b.FieldID != fid {
				continue
			}
			delete(f.s.bookings, bid)
			for key := range f.s.joins {
				if key[1] == bid {
					delete(f.s.joins, key)
				}
			}
		}
	}
	return nil
}

// ---- fields ----

type fakeFields struct{ s *store }

func (f fakeFields) Create(_ context.Context, field *entity.Field) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	field.ID = f.s.id()
	cp := *field
	f.s.fields[field.ID] = &cp
	return nil
}

func (f fakeFields) FindByID(_ context.Context, id int64) (*entity.Field, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if fl, ok := f.s.fields[id]; ok {
		cp := *fl
		return &cp, nil
	}
	return nil, nil
}

func (f fakeFields) FindByIDAndVenue(ctx context.Context, id, venueID int64) (*entity.Field, error) {
	fl, _ := f.FindByID(ctx, id)
	if fl == nil || fl.VenueID != venueID {
		return nil, nil
	}
	return fl, nil
}

func (f fakeFields) FindByVenueID(_ context.Context, venueID int64) ([]*entity.Field, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out := []*entity.Field{}
	for _, fl := range f.s.fields {
		if fl.VenueID == venueID {
			cp := *fl
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f fakeFields) Update(_ context.Context, field *entity.Field) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	fl, ok := f.s.fields[field.ID]
	if !ok {
		return errors.New("field not found")
	}
	fl.Name, fl.Type = field.Name, field.Type
	return nil
}

func (f fakeFields) Delete(_ context.Context, id int64) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if _, ok := f.s.fields[id]; !ok {
		return errors.New("field not found")
	}
	delete(f.s.fields, id)
	return nil
}

// ---- bookings ----

type fakeBookings struct{ s *store }

func (f fakeBookings) CreateWithParticipant(_ context.Context, booking *entity.Booking) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if _, ok := f.s.fields[booking.FieldID]; !ok {
		return repository.ErrFieldGone
	}
	for _, b := range f.s.bookings {
		if b.FieldID == booking.FieldID && b.PlayDateStart.Before(booking.PlayDateEnd) && b.PlayDateEnd.After(booking.PlayDateStart) {
			return repository.ErrBookingOverlap
		}
	}
	if f.s.failJoinRow {
		// transaction rolled back, nothing stored
		return errors.New("insert booking participant: connection reset")
	}
	booking.ID = f.s.id()
	cp := *booking
	f.s.bookings[booking.ID] = &cp
	f.s.joins[[2]int64{booking.UserIDBooking, booking.ID}] = true
	return nil
}

func (f fakeBookings) summary(b *entity.Booking) *entity.BookingSummary {
	sum := &entity.BookingSummary{Booking: *b}
	if fl, ok := f.s.fields[b.FieldID]; ok {
		sum.FieldName, sum.FieldType, sum.VenueID = fl.Name, fl.Type, fl.VenueID
		if v, ok := f.s.venues[fl.VenueID]; ok {
			sum.VenueName = v.Name
		}
	}
	for key := range f.s.joins {
		if key[1] == b.ID {
			sum.PlayersCount++
		}
	}
	return sum
}

func (f fakeBookings) FindByID(_ context.Context, id int64) (*entity.BookingSummary, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	b, ok := f.s.bookings[id]
	if !ok {
		return nil, nil
	}
	return f.summary(b), nil
}

func (f fakeBookings) matching(filter repository.BookingFilter) []*entity.BookingSummary {
	out := []*entity.BookingSummary{}
	for _, b := range f.s.bookings {
		if filter.FieldID > 0 && b.FieldID != filter.FieldID {
			continue
		}
		if !filter.Day.IsZero() && !inDay(b.PlayDateStart, filter.Day) {
			continue
		}
		out = append(out, f.summary(b))
	}
	return out
}

func (f fakeBookings) FindAll(_ context.Context, filter repository.BookingFilter, limit, offset int) ([]*entity.BookingSummary, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	all := f.matching(filter)
	if offset >= len(all) {
		return []*entity.BookingSummary{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (f fakeBookings) CountAll(_ context.Context, filter repository.BookingFilter) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return int64(len(f.matching(filter))), nil
}

func (f fakeBookings) FindByVenueAndDay(_ context.Context, venueID int64, day time.Time) ([]*entity.BookingSummary, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out := []*entity.BookingSummary{}
	for _, sum := range f.matching(repository.BookingFilter{Day: day}) {
		if sum.VenueID == venueID {
			out = append(out, sum)
		}
	}
	return out, nil
}

func (f fakeBookings) FindJoinedByUser(_ context.Context, userID int64) ([]*entity.BookingSummary, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out := []*entity.BookingSummary{}
	for key := range f.s.joins {
		if key[0] == userID {
			out = append(out, f.summary(f.s.bookings[key[1]]))
		}
	}
	return out, nil
}

func (f fakeBookings) FindPlayers(_ context.Context, bookingID int64) ([]*entity.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out := []*entity.User{}
	for key := range f.s.joins {
		if key[1] == bookingID {
			if u, ok := f.s.users[key[0]]; ok {
				cp := *u
				out = append(out, &cp)
			}
		}
	}
	return out, nil
}

func (f fakeBookings) Join(_ context.Context, userID, bookingID int64) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	key := [2]int64{userID, bookingID}
	if f.s.joins[key] {
		return repository.ErrAlreadyJoined
	}
	f.s.joins[key] = true
	return nil
}

func (f fakeBookings) Unjoin(_ context.Context, userID, bookingID int64) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	key := [2]int64{userID, bookingID}
	if !f.s.joins[key] {
		return repository.ErrNotJoined
	}
	delete(f.s.joins, key)
	return nil
}

// inDay uses the same [midnight, next midnight) window in day's zone as the SQL filter
func inDay(t, day time.Time) bool {
	y, m, d := day.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	return !t.Before(start) && t.Before(start.AddDate(0, 0, 1))
}

// ---- collaborators ----

type fakeMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (m *fakeMailer) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return m.err
}

type fakePublisher struct {
	mu     sync.Mutex
	events []events.BookingCreated
}

func (p *fakePublisher) PublishBookingCreated(_ context.Context, event events.BookingCreated) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

func testConfig() *utils.Config {
	return &utils.Config{
		JWT: utils.JWTConfig{Secret: "test-secret", ExpiryHours: 1},
		OTP: utils.OTPConfig{ExpiryMinutes: 10, Length: 6},
	}
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}

// seedUser stores a user directly, bypassing registration
func (s *store) seedUser(email string, role entity.UserRole, verified bool) *entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &entity.User{Name: email, Email: email, Role: role, IsVerified: verified}
	u.ID = s.id()
	s.users[u.ID] = u
	cp := *u
	return &cp
}

func (s *store) seedVenue(ownerID int64, name string) *entity.Venue {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := &entity.Venue{Name: name, Phone: "0812", Address: "Jl. Test", UserID: ownerID}
	v.ID = s.id()
	s.venues[v.ID] = v
	cp := *v
	return &cp
}

func (s *store) seedField(venueID int64, name string) *entity.Field {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := &entity.Field{Name: name, Type: entity.FieldTypeFutsal, VenueID: venueID}
	f.ID = s.id()
	s.fields[f.ID] = f
	cp := *f
	return &cp
}

func (s *store) countBookings() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bookings)
}

func (s *store) countJoins() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.joins)
}

func (s *store) userVerified(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[id].IsVerified
}
