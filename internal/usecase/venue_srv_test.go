package usecase

import (
	"context"
	"testing"
	"time"

	"venue-booking/internal/data/entity"
	"venue-booking/internal/dto/request"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVenueService_CRUD(t *testing.T) {
	s := newStore()
	svc := NewVenueService(s.repository(), testLogger())
	ctx := context.Background()

	owner := s.seedUser("owner@example.com", entity.RoleOwner, true)
	other := s.seedUser("other@example.com", entity.RoleOwner, true)

	venue, err := svc.Create(ctx, owner.ID, &request.VenueRequest{Name: "GOR Sehat", Phone: "0812", Address: "Jl. Merdeka"})
	require.NoError(t, err)
	assert.Equal(t, owner.ID, venue.UserID)
	assert.NotNil(t, venue.Fields)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	t.Run("update by another owner is forbidden", func(t *testing.T) {
		_, err := svc.Update(ctx, other.ID, venue.ID, &request.VenueRequest{Name: "Hijack", Phone: "1", Address: "x"})
		assert.ErrorIs(t, err, ErrForbidden)

		got, err := svc.Get(ctx, venue.ID, "")
		require.NoError(t, err)
		assert.Equal(t, "GOR Sehat", got.Name)
	})

	t.Run("update validation", func(t *testing.T) {
		_, err := svc.Update(ctx, owner.ID, venue.ID, &request.VenueRequest{Name: "", Phone: "1", Address: "x"})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("update by owner", func(t *testing.T) {
		got, err := svc.Update(ctx, owner.ID, venue.ID, &request.VenueRequest{Name: "GOR Baru", Phone: "0813", Address: "Jl. Baru"})
		require.NoError(t, err)
		assert.Equal(t, "GOR Baru", got.Name)
	})

	t.Run("missing venue", func(t *testing.T) {
		_, err := svc.Get(ctx, 9999, "")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete by another owner is forbidden", func(t *testing.T) {
		assert.ErrorIs(t, svc.Delete(ctx, other.ID, venue.ID), ErrForbidden)
	})

	t.Run("delete cascades", func(t *testing.T) {
		field := s.seedField(venue.ID, "Court A")
		s.mu.Lock()
		s.bookings[500] = &entity.Booking{Base: entity.Base{ID: 500}, FieldID: field.ID}
		s.joins[[2]int64{owner.ID, 500}] = true
		s.mu.Unlock()

		require.NoError(t, svc.Delete(ctx, owner.ID, venue.ID))

		_, err := svc.Get(ctx, venue.ID, "")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Empty(t, s.fields)
		assert.Zero(t, s.countBookings())
		assert.Zero(t, s.countJoins())
	})
}

func TestVenueService_GetWithPlayDate(t *testing.T) {
	s := newStore()
	svc := NewVenueService(s.repository(), testLogger())
	ctx := context.Background()

	owner := s.seedUser("owner@example.com", entity.RoleOwner, true)
	venue := s.seedVenue(owner.ID, "Arena")
	courtA := s.seedField(venue.ID, "A")
	s.seedField(venue.ID, "B")

	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)
	s.mu.Lock()
	s.bookings[100] = &entity.Booking{
		Base:          entity.Base{ID: 100},
		FieldID:       courtA.ID,
		PlayDateStart: day.Add(8 * time.Hour),
		PlayDateEnd:   day.Add(10 * time.Hour),
		UserIDBooking: owner.ID,
	}
	s.bookings[101] = &entity.Booking{
		Base:          entity.Base{ID: 101},
		FieldID:       courtA.ID,
		PlayDateStart: day.AddDate(0, 0, 1).Add(8 * time.Hour),
		PlayDateEnd:   day.AddDate(0, 0, 1).Add(10 * time.Hour),
		UserIDBooking: owner.ID,
	}
	s.mu.Unlock()

	got, err := svc.Get(ctx, venue.ID, "2026-03-10")
	require.NoError(t, err)
	require.Len(t, got.Fields, 2)

	for _, f := range got.Fields {
		require.NotNil(t, f.Bookings)
		if f.ID == courtA.ID {
			require.Len(t, f.Bookings, 1)
			assert.Equal(t, int64(100), f.Bookings[0].ID)
		} else {
			assert.Empty(t, f.Bookings)
		}
	}

	t.Run("without play_date no bookings attached", func(t *testing.T) {
		got, err := svc.Get(ctx, venue.ID, "")
		require.NoError(t, err)
		for _, f := range got.Fields {
			assert.Nil(t, f.Bookings)
		}
	})

	t.Run("bad play_date", func(t *testing.T) {
		_, err := svc.Get(ctx, venue.ID, "10-03-2026")
		assert.ErrorIs(t, err, ErrValidation)
	})
}
