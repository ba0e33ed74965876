package otp

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/myronlou/calendar-booking-backend/internal/booking"
	"github.com/myronlou/calendar-booking-backend/internal/notify"
	"github.com/myronlou/calendar-booking-backend/internal/timewindow"
)

type fakeStore struct {
	mu    sync.Mutex
	codes map[string]string
	used  map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{codes: map[string]string{}, used: map[string]bool{}}
}

func (s *fakeStore) IssueCode(_ context.Context, purpose Purpose, email, code string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[codeKey(purpose, email)] = code
	return nil
}

func (s *fakeStore) ConsumeCode(_ context.Context, purpose Purpose, email string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := codeKey(purpose, email)
	code, ok := s.codes[key]
	if !ok {
		return "", ErrCodeExpired
	}
	delete(s.codes, key)
	return code, nil
}

func (s *fakeStore) DeleteCode(_ context.Context, purpose Purpose, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.codes, codeKey(purpose, email))
	return nil
}

func (s *fakeStore) MarkTokenUsed(_ context.Context, jti string, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.used[jti] {
		return false, nil
	}
	s.used[jti] = true
	return true, nil
}

func (s *fakeStore) UnmarkToken(_ context.Context, jti string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.used, jti)
	return nil
}

type sentMessage struct {
	Recipient string
	Kind      notify.Kind
	Payload   notify.Payload
}

type fakeNotifier struct {
	mu       sync.Mutex
	sent     []sentMessage
	failNext error
}

func (n *fakeNotifier) Send(_ context.Context, recipient string, kind notify.Kind, payload notify.Payload) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.failNext != nil {
		err := n.failNext
		n.failNext = nil
		return err
	}
	n.sent = append(n.sent, sentMessage{Recipient: recipient, Kind: kind, Payload: payload})
	return nil
}

func (n *fakeNotifier) lastCode() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i := len(n.sent) - 1; i >= 0; i-- {
		if n.sent[i].Kind == notify.KindOTPCode {
			return n.sent[i].Payload["code"]
		}
	}
	return ""
}

type fakeBookings struct {
	mu         sync.Mutex
	reserveErr error
	reserved   int
}

func (f *fakeBookings) Reserve(_ context.Context, req booking.ReserveRequest) (*booking.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.reserveErr != nil {
		err := f.reserveErr
		f.reserveErr = nil
		return nil, err
	}
	f.reserved++
	return &booking.Booking{
		ID:        "b-1",
		Title:     "Consultation",
		StartTime: req.StartTime,
		EndTime:   req.StartTime.Add(time.Hour),
		FullName:  req.FullName,
		Email:     req.Email,
		Status:    booking.StatusConfirmed,
	}, nil
}

func (f *fakeBookings) GetByID(context.Context, string) (*booking.Booking, error) { return nil, nil }
func (f *fakeBookings) List(context.Context, booking.Filter) ([]*booking.Booking, int, error) {
	return nil, 0, nil
}
func (f *fakeBookings) Update(context.Context, string, booking.UpdateRequest) (*booking.Booking, error) {
	return nil, nil
}
func (f *fakeBookings) Delete(context.Context, string) error { return nil }
func (f *fakeBookings) IntervalsWithin(context.Context, time.Time, time.Time) ([]timewindow.Interval, error) {
	return nil, nil
}
func (f *fakeBookings) DueReminders(context.Context, time.Time, time.Time) ([]*booking.Booking, error) {
	return nil, nil
}
func (f *fakeBookings) MarkReminded(context.Context, string) error { return nil }

func newTestService(store CodeStore, notifier notify.Notifier, bookings booking.Service, verifyTTL time.Duration) Service {
	tokens := NewTokenManager("test-secret", verifyTTL, time.Hour)
	return NewService(store, tokens, bookings, notifier, zerolog.Nop(), 10*time.Minute, "http://localhost:3000")
}

func reserveRequest(email string) booking.ReserveRequest {
	return booking.ReserveRequest{
		BookingTypeID: "bt-1",
		StartTime:     time.Now().UTC().Add(48 * time.Hour),
		FullName:      "Ada Lovelace",
		Email:         email,
	}
}

func TestRequestAndVerifyCode(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	notifier := &fakeNotifier{}
	svc := newTestService(store, notifier, &fakeBookings{}, 5*time.Minute)

	require.NoError(t, svc.RequestCode(ctx, "Ada@Example.com", PurposeBooking))

	code := notifier.lastCode()
	require.Len(t, code, 6)

	// Verification is case-insensitive on the email.
	token, err := svc.VerifyCode(ctx, "ada@example.com", PurposeBooking, code)
	require.NoError(t, err)
	require.NotEmpty(t, token)
}

func TestRequestCodeSendFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	notifier := &fakeNotifier{failNext: context.DeadlineExceeded}
	svc := newTestService(store, notifier, &fakeBookings{}, 5*time.Minute)

	err := svc.RequestCode(ctx, "ada@example.com", PurposeBooking)
	require.ErrorIs(t, err, ErrSendFailed)

	// The undelivered code must not remain verifiable.
	_, err = svc.VerifyCode(ctx, "ada@example.com", PurposeBooking, "123456")
	require.ErrorIs(t, err, ErrCodeExpired)
}

func TestVerifyCodeWrongGuessConsumes(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	notifier := &fakeNotifier{}
	svc := newTestService(store, notifier, &fakeBookings{}, 5*time.Minute)

	require.NoError(t, svc.RequestCode(ctx, "ada@example.com", PurposeBooking))
	code := notifier.lastCode()

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	_, err := svc.VerifyCode(ctx, "ada@example.com", PurposeBooking, wrong)
	require.ErrorIs(t, err, ErrCodeInvalid)

	// The attempt consumed the code; even the right one is gone now.
	_, err = svc.VerifyCode(ctx, "ada@example.com", PurposeBooking, code)
	require.ErrorIs(t, err, ErrCodeExpired)
}

func TestNewCodeReplacesOld(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	notifier := &fakeNotifier{}
	svc := newTestService(store, notifier, &fakeBookings{}, 5*time.Minute)

	require.NoError(t, svc.RequestCode(ctx, "ada@example.com", PurposeBooking))
	require.NoError(t, svc.RequestCode(ctx, "ada@example.com", PurposeBooking))

	token, err := svc.VerifyCode(ctx, "ada@example.com", PurposeBooking, notifier.lastCode())
	require.NoError(t, err)
	require.NotEmpty(t, token)
}

func TestCompleteBookingSingleUseToken(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	notifier := &fakeNotifier{}
	bookings := &fakeBookings{}
	svc := newTestService(store, notifier, bookings, 5*time.Minute)

	require.NoError(t, svc.RequestCode(ctx, "ada@example.com", PurposeBooking))
	token, err := svc.VerifyCode(ctx, "ada@example.com", PurposeBooking, notifier.lastCode())
	require.NoError(t, err)

	b, manageToken, err := svc.CompleteBooking(ctx, token, reserveRequest("ada@example.com"))
	require.NoError(t, err)
	require.Equal(t, "b-1", b.ID)
	require.NotEmpty(t, manageToken)
	require.Equal(t, 1, bookings.reserved)

	// Spending the same token again must fail without reserving.
	_, _, err = svc.CompleteBooking(ctx, token, reserveRequest("ada@example.com"))
	require.ErrorIs(t, err, ErrTokenUsed)
	require.Equal(t, 1, bookings.reserved)
}

func TestCompleteBookingEmailMismatch(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	notifier := &fakeNotifier{}
	bookings := &fakeBookings{}
	svc := newTestService(store, notifier, bookings, 5*time.Minute)

	require.NoError(t, svc.RequestCode(ctx, "ada@example.com", PurposeBooking))
	token, err := svc.VerifyCode(ctx, "ada@example.com", PurposeBooking, notifier.lastCode())
	require.NoError(t, err)

	_, _, err = svc.CompleteBooking(ctx, token, reserveRequest("mallory@example.com"))
	require.ErrorIs(t, err, ErrTokenInvalid)
	require.Zero(t, bookings.reserved)
}

func TestCompleteBookingSlotTakenKeepsTokenUsable(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	notifier := &fakeNotifier{}
	bookings := &fakeBookings{reserveErr: booking.ErrSlotTaken}
	svc := newTestService(store, notifier, bookings, 5*time.Minute)

	require.NoError(t, svc.RequestCode(ctx, "ada@example.com", PurposeBooking))
	token, err := svc.VerifyCode(ctx, "ada@example.com", PurposeBooking, notifier.lastCode())
	require.NoError(t, err)

	_, _, err = svc.CompleteBooking(ctx, token, reserveRequest("ada@example.com"))
	require.ErrorIs(t, err, booking.ErrSlotTaken)

	// The slot was lost to someone else; the verified customer picks
	// another one with the same token.
	b, _, err := svc.CompleteBooking(ctx, token, reserveRequest("ada@example.com"))
	require.NoError(t, err)
	require.Equal(t, 1, bookings.reserved)
	require.Equal(t, "b-1", b.ID)
}

func TestCompleteBookingExpiredToken(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	svc := newTestService(store, &fakeNotifier{}, &fakeBookings{}, -time.Minute)

	tokens := NewTokenManager("test-secret", -time.Minute, time.Hour)
	token, err := tokens.Generate("ada@example.com", PurposeBooking)
	require.NoError(t, err)

	_, _, err = svc.CompleteBooking(ctx, token, reserveRequest("ada@example.com"))
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestCompleteBookingRejectsManageToken(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	svc := newTestService(store, &fakeNotifier{}, &fakeBookings{}, 5*time.Minute)

	tokens := NewTokenManager("test-secret", 5*time.Minute, time.Hour)
	token, err := tokens.Generate("ada@example.com", PurposeManage)
	require.NoError(t, err)

	_, _, err = svc.CompleteBooking(ctx, token, reserveRequest("ada@example.com"))
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenManagerRejectsTamperedToken(t *testing.T) {
	tokens := NewTokenManager("test-secret", 5*time.Minute, time.Hour)
	other := NewTokenManager("other-secret", 5*time.Minute, time.Hour)

	token, err := other.Generate("ada@example.com", PurposeBooking)
	require.NoError(t, err)

	_, err = tokens.Parse(token)
	require.ErrorIs(t, err, ErrTokenInvalid)
}
