package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/myronlou/calendar-booking-backend/internal/booking"
	"github.com/myronlou/calendar-booking-backend/internal/metrics"
	"github.com/myronlou/calendar-booking-backend/internal/notify"
)

const codeDigits = 6

// Service drives the verification workflow: request a code, trade it for a
// token, spend the token on one successful reservation.
type Service interface {
	RequestCode(ctx context.Context, email string, purpose Purpose) error
	VerifyCode(ctx context.Context, email string, purpose Purpose, code string) (string, error)

	// CompleteBooking reserves the slot authorized by the verification
	// token. On success it returns the booking and a management token the
	// customer can use to revisit it.
	CompleteBooking(ctx context.Context, token string, req booking.ReserveRequest) (*booking.Booking, string, error)
}

type service struct {
	store    CodeStore
	tokens   *TokenManager
	bookings booking.Service
	notifier notify.Notifier
	logger   zerolog.Logger
	codeTTL  time.Duration
	baseURL  string
	now      func() time.Time
}

func NewService(
	store CodeStore,
	tokens *TokenManager,
	bookings booking.Service,
	notifier notify.Notifier,
	logger zerolog.Logger,
	codeTTL time.Duration,
	baseURL string,
) Service {
	return &service{
		store:    store,
		tokens:   tokens,
		bookings: bookings,
		notifier: notifier,
		logger:   logger,
		codeTTL:  codeTTL,
		baseURL:  strings.TrimRight(baseURL, "/"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) RequestCode(ctx context.Context, email string, purpose Purpose) error {
	email = normalizeEmail(email)

	code, err := randomCode(codeDigits)
	if err != nil {
		return fmt.Errorf("failed to generate verification code: %w", err)
	}

	// Issuing replaces any prior live code, so only the latest one can
	// verify.
	if err := s.store.IssueCode(ctx, purpose, email, code, s.codeTTL); err != nil {
		return err
	}

	err = s.notifier.Send(ctx, email, notify.KindOTPCode, notify.Payload{
		"code":       code,
		"expires_in": s.codeTTL.String(),
	})
	if err != nil {
		// The customer never saw the code; keeping it stored would let a
		// retry land in a half-issued state. Roll it back.
		if delErr := s.store.DeleteCode(ctx, purpose, email); delErr != nil {
			s.logger.Error().Err(delErr).Str("email", email).Msg("failed to roll back undelivered code")
		}
		s.logger.Error().Err(err).Str("email", email).Msg("failed to send verification code")
		return ErrSendFailed
	}

	metrics.IncOTPIssued()
	return nil
}

func (s *service) VerifyCode(ctx context.Context, email string, purpose Purpose, code string) (string, error) {
	email = normalizeEmail(email)

	stored, err := s.store.ConsumeCode(ctx, purpose, email)
	if err != nil {
		if errors.Is(err, ErrCodeExpired) {
			metrics.IncOTPVerified("expired")
		}
		return "", err
	}

	if stored != strings.TrimSpace(code) {
		metrics.IncOTPVerified("invalid")
		return "", ErrCodeInvalid
	}

	token, err := s.tokens.Generate(email, purpose)
	if err != nil {
		return "", err
	}

	metrics.IncOTPVerified("ok")
	return token, nil
}

func (s *service) CompleteBooking(ctx context.Context, token string, req booking.ReserveRequest) (*booking.Booking, string, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, "", err
	}
	if claims.Purpose != PurposeBooking {
		return nil, "", ErrTokenInvalid
	}
	if !strings.EqualFold(strings.TrimSpace(claims.Email), strings.TrimSpace(req.Email)) {
		return nil, "", ErrTokenInvalid
	}

	// Claim the jti before reserving so two concurrent completions cannot
	// both spend the same token. A failed reserve releases it, leaving the
	// attempt verified so the customer can pick another slot.
	ok, err := s.store.MarkTokenUsed(ctx, claims.ID, claims.RemainingTTL(s.now()))
	if err != nil {
		return nil, "", err
	}
	if !ok {
		return nil, "", ErrTokenUsed
	}

	req.Email = normalizeEmail(req.Email)
	b, err := s.bookings.Reserve(ctx, req)
	if err != nil {
		if unmarkErr := s.store.UnmarkToken(ctx, claims.ID); unmarkErr != nil {
			s.logger.Error().Err(unmarkErr).Str("jti", claims.ID).Msg("failed to release token after reserve failure")
		}
		return nil, "", err
	}

	manageToken, err := s.tokens.Generate(b.Email, PurposeManage)
	if err != nil {
		// The reservation stands; the customer just loses the manage link.
		s.logger.Error().Err(err).Str("booking_id", b.ID).Msg("failed to mint management token")
		manageToken = ""
	}

	s.sendConfirmation(b, manageToken)
	return b, manageToken, nil
}

// sendConfirmation notifies the customer in the background. The booking is
// already committed, so a delivery failure is only logged.
func (s *service) sendConfirmation(b *booking.Booking, manageToken string) {
	payload := notify.Payload{
		"name":       b.FullName,
		"title":      b.Title,
		"start":      b.StartTime.Format("2006-01-02 15:04"),
		"manage_url": fmt.Sprintf("%s/manage?token=%s", s.baseURL, manageToken),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.notifier.Send(ctx, b.Email, notify.KindBookingConfirmation, payload); err != nil {
			s.logger.Error().Err(err).Str("booking_id", b.ID).Msg("failed to send booking confirmation")
		}
	}()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// randomCode draws n decimal digits from crypto/rand.
func randomCode(n int) (string, error) {
	max := big.NewInt(1)
	for i := 0; i < n; i++ {
		max.Mul(max, big.NewInt(10))
	}
	v, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", n, v), nil
}
