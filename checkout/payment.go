// Package checkout implements client-side payment form validation and the
// duplicate-submission guard used by the payment and booking flows.
package checkout

import (
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/medleaf/pharmakit"
)

// PaymentForm is the card form as the checkout page collects it.
type PaymentForm struct {
	CardNumber string
	Expiry     string // MM/YY
	CVV        string
	Name       string
}

// Validate checks the form and returns a field -> message map, empty when
// the form is valid. Validation is deliberately shallow: digit counts and
// an expiry-not-in-past check, no Luhn and no issuer rules. Two-digit
// years map to 20YY, so "12/99" means 2099.
func (f PaymentForm) Validate(now time.Time) map[string]string {
	errs := make(map[string]string)

	digits := stripSeparators(f.CardNumber)
	if digits == "" {
		errs["cardNumber"] = "Card number is required"
	} else if !allDigits(digits) {
		errs["cardNumber"] = "Card number must contain only digits"
	} else if len(digits) < 13 || len(digits) > 19 {
		errs["cardNumber"] = "Card number must be 13 to 19 digits"
	}

	month, year, ok := parseExpiry(f.Expiry)
	if !ok {
		errs["expiry"] = "Expiry must be in MM/YY format"
	} else if expired(month, year, now) {
		errs["expiry"] = "Card has expired"
	}

	if !allDigits(f.CVV) || len(f.CVV) < 3 || len(f.CVV) > 4 {
		errs["cvv"] = "CVV must be 3 or 4 digits"
	}

	if strings.TrimSpace(f.Name) == "" {
		errs["name"] = "Cardholder name is required"
	}

	return errs
}

// Valid reports whether the form passes validation.
func (f PaymentForm) Valid(now time.Time) bool {
	return len(f.Validate(now)) == 0
}

func stripSeparators(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == ' ' || r == '-' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func parseExpiry(s string) (month, year int, ok bool) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 2 || len(parts[0]) > 2 || len(parts[1]) != 2 {
		return 0, 0, false
	}
	if !allDigits(parts[0]) || !allDigits(parts[1]) {
		return 0, 0, false
	}
	month = int(parts[0][len(parts[0])-1] - '0')
	if len(parts[0]) == 2 {
		month += int(parts[0][0]-'0') * 10
	}
	if month < 1 || month > 12 {
		return 0, 0, false
	}
	year = 2000 + int(parts[1][0]-'0')*10 + int(parts[1][1]-'0')
	return month, year, true
}

// expired reports whether month/year is before the current month.
func expired(month, year int, now time.Time) bool {
	if year != now.Year() {
		return year < now.Year()
	}
	return month < int(now.Month())
}

// Submission guards a submit-sensitive action (payment, booking) against
// double-clicks. Begin latches the in-flight flag and mints the
// idempotency token the request should carry; End releases the latch.
type Submission struct {
	mu       sync.Mutex
	inFlight bool
	token    string
}

// Begin marks a submission attempt as in flight and returns its token.
// A second Begin before End fails with ErrSubmissionInFlight.
func (s *Submission) Begin() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return "", pharmakit.ErrSubmissionInFlight
	}
	s.inFlight = true
	s.token = uuid.New().String()
	return s.token, nil
}

// End releases the in-flight latch. The token is not reused: the next
// Begin mints a fresh one, so a retry is a distinguishable new attempt.
func (s *Submission) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
}

// InFlight reports whether a submission is currently running, which is
// what disables the submit control.
func (s *Submission) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}
