package student

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

const otpExpiry = 10 * time.Minute

var nowFunc = time.Now // mockable

type otpEntry struct {
	otp    string
	expiry time.Time
}

// OTPStore keeps one-time passwords per email, in memory, for the
// password-reset flow. Entries expire after 10 minutes.
type OTPStore struct {
	mu      sync.Mutex
	entries map[string]otpEntry
	rnd     *rand.Rand
}

func NewOTPStore() *OTPStore {
	return &OTPStore{
		entries: make(map[string]otpEntry),
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Generate issues a fresh 6-digit OTP for the email, replacing any
// previous one.
func (s *OTPStore) Generate(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	otp := fmt.Sprintf("%d", 100000+s.rnd.Intn(900000))
	s.entries[email] = otpEntry{otp: otp, expiry: nowFunc().Add(otpExpiry)}
	return otp
}

// Get returns the OTP for the email if one exists and has not expired.
func (s *OTPStore) Get(email string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[email]
	if !ok {
		return "", false
	}
	if entry.expiry.Before(nowFunc()) {
		delete(s.entries, email)
		return "", false
	}
	return entry.otp, true
}

// Clear drops the email's OTP once consumed.
func (s *OTPStore) Clear(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, email)
}
