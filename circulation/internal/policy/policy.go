// Package policy holds the configurable circulation limits. Settings are
// loaded once at service start and replaced atomically through the admin API;
// every operation works on an immutable snapshot taken at request entry.
package policy

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/campuslib/circulation-service/circulation/internal/model"
)

type ClassLimits struct {
	MaxBooks int `json:"maxBooks" envconfig:"MAX_BOOKS" validate:"min=1"`
	MaxDays  int `json:"maxDays" envconfig:"MAX_DAYS" validate:"min=1"`
}

type Settings struct {
	Student ClassLimits `json:"student" envconfig:"POLICY_STUDENT"`
	Staff   ClassLimits `json:"staff" envconfig:"POLICY_STAFF"`

	MaxRenewals        int   `json:"maxRenewals" envconfig:"POLICY_MAX_RENEWALS" default:"2"`
	RenewalExtendsDays int   `json:"renewalExtendsDays" envconfig:"POLICY_RENEWAL_EXTENDS_DAYS" default:"7"`
	FinePerDay         int64 `json:"finePerDay" envconfig:"POLICY_FINE_PER_DAY" default:"10"`
	FineCap            int64 `json:"fineCap" envconfig:"POLICY_FINE_CAP" default:"500"`
	LostBookFine       int64 `json:"lostBookFine" envconfig:"POLICY_LOST_BOOK_FINE" default:"1000"`

	ReservationExpiryDays    int `json:"reservationExpiryDays" envconfig:"POLICY_RESERVATION_EXPIRY_DAYS" default:"3"`
	MaxReservationsPerMember int `json:"maxReservationsPerMember" envconfig:"POLICY_MAX_RESERVATIONS" default:"3"`
}

// Default mirrors the envconfig defaults for use in tests and as the
// fallback before the first admin update.
func Default() Settings {
	return Settings{
		Student:                  ClassLimits{MaxBooks: 5, MaxDays: 14},
		Staff:                    ClassLimits{MaxBooks: 10, MaxDays: 28},
		MaxRenewals:              2,
		RenewalExtendsDays:       7,
		FinePerDay:               10,
		FineCap:                  500,
		LostBookFine:             1000,
		ReservationExpiryDays:    3,
		MaxReservationsPerMember: 3,
	}
}

// Limits resolves the per-class limits. Unknown classes fall back to the
// student limits explicitly rather than by accident.
func (s Settings) Limits(class model.BorrowingClass) ClassLimits {
	switch class {
	case model.ClassStaff:
		return s.Staff
	case model.ClassStudent:
		return s.Student
	default:
		return s.Student
	}
}

func (s Settings) Validate() error {
	for _, lim := range []ClassLimits{s.Student, s.Staff} {
		if lim.MaxBooks < 1 || lim.MaxDays < 1 {
			return errors.New("class limits must be positive")
		}
	}
	if s.MaxRenewals < 0 || s.RenewalExtendsDays < 1 {
		return errors.New("invalid renewal settings")
	}
	if s.FinePerDay < 0 || s.FineCap < 0 || s.LostBookFine < 0 {
		return errors.New("fine amounts must not be negative")
	}
	if s.ReservationExpiryDays < 1 || s.MaxReservationsPerMember < 1 {
		return errors.New("invalid reservation settings")
	}
	return nil
}

// Store serves immutable snapshots of the current settings.
type Store struct {
	mu      sync.RWMutex
	current Settings
}

func NewStore(s Settings) (*Store, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &Store{current: s}, nil
}

func (st *Store) Snapshot() Settings {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.current
}

func (st *Store) Replace(s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	st.mu.Lock()
	st.current = s
	st.mu.Unlock()
	return nil
}
