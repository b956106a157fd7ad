package policy_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/campuslib/circulation-service/circulation/internal/model"
	"github.com/campuslib/circulation-service/circulation/internal/policy"
)

func TestLimits(t *testing.T) {
	t.Parallel()
	s := policy.Default()

	require.Equal(t, policy.ClassLimits{MaxBooks: 5, MaxDays: 14}, s.Limits(model.ClassStudent))
	require.Equal(t, policy.ClassLimits{MaxBooks: 10, MaxDays: 28}, s.Limits(model.ClassStaff))
	// unknown classes borrow on the tightest terms
	require.Equal(t, s.Student, s.Limits(model.BorrowingClass("ALUMNI")))
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*policy.Settings)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*policy.Settings) {}},
		{name: "zero renewals allowed", mutate: func(s *policy.Settings) { s.MaxRenewals = 0 }},
		{name: "zero max books", mutate: func(s *policy.Settings) { s.Student.MaxBooks = 0 }, wantErr: true},
		{name: "negative fine", mutate: func(s *policy.Settings) { s.FinePerDay = -1 }, wantErr: true},
		{name: "zero expiry", mutate: func(s *policy.Settings) { s.ReservationExpiryDays = 0 }, wantErr: true},
		{name: "zero renewal extension", mutate: func(s *policy.Settings) { s.RenewalExtendsDays = 0 }, wantErr: true},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			s := policy.Default()
			test.mutate(&s)
			err := s.Validate()
			if test.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestStore(t *testing.T) {
	t.Parallel()

	store, err := policy.NewStore(policy.Default())
	require.NoError(t, err)

	// a snapshot is a copy: mutating it never leaks back into the store
	snap := store.Snapshot()
	snap.MaxRenewals = 99
	require.Equal(t, 2, store.Snapshot().MaxRenewals)

	next := policy.Default()
	next.FinePerDay = 25
	require.NoError(t, store.Replace(next))
	require.Equal(t, int64(25), store.Snapshot().FinePerDay)

	bad := policy.Default()
	bad.Staff.MaxDays = 0
	require.Error(t, store.Replace(bad))
	require.Equal(t, int64(25), store.Snapshot().FinePerDay)

	_, err = policy.NewStore(bad)
	require.Error(t, err)
}
