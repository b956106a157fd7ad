package core_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/campuslib/circulation-service/circulation/internal/core"
	"github.com/campuslib/circulation-service/circulation/internal/errs"
	"github.com/campuslib/circulation-service/circulation/internal/model"
	"github.com/campuslib/circulation-service/circulation/internal/policy"
)

var day0 = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func day(n int) time.Time { return day0.Add(time.Duration(n) * 24 * time.Hour) }

func testPolicy() policy.Settings {
	pol := policy.Default()
	pol.Student = policy.ClassLimits{MaxBooks: 5, MaxDays: 14}
	pol.Staff = policy.ClassLimits{MaxBooks: 10, MaxDays: 28}
	pol.MaxRenewals = 2
	pol.RenewalExtendsDays = 7
	pol.FinePerDay = 1
	pol.FineCap = 500
	return pol
}

func activeMember(issues int) model.Member {
	return model.Member{
		ID:            1,
		Username:      "reader",
		Class:         model.ClassStudent,
		Status:        model.MemberActive,
		CurrentIssues: issues,
	}
}

func TestCanBorrow(t *testing.T) {
	t.Parallel()
	lim := policy.ClassLimits{MaxBooks: 5, MaxDays: 14}
	pastSuspension := day(-1)
	futureSuspension := day(10)

	tests := []struct {
		name    string
		member  model.Member
		wantErr error
	}{
		{
			name:   "active under limit",
			member: activeMember(0),
		},
		{
			name: "suspension lifted yesterday",
			member: func() model.Member {
				m := activeMember(0)
				m.SuspensionEndDate = &pastSuspension
				return m
			}(),
		},
		{
			name: "suspended status",
			member: func() model.Member {
				m := activeMember(0)
				m.Status = model.MemberSuspended
				return m
			}(),
			wantErr: errs.ErrMemberIneligible,
		},
		{
			name: "expired membership",
			member: func() model.Member {
				m := activeMember(0)
				m.Status = model.MemberExpired
				return m
			}(),
			wantErr: errs.ErrMemberIneligible,
		},
		{
			name:    "at issue limit",
			member:  activeMember(5),
			wantErr: errs.ErrMemberIneligible,
		},
		{
			name: "suspension still in force",
			member: func() model.Member {
				m := activeMember(0)
				m.SuspensionEndDate = &futureSuspension
				return m
			}(),
			wantErr: errs.ErrMemberIneligible,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := core.CanBorrow(tt.member, lim, day(0))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestDecideIssue(t *testing.T) {
	t.Parallel()
	pol := testPolicy()
	book := model.Book{ID: 7, AvailableCopies: 1, TotalCopies: 3}

	t.Run("due date from class policy", func(t *testing.T) {
		t.Parallel()
		dec, err := core.DecideIssue(book, activeMember(0), nil, pol, day(0), nil)
		require.NoError(t, err)
		require.Equal(t, day(14), dec.DueDate)
		require.Nil(t, dec.FulfillsReservation)
	})

	t.Run("staff borrows longer", func(t *testing.T) {
		t.Parallel()
		m := activeMember(0)
		m.Class = model.ClassStaff
		dec, err := core.DecideIssue(book, m, nil, pol, day(0), nil)
		require.NoError(t, err)
		require.Equal(t, day(28), dec.DueDate)
	})

	t.Run("explicit loan days override", func(t *testing.T) {
		t.Parallel()
		days := 7
		dec, err := core.DecideIssue(book, activeMember(0), nil, pol, day(0), &days)
		require.NoError(t, err)
		require.Equal(t, day(7), dec.DueDate)
	})

	t.Run("no copies", func(t *testing.T) {
		t.Parallel()
		empty := book
		empty.AvailableCopies = 0
		_, err := core.DecideIssue(empty, activeMember(0), nil, pol, day(0), nil)
		require.ErrorIs(t, err, errs.ErrNotAvailable)
	})

	t.Run("member at limit", func(t *testing.T) {
		t.Parallel()
		_, err := core.DecideIssue(book, activeMember(5), nil, pol, day(0), nil)
		require.ErrorIs(t, err, errs.ErrMemberIneligible)
	})

	t.Run("copy held for another member", func(t *testing.T) {
		t.Parallel()
		head := &model.Reservation{ID: 1, BookID: 7, MemberID: 99, Status: model.ReservationActive}
		_, err := core.DecideIssue(book, activeMember(0), head, pol, day(0), nil)
		require.ErrorIs(t, err, errs.ErrReservedByOther)
	})

	t.Run("holder claims own reservation", func(t *testing.T) {
		t.Parallel()
		head := &model.Reservation{ID: 1, BookID: 7, MemberID: 1, Status: model.ReservationActive}
		dec, err := core.DecideIssue(book, activeMember(0), head, pol, day(0), nil)
		require.NoError(t, err)
		require.NotNil(t, dec.FulfillsReservation)
		require.Equal(t, 1, dec.FulfillsReservation.ID)
	})
}

func TestDecideReturn(t *testing.T) {
	t.Parallel()
	pol := testPolicy()

	issued := model.Transaction{
		Status:    model.TransactionIssued,
		IssueDate: day(0),
		DueDate:   day(14),
	}

	t.Run("on time, no fine", func(t *testing.T) {
		t.Parallel()
		dec, err := core.DecideReturn(issued, pol, day(10))
		require.NoError(t, err)
		require.Zero(t, dec.OverdueDays)
		require.Zero(t, dec.FineAmount)
	})

	t.Run("five days late at one per day", func(t *testing.T) {
		t.Parallel()
		dec, err := core.DecideReturn(issued, pol, day(19))
		require.NoError(t, err)
		require.Equal(t, 5, dec.OverdueDays)
		require.Equal(t, int64(5), dec.FineAmount)
	})

	t.Run("fine capped", func(t *testing.T) {
		t.Parallel()
		capped := pol
		capped.FinePerDay = 100
		capped.FineCap = 250
		dec, err := core.DecideReturn(issued, capped, day(19))
		require.NoError(t, err)
		require.Equal(t, int64(250), dec.FineAmount)
	})

	t.Run("already returned", func(t *testing.T) {
		t.Parallel()
		closed := issued
		closed.Status = model.TransactionReturned
		_, err := core.DecideReturn(closed, pol, day(19))
		require.ErrorIs(t, err, errs.ErrAlreadyReturned)
	})

	t.Run("lost cannot be returned", func(t *testing.T) {
		t.Parallel()
		lost := issued
		lost.Status = model.TransactionLost
		_, err := core.DecideReturn(lost, pol, day(19))
		require.ErrorIs(t, err, errs.ErrAlreadyReturned)
	})
}

func TestDecideRenew(t *testing.T) {
	t.Parallel()
	pol := testPolicy()

	issued := model.Transaction{
		Status:    model.TransactionIssued,
		IssueDate: day(0),
		DueDate:   day(14),
	}

	t.Run("renew twice then limit", func(t *testing.T) {
		t.Parallel()
		tx := issued
		for i := 0; i < 2; i++ {
			newDue, err := core.DecideRenew(tx, false, pol, day(1))
			require.NoError(t, err)
			require.Equal(t, tx.DueDate.Add(7*24*time.Hour), newDue)
			tx.DueDate = newDue
			tx.RenewalCount++
		}
		require.Equal(t, 2, tx.RenewalCount)
		_, err := core.DecideRenew(tx, false, pol, day(1))
		require.ErrorIs(t, err, errs.ErrRenewalLimitReached)
	})

	t.Run("overdue loan cannot be renewed", func(t *testing.T) {
		t.Parallel()
		_, err := core.DecideRenew(issued, false, pol, day(15))
		require.ErrorIs(t, err, errs.ErrAlreadyOverdue)
	})

	t.Run("blocked by another member's reservation", func(t *testing.T) {
		t.Parallel()
		_, err := core.DecideRenew(issued, true, pol, day(1))
		require.ErrorIs(t, err, errs.ErrReservedByOther)
	})

	t.Run("closed transaction", func(t *testing.T) {
		t.Parallel()
		closed := issued
		closed.Status = model.TransactionReturned
		_, err := core.DecideRenew(closed, false, pol, day(1))
		require.ErrorIs(t, err, errs.ErrAlreadyReturned)
	})
}

func TestDecideMarkLost(t *testing.T) {
	t.Parallel()
	pol := testPolicy()
	issued := model.Transaction{Status: model.TransactionIssued, DueDate: day(14)}

	t.Run("replacement cost", func(t *testing.T) {
		t.Parallel()
		fine, err := core.DecideMarkLost(issued, model.Book{ReplacementCost: 700}, pol)
		require.NoError(t, err)
		require.Equal(t, int64(700), fine)
	})

	t.Run("default when no cost recorded", func(t *testing.T) {
		t.Parallel()
		fine, err := core.DecideMarkLost(issued, model.Book{}, pol)
		require.NoError(t, err)
		require.Equal(t, pol.LostBookFine, fine)
	})

	t.Run("overdue loan can still be marked lost", func(t *testing.T) {
		t.Parallel()
		require.True(t, core.IsOverdue(issued, day(20)))
		_, err := core.DecideMarkLost(issued, model.Book{}, pol)
		require.NoError(t, err)
	})

	t.Run("already closed", func(t *testing.T) {
		t.Parallel()
		closed := issued
		closed.Status = model.TransactionReturned
		_, err := core.DecideMarkLost(closed, model.Book{}, pol)
		require.ErrorIs(t, err, errs.ErrAlreadyReturned)
	})
}

func TestDecideCreateReservation(t *testing.T) {
	t.Parallel()
	pol := testPolicy()
	unavailable := model.Book{ID: 7, TotalCopies: 1, AvailableCopies: 0}

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		expiry, err := core.DecideCreateReservation(unavailable, activeMember(1), false, 0, pol, day(0))
		require.NoError(t, err)
		require.Equal(t, day(pol.ReservationExpiryDays), expiry)
	})

	t.Run("available book must be issued directly", func(t *testing.T) {
		t.Parallel()
		avail := unavailable
		avail.AvailableCopies = 1
		_, err := core.DecideCreateReservation(avail, activeMember(1), false, 0, pol, day(0))
		require.ErrorIs(t, err, errs.ErrBookAvailable)
	})

	t.Run("duplicate hold", func(t *testing.T) {
		t.Parallel()
		_, err := core.DecideCreateReservation(unavailable, activeMember(1), true, 1, pol, day(0))
		require.ErrorIs(t, err, errs.ErrDuplicateReservation)
	})

	t.Run("per-member cap", func(t *testing.T) {
		t.Parallel()
		_, err := core.DecideCreateReservation(unavailable, activeMember(1), false, pol.MaxReservationsPerMember, pol, day(0))
		require.ErrorIs(t, err, errs.ErrReservationLimit)
	})

	t.Run("ineligible member cannot reserve", func(t *testing.T) {
		t.Parallel()
		m := activeMember(1)
		m.Status = model.MemberSuspended
		_, err := core.DecideCreateReservation(unavailable, m, false, 0, pol, day(0))
		require.ErrorIs(t, err, errs.ErrMemberIneligible)
	})
}

func TestPeekHead(t *testing.T) {
	t.Parallel()

	r1 := model.Reservation{ID: 1, MemberID: 10, ReservationDate: day(0), ExpiryDate: day(3), Status: model.ReservationActive}
	r2 := model.Reservation{ID: 2, MemberID: 20, ReservationDate: day(1), ExpiryDate: day(4), Status: model.ReservationActive}

	t.Run("earliest reservation wins regardless of input order", func(t *testing.T) {
		t.Parallel()
		head := core.PeekHead([]model.Reservation{r2, r1}, day(2))
		require.NotNil(t, head)
		require.Equal(t, 10, head.MemberID)
	})

	t.Run("expired head falls through to the next in line", func(t *testing.T) {
		t.Parallel()
		head := core.PeekHead([]model.Reservation{r1, r2}, day(3))
		require.NotNil(t, head)
		require.Equal(t, 20, head.MemberID)
	})

	t.Run("same-instant reservations break ties by insertion order", func(t *testing.T) {
		t.Parallel()
		a := model.Reservation{ID: 5, MemberID: 50, ReservationDate: day(1), ExpiryDate: day(4), Status: model.ReservationActive}
		b := model.Reservation{ID: 3, MemberID: 30, ReservationDate: day(1), ExpiryDate: day(4), Status: model.ReservationActive}
		head := core.PeekHead([]model.Reservation{a, b}, day(2))
		require.NotNil(t, head)
		require.Equal(t, 30, head.MemberID)
	})

	t.Run("closed reservations never win", func(t *testing.T) {
		t.Parallel()
		fulfilled := r1
		fulfilled.Status = model.ReservationFulfilled
		cancelled := r1
		cancelled.ID = 3
		cancelled.Status = model.ReservationCancelled
		head := core.PeekHead([]model.Reservation{fulfilled, cancelled, r2}, day(2))
		require.NotNil(t, head)
		require.Equal(t, 20, head.MemberID)
	})

	t.Run("empty or fully expired queue", func(t *testing.T) {
		t.Parallel()
		require.Nil(t, core.PeekHead(nil, day(0)))
		require.Nil(t, core.PeekHead([]model.Reservation{r1, r2}, day(5)))
	})
}

func TestFineTransitions(t *testing.T) {
	t.Parallel()

	t.Run("partial then paid", func(t *testing.T) {
		t.Parallel()
		f := model.Fine{Amount: 100, Status: model.FinePending}

		dec, err := core.ApplyPayment(f, 40)
		require.NoError(t, err)
		require.Equal(t, model.FinePartial, dec.Fine.Status)
		require.Equal(t, int64(40), dec.Applied)
		require.Equal(t, int64(60), dec.Fine.Outstanding())

		dec, err = core.ApplyPayment(dec.Fine, 60)
		require.NoError(t, err)
		require.Equal(t, model.FinePaid, dec.Fine.Status)
		require.Zero(t, dec.Fine.Outstanding())
	})

	t.Run("overpayment clamped", func(t *testing.T) {
		t.Parallel()
		f := model.Fine{Amount: 100, PaidAmount: 70, Status: model.FinePartial}
		dec, err := core.ApplyPayment(f, 500)
		require.NoError(t, err)
		require.Equal(t, int64(30), dec.Applied)
		require.Equal(t, model.FinePaid, dec.Fine.Status)
	})

	t.Run("paying a settled fine", func(t *testing.T) {
		t.Parallel()
		f := model.Fine{Amount: 100, PaidAmount: 100, Status: model.FinePaid}
		_, err := core.ApplyPayment(f, 10)
		require.ErrorIs(t, err, errs.ErrFineSettled)
	})

	t.Run("waive partial fine", func(t *testing.T) {
		t.Parallel()
		f := model.Fine{Amount: 100, PaidAmount: 30, Status: model.FinePartial}
		dec, err := core.ApplyWaiver(f, "damaged in flood")
		require.NoError(t, err)
		require.Equal(t, model.FineWaived, dec.Fine.Status)
		require.Equal(t, int64(70), dec.Forgiven)
		require.NotNil(t, dec.Fine.Reason)
	})

	t.Run("waiving a settled fine", func(t *testing.T) {
		t.Parallel()
		f := model.Fine{Amount: 100, PaidAmount: 100, Status: model.FinePaid}
		_, err := core.ApplyWaiver(f, "nope")
		require.ErrorIs(t, err, errs.ErrFineSettled)
	})
}

func TestOverdueDerivation(t *testing.T) {
	t.Parallel()
	tx := model.Transaction{Status: model.TransactionIssued, DueDate: day(14)}

	require.False(t, core.IsOverdue(tx, day(14)))
	require.True(t, core.IsOverdue(tx, day(15)))
	require.Equal(t, model.TransactionIssued, core.DerivedStatus(tx, day(14)))
	require.Equal(t, model.TransactionOverdue, core.DerivedStatus(tx, day(15)))

	returned := tx
	returned.Status = model.TransactionReturned
	require.False(t, core.IsOverdue(returned, day(30)))
	require.Equal(t, model.TransactionReturned, core.DerivedStatus(returned, day(30)))

	require.Equal(t, 0, core.OverdueDays(day(14), day(14).Add(6*time.Hour)))
	require.Equal(t, 5, core.OverdueDays(day(14), day(19)))
}
