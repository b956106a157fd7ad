// Package core contains the pure circulation decisions. Every function takes
// already-loaded rows plus a policy snapshot and a clock value and returns
// either the mutation to apply or a typed error; the repository calls them
// inside the transaction that holds the row locks, so a decision and its
// writes are atomic.
package core

import (
	"time"

	"github.com/campuslib/circulation-service/circulation/internal/errs"
	"github.com/campuslib/circulation-service/circulation/internal/model"
	"github.com/campuslib/circulation-service/circulation/internal/policy"
)

// CanBorrow is the eligibility predicate: active membership, below the
// per-class issue limit, and no suspension still in force. A suspension end
// date strictly before today lifts the suspension without any background job.
func CanBorrow(m model.Member, lim policy.ClassLimits, now time.Time) error {
	if m.Status != model.MemberActive {
		return errs.ErrMemberIneligible
	}
	if m.CurrentIssues >= lim.MaxBooks {
		return errs.ErrMemberIneligible
	}
	if m.SuspensionEndDate != nil && !m.SuspensionEndDate.Before(truncateToDay(now)) {
		return errs.ErrMemberIneligible
	}
	return nil
}

// IsOverdue derives the overdue condition; it is never stored.
func IsOverdue(tx model.Transaction, now time.Time) bool {
	return tx.Status == model.TransactionIssued && now.After(tx.DueDate)
}

// DerivedStatus is what the API reports: ISSUED past its due date shows as
// OVERDUE.
func DerivedStatus(tx model.Transaction, now time.Time) model.TransactionStatus {
	if IsOverdue(tx, now) {
		return model.TransactionOverdue
	}
	return tx.Status
}

// OverdueDays counts whole calendar days between the due date and now,
// both truncated to UTC dates. A return later on the due day costs nothing.
func OverdueDays(due, now time.Time) int {
	d := truncateToDay(now).Sub(truncateToDay(due))
	if d <= 0 {
		return 0
	}
	return int(d / (24 * time.Hour))
}

// OverdueFine applies the per-day rate up to the configured cap.
func OverdueFine(overdueDays int, pol policy.Settings) int64 {
	fine := int64(overdueDays) * pol.FinePerDay
	if fine > pol.FineCap {
		fine = pol.FineCap
	}
	return fine
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type IssueDecision struct {
	DueDate time.Time
	// FulfillsReservation is set when the borrower is claiming the copy held
	// by their own head-of-queue reservation.
	FulfillsReservation *model.Reservation
}

// DecideIssue checks the issue preconditions. head is the oldest live ACTIVE
// reservation for the book, if any; a held copy may only be claimed by the
// reservation holder.
func DecideIssue(book model.Book, m model.Member, head *model.Reservation,
	pol policy.Settings, now time.Time, loanDays *int) (IssueDecision, error) {

	lim := pol.Limits(m.Class)
	if err := CanBorrow(m, lim, now); err != nil {
		return IssueDecision{}, err
	}
	if book.AvailableCopies <= 0 {
		return IssueDecision{}, errs.ErrNotAvailable
	}
	if head != nil && head.MemberID != m.ID {
		return IssueDecision{}, errs.ErrReservedByOther
	}

	days := lim.MaxDays
	if loanDays != nil {
		days = *loanDays
	}
	dec := IssueDecision{
		DueDate: now.Add(time.Duration(days) * 24 * time.Hour),
	}
	if head != nil && head.MemberID == m.ID {
		dec.FulfillsReservation = head
	}
	return dec, nil
}

type ReturnDecision struct {
	OverdueDays int
	FineAmount  int64
}

// DecideReturn closes an open loan: only ISSUED transactions (overdue or not)
// can be returned; the fine is computed from the overdue days.
func DecideReturn(tx model.Transaction, pol policy.Settings, now time.Time) (ReturnDecision, error) {
	if tx.Status != model.TransactionIssued {
		return ReturnDecision{}, errs.ErrAlreadyReturned
	}
	days := OverdueDays(tx.DueDate, now)
	return ReturnDecision{
		OverdueDays: days,
		FineAmount:  OverdueFine(days, pol),
	}, nil
}

// DecideRenew extends the due date. An overdue loan must be returned and
// re-issued, and a book wanted by someone else's reservation cannot be kept
// longer.
func DecideRenew(tx model.Transaction, reservedByOther bool,
	pol policy.Settings, now time.Time) (time.Time, error) {

	if tx.Status != model.TransactionIssued {
		return time.Time{}, errs.ErrAlreadyReturned
	}
	if IsOverdue(tx, now) {
		return time.Time{}, errs.ErrAlreadyOverdue
	}
	if tx.RenewalCount >= pol.MaxRenewals {
		return time.Time{}, errs.ErrRenewalLimitReached
	}
	if reservedByOther {
		return time.Time{}, errs.ErrReservedByOther
	}
	return tx.DueDate.Add(time.Duration(pol.RenewalExtendsDays) * 24 * time.Hour), nil
}

// DecideMarkLost charges the replacement cost, falling back to the configured
// default when the book has none recorded.
func DecideMarkLost(tx model.Transaction, book model.Book, pol policy.Settings) (int64, error) {
	if tx.Status != model.TransactionIssued {
		return 0, errs.ErrAlreadyReturned
	}
	fine := book.ReplacementCost
	if fine == 0 {
		fine = pol.LostBookFine
	}
	return fine, nil
}

// DecideCreateReservation gates a new hold: only unavailable titles can be
// reserved, one live hold per member per title, bounded by the per-member cap.
func DecideCreateReservation(book model.Book, m model.Member, hasActiveForBook bool,
	activeCount int, pol policy.Settings, now time.Time) (time.Time, error) {

	if err := CanBorrow(m, pol.Limits(m.Class), now); err != nil {
		return time.Time{}, err
	}
	if book.AvailableCopies > 0 {
		return time.Time{}, errs.ErrBookAvailable
	}
	if hasActiveForBook {
		return time.Time{}, errs.ErrDuplicateReservation
	}
	if activeCount >= pol.MaxReservationsPerMember {
		return time.Time{}, errs.ErrReservationLimit
	}
	return now.Add(time.Duration(pol.ReservationExpiryDays) * 24 * time.Hour), nil
}

// PeekHead picks the head of a book's reservation queue: the oldest live
// ACTIVE reservation, ties broken by insertion order. Expired rows the sweep
// has not flipped yet never win, regardless of input order.
func PeekHead(rsvs []model.Reservation, now time.Time) *model.Reservation {
	var head *model.Reservation
	for i := range rsvs {
		r := &rsvs[i]
		if r.Status != model.ReservationActive || !r.ExpiryDate.After(now) {
			continue
		}
		if head == nil ||
			r.ReservationDate.Before(head.ReservationDate) ||
			(r.ReservationDate.Equal(head.ReservationDate) && r.ID < head.ID) {
			head = r
		}
	}
	return head
}

type PaymentDecision struct {
	Fine model.Fine
	// Applied is what actually reduces the member's unpaid balance; an
	// overpayment is clamped to the outstanding amount.
	Applied int64
}

// ApplyPayment moves a fine towards PAID. Settled fines reject further
// payments.
func ApplyPayment(f model.Fine, amount int64) (PaymentDecision, error) {
	if f.Status == model.FinePaid || f.Status == model.FineWaived {
		return PaymentDecision{}, errs.ErrFineSettled
	}
	applied := amount
	if outstanding := f.Outstanding(); applied > outstanding {
		applied = outstanding
	}
	f.PaidAmount += applied
	if f.PaidAmount >= f.Amount {
		f.Status = model.FinePaid
	} else {
		f.Status = model.FinePartial
	}
	return PaymentDecision{Fine: f, Applied: applied}, nil
}

type WaiverDecision struct {
	Fine model.Fine
	// Forgiven is the outstanding portion removed from the member's balance.
	Forgiven int64
}

// ApplyWaiver forgives the outstanding portion of a PENDING or PARTIAL fine.
func ApplyWaiver(f model.Fine, reason string) (WaiverDecision, error) {
	if f.Status != model.FinePending && f.Status != model.FinePartial {
		return WaiverDecision{}, errs.ErrFineSettled
	}
	forgiven := f.Outstanding()
	f.Status = model.FineWaived
	f.Reason = &reason
	return WaiverDecision{Fine: f, Forgiven: forgiven}, nil
}
