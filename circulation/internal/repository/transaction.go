package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/campuslib/circulation-service/circulation/internal/core"
	"github.com/campuslib/circulation-service/circulation/internal/errs"
	"github.com/campuslib/circulation-service/circulation/internal/model"
	"github.com/campuslib/circulation-service/circulation/internal/policy"
)

func (r *repository) IssueBook(ctx context.Context, bookUid, username string,
	pol policy.Settings, now time.Time, loanDays *int) (model.Transaction, error) {

	var created model.Transaction
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		book, err := lockBook(ctx, tx, bookUid)
		if err != nil {
			return err
		}
		member, err := lockMemberByUsername(ctx, tx, username)
		if err != nil {
			return err
		}
		head, err := peekReservation(ctx, tx, book.ID, now)
		if err != nil {
			return err
		}

		dec, err := core.DecideIssue(book, member, head, pol, now, loanDays)
		if err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx,
			`update books set available_copies = available_copies - 1 where id = $1 and available_copies > 0`,
			book.ID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return errs.ErrConcurrencyConflict
		}
		if err := addCurrentIssues(ctx, tx, member.ID, 1); err != nil {
			return err
		}
		if dec.FulfillsReservation != nil {
			if _, err := tx.ExecContext(ctx,
				`update reservations set status = $2 where id = $1`,
				dec.FulfillsReservation.ID, model.ReservationFulfilled); err != nil {
				return err
			}
		}

		q := `insert into transactions (transaction_uid, book_id, member_id, issue_date, due_date, status, renewal_count)
		values ($1, $2, $3, $4, $5, $6, 0)
		returning *`
		return tx.GetContext(ctx, &created, q,
			uuid.New(), book.ID, member.ID, now, dec.DueDate, model.TransactionIssued)
	})
	if err != nil {
		return model.Transaction{}, err
	}
	return created, nil
}

func (r *repository) ReturnBook(ctx context.Context, transactionUid, username string,
	condition *model.Condition, pol policy.Settings, now time.Time) (ReturnResult, error) {

	var result ReturnResult
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		trx, err := lockTransaction(ctx, tx, transactionUid)
		if err != nil {
			return err
		}
		member, err := lockMemberByID(ctx, tx, trx.MemberID)
		if err != nil {
			return err
		}
		if member.Username != username {
			return errs.ErrNotFound
		}
		book, err := lockBookByID(ctx, tx, trx.BookID)
		if err != nil {
			return err
		}

		dec, err := core.DecideReturn(trx, pol, now)
		if err != nil {
			return err
		}

		q := `update transactions set status = $2, return_date = $3, condition = $4 where id = $1 returning *`
		if err := tx.GetContext(ctx, &result.Transaction, q,
			trx.ID, model.TransactionReturned, now, condition); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`update books set available_copies = available_copies + 1 where id = $1`, book.ID); err != nil {
			return err
		}
		if err := addCurrentIssues(ctx, tx, member.ID, -1); err != nil {
			return err
		}

		result.OverdueDays = dec.OverdueDays
		result.FineAmount = dec.FineAmount
		if dec.FineAmount > 0 {
			fine, err := insertFine(ctx, tx, trx.ID, member.ID, dec.FineAmount, nil)
			if err != nil {
				return err
			}
			result.FineStatus = fine.Status
			if err := addUnpaidFines(ctx, tx, member.ID, dec.FineAmount); err != nil {
				return err
			}
		}

		// The freed copy goes on hold when a live reservation is queued; the
		// head learns about it out of band.
		head, err := peekReservation(ctx, tx, book.ID, now)
		if err != nil {
			return err
		}
		if head != nil {
			held, err := loadHeldNotification(ctx, tx, head, book)
			if err != nil {
				return err
			}
			result.HeldFor = held
		}
		return nil
	})
	if err != nil {
		return ReturnResult{}, err
	}
	return result, nil
}

func (r *repository) RenewBook(ctx context.Context, transactionUid, username string,
	pol policy.Settings, now time.Time) (model.Transaction, error) {

	var renewed model.Transaction
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		trx, err := lockTransaction(ctx, tx, transactionUid)
		if err != nil {
			return err
		}
		member, err := lockMemberByID(ctx, tx, trx.MemberID)
		if err != nil {
			return err
		}
		if member.Username != username {
			return errs.ErrNotFound
		}

		var reservedByOther bool
		q := `select exists (
			select 1 from reservations
			where book_id = $1 and member_id <> $2 and status = $3 and expiry_date > $4)`
		if err := tx.GetContext(ctx, &reservedByOther, q,
			trx.BookID, member.ID, model.ReservationActive, now); err != nil {
			return err
		}

		newDue, err := core.DecideRenew(trx, reservedByOther, pol, now)
		if err != nil {
			return err
		}

		uq := `update transactions set due_date = $2, renewal_count = renewal_count + 1 where id = $1 returning *`
		return tx.GetContext(ctx, &renewed, uq, trx.ID, newDue)
	})
	if err != nil {
		return model.Transaction{}, err
	}
	return renewed, nil
}

func (r *repository) MarkLost(ctx context.Context, transactionUid, username string,
	pol policy.Settings, now time.Time) (MarkLostResult, error) {

	var result MarkLostResult
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		trx, err := lockTransaction(ctx, tx, transactionUid)
		if err != nil {
			return err
		}
		member, err := lockMemberByID(ctx, tx, trx.MemberID)
		if err != nil {
			return err
		}
		if member.Username != username {
			return errs.ErrNotFound
		}
		book, err := lockBookByID(ctx, tx, trx.BookID)
		if err != nil {
			return err
		}

		fine, err := core.DecideMarkLost(trx, book, pol)
		if err != nil {
			return err
		}

		q := `update transactions set status = $2, return_date = $3 where id = $1 returning *`
		if err := tx.GetContext(ctx, &result.Transaction, q, trx.ID, model.TransactionLost, now); err != nil {
			return err
		}
		// The copy leaves the pool for good: shrink the catalog total so
		// capacity reporting stays honest.
		if _, err := tx.ExecContext(ctx,
			`update books set total_copies = total_copies - 1 where id = $1 and total_copies > 0`, book.ID); err != nil {
			return err
		}
		if err := addCurrentIssues(ctx, tx, member.ID, -1); err != nil {
			return err
		}

		reason := "lost book replacement"
		if _, err := insertFine(ctx, tx, trx.ID, member.ID, fine, &reason); err != nil {
			return err
		}
		if err := addUnpaidFines(ctx, tx, member.ID, fine); err != nil {
			return err
		}
		result.FineAmount = fine
		return nil
	})
	if err != nil {
		return MarkLostResult{}, err
	}
	return result, nil
}

func (r *repository) ListTransactions(ctx context.Context, username string) ([]model.TransactionView, error) {
	q := `
	select t.transaction_uid, b.book_uid, b.name as book_name,
	       t.issue_date, t.due_date, t.return_date, t.status, t.renewal_count
	from transactions t
	join books b on b.id = t.book_id
	join members m on m.id = t.member_id
	where m.username = $1
	order by t.issue_date desc, t.id desc`

	var items []model.TransactionView
	if err := r.db.SelectContext(ctx, &items, q, username); err != nil {
		r.log.Error("ListTransactions", zap.Error(err))
		return nil, err
	}
	return items, nil
}

func lockTransaction(ctx context.Context, tx *sqlx.Tx, transactionUid string) (model.Transaction, error) {
	var trx model.Transaction
	q := `select id, transaction_uid, book_id, member_id, issue_date, due_date,
	return_date, status, renewal_count, condition
	from transactions where transaction_uid = $1 for update`
	if err := tx.GetContext(ctx, &trx, q, transactionUid); err != nil {
		return model.Transaction{}, notFoundOr(err)
	}
	return trx, nil
}

func loadHeldNotification(ctx context.Context, tx *sqlx.Tx, head *model.Reservation, book model.Book) (*HeldNotification, error) {
	var contact struct {
		MemberUid string `db:"member_uid"`
		Username  string `db:"username"`
		Email     string `db:"email"`
		Phone     string `db:"phone"`
	}
	q := `select member_uid, username, email, phone from members where id = $1`
	if err := tx.GetContext(ctx, &contact, q, head.MemberID); err != nil {
		return nil, errors.Wrap(err, "reservation holder contact")
	}
	return &HeldNotification{
		MemberUid:     contact.MemberUid,
		Username:      contact.Username,
		Email:         contact.Email,
		Phone:         contact.Phone,
		BookUid:       book.BookUid,
		BookName:      book.Name,
		HoldExpiresAt: head.ExpiryDate,
	}, nil
}
