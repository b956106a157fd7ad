package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/campuslib/circulation-service/circulation/internal/core"
	"github.com/campuslib/circulation-service/circulation/internal/errs"
	"github.com/campuslib/circulation-service/circulation/internal/model"
	"github.com/campuslib/circulation-service/circulation/internal/policy"
)

// peekReservation locks the book's ACTIVE reservations and returns the queue
// head chosen by core.PeekHead. Expired rows the sweep has not caught yet are
// skipped.
func peekReservation(ctx context.Context, tx *sqlx.Tx, bookID int, now time.Time) (*model.Reservation, error) {
	var rsvs []model.Reservation
	q := `select id, reservation_uid, book_id, member_id, reservation_date, expiry_date, status
	from reservations
	where book_id = $1 and status = $2
	order by reservation_date, id
	for update`
	if err := tx.SelectContext(ctx, &rsvs, q, bookID, model.ReservationActive); err != nil {
		return nil, err
	}
	return core.PeekHead(rsvs, now), nil
}

func (r *repository) CreateReservation(ctx context.Context, bookUid, username string,
	pol policy.Settings, now time.Time) (model.ReservationView, error) {

	var view model.ReservationView
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		// lock the book row to serialize against concurrent issues/returns
		// flipping availability
		book, err := lockBook(ctx, tx, bookUid)
		if err != nil {
			return err
		}
		member, err := lockMemberByUsername(ctx, tx, username)
		if err != nil {
			return err
		}

		var hasActiveForBook bool
		if err := tx.GetContext(ctx, &hasActiveForBook,
			`select exists (select 1 from reservations where book_id = $1 and member_id = $2 and status = $3)`,
			book.ID, member.ID, model.ReservationActive); err != nil {
			return err
		}
		var activeCount int
		if err := tx.GetContext(ctx, &activeCount,
			`select count(*) from reservations where member_id = $1 and status = $2`,
			member.ID, model.ReservationActive); err != nil {
			return err
		}

		expiry, err := core.DecideCreateReservation(book, member, hasActiveForBook, activeCount, pol, now)
		if err != nil {
			return err
		}

		var rsv model.Reservation
		q := `insert into reservations (reservation_uid, book_id, member_id, reservation_date, expiry_date, status)
		values ($1, $2, $3, $4, $5, $6)
		returning *`
		if err := tx.GetContext(ctx, &rsv, q,
			uuid.New(), book.ID, member.ID, now, expiry, model.ReservationActive); err != nil {
			return err
		}

		var position int
		if err := tx.GetContext(ctx, &position,
			`select count(*) from reservations
			where book_id = $1 and status = $2 and expiry_date > $3
			  and (reservation_date, id) <= ($4, $5)`,
			book.ID, model.ReservationActive, now, rsv.ReservationDate, rsv.ID); err != nil {
			return err
		}

		view = model.ReservationView{
			ReservationUid:  rsv.ReservationUid,
			BookUid:         book.BookUid,
			BookName:        book.Name,
			ReservationDate: rsv.ReservationDate,
			ExpiryDate:      rsv.ExpiryDate,
			Status:          rsv.Status,
			QueuePosition:   position,
		}
		return nil
	})
	if err != nil {
		return model.ReservationView{}, err
	}
	return view, nil
}

func (r *repository) CancelReservation(ctx context.Context, reservationUid, username string) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		var rsv model.Reservation
		q := `select id, reservation_uid, book_id, member_id, reservation_date, expiry_date, status
		from reservations where reservation_uid = $1 for update`
		if err := tx.GetContext(ctx, &rsv, q, reservationUid); err != nil {
			return notFoundOr(err)
		}
		member, err := lockMemberByID(ctx, tx, rsv.MemberID)
		if err != nil {
			return err
		}
		if member.Username != username {
			return errs.ErrNotReservationOwner
		}
		if rsv.Status != model.ReservationActive {
			return errs.ErrNotFound
		}
		_, err = tx.ExecContext(ctx,
			`update reservations set status = $2 where id = $1`,
			rsv.ID, model.ReservationCancelled)
		return err
	})
}

func (r *repository) ListReservations(ctx context.Context, username string) ([]model.ReservationView, error) {
	q := `
	select r.reservation_uid, b.book_uid, b.name as book_name,
	       r.reservation_date, r.expiry_date, r.status,
	       case when r.status = 'ACTIVE' then
	         (select count(*) from reservations r2
	          where r2.book_id = r.book_id and r2.status = 'ACTIVE'
	            and r2.expiry_date > now()
	            and (r2.reservation_date, r2.id) <= (r.reservation_date, r.id))
	       else 0 end as queue_position
	from reservations r
	join books b on b.id = r.book_id
	join members m on m.id = r.member_id
	where m.username = $1
	order by r.reservation_date desc, r.id desc`

	var items []model.ReservationView
	if err := r.db.SelectContext(ctx, &items, q, username); err != nil {
		r.log.Error("ListReservations", zap.Error(err))
		return nil, err
	}
	return items, nil
}

// ExpireReservations is the periodic sweep: a single guarded update, safe to
// run concurrently with itself and with returns.
func (r *repository) ExpireReservations(ctx context.Context, now time.Time) (int64, error) {
	q := `update reservations set status = $1 where status = $2 and expiry_date <= $3`
	res, err := r.db.ExecContext(ctx, q, model.ReservationExpired, model.ReservationActive, now)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, nil
}
