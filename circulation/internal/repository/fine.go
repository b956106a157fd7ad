package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/campuslib/circulation-service/circulation/internal/core"
	"github.com/campuslib/circulation-service/circulation/internal/errs"
	"github.com/campuslib/circulation-service/circulation/internal/model"
)

func insertFine(ctx context.Context, tx *sqlx.Tx, transactionID, memberID int, amount int64, reason *string) (model.Fine, error) {
	var fine model.Fine
	q := `insert into fines (fine_uid, transaction_id, member_id, amount, paid_amount, status, reason)
	values ($1, $2, $3, $4, 0, $5, $6)
	returning *`
	if err := tx.GetContext(ctx, &fine, q,
		uuid.New(), transactionID, memberID, amount, model.FinePending, reason); err != nil {
		return model.Fine{}, err
	}
	return fine, nil
}

func (r *repository) PayFine(ctx context.Context, fineUid, username string, amount int64) (model.Fine, error) {
	var updated model.Fine
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		fine, err := lockFine(ctx, tx, fineUid)
		if err != nil {
			return err
		}
		member, err := lockMemberByID(ctx, tx, fine.MemberID)
		if err != nil {
			return err
		}
		if member.Username != username {
			return errs.ErrNotFound
		}

		dec, err := core.ApplyPayment(fine, amount)
		if err != nil {
			return err
		}

		q := `update fines set paid_amount = $2, status = $3 where id = $1 returning *`
		if err := tx.GetContext(ctx, &updated, q, fine.ID, dec.Fine.PaidAmount, dec.Fine.Status); err != nil {
			return err
		}
		return addUnpaidFines(ctx, tx, member.ID, -dec.Applied)
	})
	if err != nil {
		return model.Fine{}, err
	}
	return updated, nil
}

func (r *repository) WaiveFine(ctx context.Context, fineUid, reason string) (model.Fine, error) {
	var updated model.Fine
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		fine, err := lockFine(ctx, tx, fineUid)
		if err != nil {
			return err
		}

		dec, err := core.ApplyWaiver(fine, reason)
		if err != nil {
			return err
		}

		q := `update fines set status = $2, reason = $3 where id = $1 returning *`
		if err := tx.GetContext(ctx, &updated, q, fine.ID, dec.Fine.Status, reason); err != nil {
			return err
		}
		return addUnpaidFines(ctx, tx, fine.MemberID, -dec.Forgiven)
	})
	if err != nil {
		return model.Fine{}, err
	}
	return updated, nil
}

func (r *repository) ListFines(ctx context.Context, username string) ([]model.FineView, error) {
	q := `
	select f.fine_uid, t.transaction_uid, f.amount, f.paid_amount, f.status, f.reason
	from fines f
	join transactions t on t.id = f.transaction_id
	join members m on m.id = f.member_id
	where m.username = $1
	order by f.id desc`

	var items []model.FineView
	if err := r.db.SelectContext(ctx, &items, q, username); err != nil {
		r.log.Error("ListFines", zap.Error(err))
		return nil, err
	}
	return items, nil
}

func lockFine(ctx context.Context, tx *sqlx.Tx, fineUid string) (model.Fine, error) {
	var fine model.Fine
	q := `select id, fine_uid, transaction_id, member_id, amount, paid_amount, status, reason
	from fines where fine_uid = $1 for update`
	if err := tx.GetContext(ctx, &fine, q, fineUid); err != nil {
		return model.Fine{}, notFoundOr(err)
	}
	return fine, nil
}
