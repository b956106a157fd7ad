package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/campuslib/circulation-service/circulation/internal/model"

	sq "github.com/Masterminds/squirrel"
)

func (r *repository) CreateMember(ctx context.Context, req model.CreateMemberRequest) (model.Member, error) {
	q, args, err := qb.Insert(membersTableName).
		Columns("member_uid", "username", "email", "phone", "class", "status").
		Values(uuid.New(), req.Username, req.Email, req.Phone, req.Class, model.MemberActive).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Member{}, err
	}
	var m model.Member
	if err := r.db.GetContext(ctx, &m, q, args...); err != nil {
		r.log.Error("CreateMember", zap.String("q", q), zap.Error(err))
		return model.Member{}, classifyPgError(err)
	}
	return m, nil
}

func (r *repository) GetMemberByUsername(ctx context.Context, username string) (model.Member, error) {
	q, args, err := qb.Select("id", "member_uid", "username", "email", "phone", "class", "status",
		"suspension_end_date", "current_issues", "unpaid_fines").
		From(membersTableName).
		Where(sq.Eq{"username": username}).
		ToSql()
	if err != nil {
		return model.Member{}, err
	}
	var m model.Member
	if err := r.db.GetContext(ctx, &m, q, args...); err != nil {
		return model.Member{}, notFoundOr(err)
	}
	return m, nil
}

func lockMemberByUsername(ctx context.Context, tx *sqlx.Tx, username string) (model.Member, error) {
	var m model.Member
	q := `select id, member_uid, username, email, phone, class, status,
	suspension_end_date, current_issues, unpaid_fines
	from members where username = $1 for update`
	if err := tx.GetContext(ctx, &m, q, username); err != nil {
		return model.Member{}, notFoundOr(err)
	}
	return m, nil
}

func lockMemberByID(ctx context.Context, tx *sqlx.Tx, id int) (model.Member, error) {
	var m model.Member
	q := `select id, member_uid, username, email, phone, class, status,
	suspension_end_date, current_issues, unpaid_fines
	from members where id = $1 for update`
	if err := tx.GetContext(ctx, &m, q, id); err != nil {
		return model.Member{}, notFoundOr(err)
	}
	return m, nil
}

// addUnpaidFines moves the member's balance; negative deltas never take it
// below zero.
func addUnpaidFines(ctx context.Context, tx *sqlx.Tx, memberID int, delta int64) error {
	q := `update members set unpaid_fines = greatest(unpaid_fines + $2, 0) where id = $1`
	_, err := tx.ExecContext(ctx, q, memberID, delta)
	return err
}

func addCurrentIssues(ctx context.Context, tx *sqlx.Tx, memberID, delta int) error {
	q := `update members set current_issues = greatest(current_issues + $2, 0) where id = $1`
	_, err := tx.ExecContext(ctx, q, memberID, delta)
	return err
}
