package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/campuslib/circulation-service/circulation/internal/errs"
	"github.com/campuslib/circulation-service/circulation/internal/model"
	"github.com/campuslib/circulation-service/circulation/internal/policy"
)

//go:generate mockgen -source=repository.go -destination=mocks/mock_repository.go -package=repository_mocks

type Repository interface {
	// catalog
	CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error)
	GetBook(ctx context.Context, bookUid string) (model.Book, error)
	ListBooks(ctx context.Context, showAll bool, page, size int) (model.ListBooks, error)

	// members
	CreateMember(ctx context.Context, req model.CreateMemberRequest) (model.Member, error)
	GetMemberByUsername(ctx context.Context, username string) (model.Member, error)

	// circulation engine
	IssueBook(ctx context.Context, bookUid, username string, pol policy.Settings, now time.Time, loanDays *int) (model.Transaction, error)
	ReturnBook(ctx context.Context, transactionUid, username string, condition *model.Condition, pol policy.Settings, now time.Time) (ReturnResult, error)
	RenewBook(ctx context.Context, transactionUid, username string, pol policy.Settings, now time.Time) (model.Transaction, error)
	MarkLost(ctx context.Context, transactionUid, username string, pol policy.Settings, now time.Time) (MarkLostResult, error)
	ListTransactions(ctx context.Context, username string) ([]model.TransactionView, error)

	// reservation queue
	CreateReservation(ctx context.Context, bookUid, username string, pol policy.Settings, now time.Time) (model.ReservationView, error)
	CancelReservation(ctx context.Context, reservationUid, username string) error
	ListReservations(ctx context.Context, username string) ([]model.ReservationView, error)
	ExpireReservations(ctx context.Context, now time.Time) (int64, error)

	// fine ledger
	PayFine(ctx context.Context, fineUid, username string, amount int64) (model.Fine, error)
	WaiveFine(ctx context.Context, fineUid, reason string) (model.Fine, error)
	ListFines(ctx context.Context, username string) ([]model.FineView, error)
}

// HeldNotification carries everything the notifier needs when a returned copy
// is put on hold for the head of the queue.
type HeldNotification struct {
	MemberUid     string
	Username      string
	Email         string
	Phone         string
	BookUid       string
	BookName      string
	HoldExpiresAt time.Time
}

type ReturnResult struct {
	Transaction model.Transaction
	OverdueDays int
	FineAmount  int64
	FineStatus  model.FineStatus
	// HeldFor is non-nil when the freed copy is claimed by a live reservation.
	HeldFor *HeldNotification
}

type MarkLostResult struct {
	Transaction model.Transaction
	FineAmount  int64
}

type repository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewRepository(db *sqlx.DB, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	booksTableName        = `books`
	membersTableName      = `members`
	transactionsTableName = `transactions`
	reservationsTableName = `reservations`
	finesTableName        = `fines`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// withTx runs fn in a transaction. Engine operations lock the affected book,
// member and transaction rows with SELECT ... FOR UPDATE inside fn, so a
// losing concurrent writer blocks and then re-reads consistent state;
// serialization failures surface as a retryable conflict.
func (r *repository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if err := fn(tx); err != nil {
		return classifyPgError(err)
	}
	if err := tx.Commit(); err != nil {
		return classifyPgError(err)
	}
	return nil
}

func classifyPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected:
			return errors.Wrap(errs.ErrConcurrencyConflict, pgErr.Message)
		case pgerrcode.UniqueViolation:
			return errors.Wrap(errs.ErrDuplicateReservation, pgErr.Message)
		}
	}
	return err
}

func notFoundOr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return errs.ErrNotFound
	}
	return err
}
