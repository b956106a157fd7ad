package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/campuslib/circulation-service/circulation/internal/core"
	"github.com/campuslib/circulation-service/circulation/internal/model"
	"github.com/campuslib/circulation-service/circulation/internal/policy"
	"github.com/campuslib/circulation-service/circulation/internal/repository"
)

// Clock is injectable so due dates and fines are deterministic under test.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

type Service struct {
	log      *zap.Logger
	repo     repository.Repository
	policies *policy.Store
	clock    Clock
	notifier Notifier
}

type Option func(*Service)

func WithClock(c Clock) Option {
	return func(s *Service) { s.clock = c }
}

func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

func NewService(repo repository.Repository, policies *policy.Store, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		log:      log,
		repo:     repo,
		policies: policies,
		clock:    realClock{},
		notifier: nopNotifier{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) IssueBook(ctx context.Context, bookUid, username string, req model.IssueBookRequest) (model.IssueBookResponse, error) {
	pol := s.policies.Snapshot()
	trx, err := s.repo.IssueBook(ctx, bookUid, username, pol, s.clock.Now(), req.LoanDays)
	if err != nil {
		return model.IssueBookResponse{}, err
	}
	return model.IssueBookResponse{
		TransactionUid:    trx.TransactionUid,
		BookUid:           bookUid,
		DueDate:           trx.DueDate,
		RenewalsRemaining: pol.MaxRenewals - trx.RenewalCount,
	}, nil
}

func (s *Service) ReturnBook(ctx context.Context, transactionUid, username string, req model.ReturnBookRequest) (model.ReturnBookResponse, error) {
	var condition *model.Condition
	if req.Condition != "" {
		condition = &req.Condition
	}
	res, err := s.repo.ReturnBook(ctx, transactionUid, username, condition, s.policies.Snapshot(), s.clock.Now())
	if err != nil {
		return model.ReturnBookResponse{}, err
	}

	if res.HeldFor != nil {
		s.notifyHeld(res.HeldFor)
	}

	return model.ReturnBookResponse{
		TransactionUid: res.Transaction.TransactionUid,
		OverdueDays:    res.OverdueDays,
		FineAmount:     res.FineAmount,
		FineStatus:     res.FineStatus,
	}, nil
}

func (s *Service) RenewBook(ctx context.Context, transactionUid, username string) (model.RenewBookResponse, error) {
	trx, err := s.repo.RenewBook(ctx, transactionUid, username, s.policies.Snapshot(), s.clock.Now())
	if err != nil {
		return model.RenewBookResponse{}, err
	}
	return model.RenewBookResponse{
		TransactionUid: trx.TransactionUid,
		NewDueDate:     trx.DueDate,
		RenewalCount:   trx.RenewalCount,
	}, nil
}

func (s *Service) MarkLost(ctx context.Context, transactionUid, username string) (model.MarkLostResponse, error) {
	res, err := s.repo.MarkLost(ctx, transactionUid, username, s.policies.Snapshot(), s.clock.Now())
	if err != nil {
		return model.MarkLostResponse{}, err
	}
	return model.MarkLostResponse{
		TransactionUid: res.Transaction.TransactionUid,
		FineAmount:     res.FineAmount,
	}, nil
}

// ListTransactions derives the visible OVERDUE state and remaining renewals
// at read time; the stored status never flips without a member action.
func (s *Service) ListTransactions(ctx context.Context, username string) ([]model.TransactionView, error) {
	items, err := s.repo.ListTransactions(ctx, username)
	if err != nil {
		return nil, err
	}
	pol := s.policies.Snapshot()
	now := s.clock.Now()
	for i := range items {
		items[i].Status = core.DerivedStatus(model.Transaction{
			Status:  items[i].Status,
			DueDate: items[i].DueDate,
		}, now)
		if items[i].Status == model.TransactionIssued || items[i].Status == model.TransactionOverdue {
			items[i].RenewalsRemaining = pol.MaxRenewals - items[i].RenewalCount
			if items[i].RenewalsRemaining < 0 {
				items[i].RenewalsRemaining = 0
			}
		}
	}
	return items, nil
}

func (s *Service) CreateReservation(ctx context.Context, username string, req model.CreateReservationRequest) (model.ReservationView, error) {
	return s.repo.CreateReservation(ctx, req.BookUid, username, s.policies.Snapshot(), s.clock.Now())
}

func (s *Service) CancelReservation(ctx context.Context, reservationUid, username string) error {
	return s.repo.CancelReservation(ctx, reservationUid, username)
}

func (s *Service) ListReservations(ctx context.Context, username string) ([]model.ReservationView, error) {
	return s.repo.ListReservations(ctx, username)
}

func (s *Service) PayFine(ctx context.Context, fineUid, username string, req model.PayFineRequest) (model.Fine, error) {
	return s.repo.PayFine(ctx, fineUid, username, req.Amount)
}

func (s *Service) WaiveFine(ctx context.Context, fineUid string, req model.WaiveFineRequest) (model.Fine, error) {
	return s.repo.WaiveFine(ctx, fineUid, req.Reason)
}

func (s *Service) ListFines(ctx context.Context, username string) ([]model.FineView, error) {
	return s.repo.ListFines(ctx, username)
}

func (s *Service) CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error) {
	return s.repo.CreateBook(ctx, req)
}

func (s *Service) GetBook(ctx context.Context, bookUid string) (model.Book, error) {
	return s.repo.GetBook(ctx, bookUid)
}

func (s *Service) ListBooks(ctx context.Context, showAll bool, page, size int) (model.ListBooks, error) {
	return s.repo.ListBooks(ctx, showAll, page, size)
}

func (s *Service) CreateMember(ctx context.Context, req model.CreateMemberRequest) (model.Member, error) {
	return s.repo.CreateMember(ctx, req)
}

func (s *Service) GetMemberByUsername(ctx context.Context, username string) (model.Member, error) {
	return s.repo.GetMemberByUsername(ctx, username)
}

func (s *Service) Policy() policy.Settings {
	return s.policies.Snapshot()
}

func (s *Service) UpdatePolicy(next policy.Settings) error {
	if err := s.policies.Replace(next); err != nil {
		return err
	}
	s.log.Info("policy replaced", zap.Any("policy", next))
	return nil
}
