package handler

import (
	"context"

	"github.com/campuslib/circulation-service/circulation/internal/model"
	"github.com/campuslib/circulation-service/circulation/internal/policy"
)

//go:generate mockgen -source=service.go -destination=mocks/mock_service.go -package=service_mocks

type CirculationService interface {
	IssueBook(ctx context.Context, bookUid, username string, req model.IssueBookRequest) (model.IssueBookResponse, error)
	ReturnBook(ctx context.Context, transactionUid, username string, req model.ReturnBookRequest) (model.ReturnBookResponse, error)
	RenewBook(ctx context.Context, transactionUid, username string) (model.RenewBookResponse, error)
	MarkLost(ctx context.Context, transactionUid, username string) (model.MarkLostResponse, error)
	ListTransactions(ctx context.Context, username string) ([]model.TransactionView, error)

	CreateReservation(ctx context.Context, username string, req model.CreateReservationRequest) (model.ReservationView, error)
	CancelReservation(ctx context.Context, reservationUid, username string) error
	ListReservations(ctx context.Context, username string) ([]model.ReservationView, error)

	PayFine(ctx context.Context, fineUid, username string, req model.PayFineRequest) (model.Fine, error)
	WaiveFine(ctx context.Context, fineUid string, req model.WaiveFineRequest) (model.Fine, error)
	ListFines(ctx context.Context, username string) ([]model.FineView, error)

	CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error)
	GetBook(ctx context.Context, bookUid string) (model.Book, error)
	ListBooks(ctx context.Context, showAll bool, page, size int) (model.ListBooks, error)
	CreateMember(ctx context.Context, req model.CreateMemberRequest) (model.Member, error)
	GetMemberByUsername(ctx context.Context, username string) (model.Member, error)

	Policy() policy.Settings
	UpdatePolicy(next policy.Settings) error
}
