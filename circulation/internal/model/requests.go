package model

import (
	"time"
)

type IssueBookRequest struct {
	LoanDays *int `json:"loanDays,omitempty" validate:"omitempty,min=1,max=365"`
}

type IssueBookResponse struct {
	TransactionUid    string    `json:"transactionUid"`
	BookUid           string    `json:"bookUid"`
	DueDate           time.Time `json:"dueDate"`
	RenewalsRemaining int       `json:"renewalsRemaining"`
}

type TransactionView struct {
	TransactionUid    string            `json:"transactionUid" db:"transaction_uid"`
	BookUid           string            `json:"bookUid" db:"book_uid"`
	BookName          string            `json:"bookName" db:"book_name"`
	IssueDate         time.Time         `json:"issueDate" db:"issue_date"`
	DueDate           time.Time         `json:"dueDate" db:"due_date"`
	ReturnDate        *time.Time        `json:"returnDate,omitempty" db:"return_date"`
	Status            TransactionStatus `json:"status" db:"status"`
	RenewalCount      int               `json:"renewalCount" db:"renewal_count"`
	RenewalsRemaining int               `json:"renewalsRemaining" db:"-"`
}

type ReturnBookRequest struct {
	Condition Condition `json:"condition,omitempty" validate:"omitempty,oneof=EXCELLENT GOOD BAD"`
}

type ReturnBookResponse struct {
	TransactionUid string     `json:"transactionUid"`
	OverdueDays    int        `json:"overdueDays"`
	FineAmount     int64      `json:"fineAmount"`
	FineStatus     FineStatus `json:"fineStatus,omitempty"`
}

type RenewBookResponse struct {
	TransactionUid string    `json:"transactionUid"`
	NewDueDate     time.Time `json:"newDueDate"`
	RenewalCount   int       `json:"renewalCount"`
}

type MarkLostResponse struct {
	TransactionUid string `json:"transactionUid"`
	FineAmount     int64  `json:"fineAmount"`
}

type CreateReservationRequest struct {
	BookUid string `json:"bookUid" validate:"required,uuid"`
}

type ReservationView struct {
	ReservationUid  string            `json:"reservationUid" db:"reservation_uid"`
	BookUid         string            `json:"bookUid" db:"book_uid"`
	BookName        string            `json:"bookName" db:"book_name"`
	ReservationDate time.Time         `json:"reservationDate" db:"reservation_date"`
	ExpiryDate      time.Time         `json:"expiryDate" db:"expiry_date"`
	Status          ReservationStatus `json:"status" db:"status"`
	QueuePosition   int               `json:"queuePosition,omitempty" db:"queue_position"`
}

type PayFineRequest struct {
	Amount int64 `json:"amount" validate:"required,min=1"`
}

type WaiveFineRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type FineView struct {
	FineUid        string     `json:"fineUid" db:"fine_uid"`
	TransactionUid string     `json:"transactionUid" db:"transaction_uid"`
	Amount         int64      `json:"amount" db:"amount"`
	PaidAmount     int64      `json:"paidAmount" db:"paid_amount"`
	Status         FineStatus `json:"status" db:"status"`
	Reason         *string    `json:"reason,omitempty" db:"reason"`
}

type CreateBookRequest struct {
	Name            string `json:"name" validate:"required"`
	Author          string `json:"author" validate:"required"`
	Genre           string `json:"genre"`
	ReplacementCost int64  `json:"replacementCost" validate:"min=0"`
	TotalCopies     int    `json:"totalCopies" validate:"required,min=1"`
}

type CreateMemberRequest struct {
	Username string         `json:"username" validate:"required"`
	Email    string         `json:"email" validate:"omitempty,email"`
	Phone    string         `json:"phone"`
	Class    BorrowingClass `json:"class" validate:"required,oneof=STUDENT STAFF"`
}
