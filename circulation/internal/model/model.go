package model

import (
	"time"
)

type BorrowingClass string

const (
	ClassStudent BorrowingClass = "STUDENT"
	ClassStaff   BorrowingClass = "STAFF"
)

type MemberStatus string

const (
	MemberActive    MemberStatus = "ACTIVE"
	MemberSuspended MemberStatus = "SUSPENDED"
	MemberExpired   MemberStatus = "EXPIRED"
)

type TransactionStatus string

// OVERDUE is never stored: it is derived from DueDate on read, see
// core.IsOverdue.
const (
	TransactionIssued   TransactionStatus = "ISSUED"
	TransactionReturned TransactionStatus = "RETURNED"
	TransactionLost     TransactionStatus = "LOST"
	TransactionOverdue  TransactionStatus = "OVERDUE"
)

type ReservationStatus string

const (
	ReservationActive    ReservationStatus = "ACTIVE"
	ReservationFulfilled ReservationStatus = "FULFILLED"
	ReservationCancelled ReservationStatus = "CANCELLED"
	ReservationExpired   ReservationStatus = "EXPIRED"
)

type FineStatus string

const (
	FinePending FineStatus = "PENDING"
	FinePartial FineStatus = "PARTIAL"
	FinePaid    FineStatus = "PAID"
	FineWaived  FineStatus = "WAIVED"
)

type Condition string

const (
	ConditionExcellent Condition = "EXCELLENT"
	ConditionGood      Condition = "GOOD"
	ConditionBad       Condition = "BAD"
)

type Paging struct {
	Page          int `json:"page"`
	PageSize      int `json:"pageSize"`
	TotalElements int `json:"totalElements"`
}

type ListBooks struct {
	Paging `json:",inline"`
	Items  []Book `json:"items"`
}

type Book struct {
	ID              int    `json:"-" db:"id"`
	BookUid         string `json:"bookUid" db:"book_uid"`
	Name            string `json:"name" db:"name"`
	Author          string `json:"author" db:"author"`
	Genre           string `json:"genre" db:"genre"`
	ReplacementCost int64  `json:"replacementCost" db:"replacement_cost"`
	TotalCopies     int    `json:"totalCopies" db:"total_copies"`
	AvailableCopies int    `json:"availableCopies" db:"available_copies"`
}

type Member struct {
	ID                int            `json:"-" db:"id"`
	MemberUid         string         `json:"memberUid" db:"member_uid"`
	Username          string         `json:"username" db:"username"`
	Email             string         `json:"email" db:"email"`
	Phone             string         `json:"phone" db:"phone"`
	Class             BorrowingClass `json:"class" db:"class"`
	Status            MemberStatus   `json:"status" db:"status"`
	SuspensionEndDate *time.Time     `json:"suspensionEndDate,omitempty" db:"suspension_end_date"`
	CurrentIssues     int            `json:"currentIssues" db:"current_issues"`
	UnpaidFines       int64          `json:"unpaidFines" db:"unpaid_fines"`
}

type Transaction struct {
	ID             int               `json:"-" db:"id"`
	TransactionUid string            `json:"transactionUid" db:"transaction_uid"`
	BookID         int               `json:"-" db:"book_id"`
	MemberID       int               `json:"-" db:"member_id"`
	IssueDate      time.Time         `json:"issueDate" db:"issue_date"`
	DueDate        time.Time         `json:"dueDate" db:"due_date"`
	ReturnDate     *time.Time        `json:"returnDate,omitempty" db:"return_date"`
	Status         TransactionStatus `json:"status" db:"status"`
	RenewalCount   int               `json:"renewalCount" db:"renewal_count"`
	Condition      *Condition        `json:"condition,omitempty" db:"condition"`
}

type Reservation struct {
	ID              int               `json:"-" db:"id"`
	ReservationUid  string            `json:"reservationUid" db:"reservation_uid"`
	BookID          int               `json:"-" db:"book_id"`
	MemberID        int               `json:"-" db:"member_id"`
	ReservationDate time.Time         `json:"reservationDate" db:"reservation_date"`
	ExpiryDate      time.Time         `json:"expiryDate" db:"expiry_date"`
	Status          ReservationStatus `json:"status" db:"status"`
}

type Fine struct {
	ID            int        `json:"-" db:"id"`
	FineUid       string     `json:"fineUid" db:"fine_uid"`
	TransactionID int        `json:"-" db:"transaction_id"`
	MemberID      int        `json:"-" db:"member_id"`
	Amount        int64      `json:"amount" db:"amount"`
	PaidAmount    int64      `json:"paidAmount" db:"paid_amount"`
	Status        FineStatus `json:"status" db:"status"`
	Reason        *string    `json:"reason,omitempty" db:"reason"`
}

// Outstanding is the unpaid remainder of a fine.
func (f Fine) Outstanding() int64 {
	if f.PaidAmount >= f.Amount {
		return 0
	}
	return f.Amount - f.PaidAmount
}
