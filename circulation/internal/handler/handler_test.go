package handler_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campuslib/circulation-service/circulation/internal/errs"
	"github.com/campuslib/circulation-service/circulation/internal/handler"
	service_mocks "github.com/campuslib/circulation-service/circulation/internal/handler/mocks"
	"github.com/campuslib/circulation-service/circulation/internal/model"
	"github.com/campuslib/circulation-service/pkg/auth"
	md "github.com/campuslib/circulation-service/pkg/middleware"
	"github.com/campuslib/circulation-service/pkg/validate"
)

// asUser stands in for the jwt middleware: handlers read the caller identity
// from the request context.
func asUser(username, role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := auth.SetAuthContext(c.Request().Context(), username, role)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validate.NewCustomValidator()
	return e
}

func TestHandler_IssueBook(t *testing.T) {
	t.Parallel()

	type mockBehavior func(s *service_mocks.MockCirculationService)

	due := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		name                 string
		bookUid              string
		inputBody            string
		mockBehavior         mockBehavior
		expectedStatusCode   int
		expectedResponseBody string
	}{
		{
			name:      "ok",
			bookUid:   "book-1",
			inputBody: `{}`,
			mockBehavior: func(s *service_mocks.MockCirculationService) {
				s.EXPECT().
					IssueBook(gomock.Any(), "book-1", "reader", model.IssueBookRequest{}).
					Return(model.IssueBookResponse{
						TransactionUid:    "trx-1",
						BookUid:           "book-1",
						DueDate:           due,
						RenewalsRemaining: 2,
					}, nil)
			},
			expectedStatusCode:   http.StatusOK,
			expectedResponseBody: `{"transactionUid":"trx-1","bookUid":"book-1","dueDate":"2024-03-15T10:00:00Z","renewalsRemaining":2}`,
		},
		{
			name:      "no available copies",
			bookUid:   "book-1",
			inputBody: `{}`,
			mockBehavior: func(s *service_mocks.MockCirculationService) {
				s.EXPECT().
					IssueBook(gomock.Any(), "book-1", "reader", model.IssueBookRequest{}).
					Return(model.IssueBookResponse{}, errs.ErrNotAvailable)
			},
			expectedStatusCode:   http.StatusConflict,
			expectedResponseBody: `{"message":"no available copies"}`,
		},
		{
			name:      "member over limit",
			bookUid:   "book-1",
			inputBody: `{}`,
			mockBehavior: func(s *service_mocks.MockCirculationService) {
				s.EXPECT().
					IssueBook(gomock.Any(), "book-1", "reader", model.IssueBookRequest{}).
					Return(model.IssueBookResponse{}, errs.ErrMemberIneligible)
			},
			expectedStatusCode:   http.StatusForbidden,
			expectedResponseBody: `{"message":"member is not eligible to borrow"}`,
		},
		{
			name:      "held for another member",
			bookUid:   "book-1",
			inputBody: `{}`,
			mockBehavior: func(s *service_mocks.MockCirculationService) {
				s.EXPECT().
					IssueBook(gomock.Any(), "book-1", "reader", model.IssueBookRequest{}).
					Return(model.IssueBookResponse{}, errs.ErrReservedByOther)
			},
			expectedStatusCode:   http.StatusConflict,
			expectedResponseBody: `{"message":"book is held for another member's reservation"}`,
		},
		{
			name:      "unknown book",
			bookUid:   "missing",
			inputBody: `{}`,
			mockBehavior: func(s *service_mocks.MockCirculationService) {
				s.EXPECT().
					IssueBook(gomock.Any(), "missing", "reader", model.IssueBookRequest{}).
					Return(model.IssueBookResponse{}, errs.ErrNotFound)
			},
			expectedStatusCode:   http.StatusNotFound,
			expectedResponseBody: `{"message":"not found"}`,
		},
		{
			name:               "invalid loan days",
			bookUid:            "book-1",
			inputBody:          `{"loanDays":400}`,
			mockBehavior:       func(s *service_mocks.MockCirculationService) {},
			expectedStatusCode: http.StatusBadRequest,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()

			svc := service_mocks.NewMockCirculationService(c)
			test.mockBehavior(svc)
			h := handler.New(svc, zap.NewExample())

			e := newEcho()
			e.POST("/api/v1/books/:bookUid/issue", h.IssueBook, asUser("reader", auth.RoleStudent))

			req := httptest.NewRequest(http.MethodPost, "/api/v1/books/"+test.bookUid+"/issue",
				bytes.NewBufferString(test.inputBody))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()
			e.ServeHTTP(w, req)

			require.Equal(t, test.expectedStatusCode, w.Code)
			if test.expectedResponseBody != "" {
				require.JSONEq(t, test.expectedResponseBody, w.Body.String())
			}
		})
	}
}

func TestHandler_ReturnBook(t *testing.T) {
	t.Parallel()

	type mockBehavior func(s *service_mocks.MockCirculationService)

	tests := []struct {
		name                 string
		inputBody            string
		mockBehavior         mockBehavior
		expectedStatusCode   int
		expectedResponseBody string
	}{
		{
			name:      "overdue return creates fine",
			inputBody: `{"condition":"GOOD"}`,
			mockBehavior: func(s *service_mocks.MockCirculationService) {
				s.EXPECT().
					ReturnBook(gomock.Any(), "trx-1", "reader", model.ReturnBookRequest{Condition: model.ConditionGood}).
					Return(model.ReturnBookResponse{
						TransactionUid: "trx-1",
						OverdueDays:    5,
						FineAmount:     50,
						FineStatus:     model.FinePending,
					}, nil)
			},
			expectedStatusCode:   http.StatusOK,
			expectedResponseBody: `{"transactionUid":"trx-1","overdueDays":5,"fineAmount":50,"fineStatus":"PENDING"}`,
		},
		{
			name:      "already closed",
			inputBody: `{}`,
			mockBehavior: func(s *service_mocks.MockCirculationService) {
				s.EXPECT().
					ReturnBook(gomock.Any(), "trx-1", "reader", model.ReturnBookRequest{}).
					Return(model.ReturnBookResponse{}, errs.ErrAlreadyReturned)
			},
			expectedStatusCode:   http.StatusConflict,
			expectedResponseBody: `{"message":"transaction already closed"}`,
		},
		{
			name:               "bad condition",
			inputBody:          `{"condition":"SHREDDED"}`,
			mockBehavior:       func(s *service_mocks.MockCirculationService) {},
			expectedStatusCode: http.StatusBadRequest,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()

			svc := service_mocks.NewMockCirculationService(c)
			test.mockBehavior(svc)
			h := handler.New(svc, zap.NewExample())

			e := newEcho()
			e.POST("/api/v1/transactions/:transactionUid/return", h.ReturnBook, asUser("reader", auth.RoleStudent))

			req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/trx-1/return",
				bytes.NewBufferString(test.inputBody))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()
			e.ServeHTTP(w, req)

			require.Equal(t, test.expectedStatusCode, w.Code)
			if test.expectedResponseBody != "" {
				require.JSONEq(t, test.expectedResponseBody, w.Body.String())
			}
		})
	}
}

func TestHandler_RenewBook(t *testing.T) {
	t.Parallel()

	type mockBehavior func(s *service_mocks.MockCirculationService)

	newDue := time.Date(2024, 3, 22, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		name                 string
		mockBehavior         mockBehavior
		expectedStatusCode   int
		expectedResponseBody string
	}{
		{
			name: "ok",
			mockBehavior: func(s *service_mocks.MockCirculationService) {
				s.EXPECT().
					RenewBook(gomock.Any(), "trx-1", "reader").
					Return(model.RenewBookResponse{
						TransactionUid: "trx-1",
						NewDueDate:     newDue,
						RenewalCount:   1,
					}, nil)
			},
			expectedStatusCode:   http.StatusOK,
			expectedResponseBody: `{"transactionUid":"trx-1","newDueDate":"2024-03-22T10:00:00Z","renewalCount":1}`,
		},
		{
			name: "renewal limit",
			mockBehavior: func(s *service_mocks.MockCirculationService) {
				s.EXPECT().
					RenewBook(gomock.Any(), "trx-1", "reader").
					Return(model.RenewBookResponse{}, errs.ErrRenewalLimitReached)
			},
			expectedStatusCode:   http.StatusForbidden,
			expectedResponseBody: `{"message":"renewal limit reached"}`,
		},
		{
			name: "overdue loan",
			mockBehavior: func(s *service_mocks.MockCirculationService) {
				s.EXPECT().
					RenewBook(gomock.Any(), "trx-1", "reader").
					Return(model.RenewBookResponse{}, errs.ErrAlreadyOverdue)
			},
			expectedStatusCode:   http.StatusConflict,
			expectedResponseBody: `{"message":"loan is overdue and cannot be renewed"}`,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()

			svc := service_mocks.NewMockCirculationService(c)
			test.mockBehavior(svc)
			h := handler.New(svc, zap.NewExample())

			e := newEcho()
			e.POST("/api/v1/transactions/:transactionUid/renew", h.RenewBook, asUser("reader", auth.RoleStudent))

			req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/trx-1/renew", http.NoBody)
			w := httptest.NewRecorder()
			e.ServeHTTP(w, req)

			require.Equal(t, test.expectedStatusCode, w.Code)
			require.JSONEq(t, test.expectedResponseBody, w.Body.String())
		})
	}
}

func TestHandler_CreateReservation(t *testing.T) {
	t.Parallel()

	type mockBehavior func(s *service_mocks.MockCirculationService)

	const bookUid = "f7cdc58f-2caf-4b15-9727-f89dcc629b27"
	rsvDate := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		name                 string
		inputBody            string
		mockBehavior         mockBehavior
		expectedStatusCode   int
		expectedResponseBody string
	}{
		{
			name:      "ok",
			inputBody: `{"bookUid":"` + bookUid + `"}`,
			mockBehavior: func(s *service_mocks.MockCirculationService) {
				s.EXPECT().
					CreateReservation(gomock.Any(), "reader", model.CreateReservationRequest{BookUid: bookUid}).
					Return(model.ReservationView{
						ReservationUid:  "rsv-1",
						BookUid:         bookUid,
						BookName:        "Clean Architecture",
						ReservationDate: rsvDate,
						ExpiryDate:      rsvDate.Add(3 * 24 * time.Hour),
						Status:          model.ReservationActive,
						QueuePosition:   2,
					}, nil)
			},
			expectedStatusCode:   http.StatusOK,
			expectedResponseBody: `{"reservationUid":"rsv-1","bookUid":"` + bookUid + `","bookName":"Clean Architecture","reservationDate":"2024-03-01T10:00:00Z","expiryDate":"2024-03-04T10:00:00Z","status":"ACTIVE","queuePosition":2}`,
		},
		{
			name:      "copies still available",
			inputBody: `{"bookUid":"` + bookUid + `"}`,
			mockBehavior: func(s *service_mocks.MockCirculationService) {
				s.EXPECT().
					CreateReservation(gomock.Any(), "reader", model.CreateReservationRequest{BookUid: bookUid}).
					Return(model.ReservationView{}, errs.ErrBookAvailable)
			},
			expectedStatusCode:   http.StatusConflict,
			expectedResponseBody: `{"message":"book has available copies, issue it directly"}`,
		},
		{
			name:      "duplicate reservation",
			inputBody: `{"bookUid":"` + bookUid + `"}`,
			mockBehavior: func(s *service_mocks.MockCirculationService) {
				s.EXPECT().
					CreateReservation(gomock.Any(), "reader", model.CreateReservationRequest{BookUid: bookUid}).
					Return(model.ReservationView{}, errs.ErrDuplicateReservation)
			},
			expectedStatusCode:   http.StatusConflict,
			expectedResponseBody: `{"message":"member already holds an active reservation for this book"}`,
		},
		{
			name:               "malformed uid",
			inputBody:          `{"bookUid":"not-a-uuid"}`,
			mockBehavior:       func(s *service_mocks.MockCirculationService) {},
			expectedStatusCode: http.StatusBadRequest,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()

			svc := service_mocks.NewMockCirculationService(c)
			test.mockBehavior(svc)
			h := handler.New(svc, zap.NewExample())

			e := newEcho()
			e.POST("/api/v1/reservations", h.CreateReservation, asUser("reader", auth.RoleStudent))

			req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations",
				bytes.NewBufferString(test.inputBody))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()
			e.ServeHTTP(w, req)

			require.Equal(t, test.expectedStatusCode, w.Code)
			if test.expectedResponseBody != "" {
				require.JSONEq(t, test.expectedResponseBody, w.Body.String())
			}
		})
	}
}

func TestHandler_CancelReservation(t *testing.T) {
	t.Parallel()

	type mockBehavior func(s *service_mocks.MockCirculationService)

	tests := []struct {
		name               string
		mockBehavior       mockBehavior
		expectedStatusCode int
	}{
		{
			name: "ok",
			mockBehavior: func(s *service_mocks.MockCirculationService) {
				s.EXPECT().
					CancelReservation(gomock.Any(), "rsv-1", "reader").
					Return(nil)
			},
			expectedStatusCode: http.StatusNoContent,
		},
		{
			name: "not found",
			mockBehavior: func(s *service_mocks.MockCirculationService) {
				s.EXPECT().
					CancelReservation(gomock.Any(), "rsv-1", "reader").
					Return(errs.ErrNotFound)
			},
			expectedStatusCode: http.StatusNotFound,
		},
		{
			name: "someone else's reservation",
			mockBehavior: func(s *service_mocks.MockCirculationService) {
				s.EXPECT().
					CancelReservation(gomock.Any(), "rsv-1", "reader").
					Return(errs.ErrNotReservationOwner)
			},
			expectedStatusCode: http.StatusConflict,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()

			svc := service_mocks.NewMockCirculationService(c)
			test.mockBehavior(svc)
			h := handler.New(svc, zap.NewExample())

			e := newEcho()
			e.DELETE("/api/v1/reservations/:reservationUid", h.CancelReservation, asUser("reader", auth.RoleStudent))

			req := httptest.NewRequest(http.MethodDelete, "/api/v1/reservations/rsv-1", http.NoBody)
			w := httptest.NewRecorder()
			e.ServeHTTP(w, req)

			require.Equal(t, test.expectedStatusCode, w.Code)
		})
	}
}

func TestHandler_PayFine(t *testing.T) {
	t.Parallel()

	type mockBehavior func(s *service_mocks.MockCirculationService)

	tests := []struct {
		name                 string
		inputBody            string
		mockBehavior         mockBehavior
		expectedStatusCode   int
		expectedResponseBody string
	}{
		{
			name:      "partial payment",
			inputBody: `{"amount":30}`,
			mockBehavior: func(s *service_mocks.MockCirculationService) {
				s.EXPECT().
					PayFine(gomock.Any(), "fine-1", "reader", model.PayFineRequest{Amount: 30}).
					Return(model.Fine{
						FineUid:    "fine-1",
						Amount:     50,
						PaidAmount: 30,
						Status:     model.FinePartial,
					}, nil)
			},
			expectedStatusCode: http.StatusOK,
		},
		{
			name:      "already settled",
			inputBody: `{"amount":30}`,
			mockBehavior: func(s *service_mocks.MockCirculationService) {
				s.EXPECT().
					PayFine(gomock.Any(), "fine-1", "reader", model.PayFineRequest{Amount: 30}).
					Return(model.Fine{}, errs.ErrFineSettled)
			},
			expectedStatusCode:   http.StatusConflict,
			expectedResponseBody: `{"message":"fine is already paid or waived"}`,
		},
		{
			name:               "non-positive amount",
			inputBody:          `{"amount":0}`,
			mockBehavior:       func(s *service_mocks.MockCirculationService) {},
			expectedStatusCode: http.StatusBadRequest,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()

			svc := service_mocks.NewMockCirculationService(c)
			test.mockBehavior(svc)
			h := handler.New(svc, zap.NewExample())

			e := newEcho()
			e.POST("/api/v1/fines/:fineUid/pay", h.PayFine, asUser("reader", auth.RoleStudent))

			req := httptest.NewRequest(http.MethodPost, "/api/v1/fines/fine-1/pay",
				bytes.NewBufferString(test.inputBody))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()
			e.ServeHTTP(w, req)

			require.Equal(t, test.expectedStatusCode, w.Code)
			if test.expectedResponseBody != "" {
				require.JSONEq(t, test.expectedResponseBody, w.Body.String())
			}
		})
	}
}

func TestHandler_AdminOnlyRoutes(t *testing.T) {
	t.Parallel()

	c := gomock.NewController(t)
	defer c.Finish()
	svc := service_mocks.NewMockCirculationService(c)
	h := handler.New(svc, zap.NewExample())

	e := newEcho()
	e.POST("/api/v1/fines/:fineUid/waive", h.WaiveFine,
		asUser("reader", auth.RoleStudent),
		md.AdminOnly)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/fines/fine-1/waive",
		bytes.NewBufferString(`{"reason":"damaged in transit"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code)
}
