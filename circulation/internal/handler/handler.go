package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	md "github.com/campuslib/circulation-service/pkg/middleware"

	"github.com/campuslib/circulation-service/circulation/internal/errs"
	"github.com/campuslib/circulation-service/circulation/internal/model"
	"github.com/campuslib/circulation-service/circulation/internal/policy"
	"github.com/campuslib/circulation-service/pkg/auth"
	"github.com/campuslib/circulation-service/pkg/validate"

	_ "github.com/campuslib/circulation-service/swagger"
)

type Handler struct {
	circulationSvc CirculationService
	log            *zap.Logger
}

func New(circulationSvc CirculationService, log *zap.Logger) *Handler {
	return &Handler{
		circulationSvc: circulationSvc,
		log:            log,
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)
	base.GET("/swagger/*", echoSwagger.WrapHandler)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig()),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
		md.JwtAuthentication,
	)

	api.GET("/books", h.GetBooks)
	api.GET("/books/:bookUid", h.GetBook)
	api.POST("/books", h.CreateBook, md.AdminOnly)
	api.POST("/books/:bookUid/issue", h.IssueBook)

	api.GET("/transactions", h.GetTransactions)
	api.POST("/transactions/:transactionUid/return", h.ReturnBook)
	api.POST("/transactions/:transactionUid/renew", h.RenewBook)
	api.POST("/transactions/:transactionUid/lost", h.MarkLost)

	api.GET("/reservations", h.GetReservations)
	api.POST("/reservations", h.CreateReservation)
	api.DELETE("/reservations/:reservationUid", h.CancelReservation)

	api.GET("/fines", h.GetFines)
	api.POST("/fines/:fineUid/pay", h.PayFine)
	api.POST("/fines/:fineUid/waive", h.WaiveFine, md.AdminOnly)

	api.GET("/policy", h.GetPolicy)
	api.PUT("/policy", h.UpdatePolicy, md.AdminOnly)

	api.POST("/members", h.CreateMember, md.AdminOnly)
	api.GET("/members/me", h.GetMe)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// httpError maps the engine's error taxonomy onto stable statuses without
// leaking storage details.
func httpError(err error) *echo.HTTPError {
	switch errs.KindOf(err) {
	case errs.KindNotFound:
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errs.KindValidation:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errs.KindConflict, errs.KindConcurrency:
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errs.KindPolicyViolation:
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

// IssueBook godoc
// @Summary  Issue a book to the authenticated member
// @Tags     circulation
// @Param    bookUid path string true "book uid"
// @Success  200 {object} model.IssueBookResponse
// @Router   /api/v1/books/{bookUid}/issue [post]
func (h *Handler) IssueBook(c echo.Context) error {
	bookUid := c.Param("bookUid")
	if bookUid == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "empty bookUid")
	}
	username, err := auth.Username(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	var req model.IssueBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	resp, err := h.circulationSvc.IssueBook(c.Request().Context(), bookUid, username, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

// ReturnBook godoc
// @Summary  Return an issued book, computing any overdue fine
// @Tags     circulation
// @Param    transactionUid path string true "transaction uid"
// @Success  200 {object} model.ReturnBookResponse
// @Router   /api/v1/transactions/{transactionUid}/return [post]
func (h *Handler) ReturnBook(c echo.Context) error {
	transactionUid := c.Param("transactionUid")
	if transactionUid == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "empty transactionUid")
	}
	username, err := auth.Username(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	var req model.ReturnBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	resp, err := h.circulationSvc.ReturnBook(c.Request().Context(), transactionUid, username, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) RenewBook(c echo.Context) error {
	transactionUid := c.Param("transactionUid")
	if transactionUid == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "empty transactionUid")
	}
	username, err := auth.Username(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	resp, err := h.circulationSvc.RenewBook(c.Request().Context(), transactionUid, username)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) MarkLost(c echo.Context) error {
	transactionUid := c.Param("transactionUid")
	if transactionUid == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "empty transactionUid")
	}
	username, err := auth.Username(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	resp, err := h.circulationSvc.MarkLost(c.Request().Context(), transactionUid, username)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetTransactions(c echo.Context) error {
	username, err := auth.Username(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	items, err := h.circulationSvc.ListTransactions(c.Request().Context(), username)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, items)
}

// CreateReservation godoc
// @Summary  Queue a hold on a currently unavailable title
// @Tags     reservations
// @Success  200 {object} model.ReservationView
// @Router   /api/v1/reservations [post]
func (h *Handler) CreateReservation(c echo.Context) error {
	username, err := auth.Username(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	var req model.CreateReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	resp, err := h.circulationSvc.CreateReservation(c.Request().Context(), username, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) CancelReservation(c echo.Context) error {
	reservationUid := c.Param("reservationUid")
	if reservationUid == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "empty reservationUid")
	}
	username, err := auth.Username(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	if err := h.circulationSvc.CancelReservation(c.Request().Context(), reservationUid, username); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) GetReservations(c echo.Context) error {
	username, err := auth.Username(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	items, err := h.circulationSvc.ListReservations(c.Request().Context(), username)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) PayFine(c echo.Context) error {
	fineUid := c.Param("fineUid")
	if fineUid == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "empty fineUid")
	}
	username, err := auth.Username(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	var req model.PayFineRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	fine, err := h.circulationSvc.PayFine(c.Request().Context(), fineUid, username, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, fine)
}

func (h *Handler) WaiveFine(c echo.Context) error {
	fineUid := c.Param("fineUid")
	if fineUid == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "empty fineUid")
	}
	var req model.WaiveFineRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	fine, err := h.circulationSvc.WaiveFine(c.Request().Context(), fineUid, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, fine)
}

func (h *Handler) GetFines(c echo.Context) error {
	username, err := auth.Username(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	items, err := h.circulationSvc.ListFines(c.Request().Context(), username)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) CreateBook(c echo.Context) error {
	var req model.CreateBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	book, err := h.circulationSvc.CreateBook(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, book)
}

func (h *Handler) GetBook(c echo.Context) error {
	bookUid := c.Param("bookUid")
	book, err := h.circulationSvc.GetBook(c.Request().Context(), bookUid)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) GetBooks(c echo.Context) error {
	showAll, _ := strconv.ParseBool(c.QueryParam("showAll")) //nolint:errcheck
	page, _ := strconv.Atoi(c.QueryParam("page"))            //nolint:errcheck
	size, _ := strconv.Atoi(c.QueryParam("size"))            //nolint:errcheck

	books, err := h.circulationSvc.ListBooks(c.Request().Context(), showAll, page, size)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, books)
}

func (h *Handler) CreateMember(c echo.Context) error {
	var req model.CreateMemberRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	m, err := h.circulationSvc.CreateMember(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *Handler) GetMe(c echo.Context) error {
	username, err := auth.Username(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	m, err := h.circulationSvc.GetMemberByUsername(c.Request().Context(), username)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) GetPolicy(c echo.Context) error {
	return c.JSON(http.StatusOK, h.circulationSvc.Policy())
}

func (h *Handler) UpdatePolicy(c echo.Context) error {
	var req policy.Settings
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.circulationSvc.UpdatePolicy(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, h.circulationSvc.Policy())
}
