package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	bookRepo "inkbook/database/repository/book"
	reservationRepo "inkbook/database/repository/reservation"
	"inkbook/middleware"
	"inkbook/models"
	"inkbook/services/payment"
	"inkbook/services/scheduling"
	"inkbook/utils"
)

// ReservationHandler serves the write side of the scheduling engine plus
// reservation lookups.
type ReservationHandler struct {
	Engine       scheduling.Engine
	Books        bookRepo.Repository
	Reservations reservationRepo.Repository
	Payments     payment.Processor
	Logger       *zap.Logger
}

func NewReservationHandler(
	engine scheduling.Engine,
	books bookRepo.Repository,
	reservations reservationRepo.Repository,
	payments payment.Processor,
	logger *zap.Logger,
) *ReservationHandler {
	return &ReservationHandler{
		Engine:       engine,
		Books:        books,
		Reservations: reservations,
		Payments:     payments,
		Logger:       logger,
	}
}

// CreateReservation admits a new reservation for the authenticated client.
// When the book requires a deposit, a payment intent is opened after the
// slot is secured and returned alongside the PENDING reservation.
// POST /api/books/:id/reservations
func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	bookID := c.Param("id")
	var req models.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	clientID := middleware.CallerID(c)
	res, err := h.Engine.RequestReservation(c.Request.Context(), bookID, clientID, req)
	if err != nil {
		writeEngineError(c, err)
		return
	}

	response := gin.H{"reservation": res}
	book, bookErr := h.Books.GetByID(c.Request.Context(), bookID)
	if bookErr == nil && book != nil && book.DepositAmount > 0 && h.Payments != nil {
		intent, payErr := h.Payments.CreateDepositIntent(c.Request.Context(), *res, book.DepositAmount, book.Currency)
		if payErr != nil {
			// The slot is held as PENDING either way; payment can be retried.
			h.Logger.Warn("reservation: deposit intent failed",
				zap.String("reservationID", res.ID), zap.Error(payErr))
		} else {
			response["depositIntent"] = intent
		}
	}

	c.JSON(http.StatusCreated, response)
}

// ConfirmReservation flips a PENDING reservation to CONFIRMED once the
// payment collaborator reports the intent settled. Books without a deposit
// confirm without one.
// POST /api/reservations/:id/confirm
func (h *ReservationHandler) ConfirmReservation(c *gin.Context) {
	reservationID := c.Param("id")
	var req struct {
		PaymentIntentID string `json:"paymentIntentId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	if req.PaymentIntentID != "" && h.Payments != nil {
		if err := h.Payments.VerifyIntent(c.Request.Context(), req.PaymentIntentID); err != nil {
			utils.JSONError(c, http.StatusPaymentRequired, "payment not settled", err.Error())
			return
		}
	}

	res, err := h.Engine.ConfirmReservation(c.Request.Context(), reservationID, req.PaymentIntentID)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservation": res})
}

// CancelReservation frees the reservation's interval for the next
// availability query.
// POST /api/reservations/:id/cancel
func (h *ReservationHandler) CancelReservation(c *gin.Context) {
	reservationID := c.Param("id")
	if err := h.Engine.CancelReservation(c.Request.Context(), reservationID); err != nil {
		writeEngineError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListMyReservations returns the authenticated client's reservations.
// GET /api/reservations
func (h *ReservationHandler) ListMyReservations(c *gin.Context) {
	clientID := middleware.CallerID(c)
	reservations, err := h.Reservations.ListByClient(c.Request.Context(), clientID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list reservations", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservations": reservations})
}

// ListBookReservations returns a book's reservations in a date range for
// its artist.
// GET /api/artist/books/:id/reservations?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *ReservationHandler) ListBookReservations(c *gin.Context) {
	bookID := c.Param("id")
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid range", "from and to query parameters are required")
		return
	}

	reservations, err := h.Reservations.ListByBook(c.Request.Context(), bookID, from, to)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list reservations", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookId": bookID, "reservations": reservations})
}
