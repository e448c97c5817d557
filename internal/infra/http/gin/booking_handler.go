package ginserver

import (
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Mihail0123/hausrunde/internal/app/commands"
	"github.com/Mihail0123/hausrunde/internal/app/dto"
	BookingApp "github.com/Mihail0123/hausrunde/internal/app/handlers/booking"
	"github.com/Mihail0123/hausrunde/internal/app/queries"
)

const dateLayout = "2006-01-02"

const msgBadDate = "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."

type BookingHTTP interface {
	Create(c *gin.Context)
	Confirm(c *gin.Context)
	Reject(c *gin.Context)
	Cancel(c *gin.Context)
	PreviewCancellation(c *gin.Context)
	ListMine(c *gin.Context)
	ListForAd(c *gin.Context)
	Stats(c *gin.Context)
}

type BookingHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type createBookingRequest struct {
	AdID     string `json:"ad_id"`
	DateFrom string `json:"date_from"`
	DateTo   string `json:"date_to"`
}

func (h BookingHandler) Create(c *gin.Context) {
	user, ok := requireAuth(c)
	if !ok {
		return
	}
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	dateFrom, ok := parseDateField(c, "date_from", req.DateFrom)
	if !ok {
		return
	}
	dateTo, ok := parseDateField(c, "date_to", req.DateTo)
	if !ok {
		return
	}
	cmd := BookingApp.CreateBookingCommand{
		CommandID:       uuid.NewString(),
		AdID:            req.AdID,
		TenantID:        user.ID,
		DateFrom:        dateFrom,
		DateTo:          dateTo,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[BookingApp.CreateBookingCommand, *BookingApp.CreateBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h BookingHandler) Confirm(c *gin.Context) {
	user, ok := requireAuth(c)
	if !ok {
		return
	}
	cmd := BookingApp.ConfirmBookingCommand{BookingID: c.Param("id"), ActorID: user.ID}
	result, err := commands.Dispatch[BookingApp.ConfirmBookingCommand, *BookingApp.ConfirmBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) Reject(c *gin.Context) {
	user, ok := requireAuth(c)
	if !ok {
		return
	}
	cmd := BookingApp.RejectBookingCommand{BookingID: c.Param("id"), ActorID: user.ID}
	result, err := commands.Dispatch[BookingApp.RejectBookingCommand, *BookingApp.RejectBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) Cancel(c *gin.Context) {
	user, ok := requireAuth(c)
	if !ok {
		return
	}
	cmd := BookingApp.CancelBookingCommand{BookingID: c.Param("id"), ActorID: user.ID}
	result, err := commands.Dispatch[BookingApp.CancelBookingCommand, *dto.CancellationResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) PreviewCancellation(c *gin.Context) {
	user, ok := requireAuth(c)
	if !ok {
		return
	}
	q := BookingApp.PreviewCancellationQuery{BookingID: c.Param("id"), ActorID: user.ID}
	result, err := queries.Ask[BookingApp.PreviewCancellationQuery, *dto.CancellationQuote](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) ListMine(c *gin.Context) {
	user, ok := requireAuth(c)
	if !ok {
		return
	}
	q := BookingApp.ListTenantBookingsQuery{TenantID: user.ID, Status: c.Query("status")}
	result, err := queries.Ask[BookingApp.ListTenantBookingsQuery, *dto.BookingCollection](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) ListForAd(c *gin.Context) {
	user, ok := requireAuth(c)
	if !ok {
		return
	}
	q := BookingApp.ListAdBookingsQuery{AdID: c.Param("id"), ActorID: user.ID, Status: c.Query("status")}
	result, err := queries.Ask[BookingApp.ListAdBookingsQuery, *dto.BookingCollection](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) Stats(c *gin.Context) {
	user, ok := requireAuth(c)
	if !ok {
		return
	}
	q := BookingApp.BookingStatsQuery{OwnerID: user.ID}
	result, err := queries.Ask[BookingApp.BookingStatsQuery, *dto.BookingStats](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// parseDateField parses a calendar date and reports a field-keyed error
// on failure. Empty values pass through as zero times so the validation
// pipeline can report them as required.
func parseDateField(c *gin.Context, field, raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, true
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{field: []string{msgBadDate}}})
		return time.Time{}, false
	}
	return t, true
}

var _ BookingHTTP = BookingHandler{}
