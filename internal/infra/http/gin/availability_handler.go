package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	AvailabilityApp "github.com/Mihail0123/hausrunde/internal/app/handlers/availability"
	"github.com/Mihail0123/hausrunde/internal/app/queries"
)

type AvailabilityHTTP interface {
	Check(c *gin.Context)
	Calendar(c *gin.Context)
}

type AvailabilityHandler struct {
	Queries queries.Bus
}

// Check answers whether the window given by ?date_from and ?date_to is
// free on the ad.
func (h AvailabilityHandler) Check(c *gin.Context) {
	dateFrom, ok := parseDateField(c, "date_from", c.Query("date_from"))
	if !ok {
		return
	}
	dateTo, ok := parseDateField(c, "date_to", c.Query("date_to"))
	if !ok {
		return
	}
	q := AvailabilityApp.IsAvailableQuery{AdID: c.Param("id"), DateFrom: dateFrom, DateTo: dateTo}
	result, err := queries.Ask[AvailabilityApp.IsAvailableQuery, *AvailabilityApp.IsAvailableResult](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h AvailabilityHandler) Calendar(c *gin.Context) {
	q := AvailabilityApp.ListAvailabilityQuery{AdID: c.Param("id"), StatusFilter: c.Query("status")}
	result, err := queries.Ask[AvailabilityApp.ListAvailabilityQuery, *AvailabilityApp.Calendar](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ AvailabilityHTTP = AvailabilityHandler{}
