package ginserver

import (
	"net/http"
	"strconv"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Mihail0123/hausrunde/internal/app/commands"
	"github.com/Mihail0123/hausrunde/internal/app/dto"
	AdApp "github.com/Mihail0123/hausrunde/internal/app/handlers/ads"
	"github.com/Mihail0123/hausrunde/internal/app/queries"
)

type AdHTTP interface {
	Get(c *gin.Context)
	List(c *gin.Context)
	ListMine(c *gin.Context)
	Publish(c *gin.Context)
	Update(c *gin.Context)
	Activate(c *gin.Context)
	Deactivate(c *gin.Context)
}

type AdHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type publishAdRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	PriceCents  int64  `json:"price_cents"`
	Currency    string `json:"currency"`
	Rooms       int    `json:"rooms"`
	HousingType string `json:"housing_type"`
}

type updateAdRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	PriceCents  *int64 `json:"price_cents"`
	Currency    string `json:"currency"`
	Rooms       int    `json:"rooms"`
	HousingType string `json:"housing_type"`
}

func (h AdHandler) Get(c *gin.Context) {
	result, err := queries.Ask[AdApp.GetAdQuery, *dto.Ad](c.Request.Context(), h.Queries, AdApp.GetAdQuery{AdID: c.Param("id")})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// List is the public browse endpoint. All filters arrive as query
// parameters; prices are integer cents.
func (h AdHandler) List(c *gin.Context) {
	q := AdApp.SearchAdsQuery{
		Query:       c.Query("q"),
		Location:    c.Query("location"),
		HousingType: c.Query("housing_type"),
	}
	var ok bool
	if q.PriceMin, ok = parseIntParam(c, "price_min"); !ok {
		return
	}
	if q.PriceMax, ok = parseIntParam(c, "price_max"); !ok {
		return
	}
	roomsMin, ok := parseIntParam(c, "rooms_min")
	if !ok {
		return
	}
	roomsMax, ok := parseIntParam(c, "rooms_max")
	if !ok {
		return
	}
	if roomsMin != nil {
		v := int(*roomsMin)
		q.RoomsMin = &v
	}
	if roomsMax != nil {
		v := int(*roomsMax)
		q.RoomsMax = &v
	}
	if q.DateFrom, ok = parseDateField(c, "date_from", c.Query("date_from")); !ok {
		return
	}
	if q.DateTo, ok = parseDateField(c, "date_to", c.Query("date_to")); !ok {
		return
	}
	result, err := queries.Ask[AdApp.SearchAdsQuery, *dto.AdCollection](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h AdHandler) ListMine(c *gin.Context) {
	user, ok := requireAuth(c)
	if !ok {
		return
	}
	result, err := queries.Ask[AdApp.ListOwnerAdsQuery, *dto.AdCollection](c.Request.Context(), h.Queries, AdApp.ListOwnerAdsQuery{OwnerID: user.ID})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h AdHandler) Publish(c *gin.Context) {
	user, ok := requireAuth(c)
	if !ok {
		return
	}
	var req publishAdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	cmd := AdApp.PublishAdCommand{
		CommandID:   uuid.NewString(),
		OwnerID:     user.ID,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		PriceCents:  req.PriceCents,
		Currency:    req.Currency,
		Rooms:       req.Rooms,
		HousingType: req.HousingType,
	}
	result, err := commands.Dispatch[AdApp.PublishAdCommand, *AdApp.PublishAdResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h AdHandler) Update(c *gin.Context) {
	user, ok := requireAuth(c)
	if !ok {
		return
	}
	var req updateAdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	cmd := AdApp.UpdateAdCommand{
		AdID:        c.Param("id"),
		ActorID:     user.ID,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		PriceCents:  req.PriceCents,
		Currency:    req.Currency,
		Rooms:       req.Rooms,
		HousingType: req.HousingType,
	}
	result, err := commands.Dispatch[AdApp.UpdateAdCommand, *AdApp.UpdateAdResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h AdHandler) Activate(c *gin.Context) {
	h.setActive(c, true)
}

func (h AdHandler) Deactivate(c *gin.Context) {
	h.setActive(c, false)
}

func (h AdHandler) setActive(c *gin.Context, active bool) {
	user, ok := requireAuth(c)
	if !ok {
		return
	}
	cmd := AdApp.SetAdActiveCommand{
		AdID:    c.Param("id"),
		ActorID: user.ID,
		Active:  active,
	}
	result, err := commands.Dispatch[AdApp.SetAdActiveCommand, *AdApp.SetAdActiveResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// parseIntParam parses an optional integer query parameter and reports
// a field-keyed error on garbage.
func parseIntParam(c *gin.Context, name string) (*int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{name: []string{"A valid integer is required."}}})
		return nil, false
	}
	return &v, true
}

var _ AdHTTP = AdHandler{}
