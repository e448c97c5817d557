package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Mihail0123/hausrunde/internal/app/commands"
	"github.com/Mihail0123/hausrunde/internal/app/dto"
	ReviewApp "github.com/Mihail0123/hausrunde/internal/app/handlers/reviews"
	"github.com/Mihail0123/hausrunde/internal/app/queries"
)

type ReviewHTTP interface {
	Submit(c *gin.Context)
	ListForAd(c *gin.Context)
}

type ReviewHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type submitReviewRequest struct {
	AdID   string `json:"ad_id"`
	Rating int    `json:"rating"`
	Text   string `json:"text"`
}

func (h ReviewHandler) Submit(c *gin.Context) {
	user, ok := requireAuth(c)
	if !ok {
		return
	}
	var req submitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	cmd := ReviewApp.SubmitReviewCommand{
		CommandID: uuid.NewString(),
		AdID:      req.AdID,
		TenantID:  user.ID,
		Rating:    req.Rating,
		Text:      req.Text,
	}
	result, err := commands.Dispatch[ReviewApp.SubmitReviewCommand, *ReviewApp.SubmitReviewResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h ReviewHandler) ListForAd(c *gin.Context) {
	q := ReviewApp.ListAdReviewsQuery{AdID: c.Param("id")}
	result, err := queries.Ask[ReviewApp.ListAdReviewsQuery, *dto.ReviewCollection](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ ReviewHTTP = ReviewHandler{}
