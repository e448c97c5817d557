package ginserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	gin "github.com/gin-gonic/gin"

	"github.com/Mihail0123/hausrunde/internal/app/apperr"
)

func respond(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	respondError(c, err)
	return rec
}

func TestRespondErrorStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", apperr.ValidationField("date_to", "must be greater than date_from"), http.StatusBadRequest},
		{"business rule", apperr.BusinessRule("You can only review ads you have stayed at."), http.StatusBadRequest},
		{"conflict", apperr.Conflict("booking cannot be confirmed from its current status", nil), http.StatusConflict},
		{"forbidden", apperr.Forbidden("only the tenant may cancel"), http.StatusForbidden},
		{"not found", apperr.NotFound("booking not found"), http.StatusNotFound},
		{"infrastructure", apperr.Infrastructure(errors.New("boom")), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := respond(t, tc.err)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestRespondErrorFieldMap(t *testing.T) {
	fields := apperr.FieldErrors{}
	fields.Add("ad", "This ad is inactive.")
	fields.AddNonField("You cannot book your own ad.")
	rec := respond(t, apperr.Validation(fields))

	var body struct {
		Errors map[string][]string `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := body.Errors["ad"]; len(got) != 1 || got[0] != "This ad is inactive." {
		t.Fatalf("unexpected ad errors %v", got)
	}
	if got := body.Errors["non_field_errors"]; len(got) != 1 || got[0] != "You cannot book your own ad." {
		t.Fatalf("unexpected non-field errors %v", got)
	}
}

func TestRespondErrorHidesInfrastructureDetail(t *testing.T) {
	rec := respond(t, apperr.Infrastructure(errors.New("dial tcp: connection refused")))
	if got := rec.Body.String(); got != `{"error":"internal error"}` {
		t.Fatalf("infrastructure detail leaked: %s", got)
	}
}
