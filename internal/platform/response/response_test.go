package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staybook/service-booking/internal/platform/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestError_MapsKindToStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.NewError(domain.KindInvalidRange, "check-out must be after check-in"), http.StatusBadRequest, "INVALID_RANGE"},
		{domain.NewNotFoundError("Hotel", "x"), http.StatusNotFound, "NOT_FOUND"},
		{domain.NewError(domain.KindAlreadyReviewed, "booking already reviewed"), http.StatusConflict, "ALREADY_REVIEWED"},
		{domain.NewForbiddenError("not your hotel"), http.StatusForbidden, "FORBIDDEN"},
		{errors.New("db down"), http.StatusInternalServerError, "INTERNAL"},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		Error(c, tc.err)

		assert.Equal(t, tc.status, w.Code)
		var env Envelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.False(t, env.Success)
		require.NotNil(t, env.Error)
		assert.Equal(t, tc.code, env.Error.Code)
	}
}

func TestPaginated_WritesMeta(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Paginated(c, []int{1, 2}, 45, 1, 20)

	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.NotNil(t, env.Meta)
	assert.Equal(t, 3, env.Meta.TotalPages)
	assert.True(t, env.Success)
}
