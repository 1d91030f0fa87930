package response

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/shared/apperror"
)

func render(t *testing.T, write func(c *gin.Context)) (int, Response) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	write(c)

	var body Response
	require.NoError(t, jsoniter.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestErrorResponse(t *testing.T) {
	status, body := render(t, func(c *gin.Context) {
		ErrorResponse(c, http.StatusConflict, "copy is on loan", gin.H{"active": 1})
	})

	assert.Equal(t, http.StatusConflict, status)
	assert.False(t, body.Success)
	require.NotNil(t, body.Error)
	assert.Equal(t, "CONFLICT", body.Error.Code)
	assert.Equal(t, "copy is on loan", body.Error.Message)
}

func TestFromError(t *testing.T) {
	status, body := render(t, func(c *gin.Context) {
		FromError(c, apperror.NotFound("member not found"))
	})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body.Error.Code)

	status, body = render(t, func(c *gin.Context) {
		FromError(c, errors.New("connection reset by peer"))
	})
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Internal server error", body.Error.Message)
}
