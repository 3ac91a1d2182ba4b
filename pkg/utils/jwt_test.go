package utils

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "inspection-api/pkg/errors"
)

const testSecret = "test-secret"

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken(42, "a@example.com", testSecret, time.Hour)
	require.NoError(t, err)

	id, err := ValidateToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	id, err = ValidateToken("Bearer "+token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
}

func TestValidateTokenFailures(t *testing.T) {
	expired, err := GenerateToken(1, "a@example.com", testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(expired, testSecret)
	assert.ErrorIs(t, err, ErrExpiredToken)

	valid, err := GenerateToken(1, "a@example.com", testSecret, time.Hour)
	require.NoError(t, err)
	_, err = ValidateToken(valid, "other-secret")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ValidateToken("", testSecret)
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = ValidateToken("not-a-jwt", testSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc", ExtractTokenFromHeader("Bearer abc"))
	assert.Empty(t, ExtractTokenFromHeader("Basic abc"))
	assert.Empty(t, ExtractTokenFromHeader("Bearer"))
	assert.Empty(t, ExtractTokenFromHeader(""))
}

func TestStatusForError(t *testing.T) {
	assert.Equal(t, fiber.StatusNotFound, StatusForError(apperrors.NotFound("image", 1)))
	assert.Equal(t, fiber.StatusBadRequest, StatusForError(apperrors.Invalid("bad")))
	assert.Equal(t, fiber.StatusBadGateway, StatusForError(apperrors.Upstream("inference", io.EOF)))
	assert.Equal(t, fiber.StatusConflict, StatusForError(apperrors.New(apperrors.CodeConflict, "dup")))
	assert.Equal(t, fiber.StatusInternalServerError, StatusForError(io.EOF))
	assert.Equal(t, fiber.StatusTeapot, StatusForError(fiber.NewError(fiber.StatusTeapot, "tea")))
}

func TestAppErrorResponseHidesInternalErrors(t *testing.T) {
	app := fiber.New()
	app.Get("/nf", func(c *fiber.Ctx) error { return AppErrorResponse(c, apperrors.NotFound("image", 9)) })
	app.Get("/boom", func(c *fiber.Ctx) error { return AppErrorResponse(c, io.ErrUnexpectedEOF) })

	resp, err := app.Test(httptest.NewRequest("GET", "/nf", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var body Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Success)
	assert.Equal(t, "not_found", body.Error)
	assert.Equal(t, "image 9 not found", body.Message)

	resp, err = app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	assert.NotContains(t, string(raw), "unexpected EOF")
}

func TestNewPaginationMeta(t *testing.T) {
	meta := NewPaginationMeta(21, 2, 10)
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasNext)
	assert.True(t, meta.HasPrev)
}
