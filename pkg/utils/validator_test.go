package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "inspection-api/pkg/errors"
)

type colorRequest struct {
	ClassName  string `validate:"required"`
	ClassColor string `validate:"required,hexcolor,len=7"`
}

func TestValidateStruct(t *testing.T) {
	require.NoError(t, ValidateStruct(colorRequest{ClassName: "Crack", ClassColor: "#ff0000"}))

	err := ValidateStruct(colorRequest{ClassColor: "#f00"})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalid))
	assert.Contains(t, err.Error(), "ClassName is required")
	assert.Contains(t, err.Error(), "#rrggbb")

	err = ValidateStruct(colorRequest{ClassName: "Dent", ClassColor: "red"})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalid))
}
