package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeOf_Wrapped(t *testing.T) {
	base := NewParseError("generated text is not valid JSON", stderrors.New("unexpected end"))
	wrapped := fmt.Errorf("describe medicine: %w", base)

	assert.Equal(t, ErrorTypeParse, TypeOf(wrapped))
	assert.True(t, IsType(wrapped, ErrorTypeParse))
	assert.False(t, IsType(wrapped, ErrorTypeExternal))
}

func TestTypeOf_PlainErrorIsInternal(t *testing.T) {
	assert.Equal(t, ErrorTypeInternal, TypeOf(stderrors.New("boom")))
	assert.False(t, IsType(nil, ErrorTypeInternal))
}

func TestAppError_Message(t *testing.T) {
	err := NewExternalError("ocr request failed", stderrors.New("timeout"))
	assert.Equal(t, "EXTERNAL: ocr request failed: timeout", err.Error())
	assert.Equal(t, "VALIDATION: medicine name is required", NewValidationError("medicine name is required").Error())
}
