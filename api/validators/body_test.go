package validators

import (
	"bytes"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/aminzare2005/vlonefarsi/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tagBody struct {
	Name   string `json:"name" validate:"omitempty,persian"`
	Phone  string `json:"phone" validate:"omitempty,irphone"`
	Postal string `json:"postal" validate:"omitempty,irpostal"`
}

func decode(t *testing.T, payload string) (tagBody, error) {
	t.Helper()
	req := httptest.NewRequest("POST", "/", bytes.NewBufferString(payload))
	var body tagBody
	err := DecodeJSONBody(req, &body)
	return body, err
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	_, err := decode(t, `{"name": "علی", "surprise": true}`)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestPersianTag(t *testing.T) {
	for _, name := range []string{"علی", "علی رضایی", "فاطمه"} {
		_, err := decode(t, `{"name": "`+name+`"}`)
		assert.NoError(t, err, "name %q should be accepted", name)
	}
	for _, name := range []string{"Ali", "علیA", "علی1", " "} {
		_, err := decode(t, `{"name": "`+name+`"}`)
		assert.Error(t, err, "name %q should be rejected", name)
	}
}

func TestPersianTagReportsJSONFieldName(t *testing.T) {
	_, err := decode(t, `{"name": "Ali"}`)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	assert.Contains(t, details, "name")
}

func TestIranPhoneTag(t *testing.T) {
	for _, phone := range []string{"09123456789", "0912 345 6789"} {
		_, err := decode(t, `{"phone": "`+phone+`"}`)
		assert.NoError(t, err, "phone %q should be accepted", phone)
	}
	for _, phone := range []string{"0912345678", "9123456789", "091234567890", "phone"} {
		_, err := decode(t, `{"phone": "`+phone+`"}`)
		assert.Error(t, err, "phone %q should be rejected", phone)
	}
}

func TestIranPostalTag(t *testing.T) {
	_, err := decode(t, `{"postal": "1234567890"}`)
	require.NoError(t, err)

	for _, postal := range []string{"12345", "12345678901", "12345abcde"} {
		_, err := decode(t, `{"postal": "`+postal+`"}`)
		assert.Error(t, err, "postal %q should be rejected", postal)
	}
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "hello", SanitizeString("  hello  ", 0))
	assert.Equal(t, "he", SanitizeString("hello", 2))
}
