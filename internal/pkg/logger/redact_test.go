package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedactEmail(t *testing.T) {
	assert.Equal(t, "jo***@example.com", RedactEmail("john.doe@example.com"))
	assert.Equal(t, "***@example.com", RedactEmail("ab@example.com"))
	assert.Equal(t, "***@***", RedactEmail("not-an-email"))
}

func TestRedactPIIValue(t *testing.T) {
	// Email-named fields are masked wholesale
	assert.Equal(t, "bo***@example.com", redactPIIValue("email", "bobby@example.com"))
	// Embedded emails in generic fields are masked too
	got := redactPIIValue("error", `insert failed for carol@example.com: timeout`)
	assert.Equal(t, `insert failed for ca***@example.com: timeout`, got)
	// Non-PII values pass through
	assert.Equal(t, "Portugal", redactPIIValue("country", "Portugal"))
}
