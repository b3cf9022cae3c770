package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanTextStripsMarkup(t *testing.T) {
	assert.Equal(t, "hello", CleanText("<b>hello</b>"))
	assert.Equal(t, "hello", CleanText("  hello  "))
	assert.Equal(t, "", CleanText("<script>alert(1)</script>"))
	assert.Equal(t, "The Trapper", CleanText("The Trapper"))
}
