package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvidenceKeySluggedAndUnique(t *testing.T) {
	key := EvidenceKey("My Homework Photo.JPG")
	assert.True(t, strings.HasPrefix(key, "familypoints/"))
	assert.True(t, strings.HasSuffix(key, "-my-homework-photo.jpg"))

	other := EvidenceKey("My Homework Photo.JPG")
	assert.NotEqual(t, key, other)
}

func TestEvidenceKeyNoExtension(t *testing.T) {
	key := EvidenceKey("notes")
	assert.True(t, strings.HasSuffix(key, "-notes"))
	assert.NotContains(t, key, ".")
}
