package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	for _, c := range Categories() {
		got, err := ParseCategory(string(c))
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
}

func TestParseCategoryRejectsUnknown(t *testing.T) {
	for _, s := range []string{"", "Invalid", "allergy", "Allergies", "GOAL"} {
		_, err := ParseCategory(s)
		assert.ErrorIs(t, err, ErrInvalidCategory, "input %q", s)
	}
}

func TestMemoryValidate(t *testing.T) {
	valid := Memory{UserID: "u1", Category: CategoryAllergy, Content: "Allergic to peanuts"}
	assert.NoError(t, valid.Validate())

	missingUser := valid
	missingUser.UserID = ""
	assert.ErrorIs(t, missingUser.Validate(), ErrMissingField)

	badCategory := valid
	badCategory.Category = "Snacks"
	assert.ErrorIs(t, badCategory.Validate(), ErrInvalidCategory)

	empty := valid
	empty.Content = ""
	assert.ErrorIs(t, empty.Validate(), ErrEmptyContent)
}

func TestParseRole(t *testing.T) {
	for _, s := range []string{"user", "assistant"} {
		got, err := ParseRole(s)
		require.NoError(t, err)
		assert.Equal(t, Role(s), got)
	}
	_, err := ParseRole("system")
	assert.Error(t, err)
}

func TestChatMessageValidate(t *testing.T) {
	valid := ChatMessage{UserID: "u1", Content: "hi", Role: RoleUser}
	assert.NoError(t, valid.Validate())

	bad := valid
	bad.Role = "tool"
	assert.Error(t, bad.Validate())
}
