package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/coursegen-backend/internal/domain/courses"
	"github.com/yungbote/coursegen-backend/internal/generation/gentest"
)

func TestDecodeObjectCleanAndWrappedAgree(t *testing.T) {
	clean := gentest.OutlineJSON("Binary Search Trees", 8, 5)
	wrapped := "Sure! Here is the outline you asked for:\n```json\n" + clean + "\n```\nLet me know if you need changes."

	var a, b courses.CourseOutline
	require.NoError(t, DecodeObject(clean, &a))
	require.NoError(t, DecodeObject(wrapped, &b))
	assert.Equal(t, a, b)
	assert.Equal(t, "Binary Search Trees", b.CourseTitle)
}

func TestDecodeObjectRecoveryOrder(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		ok   bool
	}{
		{"plain", `{"a":1}`, true},
		{"fenced", "```json\n{\"a\":1}\n```", true},
		{"single line fence", "```{\"a\":1}```", true},
		{"prose around", `Result: {"a":1} -- done`, true},
		{"whitespace", "\n\n  {\"a\":1}  \n", true},
		{"object inside array", `[{"a":1}]`, true},
		{"garbage", `no json here`, false},
		{"unbalanced", `{"a":`, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var v struct {
				A int `json:"a"`
			}
			err := DecodeObject(tc.raw, &v)
			if tc.ok {
				require.NoError(t, err)
				assert.Equal(t, 1, v.A)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestDecodeArray(t *testing.T) {
	var items []courses.FlashcardItem
	raw := "Here you go:\n```json\n" + gentest.FlashcardsJSON(3) + "\n```"
	require.NoError(t, DecodeArray(raw, &items))
	assert.Len(t, items, 3)

	assert.Error(t, DecodeArray(`{"front":"a"}`, &items))
}

func TestSnippetBoundsLength(t *testing.T) {
	long := make([]rune, 2000)
	for i := range long {
		long[i] = 'é'
	}
	s := Snippet(string(long))
	assert.Equal(t, 500, len([]rune(s)))
	assert.Equal(t, "short", Snippet("short"))
}
