package generation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/coursegen-backend/internal/domain/courses"
	"github.com/yungbote/coursegen-backend/internal/generation/gentest"
	pkgerrors "github.com/yungbote/coursegen-backend/internal/pkg/errors"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
	"github.com/yungbote/coursegen-backend/internal/platform/openai"
)

func newTestGenerator(t *testing.T, text openai.Client) *Generator {
	t.Helper()
	log, err := logger.New("test")
	require.NoError(t, err)
	return NewGenerator(text, DefaultProfiles(), 2*time.Second, log)
}

func TestSynthesizeFencedOutput(t *testing.T) {
	raw := "Here is your course.\n```json\n" + gentest.OutlineJSON("Binary Search Trees", 8, 5) + "\n```\nEnjoy!"
	text := gentest.Fixed(raw)
	g := newTestGenerator(t, text)

	outline, err := g.Synthesize(context.Background(), OutlineRequest{Topic: "Binary Search Trees", CourseType: "coding", Difficulty: "intermediate"})
	require.NoError(t, err)
	assert.Equal(t, "Binary Search Trees", outline.CourseTitle)
	assert.Len(t, outline.Chapters, 8)

	calls := text.Calls()
	require.Len(t, calls, 1)
	assert.True(t, calls[0].Opts.JSON)
	assert.Equal(t, 4096, calls[0].Opts.MaxTokens)
	assert.Contains(t, calls[0].User, "Binary Search Trees")
	assert.Contains(t, calls[0].User, courseTypeGuidance[courses.TypeCoding])
}

func TestSynthesizeNeverReturnsInvalidOutline(t *testing.T) {
	cases := map[string]string{
		"seven chapters": gentest.OutlineJSON("x", 7, 5),
		"four topics":    gentest.OutlineJSON("x", 8, 4),
		"not json":       "I cannot help with that.",
		"truncated":      gentest.OutlineJSON("x", 8, 5)[:200],
		"long garbage":   strings.Repeat("z", 5000),
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			g := newTestGenerator(t, gentest.Fixed(raw))
			outline, err := g.Synthesize(context.Background(), OutlineRequest{Topic: "x", CourseType: "custom"})
			assert.Nil(t, outline)
			require.ErrorIs(t, err, ErrMalformedOutput)

			var me *MalformedOutputError
			require.True(t, errors.As(err, &me))
			assert.LessOrEqual(t, len([]rune(me.Snippet)), 500)
			assert.True(t, strings.HasPrefix(raw, me.Snippet))
		})
	}
}

func TestSynthesizeWrapsGeneratorFailure(t *testing.T) {
	text := &gentest.Text{Respond: func(int, gentest.Call) (string, error) {
		return "", errors.New("quota exceeded")
	}}
	g := newTestGenerator(t, text)
	_, err := g.Synthesize(context.Background(), OutlineRequest{Topic: "x"})
	require.ErrorIs(t, err, ErrGeneration)
	assert.False(t, errors.Is(err, ErrMalformedOutput))
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestSynthesizeEnforcesCallDeadline(t *testing.T) {
	blocking := blockingText{}
	log, err := logger.New("test")
	require.NoError(t, err)
	g := NewGenerator(blocking, DefaultProfiles(), 20*time.Millisecond, log)

	_, err = g.Synthesize(context.Background(), OutlineRequest{Topic: "x"})
	require.ErrorIs(t, err, ErrGeneration)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSynthesizeValidatesInput(t *testing.T) {
	text := gentest.Fixed(gentest.OutlineJSON("x", 8, 5))
	g := newTestGenerator(t, text)

	_, err := g.Synthesize(context.Background(), OutlineRequest{Topic: "  "})
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidArgument)

	_, err = g.Synthesize(context.Background(), OutlineRequest{Topic: "x", CourseType: "bootcamp"})
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidArgument)
	assert.Empty(t, text.Calls())
}

type blockingText struct{}

func (blockingText) GenerateText(ctx context.Context, system, user string, opts openai.GenerateOptions) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}
