package application

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogdomain "github.com/alqabandi/burgerhouse/internal/catalog/domain"
	"github.com/alqabandi/burgerhouse/pkg/apperr"
)

type fakeCompleter struct {
	messages []ChatMessage
	reply    string
	err      error
}

func (f *fakeCompleter) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	f.messages = messages
	return f.reply, f.err
}

type fakeMeals struct{}

func (fakeMeals) ListActive(ctx context.Context) ([]catalogdomain.Meal, error) {
	return []catalogdomain.Meal{
		{NameEN: "Classic Smash Beef Burger", NameAR: "برغر بيف سماش كلاسيك", PriceFils: 11500},
	}, nil
}

func newChatService(c *fakeCompleter, enabled bool) *Service {
	return NewService(slog.New(slog.DiscardHandler), c, fakeMeals{}, enabled)
}

func TestChatPrimesSystemPromptWithMenu(t *testing.T) {
	c := &fakeCompleter{reply: "Here is our menu"}
	svc := newChatService(c, true)

	out, err := svc.Chat(context.Background(), ChatInput{Message: "show me the menu"})
	require.NoError(t, err)
	assert.Equal(t, "Here is our menu", out.Reply)
	assert.NotEmpty(t, out.ID)

	require.NotEmpty(t, c.messages)
	assert.Equal(t, "system", c.messages[0].Role)
	assert.Contains(t, c.messages[0].Content, "Classic Smash Beef Burger")
	assert.Equal(t, "user", c.messages[len(c.messages)-1].Role)
	assert.Equal(t, "show me the menu", c.messages[len(c.messages)-1].Content)
}

func TestChatKeepsOnlyRecentHistory(t *testing.T) {
	c := &fakeCompleter{reply: "ok"}
	svc := newChatService(c, true)

	history := make([]ChatMessage, 0, 12)
	for i := 0; i < 12; i++ {
		history = append(history, ChatMessage{Role: "user", Content: "turn"})
	}
	history = append(history, ChatMessage{Role: "assistant", Content: "   "})

	_, err := svc.Chat(context.Background(), ChatInput{Message: "hi", Messages: history})
	require.NoError(t, err)

	// system + capped history + new user message
	assert.Len(t, c.messages, 1+historyLimit+1)
}

func TestChatValidation(t *testing.T) {
	svc := newChatService(&fakeCompleter{}, true)

	_, err := svc.Chat(context.Background(), ChatInput{Message: "  "})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.Chat(context.Background(), ChatInput{Message: strings.Repeat("x", 1001)})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.Chat(context.Background(), ChatInput{
		Message:  "hi",
		Messages: []ChatMessage{{Role: "system", Content: "sneaky"}},
	})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestChatDisabledReturnsLocalizedFallback(t *testing.T) {
	svc := newChatService(&fakeCompleter{}, false)

	_, err := svc.Chat(context.Background(), ChatInput{Message: "hi", Locale: "ar"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindExternal, apperr.KindOf(err))

	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Contains(t, ae.Message, "الذكاء الاصطناعي")
}
