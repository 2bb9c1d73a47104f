// Package application proxies storefront chat to an LLM provider, priming
// it with the live menu so replies stay grounded in what is actually sold.
package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	catalogdomain "github.com/alqabandi/burgerhouse/internal/catalog/domain"
	"github.com/alqabandi/burgerhouse/pkg/apperr"
	"github.com/alqabandi/burgerhouse/pkg/money"
)

const historyLimit = 8

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatInput struct {
	Message  string        `json:"message"`
	Messages []ChatMessage `json:"messages"`
	Locale   string        `json:"locale"`
}

type ChatReply struct {
	ID    string `json:"id"`
	Reply string `json:"reply"`
}

// Completer sends the assembled conversation to the LLM provider.
type Completer interface {
	Complete(ctx context.Context, messages []ChatMessage) (string, error)
}

type MealLister interface {
	ListActive(ctx context.Context) ([]catalogdomain.Meal, error)
}

type Service struct {
	log      *slog.Logger
	complete Completer
	meals    MealLister
	enabled  bool
}

func NewService(log *slog.Logger, complete Completer, meals MealLister, enabled bool) *Service {
	return &Service{log: log, complete: complete, meals: meals, enabled: enabled}
}

// Chat validates the payload, primes the system prompt with the active
// menu and forwards the last turns of history plus the new message.
func (s *Service) Chat(ctx context.Context, in ChatInput) (ChatReply, error) {
	if err := validateChat(in); err != nil {
		return ChatReply{}, err
	}
	locale := in.Locale
	if locale != "ar" {
		locale = "en"
	}

	if !s.enabled {
		return ChatReply{}, apperr.External("assistant", unreachableReply(locale), nil)
	}

	meals, err := s.meals.ListActive(ctx)
	if err != nil {
		return ChatReply{}, err
	}

	messages := make([]ChatMessage, 0, historyLimit+2)
	messages = append(messages, ChatMessage{Role: "system", Content: systemPrompt(locale, meals)})
	messages = append(messages, recentHistory(in.Messages)...)
	messages = append(messages, ChatMessage{Role: "user", Content: strings.TrimSpace(in.Message)})

	reply, err := s.complete.Complete(ctx, messages)
	if err != nil {
		s.log.Error("assistant completion failed", "err", err)
		return ChatReply{}, apperr.External("assistant", failedReply(locale), err)
	}
	return ChatReply{ID: uuid.NewString(), Reply: reply}, nil
}

func validateChat(in ChatInput) error {
	fields := map[string]string{}
	msg := strings.TrimSpace(in.Message)
	if msg == "" {
		fields["message"] = "required"
	}
	if len(msg) > 1000 {
		fields["message"] = "must be at most 1000 characters"
	}
	if in.Locale != "" && in.Locale != "en" && in.Locale != "ar" {
		fields["locale"] = "must be en or ar"
	}
	for i, m := range in.Messages {
		if m.Role != "user" && m.Role != "assistant" {
			fields[fmt.Sprintf("messages.%d.role", i)] = "must be user or assistant"
		}
		if len(m.Content) > 2000 {
			fields[fmt.Sprintf("messages.%d.content", i)] = "must be at most 2000 characters"
		}
	}
	if len(fields) > 0 {
		return apperr.Validation(fields)
	}
	return nil
}

// recentHistory keeps the last turns, dropping blank entries.
func recentHistory(history []ChatMessage) []ChatMessage {
	out := make([]ChatMessage, 0, len(history))
	for _, m := range history {
		content := strings.TrimSpace(m.Content)
		if content == "" {
			continue
		}
		out = append(out, ChatMessage{Role: m.Role, Content: content})
	}
	if len(out) > historyLimit {
		out = out[len(out)-historyLimit:]
	}
	return out
}

type menuEntry struct {
	NameEN        string  `json:"name_en"`
	NameAR        string  `json:"name_ar"`
	DescriptionEN string  `json:"description_en"`
	DescriptionAR string  `json:"description_ar"`
	Price         float64 `json:"price"`
	ImageURL      string  `json:"image_url"`
}

func systemPrompt(locale string, meals []catalogdomain.Meal) string {
	entries := make([]menuEntry, 0, len(meals))
	for _, m := range meals {
		entries = append(entries, menuEntry{
			NameEN:        m.NameEN,
			NameAR:        m.NameAR,
			DescriptionEN: m.DescriptionEN,
			DescriptionAR: m.DescriptionAR,
			Price:         money.Major(m.PriceFils, "KWD"),
			ImageURL:      m.ImageURL,
		})
	}
	menuJSON, _ := json.Marshal(entries)

	menuLine := "Reply with (1) for the menu or (2) if you want our hotline team to call you. You can also rate your meal or share feedback."
	if locale == "ar" {
		menuLine = "اكتب (1) لعرض المنيو أو (2) لطلب تواصل من فريق الخط الساخن. إذا أردت تقيم طلبك أو تجربة المطعم أخبرني بالتفاصيل."
	}

	return strings.Join([]string{
		"You are the AI assistant for a beef burger restaurant. Be proactive, warm, and concise.",
		"Always respond in the user's language preference: " + locale + ".",
		"Primary missions:",
		"- Greet and clearly offer numbered options: 1 for the menu, 2 to have the hotline/support team call them back (ask for their phone number).",
		"- Encourage diners to rate meals and share their ordering experience.",
		"- When asked for the menu or option 1 is chosen, present the meals below in a neat, modern bullet list with name, price (KWD), and a short description in the user's language.",
		"- If they ask for suggestions, pick two or three items from the provided list.",
		"If no hotline number is provided, ask for the guest's phone so the team can call back.",
		"Keep responses brief and structured with line breaks or bullets when useful.",
		"Meals data (use name_ar/description_ar when replying in Arabic): " + string(menuJSON),
		"Reminder line to reuse when greeting: " + menuLine,
	}, "\n")
}

func unreachableReply(locale string) string {
	if locale == "ar" {
		return "تعذر الاتصال بمساعد الذكاء الاصطناعي حالياً. حاول مجدداً لاحقاً أو اطلب الدعم من الفريق."
	}
	return "Unable to reach the AI assistant right now. Please try again later or ask our team directly."
}

func failedReply(locale string) string {
	if locale == "ar" {
		return "لم أتمكن من إحضار الرد الآن. جرّب مرة أخرى أو شاركني رقمك ليتواصل معك فريق الدعم."
	}
	return "I could not reach the assistant just now. Please try again or share your phone number so our team can call you back."
}
