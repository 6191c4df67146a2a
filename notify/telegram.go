package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const defaultTelegramAPI = "https://api.telegram.org"

// Telegram sends HTML-formatted messages through the Bot API sendMessage call.
type Telegram struct {
	BotToken string
	ChatID   string
	// APIBase overrides https://api.telegram.org, mostly for tests.
	APIBase string
	Client  *http.Client
	SiteURL string
}

func NewTelegram(botToken, chatID, siteURL string) *Telegram {
	return &Telegram{
		BotToken: botToken,
		ChatID:   chatID,
		APIBase:  defaultTelegramAPI,
		Client:   &http.Client{Timeout: 10 * time.Second},
		SiteURL:  strings.TrimRight(siteURL, "/"),
	}
}

func (t *Telegram) NewContactRequest(ctx context.Context, m ContactRequestMessage) error {
	return t.send(ctx, FormatContactRequest(m))
}

func (t *Telegram) NewViewingRequest(ctx context.Context, m ViewingRequestMessage) error {
	return t.send(ctx, FormatViewingRequest(m, t.SiteURL))
}

func (t *Telegram) NewApartment(ctx context.Context, m ApartmentMessage) error {
	return t.send(ctx, FormatNewApartment(m, t.SiteURL))
}

func (t *Telegram) SubscriberAlert(ctx context.Context, m SubscriberAlertMessage) error {
	return t.send(ctx, FormatSubscriberAlert(m, t.SiteURL))
}

func (t *Telegram) send(ctx context.Context, text string) error {
	base := t.APIBase
	if base == "" {
		base = defaultTelegramAPI
	}
	url := fmt.Sprintf("%s/bot%s/sendMessage", strings.TrimRight(base, "/"), t.BotToken)

	payload := map[string]interface{}{
		"chat_id":                  t.ChatID,
		"text":                     text,
		"parse_mode":               "HTML",
		"disable_web_page_preview": true,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	client := t.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("telegram API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	logrus.WithField("chatId", t.ChatID).Debug("telegram message sent")
	return nil
}

/* ========== message formatting ========== */

func esc(s string) string { return html.EscapeString(s) }

func line(b *strings.Builder, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	fmt.Fprintf(b, "<b>%s:</b> %s\n", label, esc(value))
}

func FormatContactRequest(m ContactRequestMessage) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📩 <b>Новая заявка на визу</b> #%d\n\n", m.ID)
	line(&b, "Имя", m.Name)
	line(&b, "Телефон", m.Phone)
	line(&b, "Email", m.Email)
	line(&b, "Мессенджер", m.Messenger)
	line(&b, "Виза", m.VisaType)
	line(&b, "Сообщение", m.Message)
	return strings.TrimRight(b.String(), "\n")
}

func FormatViewingRequest(m ViewingRequestMessage, siteURL string) string {
	var b strings.Builder
	kind := "просмотр"
	if m.Type == "video_call" {
		kind = "видеозвонок"
	}
	fmt.Fprintf(&b, "🏠 <b>Заявка на %s</b> #%d\n\n", kind, m.ID)
	line(&b, "Имя", m.Name)
	line(&b, "Телефон", m.Phone)
	line(&b, "Мессенджер", m.Messenger)
	if m.DesiredDate != nil {
		line(&b, "Дата", m.DesiredDate.Format("02.01.2006"))
	}
	line(&b, "Комментарий", m.Comment)
	line(&b, "Квартира", fmt.Sprintf("%s (ID %d)", m.ApartmentTitle, m.ApartmentID))
	if siteURL != "" {
		fmt.Fprintf(&b, "%s/rent/%d\n", siteURL, m.ApartmentID)
	}
	return strings.TrimRight(b.String(), "\n")
}

func FormatNewApartment(m ApartmentMessage, siteURL string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🆕 <b>Добавлена квартира</b> #%d\n\n", m.ID)
	line(&b, "Название", m.Title)
	line(&b, "Цена", fmt.Sprintf("$%d", m.PriceUsd))
	line(&b, "Комнат", fmt.Sprintf("%d", m.Rooms))
	line(&b, "Район", m.District)
	line(&b, "Подходит подписчикам", fmt.Sprintf("%d", m.MatchedCount))
	if siteURL != "" {
		fmt.Fprintf(&b, "%s/rent/%d\n", siteURL, m.ID)
	}
	return strings.TrimRight(b.String(), "\n")
}

func FormatSubscriberAlert(m SubscriberAlertMessage, siteURL string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔔 <b>Квартира #%d подходит %d подписчикам</b>\n\n", m.ApartmentID, len(m.Emails))
	line(&b, "Название", m.Title)
	line(&b, "Цена", fmt.Sprintf("$%d", m.PriceUsd))
	line(&b, "Комнат", fmt.Sprintf("%d", m.Rooms))
	b.WriteString("<b>Email:</b>\n")
	for _, e := range m.Emails {
		fmt.Fprintf(&b, "• %s\n", esc(e))
	}
	if siteURL != "" {
		fmt.Fprintf(&b, "%s/rent/%d\n", siteURL, m.ApartmentID)
	}
	return strings.TrimRight(b.String(), "\n")
}
