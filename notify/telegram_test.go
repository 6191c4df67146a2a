package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTelegram(t *testing.T, status int) (*Telegram, *[]map[string]interface{}) {
	t.Helper()
	var got []map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		got = append(got, body)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(srv.Close)

	tg := NewTelegram("TOKEN", "-100500", "https://example.com/")
	tg.APIBase = srv.URL
	return tg, &got
}

func TestTelegram_SendsContactRequest(t *testing.T) {
	tg, got := newTestTelegram(t, http.StatusOK)

	err := tg.NewContactRequest(context.Background(), ContactRequestMessage{
		ID: 12, Name: "Иван <script>", Phone: "+7 900", VisaType: "E-visa 90",
	})
	require.NoError(t, err)
	require.Len(t, *got, 1)

	body := (*got)[0]
	assert.Equal(t, "-100500", body["chat_id"])
	assert.Equal(t, "HTML", body["parse_mode"])
	text := body["text"].(string)
	assert.Contains(t, text, "#12")
	assert.Contains(t, text, "Иван &lt;script&gt;")
	assert.NotContains(t, text, "Email")
}

func TestTelegram_ErrorStatus(t *testing.T) {
	tg, _ := newTestTelegram(t, http.StatusBadRequest)
	err := tg.NewApartment(context.Background(), ApartmentMessage{ID: 1, Title: "Studio"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestFormatViewingRequest(t *testing.T) {
	d := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	text := FormatViewingRequest(ViewingRequestMessage{
		ID: 3, Name: "Anna", Phone: "123", Type: "video_call", DesiredDate: &d,
		ApartmentID: 44, ApartmentTitle: "Sea view",
	}, "https://example.com")

	assert.Contains(t, text, "видеозвонок")
	assert.Contains(t, text, "05.03.2026")
	assert.Contains(t, text, "https://example.com/rent/44")
}

func TestFormatSubscriberAlert(t *testing.T) {
	text := FormatSubscriberAlert(SubscriberAlertMessage{
		ApartmentID: 9, Title: "Flat", PriceUsd: 600, Rooms: 2,
		Emails: []string{"a@x.io", "b@x.io"},
	}, "")
	assert.Contains(t, text, "2 подписчикам")
	assert.Equal(t, 2, strings.Count(text, "•"))
	assert.NotContains(t, text, "/rent/")
}
