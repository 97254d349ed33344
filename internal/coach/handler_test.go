package coach

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubService struct {
	in  *Inbound
	out *Outcome
}

func (s *stubService) HandleIncoming(_ context.Context, in *Inbound) *Outcome {
	s.in = in
	return s.out
}

func postWebhook(t *testing.T, h *Handler, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/webhook/telegram", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleWebhook(rec, req)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestWebhookInvalidJSON(t *testing.T) {
	t.Parallel()

	svc := &stubService{out: &Outcome{Status: "success"}}
	rec, resp := postWebhook(t, NewHandler(svc), "{not json")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "error", resp["status"])
	require.Nil(t, svc.in)
}

func TestWebhookWithoutMessageIsAcknowledged(t *testing.T) {
	t.Parallel()

	svc := &stubService{out: &Outcome{Status: "success"}}
	rec, resp := postWebhook(t, NewHandler(svc), `{"edited_message":{"text":"x"}}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "success", resp["status"])
	require.Nil(t, svc.in)
}

func TestWebhookDecodesMessage(t *testing.T) {
	t.Parallel()

	svc := &stubService{out: &Outcome{Status: "success", Action: "stats_sent"}}
	body := `{"message":{"chat":{"id":100},"from":{"id":42,"first_name":"Ana","username":"ana_b"},"text":"/stats"}}`
	rec, resp := postWebhook(t, NewHandler(svc), body)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "success", resp["status"])
	require.Equal(t, "stats_sent", resp["action"])

	require.NotNil(t, svc.in)
	require.EqualValues(t, 42, svc.in.TelegramID)
	require.EqualValues(t, 100, svc.in.ChatID)
	require.Equal(t, "Ana", svc.in.FirstName)
	require.NotNil(t, svc.in.Username)
	require.Equal(t, "ana_b", *svc.in.Username)
	require.Equal(t, "/stats", svc.in.Text)
}

func TestWebhookMissingTextFieldBecomesEmpty(t *testing.T) {
	t.Parallel()

	svc := &stubService{out: &Outcome{Status: "success"}}
	body := `{"message":{"chat":{"id":100},"from":{"id":42,"first_name":"Ana"}}}`
	_, resp := postWebhook(t, NewHandler(svc), body)

	require.Equal(t, "success", resp["status"])
	require.NotNil(t, svc.in)
	require.Equal(t, "", svc.in.Text)
	require.Nil(t, svc.in.Username)
}

func TestWebhookRelaysErrorOutcomeWith200(t *testing.T) {
	t.Parallel()

	svc := &stubService{out: &Outcome{Status: "error", Message: "ai unavailable"}}
	body := `{"message":{"chat":{"id":100},"from":{"id":42,"first_name":"Ana"},"text":"hi"}}`
	rec, resp := postWebhook(t, NewHandler(svc), body)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "error", resp["status"])
	require.Equal(t, "ai unavailable", resp["message"])
}
