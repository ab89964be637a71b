package mailingservices

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techagentng/chatrelay/config"
)

func TestInit_DisabledWithoutSettings(t *testing.T) {
	m := &Mailgun{}
	m.Init(&config.Config{})
	assert.Nil(t, m.Client)

	id, err := m.SendWelcomeMessage(context.Background(), "jane@example.com", "Jane")
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestSendWelcomeMessage(t *testing.T) {
	var gotTo string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || !strings.HasSuffix(r.URL.Path, "/messages") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = r.ParseMultipartForm(1 << 20)
		gotTo = r.FormValue("to")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"<msg-1@mailgun.test>","message":"Queued. Thank you."}`))
	}))
	defer srv.Close()

	client := mailgun.NewMailgun("mailgun.test", "key-test")
	client.SetAPIBase(srv.URL + "/v3")
	m := &Mailgun{Client: client, From: "noreply@mailgun.test"}

	id, err := m.SendWelcomeMessage(context.Background(), "jane@example.com", "Jane")
	require.NoError(t, err)
	assert.Equal(t, "<msg-1@mailgun.test>", id)
	assert.Equal(t, "jane@example.com", gotTo)
}
