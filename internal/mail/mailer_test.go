package mail

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maicon-romano/arrivabene-advocacia-web/internal/logging"
)

func quietLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func validMessage() ContactMessage {
	return ContactMessage{
		Name:    "Cliente Teste",
		Email:   "cliente@example.com",
		Phone:   "+55 19 99999-9999",
		Subject: "Consulta",
		Message: "Gostaria de agendar uma consulta.",
	}
}

func TestSendPostsTemplateParams(t *testing.T) {
	var got sendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := NewMailer(Config{
		Endpoint:   srv.URL,
		ServiceID:  "service_x",
		TemplateID: "template_y",
		UserID:     "user_z",
		To:         "contato@example.com",
	}, quietLogger())

	ref, err := m.Send(context.Background(), validMessage())
	require.NoError(t, err)
	assert.NotEmpty(t, ref)

	assert.Equal(t, "service_x", got.ServiceID)
	assert.Equal(t, "template_y", got.TemplateID)
	assert.Equal(t, "user_z", got.UserID)
	assert.Equal(t, "contato@example.com", got.TemplateParams["to_email"])
	assert.Equal(t, "Cliente Teste", got.TemplateParams["name"])
	assert.Equal(t, ref, got.TemplateParams["reference"])
}

func TestSendRejectsInvalidMessageBeforeNetwork(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	m := NewMailer(Config{Endpoint: srv.URL}, quietLogger())

	cases := []struct {
		name string
		mut  func(*ContactMessage)
	}{
		{"missing name", func(c *ContactMessage) { c.Name = "" }},
		{"missing email", func(c *ContactMessage) { c.Email = "" }},
		{"bad email", func(c *ContactMessage) { c.Email = "not-an-email" }},
		{"missing message", func(c *ContactMessage) { c.Message = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg := validMessage()
			tc.mut(&msg)

			_, err := m.Send(context.Background(), msg)
			assert.ErrorIs(t, err, ErrInvalidMessage)
		})
	}
	assert.Equal(t, int64(0), calls.Load())
}

func TestSendSurfacesEndpointFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	m := NewMailer(Config{Endpoint: srv.URL}, quietLogger())
	_, err := m.Send(context.Background(), validMessage())

	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidMessage))
}
