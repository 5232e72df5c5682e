package handler

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubWebhookService struct {
	err          error
	gotBody      []byte
	gotSignature string
}

func (s *stubWebhookService) Handle(rawBody []byte, signature string) error {
	s.gotBody = rawBody
	s.gotSignature = signature
	return s.err
}

func deliver(t *testing.T, svc *stubWebhookService, body, signature string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/webhook", NewWebhookHandler(svc).Receive)

	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewBufferString(body))
	req.Header.Set(SignatureHeader, signature)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestWebhookHandler_Receive(t *testing.T) {
	t.Run("passes raw body and signature through", func(t *testing.T) {
		svc := &stubWebhookService{}
		w := deliver(t, svc, `{"eventType":"BILLING_DELETED"}`, "sig-abc")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true}`, w.Body.String())
		assert.Equal(t, `{"eventType":"BILLING_DELETED"}`, string(svc.gotBody))
		assert.Equal(t, "sig-abc", svc.gotSignature)
	})

	t.Run("processing failure still answers 200", func(t *testing.T) {
		svc := &stubWebhookService{err: errors.New("invalid webhook signature")}
		w := deliver(t, svc, `{}`, "bad")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":false,"error":"invalid webhook signature"}`, w.Body.String())
	})
}
