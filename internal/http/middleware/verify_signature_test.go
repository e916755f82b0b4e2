package middleware_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	mw "github.com/tahseenomar/slack-visitor-bot/internal/http/middleware"
)

const signingSecret = "test-signing-secret"

func sign(secret, timestamp, body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte("v0:" + timestamp + ":" + body))
	return "v0=" + hex.EncodeToString(mac.Sum(nil))
}

func signedRequest(body, secret string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/slack/events", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	req.Header.Set("X-Slack-Request-Timestamp", ts)
	req.Header.Set("X-Slack-Signature", sign(secret, ts, body))
	return req
}

func TestVerifySlackSignature(t *testing.T) {
	var sawBody string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("downstream ParseForm failed: %v", err)
		}
		sawBody = r.PostFormValue("command")
		w.WriteHeader(http.StatusOK)
	})
	handler := mw.VerifySlackSignature(signingSecret)(next)

	body := "command=%2Fvisitor&trigger_id=t1"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, signedRequest(body, signingSecret))
	if rec.Code != http.StatusOK {
		t.Fatalf("valid signature: status = %d, want 200", rec.Code)
	}
	if sawBody != "/visitor" {
		t.Errorf("body was not restored for downstream handler, command = %q", sawBody)
	}
}

func TestVerifySlackSignatureRejectsForgery(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run for a forged signature")
	})
	handler := mw.VerifySlackSignature(signingSecret)(next)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, signedRequest("command=%2Fvisitor", "wrong-secret"))
	if rec.Code != http.StatusForbidden {
		t.Errorf("forged signature: status = %d, want 403", rec.Code)
	}
}

func TestVerifySlackSignatureRejectsMissingHeaders(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run without signature headers")
	})
	handler := mw.VerifySlackSignature(signingSecret)(next)

	req := httptest.NewRequest(http.MethodPost, "/slack/events", strings.NewReader("command=%2Fvisitor"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("missing headers: status = %d, want 403", rec.Code)
	}
}
