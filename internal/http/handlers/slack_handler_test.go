package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/slack-go/slack"

	"github.com/tahseenomar/slack-visitor-bot/internal/domain"
	"github.com/tahseenomar/slack-visitor-bot/internal/http/handlers"
	mw "github.com/tahseenomar/slack-visitor-bot/internal/http/middleware"
	"github.com/tahseenomar/slack-visitor-bot/internal/service"
	"github.com/tahseenomar/slack-visitor-bot/internal/timeparse"
)

// ---------- Mocks ----------

type mockOpener struct {
	triggerID string
	view      slack.ModalViewRequest
	err       error
	calls     int
}

func (m *mockOpener) OpenView(_ context.Context, triggerID string, view slack.ModalViewRequest) error {
	m.calls++
	m.triggerID = triggerID
	m.view = view
	return m.err
}

type mockVisitService struct {
	submitted chan *domain.VisitRequest
}

func newMockVisitService() *mockVisitService {
	return &mockVisitService{submitted: make(chan *domain.VisitRequest, 1)}
}

func (m *mockVisitService) Submit(_ context.Context, req *domain.VisitRequest) {
	m.submitted <- req
}

// ---------- Helpers ----------

func newHandlers(t *testing.T, opener *mockOpener, visits service.VisitService) *handlers.Handlers {
	t.Helper()
	parser, err := timeparse.New("America/New_York")
	if err != nil {
		t.Fatalf("failed to create parser: %v", err)
	}
	limiter := mw.NewRateLimiter(nil, mw.RateLimitConfig{})
	return handlers.New(opener, service.NewValidator(parser), visits, limiter)
}

func postForm(h *handlers.Handlers, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/slack/events", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.HandleSlackEvents(rec, req)
	return rec
}

func submissionPayload(t *testing.T, fields map[string]string) string {
	t.Helper()

	values := map[string]map[string]map[string]string{}
	for block, value := range fields {
		key := "value"
		entry := map[string]string{"value": value}
		if block == domain.FieldDate {
			entry = map[string]string{"selected_date": value}
		}
		values[block] = map[string]map[string]string{key: entry}
	}

	payload := map[string]any{
		"type": "view_submission",
		"user": map[string]string{"id": "U_HOST"},
		"view": map[string]any{
			"callback_id": domain.ModalCallbackID,
			"state":       map[string]any{"values": values},
		},
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	return string(raw)
}

func goodFields() map[string]string {
	return map[string]string{
		domain.FieldGuestName:  "Ada Lovelace",
		domain.FieldGuestEmail: "ada@example.com",
		domain.FieldDate:       "2024-06-01",
		domain.FieldStartTime:  "2:30 PM",
		domain.FieldEndTime:    "3:30 PM",
		domain.FieldReason:     "Pairing session",
	}
}

func decodeViewResponse(t *testing.T, rec *httptest.ResponseRecorder) (string, map[string]string) {
	t.Helper()
	var body struct {
		ResponseAction string            `json:"response_action"`
		Errors         map[string]string `json:"errors"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return body.ResponseAction, body.Errors
}

// ---------- Tests ----------

func TestSlashCommandOpensModal(t *testing.T) {
	opener := &mockOpener{}
	h := newHandlers(t, opener, newMockVisitService())

	rec := postForm(h, url.Values{
		"command":    {"/visitor"},
		"trigger_id": {"trigger-1"},
		"user_id":    {"U_HOST"},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if opener.calls != 1 || opener.triggerID != "trigger-1" {
		t.Errorf("OpenView calls = %d, trigger = %q", opener.calls, opener.triggerID)
	}
	if opener.view.CallbackID != domain.ModalCallbackID {
		t.Errorf("modal callback_id = %q", opener.view.CallbackID)
	}
	if len(opener.view.Blocks.BlockSet) != 6 {
		t.Errorf("modal has %d blocks, want 6", len(opener.view.Blocks.BlockSet))
	}
}

func TestSlashCommandOpenFailure(t *testing.T) {
	opener := &mockOpener{err: context.DeadlineExceeded}
	h := newHandlers(t, opener, newMockVisitService())

	rec := postForm(h, url.Values{
		"command":    {"/visitor"},
		"trigger_id": {"trigger-1"},
		"user_id":    {"U_HOST"},
	})

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestUnrecognizedRequest(t *testing.T) {
	h := newHandlers(t, &mockOpener{}, newMockVisitService())

	rec := postForm(h, url.Values{"command": {"/lunch"}})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}

	rec = postForm(h, url.Values{})
	if rec.Code != http.StatusNotFound {
		t.Errorf("empty form: status = %d, want 404", rec.Code)
	}
}

func TestBadPayloadJSON(t *testing.T) {
	h := newHandlers(t, &mockOpener{}, newMockVisitService())

	rec := postForm(h, url.Values{"payload": {"{not json"}})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSubmissionWithValidationErrors(t *testing.T) {
	visits := newMockVisitService()
	h := newHandlers(t, &mockOpener{}, visits)

	fields := goodFields()
	fields[domain.FieldStartTime] = "noon-ish"
	rec := postForm(h, url.Values{"payload": {submissionPayload(t, fields)}})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	action, fieldErrors := decodeViewResponse(t, rec)
	if action != "errors" {
		t.Fatalf("response_action = %q, want errors", action)
	}
	if fieldErrors[domain.FieldStartTime] == "" || fieldErrors[domain.FieldEndTime] == "" {
		t.Errorf("expected errors on both time fields, got %v", fieldErrors)
	}

	select {
	case req := <-visits.submitted:
		t.Errorf("orchestration ran despite validation errors: %+v", req)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSubmissionCleanClosesModalAndOrchestrates(t *testing.T) {
	visits := newMockVisitService()
	h := newHandlers(t, &mockOpener{}, visits)

	rec := postForm(h, url.Values{"payload": {submissionPayload(t, goodFields())}})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	action, _ := decodeViewResponse(t, rec)
	if action != "clear" {
		t.Fatalf("response_action = %q, want clear", action)
	}

	select {
	case req := <-visits.submitted:
		if req.GuestName != "Ada Lovelace" || req.RequestingUserID != "U_HOST" || req.VisitDate != "2024-06-01" {
			t.Errorf("unexpected request: %+v", req)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("orchestration was never invoked")
	}
}

func TestSubmissionMissingBlockIsMalformed(t *testing.T) {
	visits := newMockVisitService()
	h := newHandlers(t, &mockOpener{}, visits)

	fields := goodFields()
	delete(fields, domain.FieldDate)
	rec := postForm(h, url.Values{"payload": {submissionPayload(t, fields)}})

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSubmissionWithoutOptionalEmail(t *testing.T) {
	visits := newMockVisitService()
	h := newHandlers(t, &mockOpener{}, visits)

	fields := goodFields()
	delete(fields, domain.FieldGuestEmail)
	rec := postForm(h, url.Values{"payload": {submissionPayload(t, fields)}})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	action, _ := decodeViewResponse(t, rec)
	if action != "clear" {
		t.Fatalf("response_action = %q, want clear", action)
	}

	select {
	case req := <-visits.submitted:
		if req.GuestEmail != "" {
			t.Errorf("guest email should be empty, got %q", req.GuestEmail)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("orchestration was never invoked")
	}
}
