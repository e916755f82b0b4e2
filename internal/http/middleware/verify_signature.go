package middleware

import (
	"bytes"
	"io"
	"net/http"

	"github.com/slack-go/slack"

	"github.com/tahseenomar/slack-visitor-bot/internal/http/response"
	"github.com/tahseenomar/slack-visitor-bot/pkg/logger"
)

// VerifySlackSignature rejects requests whose HMAC signature does not match
// the app's signing secret. The body is restored for downstream handlers.
func VerifySlackSignature(signingSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(r.Body)
			if err != nil {
				response.BadRequest(w, "Failed to read request body")
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			verifier, err := slack.NewSecretsVerifier(r.Header, signingSecret)
			if err != nil {
				logger.WarnContext(r.Context(), "Rejecting request with missing signature headers", "error", err)
				response.Forbidden(w, "Invalid signature")
				return
			}
			if _, err := verifier.Write(body); err != nil {
				response.InternalError(w, "Failed to verify request")
				return
			}
			if err := verifier.Ensure(); err != nil {
				logger.WarnContext(r.Context(), "Rejecting request with invalid signature", "error", err)
				response.Forbidden(w, "Invalid signature")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
