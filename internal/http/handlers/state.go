package handlers

import (
	"fmt"

	"github.com/slack-go/slack"

	"github.com/tahseenomar/slack-visitor-bot/internal/domain"
)

// visitRequestFromState lifts the submitted block values out of the modal
// envelope. A missing required block means the payload did not come from
// our modal and is rejected as malformed; blank-but-present values are the
// validator's problem, not ours.
func visitRequestFromState(callback *slack.InteractionCallback) (*domain.VisitRequest, error) {
	if callback.View.State == nil {
		return nil, fmt.Errorf("view state missing")
	}
	values := callback.View.State.Values

	required := []string{domain.FieldGuestName, domain.FieldDate, domain.FieldStartTime, domain.FieldEndTime, domain.FieldReason}
	for _, field := range required {
		if _, ok := values[field]; !ok {
			return nil, fmt.Errorf("block %q missing from submission", field)
		}
	}

	req := &domain.VisitRequest{
		GuestName:        values[domain.FieldGuestName]["value"].Value,
		VisitDate:        values[domain.FieldDate]["value"].SelectedDate,
		StartText:        values[domain.FieldStartTime]["value"].Value,
		EndText:          values[domain.FieldEndTime]["value"].Value,
		Reason:           values[domain.FieldReason]["value"].Value,
		RequestingUserID: callback.User.ID,
	}

	// The email block is optional and may be absent entirely.
	if actions, ok := values[domain.FieldGuestEmail]; ok {
		req.GuestEmail = actions["value"].Value
	}

	return req, nil
}
