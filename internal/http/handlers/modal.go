package handlers

import (
	"github.com/slack-go/slack"

	"github.com/tahseenomar/slack-visitor-bot/internal/domain"
)

// registrationModal is the form opened by the slash command. Block IDs
// double as validation-error keys, so they must stay in sync with the
// domain field constants.
func registrationModal() slack.ModalViewRequest {
	guestName := slack.NewInputBlock(
		domain.FieldGuestName,
		slack.NewTextBlockObject(slack.PlainTextType, "Guest's name", false, false),
		nil,
		slack.NewPlainTextInputBlockElement(nil, "value"),
	)

	guestEmail := slack.NewInputBlock(
		domain.FieldGuestEmail,
		slack.NewTextBlockObject(slack.PlainTextType, "Guest's email", false, false),
		nil,
		slack.NewPlainTextInputBlockElement(nil, "value"),
	)
	guestEmail.Optional = true

	date := slack.NewInputBlock(
		domain.FieldDate,
		slack.NewTextBlockObject(slack.PlainTextType, "Date of visit", false, false),
		nil,
		slack.NewDatePickerBlockElement("value"),
	)

	startTime := slack.NewInputBlock(
		domain.FieldStartTime,
		slack.NewTextBlockObject(slack.PlainTextType, "Start time (ET)", false, false),
		slack.NewTextBlockObject(slack.PlainTextType, "E.g., 2:30pm", false, false),
		slack.NewPlainTextInputBlockElement(nil, "value"),
	)

	endTime := slack.NewInputBlock(
		domain.FieldEndTime,
		slack.NewTextBlockObject(slack.PlainTextType, "End time (ET)", false, false),
		slack.NewTextBlockObject(slack.PlainTextType, "E.g., 3:30pm", false, false),
		slack.NewPlainTextInputBlockElement(nil, "value"),
	)

	reasonElement := slack.NewPlainTextInputBlockElement(nil, "value")
	reasonElement.Multiline = true
	reason := slack.NewInputBlock(
		domain.FieldReason,
		slack.NewTextBlockObject(slack.PlainTextType, "Reason for or nature of visit", false, false),
		nil,
		reasonElement,
	)

	return slack.ModalViewRequest{
		Type:       slack.VTModal,
		CallbackID: domain.ModalCallbackID,
		Title:      slack.NewTextBlockObject(slack.PlainTextType, "Register a guest", false, false),
		Submit:     slack.NewTextBlockObject(slack.PlainTextType, "Submit", false, false),
		Close:      slack.NewTextBlockObject(slack.PlainTextType, "Cancel", false, false),
		Blocks: slack.Blocks{
			BlockSet: []slack.Block{guestName, guestEmail, date, startTime, endTime, reason},
		},
	}
}
