package service

import (
	"github.com/tahseenomar/slack-visitor-bot/internal/domain"
	"github.com/tahseenomar/slack-visitor-bot/internal/timeparse"
	"github.com/tahseenomar/slack-visitor-bot/internal/utils"
)

// Shown on both time fields when either entry fails to parse. Which one is
// broken is deliberately not disambiguated; the hint covers both.
const timeHint = "Enter time like 2:30 PM or 14:30"

// Validator checks a submitted registration before any side effect runs.
// It never returns an error; every failure becomes a field entry.
type Validator struct {
	parser *timeparse.Parser
}

func NewValidator(parser *timeparse.Parser) *Validator {
	return &Validator{parser: parser}
}

// Validate accumulates independent field errors rather than stopping at
// the first one.
func (v *Validator) Validate(req *domain.VisitRequest) domain.ValidationResult {
	errs := domain.ValidationResult{}

	start, startErr := v.parser.Parse(req.VisitDate, req.StartText)
	end, endErr := v.parser.Parse(req.VisitDate, req.EndText)
	switch {
	case startErr != nil || endErr != nil:
		errs[domain.FieldStartTime] = timeHint
		errs[domain.FieldEndTime] = timeHint
	case !start.Before(end):
		errs[domain.FieldEndTime] = "End time must be after start time."
	}

	if email := utils.NormalizeString(req.GuestEmail); email != "" && !utils.IsValidEmail(email) {
		errs[domain.FieldGuestEmail] = "Must be a valid email address."
	}

	return errs
}
