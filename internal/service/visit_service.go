package service

import (
	"context"
	"fmt"
	"time"

	"github.com/tahseenomar/slack-visitor-bot/internal/domain"
	"github.com/tahseenomar/slack-visitor-bot/internal/platform/calendar"
	"github.com/tahseenomar/slack-visitor-bot/internal/platform/mailer"
	"github.com/tahseenomar/slack-visitor-bot/internal/platform/slackapi"
	"github.com/tahseenomar/slack-visitor-bot/internal/timeparse"
	"github.com/tahseenomar/slack-visitor-bot/internal/utils"
	"github.com/tahseenomar/slack-visitor-bot/pkg/config"
	"github.com/tahseenomar/slack-visitor-bot/pkg/events"
	"github.com/tahseenomar/slack-visitor-bot/pkg/logger"
)

// SlackGateway is the slice of the Slack Web API the orchestration needs.
type SlackGateway interface {
	UserProfile(ctx context.Context, userID string) (*slackapi.UserProfile, error)
	UserIDByEmail(ctx context.Context, email string) (string, error)
	PostDM(ctx context.Context, userID, text string) error
}

// CalendarService creates the visit event. The calendar is the system of
// record; nothing about a visit is stored anywhere else.
type CalendarService interface {
	CreateEvent(ctx context.Context, ev *calendar.VisitEvent) (string, error)
}

type VisitService interface {
	// Submit runs the post-validation side effects for one registration.
	// The submitting user has already been answered by the time this
	// runs, so nothing is returned; failures are logged and contained
	// per effect.
	Submit(ctx context.Context, req *domain.VisitRequest)
}

type visitService struct {
	parser   *timeparse.Parser
	slack    SlackGateway
	calendar CalendarService
	eventBus events.Publisher
	mail     mailer.Service
	config   *config.Config
}

func NewVisitService(
	parser *timeparse.Parser,
	slack SlackGateway,
	cal CalendarService,
	eventBus events.Publisher,
	mail mailer.Service,
	config *config.Config,
) VisitService {
	return &visitService{
		parser:   parser,
		slack:    slack,
		calendar: cal,
		eventBus: eventBus,
		mail:     mail,
		config:   config,
	}
}

func (s *visitService) Submit(ctx context.Context, req *domain.VisitRequest) {
	start, err := s.parser.Parse(req.VisitDate, req.StartText)
	if err != nil {
		logger.ErrorContext(ctx, "Dropping submission with unparseable start time", "error", err, "date", req.VisitDate)
		return
	}
	end, err := s.parser.Parse(req.VisitDate, req.EndText)
	if err != nil {
		logger.ErrorContext(ctx, "Dropping submission with unparseable end time", "error", err, "date", req.VisitDate)
		return
	}
	req.StartsAt = start
	req.EndsAt = end

	// Step 1: host lookup. Cannot fail outward; the registration goes
	// through with an "Unknown" host if the directory is unavailable.
	host := s.resolveHost(ctx, req.RequestingUserID)

	logger.InfoContext(ctx, "Visitor submission accepted",
		"guest", req.GuestName,
		"guest_email", req.GuestEmail,
		"host", host.FirstName,
		"host_email", host.Email,
		"date", req.VisitDate,
		"starts_at", req.StartsAt,
		"ends_at", req.EndsAt,
	)

	// Step 2: calendar write. The event is the primary artifact; if it
	// fails there is nothing worth notifying anyone about.
	if !s.createEvent(ctx, req, host) {
		return
	}

	s.publishRegistered(ctx, req, host)

	// Step 3: host confirmation DM. Losing it is a minor degradation.
	if err := s.slack.PostDM(ctx, req.RequestingUserID, hostConfirmationText(req, s.config.Visitor.OfficeName)); err != nil {
		logger.ErrorContext(ctx, "Failed to DM host confirmation", "error", err, "host_user_id", req.RequestingUserID)
	}

	// Step 4: admin notification, last and best-effort.
	s.notifyAdmin(ctx, req, host)
}

// resolveHost maps the submitting user to a name and email. Lookup errors
// are logged, never surfaced.
func (s *visitService) resolveHost(ctx context.Context, userID string) domain.HostProfile {
	profile, err := s.slack.UserProfile(ctx, userID)
	if err != nil {
		logger.WarnContext(ctx, "Could not fetch Slack user profile", "error", err, "host_user_id", userID)
		return domain.HostProfile{FirstName: "Unknown"}
	}

	first := profile.FirstName
	if first == "" {
		first = utils.FirstToken(profile.RealName)
	}
	if first == "" {
		first = "Unknown"
	}

	return domain.HostProfile{Email: profile.Email, FirstName: first}
}

func (s *visitService) createEvent(ctx context.Context, req *domain.VisitRequest, host domain.HostProfile) bool {
	var attendees []string
	if host.Email != "" {
		attendees = append(attendees, host.Email)
	}
	if s.config.Visitor.AdminEmail != "" {
		attendees = append(attendees, s.config.Visitor.AdminEmail)
	}

	ev := &calendar.VisitEvent{
		Summary:        fmt.Sprintf("Visitor (%s): %s to see %s", s.config.Visitor.OfficeName, req.GuestName, host.FirstName),
		Description:    req.Reason,
		Start:          req.StartsAt,
		End:            req.EndsAt,
		AttendeeEmails: attendees,
	}

	link, err := s.calendar.CreateEvent(ctx, ev)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to create calendar event",
			"error", err,
			"guest", req.GuestName,
			"host_user_id", req.RequestingUserID,
			"date", req.VisitDate,
		)
		return false
	}

	logger.InfoContext(ctx, "Calendar event created", "link", link, "guest", req.GuestName)
	return true
}

func (s *visitService) publishRegistered(ctx context.Context, req *domain.VisitRequest, host domain.HostProfile) {
	event := events.VisitorRegisteredEvent{
		GuestName:    req.GuestName,
		GuestEmail:   req.GuestEmail,
		HostUserID:   req.RequestingUserID,
		HostName:     host.FirstName,
		VisitDate:    req.VisitDate,
		StartsAt:     req.StartsAt,
		EndsAt:       req.EndsAt,
		Reason:       req.Reason,
		RegisteredAt: time.Now(),
	}

	if err := s.eventBus.Publish(ctx, events.VisitorRegistered, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish visitor registered event", "error", err, "guest", req.GuestName)
	}
}

func (s *visitService) notifyAdmin(ctx context.Context, req *domain.VisitRequest, host domain.HostProfile) {
	adminEmail := s.config.Visitor.AdminEmail
	if adminEmail == "" {
		logger.WarnContext(ctx, "No admin email configured, skipping admin notification")
		return
	}

	text := adminNotificationText(req, host, s.config.Visitor.OfficeName)

	adminID, err := s.slack.UserIDByEmail(ctx, adminEmail)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to look up admin by email", "error", err, "admin_email", adminEmail)
	} else if err := s.slack.PostDM(ctx, adminID, text); err != nil {
		logger.ErrorContext(ctx, "Failed to DM admin", "error", err, "admin_email", adminEmail)
	}

	if s.config.Email.AdminCopy && s.mail != nil {
		subject := fmt.Sprintf("Visitor registered (%s): %s", s.config.Visitor.OfficeName, req.GuestName)
		if _, err := s.mail.Send(adminEmail, "", subject, text, ""); err != nil {
			logger.ErrorContext(ctx, "Failed to email admin copy", "error", err, "admin_email", adminEmail)
		}
	}
}

func hostConfirmationText(req *domain.VisitRequest, office string) string {
	return fmt.Sprintf(
		"✅ Your visitor *%s* has been registered for the %s office.\n📆 %s – %s\n📝 *Reason*: %s",
		req.GuestName,
		office,
		req.StartsAt.Format("Jan 02, 03:04 PM"),
		req.EndsAt.Format("03:04 PM"),
		req.Reason,
	)
}

func adminNotificationText(req *domain.VisitRequest, host domain.HostProfile, office string) string {
	return fmt.Sprintf(
		"🚪 A visitor has been registered for the %s office:\n👤 *Guest*: %s\n📅 %s from %s to %s\n📝 *Reason*: %s\n🧑 *Host*: %s",
		office,
		req.GuestName,
		req.StartsAt.Format("Jan 02"),
		req.StartsAt.Format("03:04 PM"),
		req.EndsAt.Format("03:04 PM"),
		req.Reason,
		host.FirstName,
	)
}
