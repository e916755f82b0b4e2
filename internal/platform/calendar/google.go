package calendar

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/tahseenomar/slack-visitor-bot/pkg/config"
)

// VisitEvent is the calendar write for one registered visit.
type VisitEvent struct {
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	// Invited in addition to the shared visitor calendar itself.
	AttendeeEmails []string
}

// Google creates events on the shared visitor calendar using a service
// account that impersonates a workspace user.
type Google struct {
	svc        *gcal.Service
	calendarID string
	timezone   string
	timeout    time.Duration
}

func NewGoogle(ctx context.Context, cfg config.CalendarConfig, timezone string) (*Google, error) {
	data, err := os.ReadFile(cfg.ServiceAccountFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read service account file: %w", err)
	}

	jwtConfig, err := google.JWTConfigFromJSON(data, gcal.CalendarScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account credentials: %w", err)
	}
	jwtConfig.Subject = cfg.ImpersonateSubject

	svc, err := gcal.NewService(ctx, option.WithHTTPClient(jwtConfig.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to build calendar service: %w", err)
	}

	return &Google{
		svc:        svc,
		calendarID: cfg.CalendarID,
		timezone:   timezone,
		timeout:    cfg.CallTimeout,
	}, nil
}

// CreateEvent inserts the event with update notifications sent to all
// attendees. Returns the event's browser link.
func (g *Google) CreateEvent(ctx context.Context, ev *VisitEvent) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	attendees := make([]*gcal.EventAttendee, 0, len(ev.AttendeeEmails))
	for _, email := range ev.AttendeeEmails {
		attendees = append(attendees, &gcal.EventAttendee{Email: email})
	}

	event := &gcal.Event{
		Summary:     ev.Summary,
		Description: ev.Description,
		Start: &gcal.EventDateTime{
			DateTime: ev.Start.Format(time.RFC3339),
			TimeZone: g.timezone,
		},
		End: &gcal.EventDateTime{
			DateTime: ev.End.Format(time.RFC3339),
			TimeZone: g.timezone,
		},
		Attendees: attendees,
	}

	created, err := g.svc.Events.Insert(g.calendarID, event).SendUpdates("all").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to insert calendar event: %w", err)
	}
	return created.HtmlLink, nil
}
