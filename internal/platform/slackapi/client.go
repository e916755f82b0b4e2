package slackapi

import (
	"context"
	"time"

	"github.com/slack-go/slack"
)

// UserProfile is the subset of a Slack directory profile the bot needs.
type UserProfile struct {
	Email     string
	FirstName string
	RealName  string
}

// Client wraps the Slack Web API behind the handful of calls this service
// makes. Constructed once at startup and shared; the underlying client is
// stateless.
type Client struct {
	api     *slack.Client
	timeout time.Duration
}

func NewClient(botToken string, timeout time.Duration) *Client {
	return &Client{
		api:     slack.New(botToken),
		timeout: timeout,
	}
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}

// UserProfile looks a user up by Slack ID.
func (c *Client) UserProfile(ctx context.Context, userID string) (*UserProfile, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	user, err := c.api.GetUserInfoContext(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &UserProfile{
		Email:     user.Profile.Email,
		FirstName: user.Profile.FirstName,
		RealName:  user.Profile.RealName,
	}, nil
}

// UserIDByEmail resolves a directory email to a Slack user ID.
func (c *Client) UserIDByEmail(ctx context.Context, email string) (string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	user, err := c.api.GetUserByEmailContext(ctx, email)
	if err != nil {
		return "", err
	}
	return user.ID, nil
}

// PostDM sends a plain-text direct message to a user.
func (c *Client) PostDM(ctx context.Context, userID, text string) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	_, _, err := c.api.PostMessageContext(ctx, userID, slack.MsgOptionText(text, false))
	return err
}

// OpenView opens a modal against the trigger ID from a slash command.
func (c *Client) OpenView(ctx context.Context, triggerID string, view slack.ModalViewRequest) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	_, err := c.api.OpenViewContext(ctx, triggerID, view)
	return err
}
