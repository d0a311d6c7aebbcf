package service

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"memorymaster/internal/confusion"
)

// EmailService sends transactional mail through Amazon SES. With no
// EMAIL_FROM configured it runs disabled and turns every send into a
// logged no-op, so the rest of the app never has to check.
type EmailService struct {
	client     *sesv2.Client
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
	debug      bool
}

func NewEmailService(awsRegion, fromEmail, fromName, appBaseURL string, debug bool) (*EmailService, error) {
	if fromEmail == "" {
		log.Println("Email service disabled: EMAIL_FROM not configured")
		return &EmailService{enabled: false, debug: debug}, nil
	}

	cfg, err := config.LoadDefaultConfig(context.Background(), config.WithRegion(awsRegion))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	log.Printf("SES email enabled: from=%s region=%s", fromEmail, awsRegion)

	return &EmailService{
		client:     sesv2.NewFromConfig(cfg),
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: appBaseURL,
		enabled:    true,
		debug:      debug,
	}, nil
}

// IsEnabled reports whether sends actually go out.
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendWelcomeEmail greets a newly registered player.
func (s *EmailService) SendWelcomeEmail(ctx context.Context, toEmail, toName string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): welcome to %s", toEmail)
		return nil
	}

	html := emailShell("Welcome to MemoryMaster!", fmt.Sprintf(`
			<p>Hi %s,</p>
			<p>Your MemoryMaster account is ready. Color Confusion is waiting: read the word, answer with the font color, and see how long your streak holds.</p>
			<p>Here's what you can do next:</p>
			<ul>
				<li>Play Endless mode and protect your three lives</li>
				<li>Race the clock in Survival mode</li>
				<li>Sprint to fifty correct answers in Speed Run</li>
				<li>Climb the leaderboard and track your percentile</li>
			</ul>
			<p style="text-align: center;">
				<a href="%s" class="button">Start Playing</a>
			</p>`, toName, s.appBaseURL))

	text := fmt.Sprintf(`Hi %s,

Your MemoryMaster account is ready. Color Confusion is waiting: read the word, answer with the font color, and see how long your streak holds.

Here's what you can do next:
- Play Endless mode and protect your three lives
- Race the clock in Survival mode
- Sprint to fifty correct answers in Speed Run
- Climb the leaderboard and track your percentile

Start playing: %s

---
This is an automated email from MemoryMaster. Please do not reply.
`, toName, s.appBaseURL)

	return s.send(ctx, toEmail, "Welcome to MemoryMaster!", html, text)
}

// SendSessionReportEmail mails the summary of a finished session.
func (s *EmailService) SendSessionReportEmail(ctx context.Context, toEmail, toName string, report *confusion.Report) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): session report to %s", toEmail)
		return nil
	}

	subject := fmt.Sprintf("Your %s session: %d points (%s)", report.Mode, report.TotalPoints, report.Rating)

	html := emailShell("Session Report", fmt.Sprintf(`
			<p>Hi %s,</p>
			<p>Here is how your last Color Confusion session went:</p>
			<table>
				<tr><td>Mode</td><td>%s</td></tr>
				<tr><td>Total Points</td><td>%d</td></tr>
				<tr><td>Correct Answers</td><td>%d</td></tr>
				<tr><td>Best Combo</td><td>x%d</td></tr>
				<tr><td>Accuracy</td><td>%.1f%%</td></tr>
				<tr><td>Avg Reaction</td><td>%.0f ms</td></tr>
				<tr><td>Rating</td><td>%s (%.1f/100)</td></tr>
				<tr><td>Coins Earned</td><td>%d</td></tr>
				<tr><td>Stars Earned</td><td>%d</td></tr>
			</table>`,
		toName, report.Mode, report.TotalPoints, report.Score, report.MaxCombo,
		report.AccuracyPct, report.AvgReactionMs, report.Rating, report.NumericalRating,
		report.Coins, report.Stars))

	text := fmt.Sprintf(`Hi %s,

Here is how your last Color Confusion session went:

Mode:             %s
Total Points:     %d
Correct Answers:  %d
Best Combo:       x%d
Accuracy:         %.1f%%
Avg Reaction:     %.0f ms
Rating:           %s (%.1f/100)
Coins Earned:     %d
Stars Earned:     %d

---
This is an automated email from MemoryMaster. Please do not reply.
`, toName, report.Mode, report.TotalPoints, report.Score, report.MaxCombo,
		report.AccuracyPct, report.AvgReactionMs, report.Rating, report.NumericalRating,
		report.Coins, report.Stars)

	return s.send(ctx, toEmail, subject, html, text)
}

// emailShell wraps body markup in the shared MemoryMaster layout.
func emailShell(title, body string) string {
	return `<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: 'Segoe UI', Helvetica, Arial, sans-serif; line-height: 1.5; color: #1f2430; }
		.container { max-width: 620px; margin: 0 auto; padding: 24px; }
		.header { background-color: #8b5cf6; color: #fff; padding: 22px; text-align: center; border-radius: 6px 6px 0 0; }
		.content { background-color: #f6f7fb; padding: 28px; border-radius: 0 0 6px 6px; }
		.button { display: inline-block; padding: 12px 28px; background-color: #8b5cf6; color: #fff; text-decoration: none; border-radius: 6px; margin: 18px 0; }
		table { width: 100%; border-collapse: collapse; margin: 16px 0; }
		td { padding: 8px 14px; border-bottom: 1px solid #e2e4ec; }
		td:first-child { color: #7a7f8c; }
		td:last-child { text-align: right; font-weight: 600; }
		.footer { text-align: center; margin-top: 24px; font-size: 12px; color: #7a7f8c; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>` + title + `</h1>
		</div>
		<div class="content">` + body + `
		</div>
		<div class="footer">
			<p>This is an automated email from MemoryMaster. Please do not reply.</p>
		</div>
	</div>
</body>
</html>
`
}

// sesContent builds a UTF-8 content part.
func sesContent(data string) *types.Content {
	return &types.Content{
		Data:    aws.String(data),
		Charset: aws.String("UTF-8"),
	}
}

func (s *EmailService) send(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	from := s.fromEmail
	if s.fromName != "" {
		from = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	if s.debug {
		log.Printf("[DEBUG] Sending email: from=%s to=%s subject=%s", from, toEmail, subject)
	}

	result, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: sesContent(subject),
				Body: &types.Body{
					Html: sesContent(htmlBody),
					Text: sesContent(textBody),
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("send email to %s: %w", toEmail, err)
	}

	if s.debug && result.MessageId != nil {
		log.Printf("[DEBUG] SES message ID: %s", *result.MessageId)
	}

	log.Printf("Email sent: to=%s subject=%q", toEmail, subject)
	return nil
}
