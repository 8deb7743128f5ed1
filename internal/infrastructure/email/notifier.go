package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"text/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/gomail.v2"

	"unimarket/internal/application/billing/usecases"
	vo "unimarket/internal/domain/billing/valueobjects"
	"unimarket/internal/shared/config"
	"unimarket/internal/shared/logger"
	"unimarket/internal/shared/utils"
)

//go:embed templates/*.md
var templateFS embed.FS

// Notifier delivers payment outcome emails over SMTP. Templates are
// markdown rendered to HTML; gateway-supplied strings pass through the
// sanitizer before they reach a mailbox.
type Notifier struct {
	cfg       config.EmailConfig
	dialer    *gomail.Dialer
	md        goldmark.Markdown
	policy    *bluemonday.Policy
	printer   *message.Printer
	templates *template.Template
	logger    logger.Interface
}

func NewNotifier(cfg config.EmailConfig, logger logger.Interface) (*Notifier, error) {
	templates, err := template.ParseFS(templateFS, "templates/*.md")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)

	return &Notifier{
		cfg:       cfg,
		dialer:    gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass),
		md:        md,
		policy:    bluemonday.UGCPolicy(),
		printer:   message.NewPrinter(language.Romanian),
		templates: templates,
		logger:    logger,
	}, nil
}

type successData struct {
	Name      string
	PlanName  string
	OrderID   string
	Amount    string
	EndDate   string
	Recurring bool
}

type failureData struct {
	Name       string
	PlanName   string
	OrderID    string
	Reason     string
	Downgraded bool
}

func (n *Notifier) NotifySuccess(ctx context.Context, note usecases.SuccessNotification) error {
	data := successData{
		Name:      note.Name,
		PlanName:  note.PlanName,
		OrderID:   note.OrderID,
		Amount:    n.formatAmount(note.Amount),
		EndDate:   note.NewEndDate.Format("02.01.2006"),
		Recurring: note.Recurring,
	}

	subject := fmt.Sprintf("Plată confirmată pentru abonamentul %s", note.PlanName)
	return n.send(ctx, note.Email, subject, "payment_success.md", data)
}

func (n *Notifier) NotifyFailure(ctx context.Context, note usecases.FailureNotification) error {
	data := failureData{
		Name:       note.Name,
		PlanName:   note.PlanName,
		OrderID:    note.OrderID,
		Reason:     n.policy.Sanitize(note.Reason),
		Downgraded: note.Downgraded,
	}

	subject := "Plata abonamentului a eșuat"
	return n.send(ctx, note.Email, subject, "payment_failure.md", data)
}

func (n *Notifier) send(ctx context.Context, to, subject, templateName string, data any) error {
	if to == "" {
		return fmt.Errorf("recipient address is empty")
	}

	var markdown bytes.Buffer
	if err := n.templates.ExecuteTemplate(&markdown, templateName, data); err != nil {
		return fmt.Errorf("failed to render template %s: %w", templateName, err)
	}

	var rendered bytes.Buffer
	if err := n.md.Convert(markdown.Bytes(), &rendered); err != nil {
		return fmt.Errorf("failed to convert email body: %w", err)
	}
	htmlBody := n.policy.Sanitize(rendered.String())

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(n.cfg.FromAddress, n.cfg.FromName))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", markdown.String())
	m.AddAlternative("text/html", htmlBody)

	done := make(chan error, 1)
	go func() {
		done <- n.dialer.DialAndSend(m)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
		n.logger.Infow("billing email sent",
			"to", utils.MaskEmail(to), "template", templateName)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (n *Notifier) formatAmount(m vo.Money) string {
	return n.printer.Sprintf("%.2f %s", m.Units(), m.Currency())
}
