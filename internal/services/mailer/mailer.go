// Package mailer sends invoice emails to clients via AWS SES.
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.uber.org/zap"

	appConfig "freelance-rate-engine/internal/config"
	"freelance-rate-engine/internal/models"
	"freelance-rate-engine/internal/utils"
)

// Service handles outbound email.
type Service struct {
	client    *ses.Client
	fromEmail string
}

// InvoiceEmailParams contains data for the invoice notification email.
type InvoiceEmailParams struct {
	Invoice     *models.Invoice
	FromName    string
	DownloadURL string
}

// NewService creates a new mailer service.
func NewService(ctx context.Context, appCfg *appConfig.Config) (*Service, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(appCfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Service{
		client:    ses.NewFromConfig(cfg),
		fromEmail: appCfg.SESSenderEmail,
	}, nil
}

var invoiceTemplate = template.Must(template.New("invoice").Parse(`
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Invoice {{.Invoice.InvoiceNumber}}</h2>
  <p>Hello {{.Invoice.ClientName}},</p>
  <p>{{.FromName}} has sent you an invoice.</p>
  <table cellpadding="6" style="border-collapse: collapse;">
    <tr><td><b>Invoice number</b></td><td>{{.Invoice.InvoiceNumber}}</td></tr>
    <tr><td><b>Amount due</b></td><td>{{printf "%.2f" .Invoice.TotalAmount}} {{.Invoice.Currency}}</td></tr>
    <tr><td><b>Issue date</b></td><td>{{.Invoice.IssueDate.Format "2006-01-02"}}</td></tr>
    <tr><td><b>Due date</b></td><td>{{.Invoice.DueDate.Format "2006-01-02"}}</td></tr>
  </table>
  {{if .DownloadURL}}<p><a href="{{.DownloadURL}}">Download the invoice PDF</a> (link expires shortly).</p>{{end}}
  {{if .Invoice.PaymentTerms}}<p><i>{{.Invoice.PaymentTerms}}</i></p>{{end}}
</body>
</html>`))

// SendInvoice emails an invoice to its client.
func (s *Service) SendInvoice(ctx context.Context, params InvoiceEmailParams) error {
	if params.Invoice.ClientEmail == nil || *params.Invoice.ClientEmail == "" {
		return models.NewValidationError("client_email", "invoice has no client email")
	}
	if s.fromEmail == "" {
		return fmt.Errorf("SES sender email not configured")
	}

	var htmlBody bytes.Buffer
	if err := invoiceTemplate.Execute(&htmlBody, params); err != nil {
		return fmt.Errorf("failed to render invoice email: %w", err)
	}

	subject := fmt.Sprintf("Invoice %s from %s", params.Invoice.InvoiceNumber, params.FromName)
	textBody := fmt.Sprintf("Invoice %s: %.2f %s due %s.",
		params.Invoice.InvoiceNumber, params.Invoice.TotalAmount,
		params.Invoice.Currency, params.Invoice.DueDate.Format("2006-01-02"))

	input := &ses.SendEmailInput{
		Source: aws.String(s.fromEmail),
		Destination: &types.Destination{
			ToAddresses: []string{*params.Invoice.ClientEmail},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{
				Html: &types.Content{
					Data:    aws.String(htmlBody.String()),
					Charset: aws.String("UTF-8"),
				},
				Text: &types.Content{
					Data:    aws.String(textBody),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		utils.GetLogger().Error("Failed to send invoice email",
			zap.Int64("invoice_id", params.Invoice.ID),
			zap.Error(err),
		)
		return fmt.Errorf("failed to send invoice email: %w", err)
	}

	utils.GetLogger().Info("Invoice email sent",
		zap.Int64("invoice_id", params.Invoice.ID),
		zap.Stringp("message_id", result.MessageId),
	)
	return nil
}
