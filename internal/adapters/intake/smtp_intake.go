package intake

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/mail"
	"os"
	"time"

	"github.com/emersion/go-smtp"
	"github.com/mikey/llm-email-classifier/internal/config"
	"github.com/mikey/llm-email-classifier/internal/core"
	"go.uber.org/zap"
)

// Classifier classifies email content. FailureResult is used for messages
// without text, which are never sent to the model.
type Classifier interface {
	Classify(ctx context.Context, content core.EmailContent) core.ClassificationResult
	FailureResult() core.ClassificationResult
}

// deliverFunc hands a tagged message to the next hop
type deliverFunc func(sender string, recipients []string, data []byte) error

// SMTPIntake is an SMTP content filter that tags each received message with
// its classification and relays it onwards
type SMTPIntake struct {
	classifier Classifier
	cfg        config.IntakeConfig
	logger     *zap.Logger
	server     *smtp.Server
	listener   net.Listener
	deliver    deliverFunc
}

// NewSMTPIntake creates a new SMTP mail intake
func NewSMTPIntake(classifier Classifier, cfg config.IntakeConfig, logger *zap.Logger) *SMTPIntake {
	if cfg.CategoryHeader == "" {
		cfg.CategoryHeader = "X-Email-Category"
	}
	if cfg.SuggestedResponseHeader == "" {
		cfg.SuggestedResponseHeader = "X-Email-Suggested-Response"
	}

	in := &SMTPIntake{
		classifier: classifier,
		cfg:        cfg,
		logger:     logger,
	}
	in.deliver = in.relay
	return in
}

// Start starts the SMTP listener in the background
func (in *SMTPIntake) Start() error {
	in.server = in.newServer()

	listener, err := net.Listen("tcp", in.cfg.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", in.cfg.ListenAddress, err)
	}

	in.listener = listener

	in.logger.Info("Mail intake starting",
		zap.String("address", listener.Addr().String()),
		zap.Bool("relay_enabled", in.cfg.RelayEnabled))

	go func() {
		if err := in.server.Serve(listener); err != nil && err != smtp.ErrServerClosed {
			in.logger.Error("SMTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Addr returns the address the intake listens on once started
func (in *SMTPIntake) Addr() string {
	if in.listener == nil {
		return in.cfg.ListenAddress
	}
	return in.listener.Addr().String()
}

// Stop stops the SMTP listener
func (in *SMTPIntake) Stop() error {
	if in.server != nil {
		return in.server.Close()
	}
	return nil
}

func (in *SMTPIntake) newServer() *smtp.Server {
	server := smtp.NewServer(&smtpBackend{intake: in})
	server.Addr = in.cfg.ListenAddress
	server.Domain = in.cfg.Domain
	server.ReadTimeout = 30 * time.Second
	server.WriteTimeout = 30 * time.Second
	server.MaxMessageBytes = int64(in.cfg.MaxMessageBytes)
	server.MaxRecipients = 50
	server.AllowInsecureAuth = true
	return server
}

// tagMessage classifies a raw message and returns it with the result headers prepended
func (in *SMTPIntake) tagMessage(ctx context.Context, raw []byte) ([]byte, core.ClassificationResult, error) {
	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		return nil, core.ClassificationResult{}, fmt.Errorf("failed to parse email message: %w", err)
	}

	subject, err := decodeEncodedHeader(msg.Header.Get("Subject"))
	if err != nil {
		subject = msg.Header.Get("Subject")
	}

	text, err := extractTextFromMessage(msg)
	if err != nil {
		return nil, core.ClassificationResult{}, err
	}

	var result core.ClassificationResult
	if text == "" {
		in.logger.Warn("Message has no text content", zap.String("subject", subject))
		result = in.classifier.FailureResult()
	} else {
		result = in.classifier.Classify(ctx, core.EmailContent(text))
	}

	var tagged bytes.Buffer
	fmt.Fprintf(&tagged, "%s: %s\r\n", in.cfg.CategoryHeader, result.Category)
	fmt.Fprintf(&tagged, "%s: %s\r\n", in.cfg.SuggestedResponseHeader, encodeHeaderValue(result.SuggestedResponse))
	// inbound copies of our headers are dropped so senders cannot pre-tag mail
	tagged.Write(stripHeaders(raw, in.cfg.CategoryHeader, in.cfg.SuggestedResponseHeader))

	return tagged.Bytes(), result, nil
}

// relay sends the processed message to the configured next hop
func (in *SMTPIntake) relay(sender string, recipients []string, data []byte) error {
	if !in.cfg.RelayEnabled {
		in.logger.Debug("Relay disabled, message dropped after tagging",
			zap.String("sender", sender))
		return nil
	}

	relayAddr := net.JoinHostPort(in.cfg.RelayAddress, fmt.Sprintf("%d", in.cfg.RelayPort))

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}

	conn, err := net.DialTimeout("tcp", relayAddr, 10*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to relay: %w", err)
	}

	if err := conn.SetDeadline(time.Now().Add(30 * time.Second)); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set connection deadline: %w", err)
	}

	c := smtp.NewClient(conn)
	defer c.Close()

	if err := c.Hello(hostname); err != nil {
		return fmt.Errorf("EHLO failed: %w", err)
	}

	if err := c.Mail(sender, nil); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}

	recipientOK := false
	for _, recipient := range recipients {
		if err := c.Rcpt(recipient, nil); err != nil {
			in.logger.Warn("RCPT TO failed for recipient",
				zap.String("recipient", recipient),
				zap.Error(err))
			continue
		}
		recipientOK = true
	}
	if !recipientOK {
		return fmt.Errorf("all recipients were rejected")
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}
	if _, err := wc.Write(data); err != nil {
		wc.Close()
		return fmt.Errorf("failed to send email data: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := c.Quit(); err != nil {
		// the message is already accepted by the relay
		in.logger.Warn("QUIT command failed", zap.Error(err))
	}

	return nil
}

// smtpBackend implements the go-smtp Backend interface
type smtpBackend struct {
	intake *SMTPIntake
}

// NewSession creates a new SMTP session
func (b *smtpBackend) NewSession(_ *smtp.Conn) (smtp.Session, error) {
	return &smtpSession{intake: b.intake}, nil
}

// smtpSession implements the go-smtp Session interface
type smtpSession struct {
	intake     *SMTPIntake
	sender     string
	recipients []string
}

func (s *smtpSession) Reset() {
	s.sender = ""
	s.recipients = nil
}

func (s *smtpSession) Mail(from string, _ *smtp.MailOptions) error {
	s.sender = from
	return nil
}

func (s *smtpSession) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.recipients = append(s.recipients, to)
	return nil
}

// Data classifies the message, tags it and hands it to the next hop
func (s *smtpSession) Data(r io.Reader) error {
	logger := s.intake.logger

	raw, err := io.ReadAll(r)
	if err != nil {
		logger.Error("Failed to read message data", zap.Error(err))
		return err
	}

	tagged, result, err := s.intake.tagMessage(context.Background(), raw)
	if err != nil {
		logger.Error("Failed to process message",
			zap.Error(err),
			zap.String("sender", s.sender))
		return &smtp.SMTPError{
			Code:         554,
			EnhancedCode: smtp.EnhancedCode{5, 6, 0},
			Message:      "Message could not be parsed",
		}
	}

	if err := s.intake.deliver(s.sender, s.recipients, tagged); err != nil {
		logger.Error("Failed to relay message",
			zap.Error(err),
			zap.String("sender", s.sender))
		return &smtp.SMTPError{
			Code:         451,
			EnhancedCode: smtp.EnhancedCode{4, 4, 0},
			Message:      "Relay temporarily unavailable",
		}
	}

	logger.Info("Processed email",
		zap.String("sender", s.sender),
		zap.Int("recipients", len(s.recipients)),
		zap.String("category", result.Category.String()),
		zap.String("processing_id", result.ProcessingID),
		zap.String("model", result.ModelUsed))

	return nil
}

func (s *smtpSession) Logout() error {
	return nil
}
