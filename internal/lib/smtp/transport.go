package smtp

import (
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/smtp"

	"github.com/magabrotheeeer/cafeteria-backend/internal/config"
	"github.com/magabrotheeeer/cafeteria-backend/internal/lib/sl"
)

// Transport устанавливает аутентифицированные STARTTLS-соединения
// с SMTP сервером из конфигурации.
type Transport struct {
	host string
	port string
	user string
	pass string
	log  *slog.Logger
}

// NewTransport создает транспорт с параметрами SMTP из конфигурации.
func NewTransport(cfg *config.Config, log *slog.Logger) *Transport {
	return &Transport{
		host: cfg.SMTPHost,
		port: cfg.SMTPPort,
		user: cfg.SMTPUser,
		pass: cfg.SMTPPass,
		log:  log,
	}
}

// Connect открывает соединение, переводит его в TLS и проходит аутентификацию.
// Сервер без поддержки STARTTLS считается ошибкой.
func (t *Transport) Connect() (Client, error) {
	const op = "smtp.Connect"

	conn, err := net.Dial("tcp", net.JoinHostPort(t.host, t.port))
	if err != nil {
		return nil, fmt.Errorf("%s: dial: %w", op, err)
	}

	client, err := smtp.NewClient(conn, t.host)
	if err != nil {
		t.closeQuietly(conn)
		return nil, fmt.Errorf("%s: handshake: %w", op, err)
	}

	if err := t.secure(client); err != nil {
		t.closeQuietly(client)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	auth := smtp.PlainAuth("", t.user, t.pass, t.host)
	if err := client.Auth(auth); err != nil {
		t.closeQuietly(client)
		return nil, fmt.Errorf("%s: auth: %w", op, err)
	}

	return &smtpClient{c: client}, nil
}

func (t *Transport) secure(client *smtp.Client) error {
	if ok, _ := client.Extension("STARTTLS"); !ok {
		return fmt.Errorf("server does not support STARTTLS")
	}
	return client.StartTLS(&tls.Config{
		ServerName: t.host,
		MinVersion: tls.VersionTLS12,
	})
}

func (t *Transport) closeQuietly(c io.Closer) {
	if err := c.Close(); err != nil {
		t.log.Warn("failed to close smtp connection", sl.Err(err))
	}
}

// GetSMTPUser возвращает адрес отправителя.
func (t *Transport) GetSMTPUser() string {
	return t.user
}

// smtpClient адаптирует *smtp.Client к интерфейсу Client.
type smtpClient struct {
	c *smtp.Client
}

func (s *smtpClient) Mail(from string) error         { return s.c.Mail(from) }
func (s *smtpClient) Rcpt(to string) error           { return s.c.Rcpt(to) }
func (s *smtpClient) Data() (io.WriteCloser, error)  { return s.c.Data() }
func (s *smtpClient) Quit() error                    { return s.c.Quit() }
func (s *smtpClient) Close() error                   { return s.c.Close() }
