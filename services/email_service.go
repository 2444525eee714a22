package services

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/agusaisen/recopro/config"
	"github.com/agusaisen/recopro/models"
)

type EmailService struct {
	cfg *config.Config
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{cfg: cfg}
}

func (s *EmailService) SendEmail(to []string, subject string, body string) error {
	auth := smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPass, s.cfg.SMTPHost)

	msg := []byte("To: " + to[0] + "\r\n" +
		"From: " + s.cfg.SMTPFrom + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\r\n" +
		"\r\n" +
		body + "\r\n")

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	tlsconfig := &tls.Config{
		ServerName: s.cfg.SMTPHost,
	}

	var client *smtp.Client
	if s.cfg.SMTPPort == 465 {
		conn, err := tls.Dial("tcp", addr, tlsconfig)
		if err != nil {
			return fmt.Errorf("smtp tls dial: %w", err)
		}
		defer conn.Close()
		client, err = smtp.NewClient(conn, s.cfg.SMTPHost)
		if err != nil {
			return fmt.Errorf("smtp client: %w", err)
		}
	} else {
		c, err := smtp.Dial(addr)
		if err != nil {
			return fmt.Errorf("smtp dial: %w", err)
		}
		client = c
		if err = client.StartTLS(tlsconfig); err != nil {
			client.Close()
			return fmt.Errorf("smtp starttls: %w", err)
		}
	}
	defer client.Quit()

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}
	if err := client.Mail(s.cfg.SMTPFrom); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("smtp rcpt: %w", err)
		}
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	return w.Close()
}

var teamReviewedTemplate = template.Must(template.New("teamReviewed").Parse(`
<p>Hola,</p>
<p>El equipo de <b>{{.Disciplina}}</b> de la localidad <b>{{.Localidad}}</b>
fue <b>{{.Resultado}}</b> por la organización de los Juegos Regionales.</p>
{{if .Rechazado}}<p>Puede consultar el detalle ingresando al sistema.</p>{{end}}
<p>Este es un mensaje automático, por favor no responda este correo.</p>
`))

// SendTeamReviewedEmail tells the creating gestor the outcome of the
// admin review of their team.
func (s *EmailService) SendTeamReviewedEmail(to string, team *models.Team) error {
	data := struct {
		Disciplina string
		Localidad  string
		Resultado  string
		Rechazado  bool
	}{
		Resultado: "aprobado",
	}
	if team.Discipline != nil {
		data.Disciplina = team.Discipline.Nombre
	}
	if team.Locality != nil {
		data.Localidad = team.Locality.Nombre
	}
	if team.Status == models.TeamStatusRechazada {
		data.Resultado = "rechazado"
		data.Rechazado = true
	}

	var body bytes.Buffer
	if err := teamReviewedTemplate.Execute(&body, data); err != nil {
		return fmt.Errorf("render review email: %w", err)
	}

	subject := fmt.Sprintf("Juegos Regionales: equipo %s", data.Resultado)
	return s.SendEmail([]string{to}, subject, body.String())
}
