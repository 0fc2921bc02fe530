package mail

import "gopkg.in/gomail.v2"

type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type EmailSender struct {
	From   string
	Dialer Dialer
}

type renderedEmail struct {
	To      string
	Subject string
	Body    string
}
