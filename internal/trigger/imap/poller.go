package imap

import (
	"fmt"
	"io"
	"strings"
	"time"

	"expenseflow-backend/internal/expense/domain"
	"expenseflow-backend/internal/expense/usecase"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-message/mail"
	"github.com/rs/zerolog"
)

// Config holds IMAP mailbox polling settings
type Config struct {
	// Host is the IMAPS endpoint, host:993
	Host     string
	Username string
	Password string
	// UserID is the pipeline user the mailbox belongs to
	UserID string
	// Interval between polls
	Interval time.Duration
}

// Poller periodically fetches unseen inbox messages and queues them for the
// expense pipeline. Messages are flagged seen only after they are queued, so
// a full queue means the email is retried on the next poll.
type Poller struct {
	cfg     Config
	workers *usecase.WorkerService
	stop    chan struct{}
	done    chan struct{}
	log     zerolog.Logger
}

// NewPoller creates a poller for one mailbox
func NewPoller(cfg Config, workers *usecase.WorkerService, log zerolog.Logger) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = 2 * time.Minute
	}
	return &Poller{
		cfg:     cfg,
		workers: workers,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
		log:     log,
	}
}

// Start launches the polling loop in a goroutine
func (p *Poller) Start() {
	go p.run()
	p.log.Info().
		Str("host", p.cfg.Host).
		Dur("interval", p.cfg.Interval).
		Msg("imap trigger started")
}

// Stop terminates the polling loop and waits for the current poll to finish
func (p *Poller) Stop() {
	close(p.stop)
	<-p.done
	p.log.Info().Msg("imap trigger stopped")
}

func (p *Poller) run() {
	defer close(p.done)

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	// Poll once immediately rather than waiting a full interval
	p.pollOnce()

	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
			p.pollOnce()
		}
	}
}

func (p *Poller) pollOnce() {
	if err := p.poll(); err != nil {
		p.log.Warn().Err(err).Str("host", p.cfg.Host).Msg("imap poll failed")
	}
}

func (p *Poller) poll() error {
	c, err := client.DialTLS(p.cfg.Host, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", p.cfg.Host, err)
	}
	defer c.Logout()

	if err := c.Login(p.cfg.Username, p.cfg.Password); err != nil {
		return fmt.Errorf("login: %w", err)
	}

	if _, err := c.Select("INBOX", false); err != nil {
		return fmt.Errorf("select inbox: %w", err)
	}

	criteria := imap.NewSearchCriteria()
	criteria.WithoutFlags = []string{imap.SeenFlag}
	ids, err := c.Search(criteria)
	if err != nil {
		return fmt.Errorf("search unseen: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(ids...)

	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{imap.FetchEnvelope, section.FetchItem()}

	messages := make(chan *imap.Message, 10)
	fetchDone := make(chan error, 1)
	go func() {
		fetchDone <- c.Fetch(seqset, items, messages)
	}()

	queued := new(imap.SeqSet)
	for msg := range messages {
		email, ok := p.toEmail(msg, section)
		if !ok {
			continue
		}
		if p.workers.Enqueue(email) {
			queued.AddNum(msg.SeqNum)
		} else {
			p.log.Warn().Str("email_id", email.MessageID).Msg("worker queue full, will retry next poll")
		}
	}

	if err := <-fetchDone; err != nil {
		return fmt.Errorf("fetch: %w", err)
	}

	if !queued.Empty() {
		flagItem := imap.FormatFlagsOp(imap.AddFlags, true)
		if err := c.Store(queued, flagItem, []interface{}{imap.SeenFlag}, nil); err != nil {
			return fmt.Errorf("mark seen: %w", err)
		}
	}

	p.log.Info().Int("unseen", len(ids)).Msg("imap poll done")
	return nil
}

func (p *Poller) toEmail(msg *imap.Message, section *imap.BodySectionName) (domain.EmailMessage, bool) {
	if msg.Envelope == nil {
		return domain.EmailMessage{}, false
	}

	body := p.readBody(msg.GetBody(section))
	if strings.TrimSpace(body) == "" {
		return domain.EmailMessage{}, false
	}

	sender := ""
	if len(msg.Envelope.From) > 0 {
		sender = msg.Envelope.From[0].Address()
	}

	messageID := strings.Trim(msg.Envelope.MessageId, "<>")
	if messageID == "" {
		return domain.EmailMessage{}, false
	}

	return domain.EmailMessage{
		MessageID:  messageID,
		UserID:     p.cfg.UserID,
		Subject:    msg.Envelope.Subject,
		Sender:     sender,
		Body:       body,
		ReceivedAt: msg.Envelope.Date,
	}, true
}

// readBody extracts the first text part of the message, preferring text/plain
func (p *Poller) readBody(r io.Reader) string {
	if r == nil {
		return ""
	}

	mr, err := mail.CreateReader(r)
	if err != nil {
		return ""
	}

	var html string
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}

		header, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}

		contentType, _, err := header.ContentType()
		if err != nil {
			continue
		}

		data, err := io.ReadAll(part.Body)
		if err != nil {
			continue
		}

		switch contentType {
		case "text/plain":
			return string(data)
		case "text/html":
			if html == "" {
				html = string(data)
			}
		}
	}
	return html
}
