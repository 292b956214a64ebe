// Package smtp provides an email implementation of pricetrack.Notifier
// backed by go-mail.
package smtp

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/pricetrack"
	"github.com/wneessen/go-mail"
)

// Defaults for email delivery.
const (
	DefaultPort    = 587
	DefaultTimeout = 30 * time.Second
)

// Ensure Notifier implements pricetrack.Notifier at compile time.
var _ pricetrack.Notifier = (*Notifier)(nil)

// SendFunc delivers a composed message. The default dials the configured
// server for every message.
type SendFunc func(ctx context.Context, msg *mail.Msg) error

// Notifier sends price drop and restock emails.
type Notifier struct {
	host     string
	port     int
	username string
	password string
	from     string
	to       []string
	timeout  time.Duration
	send     SendFunc
	now      func() time.Time
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithPort sets the SMTP port. Defaults to DefaultPort.
func WithPort(port int) Option {
	return func(n *Notifier) {
		n.port = port
	}
}

// WithAuth enables PLAIN authentication.
func WithAuth(username, password string) Option {
	return func(n *Notifier) {
		n.username = username
		n.password = password
	}
}

// WithTimeout bounds a whole delivery, from dial to QUIT.
// Defaults to DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(n *Notifier) {
		n.timeout = d
	}
}

// WithSendFunc replaces delivery over SMTP.
func WithSendFunc(fn SendFunc) Option {
	return func(n *Notifier) {
		n.send = fn
	}
}

// NewNotifier creates a Notifier that sends from one address to the given
// recipients. Returns ECONFIG if host, sender or recipients are missing or
// malformed.
func NewNotifier(host, from string, to []string, opts ...Option) (*Notifier, error) {
	if host == "" {
		return nil, pricetrack.Errorf(pricetrack.ECONFIG, "smtp host required")
	}
	if from == "" {
		return nil, pricetrack.Errorf(pricetrack.ECONFIG, "smtp sender required")
	}
	if len(to) == 0 {
		return nil, pricetrack.Errorf(pricetrack.ECONFIG, "smtp recipients required")
	}

	n := &Notifier{
		host:    host,
		port:    DefaultPort,
		from:    from,
		to:      to,
		timeout: DefaultTimeout,
		now:     time.Now,
	}
	n.send = n.dialAndSend
	for _, opt := range opts {
		opt(n)
	}

	// Addresses are checked once up front.
	if _, err := n.message("", ""); err != nil {
		return nil, err
	}
	return n, nil
}

// NotifyPriceDrop emails the old and new price of item.
func (n *Notifier) NotifyPriceDrop(ctx context.Context, item *pricetrack.Item, oldPrice, newPrice, percent float64) error {
	subject := "Price drop: " + item.Title
	return n.deliver(ctx, subject, FormatPriceDrop(item, oldPrice, newPrice, percent))
}

// NotifyRestock emails that item is back in stock.
func (n *Notifier) NotifyRestock(ctx context.Context, item *pricetrack.Item) error {
	subject := "Back in stock: " + item.Title
	return n.deliver(ctx, subject, FormatRestock(item))
}

func (n *Notifier) deliver(ctx context.Context, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := n.message(subject, body)
	if err != nil {
		return err
	}
	if err := n.send(ctx, msg); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

func (n *Notifier) message(subject, body string) (*mail.Msg, error) {
	msg := mail.NewMsg(mail.WithEncoding(mail.NoEncoding))
	if err := msg.From(n.from); err != nil {
		return nil, pricetrack.Errorf(pricetrack.ECONFIG, "invalid smtp sender %q: %v", n.from, err)
	}
	if err := msg.To(n.to...); err != nil {
		return nil, pricetrack.Errorf(pricetrack.ECONFIG, "invalid smtp recipients: %v", err)
	}
	msg.Subject(subject)
	msg.SetDateWithValue(n.now())
	msg.SetBodyString(mail.TypeTextPlain, body)
	return msg, nil
}

// dialAndSend delivers msg over a fresh connection whose deadline follows ctx.
func (n *Notifier) dialAndSend(ctx context.Context, msg *mail.Msg) error {
	opts := []mail.Option{
		mail.WithPort(n.port),
		mail.WithTimeout(n.timeout),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithDialContextFunc(n.dialer(ctx)),
	}
	if n.username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(n.username),
			mail.WithPassword(n.password),
		)
	}

	client, err := mail.NewClient(n.host, opts...)
	if err != nil {
		return pricetrack.Errorf(pricetrack.ECONFIG, "invalid smtp settings: %v", err)
	}
	return client.DialAndSendWithContext(ctx, msg)
}

// dialer returns a dial function whose connections stop all I/O once ctx
// is done or the delivery timeout passes, whichever comes first.
func (n *Notifier) dialer(ctx context.Context) mail.DialContextFunc {
	return func(dialCtx context.Context, network, addr string) (net.Conn, error) {
		var d net.Dialer
		conn, err := d.DialContext(dialCtx, network, addr)
		if err != nil {
			return nil, err
		}

		deadline := time.Now().Add(n.timeout)
		if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
			deadline = dl
		}
		_ = conn.SetDeadline(deadline)

		stop := context.AfterFunc(ctx, func() {
			_ = conn.SetDeadline(time.Now())
		})
		return &ctxConn{Conn: conn, stop: stop}, nil
	}
}

// ctxConn releases its context watcher on Close.
type ctxConn struct {
	net.Conn
	stop func() bool
}

func (c *ctxConn) Close() error {
	c.stop()
	return c.Conn.Close()
}

// FormatPriceDrop renders the body of a price drop email.
func FormatPriceDrop(item *pricetrack.Item, oldPrice, newPrice, percent float64) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n\n", itemName(item))
	fmt.Fprintf(&sb, "Was: %s\n", FormatPrice(oldPrice, item.Currency))
	fmt.Fprintf(&sb, "Now: %s (%.1f%%)\n", FormatPrice(newPrice, item.Currency), percent)
	fmt.Fprintf(&sb, "\n%s\n", item.URL)
	return sb.String()
}

// FormatRestock renders the body of a restock email.
func FormatRestock(item *pricetrack.Item) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s is back in stock.\n\n", itemName(item))
	if item.Price > 0 {
		fmt.Fprintf(&sb, "Price: %s\n", FormatPrice(item.Price, item.Currency))
	}
	if item.SelectedSize != "" || item.SelectedColor != "" {
		fmt.Fprintf(&sb, "Your selection: %s\n", strings.TrimSpace(item.SelectedColor+" "+item.SelectedSize))
	}
	fmt.Fprintf(&sb, "\n%s\n", item.URL)
	return sb.String()
}

// FormatPrice renders price with its currency symbol.
func FormatPrice(price float64, currency string) string {
	return pricetrack.CurrencySymbol(currency) + strconv.FormatFloat(price, 'f', 2, 64)
}

func itemName(item *pricetrack.Item) string {
	if item.Brand == "" {
		return item.Title
	}
	return item.Brand + " " + item.Title
}
