package payment

import (
	"context"
	"fmt"
	"net"

	"github.com/gofiber/fiber/v2"
)

// CallbackListener catches the provider's callback_url redirect when the
// authorization-URL branch is taken, so a headless session can learn the
// reference and resume verification.
type CallbackListener struct {
	app  *fiber.App
	ln   net.Listener
	refs chan string
}

func NewCallbackListener() *CallbackListener {
	l := &CallbackListener{
		app:  fiber.New(fiber.Config{DisableStartupMessage: true}),
		refs: make(chan string, 1),
	}
	l.app.Get("/payment/callback", l.handleCallback)
	return l
}

func (l *CallbackListener) handleCallback(c *fiber.Ctx) error {
	ref := c.Query("reference")
	if ref == "" {
		ref = c.Query("trxref")
	}
	if ref == "" {
		return c.Status(fiber.StatusBadRequest).SendString("missing reference")
	}
	select {
	case l.refs <- ref:
	default:
		// a reference was already captured; ignore duplicates
	}
	return c.SendString("Payment received. You can close this tab and return to the store.")
}

// Start binds addr (use port 0 for an ephemeral port) and serves in the
// background.
func (l *CallbackListener) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	l.ln = ln
	go l.app.Listener(ln)
	return nil
}

// URL is the callback_url to hand to the payment initialization.
func (l *CallbackListener) URL() string {
	if l.ln == nil {
		return ""
	}
	return fmt.Sprintf("http://%s/payment/callback", l.ln.Addr().String())
}

// Wait blocks until the provider redirects back with a reference or the
// context ends.
func (l *CallbackListener) Wait(ctx context.Context) (string, error) {
	select {
	case ref := <-l.refs:
		return ref, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (l *CallbackListener) Shutdown() error {
	return l.app.Shutdown()
}
