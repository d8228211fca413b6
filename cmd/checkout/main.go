package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/adaora-dev/storefront-checkout/internal/address"
	"github.com/adaora-dev/storefront-checkout/internal/api"
	"github.com/adaora-dev/storefront-checkout/internal/cart"
	"github.com/adaora-dev/storefront-checkout/internal/checkout"
	"github.com/adaora-dev/storefront-checkout/internal/config"
	"github.com/adaora-dev/storefront-checkout/internal/coupon"
	"github.com/adaora-dev/storefront-checkout/internal/currency"
	"github.com/adaora-dev/storefront-checkout/internal/notify"
	"github.com/adaora-dev/storefront-checkout/internal/payment"
	"github.com/adaora-dev/storefront-checkout/internal/pricing"
	"github.com/adaora-dev/storefront-checkout/internal/reconcile"
	"github.com/adaora-dev/storefront-checkout/internal/session"
	"github.com/adaora-dev/storefront-checkout/internal/storage"
)

// main wires dependencies and drives one checkout from the terminal.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	store, err := storage.NewFileStore(cfg.StorePath)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}

	sess := session.New(store)
	client := api.NewClient(cfg.APIBaseURL, sess)
	notifier := notify.LogNotifier{}
	navigator := &consoleNavigator{}
	verifier := reconcile.NewVerifier(client)

	carts := cart.NewClient(client)
	addresses := address.NewClient(client)
	coupons := coupon.NewValidator(client)
	loader := checkout.NewLoader(sess, carts, addresses, navigator, notifier)
	submitter := checkout.NewSubmitter(client, sess, notifier)

	listener := payment.NewCallbackListener()
	if err := listener.Start(cfg.CallbackAddr); err != nil {
		log.Fatalf("start callback listener: %v", err)
	}
	defer listener.Shutdown()

	popup := &consolePopup{}
	payments := payment.NewInitiator(client, store, popup, navigator, notifier, verifier,
		cfg.PaystackPublicKey, cfg.BaseCurrency, listener.URL())

	flow := checkout.NewFlow(sess, loader, carts, coupons, submitter, payments, navigator, notifier)
	defer flow.Close()

	ctx := context.Background()

	// a previous run may have left a payment mid-flight
	if ref, orderID, ok := reconcile.PendingPayment(store); ok {
		fmt.Printf("found a pending payment for order %s, verifying...\n", orderID)
		page := reconcile.NewPage(verifier, store, notifier)
		if res, err := page.Run(ctx, ref); err == nil && res.Status == reconcile.StatusCompleted {
			fmt.Println("payment confirmed.")
		} else {
			fmt.Println("payment still pending; you can verify again later.")
		}
	}

	if sess.Expired() {
		sess.Logout()
	}

	ok, err := flow.Load(ctx)
	if err != nil {
		log.Fatalf("load checkout: %v", err)
	}
	if !ok {
		return
	}

	quote := flow.Quote()
	fmt.Printf("subtotal %s %s, discount %s, tax %s, shipping %s, total %s\n",
		pricing.BaseCurrency, quote.Subtotal.StringFixed(2),
		quote.Discount.StringFixed(2), quote.Tax.StringFixed(2),
		quote.Shipping.StringFixed(2), quote.Total.StringFixed(2))

	// display conversion only; the order itself settles in the base currency
	if cfg.DisplayCurrency != "" && cfg.DisplayCurrency != cfg.BaseCurrency {
		if rate, err := decimal.NewFromString(cfg.DisplayRate); err == nil && !rate.IsZero() {
			conv := currency.New(cfg.DisplayCurrency, rate)
			fmt.Printf("approx. %s at the current rate\n", conv.Format(quote.Total))
		}
	}

	if err := flow.PlaceOrder(ctx); err != nil {
		log.Fatalf("place order: %v", err)
	}
}

// consoleNavigator prints routing decisions instead of changing views.
type consoleNavigator struct{}

func (consoleNavigator) GotoLogin(returnTo string) {
	fmt.Printf("please sign in first (you will return to %s)\n", returnTo)
}

func (consoleNavigator) GotoCart(message string) {
	fmt.Println(message)
}

func (consoleNavigator) GotoThankYou(reference, orderID string) {
	fmt.Printf("order %s confirmed (reference %s) - thank you!\n", orderID, reference)
}

func (consoleNavigator) GotoOrderDetail(orderID, message string) {
	fmt.Printf("order %s: %s\n", orderID, message)
}

func (consoleNavigator) Redirect(url string) {
	fmt.Printf("open this link to complete your payment:\n  %s\n", url)
}

// consolePopup stands in for the provider's embedded popup: it prints
// the transaction and asks whether payment was completed.
type consolePopup struct{}

func (consolePopup) Open(ctx context.Context, tx payment.Transaction) (payment.Result, error) {
	fmt.Printf("pay %s %d.%02d with reference %s (access code %s)\n",
		tx.Currency, tx.Amount/100, tx.Amount%100, tx.Reference, tx.AccessCode)
	fmt.Print("did you complete the payment? [y/N] ")

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return payment.ResultClosed, nil
	}
	if strings.EqualFold(strings.TrimSpace(line), "y") {
		return payment.ResultSuccess, nil
	}
	return payment.ResultClosed, nil
}
