package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/demopay/capture-widget/internal/cache"
	"github.com/demopay/capture-widget/internal/client"
	"github.com/demopay/capture-widget/internal/config"
	"github.com/demopay/capture-widget/internal/domain"
	"github.com/demopay/capture-widget/internal/form"
	"github.com/demopay/capture-widget/internal/frame"
	"github.com/demopay/capture-widget/internal/sdk"
)

var (
	checkoutMerchantID string
	checkoutAPIKey     string
	checkoutAmount     int64
	checkoutCurrency   string
	checkoutOrderID    string
	checkoutCustomer   string
	checkoutEmail      string

	checkoutCard   string
	checkoutExpiry string
	checkoutCVV    string
	checkoutName   string
	checkoutPostal string

	checkoutTimeout time.Duration
)

var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Run one full payment capture against the session service",
	RunE:  runCheckout,
}

func init() {
	f := checkoutCmd.Flags()
	f.StringVar(&checkoutMerchantID, "merchant-id", "m1", "Merchant identifier")
	f.StringVar(&checkoutAPIKey, "api-key", "k1", "Merchant API key")
	f.Int64Var(&checkoutAmount, "amount", 5000, "Amount in minor currency units")
	f.StringVar(&checkoutCurrency, "currency", "USD", "ISO 4217 currency code")
	f.StringVar(&checkoutOrderID, "order-id", "ORD-DEMO-001", "Order identifier")
	f.StringVar(&checkoutCustomer, "customer", "Jane Doe", "Customer name")
	f.StringVar(&checkoutEmail, "email", "jane.doe@example.com", "Customer email")

	f.StringVar(&checkoutCard, "card", "4111111111111111", "Card number")
	f.StringVar(&checkoutExpiry, "expiry", "12/30", "Expiry date (MM/YY)")
	f.StringVar(&checkoutCVV, "cvv", "123", "Card verification value")
	f.StringVar(&checkoutName, "name", "Jane Doe", "Cardholder name")
	f.StringVar(&checkoutPostal, "postal", "94105", "Postal code")

	f.DurationVar(&checkoutTimeout, "timeout", 30*time.Second, "Overall checkout timeout")
}

func runCheckout(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	logger := cfg.Logger.NewLogger()

	ctx, cancel := context.WithTimeout(cmd.Context(), checkoutTimeout)
	defer cancel()

	store := cache.NewStore(cfg.Cache.Path, logger)
	api := client.New(cfg.Service, store, logger)

	outcomes := make(chan domain.TokenOutcome, 1)
	host := frame.NewWindow()
	callbacks := frame.Callbacks{
		OnToken: func(status string) {
			select {
			case outcomes <- domain.TokenOutcome{Success: true, Status: status}:
			default:
			}
		},
		OnError: func(reason string) {
			select {
			case outcomes <- domain.FailureOutcome(reason):
			default:
			}
		},
	}

	s, err := sdk.New(sdk.Config{
		MerchantID:    checkoutMerchantID,
		APIKey:        checkoutAPIKey,
		Amount:        checkoutAmount,
		Currency:      checkoutCurrency,
		OrderID:       checkoutOrderID,
		Customer:      domain.Customer{Name: checkoutCustomer, Email: checkoutEmail},
		FrameBasePath: cfg.Frame.BasePath,
	}, api, host, callbacks, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	frameWin, err := s.Start(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("session created: %s\n", s.SessionID())
	fmt.Printf("frame address:   %s\n", s.FrameURL())

	bridge := frame.NewBridge(frameWin, host, s.FrameURL(), logger)
	defer bridge.Close()

	sessionIDs := make(chan string, 1)
	bridge.OnSession(func(id string) {
		select {
		case sessionIDs <- id:
		default:
		}
	})
	bridge.Mount()

	var sessionID string
	select {
	case sessionID = <-sessionIDs:
	case <-ctx.Done():
		return fmt.Errorf("timed out waiting for session handshake: %w", ctx.Err())
	}

	fc := form.NewController(sessionID, api, bridge.Deliver, logger)
	if err := fc.Load(ctx); err != nil {
		return fmt.Errorf("loading session details: %w", err)
	}

	sess := fc.Session()
	fmt.Printf("paying %d %s for order %s (%s)\n",
		sess.Amount, sess.Currency, sess.OrderID, sess.MerchantName)

	fc.SetField(domain.FieldCardNumber, checkoutCard)
	fc.SetField(domain.FieldExpiryDate, checkoutExpiry)
	fc.SetField(domain.FieldCVV, checkoutCVV)
	fc.SetField(domain.FieldCardholderName, checkoutName)
	fc.SetField(domain.FieldPostalCode, checkoutPostal)

	if err := fc.Submit(ctx); err != nil {
		var fieldErrs domain.FieldErrors
		if errors.As(err, &fieldErrs) {
			for field, msg := range fieldErrs {
				fmt.Printf("invalid %s: %s\n", field, msg)
			}
			return errors.New("card details rejected")
		}
		// service failures still produce an outcome message below
	}

	select {
	case outcome := <-outcomes:
		if outcome.Success {
			fmt.Printf("token created: %s\n", outcome.Status)
			return nil
		}
		return fmt.Errorf("payment failed: %s", outcome.Reason)
	case <-ctx.Done():
		return fmt.Errorf("timed out waiting for outcome: %w", ctx.Err())
	}
}
