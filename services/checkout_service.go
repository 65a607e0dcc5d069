package services

import (
	"fmt"
	"math"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"

	"github.com/lavexpress/lavexpress-api/config"
)

// CheckoutItem is one cart line sent to the payment provider
type CheckoutItem struct {
	Name     string  `json:"name" binding:"required"`
	Price    float64 `json:"price" binding:"required,gt=0"`
	Quantity int     `json:"quantity" binding:"required,gt=0"`
	Image    string  `json:"image"`
}

// CheckoutSession is the created payment session the storefront
// redirects the customer to.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CheckoutInterface defines the interface for payment session creation
type CheckoutInterface interface {
	CreateSession(items []CheckoutItem, customerEmail string) (*CheckoutSession, error)
}

// StripeCheckoutService implements CheckoutInterface against Stripe
type StripeCheckoutService struct {
	secretKey string
	appURL    string
}

var checkoutServiceInstance CheckoutInterface

// InitCheckoutService initializes the Stripe checkout service
func InitCheckoutService(cfg *config.Config) CheckoutInterface {
	checkoutServiceInstance = &StripeCheckoutService{
		secretKey: cfg.StripeSecretKey,
		appURL:    cfg.AppURL,
	}
	return checkoutServiceInstance
}

// GetCheckoutService returns the checkout service instance
func GetCheckoutService() CheckoutInterface {
	return checkoutServiceInstance
}

// SetCheckoutService sets the checkout service instance (primarily for testing)
func SetCheckoutService(s CheckoutInterface) {
	checkoutServiceInstance = s
}

// CreateSession creates a Stripe checkout session for the cart
func (s *StripeCheckoutService) CreateSession(items []CheckoutItem, customerEmail string) (*CheckoutSession, error) {
	stripe.Key = s.secretKey

	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(items))
	for _, item := range items {
		productData := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(item.Name),
		}
		if item.Image != "" {
			productData.Images = stripe.StringSlice([]string{item.Image})
		}

		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(string(stripe.CurrencyEUR)),
				UnitAmount:  stripe.Int64(int64(math.Round(item.Price * 100))),
				ProductData: productData,
			},
			Quantity: stripe.Int64(int64(item.Quantity)),
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:  lineItems,
		SuccessURL: stripe.String(s.appURL + "/checkout/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(s.appURL + "/panier"),
	}
	if customerEmail != "" {
		params.CustomerEmail = stripe.String(customerEmail)
	}
	params.AddMetadata("source", "lavexpress-storefront")

	sess, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	return &CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}
