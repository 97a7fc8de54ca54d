package sdk

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator"

	"github.com/demopay/capture-widget/internal/domain"
)

const (
	defaultCurrency      = "USD"
	defaultFrameBasePath = "/index.html"
)

// Config is the merchant-supplied configuration. Identity, credential, and a
// positive amount must be present before any session may start.
type Config struct {
	MerchantID    string `validate:"required"`
	APIKey        string `validate:"required"`
	Amount        int64  `validate:"required,gt=0"`
	Currency      string
	OrderID       string
	Description   string
	Customer      domain.Customer
	FrameBasePath string
}

var validate = validator.New()

// Validate fails fast with a field-specific message; callers must never
// proceed to a network call with an invalid configuration.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return configErrorFor(fieldErrs[0])
	}
	return &ConfigError{Message: err.Error()}
}

func configErrorFor(fe validator.FieldError) *ConfigError {
	switch fe.Field() {
	case "MerchantID":
		return &ConfigError{Field: "merchantId", Message: "merchantId is required"}
	case "APIKey":
		return &ConfigError{Field: "apiKey", Message: "apiKey is required"}
	case "Amount":
		return &ConfigError{Field: "amount", Message: "amount must be a positive number"}
	}
	return &ConfigError{
		Field:   fe.Field(),
		Message: fmt.Sprintf("%s is invalid", fe.Field()),
	}
}

func (c Config) withDefaults() Config {
	if c.Currency == "" {
		c.Currency = defaultCurrency
	}
	if c.FrameBasePath == "" {
		c.FrameBasePath = defaultFrameBasePath
	}
	return c
}
