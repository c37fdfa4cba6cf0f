package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// InvoiceDefaults are the presets applied to new invoices when the caller
// leaves the field empty.
type InvoiceDefaults struct {
	NumberTemplate string `mapstructure:"numberTemplate"`
	PaymentTerms   string `mapstructure:"paymentTerms"`
	Currency       string `mapstructure:"currency"`
	PaymentMethod  string `mapstructure:"paymentMethod"`
}

func DefaultInvoiceDefaults() InvoiceDefaults {
	return InvoiceDefaults{
		NumberTemplate: "INV-{SEQ3}",
		PaymentTerms:   "net30",
		Currency:       "USD",
		PaymentMethod:  "bank_transfer",
	}
}

// DefaultsHolder exposes the current invoice presets; the value is swapped
// atomically when the config file changes on disk.
type DefaultsHolder struct {
	current atomic.Value // holds InvoiceDefaults
}

// NewDefaultsHolder reads invoice presets from an optional invoice.yml and
// keeps them hot-reloaded.
func NewDefaultsHolder() (*DefaultsHolder, error) {
	v := viper.New()

	v.SetConfigName("invoice")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/invoicecraft")
	v.AddConfigPath(".")

	v.SetEnvPrefix("INVOICECRAFT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultInvoiceDefaults()
	v.SetDefault("invoice.numberTemplate", defaults.NumberTemplate)
	v.SetDefault("invoice.paymentTerms", defaults.PaymentTerms)
	v.SetDefault("invoice.currency", defaults.Currency)
	v.SetDefault("invoice.paymentMethod", defaults.PaymentMethod)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg InvoiceDefaults
	if err := v.UnmarshalKey("invoice", &cfg); err != nil {
		return nil, err
	}
	if err := validateDefaults(cfg); err != nil {
		return nil, err
	}

	holder := &DefaultsHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated InvoiceDefaults
		if err := v.UnmarshalKey("invoice", &updated); err != nil {
			log.Printf("[invoice-config] reload failed: %v", err)
			return
		}
		if err := validateDefaults(updated); err != nil {
			log.Printf("[invoice-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[invoice-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticDefaultsHolder wraps fixed presets without file watching.
func NewStaticDefaultsHolder(cfg InvoiceDefaults) *DefaultsHolder {
	holder := &DefaultsHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *DefaultsHolder) Get() InvoiceDefaults {
	return h.current.Load().(InvoiceDefaults)
}

func validateDefaults(cfg InvoiceDefaults) error {
	if strings.TrimSpace(cfg.NumberTemplate) == "" {
		return errors.New("invoice.numberTemplate cannot be empty")
	}
	if strings.TrimSpace(cfg.Currency) == "" {
		return errors.New("invoice.currency cannot be empty")
	}
	if strings.TrimSpace(cfg.PaymentTerms) == "" {
		return errors.New("invoice.paymentTerms cannot be empty")
	}
	return nil
}
