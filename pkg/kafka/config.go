package kafka

import (
	"time"
)

// Config holds Kafka producer configuration
type Config struct {
	Brokers  []string
	ClientID string

	// Producer settings
	BatchSize    int
	BatchTimeout time.Duration
	RequiredAcks int // 0: no ack, 1: leader ack, -1: all replicas ack

	// TLS settings
	TLSEnabled bool

	// SASL settings
	SASLEnabled   bool
	SASLMechanism string
	SASLUsername  string
	SASLPassword  string
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Brokers:  []string{"localhost:9092"},
		ClientID: "backoffice-api",

		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: -1, // All replicas

		TLSEnabled:  false,
		SASLEnabled: false,
	}
}

// Topics contains all back-office Kafka topic names
var Topics = struct {
	StockEvents    string
	BillEvents     string
	SaleEvents     string
	CustomerEvents string
	ParcelEvents   string
	ReturnEvents   string
}{
	StockEvents:    "backoffice.stock.events",
	BillEvents:     "backoffice.bills.events",
	SaleEvents:     "backoffice.sales.events",
	CustomerEvents: "backoffice.customers.events",
	ParcelEvents:   "backoffice.parcels.events",
	ReturnEvents:   "backoffice.returns.events",
}
