package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name         string
		setEnv       func()
		wantServer   string
		wantURI      string
		wantDatabase string
		wantBrokers  []string
	}{
		{
			name: "default configuration",
			setEnv: func() {
				os.Unsetenv("SERVER_ADDR")
				os.Unsetenv("MONGODB_URI")
				os.Unsetenv("MONGODB_DATABASE")
				os.Unsetenv("KAFKA_BROKERS")
			},
			wantServer:   ":8010",
			wantURI:      "mongodb://localhost:27017",
			wantDatabase: "backoffice",
			wantBrokers:  []string{"localhost:9092"},
		},
		{
			name: "custom configuration",
			setEnv: func() {
				os.Setenv("SERVER_ADDR", ":9000")
				os.Setenv("MONGODB_URI", "mongodb://custom:27017")
				os.Setenv("MONGODB_DATABASE", "custom_db")
				os.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")
			},
			wantServer:   ":9000",
			wantURI:      "mongodb://custom:27017",
			wantDatabase: "custom_db",
			wantBrokers:  []string{"kafka-1:9092", "kafka-2:9092"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setEnv()
			config := loadConfig()

			assert.Equal(t, tt.wantServer, config.ServerAddr)
			assert.Equal(t, tt.wantURI, config.MongoDB.URI)
			assert.Equal(t, tt.wantDatabase, config.MongoDB.Database)
			assert.Equal(t, tt.wantBrokers, config.Kafka.Brokers)
			assert.Equal(t, serviceName, config.Kafka.ClientID)
		})
	}
}

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		setEnv       func()
		want         string
	}{
		{
			name:         "environment variable set",
			key:          "TEST_VAR",
			defaultValue: "default",
			setEnv: func() {
				os.Setenv("TEST_VAR", "value")
			},
			want: "value",
		},
		{
			name:         "environment variable not set",
			key:          "TEST_VAR_NOT_SET",
			defaultValue: "default",
			setEnv: func() {
				os.Unsetenv("TEST_VAR_NOT_SET")
			},
			want: "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setEnv()
			assert.Equal(t, tt.want, getEnv(tt.key, tt.defaultValue))
		})
	}
}
