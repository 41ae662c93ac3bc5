package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"orderflow/internal/core/domain/model/grant"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/jobs"
	"orderflow/internal/pkg/errs"
)

// DefaultWarningThreshold marks pending orders as approaching their required date.
const DefaultWarningThreshold = 72 * time.Hour

type Config struct {
	HTTPPort              string
	DBHost                string
	DBPort                string
	DBUser                string
	DBPassword            string
	DBName                string
	DBSslMode             string
	KafkaHost             string
	KafkaOrderEventsTopic string
	WarningThreshold      time.Duration
	EditOverduePermission string
	PermissionModule      string
	CapabilityPolicyPath  string
	DeadlineScanSchedule  string
}

// LoadConfig reads the configuration through getenv and applies defaults.
func LoadConfig(getenv func(string) string) (Config, error) {
	get := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	config := Config{
		HTTPPort:              get("HTTP_PORT", "8080"),
		DBHost:                get("DB_HOST", "localhost"),
		DBPort:                get("DB_PORT", "5432"),
		DBUser:                get("DB_USER", "postgres"),
		DBPassword:            get("DB_PASSWORD", ""),
		DBName:                get("DB_NAME", "orderflow"),
		DBSslMode:             get("DB_SSLMODE", "disable"),
		KafkaHost:             get("KAFKA_HOST", ""),
		KafkaOrderEventsTopic: get("KAFKA_ORDER_EVENTS_TOPIC", "order.events"),
		WarningThreshold:      DefaultWarningThreshold,
		EditOverduePermission: get("EDIT_OVERDUE_PERMISSION", services.DefaultEditOverduePermission),
		PermissionModule:      get("PERMISSION_MODULE", grant.DefaultModule),
		CapabilityPolicyPath:  get("CAPABILITY_POLICY_PATH", ""),
		DeadlineScanSchedule:  get("DEADLINE_SCAN_SCHEDULE", jobs.DefaultDeadlineScanSchedule),
	}

	var result []error
	if raw := get("WARNING_THRESHOLD", ""); raw != "" {
		threshold, err := time.ParseDuration(raw)
		switch {
		case err != nil:
			result = append(result, errs.NewValueIsInvalidErrorWithCause("WARNING_THRESHOLD", err))
		case threshold < 0:
			result = append(result, errs.NewValueIsOutOfRangeError("WARNING_THRESHOLD", raw, "0s", "unbounded"))
		default:
			config.WarningThreshold = threshold
		}
	}

	if err := errors.Join(result...); err != nil {
		return Config{}, err
	}
	return config, nil
}

// DSN builds the PostgreSQL connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// KafkaBrokers splits KAFKA_HOST on commas.
func (c Config) KafkaBrokers() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaHost, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
