package cmd

import "time"

// Config carries everything the composition root needs: connection
// settings plus the business-rule knobs for dispatch, OTP and surge.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RedisAddr     string
	RedisPassword string

	GeoServiceURL string
	GeoServiceKey string

	// Dispatch knobs.
	BatchThreshold     int
	MaxParcelsPerRoute int
	MaxDetourKM        float64
	MaxReturnPickups   int
	BatchMaxHold       time.Duration
	BatchSchedule      string

	// Surge knobs.
	SurgeSchedule     string
	SurgeZoneRadiusKM float64

	// Handoff knobs.
	OTPTTL         time.Duration
	OTPMaxAttempts int
}
