package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort      = "PORT"
	EnvLogLevel  = "LOG_LEVEL"
	EnvLogFormat = "LOG_FORMAT"

	EnvOIDCIssuerURL = "OIDC_ISSUER_URL"
	EnvOIDCClientID  = "OIDC_CLIENT_ID"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvSignupTokenKey = "SIGNUP_TOKEN_KEY"

	EnvEventsEnabled  = "EVENTS_ENABLED"
	EnvEventsTopic    = "EVENTS_TOPIC"
	EnvEventsDLQTopic = "EVENTS_DLQ_TOPIC"

	EnvTwilioAccountSID = "TWILIO_ACCOUNT_SID"
	EnvTwilioAuthToken  = "TWILIO_AUTH_TOKEN"
	EnvTwilioFromNumber = "TWILIO_FROM_NUMBER"

	EnvPaymentsBaseURL      = "PAYMENTS_BASE_URL"
	EnvPaymentsTokenURL     = "PAYMENTS_TOKEN_URL"
	EnvPaymentsClientID     = "PAYMENTS_CLIENT_ID"
	EnvPaymentsClientSecret = "PAYMENTS_CLIENT_SECRET"
	EnvTokenExpiryBuffer    = "TOKEN_EXPIRY_BUFFER"
	EnvTokenRefreshTimeout  = "TOKEN_REFRESH_TIMEOUT"
)
