package constant

import (
	"time"
)

// Context key types to avoid collisions
type contextKey string

const (
	ContextKeyRequestID contextKey = "request_id"
)

const (
	RequestParamID       = "id"
	RequestParamPage     = "page"
	RequestParamPageSize = "page_size"
	RequestParamSortBy   = "sort_by"
	RequestParamOrder    = "order"
)

const (
	DefaultValuePage     = 1
	DefaultValuePageSize = 20
	MaxValuePageSize     = 100
	DefaultValueSortBy   = "created_at"
	DefaultValueOrder    = "desc"
)

const (
	PqErrorCodeUniqueViolation     = "23505"
	PqErrorCodeFkViolation         = "23503"
	PqErrorCodeNotNullViolation    = "23502"
	PqErrorCodeCheckViolation      = "23514"
	PqErrorCodeStringTooLong       = "22001"
	PqErrorCodeInvalidTextRepr     = "22P02"
	PqErrorClassConnection         = "08"
	PqErrorClassInsufficientRes    = "53"
	PqErrorClassOperatorIntervened = "57"
)

const (
	DateFormat = time.RFC3339
)

const (
	OtelServiceScopeName    = "service"
	OtelRepositoryScopeName = "repository"
	OtelHandlerScopeName    = "handler"
	OtelEventScopeName      = "event"

	OtelQueryAttributeKey = "query"
)

const (
	RequestHeaderUserAgent          = "User-Agent"
	RequestHeaderContentType        = "Content-Type"
	RequestHeaderRateLimit          = "X-RateLimit-Limit"
	RequestHeaderRateLimitRemaining = "X-RateLimit-Remaining"
	RequestHeaderRateLimitWindow    = "X-RateLimit-Window"
	RequestHeaderRequestID          = "X-Request-ID"
	RequestHeaderForwardedFor       = "X-Forwarded-For"
	RequestHeaderRealIP             = "X-Real-IP"
)

const (
	ContentTypeJSON = "application/json"
)

const (
	ResponseErrorPrepareShutdown      = "SERVER PREPARING TO SHUT DOWN"
	ResponseErrorRequestLimitExceeded = "REQUEST LIMIT EXCEEDED"
	ResponseErrorInternal             = "internal server error"
	ResponseErrorUnavailable          = "service temporarily unavailable"
)

const (
	ServerEnvDevelopment = "development"
	ServerEnvProduction  = "production"
)

const (
	CacheDriverRedis  = "redis"
	CacheDriverMemory = "memory"
	CacheDriverNone   = "none"
)

const (
	HealthStatusHealthy   = "healthy"
	HealthStatusDegraded  = "degraded"
	HealthStatusUnhealthy = "unhealthy"
	HealthCheckOK         = "ok"
	HealthCheckDisabled   = "disabled"
)

const (
	Empty = ""
)
