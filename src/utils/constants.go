package utils

const ShortDashDateLayout = "2006-01-02"

const (
	AuditLevelInfo    = "INFO"
	AuditLevelWarning = "WARNING"
	AuditLevelError   = "ERROR"
)

// ReferenceCurrency is the unit every price and rate is expressed in.
const ReferenceCurrency = "EUR"
