package constants

// Application Information
const (
	AppName    = "Jobtrackr API"
	AppVersion = "1.0.0"
)

// Environment Types
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Default Application Settings
const (
	DefaultPort        = "8080"
	DefaultEnvironment = EnvDevelopment
)

// User Roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Application Statuses
const (
	StatusPending   = "pending"
	StatusInterview = "interview"
	StatusDeclined  = "declined"
	StatusOffer     = "offer"
)

// Job Types
const (
	JobTypeFullTime   = "full-time"
	JobTypePartTime   = "part-time"
	JobTypeRemote     = "remote"
	JobTypeInternship = "internship"
)

// Device Classes (best-effort user-agent classification)
const (
	DeviceMobile  = "mobile"
	DeviceDesktop = "desktop"
)

// Cache Key Prefixes
const (
	CacheKeyPrefix = "jobtrackr:"
	CacheKeyGeo    = CacheKeyPrefix + "geo:"
)
