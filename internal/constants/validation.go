package constants

// Field Length Limits
const (
	MinPasswordLength = 6
	MaxPasswordLength = 100
	MinNameLength     = 2
	MaxNameLength     = 50
	MaxEmailLength    = 255
	MaxLocationLength = 100
	MaxCompanyLength  = 100
	MaxPositionLength = 100
	MaxURLLength      = 2048
)
