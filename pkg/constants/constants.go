// Package constants provides shared constants for the property-yield application.
package constants

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// French tax constants used by the entity regime comparator.
const (
	// SocialLevyRate is the flat social levy applied to personal-regime rental profit (17.2%).
	SocialLevyRate = 0.172

	// CorporateTaxReducedRate applies to corporate profit up to CorporateTaxThreshold.
	CorporateTaxReducedRate = 0.15

	// CorporateTaxStandardRate applies to corporate profit above CorporateTaxThreshold.
	CorporateTaxStandardRate = 0.25

	// CorporateTaxThreshold is the upper bound of the reduced corporate tax band.
	CorporateTaxThreshold = 42500.0

	// DistributionTaxRate is the flat tax on distributed corporate profit (30%).
	DistributionTaxRate = 0.30
)

// MarginalTaxRates lists the personal marginal tax brackets, in percent.
var MarginalTaxRates = []float64{0, 11, 30, 41, 45}

// Entity input defaults and allowed ranges.
const (
	DefaultOwnershipPercent             = 100.0
	DefaultMarginalTaxRate              = 30.0
	DefaultLandPercent                  = 15.0
	DefaultBuildingDepreciationYears    = 25.0
	DefaultImprovementDepreciationYears = 10.0

	MinOwnershipPercent             = 1.0
	MaxOwnershipPercent             = 100.0
	MinLandPercent                  = 0.0
	MaxLandPercent                  = 50.0
	MinBuildingDepreciationYears    = 10.0
	MaxBuildingDepreciationYears    = 50.0
	MinImprovementDepreciationYears = 5.0
	MaxImprovementDepreciationYears = 30.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the machine-readable JSON output format
	OutputFormatJSON = "json"

	// OutputFormatHTML is the printable HTML report format
	OutputFormatHTML = "html"
)

// OutputFormats lists every supported output format.
var OutputFormats = []string{OutputFormatPretty, OutputFormatCSV, OutputFormatJSON, OutputFormatHTML}

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// DefaultEnvFile is loaded by the server binary when present
	DefaultEnvFile = ".env"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum JSON request body size (256 KB)
	DefaultMaxBodySizeBytes int64 = 256 * 1024
)

// Snapshot store constants
const (
	// MaxSavedSimulations is the number of snapshots kept by the list-based stores
	MaxSavedSimulations = 20

	// DefaultStoreDriver is used when the server config names no driver
	DefaultStoreDriver = "file"

	// DefaultStorePath is the JSON file used by the file store
	DefaultStorePath = "simulations.json"

	// DefaultRedisKey is the key holding the snapshot list in Redis
	DefaultRedisKey = "immo-simulations"

	// SnapshotIDPrefix prefixes generated snapshot IDs
	SnapshotIDPrefix = "sim-"
)
