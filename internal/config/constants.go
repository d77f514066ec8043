package config

const (
	// Crawler Defaults
	DefaultCrawlerUserAgent           = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	DefaultCrawlerRequestTimeoutSecs  = 30
	DefaultCrawlerMaxConcurrency      = 10
	DefaultCrawlerMaxContentSizeBytes = 10 * 1024 * 1024
	DefaultCrawlerEnableHTTP2         = true

	// Storage Defaults
	DefaultStorageSnapshotPath       = "data/last_run.json"
	DefaultStorageOutputDir          = "."
	DefaultStorageParquetCompression = "zstd"

	// Reporter Defaults
	DefaultReporterSheetName      = "Scraped Data"
	DefaultReporterColumnWidth    = 20
	DefaultReporterHighlightColor = "FFFF00"
	DefaultReporterDateLayout     = "1/2/2006"
	DefaultReporterBoldHeaders    = false

	// Notification Defaults
	DefaultEmailSMTPHost        = "smtp-mail.outlook.com"
	DefaultEmailSMTPPort        = 587
	DefaultEmailSenderName      = "Metadata Scraper"
	DefaultEmailSubject         = "Scraped Data Excel File"
	DefaultEmailIntro           = "Attached is the latest scraped data Excel file."
	DefaultEmailUserEnv         = "EMAIL_USER"
	DefaultEmailPassEnv         = "EMAIL_PASS"
	DefaultEmailTLSPolicy       = "mandatory"
	DefaultEmailSendTimeoutSecs = 60

	// ConfigPathEnv overrides the default config file location
	ConfigPathEnv = "METAWATCH_CONFIG_PATH"

	maxConfigFileSize = 10 * 1024 * 1024
)
