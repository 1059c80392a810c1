package config

const (
	defaultDataDir              = "~/.local/share/bd2mods"
	defaultLogDir               = "~/.local/share/bd2mods/logs"
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultLogRetentionDays     = 30
	defaultCatalogSource        = "https://browndust2-wiki.souseha.com/en/costumes"
	defaultRenderTimeoutSeconds = 30
	defaultSettleMillis         = 500
	defaultHTTPTimeoutSeconds   = 20
	defaultUserAgent            = "bd2mods/dev"
)

var defaultWaitSelectors = []string{"div.col-mobile-6", ".media-body", "ul.list-group"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Scraper: Scraper{
			Sources:              []string{defaultCatalogSource},
			RenderEnabled:        true,
			WaitSelectors:        append([]string(nil), defaultWaitSelectors...),
			RenderTimeoutSeconds: defaultRenderTimeoutSeconds,
			SettleMillis:         defaultSettleMillis,
			HTTPTimeoutSeconds:   defaultHTTPTimeoutSeconds,
			UserAgent:            defaultUserAgent,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
