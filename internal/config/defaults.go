package config

const (
	defaultConfigPath          = "~/.config/sitekit/config.toml"
	projectConfigName          = "sitekit.toml"
	defaultSiteDir             = "site"
	defaultDataSubdir          = "assets/data"
	defaultCacheDir            = ".cache/vimeo_pictures"
	defaultVimeoBaseURL        = "https://api.vimeo.com"
	defaultVimeoRequestDelayMS = 120
	defaultVimeoTimeoutSeconds = 30
	defaultFaceMinSize         = 40
	defaultFaceMinQuality      = 5.0
	defaultMaxScored           = 8
	defaultWorkers             = 1
	defaultOverridesSchema     = "hiit56.thumbnail_overrides.v1"
	defaultAuditPath           = "~/.local/share/sitekit/thumbnail_audit.db"
	defaultAccentColor         = "--accent:#e40001"
	defaultNodeBinary          = "node"
	defaultLogFormat           = "auto"
	defaultLogLevel            = "info"
)

// Token environment variables, consulted in order when no token is configured.
var TokenEnvVars = []string{"VIMEO_TOKEN", "VIMEO_ACCESS_TOKEN"}

var defaultRequiredPages = []string{
	"index.html",
	"login.html",
	"pricing.html",
	"join.html",
	"for-gyms/index.html",
	"for-gyms/pricing.html",
	"for-gyms/start.html",
	"workouts/index.html",
	"workouts/category.html",
	"workouts/workout.html",
	"app/index.html",
	"app/workouts/index.html",
	"app/workouts/category.html",
	"app/workouts/workout.html",
	"app/timer/index.html",
	"app/timer/builder/index.html",
	"app/timer/my-workouts/index.html",
	"gym/join/index.html",
	"app/book/class/index.html",
	"biz/check-in/index.html",
	"biz/migrate/index.html",
	"biz/index.html",
	"biz/moves/index.html",
	"biz/moves/move.html",
	"biz/gym-timer/index.html",
	"biz/gym-timer/builder/index.html",
	"admin/index.html",
	"admin/status/index.html",
}

var defaultRequiredData = []string{
	"categories_v1.json",
	"videos_classes.json",
	"videos_moves.json",
	"videos_all.json",
	"videos_marketing.json",
	"videos_category_samples.json",
	"timer_demos.json",
}

var defaultStaleMarkers = []string{"CP05", "CP06"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			SiteDir:  defaultSiteDir,
			CacheDir: defaultCacheDir,
		},
		Vimeo: Vimeo{
			BaseURL:        defaultVimeoBaseURL,
			RequestDelayMS: defaultVimeoRequestDelayMS,
			TimeoutSeconds: defaultVimeoTimeoutSeconds,
		},
		Thumbnails: Thumbnails{
			ImageAnalysis:   true,
			FaceMinSize:     defaultFaceMinSize,
			FaceMinQuality:  defaultFaceMinQuality,
			MaxScored:       defaultMaxScored,
			Workers:         defaultWorkers,
			OverridesSchema: defaultOverridesSchema,
		},
		Smoke: Smoke{
			RequiredPages: append([]string(nil), defaultRequiredPages...),
			RequiredData:  append([]string(nil), defaultRequiredData...),
			StaleMarkers:  append([]string(nil), defaultStaleMarkers...),
			AccentColor:   defaultAccentColor,
			NodeBinary:    defaultNodeBinary,
		},
		Audit: Audit{
			Path: defaultAuditPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
