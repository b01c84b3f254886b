package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/language"

	"github.com/wehubfusion/Prism/internal/tracing"
	"github.com/wehubfusion/Prism/pkg/config"
	perrors "github.com/wehubfusion/Prism/pkg/errors"
	"github.com/wehubfusion/Prism/pkg/logging"
)

// Configuration keys. Environment variables use the PRISM_ prefix with
// dots replaced by underscores, e.g. PRISM_LOG_LEVEL.
const (
	keyCacheSize         = "cache_size"
	keyLocale            = "locale"
	keyTimezone          = "timezone"
	keyDefaultDateFormat = "default_date_format"
	keyBatchMode         = "batch_mode"
	keyMaxConcurrent     = "max_concurrent"
	keyLogLevel          = "log.level"
	keyLogFormat         = "log.format"
	keyOTLPEndpoint      = "otlp.endpoint"
	keyOTLPSampleRatio   = "otlp.sample_ratio"
	keyPretty            = "pretty"
)

// app is the state shared by all commands of one invocation.
type app struct {
	v        *viper.Viper
	cfgFile  string
	logger   *zap.Logger
	cfg      config.Config
	shutdown tracing.ShutdownFunc
}

// NewRootCmd builds the prism command tree.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New(), logger: zap.NewNop()}

	root := &cobra.Command{
		Use:               "prism",
		Short:             "Prism shapes datasets into item descriptors for list widgets.",
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return a.teardown()
	}
	root.SetVersionTemplate(`{{printf "prism %s\n" .Version}}`)

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default is ./prism.yaml)")
	flags.String("log-level", "info", "log level: debug, info, warn or error")
	flags.String("log-format", logging.FormatJSON, "log encoding: json or console")
	flags.Int("cache-size", config.DefaultCacheSize, "memoized results to keep, 0 keeps all")
	flags.String("locale", "en", "BCP-47 locale for collation and case mapping")
	flags.String("timezone", "", "IANA zone for dates without offset (default local)")
	flags.String("date-format", config.DefaultDateFormat, "default format of date group labels")
	flags.String("otlp-endpoint", "", "OTLP HTTP collector host:port; empty disables tracing")
	flags.Float64("otlp-sample-ratio", 1.0, "fraction of batches to trace")
	flags.Bool("pretty", false, "indent JSON output")

	a.bind(flags.Lookup("log-level"), keyLogLevel)
	a.bind(flags.Lookup("log-format"), keyLogFormat)
	a.bind(flags.Lookup("cache-size"), keyCacheSize)
	a.bind(flags.Lookup("locale"), keyLocale)
	a.bind(flags.Lookup("timezone"), keyTimezone)
	a.bind(flags.Lookup("date-format"), keyDefaultDateFormat)
	a.bind(flags.Lookup("otlp-endpoint"), keyOTLPEndpoint)
	a.bind(flags.Lookup("otlp-sample-ratio"), keyOTLPSampleRatio)
	a.bind(flags.Lookup("pretty"), keyPretty)

	root.AddCommand(newTransformCmd(a), newBatchCmd(a), newVersionCmd())
	return root
}

// Execute runs the prism command tree.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

func (a *app) bind(flag *pflag.Flag, key string) {
	// BindPFlag only fails for a nil flag
	_ = a.v.BindPFlag(key, flag)
}

// setup reads configuration, then builds the logger and tracer.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if err := a.initializeConfig(); err != nil {
		return err
	}

	logger, err := logging.NewZap(a.v.GetString(keyLogLevel), a.v.GetString(keyLogFormat), zapcore.Lock(zapcore.AddSync(cmd.ErrOrStderr())))
	if err != nil {
		return perrors.NewError(perrors.CodeConfiguration, "failed to build logger", err)
	}
	a.logger = logger

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	a.cfg = cfg

	traceCfg := tracing.DefaultConfig(Version)
	traceCfg.OTLPEndpoint = a.v.GetString(keyOTLPEndpoint)
	traceCfg.SampleRatio = a.v.GetFloat64(keyOTLPSampleRatio)
	shutdown, err := tracing.Setup(cmd.Context(), traceCfg, a.logger)
	if err != nil {
		return err
	}
	a.shutdown = shutdown

	a.logger.Debug("Configuration loaded", zap.String("config", a.cfg.String()))
	return nil
}

func (a *app) teardown() error {
	err := tracing.Shutdown(a.shutdown, 5*time.Second, a.logger)
	_ = a.logger.Sync()
	return err
}

// initializeConfig reads the config file, if any, and environment variables.
func (a *app) initializeConfig() error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		a.v.AddConfigPath(".")
		a.v.SetConfigName("prism")
		a.v.SetConfigType("yaml")
	}

	a.v.SetEnvPrefix("PRISM")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return perrors.NewError(perrors.CodeConfiguration, "error reading config file", err)
		}
	}
	return nil
}

// loadConfig converts the merged settings into a pipeline configuration.
// Unlike config.LoadConfig, invalid values are reported rather than ignored.
func (a *app) loadConfig() (config.Config, error) {
	cfg := config.Default()

	if a.v.IsSet(keyCacheSize) {
		size := a.v.GetInt(keyCacheSize)
		if size < 0 {
			return cfg, invalidSetting(keyCacheSize, "must not be negative")
		}
		cfg.CacheSize = size
		cfg.CacheSizeSource = config.ConfigSourceCLI
	}

	if raw := a.v.GetString(keyLocale); raw != "" {
		tag, err := language.Parse(raw)
		if err != nil {
			return cfg, invalidSetting(keyLocale, err.Error())
		}
		cfg.Locale = tag
	}

	if tz := a.v.GetString(keyTimezone); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return cfg, invalidSetting(keyTimezone, err.Error())
		}
		cfg.Location = loc
	}

	if format := a.v.GetString(keyDefaultDateFormat); format != "" {
		cfg.DefaultDateFormat = format
	}

	if raw := a.v.GetString(keyBatchMode); raw != "" {
		mode := config.BatchMode(strings.ToLower(raw))
		if !mode.Valid() {
			return cfg, invalidSetting(keyBatchMode, fmt.Sprintf("unknown mode %q", raw))
		}
		cfg.BatchMode = mode
	}

	if n := a.v.GetInt(keyMaxConcurrent); n > 0 {
		cfg.MaxConcurrent = n
	}
	return cfg, nil
}

func invalidSetting(key, message string) error {
	return perrors.NewError(perrors.CodeConfiguration, fmt.Sprintf("invalid %s: %s", key, message), perrors.ErrInvalidConfig)
}
