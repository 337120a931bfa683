// Package config loads command configuration with Viper.
//
// Values come from, in increasing precedence: flag defaults, a YAML config
// file, a .env file and the process environment, and flags set on the
// command line. With an env prefix only PREFIX_* variables are read, and
// underscores map to nested keys (SEQCTL_LOGGING_LEVEL sets logging.level).
//
// # Usage
//
//	var cfg Config
//	err := config.LoadConfig("seqctl", &cfg,
//	    config.WithEnvPrefix("SEQCTL"),
//	    config.WithFlags(flags),
//	)
//	cfg.ApplyDefaults()
//	err = cfg.Validate()
package config
