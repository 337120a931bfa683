// Package logger provides structured logging using zerolog.
//
// It supports JSON and console output, log level configuration, and
// component-scoped loggers. The engine logs at debug level under the
// component names pipeline, source, cache, runner and definition, so a
// library caller sees nothing unless it raises the level.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//	  output: "stderr"
//
// # Usage
//
//	logger.Init(&cfg.Logging)
//	logger.RegisterDefaults()
//	logger.Get(logger.ComponentCache).Debug("cache drained", logger.Fields("count", n))
package logger
