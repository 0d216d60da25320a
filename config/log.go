package config

import (
	"github.com/pingcap/errors"
	"github.com/pingcap/log"
)

// InitLogger replaces the global logger according to cfg.
func InitLogger(cfg LogConfig) error {
	logCfg := &log.Config{
		Level: cfg.Level,
		File:  log.FileLogConfig{Filename: cfg.File},
	}
	logger, props, err := log.InitLogger(logCfg)
	if err != nil {
		return errors.Trace(err)
	}
	log.ReplaceGlobals(logger, props)
	return nil
}
