// Package autoload configures the global logger from the LOG_*
// environment on import, mirroring how config loading works elsewhere.
package autoload

import (
	configx "github.com/patcharaw/multitool-agent/pkg/config"
	logx "github.com/patcharaw/multitool-agent/pkg/logger"
)

func init() {
	cfg := configx.MustNew[logx.Config]("LOG")
	logx.Init(*cfg)
}
