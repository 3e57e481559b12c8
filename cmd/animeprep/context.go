// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/tomtom215/animeprep/internal/config"
	"github.com/tomtom215/animeprep/internal/logging"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		c.config, c.configErr = config.LoadWithKoanf(path)
	})
	return c.config, c.configErr
}

// initLogging configures the global logger from the loaded config and the
// --log-level flag.
func (c *commandContext) initLogging(out io.Writer) error {
	if c.config == nil {
		return nil
	}
	var override string
	if c.logLevelFlag != nil {
		override = strings.TrimSpace(*c.logLevelFlag)
	}
	if err := logging.Init(logging.Config{
		Level:         c.config.Logging.Level,
		LevelOverride: override,
		Format:        c.config.Logging.Format,
		Caller:        c.config.Logging.Caller,
		Output:        out,
	}); err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}
	return nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
