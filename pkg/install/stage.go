package install

import (
	"os"
	"path/filepath"
	"time"

	"github.com/rigtools/rigup/pkg/config"
	"github.com/rigtools/rigup/pkg/errors"
	"github.com/rigtools/rigup/pkg/fsutil"
	"github.com/rigtools/rigup/pkg/logging"
	"github.com/rigtools/rigup/pkg/paths"
	"github.com/rigtools/rigup/pkg/secret"
)

// Secret sources, in acquisition order
const (
	SourceExisting    = "existing"
	SourceEnvironment = "environment"
	SourcePrompt      = "prompt"
)

// StageResult describes a completed staging area
type StageResult struct {
	Dir          string
	SecretSource string
}

// Stage produces a complete, correctly-permissioned staging area: the
// rendered secret file and settings.json, both owner-only, in a scratch
// directory private to this run. Final target locations are never
// touched.
func Stage(ctx *Context) (*StageResult, error) {
	logger := logging.GetLogger("install.stage")

	value, source, err := acquireSecret(ctx)
	if err != nil {
		return nil, err
	}
	if err := secret.Validate(value); err != nil {
		return nil, err
	}
	logger.Info().Str("source", source).Msg("Acquired credential")

	dir := ctx.Paths.StagingDir()
	now := time.Now()

	secretPayload := secret.Render(value, ctx.Version, now)
	if err := fsutil.WriteFileAtomic(filepath.Join(dir, paths.SecretFileName), []byte(secretPayload), fsutil.FileMode); err != nil {
		return nil, err
	}

	settings, err := config.Default(ctx.Version).Render()
	if err != nil {
		return nil, err
	}
	if err := fsutil.WriteFileAtomic(filepath.Join(dir, paths.SettingsFileName), settings, fsutil.FileMode); err != nil {
		return nil, err
	}

	logger.Info().Str("dir", dir).Msg("Staging area complete")
	return &StageResult{Dir: dir, SecretSource: source}, nil
}

// acquireSecret gathers the credential: an existing installed secret
// file wins, then a pre-set environment value, then an interactive
// prompt. With no terminal and no existing or environment value there
// is no credential source, which is fatal.
func acquireSecret(ctx *Context) (string, string, error) {
	logger := logging.GetLogger("install.stage")

	secretFile := ctx.Paths.SecretFile()
	if fsutil.FileExists(secretFile) {
		content, err := fsutil.ReadFileString(secretFile)
		if err != nil {
			return "", "", err
		}
		if value, ok := secret.ParseFile(content); ok {
			logger.Debug().Str("file", secretFile).Msg("Reusing existing credential")
			return value, SourceExisting, nil
		}
		logger.Warn().Str("file", secretFile).Msg("Existing secret file has no recognizable entry")
	}

	if value := os.Getenv(paths.EnvAPIKey); value != "" {
		return value, SourceEnvironment, nil
	}

	if ctx.Interactive() {
		value, err := ctx.Prompter.ReadSecret("Enter your rig API key: ")
		if err != nil {
			return "", "", err
		}
		return value, SourcePrompt, nil
	}

	return "", "", errors.New(errors.ErrNoCredentialSource,
		"no credential available: no existing secret file, no "+paths.EnvAPIKey+", and no interactive terminal")
}
