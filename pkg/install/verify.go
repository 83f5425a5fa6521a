package install

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"time"

	"github.com/rigtools/rigup/pkg/config"
	"github.com/rigtools/rigup/pkg/errors"
	"github.com/rigtools/rigup/pkg/fsutil"
	"github.com/rigtools/rigup/pkg/logging"
	"github.com/rigtools/rigup/pkg/secret"
)

// ProbeTimeout bounds the single connectivity probe
const ProbeTimeout = 5 * time.Second

// Probe outcomes. All are advisory; none changes the exit code.
const (
	ProbeSkipped    = "skipped"
	ProbeHealthy    = "healthy"
	ProbeCredential = "credential-problem"
	ProbeOffline    = "offline"
	ProbeUnexpected = "unexpected-response"
)

// VerifyResult reports the read-only post-install checks
type VerifyResult struct {
	Warnings    []string
	Probe       string
	BinaryFound bool
	BinaryPath  string
}

// Verify checks the installed state. Missing required files are fatal;
// everything else, permission drift included, is a warning.
func Verify(ctx *Context) (*VerifyResult, error) {
	logger := logging.GetLogger("install.verify")
	res := &VerifyResult{Probe: ProbeSkipped}

	configFile := ctx.Paths.ConfigFile()
	secretFile := ctx.Paths.SecretFile()
	for _, f := range []string{configFile, secretFile} {
		if !fsutil.FileExists(f) {
			return nil, errors.Newf(errors.ErrMissingArtifact, "required file %q is missing", f)
		}
	}

	for _, f := range []string{configFile, secretFile} {
		info, err := os.Stat(f)
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("cannot stat %s: %v", f, err))
			continue
		}
		if perm := info.Mode().Perm(); perm != fsutil.FileMode {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("%s has mode %04o, expected %04o", f, perm, fsutil.FileMode))
		}
	}

	res.Probe = probeProvider(ctx, secretFile)
	logger.Info().Str("outcome", res.Probe).Msg("Connectivity probe")
	if res.Probe == ProbeCredential {
		res.Warnings = append(res.Warnings, "provider rejected the credential (HTTP 401)")
	} else if res.Probe == ProbeUnexpected {
		res.Warnings = append(res.Warnings, "provider returned an unexpected response")
	}

	if path, err := exec.LookPath("rig"); err == nil {
		res.BinaryFound = true
		res.BinaryPath = path
	}

	return res, nil
}

// probeProvider issues one bounded GET against the provider API. It
// needs an HTTP port and an extractable credential; lacking either, it
// is skipped.
func probeProvider(ctx *Context, secretFile string) string {
	if ctx.HTTP == nil {
		return ProbeSkipped
	}

	content, err := fsutil.ReadFileString(secretFile)
	if err != nil {
		return ProbeSkipped
	}
	value, ok := secret.ParseFile(content)
	if !ok {
		return ProbeSkipped
	}

	baseURL := config.DefaultBaseURL
	if data, err := os.ReadFile(ctx.Paths.ConfigFile()); err == nil {
		if settings, err := config.Parse(data); err == nil {
			if p, ok := settings.Provider.Providers[settings.Provider.Default]; ok && p.BaseURL != "" {
				baseURL = p.BaseURL
			}
		}
	}

	reqCtx, cancel := context.WithTimeout(context.Background(), ProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, baseURL+"/models", nil)
	if err != nil {
		return ProbeSkipped
	}
	req.Header.Set("Authorization", "Bearer "+value)

	resp, err := ctx.HTTP.Do(req)
	if err != nil {
		return ProbeOffline
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		return ProbeHealthy
	case http.StatusUnauthorized:
		return ProbeCredential
	default:
		return ProbeUnexpected
	}
}
