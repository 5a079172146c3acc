package gitexec

import (
	"bytes"
	"context"
	"os/exec"
	"regexp"
	"strings"

	"github.com/maxbolgarin/errm"
)

// Runner abstracts executing git commands.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

// ExecRunner executes the configured git binary.
type ExecRunner struct {
	GitBin string
}

func NewExecRunner(gitBin string) *ExecRunner {
	if strings.TrimSpace(gitBin) == "" {
		gitBin = defaultGitBin
	}
	return &ExecRunner{GitBin: gitBin}
}

func (e *ExecRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, e.GitBin, args...)
	if strings.TrimSpace(dir) != "" {
		cmd.Dir = dir
	}

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", errm.Errorf("git %s: %s", sanitizeArgs(args), redactTokens(msg))
	}

	return out.String(), nil
}

var (
	safeArgRegex   = regexp.MustCompile(`^[a-z][a-z-]*$`)
	credsURLRegex  = regexp.MustCompile(`https?://[^\s@]+@`)
	secretArgRegex = regexp.MustCompile(`(?i)(token|secret|password|passwd|bearer)=[^\s]+`)
)

// sanitizeArgs keeps at most two leading subcommand tokens so paths and urls never leak into errors.
func sanitizeArgs(args []string) string {
	safe := make([]string, 0, 2)
	for _, a := range args {
		if !safeArgRegex.MatchString(a) {
			break
		}
		safe = append(safe, a)
		if len(safe) == 2 {
			break
		}
	}
	if len(safe) == 0 {
		return "<redacted>"
	}
	return strings.Join(safe, " ")
}

func redactTokens(s string) string {
	s = credsURLRegex.ReplaceAllString(s, "https://<redacted>@")
	return secretArgRegex.ReplaceAllString(s, "$1=<redacted>")
}
