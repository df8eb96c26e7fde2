package evaluator

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/google/uuid"
	"github.com/mini-maxit/modelboard/internal/docker"
	"github.com/mini-maxit/modelboard/internal/logger"
	"github.com/mini-maxit/modelboard/pkg/constants"
	pkgerrors "github.com/mini-maxit/modelboard/pkg/errors"
	"github.com/mini-maxit/modelboard/pkg/models"
	"github.com/mini-maxit/modelboard/utils"
	"go.uber.org/zap"
)

//go:embed harness.py
var harnessSource []byte

var containerNameRegex = regexp.MustCompile("[^a-zA-Z0-9_.-]")

type SandboxConfig struct {
	Image       string
	DatasetPath string
	Timeout     time.Duration
}

type harnessResult struct {
	Predictions []interface{} `json:"predictions"`
}

type sandboxEvaluator struct {
	docker docker.DockerClient
	cfg    SandboxConfig
	logger *zap.SugaredLogger
}

// NewSandboxEvaluator runs each submission in a fresh, network-less container. Only the
// feature columns of the held-out dataset are copied in; labels stay on the host.
func NewSandboxEvaluator(dCli docker.DockerClient, cfg SandboxConfig) Evaluator {
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Duration(constants.DefaultEvaluationTimeoutSeconds) * time.Second
	}
	return &sandboxEvaluator{
		docker: dCli,
		cfg:    cfg,
		logger: logger.NewNamedLogger("sandbox-evaluator"),
	}
}

func (s *sandboxEvaluator) Evaluate(ctx context.Context, source string) (models.Metrics, error) {
	runID := uuid.NewString()
	s.logger.Infof("Starting evaluation [RunID: %s]", runID)

	packageDir, err := os.MkdirTemp("", "modelboard-eval-")
	if err != nil {
		return models.Metrics{}, s.internalError(err)
	}
	defer func() {
		if err := utils.RemoveIO(packageDir, true, false); err != nil {
			s.logger.Errorf("[RunID %s] Failed to remove temp directory: %s", runID, err)
		}
	}()

	ds, err := loadDataset(s.cfg.DatasetPath)
	if err != nil {
		return models.Metrics{}, s.internalError(err)
	}

	if err := writePackage(packageDir, source, ds); err != nil {
		return models.Metrics{}, s.internalError(err)
	}

	// Only the harness supervisor sees the token, so the submission cannot forge a result line.
	runToken := uuid.NewString()

	if err := s.docker.EnsureImage(ctx, s.cfg.Image); err != nil {
		return models.Metrics{}, s.internalError(err)
	}

	containerID, err := s.docker.CreateContainer(ctx, buildContainerConfig(s.cfg.Image, runToken),
		buildHostConfig(), SanitizeContainerName(runID))
	if err != nil {
		return models.Metrics{}, s.internalError(err)
	}

	defer func() {
		cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cleanupCancel()
		if err := s.docker.ContainerRemove(cleanupCtx, containerID); err != nil {
			s.logger.Errorf("[RunID %s] Failed to remove container %s: %s", runID, containerID, err)
		}
	}()

	archive, err := utils.CreateTarArchive(packageDir)
	if err != nil {
		return models.Metrics{}, s.internalError(err)
	}
	defer archive.Close()

	if err := s.docker.CopyToContainer(ctx, containerID, "/", archive); err != nil {
		return models.Metrics{}, s.internalError(err)
	}

	if err := s.docker.StartContainer(ctx, containerID); err != nil {
		return models.Metrics{}, s.internalError(err)
	}

	exitCode, err := s.docker.WaitContainer(ctx, containerID, s.cfg.Timeout)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrContainerTimeout) {
			s.logger.Warnf("[RunID %s] Evaluation timed out after %s", runID, s.cfg.Timeout)
			if killErr := s.docker.ContainerKill(ctx, containerID, "SIGKILL"); killErr != nil {
				s.logger.Errorf("[RunID %s] Failed to kill container: %s", runID, killErr)
			}
			return models.Metrics{}, pkgerrors.ErrEvaluationTimeout
		}
		return models.Metrics{}, s.internalError(err)
	}

	stdout, stderr, err := s.docker.ContainerLogs(ctx, containerID, constants.SandboxMaxOutputBytes)
	if err != nil {
		return models.Metrics{}, s.internalError(err)
	}

	if exitCode != constants.ExitCodeSuccess {
		s.logger.Infof("[RunID %s] Harness exited with code %d", runID, exitCode)
		return models.Metrics{}, errorFromExitCode(exitCode, stderr)
	}

	predictions, err := parseHarnessResult(stdout, runToken)
	if err != nil {
		s.logger.Warnf("[RunID %s] %s", runID, err)
		return models.Metrics{}, err
	}

	metrics, err := ComputeMetrics(predictions, ds.labels)
	if err != nil {
		return models.Metrics{}, fmt.Errorf("%w: got %d predictions for %d rows", err, len(predictions), len(ds.labels))
	}

	s.logger.Infof("Finished evaluation [RunID: %s, F1: %.4f]", runID, metrics.F1Score)
	return metrics, nil
}

func (s *sandboxEvaluator) internalError(err error) error {
	s.logger.Errorf("Sandbox failure: %s", err)
	return fmt.Errorf("%w: %w", pkgerrors.ErrEvaluatorUnavailable, err)
}

// writePackage lays out the files copied to the container root.
func writePackage(packageDir, source string, ds *dataset) error {
	workDir := filepath.Join(packageDir, filepath.Base(constants.SandboxWorkDir))
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(workDir, constants.SandboxHarnessFileName), harnessSource, 0o644); err != nil {
		return err
	}
	if err := ds.writeFeatures(filepath.Join(workDir, constants.SandboxFeaturesFileName)); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(workDir, constants.SandboxSourceFileName), []byte(source), 0o644)
}

// parseHarnessResult returns the normalized predictions from the result line tagged
// with runToken. Any other stdout is written by the submission and ignored.
func parseHarnessResult(stdout []byte, runToken string) ([]string, error) {
	prefix := []byte(constants.SandboxResultPrefix + " " + runToken + " ")

	var line []byte
	for _, candidate := range bytes.Split(stdout, []byte("\n")) {
		candidate = bytes.TrimSpace(candidate)
		if bytes.HasPrefix(candidate, prefix) {
			if line != nil {
				return nil, fmt.Errorf("%w: duplicate harness result", pkgerrors.ErrEntryPointFailed)
			}
			line = candidate[len(prefix):]
		}
	}
	if line == nil {
		return nil, fmt.Errorf("%w: harness produced no result", pkgerrors.ErrEntryPointFailed)
	}

	var result harnessResult
	if err := json.Unmarshal(line, &result); err != nil {
		return nil, fmt.Errorf("%w: unreadable harness result", pkgerrors.ErrDatasetMismatch)
	}

	predictions := make([]string, len(result.Predictions))
	for i, p := range result.Predictions {
		predictions[i] = normalizeLabel(p)
	}
	return predictions, nil
}

func errorFromExitCode(exitCode int64, stderr []byte) error {
	var kind error
	switch exitCode {
	case constants.ExitCodeSyntaxError:
		kind = pkgerrors.ErrSourceSyntax
	case constants.ExitCodeMissingEntry:
		kind = pkgerrors.ErrMissingEntryPoint
	case constants.ExitCodeEntryPointFailed:
		kind = pkgerrors.ErrEntryPointFailed
	case constants.ExitCodeNotAClassifier:
		kind = pkgerrors.ErrNotAClassifier
	case constants.ExitCodeDatasetMismatch:
		kind = pkgerrors.ErrDatasetMismatch
	case constants.ExitCodeKilled, constants.ExitCodeTerminated:
		return pkgerrors.ErrEvaluationTimeout
	default:
		return fmt.Errorf("%w: harness exited with code %d", pkgerrors.ErrEntryPointFailed, exitCode)
	}

	detail := lastLine(stderr)
	if detail == "" {
		return kind
	}
	return fmt.Errorf("%w (%s)", kind, detail)
}

func lastLine(output []byte) string {
	lines := bytes.Split(bytes.TrimSpace(output), []byte("\n"))
	return string(bytes.TrimSpace(lines[len(lines)-1]))
}

func SanitizeContainerName(raw string) string {
	cleaned := containerNameRegex.ReplaceAllString(raw, "-")
	if cleaned == "" {
		cleaned = "untitled"
	}
	return "evaluation-" + cleaned
}

func buildContainerConfig(image, runToken string) *container.Config {
	stopTimeout := 2

	return &container.Config{
		Image:       image,
		Cmd:         []string{"python", constants.SandboxHarnessFileName},
		WorkingDir:  constants.SandboxWorkDir,
		User:        constants.RunnerName,
		StopTimeout: &stopTimeout,
		StopSignal:  "SIGKILL",
		Env: []string{
			"PYTHONDONTWRITEBYTECODE=1",
			"PYTHONUNBUFFERED=1",
			constants.SandboxRunTokenEnv + "=" + runToken,
		},
	}
}

func buildHostConfig() *container.HostConfig {
	pidsLimit := int64(constants.SandboxPidsLimit)

	return &container.HostConfig{
		AutoRemove:  false,
		NetworkMode: container.NetworkMode("none"),
		Resources: container.Resources{
			Memory:     constants.SandboxMemoryLimitBytes,
			MemorySwap: constants.SandboxMemoryLimitBytes,
			PidsLimit:  &pidsLimit,
			CPUPeriod:  100_000,
			CPUQuota:   100_000,
		},
		SecurityOpt:  []string{"no-new-privileges"},
		CgroupnsMode: container.CgroupnsModePrivate,
		IpcMode:      container.IpcMode("private"),
		CapDrop:      []string{"ALL"},
	}
}
