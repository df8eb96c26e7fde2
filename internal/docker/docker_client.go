package docker

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"

	"github.com/mini-maxit/modelboard/pkg/errors"
)

type DockerClient interface {
	EnsureImage(ctx context.Context, imageName string) error
	CreateContainer(
		ctx context.Context,
		containerCfg *container.Config,
		hostCfg *container.HostConfig,
		name string,
	) (string, error)
	// CopyToContainer extracts the tar stream content into dstPath inside the container.
	CopyToContainer(ctx context.Context, containerID, dstPath string, content io.Reader) error
	StartContainer(ctx context.Context, containerID string) error
	// WaitContainer returns the exit code, or ErrContainerTimeout when timeout elapses first.
	WaitContainer(ctx context.Context, containerID string, timeout time.Duration) (int64, error)
	// ContainerLogs returns demultiplexed stdout and stderr, each capped at maxBytes.
	ContainerLogs(ctx context.Context, containerID string, maxBytes int64) ([]byte, []byte, error)
	ContainerKill(ctx context.Context, containerID, signal string) error
	ContainerRemove(ctx context.Context, containerID string) error
}

type dockerClient struct {
	cli *client.Client
}

func NewDockerClient() (DockerClient, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, err
	}

	return &dockerClient{cli: cli}, nil
}

func (d *dockerClient) EnsureImage(ctx context.Context, imageName string) error {
	_, err := d.cli.ImageInspect(ctx, imageName)
	if err == nil {
		return nil
	}
	if !client.IsErrNotFound(err) {
		return err
	}

	reader, err := d.cli.ImagePull(ctx, imageName, image.PullOptions{})
	if err != nil {
		return err
	}
	defer reader.Close()
	_, err = io.Copy(io.Discard, reader)
	return err
}

func (d *dockerClient) CreateContainer(
	ctx context.Context,
	containerCfg *container.Config,
	hostCfg *container.HostConfig,
	name string,
) (string, error) {
	resp, err := d.cli.ContainerCreate(ctx, containerCfg, hostCfg, nil, nil, name)
	if err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (d *dockerClient) CopyToContainer(ctx context.Context, containerID, dstPath string, content io.Reader) error {
	return d.cli.CopyToContainer(ctx, containerID, dstPath, content, container.CopyToContainerOptions{})
}

func (d *dockerClient) StartContainer(ctx context.Context, containerID string) error {
	return d.cli.ContainerStart(ctx, containerID, container.StartOptions{})
}

func (d *dockerClient) WaitContainer(ctx context.Context, containerID string, timeout time.Duration) (int64, error) {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	statusCh, errCh := d.cli.ContainerWait(waitCtx, containerID, container.WaitConditionNotRunning)
	select {
	case err := <-errCh:
		if waitCtx.Err() != nil && ctx.Err() == nil {
			return -1, errors.ErrContainerTimeout
		}
		return -1, err
	case status := <-statusCh:
		return status.StatusCode, nil
	case <-waitCtx.Done():
		if ctx.Err() != nil {
			return -1, ctx.Err()
		}
		return -1, errors.ErrContainerTimeout
	}
}

func (d *dockerClient) ContainerLogs(ctx context.Context, containerID string, maxBytes int64) ([]byte, []byte, error) {
	reader, err := d.cli.ContainerLogs(ctx, containerID, container.LogsOptions{ShowStdout: true, ShowStderr: true})
	if err != nil {
		return nil, nil, err
	}
	defer reader.Close()

	var stdout, stderr bytes.Buffer
	if _, err := stdcopy.StdCopy(&stdout, &stderr, io.LimitReader(reader, maxBytes)); err != nil {
		return nil, nil, err
	}
	return stdout.Bytes(), stderr.Bytes(), nil
}

func (d *dockerClient) ContainerKill(ctx context.Context, containerID, signal string) error {
	return d.cli.ContainerKill(ctx, containerID, signal)
}

func (d *dockerClient) ContainerRemove(ctx context.Context, containerID string) error {
	return d.cli.ContainerRemove(ctx, containerID, container.RemoveOptions{Force: true})
}
