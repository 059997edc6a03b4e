package acquire

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/sirupsen/logrus"

	"github.com/dankeboy36/ardunno-cli-gen/locator"
	"github.com/dankeboy36/ardunno-cli-gen/release"
)

// statusProtoVersion is the last release known to ship
// google/rpc/status.proto. Later archives omit the google/ subtree, so it
// is overlaid from this release onto every other acquired one, including
// versions newer than it.
const statusProtoVersion = "1.0.4"

// ReleaseAcquirer materializes proto files by downloading and extracting a
// release's proto archive.
type ReleaseAcquirer struct {
	logger       logrus.FieldLogger
	client       *http.Client
	downloadBase string
}

// NewReleaseAcquirer returns a ReleaseAcquirer downloading from the
// canonical GitHub releases of arduino-cli. The transport takes its proxy
// from the environment (https_proxy); redirects are not followed
// automatically because the Location header of the first hop is validated
// explicitly.
func NewReleaseAcquirer(logger logrus.FieldLogger) *ReleaseAcquirer {
	return &ReleaseAcquirer{
		logger:       logger,
		downloadBase: release.DownloadBase,
		client: &http.Client{
			Transport: cleanhttp.DefaultPooledTransport(),
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Acquire downloads the proto archive of the given version, expands it
// into the rpc/ subdirectory of a fresh temporary directory and applies
// the google/ overlay for every version other than statusProtoVersion
// itself.
func (a *ReleaseAcquirer) Acquire(ctx context.Context, v locator.Version) (*Handle, error) {
	art, err := release.ArtifactLocation(v)
	if err != nil {
		return nil, err
	}

	archive, err := a.download(ctx, art.URLUnder(a.downloadBase), v)
	if err != nil {
		return nil, err
	}
	defer func() {
		if rerr := os.Remove(archive); rerr != nil {
			a.logger.WithError(rerr).WithField("path", archive).
				Warn("Could not remove the downloaded archive")
		}
	}()

	handle, err := newHandle(a.logger)
	if err != nil {
		return nil, err
	}
	if err := extractZip(archive, handle.ProtoDir); err != nil {
		handle.Dispose()
		return nil, fmt.Errorf("could not extract %s: %w", art.Filename, err)
	}

	if v.Version.String() != statusProtoVersion {
		if err := a.overlayStatusProto(ctx, handle); err != nil {
			handle.Dispose()
			return nil, err
		}
	}

	return handle, nil
}

// overlayStatusProto acquires the statusProtoVersion archive and copies
// its whole google/ subtree over the target's. The nested handle is
// disposed right after the copy.
func (a *ReleaseAcquirer) overlayStatusProto(ctx context.Context, handle *Handle) error {
	v, ok := locator.ParseVersion(statusProtoVersion)
	if !ok {
		return fmt.Errorf("%q is not a valid semantic version", statusProtoVersion)
	}

	a.logger.WithField("version", statusProtoVersion).
		Debug("Overlaying the google/ subtree from the last release that shipped it")
	patch, err := a.Acquire(ctx, v)
	if err != nil {
		return fmt.Errorf("could not acquire the %s google/ overlay: %w", statusProtoVersion, err)
	}

	err = copyTree(filepath.Join(patch.ProtoDir, "google"), filepath.Join(handle.ProtoDir, "google"))
	patch.Dispose()
	if err != nil {
		return fmt.Errorf("could not apply the %s google/ overlay: %w", statusProtoVersion, err)
	}
	return nil
}

// download performs the two-hop release-asset request: the first hop must
// answer with a redirect to the binary asset, the second hop streams the
// archive into a temporary file whose path is returned.
func (a *ReleaseAcquirer) download(ctx context.Context, url string, v locator.Version) (string, error) {
	a.logger.WithField("url", url).Debug("Requesting release asset")
	res, err := a.get(ctx, url)
	if err != nil {
		return "", err
	}
	defer func() { _ = res.Body.Close() }()

	switch res.StatusCode {
	case http.StatusFound:
	case http.StatusNotFound:
		return "", &NotFoundError{Version: v.Raw}
	default:
		return "", &UnexpectedStatusError{URL: url, Actual: res.StatusCode, Expected: http.StatusFound}
	}

	loc, err := res.Location()
	if err != nil {
		return "", &MissingLocationError{URL: url}
	}

	asset, err := a.get(ctx, loc.String())
	if err != nil {
		return "", err
	}
	defer func() { _ = asset.Body.Close() }()
	if asset.StatusCode != http.StatusOK {
		return "", &UnexpectedStatusError{URL: loc.String(), Actual: asset.StatusCode, Expected: http.StatusOK}
	}

	tmp, err := os.CreateTemp("", "ardunno-cli-gen-*.zip")
	if err != nil {
		return "", err
	}
	_, err = io.Copy(tmp, asset.Body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("could not save the release asset: %w", err)
	}
	return tmp.Name(), nil
}

func (a *ReleaseAcquirer) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	res, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", url, err)
	}
	return res, nil
}
