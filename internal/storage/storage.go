// Package storage mirrors files into a private root and a public web root so
// generated documents can be served directly under /storage.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"regexp"
	"strings"
	"time"

	"bookingdesk/internal/shared/apperror"
	"bookingdesk/internal/shared/config"
	"bookingdesk/pkg/logger"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

var (
	ErrFileNotFound = fmt.Errorf("file %w", apperror.ErrNotFound)
	ErrInvalidPath  = fmt.Errorf("%w: invalid storage path", apperror.ErrValidation)
)

const (
	rootPrivate = "private"
	rootPublic  = "public"
)

// PartialWriteError reports a put that reached one root but not the other
type PartialWriteError struct {
	Path      string
	Written   string
	Failed    string
	Err       error
	CleanedUp bool
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("partial write of %s: %s root failed: %v (cleanup of %s copy ok=%t)",
		e.Path, e.Failed, e.Err, e.Written, e.CleanedUp)
}

func (e *PartialWriteError) Unwrap() error { return e.Err }

func (e *PartialWriteError) Is(target error) bool { return target == apperror.ErrPartialWrite }

// Presence reports which roots hold a file
type Presence struct {
	Private bool `json:"private"`
	Public  bool `json:"public"`
}

// DualStorage writes every file to both roots
type DualStorage struct {
	private afero.Fs
	public  afero.Fs
	baseURL string
	now     func() time.Time
	log     *logger.Logger
}

// New builds a DualStorage over two filesystems
func New(private, public afero.Fs, baseURL string, log *logger.Logger) *DualStorage {
	return &DualStorage{
		private: private,
		public:  public,
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
		log:     logger.OrDefault(log).WithComponent("storage"),
	}
}

// NewOS builds a DualStorage rooted at two directories on disk
func NewOS(privateRoot, publicRoot, baseURL string, log *logger.Logger) (*DualStorage, error) {
	osFs := afero.NewOsFs()
	for _, root := range []string{privateRoot, publicRoot} {
		if err := osFs.MkdirAll(root, 0o755); err != nil {
			return nil, fmt.Errorf("create storage root %s: %w", root, err)
		}
	}
	return New(
		afero.NewBasePathFs(osFs, privateRoot),
		afero.NewBasePathFs(osFs, publicRoot),
		baseURL, log,
	), nil
}

// FromConfig builds the on-disk storage the binaries share. URL adds the
// "/storage" segment, so the base is the bare application URL.
func FromConfig(cfg *config.Config, log *logger.Logger) (*DualStorage, error) {
	return NewOS(cfg.Storage.PrivateRoot, cfg.Storage.PublicRoot, cfg.AppURL, log)
}

// WithClock overrides the clock used for copy suffixes
func (s *DualStorage) WithClock(now func() time.Time) *DualStorage {
	s.now = now
	return s
}

// Put writes data to both roots and returns the cleaned relative path
func (s *DualStorage) Put(p string, data []byte) (string, error) {
	rel, err := cleanPath(p)
	if err != nil {
		return "", err
	}

	if err := writeFile(s.private, rel, data); err != nil {
		return "", fmt.Errorf("write %s to private root: %w", rel, err)
	}

	if err := writeFile(s.public, rel, data); err != nil {
		pwErr := &PartialWriteError{Path: rel, Written: rootPrivate, Failed: rootPublic, Err: err}
		if rmErr := s.private.Remove(rel); rmErr == nil || os.IsNotExist(rmErr) {
			pwErr.CleanedUp = true
		}
		s.log.Error("dual storage partial write",
			"path", rel, "failed_root", rootPublic, "cleaned_up", pwErr.CleanedUp, "error", err.Error())
		return "", pwErr
	}

	return rel, nil
}

// Get reads a file, preferring the private root
func (s *DualStorage) Get(p string) ([]byte, error) {
	rel, err := cleanPath(p)
	if err != nil {
		return nil, err
	}
	for _, fs := range []afero.Fs{s.private, s.public} {
		data, err := afero.ReadFile(fs, rel)
		if err == nil {
			return data, nil
		}
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read %s: %w", rel, err)
		}
	}
	return nil, fmt.Errorf("%s: %w", rel, ErrFileNotFound)
}

// Delete removes a file from both roots. It returns true when at least one copy was removed.
func (s *DualStorage) Delete(p string) bool {
	rel, err := cleanPath(p)
	if err != nil {
		return false
	}

	removed := 0
	for name, fs := range map[string]afero.Fs{rootPrivate: s.private, rootPublic: s.public} {
		ok, _ := afero.Exists(fs, rel)
		if !ok {
			continue
		}
		if err := fs.Remove(rel); err != nil {
			s.log.Warn("storage delete failed", "path", rel, "root", name, "error", err.Error())
			continue
		}
		removed++
	}

	if removed == 0 {
		s.log.Warn("storage delete: file missing in both roots", "path", rel)
	}
	return removed > 0
}

// Exists is true only when the file is present in both roots
func (s *DualStorage) Exists(p string) bool {
	pr := s.Presence(p)
	return pr.Private && pr.Public
}

// Presence reports each root separately
func (s *DualStorage) Presence(p string) Presence {
	rel, err := cleanPath(p)
	if err != nil {
		return Presence{}
	}
	priv, _ := afero.Exists(s.private, rel)
	pub, _ := afero.Exists(s.public, rel)
	return Presence{Private: priv, Public: pub}
}

// URL returns the public URL of a stored file
func (s *DualStorage) URL(p string) string {
	rel, err := cleanPath(p)
	if err != nil {
		rel = strings.TrimLeft(p, "/")
	}
	return s.baseURL + "/storage/" + rel
}

// Copy duplicates source into destDir under a timestamp-suffixed name.
// A missing source is returned unchanged and nothing is written.
func (s *DualStorage) Copy(source, destDir string) (string, error) {
	data, err := s.Get(source)
	if err != nil {
		if errors.Is(err, ErrFileNotFound) {
			return source, nil
		}
		return "", err
	}

	base := path.Base(source)
	ext := path.Ext(base)
	name := strings.TrimSuffix(base, ext) + "_" + s.now().Format("20060102150405") + ext

	return s.Put(path.Join(destDir, name), data)
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Upload stores an uploaded file under dir with a unique, sanitized name
func (s *DualStorage) Upload(ctx context.Context, dir, filename string, r io.Reader, maxSize int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	reader := r
	if maxSize > 0 {
		reader = io.LimitReader(r, maxSize+1)
	}
	n, err := buf.ReadFrom(reader)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if maxSize > 0 && n > maxSize {
		return "", fmt.Errorf("%w: upload exceeds %d bytes", apperror.ErrValidation, maxSize)
	}

	clean := unsafeName.ReplaceAllString(path.Base(strings.ReplaceAll(filename, "\\", "/")), "_")
	if clean == "" || clean == "." || clean == "_" {
		clean = "file"
	}
	name := uuid.NewString()[:8] + "-" + clean

	return s.Put(path.Join(dir, name), buf.Bytes())
}

func writeFile(fs afero.Fs, rel string, data []byte) error {
	if dir := path.Dir(rel); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return afero.WriteFile(fs, rel, data, 0o644)
}

func cleanPath(p string) (string, error) {
	p = strings.TrimSpace(strings.ReplaceAll(p, "\\", "/"))
	if p == "" || strings.HasPrefix(p, "/") {
		return "", ErrInvalidPath
	}
	cleaned := path.Clean(p)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidPath
	}
	return cleaned, nil
}
