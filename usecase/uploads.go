package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"notekeep/model"
	"notekeep/utils"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

const DefaultMaxUploadBytes = 5 << 20

var (
	ErrMissingFile     = errors.New("no image file provided")
	ErrFileTooLarge    = errors.New("image exceeds the maximum upload size")
	ErrUnsupportedType = errors.New("only JPEG, PNG, GIF and WEBP images are allowed")
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// sniffLen is how much of the file is read to detect its type.
const sniffLen = 3072

type UploadService struct {
	Dir           string
	URLPrefix     string
	PublicBaseURL string
	MaxBytes      int64
	Logger        *zap.Logger

	Now     func() time.Time
	RandInt func() int64
}

func NewUploadService(dir, urlPrefix, publicBaseURL string, maxBytes int64, logger *zap.Logger) *UploadService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &UploadService{
		Dir:           dir,
		URLPrefix:     "/" + strings.Trim(urlPrefix, "/"),
		PublicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		MaxBytes:      maxBytes,
		Logger:        logger,
		Now:           time.Now,
		RandInt:       func() int64 { return rand.Int64N(1e9) },
	}
}

// EnsureDir creates the uploads directory if needed.
func (s *UploadService) EnsureDir() error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("creating uploads dir %s: %w", s.Dir, err)
	}
	return nil
}

// GenerateFilename returns <unix millis>-<random>.<ext>.
func (s *UploadService) GenerateFilename(ext string) string {
	return fmt.Sprintf("%d-%d%s", s.Now().UnixMilli(), s.RandInt(), strings.ToLower(ext))
}

// Save validates an uploaded image and writes it under Dir. requestBaseURL is
// used for the returned URL when no public base URL is configured.
func (s *UploadService) Save(ctx context.Context, header *multipart.FileHeader, requestBaseURL string) (*model.UploadedImage, error) {
	if header == nil {
		utils.TrackUpload("missing_file")
		return nil, ErrMissingFile
	}
	if header.Size > s.MaxBytes {
		utils.TrackUpload("too_large")
		return nil, ErrFileTooLarge
	}

	src, err := header.Open()
	if err != nil {
		utils.TrackUpload("error")
		return nil, fmt.Errorf("opening upload: %w", err)
	}
	defer src.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		utils.TrackUpload("error")
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	head = head[:n]
	if n == 0 {
		utils.TrackUpload("missing_file")
		return nil, ErrMissingFile
	}

	detected := mimetype.Detect(head)
	if !allowedImageTypes[detected.String()] || !declaredTypeAllowed(header.Header.Get("Content-Type")) {
		utils.TrackUpload("unsupported_type")
		return nil, ErrUnsupportedType
	}

	filename := s.GenerateFilename(storedExtension(header.Filename, detected))
	path := filepath.Join(s.Dir, filename)

	written, err := s.write(path, io.MultiReader(bytes.NewReader(head), src))
	if err != nil {
		if errors.Is(err, ErrFileTooLarge) {
			utils.TrackUpload("too_large")
		} else {
			utils.TrackUpload("error")
		}
		return nil, err
	}

	s.Logger.Info("image stored",
		zap.String("filename", filename),
		zap.String("type", detected.String()),
		zap.Int64("bytes", written),
	)
	utils.TrackUpload("stored")

	base := s.PublicBaseURL
	if base == "" {
		base = strings.TrimRight(requestBaseURL, "/")
	}
	return &model.UploadedImage{
		URL:      base + s.URLPrefix + "/" + filename,
		Filename: filename,
		Message:  "Image uploaded successfully",
	}, nil
}

// write creates path exclusively and copies at most MaxBytes into it. A file
// that turns out to be too large, or fails mid-copy, is removed.
func (s *UploadService) write(path string, r io.Reader) (int64, error) {
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return 0, fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}

	written, err := io.Copy(dst, io.LimitReader(r, s.MaxBytes+1))
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err == nil && written > s.MaxBytes {
		err = ErrFileTooLarge
	}
	if err != nil {
		if rerr := os.Remove(path); rerr != nil {
			s.Logger.Warn("failed to remove partial upload", zap.String("path", path), zap.Error(rerr))
		}
		if errors.Is(err, ErrFileTooLarge) {
			return 0, err
		}
		return 0, fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return written, nil
}

// declaredTypeAllowed checks the part's Content-Type. Clients that send no
// type, or a generic binary type, are judged on the sniffed content alone.
func declaredTypeAllowed(contentType string) bool {
	if contentType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	if mediaType == "application/octet-stream" {
		return true
	}
	return allowedImageTypes[mediaType]
}

// storedExtension keeps the client's extension only when it names the
// detected type, so the static route serves the file as that type.
func storedExtension(filename string, detected *mimetype.MIME) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return detected.Extension()
	}
	if ext == detected.Extension() {
		return ext
	}
	known, _ := mime.ExtensionsByType(detected.String())
	if slices.Contains(known, ext) {
		return ext
	}
	return detected.Extension()
}
