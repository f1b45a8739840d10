package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/learnhub-api/internal/models"
	appErrors "github.com/noah-isme/learnhub-api/pkg/errors"
	"github.com/noah-isme/learnhub-api/pkg/storage"
)

type mediaFileStorage interface {
	Save(filename string, data []byte) (string, error)
	SaveStream(filename string, r io.Reader, limit int64) (int64, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
}

type mediaSignedURLSigner interface {
	Generate(mediaID, relPath string) (string, time.Time, error)
	Parse(token string) (mediaID, relPath string, expiresAt time.Time, err error)
}

type imageProcessor interface {
	Process(r io.Reader) ([]byte, error)
}

// Media directories under the storage root.
const (
	MediaDirVideos          = "videos"
	MediaDirVideoThumbnails = "thumbnails/videos"
	MediaDirCourseThumbs    = "thumbnails/courses"
	MediaDirProfilePictures = "profile_pictures"
)

// MediaServiceConfig holds upload limits.
type MediaServiceConfig struct {
	MaxVideoSize int64
	MaxImageSize int64
	AllowedMIMEs []string
}

// MediaStream is an opened media file ready to be served.
type MediaStream struct {
	File      *os.File
	Filename  string
	MimeType  string
	SizeBytes int64
	ModTime   time.Time
	ExpiresAt time.Time
}

// MediaService validates, stores and signs access to uploaded media.
type MediaService struct {
	storage mediaFileStorage
	signer  mediaSignedURLSigner
	images  imageProcessor
	metrics *MetricsService
	links   Links
	logger  *zap.Logger
	cfg     MediaServiceConfig
	mimeSet map[string]struct{}
}

// NewMediaService constructs the service with defaults.
func NewMediaService(store mediaFileStorage, signer mediaSignedURLSigner, images imageProcessor, metrics *MetricsService, links Links, logger *zap.Logger, cfg MediaServiceConfig) *MediaService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxVideoSize <= 0 {
		cfg.MaxVideoSize = 500 * 1024 * 1024
	}
	if cfg.MaxImageSize <= 0 {
		cfg.MaxImageSize = 5 * 1024 * 1024
	}
	if len(cfg.AllowedMIMEs) == 0 {
		cfg.AllowedMIMEs = []string{"video/mp4", "video/webm", "video/ogg", "video/quicktime"}
	}
	mimeSet := make(map[string]struct{}, len(cfg.AllowedMIMEs))
	for _, mt := range cfg.AllowedMIMEs {
		mimeSet[strings.ToLower(mt)] = struct{}{}
	}
	return &MediaService{
		storage: store,
		signer:  signer,
		images:  images,
		metrics: metrics,
		links:   links,
		logger:  logger,
		cfg:     cfg,
		mimeSet: mimeSet,
	}
}

// Limits exposes the accepted video types and size for upload forms.
func (s *MediaService) Limits() ([]string, int64) {
	return append([]string(nil), s.cfg.AllowedMIMEs...), s.cfg.MaxVideoSize
}

// StoreVideo validates type and size then writes the file under the videos directory.
func (s *MediaService) StoreVideo(upload *models.FileUpload) (string, error) {
	if upload == nil || upload.Reader == nil {
		return "", appErrors.Clone(appErrors.ErrValidation, "video file is required")
	}
	if upload.Size > s.cfg.MaxVideoSize {
		s.metrics.MediaUploaded("video", 0, storage.ErrTooLarge)
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("video exceeds %d bytes limit", s.cfg.MaxVideoSize))
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(upload.Reader, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", appErrors.Internal(err, "failed to inspect upload")
	}
	if n == 0 {
		return "", appErrors.Clone(appErrors.ErrValidation, "video file is empty")
	}
	mimeType := detectVideoMIME(head[:n], upload.ContentType)
	if _, ok := s.mimeSet[mimeType]; !ok {
		s.metrics.MediaUploaded("video", 0, errors.New("mime"))
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("video type %s is not allowed", mimeType))
	}

	name := path.Join(MediaDirVideos, uuid.NewString()+videoExtension(upload.Filename, mimeType))
	written, err := s.storage.SaveStream(name, io.MultiReader(bytes.NewReader(head[:n]), upload.Reader), s.cfg.MaxVideoSize)
	s.metrics.MediaUploaded("video", written, err)
	if err != nil {
		if errors.Is(err, storage.ErrTooLarge) {
			return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("video exceeds %d bytes limit", s.cfg.MaxVideoSize))
		}
		return "", appErrors.Internal(err, "failed to store video")
	}
	return name, nil
}

// StoreImage fits the image to the thumbnail width and stores it as JPEG under dir.
func (s *MediaService) StoreImage(dir string, upload *models.FileUpload) (string, error) {
	if upload == nil || upload.Reader == nil {
		return "", nil
	}
	if upload.Size > s.cfg.MaxImageSize {
		s.metrics.MediaUploaded("image", 0, storage.ErrTooLarge)
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("image exceeds %d bytes limit", s.cfg.MaxImageSize))
	}
	data, err := s.images.Process(io.LimitReader(upload.Reader, s.cfg.MaxImageSize+1))
	if err != nil {
		s.metrics.MediaUploaded("image", 0, err)
		if errors.Is(err, storage.ErrNotImage) {
			return "", appErrors.Clone(appErrors.ErrValidation, "upload a valid image")
		}
		if errors.Is(err, storage.ErrImageDimensions) {
			return "", appErrors.Clone(appErrors.ErrValidation, "image dimensions are too large")
		}
		return "", appErrors.Internal(err, "failed to process image")
	}
	name := path.Join(dir, uuid.NewString()+".jpg")
	if _, err := s.storage.Save(name, data); err != nil {
		s.metrics.MediaUploaded("image", 0, err)
		return "", appErrors.Internal(err, "failed to store image")
	}
	s.metrics.MediaUploaded("image", int64(len(data)), nil)
	return name, nil
}

// Remove deletes stored files, logging failures.
func (s *MediaService) Remove(paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := s.storage.Delete(p); err != nil {
			s.logger.Warn("failed to delete media file", zap.String("path", p), zap.Error(err))
		}
	}
}

// StreamURL signs a time-limited URL for the video file.
func (s *MediaService) StreamURL(videoID, relPath string) (string, time.Time, error) {
	token, expiresAt, err := s.signer.Generate(videoID, relPath)
	if err != nil {
		return "", time.Time{}, appErrors.Internal(err, "failed to sign stream url")
	}
	return s.links.Stream(videoID, token), expiresAt, nil
}

// OpenStream validates the token against the video and opens its file.
func (s *MediaService) OpenStream(_ context.Context, video *models.Video, token string) (*MediaStream, error) {
	mediaID, relPath, expiresAt, err := s.signer.Parse(token)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid or expired stream token")
	}
	if mediaID != video.ID || relPath != video.VideoFile {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "stream token does not match video")
	}
	file, err := s.storage.Open(relPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "video file not found")
		}
		return nil, appErrors.Internal(err, "failed to open video file")
	}
	info, err := file.Stat()
	if err != nil {
		file.Close() //nolint:errcheck
		return nil, appErrors.Internal(err, "failed to read video metadata")
	}
	return &MediaStream{
		File:      file,
		Filename:  filepath.Base(relPath),
		MimeType:  mimeFromExtension(relPath),
		SizeBytes: info.Size(),
		ModTime:   info.ModTime(),
		ExpiresAt: expiresAt,
	}, nil
}

func detectVideoMIME(head []byte, declared string) string {
	sniffed := strings.ToLower(strings.TrimSpace(strings.Split(http.DetectContentType(head), ";")[0]))
	switch sniffed {
	case "application/ogg":
		return "video/ogg"
	case "application/octet-stream":
		declared = strings.ToLower(strings.TrimSpace(strings.Split(declared, ";")[0]))
		if declared != "" {
			return declared
		}
	}
	return sniffed
}

func videoExtension(filename, mimeType string) string {
	switch mimeType {
	case "video/mp4":
		return ".mp4"
	case "video/webm":
		return ".webm"
	case "video/ogg":
		return ".ogv"
	case "video/quicktime":
		return ".mov"
	}
	if ext := strings.ToLower(filepath.Ext(filename)); ext != "" {
		return ext
	}
	return ".bin"
}

func mimeFromExtension(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".mp4":
		return "video/mp4"
	case ".webm":
		return "video/webm"
	case ".ogv":
		return "video/ogg"
	case ".mov":
		return "video/quicktime"
	case ".jpg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}
