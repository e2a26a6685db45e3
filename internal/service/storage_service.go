package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"

	"mock_interview_backend/internal/config"
	"mock_interview_backend/internal/model"
	"mock_interview_backend/internal/util"
	"mock_interview_backend/pkg/logger"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// StorageProvider 对象存储接口
type StorageProvider interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	GetURL(key string) string
}

// LocalStorageProvider 本地磁盘，经 /uploads 静态路由访问
type LocalStorageProvider struct {
	Root string
}

func (p *LocalStorageProvider) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	dst := filepath.Join(p.Root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", err
	}

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, reader); err != nil {
		os.Remove(dst)
		return "", err
	}
	return p.GetURL(key), nil
}

func (p *LocalStorageProvider) Delete(ctx context.Context, key string) error {
	return os.Remove(filepath.Join(p.Root, filepath.FromSlash(key)))
}

func (p *LocalStorageProvider) GetURL(key string) string {
	return "/uploads/" + key
}

type MinioStorageProvider struct {
	Bucket string
	Client *minio.Client
}

func NewMinioStorageProvider(cfg *config.StorageConfig) (*MinioStorageProvider, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: false,
	})
	if err != nil {
		return nil, err
	}
	return &MinioStorageProvider{Bucket: cfg.MinioBucket, Client: client}, nil
}

func (p *MinioStorageProvider) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := p.Client.PutObject(ctx, p.Bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return p.GetURL(key), nil
}

func (p *MinioStorageProvider) Delete(ctx context.Context, key string) error {
	return p.Client.RemoveObject(ctx, p.Bucket, key, minio.RemoveObjectOptions{})
}

func (p *MinioStorageProvider) GetURL(key string) string {
	return "/" + p.Bucket + "/" + key
}

// OSSStorageProvider 阿里云 OSS
type OSSStorageProvider struct {
	Endpoint string
	Bucket   *oss.Bucket
}

func NewOSSStorageProvider(cfg *config.StorageConfig) (*OSSStorageProvider, error) {
	client, err := oss.New(cfg.OSSEndpoint, cfg.OSSAccessKey, cfg.OSSSecretKey)
	if err != nil {
		return nil, err
	}
	bucket, err := client.Bucket(cfg.OSSBucket)
	if err != nil {
		return nil, err
	}
	return &OSSStorageProvider{Endpoint: cfg.OSSEndpoint, Bucket: bucket}, nil
}

func (p *OSSStorageProvider) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	if err := p.Bucket.PutObject(key, reader, oss.ContentType(contentType), oss.WithContext(ctx)); err != nil {
		return "", err
	}
	return p.GetURL(key), nil
}

func (p *OSSStorageProvider) Delete(ctx context.Context, key string) error {
	return p.Bucket.DeleteObject(key, oss.WithContext(ctx))
}

func (p *OSSStorageProvider) GetURL(key string) string {
	return fmt.Sprintf("https://%s.%s/%s", p.Bucket.BucketName, p.Endpoint, key)
}

type StorageService struct {
	Provider StorageProvider
}

func NewStorageService(cfg *config.Config) *StorageService {
	var (
		provider StorageProvider
		err      error
	)
	switch cfg.Storage.Type {
	case util.StorageMinio:
		provider, err = NewMinioStorageProvider(&cfg.Storage)
	case util.StorageOSS:
		provider, err = NewOSSStorageProvider(&cfg.Storage)
	}
	if err != nil {
		logger.Log.Warn("Object storage unavailable, falling back to local disk",
			zap.String("type", cfg.Storage.Type), zap.Error(err))
		provider = nil
	}

	if provider == nil {
		provider = &LocalStorageProvider{Root: cfg.Storage.LocalPath}
	}

	return &StorageService{Provider: provider}
}

// ValidateResume 只校验大小与类型，不上传
func (s *StorageService) ValidateResume(fh *multipart.FileHeader) error {
	_, err := checkResume(fh)
	return err
}

func checkResume(fh *multipart.FileHeader) (string, error) {
	if fh.Size > util.MaxResumeSize {
		return "", fmt.Errorf("%w: %d bytes (max %d)", util.ErrFileTooLarge, fh.Size, util.MaxResumeSize)
	}

	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	return util.ValidateMimeType(f, []string{util.MimePDF})
}

// SaveResume 校验大小与类型后上传简历 PDF，返回存入 fileData 的元数据
func (s *StorageService) SaveResume(ctx context.Context, fh *multipart.FileHeader) (*model.ResumeFile, error) {
	mimeType, err := checkResume(fh)
	if err != nil {
		return nil, err
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	key := path.Join(util.ResumeFolder, model.GenerateUUID()+".pdf")
	url, err := s.Provider.Upload(ctx, key, f, fh.Size, mimeType)
	if err != nil {
		return nil, fmt.Errorf("upload resume: %w", err)
	}

	return &model.ResumeFile{
		FileName: filepath.Base(fh.Filename),
		FileType: mimeType,
		FileSize: fh.Size,
		URL:      url,
		Key:      key,
	}, nil
}

// DeleteResume 删除已上传的简历，失败只记录日志
func (s *StorageService) DeleteResume(ctx context.Context, resume *model.ResumeFile) {
	if resume == nil || resume.Key == "" {
		return
	}
	if err := s.Provider.Delete(ctx, resume.Key); err != nil {
		logger.Log.Warn("Failed to delete orphaned resume", zap.String("key", resume.Key), zap.Error(err))
	}
}
