package utils

import (
	"bytes"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
)

// Storage uploads item images to an S3-compatible object store and
// returns their public URIs.
type Storage struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

func (s *Storage) client() *s3.S3 {
	sess := session.Must(session.NewSession(&aws.Config{
		Region:      aws.String(s.Region),
		Endpoint:    aws.String(s.Endpoint),
		Credentials: credentials.NewStaticCredentials(s.AccessKey, s.SecretKey, ""),
	}))
	return s3.New(sess)
}

// UploadItemImage stores an image under items/ and returns its URL.
func (s *Storage) UploadItemImage(file []byte, contentType string) (string, error) {
	key := fmt.Sprintf("items/%s", uuid.NewString())
	if contentType == "" {
		contentType = "image/jpeg"
	}

	_, err := s.client().PutObject(&s3.PutObjectInput{
		Bucket:        aws.String(s.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(file),
		ContentLength: aws.Int64(int64(len(file))),
		ContentType:   aws.String(contentType),
		ACL:           aws.String("public-read"),
	})
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	return fmt.Sprintf("%s/%s/%s", s.Endpoint, s.Bucket, key), nil
}

// DeleteItemImage removes a previously uploaded object by key.
func (s *Storage) DeleteItemImage(key string) error {
	_, err := s.client().DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	return nil
}
