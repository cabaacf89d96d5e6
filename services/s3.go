package services

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// AWSServiceProvider hands out presigned URLs for garment photos. Clients
// upload straight to the bucket with a presigned PUT; the API never touches
// image bytes itself.
type AWSServiceProvider interface {
	InitPresignClient(ctx context.Context) error
	PresignUploadURL(ctx context.Context, bucketName string, objectKey string) (string, error)
	PresignReadURL(ctx context.Context, bucketName string, objectKey string) (string, error)
}

type AWSService struct {
	S3PresignClient *s3.PresignClient
}

func (awsService *AWSService) InitPresignClient(ctx context.Context) error {
	var accountId = GetEnv("R2_ACCOUNT_ID", "")
	var accessKeyId = GetEnv("R2_ACCESS_KEY_ID", "")
	var accessKeySecret = GetEnv("R2_ACCESS_KEY_SECRET", "")
	r2Resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountId),
		}, nil
	})
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithEndpointResolverWithOptions(r2Resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKeyId, accessKeySecret, "")),
	)
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	s3Client := s3.NewFromConfig(cfg)

	awsService.S3PresignClient = s3.NewPresignClient(s3Client)
	return err
}

// PresignUploadURL signs a PUT for a new garment photo object key.
func (awsService *AWSService) PresignUploadURL(ctx context.Context, bucketName string, objectKey string) (string, error) {
	request, err := awsService.S3PresignClient.PresignPutObject(context.TODO(), &s3.PutObjectInput{Bucket: &bucketName, Key: &objectKey})
	if err != nil {
		return "", err
	}
	return request.URL, nil
}

// PresignReadURL signs a GET so clients can render wardrobe photos without
// the bucket being public. Pair with URLCacheService to avoid re-signing
// every list call.
func (awsService *AWSService) PresignReadURL(ctx context.Context, bucketName, objectKey string) (string, error) {
	presignedGetRequest, err := awsService.S3PresignClient.PresignGetObject(context.TODO(), &s3.GetObjectInput{
		Bucket: aws.String(bucketName),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return "", fmt.Errorf("failed to presign request: %v", err)
	}
	return presignedGetRequest.URL, nil
}
