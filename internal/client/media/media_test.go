package media

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePut struct {
	in   *s3.PutObjectInput
	body []byte
	err  error
}

func (f *fakePut) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	if in.Body != nil {
		f.body, _ = io.ReadAll(in.Body)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestUpload_PublicURL(t *testing.T) {
	api := &fakePut{}
	u := NewS3UploaderWithAPI(api, "greenhub", "eu-west-1", "https://cdn.example.com/")
	u.newKey = func(ext string) string { return "profiles/fixed" + ext }

	path := writeFile(t, "avatar.PNG", "png-bytes")
	url, err := u.Upload(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/profiles/fixed.PNG", url)
	assert.Equal(t, "greenhub", aws.ToString(api.in.Bucket))
	assert.Equal(t, "profiles/fixed.PNG", aws.ToString(api.in.Key))
	assert.Equal(t, "image/png", aws.ToString(api.in.ContentType))
	assert.Equal(t, int64(9), aws.ToInt64(api.in.ContentLength))
	assert.Equal(t, "png-bytes", string(api.body))
}

func TestUpload_VirtualHostedURL(t *testing.T) {
	u := NewS3UploaderWithAPI(&fakePut{}, "greenhub", "eu-west-1", "")
	assert.Equal(t, "https://greenhub.s3.eu-west-1.amazonaws.com/profiles/a.jpg", u.URL("profiles/a.jpg"))
}

func TestUpload_Errors(t *testing.T) {
	api := &fakePut{err: errors.New("access denied")}
	u := NewS3UploaderWithAPI(api, "b", "r", "")

	_, err := u.Upload(context.Background(), filepath.Join(t.TempDir(), "missing.jpg"))
	require.Error(t, err)
	assert.Nil(t, api.in, "nothing is sent for an unreadable file")

	_, err = u.Upload(context.Background(), writeFile(t, "a.jpg", "x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func TestProfileKey(t *testing.T) {
	k1, k2 := ProfileKey(".JPG"), ProfileKey(".JPG")
	assert.True(t, strings.HasPrefix(k1, "profiles/"))
	assert.True(t, strings.HasSuffix(k1, ".jpg"))
	assert.NotEqual(t, k1, k2)
}

func TestNewS3Uploader(t *testing.T) {
	u, err := NewS3Uploader(context.Background(), Config{})
	require.NoError(t, err)
	assert.Nil(t, u)

	u, err = NewS3Uploader(context.Background(), Config{
		Bucket:    "greenhub",
		Endpoint:  "http://127.0.0.1:9000/",
		AccessKey: "minio",
		SecretKey: "minio123",
	})
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "us-east-1", u.region)
	assert.Equal(t, "http://127.0.0.1:9000/greenhub/profiles/x.png", u.URL("profiles/x.png"))
}

func TestNewS3Uploader_ConfigError(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })
	loadDefaultAWSConfig = func(context.Context, ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("boom")
	}

	_, err := NewS3Uploader(context.Background(), Config{Bucket: "b"})
	require.Error(t, err)
}

func TestIsLocalFile(t *testing.T) {
	p := writeFile(t, "a.jpg", "x")
	assert.True(t, IsLocalFile(p))
	assert.False(t, IsLocalFile(""))
	assert.False(t, IsLocalFile("https://cdn.example.com/a.jpg"))
	assert.False(t, IsLocalFile(filepath.Dir(p)))
	assert.False(t, IsLocalFile(filepath.Join(filepath.Dir(p), "nope.jpg")))
}
