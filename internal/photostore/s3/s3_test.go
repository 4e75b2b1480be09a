package s3

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azzam2912/xseon-real/internal/domain"
)

type stubPutObject struct {
	inputs []*s3.PutObjectInput
	bodies [][]byte
	err    error
}

func (s *stubPutObject) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if s.err != nil {
		return nil, s.err
	}
	body, _ := io.ReadAll(in.Body)
	s.inputs = append(s.inputs, in)
	s.bodies = append(s.bodies, body)
	return &s3.PutObjectOutput{}, nil
}

func TestSinkUpload(t *testing.T) {
	client := &stubPutObject{}
	sink := newSink(client, Config{Bucket: "things", Region: "ap-southeast-1", KeyPrefix: "/prod/"})

	url, err := sink.Upload(context.Background(), domain.KindObject, "12345", "drill.jpg", "image/jpeg", []byte("jpeg"))
	require.NoError(t, err)

	require.Len(t, client.inputs, 1)
	in := client.inputs[0]
	assert.Equal(t, "things", aws.ToString(in.Bucket))
	assert.True(t, strings.HasPrefix(aws.ToString(in.Key), "prod/objects/12345/"), aws.ToString(in.Key))
	assert.Equal(t, "image/jpeg", aws.ToString(in.ContentType))
	assert.Equal(t, []byte("jpeg"), client.bodies[0])
	assert.Equal(t, "https://things.s3.ap-southeast-1.amazonaws.com/"+aws.ToString(in.Key), url)
}

func TestSinkUploadCustomEndpoint(t *testing.T) {
	client := &stubPutObject{}
	sink := newSink(client, Config{Bucket: "things", Endpoint: "http://minio:9000/", UsePathStyle: true})

	url, err := sink.Upload(context.Background(), domain.KindPlace, "40000", "", "", []byte("x"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://minio:9000/things/places/40000/"), url)
	assert.Equal(t, "application/octet-stream", aws.ToString(client.inputs[0].ContentType))
}

func TestSinkUploadPublicBaseURL(t *testing.T) {
	sink := newSink(&stubPutObject{}, Config{Bucket: "things", PublicBaseURL: "https://cdn.example.com/"})

	url, err := sink.Upload(context.Background(), domain.KindObject, "12345", "a.png", "image/png", []byte("x"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://cdn.example.com/objects/12345/"), url)
}

func TestSinkUploadFailure(t *testing.T) {
	sink := newSink(&stubPutObject{err: errors.New("connection refused")}, Config{Bucket: "things"})

	_, err := sink.Upload(context.Background(), domain.KindObject, "12345", "a.png", "image/png", []byte("x"))
	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)
}

func TestSinkRejectsEmptyPayload(t *testing.T) {
	client := &stubPutObject{}
	sink := newSink(client, Config{Bucket: "things"})

	_, err := sink.Upload(context.Background(), domain.KindObject, "12345", "a.png", "image/png", nil)
	assert.ErrorIs(t, err, domain.ErrEmptyPayload)
	assert.Empty(t, client.inputs)
}

func TestNewRequiresBucket(t *testing.T) {
	_, err := New(context.Background(), Config{})
	assert.Error(t, err)
}
