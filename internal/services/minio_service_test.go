package services

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// fakeS3 records the requests minio-go sends and answers them with minimal
// S3 responses.
type fakeS3 struct {
	mu       sync.Mutex
	requests []string
	bodies   map[string][]byte
	buckets  map[string]bool
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)

	parts := strings.SplitN(strings.Trim(r.URL.Path, "/"), "/", 2)
	bucket := parts[0]
	switch {
	case r.Method == http.MethodHead && len(parts) == 1:
		if !f.buckets[bucket] {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPut && len(parts) == 1:
		f.buckets[bucket] = true
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.bodies[r.URL.Path] = body
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusNotImplemented)
	}
}

type MinioServiceTestSuite struct {
	suite.Suite
	fake    *fakeS3
	server  *httptest.Server
	service MinioService
}

func (suite *MinioServiceTestSuite) SetupTest() {
	suite.fake = &fakeS3{bodies: map[string][]byte{}, buckets: map[string]bool{}}
	suite.server = httptest.NewServer(suite.fake)

	service, err := NewMinioService(strings.TrimPrefix(suite.server.URL, "http://"), "access", "secret", "us-east-1", false)
	require.NoError(suite.T(), err)
	suite.service = service
}

func (suite *MinioServiceTestSuite) TearDownTest() {
	suite.server.Close()
}

func TestMinioServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MinioServiceTestSuite))
}

func (suite *MinioServiceTestSuite) TestEnsureBucketExists_CreatesMissingBucket() {
	err := suite.service.EnsureBucketExists(context.Background(), "reports")
	assert.NoError(suite.T(), err)
	require.Len(suite.T(), suite.fake.requests, 2)
	assert.True(suite.T(), strings.HasPrefix(suite.fake.requests[0], "HEAD /reports"))
	assert.True(suite.T(), strings.HasPrefix(suite.fake.requests[1], "PUT /reports"))
	assert.True(suite.T(), suite.fake.buckets["reports"])
}

func (suite *MinioServiceTestSuite) TestEnsureBucketExists_ExistingBucket() {
	suite.fake.buckets["reports"] = true

	err := suite.service.EnsureBucketExists(context.Background(), "reports")
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), suite.fake.requests, 1)
}

func (suite *MinioServiceTestSuite) TestBucketExists() {
	found, err := suite.service.BucketExists(context.Background(), "reports")
	require.NoError(suite.T(), err)
	assert.False(suite.T(), found)

	suite.fake.buckets["reports"] = true
	found, err = suite.service.BucketExists(context.Background(), "reports")
	require.NoError(suite.T(), err)
	assert.True(suite.T(), found)
	assert.False(suite.T(), suite.fake.buckets["archive"])
}

func (suite *MinioServiceTestSuite) TestUpload_Success() {
	data := []byte("PK\x03\x04 workbook")

	err := suite.service.Upload(context.Background(), "reports", "2025/03/assets_1.xlsx", bytes.NewReader(data), int64(len(data)), "application/octet-stream")
	assert.NoError(suite.T(), err)
	// unsigned transports send the payload aws-chunked
	assert.Contains(suite.T(), string(suite.fake.bodies["/reports/2025/03/assets_1.xlsx"]), string(data))
}

func (suite *MinioServiceTestSuite) TestGetPresignedURL() {
	url, err := suite.service.GetPresignedURL(context.Background(), "reports", "2025/03/assets_1.xlsx", 15*time.Minute)
	assert.NoError(suite.T(), err)
	assert.Contains(suite.T(), url, "/reports/2025/03/assets_1.xlsx")
	assert.Contains(suite.T(), url, "X-Amz-Expires=900")
	assert.Empty(suite.T(), suite.fake.requests)
}
