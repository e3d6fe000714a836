package response

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Brownie44l1/http-files/internal/headers"
)

func TestWriterStatusLine(t *testing.T) {
	// Test: 200 OK
	buf := &bytes.Buffer{}
	w := NewWriter(buf)
	err := w.WriteStatusLine(StatusOK, "")
	require.NoError(t, err)
	assert.Equal(t, "HTTP/1.1 200 OK\r\n", buf.String())

	// Test: 404 Not Found
	buf = &bytes.Buffer{}
	w = NewWriter(buf)
	err = w.WriteStatusLine(StatusNotFound, "")
	require.NoError(t, err)
	assert.Equal(t, "HTTP/1.1 404 Not Found\r\n", buf.String())

	// Test: 500 Internal Server Error
	buf = &bytes.Buffer{}
	w = NewWriter(buf)
	err = w.WriteStatusLine(StatusInternalServerError, "")
	require.NoError(t, err)
	assert.Equal(t, "HTTP/1.1 500 Internal Server Error\r\n", buf.String())
	assert.Equal(t, StatusInternalServerError, w.StatusCode())

	// Test: Custom reason phrase wins
	buf = &bytes.Buffer{}
	w = NewWriter(buf)
	err = w.WriteStatusLine(StatusOK, "Fine")
	require.NoError(t, err)
	assert.Equal(t, "HTTP/1.1 200 Fine\r\n", buf.String())
}

func TestWriterHeadersInOrder(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewWriter(buf)

	require.NoError(t, w.WriteStatusLine(StatusOK, ""))

	h := headers.NewHeaders()
	h.Set("Content-Type", "text/plain")
	h.Set("Content-Length", "100")
	require.NoError(t, w.WriteHeaders(h))

	assert.Equal(t, "HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\nContent-Length: 100\r\n\r\n", buf.String())
}

func TestWriterStateValidation(t *testing.T) {
	// Test: Cannot write headers before status
	w := NewWriter(&bytes.Buffer{})
	err := w.WriteHeaders(headers.NewHeaders())
	assert.Error(t, err)

	// Test: Cannot write body before headers
	w = NewWriter(&bytes.Buffer{})
	require.NoError(t, w.WriteStatusLine(StatusOK, ""))
	err = w.WriteBody([]byte("test"))
	assert.Error(t, err)

	// Test: Cannot write status line twice
	w = NewWriter(&bytes.Buffer{})
	require.NoError(t, w.WriteStatusLine(StatusOK, ""))
	err = w.WriteStatusLine(StatusOK, "")
	assert.Error(t, err)
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestWriterRecordsErrors(t *testing.T) {
	w := NewWriter(failingWriter{})
	err := w.WriteStatusLine(StatusOK, "")

	require.Error(t, err)
	assert.True(t, w.HadError())
	assert.Equal(t, int64(0), w.Written())
}

func TestSerializeEmptyOK(t *testing.T) {
	assert.Equal(t, "HTTP/1.1 200 OK\r\n\r\n", string(OK().Bytes()))
	assert.Equal(t, "HTTP/1.1 201 Created\r\n\r\n", string(Created().Bytes()))
	assert.Equal(t, "HTTP/1.1 404 Not Found\r\n\r\n", string(NotFound().Bytes()))
	assert.Equal(t, "HTTP/1.1 500 Internal Server Error\r\n\r\n", string(InternalServerError().Bytes()))
}

func TestSerializeText(t *testing.T) {
	got := string(Text(StatusOK, "abc").Bytes())
	assert.Equal(t, "HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\nContent-Length: 3\r\n\r\nabc", got)
}

func TestSerializeOctetStream(t *testing.T) {
	data := []byte{0x00, 0xff, '\r', '\n', 0x7f}
	got := OctetStream(StatusOK, data).Bytes()

	want := append([]byte("HTTP/1.1 200 OK\r\nContent-Type: application/octet-stream\r\nContent-Length: 5\r\n\r\n"), data...)
	assert.Equal(t, want, got)
}

func TestContentTypeWithoutBody(t *testing.T) {
	// An empty text body still announces its type but not a length
	got := string(Text(StatusOK, "").Bytes())
	assert.Equal(t, "HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\n\r\n", got)
}

func TestBodyWithoutContentType(t *testing.T) {
	r := Response{Status: StatusOK, Reason: "OK", Body: []byte("xy")}
	assert.Equal(t, "HTTP/1.1 200 OK\r\nContent-Length: 2\r\n\r\nxy", string(r.Bytes()))
}

var contentLengthRe = regexp.MustCompile(`Content-Length: (\d+)\r\n\r\n`)

func TestContentLengthCountsBytes(t *testing.T) {
	bodies := []string{"abc", "héllo", "日本語", "emoji 🎉🎉", "ñ"}

	for _, body := range bodies {
		raw := Text(StatusOK, body).Bytes()

		m := contentLengthRe.FindSubmatch(raw)
		require.NotNil(t, m, "no Content-Length in %q", raw)
		announced, err := strconv.Atoi(string(m[1]))
		require.NoError(t, err)

		assert.Equal(t, len([]byte(body)), announced, "body %q", body)
		assert.True(t, bytes.HasSuffix(raw, []byte("\r\n\r\n"+body)))
	}

	// "日本語" is 3 characters but 9 bytes
	assert.Contains(t, string(Text(StatusOK, "日本語").Bytes()), "Content-Length: 9\r\n")
}

func TestWriteToReportsBytes(t *testing.T) {
	buf := &bytes.Buffer{}
	r := Text(StatusOK, "hello")
	n, err := r.WriteTo(buf)

	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.Equal(t, r.Bytes(), buf.Bytes())
}

func TestStatusText(t *testing.T) {
	assert.Equal(t, "OK", StatusText(StatusOK))
	assert.Equal(t, "Created", StatusText(StatusCreated))
	assert.Equal(t, "Not Found", StatusText(StatusNotFound))
	assert.Equal(t, "Unknown Status", StatusText(StatusCode(299)))

	assert.True(t, StatusCreated.IsSuccess())
	assert.True(t, StatusNotFound.IsClientError())
	assert.True(t, StatusInternalServerError.IsServerError())
	assert.False(t, StatusOK.IsClientError())
}

func TestContentTypeString(t *testing.T) {
	for ct, want := range map[ContentType]string{
		ContentTypeNone:        "",
		ContentTypeTextPlain:   "text/plain",
		ContentTypeOctetStream: "application/octet-stream",
	} {
		assert.Equal(t, want, ct.String(), fmt.Sprintf("content type %d", ct))
	}
}
