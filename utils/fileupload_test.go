package utils

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestFileHeader creates a multipart.FileHeader for testing
func createTestFileHeader(filename string, size int64, content []byte) *multipart.FileHeader {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", "application/octet-stream")
	part, _ := writer.CreatePart(h)
	part.Write(content)
	writer.Close()

	reader := multipart.NewReader(body, writer.Boundary())
	form, _ := reader.ReadForm(int64(len(content)) + 1024)

	if len(form.File["file"]) > 0 {
		fileHeader := form.File["file"][0]
		// Override size for testing purposes
		fileHeader.Size = size
		return fileHeader
	}

	return nil
}

func TestValidateImageFile_AcceptedFormats(t *testing.T) {
	for _, filename := range []string{"shirt.png", "stain.jpg", "duvet.jpeg", "COLLAR.PNG", "Cuff.JPG"} {
		t.Run(filename, func(t *testing.T) {
			content := []byte("fake image content")
			fileHeader := createTestFileHeader(filename, int64(len(content)), content)
			require.NotNil(t, fileHeader)

			assert.NoError(t, ValidateImageFile(fileHeader))
		})
	}
}

func TestValidateImageFile_FileTooLarge(t *testing.T) {
	content := []byte("fake png content")
	fileHeader := createTestFileHeader("large.png", 11*1024*1024, content)
	require.NotNil(t, fileHeader)

	err := ValidateImageFile(fileHeader)
	assert.Error(t, err)

	fileErr, ok := err.(*FileUploadError)
	require.True(t, ok, "Error should be of type FileUploadError")
	assert.Equal(t, "FILE_TOO_LARGE", fileErr.Code)
	assert.Contains(t, fileErr.Message, "File size exceeds maximum allowed size")
}

func TestValidateImageFile_InvalidFormats(t *testing.T) {
	for _, filename := range []string{"receipt.gif", "notes.pdf", "photo", "archive.png.zip"} {
		t.Run(filename, func(t *testing.T) {
			content := []byte("fake content")
			fileHeader := createTestFileHeader(filename, int64(len(content)), content)
			require.NotNil(t, fileHeader)

			err := ValidateImageFile(fileHeader)
			fileErr, ok := err.(*FileUploadError)
			require.True(t, ok, "Error should be of type FileUploadError")
			assert.Equal(t, "INVALID_FILE_FORMAT", fileErr.Code)
		})
	}
}

func TestImageContentType(t *testing.T) {
	assert.Equal(t, "image/png", ImageContentType("a.png"))
	assert.Equal(t, "image/jpeg", ImageContentType("a.JPG"))
	assert.Equal(t, "image/jpeg", ImageContentType("a.jpeg"))
	assert.Equal(t, "application/octet-stream", ImageContentType("a.gif"))
}

func TestFileUploadError_Error(t *testing.T) {
	err := &FileUploadError{
		Code:    "TEST_CODE",
		Message: "Test error message",
	}

	assert.Equal(t, "Test error message", err.Error())
}
