package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromUploadPlaintext(t *testing.T) {
	text, err := FromUpload("notes.txt", []byte("This agreement is binding."))
	require.NoError(t, err)
	assert.Equal(t, "This agreement is binding.", text)
}

func TestFromUploadUnknownExtensionTreatedAsText(t *testing.T) {
	text, err := FromUpload("contract", []byte("plain content"))
	require.NoError(t, err)
	assert.Equal(t, "plain content", text)
}

func TestFromUploadDropsInvalidUTF8(t *testing.T) {
	text, err := FromUpload("notes.txt", []byte{'o', 'k', 0xff, 0xfe, '!'})
	require.NoError(t, err)
	assert.Equal(t, "ok!", text)
}

func TestFromUploadBrokenPDF(t *testing.T) {
	_, err := FromUpload("contract.PDF", []byte("not a pdf at all"))
	assert.Error(t, err)
}
