package ingest

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildDOCX 构造最小可解析的 DOCX 容器
func buildDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtractText_Empty(t *testing.T) {
	assert.Empty(t, ExtractText(nil))
	assert.Empty(t, ExtractText([]byte{}))
}

func TestExtractText_DOCX(t *testing.T) {
	raw := buildDOCX(t, `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Hello </w:t></w:r><w:r><w:t>World</w:t></w:r></w:p>
    <w:p><w:r><w:t>Chương 1 mở đầu</w:t></w:r></w:p>
  </w:body>
</w:document>`)

	text := ExtractText(raw)
	assert.Equal(t, "Hello World\nChương 1 mở đầu", text)
}

func TestExtractText_DOCXMissingDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/styles.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte("<styles/>"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	// 容器可读但缺少正文时退化为字节清洗，不会报错
	text := ExtractText(buf.Bytes())
	assert.NotContains(t, text, "\x00")
}

func TestExtractText_BrokenPDFFallsBackToSalvage(t *testing.T) {
	raw := []byte("%PDF-1.4 this is not really a pdf body")
	text := ExtractText(raw)
	assert.Equal(t, "%PDF-1.4 this is not really a pdf body", text)
}

func TestExtractText_SalvageDropsInvalidBytes(t *testing.T) {
	raw := append([]byte{0xff, 0xfe}, []byte("ab\x00cd 你好")...)
	text := ExtractText(raw)
	assert.Equal(t, "abcd 你好", text)
}

func TestSalvageUTF8_KeepsMultiByteRunes(t *testing.T) {
	assert.Equal(t, "héllo 世界", salvageUTF8([]byte("héllo 世界")))
}
