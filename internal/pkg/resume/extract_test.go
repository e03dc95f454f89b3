package resume

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/hirelytics/internal/domain"
	"github.com/yigit/hirelytics/internal/pkg/apperrors"
)

func testDocx(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := map[string]string{
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8"?>` +
			`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
			body + `</w:body></w:document>`,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8"?>` +
			`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
	}
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtractPlainText(t *testing.T) {
	text, err := ExtractText(domain.UploadedFile{FileName: "cv.txt", Data: []byte("Python and SQL")})
	require.NoError(t, err)
	assert.Equal(t, "Python and SQL", text)
}

func TestExtractDocx(t *testing.T) {
	data := testDocx(t,
		`<w:p><w:r><w:t>Skills: Python &amp; SQL</w:t></w:r></w:p>`+
			`<w:p><w:r><w:t>Interned at Acme</w:t></w:r></w:p>`)

	text, err := ExtractText(domain.UploadedFile{FileName: "cv.docx", Data: data})
	require.NoError(t, err)
	assert.Equal(t, "Skills: Python & SQL\nInterned at Acme", text)
}

func TestExtractPDFProducedByBuilder(t *testing.T) {
	fields := baseFields()
	fields.Experience = "Python developer"
	doc, err := Build(fields, nil)
	require.NoError(t, err)

	// No extension: the kind is sniffed from the content.
	text, err := ExtractText(domain.UploadedFile{FileName: "upload", Data: doc.PDF})
	require.NoError(t, err)
	assert.Contains(t, strings.ToLower(text), "python")
}

func TestExtractRejectsUnknownAndBrokenFiles(t *testing.T) {
	_, err := ExtractText(domain.UploadedFile{FileName: "cv.rtf", Data: []byte(`{\rtf1}`)})
	assert.True(t, errors.Is(err, apperrors.ErrUnsupportedFormat))

	_, err = ExtractText(domain.UploadedFile{FileName: "cv.pdf", Data: []byte("%PDF-1.4 garbage")})
	assert.True(t, errors.Is(err, apperrors.ErrUnreadableResume))

	_, err = ExtractText(domain.UploadedFile{FileName: "cv.docx", Data: []byte("PK\x03\x04 nope")})
	assert.True(t, errors.Is(err, apperrors.ErrUnreadableResume))
}
