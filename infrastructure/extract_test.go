package infrastructure

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextExtractor_PlainText(t *testing.T) {
	ex, err := NewTextExtractor("", quietLogger())
	require.NoError(t, err)

	got, err := ex.Extract("Resume.TXT", []byte("\n  Jane Doe\nGo developer  \n"))
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nGo developer", got)
}

func TestTextExtractor_UnsupportedType(t *testing.T) {
	ex, err := NewTextExtractor("", quietLogger())
	require.NoError(t, err)

	for _, name := range []string{"resume.png", "resume", "resume.doc"} {
		_, err := ex.Extract(name, []byte("data"))
		assert.True(t, errors.Is(err, ErrUnsupportedDocument), name)
	}
}

func TestTextExtractor_CorruptDocuments(t *testing.T) {
	ex, err := NewTextExtractor("", quietLogger())
	require.NoError(t, err)

	_, err = ex.Extract("resume.pdf", []byte("not a pdf"))
	assert.Error(t, err)

	_, err = ex.Extract("resume.docx", []byte("not a zip"))
	assert.Error(t, err)
}

func TestDocxPlainText(t *testing.T) {
	content := `<w:body><w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Skills:</w:t><w:tab/><w:t>Go &amp; SQL</w:t></w:r></w:p></w:body>`

	assert.Equal(t, "Jane Doe\nSkills:\tGo & SQL\n", docxPlainText(content))
}
