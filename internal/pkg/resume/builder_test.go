package resume

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPhoto(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func baseFields() Fields {
	return Fields{
		Name:       "Asha Rao",
		Title:      "Data Analyst",
		Phone:      "+91 98765 43210",
		Email:      "asha@example.com",
		Address:    "Guntur, AP",
		Website:    "asha.dev",
		Skills:     []string{"Python", "SQL", "Tableau"},
		About:      "Analyst who enjoys turning messy data into decisions.",
		Education:  "B.Tech CSE, 2024 - CGPA 8.7",
		Experience: "Intern, Acme Analytics (2023)\nBuilt placement dashboards.",
	}
}

func TestBuild(t *testing.T) {
	doc, err := Build(baseFields(), nil)
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(doc.PDF, []byte("%PDF-")))
	assert.Empty(t, doc.Truncated)
}

func TestBuildWithPhoto(t *testing.T) {
	doc, err := Build(baseFields(), testPhoto(t, 120, 80))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc.PDF, []byte("%PDF-")))
}

func TestBuildRejectsBrokenPhoto(t *testing.T) {
	_, err := Build(baseFields(), []byte("not an image"))
	assert.ErrorIs(t, err, ErrInvalidPhoto)
}

func TestBuildReportsClippedSections(t *testing.T) {
	fields := baseFields()
	fields.About = strings.Repeat("line\n", 10)
	fields.Experience = strings.Repeat("Led a team shipping data pipelines across three regions. ", 400)

	doc, err := Build(fields, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{SectionAbout, SectionExperience}, doc.Truncated)
}

func TestBuildHandlesNonLatinText(t *testing.T) {
	fields := baseFields()
	fields.Name = "Zoë Ångström 李雷"
	fields.About = "Café ☕ lover"

	doc, err := Build(fields, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, doc.PDF)
}

func TestCircularPhoto(t *testing.T) {
	out, err := CircularPhoto(testPhoto(t, 300, 200))
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, photoPixels, photoPixels), img.Bounds())

	_, _, _, cornerAlpha := img.At(0, 0).RGBA()
	assert.Zero(t, cornerAlpha)

	_, _, _, centerAlpha := img.At(photoPixels/2, photoPixels/2).RGBA()
	assert.Equal(t, uint32(0xffff), centerAlpha)
}
