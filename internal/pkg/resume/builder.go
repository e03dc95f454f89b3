package resume

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
)

// Page geometry in points, measured from the top-left corner of an A4 page.
const (
	headerHeight = 80.0
	bottomMargin = 40.0

	leftColumnX  = 40.0
	rightColumnX = 200.0
	columnGap    = 10.0

	photoX    = 40.0
	photoY    = 20.0
	photoSize = 90.0

	headingSize = 14.0
	bodySize    = 11.0
	lineHeight  = 13.2
	skillStep   = 15.0
)

// Section names reported in Document.Truncated.
const (
	SectionContact    = "contact"
	SectionSkills     = "skills"
	SectionAbout      = "about"
	SectionEducation  = "education"
	SectionExperience = "experience"
)

// Fields is the content of a generated resume.
type Fields struct {
	Name       string
	Title      string
	Phone      string
	Email      string
	Address    string
	Website    string
	Skills     []string
	About      string
	Education  string
	Experience string
}

// Document is a rendered resume. Truncated lists sections whose text did not
// fit in their area and was clipped.
type Document struct {
	PDF       []byte
	Truncated []string
}

type textBlock struct {
	section  string
	heading  string
	headingY float64
	bodyY    float64
	limitY   float64
	text     string
}

type canvas struct {
	pdf       *fpdf.Fpdf
	tr        func(string) string
	width     float64
	height    float64
	truncated []string
}

// Build renders fields onto a single A4 page. photo may be nil.
func Build(fields Fields, photo []byte) (*Document, error) {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(fields.Name, true)
	pdf.SetCreator("hirelytics", true)
	pdf.AddPage()

	w, h := pdf.GetPageSize()
	c := &canvas{
		pdf:    pdf,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		width:  w,
		height: h,
	}

	c.header(fields)
	if len(photo) > 0 {
		if err := c.photo(photo); err != nil {
			return nil, err
		}
	}
	c.contact(fields)
	c.skills(fields.Skills)

	for _, b := range []textBlock{
		{SectionAbout, "About Me", 140, 155, 230 - headingSize, fields.About},
		{SectionEducation, "Education", 230, 245, 320 - headingSize, fields.Education},
		{SectionExperience, "Experience", 320, 335, h - bottomMargin, fields.Experience},
	} {
		c.block(b)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to render resume: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write resume: %w", err)
	}
	return &Document{PDF: buf.Bytes(), Truncated: c.truncated}, nil
}

func (c *canvas) header(fields Fields) {
	c.pdf.SetFillColor(38, 38, 51)
	c.pdf.Rect(0, 0, c.width, headerHeight, "F")

	c.pdf.SetTextColor(255, 255, 255)
	c.pdf.SetFont("Helvetica", "B", 24)
	c.pdf.Text(150, 50, c.tr(latin1(fields.Name)))
	c.pdf.SetFont("Helvetica", "", headingSize)
	c.pdf.Text(150, 65, c.tr(latin1(fields.Title)))
	c.pdf.SetTextColor(0, 0, 0)
}

func (c *canvas) photo(data []byte) error {
	img, err := CircularPhoto(data)
	if err != nil {
		return err
	}
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	c.pdf.RegisterImageOptionsReader("photo", opts, bytes.NewReader(img))
	c.pdf.ImageOptions("photo", photoX, photoY, photoSize, photoSize, false, opts, 0, "")
	return nil
}

func (c *canvas) heading(x, y float64, text string) {
	c.pdf.SetFont("Helvetica", "B", headingSize)
	c.pdf.Text(x, y, text)
	c.pdf.SetFont("Helvetica", "", bodySize)
}

func (c *canvas) contact(fields Fields) {
	c.heading(leftColumnX, 140, "Contact")

	width := rightColumnX - leftColumnX - columnGap
	clipped := false
	for i, v := range []string{fields.Phone, fields.Email, fields.Address, fields.Website} {
		lines := c.wrap(v, width)
		if len(lines) == 0 {
			continue
		}
		if len(lines) > 1 {
			clipped = true
		}
		c.pdf.Text(leftColumnX, 155+float64(i)*skillStep, c.tr(lines[0]))
	}
	if clipped {
		c.markTruncated(SectionContact)
	}
}

func (c *canvas) skills(skills []string) {
	c.heading(leftColumnX, 230, "Skills")

	width := rightColumnX - leftColumnX - columnGap
	y := 245.0
	limit := c.height - bottomMargin
	for _, s := range skills {
		for _, line := range c.wrap(strings.TrimSpace(s), width) {
			if y > limit {
				c.markTruncated(SectionSkills)
				return
			}
			c.pdf.Text(leftColumnX, y, c.tr(line))
			y += skillStep
		}
	}
}

func (c *canvas) block(b textBlock) {
	c.heading(rightColumnX, b.headingY, b.heading)

	text := strings.TrimRight(strings.ReplaceAll(b.text, "\r\n", "\n"), " \t\n")
	if text == "" {
		return
	}

	width := c.width - rightColumnX - bottomMargin
	y := b.bodyY
	for _, paragraph := range strings.Split(text, "\n") {
		lines := c.wrap(paragraph, width)
		if len(lines) == 0 {
			lines = []string{""}
		}
		for _, line := range lines {
			if y > b.limitY {
				c.markTruncated(b.section)
				return
			}
			if line != "" {
				c.pdf.Text(rightColumnX, y, c.tr(line))
			}
			y += lineHeight
		}
	}
}

// wrap splits text into lines no wider than width in the current font.
func (c *canvas) wrap(text string, width float64) []string {
	text = strings.TrimRight(latin1(text), " \t")
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return c.pdf.SplitText(text, width)
}

func (c *canvas) markTruncated(section string) {
	for _, s := range c.truncated {
		if s == section {
			return
		}
	}
	c.truncated = append(c.truncated, section)
}

// latin1 replaces runes the core PDF fonts cannot encode.
func latin1(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t':
			return ' '
		case r < 0x20:
			return -1
		case r > 0xff:
			return '?'
		default:
			return r
		}
	}, s)
}
