package services

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

	// DefaultMaxTextBytes caps the text extracted from one document.
	DefaultMaxTextBytes int64 = 2 << 20

	// document.xml may be this many times larger than the text it carries
	docxMarkupRatio = 16
)

var ErrTextTooLarge = errors.New("extracted text too large")

// Decoder extracts plain text from a staged document.
type Decoder interface {
	Decode(path string) (string, error)
}

// DecoderFunc adapts a function to Decoder.
type DecoderFunc func(path string) (string, error)

func (f DecoderFunc) Decode(path string) (string, error) { return f(path) }

// DefaultDecoders maps supported mime types to decoders capped at DefaultMaxTextBytes.
func DefaultDecoders() map[string]Decoder {
	return LimitedDecoders(DefaultMaxTextBytes)
}

// LimitedDecoders maps supported mime types to decoders that fail with
// ErrTextTooLarge once a document yields more than maxText bytes of text.
// maxText <= 0 disables the cap.
func LimitedDecoders(maxText int64) map[string]Decoder {
	return map[string]Decoder{
		MimePDF:  DecoderFunc(func(path string) (string, error) { return DecodePDF(path, maxText) }),
		MimeDOCX: DecoderFunc(func(path string) (string, error) { return DecodeDOCX(path, maxText) }),
	}
}

// DecodePDF returns the text of every page in order.
func DecodePDF(path string, maxText int64) (text string, err error) {
	// the pdf reader panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return "", err
	}

	r, err := pdf.NewReader(f, info.Size())
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	if maxText > 0 {
		plain = io.LimitReader(plain, maxText+1)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	if maxText > 0 && int64(buf.Len()) > maxText {
		return "", fmt.Errorf("%w: more than %d bytes", ErrTextTooLarge, maxText)
	}
	return buf.String(), nil
}

// DecodeDOCX returns the raw text of word/document.xml, one line per paragraph.
func DecodeDOCX(path string, maxText int64) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("open document.xml: %w", err)
		}
		defer rc.Close()
		return docxText(rc, maxText)
	}
	return "", errors.New("docx has no word/document.xml")
}

func docxText(r io.Reader, maxText int64) (string, error) {
	var lr *io.LimitedReader
	if maxText > 0 {
		lr = &io.LimitedReader{R: r, N: maxText*docxMarkupRatio + 1}
		r = lr
	}
	tooLarge := func() error {
		return fmt.Errorf("%w: more than %d bytes", ErrTextTooLarge, maxText)
	}

	dec := xml.NewDecoder(r)
	var (
		b      strings.Builder
		inText bool
		paras  int
	)
	for {
		tok, err := dec.Token()
		if lr != nil && lr.N <= 0 {
			return "", tooLarge()
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				b.WriteByte('\t')
			case "br", "cr":
				b.WriteByte('\n')
			case "p":
				if paras > 0 {
					b.WriteByte('\n')
				}
				paras++
			}
		case xml.EndElement:
			if t.Name.Local == "t" {
				inText = false
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
		if maxText > 0 && int64(b.Len()) > maxText {
			return "", tooLarge()
		}
	}
	return b.String(), nil
}
