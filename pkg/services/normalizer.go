package services

import (
	"context"
	"io"
	"mime"
	"strings"

	"NeuraFlow/pkg/logger"

	"go.uber.org/zap"
)

// ResumeInput is what a caller sends as the résumé: an uploaded file with its
// declared mime type, or pasted text. File wins when both are present.
type ResumeInput struct {
	File     io.Reader
	MimeType string
	Text     string
}

// Normalizer turns a ResumeInput into plain text.
type Normalizer struct {
	stager   *UploadStager
	decoders map[string]Decoder
	logger   *zap.Logger
}

func NewNormalizer(stager *UploadStager, decoders map[string]Decoder, log *zap.Logger) *Normalizer {
	if decoders == nil {
		decoders = DefaultDecoders()
	}
	return &Normalizer{stager: stager, decoders: decoders, logger: logger.OrNop(log)}
}

// Normalize returns the résumé text. Any staged upload is removed before
// Normalize returns, whatever the outcome.
func (n *Normalizer) Normalize(ctx context.Context, in ResumeInput) (string, error) {
	if in.File == nil {
		return in.Text, nil
	}

	mimeType := baseMimeType(in.MimeType)
	dec, ok := n.decoders[mimeType]
	if !ok {
		return "", &DocumentError{MimeType: mimeType, Err: ErrUnsupportedDocument}
	}

	staged, err := n.stager.Stage(in.File)
	if err != nil {
		return "", &DocumentError{MimeType: mimeType, Err: err}
	}
	defer staged.Release()

	text, err := dec.Decode(staged.Path)
	if err != nil {
		n.logger.Warn("resume decode failed", zap.String("mime_type", mimeType), zap.Int64("size", staged.Size), zap.Error(err))
		return "", &DocumentError{MimeType: mimeType, Err: err}
	}
	n.logger.Debug("resume decoded", append(logger.TextFields("resume", text, 80), zap.String("mime_type", mimeType))...)
	return text, nil
}

func baseMimeType(s string) string {
	s = strings.TrimSpace(s)
	if mt, _, err := mime.ParseMediaType(s); err == nil {
		return mt
	}
	return strings.ToLower(s)
}
