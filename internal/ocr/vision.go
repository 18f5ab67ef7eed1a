package ocr

import (
	"context"
	"io"

	vision "cloud.google.com/go/vision/apiv1"
	"github.com/miljoverk/samsvar/internal/errors"
	"google.golang.org/api/option"
)

// Reader turns an image into the text it contains.
type Reader interface {
	Text(ctx context.Context, image io.Reader) (string, error)
}

// VisionReader reads image text with the Google Cloud Vision document-text detector.
type VisionReader struct {
	client *vision.ImageAnnotatorClient
}

func NewVisionReader(ctx context.Context, opts ...option.ClientOption) (*VisionReader, error) {
	client, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "create image annotator client")
	}
	return &VisionReader{client: client}, nil
}

func (r *VisionReader) Text(ctx context.Context, image io.Reader) (string, error) {
	img, err := vision.NewImageFromReader(image)
	if err != nil {
		return "", errors.Wrap(err, "read image")
	}
	annotation, err := r.client.DetectDocumentText(ctx, img, nil)
	if err != nil {
		return "", errors.Wrap(err, "detect document text")
	}
	if annotation == nil {
		return "", nil
	}
	return annotation.GetText(), nil
}

func (r *VisionReader) Close() error {
	if err := r.client.Close(); err != nil {
		return errors.Wrap(err, "close image annotator client")
	}
	return nil
}
