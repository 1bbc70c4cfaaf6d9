// Package qr turns a saved page into a QR-Code, for sending a link from
// the desktop list to a phone.
package qr

import (
	"errors"
	"fmt"
	"os"

	qrcode "github.com/skip2/go-qrcode"
)

var (
	ErrFileNotFound = errors.New("QR-Code file not found")
	ErrNotGenerated = errors.New("QR-Code not generated")
)

// QRCode represents a QR-Code built from a saved page URL.
type QRCode struct {
	QR   *qrcode.QRCode
	file *os.File
	From string
}

// New creates a QR-Code for the given string.
func New(s string) *QRCode {
	return &QRCode{From: s}
}

// Generate builds the QR-Code matrix.
func (q *QRCode) Generate() error {
	var err error

	q.QR, err = qrcode.New(q.From, qrcode.High)
	if err != nil {
		return fmt.Errorf("generating qr-code: %w", err)
	}

	return nil
}

// GenerateImg writes the QR-Code to a temp PNG named after prefix.
func (q *QRCode) GenerateImg(prefix string) error {
	if q.QR == nil {
		return ErrNotGenerated
	}

	var err error

	q.file, err = writePNG(q.QR, prefix)
	if err != nil {
		return fmt.Errorf("creating image: %w", err)
	}

	return nil
}

// Label draws text onto the generated image, at "top" or "bottom".
func (q *QRCode) Label(s, pos string) error {
	if q.file == nil {
		return ErrFileNotFound
	}

	return addLabel(q.file.Name(), s, pos)
}

// Path returns the generated image path.
func (q *QRCode) Path() string {
	if q.file == nil {
		return ""
	}

	return q.file.Name()
}

func (q *QRCode) String() string {
	return q.QR.ToSmallString(true)
}
