package handlers

import (
	"errors"
	"net/http"

	"github.com/podium/backend/internal/services"
)

const multipartMemory = 32 << 20

// parseMultipart reads a multipart body, or a url-encoded one for requests
// that carry no file. The returned cleanup removes any temporary files
// created for large parts.
func parseMultipart(r *http.Request) (func(), error) {
	err := r.ParseMultipartForm(multipartMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		return func() {}, r.ParseForm()
	}
	if err != nil {
		return func() {}, err
	}
	return func() { _ = r.MultipartForm.RemoveAll() }, nil
}

// formUpload returns the file attached as field, or nil when none was sent.
func formUpload(r *http.Request, field string) (*services.Upload, func(), error) {
	if r.MultipartForm == nil {
		return nil, func() {}, nil
	}
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, func() {}, err
	}
	return &services.Upload{
		Body:        file,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
	}, func() { _ = file.Close() }, nil
}
