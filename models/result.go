package models

import (
	"bytes"
	"encoding/json"
	"io"
)

// ScrapeResult is the single output of one analysis. Exactly one shape is
// populated: BrandName and Description on success, Error on failure.
type ScrapeResult struct {
	BrandName   string
	Description string
	Error       string

	// Code is the error code behind Error. It is not serialized.
	Code string
}

// NewResult builds a success-shaped result.
func NewResult(brandName, description string) ScrapeResult {
	return ScrapeResult{BrandName: brandName, Description: description}
}

// NewErrorResult builds an error-shaped result from any error. ScrapeErrors
// contribute their human-readable Message rather than the code-prefixed text.
func NewErrorResult(err error) ScrapeResult {
	se := AsScrapeError(err)
	return ScrapeResult{Error: se.Message, Code: se.Code}
}

// Failed reports whether the result carries an error.
func (r ScrapeResult) Failed() bool {
	return r.Error != ""
}

// MarshalJSON emits either {"brandName","description"} or {"error"}, never both.
func (r ScrapeResult) MarshalJSON() ([]byte, error) {
	if r.Failed() {
		return json.Marshal(struct {
			Error string `json:"error"`
		}{r.Error})
	}
	return json.Marshal(struct {
		BrandName   string `json:"brandName"`
		Description string `json:"description"`
	}{r.BrandName, r.Description})
}

// UnmarshalJSON accepts either shape.
func (r *ScrapeResult) UnmarshalJSON(data []byte) error {
	var raw struct {
		BrandName   string `json:"brandName"`
		Description string `json:"description"`
		Error       string `json:"error"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = ScrapeResult{BrandName: raw.BrandName, Description: raw.Description, Error: raw.Error}
	if r.Error != "" {
		r.BrandName, r.Description = "", ""
	}
	return nil
}

// WriteLine writes the result as one JSON line using ", " and ": " separators
// and without HTML escaping, the format downstream line readers expect.
func (r ScrapeResult) WriteLine(w io.Writer) error {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if r.Failed() {
		writeField(&buf, "error", r.Error)
	} else {
		writeField(&buf, "brandName", r.BrandName)
		buf.WriteString(", ")
		writeField(&buf, "description", r.Description)
	}
	buf.WriteString("}\n")

	_, err := w.Write(buf.Bytes())
	return err
}

func writeField(buf *bytes.Buffer, key, value string) {
	writeString(buf, key)
	buf.WriteString(": ")
	writeString(buf, value)
}

func writeString(buf *bytes.Buffer, s string) {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	// Encode never fails for a string; it appends a newline we strip.
	_ = enc.Encode(s)
	buf.Truncate(buf.Len() - 1)
}

// FetchedDocument is the raw markup of a page plus the URL it was requested
// from. It lives only between fetch and extraction.
type FetchedDocument struct {
	URL        string
	FinalURL   string
	StatusCode int
	HTML       string
}
