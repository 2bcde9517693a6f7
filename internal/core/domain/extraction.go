package domain

// Extraction is the outcome of pulling text out of a source file.
// A failed extraction has an empty Text and a non-empty Failure.
type Extraction struct {
	// Text is the extracted raw text.
	Text string

	// Failure is the reason extraction failed, empty on success.
	Failure string
}

// Failed reports whether extraction failed.
func (e Extraction) Failed() bool {
	return e.Failure != ""
}

// ExtractionOK returns a successful extraction.
func ExtractionOK(text string) Extraction {
	return Extraction{Text: text}
}

// ExtractionFailed returns a failed extraction carrying err as its reason.
func ExtractionFailed(err error) Extraction {
	if err == nil {
		return Extraction{Failure: "unknown extraction error"}
	}
	return Extraction{Failure: err.Error()}
}

// FetchResult describes a downloaded source.
type FetchResult struct {
	// URL is the address that was fetched.
	URL string

	// Path is where the content was saved.
	Path string

	// MIMEType is the detected content type of the saved file.
	MIMEType string

	// Bytes is the saved size.
	Bytes int64
}
