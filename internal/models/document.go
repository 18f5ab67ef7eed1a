package models

// ExtractedDocument is the plain-text content of one uploaded file, chunked to fit the
// language model's input budget. It lives for a single pipeline run.
type ExtractedDocument struct {
	FileName string
	Chunks   []string
}

// FileResult records the per-file outcome of the extraction stage. Err is nil for files
// that were extracted and sent; files with an unsupported format or a failing extractor
// carry the reason here instead of only being mentioned in the log.
type FileResult struct {
	FileName string
	Chunks   int
	Err      error
}
