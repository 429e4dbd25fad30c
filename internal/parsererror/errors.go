// Package parsererror defines the typed errors shared by the statement parsers.
package parsererror

import "fmt"

// ParseError represents an error during parsing
type ParseError struct {
	Parser string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Parser, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError represents a validation failure
type ValidationError struct {
	FilePath string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.FilePath, e.Reason)
}

// InvalidFormatError represents an error where the input file does not conform
// to the expected format for a specific parser.
type InvalidFormatError struct {
	FilePath       string
	ExpectedFormat string
	Msg            string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s",
		e.FilePath, e.Msg, e.ExpectedFormat)
}

// DataExtractionError represents an error where specific required data could not
// be extracted from a document, even if the document format itself is valid.
type DataExtractionError struct {
	FilePath       string
	FieldName      string
	RawDataSnippet string
	Reason         string
}

func (e *DataExtractionError) Error() string {
	if e.RawDataSnippet != "" {
		return fmt.Sprintf("data extraction failed in file '%s' for field '%s': %s. Raw data snippet: '%s'",
			e.FilePath, e.FieldName, e.Reason, e.RawDataSnippet)
	}
	return fmt.Sprintf("data extraction failed in file '%s' for field '%s': %s",
		e.FilePath, e.FieldName, e.Reason)
}
