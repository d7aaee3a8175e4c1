package extractor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

const (
	// ProvenanceKey is the field under metadata.version holding the
	// extractor fingerprint.
	ProvenanceKey = "essentia_build_sha"

	metadataKey = "metadata"
	versionKey  = "version"
)

// Report is the low-level feature document produced by the extractor.
// Numbers are kept as json.Number so values round-trip unchanged.
type Report map[string]any

// ParseReport decodes extractor output. The document must be a single JSON
// object with a metadata object.
func ParseReport(data []byte) (Report, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var report Report
	if err := dec.Decode(&report); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedReport, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after document", ErrMalformedReport)
	}
	if report == nil {
		return nil, fmt.Errorf("%w: document is null", ErrMalformedReport)
	}
	if _, err := report.metadata(); err != nil {
		return nil, err
	}
	return report, nil
}

// SetProvenance records fingerprint at metadata.version.essentia_build_sha,
// creating the version object when the extractor omitted it.
func (r Report) SetProvenance(fingerprint string) error {
	meta, err := r.metadata()
	if err != nil {
		return err
	}
	switch version := meta[versionKey].(type) {
	case map[string]any:
		version[ProvenanceKey] = fingerprint
	case nil:
		meta[versionKey] = map[string]any{ProvenanceKey: fingerprint}
	default:
		return fmt.Errorf("%w: metadata.version is %T, not an object", ErrMalformedReport, version)
	}
	return nil
}

// Provenance returns the fingerprint stamped by SetProvenance.
func (r Report) Provenance() string {
	meta, err := r.metadata()
	if err != nil {
		return ""
	}
	version, _ := meta[versionKey].(map[string]any)
	value, _ := version[ProvenanceKey].(string)
	return value
}

func (r Report) metadata() (map[string]any, error) {
	raw, ok := r[metadataKey]
	if !ok {
		return nil, fmt.Errorf("%w: missing metadata section", ErrMalformedReport)
	}
	meta, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: metadata is %T, not an object", ErrMalformedReport, raw)
	}
	return meta, nil
}
