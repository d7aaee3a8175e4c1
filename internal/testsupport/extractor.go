package testsupport

// Stub extractor bodies. Each receives the input path as $1 and the output
// path as $2, matching the real extractor's calling convention.
const (
	// ExtractorSuccess writes a small report that echoes the input path.
	ExtractorSuccess = `cat > "$2" <<JSON
{"metadata":{"version":{"essentia":"2.1-beta2","extractor":"music 1.0"},"tags":{"file_name":"$1"}},"lowlevel":{"average_loudness":0.9312,"dynamic_complexity":3.25},"rhythm":{"bpm":120.5}}
JSON
`
	// ExtractorFailure exits non-zero without writing output.
	ExtractorFailure = "echo 'cannot decode input' >&2\nexit 3\n"
	// ExtractorRemovesOutput deletes its output file and fails.
	ExtractorRemovesOutput = "rm -f \"$2\"\nexit 1\n"
	// ExtractorMalformed writes output that is not JSON.
	ExtractorMalformed = "printf 'not json {' > \"$2\"\n"
	// ExtractorNoMetadata writes valid JSON lacking a metadata section.
	ExtractorNoMetadata = "printf '{\"lowlevel\":{\"average_loudness\":0.5}}' > \"$2\"\n"
)
