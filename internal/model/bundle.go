package model

// Path represents a file system path.
type Path string

// Encoding identifies how a bundle's decoded content maps back to bytes on
// disk. It is carried on every BundleInfo so call sites never have to infer
// it from the file extension again.
type Encoding int

const (
	// EncodingText marks a plain script file. Patches may grow the file.
	EncodingText Encoding = iota

	// EncodingRaw marks a compiled binary with an embedded script. Content
	// is the raw bytes viewed as a string without any transcoding, so every
	// character index equals a byte offset and patches must preserve the
	// total byte length exactly.
	EncodingRaw
)

// String returns the encoding name for logs and error messages.
func (e Encoding) String() string {
	if e == EncodingRaw {
		return "raw"
	}

	return "text"
}

// BundleInfo is the resolved view of one target artifact.
//
// Content is always string(raw bytes): Go regexp match indices are byte
// offsets, which keeps the char-index == byte-offset invariant that byte-mode
// patching depends on. Re-resolve after every mutation; a write invalidates
// the offsets of all matches computed against stale content.
type BundleInfo struct {
	Path     Path
	Content  string
	Raw      []byte // populated only for EncodingRaw targets
	Encoding Encoding
}

// IsBinaryTarget reports whether byte-mode patching rules apply.
func (b BundleInfo) IsBinaryTarget() bool {
	return b.Encoding == EncodingRaw
}

// GateStatus is the per-gate runtime fact reported by the detector.
type GateStatus struct {
	Name        string
	Codename    string
	Category    GateCategory
	Detected    bool // signature matched or a patch marker is present
	Enabled     bool // a patch marker is present
	EnvOverride string
}
