// Package meta implements the per-asset sidecar document (spec §6 "meta
// sidecar"): a small tagged-union record describing whether an asset should
// be loaded as-is, processed through a pipeline, or ignored, plus the
// content hashes the scene loader uses to detect a changed source file for
// hot-reload.
//
// The sidecar is encoded as YAML via [github.com/goccy/go-yaml], the same
// library the teacher stack uses for its own structured-document encoding;
// it stands in for the reference format's RON-like text (spec §6, REDESIGN
// FLAGS).
package meta

import (
	"github.com/goccy/go-yaml"
	"github.com/zeebo/xxh3"
)

// AssetKind discriminates the sidecar's `asset` tagged union (spec §6
// "Load | Process | Ignore").
type AssetKind int

const (
	// AssetLoad loads the asset's bytes directly with no processing step.
	AssetLoad AssetKind = iota
	// AssetProcess runs the asset through a named processor before loading.
	AssetProcess
	// AssetIgnore excludes the asset from loading entirely.
	AssetIgnore
)

// String renders the AssetKind as the sidecar's YAML tag name.
func (k AssetKind) String() string {
	switch k {
	case AssetLoad:
		return "Load"
	case AssetProcess:
		return "Process"
	case AssetIgnore:
		return "Ignore"
	default:
		return "Unknown"
	}
}

// ProcessedInfo records the content hashes and process-time dependency set
// captured the last time an asset was processed (spec §6 "processed_info").
type ProcessedInfo struct {
	// Hash is the content hash of the asset's own bytes.
	Hash uint64 `yaml:"hash"`
	// FullHash additionally folds in the hashes of every process
	// dependency, so a dependency change invalidates the cache even when
	// the asset's own bytes are unchanged.
	FullHash uint64 `yaml:"full_hash"`
	// ProcessDependencies lists the paths this asset's processing read, in
	// the order they were read.
	ProcessDependencies []string `yaml:"process_dependencies,omitempty"`
}

// AssetMeta is the full sidecar document for one asset (spec §6 "meta
// sidecar").
type AssetMeta struct {
	MetaFormatVersion string         `yaml:"meta_format_version"`
	Processed         *ProcessedInfo `yaml:"processed_info,omitempty"`
	Kind              AssetKind      `yaml:"-"`
	// Processor names the pipeline step to run, set only when Kind ==
	// AssetProcess.
	Processor string `yaml:"processor,omitempty"`
}

// FormatVersion is the current meta_format_version this package writes and
// expects to read.
const FormatVersion = "1"

// sidecarDoc is the literal YAML shape on disk: a top-level tagged union
// under the "asset" key, since goccy/go-yaml has no native Rust-enum-style
// tagged-union encoding.
type sidecarDoc struct {
	MetaFormatVersion string         `yaml:"meta_format_version"`
	Processed         *ProcessedInfo `yaml:"processed_info,omitempty"`
	Asset             assetTag       `yaml:"asset"`
}

type assetTag struct {
	Kind      string `yaml:"kind"`
	Processor string `yaml:"processor,omitempty"`
}

// Marshal encodes m as its on-disk YAML sidecar form.
func Marshal(m *AssetMeta) ([]byte, error) {
	doc := sidecarDoc{
		MetaFormatVersion: m.MetaFormatVersion,
		Processed:         m.Processed,
		Asset: assetTag{
			Kind:      m.Kind.String(),
			Processor: m.Processor,
		},
	}

	return yaml.Marshal(doc)
}

// Unmarshal decodes a sidecar document previously produced by [Marshal].
func Unmarshal(data []byte) (*AssetMeta, error) {
	var doc sidecarDoc

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, NewError(KindInvalidSidecar, err)
	}

	m := &AssetMeta{
		MetaFormatVersion: doc.MetaFormatVersion,
		Processed:         doc.Processed,
		Processor:         doc.Asset.Processor,
	}

	switch doc.Asset.Kind {
	case "Load", "":
		m.Kind = AssetLoad
	case "Process":
		m.Kind = AssetProcess
	case "Ignore":
		m.Kind = AssetIgnore
	default:
		return nil, NewError(KindUnknownAssetKind, nil).WithTag(doc.Asset.Kind)
	}

	return m, nil
}

// Hash computes the content hash used for AssetMeta.Processed.Hash, via the
// same xxh3 algorithm the teacher stack uses for its own cache keys.
func Hash(content []byte) uint64 {
	return xxh3.Hash(content)
}

// FullHash folds the hash of content together with the hashes of every
// dependency's content, in order, so a change to any dependency changes the
// result (spec §6 "full_hash").
func FullHash(content []byte, dependencyHashes []uint64) uint64 {
	h := Hash(content)

	for _, d := range dependencyHashes {
		h ^= d*0x9E3779B185EBCA87 + 1
	}

	return h
}
