package imagestore

import "strings"

const (
	indirectPrefix = "global-image://"
	inlinePrefix   = "data:"

	// FallbackImageURL is served for indirect references whose blob is gone.
	FallbackImageURL = "https://images.pexels.com/photos/1536619/pexels-photo-1536619.jpeg"
)

type RefKind int

const (
	// RefDirect is a plain URL used as-is.
	RefDirect RefKind = iota
	// RefInline is an already-embedded data URI.
	RefInline
	// RefIndirect names a BlobStore entry.
	RefIndirect
)

// Ref is a parsed product image reference. For RefIndirect, Value is the blob
// id; otherwise it is the renderable source itself.
type Ref struct {
	Kind  RefKind
	Value string
}

func ParseRef(reference string) Ref {
	switch {
	case strings.HasPrefix(reference, indirectPrefix):
		return Ref{Kind: RefIndirect, Value: strings.TrimPrefix(reference, indirectPrefix)}
	case strings.HasPrefix(reference, inlinePrefix):
		return Ref{Kind: RefInline, Value: reference}
	default:
		return Ref{Kind: RefDirect, Value: reference}
	}
}

// String renders the reference back to its stored form.
func (r Ref) String() string {
	if r.Kind == RefIndirect {
		return indirectPrefix + r.Value
	}
	return r.Value
}

// IndirectRef builds the stored form of an indirect reference for id.
func IndirectRef(id string) string { return indirectPrefix + id }

type Resolver struct {
	Blobs *BlobStore
}

// Resolve turns any stored reference into a renderable image source. It never
// fails: a missing indirect blob resolves to the fallback URL.
func (rv *Resolver) Resolve(reference string) string {
	ref := ParseRef(reference)
	if ref.Kind != RefIndirect {
		return ref.Value
	}

	data, ok := rv.Blobs.Fetch(ref.Value)
	if !ok {
		return FallbackImageURL
	}
	return data
}
