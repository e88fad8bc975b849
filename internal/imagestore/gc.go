package imagestore

import (
	"context"

	"go.uber.org/zap"
)

// RefSource yields every image reference string currently held by products.
type RefSource interface {
	ImageRefs() []string
}

// ReferencedSet extracts the blob ids named by indirect references.
func ReferencedSet(refs []string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, raw := range refs {
		if ref := ParseRef(raw); ref.Kind == RefIndirect {
			out[ref.Value] = struct{}{}
		}
	}
	return out
}

// SweepOrphans removes blobs no product references anymore.
func SweepOrphans(ctx context.Context, blobs *BlobStore, src RefSource) (int, error) {
	return blobs.Sweep(ctx, ReferencedSet(src.ImageRefs()))
}

// SweepJob adapts SweepOrphans for the cron scheduler.
func SweepJob(blobs *BlobStore, src RefSource, log *zap.Logger) func() {
	return func() {
		removed, err := SweepOrphans(context.Background(), blobs, src)
		if err != nil {
			log.Error("orphan image sweep failed", zap.Error(err))
			return
		}
		if removed > 0 {
			log.Info("orphan image sweep", zap.Int("removed", removed))
		}
	}
}
