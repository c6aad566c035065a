package drive

import (
	"context"
	"fmt"
	"log/slog"
)

// Resolver finds or creates named folders under a parent. It keeps no state
// between calls; the remote store is the only source of truth.
type Resolver struct {
	storage Storage
}

// NewResolver creates a resolver backed by the given storage.
func NewResolver(storage Storage) *Resolver {
	return &Resolver{storage: storage}
}

// Resolve returns the identifier of the folder named name directly under
// parentID, creating it when absent. A lookup failure is downgraded to
// "not found" so degraded connectivity falls through to a create attempt
// instead of failing the submission; this can leave duplicate folders behind.
// A create failure is fatal.
//
// Two concurrent Resolve calls for the same (name, parent) pair can both
// observe "not found" and each create a folder. Nothing here prevents that.
func (r *Resolver) Resolve(ctx context.Context, name, parentID string) (string, error) {
	existing, err := r.storage.FindFolder(ctx, name, parentID)
	if err != nil {
		slog.Warn("folder lookup failed, falling back to create",
			"name", name,
			"parent", parentID,
			"error", err,
		)
	}
	if existing != nil {
		return existing.ID, nil
	}

	created, err := r.storage.CreateFolder(ctx, name, parentID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve folder %q: %w", name, err)
	}

	r.copyParentPermissions(ctx, parentID, created.ID)

	slog.Info("folder created", "name", name, "id", created.ID, "parent", parentID)
	return created.ID, nil
}

// copyParentPermissions propagates the parent's non-owner sharing grants onto
// a newly created folder. Individual failures are logged and skipped; the
// folder stays usable either way.
func (r *Resolver) copyParentPermissions(ctx context.Context, parentID, folderID string) {
	perms, err := r.storage.ListPermissions(ctx, parentID)
	if err != nil {
		slog.Warn("failed to list parent permissions",
			"parent", parentID,
			"folder", folderID,
			"error", err,
		)
		return
	}

	for _, p := range perms {
		if p.Role == "owner" {
			continue
		}
		if err := r.storage.CreatePermission(ctx, folderID, p); err != nil {
			slog.Warn("failed to copy permission",
				"folder", folderID,
				"role", p.Role,
				"email", p.EmailAddress,
				"error", err,
			)
		}
	}
}
