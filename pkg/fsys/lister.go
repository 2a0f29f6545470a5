package fsys

import (
	"context"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	fserrors "github.com/matzehuels/fsnav/pkg/errors"
	"github.com/matzehuels/fsnav/pkg/scene"
)

// BillyLister lists directories of a billy filesystem.
type BillyLister struct {
	FS billy.Filesystem
}

var _ scene.Lister = (*BillyLister)(nil)

// NewLister returns a lister over fsys.
func NewLister(fsys billy.Filesystem) *BillyLister {
	return &BillyLister{FS: fsys}
}

// NewOSLister returns a lister over the host filesystem. Paths passed to List
// are resolved against root ("/" lists absolute paths as-is).
func NewOSLister(root string) *BillyLister {
	if root == "" {
		root = "/"
	}
	return &BillyLister{FS: osfs.New(root)}
}

// List returns the entries of dir, directories first, then by
// case-insensitive name. limit <= 0 returns every entry.
func (l *BillyLister) List(ctx context.Context, dir string, limit int) ([]scene.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := fserrors.ValidatePath(dir); err != nil {
		return nil, err
	}

	infos, err := l.FS.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fserrors.Wrap(fserrors.ErrCodeNotFound, err, "directory %s does not exist", dir)
		}
		return nil, fserrors.Wrap(fserrors.ErrCodeInvalidPath, err, "cannot list %s", dir)
	}

	entries := make([]scene.Entry, 0, len(infos))
	for _, fi := range infos {
		p := l.FS.Join(dir, fi.Name())
		kind := scene.File
		if l.isDir(p, fi) {
			kind = scene.Directory
		}
		entries = append(entries, scene.Entry{Path: p, Name: fi.Name(), Kind: kind, Parent: dir})
	}
	SortEntries(entries)

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// isDir follows symlinks so a link to a directory is navigable.
func (l *BillyLister) isDir(p string, fi fs.FileInfo) bool {
	if fi.Mode()&fs.ModeSymlink == 0 {
		return fi.IsDir()
	}
	target, err := l.FS.Stat(p)
	if err != nil {
		return false
	}
	return target.IsDir()
}

// SortEntries orders entries directories first, then by case-insensitive
// name. Names equal ignoring case keep a stable byte order.
func SortEntries(entries []scene.Entry) {
	slices.SortStableFunc(entries, func(a, b scene.Entry) int {
		if a.Kind != b.Kind {
			if a.Kind == scene.Directory {
				return -1
			}
			return 1
		}
		if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
}

// SafeList lists dir and treats any failure as an empty directory. The error
// is logged at debug level when logger is non-nil.
func SafeList(ctx context.Context, l scene.Lister, dir string, limit int, logger *log.Logger) []scene.Entry {
	entries, err := l.List(ctx, dir, limit)
	if err != nil {
		if logger != nil {
			logger.Debug("listing failed", "dir", dir, "err", err)
		}
		return nil
	}
	return entries
}
