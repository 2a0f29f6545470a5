package fsys

import (
	"path"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
)

// demoTree maps each demo directory to its children. Children that are not
// themselves keys are created as empty files.
var demoTree = map[string][]string{
	"/":                    {"home", "usr", "etc", "var", "tmp", "opt", "bin", "lib"},
	"/home":                {"user", "guest", "admin"},
	"/home/user":           {"Documents", "Downloads", "Pictures", "Videos", "Music", "Desktop", "config.txt", "notes.md", "data.json"},
	"/home/user/Documents": {"report.pdf", "presentation.pptx", "notes.txt", "project"},
	"/home/user/Downloads": {"file1.zip", "file2.tar.gz", "image.png", "video.mp4"},
	"/home/user/Pictures":  {},
	"/home/user/Videos":    {},
	"/home/user/Music":     {},
	"/home/user/Desktop":   {},
	"/usr":                 {"bin", "lib", "share", "local"},
	"/etc":                 {"config", "hosts", "passwd", "group"},
}

// DemoRoot is the directory the demo starts in.
const DemoRoot = "/home/user"

// DemoFS returns an in-memory filesystem holding a small Unix-like tree,
// for trying the navigator without touching the disk.
func DemoFS() billy.Filesystem {
	fs := memfs.New()
	for dir, children := range demoTree {
		_ = fs.MkdirAll(dir, 0o755)
		for _, c := range children {
			p := path.Join(dir, c)
			if _, ok := demoTree[p]; ok {
				_ = fs.MkdirAll(p, 0o755)
				continue
			}
			f, err := fs.Create(p)
			if err == nil {
				_ = f.Close()
			}
		}
	}
	return fs
}

// NewDemoLister returns a lister over DemoFS.
func NewDemoLister() *BillyLister {
	return NewLister(DemoFS())
}
