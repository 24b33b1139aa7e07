package common

import (
	"embed"
	"io/fs"
	"net/http"
	"strings"

	"github.com/gin-contrib/static"
)

type embedFileSystem struct {
	http.FileSystem
}

func (e embedFileSystem) Exists(prefix string, path string) bool {
	p := strings.TrimPrefix(path, prefix)
	if p == "" || p == "/" {
		return false
	}
	f, err := e.Open(p)
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}

// EmbedFolder exposes targetPath of an embedded tree to gin-contrib/static.
func EmbedFolder(fsEmbed embed.FS, targetPath string) static.ServeFileSystem {
	efs, err := fs.Sub(fsEmbed, targetPath)
	if err != nil {
		panic(err)
	}
	return embedFileSystem{
		FileSystem: http.FS(efs),
	}
}
