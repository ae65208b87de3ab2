package staticfiles

import (
	"embed"
	"io/fs"
)

//go:embed index.html assets/*
var embedded embed.FS

func EmbeddedFS() fs.FS {
	return embedded
}
