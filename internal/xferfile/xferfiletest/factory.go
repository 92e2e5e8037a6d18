package xferfiletest

import (
	"fmt"
	"os"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/derektruong/fxput/internal/xferfile"
)

// InfoFactory builds a random regular file Info, then applies editFns.
func InfoFactory(editFns ...func(info *xferfile.Info)) *xferfile.Info {
	ext := gofakeit.FileExtension()
	name := fmt.Sprintf("%s.%s", gofakeit.Word(), ext)
	info := &xferfile.Info{
		Path:      fmt.Sprintf("%s/%s", gofakeit.Word(), name),
		Size:      int64(gofakeit.Number(1, 1000000)),
		Name:      name,
		Extension: ext,
		ModTime:   gofakeit.PastDate(),
		Mode:      os.FileMode(0644),
	}
	for _, editFn := range editFns {
		if editFn != nil {
			editFn(info)
		}
	}
	return info
}
