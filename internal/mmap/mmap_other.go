//go:build !unix

package mmap

import (
	"os"

	"github.com/arloliu/nuklei/errs"
)

func mapFile(_ *os.File, _ int) ([]byte, error) {
	return nil, errs.ErrUnsupportedPlatform
}

func unmap(_ []byte) error {
	return errs.ErrUnsupportedPlatform
}

func sync(_ []byte) error {
	return errs.ErrUnsupportedPlatform
}
