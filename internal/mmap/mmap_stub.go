//go:build !linux

package mmap

import "os"

func osMap(_ *os.File, _ int64, _ int) ([]byte, error) {
	return nil, ErrUnsupported
}

func osUnmap(_ []byte) error {
	return nil
}

func osResidency(_, _ []byte) error {
	return ErrUnsupported
}
