package hestia

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// numberedFilename returns fpath with n inserted before its extension,
// replacing any number already there. n == 0 strips the number.
func numberedFilename(fpath string, n uint) string {
	ext := filepath.Ext(fpath)
	stem := strings.TrimSuffix(fpath, ext)
	if number := filepath.Ext(stem); len(number) > 1 {
		if v, err := strconv.ParseUint(number[1:], 10, 32); err == nil && v > 0 {
			stem = strings.TrimSuffix(stem, number)
		}
	}
	if n == 0 {
		return stem + ext
	}
	return stem + "." + strconv.FormatUint(uint64(n), 10) + ext
}

// CreateUniqueFile creates fpath, or the first numbered variant of
// fpath that does not exist yet. Existing files are never truncated.
func CreateUniqueFile(fpath string) (*os.File, string, error) {
	for n := uint(0); ; n++ {
		fname := numberedFilename(fpath, n)
		f, err := os.OpenFile(fname, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		return f, fname, err
	}
}

// WriteField dumps f as whitespace separated rows, one line per row.
func WriteField(filename string, f *Field) (string, error) {
	file, fname, err := CreateUniqueFile(filename)
	if err != nil {
		return "", err
	}
	w := bufio.NewWriter(file)
	for i := 0; i < f.Rows(); i++ {
		for j := 0; j < f.Cols(); j++ {
			if j > 0 {
				w.WriteByte(' ')
			}
			w.WriteString(strconv.FormatFloat(f.At(i, j), 'f', 4, 64))
		}
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		file.Close()
		return fname, err
	}
	return fname, file.Close()
}
