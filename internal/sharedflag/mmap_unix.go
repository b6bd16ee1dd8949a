/*
 * MIT License
 *
 * Copyright (c) 2022-2025 Arsene Tochemey Gandote
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

//go:build unix

package sharedflag

import (
	"errors"
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

const wordSize = 4

// Create makes a temp file holding count flags, all false, and maps it.
func Create(count int) (*File, error) {
	if count <= 0 {
		return nil, fmt.Errorf("sharedflag: invalid flag count %d", count)
	}
	file, err := os.CreateTemp("", "goactors-flags-*")
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if err := file.Truncate(int64(count * wordSize)); err != nil {
		_ = os.Remove(file.Name())
		return nil, err
	}

	shared, err := mapFile(file, count)
	if err != nil {
		_ = os.Remove(file.Name())
		return nil, err
	}
	shared.owner = true
	return shared, nil
}

// Open maps an existing flag file created by another process.
func Open(path string, count int) (*File, error) {
	file, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() < int64(count*wordSize) {
		return nil, fmt.Errorf("sharedflag: %s holds %d bytes, need %d", path, info.Size(), count*wordSize)
	}
	return mapFile(file, count)
}

func mapFile(file *os.File, count int) (*File, error) {
	data, err := unix.Mmap(int(file.Fd()), 0, count*wordSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("sharedflag: mmap %s: %w", file.Name(), err)
	}
	return &File{
		path:  file.Name(),
		words: unsafe.Slice((*uint32)(unsafe.Pointer(&data[0])), count),
		unmap: func() error { return unix.Munmap(data) },
	}, nil
}

func removeFile(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
