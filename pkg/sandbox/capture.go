/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package sandbox

import (
	"bytes"
	"io"
	"os"
	"sync"

	"github.com/pkg/errors"
)

// Only one capture at a time may redirect the process' output streams.
var captureMutex sync.Mutex

// StdCapturer captures output by temporarily replacing os.Stdout and os.Stderr with pipes.
// Output written by other goroutines during the capture is captured as well.
type StdCapturer struct{}

func (*StdCapturer) Capture(work func()) (string, string, error) {
	captureMutex.Lock()
	defer captureMutex.Unlock()

	outReader, outWriter, err := os.Pipe()
	if err != nil {
		return "", "", errors.WithMessage(err, "could not create stdout pipe")
	}
	errReader, errWriter, err := os.Pipe()
	if err != nil {
		outReader.Close()
		outWriter.Close()
		return "", "", errors.WithMessage(err, "could not create stderr pipe")
	}

	drain := func(r io.Reader, into *bytes.Buffer, wg *sync.WaitGroup) {
		defer wg.Done()
		io.Copy(into, r)
	}

	var stdout, stderr bytes.Buffer
	var wg sync.WaitGroup
	wg.Add(2)
	go drain(outReader, &stdout, &wg)
	go drain(errReader, &stderr, &wg)

	originalOut, originalErr := os.Stdout, os.Stderr
	os.Stdout, os.Stderr = outWriter, errWriter

	func() {
		// Restore the streams even if work panics.
		defer func() {
			os.Stdout, os.Stderr = originalOut, originalErr
			outWriter.Close()
			errWriter.Close()
		}()
		work()
	}()

	wg.Wait()
	outReader.Close()
	errReader.Close()

	return stdout.String(), stderr.String(), nil
}
