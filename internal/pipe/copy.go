// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package pipe

import (
	"context"
	"errors"
	"io"
)

// BufferSize is the size of the read buffer used by [Copy].
const BufferSize = 32 * 1024

// Copy copies from src to dst until src returns [io.EOF], an error occurs or
// the context is done.
//
// Every chunk read is written completely before the next read. Once the
// context is done, src is closed so a blocked read returns. In this case the
// context's cause is returned. src must tolerate being closed more than once.
//
// Errors of src and dst are returned as [*Error] with [OpRead] or [OpWrite]
// respectively. A clean [io.EOF] returns a nil error.
func Copy(ctx context.Context, dst io.Writer, src io.ReadCloser) (int64, error) {
	stop := context.AfterFunc(ctx, func() {
		_ = src.Close()
	})
	defer stop()

	var written int64

	buf := make([]byte, BufferSize)

	for {
		nr, readErr := src.Read(buf)
		if nr > 0 {
			nw, err := dst.Write(buf[:nr])
			if nw > 0 {
				written += int64(nw)
			}

			if err != nil {
				return written, &Error{Op: OpWrite, Err: err}
			}

			if nw != nr {
				return written, &Error{Op: OpWrite, Err: io.ErrShortWrite}
			}
		}

		if readErr == nil {
			continue
		}

		if ctx.Err() != nil {
			return written, context.Cause(ctx)
		}

		if errors.Is(readErr, io.EOF) {
			return written, nil
		}

		return written, &Error{Op: OpRead, Err: readErr}
	}
}
