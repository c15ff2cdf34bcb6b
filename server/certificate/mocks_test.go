package certificate

import "bytes"

// recordingWriter buffers what is written to it unless it is set to fail.
type recordingWriter struct {
	bytes.Buffer
	failWith error
}

func (w *recordingWriter) Write(p []byte) (int, error) {
	if w.failWith != nil {
		return 0, w.failWith
	}
	return w.Buffer.Write(p)
}
