package auth

type mockReader struct {
	readErr error
}

func (r mockReader) Read(p []byte) (n int, err error) {
	if r.readErr != nil {
		return 0, r.readErr
	}
	for i := range p {
		p[i] = byte(i)
	}
	return len(p), nil
}
