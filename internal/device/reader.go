package device

// Reader runs the read loop for one session. Every chunk the port
// delivers is handed to the callback on the reader goroutine; the
// callback owns all further processing. Stop unsubscribes the callback
// and waits for the goroutine to exit, so no chunk is delivered after
// Stop returns.
type Reader struct {
	stopCh chan struct{}
	doneCh chan struct{}
}

// StartReader begins reading from port, invoking onChunk with a private
// copy of each received chunk.
func StartReader(port Port, onChunk func([]byte)) *Reader {
	r := &Reader{
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}

	go func() {
		defer close(r.doneCh)

		buf := make([]byte, 1024)
		for {
			select {
			case <-r.stopCh:
				return
			default:
			}

			n, err := port.Read(buf)
			if n > 0 {
				chunk := make([]byte, n)
				copy(chunk, buf[:n])
				onChunk(chunk)
			}
			if err != nil {
				// Port gone or closed underneath us. The session stays
				// up; reconnecting is the user's call.
				return
			}
		}
	}()

	return r
}

// Stop ends the read loop and blocks until it has exited.
func (r *Reader) Stop() {
	select {
	case <-r.stopCh:
	default:
		close(r.stopCh)
	}
	<-r.doneCh
}
