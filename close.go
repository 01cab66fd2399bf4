package imgsearch

// Close stops background cache maintenance. Later calls to Search, Save, Load
// and BuildDatabase return ErrClosed. Close is idempotent.
func (e *Engine) Close() error {
	if e == nil || !e.closed.CompareAndSwap(false, true) {
		return nil
	}

	e.cache.Clear()

	return e.cache.Close()
}
