package util

// DoOnErrOrPanic runs cleanup when *err is non-nil once the surrounding function returns, or when it is panicking, in
// which case the panic is re-raised afterwards. Use it as a deferred call with a named return error:
//
//	defer DoOnErrOrPanic(&retErr, func() {
//		_ = connPool.Close()
//	})
func DoOnErrOrPanic(err *error, cleanup func()) {
	// A pointer, so the final value of a named return is seen rather than its value when the defer was created.
	p := recover()
	if *err != nil || p != nil {
		cleanup()
	}
	if p != nil {
		panic(p)
	}
}
